package workflow

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ValidateAvailability accepts exactly 0 or 1. The original API let
// negative values slip through as falsy; they are rejected here.
func ValidateAvailability(value int) (bool, error) {
	switch value {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, &ValidationError{msg: "Invalid value for isAvailable. Must be an int (1 or 0)."}
	}
}

// SplitCourseIDs splits the caller-supplied delimited id list into tokens,
// preserving order. Tokens are not parsed here: a malformed id must fail as
// a batch item, not abort the whole batch. An empty list is rejected.
func SplitCourseIDs(raw string) ([]string, error) {
	parts := strings.Split(raw, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tokens = append(tokens, part)
	}
	if len(tokens) == 0 {
		return nil, &ValidationError{msg: "courseIds must contain at least one course id."}
	}
	return tokens, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
