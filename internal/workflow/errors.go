package workflow

// The error taxonomy the HTTP layer maps to status codes. Anything not
// matching one of these types is a store failure and answers 500 with the
// detail kept out of the response body.

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

type PermissionError struct {
	msg string
}

func (e *PermissionError) Error() string { return e.msg }

type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string { return e.msg }
