package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meelsaw/database-final-assignment/internal/model"
)

// Store wraps the connection pool with the parameterized queries the
// workflow engine needs. Reads surface pgx.ErrNoRows when nothing matches;
// writes return the affected-row count so callers can tell an update that
// missed from one that succeeded.
type Store struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

func NewStore(pool *pgxpool.Pool, queryTimeout time.Duration) *Store {
	return &Store{pool: pool, queryTimeout: queryTimeout}
}

// withDeadline bounds a single store round-trip. The deadline derives from
// the caller's context, so request cancellation aborts pending queries.
func (s *Store) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

func (s *Store) GetUserRole(ctx context.Context, userID int64) (model.Role, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	var roleID int
	row := s.pool.QueryRow(ctx, `
		SELECT role_id
		FROM users
		WHERE user_id = $1
	`, userID)
	if err := row.Scan(&roleID); err != nil {
		return model.RoleUnknown, err
	}
	return model.RoleFromID(roleID), nil
}

func (s *Store) SetCourseAvailability(ctx context.Context, courseID int64, available bool) (int64, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `
		UPDATE courses
		SET is_available = $1
		WHERE course_id = $2
	`, available, courseID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) AssignCourseTeacher(ctx context.Context, courseID, teacherID int64) (int64, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `
		UPDATE courses
		SET teacher_id = $1
		WHERE course_id = $2
	`, teacherID, courseID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) ListCourseTitles(ctx context.Context) ([]string, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT title
		FROM courses
		ORDER BY course_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	titles := make([]string, 0)
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

func (s *Store) ListAvailableCourses(ctx context.Context) ([]model.AvailableCourse, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT c.title, u.name
		FROM courses AS c
		LEFT JOIN users AS u ON u.user_id = c.teacher_id
		WHERE c.is_available
		ORDER BY c.course_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := make([]model.AvailableCourse, 0)
	for rows.Next() {
		var course model.AvailableCourse
		if err := rows.Scan(&course.Title, &course.Name); err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func (s *Store) EnrollmentExists(ctx context.Context, studentID, courseID int64) (bool, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	var exists bool
	row := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM enrolments
			WHERE user_id = $1 AND course_id = $2
		)
	`, studentID, courseID)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *Store) CreateEnrollment(ctx context.Context, studentID, courseID int64) error {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	// mark stays NULL until a grade operation fills it in.
	_, err := s.pool.Exec(ctx, `
		INSERT INTO enrolments (user_id, course_id)
		VALUES ($1, $2)
	`, studentID, courseID)
	return err
}

func (s *Store) SetEnrollmentMark(ctx context.Context, studentID, courseID int64, mark int32) (int64, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `
		UPDATE enrolments
		SET mark = $1
		WHERE user_id = $2 AND course_id = $3
	`, mark, studentID, courseID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
