package workflow

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/meelsaw/database-final-assignment/internal/model"
)

// Store is the slice of the relational store the workflow engine consumes.
// Reads surface pgx.ErrNoRows when nothing matches; writes report the
// affected-row count.
type Store interface {
	GetUserRole(ctx context.Context, userID int64) (model.Role, error)
	SetCourseAvailability(ctx context.Context, courseID int64, available bool) (int64, error)
	AssignCourseTeacher(ctx context.Context, courseID, teacherID int64) (int64, error)
	ListCourseTitles(ctx context.Context) ([]string, error)
	ListAvailableCourses(ctx context.Context) ([]model.AvailableCourse, error)
	EnrollmentExists(ctx context.Context, studentID, courseID int64) (bool, error)
	CreateEnrollment(ctx context.Context, studentID, courseID int64) error
	SetEnrollmentMark(ctx context.Context, studentID, courseID int64, mark int32) (int64, error)
}

// Service runs the role-gated state transitions. Every mutating operation
// resolves the caller's role first and short-circuits before touching the
// store when the role does not match exactly.
type Service struct {
	store    Store
	resolver *RoleResolver
	logger   *zap.Logger
}

func NewService(store Store, resolver *RoleResolver, logger *zap.Logger) *Service {
	return &Service{store: store, resolver: resolver, logger: logger}
}

// requireRole gates an operation on the caller resolving to exactly the
// required role. Admin does not imply teacher or student privileges.
func (s *Service) requireRole(ctx context.Context, callerID int64, required model.Role, denied string) error {
	role, err := s.resolver.Resolve(ctx, callerID)
	if err != nil {
		return err
	}
	if role != required {
		return &PermissionError{msg: denied}
	}
	return nil
}

// SetCourseAvailability toggles a course's availability flag. The range
// guard runs before the role gate, so an out-of-range value is a 400 for
// any caller. Repeating the same value is a no-op update and succeeds.
func (s *Service) SetCourseAvailability(ctx context.Context, callerID, courseID int64, value int) (string, error) {
	available, err := ValidateAvailability(value)
	if err != nil {
		return "", err
	}
	if err := s.requireRole(ctx, callerID, model.RoleAdmin, "Permission denied. Only admins can perform this action."); err != nil {
		return "", err
	}
	if _, err := s.store.SetCourseAvailability(ctx, courseID, available); err != nil {
		return "", err
	}
	state := "unavailable"
	if available {
		state = "available"
	}
	return "Course is now " + state, nil
}

// AssignmentOutcome is one batch item's result. CourseID holds the raw
// token from the request, which may not even be numeric.
type AssignmentOutcome struct {
	CourseID string
	Err      error
}

// BatchReport aggregates the per-item outcomes of one assignment batch.
type BatchReport struct {
	Outcomes []AssignmentOutcome
}

func (r BatchReport) Failed() []AssignmentOutcome {
	failed := make([]AssignmentOutcome, 0)
	for _, outcome := range r.Outcomes {
		if outcome.Err != nil {
			failed = append(failed, outcome)
		}
	}
	return failed
}

// AssignCourses sets the assigned teacher on every course in the delimited
// id list. Items are independent: a malformed or missing course id is
// recorded against that item and the rest of the batch still runs. The
// report is built only after the last item completed; failures are logged
// here since the aggregate response to the caller stays a confirmation.
func (s *Service) AssignCourses(ctx context.Context, callerID, teacherID int64, courseIDs string) (BatchReport, error) {
	if err := s.requireRole(ctx, callerID, model.RoleAdmin, "Permission denied. Only admins can perform this action."); err != nil {
		return BatchReport{}, err
	}
	if teacherID == 0 {
		return BatchReport{}, &ValidationError{msg: "Invalid teacherId."}
	}
	tokens, err := SplitCourseIDs(courseIDs)
	if err != nil {
		return BatchReport{}, err
	}

	report := BatchReport{Outcomes: make([]AssignmentOutcome, 0, len(tokens))}
	for _, token := range tokens {
		report.Outcomes = append(report.Outcomes, AssignmentOutcome{
			CourseID: token,
			Err:      s.assignOne(ctx, token, teacherID),
		})
	}
	for _, outcome := range report.Failed() {
		s.logger.Error("course assignment item failed",
			zap.String("courseId", outcome.CourseID),
			zap.Int64("teacherId", teacherID),
			zap.Error(outcome.Err))
	}
	return report, nil
}

func (s *Service) assignOne(ctx context.Context, token string, teacherID int64) error {
	courseID, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return &ValidationError{msg: fmt.Sprintf("invalid course id %q", token)}
	}
	rows, err := s.store.AssignCourseTeacher(ctx, courseID, teacherID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return &NotFoundError{msg: fmt.Sprintf("course %d not found", courseID)}
	}
	return nil
}

// ListCourses returns every course title. Public.
func (s *Service) ListCourses(ctx context.Context) ([]string, error) {
	return s.store.ListCourseTitles(ctx)
}

// ListAvailableCourses returns the available courses joined with the
// assigned teacher's name. Public.
func (s *Service) ListAvailableCourses(ctx context.Context) ([]model.AvailableCourse, error) {
	return s.store.ListAvailableCourses(ctx)
}

// Enroll inserts an enrollment for the calling student. The existence check
// runs immediately before the insert; the store's unique constraint on
// (user_id, course_id) catches the remaining race and maps to the same
// duplicate error.
func (s *Service) Enroll(ctx context.Context, callerID, courseID int64) (string, error) {
	if err := s.requireRole(ctx, callerID, model.RoleStudent, "Permission denied. Only students can enroll in a course."); err != nil {
		return "", err
	}
	exists, err := s.store.EnrollmentExists(ctx, callerID, courseID)
	if err != nil {
		return "", err
	}
	if exists {
		return "", &ValidationError{msg: "Student is already enrolled in the course."}
	}
	if err := s.store.CreateEnrollment(ctx, callerID, courseID); err != nil {
		if isUniqueViolation(err) {
			return "", &ValidationError{msg: "Student is already enrolled in the course."}
		}
		return "", err
	}
	return "Student enrolled in the course successfully", nil
}

// Grade sets the mark on an existing enrollment. The gate subject is the
// grader, not the student being graded. An update matching no enrollment is
// a not-found, distinct from the permission and validation failures.
func (s *Service) Grade(ctx context.Context, graderID, studentID, courseID int64, mark int32) (string, error) {
	if err := s.requireRole(ctx, graderID, model.RoleTeacher, "Permission denied. Only teachers can update student marks."); err != nil {
		return "", err
	}
	rows, err := s.store.SetEnrollmentMark(ctx, studentID, courseID, mark)
	if err != nil {
		return "", err
	}
	if rows == 0 {
		return "", &NotFoundError{msg: "Enrolment not found"}
	}
	return "Student mark updated successfully", nil
}
