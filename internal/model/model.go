package model

// Role is the closed set of caller roles. RoleUnknown covers callers whose
// identifier matches no user row; every gate treats it as a plain mismatch.
type Role int

const (
	RoleUnknown Role = iota
	RoleAdmin
	RoleTeacher
	RoleStudent
)

// Numeric tags stored in users.role_id.
const (
	roleIDAdmin   = 1
	roleIDTeacher = 2
	roleIDStudent = 3
)

func RoleFromID(id int) Role {
	switch id {
	case roleIDAdmin:
		return RoleAdmin
	case roleIDTeacher:
		return RoleTeacher
	case roleIDStudent:
		return RoleStudent
	default:
		return RoleUnknown
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleTeacher:
		return "teacher"
	case RoleStudent:
		return "student"
	default:
		return "unknown"
	}
}

// ParseRole is the inverse of String, used when roles come back from the
// cache. Unrecognized values resolve to RoleUnknown.
func ParseRole(value string) Role {
	switch value {
	case "admin":
		return RoleAdmin
	case "teacher":
		return RoleTeacher
	case "student":
		return RoleStudent
	default:
		return RoleUnknown
	}
}

type User struct {
	ID     int64
	Name   string
	RoleID int
}

type Course struct {
	ID          int64
	Title       string
	IsAvailable bool
	TeacherID   *int64
}

type Enrollment struct {
	ID       int64
	UserID   int64
	CourseID int64
	Mark     *int32
}

// AvailableCourse is one row of the public listing: the course title joined
// with the assigned teacher's name. Name is nil when no teacher is assigned.
type AvailableCourse struct {
	Title string  `json:"Title"`
	Name  *string `json:"Name"`
}
