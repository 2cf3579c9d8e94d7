package user

import "database/sql"

// Staff roles.
const (
	RoleStudent = "Student"
	RoleTeacher = "Teacher"
)

type User struct {
	ID           int64          `json:"id" db:"id"`
	Name         string         `json:"name" db:"name"`
	Email        sql.NullString `json:"email,omitempty" db:"email"`
	PasswordHash sql.NullString `json:"-" db:"password_hash"`
	Role         string         `json:"role" db:"role"`
}
