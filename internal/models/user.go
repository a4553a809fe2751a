package models

import "time"

type Role string

const (
	RoleUser   Role = "user"
	RoleLeader Role = "leader"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleLeader:
		return Role(s), true
	}
	return "", false
}

type Profile struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	CreatedAt time.Time `db:"created_at"`
}

type UserRole struct {
	UserID int64 `db:"user_id"`
	Role   Role  `db:"role"`
}
