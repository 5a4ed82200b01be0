package types

import (
	"time"

	"github.com/google/uuid"
)

// User is the canonical profile record. Username is the stable identity:
// it is unique, user-chosen, and what sessions bind to. Password and Salt
// never serialize; profile reads must never leak them.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null;column:username" json:"username"`
	Password  string    `gorm:"not null;column:password" json:"-"`
	Salt      string    `gorm:"not null;column:salt" json:"-"`
	FirstName string    `gorm:"column:first_name" json:"first_name"`
	LastName  string    `gorm:"column:last_name" json:"last_name"`
	Role      string    `gorm:"not null;column:role" json:"role"`
	AvatarURL string    `gorm:"column:avatar_url" json:"avatar_url"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }

const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// DisplayName is what the published-course projection shows for a teacher.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Sanitized returns a copy safe to echo back to any caller. The JSON tags
// already hide the secret fields; this clears them for code paths that
// hand the struct to anything other than the JSON encoder.
func (u User) Sanitized() User {
	u.Password = ""
	u.Salt = ""
	return u
}
