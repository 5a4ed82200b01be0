package types

import (
	"time"

	"github.com/google/uuid"
)

// Test is an assessment attached to a course. Mutated only by the course's
// owning teacher.
type Test struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Course    *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Title     string    `gorm:"not null;column:title" json:"title"`
	HeldAt    time.Time `gorm:"column:held_at" json:"held_at"`
	MaxScore  int       `gorm:"not null;default:100;column:max_score" json:"max_score"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Test) TableName() string { return "test" }
