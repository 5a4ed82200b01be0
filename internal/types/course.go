package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Course is a canonical-store record owned by the teacher identified by
// TeacherUsername. Courses are never hard-deleted; unpublishing or the
// soft-delete marker takes them out of circulation.
type Course struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TeacherUsername string         `gorm:"not null;index;column:teacher_username" json:"teacher_username"`
	Title           string         `gorm:"not null;column:title" json:"title"`
	Description     string         `gorm:"column:description" json:"description"`
	StartDate       time.Time      `gorm:"column:start_date" json:"start_date"`
	EndDate         time.Time      `gorm:"column:end_date" json:"end_date"`
	Published       bool           `gorm:"not null;default:false;column:published" json:"published"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "course" }

// PublishedCourse is the denormalized read-cache projection of a published
// course plus its teacher's display name.
type PublishedCourse struct {
	CourseID    uuid.UUID `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TeacherName string    `json:"teacher_name"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}
