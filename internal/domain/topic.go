package domain

import (
	"time"

	"github.com/google/uuid"
)

// Topic is a teacher-owned syllabus entry within a semester.
type Topic struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	SemesterID uint      `json:"semesterId" gorm:"not null"`
	TeacherID  uuid.UUID `json:"teacherId" gorm:"type:uuid;not null"`
	Name       string    `json:"name" gorm:"not null"`
	CreatedAt  time.Time `json:"createdAt"`
}
