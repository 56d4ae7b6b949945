package domain

import (
	"time"

	"github.com/google/uuid"
)

// Skill levels are self-assessed at signup on a 0..5 scale.
const (
	MinSkillLevel = 0
	MaxSkillLevel = 5
)

// StudentProfile exists for every STUDENT user and for no other user.
type StudentProfile struct {
	StudentID     uuid.UUID `json:"studentId" gorm:"type:uuid;primaryKey"`
	SemesterID    uint      `json:"semesterId" gorm:"not null"`
	FrontendLevel int       `json:"frontendLevel" gorm:"not null"`
	BackendLevel  int       `json:"backendLevel" gorm:"not null"`
	MobileLevel   int       `json:"mobileLevel" gorm:"not null;default:0"`
	UIUXLevel     int       `json:"uiuxLevel" gorm:"column:uiux_level;not null;default:0"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TableName returns the table name for GORM
func (StudentProfile) TableName() string {
	return "student_profiles"
}

// Validate checks if the profile has valid values
func (p *StudentProfile) Validate() error {
	if p.SemesterID == 0 {
		return NewValidationError("semester_id", "semester_id is required")
	}
	levels := []struct {
		field string
		value int
	}{
		{"frontend_level", p.FrontendLevel},
		{"backend_level", p.BackendLevel},
		{"mobile_level", p.MobileLevel},
		{"uiux_level", p.UIUXLevel},
	}
	for _, l := range levels {
		if l.value < MinSkillLevel || l.value > MaxSkillLevel {
			return NewValidationError(l.field, l.field+" must be between 0 and 5")
		}
	}
	return nil
}
