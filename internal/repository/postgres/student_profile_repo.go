package postgres

import (
	"context"
	"errors"

	"github.com/edulytics/edulytics-server/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type studentProfileRepository struct {
	db *gorm.DB
}

func NewStudentProfileRepository(db *gorm.DB) *studentProfileRepository {
	return &studentProfileRepository{db: db}
}

// Create inserts the profile. A semester that does not exist is reported as a
// validation error on semester_id; a level outside 0..5 on the offending column.
func (r *studentProfileRepository) Create(ctx context.Context, profile *domain.StudentProfile) error {
	err := conn(ctx, r.db).Create(profile).Error
	switch {
	case err == nil:
		return nil
	case isForeignKeyViolation(err) && constraintName(err) == "student_profiles_semester_id_fkey":
		return domain.NewValidationError("semester_id", "semester does not exist")
	case isCheckViolation(err):
		return domain.NewValidationError("", "skill levels must be between 0 and 5")
	}
	return err
}

func (r *studentProfileRepository) GetByStudentID(ctx context.Context, studentID uuid.UUID) (*domain.StudentProfile, error) {
	var profile domain.StudentProfile
	err := conn(ctx, r.db).First(&profile, "student_id = ?", studentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}
