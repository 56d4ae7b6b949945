package postgres

import (
	"context"

	"github.com/edulytics/edulytics-server/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type academicsRepository struct {
	db *gorm.DB
}

func NewAcademicsRepository(db *gorm.DB) *academicsRepository {
	return &academicsRepository{db: db}
}

func (r *academicsRepository) ListCourses(ctx context.Context) ([]*domain.Course, error) {
	var courses []*domain.Course
	err := conn(ctx, r.db).Order("code ASC").Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *academicsRepository) ListSemesters(ctx context.Context, courseID uint) ([]*domain.Semester, error) {
	var semesters []*domain.Semester
	err := conn(ctx, r.db).
		Where("course_id = ?", courseID).
		Order("semester_no ASC").
		Find(&semesters).Error
	if err != nil {
		return nil, err
	}
	return semesters, nil
}

// UpsertCourse inserts the course or renames the existing one with the same
// code. course.ID is populated either way.
func (r *academicsRepository) UpsertCourse(ctx context.Context, course *domain.Course) error {
	return conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).
		Create(course).Error
}

func (r *academicsRepository) EnsureSemester(ctx context.Context, courseID uint, semesterNo int) error {
	return conn(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.Semester{CourseID: courseID, SemesterNo: semesterNo}).Error
}
