package repository

import (
	"context"

	"github.com/edulytics/edulytics-server/internal/domain"
	"github.com/google/uuid"
)

// UserRepository persists accounts. Emails are expected to be normalized by
// the caller; lookups miss with domain.ErrUserNotFound and a duplicate email
// on Create fails with domain.ErrEmailTaken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type StudentProfileRepository interface {
	Create(ctx context.Context, profile *domain.StudentProfile) error
	GetByStudentID(ctx context.Context, studentID uuid.UUID) (*domain.StudentProfile, error)
}

type AcademicsRepository interface {
	ListCourses(ctx context.Context) ([]*domain.Course, error)
	ListSemesters(ctx context.Context, courseID uint) ([]*domain.Semester, error)
	UpsertCourse(ctx context.Context, course *domain.Course) error
	EnsureSemester(ctx context.Context, courseID uint, semesterNo int) error
}

type TopicRepository interface {
	Create(ctx context.Context, topic *domain.Topic) error
	ListByTeacher(ctx context.Context, teacherID uuid.UUID, semesterID uint) ([]*domain.Topic, error)
	Rename(ctx context.Context, id uint, teacherID uuid.UUID, name string) error
	Delete(ctx context.Context, id uint, teacherID uuid.UUID) error
}

// Transactor runs fn inside one database transaction. Repository calls made
// with the context passed to fn join that transaction. fn returning an error
// rolls everything back.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Repositories struct {
	User           UserRepository
	StudentProfile StudentProfileRepository
	Academics      AcademicsRepository
	Topic          TopicRepository
	Transactor     Transactor
}
