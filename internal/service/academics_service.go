package service

import (
	"context"
	"log/slog"

	"github.com/edulytics/edulytics-server/internal/domain"
	"github.com/edulytics/edulytics-server/internal/repository"
	"github.com/samber/oops"
)

// SemestersPerCourse is the number of semesters seeded for every course.
const SemestersPerCourse = 8

// DefaultCourses is the catalogue installed by Seed.
var DefaultCourses = []domain.Course{
	{Code: "BCA", Name: "Bachelor of Computer Applications"},
	{Code: "CSIT", Name: "Computer Science and Information Technology"},
}

type AcademicsService struct {
	academics repository.AcademicsRepository
	tx        repository.Transactor
	log       *slog.Logger
}

func NewAcademicsService(repos *repository.Repositories, log *slog.Logger) *AcademicsService {
	return &AcademicsService{
		academics: repos.Academics,
		tx:        repos.Transactor,
		log:       log,
	}
}

func (s *AcademicsService) ListCourses(ctx context.Context) ([]*domain.Course, error) {
	return s.academics.ListCourses(ctx)
}

func (s *AcademicsService) ListSemesters(ctx context.Context, courseID uint) ([]*domain.Semester, error) {
	if courseID == 0 {
		return nil, domain.NewValidationError("courseId", "courseId is required")
	}
	return s.academics.ListSemesters(ctx, courseID)
}

// Seed installs DefaultCourses with their semesters. Running it again
// changes nothing.
func (s *AcademicsService) Seed(ctx context.Context) error {
	err := s.tx.InTransaction(ctx, func(ctx context.Context) error {
		for _, c := range DefaultCourses {
			course := c
			if err := s.academics.UpsertCourse(ctx, &course); err != nil {
				return oops.With("course", course.Code).Wrap(err)
			}
			for no := 1; no <= SemestersPerCourse; no++ {
				if err := s.academics.EnsureSemester(ctx, course.ID, no); err != nil {
					return oops.With("course", course.Code, "semester_no", no).Wrap(err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return oops.Code("ACADEMICS_SEED_FAILED").Wrap(err)
	}
	s.log.Info("academics seeded", "courses", len(DefaultCourses), "semesters_per_course", SemestersPerCourse)
	return nil
}
