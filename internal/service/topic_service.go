package service

import (
	"context"
	"strings"

	"github.com/edulytics/edulytics-server/internal/domain"
	"github.com/edulytics/edulytics-server/internal/repository"
	"github.com/google/uuid"
)

type TopicService struct {
	topics repository.TopicRepository
}

func NewTopicService(repos *repository.Repositories) *TopicService {
	return &TopicService{topics: repos.Topic}
}

type CreateTopicInput struct {
	SemesterID uint   `json:"semesterId" validate:"required,gt=0"`
	Name       string `json:"name" validate:"required,min=2,max=120"`
}

type RenameTopicInput struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
}

// List returns the teacher's topics in a semester, newest first.
func (s *TopicService) List(ctx context.Context, teacherID uuid.UUID, semesterID uint) ([]*domain.Topic, error) {
	if semesterID == 0 {
		return nil, domain.NewValidationError("semesterId", "semesterId is required")
	}
	return s.topics.ListByTeacher(ctx, teacherID, semesterID)
}

func (s *TopicService) Create(ctx context.Context, teacherID uuid.UUID, input CreateTopicInput) (*domain.Topic, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateStruct(&input); err != nil {
		return nil, err
	}

	topic := &domain.Topic{
		SemesterID: input.SemesterID,
		TeacherID:  teacherID,
		Name:       input.Name,
	}
	if err := s.topics.Create(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *TopicService) Rename(ctx context.Context, teacherID uuid.UUID, id uint, input RenameTopicInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateStruct(&input); err != nil {
		return err
	}
	return s.topics.Rename(ctx, id, teacherID, input.Name)
}

func (s *TopicService) Delete(ctx context.Context, teacherID uuid.UUID, id uint) error {
	return s.topics.Delete(ctx, id, teacherID)
}
