package postgres

import (
	"context"

	"github.com/edulytics/edulytics-server/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type topicRepository struct {
	db *gorm.DB
}

func NewTopicRepository(db *gorm.DB) *topicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) Create(ctx context.Context, topic *domain.Topic) error {
	return translateTopicError(conn(ctx, r.db).Create(topic).Error)
}

func (r *topicRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID, semesterID uint) ([]*domain.Topic, error) {
	var topics []*domain.Topic
	err := conn(ctx, r.db).
		Where("semester_id = ? AND teacher_id = ?", semesterID, teacherID).
		Order("created_at DESC, id DESC").
		Find(&topics).Error
	if err != nil {
		return nil, err
	}
	return topics, nil
}

// Rename only touches a topic owned by teacherID; anything else is not found.
func (r *topicRepository) Rename(ctx context.Context, id uint, teacherID uuid.UUID, name string) error {
	result := conn(ctx, r.db).
		Model(&domain.Topic{}).
		Where("id = ? AND teacher_id = ?", id, teacherID).
		Update("name", name)
	if result.Error != nil {
		return translateTopicError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrTopicNotFound
	}
	return nil
}

func (r *topicRepository) Delete(ctx context.Context, id uint, teacherID uuid.UUID) error {
	result := conn(ctx, r.db).
		Where("id = ? AND teacher_id = ?", id, teacherID).
		Delete(&domain.Topic{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrTopicNotFound
	}
	return nil
}

func translateTopicError(err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return domain.ErrTopicExists
	case isForeignKeyViolation(err) && constraintName(err) == "topics_semester_id_fkey":
		return domain.NewValidationError("semesterId", "semester does not exist")
	}
	return err
}
