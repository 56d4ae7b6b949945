package service

import (
	"log/slog"

	"github.com/edulytics/edulytics-server/internal/auth"
	"github.com/edulytics/edulytics-server/internal/observability"
	"github.com/edulytics/edulytics-server/internal/repository"
)

type Services struct {
	Auth      *AuthService
	Academics *AcademicsService
	Topic     *TopicService
}

func NewServices(
	repos *repository.Repositories,
	hasher auth.PasswordHasher,
	tokens *auth.TokenCodec,
	metrics *observability.Metrics,
	log *slog.Logger,
) *Services {
	return &Services{
		Auth:      NewAuthService(repos, hasher, tokens, metrics, log),
		Academics: NewAcademicsService(repos, log),
		Topic:     NewTopicService(repos),
	}
}
