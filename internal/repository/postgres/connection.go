package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/edulytics/edulytics-server/internal/repository"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectAttempts = 5

// NewConnection opens the database, retrying with exponential backoff while
// the server is unreachable, and verifies it with a ping.
func NewConnection(ctx context.Context, databaseURL string, log *slog.Logger) (*gorm.DB, error) {
	var db *gorm.DB

	backoff := retry.WithMaxRetries(connectAttempts-1, retry.NewExponential(500*time.Millisecond))
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		conn, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			log.Warn("database not reachable", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			log.Warn("database ping failed", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}

		db = conn
		return nil
	})
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("attempts", attempt).Wrap(err)
	}

	log.Info("connected to database", "attempts", attempt)
	return db, nil
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:           NewUserRepository(db),
		StudentProfile: NewStudentProfileRepository(db),
		Academics:      NewAcademicsRepository(db),
		Topic:          NewTopicRepository(db),
		Transactor:     NewTransactor(db),
	}
}
