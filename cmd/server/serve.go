package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/edulytics/edulytics-server/internal/api"
	"github.com/edulytics/edulytics-server/internal/auth"
	"github.com/edulytics/edulytics-server/internal/config"
	"github.com/edulytics/edulytics-server/internal/logging"
	"github.com/edulytics/edulytics-server/internal/migrations"
	"github.com/edulytics/edulytics-server/internal/observability"
	"github.com/edulytics/edulytics-server/internal/ratelimit"
	"github.com/edulytics/edulytics-server/internal/repository/postgres"
	"github.com/edulytics/edulytics-server/internal/service"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  `Apply pending migrations and serve the HTTP API until interrupted.`,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, log); err != nil {
		logging.LogError(log, "server stopped with error", err)
		return err
	}
	return nil
}

func serve(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	if err := migrations.Up(cfg.Database.URL); err != nil {
		return err
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	db, err := postgres.NewConnection(connectCtx, cfg.Database.URL, log)
	cancel()
	if err != nil {
		return err
	}
	defer postgres.Close(db)

	tokens, err := auth.NewTokenCodec([]byte(cfg.Auth.JWTSecret), config.SessionTTL)
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	if cfg.IsProduction() && !cfg.Cookie.Secure {
		log.Warn("session cookie is not marked Secure in production")
	}
	cookies := auth.NewCookieTransport(cfg.Cookie.Domain, cfg.Cookie.Secure, config.SessionTTL)
	metrics := observability.NewMetrics()

	var limiter ratelimit.Limiter
	if cfg.Redis.Addr != "" {
		rl, err := ratelimit.NewRedisLimiter(ctx, ratelimit.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, log)
		if err != nil {
			return err
		}
		defer rl.Close()
		limiter = rl
		log.Info("login throttling enabled", "per_minute", cfg.RateLimit.LoginPerMinute)
	}

	repos := postgres.NewRepositories(db)
	services := service.NewServices(repos, auth.NewBcryptHasher(auth.DefaultBcryptCost), tokens, metrics, log)

	router := api.NewRouter(api.Deps{
		Services: services,
		Tokens:   tokens,
		Cookies:  cookies,
		Limiter:  limiter,
		Metrics:  metrics,
		Config:   cfg,
		Logger:   log,
	})

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return oops.Code("SERVER_LISTEN_FAILED").With("port", cfg.Server.Port).Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return oops.Code("SERVER_SHUTDOWN_FAILED").Wrap(err)
	}

	log.Info("server stopped")
	return nil
}
