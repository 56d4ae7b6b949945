package testutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/edulytics/edulytics-server/internal/api"
	"github.com/edulytics/edulytics-server/internal/auth"
	"github.com/edulytics/edulytics-server/internal/config"
	"github.com/edulytics/edulytics-server/internal/migrations"
	"github.com/edulytics/edulytics-server/internal/observability"
	"github.com/edulytics/edulytics-server/internal/ratelimit"
	"github.com/edulytics/edulytics-server/internal/repository"
	repoPostgres "github.com/edulytics/edulytics-server/internal/repository/postgres"
	"github.com/edulytics/edulytics-server/internal/service"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB starts a PostgreSQL container, applies the embedded migrations
// and returns a connection. It skips the test in -short mode.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:16-alpine",
		tcPostgres.WithDatabase("test_edulytics"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	testDB := &TestDB{Container: container}
	t.Cleanup(testDB.Cleanup)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}
	testDB.DSN = dsn

	if err := migrations.Up(dsn); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	testDB.DB = db

	return testDB
}

// Cleanup closes the pool and terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.DB != nil {
		_ = repoPostgres.Close(tdb.DB)
	}
	if tdb.Container != nil {
		_ = tdb.Container.Terminate(context.Background())
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	tables := []string{"topics", "student_profiles", "users", "semesters", "courses"}
	stmt := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", "))
	if err := tdb.DB.Exec(stmt).Error; err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	cfg := config.Default()
	cfg.Server.Port = "0"
	cfg.Server.Environment = "test"
	cfg.Auth.JWTSecret = "test-jwt-secret-key-for-testing-only"
	cfg.RateLimit.LoginPerMinute = 0
	return cfg
}

// Discard is a logger for tests that do not inspect log output.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	DB       *TestDB
	Repos    *repository.Repositories
	Services *service.Services
	Tokens   *auth.TokenCodec
	Metrics  *observability.Metrics
	Config   *config.Config
}

type ServerOption func(*serverOptions)

type serverOptions struct {
	limiter ratelimit.Limiter
	cfg     func(*config.Config)
}

// WithLimiter enables login throttling with the given limiter.
func WithLimiter(l ratelimit.Limiter) ServerOption {
	return func(o *serverOptions) { o.limiter = l }
}

func WithConfig(fn func(*config.Config)) ServerOption {
	return func(o *serverOptions) { o.cfg = fn }
}

// NewTestServer creates a complete test server with all dependencies. Password
// hashing uses bcrypt's minimum cost to keep tests fast.
func NewTestServer(t *testing.T, opts ...ServerOption) *TestServer {
	t.Helper()

	var o serverOptions
	for _, opt := range opts {
		opt(&o)
	}

	testDB := NewTestDB(t)
	cfg := TestConfig()
	if o.cfg != nil {
		o.cfg(cfg)
	}

	tokens, err := auth.NewTokenCodec([]byte(cfg.Auth.JWTSecret), config.SessionTTL)
	if err != nil {
		t.Fatalf("failed to build token codec: %v", err)
	}
	cookies := auth.NewCookieTransport(cfg.Cookie.Domain, cfg.Cookie.Secure, config.SessionTTL)
	metrics := observability.NewMetrics()
	log := Discard()

	repos := repoPostgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, auth.NewBcryptHasher(bcrypt.MinCost), tokens, metrics, log)
	router := api.NewRouter(api.Deps{
		Services: services,
		Tokens:   tokens,
		Cookies:  cookies,
		Limiter:  o.limiter,
		Metrics:  metrics,
		Config:   cfg,
		Logger:   log,
	})

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       testDB,
		Repos:    repos,
		Services: services,
		Tokens:   tokens,
		Metrics:  metrics,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api%s", ts.Server.URL, path)
}

// NewClient returns an HTTP client with its own cookie jar, acting as one
// browser session.
func (ts *TestServer) NewClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	return &http.Client{Jar: jar, Timeout: 10 * time.Second}
}
