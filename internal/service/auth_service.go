package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/edulytics/edulytics-server/internal/auth"
	"github.com/edulytics/edulytics-server/internal/domain"
	"github.com/edulytics/edulytics-server/internal/observability"
	"github.com/edulytics/edulytics-server/internal/repository"
	"github.com/google/uuid"
	"github.com/samber/oops"
)

type AuthService struct {
	users    repository.UserRepository
	profiles repository.StudentProfileRepository
	tx       repository.Transactor
	hasher   auth.PasswordHasher
	tokens   *auth.TokenCodec
	metrics  *observability.Metrics
	log      *slog.Logger
}

func NewAuthService(
	repos *repository.Repositories,
	hasher auth.PasswordHasher,
	tokens *auth.TokenCodec,
	metrics *observability.Metrics,
	log *slog.Logger,
) *AuthService {
	return &AuthService{
		users:    repos.User,
		profiles: repos.StudentProfile,
		tx:       repos.Transactor,
		hasher:   hasher,
		tokens:   tokens,
		metrics:  metrics,
		log:      log,
	}
}

// RegisterInput is the signup payload. Student fields are pointers so that
// an absent field can be told apart from a zero level.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=120,alphaspace"`
	Email    string `json:"email" validate:"required,max=180,email"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
	Role     string `json:"role" validate:"required,oneof=TEACHER STUDENT"`

	SemesterID    *int `json:"semester_id"`
	FrontendLevel *int `json:"frontend_level"`
	BackendLevel  *int `json:"backend_level"`
	MobileLevel   *int `json:"mobile_level"`
	UIUXLevel     *int `json:"uiux_level"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
}

type LoginResult struct {
	User      domain.SafeUser
	Token     string
	ExpiresAt time.Time
}

// Register creates the account, and the student profile for students, in a
// single transaction. Nothing is written when any step fails.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (uuid.UUID, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = domain.NormalizeEmail(input.Email)

	if err := validateStruct(&input); err != nil {
		s.metrics.RecordAuthEvent("register", observability.OutcomeInvalid)
		return uuid.Nil, err
	}
	role := domain.Role(input.Role)
	profile, err := input.studentProfile(role)
	if err != nil {
		s.metrics.RecordAuthEvent("register", observability.OutcomeInvalid)
		return uuid.Nil, err
	}

	user := &domain.User{
		ID:    uuid.New(),
		Name:  input.Name,
		Email: input.Email,
		Role:  role,
	}

	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.users.GetByEmail(ctx, user.Email); err == nil {
			return domain.ErrEmailTaken
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return err
		}

		digest, err := s.hasher.Hash(input.Password)
		if err != nil {
			return err
		}
		user.PasswordHash = digest

		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
		if profile == nil {
			return nil
		}
		profile.StudentID = user.ID
		return s.profiles.Create(ctx, profile)
	})

	switch {
	case err == nil:
		s.metrics.RecordAuthEvent("register", observability.OutcomeSuccess)
		s.log.Info("user registered", "user_id", user.ID, "role", user.Role)
		return user.ID, nil
	case errors.Is(err, domain.ErrEmailTaken):
		s.metrics.RecordAuthEvent("register", observability.OutcomeConflict)
		return uuid.Nil, err
	case domain.IsValidationError(err):
		s.metrics.RecordAuthEvent("register", observability.OutcomeInvalid)
		return uuid.Nil, err
	default:
		s.metrics.RecordAuthEvent("register", observability.OutcomeError)
		return uuid.Nil, oops.Code("AUTH_REGISTER_FAILED").With("role", role).Wrap(err)
	}
}

// studentProfile builds the profile a STUDENT signup requires. A TEACHER
// signup must not carry any student field.
func (in *RegisterInput) studentProfile(role domain.Role) (*domain.StudentProfile, error) {
	fields := []struct {
		name  string
		value *int
	}{
		{"semester_id", in.SemesterID},
		{"frontend_level", in.FrontendLevel},
		{"backend_level", in.BackendLevel},
		{"mobile_level", in.MobileLevel},
		{"uiux_level", in.UIUXLevel},
	}

	if role != domain.RoleStudent {
		for _, f := range fields {
			if f.value != nil {
				return nil, domain.NewValidationError(f.name, f.name+" is not allowed")
			}
		}
		return nil, nil
	}

	for _, f := range fields[:3] {
		if f.value == nil {
			return nil, domain.NewValidationError(f.name, f.name+" is required")
		}
	}
	if *in.SemesterID <= 0 {
		return nil, domain.NewValidationError("semester_id", "semester_id must be a positive integer")
	}
	if *in.SemesterID > math.MaxInt32 {
		return nil, domain.NewValidationError("semester_id", "semester does not exist")
	}

	profile := &domain.StudentProfile{
		SemesterID:    uint(*in.SemesterID),
		FrontendLevel: *in.FrontendLevel,
		BackendLevel:  *in.BackendLevel,
	}
	if in.MobileLevel != nil {
		profile.MobileLevel = *in.MobileLevel
	}
	if in.UIUXLevel != nil {
		profile.UIUXLevel = *in.UIUXLevel
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return profile, nil
}

// Login verifies the credentials and issues a session token. An unknown
// email fails with domain.ErrUserNotFound, a wrong password with
// domain.ErrWrongPassword.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	input.Email = domain.NormalizeEmail(input.Email)
	if err := validateStruct(&input); err != nil {
		s.metrics.RecordAuthEvent("login", observability.OutcomeInvalid)
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.hasher.BurnVerify(input.Password)
		s.metrics.RecordAuthEvent("login", observability.OutcomeRejected)
		return nil, err
	}
	if err != nil {
		s.metrics.RecordAuthEvent("login", observability.OutcomeError)
		return nil, oops.Code("AUTH_LOGIN_FAILED").Wrap(err)
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		s.metrics.RecordAuthEvent("login", observability.OutcomeRejected)
		return nil, domain.ErrWrongPassword
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		s.metrics.RecordAuthEvent("login", observability.OutcomeError)
		return nil, oops.Code("AUTH_LOGIN_FAILED").With("user_id", user.ID).Wrap(err)
	}

	s.metrics.RecordAuthEvent("login", observability.OutcomeSuccess)
	return &LoginResult{
		User:      user.Safe(),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout only counts the event; sessions are not tracked server-side.
func (s *AuthService) Logout() {
	s.metrics.RecordAuthEvent("logout", observability.OutcomeSuccess)
}
