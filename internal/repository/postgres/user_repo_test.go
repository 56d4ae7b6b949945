package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/edulytics/edulytics-server/internal/domain"
	"github.com/edulytics/edulytics-server/internal/repository/postgres"
	"github.com/edulytics/edulytics-server/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	tests := []struct {
		name    string
		user    *domain.User
		wantErr error
	}{
		{
			name: "successful creation",
			user: &domain.User{
				ID:           uuid.New(),
				Name:         "Ann Lee",
				Email:        "ann@x.io",
				PasswordHash: "hashedpassword",
				Role:         domain.RoleTeacher,
			},
		},
		{
			name: "duplicate email",
			user: &domain.User{
				ID:           uuid.New(),
				Name:         "Ann Other",
				Email:        "ann@x.io",
				PasswordHash: "hashedpassword2",
				Role:         domain.RoleStudent,
			},
			wantErr: domain.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.user)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.False(t, tt.user.CreatedAt.IsZero())
		})
	}
}

func TestUserRepository_RejectsInvalidRows(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	tests := []struct {
		name string
		user *domain.User
	}{
		{"unknown role", &domain.User{ID: uuid.New(), Name: "A", Email: "a@x.io", PasswordHash: "h", Role: "ADMIN"}},
		{"uppercase email", &domain.User{ID: uuid.New(), Name: "A", Email: "A@x.io", PasswordHash: "h", Role: domain.RoleTeacher}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.user)
			require.Error(t, err)
			assert.False(t, errors.Is(err, domain.ErrEmailTaken))
		})
	}
}

func TestUserRepository_Get(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().WithEmail("ann@x.io").Build(t, testDB.DB)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@x.io", byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "ann@x.io")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = repo.GetByEmail(ctx, "nobody@x.io")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
