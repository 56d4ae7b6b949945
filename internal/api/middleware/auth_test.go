package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edulytics/edulytics-server/internal/api/middleware"
	"github.com/edulytics/edulytics-server/internal/api/respond"
	"github.com/edulytics/edulytics-server/internal/auth"
	"github.com/edulytics/edulytics-server/internal/domain"
	"github.com/edulytics/edulytics-server/internal/observability"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthenticator(t *testing.T) (middleware.CookieAuthenticator, *auth.TokenCodec) {
	t.Helper()
	codec, err := auth.NewTokenCodec([]byte("middleware-test-secret"), time.Hour)
	require.NoError(t, err)
	return middleware.CookieAuthenticator{
		Tokens:  codec,
		Cookies: auth.NewCookieTransport("", false, time.Hour),
	}, codec
}

// okHandler echoes the identity Guard attached.
func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := middleware.IdentityFrom(r.Context())
		require.True(t, ok)
		respond.JSON(w, http.StatusOK, map[string]string{"id": id.ID.String(), "role": string(id.Role)})
	})
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body respond.Message
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Message
}

func TestGuard(t *testing.T) {
	authn, codec := newAuthenticator(t)
	teacherID := uuid.New()
	teacherToken, _, err := codec.Issue(teacherID, domain.RoleTeacher)
	require.NoError(t, err)
	studentToken, _, err := codec.Issue(uuid.New(), domain.RoleStudent)
	require.NoError(t, err)

	otherCodec, err := auth.NewTokenCodec([]byte("someone-else"), time.Hour)
	require.NoError(t, err)
	forgedToken, _, err := otherCodec.Issue(teacherID, domain.RoleTeacher)
	require.NoError(t, err)

	tests := []struct {
		name       string
		cookie     string
		authz      []middleware.Authorizer
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "no cookie",
			wantStatus: http.StatusUnauthorized,
			wantMsg:    middleware.MsgNotAuthenticated,
		},
		{
			name:       "garbage cookie",
			cookie:     "not-a-token",
			wantStatus: http.StatusUnauthorized,
			wantMsg:    middleware.MsgInvalidToken,
		},
		{
			name:       "token signed with another secret",
			cookie:     forgedToken,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    middleware.MsgInvalidToken,
		},
		{
			name:       "authenticated without requirement",
			cookie:     studentToken,
			wantStatus: http.StatusOK,
		},
		{
			name:       "teacher route rejects student",
			cookie:     studentToken,
			authz:      []middleware.Authorizer{middleware.RequireRole(domain.RoleTeacher)},
			wantStatus: http.StatusForbidden,
			wantMsg:    middleware.MsgAccessDenied,
		},
		{
			name:       "teacher route accepts teacher",
			cookie:     teacherToken,
			authz:      []middleware.Authorizer{middleware.RequireRole(domain.RoleTeacher)},
			wantStatus: http.StatusOK,
		},
		{
			name:       "any of several roles",
			cookie:     studentToken,
			authz:      []middleware.Authorizer{middleware.RequireRole(domain.RoleTeacher, domain.RoleStudent)},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.Guard(authn, nil, tt.authz...)(okHandler(t))

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, decodeMessage(t, rec))
			}
		})
	}
}

func TestGuard_StopsAtFirstFailingAuthorizer(t *testing.T) {
	authn, codec := newAuthenticator(t)
	token, _, err := codec.Issue(uuid.New(), domain.RoleStudent)
	require.NoError(t, err)

	var reached bool
	spy := authorizerFunc(func(auth.Identity) error {
		reached = true
		return nil
	})

	handler := middleware.Guard(authn, nil, middleware.RequireRole(domain.RoleTeacher), spy)(okHandler(t))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)
}

func TestGuard_RecordsMetrics(t *testing.T) {
	authn, codec := newAuthenticator(t)
	metrics := observability.NewMetrics()
	token, _, err := codec.Issue(uuid.New(), domain.RoleStudent)
	require.NoError(t, err)

	handler := middleware.Guard(authn, metrics, middleware.RequireRole(domain.RoleTeacher))(okHandler(t))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.AuthEvents.WithLabelValues("authenticate", observability.OutcomeRejected)))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.AuthEvents.WithLabelValues("authorize", observability.OutcomeForbidden)))
}

type authorizerFunc func(auth.Identity) error

func (f authorizerFunc) Authorize(id auth.Identity) error { return f(id) }
