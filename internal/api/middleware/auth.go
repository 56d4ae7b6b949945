package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/edulytics/edulytics-server/internal/api/respond"
	"github.com/edulytics/edulytics-server/internal/auth"
	"github.com/edulytics/edulytics-server/internal/domain"
	"github.com/edulytics/edulytics-server/internal/observability"
)

type contextKey string

const identityKey contextKey = "identity"

// Failure messages returned to the client.
const (
	MsgNotAuthenticated = "User not authenticated"
	MsgInvalidToken     = "Token is invalid or expired"
	MsgAccessDenied     = "Access denied"
)

// ErrAccessDenied is returned by authorizers that reject an identity.
var ErrAccessDenied = errors.New("access denied")

// Authenticator resolves the caller of a request.
type Authenticator interface {
	Authenticate(r *http.Request) (auth.Identity, error)
}

// Authorizer decides whether an authenticated identity may proceed.
type Authorizer interface {
	Authorize(id auth.Identity) error
}

// CookieAuthenticator reads the session cookie and decodes its token.
type CookieAuthenticator struct {
	Tokens  *auth.TokenCodec
	Cookies *auth.CookieTransport
}

func (a CookieAuthenticator) Authenticate(r *http.Request) (auth.Identity, error) {
	token, err := a.Cookies.Read(r)
	if err != nil {
		return auth.Identity{}, err
	}
	return a.Tokens.Decode(token)
}

// RoleRequirement admits identities holding one of Roles.
type RoleRequirement struct {
	Roles []domain.Role
}

func RequireRole(roles ...domain.Role) RoleRequirement {
	return RoleRequirement{Roles: roles}
}

func (rr RoleRequirement) Authorize(id auth.Identity) error {
	for _, role := range rr.Roles {
		if id.Role == role {
			return nil
		}
	}
	return ErrAccessDenied
}

// Guard authenticates the request, runs every authorizer in order and only
// then calls the handler. The first failure ends the request.
func Guard(authn Authenticator, metrics *observability.Metrics, authz ...Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := authn.Authenticate(r)
			if err != nil {
				metrics.RecordAuthEvent("authenticate", observability.OutcomeRejected)
				msg := MsgInvalidToken
				if errors.Is(err, auth.ErrNoSession) {
					msg = MsgNotAuthenticated
				}
				respond.Error(w, http.StatusUnauthorized, msg)
				return
			}

			for _, a := range authz {
				if err := a.Authorize(id); err != nil {
					metrics.RecordAuthEvent("authorize", observability.OutcomeForbidden)
					respond.Error(w, http.StatusForbidden, MsgAccessDenied)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
		})
	}
}

func withIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the identity Guard attached to ctx.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}
