package auth

import (
	"github.com/edulytics/edulytics-server/internal/domain"
	"github.com/google/uuid"
)

// Identity is the caller resolved from a valid session token. It lives for
// one request and is never persisted.
type Identity struct {
	ID   uuid.UUID   `json:"id"`
	Role domain.Role `json:"role"`
}
