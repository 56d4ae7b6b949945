package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/edulytics/edulytics-server/internal/api/middleware"
	"github.com/edulytics/edulytics-server/internal/api/respond"
	"github.com/edulytics/edulytics-server/internal/auth"
	"github.com/edulytics/edulytics-server/internal/domain"
	"github.com/edulytics/edulytics-server/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	cookies     *auth.CookieTransport
	log         *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, cookies *auth.CookieTransport, log *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies, log: log}
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type LoginResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type MeResponse struct {
	ID       string      `json:"id"`
	Role     domain.Role `json:"role"`
	LoggedIn bool        `json:"loggedIn"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if !decodeJSON(w, r, &req) {
		return
	}

	userID, err := h.authService.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	respond.JSON(w, http.StatusCreated, RegisterResponse{
		Message: req.Role + " registered successfully",
		UserID:  userID.String(),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginInput
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	h.cookies.Set(w, result.Token)
	respond.JSON(w, http.StatusOK, LoginResponse{
		ID:        result.User.ID.String(),
		Name:      result.User.Name,
		Email:     result.User.Email,
		Role:      result.User.Role,
		CreatedAt: result.User.CreatedAt,
		ExpiresAt: result.ExpiresAt,
	})
}

// Logout clears the session cookie. It succeeds with or without a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
	h.authService.Logout()
	respond.JSON(w, http.StatusOK, respond.Message{Message: "Logged out successfully"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, middleware.MsgNotAuthenticated)
		return
	}

	respond.JSON(w, http.StatusOK, MeResponse{
		ID:       id.ID.String(),
		Role:     id.Role,
		LoggedIn: true,
	})
}
