package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/edulytics/edulytics-server/internal/api/respond"
	"github.com/edulytics/edulytics-server/internal/domain"
	"github.com/edulytics/edulytics-server/internal/logging"
)

const msgInternal = "Something went wrong"

// writeServiceError maps a service error to its status code and message.
// Anything unrecognised is logged and reported as a 500 without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		respond.FieldError(w, http.StatusBadRequest, ve.Field, ve.Message)
	case errors.Is(err, domain.ErrEmailTaken):
		respond.Error(w, http.StatusConflict, "User already exists")
	case errors.Is(err, domain.ErrUserNotFound):
		respond.Error(w, http.StatusNotFound, "User does not exist")
	case errors.Is(err, domain.ErrWrongPassword):
		respond.Error(w, http.StatusUnauthorized, "Wrong email or password")
	case errors.Is(err, domain.ErrTopicNotFound):
		respond.Error(w, http.StatusNotFound, "Topic not found")
	case errors.Is(err, domain.ErrTopicExists):
		respond.Error(w, http.StatusConflict, "Topic already exists")
	default:
		logging.LogError(log, "request failed", err, "method", r.Method, "path", r.URL.Path)
		respond.Error(w, http.StatusInternalServerError, msgInternal)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
