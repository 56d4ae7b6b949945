// Package respond writes the JSON bodies shared by handlers and middleware.
package respond

import (
	"encoding/json"
	"net/http"
)

// Message is the body of every error and of plain acknowledgements.
type Message struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// JSON writes payload with the given status code.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, Message{Message: msg})
}

func FieldError(w http.ResponseWriter, status int, field, msg string) {
	JSON(w, status, Message{Message: msg, Field: field})
}
