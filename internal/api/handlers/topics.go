package handlers

import (
	"log/slog"
	"net/http"

	"github.com/edulytics/edulytics-server/internal/api/middleware"
	"github.com/edulytics/edulytics-server/internal/api/respond"
	"github.com/edulytics/edulytics-server/internal/service"
	"github.com/go-chi/chi/v5"
)

// TopicHandler serves a teacher's own topics. Routes are mounted behind
// Guard with a TEACHER requirement.
type TopicHandler struct {
	topicService *service.TopicService
	log          *slog.Logger
}

func NewTopicHandler(topicService *service.TopicService, log *slog.Logger) *TopicHandler {
	return &TopicHandler{topicService: topicService, log: log}
}

type CreateTopicResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

func (h *TopicHandler) List(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())

	semesterID, ok := queryID(r, "semesterId")
	if !ok {
		respond.FieldError(w, http.StatusBadRequest, "semesterId", "semesterId is required")
		return
	}

	topics, err := h.topicService.List(r.Context(), id.ID, semesterID)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, topics)
}

func (h *TopicHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())

	var req service.CreateTopicInput
	if !decodeJSON(w, r, &req) {
		return
	}

	topic, err := h.topicService.Create(r.Context(), id.ID, req)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, CreateTopicResponse{Message: "Topic added successfully", ID: topic.ID})
}

func (h *TopicHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())

	topicID, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid topic id")
		return
	}

	var req service.RenameTopicInput
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.topicService.Rename(r.Context(), id.ID, topicID, req); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Message{Message: "Topic updated successfully"})
}

func (h *TopicHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())

	topicID, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid topic id")
		return
	}

	if err := h.topicService.Delete(r.Context(), id.ID, topicID); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Message{Message: "Topic deleted successfully"})
}
