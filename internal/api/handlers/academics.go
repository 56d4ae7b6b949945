package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/edulytics/edulytics-server/internal/api/respond"
	"github.com/edulytics/edulytics-server/internal/service"
)

type AcademicsHandler struct {
	academicsService *service.AcademicsService
	log              *slog.Logger
}

func NewAcademicsHandler(academicsService *service.AcademicsService, log *slog.Logger) *AcademicsHandler {
	return &AcademicsHandler{academicsService: academicsService, log: log}
}

func (h *AcademicsHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.academicsService.ListCourses(r.Context())
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, courses)
}

func (h *AcademicsHandler) ListSemesters(w http.ResponseWriter, r *http.Request) {
	courseID, ok := queryID(r, "courseId")
	if !ok {
		respond.FieldError(w, http.StatusBadRequest, "courseId", "courseId is required")
		return
	}

	semesters, err := h.academicsService.ListSemesters(r.Context(), courseID)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, semesters)
}

// queryID parses a positive integer query parameter.
func queryID(r *http.Request, name string) (uint, bool) {
	return parseID(r.URL.Query().Get(name))
}

// parseID accepts ids that fit a Postgres INTEGER column.
func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 31)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
