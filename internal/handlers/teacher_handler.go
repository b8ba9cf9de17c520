package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/studyflow/backend/internal/models"
)

// AuthoringService is the interface that wraps lesson authoring operations
type AuthoringService interface {
	// AddLesson creates a new lesson at the end of the sequence, fetching
	// and caching its transcript
	//
	// "ctx" is the context for the request.
	// "title" is the lesson title.
	// "sourceURL" is the lesson video URL.
	//
	// Returns the created lesson and an error if any.
	AddLesson(ctx context.Context, title, sourceURL string) (*models.Lesson, error)
}

// ProgressReporter is the interface that wraps learner progress reporting
type ProgressReporter interface {
	// GetProgressSummary retrieves the aggregate progress of a learner
	//
	// "ctx" is the context for the request.
	// "learnerID" is the ID of the learner.
	//
	// Returns the progress summary and an error if any.
	GetProgressSummary(ctx context.Context, learnerID int) (*models.ProgressSummary, error)
}

// TeacherHandler handles HTTP requests for the teacher-facing endpoints
type TeacherHandler struct {
	BaseHandler
	authoring AuthoringService
	progress  ProgressReporter
}

// NewTeacherHandler creates a new teacher handler
func NewTeacherHandler(authoring AuthoringService, progress ProgressReporter, logger *zap.Logger) *TeacherHandler {
	return &TeacherHandler{
		BaseHandler: BaseHandler{Logger: logger},
		authoring:   authoring,
		progress:    progress,
	}
}

// RegisterRoutes registers all teacher handler routes
func (h *TeacherHandler) RegisterRoutes(r chi.Router) {
	r.Route("/teacher", func(r chi.Router) {
		r.Post("/lessons", h.CreateLesson)
		r.Get("/progress", h.GetProgress)
	})
}

// CreateLesson handles POST /teacher/lessons
// @Summary Create a lesson
// @Description Create a new lesson at the end of the sequence; the video transcript is fetched and cached
// @Tags teacher
// @Accept json
// @Produce json
// @Param lesson body models.CreateLessonRequest true "Lesson to create"
// @Success 201 {object} models.Lesson "Created lesson"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /teacher/lessons [post]
func (h *TeacherHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.SourceURL = strings.TrimSpace(req.SourceURL)
	if req.Title == "" || req.SourceURL == "" {
		h.RespondError(w, http.StatusBadRequest, "title and sourceUrl are required")
		return
	}

	lesson, err := h.authoring.AddLesson(r.Context(), req.Title, req.SourceURL)
	if err != nil {
		h.Logger.Error("failed to create lesson", zap.Error(err), zap.String("title", req.Title))
		h.RespondError(w, http.StatusInternalServerError, "failed to create lesson")
		return
	}

	h.RespondJSON(w, http.StatusCreated, lesson)
}

// GetProgress handles GET /teacher/progress
// @Summary Get learner progress
// @Description Get the aggregate lesson completion progress of the learner
// @Tags teacher
// @Accept json
// @Produce json
// @Success 200 {object} models.ProgressSummary "Progress summary"
// @Failure 404 {object} map[string]string "Learner not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /teacher/progress [get]
func (h *TeacherHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	summary, err := h.progress.GetProgressSummary(r.Context(), defaultLearnerID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.RespondError(w, http.StatusNotFound, "learner not found")
			return
		}
		h.Logger.Error("failed to get progress summary", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to get progress summary")
		return
	}

	h.RespondJSON(w, http.StatusOK, summary)
}
