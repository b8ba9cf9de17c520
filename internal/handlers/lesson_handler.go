package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/studyflow/backend/internal/models"
	"github.com/studyflow/backend/internal/services"
)

// defaultLearnerID identifies the seeded learner used until authentication
// is introduced
const defaultLearnerID = 1

// maxNotesSize limits the size of an uploaded notes file (20MB)
const maxNotesSize = 20 << 20

// ProgressionService is the interface that wraps lesson progression operations
type ProgressionService interface {
	// ListLessonsWithStatus retrieves all lessons with per-learner completion
	// and lock status, ordered by sequence
	//
	// "ctx" is the context for the request.
	// "learnerID" is the ID of the learner.
	//
	// Returns the ordered lesson list and an error if any.
	ListLessonsWithStatus(ctx context.Context, learnerID int) ([]models.LessonListItem, error)
	// GetLesson retrieves a single lesson by ID
	//
	// "ctx" is the context for the request.
	// "lessonID" is the ID of the lesson.
	//
	// Returns the lesson and an error if any.
	GetLesson(ctx context.Context, lessonID int) (*models.Lesson, error)
	// MarkLessonCompleted records a lesson as completed for a learner
	//
	// "ctx" is the context for the request.
	// "learnerID" is the ID of the learner.
	// "lessonID" is the ID of the lesson.
	//
	// Returns an error if any.
	MarkLessonCompleted(ctx context.Context, learnerID, lessonID int) error
}

// QuizService is the interface that wraps quiz generation
type QuizService interface {
	// GenerateQuiz generates a multiple-choice quiz from a lesson transcript.
	// It never fails; a fallback quiz is returned when generation does.
	//
	// "ctx" is the context for the request.
	// "transcript" is the lesson transcript text.
	//
	// Returns the quiz items.
	GenerateQuiz(ctx context.Context, transcript string) []models.QuizItem
}

// EvaluationService is the interface that wraps submission evaluation
type EvaluationService interface {
	// Evaluate grades a learner's notes file and quiz answers against the
	// lesson transcript
	//
	// "ctx" is the context for the request.
	// "learnerID" is the ID of the learner.
	// "lesson" is the lesson being submitted.
	// "notesBytes" is the uploaded notes file content.
	// "contentType" is the content type of the notes file.
	// "answers" is the learner's selected quiz answers.
	//
	// Returns the evaluation result and an error if any.
	Evaluate(ctx context.Context, learnerID int, lesson *models.Lesson, notesBytes []byte, contentType string, answers []models.QuizAnswer) (*models.EvaluationResult, error)
}

// LessonHandler handles HTTP requests for the learner-facing lesson flow
type LessonHandler struct {
	BaseHandler
	progression ProgressionService
	quiz        QuizService
	evaluation  EvaluationService
}

// NewLessonHandler creates a new lesson handler
func NewLessonHandler(progression ProgressionService, quiz QuizService, evaluation EvaluationService, logger *zap.Logger) *LessonHandler {
	return &LessonHandler{
		BaseHandler: BaseHandler{Logger: logger},
		progression: progression,
		quiz:        quiz,
		evaluation:  evaluation,
	}
}

// RegisterRoutes registers all lesson handler routes
func (h *LessonHandler) RegisterRoutes(r chi.Router) {
	r.Route("/lessons", func(r chi.Router) {
		r.Get("/", h.ListLessons)
		r.Get("/{id}", h.GetLesson)
		r.Post("/{id}/submit", h.SubmitLesson)
	})
}

// ListLessons handles GET /lessons
// @Summary List lessons with progression status
// @Description Get all lessons in sequence order with completion and lock status for the learner
// @Tags lessons
// @Accept json
// @Produce json
// @Success 200 {array} models.LessonListItem "Ordered lesson list"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /lessons [get]
func (h *LessonHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	items, err := h.progression.ListLessonsWithStatus(r.Context(), defaultLearnerID)
	if err != nil {
		h.Logger.Error("failed to list lessons", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to list lessons")
		return
	}

	h.RespondJSON(w, http.StatusOK, items)
}

// GetLesson handles GET /lessons/{id}
// @Summary Get lesson details with a quiz
// @Description Get lesson details together with a freshly generated quiz for its transcript
// @Tags lessons
// @Accept json
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} models.LessonDetailResponse "Lesson with quiz"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Lesson not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /lessons/{id} [get]
func (h *LessonHandler) GetLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid lesson ID")
		return
	}

	lesson, err := h.progression.GetLesson(r.Context(), lessonID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.RespondError(w, http.StatusNotFound, "lesson not found")
			return
		}
		h.Logger.Error("failed to get lesson", zap.Error(err), zap.Int("lesson_id", lessonID))
		h.RespondError(w, http.StatusInternalServerError, "failed to get lesson")
		return
	}

	// The quiz is generated fresh on every detail request; it is not stored.
	quiz := h.quiz.GenerateQuiz(r.Context(), lesson.Transcript)

	h.RespondJSON(w, http.StatusOK, models.LessonDetailResponse{
		ID:        lesson.ID,
		Title:     lesson.Title,
		SourceURL: lesson.SourceURL,
		Quiz:      quiz,
	})
}

// SubmitLesson handles POST /lessons/{id}/submit
// @Summary Submit lesson notes and quiz answers for evaluation
// @Description Grade a notes file and quiz answers against the lesson transcript; an approved result marks the lesson completed
// @Tags lessons
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Lesson ID"
// @Param notes_file formData file true "Handwritten notes file"
// @Param quiz_answers_json formData string true "Quiz answers as a JSON array"
// @Success 200 {object} models.EvaluationResult "Evaluation result"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Lesson not found"
// @Failure 409 {object} map[string]string "Submission already in progress"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /lessons/{id}/submit [post]
func (h *LessonHandler) SubmitLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid lesson ID")
		return
	}

	lesson, err := h.progression.GetLesson(r.Context(), lessonID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.RespondError(w, http.StatusNotFound, "lesson not found")
			return
		}
		h.Logger.Error("failed to get lesson", zap.Error(err), zap.Int("lesson_id", lessonID))
		h.RespondError(w, http.StatusInternalServerError, "failed to get lesson")
		return
	}

	if err := r.ParseMultipartForm(maxNotesSize); err != nil {
		h.Logger.Error("failed to parse multipart form", zap.Error(err))
		h.RespondError(w, http.StatusBadRequest, "failed to parse request")
		return
	}

	file, fileHeader, err := r.FormFile("notes_file")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "notes_file is required")
		return
	}
	defer file.Close()

	notesBytes, err := io.ReadAll(file)
	if err != nil {
		h.Logger.Error("failed to read notes file", zap.Error(err))
		h.RespondError(w, http.StatusBadRequest, "failed to read notes file")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	answersJSON := r.FormValue("quiz_answers_json")
	if answersJSON == "" {
		h.RespondError(w, http.StatusBadRequest, "quiz_answers_json is required")
		return
	}

	var answers []models.QuizAnswer
	if err := json.Unmarshal([]byte(answersJSON), &answers); err != nil {
		h.RespondError(w, http.StatusBadRequest, "quiz_answers_json is not a valid JSON array")
		return
	}

	result, err := h.evaluation.Evaluate(r.Context(), defaultLearnerID, lesson, notesBytes, contentType, answers)
	if err != nil {
		if errors.Is(err, services.ErrSubmissionInFlight) {
			h.RespondError(w, http.StatusConflict, "a submission for this lesson is already being evaluated")
			return
		}
		h.Logger.Error("failed to evaluate submission", zap.Error(err), zap.Int("lesson_id", lessonID))
		h.RespondError(w, http.StatusInternalServerError, "failed to evaluate submission")
		return
	}

	// Completion is recorded before responding so the next lesson list
	// already reflects the unlock.
	if result.IsApproved {
		if err := h.progression.MarkLessonCompleted(r.Context(), defaultLearnerID, lessonID); err != nil {
			h.Logger.Error("failed to record completion", zap.Error(err), zap.Int("lesson_id", lessonID))
			h.RespondError(w, http.StatusInternalServerError, "failed to record completion")
			return
		}
	}

	h.RespondJSON(w, http.StatusOK, result)
}
