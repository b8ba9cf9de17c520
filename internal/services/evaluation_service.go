package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/studyflow/backend/internal/llm"
	"github.com/studyflow/backend/internal/models"
)

// approvalThreshold is the minimum combined score that unlocks the next
// lesson; the boundary is inclusive
const approvalThreshold = 80

// evaluationFailureFeedback is the feedback text of the fixed failure result
const evaluationFailureFeedback = "An error occurred during evaluation. Please try submitting again."

// cleanupTimeout bounds the deferred remote-file delete; cleanup must not
// inherit a request context that may already be cancelled
const cleanupTimeout = 10 * time.Second

// FileModelClient defines the file-bearing model capabilities used for evaluation
type FileModelClient interface {
	// UploadFile uploads a local file to the provider
	//
	// "ctx" is the context for the request.
	// "path" is the local file path.
	// "mimeType" is the content type of the file.
	//
	// Returns a reference to the uploaded file and an error if any.
	UploadFile(ctx context.Context, path, mimeType string) (*llm.FileRef, error)
	// GenerateTextWithFile sends a prompt together with an uploaded file
	//
	// "ctx" is the context for the request.
	// "file" is a reference previously returned by UploadFile.
	// "prompt" is the full prompt text.
	//
	// Returns the response text and an error if any.
	GenerateTextWithFile(ctx context.Context, file *llm.FileRef, prompt string) (string, error)
	// DeleteFile removes a previously uploaded file from the provider
	//
	// "ctx" is the context for the request.
	// "file" is the reference to delete.
	//
	// Returns an error if any.
	DeleteFile(ctx context.Context, file *llm.FileRef) error
}

// NotesStager defines local staging of the submitted notes artifact
type NotesStager interface {
	// Stage writes data to a uniquely named local file
	//
	// "data" is the notes file content.
	// "contentType" is the content type of the file.
	//
	// Returns the staged file path and an error if any.
	Stage(data []byte, contentType string) (string, error)
	// Remove deletes a staged file
	//
	// "path" is the path returned by Stage.
	//
	// Returns an error if any.
	Remove(path string) error
}

type evaluationService struct {
	ai     FileModelClient
	stager NotesStager
	guard  *submissionGuard
	logger *zap.Logger
}

// NewEvaluationService creates a new evaluation service
func NewEvaluationService(ai FileModelClient, stager NotesStager, logger *zap.Logger) *evaluationService {
	return &evaluationService{
		ai:     ai,
		stager: stager,
		guard:  newSubmissionGuard(),
		logger: logger,
	}
}

// Evaluate grades a learner's submission (notes file plus quiz answers)
// against the lesson transcript. Every model or I/O failure degrades to the
// fixed unapproved result; the only error returned is ErrSubmissionInFlight
// when a concurrent submission for the same learner and lesson exists.
func (s *evaluationService) Evaluate(ctx context.Context, learnerID int, lesson *models.Lesson, notesBytes []byte, contentType string, answers []models.QuizAnswer) (*models.EvaluationResult, error) {
	if !s.guard.tryAcquire(learnerID, lesson.ID) {
		return nil, ErrSubmissionInFlight
	}
	defer s.guard.release(learnerID, lesson.ID)

	result, err := s.run(ctx, lesson.Transcript, notesBytes, contentType, answers)
	if err != nil {
		s.logger.Warn("evaluation failed, returning fallback result",
			zap.Error(err),
			zap.Int("learner_id", learnerID),
			zap.Int("lesson_id", lesson.ID),
		)
		return &models.EvaluationResult{
			CombinedScore: 0,
			IsApproved:    false,
			Feedback:      evaluationFailureFeedback,
		}, nil
	}

	return result, nil
}

// run performs the staged evaluation pipeline. Both the staged local file
// and the uploaded remote file are released on every exit path.
func (s *evaluationService) run(ctx context.Context, transcript string, notesBytes []byte, contentType string, answers []models.QuizAnswer) (*models.EvaluationResult, error) {
	path, err := s.stager.Stage(notesBytes, contentType)
	if err != nil {
		// Log enough to diagnose without leaking note content.
		s.logger.Error("failed to stage notes artifact",
			zap.Error(err),
			zap.String("content_type", contentType),
			zap.Int("size_bytes", len(notesBytes)),
		)
		return nil, fmt.Errorf("failed to stage notes: %w", err)
	}
	defer func() {
		if err := s.stager.Remove(path); err != nil {
			s.logger.Warn("failed to remove staged notes", zap.Error(err))
		}
	}()

	file, err := s.ai.UploadFile(ctx, path, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload notes: %w", err)
	}
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()
		if err := s.ai.DeleteFile(cleanupCtx, file); err != nil {
			s.logger.Warn("failed to delete uploaded notes", zap.Error(err), zap.String("file", file.Name))
		}
	}()

	prompt, err := buildEvaluationPrompt(transcript, answers)
	if err != nil {
		return nil, err
	}

	raw, err := s.ai.GenerateTextWithFile(ctx, file, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate evaluation: %w", err)
	}

	var result models.EvaluationResult
	if err := llm.ExtractJSON(raw, &result); err != nil {
		return nil, err
	}

	// Approval is a server-side policy derived from the score, not the
	// model's opinion; the threshold is inclusive.
	result.IsApproved = result.CombinedScore >= approvalThreshold

	return &result, nil
}

// buildEvaluationPrompt builds the grading prompt embedding the transcript
// as ground truth and the learner's answers as JSON
func buildEvaluationPrompt(transcript string, answers []models.QuizAnswer) (string, error) {
	answersJSON, err := json.MarshalIndent(answers, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode quiz answers: %w", err)
	}

	return fmt.Sprintf(`You are an expert instructor evaluating a student's submission.
Analyze based on:
1. Transcript (truth source)
2. Student's handwritten notes (uploaded file)
3. Quiz answers

**Scoring Rules:**
- Notes quality
- Quiz accuracy
- Combined score = weighted mix of both
- Passing threshold = %d%%

**Output MUST be a valid JSON object:**
{
  "combined_score": <0-100>,
  "is_approved": <true|false>,
  "feedback": "<detailed feedback>"
}

Transcript:
---
%s
---
Student's Quiz Answers (JSON):
%s
---`, approvalThreshold, transcript, answersJSON), nil
}
