package services

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/studyflow/backend/internal/llm"
	"github.com/studyflow/backend/internal/models"
)

// quizQuestionCount is the number of questions requested per quiz
const quizQuestionCount = 5

// TextGenerator defines the model capability used for quiz generation
type TextGenerator interface {
	// GenerateText sends a prompt and returns the raw text response
	//
	// "ctx" is the context for the request.
	// "prompt" is the full prompt text.
	//
	// Returns the response text and an error if any.
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type quizService struct {
	ai     TextGenerator
	logger *zap.Logger
}

// NewQuizService creates a new quiz generation service
func NewQuizService(ai TextGenerator, logger *zap.Logger) *quizService {
	return &quizService{
		ai:     ai,
		logger: logger,
	}
}

// GenerateQuiz generates a multiple-choice quiz from a lesson transcript.
// Quizzes are request-scoped and regenerated on every call. Any model or
// parse failure degrades to a fixed placeholder quiz; the caller never
// observes an error.
func (s *quizService) GenerateQuiz(ctx context.Context, transcript string) []models.QuizItem {
	quiz, err := s.generate(ctx, transcript)
	if err != nil {
		s.logger.Warn("quiz generation failed, using fallback quiz", zap.Error(err))
		return fallbackQuiz()
	}
	return quiz
}

func (s *quizService) generate(ctx context.Context, transcript string) ([]models.QuizItem, error) {
	raw, err := s.ai.GenerateText(ctx, buildQuizPrompt(transcript))
	if err != nil {
		return nil, fmt.Errorf("failed to generate quiz: %w", err)
	}

	var quiz []models.QuizItem
	if err := llm.ExtractJSON(raw, &quiz); err != nil {
		return nil, err
	}

	if err := validateQuiz(quiz); err != nil {
		return nil, &llm.ErrMalformedOutput{Err: err}
	}

	return quiz, nil
}

// validateQuiz checks the structural consistency of a parsed quiz: a
// non-empty question list where every item has four options and a declared
// answer that is literally one of them.
func validateQuiz(quiz []models.QuizItem) error {
	if len(quiz) == 0 {
		return fmt.Errorf("quiz has no questions")
	}

	for i, item := range quiz {
		if item.Question == "" {
			return fmt.Errorf("question %d is empty", i+1)
		}
		if len(item.Options) != 4 {
			return fmt.Errorf("question %d has %d options, want 4", i+1, len(item.Options))
		}
		if !slices.Contains(item.Options, item.Answer) {
			return fmt.Errorf("question %d answer is not one of its options", i+1)
		}
	}

	return nil
}

// buildQuizPrompt builds the deterministic quiz generation prompt
func buildQuizPrompt(transcript string) string {
	return fmt.Sprintf(`Based on the following video transcript, generate a %d-question multiple-choice quiz
to test a student's understanding of the key concepts.

The output MUST be a valid JSON array.
Each item must have this structure:
{
  "question": "The question text?",
  "options": ["Option A", "Option B", "Option C", "Option D"],
  "answer": "The correct option text"
}

Transcript:
---
%s
---`, quizQuestionCount, transcript)
}

// fallbackQuiz returns the fixed placeholder quiz used when generation
// fails. A fresh slice is returned so callers cannot share state.
func fallbackQuiz() []models.QuizItem {
	return []models.QuizItem{
		{
			Question: "What is the primary topic of the video?",
			Options:  []string{"A", "B", "C", "D"},
			Answer:   "A",
		},
		{
			Question: "This is a fallback question.",
			Options:  []string{"Correct", "Incorrect", "Maybe", "None"},
			Answer:   "Correct",
		},
	}
}
