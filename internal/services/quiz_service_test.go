package services

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studyflow/backend/internal/models"
)

// stubTextGenerator is a stub implementation of TextGenerator
type stubTextGenerator struct {
	response  string
	err       error
	gotPrompt string
}

func (s *stubTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	s.gotPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

const validQuizJSON = `[
	{"question": "What is Big O?", "options": ["Growth rate", "A sorting algorithm", "A data structure", "A compiler"], "answer": "Growth rate"},
	{"question": "What is O(1)?", "options": ["Linear", "Constant", "Quadratic", "Logarithmic"], "answer": "Constant"},
	{"question": "What is O(n)?", "options": ["Linear", "Constant", "Quadratic", "Logarithmic"], "answer": "Linear"},
	{"question": "What is O(n^2)?", "options": ["Linear", "Constant", "Quadratic", "Logarithmic"], "answer": "Quadratic"},
	{"question": "What is O(log n)?", "options": ["Linear", "Constant", "Quadratic", "Logarithmic"], "answer": "Logarithmic"}
]`

func TestQuizService_GenerateQuiz(t *testing.T) {
	tests := []struct {
		name           string
		ai             *stubTextGenerator
		expectFallback bool
		expectedLen    int
	}{
		{
			name:        "success with plain JSON",
			ai:          &stubTextGenerator{response: validQuizJSON},
			expectedLen: 5,
		},
		{
			name:        "success with fenced JSON",
			ai:          &stubTextGenerator{response: "```json\n" + validQuizJSON + "\n```"},
			expectedLen: 5,
		},
		{
			name:           "model call fails",
			ai:             &stubTextGenerator{err: errors.New("quota exceeded")},
			expectFallback: true,
		},
		{
			name:           "model returns non-JSON text",
			ai:             &stubTextGenerator{response: "I'm sorry, I can't generate a quiz right now."},
			expectFallback: true,
		},
		{
			name:           "model returns empty array",
			ai:             &stubTextGenerator{response: "[]"},
			expectFallback: true,
		},
		{
			name: "answer not among options",
			ai: &stubTextGenerator{response: `[
				{"question": "Q1", "options": ["A", "B", "C", "D"], "answer": "E"}
			]`},
			expectFallback: true,
		},
		{
			name: "wrong option count",
			ai: &stubTextGenerator{response: `[
				{"question": "Q1", "options": ["A", "B", "C"], "answer": "A"}
			]`},
			expectFallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewQuizService(tt.ai, zap.NewNop())

			quiz := svc.GenerateQuiz(context.Background(), "some transcript")

			if tt.expectFallback {
				assert.Equal(t, fallbackQuiz(), quiz)
			} else {
				require.Len(t, quiz, tt.expectedLen)
				assert.Equal(t, "What is Big O?", quiz[0].Question)
				assert.Equal(t, "Growth rate", quiz[0].Answer)
			}

			// Never empty, never an error, whatever the model did.
			assert.NotEmpty(t, quiz)
		})
	}
}

func TestQuizService_PromptEmbedsTranscript(t *testing.T) {
	ai := &stubTextGenerator{response: validQuizJSON}
	svc := NewQuizService(ai, zap.NewNop())

	svc.GenerateQuiz(context.Background(), "the sliding window technique")

	assert.Contains(t, ai.gotPrompt, "the sliding window technique")
	assert.Contains(t, ai.gotPrompt, "5-question multiple-choice quiz")
	assert.Contains(t, ai.gotPrompt, "valid JSON array")
}

// The fallback quiz itself must satisfy the quiz shape invariants.
func TestFallbackQuizIsWellFormed(t *testing.T) {
	quiz := fallbackQuiz()

	require.NotEmpty(t, quiz)
	for _, item := range quiz {
		assert.NotEmpty(t, item.Question)
		assert.Len(t, item.Options, 4)
		assert.True(t, slices.Contains(item.Options, item.Answer))
	}
	assert.NoError(t, validateQuiz(quiz))
}

func TestValidateQuiz(t *testing.T) {
	valid := []models.QuizItem{
		{Question: "Q", Options: []string{"A", "B", "C", "D"}, Answer: "B"},
	}
	assert.NoError(t, validateQuiz(valid))

	assert.Error(t, validateQuiz(nil))
	assert.Error(t, validateQuiz([]models.QuizItem{
		{Question: "", Options: []string{"A", "B", "C", "D"}, Answer: "A"},
	}))
}
