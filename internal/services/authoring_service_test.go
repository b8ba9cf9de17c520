package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studyflow/backend/internal/models"
	"github.com/studyflow/backend/internal/transcript"
)

// mockLessonCreator is a mock implementation of LessonCreator
type mockLessonCreator struct {
	err     error
	created *models.Lesson
}

func (m *mockLessonCreator) Create(ctx context.Context, lesson *models.Lesson) error {
	if m.err != nil {
		return m.err
	}
	lesson.ID = 6
	lesson.SequenceIndex = 6
	m.created = lesson
	return nil
}

// stubFetcher is a stub implementation of TranscriptFetcher
type stubFetcher struct {
	text string
	err  error
}

func (s *stubFetcher) Fetch(ctx context.Context, sourceURL string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func TestAuthoringService_AddLesson(t *testing.T) {
	creator := &mockLessonCreator{}
	svc := NewAuthoringService(creator, &stubFetcher{text: "heap transcript"}, zap.NewNop())

	lesson, err := svc.AddLesson(context.Background(), "Heaps", "https://www.youtube.com/embed/HqPJF2L5h9U")

	require.NoError(t, err)
	assert.Equal(t, 6, lesson.ID)
	assert.Equal(t, "Heaps", lesson.Title)
	assert.Equal(t, "https://www.youtube.com/embed/HqPJF2L5h9U", lesson.SourceURL)
	assert.Equal(t, "heap transcript", lesson.Transcript)
	assert.Equal(t, 6, lesson.SequenceIndex)
	assert.Equal(t, lesson, creator.created)
}

func TestAuthoringService_AddLesson_TranscriptUnavailable(t *testing.T) {
	creator := &mockLessonCreator{}
	fetcher := &stubFetcher{err: errors.New("no captions")}
	svc := NewAuthoringService(creator, fetcher, zap.NewNop())

	lesson, err := svc.AddLesson(context.Background(), "Heaps", "https://www.youtube.com/embed/HqPJF2L5h9U")

	// A missing transcript degrades to the placeholder, it never blocks
	// lesson creation.
	require.NoError(t, err)
	assert.Equal(t, transcript.Unavailable, lesson.Transcript)
}

func TestAuthoringService_AddLesson_CreateError(t *testing.T) {
	creator := &mockLessonCreator{err: errors.New("database error")}
	svc := NewAuthoringService(creator, &stubFetcher{text: "heap transcript"}, zap.NewNop())

	lesson, err := svc.AddLesson(context.Background(), "Heaps", "https://www.youtube.com/embed/HqPJF2L5h9U")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create lesson")
	assert.Nil(t, lesson)
}
