package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/studyflow/backend/internal/models"
	"github.com/studyflow/backend/internal/transcript"
)

// LessonCreator defines the lesson write access used for authoring
type LessonCreator interface {
	// Create creates a new lesson appended at the end of the sequence
	//
	// "ctx" is the context for the request.
	// "lesson" is the lesson to create; ID and SequenceIndex are filled in.
	//
	// Returns an error if any.
	Create(ctx context.Context, lesson *models.Lesson) error
}

// TranscriptFetcher retrieves a transcript for a video URL
type TranscriptFetcher interface {
	// Fetch returns the transcript text for the video at sourceURL
	//
	// "ctx" is the context for the request.
	// "sourceURL" is the video page or embed URL.
	//
	// Returns the transcript text and an error if any.
	Fetch(ctx context.Context, sourceURL string) (string, error)
}

type authoringService struct {
	lessonRepo LessonCreator
	fetcher    TranscriptFetcher
	logger     *zap.Logger
}

// NewAuthoringService creates a new lesson authoring service
func NewAuthoringService(lessonRepo LessonCreator, fetcher TranscriptFetcher, logger *zap.Logger) *authoringService {
	return &authoringService{
		lessonRepo: lessonRepo,
		fetcher:    fetcher,
		logger:     logger,
	}
}

// AddLesson creates a new lesson at the end of the sequence. The transcript
// is fetched once here and cached immutably; a fetch failure degrades to the
// placeholder transcript instead of failing the request.
func (s *authoringService) AddLesson(ctx context.Context, title, sourceURL string) (*models.Lesson, error) {
	transcriptText, err := s.fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		s.logger.Warn("transcript fetch failed, storing placeholder",
			zap.Error(err),
			zap.String("source_url", sourceURL),
		)
		transcriptText = transcript.Unavailable
	}

	lesson := &models.Lesson{
		Title:      title,
		SourceURL:  sourceURL,
		Transcript: transcriptText,
	}

	if err := s.lessonRepo.Create(ctx, lesson); err != nil {
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}

	return lesson, nil
}
