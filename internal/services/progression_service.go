package services

import (
	"context"
	"fmt"

	"github.com/studyflow/backend/internal/models"
)

// LessonRepository defines methods for lesson data access
type LessonRepository interface {
	// GetByID retrieves a lesson by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the lesson.
	//
	// Returns the lesson and an error if any.
	GetByID(ctx context.Context, id int) (*models.Lesson, error)
	// GetAllOrdered retrieves all lessons sorted by sequence index
	//
	// "ctx" is the context for the request.
	//
	// Returns the ordered lessons and an error if any.
	GetAllOrdered(ctx context.Context) ([]models.Lesson, error)
}

// CompletionRepository defines methods for completion record data access
type CompletionRepository interface {
	// ListByLearner retrieves all completion records for a learner
	//
	// "ctx" is the context for the request.
	// "learnerID" is the ID of the learner.
	//
	// Returns the completion records and an error if any.
	ListByLearner(ctx context.Context, learnerID int) ([]models.CompletionRecord, error)
	// MarkCompleted records that a learner has completed a lesson
	//
	// "ctx" is the context for the request.
	// "learnerID" is the ID of the learner.
	// "lessonID" is the ID of the lesson.
	//
	// Returns an error if any.
	MarkCompleted(ctx context.Context, learnerID, lessonID int) error
}

// LearnerRepository defines methods for learner data access
type LearnerRepository interface {
	// GetByID retrieves a learner by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the learner.
	//
	// Returns the learner and an error if any.
	GetByID(ctx context.Context, id int) (*models.Learner, error)
}

type progressionService struct {
	lessonRepo     LessonRepository
	completionRepo CompletionRepository
	learnerRepo    LearnerRepository
}

// NewProgressionService creates a new progression service
func NewProgressionService(
	lessonRepo LessonRepository,
	completionRepo CompletionRepository,
	learnerRepo LearnerRepository,
) *progressionService {
	return &progressionService{
		lessonRepo:     lessonRepo,
		completionRepo: completionRepo,
		learnerRepo:    learnerRepo,
	}
}

// ListLessonsWithStatus retrieves all lessons in sequence order with the
// learner's lock and completion status
func (s *progressionService) ListLessonsWithStatus(ctx context.Context, learnerID int) ([]models.LessonListItem, error) {
	lessons, err := s.lessonRepo.GetAllOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get lessons: %w", err)
	}

	completed, err := s.completedLessons(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	return lessonStatuses(lessons, completed), nil
}

// GetLesson retrieves a single lesson by ID
func (s *progressionService) GetLesson(ctx context.Context, lessonID int) (*models.Lesson, error) {
	return s.lessonRepo.GetByID(ctx, lessonID)
}

// MarkLessonCompleted records an approved evaluation outcome. Completion is
// monotonic; there is no operation that resets it.
func (s *progressionService) MarkLessonCompleted(ctx context.Context, learnerID, lessonID int) error {
	if err := s.completionRepo.MarkCompleted(ctx, learnerID, lessonID); err != nil {
		return fmt.Errorf("failed to record completion: %w", err)
	}
	return nil
}

// GetProgressSummary retrieves the learner's completed vs total lesson counts
func (s *progressionService) GetProgressSummary(ctx context.Context, learnerID int) (*models.ProgressSummary, error) {
	learner, err := s.learnerRepo.GetByID(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get learner: %w", err)
	}

	lessons, err := s.lessonRepo.GetAllOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get lessons: %w", err)
	}

	completed, err := s.completedLessons(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	summary := &models.ProgressSummary{
		Student:      learner.DisplayName,
		TotalLessons: len(lessons),
	}
	for _, lesson := range lessons {
		if completed[lesson.ID] {
			summary.CompletedLessons++
		}
	}

	return summary, nil
}

// completedLessons builds the set of completed lesson IDs for a learner
func (s *progressionService) completedLessons(ctx context.Context, learnerID int) (map[int]bool, error) {
	records, err := s.completionRepo.ListByLearner(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get completion records: %w", err)
	}

	completed := make(map[int]bool, len(records))
	for _, record := range records {
		completed[record.LessonID] = record.IsCompleted
	}
	return completed, nil
}

// lessonStatuses computes per-lesson lock state from the ordered lessons and
// the learner's completion set. Lessons up to and including the first
// not-completed lesson are accessible; everything after it is locked.
func lessonStatuses(lessons []models.Lesson, completed map[int]bool) []models.LessonListItem {
	items := make([]models.LessonListItem, 0, len(lessons))

	firstUncompletedFound := false
	for _, lesson := range lessons {
		isCompleted := completed[lesson.ID]

		isLocked := true
		if isCompleted || !firstUncompletedFound {
			isLocked = false
		}

		if !isCompleted && !firstUncompletedFound {
			firstUncompletedFound = true
		}

		items = append(items, models.LessonListItem{
			ID:          lesson.ID,
			Title:       lesson.Title,
			IsCompleted: isCompleted,
			IsLocked:    isLocked,
		})
	}

	return items
}
