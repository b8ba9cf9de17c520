package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/studyflow/backend/internal/models"
)

type lessonRepository struct {
	db *sql.DB
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(db *sql.DB) *lessonRepository {
	return &lessonRepository{
		db: db,
	}
}

// GetByID retrieves a lesson by its ID
func (r *lessonRepository) GetByID(ctx context.Context, id int) (*models.Lesson, error) {
	query := `
		SELECT id, title, source_url, transcript, sequence_index
		FROM lessons
		WHERE id = ?
		LIMIT 1
	`

	var lesson models.Lesson
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&lesson.ID,
		&lesson.Title,
		&lesson.SourceURL,
		&lesson.Transcript,
		&lesson.SequenceIndex,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("lesson not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson by id: %w", err)
	}

	return &lesson, nil
}

// GetAllOrdered retrieves all lessons sorted by sequence index
func (r *lessonRepository) GetAllOrdered(ctx context.Context) ([]models.Lesson, error) {
	query := `
		SELECT id, title, source_url, transcript, sequence_index
		FROM lessons
		ORDER BY sequence_index
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		var lesson models.Lesson
		err := rows.Scan(
			&lesson.ID,
			&lesson.Title,
			&lesson.SourceURL,
			&lesson.Transcript,
			&lesson.SequenceIndex,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return lessons, nil
}

// Create creates a new lesson appended at the end of the sequence.
// The rank is computed inside the insert statement so it stays dense and
// unique under the sequence_index constraint.
func (r *lessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	query := `
		INSERT INTO lessons (title, source_url, transcript, sequence_index)
		SELECT ?, ?, ?, COALESCE(MAX(sequence_index), 0) + 1
		FROM lessons
	`

	result, err := r.db.ExecContext(ctx, query,
		lesson.Title,
		lesson.SourceURL,
		lesson.Transcript,
	)
	if err != nil {
		return fmt.Errorf("failed to create lesson: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	lesson.ID = int(id)

	// Read back the assigned rank
	seqQuery := `SELECT sequence_index FROM lessons WHERE id = ?`
	if err := r.db.QueryRowContext(ctx, seqQuery, lesson.ID).Scan(&lesson.SequenceIndex); err != nil {
		return fmt.Errorf("failed to read lesson sequence index: %w", err)
	}

	return nil
}

// Count returns the total number of lessons
func (r *lessonRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM lessons`

	var count int
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count lessons: %w", err)
	}

	return count, nil
}
