package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/studyflow/backend/internal/models"
)

type completionRepository struct {
	db *sql.DB
}

// NewCompletionRepository creates a new completion record repository
func NewCompletionRepository(db *sql.DB) *completionRepository {
	return &completionRepository{
		db: db,
	}
}

// ListByLearner retrieves all completion records for a learner
func (r *completionRepository) ListByLearner(ctx context.Context, learnerID int) ([]models.CompletionRecord, error) {
	query := `
		SELECT learner_id, lesson_id, is_completed
		FROM completion_records
		WHERE learner_id = ?
	`

	rows, err := r.db.QueryContext(ctx, query, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completion records: %w", err)
	}
	defer rows.Close()

	var records []models.CompletionRecord
	for rows.Next() {
		var record models.CompletionRecord
		err := rows.Scan(
			&record.LearnerID,
			&record.LessonID,
			&record.IsCompleted,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan completion record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

// MarkCompleted records that a learner has completed a lesson. The record
// is created lazily on first write; a single upsert keeps the
// read-modify-write atomic per (learner, lesson) and completion monotonic,
// the flag is only ever set to true.
func (r *completionRepository) MarkCompleted(ctx context.Context, learnerID, lessonID int) error {
	query := `
		INSERT INTO completion_records (learner_id, lesson_id, is_completed)
		VALUES (?, ?, TRUE)
		ON DUPLICATE KEY UPDATE is_completed = TRUE
	`

	_, err := r.db.ExecContext(ctx, query, learnerID, lessonID)
	if err != nil {
		return fmt.Errorf("failed to mark lesson completed: %w", err)
	}

	return nil
}
