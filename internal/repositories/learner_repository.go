package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/studyflow/backend/internal/models"
)

type learnerRepository struct {
	db *sql.DB
}

// NewLearnerRepository creates a new learner repository
func NewLearnerRepository(db *sql.DB) *learnerRepository {
	return &learnerRepository{
		db: db,
	}
}

// GetByID retrieves a learner by ID
func (r *learnerRepository) GetByID(ctx context.Context, id int) (*models.Learner, error) {
	query := `
		SELECT id, display_name
		FROM learners
		WHERE id = ?
		LIMIT 1
	`

	var learner models.Learner
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&learner.ID,
		&learner.DisplayName,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("learner not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get learner by id: %w", err)
	}

	return &learner, nil
}
