package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupCompletionTestRepository creates a completion repository with a mock database
func setupCompletionTestRepository(t *testing.T) (*completionRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewCompletionRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestCompletionRepository_ListByLearner(t *testing.T) {
	tests := []struct {
		name          string
		learnerID     int
		setupMock     func(sqlmock.Sqlmock)
		expectedCount int
		expectedError bool
	}{
		{
			name:      "success with records",
			learnerID: 1,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"learner_id", "lesson_id", "is_completed"}).
					AddRow(1, 1, true).
					AddRow(1, 2, false)
				mock.ExpectQuery(`SELECT.*FROM completion_records.*WHERE learner_id = \?`).
					WithArgs(1).
					WillReturnRows(rows)
			},
			expectedCount: 2,
		},
		{
			name:      "success with no records",
			learnerID: 1,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"learner_id", "lesson_id", "is_completed"})
				mock.ExpectQuery(`SELECT.*FROM completion_records.*WHERE learner_id = \?`).
					WithArgs(1).
					WillReturnRows(rows)
			},
			expectedCount: 0,
		},
		{
			name:      "database error",
			learnerID: 1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT.*FROM completion_records.*WHERE learner_id = \?`).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCompletionTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			result, err := repo.ListByLearner(context.Background(), tt.learnerID)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Len(t, result, tt.expectedCount)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCompletionRepository_MarkCompleted(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
	}{
		{
			name: "first completion inserts",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO completion_records.*ON DUPLICATE KEY UPDATE is_completed = TRUE`).
					WithArgs(1, 3).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name: "repeat completion is idempotent",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO completion_records.*ON DUPLICATE KEY UPDATE is_completed = TRUE`).
					WithArgs(1, 3).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO completion_records`).
					WithArgs(1, 3).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCompletionTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.MarkCompleted(context.Background(), 1, 3)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
