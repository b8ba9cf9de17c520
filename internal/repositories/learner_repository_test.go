package repositories

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLearnerRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewLearnerRepository(db)

	rows := sqlmock.NewRows([]string{"id", "display_name"}).
		AddRow(1, "student1")
	mock.ExpectQuery(`SELECT.*FROM learners.*WHERE id = \?`).
		WithArgs(1).
		WillReturnRows(rows)

	learner, err := repo.GetByID(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, 1, learner.ID)
	assert.Equal(t, "student1", learner.DisplayName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLearnerRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewLearnerRepository(db)

	mock.ExpectQuery(`SELECT.*FROM learners.*WHERE id = \?`).
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)

	learner, err := repo.GetByID(context.Background(), 42)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "learner not found")
	assert.Nil(t, learner)
	assert.NoError(t, mock.ExpectationsWereMet())
}
