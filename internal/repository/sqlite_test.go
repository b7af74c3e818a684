package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizforge/internal/config"
	"quizforge/internal/database"
	"quizforge/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLite(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, config.DBConfig{
		Driver: database.DriverSQLite,
		DSN:    "file::memory:?_pragma=foreign_keys(1)",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.RunMigrations(ctx, db, database.Up))
	return db
}

func TestSQLite_QuizLifecycle(t *testing.T) {
	ctx := context.Background()
	db := setupSQLite(t)
	quizzes := NewQuizDatabaseAdapter(db)
	results := NewResultDatabaseAdapter(db)
	tm := NewTransactionManagerAdapter(db)

	older := testQuiz()
	older.ID = "01HQZOLDER"
	older.Title = "SQL Joins"
	older.Category = "Databases"
	older.Created = testCreated.Add(-time.Hour)
	newer := testQuiz()

	require.NoError(t, quizzes.SaveQuiz(ctx, older))
	require.NoError(t, quizzes.SaveQuiz(ctx, newer))

	all, err := quizzes.ListQuizzes(ctx, "", 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].ID, "newest first")

	found, err := quizzes.ListQuizzes(ctx, "DATABASES", 10, 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, older.ID, found[0].ID)

	page, err := quizzes.ListQuizzes(ctx, "", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, older.ID, page[0].ID)

	result := testResult()
	result.QuizID = newer.ID
	best := 100
	err = tm.WithTransaction(ctx, func(ctx context.Context) error {
		if err := results.SaveResult(ctx, result); err != nil {
			return err
		}
		return quizzes.UpdateStats(ctx, newer.ID, domain.QuizStats{LastPlayed: &result.TakenAt, BestScore: &best, TimesPlayed: 1}, testNow)
	})
	require.NoError(t, err)

	stored, err := quizzes.GetQuizByID(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, newer.Questions, stored.Questions)
	assert.Equal(t, 1, stored.Stats.TimesPlayed)
	assert.Equal(t, 100, *stored.Stats.BestScore)

	listed, err := results.ListResultsByQuiz(ctx, newer.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, result, listed[0])

	require.NoError(t, quizzes.DeleteQuiz(ctx, newer.ID))
	_, err = quizzes.GetQuizByID(ctx, newer.ID)
	assert.True(t, domain.HasCode(err, domain.CodeNotFound))
	listed, err = results.ListResultsByQuiz(ctx, newer.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestSQLite_TransactionRollback(t *testing.T) {
	ctx := context.Background()
	db := setupSQLite(t)
	quizzes := NewQuizDatabaseAdapter(db)
	results := NewResultDatabaseAdapter(db)
	tm := NewTransactionManagerAdapter(db)

	quiz := testQuiz()
	require.NoError(t, quizzes.SaveQuiz(ctx, quiz))

	result := testResult()
	result.QuizID = quiz.ID
	err := tm.WithTransaction(ctx, func(ctx context.Context) error {
		if err := results.SaveResult(ctx, result); err != nil {
			return err
		}
		return errors.New("stats update failed")
	})
	require.Error(t, err)

	listed, err := results.ListResultsByQuiz(ctx, quiz.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
