package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodoro/timer/internal/db"
	"pomodoro/timer/internal/model"
	"pomodoro/timer/internal/repository"
)

func newRepository(t *testing.T) *repository.SessionRepository {
	t.Helper()
	database, err := db.OpenSQLite(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, db.RunMigrations(database, db.Migrations()))
	return repository.NewSessionRepository(database)
}

func entry(id string, phase model.Phase, durationSeconds int, end time.Time) *model.SessionEntry {
	return &model.SessionEntry{
		ID:              id,
		StartTime:       end.Add(-time.Duration(durationSeconds) * time.Second),
		EndTime:         end,
		DurationSeconds: durationSeconds,
		Type:            phase,
		CreatedAt:       end,
	}
}

func TestSessionRepository_InsertAndGet(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()
	end := time.Date(2026, 10, 14, 9, 45, 0, 0, time.UTC)

	require.NoError(t, repo.Insert(ctx, entry("a", model.PhaseWork, 45*60, end)))

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, model.PhaseWork, got.Type)
	assert.Equal(t, 45*60, got.DurationSeconds)
	assert.True(t, got.EndTime.Equal(end))
	assert.Equal(t, 45*time.Minute, got.EndTime.Sub(got.StartTime))

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSessionRepository_ListNewestFirst(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()
	end := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	// Same timestamps on purpose: ordering follows insertion, not the clock.
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Insert(ctx, entry(fmt.Sprintf("s%d", i), model.PhaseWork, 60, end)))
	}

	sessions, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, []string{"s2", "s1", "s0"}, []string{sessions[0].ID, sessions[1].ID, sessions[2].ID})

	sessions, err = repo.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestSessionRepository_UpdateDescription(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()
	end := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	inserted := entry("a", model.PhaseBreak, 300, end)
	require.NoError(t, repo.Insert(ctx, inserted))

	require.NoError(t, repo.UpdateDescription(ctx, "a", "stretch"))
	require.NoError(t, repo.UpdateDescription(ctx, "a", "stretch"))

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "stretch", got.Description)
	assert.True(t, got.StartTime.Equal(inserted.StartTime))
	assert.True(t, got.EndTime.Equal(inserted.EndTime))
	assert.Equal(t, inserted.DurationSeconds, got.DurationSeconds)
	assert.Equal(t, inserted.Type, got.Type)

	assert.ErrorIs(t, repo.UpdateDescription(ctx, "missing", "x"), repository.ErrNotFound)
}

func TestSessionRepository_Prune(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()
	end := time.Date(2026, 10, 14, 11, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Insert(ctx, entry(fmt.Sprintf("s%d", i), model.PhaseWork, 60, end)))
	}

	removed, err := repo.Prune(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	sessions, err := repo.List(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "s4", sessions[0].ID)
	assert.Equal(t, "s3", sessions[1].ID)

	removed, err = repo.Prune(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, removed, "zero keeps everything")
}
