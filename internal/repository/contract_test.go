package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaekwang-park/todos/internal/model"
	"github.com/jaekwang-park/todos/internal/repository"
)

func ptr(s string) *string { return &s }

// runRepositoryContract checks the behaviour every TaskRepository backend
// must share. newRepo must return an empty repository.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) repository.TaskRepository) {
	t.Helper()
	ctx := context.Background()

	t.Run("list empty", func(t *testing.T) {
		repo := newRepo(t)

		tasks, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("create assigns increasing ids", func(t *testing.T) {
		repo := newRepo(t)

		first, err := repo.Create(ctx, model.Task{Title: "first", CreatedAt: "2025-01-01T09:00:00"})
		require.NoError(t, err)
		second, err := repo.Create(ctx, model.Task{Title: "second", CreatedAt: "2025-01-01T10:00:00"})
		require.NoError(t, err)

		assert.Positive(t, first.ID)
		assert.Greater(t, second.ID, first.ID)
	})

	t.Run("create round trips every field", func(t *testing.T) {
		repo := newRepo(t)

		in := model.Task{
			Title:       "Pay rent",
			Completed:   true,
			DueDate:     ptr("2025-02-01"),
			Tags:        []string{"home", "money", "home"},
			CreatedAt:   "2025-01-15T08:30:00.123456",
			CompletedAt: ptr("2025-01-20T19:00:00"),
		}
		created, err := repo.Create(ctx, in)
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)

		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, in.Title, got.Title)
		assert.True(t, got.Completed)
		require.NotNil(t, got.DueDate)
		assert.Equal(t, "2025-02-01", *got.DueDate)
		assert.Equal(t, []string{"home", "money", "home"}, got.Tags)
		assert.Equal(t, in.CreatedAt, got.CreatedAt)
		require.NotNil(t, got.CompletedAt)
		assert.Equal(t, "2025-01-20T19:00:00", *got.CompletedAt)
	})

	t.Run("absent optionals stay absent", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, model.Task{Title: "bare", CreatedAt: "2025-01-01T00:00:00"})
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, got.DueDate)
		assert.Nil(t, got.CompletedAt)
		assert.NotNil(t, got.Tags)
		assert.Empty(t, got.Tags)
	})

	t.Run("malformed dates are stored verbatim", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, model.Task{Title: "odd", DueDate: ptr("next tuesday"), CreatedAt: "yesterday-ish"})
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got.DueDate)
		assert.Equal(t, "next tuesday", *got.DueDate)
		assert.Equal(t, "yesterday-ish", got.CreatedAt)
	})

	t.Run("list is ordered by id", func(t *testing.T) {
		repo := newRepo(t)

		var want []int64
		for _, title := range []string{"a", "b", "c"} {
			created, err := repo.Create(ctx, model.Task{Title: title, CreatedAt: "2025-01-01T00:00:00"})
			require.NoError(t, err)
			want = append(want, created.ID)
		}

		tasks, err := repo.List(ctx)
		require.NoError(t, err)

		var got []int64
		for _, tk := range tasks {
			got = append(got, tk.ID)
		}
		assert.Equal(t, want, got)
	})

	t.Run("update replaces fields but keeps created_at", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, model.Task{
			Title:     "draft",
			DueDate:   ptr("2025-03-01"),
			Tags:      []string{"initial"},
			CreatedAt: "2025-01-01T00:00:00",
		})
		require.NoError(t, err)

		updated, err := repo.Update(ctx, model.Task{
			ID:          created.ID,
			Title:       "final",
			Completed:   true,
			DueDate:     nil,
			Tags:        []string{"work", "important"},
			CreatedAt:   "must be ignored",
			CompletedAt: ptr("2025-01-02T00:00:00"),
		})
		require.NoError(t, err)
		assert.Equal(t, "final", updated.Title)
		assert.Equal(t, "2025-01-01T00:00:00", updated.CreatedAt)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "final", got.Title)
		assert.True(t, got.Completed)
		assert.Nil(t, got.DueDate)
		assert.Equal(t, []string{"work", "important"}, got.Tags)
		assert.Equal(t, "2025-01-01T00:00:00", got.CreatedAt)
		require.NotNil(t, got.CompletedAt)
		assert.Equal(t, "2025-01-02T00:00:00", *got.CompletedAt)
	})

	t.Run("update clears completed_at", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, model.Task{Title: "t", Completed: true, CompletedAt: ptr("2025-01-02T00:00:00"), CreatedAt: "2025-01-01T00:00:00"})
		require.NoError(t, err)

		created.Completed = false
		created.CompletedAt = nil
		_, err = repo.Update(ctx, created)
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, got.Completed)
		assert.Nil(t, got.CompletedAt)
	})

	t.Run("missing ids", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		_, err = repo.Update(ctx, model.Task{ID: 9999, Title: "ghost"})
		assert.ErrorIs(t, err, repository.ErrNotFound)

		err = repo.Delete(ctx, 9999)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("delete removes only the target", func(t *testing.T) {
		repo := newRepo(t)

		keep, err := repo.Create(ctx, model.Task{Title: "keep", CreatedAt: "2025-01-01T00:00:00"})
		require.NoError(t, err)
		drop, err := repo.Create(ctx, model.Task{Title: "drop", CreatedAt: "2025-01-01T00:00:00"})
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, drop.ID))

		_, err = repo.GetByID(ctx, drop.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		tasks, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, keep.ID, tasks[0].ID)

		assert.ErrorIs(t, repo.Delete(ctx, drop.ID), repository.ErrNotFound)
	})

	t.Run("returned tasks do not alias storage", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, model.Task{Title: "t", Tags: []string{"a"}, CreatedAt: "2025-01-01T00:00:00"})
		require.NoError(t, err)
		created.Tags[0] = "mutated"

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, got.Tags)
	})
}
