package repository

import (
	"context"
	"errors"

	"github.com/jaekwang-park/todos/internal/model"
)

// ErrNotFound is returned when no task has the requested ID.
var ErrNotFound = errors.New("task not found")

// TaskRepository persists tasks. List returns tasks in ascending ID order.
// Create assigns the ID. Update replaces every field except ID and CreatedAt.
type TaskRepository interface {
	List(ctx context.Context) ([]model.Task, error)
	GetByID(ctx context.Context, id int64) (model.Task, error)
	Create(ctx context.Context, task model.Task) (model.Task, error)
	Update(ctx context.Context, task model.Task) (model.Task, error)
	Delete(ctx context.Context, id int64) error
}

// Pinger is implemented by repositories backed by a remote server or
// database handle that can be checked for liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

func normalizeTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
