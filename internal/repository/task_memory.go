package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/jaekwang-park/todos/internal/model"
)

// MemoryTaskRepository keeps tasks in process memory. Data is lost on exit.
type MemoryTaskRepository struct {
	mu     sync.RWMutex
	tasks  map[int64]model.Task
	nextID int64
}

func NewMemoryTask() *MemoryTaskRepository {
	return &MemoryTaskRepository{
		tasks:  make(map[int64]model.Task),
		nextID: 1,
	}
}

func (r *MemoryTaskRepository) List(ctx context.Context) ([]model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]model.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		tasks = append(tasks, t.Clone())
	}
	slices.SortFunc(tasks, func(a, b model.Task) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return tasks, nil
}

func (r *MemoryTaskRepository) GetByID(ctx context.Context, id int64) (model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	return t.Clone(), nil
}

func (r *MemoryTaskRepository) Create(ctx context.Context, task model.Task) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task.ID = r.nextID
	task.Tags = normalizeTags(task.Tags)
	r.nextID++

	r.tasks[task.ID] = task.Clone()
	return task.Clone(), nil
}

func (r *MemoryTaskRepository) Update(ctx context.Context, task model.Task) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.tasks[task.ID]
	if !ok {
		return model.Task{}, ErrNotFound
	}

	task.CreatedAt = existing.CreatedAt
	task.Tags = normalizeTags(task.Tags)
	r.tasks[task.ID] = task.Clone()
	return task.Clone(), nil
}

func (r *MemoryTaskRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

var _ TaskRepository = (*MemoryTaskRepository)(nil)
