package repository

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/jaekwang-park/todos/internal/model"
)

// FileTaskRepository stores all tasks as one JSON array in a flat file.
// Every operation reads the whole file; writes replace it atomically.
type FileTaskRepository struct {
	mu   sync.Mutex
	path string
}

func NewFileTask(path string) *FileTaskRepository {
	return &FileTaskRepository{path: path}
}

func (r *FileTaskRepository) load() ([]model.Task, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Task{}, nil
		}
		return nil, fmt.Errorf("failed to read task file: %w", err)
	}
	if len(data) == 0 {
		return []model.Task{}, nil
	}

	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse task file %s: %w", r.path, err)
	}
	for i := range tasks {
		tasks[i].Tags = normalizeTags(tasks[i].Tags)
	}
	return tasks, nil
}

func (r *FileTaskRepository) save(tasks []model.Task) error {
	data, err := json.MarshalIndent(tasks, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write task file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write task file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace task file: %w", err)
	}
	return nil
}

func indexOf(tasks []model.Task, id int64) int {
	return slices.IndexFunc(tasks, func(t model.Task) bool { return t.ID == id })
}

func (r *FileTaskRepository) List(ctx context.Context) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.load()
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(tasks, func(a, b model.Task) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return tasks, nil
}

func (r *FileTaskRepository) GetByID(ctx context.Context, id int64) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.load()
	if err != nil {
		return model.Task{}, err
	}
	i := indexOf(tasks, id)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}
	return tasks[i], nil
}

func (r *FileTaskRepository) Create(ctx context.Context, task model.Task) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.load()
	if err != nil {
		return model.Task{}, err
	}

	var maxID int64
	for _, t := range tasks {
		maxID = max(maxID, t.ID)
	}
	task.ID = maxID + 1
	task.Tags = normalizeTags(task.Tags)

	if err := r.save(append(tasks, task)); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (r *FileTaskRepository) Update(ctx context.Context, task model.Task) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.load()
	if err != nil {
		return model.Task{}, err
	}
	i := indexOf(tasks, task.ID)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}

	task.CreatedAt = tasks[i].CreatedAt
	task.Tags = normalizeTags(task.Tags)
	tasks[i] = task

	if err := r.save(tasks); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (r *FileTaskRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.load()
	if err != nil {
		return err
	}
	i := indexOf(tasks, id)
	if i < 0 {
		return ErrNotFound
	}

	return r.save(slices.Delete(tasks, i, i+1))
}

var _ TaskRepository = (*FileTaskRepository)(nil)
