package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jaekwang-park/todos/internal/model"
	"github.com/jaekwang-park/todos/internal/ranking"
	"github.com/jaekwang-park/todos/internal/repository"
)

// timestampLayout is how the service writes created_at and completed_at.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

type TaskService struct {
	repo repository.TaskRepository
	now  func() time.Time
}

type Option func(*TaskService)

// WithClock replaces time.Now as the source of "now" for timestamps and
// expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		s.now = now
	}
}

func NewTaskService(repo repository.TaskRepository, opts ...Option) *TaskService {
	s := &TaskService{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func stamp(t time.Time) *string {
	v := t.Format(timestampLayout)
	return &v
}

// normalizeDueDate maps an empty string to "no due date".
func normalizeDueDate(d *string) *string {
	if d == nil || *d == "" {
		return nil
	}
	v := *d
	return &v
}

func normalizeTags(tags []string) []string {
	return append(make([]string, 0, len(tags)), tags...)
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return nil
}

func (s *TaskService) view(t model.Task, now time.Time) model.TaskView {
	return model.TaskView{Task: t, Expired: ranking.IsExpired(t.DueDate, now)}
}

func mapRepoError(err error, action string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// List returns every task in display order. A non-empty Tag keeps only the
// tasks carrying that label.
func (s *TaskService) List(ctx context.Context, params model.TaskListParams) ([]model.TaskView, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	views := ranking.Annotate(tasks, s.now())
	if params.Tag == "" {
		return views, nil
	}

	filtered := make([]model.TaskView, 0, len(views))
	for _, v := range views {
		if v.HasTag(params.Tag) {
			filtered = append(filtered, v)
		}
	}
	return filtered, nil
}

// ListExpired returns the active tasks whose due date has passed.
func (s *TaskService) ListExpired(ctx context.Context) ([]model.TaskView, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return ranking.ExpiredOnly(tasks, s.now()), nil
}

func (s *TaskService) Get(ctx context.Context, id int64) (model.TaskView, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.TaskView{}, mapRepoError(err, "get task")
	}
	return s.view(task, s.now()), nil
}

func (s *TaskService) Create(ctx context.Context, input model.CreateTaskInput) (model.TaskView, error) {
	if err := validateTitle(input.Title); err != nil {
		return model.TaskView{}, err
	}

	now := s.now()
	task := model.Task{
		Title:     input.Title,
		Completed: input.Completed,
		DueDate:   normalizeDueDate(input.DueDate),
		Tags:      normalizeTags(input.Tags),
		CreatedAt: now.Format(timestampLayout),
	}
	if task.Completed {
		task.CompletedAt = stamp(now)
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return model.TaskView{}, fmt.Errorf("failed to create task: %w", err)
	}
	return s.view(created, now), nil
}

// Update replaces the task's title, completion, due date and tags.
// completed_at is stamped when the task becomes completed and cleared when it
// stops being completed.
func (s *TaskService) Update(ctx context.Context, id int64, input model.UpdateTaskInput) (model.TaskView, error) {
	if err := validateTitle(input.Title); err != nil {
		return model.TaskView{}, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.TaskView{}, mapRepoError(err, "get task for update")
	}

	now := s.now()
	existing.Title = input.Title
	existing.DueDate = normalizeDueDate(input.DueDate)
	existing.Tags = normalizeTags(input.Tags)

	switch {
	case !input.Completed:
		existing.CompletedAt = nil
	case !existing.Completed || existing.CompletedAt == nil:
		existing.CompletedAt = stamp(now)
	}
	existing.Completed = input.Completed

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return model.TaskView{}, mapRepoError(err, "update task")
	}
	return s.view(updated, now), nil
}

// Toggle flips the task's completion state.
func (s *TaskService) Toggle(ctx context.Context, id int64) (model.TaskView, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.TaskView{}, mapRepoError(err, "get task for toggle")
	}

	now := s.now()
	existing.Completed = !existing.Completed
	if existing.Completed {
		existing.CompletedAt = stamp(now)
	} else {
		existing.CompletedAt = nil
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return model.TaskView{}, mapRepoError(err, "toggle task")
	}
	return s.view(updated, now), nil
}

// Ping checks that the underlying store is reachable. Stores without a
// remote connection are always ready.
func (s *TaskService) Ping(ctx context.Context) error {
	p, ok := s.repo.(repository.Pinger)
	if !ok {
		return nil
	}
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("store unavailable: %w", err)
	}
	return nil
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err, "delete task")
	}
	return nil
}
