package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jaekwang-park/todos/internal/model"
)

const taskSchema = `
	CREATE TABLE IF NOT EXISTS tasks (
		id           BIGSERIAL PRIMARY KEY,
		title        TEXT      NOT NULL,
		completed    BOOLEAN   NOT NULL DEFAULT FALSE,
		due_date     TEXT,
		tags         TEXT[]    NOT NULL DEFAULT '{}',
		created_at   TEXT      NOT NULL,
		completed_at TEXT
	)`

const taskColumns = `id, title, completed, due_date, tags, created_at, completed_at`

// NewDB opens a postgres connection pool, verifies it and ensures the tasks
// table exists.
func NewDB(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.ExecContext(ctx, taskSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tasks table: %w", err)
	}
	return db, nil
}

type taskRow struct {
	ID          int64          `db:"id"`
	Title       string         `db:"title"`
	Completed   bool           `db:"completed"`
	DueDate     sql.NullString `db:"due_date"`
	Tags        pq.StringArray `db:"tags"`
	CreatedAt   string         `db:"created_at"`
	CompletedAt sql.NullString `db:"completed_at"`
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func (r taskRow) toTask() model.Task {
	return model.Task{
		ID:          r.ID,
		Title:       r.Title,
		Completed:   r.Completed,
		DueDate:     stringPtr(r.DueDate),
		Tags:        normalizeTags(r.Tags),
		CreatedAt:   r.CreatedAt,
		CompletedAt: stringPtr(r.CompletedAt),
	}
}

type PostgresTaskRepository struct {
	db *sqlx.DB
}

func NewPostgresTask(db *sqlx.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db}
}

func (r *PostgresTaskRepository) List(ctx context.Context) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY id`

	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.toTask())
	}
	return tasks, nil
}

func (r *PostgresTaskRepository) GetByID(ctx context.Context, id int64) (model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	var row taskRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return model.Task{}, scanError("get", err)
	}
	return row.toTask(), nil
}

func (r *PostgresTaskRepository) Create(ctx context.Context, task model.Task) (model.Task, error) {
	query := `
		INSERT INTO tasks (title, completed, due_date, tags, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + taskColumns

	var row taskRow
	err := r.db.GetContext(ctx, &row, query,
		task.Title, task.Completed, nullString(task.DueDate),
		pq.StringArray(normalizeTags(task.Tags)), task.CreatedAt, nullString(task.CompletedAt),
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return row.toTask(), nil
}

func (r *PostgresTaskRepository) Update(ctx context.Context, task model.Task) (model.Task, error) {
	query := `
		UPDATE tasks
		SET title = $1, completed = $2, due_date = $3, tags = $4, completed_at = $5
		WHERE id = $6
		RETURNING ` + taskColumns

	var row taskRow
	err := r.db.GetContext(ctx, &row, query,
		task.Title, task.Completed, nullString(task.DueDate),
		pq.StringArray(normalizeTags(task.Tags)), nullString(task.CompletedAt), task.ID,
	)
	if err != nil {
		return model.Task{}, scanError("update", err)
	}
	return row.toTask(), nil
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func scanError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to %s task: %w", op, err)
}

func (r *PostgresTaskRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ensure compile-time interface compliance
var _ TaskRepository = (*PostgresTaskRepository)(nil)
