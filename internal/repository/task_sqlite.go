package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jaekwang-park/todos/internal/model"
)

// taskRecord is the gorm row for a task. Timestamps stay text so that values
// written elsewhere round-trip unchanged.
type taskRecord struct {
	ID          int64    `gorm:"column:id;primaryKey;autoIncrement"`
	Title       string   `gorm:"column:title;not null"`
	Completed   bool     `gorm:"column:completed;not null"`
	DueDate     *string  `gorm:"column:due_date"`
	Tags        []string `gorm:"column:tags;serializer:json"`
	CreatedAt   string   `gorm:"column:created_at;autoCreateTime:false"`
	CompletedAt *string  `gorm:"column:completed_at"`
}

func (taskRecord) TableName() string {
	return "tasks"
}

func recordFromTask(t model.Task) taskRecord {
	return taskRecord{
		ID:          t.ID,
		Title:       t.Title,
		Completed:   t.Completed,
		DueDate:     t.DueDate,
		Tags:        normalizeTags(t.Tags),
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
}

func (r taskRecord) toTask() model.Task {
	return model.Task{
		ID:          r.ID,
		Title:       r.Title,
		Completed:   r.Completed,
		DueDate:     r.DueDate,
		Tags:        normalizeTags(r.Tags),
		CreatedAt:   r.CreatedAt,
		CompletedAt: r.CompletedAt,
	}
}

type SQLiteTaskRepository struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) the database at path and migrates the
// tasks table. Use ":memory:" for a throwaway database.
//
// The pool holds a single connection; each connection to ":memory:" opens its
// own empty database.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&taskRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
	}
	return db, nil
}

func NewSQLiteTask(db *gorm.DB) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{db: db}
}

func (r *SQLiteTaskRepository) List(ctx context.Context) ([]model.Task, error) {
	var records []taskRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]model.Task, 0, len(records))
	for _, rec := range records {
		tasks = append(tasks, rec.toTask())
	}
	return tasks, nil
}

func (r *SQLiteTaskRepository) GetByID(ctx context.Context, id int64) (model.Task, error) {
	var rec taskRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	return rec.toTask(), nil
}

func (r *SQLiteTaskRepository) Create(ctx context.Context, task model.Task) (model.Task, error) {
	rec := recordFromTask(task)
	rec.ID = 0
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return rec.toTask(), nil
}

func (r *SQLiteTaskRepository) Update(ctx context.Context, task model.Task) (model.Task, error) {
	rec := recordFromTask(task)
	result := r.db.WithContext(ctx).
		Model(&taskRecord{}).
		Where("id = ?", task.ID).
		Select("title", "completed", "due_date", "tags", "completed_at").
		Updates(&rec)
	if err := result.Error; err != nil {
		return model.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return model.Task{}, ErrNotFound
	}
	return r.GetByID(ctx, task.ID)
}

func (r *SQLiteTaskRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&taskRecord{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteTaskRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

var _ TaskRepository = (*SQLiteTaskRepository)(nil)
