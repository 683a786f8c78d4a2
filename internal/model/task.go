package model

// Task is a single to-do record as persisted by a repository.
//
// Dates and timestamps are kept as the ISO-8601 text they were stored with.
// Readers parse them leniently; a value that fails to parse is never an error.
type Task struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Completed   bool     `json:"completed"`
	DueDate     *string  `json:"due_date"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"created_at"`
	CompletedAt *string  `json:"completed_at"`
}

// HasTag reports whether tag is one of the task's labels.
func (t Task) HasTag(tag string) bool {
	for _, v := range t.Tags {
		if v == tag {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no memory with t.
func (t Task) Clone() Task {
	c := t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.CompletedAt != nil {
		ca := *t.CompletedAt
		c.CompletedAt = &ca
	}
	c.Tags = append(make([]string, 0, len(t.Tags)), t.Tags...)
	return c
}

// TaskView is a Task decorated with attributes computed at read time.
type TaskView struct {
	Task
	Expired bool `json:"expired"`
}

type CreateTaskInput struct {
	Title     string
	Completed bool
	DueDate   *string
	Tags      []string
}

// UpdateTaskInput replaces every mutable field of a task.
type UpdateTaskInput struct {
	Title     string
	Completed bool
	DueDate   *string
	Tags      []string
}

type TaskListParams struct {
	Tag string
}
