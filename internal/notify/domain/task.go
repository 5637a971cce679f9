package domain

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

type Task struct {
	ID          string
	TenantID    string
	ProjectID   string
	Title       string
	Description string
	AssignedTo  string // Empty when unassigned
	Priority    Priority
	DueDate     *time.Time
	Status      TaskStatus
	UpdatedBy   string // Empty when unknown
}

// Done reports whether the task is excluded from reminders.
func (t Task) Done() bool { return t.Status == TaskStatusDone }

// Comment is immutable once created.
type Comment struct {
	ID        string
	TenantID  string
	ProjectID string
	TaskID    string
	Text      string
	CreatedBy string
}
