package domain

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// TaskStatus represents where a task is in its lifecycle.
// Transitions are caller-driven; no state machine is enforced.
type TaskStatus string

// Known task status values.
const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusArchived  TaskStatus = "archived"
)

// Intended values for the open category and priority sets.
// They are hints for clients and the language model, not constraints.
const (
	CategoryWork     = "Work"
	CategoryPersonal = "Personal"
	CategoryUrgent   = "Urgent"

	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Column limits of the tasks table.
const (
	MaxTitleLength    = 255
	MaxCategoryLength = 20
	MaxPriorityLength = 10
	MaxStatusLength   = 10
)

// Task is a unit of work owned by the single user of the system.
type Task struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Category         *string    `json:"category"`
	Priority         *string    `json:"priority"`
	EstimatedMinutes *int       `json:"estimated_minutes"`
	DueDate          *Date      `json:"due_date"`
	Status           TaskStatus `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
}

// NewTask creates a pending Task with a fresh ID.
// CreatedAt is left for the store to assign.
// Returns an error if validation fails.
func NewTask(title string, category, priority *string, estimatedMinutes *int, dueDate *Date) (*Task, error) {
	task := &Task{
		ID:               uuid.New(),
		Title:            title,
		Category:         category,
		Priority:         priority,
		EstimatedMinutes: estimatedMinutes,
		DueDate:          dueDate,
		Status:           TaskStatusPending,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks that the Task fits the storage columns.
// Category, priority and status values are not restricted to the known sets.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}

	if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		return NewValidationError("title", "is too long", nil)
	}

	if t.Category != nil && utf8.RuneCountInString(*t.Category) > MaxCategoryLength {
		return NewValidationError("category", "is too long", nil)
	}

	if t.Priority != nil && utf8.RuneCountInString(*t.Priority) > MaxPriorityLength {
		return NewValidationError("priority", "is too long", nil)
	}

	if t.EstimatedMinutes != nil && *t.EstimatedMinutes < 0 {
		return NewValidationError("estimated_minutes", "cannot be negative", nil)
	}

	if t.Status == "" {
		return NewValidationError("status", "cannot be empty", nil)
	}

	if utf8.RuneCountInString(string(t.Status)) > MaxStatusLength {
		return NewValidationError("status", "is too long", nil)
	}

	return nil
}

// ApplyCompletion moves the task to completed when done is true and back to
// pending otherwise.
func (t *Task) ApplyCompletion(done bool) {
	if done {
		t.Status = TaskStatusCompleted
		return
	}
	t.Status = TaskStatusPending
}

// ApplyArchival moves the task to archived when archived is true.
// Unarchiving returns it to completed, since only finished work is archived.
func (t *Task) ApplyArchival(archived bool) {
	if archived {
		t.Status = TaskStatusArchived
		return
	}
	t.Status = TaskStatusCompleted
}
