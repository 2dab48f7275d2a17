package api

import (
	"github.com/phrazzld/focus-api/internal/domain"
)

// CreateTaskRequest defines the payload for creating a task.
// Category and priority are free strings; the known values are hints.
type CreateTaskRequest struct {
	Title            string       `json:"title"             validate:"required,max=255"`
	Category         *string      `json:"category"          validate:"omitempty,max=20"`
	Priority         *string      `json:"priority"          validate:"omitempty,max=10"`
	EstimatedMinutes *int         `json:"estimated_minutes" validate:"omitempty,min=0"`
	DueDate          *domain.Date `json:"due_date"`
}

// UpdateTaskRequest defines the payload for updating a task's status.
// Absent fields leave the status alone; archived is applied after completed.
type UpdateTaskRequest struct {
	Completed *bool `json:"completed"`
	Archived  *bool `json:"archived"`
}

// ParseTaskRequest defines the payload for extracting candidates from a
// brain dump. Text must be present but may be empty.
type ParseTaskRequest struct {
	Text *string `json:"text" validate:"required"`
}
