package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/focus-api/internal/domain"
)

// TaskFilter narrows a task listing.
type TaskFilter struct {
	// Status restricts the listing to tasks in the given status when set.
	Status *domain.TaskStatus
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task. The store assigns CreatedAt and writes it back
	// into the task. Returns validation errors from the domain Task if data is
	// invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List returns tasks in creation order. It returns an empty slice, never
	// nil, when nothing matches.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// UpdateStatus sets the status of an existing task and returns the
	// updated row. Returns ErrTaskNotFound if the task does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) (*domain.Task, error)

	// Delete removes a task. Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a TaskStore bound to the given transaction.
	WithTx(tx *sql.Tx) TaskStore
}
