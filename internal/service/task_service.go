package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/focus-api/internal/domain"
	"github.com/phrazzld/focus-api/internal/platform/logger"
	"github.com/phrazzld/focus-api/internal/store"
)

// TaskRepository defines the repository interface for the service layer.
type TaskRepository interface {
	store.TaskStore

	// DB returns the underlying database connection
	DB() *sql.DB
}

// CreateTaskParams holds the caller-supplied fields of a new task.
type CreateTaskParams struct {
	Title            string
	Category         *string
	Priority         *string
	EstimatedMinutes *int
	DueDate          *domain.Date
}

// UpdateTaskParams holds the optional status flags of an update.
// Completed is applied first, then Archived.
type UpdateTaskParams struct {
	Completed *bool
	Archived  *bool
}

// TaskService provides task-related operations
type TaskService interface {
	// CreateTask stores a new pending task with a fresh ID.
	CreateTask(ctx context.Context, params CreateTaskParams) (*domain.Task, error)

	// ListTasks returns tasks in creation order.
	ListTasks(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error)

	// GetTask retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// UpdateTask applies the completion and archival flags to a task.
	// When both are set, archival wins. With neither set the task is
	// returned unchanged. Returns ErrTaskNotFound if the task does not exist.
	UpdateTask(ctx context.Context, id uuid.UUID, params UpdateTaskParams) (*domain.Task, error)

	// DeleteTask removes a task.
	// Returns ErrTaskNotFound if the task does not exist.
	DeleteTask(ctx context.Context, id uuid.UUID) error
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	taskRepo TaskRepository
	logger   *slog.Logger
}

// NewTaskService creates a new TaskService
// It returns an error if the repository is nil.
func NewTaskService(taskRepo TaskRepository, logger *slog.Logger) (TaskService, error) {
	if taskRepo == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "taskRepo cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskRepo: taskRepo,
		logger:   logger.With("component", "task_service"),
	}, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(
		params.Title,
		params.Category,
		params.Priority,
		params.EstimatedMinutes,
		params.DueDate,
	)
	if err != nil {
		log.Warn("failed to create task object", "error", err)
		return nil, NewTaskServiceError("create_task", "invalid task", err)
	}

	err = store.RunInTransaction(ctx, s.taskRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		if err := s.taskRepo.WithTx(tx).Create(ctx, task); err != nil {
			log.Error("failed to create task in transaction",
				"error", err,
				"task_id", task.ID)
			return NewTaskServiceError("create_task", "failed to save task to database", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("task created", "task_id", task.ID)
	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	tasks, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks", "error", err)
		return nil, NewTaskServiceError("list_tasks", "failed to retrieve tasks", err)
	}
	return tasks, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		log := logger.FromContextOrDefault(ctx, s.logger)
		if store.IsNotFoundError(err) {
			log.Debug("task not found", "task_id", id)
		} else {
			log.Error("failed to retrieve task", "error", err, "task_id", id)
		}
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}
	return task, nil
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id uuid.UUID,
	params UpdateTaskParams,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Task
	err := store.RunInTransaction(ctx, s.taskRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.taskRepo.WithTx(tx)

		task, err := txRepo.GetByID(ctx, id)
		if err != nil {
			return NewTaskServiceError("update_task", "failed to retrieve task", err)
		}

		if params.Completed == nil && params.Archived == nil {
			updated = task
			return nil
		}

		if params.Completed != nil {
			task.ApplyCompletion(*params.Completed)
		}
		if params.Archived != nil {
			task.ApplyArchival(*params.Archived)
		}

		updated, err = txRepo.UpdateStatus(ctx, id, task.Status)
		if err != nil {
			return NewTaskServiceError("update_task", "failed to update task status", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			log.Debug("task not found for update", "task_id", id)
		} else {
			log.Error("failed to update task", "error", err, "task_id", id)
		}
		return nil, err
	}

	log.Info("task updated",
		"task_id", id,
		"status", updated.Status)
	return updated, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.taskRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		if err := s.taskRepo.WithTx(tx).Delete(ctx, id); err != nil {
			return NewTaskServiceError("delete_task", "failed to delete task", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			log.Debug("task not found for delete", "task_id", id)
		} else {
			log.Error("failed to delete task", "error", err, "task_id", id)
		}
		return err
	}

	log.Info("task deleted", "task_id", id)
	return nil
}
