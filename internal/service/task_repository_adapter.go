package service

import (
	"database/sql"

	"github.com/phrazzld/focus-api/internal/store"
)

// TaskRepositoryAdapter adapts a store.TaskStore to TaskRepository by
// pairing it with the connection pool transactions are started on.
type TaskRepositoryAdapter struct {
	store.TaskStore
	db *sql.DB
}

// NewTaskRepositoryAdapter creates a new adapter that implements TaskRepository
// by delegating to a store.TaskStore implementation.
func NewTaskRepositoryAdapter(taskStore store.TaskStore, db *sql.DB) *TaskRepositoryAdapter {
	return &TaskRepositoryAdapter{
		TaskStore: taskStore,
		db:        db,
	}
}

// DB returns the underlying database connection.
func (a *TaskRepositoryAdapter) DB() *sql.DB {
	return a.db
}

// Verify that TaskRepositoryAdapter implements service.TaskRepository
var _ TaskRepository = (*TaskRepositoryAdapter)(nil)
