package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/focus-api/internal/domain"
	"github.com/phrazzld/focus-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing.
// WithTx returns the mock itself, so expectations hold inside transactions.
type MockTaskStore struct {
	CreateFn       func(ctx context.Context, task *domain.Task) error
	GetByIDFn      func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListFn         func(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error)
	UpdateStatusFn func(ctx context.Context, id uuid.UUID, status domain.TaskStatus) (*domain.Task, error)
	DeleteFn       func(ctx context.Context, id uuid.UUID) error

	// Default return values
	Task         *domain.Task
	Tasks        []*domain.Task
	DefaultError error

	// TxCount counts WithTx calls.
	TxCount int
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// Create implements store.TaskStore.Create
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	return m.DefaultError
}

// GetByID implements store.TaskStore.GetByID
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return m.Task, m.DefaultError
}

// List implements store.TaskStore.List
func (m *MockTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return m.Tasks, m.DefaultError
}

// UpdateStatus implements store.TaskStore.UpdateStatus
func (m *MockTaskStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.TaskStatus,
) (*domain.Task, error) {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, status)
	}
	return m.Task, m.DefaultError
}

// Delete implements store.TaskStore.Delete
func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return m.DefaultError
}

// WithTx implements store.TaskStore.WithTx
func (m *MockTaskStore) WithTx(_ *sql.Tx) store.TaskStore {
	m.TxCount++
	return m
}
