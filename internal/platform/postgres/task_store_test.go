package postgres

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/focus-api/internal/domain"
	"github.com/phrazzld/focus-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskRowColumns = []string{
	"id", "title", "category", "priority", "estimated_minutes", "due_date", "status", "created_at",
}

func newMockStore(t *testing.T) (*PostgresTaskStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewPostgresTaskStore(db, slog.New(slog.NewTextHandler(io.Discard, nil))), mock
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestNewPostgresTaskStore(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewPostgresTaskStore(nil, nil) })

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	s := NewPostgresTaskStore(db, nil)
	assert.NotNil(t, s.logger, "nil logger falls back to the default")
}

func TestPostgresTaskStore_Create(t *testing.T) {
	t.Parallel()

	due := domain.NewDate(2025, time.March, 1)
	createdAt := time.Date(2025, 2, 1, 9, 30, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		task, err := domain.NewTask("Write report", strPtr("Work"), nil, intPtr(45), &due)
		require.NoError(t, err)

		mock.ExpectQuery("INSERT INTO tasks").
			WithArgs(task.ID, "Write report", "Work", nil, int64(45), due.Time(), "pending").
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))

		require.NoError(t, s.Create(context.Background(), task))
		assert.Equal(t, createdAt, task.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("validation failure skips the database", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		task := &domain.Task{ID: uuid.New(), Title: "x", Status: domain.TaskStatusPending, EstimatedMinutes: intPtr(-1)}
		err := s.Create(context.Background(), task)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate id", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		task, err := domain.NewTask("dup", nil, nil, nil, nil)
		require.NoError(t, err)

		mock.ExpectQuery("INSERT INTO tasks").
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

		err = s.Create(context.Background(), task)
		assert.ErrorIs(t, err, store.ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver error is returned", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		task, err := domain.NewTask("boom", nil, nil, nil, nil)
		require.NoError(t, err)

		mock.ExpectQuery("INSERT INTO tasks").WillReturnError(errors.New("connection lost"))

		err = s.Create(context.Background(), task)
		assert.EqualError(t, err, "create operation on task failed: insert failed: connection lost")
		var storeErr *store.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "create", storeErr.Operation)
	})
}

func TestPostgresTaskStore_GetByID(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	createdAt := time.Date(2025, 2, 1, 9, 30, 0, 0, time.UTC)
	dueTime := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("found with all fields", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT .+ FROM tasks WHERE id = \\$1").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(taskRowColumns).
				AddRow(id.String(), "Write report", "Work", "High", int64(60), dueTime, "pending", createdAt))

		task, err := s.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, task.ID)
		assert.Equal(t, "Write report", task.Title)
		require.NotNil(t, task.Category)
		assert.Equal(t, "Work", *task.Category)
		require.NotNil(t, task.Priority)
		assert.Equal(t, "High", *task.Priority)
		require.NotNil(t, task.EstimatedMinutes)
		assert.Equal(t, 60, *task.EstimatedMinutes)
		require.NotNil(t, task.DueDate)
		assert.Equal(t, "2025-03-01", task.DueDate.String())
		assert.Equal(t, domain.TaskStatusPending, task.Status)
		assert.Equal(t, createdAt, task.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("found with nulls", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT .+ FROM tasks WHERE id = \\$1").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(taskRowColumns).
				AddRow(id.String(), "Bare", nil, nil, nil, nil, "archived", createdAt))

		task, err := s.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Nil(t, task.Category)
		assert.Nil(t, task.Priority)
		assert.Nil(t, task.EstimatedMinutes)
		assert.Nil(t, task.DueDate)
		assert.Equal(t, domain.TaskStatusArchived, task.Status)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT .+ FROM tasks WHERE id = \\$1").
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		task, err := s.GetByID(context.Background(), id)
		assert.Nil(t, task)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.True(t, store.IsNotFoundError(err))
	})
}

func TestPostgresTaskStore_List(t *testing.T) {
	t.Parallel()

	first := uuid.New()
	second := uuid.New()
	t1 := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	t.Run("all tasks in creation order", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT .+ FROM tasks ORDER BY created_at ASC, id ASC").
			WithoutArgs().
			WillReturnRows(sqlmock.NewRows(taskRowColumns).
				AddRow(first.String(), "one", nil, nil, nil, nil, "pending", t1).
				AddRow(second.String(), "two", nil, nil, nil, nil, "completed", t2))

		tasks, err := s.List(context.Background(), store.TaskFilter{})
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, first, tasks[0].ID)
		assert.Equal(t, second, tasks[1].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("status filter", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		status := domain.TaskStatusCompleted
		mock.ExpectQuery("SELECT .+ FROM tasks WHERE status = \\$1 ORDER BY").
			WithArgs("completed").
			WillReturnRows(sqlmock.NewRows(taskRowColumns).
				AddRow(second.String(), "two", nil, nil, nil, nil, "completed", t2))

		tasks, err := s.List(context.Background(), store.TaskFilter{Status: &status})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result is an empty slice", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT .+ FROM tasks").
			WillReturnRows(sqlmock.NewRows(taskRowColumns))

		tasks, err := s.List(context.Background(), store.TaskFilter{})
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("row error", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT .+ FROM tasks").
			WillReturnRows(sqlmock.NewRows(taskRowColumns).
				AddRow(first.String(), "one", nil, nil, nil, nil, "pending", t1).
				RowError(0, errors.New("read failed")))

		_, err := s.List(context.Background(), store.TaskFilter{})
		assert.Error(t, err)
	})

	t.Run("query failure carries operation context", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT .+ FROM tasks").WillReturnError(errors.New("timeout"))

		_, err := s.List(context.Background(), store.TaskFilter{})
		var storeErr *store.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "task", storeErr.Entity)
		assert.Equal(t, "list", storeErr.Operation)
	})
}

func TestPostgresTaskStore_UpdateStatus(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	createdAt := time.Date(2025, 2, 1, 9, 30, 0, 0, time.UTC)

	t.Run("success returns updated row", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectQuery("UPDATE tasks SET status = \\$1 WHERE id = \\$2 RETURNING").
			WithArgs("completed", id).
			WillReturnRows(sqlmock.NewRows(taskRowColumns).
				AddRow(id.String(), "t", nil, nil, nil, nil, "completed", createdAt))

		task, err := s.UpdateStatus(context.Background(), id, domain.TaskStatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, task.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectQuery("UPDATE tasks").
			WithArgs("archived", id).
			WillReturnError(sql.ErrNoRows)

		_, err := s.UpdateStatus(context.Background(), id, domain.TaskStatusArchived)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("empty status", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		_, err := s.UpdateStatus(context.Background(), id, "")
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("too long status maps to invalid entity", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectQuery("UPDATE tasks").
			WillReturnError(&pgconn.PgError{Code: stringTooLongCode, ColumnName: "status"})

		_, err := s.UpdateStatus(context.Background(), id, "in-progress-forever")
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestPostgresTaskStore_Delete(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectExec("DELETE FROM tasks WHERE id = \\$1").
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Delete(context.Background(), id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectExec("DELETE FROM tasks").
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Delete(context.Background(), id)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestPostgresTaskStore_WithTx(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM tasks").WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	db := s.db.(*sql.DB)
	err := store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		return s.WithTx(tx).Delete(ctx, id)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
