package shared

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/focus-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithLogger(buf *bytes.Buffer) *http.Request {
	log := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	ctx := SetTraceID(req.Context())
	return req.WithContext(logger.WithLogger(ctx, log))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestRespondWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	RespondWithJSON(rec, req, http.StatusCreated, MessageResponse{Message: "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"ok"}`, rec.Body.String())
}

func TestRespondWithError(t *testing.T) {
	var buf bytes.Buffer
	req := requestWithLogger(&buf)
	rec := httptest.NewRecorder()

	RespondWithError(rec, req, http.StatusNotFound, "Task not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "Task not found", resp.Error)
	assert.Equal(t, GetTraceID(req.Context()), resp.TraceID)
	assert.Empty(t, resp.Details)
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Run("server errors are logged at error level without leaking", func(t *testing.T) {
		var buf bytes.Buffer
		req := requestWithLogger(&buf)
		rec := httptest.NewRecorder()

		err := errors.New("dial postgres://focus:hunter22@db/focus failed")
		RespondWithErrorAndLog(rec, req, http.StatusInternalServerError, "An unexpected error occurred", err)

		resp := decodeError(t, rec)
		assert.Equal(t, "An unexpected error occurred", resp.Error)
		assert.NotContains(t, rec.Body.String(), "hunter22")

		logged := buf.String()
		assert.Contains(t, logged, `"level":"ERROR"`)
		assert.Contains(t, logged, "[REDACTED_CREDENTIAL]")
		assert.NotContains(t, logged, "hunter22")
	})

	t.Run("client errors default to debug", func(t *testing.T) {
		var buf bytes.Buffer
		rec := httptest.NewRecorder()
		RespondWithErrorAndLog(rec, requestWithLogger(&buf), http.StatusBadRequest, "Validation error", errors.New("bad"))
		assert.Contains(t, buf.String(), `"level":"DEBUG"`)
	})

	t.Run("elevated client errors log at warn", func(t *testing.T) {
		var buf bytes.Buffer
		rec := httptest.NewRecorder()
		RespondWithErrorAndLog(rec, requestWithLogger(&buf), http.StatusBadRequest, "Validation error", nil,
			WithElevatedLogLevel())
		assert.Contains(t, buf.String(), `"level":"WARN"`)
	})

	t.Run("details are redacted and exposed", func(t *testing.T) {
		var buf bytes.Buffer
		rec := httptest.NewRecorder()
		RespondWithErrorAndLog(rec, requestWithLogger(&buf), http.StatusInternalServerError, "AI parsing failed",
			errors.New("upstream"),
			WithDetails("status 401 - response: bad key gsk_0123456789abcdefABCDEF", "provider-http-error"))

		resp := decodeError(t, rec)
		assert.Equal(t, "provider-http-error", resp.Kind)
		assert.Equal(t, "status 401 - response: bad key [REDACTED_KEY]", resp.Details)
	})

	t.Run("works without a request logger", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background())
		RespondWithErrorAndLog(rec, req, http.StatusNotFound, "Task not found", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
