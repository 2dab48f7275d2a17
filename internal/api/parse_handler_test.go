package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/focus-api/internal/api"
	"github.com/phrazzld/focus-api/internal/extraction"
	"github.com/phrazzld/focus-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newParseRouter(t *testing.T, cfg extraction.Config, completer extraction.Completer) http.Handler {
	t.Helper()
	extractor, err := extraction.New(cfg, completer, testLogger())
	require.NoError(t, err)

	h := api.NewParseHandler(extractor, testLogger())
	r := chi.NewRouter()
	r.Post("/api/ai/parse-task", h.ParseTask)
	return r
}

func providerConfig() extraction.Config {
	return extraction.Config{ProviderCredential: "test-key", Timeout: time.Second}
}

func TestNewParseHandlerPanicsWithoutDependencies(t *testing.T) {
	assert.Panics(t, func() { api.NewParseHandler(nil, testLogger()) })
}

func TestParseTaskFallback(t *testing.T) {
	completer := &mocks.MockCompleter{Err: errors.New("must not be called")}
	router := newParseRouter(t, extraction.Config{}, completer)

	rec := do(t, router, http.MethodPost, "/api/ai/parse-task",
		`{"text":"Buy groceries\nCall dentist\nFinish report\nWalk dog"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `[
		{"title":"Buy groceries","category":"Work","priority":"Medium","estimated_minutes":30,"due_date":null},
		{"title":"Call dentist","category":"Work","priority":"Medium","estimated_minutes":30,"due_date":null},
		{"title":"Finish report","category":"Work","priority":"Medium","estimated_minutes":30,"due_date":null}
	]`, rec.Body.String())
	assert.Empty(t, completer.Prompts())
}

func TestParseTaskProvider(t *testing.T) {
	completer := &mocks.MockCompleter{
		Completion: "Sure! Here you go:\n" +
			`[{"title":"Call dentist","category":"Personal","priority":"High","estimated_minutes":15,"due_date":"2025-06-01"}]` +
			"\nAnything else?",
	}
	router := newParseRouter(t, providerConfig(), completer)

	rec := do(t, router, http.MethodPost, "/api/ai/parse-task", `{"text":"dentist tomorrow"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`[{"title":"Call dentist","category":"Personal","priority":"High","estimated_minutes":15,"due_date":"2025-06-01"}]`,
		rec.Body.String())
	require.Len(t, completer.Prompts(), 1)
	assert.Contains(t, completer.Prompts()[0], "dentist tomorrow")
}

func TestParseTaskFailures(t *testing.T) {
	tests := []struct {
		name       string
		completer  *mocks.MockCompleter
		wantKind   string
		wantDetail string
	}{
		{
			name:       "no array",
			completer:  &mocks.MockCompleter{Completion: "I have no idea."},
			wantKind:   "no-array-found",
			wantDetail: "I have no idea.",
		},
		{
			name:      "unbalanced",
			completer: &mocks.MockCompleter{Completion: "prefix [ [1,2]"},
			wantKind:  "unbalanced-brackets",
		},
		{
			name:       "invalid json",
			completer:  &mocks.MockCompleter{Completion: "[1, , 2]"},
			wantKind:   "invalid-json",
			wantDetail: "[1, , 2]",
		},
		{
			name:      "empty completion",
			completer: &mocks.MockCompleter{Completion: "   "},
			wantKind:  "empty-completion",
		},
		{
			name: "provider status",
			completer: &mocks.MockCompleter{
				Err: extraction.NewProviderHTTPError(401, `{"error":"Invalid API Key: gsk_0123456789abcdefABCDEF"}`, nil),
			},
			wantKind:   "provider-http-error",
			wantDetail: "status 401",
		},
		{
			name:      "malformed envelope",
			completer: &mocks.MockCompleter{Err: extraction.NewMalformedResponseError("choices")},
			wantKind:  "malformed-response",
		},
		{
			name: "deadline",
			completer: &mocks.MockCompleter{
				CompleteFn: func(ctx context.Context, _ string) (string, error) {
					<-ctx.Done()
					return "", ctx.Err()
				},
			},
			wantKind: "provider-http-error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := providerConfig()
			cfg.Timeout = 50 * time.Millisecond
			rec := do(t, newParseRouter(t, cfg, tc.completer), http.MethodPost, "/api/ai/parse-task",
				`{"text":"anything"}`)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			resp := decodeErrorBody(t, rec)
			assert.Equal(t, "AI parsing failed", resp.Error)
			assert.Equal(t, tc.wantKind, resp.Kind)
			assert.NotEmpty(t, resp.Details)
			if tc.wantDetail != "" {
				assert.Contains(t, resp.Details, tc.wantDetail)
			}
			assert.NotContains(t, rec.Body.String(), "gsk_0123456789")
		})
	}
}

func TestParseTaskEmptyTextYieldsEmptyArray(t *testing.T) {
	router := newParseRouter(t, extraction.Config{}, nil)

	for _, body := range []string{`{"text":""}`, `{"text":"   "}`, `{"text":"\n\n"}`} {
		rec := do(t, router, http.MethodPost, "/api/ai/parse-task", body)
		assert.Equal(t, http.StatusOK, rec.Code, body)
		assert.JSONEq(t, `[]`, rec.Body.String(), body)
	}
}

func TestParseTaskBadRequests(t *testing.T) {
	router := newParseRouter(t, extraction.Config{}, nil)

	for _, body := range []string{`{}`, `{"text":null}`} {
		rec := do(t, router, http.MethodPost, "/api/ai/parse-task", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "Invalid text: required field", decodeErrorBody(t, rec).Error, body)
	}

	rec := do(t, router, http.MethodPost, "/api/ai/parse-task", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request format", decodeErrorBody(t, rec).Error)
}
