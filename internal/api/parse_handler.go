package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/focus-api/internal/api/shared"
	"github.com/phrazzld/focus-api/internal/extraction"
	"github.com/phrazzld/focus-api/internal/platform/logger"
)

// TaskExtractor turns a brain dump into a JSON array of candidate tasks.
type TaskExtractor interface {
	Extract(ctx context.Context, text string) (*extraction.Result, error)
}

// ParseHandler serves brain dump extraction.
type ParseHandler struct {
	extractor TaskExtractor
	logger    *slog.Logger
}

// NewParseHandler creates a new ParseHandler
func NewParseHandler(extractor TaskExtractor, logger *slog.Logger) *ParseHandler {
	if extractor == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("extractor cannot be nil for ParseHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ParseHandler")
	}

	return &ParseHandler{
		extractor: extractor,
		logger:    logger.With(slog.String("component", "parse_handler")),
	}
}

// ParseTask handles POST /api/ai/parse-task requests.
// The extracted array is written as-is; there is no partial result on failure.
func (h *ParseHandler) ParseTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ParseTaskRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msgInvalidRequest, err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	result, err := h.extractor.Extract(r.Context(), *req.Text)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, msgParsingFailed, err,
			shared.WithDetails(err.Error(), string(extraction.KindOf(err))))
		return
	}

	log.Debug("brain dump parsed",
		slog.String("mode", string(result.Mode)),
		slog.Int("text_length", len(*req.Text)))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Raw); err != nil {
		log.Error("failed to write parse response", "error", err)
	}
}
