package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/focus-api/internal/config"
	"github.com/phrazzld/focus-api/internal/extraction"
	"google.golang.org/genai"
)

// contentGenerator is the subset of *genai.Models used by Completer.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Completer implements extraction.Completer using the Gemini API.
type Completer struct {
	models      contentGenerator
	model       string
	temperature float32
	timeout     time.Duration
	logger      *slog.Logger
}

var _ extraction.Completer = (*Completer)(nil)

// NewCompleter creates a Gemini client from the LLM settings.
func NewCompleter(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (*Completer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key cannot be empty")
	}
	if cfg.GeminiModel == "" {
		return nil, errors.New("gemini model name cannot be empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return newCompleter(client.Models, cfg, logger), nil
}

func newCompleter(models contentGenerator, cfg config.LLMConfig, logger *slog.Logger) *Completer {
	return &Completer{
		models:      models,
		model:       cfg.GeminiModel,
		temperature: float32(cfg.Temperature),
		timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		logger:      logger.With("component", "gemini_completer"),
	}
}

// Complete sends prompt to the configured model and returns the text of the
// first candidate.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	temperature := c.temperature
	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: &temperature,
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "Gemini API call failed",
			"error", err,
			"model", c.model,
			"duration_ms", time.Since(start).Milliseconds())
		return "", mapAPIError(err)
	}

	c.logger.DebugContext(ctx, "Gemini API call succeeded",
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds())

	return responseText(resp)
}

// mapAPIError converts a GenerateContent error into a provider error,
// keeping the HTTP status when the API reported one. The client library has
// returned APIError both by value and by pointer.
func mapAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return extraction.NewProviderHTTPError(apiErr.Code, apiErr.Message, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return extraction.NewProviderHTTPError(apiErrPtr.Code, apiErrPtr.Message, err)
	}
	return extraction.NewProviderHTTPError(0, "", err)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", extraction.NewMalformedResponseError("candidates")
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return "", extraction.NewMalformedResponseError("candidates[0].content")
	}
	if len(content.Parts) == 0 {
		return "", extraction.NewMalformedResponseError("candidates[0].content.parts")
	}

	var sb strings.Builder
	for _, part := range content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", extraction.NewEmptyCompletionError()
	}
	return text, nil
}
