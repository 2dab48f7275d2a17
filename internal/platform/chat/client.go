package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/focus-api/internal/config"
	"github.com/phrazzld/focus-api/internal/extraction"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// Client implements extraction.Completer against a chat-completions API.
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	httpClient  *http.Client
	logger      *slog.Logger
}

var _ extraction.Completer = (*Client)(nil)

// NewClient creates a Client from the LLM settings.
func NewClient(cfg config.LLMConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("chat API key cannot be empty")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("chat base URL cannot be empty")
	}
	if cfg.Model == "" {
		return nil, errors.New("chat model cannot be empty")
	}

	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logger.With("component", "chat_client"),
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse keeps each level optional so a missing field can be named.
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message *chatReply `json:"message"`
}

type chatReply struct {
	// Content stays raw: empty when the key is absent, "null" when null.
	Content json.RawMessage `json:"content"`
}

// Complete sends prompt as a single user message and returns the reply text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "chat completion request failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds())
		return "", extraction.NewProviderHTTPError(0, "", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", extraction.NewProviderHTTPError(0, "", fmt.Errorf("failed to read response body: %w", err))
	}

	c.logger.DebugContext(ctx, "chat completion response received",
		"status", resp.StatusCode,
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", extraction.NewProviderHTTPError(resp.StatusCode, string(respBody), nil)
	}

	return parseCompletion(respBody)
}

// parseCompletion pulls choices[0].message.content out of a response body.
func parseCompletion(body []byte) (string, error) {
	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &extraction.Error{
			Kind:       extraction.KindMalformedResponse,
			Field:      "choices",
			Diagnostic: err.Error(),
			Err:        err,
		}
	}

	if parsed.Choices == nil {
		return "", extraction.NewMalformedResponseError("choices")
	}
	if len(parsed.Choices) == 0 {
		return "", extraction.NewMalformedResponseError("choices[0]")
	}
	message := parsed.Choices[0].Message
	if message == nil {
		return "", extraction.NewMalformedResponseError("choices[0].message")
	}
	if len(message.Content) == 0 {
		return "", extraction.NewMalformedResponseError("choices[0].message.content")
	}
	if string(message.Content) == "null" {
		return "", extraction.NewEmptyCompletionError()
	}

	var content string
	if err := json.Unmarshal(message.Content, &content); err != nil {
		return "", &extraction.Error{
			Kind:       extraction.KindMalformedResponse,
			Field:      "choices[0].message.content",
			Diagnostic: err.Error(),
			Err:        err,
		}
	}
	if strings.TrimSpace(content) == "" {
		return "", extraction.NewEmptyCompletionError()
	}

	return content, nil
}
