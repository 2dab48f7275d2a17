package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/phrazzld/focus-api/internal/config"
	"github.com/phrazzld/focus-api/internal/domain"
	"github.com/phrazzld/focus-api/internal/platform/logger"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Completer sends a prompt to a language model and returns the raw text of
// its reply. Implementations report failures as *Error values of kind
// KindProviderHTTP, KindEmptyCompletion or KindMalformedResponse.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Mode names the strategy an Extractor runs with.
type Mode string

const (
	ModeFallback Mode = "fallback"
	ModeProvider Mode = "provider"
)

// Config selects and tunes the extraction strategy.
type Config struct {
	// ProviderCredential is the provider API key. Empty selects fallback mode.
	ProviderCredential string
	// ForceFallback selects fallback mode even when a credential is set.
	ForceFallback bool

	PromptTemplatePath string
	StrictSchema       bool
	// Timeout bounds each completion call. Zero means no extra bound.
	Timeout time.Duration
}

// ConfigFromLLM maps application settings onto an extraction Config.
func ConfigFromLLM(c config.LLMConfig) Config {
	return Config{
		ProviderCredential: c.APIKey,
		ForceFallback:      c.ForceFallback,
		PromptTemplatePath: c.PromptTemplatePath,
		StrictSchema:       c.StrictSchema,
		Timeout:            time.Duration(c.TimeoutSeconds) * time.Second,
	}
}

// Result is a successful extraction.
type Result struct {
	// Raw is the JSON array text, exactly as extracted.
	Raw  json.RawMessage
	Mode Mode
}

// Candidates decodes Raw into typed candidates. A decode failure here does
// not mean the extraction failed; Raw is still valid JSON.
func (r *Result) Candidates() ([]domain.CandidateTask, error) {
	var candidates []domain.CandidateTask
	if err := json.Unmarshal(r.Raw, &candidates); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}
	return candidates, nil
}

// Extractor converts brain-dump text into candidate tasks. It holds no
// mutable state and is safe for concurrent use.
type Extractor struct {
	mode      Mode
	completer Completer
	prompt    *template.Template
	schema    *jsonschema.Schema
	timeout   time.Duration
	logger    *slog.Logger
}

// New builds an Extractor. The strategy is fixed here: fallback mode when
// cfg.ForceFallback is set or cfg.ProviderCredential is empty, provider mode
// otherwise. completer may be nil only in fallback mode.
func New(cfg Config, completer Completer, logger *slog.Logger) (*Extractor, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	e := &Extractor{
		mode:    ModeProvider,
		timeout: cfg.Timeout,
		logger:  logger.With("component", "extractor"),
	}
	if cfg.ForceFallback || cfg.ProviderCredential == "" {
		e.mode = ModeFallback
		return e, nil
	}

	if completer == nil {
		return nil, errors.New("completer cannot be nil in provider mode")
	}
	e.completer = completer

	tmpl, err := loadPromptTemplate(cfg.PromptTemplatePath)
	if err != nil {
		return nil, err
	}
	e.prompt = tmpl

	if cfg.StrictSchema {
		schema, err := compileCandidateSchema()
		if err != nil {
			return nil, err
		}
		e.schema = schema
	}

	return e, nil
}

// Mode reports the strategy chosen at construction.
func (e *Extractor) Mode() Mode {
	return e.mode
}

// Extract turns text into a JSON array of candidate tasks. In fallback mode
// it never fails. In provider mode it makes exactly one completion call and
// returns an *Error on any failure; there are no partial results.
func (e *Extractor) Extract(ctx context.Context, text string) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	if e.mode == ModeFallback {
		raw := fallbackCandidates(text)
		log.DebugContext(ctx, "extracted candidates in fallback mode",
			"input_length", len(text),
			"output_length", len(raw))
		return &Result{Raw: raw, Mode: ModeFallback}, nil
	}

	prompt, err := renderPrompt(e.prompt, text)
	if err != nil {
		return nil, err
	}

	completion, err := e.complete(ctx, prompt)
	if err != nil {
		log.ErrorContext(ctx, "completion request failed",
			"kind", KindOf(err),
			"error", err)
		return nil, err
	}

	fragment, err := ExtractJSONArray(completion)
	if err != nil {
		log.WarnContext(ctx, "could not extract candidates from completion",
			"kind", KindOf(err),
			"completion_length", len(completion))
		return nil, err
	}

	if e.schema != nil {
		if err := validateCandidates(e.schema, fragment); err != nil {
			log.WarnContext(ctx, "candidates failed schema validation",
				"kind", KindOf(err),
				"error", err)
			return nil, err
		}
	}

	log.InfoContext(ctx, "extracted candidates from completion",
		"input_length", len(text),
		"output_length", len(fragment))

	return &Result{Raw: json.RawMessage(fragment), Mode: ModeProvider}, nil
}

func (e *Extractor) complete(ctx context.Context, prompt string) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	completion, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		if KindOf(err) == "" {
			return "", NewProviderHTTPError(0, "", err)
		}
		return "", err
	}
	if strings.TrimSpace(completion) == "" {
		return "", NewEmptyCompletionError()
	}
	return completion, nil
}
