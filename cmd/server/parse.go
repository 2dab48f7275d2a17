package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/phrazzld/focus-api/internal/config"
	"github.com/phrazzld/focus-api/internal/extraction"
	"github.com/phrazzld/focus-api/internal/platform/logger"
	"github.com/spf13/cobra"
)

type parseOptions struct {
	fallback bool
	text     string
}

func newParseCmd(opts *rootOptions) *cobra.Command {
	parseOpts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Extract candidate tasks from a brain dump",
		Long: `Extract candidate tasks from a brain dump and print them as JSON.

The text is read from --text, or from stdin when the flag is absent.

Examples:
  focus-api parse --text "Buy groceries"
  pbpaste | focus-api parse --fallback`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runParse(cmd.Context(), opts, parseOpts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().BoolVar(&parseOpts.fallback, "fallback", false, "skip the language model and use the local fallback")
	cmd.Flags().StringVar(&parseOpts.text, "text", "", "brain dump text (default: read stdin)")

	return cmd
}

func runParse(
	ctx context.Context,
	opts *rootOptions,
	parseOpts *parseOptions,
	in io.Reader,
	out io.Writer,
	errOut io.Writer,
) error {
	cfg, err := config.LoadFromDir(opts.configDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if parseOpts.fallback {
		cfg.LLM.ForceFallback = true
	}

	log := logger.SetupWithWriter(errOut, cfg.Server.LogLevel)

	text := parseOpts.text
	if text == "" {
		data, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no text to parse")
	}

	extractor, err := newExtractor(ctx, cfg.LLM, log)
	if err != nil {
		return err
	}

	result, err := extractor.Extract(ctx, text)
	if err != nil {
		if kind := extraction.KindOf(err); kind != "" {
			return fmt.Errorf("extraction failed (%s): %w", kind, err)
		}
		return fmt.Errorf("extraction failed: %w", err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, result.Raw, "", "  "); err != nil {
		return fmt.Errorf("failed to format candidates: %w", err)
	}
	pretty.WriteByte('\n')

	_, err = pretty.WriteTo(out)
	return err
}
