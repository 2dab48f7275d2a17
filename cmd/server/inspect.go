package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/phrazzld/focus-api/internal/config"
	"github.com/phrazzld/focus-api/internal/platform/logger"
	"github.com/phrazzld/focus-api/internal/platform/postgres"
	"github.com/spf13/cobra"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func newInspectCmd(opts *rootOptions) *cobra.Command {
	var sampleSize int

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the database schema, row counts and sample rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd.Context(), opts, sampleSize, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&sampleSize, "sample", "n", 5, "number of sample rows per table")

	return cmd
}

func runInspect(ctx context.Context, opts *rootOptions, sampleSize int, out io.Writer) error {
	cfg, err := config.LoadFromDir(opts.configDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.SetupWithWriter(os.Stderr, cfg.Server.LogLevel)

	db, err := setupAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	report, err := postgres.NewInspector(db, log).Inspect(ctx, sampleSize)
	if err != nil {
		return err
	}

	return renderReport(out, report)
}

func renderReport(w io.Writer, report *postgres.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Database size:"), formatBytes(report.SizeBytes))
	if len(report.Tables) == 0 {
		b.WriteString(mutedStyle.Render("no tables; run `focus-api migrate up`") + "\n")
	}

	for _, table := range report.Tables {
		fmt.Fprintf(&b, "\n%s %s\n",
			headingStyle.Render(table.Name),
			mutedStyle.Render(fmt.Sprintf("(%d rows)", table.RowCount)))

		header := make([]string, len(table.Columns))
		for i, col := range table.Columns {
			var flags []string
			if col.PrimaryKey {
				flags = append(flags, "pk")
			}
			if col.Nullable {
				flags = append(flags, "null")
			}
			suffix := ""
			if len(flags) > 0 {
				suffix = " " + mutedStyle.Render(strings.Join(flags, ","))
			}
			fmt.Fprintf(&b, "  %s %s%s\n", labelStyle.Render(col.Name), col.DataType, suffix)
			header[i] = col.Name
		}

		if len(table.Sample) == 0 {
			continue
		}
		b.WriteString("\n  " + labelStyle.Render(strings.Join(header, " | ")) + "\n")
		for _, row := range table.Sample {
			b.WriteString("  " + strings.Join(row, " | ") + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
