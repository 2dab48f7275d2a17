package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/phrazzld/focus-api/internal/platform/logger"
	"github.com/phrazzld/focus-api/internal/store"
)

// ColumnInfo describes one column of a table.
type ColumnInfo struct {
	Name       string
	DataType   string
	Nullable   bool
	PrimaryKey bool
}

// TableInfo describes a table, its size and a few of its rows.
type TableInfo struct {
	Name     string
	Columns  []ColumnInfo
	RowCount int64
	// Sample holds up to the requested number of rows, each rendered as
	// one string per column.
	Sample [][]string
}

// Report is a snapshot of the public schema.
type Report struct {
	SizeBytes int64
	Tables    []TableInfo
}

// Inspector reads schema and sample data for diagnostics.
type Inspector struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewInspector creates an Inspector. If logger is nil, a default logger will be used.
func NewInspector(db store.DBTX, logger *slog.Logger) *Inspector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Inspector{db: db, logger: logger.With(slog.String("component", "inspector"))}
}

const (
	databaseSizeQuery = `SELECT pg_database_size(current_database())`

	tablesQuery = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	columnsQuery = `
		SELECT c.column_name, c.data_type, c.is_nullable = 'YES',
			EXISTS (
				SELECT 1
				FROM information_schema.table_constraints tc
				JOIN information_schema.key_column_usage k
					ON tc.constraint_name = k.constraint_name
					AND tc.table_schema = k.table_schema
				WHERE tc.constraint_type = 'PRIMARY KEY'
					AND tc.table_schema = c.table_schema
					AND tc.table_name = c.table_name
					AND k.column_name = c.column_name
			)
		FROM information_schema.columns c
		WHERE c.table_schema = 'public' AND c.table_name = $1
		ORDER BY c.ordinal_position
	`
)

// Inspect reports every table in the public schema with up to sampleSize
// rows each.
func (i *Inspector) Inspect(ctx context.Context, sampleSize int) (*Report, error) {
	log := logger.FromContextOrDefault(ctx, i.logger)

	var report Report
	if err := i.db.QueryRowContext(ctx, databaseSizeQuery).Scan(&report.SizeBytes); err != nil {
		return nil, fmt.Errorf("failed to read database size: %w", MapError(err))
	}

	names, err := i.tableNames(ctx)
	if err != nil {
		return nil, err
	}

	for _, name := range names {
		table, err := i.describe(ctx, name, sampleSize)
		if err != nil {
			return nil, err
		}
		report.Tables = append(report.Tables, *table)
	}

	log.Debug("database inspected", slog.Int("tables", len(report.Tables)))
	return &report, nil
}

func (i *Inspector) tableNames(ctx context.Context) ([]string, error) {
	rows, err := i.db.QueryContext(ctx, tablesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (i *Inspector) describe(ctx context.Context, name string, sampleSize int) (*TableInfo, error) {
	table := &TableInfo{Name: name}

	rows, err := i.db.QueryContext(ctx, columnsQuery, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", name, MapError(err))
	}
	for rows.Next() {
		var col ColumnInfo
		if err := rows.Scan(&col.Name, &col.DataType, &col.Nullable, &col.PrimaryKey); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan column of %s: %w", name, err)
		}
		table.Columns = append(table.Columns, col)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("failed to read columns of %s: %w", name, err)
	}
	_ = rows.Close()

	ident := pgx.Identifier{name}.Sanitize()
	if err := i.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+ident).Scan(&table.RowCount); err != nil {
		return nil, fmt.Errorf("failed to count rows of %s: %w", name, MapError(err))
	}

	if table.RowCount == 0 || sampleSize <= 0 {
		return table, nil
	}

	sample, err := i.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT %d", ident, sampleSize))
	if err != nil {
		return nil, fmt.Errorf("failed to sample rows of %s: %w", name, MapError(err))
	}
	defer func() { _ = sample.Close() }()

	cols, err := sample.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read sample columns of %s: %w", name, err)
	}
	for sample.Next() {
		values := make([]any, len(cols))
		dest := make([]any, len(cols))
		for j := range values {
			dest[j] = &values[j]
		}
		if err := sample.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan sample row of %s: %w", name, err)
		}
		table.Sample = append(table.Sample, renderRow(values))
	}
	if err := sample.Err(); err != nil {
		return nil, fmt.Errorf("failed to sample rows of %s: %w", name, err)
	}

	return table, nil
}

func renderRow(values []any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		switch val := v.(type) {
		case nil:
			out[i] = "NULL"
		case []byte:
			out[i] = string(val)
		default:
			out[i] = fmt.Sprint(val)
		}
	}
	return out
}
