package main

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/salesrank/salesrank"
	"github.com/spf13/cobra"
)

// sqlCmd loads a validated analysis into SQLite and runs a query against it.
var sqlCmd = &cobra.Command{
	Use:   "sql <query> [file]",
	Short: "Run a SQL query against the analyzed tables",
	Long: `Sql analyzes a transactions file, loads the validated transactions and the
ranked product metrics into an in-memory SQLite database, and runs the given
query. Stdin is read when the file is omitted or "-". Results are written to
stdout as CSV. The available tables are transactions and product_metrics;
quote rank as [rank] since it is a reserved word.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	input := "-"
	if len(args) > 1 {
		input = args[1]
	}
	data, err := salesrank.LoadFile(input)
	if err != nil {
		return err
	}
	analysis := salesrank.Analyze(data)
	if !analysis.OK() {
		fmt.Fprintln(cmd.OutOrStdout(), analysis.Response)
		return errAnalysisFailed
	}

	db, err := salesrank.OpenDB(ctx, analysis)
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, args[0])
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	return writeRowsCSV(cmd.OutOrStdout(), rows)
}

// writeRowsCSV streams query results as CSV with a header row.
func writeRowsCSV(w io.Writer, rows *sql.Rows) error {
	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("failed to read columns: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	values := make([]any, len(columns))
	scanArgs := make([]any, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}
	record := make([]string, len(columns))
	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			record[i] = formatSQLValue(v)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read rows: %w", err)
	}
	writer.Flush()
	return writer.Error()
}

// formatSQLValue renders a scanned SQL value as CSV cell text. NULL becomes
// the empty string.
func formatSQLValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
