package salesrank

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver
)

// Table names created by OpenDB.
const (
	TableTransactions   = "transactions"
	TableProductMetrics = "product_metrics"
)

// transactionColumns defines the transactions table schema in insert order.
var transactionColumns = [][2]string{
	{"transaction_id", "TEXT"},
	{"customer_id", "TEXT"},
	{"transaction_date", "TEXT"},
	{"product_id", "TEXT"},
	{"product_name", "TEXT"},
	{"quantity", "REAL"},
	{"price_usd", "REAL"},
}

// productMetricColumns defines the product_metrics table schema in insert
// order. rank is bracket-quoted in queries because it is a reserved word in
// newer SQLite versions.
var productMetricColumns = [][2]string{
	{"rank", "INTEGER"},
	{"product_id", "TEXT"},
	{"product_name", "TEXT"},
	{"total_quantity", "REAL"},
	{"total_spend", "REAL"},
	{"importance_score", "REAL"},
}

// OpenDB loads a validated analysis into an in-memory SQLite database with
// two tables: transactions holds the seven required columns of every valid
// record, product_metrics holds the ranked aggregates. The caller owns the
// returned handle and must Close it. Analyses that failed validation cannot
// be loaded and return ErrNotValidated.
func OpenDB(ctx context.Context, analysis *Analysis) (*sql.DB, error) {
	if analysis == nil || !analysis.OK() {
		return nil, ErrNotValidated
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := loadAnalysis(ctx, db, analysis); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// loadAnalysis creates both tables and inserts all rows in one transaction.
func loadAnalysis(ctx context.Context, db *sql.DB, analysis *Analysis) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := insertTransactions(ctx, tx, analysis.Transactions); err != nil {
		return err
	}
	if err := insertProductMetrics(ctx, tx, analysis.Metrics); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func insertTransactions(ctx context.Context, tx *sql.Tx, txs []Transaction) error {
	if _, err := tx.ExecContext(ctx, buildCreateTableQuery(TableTransactions, transactionColumns)); err != nil {
		return fmt.Errorf("failed to create %s table: %w", TableTransactions, err)
	}
	stmt, err := tx.PrepareContext(ctx, buildInsertQuery(TableTransactions, transactionColumns))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range txs {
		_, err := stmt.ExecContext(ctx, t.ID, t.CustomerID, t.Date, t.ProductID, t.ProductName, t.Quantity, t.PriceUSD)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", t.ID, err)
		}
	}
	return nil
}

func insertProductMetrics(ctx context.Context, tx *sql.Tx, metrics []ProductMetric) error {
	if _, err := tx.ExecContext(ctx, buildCreateTableQuery(TableProductMetrics, productMetricColumns)); err != nil {
		return fmt.Errorf("failed to create %s table: %w", TableProductMetrics, err)
	}
	stmt, err := tx.PrepareContext(ctx, buildInsertQuery(TableProductMetrics, productMetricColumns))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range metrics {
		_, err := stmt.ExecContext(ctx, m.Rank, m.ProductID, m.ProductName, m.TotalQuantity, m.TotalSpend, m.ImportanceScore)
		if err != nil {
			return fmt.Errorf("failed to insert metrics for product %s: %w", m.ProductID, err)
		}
	}
	return nil
}

// buildCreateTableQuery constructs a CREATE TABLE query for the given table.
func buildCreateTableQuery(name string, columns [][2]string) string {
	defs := make([]string, 0, len(columns))
	for _, col := range columns {
		defs = append(defs, fmt.Sprintf(`[%s] %s`, col[0], col[1]))
	}
	return fmt.Sprintf(`CREATE TABLE [%s] (%s)`, name, strings.Join(defs, ", "))
}

// buildInsertQuery constructs an INSERT query for the given table.
func buildInsertQuery(name string, columns [][2]string) string {
	return fmt.Sprintf(`INSERT INTO [%s] VALUES (%s)`, name, buildPlaceholders(len(columns)))
}

// buildPlaceholders creates the placeholder list for prepared statements.
func buildPlaceholders(count int) string {
	if count == 0 {
		return ""
	}
	placeholders := "?"
	for i := 1; i < count; i++ {
		placeholders += ", ?"
	}
	return placeholders
}
