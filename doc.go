// Package salesrank validates batches of sales transactions and renders a
// ranked product-importance report with full calculation traces.
//
// salesrank accepts raw text in CSV form (header row with the required
// columns) or as a JSON envelope ({"transactions": [...]}), validates the
// structure, field presence, and value types, aggregates per-product metrics,
// and produces a deterministic human-readable report. It is a one-shot batch
// engine: every call is independent, nothing is persisted, and identical
// input always yields byte-identical output.
//
// # Features
//
//   - CSV and JSON-envelope input with automatic format detection
//   - Multi-stage validation (structure, required fields, value types) with a
//     detailed validation report
//   - Per-product totals and a weighted importance score with ranked output
//   - Structured Analysis results for programmatic use alongside the text
//     report
//   - File loading with transparent gzip/bzip2/xz/zstd decompression plus
//     XLSX and Parquet conversion
//   - Export of validated transactions and ranked metrics to CSV, TSV, or
//     XLSX, optionally compressed
//   - An in-memory SQLite view of the analysis for ad-hoc SQL
//
// # Basic Usage
//
// The report pipeline is a single call:
//
//	report := salesrank.GenerateResponse(rawText)
//	fmt.Println(report)
//
// For structured access to the validation outcomes and ranked metrics, use
// Analyze:
//
//	analysis := salesrank.Analyze(rawText)
//	if analysis.OK() {
//	    for _, m := range analysis.Metrics {
//	        fmt.Println(m.Rank, m.ProductName, m.ImportanceScore)
//	    }
//	}
//
// # Required Columns
//
// Every batch must carry these seven columns (case-insensitive, whitespace
// tolerated around CSV header names):
//
//	transaction_id, customer_id, transaction_date,
//	product_id, product_name, quantity, price_usd
//
// Extra columns are kept and exposed through Transaction.Extra but play no
// part in scoring.
//
// # Scoring
//
// Products are distinct (product_id, product_name) pairs. Each product's
// importance score is 0.5*total_quantity + 0.5*total_spend, where total_spend
// sums quantity*price_usd per transaction. Metrics are rounded to two decimal
// places after all arithmetic; the ranking is stable, so equal scores keep
// their input encounter order.
//
// # SQL Access
//
// OpenDB loads a validated analysis into an in-memory SQLite database with
// the tables "transactions" and "product_metrics":
//
//	db, err := salesrank.OpenDB(ctx, analysis)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	rows, err := db.QueryContext(ctx, "SELECT product_name, total_spend FROM product_metrics ORDER BY [rank]")
package salesrank
