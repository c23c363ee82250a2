package salesrank

import (
	"math"
	"sort"
)

// Importance score weights for total quantity and total spend.
const (
	quantityWeight = 0.5
	spendWeight    = 0.5
)

// Transaction is a single validated sales transaction. Quantity and PriceUSD
// hold the coerced numeric values; the remaining required fields keep their
// cell text. Extra carries columns beyond the required seven.
type Transaction struct {
	ID          string
	CustomerID  string
	Date        string
	ProductID   string
	ProductName string
	Quantity    float64
	PriceUSD    float64
	Extra       map[string]string
}

// newTransaction builds a typed transaction from a table row and the already
// coerced quantity and price.
func newTransaction(t *Table, row Record, quantity, price float64) Transaction {
	tx := Transaction{
		ID:          t.cell(row, t.columnIndex("transaction_id")),
		CustomerID:  t.cell(row, t.columnIndex("customer_id")),
		Date:        t.cell(row, t.columnIndex("transaction_date")),
		ProductID:   t.cell(row, t.columnIndex("product_id")),
		ProductName: t.cell(row, t.columnIndex("product_name")),
		Quantity:    quantity,
		PriceUSD:    price,
	}

	required := make(map[string]struct{}, len(requiredFields))
	for _, field := range requiredFields {
		required[field] = struct{}{}
	}
	for i, col := range t.Columns() {
		if _, ok := required[col]; ok {
			continue
		}
		if t.columnIndex(col) != i {
			// Duplicate column name; the first occurrence wins.
			continue
		}
		if tx.Extra == nil {
			tx.Extra = make(map[string]string)
		}
		tx.Extra[col] = t.cell(row, i)
	}
	return tx
}

// ProductMetric aggregates one product's transactions. A product is a
// distinct (product_id, product_name) pair.
type ProductMetric struct {
	// Rank is the 1-based position in the score-sorted sequence.
	Rank        int
	ProductID   string
	ProductName string
	// TotalQuantity is the sum of quantity across the group, rounded to 2
	// decimal places.
	TotalQuantity float64
	// TotalSpend is the sum of quantity*price_usd per row across the group,
	// rounded to 2 decimal places.
	TotalSpend float64
	// ImportanceScore is 0.5*TotalQuantity + 0.5*TotalSpend, computed from
	// the unrounded totals, rounded to 2 decimal places.
	ImportanceScore float64
	// Transactions holds the group's rows in original input order.
	Transactions []Transaction
}

// Aggregate groups transactions by (product_id, product_name) in
// first-encounter order, computes totals and importance scores, and returns
// the metrics sorted by score descending. The sort is stable: equal scores
// keep encounter order. Rank is assigned after sorting.
func Aggregate(txs []Transaction) []ProductMetric {
	type productKey struct {
		id, name string
	}
	index := make(map[productKey]int, len(txs))
	metrics := make([]ProductMetric, 0, len(txs))

	for _, tx := range txs {
		key := productKey{id: tx.ProductID, name: tx.ProductName}
		i, ok := index[key]
		if !ok {
			i = len(metrics)
			index[key] = i
			metrics = append(metrics, ProductMetric{
				ProductID:   tx.ProductID,
				ProductName: tx.ProductName,
			})
		}
		m := &metrics[i]
		m.TotalQuantity += tx.Quantity
		m.TotalSpend += tx.Quantity * tx.PriceUSD
		m.Transactions = append(m.Transactions, tx)
	}

	for i := range metrics {
		m := &metrics[i]
		m.ImportanceScore = round2(quantityWeight*m.TotalQuantity + spendWeight*m.TotalSpend)
		m.TotalQuantity = round2(m.TotalQuantity)
		m.TotalSpend = round2(m.TotalSpend)
	}

	sort.SliceStable(metrics, func(i, j int) bool {
		return metrics[i].ImportanceScore > metrics[j].ImportanceScore
	})
	for i := range metrics {
		metrics[i].Rank = i + 1
	}
	return metrics
}

// round2 rounds to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
