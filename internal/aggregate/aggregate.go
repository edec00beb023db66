// Package aggregate computes dashboard figures from stock records. Nothing here
// touches storage and nothing is cached; every figure is recomputed from the
// slices passed in.
package aggregate

import (
	"iter"
	"time"

	"foodbank-inventory/internal/model"

	"github.com/google/uuid"
)

// ImplicitCategoryCount is added to the category total. It accounts for the two
// stock buckets the food bank reports as categories without storing them as
// Category rows (uncategorized intake and mixed donation boxes).
const ImplicitCategoryCount = 2

type DashboardStats struct {
	TotalProducts    int     `json:"total_products"`
	TotalCategories  int     `json:"total_categories"`
	TotalQuantity    int     `json:"total_quantity"`
	TotalMovements   int     `json:"total_movements"`
	UnitsReceived    float64 `json:"units_received"`
	UnitsDistributed float64 `json:"units_distributed"`
}

// Row is one line of the dashboard movement table
type Row struct {
	ID           uuid.UUID               `json:"id"`
	Operation    model.Operation         `json:"operation"`
	ProductCount int                     `json:"product_count"`
	Unit         float64                 `json:"unit"`
	Total        float64                 `json:"total"`
	Purpose      string                  `json:"purpose"`
	BatchSize    int                     `json:"batch_size"`
	CreatedAt    time.Time               `json:"created_at"`
	Lines        []model.TransactionLine `json:"products"`
}

// DayMovement holds unit totals for one calendar day
type DayMovement struct {
	Date        string  `json:"date"`
	Received    float64 `json:"received"`
	Distributed float64 `json:"distributed"`
}

// Summarize builds the headline figures. Categories are counted once per
// distinct id, whether they come from the category list or from a product's
// category reference.
func Summarize(products []model.Product, categories []model.Category, transactions []model.Transaction) DashboardStats {
	stats := DashboardStats{
		TotalProducts:  len(products),
		TotalMovements: len(transactions),
	}

	seen := make(map[uuid.UUID]struct{}, len(categories))
	for _, c := range categories {
		seen[c.ID] = struct{}{}
	}
	for _, p := range products {
		stats.TotalQuantity += p.Quantity
		if p.CategoryID != nil {
			seen[*p.CategoryID] = struct{}{}
		}
	}
	stats.TotalCategories = len(seen) + ImplicitCategoryCount

	for i := range transactions {
		total := RowTotal(&transactions[i])
		switch transactions[i].Operation {
		case model.OpReceive:
			stats.UnitsReceived += total
		case model.OpDistribute:
			stats.UnitsDistributed += total
		}
	}
	return stats
}

// RowTotal is the sum over lines of line quantity times the transaction unit.
// A transaction without lines totals 0.
func RowTotal(tx *model.Transaction) float64 {
	var total float64
	for _, line := range tx.Lines {
		total += float64(line.Quantity) * tx.Unit
	}
	return total
}

// NewRow builds the table row for one transaction
func NewRow(tx *model.Transaction) Row {
	return Row{
		ID:           tx.ID,
		Operation:    tx.Operation,
		ProductCount: len(tx.Lines),
		Unit:         tx.Unit,
		Total:        RowTotal(tx),
		Purpose:      tx.Purpose,
		BatchSize:    tx.BatchSize,
		CreatedAt:    tx.CreatedAt,
		Lines:        tx.Lines,
	}
}

// Rows yields one Row per transaction in the order given.
func Rows(transactions []model.Transaction) iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for i := range transactions {
			if !yield(NewRow(&transactions[i])) {
				return
			}
		}
	}
}

// Movement buckets received and distributed units per day for the days ending
// at end (inclusive), oldest first. Days without movements are present with zeros.
func Movement(transactions []model.Transaction, end time.Time, days int, loc *time.Location) []DayMovement {
	if days <= 0 {
		return []DayMovement{}
	}
	if loc == nil {
		loc = time.UTC
	}
	end = end.In(loc)
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)
	first := last.AddDate(0, 0, -(days - 1))

	out := make([]DayMovement, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		date := first.AddDate(0, 0, i).Format(time.DateOnly)
		out[i].Date = date
		index[date] = i
	}

	for i := range transactions {
		tx := &transactions[i]
		pos, ok := index[tx.CreatedAt.In(loc).Format(time.DateOnly)]
		if !ok {
			continue
		}
		total := RowTotal(tx)
		switch tx.Operation {
		case model.OpReceive:
			out[pos].Received += total
		case model.OpDistribute:
			out[pos].Distributed += total
		}
	}
	return out
}
