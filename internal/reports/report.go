package reports

import (
	"fmt"
	"sort"
	"time"

	"bakery-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Products with an aggregate stock below this are flagged as low.
const LowStockThreshold = 10

// Filter selects records by product set and inclusive date range. RangeOK is
// false when the caller could not supply exactly two valid bounds; the
// contract then is an empty view, never an error.
type Filter struct {
	Products []string
	From     time.Time
	To       time.Time
	RangeOK  bool
}

// Apply returns the records matching the filter, in input order.
func (f Filter) Apply(recs []models.SaleRecord) []models.SaleRecord {
	if !f.RangeOK {
		return nil
	}
	selected := make(map[string]struct{}, len(f.Products))
	for _, p := range f.Products {
		selected[p] = struct{}{}
	}
	var out []models.SaleRecord
	for _, r := range recs {
		if _, ok := selected[r.Product]; !ok {
			continue
		}
		if r.SaleDate.Before(f.From) || r.SaleDate.After(f.To) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Products returns the sorted distinct product identifiers in the dataset.
func Products(recs []models.SaleRecord) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range recs {
		if _, ok := seen[r.Product]; ok {
			continue
		}
		seen[r.Product] = struct{}{}
		out = append(out, r.Product)
	}
	sort.Strings(out)
	return out
}

func revenue(r models.SaleRecord) decimal.Decimal {
	return r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity)))
}

// Summary holds the headline KPIs for a filtered view.
type Summary struct {
	Revenue  decimal.Decimal `json:"revenue"`
	Units    int             `json:"units"`
	LowStock []string        `json:"low_stock"`
}

// Summarize computes revenue (Σ quantity·price), units sold and the sorted set
// of products in the view whose row stock is below the threshold.
func Summarize(view []models.SaleRecord) Summary {
	s := Summary{Revenue: decimal.Zero, LowStock: []string{}}
	seen := make(map[string]struct{})
	for _, r := range view {
		s.Revenue = s.Revenue.Add(revenue(r))
		s.Units += r.Quantity
		if r.StockQuantity < LowStockThreshold {
			if _, ok := seen[r.Product]; !ok {
				seen[r.Product] = struct{}{}
				s.LowStock = append(s.LowStock, r.Product)
			}
		}
	}
	sort.Strings(s.LowStock)
	return s
}

// RevenuePoint is one bucket of a revenue time series.
type RevenuePoint struct {
	Label   string          `json:"label"`
	Revenue decimal.Decimal `json:"revenue"`
}

// DailyRevenue groups the view by sale date, ascending.
func DailyRevenue(view []models.SaleRecord) []RevenuePoint {
	buckets := make(map[string]decimal.Decimal)
	for _, r := range view {
		label := r.SaleDate.Format("2006-01-02")
		buckets[label] = buckets[label].Add(revenue(r))
	}
	return sortedPoints(buckets)
}

// WeeklyRevenue groups the view by ISO calendar week, ascending. Buckets are
// keyed by (year, week) — labelled e.g. "2024-W05" — so the same week number
// from different years never collapses into one bucket.
func WeeklyRevenue(view []models.SaleRecord) []RevenuePoint {
	buckets := make(map[string]decimal.Decimal)
	for _, r := range view {
		year, week := r.SaleDate.ISOWeek()
		label := fmt.Sprintf("%d-W%02d", year, week)
		buckets[label] = buckets[label].Add(revenue(r))
	}
	return sortedPoints(buckets)
}

func sortedPoints(buckets map[string]decimal.Decimal) []RevenuePoint {
	points := make([]RevenuePoint, 0, len(buckets))
	for label, rev := range buckets {
		points = append(points, RevenuePoint{Label: label, Revenue: rev})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Label < points[j].Label })
	return points
}

// ProductRevenue is one row of the per-product rollup.
type ProductRevenue struct {
	Product string          `json:"product"`
	Revenue decimal.Decimal `json:"revenue"`
}

// RevenueByProduct groups the view by product, sorted by revenue descending
// (product name ascending on ties, so the order is deterministic).
func RevenueByProduct(view []models.SaleRecord) []ProductRevenue {
	buckets := make(map[string]decimal.Decimal)
	for _, r := range view {
		buckets[r.Product] = buckets[r.Product].Add(revenue(r))
	}
	rows := make([]ProductRevenue, 0, len(buckets))
	for product, rev := range buckets {
		rows = append(rows, ProductRevenue{Product: product, Revenue: rev})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Revenue.Equal(rows[j].Revenue) {
			return rows[i].Revenue.GreaterThan(rows[j].Revenue)
		}
		return rows[i].Product < rows[j].Product
	})
	return rows
}

// TopProducts returns the first n rows of the per-product rollup.
func TopProducts(view []models.SaleRecord, n int) []ProductRevenue {
	rows := RevenueByProduct(view)
	if n >= 0 && n < len(rows) {
		rows = rows[:n]
	}
	return rows
}

// StockLevel is one row of the low-stock list.
type StockLevel struct {
	Product string `json:"product"`
	Stock   int    `json:"stock"`
}

// LowStockProducts sums stock per product over the entire dataset (not the
// filtered view) and returns the products below the threshold, ascending by
// stock (product name ascending on ties).
func LowStockProducts(all []models.SaleRecord) []StockLevel {
	totals := make(map[string]int)
	for _, r := range all {
		totals[r.Product] += r.StockQuantity
	}
	var rows []StockLevel
	for product, stock := range totals {
		if stock < LowStockThreshold {
			rows = append(rows, StockLevel{Product: product, Stock: stock})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Stock != rows[j].Stock {
			return rows[i].Stock < rows[j].Stock
		}
		return rows[i].Product < rows[j].Product
	})
	return rows
}
