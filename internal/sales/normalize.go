package sales

import (
	"strconv"
	"strings"
	"time"

	"bakery-backend/internal/models"

	"github.com/shopspring/decimal"
)

// RawRow: one uncleaned input row, as it arrives from a CSV line or the
// manual-entry form. All fields are raw text; Stock is optional.
type RawRow struct {
	Date      string
	Product   string
	Quantity  string
	UnitPrice string
	Stock     string
}

// Layouts tried in order when parsing sale dates.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"02.01.2006",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			// Date only — drop any time component.
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// Normalize cleans a batch of raw rows into candidate records:
//   - sale date parsed permissively; unparseable dates count as missing
//   - product trimmed and upper-cased
//   - quantity must be a positive integer, unit price a non-negative decimal
//
// Rows missing any required field are dropped; the second return value is how
// many were. Output order follows input order.
func Normalize(rows []RawRow) ([]models.SaleRecord, int) {
	out := make([]models.SaleRecord, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		date, ok := parseDate(row.Date)
		if !ok {
			dropped++
			continue
		}

		product := strings.ToUpper(strings.TrimSpace(row.Product))
		if product == "" {
			dropped++
			continue
		}

		qty, err := strconv.Atoi(strings.TrimSpace(row.Quantity))
		if err != nil || qty <= 0 {
			dropped++
			continue
		}

		price, err := decimal.NewFromString(strings.TrimSpace(row.UnitPrice))
		if err != nil || price.IsNegative() {
			dropped++
			continue
		}

		// Stock is optional; a bad value falls back to 0 rather than
		// rejecting an otherwise valid sale.
		stock := 0
		if s := strings.TrimSpace(row.Stock); s != "" {
			if v, err := strconv.Atoi(s); err == nil {
				stock = v
			}
		}

		out = append(out, models.SaleRecord{
			SaleDate:      date,
			Product:       product,
			Quantity:      qty,
			UnitPrice:     price,
			StockQuantity: stock,
		})
	}
	return out, dropped
}
