package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SaleRecord: one row per sale event.
// StockQuantity is carried on the row but is not part of the sale's identity;
// a product's stock level is the sum over all of its rows.
type SaleRecord struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	SaleDate      time.Time       `gorm:"column:sale_date;type:date;index;not null" json:"sale_date"`
	Product       string          `gorm:"size:100;index;not null" json:"product"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"unit_price"`
	StockQuantity int             `gorm:"not null;default:0" json:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (SaleRecord) TableName() string { return "sales" }

// NaturalKey identifies the sale event: (date, product, quantity, unit price).
// The price is rendered with fixed precision so 2.5 and 2.50 produce the same key.
func (r SaleRecord) NaturalKey() string {
	return fmt.Sprintf("%s|%s|%d|%s",
		r.SaleDate.Format("2006-01-02"), r.Product, r.Quantity, r.UnitPrice.StringFixed(4))
}
