package sales

import (
	"encoding/csv"
	"io"
	"strconv"

	"bakery-backend/internal/models"
)

var exportHeader = []string{"SALE_ID", "SALE_DATE", "PRODUCT", "QUANTITY", "UNIT_PRICE", "STOCK_QUANTITY"}

// WriteSalesCSV serialises records to CSV with the store's field names as the
// header row. Pure formatting; the caller decides which (filtered) view to pass.
func WriteSalesCSV(w io.Writer, recs []models.SaleRecord) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range recs {
		if err := writer.Write([]string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.SaleDate.Format("2006-01-02"),
			r.Product,
			strconv.Itoa(r.Quantity),
			r.UnitPrice.String(),
			strconv.Itoa(r.StockQuantity),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
