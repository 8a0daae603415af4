package sales

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Required upload columns; STOCK_QUANTITY is optional.
const (
	colSaleDate  = "SALE_DATE"
	colProduct   = "PRODUCT"
	colQuantity  = "QUANTITY"
	colUnitPrice = "UNIT_PRICE"
	colStock     = "STOCK_QUANTITY"
)

// ReadSalesCSV decodes a bulk-upload CSV into raw rows. The header is matched
// case-insensitively; a missing required column is an error, while individual
// short rows are skipped (they fail normalization anyway). Rows are returned
// raw — cleaning is the normalizer's job.
func ReadSalesCSV(r io.Reader) ([]RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colSaleDate, colProduct, colQuantity, colUnitPrice} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("csv is missing required column %s", required)
		}
	}
	stockIdx, hasStock := index[colStock]

	field := func(record []string, idx int) string {
		if idx < len(record) {
			return record[idx]
		}
		return ""
	}

	var rows []RawRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv row: %w", err)
		}
		row := RawRow{
			Date:      field(record, index[colSaleDate]),
			Product:   field(record, index[colProduct]),
			Quantity:  field(record, index[colQuantity]),
			UnitPrice: field(record, index[colUnitPrice]),
		}
		if hasStock {
			row.Stock = field(record, stockIdx)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
