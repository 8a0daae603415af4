package reports

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bakery-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticDataset []models.SaleRecord

func (d staticDataset) Dataset(ctx context.Context) ([]models.SaleRecord, error) {
	return d, nil
}

func newDashboardApp(dataset []models.SaleRecord) *fiber.App {
	h := NewHandler(staticDataset(dataset))
	app := fiber.New()
	app.Get("/api/dashboard/summary", h.GetSummary())
	app.Get("/api/dashboard/daily-revenue", h.GetDailyRevenue())
	app.Get("/api/dashboard/weekly-revenue", h.GetWeeklyRevenue())
	app.Get("/api/dashboard/product-revenue", h.GetProductRevenue())
	return app
}

func TestGetSummaryHandler(t *testing.T) {
	app := newDashboardApp([]models.SaleRecord{
		rec("2024-01-01", "CROISSANT", 10, "2.50", 4),
		rec("2024-02-01", "BAGUETTE", 3, "1.20", 50),
	})

	req := httptest.NewRequest(http.MethodGet,
		"/api/dashboard/summary?from=2024-01-01&to=2024-01-31", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		RangeOK  bool            `json:"range_ok"`
		Empty    bool            `json:"empty"`
		Revenue  decimal.Decimal `json:"revenue"`
		Units    int             `json:"units"`
		LowStock []string        `json:"low_stock"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.RangeOK)
	assert.False(t, body.Empty)
	assert.True(t, body.Revenue.Equal(decimal.RequireFromString("25.00")), "got %s", body.Revenue)
	assert.Equal(t, 10, body.Units)
	assert.Equal(t, []string{"CROISSANT"}, body.LowStock)
}

func TestGetSummaryHandlerMalformedRange(t *testing.T) {
	app := newDashboardApp([]models.SaleRecord{
		rec("2024-01-01", "CROISSANT", 10, "2.50", 4),
	})

	// Single bound: informational empty result, not an error.
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/summary?to=2024-01-31", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		RangeOK bool `json:"range_ok"`
		Empty   bool `json:"empty"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.RangeOK)
	assert.True(t, body.Empty)
}

func TestGetProductRevenueHandlerLimit(t *testing.T) {
	app := newDashboardApp([]models.SaleRecord{
		rec("2024-01-01", "A", 1, "1.00", 0),
		rec("2024-01-01", "B", 1, "2.00", 0),
		rec("2024-01-01", "C", 1, "3.00", 0),
	})

	req := httptest.NewRequest(http.MethodGet,
		"/api/dashboard/product-revenue?from=2024-01-01&to=2024-01-31&limit=2", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	var body struct {
		Rows []ProductRevenue `json:"rows"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Rows, 2)
	assert.Equal(t, "C", body.Rows[0].Product)
	assert.Equal(t, "B", body.Rows[1].Product)
}

func TestGetDailyRevenueHandlerProductFilter(t *testing.T) {
	app := newDashboardApp([]models.SaleRecord{
		rec("2024-01-01", "A", 1, "1.00", 0),
		rec("2024-01-01", "B", 1, "5.00", 0),
	})

	req := httptest.NewRequest(http.MethodGet,
		"/api/dashboard/daily-revenue?products=a&from=2024-01-01&to=2024-01-31", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	var body struct {
		Points []RevenuePoint `json:"points"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Points, 1)
	assert.True(t, body.Points[0].Revenue.Equal(decimal.RequireFromString("1.00")))
}
