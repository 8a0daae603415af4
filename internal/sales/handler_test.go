package sales

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestApp(t *testing.T) (*fiber.App, *Service) {
	svc := NewService(NewMemoryStore(), zaptest.NewLogger(t))
	h := NewHandler(svc)

	app := fiber.New()
	app.Post("/api/sales", h.CreateSale())
	app.Post("/api/sales/upload", h.UploadCSV())
	app.Get("/api/sales", h.ListSales())
	app.Get("/api/sales/export", h.ExportCSV())
	app.Get("/api/sales/products", h.ListProducts())
	return app, svc
}

func TestCreateSaleHandler(t *testing.T) {
	app, svc := newTestApp(t)

	body := `{"sale_date":"2024-01-01","product":" croissant ","quantity":10,"unit_price":"2.50"}`
	req := httptest.NewRequest(http.MethodPost, "/api/sales", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result IngestResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 1, result.Accepted)

	dataset, err := svc.Dataset(req.Context())
	require.NoError(t, err)
	require.Len(t, dataset, 1)
	assert.Equal(t, "CROISSANT", dataset[0].Product)
}

func TestCreateSaleHandlerRejectsInvalidRow(t *testing.T) {
	app, _ := newTestApp(t)

	body := `{"sale_date":"nope","product":"X","quantity":1,"unit_price":"1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/sales", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/sales/upload", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadCSVHandler(t *testing.T) {
	app, _ := newTestApp(t)

	csvBody := "SALE_DATE,PRODUCT,QUANTITY,UNIT_PRICE,STOCK_QUANTITY\n" +
		"2024-01-01,CROISSANT,10,2.50,4\n" +
		"2024-01-01,croissant ,10,2.5,4\n" + // duplicate after normalization
		"bad-date,BAGUETTE,1,1.20,0\n"

	resp, err := app.Test(uploadRequest(t, "sales.csv", csvBody))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result IngestResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 1, result.Accepted)
	assert.Equal(t, 1, result.Duplicates)
	assert.Equal(t, 1, result.Dropped)
}

func TestUploadCSVHandlerRejectsOtherExtensions(t *testing.T) {
	app, _ := newTestApp(t)
	resp, err := app.Test(uploadRequest(t, "sales.xlsx", "whatever"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListSalesMalformedRangeIsEmptyNotError(t *testing.T) {
	app, svc := newTestApp(t)
	_, err := svc.Ingest(context.Background(), []RawRow{
		{Date: "2024-01-01", Product: "A", Quantity: "1", UnitPrice: "1"},
	})
	require.NoError(t, err)

	// Only one bound supplied.
	req := httptest.NewRequest(http.MethodGet, "/api/sales?from=2024-01-01", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		RangeOK bool              `json:"range_ok"`
		Empty   bool              `json:"empty"`
		Records []json.RawMessage `json:"records"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.RangeOK)
	assert.True(t, body.Empty)
	assert.Empty(t, body.Records)
}

func TestExportCSVHandler(t *testing.T) {
	app, svc := newTestApp(t)
	_, err := svc.Ingest(context.Background(), []RawRow{
		{Date: "2024-01-01", Product: "CROISSANT", Quantity: "10", UnitPrice: "2.50"},
		{Date: "2024-02-01", Product: "BAGUETTE", Quantity: "1", UnitPrice: "1.20"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet,
		"/api/sales/export?products=CROISSANT&from=2024-01-01&to=2024-01-31", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/csv")
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "filtered_sales.csv")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2) // header + the one in-range row
	assert.Contains(t, lines[1], "CROISSANT")
}

func TestListProductsHandler(t *testing.T) {
	app, svc := newTestApp(t)
	_, err := svc.Ingest(context.Background(), []RawRow{
		{Date: "2024-01-01", Product: "b", Quantity: "1", UnitPrice: "1"},
		{Date: "2024-01-01", Product: "a", Quantity: "1", UnitPrice: "1"},
	})
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/sales/products", nil))
	require.NoError(t, err)

	var body struct {
		Products []string `json:"products"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"A", "B"}, body.Products)
}
