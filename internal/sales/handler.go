package sales

import (
	"bytes"
	"strconv"
	"strings"

	"bakery-backend/internal/models"
	"bakery-backend/internal/reports"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handler serves the write and export endpoints for sales.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type CreateSaleRequest struct {
	SaleDate  string          `json:"sale_date"` // "2024-01-01"
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"` // string or number; parsed exactly
}

// POST /api/sales
// Manual entry: a single record routed through the same normalize → dedup →
// ingest pipeline as a one-row batch.
func (h *Handler) CreateSale() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		result, err := h.svc.AddSale(c.Context(), RawRow{
			Date:      body.SaleDate,
			Product:   body.Product,
			Quantity:  strconv.Itoa(body.Quantity),
			UnitPrice: body.UnitPrice.String(),
		})
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "sales store unavailable")
		}
		if result.Dropped > 0 {
			return fiber.NewError(fiber.StatusBadRequest,
				"sale rejected: date, product, positive quantity and unit price are required")
		}
		return c.Status(fiber.StatusCreated).JSON(result)
	}
}

// POST /api/sales/upload
// Bulk CSV upload (multipart field "file"). Bad rows are dropped, duplicates
// skipped; the response reports what happened to the batch.
func (h *Handler) UploadCSV() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file upload failed: "+err.Error())
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
			return fiber.NewError(fiber.StatusBadRequest, "only .csv files are accepted")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "file could not be opened")
		}
		defer file.Close()

		rows, err := ReadSalesCSV(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "csv could not be read: "+err.Error())
		}

		result, err := h.svc.Ingest(c.Context(), rows)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "sales store unavailable")
		}
		return c.JSON(result)
	}
}

type listResponse struct {
	RangeOK bool                `json:"range_ok"`
	Empty   bool                `json:"empty"`
	Records []models.SaleRecord `json:"records"`
}

// GET /api/sales?products=A,B&from=2024-01-01&to=2024-01-31
func (h *Handler) ListSales() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dataset, err := h.svc.Dataset(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "sales store unavailable")
		}
		filter := reports.FilterFromQuery(c, dataset)
		view := filter.Apply(dataset)
		if view == nil {
			view = []models.SaleRecord{}
		}
		return c.JSON(listResponse{
			RangeOK: filter.RangeOK,
			Empty:   len(view) == 0,
			Records: view,
		})
	}
}

// GET /api/sales/products
func (h *Handler) ListProducts() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dataset, err := h.svc.Dataset(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "sales store unavailable")
		}
		return c.JSON(fiber.Map{"products": reports.Products(dataset)})
	}
}

// GET /api/sales/export
// The current filtered view as a CSV download.
func (h *Handler) ExportCSV() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dataset, err := h.svc.Dataset(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "sales store unavailable")
		}
		view := reports.FilterFromQuery(c, dataset).Apply(dataset)

		var buf bytes.Buffer
		if err := WriteSalesCSV(&buf, view); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "export failed")
		}

		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="filtered_sales.csv"`)
		return c.Send(buf.Bytes())
	}
}
