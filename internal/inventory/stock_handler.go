package inventory

import (
	"context"
	"errors"

	"bakery-backend/internal/models"
	"bakery-backend/internal/reports"
	"bakery-backend/internal/sales"

	"github.com/gofiber/fiber/v2"
)

// StockService is what the inventory endpoints need from the sales service.
type StockService interface {
	Dataset(ctx context.Context) ([]models.SaleRecord, error)
	AdjustStock(ctx context.Context, product string, delta int) error
}

type Handler struct {
	svc StockService
}

func NewHandler(svc StockService) *Handler {
	return &Handler{svc: svc}
}

type AdjustStockRequest struct {
	Product string `json:"product"`
	Delta   int    `json:"delta"` // signed; negative decreases stock
}

// POST /api/inventory/adjust
// Applies the delta once to the product's aggregate stock (the lowest-ID row
// for the product absorbs it).
func (h *Handler) AdjustStock() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AdjustStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.Product == "" {
			return fiber.NewError(fiber.StatusBadRequest, "product is required")
		}
		if body.Delta == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "delta must be non-zero")
		}

		if err := h.svc.AdjustStock(c.Context(), body.Product, body.Delta); err != nil {
			if errors.Is(err, sales.ErrProductNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "product not found")
			}
			return fiber.NewError(fiber.StatusBadGateway, "sales store unavailable")
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// GET /api/inventory/low-stock
// Full-dataset low-stock list: products whose summed stock is below the
// threshold, ascending by stock.
func (h *Handler) LowStock() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dataset, err := h.svc.Dataset(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "sales store unavailable")
		}
		rows := reports.LowStockProducts(dataset)
		if rows == nil {
			rows = []reports.StockLevel{}
		}
		return c.JSON(fiber.Map{
			"threshold": reports.LowStockThreshold,
			"products":  rows,
		})
	}
}
