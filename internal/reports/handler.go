package reports

import (
	"context"
	"strconv"
	"strings"
	"time"

	"bakery-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// DatasetProvider is the read side of the sales service.
type DatasetProvider interface {
	Dataset(ctx context.Context) ([]models.SaleRecord, error)
}

// FilterFromQuery builds a Filter from the request query:
//
//	products  comma-separated identifiers; empty selects every known product
//	from, to  inclusive bounds, "2006-01-02"; both required for a valid range
//
// A missing or unparseable bound marks the range invalid, which downstream
// yields an empty view rather than an error.
func FilterFromQuery(c *fiber.Ctx, dataset []models.SaleRecord) Filter {
	f := Filter{}

	if raw := c.Query("products"); raw != "" {
		for _, p := range strings.Split(raw, ",") {
			p = strings.ToUpper(strings.TrimSpace(p))
			if p != "" {
				f.Products = append(f.Products, p)
			}
		}
	} else {
		f.Products = Products(dataset)
	}

	from, errFrom := time.Parse("2006-01-02", c.Query("from"))
	to, errTo := time.Parse("2006-01-02", c.Query("to"))
	if errFrom == nil && errTo == nil {
		f.From = from
		f.To = to
		f.RangeOK = true
	}
	return f
}

// Handler serves the dashboard aggregations.
type Handler struct {
	data DatasetProvider
}

func NewHandler(data DatasetProvider) *Handler {
	return &Handler{data: data}
}

func (h *Handler) view(c *fiber.Ctx) ([]models.SaleRecord, Filter, error) {
	dataset, err := h.data.Dataset(c.Context())
	if err != nil {
		return nil, Filter{}, fiber.NewError(fiber.StatusBadGateway, "sales store unavailable")
	}
	filter := FilterFromQuery(c, dataset)
	return filter.Apply(dataset), filter, nil
}

type summaryResponse struct {
	RangeOK bool `json:"range_ok"`
	Empty   bool `json:"empty"`
	Summary
}

// GET /api/dashboard/summary
func (h *Handler) GetSummary() fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, filter, err := h.view(c)
		if err != nil {
			return err
		}
		return c.JSON(summaryResponse{
			RangeOK: filter.RangeOK,
			Empty:   len(view) == 0,
			Summary: Summarize(view),
		})
	}
}

type seriesResponse struct {
	RangeOK bool           `json:"range_ok"`
	Points  []RevenuePoint `json:"points"`
}

// GET /api/dashboard/daily-revenue
func (h *Handler) GetDailyRevenue() fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, filter, err := h.view(c)
		if err != nil {
			return err
		}
		return c.JSON(seriesResponse{RangeOK: filter.RangeOK, Points: DailyRevenue(view)})
	}
}

// GET /api/dashboard/weekly-revenue
func (h *Handler) GetWeeklyRevenue() fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, filter, err := h.view(c)
		if err != nil {
			return err
		}
		return c.JSON(seriesResponse{RangeOK: filter.RangeOK, Points: WeeklyRevenue(view)})
	}
}

type rollupResponse struct {
	RangeOK bool             `json:"range_ok"`
	Rows    []ProductRevenue `json:"rows"`
}

// GET /api/dashboard/product-revenue?limit=5
func (h *Handler) GetProductRevenue() fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, filter, err := h.view(c)
		if err != nil {
			return err
		}
		limit := -1
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "limit must be a non-negative integer")
			}
			limit = n
		}
		return c.JSON(rollupResponse{RangeOK: filter.RangeOK, Rows: TopProducts(view, limit)})
	}
}
