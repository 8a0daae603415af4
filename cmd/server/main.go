package main

import (
	"strings"

	"bakery-backend/internal/config"
	"bakery-backend/internal/database"
	"bakery-backend/internal/inventory"
	"bakery-backend/internal/reports"
	"bakery-backend/internal/sales"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

func main() {
	cfg, warnings, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	for _, w := range warnings {
		logger.Warn(w)
	}

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}

	svc := sales.NewService(sales.NewGormStore(db), logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logger.Error("unexpected error", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET,POST,OPTIONS",
	}))

	salesHandler := sales.NewHandler(svc)
	reportsHandler := reports.NewHandler(svc)
	inventoryHandler := inventory.NewHandler(svc)

	api := app.Group("/api")

	// Sales: ingest + filtered view + export
	api.Get("/sales", salesHandler.ListSales())
	api.Post("/sales", salesHandler.CreateSale())
	api.Post("/sales/upload", salesHandler.UploadCSV())
	api.Get("/sales/export", salesHandler.ExportCSV())
	api.Get("/sales/products", salesHandler.ListProducts())

	// Dashboard aggregations
	api.Get("/dashboard/summary", reportsHandler.GetSummary())
	api.Get("/dashboard/daily-revenue", reportsHandler.GetDailyRevenue())
	api.Get("/dashboard/weekly-revenue", reportsHandler.GetWeeklyRevenue())
	api.Get("/dashboard/product-revenue", reportsHandler.GetProductRevenue())

	// Stock
	api.Get("/inventory/low-stock", inventoryHandler.LowStock())
	api.Post("/inventory/adjust", inventoryHandler.AdjustStock())

	logger.Info("server listening", zap.String("port", cfg.HTTPPort))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
