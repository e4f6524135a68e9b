package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/sales"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC    *inventory.ProductUseCase
	LedgerUC     *inventory.LedgerUseCase
	BatchUC      *inventory.BatchUseCase
	SummaryUC    *inventory.SummaryUseCase
	DraftUC      *sales.DraftUseCase
	SettlementUC *sales.SettlementUseCase
	ReceiptUC    *sales.ReceiptPDFUseCase
	Log          *logger.Logger
	JWTSecret    string
}

// Router registra las rutas de la API. Todo el backoffice requiere Bearer
// Token: el tenant sale del JWT, nunca del path.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Log)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Stock: libro de movimientos, lotes y vista agregada (protegido)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.LedgerUC, deps.BatchUC, deps.SummaryUC, deps.Log)
	stock.Post("/movements", stockHandler.RecordMovement)
	stock.Get("/movements", stockHandler.ListMovements)
	stock.Post("/batches", stockHandler.CreateBatch)
	stock.Get("/batches/expiring-soon", stockHandler.ListExpiringBatches)
	stock.Get("/batches/product/:productId", stockHandler.ListBatchesByProduct)
	stock.Put("/batches/:id/quantity", stockHandler.AdjustBatchQuantity)
	stock.Get("/summary", stockHandler.ListSummaries)
	stock.Get("/summary/alerts", stockHandler.ListAlerts)
	stock.Post("/summary/recalculate/:productId", stockHandler.RecomputeSummary)
	stock.Get("/summary/:productId", stockHandler.GetSummary)

	// Draft sales: carritos en progreso (protegido)
	drafts := protected.Group("/draft-sales")
	draftHandler := NewDraftHandler(deps.DraftUC, deps.Log)
	drafts.Get("/", draftHandler.LoadOpenTabs)
	drafts.Post("/sync", draftHandler.Sync)
	drafts.Delete("/:tabId", draftHandler.Delete)

	// Sales: liquidación y consulta (protegido)
	salesGroup := protected.Group("/sales")
	salesHandler := NewSalesHandler(deps.SettlementUC, deps.ReceiptUC, deps.Log)
	salesGroup.Post("/complete", salesHandler.CompleteSale)
	salesGroup.Get("/", salesHandler.ListSales)
	salesGroup.Get("/:saleId/receipt.pdf", salesHandler.GetReceiptPDF)
	salesGroup.Get("/:saleId", salesHandler.GetSale)
}
