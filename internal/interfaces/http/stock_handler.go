package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// StockHandler maneja las peticiones HTTP del libro de movimientos, lotes y
// vista agregada (protegido).
type StockHandler struct {
	ledger  *inventory.LedgerUseCase
	batches *inventory.BatchUseCase
	summary *inventory.SummaryUseCase
	log     *logger.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *inventory.LedgerUseCase, batches *inventory.BatchUseCase, summary *inventory.SummaryUseCase, log *logger.Logger) *StockHandler {
	return &StockHandler{ledger: ledger, batches: batches, summary: summary, log: log}
}

// RecordMovement godoc
// @Summary      Registrar movimiento en el libro
// @Description  Inserta una entrada inmutable. Las correcciones requieren
//	is_correction=true y correction_reason.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "type, product_id, quantity_change; unit_cost para entradas"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.ledger.Record(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListMovements godoc
// @Summary      Listar movimientos del libro
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "filtrar por producto"
// @Param        type        query  string  false  "PURCHASE|SALE|CORRECTION|IMPORT|RETURN"
// @Param        from        query  string  false  "YYYY-MM-DD"
// @Param        to          query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	var in dto.ListMovementsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválido"})
	}
	resp, err := h.ledger.List(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(resp)
}

// CreateBatch godoc
// @Summary      Crear lote con entrada de compra
// @Description  Crea el lote y su movimiento PURCHASE en una sola transacción.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBatchRequest  true  "product_id, expiry_date, quantity, unit_cost"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/batches [post]
func (h *StockHandler) CreateBatch(c *fiber.Ctx) error {
	var in dto.CreateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.batches.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// AdjustBatchQuantity godoc
// @Summary      Ajustar cantidad de un lote
// @Description  Registra un movimiento CORRECTION con el delta y motivo.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Batch ID"
// @Param        body  body  dto.AdjustBatchQuantityRequest  true  "new_quantity, reason"
// @Success      200   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/batches/{id}/quantity [put]
func (h *StockHandler) AdjustBatchQuantity(c *fiber.Ctx) error {
	var in dto.AdjustBatchQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.batches.AdjustQuantity(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(resp)
}

// ListBatchesByProduct godoc
// @Summary      Listar lotes de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId    path   string  true   "Product ID"
// @Param        active_only  query  bool    false  "solo lotes activos"
// @Success      200  {array}   dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/batches/product/{productId} [get]
func (h *StockHandler) ListBatchesByProduct(c *fiber.Ctx) error {
	activeOnly := c.QueryBool("active_only", false)
	resp, err := h.batches.ListByProduct(c.UserContext(), c.Params("productId"), activeOnly)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(resp)
}

// ListExpiringBatches godoc
// @Summary      Lotes por vencer
// @Description  Lotes activos que vencen dentro de la ventana, el más próximo primero.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "ventana en días (default configurado)"
// @Success      200  {array}  dto.BatchResponse
// @Router       /api/stock/batches/expiring-soon [get]
func (h *StockHandler) ListExpiringBatches(c *fiber.Ctx) error {
	days, _ := strconv.Atoi(c.Query("days", "0"))
	resp, err := h.batches.ListExpiring(c.UserContext(), days)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(resp)
}

// GetSummary godoc
// @Summary      Vista agregada de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "Product ID"
// @Success      200  {object}  dto.SummaryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/summary/{productId} [get]
func (h *StockHandler) GetSummary(c *fiber.Ctx) error {
	resp, err := h.summary.Get(c.UserContext(), c.Params("productId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(resp)
}

// ListSummaries godoc
// @Summary      Vista agregada de todos los productos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máx 100, default 20"
// @Param        offset  query  int  false  "default 0"
// @Success      200  {array}  dto.SummaryResponse
// @Router       /api/stock/summary [get]
func (h *StockHandler) ListSummaries(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválido"})
	}
	resp, err := h.summary.List(c.UserContext(), page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(resp)
}

// RecomputeSummary godoc
// @Summary      Recalcular la vista agregada de un producto
// @Description  Rescan completo del libro y de los lotes; operación idempotente.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "Product ID"
// @Success      200  {object}  dto.SummaryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/summary/recalculate/{productId} [post]
func (h *StockHandler) RecomputeSummary(c *fiber.Ctx) error {
	resp, err := h.summary.Recompute(c.UserContext(), c.Params("productId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(resp)
}

// ListAlerts godoc
// @Summary      Productos que requieren atención
// @Description  Vencido > stock bajo > por vencer.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SummaryResponse
// @Router       /api/stock/summary/alerts [get]
func (h *StockHandler) ListAlerts(c *fiber.Ctx) error {
	resp, err := h.summary.Alerts(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(resp)
}
