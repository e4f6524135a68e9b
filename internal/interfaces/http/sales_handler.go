package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/sales"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// SalesHandler maneja las peticiones HTTP de liquidación y consulta de ventas (protegido).
type SalesHandler struct {
	settlement *sales.SettlementUseCase
	receipt    *sales.ReceiptPDFUseCase
	log        *logger.Logger
}

// NewSalesHandler construye el handler.
func NewSalesHandler(settlement *sales.SettlementUseCase, receipt *sales.ReceiptPDFUseCase, log *logger.Logger) *SalesHandler {
	return &SalesHandler{settlement: settlement, receipt: receipt, log: log}
}

// CompleteSale godoc
// @Summary      Liquidar una venta
// @Description  En una sola transacción: crea la venta y sus líneas, descuenta
//	stock (FIFO por lote), recalcula la vista agregada y marca completada la
//	pestaña de origen. Cualquier falla revierte todo.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CompleteSaleRequest  true  "items, payment_method; tab_id opcional"
// @Success      201   {object}  dto.SaleReceiptResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/complete [post]
func (h *SalesHandler) CompleteSale(c *fiber.Ctx) error {
	var in dto.CompleteSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.settlement.CompleteSale(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetSale godoc
// @Summary      Obtener una venta con sus líneas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        saleId  path  string  true  "Sale ID"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{saleId} [get]
func (h *SalesHandler) GetSale(c *fiber.Ctx) error {
	resp, err := h.settlement.GetSale(c.UserContext(), c.Params("saleId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(resp)
}

// ListSales godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "YYYY-MM-DD"
// @Param        to      query  string  false  "YYYY-MM-DD"
// @Param        limit   query  int     false  "máx 100, default 20"
// @Param        offset  query  int     false  "default 0"
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SalesHandler) ListSales(c *fiber.Ctx) error {
	var in dto.ListSalesRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválido"})
	}
	resp, err := h.settlement.ListSales(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(resp)
}

// GetReceiptPDF godoc
// @Summary      Comprobante de venta en PDF
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        saleId  path  string  true  "Sale ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{saleId}/receipt.pdf [get]
func (h *SalesHandler) GetReceiptPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.receipt.GetReceiptPDF(c.UserContext(), c.Params("saleId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="comprobante.pdf"`)
	return c.Send(pdfBytes)
}
