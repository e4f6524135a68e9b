package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/sales"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// DraftHandler maneja las peticiones HTTP de carritos en progreso (protegido).
type DraftHandler struct {
	uc  *sales.DraftUseCase
	log *logger.Logger
}

// NewDraftHandler construye el handler.
func NewDraftHandler(uc *sales.DraftUseCase, log *logger.Logger) *DraftHandler {
	return &DraftHandler{uc: uc, log: log}
}

// LoadOpenTabs godoc
// @Summary      Cargar pestañas abiertas
// @Description  Pestañas no completadas por display_order más el consecutivo
//	sugerido para la próxima pestaña.
// @Tags         draft-sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DraftTabsResponse
// @Router       /api/draft-sales [get]
func (h *DraftHandler) LoadOpenTabs(c *fiber.Ctx) error {
	resp, err := h.uc.LoadOpenTabs(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(resp)
}

// Sync godoc
// @Summary      Sincronizar el set completo de pestañas
// @Description  Full-replace: upsert de cada pestaña entrante y borrado de las
//	ausentes. Un payload vacío con pestañas abiertas se rechaza; borrar la
//	última pestaña requiere el DELETE explícito.
// @Tags         draft-sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SyncDraftsRequest  true  "set completo de pestañas abiertas"
// @Success      200   {object}  dto.DraftTabsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/draft-sales/sync [post]
func (h *DraftHandler) Sync(c *fiber.Ctx) error {
	var in dto.SyncDraftsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Sync(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(resp)
}

// Delete godoc
// @Summary      Borrar una pestaña
// @Tags         draft-sales
// @Security     Bearer
// @Param        tabId  path  string  true  "Tab ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/draft-sales/{tabId} [delete]
func (h *DraftHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("tabId")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
