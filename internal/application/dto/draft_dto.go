package dto

import (
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// DraftTabPayload una pestaña tal como la reporta el cliente en el sync.
// El sync es full-replace: el cliente envía SIEMPRE el set completo de
// pestañas abiertas, nunca un delta.
type DraftTabPayload struct {
	TabID    string                 `json:"tab_id,omitempty"` // vacío = pestaña nueva
	TabLabel string                 `json:"tab_label"`
	Items    []entity.DraftSaleItem `json:"items"`
}

// SyncDraftsRequest body para POST /api/draft-sales/sync.
type SyncDraftsRequest struct {
	Tabs []DraftTabPayload `json:"tabs"`
}

// DraftTabResponse una pestaña abierta en respuestas.
type DraftTabResponse struct {
	TabID        string                 `json:"tab_id"`
	TabLabel     string                 `json:"tab_label"`
	Items        []entity.DraftSaleItem `json:"items"`
	DisplayOrder int                    `json:"display_order"`
	CreatedBy    string                 `json:"created_by"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// DraftTabsResponse respuesta de GET /api/draft-sales.
type DraftTabsResponse struct {
	Tabs           []DraftTabResponse `json:"tabs"`
	NextTabCounter int                `json:"next_tab_counter"`
}
