package sales

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Farmacia-api/internal/domain/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// DraftUseCase administra los carritos en progreso (pestañas del punto de venta).
// El sync es una reconciliación destructiva: el cliente reporta el set completo
// de pestañas abiertas y lo que no venga en el payload se borra.
type DraftUseCase struct {
	txRunner inventory.TxRunner
}

// NewDraftUseCase construye el caso de uso.
func NewDraftUseCase(txRunner inventory.TxRunner) *DraftUseCase {
	return &DraftUseCase{txRunner: txRunner}
}

// LoadOpenTabs retorna las pestañas abiertas por display_order más el
// consecutivo sugerido para la próxima pestaña (GET /api/draft-sales).
func (uc *DraftUseCase) LoadOpenTabs(ctx context.Context) (*dto.DraftTabsResponse, error) {
	var tabs []*entity.DraftSaleTab
	err := uc.txRunner.View(ctx, func(r repository.Set) error {
		var err error
		tabs, err = r.Drafts.ListOpen(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	labels := make([]string, 0, len(tabs))
	resp := &dto.DraftTabsResponse{Tabs: make([]dto.DraftTabResponse, 0, len(tabs))}
	for _, t := range tabs {
		labels = append(labels, t.TabLabel)
		resp.Tabs = append(resp.Tabs, *toDraftTabResponse(t))
	}
	resp.NextTabCounter = domaininv.NextTabCounter(labels)
	return resp, nil
}

// Sync reconcilia el set completo de pestañas (POST /api/draft-sales/sync):
// upsert de cada pestaña entrante con display_order = posición en el arreglo,
// borrado en duro de toda pestaña abierta ausente del payload.
// Guarda defensiva: un payload vacío con pestañas abiertas se rechaza; borrar
// la última pestaña exige el DELETE explícito.
func (uc *DraftUseCase) Sync(ctx context.Context, userID string, in dto.SyncDraftsRequest) (*dto.DraftTabsResponse, error) {
	now := time.Now()
	err := uc.txRunner.Run(ctx, func(r repository.Set) error {
		open, err := r.Drafts.ListOpen(ctx)
		if err != nil {
			return err
		}
		if len(in.Tabs) == 0 && len(open) > 0 {
			return domain.ErrInvalidInput
		}

		incoming := make(map[string]bool, len(in.Tabs))
		for i := range in.Tabs {
			payload := &in.Tabs[i]
			if payload.TabID == "" {
				payload.TabID = uuid.New().String()
			}
			incoming[payload.TabID] = true

			tab := &entity.DraftSaleTab{
				TabID:        payload.TabID,
				TabLabel:     payload.TabLabel,
				Items:        payload.Items,
				DisplayOrder: i,
				CreatedBy:    userID,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := r.Drafts.Upsert(ctx, tab); err != nil {
				return err
			}
		}

		for _, t := range open {
			if !incoming[t.TabID] {
				if err := r.Drafts.Delete(ctx, t.TabID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.LoadOpenTabs(ctx)
}

// Delete borra en duro una pestaña (DELETE /api/draft-sales/:tabId).
func (uc *DraftUseCase) Delete(ctx context.Context, tabID string) error {
	if tabID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(r repository.Set) error {
		tab, err := r.Drafts.GetByID(ctx, tabID)
		if err != nil {
			return err
		}
		if tab == nil {
			return domain.ErrNotFound
		}
		return r.Drafts.Delete(ctx, tabID)
	})
}

func toDraftTabResponse(t *entity.DraftSaleTab) *dto.DraftTabResponse {
	return &dto.DraftTabResponse{
		TabID:        t.TabID,
		TabLabel:     t.TabLabel,
		Items:        t.Items,
		DisplayOrder: t.DisplayOrder,
		CreatedBy:    t.CreatedBy,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
