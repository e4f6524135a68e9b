package sales_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria + TxRunner falso
//
// El runner toma un snapshot antes de ejecutar el callback y lo restaura si
// falla: mismo contrato de atomicidad que la transacción real de PostgreSQL.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	products  map[string]*entity.Product
	movements []*entity.StockMovement
	batches   map[string]*entity.StockBatch
	summaries map[string]*entity.StockSummary
	drafts    map[string]*entity.DraftSaleTab
	sales     map[string]*entity.Sale
	saleItems []*entity.SaleItem
	counters  map[string]int64
}

func newMemStore() *memStore {
	return &memStore{
		products:  make(map[string]*entity.Product),
		batches:   make(map[string]*entity.StockBatch),
		summaries: make(map[string]*entity.StockSummary),
		drafts:    make(map[string]*entity.DraftSaleTab),
		sales:     make(map[string]*entity.Sale),
		counters:  make(map[string]int64),
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.products {
		c.products[k] = copyProduct(v)
	}
	for _, m := range s.movements {
		c.movements = append(c.movements, copyMovement(m))
	}
	for k, v := range s.batches {
		c.batches[k] = copyBatch(v)
	}
	for k, v := range s.summaries {
		cp := *v
		c.summaries[k] = &cp
	}
	for k, v := range s.drafts {
		c.drafts[k] = copyDraft(v)
	}
	for k, v := range s.sales {
		cp := *v
		c.sales[k] = &cp
	}
	for _, it := range s.saleItems {
		cp := *it
		c.saleItems = append(c.saleItems, &cp)
	}
	for k, v := range s.counters {
		c.counters[k] = v
	}
	return c
}

func copyProduct(p *entity.Product) *entity.Product   { cp := *p; return &cp }
func copyMovement(m *entity.StockMovement) *entity.StockMovement {
	cp := *m
	return &cp
}
func copyBatch(b *entity.StockBatch) *entity.StockBatch { cp := *b; return &cp }
func copyDraft(t *entity.DraftSaleTab) *entity.DraftSaleTab {
	cp := *t
	cp.Items = append([]entity.DraftSaleItem(nil), t.Items...)
	return &cp
}

func newMemSet(s *memStore) repository.Set {
	return repository.Set{
		Products:  &memProductRepo{s},
		Movements: &memMovementRepo{s},
		Batches:   &memBatchRepo{s},
		Summaries: &memSummaryRepo{s},
		Drafts:    &memDraftRepo{s},
		Sales:     &memSaleRepo{s},
		Sequences: &memSequenceRepo{s},
	}
}

type fakeTxRunner struct {
	store *memStore
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(r repository.Set) error) error {
	snapshot := f.store.clone()
	if err := fn(newMemSet(f.store)); err != nil {
		*f.store = *snapshot
		return err
	}
	return nil
}

func (f *fakeTxRunner) View(_ context.Context, fn func(r repository.Set) error) error {
	return fn(newMemSet(f.store))
}

// ── Products ──────────────────────────────────────────────────────────────────

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(_ context.Context, p *entity.Product) error {
	if _, exists := r.s.products[p.ID]; exists {
		return domain.ErrDuplicate
	}
	r.s.products[p.ID] = copyProduct(p)
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return copyProduct(p), nil
}

func (r *memProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var list []*entity.Product
	for _, p := range r.s.products {
		list = append(list, copyProduct(p))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}

func (r *memProductRepo) UpdateUnitCost(_ context.Context, id string, cost decimal.Decimal) error {
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.UnitCost = cost
	return nil
}

// ── Movements ─────────────────────────────────────────────────────────────────

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.movements = append(r.s.movements, copyMovement(m))
	return nil
}

func (r *memMovementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			return copyMovement(m), nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	var matched []*entity.StockMovement
	for _, m := range r.s.movements {
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && m.CreatedAt.After(*f.To) {
			continue
		}
		matched = append(matched, copyMovement(m))
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].MovementNumber > matched[j].MovementNumber
	})
	total := len(matched)
	return page(matched, f.Limit, f.Offset), total, nil
}

func (r *memMovementRepo) Totals(_ context.Context, productID string) (inventory.LedgerTotals, error) {
	var t inventory.LedgerTotals
	t.TrackedQuantity = decimal.Zero
	t.UntrackedQuantity = decimal.Zero
	t.TotalQuantity = decimal.Zero
	t.CostQuantity = decimal.Zero
	t.CostValue = decimal.Zero
	for _, m := range r.s.movements {
		if m.ProductID != productID {
			continue
		}
		if m.SerialNumber != "" {
			t.TrackedQuantity = t.TrackedQuantity.Add(m.QuantityChange)
		} else {
			t.UntrackedQuantity = t.UntrackedQuantity.Add(m.QuantityChange)
		}
		t.TotalQuantity = t.TotalQuantity.Add(m.QuantityChange)
		if m.QuantityChange.GreaterThan(decimal.Zero) && m.UnitCost != nil {
			t.CostQuantity = t.CostQuantity.Add(m.QuantityChange)
			t.CostValue = t.CostValue.Add(m.QuantityChange.Mul(*m.UnitCost))
		}
		if t.LastMovement == nil || m.CreatedAt.After(*t.LastMovement) {
			at := m.CreatedAt
			t.LastMovement = &at
		}
	}
	return t, nil
}

// ── Batches ───────────────────────────────────────────────────────────────────

type memBatchRepo struct{ s *memStore }

func (r *memBatchRepo) Create(_ context.Context, b *entity.StockBatch) error {
	if _, exists := r.s.batches[b.ID]; exists {
		return domain.ErrDuplicate
	}
	r.s.batches[b.ID] = copyBatch(b)
	return nil
}

func (r *memBatchRepo) GetByID(_ context.Context, id string) (*entity.StockBatch, error) {
	b, ok := r.s.batches[id]
	if !ok {
		return nil, nil
	}
	return copyBatch(b), nil
}

func (r *memBatchRepo) ListByProduct(_ context.Context, productID string, activeOnly bool) ([]*entity.StockBatch, error) {
	return r.list(productID, activeOnly), nil
}

func (r *memBatchRepo) ListActiveForUpdate(_ context.Context, productID string) ([]*entity.StockBatch, error) {
	return r.list(productID, true), nil
}

func (r *memBatchRepo) ListExpiring(_ context.Context, before time.Time) ([]*entity.StockBatch, error) {
	var list []*entity.StockBatch
	for _, b := range r.s.batches {
		if b.IsActive && b.Quantity.GreaterThan(decimal.Zero) && b.ExpiryDate.Before(before) {
			list = append(list, copyBatch(b))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ExpiryDate.Before(list[j].ExpiryDate) })
	return list, nil
}

func (r *memBatchRepo) Update(_ context.Context, b *entity.StockBatch) error {
	if _, ok := r.s.batches[b.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.batches[b.ID] = copyBatch(b)
	return nil
}

func (r *memBatchRepo) list(productID string, activeOnly bool) []*entity.StockBatch {
	var list []*entity.StockBatch
	for _, b := range r.s.batches {
		if b.ProductID != productID {
			continue
		}
		if activeOnly && !b.IsActive {
			continue
		}
		list = append(list, copyBatch(b))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ExpiryDate.Before(list[j].ExpiryDate) })
	return list
}

// ── Summaries ─────────────────────────────────────────────────────────────────

type memSummaryRepo struct{ s *memStore }

func (r *memSummaryRepo) Upsert(_ context.Context, sum *entity.StockSummary) error {
	cp := *sum
	r.s.summaries[sum.ProductID] = &cp
	return nil
}

func (r *memSummaryRepo) Get(_ context.Context, productID string) (*entity.StockSummary, error) {
	sum, ok := r.s.summaries[productID]
	if !ok {
		return nil, nil
	}
	cp := *sum
	return &cp, nil
}

func (r *memSummaryRepo) List(_ context.Context, limit, offset int) ([]*entity.StockSummary, error) {
	var list []*entity.StockSummary
	for _, sum := range r.s.summaries {
		cp := *sum
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ProductID < list[j].ProductID })
	return page(list, limit, offset), nil
}

func (r *memSummaryRepo) ListNeedingAttention(_ context.Context) ([]*entity.StockSummary, error) {
	var list []*entity.StockSummary
	for _, sum := range r.s.summaries {
		if sum.NeedsAttention {
			cp := *sum
			list = append(list, &cp)
		}
	}
	rank := func(s *entity.StockSummary) int {
		n := 0
		if s.HasExpired {
			n += 4
		}
		if s.HasLowStock {
			n += 2
		}
		if s.HasExpiringSoon {
			n++
		}
		return n
	}
	sort.Slice(list, func(i, j int) bool { return rank(list[i]) > rank(list[j]) })
	return list, nil
}

// ── Drafts ────────────────────────────────────────────────────────────────────

type memDraftRepo struct{ s *memStore }

func (r *memDraftRepo) ListOpen(_ context.Context) ([]*entity.DraftSaleTab, error) {
	var list []*entity.DraftSaleTab
	for _, t := range r.s.drafts {
		if !t.IsCompleted {
			list = append(list, copyDraft(t))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].DisplayOrder < list[j].DisplayOrder })
	return list, nil
}

func (r *memDraftRepo) GetByID(_ context.Context, tabID string) (*entity.DraftSaleTab, error) {
	t, ok := r.s.drafts[tabID]
	if !ok {
		return nil, nil
	}
	return copyDraft(t), nil
}

// Upsert replica el ON CONFLICT real: una pestaña existente conserva
// is_completed, completed_at, created_by y created_at.
func (r *memDraftRepo) Upsert(_ context.Context, t *entity.DraftSaleTab) error {
	if existing, ok := r.s.drafts[t.TabID]; ok {
		existing.TabLabel = t.TabLabel
		existing.Items = append([]entity.DraftSaleItem(nil), t.Items...)
		existing.DisplayOrder = t.DisplayOrder
		existing.UpdatedAt = t.UpdatedAt
		return nil
	}
	r.s.drafts[t.TabID] = copyDraft(t)
	return nil
}

func (r *memDraftRepo) Delete(_ context.Context, tabID string) error {
	if _, ok := r.s.drafts[tabID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.drafts, tabID)
	return nil
}

func (r *memDraftRepo) MarkCompleted(_ context.Context, tabID string, at time.Time) error {
	t, ok := r.s.drafts[tabID]
	if !ok {
		return domain.ErrNotFound
	}
	t.IsCompleted = true
	completedAt := at
	t.CompletedAt = &completedAt
	t.UpdatedAt = at
	return nil
}

// ── Sales ─────────────────────────────────────────────────────────────────────

type memSaleRepo struct{ s *memStore }

func (r *memSaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	cp := *sale
	r.s.sales[sale.ID] = &cp
	return nil
}

func (r *memSaleRepo) CreateItem(_ context.Context, it *entity.SaleItem) error {
	cp := *it
	r.s.saleItems = append(r.s.saleItems, &cp)
	return nil
}

func (r *memSaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *sale
	return &cp, nil
}

func (r *memSaleRepo) ItemsBySale(_ context.Context, saleID string) ([]*entity.SaleItem, error) {
	var list []*entity.SaleItem
	for _, it := range r.s.saleItems {
		if it.SaleID == saleID {
			cp := *it
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *memSaleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	var list []*entity.Sale
	for _, sale := range r.s.sales {
		if f.From != nil && sale.SaleDate.Before(*f.From) {
			continue
		}
		if f.To != nil && sale.SaleDate.After(*f.To) {
			continue
		}
		cp := *sale
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SaleNumber > list[j].SaleNumber })
	total := len(list)
	return page(list, f.Limit, f.Offset), total, nil
}

// ── Sequences ─────────────────────────────────────────────────────────────────

type memSequenceRepo struct{ s *memStore }

func (r *memSequenceRepo) Next(_ context.Context, name string) (int64, error) {
	r.s.counters[name]++
	return r.s.counters[name], nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
