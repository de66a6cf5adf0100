package sales

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/entity"
	"bookstock/internal/core/id"
	"bookstock/internal/core/numerator"
	"bookstock/internal/core/types"
	"bookstock/internal/domain/catalogs/item"
	"bookstock/internal/domain/ledger"
)

// --- In-memory doubles ---

type memPurchaseRepo struct {
	mu   sync.Mutex
	rows map[id.ID]*Purchase
	// failUpdates makes the next N Update calls lose the version race
	failUpdates int
}

func newMemPurchaseRepo() *memPurchaseRepo {
	return &memPurchaseRepo{rows: map[id.ID]*Purchase{}}
}

func (r *memPurchaseRepo) Create(ctx context.Context, p *Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *memPurchaseRepo) GetByID(ctx context.Context, pid id.ID) (*Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.rows[pid]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, apperror.NewNotFound("purchase", pid.String())
}

func (r *memPurchaseRepo) GetByReceipt(ctx context.Context, receipt string) (*Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.ReceiptNumber == receipt {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("purchase", receipt)
}

func (r *memPurchaseRepo) Update(ctx context.Context, p *Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdates > 0 {
		r.failUpdates--
		return apperror.NewConcurrentModification("purchase", p.ID.String())
	}
	stored, ok := r.rows[p.ID]
	if !ok {
		return apperror.NewNotFound("purchase", p.ID.String())
	}
	if stored.Version != p.Version-1 {
		return apperror.NewConcurrentModification("purchase", p.ID.String())
	}
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *memPurchaseRepo) Delete(ctx context.Context, pid id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[pid]; !ok {
		return apperror.NewNotFound("purchase", pid.String())
	}
	delete(r.rows, pid)
	return nil
}

func (r *memPurchaseRepo) List(ctx context.Context, filter PurchaseFilter) ([]*Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Purchase
	for _, p := range r.rows {
		if filter.StudentID != nil && p.StudentID != *filter.StudentID {
			continue
		}
		if filter.ItemID != nil && p.ItemID != *filter.ItemID {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memPurchaseRepo) Count(ctx context.Context, filter PurchaseFilter) (int64, error) {
	rows, err := r.List(ctx, filter)
	return int64(len(rows)), err
}

func (r *memPurchaseRepo) snapshot() map[id.ID]*Purchase {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[id.ID]*Purchase, len(r.rows))
	for k, v := range r.rows {
		cp := *v
		snap[k] = &cp
	}
	return snap
}

func (r *memPurchaseRepo) restore(snap map[id.ID]*Purchase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = snap
}

type memItemStore struct {
	mu    sync.Mutex
	items map[id.ID]*item.Item
}

func newMemItemStore(items ...*item.Item) *memItemStore {
	m := &memItemStore{items: map[id.ID]*item.Item{}}
	for _, it := range items {
		m.items[it.ID] = it
	}
	return m
}

func (r *memItemStore) GetByID(ctx context.Context, itemID id.ID) (*item.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if it, ok := r.items[itemID]; ok {
		cp := *it
		return &cp, nil
	}
	return nil, apperror.NewNotFound("item", itemID.String())
}

// AdjustStock mirrors the SQL conditional update: the change is refused
// atomically when it would drive stock negative.
func (r *memItemStore) AdjustStock(ctx context.Context, itemID id.ID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[itemID]
	if !ok {
		return apperror.NewNotFound("item", itemID.String())
	}
	if it.StockQuantity+delta < 0 {
		return apperror.NewInsufficientStock(itemID.String(), -delta, it.StockQuantity)
	}
	it.StockQuantity += delta
	return nil
}

func (r *memItemStore) stock(itemID id.ID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[itemID].StockQuantity
}

func (r *memItemStore) snapshot() map[id.ID]*item.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[id.ID]*item.Item, len(r.items))
	for k, v := range r.items {
		cp := *v
		snap[k] = &cp
	}
	return snap
}

func (r *memItemStore) restore(snap map[id.ID]*item.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = snap
}

type memLedgerRepo struct {
	mu      sync.Mutex
	entries []*entity.StockEntry
}

func (r *memLedgerRepo) Append(ctx context.Context, entry *entity.StockEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *memLedgerRepo) List(ctx context.Context, filter ledger.Filter) ([]*entity.StockEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.StockEntry
	for _, e := range r.entries {
		if filter.ItemID != nil && e.ItemID != *filter.ItemID {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memLedgerRepo) SumByItem(ctx context.Context, itemID id.ID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := 0
	for _, e := range r.entries {
		if e.ItemID == itemID {
			sum += e.Delta
		}
	}
	return sum, nil
}

func (r *memLedgerRepo) CountByItem(ctx context.Context, itemID id.ID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.entries {
		if e.ItemID == itemID {
			n++
		}
	}
	return n, nil
}

func (r *memLedgerRepo) byItem(itemID id.ID) []*entity.StockEntry {
	out, _ := r.List(context.Background(), ledger.Filter{ItemID: &itemID})
	return out
}

func (r *memLedgerRepo) snapshot() []*entity.StockEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make([]*entity.StockEntry, len(r.entries))
	for i, e := range r.entries {
		cp := *e
		snap[i] = &cp
	}
	return snap
}

func (r *memLedgerRepo) restore(snap []*entity.StockEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = snap
}

type memStudents struct {
	known map[id.ID]bool
}

func (r *memStudents) Exists(ctx context.Context, sid id.ID) (bool, error) {
	return r.known[sid], nil
}

// memTxManager serializes transactions and restores all stores on error,
// mirroring database rollback.
type memTxManager struct {
	mu        sync.Mutex
	purchases *memPurchaseRepo
	items     *memItemStore
	ledger    *memLedgerRepo
}

func (t *memTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	pSnap := t.purchases.snapshot()
	iSnap := t.items.snapshot()
	lSnap := t.ledger.snapshot()

	if err := fn(ctx); err != nil {
		t.purchases.restore(pSnap)
		t.items.restore(iSnap)
		t.ledger.restore(lSnap)
		return err
	}
	return nil
}

// --- Fixture ---

type fixture struct {
	svc       *Service
	purchases *memPurchaseRepo
	items     *memItemStore
	ledger    *memLedgerRepo
	students  *memStudents
	item      *item.Item
	student   id.ID
}

// newFixture builds a service over in-memory stores with one item
// (stock 10, price 20.00, cost 12.00) and one known student.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	it := item.New("BK-2026-00001", "Algebra Grade 7", types.MustMoney("20"), types.MustMoney("12"))
	it.StockQuantity = 10

	purchases := newMemPurchaseRepo()
	items := newMemItemStore(it)
	ledgerRepo := &memLedgerRepo{}
	studentID := id.New()
	students := &memStudents{known: map[id.ID]bool{studentID: true}}
	txm := &memTxManager{purchases: purchases, items: items, ledger: ledgerRepo}

	ledgerSvc := ledger.NewService(ledgerRepo, items)
	svc := NewService(purchases, items, students, ledgerSvc, txm, &numerator.MockGenerator{}, nil)

	return &fixture{
		svc:       svc,
		purchases: purchases,
		items:     items,
		ledger:    ledgerRepo,
		students:  students,
		item:      it,
		student:   studentID,
	}
}

// requireInvariant asserts stock == initialStock + sum of ledger deltas.
func (f *fixture) requireInvariant(t *testing.T, initial int) {
	t.Helper()
	sum, err := f.ledger.SumByItem(context.Background(), f.item.ID)
	require.NoError(t, err)
	require.Equal(t, initial+sum, f.items.stock(f.item.ID),
		"stock must equal initial stock plus ledger sum")
}

// --- Create ---

func TestCreatePurchase_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.CreatePurchase(ctx, CreatePurchaseParams{
		StudentID: f.student,
		ItemID:    f.item.ID,
		Quantity:  3,
	})
	require.NoError(t, err)

	assert.True(t, p.TotalAmount.Equal(types.MustMoney("60")), "3 x 20.00 = 60.00")
	assert.True(t, strings.HasPrefix(p.ReceiptNumber, "RC-"), "receipt %s", p.ReceiptNumber)
	assert.Equal(t, 7, f.items.stock(f.item.ID))

	entries := f.ledger.byItem(f.item.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, -3, entries[0].Delta)
	assert.Equal(t, entity.ChangeTypeOut, entries[0].ChangeType)
	assert.Equal(t, p.ReceiptNumber, entries[0].Reason)

	f.requireInvariant(t, 10)
}

func TestCreatePurchase_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	negative := types.MustMoney("-1")

	cases := []struct {
		name   string
		params CreatePurchaseParams
	}{
		{"zero quantity", CreatePurchaseParams{StudentID: f.student, ItemID: f.item.ID, Quantity: 0}},
		{"negative quantity", CreatePurchaseParams{StudentID: f.student, ItemID: f.item.ID, Quantity: -2}},
		{"missing student", CreatePurchaseParams{ItemID: f.item.ID, Quantity: 1}},
		{"missing item", CreatePurchaseParams{StudentID: f.student, Quantity: 1}},
		{"negative price", CreatePurchaseParams{StudentID: f.student, ItemID: f.item.ID, Quantity: 1, UnitPrice: &negative}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreatePurchase(ctx, tc.params)
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
		})
	}

	// Nothing was written
	assert.Equal(t, 10, f.items.stock(f.item.ID))
	assert.Empty(t, f.ledger.byItem(f.item.ID))
}

func TestCreatePurchase_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreatePurchase(ctx, CreatePurchaseParams{
		StudentID: f.student,
		ItemID:    id.New(),
		Quantity:  1,
	})
	require.True(t, apperror.IsNotFound(err))

	_, err = f.svc.CreatePurchase(ctx, CreatePurchaseParams{
		StudentID: id.New(),
		ItemID:    f.item.ID,
		Quantity:  1,
	})
	require.True(t, apperror.IsNotFound(err))

	assert.Equal(t, 10, f.items.stock(f.item.ID))
}

func TestCreatePurchase_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreatePurchase(ctx, CreatePurchaseParams{
		StudentID: f.student,
		ItemID:    f.item.ID,
		Quantity:  11,
	})
	require.True(t, apperror.IsInsufficientStock(err))

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, 11, appErr.Details["requested"])
	assert.Equal(t, 10, appErr.Details["available"])

	// Failed purchase leaves no trace
	assert.Equal(t, 10, f.items.stock(f.item.ID))
	assert.Empty(t, f.ledger.byItem(f.item.ID))
	n, _ := f.purchases.Count(ctx, PurchaseFilter{})
	assert.Zero(t, n)
}

func TestCreatePurchase_ConcurrentOversell(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 10 concurrent buyers want 3 units each from a stock of 10.
	// At most 3 can succeed; stock must never go negative.
	const buyers = 10
	var wg sync.WaitGroup
	errs := make([]error, buyers)

	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.CreatePurchase(ctx, CreatePurchaseParams{
				StudentID: f.student,
				ItemID:    f.item.ID,
				Quantity:  3,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.True(t, apperror.IsInsufficientStock(err), "unexpected error: %v", err)
		}
	}

	assert.Equal(t, 3, succeeded)
	assert.Equal(t, 10-3*succeeded, f.items.stock(f.item.ID))
	assert.GreaterOrEqual(t, f.items.stock(f.item.ID), 0)

	// Exactly one ledger entry per successful purchase
	assert.Len(t, f.ledger.byItem(f.item.ID), succeeded)
	n, _ := f.purchases.Count(ctx, PurchaseFilter{})
	assert.Equal(t, int64(succeeded), n)

	f.requireInvariant(t, 10)
}

// --- Update ---

func TestUpdatePurchase_QuantityChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.CreatePurchase(ctx, CreatePurchaseParams{
		StudentID: f.student, ItemID: f.item.ID, Quantity: 3,
	})
	require.NoError(t, err)

	// Increase 3 -> 5: two more units leave stock
	five := 5
	updated, err := f.svc.UpdatePurchase(ctx, UpdatePurchaseParams{ID: p.ID, Quantity: &five})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)
	assert.True(t, updated.TotalAmount.Equal(types.MustMoney("100")))
	assert.Equal(t, 5, f.items.stock(f.item.ID))

	entries := f.ledger.byItem(f.item.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, -2, entries[1].Delta)
	assert.Equal(t, entity.ChangeTypeAdjust, entries[1].ChangeType)

	// Decrease 5 -> 2: three units come back
	two := 2
	updated, err = f.svc.UpdatePurchase(ctx, UpdatePurchaseParams{ID: p.ID, Quantity: &two})
	require.NoError(t, err)
	assert.Equal(t, 8, f.items.stock(f.item.ID))
	assert.True(t, updated.TotalAmount.Equal(types.MustMoney("40")))

	entries = f.ledger.byItem(f.item.ID)
	require.Len(t, entries, 3)
	assert.Equal(t, 3, entries[2].Delta)

	f.requireInvariant(t, 10)
}

func TestUpdatePurchase_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.CreatePurchase(ctx, CreatePurchaseParams{
		StudentID: f.student, ItemID: f.item.ID, Quantity: 3,
	})
	require.NoError(t, err)
	// stock is now 7; growing the purchase to 11 needs 8 more

	eleven := 11
	_, err = f.svc.UpdatePurchase(ctx, UpdatePurchaseParams{ID: p.ID, Quantity: &eleven})
	require.True(t, apperror.IsInsufficientStock(err))

	// Rolled back: purchase and stock unchanged
	stored, err := f.svc.GetPurchase(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Quantity)
	assert.Equal(t, 7, f.items.stock(f.item.ID))
	assert.Len(t, f.ledger.byItem(f.item.ID), 1)

	f.requireInvariant(t, 10)
}

func TestUpdatePurchase_ItemChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other := item.New("BK-2026-00002", "Physics Grade 7", types.MustMoney("30"), types.MustMoney("18"))
	other.StockQuantity = 4
	f.items.mu.Lock()
	f.items.items[other.ID] = other
	f.items.mu.Unlock()

	p, err := f.svc.CreatePurchase(ctx, CreatePurchaseParams{
		StudentID: f.student, ItemID: f.item.ID, Quantity: 3,
	})
	require.NoError(t, err)

	updated, err := f.svc.UpdatePurchase(ctx, UpdatePurchaseParams{ID: p.ID, ItemID: &other.ID})
	require.NoError(t, err)

	assert.Equal(t, other.ID, updated.ItemID)
	// Old item restored, new item decremented
	assert.Equal(t, 10, f.items.stock(f.item.ID))
	assert.Equal(t, 1, f.items.stock(other.ID))

	oldEntries := f.ledger.byItem(f.item.ID)
	require.Len(t, oldEntries, 2)
	assert.Equal(t, 3, oldEntries[1].Delta)
	assert.Equal(t, entity.ChangeTypeAdjust, oldEntries[1].ChangeType)

	newEntries := f.ledger.byItem(other.ID)
	require.Len(t, newEntries, 1)
	assert.Equal(t, -3, newEntries[0].Delta)

	// Price follows the purchase, not the new item
	assert.True(t, updated.UnitPrice.Equal(types.MustMoney("20")))
}

func TestUpdatePurchase_RetriesVersionRace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.CreatePurchase(ctx, CreatePurchaseParams{
		StudentID: f.student, ItemID: f.item.ID, Quantity: 2,
	})
	require.NoError(t, err)

	// First attempt loses the version race, the internal retry wins
	f.purchases.mu.Lock()
	f.purchases.failUpdates = 1
	f.purchases.mu.Unlock()

	four := 4
	updated, err := f.svc.UpdatePurchase(ctx, UpdatePurchaseParams{ID: p.ID, Quantity: &four})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	// Two consecutive losses surface the conflict
	f.purchases.mu.Lock()
	f.purchases.failUpdates = 2
	f.purchases.mu.Unlock()

	five := 5
	_, err = f.svc.UpdatePurchase(ctx, UpdatePurchaseParams{ID: p.ID, Quantity: &five})
	require.True(t, apperror.IsConcurrentModification(err))

	f.requireInvariant(t, 10)
}

func TestUpdatePurchase_NotFound(t *testing.T) {
	f := newFixture(t)
	qty := 2
	_, err := f.svc.UpdatePurchase(context.Background(), UpdatePurchaseParams{ID: id.New(), Quantity: &qty})
	require.True(t, apperror.IsNotFound(err))
}

// --- Delete ---

func TestDeletePurchase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.CreatePurchase(ctx, CreatePurchaseParams{
		StudentID: f.student, ItemID: f.item.ID, Quantity: 3,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeletePurchase(ctx, p.ID))

	// Stock restored, row gone, history kept
	assert.Equal(t, 10, f.items.stock(f.item.ID))
	_, err = f.svc.GetPurchase(ctx, p.ID)
	require.True(t, apperror.IsNotFound(err))

	entries := f.ledger.byItem(f.item.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, 3, entries[1].Delta)
	assert.Equal(t, entity.ChangeTypeIn, entries[1].ChangeType)
	assert.Equal(t, "reversal:"+p.ReceiptNumber, entries[1].Reason)

	f.requireInvariant(t, 10)
}

func TestDeletePurchase_NotFound(t *testing.T) {
	f := newFixture(t)
	err := f.svc.DeletePurchase(context.Background(), id.New())
	require.True(t, apperror.IsNotFound(err))
}

// --- AdjustStock ---

func TestAdjustStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Supply posting
	require.NoError(t, f.svc.AdjustStock(ctx, AdjustStockParams{
		ItemID:     f.item.ID,
		Delta:      20,
		Reason:     "SO-2026-00001",
		ChangeType: entity.ChangeTypeIn,
	}))
	assert.Equal(t, 30, f.items.stock(f.item.ID))

	// Manual correction, default type
	require.NoError(t, f.svc.AdjustStock(ctx, AdjustStockParams{
		ItemID: f.item.ID,
		Delta:  -5,
		Reason: "damaged in storage",
	}))
	assert.Equal(t, 25, f.items.stock(f.item.ID))

	entries := f.ledger.byItem(f.item.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.ChangeTypeIn, entries[0].ChangeType)
	assert.Equal(t, entity.ChangeTypeAdjust, entries[1].ChangeType)

	f.requireInvariant(t, 10)
}

func TestAdjustStock_GuardsNegative(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.AdjustStock(ctx, AdjustStockParams{
		ItemID: f.item.ID,
		Delta:  -11,
		Reason: "recount",
	})
	require.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, 10, f.items.stock(f.item.ID))
	assert.Empty(t, f.ledger.byItem(f.item.ID))
}

func TestAdjustStock_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.AdjustStock(ctx, AdjustStockParams{Delta: 5, Reason: "restock"})
	require.Error(t, err)

	err = f.svc.AdjustStock(ctx, AdjustStockParams{ItemID: f.item.ID, Delta: 5})
	require.Error(t, err)

	err = f.svc.AdjustStock(ctx, AdjustStockParams{ItemID: f.item.ID, Delta: 0, Reason: "noop"})
	require.Error(t, err)
}

// --- Lifecycle invariant ---

func TestPurchaseLifecycle_LedgerStaysConsistent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.CreatePurchase(ctx, CreatePurchaseParams{
		StudentID: f.student, ItemID: f.item.ID, Quantity: 2,
	})
	require.NoError(t, err)
	f.requireInvariant(t, 10)

	six := 6
	_, err = f.svc.UpdatePurchase(ctx, UpdatePurchaseParams{ID: p.ID, Quantity: &six})
	require.NoError(t, err)
	f.requireInvariant(t, 10)

	require.NoError(t, f.svc.AdjustStock(ctx, AdjustStockParams{
		ItemID: f.item.ID, Delta: 15, Reason: "SO-2026-00002", ChangeType: entity.ChangeTypeIn,
	}))
	f.requireInvariant(t, 10)

	require.NoError(t, f.svc.DeletePurchase(ctx, p.ID))
	f.requireInvariant(t, 10)

	// 10 - 2 - 4 + 15 + 6 = 25
	assert.Equal(t, 25, f.items.stock(f.item.ID))
}
