package ledger

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/entity"
	"bookstock/internal/core/id"
	"bookstock/internal/core/types"
	"bookstock/internal/domain/catalogs/item"
)

// --- In-memory doubles ---

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

func (r *memLedgerRepo) List(ctx context.Context, filter Filter) ([]*entity.StockEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.StockEntry
	for _, e := range r.entries {
		if filter.ItemID != nil && e.ItemID != *filter.ItemID {
			continue
		}
		if filter.From != nil && e.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.CreatedAt.After(*filter.To) {
			continue
		}
		if filter.ChangeType != nil && e.ChangeType != *filter.ChangeType {
			continue
		}
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
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

type memItemReader struct {
	items map[id.ID]*item.Item
}

func (r *memItemReader) GetByID(ctx context.Context, itemID id.ID) (*item.Item, error) {
	if it, ok := r.items[itemID]; ok {
		return it, nil
	}
	return nil, apperror.NewNotFound("item", itemID.String())
}

func newTestItem(stock int) *item.Item {
	it := item.New("BK-2026-00001", "Algebra Grade 7", types.MustMoney("20"), types.MustMoney("12"))
	it.StockQuantity = stock
	return it
}

// --- Tests ---

func TestAppend_Valid(t *testing.T) {
	repo := &memLedgerRepo{}
	svc := NewService(repo, &memItemReader{})
	ctx := context.Background()

	itemID := id.New()
	entry := entity.NewStockEntry(itemID, -3, entity.ChangeTypeOut, "RC-2026-00001")

	require.NoError(t, svc.Append(ctx, entry))

	sum, err := repo.SumByItem(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, -3, sum)
}

func TestAppend_Invalid(t *testing.T) {
	svc := NewService(&memLedgerRepo{}, &memItemReader{})
	ctx := context.Background()
	itemID := id.New()

	cases := []struct {
		name  string
		entry *entity.StockEntry
	}{
		{"nil entry", nil},
		{"zero delta", entity.NewStockEntry(itemID, 0, entity.ChangeTypeAdjust, "recount")},
		{"missing item", entity.NewStockEntry(id.Nil(), 5, entity.ChangeTypeIn, "restock")},
		{"unknown type", entity.NewStockEntry(itemID, 5, entity.ChangeType("BOGUS"), "restock")},
		{"IN with negative delta", entity.NewStockEntry(itemID, -5, entity.ChangeTypeIn, "restock")},
		{"OUT with positive delta", entity.NewStockEntry(itemID, 5, entity.ChangeTypeOut, "RC-2026-00001")},
		{"missing reason", entity.NewStockEntry(itemID, 5, entity.ChangeTypeIn, "")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Append(ctx, tc.entry)
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
		})
	}
}

func TestList_FiltersAndOrder(t *testing.T) {
	repo := &memLedgerRepo{}
	svc := NewService(repo, &memItemReader{})
	ctx := context.Background()

	itemA := id.New()
	itemB := id.New()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, spec := range []struct {
		itemID id.ID
		delta  int
		ct     entity.ChangeType
	}{
		{itemA, 10, entity.ChangeTypeIn},
		{itemA, -3, entity.ChangeTypeOut},
		{itemB, 5, entity.ChangeTypeIn},
		{itemA, 2, entity.ChangeTypeAdjust},
	} {
		e := entity.NewStockEntry(spec.itemID, spec.delta, spec.ct, "seed")
		e.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.Append(ctx, e))
	}

	entries, err := svc.List(ctx, Filter{ItemID: &itemA})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// newest first
	assert.Equal(t, 2, entries[0].Delta)
	assert.Equal(t, -3, entries[1].Delta)
	assert.Equal(t, 10, entries[2].Delta)

	out := entity.ChangeTypeOut
	entries, err = svc.List(ctx, Filter{ItemID: &itemA, ChangeType: &out})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, -3, entries[0].Delta)
}

func TestList_InvalidRange(t *testing.T) {
	svc := NewService(&memLedgerRepo{}, &memItemReader{})
	ctx := context.Background()

	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.List(ctx, Filter{From: &from, To: &to})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestReconcile_InSync(t *testing.T) {
	repo := &memLedgerRepo{}
	it := newTestItem(7)
	items := &memItemReader{items: map[id.ID]*item.Item{it.ID: it}}
	svc := NewService(repo, items)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, entity.NewStockEntry(it.ID, 10, entity.ChangeTypeIn, "restock")))
	require.NoError(t, repo.Append(ctx, entity.NewStockEntry(it.ID, -3, entity.ChangeTypeOut, "RC-2026-00001")))

	result, err := svc.Reconcile(ctx, it.ID)
	require.NoError(t, err)
	assert.True(t, result.InSync)
	assert.Equal(t, 7, result.LedgerSum)
	assert.Equal(t, 7, result.StockQuantity)
	assert.Equal(t, 0, result.Drift)
}

func TestReconcile_Drift(t *testing.T) {
	repo := &memLedgerRepo{}
	it := newTestItem(9)
	items := &memItemReader{items: map[id.ID]*item.Item{it.ID: it}}
	svc := NewService(repo, items)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, entity.NewStockEntry(it.ID, 10, entity.ChangeTypeIn, "restock")))
	require.NoError(t, repo.Append(ctx, entity.NewStockEntry(it.ID, -3, entity.ChangeTypeOut, "RC-2026-00001")))

	result, err := svc.Reconcile(ctx, it.ID)
	require.NoError(t, err)
	assert.False(t, result.InSync)
	assert.Equal(t, 7, result.LedgerSum)
	assert.Equal(t, 9, result.StockQuantity)
	assert.Equal(t, 2, result.Drift)
}

func TestReconcile_UnknownItem(t *testing.T) {
	svc := NewService(&memLedgerRepo{}, &memItemReader{})

	_, err := svc.Reconcile(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
