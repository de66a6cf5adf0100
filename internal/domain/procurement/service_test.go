package procurement

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/entity"
	"bookstock/internal/core/id"
	"bookstock/internal/core/numerator"
	"bookstock/internal/core/types"
	"bookstock/internal/domain/sales"
)

// --- In-memory doubles ---

type memProcRepo struct {
	mu       sync.Mutex
	orders   map[id.ID]*SupplyOrder
	payments []*SupplierPayment
}

func newMemProcRepo() *memProcRepo {
	return &memProcRepo{orders: map[id.ID]*SupplyOrder{}}
}

func (r *memProcRepo) CreateOrder(ctx context.Context, order *SupplyOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *memProcRepo) GetOrder(ctx context.Context, oid id.ID) (*SupplyOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[oid]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, apperror.NewNotFound("supply order", oid.String())
}

func (r *memProcRepo) UpdateOrderStatus(ctx context.Context, order *SupplyOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return apperror.NewNotFound("supply order", order.ID.String())
	}
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *memProcRepo) ListOrders(ctx context.Context, filter OrderFilter) ([]*SupplyOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*SupplyOrder
	for _, o := range r.orders {
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memProcRepo) CreatePayment(ctx context.Context, payment *SupplierPayment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *payment
	r.payments = append(r.payments, &cp)
	return nil
}

func (r *memProcRepo) ListPayments(ctx context.Context, filter PaymentFilter) ([]*SupplierPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*SupplierPayment
	for _, p := range r.payments {
		if filter.SupplierID != nil && p.SupplierID != *filter.SupplierID {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

type memSuppliers struct {
	known map[id.ID]bool
}

func (r *memSuppliers) Exists(ctx context.Context, sid id.ID) (bool, error) {
	return r.known[sid], nil
}

type memStockPoster struct {
	mu     sync.Mutex
	posted []sales.AdjustStockParams
	fail   error
}

func (p *memStockPoster) AdjustStock(ctx context.Context, params sales.AdjustStockParams) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.posted = append(p.posted, params)
	return nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- Fixture ---

type fixture struct {
	svc      *Service
	repo     *memProcRepo
	stock    *memStockPoster
	supplier id.ID
	itemA    id.ID
	itemB    id.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	supplierID := id.New()
	repo := newMemProcRepo()
	stock := &memStockPoster{}
	svc := NewService(
		repo,
		&memSuppliers{known: map[id.ID]bool{supplierID: true}},
		stock,
		passthroughTx{},
		&numerator.MockGenerator{},
	)

	return &fixture{
		svc:      svc,
		repo:     repo,
		stock:    stock,
		supplier: supplierID,
		itemA:    id.New(),
		itemB:    id.New(),
	}
}

func (f *fixture) newOrderParams() CreateOrderParams {
	return CreateOrderParams{
		SupplierID: f.supplier,
		Lines: []OrderLineParams{
			{ItemID: f.itemA, Quantity: 20, UnitCost: types.MustMoney("12")},
			{ItemID: f.itemB, Quantity: 5, UnitCost: types.MustMoney("18")},
		},
	}
}

// --- Tests ---

func TestCreateOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, f.newOrderParams())
	require.NoError(t, err)

	assert.Equal(t, StatusPending, order.Status)
	assert.NotEmpty(t, order.OrderNumber)
	// 20*12 + 5*18 = 330
	assert.True(t, order.TotalAmount.Equal(types.MustMoney("330")))
	require.Len(t, order.Lines, 2)

	stored, err := f.svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, stored.OrderNumber)
}

func TestCreateOrder_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		params CreateOrderParams
	}{
		{"no lines", CreateOrderParams{SupplierID: f.supplier}},
		{"zero quantity", CreateOrderParams{
			SupplierID: f.supplier,
			Lines:      []OrderLineParams{{ItemID: f.itemA, Quantity: 0, UnitCost: types.MustMoney("12")}},
		}},
		{"negative cost", CreateOrderParams{
			SupplierID: f.supplier,
			Lines:      []OrderLineParams{{ItemID: f.itemA, Quantity: 1, UnitCost: types.MustMoney("-1")}},
		}},
		{"missing supplier id", CreateOrderParams{
			Lines: []OrderLineParams{{ItemID: f.itemA, Quantity: 1, UnitCost: types.MustMoney("12")}},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateOrder(ctx, tc.params)
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
		})
	}
}

func TestCreateOrder_UnknownSupplier(t *testing.T) {
	f := newFixture(t)
	params := f.newOrderParams()
	params.SupplierID = id.New()

	_, err := f.svc.CreateOrder(context.Background(), params)
	require.True(t, apperror.IsNotFound(err))
}

func TestReceiveOrder_PostsStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, f.newOrderParams())
	require.NoError(t, err)

	received, err := f.svc.ReceiveOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusReceived, received.Status)
	require.NotNil(t, received.ReceivedAt)

	require.Len(t, f.stock.posted, 2)
	assert.Equal(t, f.itemA, f.stock.posted[0].ItemID)
	assert.Equal(t, 20, f.stock.posted[0].Delta)
	assert.Equal(t, entity.ChangeTypeIn, f.stock.posted[0].ChangeType)
	assert.Equal(t, order.OrderNumber, f.stock.posted[0].Reason)
	assert.Equal(t, 5, f.stock.posted[1].Delta)
}

func TestReceiveOrder_OnlyPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, f.newOrderParams())
	require.NoError(t, err)

	_, err = f.svc.ReceiveOrder(ctx, order.ID)
	require.NoError(t, err)

	// Receiving twice must not double stock
	_, err = f.svc.ReceiveOrder(ctx, order.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
	assert.Len(t, f.stock.posted, 2)
}

func TestReceiveOrder_PostFailureKeepsPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, f.newOrderParams())
	require.NoError(t, err)

	f.stock.fail = apperror.NewDatabase(assert.AnError)
	_, err = f.svc.ReceiveOrder(ctx, order.ID)
	require.Error(t, err)

	stored, err := f.svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
}

func TestCancelOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, f.newOrderParams())
	require.NoError(t, err)

	cancelled, err := f.svc.CancelOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Empty(t, f.stock.posted)

	// Cancelled orders cannot be received
	_, err = f.svc.ReceiveOrder(ctx, order.ID)
	require.Error(t, err)
}

func TestRecordPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	payment, err := f.svc.RecordPayment(ctx, RecordPaymentParams{
		SupplierID: f.supplier,
		Amount:     types.MustMoney("150"),
		Method:     "bank_transfer",
		Reference:  "INV-481",
	})
	require.NoError(t, err)
	assert.False(t, payment.PaidAt.IsZero())

	payments, err := f.svc.ListPayments(ctx, PaymentFilter{SupplierID: &f.supplier})
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.True(t, payments[0].Amount.Equal(types.MustMoney("150")))
}

func TestRecordPayment_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.RecordPayment(ctx, RecordPaymentParams{
		SupplierID: f.supplier,
		Amount:     types.Zero(),
	})
	require.Error(t, err)

	_, err = f.svc.RecordPayment(ctx, RecordPaymentParams{
		SupplierID: id.New(),
		Amount:     types.MustMoney("10"),
	})
	require.True(t, apperror.IsNotFound(err))
}
