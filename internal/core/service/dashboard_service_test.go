package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"admin_console/internal/adapters/outbound/cache"
	"admin_console/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	ordersErr error
	updateErr error
	onUpdate  func()
}

func (b *stubBackend) ListOrders(context.Context) ([]domain.Order, error) {
	if b.ordersErr != nil {
		return nil, b.ordersErr
	}
	return []domain.Order{
		{ID: 3, CustomerName: "Asha", Status: domain.StatusDelivered, Total: decimal.NewFromInt(120)},
		{ID: 7, CustomerName: "Ravi", Status: domain.StatusPending, Total: decimal.NewFromInt(349)},
	}, nil
}

func (b *stubBackend) GetAnalytics(context.Context) (domain.AnalyticsSummary, error) {
	return domain.AnalyticsSummary{TotalUsers: 42, TotalOrders: 2, PendingOrders: 1}, nil
}

func (b *stubBackend) UpdateOrderStatus(context.Context, int64, domain.OrderStatus) error {
	if b.onUpdate != nil {
		b.onUpdate()
	}
	return b.updateErr
}

type stubPublisher struct {
	mu  sync.Mutex
	got []domain.StatusChange
	err error
}

func (p *stubPublisher) Publish(_ context.Context, c domain.StatusChange) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, c)
	return p.err
}

type stubAudit struct {
	inserted  []domain.StatusChange
	lastLimit int
	err       error
}

func (a *stubAudit) Insert(_ context.Context, c domain.StatusChange) error {
	if a.err != nil {
		return a.err
	}
	a.inserted = append(a.inserted, c)
	return nil
}

func (a *stubAudit) ListByOrder(_ context.Context, orderID int64, limit int) ([]domain.StatusChange, error) {
	a.lastLimit = limit
	if a.err != nil {
		return nil, a.err
	}
	var out []domain.StatusChange
	for _, c := range a.inserted {
		if c.OrderID == orderID {
			out = append(out, c)
		}
	}
	return out, nil
}

func newTestService(b *stubBackend, p *stubPublisher, a *stubAudit) (*DashboardService, *cache.MemoryViewStore) {
	store := cache.NewMemoryViewStore(time.Hour)
	svc := NewDashboardService(b, store, nil, nil, nil)
	// Typed nils must stay out of the interfaces.
	if p != nil {
		svc.publisher = p
	}
	if a != nil {
		svc.audit = a
	}
	return svc, store
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(&stubBackend{}, nil, nil)

	sid := svc.OpenSession(ctx)
	require.NotEmpty(t, sid)
	assert.Equal(t, 1, store.Len(ctx))

	st, err := svc.Snapshot(ctx, sid)
	require.NoError(t, err)
	assert.True(t, st.Loading)

	svc.CloseSession(ctx, sid)
	_, err = svc.Snapshot(ctx, sid)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)

	_, err = svc.Mount(ctx, "")
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestMountReturnsLoadFailureAsState(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(&stubBackend{ordersErr: errors.New("down")}, nil, nil)
	sid := svc.OpenSession(ctx)

	st, err := svc.Mount(ctx, sid)
	require.NoError(t, err)
	assert.False(t, st.Loading)
	assert.NotEmpty(t, st.LoadError)
}

func TestUpdateStatusPublishesChange(t *testing.T) {
	ctx := context.Background()
	pub := &stubPublisher{}
	svc, _ := newTestService(&stubBackend{}, pub, nil)
	sid := svc.OpenSession(ctx)
	_, err := svc.Mount(ctx, sid)
	require.NoError(t, err)
	_, err = svc.ViewOrder(ctx, sid, 7)
	require.NoError(t, err)

	st, err := svc.UpdateStatus(ctx, sid, 7, "Shipped")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, st.Orders[1].Status)
	assert.Equal(t, domain.StatusDelivered, st.Orders[0].Status)
	assert.False(t, st.ModalOpen)

	require.Len(t, pub.got, 1)
	assert.Equal(t, sid, pub.got[0].SessionID)
	assert.Equal(t, domain.StatusPending, pub.got[0].From)
	assert.Equal(t, domain.StatusShipped, pub.got[0].To)
}

func TestUpdateStatusPublishFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	pub := &stubPublisher{err: errors.New("broker down")}
	svc, _ := newTestService(&stubBackend{}, pub, nil)
	sid := svc.OpenSession(ctx)
	_, _ = svc.Mount(ctx, sid)

	st, err := svc.UpdateStatus(ctx, sid, 7, "Delivered")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, st.Orders[1].Status)
}

func TestUpdateStatusBackendFailure(t *testing.T) {
	ctx := context.Background()
	pub := &stubPublisher{}
	svc, _ := newTestService(&stubBackend{updateErr: errors.New("500")}, pub, nil)
	sid := svc.OpenSession(ctx)
	_, _ = svc.Mount(ctx, sid)
	_, _ = svc.ViewOrder(ctx, sid, 7)

	st, err := svc.UpdateStatus(ctx, sid, 7, "Shipped")
	require.Error(t, err)
	assert.Equal(t, domain.StatusPending, st.Orders[1].Status)
	assert.NotEmpty(t, st.UpdateError)
	assert.True(t, st.ModalOpen)
	assert.Empty(t, pub.got)
}

func TestReloadClosesModalAndRefetches(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(&stubBackend{}, nil, nil)
	sid := svc.OpenSession(ctx)
	_, _ = svc.Mount(ctx, sid)
	_, _ = svc.ViewOrder(ctx, sid, 3)

	st, err := svc.Reload(ctx, sid)
	require.NoError(t, err)
	assert.False(t, st.ModalOpen)
	assert.Len(t, st.Orders, 2)
}

func TestIngestAndHistory(t *testing.T) {
	ctx := context.Background()
	audit := &stubAudit{}
	svc, _ := newTestService(&stubBackend{}, nil, audit)

	change := domain.StatusChange{OrderID: 7, From: domain.StatusPending, To: domain.StatusShipped, ChangedAt: time.Now()}
	require.NoError(t, svc.Ingest(ctx, change))
	assert.Error(t, svc.Ingest(ctx, domain.StatusChange{OrderID: 7, To: "Lost", ChangedAt: time.Now()}))

	got, err := svc.History(ctx, 7, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 50, audit.lastLimit)
}

func TestHistoryWithoutAuditStore(t *testing.T) {
	svc, _ := newTestService(&stubBackend{}, nil, nil)

	got, err := svc.History(context.Background(), 7, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, svc.Ingest(context.Background(), domain.StatusChange{}))
}

func TestUpdateStatusPublishesWhenSessionClosesMidRequest(t *testing.T) {
	ctx := context.Background()
	pub := &stubPublisher{}
	b := &stubBackend{}
	svc, _ := newTestService(b, pub, nil)
	sid := svc.OpenSession(ctx)
	_, err := svc.Mount(ctx, sid)
	require.NoError(t, err)
	b.onUpdate = func() { svc.CloseSession(ctx, sid) }

	_, err = svc.UpdateStatus(ctx, sid, 7, "Shipped")
	assert.ErrorIs(t, err, domain.ErrUnmounted)

	require.Len(t, pub.got, 1)
	assert.Equal(t, int64(7), pub.got[0].OrderID)
	assert.Equal(t, domain.StatusShipped, pub.got[0].To)
	assert.Equal(t, sid, pub.got[0].SessionID)
}
