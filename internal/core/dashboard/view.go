package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"admin_console/internal/core/domain"
	"admin_console/internal/ports/outbound"

	"golang.org/x/sync/errgroup"
)

const (
	LoadFailedMessage   = "Failed to fetch data. Please try again later."
	UpdateFailedMessage = "Failed to update order status."
)

// State is everything the dashboard page renders from.
type State struct {
	Loading     bool
	LoadError   string
	UpdateError string
	Orders      []domain.Order
	Analytics   *domain.AnalyticsSummary
	ModalOpen   bool
	Selected    *domain.Order
}

// Phase reports the fetch lifecycle position derived from the state.
func (s State) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseLoading
	case s.LoadError != "":
		return PhaseErrored
	default:
		return PhaseLoaded
	}
}

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseLoaded
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseErrored:
		return "errored"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// View owns the state of one dashboard page instance. All transitions go
// through mu; backend calls run with mu released.
type View struct {
	backend outbound.OrdersBackend
	log     *slog.Logger
	now     func() time.Time

	life   context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	state State
	alive bool
	gen   uint64
}

func NewView(backend outbound.OrdersBackend, log *slog.Logger) *View {
	if log == nil {
		log = slog.Default()
	}
	life, cancel := context.WithCancel(context.Background())
	return &View{
		backend: backend,
		log:     log.With(slog.String("component", "dashboard")),
		now:     time.Now,
		life:    life,
		cancel:  cancel,
		state:   State{Loading: true},
		alive:   true,
	}
}

// bind derives a context that is also cancelled when the view is unmounted.
func (v *View) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(v.life, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// Mount fetches orders and analytics concurrently; the first failure cancels
// the other request. Results that settle after Unmount, or after a newer
// Mount started, are dropped and ErrUnmounted is returned.
func (v *View) Mount(ctx context.Context) error {
	v.mu.Lock()
	if !v.alive {
		v.mu.Unlock()
		return domain.ErrUnmounted
	}
	v.gen++
	gen := v.gen
	v.state.Loading = true
	v.state.LoadError = ""
	v.mu.Unlock()

	fetchCtx, cancel := v.bind(ctx)
	defer cancel()

	var (
		orders      []domain.Order
		analytics   domain.AnalyticsSummary
		ordersOK    bool
		analyticsOK bool
	)
	g, gctx := errgroup.WithContext(fetchCtx)
	g.Go(func() error {
		o, err := v.backend.ListOrders(gctx)
		if err != nil {
			return fmt.Errorf("list orders: %w", err)
		}
		orders, ordersOK = o, true
		return nil
	})
	g.Go(func() error {
		a, err := v.backend.GetAnalytics(gctx)
		if err != nil {
			return fmt.Errorf("get analytics: %w", err)
		}
		analytics, analyticsOK = a, true
		return nil
	})
	err := g.Wait()

	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.alive || v.gen != gen {
		return domain.ErrUnmounted
	}
	// The caller went away; stay in loading so the next mount fetches again.
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}

	if ordersOK {
		if orders == nil {
			orders = []domain.Order{}
		}
		v.state.Orders = orders
	}
	if analyticsOK {
		v.state.Analytics = &analytics
	}
	v.state.Loading = false

	if err != nil {
		v.state.LoadError = LoadFailedMessage
		v.log.Warn("initial load failed", slog.Any("err", err))
		return err
	}
	v.log.Debug("loaded", slog.Int("orders", len(v.state.Orders)))
	return nil
}

// ViewOrder opens the modal on a copy of the order with the given id.
func (v *View) ViewOrder(orderID int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.alive {
		return domain.ErrUnmounted
	}
	for _, o := range v.state.Orders {
		if o.ID == orderID {
			sel := o
			v.state.Selected = &sel
			v.state.ModalOpen = true
			v.state.UpdateError = ""
			return nil
		}
	}
	return fmt.Errorf("order %d: %w", orderID, domain.ErrNotFound)
}

func (v *View) CloseModal() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closeModalLocked()
}

func (v *View) closeModalLocked() {
	v.state.ModalOpen = false
	v.state.Selected = nil
	v.state.UpdateError = ""
}

// UpdateStatus writes the new status to the backend and, only once the
// backend acknowledged it, merges it into the local list and closes the
// modal. On failure the list is untouched and UpdateError is set. An
// acknowledged change is returned even when the view was unmounted while
// the request was in flight, together with ErrUnmounted.
func (v *View) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (domain.StatusChange, error) {
	v.mu.Lock()
	if !v.alive {
		v.mu.Unlock()
		return domain.StatusChange{}, domain.ErrUnmounted
	}
	if !status.Valid() {
		v.state.UpdateError = UpdateFailedMessage
		v.mu.Unlock()
		return domain.StatusChange{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	var from domain.OrderStatus
	for _, o := range v.state.Orders {
		if o.ID == orderID {
			from = o.Status
			break
		}
	}
	v.mu.Unlock()

	opCtx, cancel := v.bind(ctx)
	defer cancel()
	err := v.backend.UpdateOrderStatus(opCtx, orderID, status)

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil && !v.alive {
		return domain.StatusChange{}, domain.ErrUnmounted
	}
	if err != nil {
		v.state.UpdateError = UpdateFailedMessage
		v.log.Warn("status update failed",
			slog.Int64("order_id", orderID),
			slog.String("status", string(status)),
			slog.Any("err", err),
		)
		return domain.StatusChange{}, fmt.Errorf("update order %d: %w", orderID, err)
	}

	change := domain.StatusChange{
		OrderID:   orderID,
		From:      from,
		To:        status,
		ChangedAt: v.now().UTC(),
	}
	// The backend applied the change even if nobody is looking any more.
	if !v.alive {
		return change, domain.ErrUnmounted
	}

	for i := range v.state.Orders {
		if v.state.Orders[i].ID == orderID {
			v.state.Orders[i].Status = status
		}
	}
	v.closeModalLocked()
	return change, nil
}

// Unmount cancels in-flight requests. Later transitions are rejected.
func (v *View) Unmount() {
	v.mu.Lock()
	v.alive = false
	v.mu.Unlock()
	v.cancel()
}

func (v *View) Mounted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.alive
}

// Snapshot returns a deep copy that is safe to render without the lock.
func (v *View) Snapshot() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := v.state
	if v.state.Orders != nil {
		s.Orders = make([]domain.Order, len(v.state.Orders))
		copy(s.Orders, v.state.Orders)
	}
	if v.state.Analytics != nil {
		a := *v.state.Analytics
		s.Analytics = &a
	}
	if v.state.Selected != nil {
		sel := *v.state.Selected
		s.Selected = &sel
	}
	return s
}

// IsUnmounted reports whether err means the view was gone before the
// operation settled.
func IsUnmounted(err error) bool {
	return errors.Is(err, domain.ErrUnmounted)
}
