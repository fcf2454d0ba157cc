package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"admin_console/internal/core/domain"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	orders      string
	analytics   string
	patchStatus int

	gotPatchID   string
	gotPatchBody map[string]string
}

func (f *fakeAPI) server(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/orders", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, f.orders)
	})
	r.Get("/analytics", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, f.analytics)
	})
	r.Patch("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.gotPatchID = chi.URLParam(r, "id")
		_ = json.NewDecoder(r.Body).Decode(&f.gotPatchBody)
		w.WriteHeader(f.patchStatus)
		_, _ = io.WriteString(w, `{"ok":true}`)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(srv.URL+"/", time.Second)
	require.NoError(t, err)
	return c
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient("localhost:8000", 0)
	assert.Error(t, err)

	c, err := NewClient(" http://localhost:8000/ ", 0)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", c.baseURL)
}

func TestListOrders(t *testing.T) {
	api := &fakeAPI{orders: `[
		{"id":7,"customerName":"Ravi","date":"2 Apr 2025","status":"Pending","total":349.5},
		{"id":9,"customerName":"Meera","date":"3 Apr 2025","status":"Shipped","total":"80"}
	]`}
	c := newTestClient(t, api.server(t))

	orders, err := c.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, int64(7), orders[0].ID)
	assert.Equal(t, "Ravi", orders[0].CustomerName)
	assert.Equal(t, "2 Apr 2025", orders[0].Date)
	assert.Equal(t, domain.StatusPending, orders[0].Status)
	assert.Equal(t, "349.5", orders[0].Total.String())
	assert.Equal(t, "80", orders[1].Total.String())
}

func TestGetAnalytics(t *testing.T) {
	api := &fakeAPI{analytics: `{"totalUsers":42,"totalOrders":3,"revenue":549.5,"pendingOrders":1}`}
	c := newTestClient(t, api.server(t))

	a, err := c.GetAnalytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), a.TotalUsers)
	assert.Equal(t, int64(3), a.TotalOrders)
	assert.Equal(t, "549.5", a.Revenue.String())
	assert.Equal(t, int64(1), a.PendingOrders)
}

func TestUpdateOrderStatus(t *testing.T) {
	api := &fakeAPI{patchStatus: http.StatusOK}
	c := newTestClient(t, api.server(t))

	require.NoError(t, c.UpdateOrderStatus(context.Background(), 7, domain.StatusShipped))
	assert.Equal(t, "7", api.gotPatchID)
	assert.Equal(t, map[string]string{"status": "Shipped"}, api.gotPatchBody)
}

func TestUpdateOrderStatusNon2xx(t *testing.T) {
	api := &fakeAPI{patchStatus: http.StatusConflict}
	c := newTestClient(t, api.server(t))

	err := c.UpdateOrderStatus(context.Background(), 7, domain.StatusShipped)
	var se *StatusError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, http.StatusConflict, se.Code)
	assert.Equal(t, http.MethodPatch, se.Method)
	assert.Equal(t, "/orders/7", se.Path)
}

func TestNotFoundRoute(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)
	c := newTestClient(t, srv)

	_, err := c.GetAnalytics(context.Background())
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
}

func TestDecodeError(t *testing.T) {
	api := &fakeAPI{orders: `{not json`}
	c := newTestClient(t, api.server(t))

	_, err := c.ListOrders(context.Background())
	assert.Error(t, err)
}

func TestContextCancelled(t *testing.T) {
	api := &fakeAPI{orders: `[]`}
	c := newTestClient(t, api.server(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ListOrders(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
