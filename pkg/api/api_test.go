package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkorder/pkg/checkout"
	"parkorder/pkg/menu"
	"parkorder/pkg/notify"
	"parkorder/pkg/order"
	"parkorder/pkg/order/memory"
	"parkorder/pkg/session"
)

// switchableCreator forwards to the order service unless told to fail.
type switchableCreator struct {
	svc  *order.Service
	fail atomic.Bool
}

func (c *switchableCreator) CreateOrder(ctx context.Context, rec order.Record) (string, error) {
	if c.fail.Load() {
		return "", errors.New("orders table unavailable")
	}
	return c.svc.CreateOrder(ctx, rec)
}

type testEnv struct {
	handler http.Handler
	orders  *order.Service
	creator *switchableCreator
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	svc := order.NewService(memory.New())
	creator := &switchableCreator{svc: svc}
	reg := session.NewRegistry(creator, checkout.WithGracePeriod(20*time.Millisecond))
	srv := New(Deps{
		Menu:     menu.Default(),
		Orders:   svc,
		Sessions: session.NewMemoryStore(time.Hour),
		Registry: reg,
		Admins:   map[string]string{"manager": "s3cret"},
	})
	return &testEnv{handler: srv.Routes(), orders: svc, creator: creator}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()
	return e.loginAs(t, "guest", "")
}

func (e *testEnv) loginAs(t *testing.T, user, password string) *http.Cookie {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/login", loginRequest{Username: user, Password: password}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

type cartResponse struct {
	Lines []struct {
		ItemID    string `json:"itemId"`
		Quantity  int    `json:"quantity"`
		UnitPrice int64  `json:"unitPrice"`
		LineTotal int64  `json:"lineTotal"`
	} `json:"lines"`
	TableNumber    string `json:"tableNumber"`
	CustomerName   string `json:"customerName"`
	TotalItems     int    `json:"totalItems"`
	TotalPrice     int64  `json:"totalPrice"`
	FormattedTotal string `json:"formattedTotal"`
	State          string `json:"state"`
}

func TestMenu(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodGet, "/menu?category=snacks", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeBody[[]menuItemView](t, rec)
	assert.Len(t, items, 4)

	rec = e.do(t, http.MethodGet, "/menu/grilled-tilapia", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	item := decodeBody[menuItemView](t, rec)
	assert.Equal(t, "8,500 RWF", item.FormattedPrice)

	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/menu/lobster", nil, nil).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodGet, "/menu?category=wine", nil, nil).Code)
}

func TestCartRequiresSession(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodGet, "/cart", nil, nil).Code)
	assert.Equal(t, http.StatusUnauthorized,
		e.do(t, http.MethodGet, "/cart", nil, &http.Cookie{Name: sessionCookie, Value: "forged"}).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodPost, "/login", map[string]string{}, nil).Code)
}

func TestCartLifecycle(t *testing.T) {
	e := newEnv(t)
	cookie := e.login(t)

	e.do(t, http.MethodPost, "/cart/items", addItemRequest{ItemID: "coca-cola"}, cookie)
	e.do(t, http.MethodPost, "/cart/items", addItemRequest{ItemID: "mojito"}, cookie)
	rec := e.do(t, http.MethodPost, "/cart/items", addItemRequest{ItemID: "mojito"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	c := decodeBody[cartResponse](t, rec)
	assert.Equal(t, 3, c.TotalItems)
	assert.Equal(t, int64(9800), c.TotalPrice)
	assert.Equal(t, "9,800 RWF", c.FormattedTotal)
	assert.Equal(t, "idle", c.State)
	require.Len(t, c.Lines, 2)
	assert.Equal(t, int64(9000), c.Lines[1].LineTotal)

	notes := decodeBody[[]notify.Notification](t, e.do(t, http.MethodGet, "/notifications", nil, cookie))
	require.Len(t, notes, 3)
	assert.Equal(t, "Classic Mojito added to order", notes[2].Message)

	rec = e.do(t, http.MethodPut, "/cart/items/mojito", map[string]int{"quantity": 5}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(800+5*4500), decodeBody[cartResponse](t, rec).TotalPrice)

	rec = e.do(t, http.MethodPut, "/cart/items/coca-cola", map[string]int{"quantity": 0}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[cartResponse](t, rec).Lines, 1)

	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodPut, "/cart/items/coca-cola", map[string]int{"quantity": 2}, cookie).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodPut, "/cart/items/mojito", map[string]string{}, cookie).Code)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodPost, "/cart/items", addItemRequest{ItemID: "lobster"}, cookie).Code)

	rec = e.do(t, http.MethodDelete, "/cart/items/mojito", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decodeBody[cartResponse](t, rec).TotalItems)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodDelete, "/cart/items/mojito", nil, cookie).Code)

	e.do(t, http.MethodPost, "/cart/items", addItemRequest{ItemID: "popcorn"}, cookie)
	e.do(t, http.MethodPut, "/cart/details", map[string]string{"tableNumber": "4"}, cookie)
	rec = e.do(t, http.MethodDelete, "/cart", nil, cookie)
	c = decodeBody[cartResponse](t, rec)
	assert.Empty(t, c.Lines)
	assert.Equal(t, "4", c.TableNumber)
}

func TestSubmit(t *testing.T) {
	e := newEnv(t)
	cookie := e.login(t)

	rec := e.do(t, http.MethodPost, "/cart/submit", nil, cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "tableNumber", decodeBody[errorResponse](t, rec).Field)

	e.do(t, http.MethodPut, "/cart/details", map[string]string{"tableNumber": "12"}, cookie)
	rec = e.do(t, http.MethodPost, "/cart/submit", nil, cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "items", decodeBody[errorResponse](t, rec).Field)

	e.do(t, http.MethodPost, "/cart/items", addItemRequest{ItemID: "coca-cola"}, cookie)
	e.do(t, http.MethodPost, "/cart/items", addItemRequest{ItemID: "mojito"}, cookie)
	e.do(t, http.MethodPost, "/cart/items", addItemRequest{ItemID: "mojito"}, cookie)
	e.do(t, http.MethodPut, "/cart/details", map[string]string{"customerName": "Aline"}, cookie)

	e.creator.fail.Store(true)
	rec = e.do(t, http.MethodPost, "/cart/submit", nil, cookie)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	c := decodeBody[cartResponse](t, e.do(t, http.MethodGet, "/cart", nil, cookie))
	assert.Equal(t, int64(9800), c.TotalPrice)
	assert.Equal(t, "idle", c.State)

	e.creator.fail.Store(false)
	rec = e.do(t, http.MethodPost, "/cart/submit", nil, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeBody[submitResponse](t, rec)
	require.NotEmpty(t, resp.OrderID)

	o, err := e.orders.Get(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "12", o.TableNumber)
	require.NotNil(t, o.CustomerName)
	assert.Equal(t, "Aline", *o.CustomerName)
	assert.Equal(t, int64(9800), o.TotalAmount)
	assert.Equal(t, order.StatusPending, o.Status)

	require.Eventually(t, func() bool {
		c := decodeBody[cartResponse](t, e.do(t, http.MethodGet, "/cart", nil, cookie))
		return c.State == "idle" && c.TotalItems == 0 && c.TableNumber == "" && c.CustomerName == ""
	}, time.Second, 5*time.Millisecond)
}

func TestOrdersAdmin(t *testing.T) {
	e := newEnv(t)
	cookie := e.loginAs(t, "manager", "s3cret")
	id, err := e.orders.CreateOrder(context.Background(), order.Record{
		TableNumber: "8",
		Items:       []order.Item{{ID: "primus", Name: "Primus", Quantity: 2, Price: 1200}},
		TotalAmount: 2400,
	})
	require.NoError(t, err)

	rec := e.do(t, http.MethodGet, "/orders", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]order.Order](t, rec), 1)

	rec = e.do(t, http.MethodPut, "/orders/"+id+"/status", statusRequest{Status: order.StatusConfirmed}, cookie)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = e.do(t, http.MethodGet, "/orders/"+id, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, order.StatusConfirmed, decodeBody[order.Order](t, rec).Status)

	assert.Equal(t, http.StatusBadRequest,
		e.do(t, http.MethodPut, "/orders/"+id+"/status", statusRequest{Status: "served"}, cookie).Code)
	assert.Equal(t, http.StatusNotFound,
		e.do(t, http.MethodPut, "/orders/missing/status", statusRequest{Status: order.StatusCancelled}, cookie).Code)

	assert.Equal(t, http.StatusNoContent, e.do(t, http.MethodDelete, "/orders/"+id, nil, cookie).Code)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/orders/"+id, nil, cookie).Code)
}

func TestOrdersAreStaffOnly(t *testing.T) {
	e := newEnv(t)
	id, err := e.orders.CreateOrder(context.Background(), order.Record{
		TableNumber: "8",
		Items:       []order.Item{{ID: "primus", Name: "Primus", Quantity: 1, Price: 1200}},
		TotalAmount: 1200,
	})
	require.NoError(t, err)
	guest := e.login(t)

	assert.Equal(t, http.StatusForbidden, e.do(t, http.MethodGet, "/orders", nil, guest).Code)
	assert.Equal(t, http.StatusForbidden, e.do(t, http.MethodGet, "/orders/"+id, nil, guest).Code)
	assert.Equal(t, http.StatusForbidden,
		e.do(t, http.MethodPut, "/orders/"+id+"/status", statusRequest{Status: order.StatusCancelled}, guest).Code)
	assert.Equal(t, http.StatusForbidden, e.do(t, http.MethodDelete, "/orders/"+id, nil, guest).Code)
	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodGet, "/orders", nil, nil).Code)

	o, err := e.orders.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, o.Status)

	assert.Equal(t, http.StatusUnauthorized,
		e.do(t, http.MethodPost, "/login", loginRequest{Username: "manager", Password: "guess"}, nil).Code)
	assert.Equal(t, http.StatusUnauthorized,
		e.do(t, http.MethodPost, "/login", loginRequest{Username: "manager"}, nil).Code)

	rec := e.do(t, http.MethodPost, "/login", loginRequest{Username: "manager", Password: "s3cret"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[loginResponse](t, rec).Admin)
}

func TestLogout(t *testing.T) {
	e := newEnv(t)
	cookie := e.login(t)
	e.do(t, http.MethodPost, "/cart/items", addItemRequest{ItemID: "skol"}, cookie)

	assert.Equal(t, http.StatusNoContent, e.do(t, http.MethodPost, "/logout", nil, cookie).Code)
	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodGet, "/cart", nil, cookie).Code)
}
