package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkorder/pkg/cart"
	"parkorder/pkg/checkout"
	"parkorder/pkg/order"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)

	id, err := s.Create(ctx, "table-guest")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	user, err := s.User(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "table-guest", user)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.User(ctx, id)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	id, err := s.Create(ctx, "guest")
	require.NoError(t, err)

	now = now.Add(59 * time.Second)
	_, err = s.User(ctx, id)
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = s.User(ctx, id)
	assert.ErrorIs(t, err, ErrNoSession)
}

type okCreator struct{}

func (okCreator) CreateOrder(context.Context, order.Record) (string, error) {
	return "o1", nil
}

func TestRegistryKeepsOneCartPerSession(t *testing.T) {
	r := NewRegistry(okCreator{})

	a := r.Get("a", "alice")
	a.Cart.AddItem(cart.Item{ID: "primus", Name: "Primus", Price: 1200})

	assert.Same(t, a, r.Get("a", "alice"))
	b := r.Get("b", "bob")
	assert.NotSame(t, a.Cart, b.Cart)
	assert.Zero(t, b.Cart.Len())
	assert.Equal(t, 2, r.Len())

	r.Remove("a")
	assert.Equal(t, 1, r.Len())
	assert.Zero(t, r.Get("a", "alice").Cart.Len())
}

func TestRegistryWiresFeedAsNotifier(t *testing.T) {
	r := NewRegistry(okCreator{})
	s := r.Get("a", "alice")

	_, err := s.Checkout.Submit(context.Background())
	require.Error(t, err)

	got := s.Feed.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, "Please enter your table number", got[0].Message)
}

func TestRegistrySweepDropsExpiredSessions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	r := NewRegistry(okCreator{})

	for i := 0; i < 50; i++ {
		id, err := store.Create(ctx, "guest")
		require.NoError(t, err)
		r.Get(id, "guest").Cart.AddItem(cart.Item{ID: "primus", Name: "Primus", Price: 1200})
	}
	now = now.Add(30 * time.Second)
	fresh, err := store.Create(ctx, "late")
	require.NoError(t, err)
	r.Get(fresh, "late")
	require.Equal(t, 51, r.Len())

	n, err := r.Sweep(ctx, store)
	require.NoError(t, err)
	assert.Zero(t, n)

	now = now.Add(45 * time.Second)
	n, err = r.Sweep(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 50, n)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, "late", r.Get(fresh, "late").User)
}

type brokenStore struct{ *MemoryStore }

func (brokenStore) User(context.Context, string) (string, error) {
	return "", errors.New("redis: connection refused")
}

func TestRegistrySweepKeepsSessionsOnLookupError(t *testing.T) {
	r := NewRegistry(okCreator{})
	r.Get("a", "alice")

	n, err := r.Sweep(context.Background(), brokenStore{NewMemoryStore(time.Hour)})
	assert.Error(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryRunSweeps(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := NewMemoryStore(time.Millisecond)
	r := NewRegistry(okCreator{})
	id, err := store.Create(ctx, "guest")
	require.NoError(t, err)
	r.Get(id, "guest")

	go r.Run(ctx, store, 5*time.Millisecond, nil)

	require.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestRegistryCloseSettlesGraceWindow(t *testing.T) {
	r := NewRegistry(okCreator{}, checkout.WithGracePeriod(time.Hour))
	s := r.Get("a", "alice")
	s.Cart.SetTableNumber("5")
	s.Cart.AddItem(cart.Item{ID: "primus", Name: "Primus", Price: 1200})

	_, err := s.Checkout.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, checkout.StateSucceeded, s.Checkout.State())

	r.Close()

	assert.Equal(t, checkout.StateIdle, s.Checkout.State())
	assert.Zero(t, s.Cart.Len())
	assert.Empty(t, s.Cart.TableNumber())
	assert.Zero(t, r.Len())
}
