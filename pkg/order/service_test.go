package order_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkorder/pkg/order"
	"parkorder/pkg/order/memory"
)

func record(table string) order.Record {
	return order.Record{
		TableNumber: table,
		Items: []order.Item{
			{ID: "coca-cola", Name: "Coca-Cola", Quantity: 1, Price: 800},
			{ID: "mojito", Name: "Classic Mojito", Quantity: 2, Price: 4500},
		},
		TotalAmount: 9800,
	}
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()
	svc := order.NewService(memory.New())

	id, err := svc.CreateOrder(ctx, record("12"))
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err, "order id should be a uuid")

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, got.Status)
	assert.Equal(t, "12", got.TableNumber)
	assert.Nil(t, got.CustomerName)
	assert.Equal(t, int64(9800), got.TotalAmount)
	assert.Len(t, got.Items, 2)
	assert.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := order.NewService(memory.New())

	first, err := svc.CreateOrder(ctx, record("1"))
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := svc.CreateOrder(ctx, record("2"))
	require.NoError(t, err)

	orders, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second, orders[0].ID)
	assert.Equal(t, first, orders[1].ID)
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()
	svc := order.NewService(memory.New())
	id, err := svc.CreateOrder(ctx, record("5"))
	require.NoError(t, err)

	require.NoError(t, svc.SetStatus(ctx, id, order.StatusCompleted))
	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, got.Status)

	err = svc.SetStatus(ctx, id, "served")
	assert.True(t, errors.Is(err, order.ErrInvalidStatus))

	err = svc.SetStatus(ctx, "missing", order.StatusCancelled)
	assert.ErrorIs(t, err, order.ErrNotFound)
}

type failingRepo struct {
	order.Repository
}

func (failingRepo) Create(context.Context, order.Order) error {
	return errors.New("connection refused")
}

func TestCreateOrderError(t *testing.T) {
	svc := order.NewService(failingRepo{})
	id, err := svc.CreateOrder(context.Background(), record("9"))
	assert.Error(t, err)
	assert.Empty(t, id)
}

func TestStatusValid(t *testing.T) {
	for _, s := range []order.Status{order.StatusPending, order.StatusConfirmed, order.StatusCompleted, order.StatusCancelled} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, order.Status("").Valid())
	assert.False(t, order.Status("PENDING").Valid())
}
