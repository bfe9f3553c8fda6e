package order

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Item is one ordered line as stored with the order.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// Record is the payload submitted for a new table order.
type Record struct {
	TableNumber  string  `json:"table_number"`
	CustomerName *string `json:"customer_name"`
	Items        []Item  `json:"items"`
	TotalAmount  int64   `json:"total_amount"`
}

// Status tracks an order through the waiters' dashboard.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order represents a table order placed from the menu.
type Order struct {
	ID string `json:"id"`
	Record
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository defines behavior for persisting orders.
type Repository interface {
	Create(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, error)
	List(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
}

// ErrNotFound indicates the requested order does not exist.
var ErrNotFound = errors.New("order not found")

// ErrInvalidStatus is returned when a status outside the known set is requested.
var ErrInvalidStatus = errors.New("invalid order status")

func invalidStatus(s Status) error {
	return fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}
