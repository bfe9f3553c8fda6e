package order

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Service is the order-taking side of the store: it turns submitted records
// into pending orders and lets staff move them through their statuses.
type Service struct {
	repo Repository
	now  func() time.Time
	id   func() string
}

// NewService returns a Service backed by repo.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
		id:   func() string { return uuid.NewString() },
	}
}

// CreateOrder stores rec as a new pending order and returns its id.
func (s *Service) CreateOrder(ctx context.Context, rec Record) (string, error) {
	o := Order{
		ID:        s.id(),
		Record:    rec,
		Status:    StatusPending,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return "", err
	}
	return o.ID, nil
}

// Get returns a single order.
func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	return s.repo.Get(ctx, id)
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(orders)
	return orders, nil
}

// SetStatus moves an order to status.
func (s *Service) SetStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return invalidStatus(status)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// Delete removes an order.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func sortNewestFirst(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
