// Package events announces order changes on NATS so that staff screens
// watching the orders table learn about them without polling.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"parkorder/pkg/logger"
	"parkorder/pkg/order"
)

// DefaultSubject is the subject prefix order events are published under.
// Events go to "<subject>.<type>", e.g. "orders.created".
const DefaultSubject = "orders"

// Type names the change that happened to an order.
type Type string

const (
	Created Type = "created"
	Updated Type = "updated"
	Deleted Type = "deleted"
)

// Event is the JSON payload published for a change. Order is the order
// after the change; for deletions only its ID is set.
type Event struct {
	Type  Type        `json:"type"`
	Order order.Order `json:"order"`
	At    time.Time   `json:"at"`
}

// Publisher sends raw messages. *nats.Conn satisfies it.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Connect dials the NATS server at url.
func Connect(url, name string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return nc, nil
}

// Repository wraps an order.Repository and publishes an Event after every
// successful write. The store stays authoritative: a failed publish is
// logged and does not fail the write.
type Repository struct {
	order.Repository
	pub     Publisher
	subject string
	log     *logger.Logger
	now     func() time.Time
}

// New wraps repo. An empty subject uses DefaultSubject.
func New(repo order.Repository, pub Publisher, subject string, log *logger.Logger) *Repository {
	if subject == "" {
		subject = DefaultSubject
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Repository{Repository: repo, pub: pub, subject: subject, log: log, now: time.Now}
}

// Create stores o and publishes a created event.
func (r *Repository) Create(ctx context.Context, o order.Order) error {
	if err := r.Repository.Create(ctx, o); err != nil {
		return err
	}
	r.publish(ctx, Created, o)
	return nil
}

// UpdateStatus changes the status and publishes the updated order.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	if err := r.Repository.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	o, err := r.Repository.Get(ctx, id)
	if err != nil {
		r.log.Warn(ctx, "reload updated order", "order_id", id, "error", err)
		o = order.Order{ID: id, Status: status}
	}
	r.publish(ctx, Updated, o)
	return nil
}

// Delete removes the order and publishes a deleted event.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.Repository.Delete(ctx, id); err != nil {
		return err
	}
	r.publish(ctx, Deleted, order.Order{ID: id})
	return nil
}

func (r *Repository) publish(ctx context.Context, t Type, o order.Order) {
	data, err := json.Marshal(Event{Type: t, Order: o, At: r.now().UTC()})
	if err != nil {
		r.log.Error(ctx, "encode order event", "order_id", o.ID, "error", err)
		return
	}
	subject := r.subject + "." + string(t)
	if err := r.pub.Publish(subject, data); err != nil {
		r.log.Error(ctx, "publish order event", "subject", subject, "order_id", o.ID, "error", err)
	}
}
