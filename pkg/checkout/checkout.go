// Package checkout sends a session's cart to the order service.
//
// A Workflow moves through Idle, Submitting and then Succeeded or Failed.
// Failed returns to Idle at once so the guest can retry with the same cart.
// Succeeded keeps the confirmation up for a grace period, then takes the
// submitted lines out of the cart and returns to Idle. Submit is refused
// whenever the workflow is not Idle.
package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"parkorder/pkg/cart"
	"parkorder/pkg/logger"
	"parkorder/pkg/order"
	"parkorder/pkg/otel"
)

const (
	// DefaultSubmitTimeout bounds the order service call when WithSubmitTimeout
	// is not given.
	DefaultSubmitTimeout = 10 * time.Second
	// DefaultGracePeriod is how long a success stays on screen before the
	// cart is reset.
	DefaultGracePeriod = 3 * time.Second
)

// Creator places an order and returns its id.
type Creator interface {
	CreateOrder(ctx context.Context, rec order.Record) (string, error)
}

// Notifier shows the guest the outcome of an action.
type Notifier interface {
	NotifySuccess(msg string)
	NotifyError(msg string)
}

// State is the workflow's position in the submission lifecycle.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText renders the state name in JSON payloads.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name as written by MarshalText.
func (s *State) UnmarshalText(b []byte) error {
	for _, v := range []State{StateIdle, StateSubmitting, StateSucceeded, StateFailed} {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("checkout: unknown state %q", b)
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithSubmitTimeout bounds how long Submit waits for the order service.
func WithSubmitTimeout(d time.Duration) Option {
	return func(w *Workflow) { w.timeout = d }
}

// WithGracePeriod sets how long a success stays on screen before the cart is
// reset.
func WithGracePeriod(d time.Duration) Option {
	return func(w *Workflow) { w.grace = d }
}

// WithNotifier sets where success and failure messages go.
func WithNotifier(n Notifier) Option {
	return func(w *Workflow) { w.notifier = n }
}

// WithLogger sets the workflow logger.
func WithLogger(l *logger.Logger) Option {
	return func(w *Workflow) { w.log = l }
}

// OnReset registers fn to run after the post-success reset, typically to
// close the order screen.
func OnReset(fn func()) Option {
	return func(w *Workflow) { w.onReset = fn }
}

// OnTransition registers fn to observe every state change. fn runs outside
// the workflow lock.
func OnTransition(fn func(from, to State)) Option {
	return func(w *Workflow) { w.onTransition = fn }
}

// Workflow submits one cart. It is owned by a single ordering session.
type Workflow struct {
	cart         *cart.Cart
	creator      Creator
	notifier     Notifier
	log          *logger.Logger
	timeout      time.Duration
	grace        time.Duration
	onReset      func()
	onTransition func(from, to State)

	mu        sync.Mutex
	state     State
	submitted *cart.Snapshot
	timer     *time.Timer
	lastID    string
}

// New returns an idle Workflow for c.
func New(c *cart.Cart, creator Creator, opts ...Option) *Workflow {
	w := &Workflow{
		cart:     c,
		creator:  creator,
		notifier: nopNotifier{},
		log:      logger.Nop(),
		timeout:  DefaultSubmitTimeout,
		grace:    DefaultGracePeriod,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State returns the current state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// LastOrderID returns the id of the most recent successful order.
func (w *Workflow) LastOrderID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastID
}

// Submit validates the cart and places it as an order. Validation failures
// return a *ValidationError without contacting the order service. A failed
// or timed out call returns a *SubmissionError and leaves the cart untouched.
func (w *Workflow) Submit(ctx context.Context) (string, error) {
	w.mu.Lock()
	if w.state != StateIdle {
		w.mu.Unlock()
		return "", ErrBusy
	}
	snap := w.cart.Snapshot()
	if verr := validate(snap); verr != nil {
		w.mu.Unlock()
		w.notifier.NotifyError(verr.Message)
		return "", verr
	}
	w.state = StateSubmitting
	w.mu.Unlock()
	w.fire(StateIdle, StateSubmitting)

	rec := buildRecord(snap)
	id, err := w.create(ctx, rec)
	if err != nil {
		w.mu.Lock()
		w.state = StateIdle
		w.mu.Unlock()
		w.fire(StateSubmitting, StateFailed)
		w.fire(StateFailed, StateIdle)

		w.log.Error(ctx, "submit order", "table", rec.TableNumber, "items", snap.ItemCount(), "error", err)
		w.notifier.NotifyError("Failed to submit order. Please try again or call a waiter.")
		return "", &SubmissionError{Err: err}
	}

	w.mu.Lock()
	w.state = StateSucceeded
	w.lastID = id
	w.submitted = &snap
	w.timer = time.AfterFunc(w.grace, w.settle)
	w.mu.Unlock()
	w.fire(StateSubmitting, StateSucceeded)

	w.log.Info(ctx, "order submitted", "order_id", id, "table", rec.TableNumber, "total", rec.TotalAmount)
	w.notifier.NotifySuccess(fmt.Sprintf("Order sent to waiter! Table %s - Your order will be prepared shortly.", rec.TableNumber))
	return id, nil
}

// Close ends a pending grace period early, resetting the cart now.
func (w *Workflow) Close() {
	w.mu.Lock()
	t := w.timer
	w.mu.Unlock()
	if t != nil && t.Stop() {
		w.settle()
	}
}

func (w *Workflow) create(ctx context.Context, rec order.Record) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	ctx, span := otel.AddSpan(ctx, "checkout.createOrder",
		attribute.String("table_number", rec.TableNumber),
		attribute.Int("lines", len(rec.Items)),
		attribute.Int64("total_amount", rec.TotalAmount),
	)
	defer span.End()

	type result struct {
		id  string
		err error
	}
	done := make(chan result, 1)
	go func() {
		id, err := w.creator.CreateOrder(ctx, rec)
		done <- result{id: id, err: err}
	}()

	var r result
	select {
	case r = <-done:
	case <-ctx.Done():
		select {
		case r = <-done:
		default:
			r = result{err: ctx.Err()}
		}
	}
	if r.err != nil {
		span.RecordError(r.err)
		span.SetStatus(codes.Error, r.err.Error())
	}
	return r.id, r.err
}

func (w *Workflow) settle() {
	w.mu.Lock()
	snap := w.submitted
	if w.state != StateSucceeded || snap == nil {
		w.mu.Unlock()
		return
	}
	w.submitted = nil
	w.timer = nil
	w.cart.Settle(*snap)
	w.state = StateIdle
	w.mu.Unlock()

	w.fire(StateSucceeded, StateIdle)
	if w.onReset != nil {
		w.onReset()
	}
}

func (w *Workflow) fire(from, to State) {
	if w.onTransition != nil {
		w.onTransition(from, to)
	}
}

func validate(s cart.Snapshot) *ValidationError {
	if strings.TrimSpace(s.TableNumber) == "" {
		return &ValidationError{Field: FieldTableNumber, Message: "Please enter your table number"}
	}
	if len(s.Lines) == 0 {
		return &ValidationError{Field: FieldItems, Message: "Your cart is empty"}
	}
	return nil
}

func buildRecord(s cart.Snapshot) order.Record {
	rec := order.Record{
		TableNumber: strings.TrimSpace(s.TableNumber),
		Items:       make([]order.Item, 0, len(s.Lines)),
		TotalAmount: s.TotalPrice,
	}
	if name := strings.TrimSpace(s.CustomerName); name != "" {
		rec.CustomerName = &name
	}
	for _, l := range s.Lines {
		rec.Items = append(rec.Items, order.Item{
			ID:       l.ItemID,
			Name:     l.Name,
			Quantity: l.Quantity,
			Price:    l.UnitPrice,
		})
	}
	return rec
}

type nopNotifier struct{}

func (nopNotifier) NotifySuccess(string) {}
func (nopNotifier) NotifyError(string)   {}
