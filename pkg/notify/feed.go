// Package notify queues the short confirmations and errors a guest sees
// while ordering, until the client fetches them.
package notify

import (
	"sync"
	"time"
)

// Level is the kind of notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// DefaultCapacity bounds a feed when no capacity is given.
const DefaultCapacity = 32

// Notification is one message for the guest.
type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Feed is a bounded queue of notifications. When full, the oldest entry is
// dropped.
type Feed struct {
	mu    sync.Mutex
	queue []Notification
	cap   int
	now   func() time.Time
}

// NewFeed returns a Feed holding at most capacity notifications.
func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{cap: capacity, now: time.Now}
}

// NotifySuccess queues a success message.
func (f *Feed) NotifySuccess(msg string) { f.push(LevelSuccess, msg) }

// NotifyError queues an error message.
func (f *Feed) NotifyError(msg string) { f.push(LevelError, msg) }

// NotifyInfo queues an informational message.
func (f *Feed) NotifyInfo(msg string) { f.push(LevelInfo, msg) }

func (f *Feed) push(level Level, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == f.cap {
		f.queue = f.queue[1:]
	}
	f.queue = append(f.queue, Notification{Level: level, Message: msg, At: f.now()})
}

// Drain returns the queued notifications, oldest first, and empties the feed.
func (f *Feed) Drain() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.queue
	f.queue = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

// Len returns the number of queued notifications.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}
