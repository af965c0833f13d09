// Package notify carries short user-facing messages out of the task
// operations to whichever surface is presenting them.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notice.
type Kind string

const (
	KindSuccess    Kind = "success"
	KindFailure    Kind = "failure"
	KindValidation Kind = "validation"
	KindDuplicate  Kind = "duplicate"
	KindInfo       Kind = "info"
)

// Notice is one user-facing message.
type Notice struct {
	ID      string    `json:"id"`
	Kind    Kind      `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier receives notices.
type Notifier interface {
	Notify(kind Kind, message string)
}

// NewNotice stamps a notice with a fresh ID and the current time.
func NewNotice(kind Kind, message string) Notice {
	return Notice{
		ID:      uuid.New().String(),
		Kind:    kind,
		Message: message,
		At:      time.Now(),
	}
}

// WriterNotifier prints each notice message as a line.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterNotifier creates a notifier writing to w.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Notify(kind Kind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.w, message)
}

// Feed buffers notices until they are drained.
type Feed struct {
	mu      sync.Mutex
	notices []Notice
	limit   int
}

// NewFeed creates a feed that keeps at most limit undrained notices.
// A limit of zero or less keeps everything.
func NewFeed(limit int) *Feed {
	return &Feed{limit: limit}
}

func (f *Feed) Notify(kind Kind, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.notices = append(f.notices, NewNotice(kind, message))
	if f.limit > 0 && len(f.notices) > f.limit {
		f.notices = f.notices[len(f.notices)-f.limit:]
	}
}

// List returns the buffered notices without removing them.
func (f *Feed) List() []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Notice, len(f.notices))
	copy(out, f.notices)
	return out
}

// Drain returns the buffered notices and empties the feed.
func (f *Feed) Drain() []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := f.notices
	f.notices = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}

// Messages returns the message text of the buffered notices.
func (f *Feed) Messages() []string {
	notices := f.List()
	out := make([]string, len(notices))
	for i, n := range notices {
		out[i] = n.Message
	}
	return out
}

// Multi fans a notice out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(kind Kind, message string) {
	for _, n := range m {
		if n != nil {
			n.Notify(kind, message)
		}
	}
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying n. Operations run with the
// returned context report to n as well as to their own notifier.
func NewContext(ctx context.Context, n Notifier) context.Context {
	return context.WithValue(ctx, contextKey{}, n)
}

// FromContext returns the notifier carried by ctx, or nil.
func FromContext(ctx context.Context) Notifier {
	if ctx == nil {
		return nil
	}
	n, _ := ctx.Value(contextKey{}).(Notifier)
	return n
}

// With returns base fanned out to the notifier carried by ctx, if any.
func With(ctx context.Context, base Notifier) Notifier {
	scoped := FromContext(ctx)
	if scoped == nil {
		return base
	}
	return Multi{base, scoped}
}

// Discard drops every notice.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Kind, string) {}
