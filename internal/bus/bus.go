// Package bus implements the typed instruction channels that connect the
// multiplexer's long-lived worker threads: PTY reader, Screen, Input, and
// the client I/O thread. Instructions between these threads travel as
// sends on these channels; the daemon also calls a few mutex-guarded
// Screen methods (NewTab, Counts, SetColorProfile) directly.
package bus

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// maxBreadcrumbs bounds an ErrorContext's call-stack so a runaway recursive
// dispatch can't grow it without bound. zellij's ErrorContext (the source
// this is modeled on) is unbounded; this caps it at a generous depth and
// drops the oldest frame once full.
const maxBreadcrumbs = 32

// ErrorContext is a small ordered breadcrumb list describing how control
// reached the current point, attached to every instruction sent on a Bus.
// Unlike the source's thread-local implementation, each long-lived thread
// here owns its ErrorContext explicitly and threads it through the calls
// that push frames.
type ErrorContext struct {
	ID     uuid.UUID
	frames []string
}

// NewErrorContext starts a fresh breadcrumb list with a random correlation id.
func NewErrorContext() ErrorContext {
	return ErrorContext{ID: uuid.New()}
}

// Push appends a breadcrumb, dropping the oldest frame if the context is
// already at maxBreadcrumbs.
func (c ErrorContext) Push(frame string) ErrorContext {
	frames := make([]string, len(c.frames), len(c.frames)+1)
	copy(frames, c.frames)
	frames = append(frames, frame)
	if len(frames) > maxBreadcrumbs {
		frames = frames[len(frames)-maxBreadcrumbs:]
	}
	return ErrorContext{ID: c.ID, frames: frames}
}

// Frames returns the breadcrumb list, oldest first.
func (c ErrorContext) Frames() []string {
	return append([]string(nil), c.frames...)
}

func (c ErrorContext) String() string {
	if len(c.frames) == 0 {
		return fmt.Sprintf("[%s]", c.ID)
	}
	s := fmt.Sprintf("[%s]", c.ID)
	for _, f := range c.frames {
		s += " > " + f
	}
	return s
}

// Envelope wraps an instruction with the ErrorContext that was live when it
// was sent.
type Envelope[T any] struct {
	Ctx T
	Err ErrorContext
}

// Bus is a typed MPSC channel: many senders, one receiver, fair select
// across whatever other channels the receiver also listens on. It is a
// direct analogue of zellij's Bus<T>/ThreadSenders: Send attaches the
// caller's ErrorContext, and the receiver end is a plain Go channel so
// callers compose their own `select` across several Bus[T] receivers
// without this package knowing about the other types involved.
type Bus[T any] struct {
	mu   sync.RWMutex
	ch   chan Envelope[T]
	name string
}

// New creates a Bus with the given buffer capacity. name is used only in
// panic/error messages to identify which channel failed.
func New[T any](name string, capacity int) *Bus[T] {
	return &Bus[T]{ch: make(chan Envelope[T], capacity), name: name}
}

// Send attaches ctx to instr and enqueues it. Send returns false instead of
// blocking forever if the receiver is already gone (channel closed); callers
// treat that as error kind 3 (channel send failure) and begin their own
// drain, per spec.
func (b *Bus[T]) Send(ctx ErrorContext, instr T) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	b.ch <- Envelope[T]{Ctx: instr, Err: ctx.Push(b.name)}
	return true
}

// Recv returns the receive-only channel for use in a select statement
// alongside other Bus[T] receivers, satisfying the "receiver selects across
// its inbound channels, never blocks on more than one without select" rule.
func (b *Bus[T]) Recv() <-chan Envelope[T] {
	return b.ch
}

// Close closes the underlying channel. Senders racing a Close recover via
// Send's panic guard.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	defer func() { recover() }()
	close(b.ch)
}

// Name returns the channel's diagnostic name.
func (b *Bus[T]) Name() string { return b.name }
