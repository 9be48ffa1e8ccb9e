package bus

// AckBarrier is a one-shot synchronous acknowledgment, replacing the
// source's Mutex<bool>+Condvar flags (opening-pane, closing-pane,
// updating-tabs) per spec §9's redesign note. The initiator of a resize
// sends the instruction, then blocks on Wait until the worker that applied
// it calls Done; this guarantees no further input is processed against the
// stale geometry.
type AckBarrier struct {
	ch chan struct{}
}

// NewAckBarrier creates an unfired barrier.
func NewAckBarrier() *AckBarrier {
	return &AckBarrier{ch: make(chan struct{})}
}

// Done fires the barrier. Safe to call at most once; a second call panics,
// matching the "one-shot" contract the barrier exists to enforce.
func (a *AckBarrier) Done() {
	close(a.ch)
}

// Wait blocks until Done is called.
func (a *AckBarrier) Wait() {
	<-a.ch
}
