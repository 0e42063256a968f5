package completion

import (
	"context"
	"sync"
	"sync/atomic"
)

// EditorThread models the single serialisation point spec.md §5 requires:
// all document/UI access happens on it, while RPC waits happen on the
// caller's goroutine. It is deliberately small — a buffered job queue drained
// by one goroutine — rather than a real editor main loop, because the editor
// main loop itself is out of scope (spec.md §1); callers needing real
// integration point cmd/editor's bubbletea Update loop at NewEditorThread's
// run function.
type EditorThread struct {
	jobs chan func()
	once sync.Once
	done chan struct{}
}

// NewEditorThread starts the dispatch loop in a background goroutine.
func NewEditorThread() *EditorThread {
	t := &EditorThread{
		jobs: make(chan func(), 64),
		done: make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *EditorThread) run() {
	for {
		select {
		case job := <-t.jobs:
			job()
		case <-t.done:
			return
		}
	}
}

// Dispatch submits fn to run on the editor thread and blocks until it has
// run. Used for the Debouncer's initial hop from hook-call context onto the
// thread that owns document state.
func (t *EditorThread) Dispatch(fn func()) {
	done := make(chan struct{})
	t.jobs <- func() {
		defer close(done)
		fn()
	}
	<-done
}

// DispatchAsync submits fn without waiting for it to run. Used from async
// context (the orchestrator's replace-on-arrival tasks) so the caller's
// goroutine can keep reading the response stream while fn is queued.
func (t *EditorThread) DispatchAsync(fn func()) {
	select {
	case t.jobs <- fn:
	case <-t.done:
	}
}

// Stop shuts the dispatch loop down. Queued jobs are dropped.
func (t *EditorThread) Stop() {
	t.once.Do(func() { close(t.done) })
}

// CancelToken is a one-shot signal pair: dropping (closing) the sender
// causes any future awaiting the receiver to resolve without running its
// continuation. Modeled as a context.Context derived from a CancelFunc
// rather than a bare channel so it composes with the std library's
// cancellation propagation (providers' RPC calls take this as their ctx).
type CancelToken struct {
	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool
}

// NewCancelToken returns a fresh token. Cancel (dropping the sender, in
// spec.md's terms) is idempotent.
func NewCancelToken() *CancelToken {
	ctx, cancel := context.WithCancel(context.Background())
	return &CancelToken{ctx: ctx, cancel: cancel}
}

// Cancel drops the sender. Any cancellable future built from this token
// resolves as cancelled without its continuation running.
func (c *CancelToken) Cancel() {
	if c.closed.CompareAndSwap(false, true) {
		c.cancel()
	}
}

// Closed reports whether the sender has already been dropped — spec.md's
// "request" slot tracks exactly this to decide whether a prior request is
// still open.
func (c *CancelToken) Closed() bool {
	return c.closed.Load()
}

// Context returns the context a provider call or orchestrator task should
// select on alongside its own work.
func (c *CancelToken) Context() context.Context {
	return c.ctx
}

// RunCancellable runs fn in a new goroutine and reports whether it completed
// before the token was cancelled. If the token is cancelled first, fn's
// result is discarded and ok is false — fn must itself observe ctx.Done()
// promptly to actually stop doing work, exactly like any context-aware Go
// function; RunCancellable only guarantees the caller's continuation never
// sees a result produced after cancellation.
func RunCancellable[T any](token *CancelToken, fn func(ctx context.Context) T) (result T, ok bool) {
	out := make(chan T, 1)
	go func() {
		out <- fn(token.Context())
	}()

	select {
	case <-token.Context().Done():
		var zero T
		return zero, false
	case v := <-out:
		select {
		case <-token.Context().Done():
			var zero T
			return zero, false
		default:
			return v, true
		}
	}
}

// CompareAndSwapVersion is the version-monotonicity guard from spec.md §9:
// a replace-on-arrival task captured identity v (by holding a pointer to it)
// and value initial; it may mutate the popup only if the live popup still
// points at the same *Version and that Version's value is unchanged.
//
// live is the version counter the popup currently holds (nil if the popup
// has been torn down); captured is the pointer the task captured when it
// was spawned; initial is the value captured at that time.
func CompareAndSwapVersion(live, captured *Version, initial int64) bool {
	if live == nil || live != captured {
		return false
	}
	return atomic.LoadInt64(&live.v) == initial
}

// Snapshot returns the version's current value, for a task to capture at
// spawn time.
func (v *Version) Snapshot() int64 {
	return atomic.LoadInt64(&v.v)
}

// Bump advances the counter, invalidating any task that captured an earlier
// value. Neither this package nor cmd/editor's popup calls it; there a
// popup's counter is only replaced, by a fresh one on each Install.
func (v *Version) Bump() {
	atomic.AddInt64(&v.v, 1)
}
