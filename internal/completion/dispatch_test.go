package completion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditorThread_DispatchRunsSynchronously(t *testing.T) {
	thread := NewEditorThread()
	defer thread.Stop()

	var ran bool
	thread.Dispatch(func() { ran = true })
	assert.True(t, ran, "expected Dispatch to run its closure before returning")
}

func TestEditorThread_DispatchAsyncEventuallyRuns(t *testing.T) {
	thread := NewEditorThread()
	defer thread.Stop()

	done := make(chan struct{})
	thread.DispatchAsync(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected DispatchAsync closure to eventually run")
	}
}

func TestCancelToken_CancelIsIdempotentAndObservable(t *testing.T) {
	token := NewCancelToken()
	assert.False(t, token.Closed(), "expected fresh token to not be closed")

	token.Cancel()
	token.Cancel() // must not panic
	assert.True(t, token.Closed(), "expected token to report closed after Cancel")

	select {
	case <-token.Context().Done():
	default:
		t.Fatal("expected context to be done after Cancel")
	}
}

func TestRunCancellable_ReturnsResultWhenNotCancelled(t *testing.T) {
	token := NewCancelToken()
	result, ok := RunCancellable(token, func(ctx context.Context) int { return 42 })
	require.True(t, ok)
	assert.Equal(t, 42, result)
}

func TestRunCancellable_ReportsNotOkWhenCancelledFirst(t *testing.T) {
	token := NewCancelToken()
	release := make(chan struct{})
	token.Cancel()

	_, ok := RunCancellable(token, func(ctx context.Context) int {
		<-release
		return 1
	})
	close(release)
	assert.False(t, ok, "expected RunCancellable to report not-ok once the token was already cancelled")
}

func TestCompareAndSwapVersion(t *testing.T) {
	v1 := NewVersion()
	initial := v1.Snapshot()

	assert.True(t, CompareAndSwapVersion(v1, v1, initial), "expected match for identical pointer and unchanged value")

	v1.Bump()
	assert.False(t, CompareAndSwapVersion(v1, v1, initial), "expected mismatch once the value has changed")

	v2 := NewVersion() // starts at 0 again: ABA check must use identity, not just value
	assert.False(t, CompareAndSwapVersion(v2, v1, 0), "expected mismatch when the live counter is a different object, even at the same value")

	assert.False(t, CompareAndSwapVersion(nil, v1, initial), "expected mismatch when the popup has been torn down (live=nil)")
}
