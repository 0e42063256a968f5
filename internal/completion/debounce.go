package completion

import (
	"time"

	"codenerd/internal/logging"
)

// FireFunc is what Debouncer.FinishDebounce calls: from the Debouncer's own
// timer once an armed deadline elapses without further events, and directly
// for ManualTrigger, which fires with no intervening timer.
type FireFunc func(t Trigger, token *CancelToken)

// Debouncer turns a stream of CompletionEvents into at most one pending
// completion request, per spec.md §4.2. It owns a Trigger slot and a
// CancelToken for any in-flight request.
//
// Modeled after the donor's cmd/nerd/ui.Debouncer (timer-reset-on-call), but
// generalized: the donor's debouncer always waits a fixed duration and
// always replaces the pending call outright. This one computes a
// per-event deadline from the event kind and prior request state, and some
// events clear the pending trigger instead of replacing it.
type Debouncer struct {
	trigger *Trigger
	request *CancelToken

	timer    *time.Timer
	timerGen uint64

	cfg  Config
	fire FireFunc
	log  *logging.Logger
}

// NewDebouncer builds a Debouncer that calls fire when its deadline elapses
// or a ManualTrigger arrives.
func NewDebouncer(cfg Config, fire FireFunc) *Debouncer {
	return &Debouncer{
		cfg:  cfg,
		fire: fire,
		log:  logging.Get(logging.CategoryCompletion),
	}
}

// HandleEvent applies the state transition table from spec.md §4.2 and
// arms/clears the timer accordingly. Safe to call from a single consumer
// only; the Debouncer is not itself safe for concurrent use (matching
// spec.md's "single-consumer async hook" framing — serialise calls at the
// hook-wiring layer instead of inside this type).
func (d *Debouncer) HandleEvent(ev CompletionEvent) {
	switch ev.kind {
	case eventAutoTrigger:
		d.onAutoTrigger(ev)
	case eventTriggerChar:
		d.onTriggerChar(ev)
	case eventManualTrigger:
		d.onManualTrigger(ev)
	case eventCancel:
		d.onCancel()
	case eventDeleteText:
		d.onDeleteText(ev)
	}
}

func (d *Debouncer) onAutoTrigger(ev CompletionEvent) {
	t := Trigger{Pos: ev.Cursor, View: ev.View, Doc: ev.Doc, Kind: TriggerAuto}
	if d.trigger == nil || !d.trigger.SameLocation(ev.View, ev.Doc) {
		d.trigger = &t
	}
	d.arm(d.autoDeadline())
}

func (d *Debouncer) onTriggerChar(ev CompletionEvent) {
	t := Trigger{Pos: ev.Cursor, View: ev.View, Doc: ev.Doc, Kind: TriggerCharKind}
	d.trigger = &t
	d.dropRequest()
	d.arm(triggerCharDeadline)
}

func (d *Debouncer) onManualTrigger(ev CompletionEvent) {
	t := Trigger{Pos: ev.Cursor, View: ev.View, Doc: ev.Doc, Kind: TriggerManual}
	d.trigger = &t
	d.dropRequest()
	d.disarm()
	d.FinishDebounce()
}

func (d *Debouncer) onCancel() {
	d.trigger = nil
	d.dropRequest()
	d.disarm()
}

func (d *Debouncer) onDeleteText(ev CompletionEvent) {
	if d.trigger != nil && ev.DeleteCursor < d.trigger.Pos {
		d.trigger = nil
		d.dropRequest()
		d.disarm()
		return
	}
	if d.trigger != nil {
		d.arm(d.autoDeadline())
	}
}

// autoDeadline implements the deadline formula: completion_timeout iff the
// trigger is Auto and there is no still-open prior request; 5ms otherwise.
func (d *Debouncer) autoDeadline() time.Duration {
	if d.trigger == nil {
		return triggerCharDeadline
	}
	priorOpen := d.request != nil && !d.request.Closed()
	if d.trigger.Kind == TriggerAuto && !priorOpen {
		return d.cfg.CompletionTimeout
	}
	return triggerCharDeadline
}

func (d *Debouncer) dropRequest() {
	if d.request != nil {
		d.request.Cancel()
		d.request = nil
	}
}

func (d *Debouncer) arm(deadline time.Duration) {
	d.disarm()
	d.timerGen++
	gen := d.timerGen
	d.timer = time.AfterFunc(deadline, func() {
		if gen == d.timerGen {
			d.FinishDebounce()
		}
	})
}

func (d *Debouncer) disarm() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.timerGen++
}

// FinishDebounce fires the currently pending trigger. Calling it with no
// trigger set is a programmer-precondition violation (spec.md §7 item 3):
// the Debouncer's own state machine guarantees a trigger is set whenever a
// deadline was armed, so this can only happen if a caller invokes
// FinishDebounce out of band.
func (d *Debouncer) FinishDebounce() {
	if d.trigger == nil {
		panic("completion: FinishDebounce called with no pending trigger")
	}
	t := *d.trigger
	token := NewCancelToken()
	d.request = token
	d.log.Debug("debounce fired: kind=%s view=%s doc=%s pos=%d", t.Kind, t.View, t.Doc, t.Pos)
	d.fire(t, token)
}

// PendingTrigger exposes the current trigger slot, for tests and for the
// hook layer to decide whether a refresh should instead go through the
// orchestrator's normal path.
func (d *Debouncer) PendingTrigger() (Trigger, bool) {
	if d.trigger == nil {
		return Trigger{}, false
	}
	return *d.trigger, true
}

// RequestOpen reports whether the most recently dispatched request's
// cancel-sender is still live.
func (d *Debouncer) RequestOpen() bool {
	return d.request != nil && !d.request.Closed()
}
