// Package completion implements the debounce, request-lifecycle, and
// multi-provider merge logic that decides when to ask language servers for
// completion candidates and how to keep the displayed list consistent while
// the user keeps typing.
package completion

import "encoding/json"

// TriggerKind classifies why a Trigger was created.
type TriggerKind int

const (
	// TriggerAuto fires when a word-character run of the configured
	// length has just been typed.
	TriggerAuto TriggerKind = iota
	// TriggerCharKind fires when the cursor sits right after a character a
	// provider declared as a completion trigger.
	TriggerCharKind
	// TriggerManual fires from an explicit user command.
	TriggerManual
)

func (k TriggerKind) String() string {
	switch k {
	case TriggerAuto:
		return "auto"
	case TriggerCharKind:
		return "trigger_char"
	case TriggerManual:
		return "manual"
	default:
		return "unknown"
	}
}

// Trigger is a cheaply-copyable value identifying the place and reason a
// completion request should be considered.
type Trigger struct {
	Pos  int
	View ViewID
	Doc  DocID
	Kind TriggerKind
}

// SameLocation reports whether this trigger was observed on the given
// view/document. It does not look at the cursor position.
func (t Trigger) SameLocation(view ViewID, doc DocID) bool {
	return t.View == view && t.Doc == doc
}

// ViewID and DocID are opaque identifiers for the originating view/document.
// The editor/view model referenced in spec.md §6 owns the concrete values;
// this package only ever compares them for equality.
type ViewID string
type DocID string

// CompletionEvent is the tagged variant produced by hook wiring and consumed
// by the Debouncer.
type CompletionEvent struct {
	kind eventKind

	// Populated for AutoTrigger, TriggerChar, ManualTrigger.
	Cursor int
	View   ViewID
	Doc    DocID

	// Populated for DeleteText.
	DeleteCursor int
}

type eventKind int

const (
	eventAutoTrigger eventKind = iota
	eventTriggerChar
	eventManualTrigger
	eventDeleteText
	eventCancel
)

// AutoTriggerEvent builds the event emitted when the user types a word
// character that satisfies the auto-trigger run length.
func AutoTriggerEvent(cursor int, view ViewID, doc DocID) CompletionEvent {
	return CompletionEvent{kind: eventAutoTrigger, Cursor: cursor, View: view, Doc: doc}
}

// TriggerCharEvent builds the event emitted when the user types a
// provider-declared trigger character.
func TriggerCharEvent(cursor int, view ViewID, doc DocID) CompletionEvent {
	return CompletionEvent{kind: eventTriggerChar, Cursor: cursor, View: view, Doc: doc}
}

// ManualTriggerEvent builds the event emitted by an explicit completion
// command; it bypasses the debounce timeout entirely.
func ManualTriggerEvent(cursor int, view ViewID, doc DocID) CompletionEvent {
	return CompletionEvent{kind: eventManualTrigger, Cursor: cursor, View: view, Doc: doc}
}

// DeleteTextEvent builds the event emitted on backspace / word-delete.
func DeleteTextEvent(cursor int) CompletionEvent {
	return CompletionEvent{kind: eventDeleteText, DeleteCursor: cursor}
}

// CancelEvent is emitted when the mode is left or an incompatible command runs.
func CancelEvent() CompletionEvent {
	return CompletionEvent{kind: eventCancel}
}

// CompletionItem is a provider item annotated with bookkeeping the merge
// pipeline needs.
type CompletionItem struct {
	Raw json.RawMessage `json:"-"`

	Label    string `json:"label"`
	SortText string `json:"sortText,omitempty"`

	Provider         ProviderID `json:"-"`
	Resolved         bool       `json:"-"`
	ProviderPriority int8       `json:"-"`
}

// sortKey is the key items within one provider's slice are sorted by:
// sort_text if present, falling back to label.
func (c CompletionItem) sortKey() string {
	if c.SortText != "" {
		return c.SortText
	}
	return c.Label
}

// ProviderID identifies a language server offering the Completion capability.
type ProviderID string

// CompletionResponse is the transport-layer reply from one provider.
type CompletionResponse struct {
	Provider   ProviderID
	Priority   int8
	Items      []CompletionItem
	Incomplete bool
}

// IncompleteLists records which providers returned an incomplete list and
// must be re-queried as the filter narrows. A provider appears at most once.
type IncompleteLists struct {
	byProvider map[ProviderID]int8
}

// NewIncompleteLists returns an empty map.
func NewIncompleteLists() *IncompleteLists {
	return &IncompleteLists{byProvider: make(map[ProviderID]int8)}
}

// Set records provider as incomplete at the given priority.
func (l *IncompleteLists) Set(id ProviderID, priority int8) {
	l.byProvider[id] = priority
}

// Delete drops a provider, e.g. once it has stopped returning incomplete
// lists or has disappeared.
func (l *IncompleteLists) Delete(id ProviderID) {
	delete(l.byProvider, id)
}

// Each calls fn once per (provider, priority) pair. fn may be called in any
// order; it must not mutate the map while iterating (copy first if needed).
func (l *IncompleteLists) Each(fn func(id ProviderID, priority int8)) {
	for id, p := range l.byProvider {
		fn(id, p)
	}
}

// Len reports how many providers are currently recorded as incomplete.
func (l *IncompleteLists) Len() int {
	return len(l.byProvider)
}

// Version is a shared atomic counter whose identity and value jointly
// identify one popup incarnation. See dispatch.go for the comparison logic
// replace-on-arrival tasks perform against it.
type Version struct {
	v int64
}

// NewVersion allocates a fresh counter initialised to zero. Every popup
// installation allocates its own.
func NewVersion() *Version {
	return &Version{}
}
