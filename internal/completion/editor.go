package completion

import "context"

// Mode is the editor's modal state. Only Insert is relevant to this core;
// the rest exist so hook wiring can tell when the user has left Insert.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
)

// Document is the out-of-scope text-buffer collaborator (spec.md §6),
// reduced to exactly the surface this package calls.
type Document interface {
	// ID returns the opaque identifier providers expect.
	ID() DocID

	// TextLen returns the number of characters in the document.
	TextLen() int

	// Slice returns the characters in [from, to).
	Slice(from, to int) []rune

	// IsWordChar reports whether r counts toward an auto-trigger run,
	// using the document's own word-character predicate (languages differ
	// on whether e.g. '_' or '-' count).
	IsWordChar(r rune) bool

	// Savepoint captures an opaque rollback handle for speculative
	// insertions a popup might preview.
	Savepoint() Savepoint
}

// Savepoint is an opaque rollback handle; the core never inspects it.
type Savepoint interface{}

// View is the out-of-scope view collaborator (spec.md §6).
type View interface {
	ID() ViewID
	Cursor() int
	DocID() DocID
}

// EditorState is the minimal slice of global editor state the core needs:
// current mode, the active view/document, and provider discovery.
type EditorState interface {
	Mode() Mode
	ActiveView() View
	Document(DocID) Document
	LanguageServersWithCompletion(doc DocID) []Provider
}

// ContextKind mirrors the LSP-style completion trigger kinds: an explicit
// invocation, a declared trigger character, or a re-query of a provider
// that previously returned an incomplete list.
type ContextKind int

const (
	ContextInvoked ContextKind = iota
	ContextTriggerCharacter
	ContextTriggerForIncompleteCompletions
)

// CompletionContext is passed to a provider alongside the position.
type CompletionContext struct {
	Kind             ContextKind
	TriggerCharacter *rune
}

// Provider is the out-of-scope language-server collaborator (spec.md §6):
// given a position and trigger context, it returns a future (here, a
// blocking call meant to be run on its own goroutine) of a completion
// response.
type Provider interface {
	ID() ProviderID

	// TriggerCharacters lists the strings this provider wants immediate
	// completion requests for when they are typed.
	TriggerCharacters() []string

	// Complete issues the request. It must return promptly once ctx is
	// cancelled; the orchestrator relies on that to make cancellation
	// cooperative rather than forceful.
	Complete(ctx context.Context, doc DocID, pos int, cctx CompletionContext) (CompletionResponse, error)
}

// PopupInstaller is the out-of-scope compositor collaborator (spec.md §6),
// reduced to the operations the core drives: installing a freshly merged
// completion list, applying a later provider's replacement slice to an
// existing one, and the filter, teardown and inspection calls below.
type PopupInstaller interface {
	// Install allocates a fresh popup carrying items, incomplete, the
	// (possibly adjusted) trigger, and the savepoint taken at issue time.
	// It returns the version counter the popup now owns, for replace-on-
	// arrival tasks to compare against.
	Install(trigger Trigger, items []CompletionItem, incomplete *IncompleteLists, save Savepoint) *Version

	// IsOpen reports whether a popup currently exists.
	IsOpen() bool

	// Clear tears the popup down unconditionally.
	Clear()

	// ReplaceProviderSlice overwrites one provider's items in the live
	// popup, but only if the supplied version pointer and value still
	// match the popup's live counter (the version-monotonicity law).
	// Implementations must perform this check themselves via
	// CompareAndSwapVersion since only they hold the live counter.
	ReplaceProviderSlice(version *Version, initial int64, id ProviderID, priority int8, items []CompletionItem) bool

	// UpdateFilter forwards a keystroke to the popup's fuzzy filter. c is
	// nil for a backspace. It reports the popup's item count afterwards.
	UpdateFilter(c *rune) int

	// Incomplete exposes the popup's IncompleteLists for the refresh
	// controller to iterate; nil if no popup is open.
	Incomplete() *IncompleteLists

	// Trigger exposes the trigger the live popup was installed with.
	Trigger() (Trigger, bool)
}

// SignatureHelpEvictor is called at popup-install time so a host that has a
// signature-help feature can remove it if its screen rectangle would
// overlap the new completion popup (original_source behavior, see
// SPEC_FULL.md "Supplemented features").
type SignatureHelpEvictor func()
