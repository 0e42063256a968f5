package completion

// Command names the small set of editor commands hook wiring inspects.
// Anything outside this set is treated as "some other command" per
// spec.md §4.5.
type Command string

const (
	CommandCompletion          Command = "completion"
	CommandDeleteWordForward   Command = "delete_word_forward"
	CommandDeleteCharForward   Command = "delete_char_forward"
	CommandDeleteCharBackward  Command = "delete_char_backward"
	CommandInsertMode          Command = "insert_mode"
	CommandAppendMode          Command = "append_mode"
)

// Hooks wires the four integration points named in spec.md §4.5 onto a
// Debouncer, FilterController, and the Trigger Classifier. The host (e.g.
// cmd/editor) calls these methods from its own command dispatch and mode
// transition points.
type Hooks struct {
	cfg        Config
	state      EditorState
	popup      PopupInstaller
	debouncer  *Debouncer
	filter     *FilterController
}

// NewHooks builds the Hooks wiring. debouncer and filter must already be
// constructed and sharing the same popup/state.
func NewHooks(cfg Config, state EditorState, popup PopupInstaller, debouncer *Debouncer, filter *FilterController) *Hooks {
	return &Hooks{cfg: cfg, state: state, popup: popup, debouncer: debouncer, filter: filter}
}

// PostCommand implements spec.md §4.5 hook 1.
func (h *Hooks) PostCommand(cmd Command) {
	if h.popup.IsOpen() {
		switch cmd {
		case CommandCompletion, CommandDeleteWordForward, CommandDeleteCharForward:
			// ignored
		case CommandDeleteCharBackward:
			h.filter.UpdateFilter(nil)
		default:
			h.filter.ClearCompletions()
		}
		return
	}

	if h.state.Mode() != ModeInsert {
		return
	}

	switch cmd {
	case CommandDeleteCharBackward, CommandDeleteWordForward, CommandDeleteCharForward:
		view := h.state.ActiveView()
		if view != nil {
			h.debouncer.HandleEvent(DeleteTextEvent(view.Cursor()))
		}
	case CommandCompletion, CommandInsertMode, CommandAppendMode:
		// handled elsewhere (command execution itself, or OnModeSwitch)
	default:
		h.debouncer.HandleEvent(CancelEvent())
	}
}

// OnModeSwitch implements spec.md §4.5 hook 2.
func (h *Hooks) OnModeSwitch(to Mode) {
	if to != ModeInsert {
		h.debouncer.HandleEvent(CancelEvent())
		h.popup.Clear()
		return
	}
	h.runClassifier(false)
}

// PostInsertChar implements spec.md §4.5 hook 3.
func (h *Hooks) PostInsertChar(c rune) {
	if h.popup.IsOpen() {
		cc := c
		h.filter.UpdateFilter(&cc)
		return
	}
	h.runClassifier(false)
}

// runClassifier runs the Trigger Classifier and, if it fires, emits the
// corresponding event into the Debouncer.
func (h *Hooks) runClassifier(triggerCharOnly bool) {
	view := h.state.ActiveView()
	if view == nil {
		return
	}
	doc := h.state.Document(view.DocID())
	if doc == nil {
		return
	}
	providers := h.state.LanguageServersWithCompletion(view.DocID())
	decision := Classify(h.cfg, doc, view.Cursor(), providers, triggerCharOnly)
	if !decision.Fire {
		return
	}

	cursor, vid, did := view.Cursor(), view.ID(), view.DocID()
	switch decision.Kind {
	case TriggerCharKind:
		h.debouncer.HandleEvent(TriggerCharEvent(cursor, vid, did))
	case TriggerAuto:
		h.debouncer.HandleEvent(AutoTriggerEvent(cursor, vid, did))
	}
}

// ReclassifyAfterClose is the callback FilterController.UpdateFilter calls
// (spec.md §4.4 step 2) after a just-typed character empties the popup: a
// just-typed trigger character may want to re-open it, so the classifier
// runs again with trigger_char_only=false exactly as a fresh PostInsertChar
// would, matching spec.md's cross-reference between the two hooks.
func (h *Hooks) ReclassifyAfterClose() {
	h.runClassifier(false)
}

// ManualTrigger emits the event for the explicit "completion" command
// (spec.md: "completion... bypasses the debounce timeout"). cmd/editor
// calls this from its own command table when the user invokes completion
// manually rather than relying on auto/trigger-char detection.
func (h *Hooks) ManualTrigger() {
	view := h.state.ActiveView()
	if view == nil {
		return
	}
	h.debouncer.HandleEvent(ManualTriggerEvent(view.Cursor(), view.ID(), view.DocID()))
}
