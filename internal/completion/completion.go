package completion

// Coordinator bundles the four collaborators a host needs to drive
// completion end to end: the Debouncer (event coalescing), Orchestrator
// (fan-out/merge), FilterController (live popup filtering and incomplete
// refresh), and Hooks (the four integration points a host's command
// dispatch and mode-switch code call into). Construct one per editor
// session with New.
type Coordinator struct {
	Debouncer    *Debouncer
	Orchestrator *Orchestrator
	Filter       *FilterController
	Hooks        *Hooks
}

// New wires a Coordinator. state, popup, and thread must share the same
// lifetime as the editor session; evict may be nil if the host has no
// signature-help feature to dismiss alongside a freshly opened popup.
func New(cfg Config, state EditorState, popup PopupInstaller, thread *EditorThread, evict SignatureHelpEvictor) *Coordinator {
	orch := NewOrchestrator(state, popup, thread, evict, cfg)
	deb := NewDebouncer(cfg, orch.Fire)
	filter := NewFilterController(state, popup, thread)
	hooks := NewHooks(cfg, state, popup, deb, filter)

	filter.SetReclassify(hooks.ReclassifyAfterClose)
	filter.SetRefreshIssuer(orch.RefreshIncompleteProvider)

	return &Coordinator{
		Debouncer:    deb,
		Orchestrator: orch,
		Filter:       filter,
		Hooks:        hooks,
	}
}
