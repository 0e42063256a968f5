package completion

import (
	"codenerd/internal/logging"
)

// FilterController implements spec.md §4.4: it is active only while a
// popup exists, forwards keystrokes to the popup's fuzzy filter, and
// re-queries providers whose last response was marked incomplete.
type FilterController struct {
	state  EditorState
	popup  PopupInstaller
	thread *EditorThread
	log    *logging.Logger

	// reclassify lets UpdateFilter re-run the Trigger Classifier after a
	// just-typed character clears the popup (spec.md §4.4 step 2); it is
	// the same entry point hook wiring uses, injected to avoid a dependency
	// cycle with hooks.go.
	reclassify func()

	// issueRefresh dispatches one incomplete-list refresh request, keyed by
	// the popup version refreshIncomplete captured (spec.md §4.4).
	issueRefresh func(id ProviderID, priority int8, version *Version, initial int64)
}

// NewFilterController wires a FilterController. Call SetReclassify and
// SetRefreshIssuer afterward once the rest of the wiring (Hooks,
// Orchestrator) exists — Hooks takes this controller as a constructor
// argument, so it can't be built before it.
func NewFilterController(state EditorState, popup PopupInstaller, thread *EditorThread) *FilterController {
	return &FilterController{
		state: state,
		popup: popup,
		thread: thread,
		log:   logging.Get(logging.CategoryCompletion),
	}
}

// SetReclassify wires the callback UpdateFilter invokes after a just-typed
// character empties the popup (spec.md §4.4 step 2).
func (fc *FilterController) SetReclassify(fn func()) {
	fc.reclassify = fn
}

// SetRefreshIssuer lets the orchestrator (which owns provider fan-out)
// supply the function refreshIncomplete uses to actually dispatch a
// TriggerForIncompleteCompletions request. Kept as a setter rather than a
// constructor argument so filter.go and orchestrator.go have no import
// cycle between them.
func (fc *FilterController) SetRefreshIssuer(fn func(id ProviderID, priority int8, version *Version, initial int64)) {
	fc.issueRefresh = fn
}

// UpdateFilter is the entry point hook wiring calls on each in-Insert
// keystroke while a popup exists. c is nil for a backspace.
func (fc *FilterController) UpdateFilter(c *rune) {
	if !fc.popup.IsOpen() {
		return
	}
	remaining := fc.popup.UpdateFilter(c)
	if remaining == 0 {
		fc.popup.Clear()
		if c != nil && fc.reclassify != nil {
			fc.reclassify()
		}
		return
	}
	fc.refreshIncomplete()
}

// refreshIncomplete is step 3 of UpdateFilter: re-query every provider
// whose last response was marked incomplete, at the current cursor.
func (fc *FilterController) refreshIncomplete() {
	incomplete := fc.popup.Incomplete()
	if incomplete == nil || incomplete.Len() == 0 {
		return
	}
	trigger, ok := fc.popup.Trigger()
	if !ok {
		return
	}
	view := fc.state.ActiveView()
	if view == nil {
		return
	}
	cursor := view.Cursor()
	providers := fc.state.LanguageServersWithCompletion(trigger.Doc)
	byID := make(map[ProviderID]Provider, len(providers))
	for _, p := range providers {
		byID[p.ID()] = p
	}

	var stale []ProviderID
	incomplete.Each(func(id ProviderID, priority int8) {
		p, ok := byID[id]
		if !ok {
			stale = append(stale, id)
			return
		}
		if fc.issueRefresh == nil {
			return
		}
		version, vok := fc.popupVersion()
		if !vok {
			return
		}
		fc.log.Debug("refreshing incomplete provider %s at cursor %d", id, cursor)
		fc.issueRefresh(p.ID(), priority, version, version.Snapshot())
	})
	for _, id := range stale {
		incomplete.Delete(id)
	}
}

// popupVersion is a narrow seam: PopupInstaller doesn't expose its version
// directly (only Install and ReplaceProviderSlice do, by design — nothing
// outside the popup should read-modify it), so hosts that want refresh to
// work wire this through their own implementation via the VersionHolder
// interface. Hosts that don't implement it simply get no refresh, which is
// a silent no-op consistent with spec.md §7's "staleness" class.
func (fc *FilterController) popupVersion() (*Version, bool) {
	if vh, ok := fc.popup.(VersionHolder); ok {
		return vh.Version(), true
	}
	return nil, false
}

// VersionHolder is an optional PopupInstaller extension exposing the live
// version counter for refresh requests to capture at spawn time.
type VersionHolder interface {
	Version() *Version
}

// ClearCompletions tears the popup down unconditionally (spec.md §4.4).
func (fc *FilterController) ClearCompletions() {
	fc.popup.Clear()
}
