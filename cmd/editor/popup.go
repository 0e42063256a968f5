package main

import (
	"sync"

	"codenerd/internal/completion"
)

// popupUpdatedMsg tells the bubbletea model to re-render the popup from its
// current snapshot. Install and ReplaceProviderSlice run
// on the EditorThread's own goroutine (see completion.Orchestrator), never
// on the bubbletea event loop, so they can't touch tea state directly —
// they mutate this struct under its mutex and notify via tea.Program.Send,
// which is the one thread-safe entry point bubbletea exposes.
type popupUpdatedMsg struct{}

// popup is the PopupInstaller the Coordinator drives. It holds a plain
// snapshot of completion state; rendering that snapshot as a plain list
// happens entirely on the bubbletea goroutine in the main model's View.
type popup struct {
	mu         sync.Mutex
	open       bool
	items      []completion.CompletionItem
	incomplete *completion.IncompleteLists
	trigger    completion.Trigger
	version    *completion.Version
	save       completion.Savepoint

	selected int
	notify   func()
}

func newPopup(notify func()) *popup {
	return &popup{notify: notify}
}

func (p *popup) Install(trigger completion.Trigger, items []completion.CompletionItem, incomplete *completion.IncompleteLists, save completion.Savepoint) *completion.Version {
	p.mu.Lock()
	p.open = true
	p.items = items
	p.incomplete = incomplete
	p.trigger = trigger
	p.save = save
	p.selected = 0
	p.version = completion.NewVersion()
	v := p.version
	p.mu.Unlock()
	p.fireNotify()
	return v
}

func (p *popup) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

func (p *popup) Clear() {
	p.mu.Lock()
	p.open = false
	p.items = nil
	p.incomplete = nil
	p.version = nil
	p.mu.Unlock()
	p.fireNotify()
}

func (p *popup) ReplaceProviderSlice(version *completion.Version, initial int64, id completion.ProviderID, priority int8, items []completion.CompletionItem) bool {
	p.mu.Lock()
	if !p.open || !completion.CompareAndSwapVersion(p.version, version, initial) {
		p.mu.Unlock()
		return false
	}
	filtered := p.items[:0:0]
	for _, it := range p.items {
		if it.Provider != id {
			filtered = append(filtered, it)
		}
	}
	p.items = append(filtered, items...)
	p.mu.Unlock()
	p.fireNotify()
	return true
}

func (p *popup) UpdateFilter(c *rune) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c == nil {
		return len(p.items)
	}
	filtered := p.items[:0:0]
	for _, it := range p.items {
		for _, r := range it.Label {
			if r == *c {
				filtered = append(filtered, it)
				break
			}
		}
	}
	p.items = filtered
	if p.selected >= len(p.items) {
		p.selected = 0
	}
	return len(p.items)
}

func (p *popup) Incomplete() *completion.IncompleteLists {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.incomplete
}

func (p *popup) Trigger() (completion.Trigger, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.trigger, p.open
}

func (p *popup) Version() *completion.Version {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.version
}

// Snapshot returns a stable copy of the current items for rendering.
func (p *popup) Snapshot() (items []completion.CompletionItem, selected int, open bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]completion.CompletionItem, len(p.items))
	copy(out, p.items)
	return out, p.selected, p.open
}

func (p *popup) MoveSelection(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.items) == 0 {
		return
	}
	p.selected = (p.selected + delta + len(p.items)) % len(p.items)
}

func (p *popup) fireNotify() {
	if p.notify != nil {
		p.notify()
	}
}

var (
	_ completion.PopupInstaller = (*popup)(nil)
	_ completion.VersionHolder  = (*popup)(nil)
)
