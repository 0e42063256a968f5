package completion

import (
	"context"
	"sync"
	"unicode"
)

// fakeDocument is an in-memory []rune buffer implementing Document.
type fakeDocument struct {
	id   DocID
	text []rune
}

func newFakeDocument(id DocID, text string) *fakeDocument {
	return &fakeDocument{id: id, text: []rune(text)}
}

func (d *fakeDocument) ID() DocID       { return d.id }
func (d *fakeDocument) TextLen() int    { return len(d.text) }
func (d *fakeDocument) Slice(from, to int) []rune {
	if from < 0 {
		from = 0
	}
	if to > len(d.text) {
		to = len(d.text)
	}
	if from > to {
		return nil
	}
	out := make([]rune, to-from)
	copy(out, d.text[from:to])
	return out
}
func (d *fakeDocument) IsWordChar(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' }
func (d *fakeDocument) Savepoint() Savepoint   { return struct{}{} }

func (d *fakeDocument) insert(pos int, r rune) {
	d.text = append(d.text[:pos], append([]rune{r}, d.text[pos:]...)...)
}

// fakeView is a mutable View.
type fakeView struct {
	id     ViewID
	doc    DocID
	cursor int
}

func (v *fakeView) ID() ViewID   { return v.id }
func (v *fakeView) Cursor() int  { return v.cursor }
func (v *fakeView) DocID() DocID { return v.doc }

// fakeState implements EditorState over a single view/document.
type fakeState struct {
	mu        sync.Mutex
	mode      Mode
	view      *fakeView
	docs      map[DocID]Document
	providers []Provider
}

func newFakeState(view *fakeView, doc Document, providers ...Provider) *fakeState {
	return &fakeState{
		mode:      ModeInsert,
		view:      view,
		docs:      map[DocID]Document{doc.ID(): doc},
		providers: providers,
	}
}

func (s *fakeState) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}
func (s *fakeState) SetMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
}
func (s *fakeState) ActiveView() View { return s.view }
func (s *fakeState) Document(id DocID) Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[id]
}
func (s *fakeState) LanguageServersWithCompletion(DocID) []Provider {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.providers
}

// fakeProvider returns a scripted response (or blocks until ctx is done).
type fakeProvider struct {
	id        ProviderID
	triggers  []string
	response  CompletionResponse
	err       error
	delay     <-chan struct{} // closed to release the response
	callCount int
	mu        sync.Mutex
}

func (p *fakeProvider) ID() ProviderID          { return p.id }
func (p *fakeProvider) TriggerCharacters() []string { return p.triggers }
func (p *fakeProvider) Complete(ctx context.Context, doc DocID, pos int, cctx CompletionContext) (CompletionResponse, error) {
	p.mu.Lock()
	p.callCount++
	p.mu.Unlock()

	if p.delay != nil {
		select {
		case <-p.delay:
		case <-ctx.Done():
			return CompletionResponse{}, ctx.Err()
		}
	}
	if p.err != nil {
		return CompletionResponse{}, p.err
	}
	return p.response, nil
}

func (p *fakeProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.callCount
}

// fakePopup is an in-memory PopupInstaller + VersionHolder.
type fakePopup struct {
	mu         sync.Mutex
	open       bool
	items      []CompletionItem
	incomplete *IncompleteLists
	trigger    Trigger
	version    *Version
	save       Savepoint
}

func (p *fakePopup) Install(trigger Trigger, items []CompletionItem, incomplete *IncompleteLists, save Savepoint) *Version {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = true
	p.items = items
	p.incomplete = incomplete
	p.trigger = trigger
	p.save = save
	p.version = NewVersion()
	return p.version
}

func (p *fakePopup) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

func (p *fakePopup) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = false
	p.items = nil
	p.incomplete = nil
	p.version = nil
}

func (p *fakePopup) ReplaceProviderSlice(version *Version, initial int64, id ProviderID, priority int8, items []CompletionItem) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open || !CompareAndSwapVersion(p.version, version, initial) {
		return false
	}
	filtered := p.items[:0:0]
	for _, it := range p.items {
		if it.Provider != id {
			filtered = append(filtered, it)
		}
	}
	filtered = append(filtered, items...)
	p.items = filtered
	return true
}

func (p *fakePopup) UpdateFilter(c *rune) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c == nil {
		return len(p.items)
	}
	// Trivial fuzzy stand-in: drop items whose label doesn't contain the
	// rune (enough to exercise "popup goes empty" without a real fuzzy
	// matcher, which spec.md leaves to the popup/UI per §1 non-goals).
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
	return len(p.items)
}

func (p *fakePopup) Incomplete() *IncompleteLists {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.incomplete
}

func (p *fakePopup) Trigger() (Trigger, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.trigger, p.open
}

func (p *fakePopup) Version() *Version {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.version
}

func (p *fakePopup) snapshotItems() []CompletionItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]CompletionItem, len(p.items))
	copy(out, p.items)
	return out
}
