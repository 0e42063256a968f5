package completion

import (
	"context"
	"sort"
	"time"

	"codenerd/internal/logging"

	"golang.org/x/sync/errgroup"
)

// Orchestrator runs the per-request lifecycle from spec.md §4.3: pre-flight
// guard, fan-out, first-wave collection with a bounded grace window, and
// (if the provider stream outlives the grace window) a replace-on-arrival
// phase gated by the popup's version counter.
type Orchestrator struct {
	state     EditorState
	popup     PopupInstaller
	thread    *EditorThread
	evict     SignatureHelpEvictor
	cfg       Config
	log       *logging.Logger
	providerLog *logging.Logger
}

// NewOrchestrator wires an Orchestrator to its collaborators. evict may be
// nil if the host has no signature-help feature.
func NewOrchestrator(state EditorState, popup PopupInstaller, thread *EditorThread, evict SignatureHelpEvictor, cfg Config) *Orchestrator {
	return &Orchestrator{
		state:       state,
		popup:       popup,
		thread:      thread,
		evict:       evict,
		cfg:         cfg,
		log:         logging.Get(logging.CategoryCompletion),
		providerLog: logging.Get(logging.CategoryProvider),
	}
}

// Fire is the FireFunc the Debouncer invokes once a trigger's deadline
// elapses (or immediately for ManualTrigger). It runs the pre-flight guard
// synchronously on the editor thread, then launches the async fan-out.
func (o *Orchestrator) Fire(trigger Trigger, token *CancelToken) {
	o.thread.Dispatch(func() {
		doc := o.guardAndNormalize(&trigger)
		if doc == nil {
			return
		}
		providers := o.state.LanguageServersWithCompletion(trigger.Doc)
		if len(providers) == 0 {
			return
		}
		save := doc.Savepoint()
		prefix := doc.Slice(0, trigger.Pos)
		go o.run(trigger, token, prefix, providers, save)
	})
}

// guardAndNormalize applies the pre-flight guard from spec.md §4.3 and, on
// success, rebases trigger.Pos onto the current cursor. It must run on the
// editor thread. Returns nil on any guard failure (silent abort, per
// spec.md §7 item 2).
func (o *Orchestrator) guardAndNormalize(trigger *Trigger) Document {
	if o.popup.IsOpen() {
		return nil
	}
	if o.state.Mode() != ModeInsert {
		return nil
	}
	view := o.state.ActiveView()
	if view == nil || !trigger.SameLocation(view.ID(), view.DocID()) {
		return nil
	}
	cursor := view.Cursor()
	if cursor < trigger.Pos {
		return nil
	}
	trigger.Pos = cursor
	return o.state.Document(trigger.Doc)
}

// run performs fan-out, first-wave collection, installation, and (if the
// stream outlives the grace window) the replace-on-arrival phase. It runs
// off the editor thread; only the dispatched closures inside it touch doc/
// UI state.
func (o *Orchestrator) run(trigger Trigger, token *CancelToken, prefix []rune, providers []Provider, save Savepoint) {
	ctx := token.Context()

	responses := make(chan CompletionResponse)
	done := make(chan struct{})

	g, gctx := errgroup.WithContext(ctx)
	for idx, p := range providers {
		p := p
		priority := int8(-idx)
		cctx := buildContext(trigger.Kind, p, prefix)
		g.Go(func() error {
			resp, err := p.Complete(gctx, trigger.Doc, trigger.Pos, cctx)
			if err != nil {
				o.providerLog.Debug("provider %s failed: %v", p.ID(), err)
				return nil
			}
			if len(resp.Items) == 0 && !resp.Incomplete {
				return nil
			}
			resp.Provider = p.ID()
			resp.Priority = priority
			sortItems(resp.Items, resp.Provider, priority)
			select {
			case responses <- resp:
			case <-ctx.Done():
			}
			return nil
		})
	}
	go func() {
		g.Wait()
		close(done)
	}()

	first, ok := awaitFirst(ctx, responses, done)
	if !ok {
		return
	}

	items := append([]CompletionItem{}, first.Items...)
	incomplete := NewIncompleteLists()
	if first.Incomplete {
		incomplete.Set(first.Provider, first.Priority)
	}

	grace := time.NewTimer(firstWaveGrace)
	defer grace.Stop()
collect:
	for {
		select {
		case resp, ok := <-responses:
			if !ok {
				break collect
			}
			items = append(items, resp.Items...)
			if resp.Incomplete {
				incomplete.Set(resp.Provider, resp.Priority)
			}
		case <-grace.C:
			break collect
		case <-done:
			break collect
		case <-ctx.Done():
			return
		}
	}

	var version *Version
	o.thread.Dispatch(func() {
		if ctx.Err() != nil {
			return
		}
		version = o.popup.Install(trigger, items, incomplete, save)
		if o.evict != nil {
			o.evict()
		}
	})
	if version == nil {
		return
	}

	select {
	case <-done:
		return
	default:
	}
	o.replaceOnArrival(ctx, version, responses, done)
}

// RefreshIncompleteProvider is the provider-refresh leg of the
// Filter/Refresh Controller (spec.md §4.4 step 3): FilterController wires
// this in via SetRefreshIssuer. It re-issues a single provider's request
// with ContextTriggerForIncompleteCompletions at the current cursor and, if
// the popup's version hasn't moved since the caller captured it, splices
// the new items into that provider's slice.
func (o *Orchestrator) RefreshIncompleteProvider(id ProviderID, priority int8, version *Version, initial int64) {
	go func() {
		view := o.state.ActiveView()
		if view == nil {
			return
		}
		doc := o.state.Document(view.DocID())
		if doc == nil {
			return
		}
		var provider Provider
		for _, p := range o.state.LanguageServersWithCompletion(view.DocID()) {
			if p.ID() == id {
				provider = p
				break
			}
		}
		if provider == nil {
			return
		}
		cursor := view.Cursor()
		cctx := CompletionContext{Kind: ContextTriggerForIncompleteCompletions}
		resp, err := provider.Complete(context.Background(), view.DocID(), cursor, cctx)
		if err != nil {
			o.providerLog.Debug("incomplete refresh for %s failed: %v", id, err)
			return
		}
		sortItems(resp.Items, id, priority)
		o.thread.DispatchAsync(func() {
			o.popup.ReplaceProviderSlice(version, initial, id, priority, resp.Items)
		})
	}()
}

// replaceOnArrival is the "replace mode" of spec.md §4.3: it keeps reading
// further late responses and, for each, dispatches a version-gated task
// that overwrites that provider's slice of the live popup.
func (o *Orchestrator) replaceOnArrival(ctx context.Context, version *Version, responses <-chan CompletionResponse, done <-chan struct{}) {
	initial := version.Snapshot()
	for {
		select {
		case resp, ok := <-responses:
			if !ok {
				return
			}
			resp := resp
			o.thread.DispatchAsync(func() {
				o.popup.ReplaceProviderSlice(version, initial, resp.Provider, resp.Priority, resp.Items)
			})
		case <-done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// awaitFirst blocks for the first surviving response, or reports !ok if the
// stream exhausts (or cancellation arrives) before one appears.
func awaitFirst(ctx context.Context, responses <-chan CompletionResponse, done <-chan struct{}) (CompletionResponse, bool) {
	select {
	case resp, ok := <-responses:
		return resp, ok
	case <-done:
		select {
		case resp, ok := <-responses:
			return resp, ok
		default:
			return CompletionResponse{}, false
		}
	case <-ctx.Done():
		return CompletionResponse{}, false
	}
}

// buildContext assigns the CompletionContext per spec.md §4.3: Manual
// triggers are always Invoked; Auto/TriggerChar triggers check whether any
// of the provider's declared trigger characters is a suffix of prefix.
func buildContext(kind TriggerKind, p Provider, prefix []rune) CompletionContext {
	if kind == TriggerManual {
		return CompletionContext{Kind: ContextInvoked}
	}
	s := string(prefix)
	for _, t := range p.TriggerCharacters() {
		if t == "" {
			continue
		}
		if len(s) >= len(t) && s[len(s)-len(t):] == t {
			r := []rune(t)[len([]rune(t))-1]
			return CompletionContext{Kind: ContextTriggerCharacter, TriggerCharacter: &r}
		}
	}
	return CompletionContext{Kind: ContextInvoked}
}

// sortItems sorts one provider's items by sort_text (falling back to label)
// ascending and stable, and stamps provider/priority bookkeeping (spec.md
// §3, §8's "priority equals -(provider_index)" invariant).
func sortItems(items []CompletionItem, provider ProviderID, priority int8) {
	for i := range items {
		items[i].Provider = provider
		items[i].ProviderPriority = priority
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].sortKey() < items[j].sortKey()
	})
}
