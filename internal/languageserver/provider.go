package languageserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"codenerd/internal/completion"
	"codenerd/internal/logging"
)

// PositionResolver converts a document's rune offset into the line/column
// pair the LSP wire format uses. The host's document implementation (rope,
// piece table, etc.) is the only thing that knows this mapping.
type PositionResolver func(doc completion.DocID, offset int) (line, character int)

// URIResolver maps a DocID to the file:// URI a language server expects.
type URIResolver func(doc completion.DocID) string

// Provider adapts a single running language server to completion.Provider.
type Provider struct {
	id        completion.ProviderID
	transport rpcTransport
	triggers  []string
	toURI     URIResolver
	toLineCol PositionResolver

	mu   sync.RWMutex
	caps Capabilities

	log *logging.Logger
}

// NewProvider wraps an already-initialized transport. Call SetCapabilities
// after Initialize to populate TriggerCharacters.
func NewProvider(id completion.ProviderID, transport rpcTransport, toURI URIResolver, toLineCol PositionResolver) *Provider {
	return &Provider{id: id, transport: transport, toURI: toURI, toLineCol: toLineCol, log: logging.Get(logging.CategoryProvider)}
}

// SetCapabilities records the server's declared completion trigger
// characters, read from the initialize response.
func (p *Provider) SetCapabilities(caps Capabilities) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.caps = caps
	p.triggers = nil
	if caps.CompletionProvider != nil {
		p.triggers = append(p.triggers, caps.CompletionProvider.TriggerCharacters...)
	}
}

// ID implements completion.Provider.
func (p *Provider) ID() completion.ProviderID { return p.id }

// TriggerCharacters implements completion.Provider.
func (p *Provider) TriggerCharacters() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, len(p.triggers))
	copy(out, p.triggers)
	return out
}

// Complete implements completion.Provider by issuing textDocument/
// completion and translating the wire response into the domain's
// CompletionItem shape, stashing the original LSP item as Raw for a later
// resolve step.
func (p *Provider) Complete(ctx context.Context, doc completion.DocID, pos int, cctx completion.CompletionContext) (completion.CompletionResponse, error) {
	line, char := p.toLineCol(doc, pos)
	params := CompletionParams{
		TextDocument: TextDocumentIdentifier{URI: p.toURI(doc)},
		Position:     Position{Line: line, Character: char},
		Context:      toLSPContext(cctx),
	}

	// Several completion requests to the same server can be in flight at
	// once (initial fan-out plus a straggler's incomplete refresh); tag
	// each with its own correlation id so the debug log can be followed.
	corrID := uuid.NewString()
	p.log.Debug("[%s] completion request %s at %d:%d", p.id, corrID, line, char)

	list, err := p.transport.Completion(ctx, params)
	if err != nil {
		return completion.CompletionResponse{}, fmt.Errorf("languageserver %s: %w", p.id, err)
	}
	p.log.Debug("[%s] completion request %s returned %d items (incomplete=%v)", p.id, corrID, len(list.Items), list.IsIncomplete)

	items := make([]completion.CompletionItem, 0, len(list.Items))
	for _, it := range list.Items {
		raw, err := json.Marshal(it)
		if err != nil {
			continue
		}
		items = append(items, completion.CompletionItem{
			Raw:      raw,
			Label:    it.Label,
			SortText: it.SortText,
		})
	}

	return completion.CompletionResponse{
		Items:      items,
		Incomplete: list.IsIncomplete,
	}, nil
}

func toLSPContext(cctx completion.CompletionContext) *LSPCompletionContext {
	switch cctx.Kind {
	case completion.ContextTriggerCharacter:
		kind := LSPTriggerCharacter
		var tc *string
		if cctx.TriggerCharacter != nil {
			s := string(*cctx.TriggerCharacter)
			tc = &s
		}
		return &LSPCompletionContext{TriggerKind: kind, TriggerCharacter: tc}
	case completion.ContextTriggerForIncompleteCompletions:
		return &LSPCompletionContext{TriggerKind: LSPTriggerForIncompleteCompletions}
	default:
		return &LSPCompletionContext{TriggerKind: LSPTriggerInvoked}
	}
}

var _ completion.Provider = (*Provider)(nil)
