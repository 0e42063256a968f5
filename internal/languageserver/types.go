// Package languageserver implements a minimal LSP client: stdio transport,
// JSON-RPC request/response correlation, and a completion.Provider adapter
// per language server.
package languageserver

import (
	"encoding/json"
	"time"
)

// Status mirrors the connection lifecycle of a single language server
// process.
type Status string

const (
	StatusUnknown      Status = "unknown"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
	StatusError        Status = "error"
)

// ServerConfig describes one language server entry from config.json, e.g.
//
//	{"id": "gopls", "enabled": true, "command": "gopls", "args": ["serve"], "languages": ["go"]}
type ServerConfig struct {
	ID        string   `json:"id"`
	Enabled   bool     `json:"enabled"`
	Command   string   `json:"command"`
	Args      []string `json:"args"`
	Languages []string `json:"languages"`
	Timeout   string   `json:"timeout"`

	// URL, when set, selects an SSETransport against a remote server
	// instead of spawning Command as a subprocess.
	URL string `json:"url"`
}

// Position is an LSP zero-based line/character position.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// TextDocumentIdentifier names a document by URI, LSP-style.
type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// LSPCompletionContext is the wire shape of textDocument/completion's
// optional "context" field.
type LSPCompletionContext struct {
	TriggerKind      int     `json:"triggerKind"`
	TriggerCharacter *string `json:"triggerCharacter,omitempty"`
}

// LSP completion trigger kinds, per the specification.
const (
	LSPTriggerInvoked                         = 1
	LSPTriggerCharacter                       = 2
	LSPTriggerForIncompleteCompletions        = 3
)

// CompletionParams is the textDocument/completion request body.
type CompletionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
	Context      *LSPCompletionContext  `json:"context,omitempty"`
}

// LSPCompletionItem is one entry of a textDocument/completion response.
type LSPCompletionItem struct {
	Label            string          `json:"label"`
	Kind             int             `json:"kind,omitempty"`
	Detail           string          `json:"detail,omitempty"`
	Documentation    json.RawMessage `json:"documentation,omitempty"`
	SortText         string          `json:"sortText,omitempty"`
	FilterText       string          `json:"filterText,omitempty"`
	InsertText       string          `json:"insertText,omitempty"`
	Data             json.RawMessage `json:"data,omitempty"`
}

// CompletionList is the textDocument/completion response body shape used
// when the server reports a (possibly partial) list rather than a bare
// array.
type CompletionList struct {
	IsIncomplete bool                 `json:"isIncomplete"`
	Items        []LSPCompletionItem  `json:"items"`
}

// ServerInfo is the subset of the initialize response this client reads.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Capabilities is the subset of server capabilities relevant to
// completion: whether the server supports it at all, and its declared
// trigger characters.
type Capabilities struct {
	CompletionProvider *struct {
		TriggerCharacters []string `json:"triggerCharacters"`
		ResolveProvider   bool     `json:"resolveProvider"`
	} `json:"completionProvider"`
}

// ConnectionRecord is bookkeeping kept alongside a live transport, mirroring
// what a host might want to show in a status line.
type ConnectionRecord struct {
	ID           string
	Status       Status
	Capabilities Capabilities
	ConnectedAt  time.Time
	RetryCount   int
}
