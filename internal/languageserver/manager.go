package languageserver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"codenerd/internal/completion"
	"codenerd/internal/logging"
)

// Manager owns one subprocess per configured language server and exposes
// the live set as completion.Provider for the orchestrator's fan-out.
type Manager struct {
	mu      sync.RWMutex
	configs map[string]ServerConfig
	conns   map[string]*connection

	toURI     URIResolver
	toLineCol PositionResolver

	onStatus func(id string, status Status)

	log *logging.Logger
}

type connection struct {
	record    ConnectionRecord
	transport rpcTransport
	provider  *Provider
}

// NewManager builds a Manager. toURI/toLineCol adapt the host's document
// model to LSP's URI/line-column addressing.
func NewManager(configs []ServerConfig, toURI URIResolver, toLineCol PositionResolver) *Manager {
	byID := make(map[string]ServerConfig, len(configs))
	for _, c := range configs {
		byID[c.ID] = c
	}
	return &Manager{
		configs:   byID,
		conns:     make(map[string]*connection),
		toURI:     toURI,
		toLineCol: toLineCol,
		log:       logging.Get(logging.CategoryProvider),
	}
}

// SetOnStatus wires a callback for server status transitions, e.g. for a
// host status line.
func (m *Manager) SetOnStatus(fn func(id string, status Status)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onStatus = fn
}

// ConnectAll starts every enabled server concurrently and logs (without
// failing the whole batch on) any individual connection error.
func (m *Manager) ConnectAll(ctx context.Context) error {
	m.mu.RLock()
	var ids []string
	for id, cfg := range m.configs {
		if cfg.Enabled {
			ids = append(ids, id)
		}
	}
	m.mu.RUnlock()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	for _, id := range ids {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.Connect(ctx, id); err != nil {
				m.log.Warn("failed to connect to language server %s: %v", id, err)
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return firstErr
}

// Connect starts and initializes a single configured server.
func (m *Manager) Connect(ctx context.Context, id string) error {
	m.mu.Lock()
	cfg, ok := m.configs[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("languageserver: unknown server %q", id)
	}
	if conn, exists := m.conns[id]; exists && conn.transport.IsConnected() {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	m.setStatus(id, StatusConnecting)

	timeout := 10 * time.Second
	if cfg.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Timeout); err == nil {
			timeout = d
		}
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var transport rpcTransport
	if cfg.URL != "" {
		transport = NewSSETransport(cfg.URL, timeout)
	} else {
		transport = NewStdioTransport(cfg.Command, cfg.Args)
	}
	if conn, ok := transport.(interface{ Connect(context.Context) error }); ok {
		if err := conn.Connect(connectCtx); err != nil {
			m.setStatus(id, StatusError)
			return fmt.Errorf("connect %s: %w", id, err)
		}
	}

	caps, err := transport.Initialize(connectCtx)
	if err != nil {
		_ = transport.Disconnect()
		m.setStatus(id, StatusError)
		return fmt.Errorf("initialize %s: %w", id, err)
	}

	provider := NewProvider(completion.ProviderID(id), transport, m.toURI, m.toLineCol)
	provider.SetCapabilities(caps)

	m.mu.Lock()
	m.conns[id] = &connection{
		record: ConnectionRecord{
			ID:           id,
			Status:       StatusConnected,
			Capabilities: caps,
			ConnectedAt:  time.Now(),
		},
		transport: transport,
		provider:  provider,
	}
	m.mu.Unlock()

	m.setStatus(id, StatusConnected)
	m.log.Info("connected to language server %s (%s %v)", id, cfg.Command, cfg.Args)
	return nil
}

// Disconnect tears down a single server's subprocess.
func (m *Manager) Disconnect(id string) error {
	m.mu.Lock()
	conn, ok := m.conns[id]
	if !ok {
		m.mu.Unlock()
		return nil
	}
	delete(m.conns, id)
	m.mu.Unlock()

	err := conn.transport.Disconnect()
	m.setStatus(id, StatusDisconnected)
	return err
}

// DisconnectAll tears down every running server, e.g. on editor shutdown.
func (m *Manager) DisconnectAll() {
	m.mu.RLock()
	ids := make([]string, 0, len(m.conns))
	for id := range m.conns {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	for _, id := range ids {
		if err := m.Disconnect(id); err != nil {
			m.log.Warn("error disconnecting %s: %v", id, err)
		}
	}
}

// ProvidersFor returns the connected providers configured for the given
// language, wired to the document being edited via EditorState's
// LanguageServersWithCompletion.
func (m *Manager) ProvidersFor(language string) []completion.Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []completion.Provider
	for id, conn := range m.conns {
		cfg := m.configs[id]
		if !conn.transport.IsConnected() {
			continue
		}
		if !containsLanguage(cfg.Languages, language) {
			continue
		}
		out = append(out, conn.provider)
	}
	return out
}

func containsLanguage(languages []string, want string) bool {
	if len(languages) == 0 {
		return true // no restriction declared: serve every document
	}
	for _, l := range languages {
		if l == want {
			return true
		}
	}
	return false
}

func (m *Manager) setStatus(id string, status Status) {
	m.mu.RLock()
	cb := m.onStatus
	m.mu.RUnlock()
	if cb != nil {
		cb(id, status)
	}
}
