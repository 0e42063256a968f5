package completion

import "time"

// Config mirrors the subset of editor configuration the completion core
// reads, loaded by the host the same way codenerd loads
// .nerd/config.json into a plain struct (internal/logging's configFile is
// the donor pattern this follows).
type Config struct {
	// AutoCompletion is the master switch for non-manual triggers.
	AutoCompletion bool `json:"auto_completion"`

	// CompletionTimeout is the debounce window used for Auto triggers.
	CompletionTimeout time.Duration `json:"completion_timeout"`

	// CompletionTriggerLen is the minimum preceding word-character run
	// required before an auto-trigger fires.
	CompletionTriggerLen uint32 `json:"completion_trigger_len"`
}

// DefaultConfig mirrors the defaults editors in this family ship with.
func DefaultConfig() Config {
	return Config{
		AutoCompletion:       true,
		CompletionTimeout:    250 * time.Millisecond,
		CompletionTriggerLen: 2,
	}
}

const (
	// triggerCharDeadline is the 5ms floor spec.md §4.2 assigns to
	// trigger-character completions and restarts after an in-flight abort.
	triggerCharDeadline = 5 * time.Millisecond

	// firstWaveGrace is the bounded window (spec.md §4.3) during which the
	// orchestrator keeps merging stragglers after the first usable response.
	firstWaveGrace = 100 * time.Millisecond
)
