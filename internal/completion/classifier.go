package completion

import "strings"

// ClassifyDecision is the outcome of the Trigger Classifier: either a
// specific kind of trigger, or no trigger at all.
type ClassifyDecision struct {
	Fire bool
	Kind TriggerKind
}

var noTrigger = ClassifyDecision{}

// Classify runs the five-step decision procedure from spec.md §4.1. It is
// invoked whenever a keystroke or command completes while the editor is in
// Insert mode and no popup is open.
//
// triggerCharOnly disables step 3 (auto-triggering); it is set by callers
// re-running the classifier right after clearing a popup, per spec.md §4.5.
func Classify(cfg Config, doc Document, cursor int, providers []Provider, triggerCharOnly bool) ClassifyDecision {
	if !cfg.AutoCompletion {
		return noTrigger
	}

	prefix := doc.Slice(0, cursor)

	if hasTriggerCharSuffix(prefix, providers) {
		return ClassifyDecision{Fire: true, Kind: TriggerCharKind}
	}

	if triggerCharOnly {
		return noTrigger
	}

	n := int(cfg.CompletionTriggerLen)
	if n == 0 || cursor < n {
		return noTrigger
	}

	run := doc.Slice(cursor-n, cursor)
	for _, r := range run {
		if !doc.IsWordChar(r) {
			return noTrigger
		}
	}
	return ClassifyDecision{Fire: true, Kind: TriggerAuto}
}

// hasTriggerCharSuffix reports whether prefix ends with any trigger string
// declared by any eligible provider.
func hasTriggerCharSuffix(prefix []rune, providers []Provider) bool {
	s := string(prefix)
	for _, p := range providers {
		for _, t := range p.TriggerCharacters() {
			if t != "" && strings.HasSuffix(s, t) {
				return true
			}
		}
	}
	return false
}
