package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_AutoTrigger(t *testing.T) {
	cfg := Config{AutoCompletion: true, CompletionTriggerLen: 2}
	doc := newFakeDocument("d1", "ab")

	decision := Classify(cfg, doc, 2, nil, false)
	assert.True(t, decision.Fire)
	assert.Equal(t, TriggerAuto, decision.Kind)
}

func TestClassify_TriggerCharDominatesAutoTrigger(t *testing.T) {
	// Tie-break law: a position satisfying both the trigger char and the
	// auto-trigger run length must classify as TriggerChar. The provider
	// declares a word-character trigger so that "oo" before the cursor also
	// satisfies the 2-character auto-trigger run.
	cfg := Config{AutoCompletion: true, CompletionTriggerLen: 2}
	doc := newFakeDocument("d1", "foo")
	provider := &fakeProvider{id: "p1", triggers: []string{"o"}}

	decision := Classify(cfg, doc, 3, []Provider{provider}, false)
	assert.True(t, decision.Fire)
	assert.Equal(t, TriggerCharKind, decision.Kind)
}

func TestClassify_AutoCompletionDisabled(t *testing.T) {
	cfg := Config{AutoCompletion: false, CompletionTriggerLen: 2}
	doc := newFakeDocument("d1", "ab")

	decision := Classify(cfg, doc, 2, nil, false)
	assert.False(t, decision.Fire, "expected no trigger when auto_completion is false")
}

func TestClassify_TriggerCharOnlySuppressesAutoTrigger(t *testing.T) {
	cfg := Config{AutoCompletion: true, CompletionTriggerLen: 2}
	doc := newFakeDocument("d1", "ab")

	decision := Classify(cfg, doc, 2, nil, true)
	assert.False(t, decision.Fire, "expected no trigger with trigger_char_only")
}

func TestClassify_NonWordRunBreaksAutoTrigger(t *testing.T) {
	cfg := Config{AutoCompletion: true, CompletionTriggerLen: 2}
	doc := newFakeDocument("d1", "a ")

	decision := Classify(cfg, doc, 2, nil, false)
	assert.False(t, decision.Fire, "expected no trigger across a space")
}

func TestClassify_ShortRunNoTrigger(t *testing.T) {
	cfg := Config{AutoCompletion: true, CompletionTriggerLen: 3}
	doc := newFakeDocument("d1", "ab")

	decision := Classify(cfg, doc, 2, nil, false)
	assert.False(t, decision.Fire, "expected no trigger when run shorter than configured length")
}
