package languageserver

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codenerd/internal/completion"
)

func TestReadHeaders_ParsesContentLength(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("Content-Length: 42\r\nContent-Type: application/json\r\n\r\n"))
	n, err := readHeaders(reader)
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestReadHeaders_MissingContentLengthErrors(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("Content-Type: application/json\r\n\r\n"))
	_, err := readHeaders(reader)
	assert.Error(t, err, "expected an error for a frame with no Content-Length header")
}

func TestToLSPContext_Invoked(t *testing.T) {
	got := toLSPContext(completion.CompletionContext{Kind: completion.ContextInvoked})
	assert.Equal(t, LSPTriggerInvoked, got.TriggerKind)
}

func TestToLSPContext_TriggerCharacter(t *testing.T) {
	r := '.'
	got := toLSPContext(completion.CompletionContext{Kind: completion.ContextTriggerCharacter, TriggerCharacter: &r})
	assert.Equal(t, LSPTriggerCharacter, got.TriggerKind)
	require.NotNil(t, got.TriggerCharacter)
	assert.Equal(t, ".", *got.TriggerCharacter)
}

func TestToLSPContext_Incomplete(t *testing.T) {
	got := toLSPContext(completion.CompletionContext{Kind: completion.ContextTriggerForIncompleteCompletions})
	assert.Equal(t, LSPTriggerForIncompleteCompletions, got.TriggerKind)
}

func TestContainsLanguage(t *testing.T) {
	assert.True(t, containsLanguage(nil, "go"), "expected no restriction to serve every language")
	assert.True(t, containsLanguage([]string{"go", "rust"}, "go"))
	assert.False(t, containsLanguage([]string{"rust"}, "go"), "expected go to not match a rust-only server")
}
