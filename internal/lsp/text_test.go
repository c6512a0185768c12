package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestOffsetAt(t *testing.T) {
	text := "ab\n😀x\nlast"

	assert.Equal(t, 0, offsetAt(text, protocol.Position{Line: 0, Character: 0}))
	assert.Equal(t, 2, offsetAt(text, protocol.Position{Line: 0, Character: 9}))
	assert.Equal(t, 3, offsetAt(text, protocol.Position{Line: 1, Character: 0}))
	assert.Equal(t, 7, offsetAt(text, protocol.Position{Line: 1, Character: 2}))
	assert.Equal(t, len(text), offsetAt(text, protocol.Position{Line: 7, Character: 0}))
}

func TestLineIndexPosition(t *testing.T) {
	li := newLineIndex("ab\n😀x\nlast")

	assert.Equal(t, protocol.Position{Line: 0, Character: 2}, li.position(2))
	assert.Equal(t, protocol.Position{Line: 1, Character: 0}, li.position(3))
	assert.Equal(t, protocol.Position{Line: 1, Character: 2}, li.position(7))
	assert.Equal(t, protocol.Position{Line: 2, Character: 4}, li.end())
}

func TestWordAt(t *testing.T) {
	text := "(owner: ByStr20)"

	word, start, end := wordAt(text, protocol.Position{Character: 10})
	assert.Equal(t, "ByStr20", word)
	assert.Equal(t, 8, start)
	assert.Equal(t, 15, end)

	word, _, _ = wordAt(text, protocol.Position{Character: 7})
	assert.Equal(t, "", word)
}

func TestChecked(t *testing.T) {
	assert.True(t, Checked("/a/b.scilla"))
	assert.True(t, Checked("lib.scillib"))
	assert.False(t, Checked("notes.md"))
}

func TestUriToPath(t *testing.T) {
	path, err := uriToPath("file:///work/hello.scilla")
	assert.NoError(t, err)
	assert.Equal(t, "/work/hello.scilla", path)

	_, err = uriToPath("untitled:Untitled-1")
	assert.Error(t, err)
}
