package lsp

import (
	"sort"
	"strings"

	"fortio.org/safecast"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// LSP positions count UTF-16 code units within a line.
func utf16Len(r rune) uint32 {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

func u32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return 0
	}
	return v
}

// lineIndex maps byte offsets of one text to LSP positions.
type lineIndex struct {
	text   string
	starts []int
}

func newLineIndex(text string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{text: text, starts: starts}
}

func (li *lineIndex) position(offset int) protocol.Position {
	offset = max(0, min(offset, len(li.text)))
	line := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1

	var char uint32
	for _, r := range li.text[li.starts[line]:offset] {
		char += utf16Len(r)
	}
	return protocol.Position{Line: u32(line), Character: char}
}

func (li *lineIndex) end() protocol.Position {
	return li.position(len(li.text))
}

// offsetAt converts an LSP position into a byte offset of text, clamped to
// the end of the addressed line.
func offsetAt(text string, pos protocol.Position) int {
	i := 0
	for line := uint32(0); line < pos.Line; line++ {
		j := strings.IndexByte(text[i:], '\n')
		if j < 0 {
			return len(text)
		}
		i += j + 1
	}

	var units uint32
	for off, r := range text[i:] {
		if r == '\n' || units >= pos.Character {
			return i + off
		}
		units += utf16Len(r)
	}
	return len(text)
}

func isWordByte(c byte) bool {
	return c == '_' || c == '\'' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// wordAt returns the identifier-like word touching pos and its byte range.
func wordAt(text string, pos protocol.Position) (string, int, int) {
	off := offsetAt(text, pos)

	start := off
	for start > 0 && isWordByte(text[start-1]) {
		start--
	}
	end := off
	for end < len(text) && isWordByte(text[end]) {
		end++
	}
	return text[start:end], start, end
}
