package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"scilla/internal/docs"
)

// TextDocumentHover shows the documentation of the keyword, type or builtin
// operation under the cursor.
func (h *ScillaHandler) TextDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	text, err := h.document(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	word, start, end := wordAt(text, params.Position)
	entry, ok := docs.Lookup(word)
	if !ok {
		return nil, nil
	}

	li := newLineIndex(text)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: entry.Doc,
		},
		Range: &protocol.Range{
			Start: li.position(start),
			End:   li.position(end),
		},
	}, nil
}
