package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"scilla/internal/format"
)

// FormatFailedMessage is shown when the document cannot be laid out.
const FormatFailedMessage = "Formatting failed: please fix indentation/syntax first"

// TextDocumentFormatting replaces the whole document with its formatted text.
// When formatting fails the document is left alone and the user is told why.
func (h *ScillaHandler) TextDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	uri := params.TextDocument.URI
	text, err := h.document(uri)
	if err != nil {
		return nil, err
	}

	formatted, err := format.Source(text)
	if err != nil {
		log.Infof("formatting %s: %s", uri, err)
		showMessage(ctx, protocol.MessageTypeError, FormatFailedMessage)
		return nil, nil
	}

	if formatted == text {
		return []protocol.TextEdit{}, nil
	}

	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   newLineIndex(text).end(),
		},
		NewText: formatted,
	}}, nil
}
