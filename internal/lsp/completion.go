package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"scilla/internal/docs"
)

var completionKinds = map[docs.Kind]protocol.CompletionItemKind{
	docs.Keyword:   protocol.CompletionItemKindKeyword,
	docs.Type:      protocol.CompletionItemKindClass,
	docs.Operation: protocol.CompletionItemKindFunction,
}

// TextDocumentCompletion offers every documented word; clients filter by prefix.
func (h *ScillaHandler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	entries := docs.Entries()

	items := make([]protocol.CompletionItem, 0, len(entries))
	for _, e := range entries {
		kind := completionKinds[e.Kind]
		items = append(items, protocol.CompletionItem{
			Label:  e.Label,
			Kind:   &kind,
			Detail: ptrString(string(e.Kind)),
			Documentation: protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: e.Doc,
			},
		})
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}
