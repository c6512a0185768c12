package lsp_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"scilla/internal/checker"
	"scilla/internal/lsp"
)

const semanticSource = `scilla_version 0
(* a
   b *)
contract Hello
transition Set (m : Uint128)
  x = builtin add m 1
end
`

func TestTextDocumentSemanticTokensFull(t *testing.T) {
	h := lsp.NewScillaHandler(lsp.WithDiagnoser(&fakeDiagnoser{report: &checker.Report{}}))
	ctx := (&recorder{}).context()
	open(t, h, ctx, "file:///work/set.scilla", semanticSource)

	tokens, err := h.TextDocumentSemanticTokensFull(ctx, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///work/set.scilla"},
	})
	require.NoError(t, err, "TextDocumentSemanticTokensFull returned error")
	require.NotNil(t, tokens, "Returned tokens should not be nil")

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err, "Failed to decode semantic tokens")
	require.Len(t, decoded, 13)

	assertToken(t, &decoded[0], 1, 1, 14, "keyword", nil)
	assertToken(t, &decoded[1], 1, 16, 1, "number", nil)
	assertToken(t, &decoded[2], 2, 1, 4, "comment", nil)
	assertToken(t, &decoded[3], 3, 1, 7, "comment", nil)
	assertToken(t, &decoded[4], 4, 1, 8, "keyword", nil)
	assertToken(t, &decoded[5], 4, 10, 5, "namespace", []string{"declaration"})
	assertToken(t, &decoded[6], 5, 1, 10, "keyword", nil)
	assertToken(t, &decoded[7], 5, 12, 3, "function", []string{"declaration"})
	assertToken(t, &decoded[8], 5, 21, 7, "type", nil)
	assertToken(t, &decoded[9], 6, 7, 7, "keyword", nil)
	assertToken(t, &decoded[10], 6, 15, 3, "function", []string{"defaultLibrary"})
	assertToken(t, &decoded[11], 6, 21, 1, "number", nil)
	assertToken(t, &decoded[12], 7, 1, 3, "keyword", nil)
}

func TestSemanticTokensUnknownDocument(t *testing.T) {
	h := lsp.NewScillaHandler()

	_, err := h.TextDocumentSemanticTokensFull(nil, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///nope.scilla"},
	})
	require.Error(t, err)
}

type DecodedToken struct {
	Index     int
	Line      uint32
	Char      uint32
	Length    uint32
	Type      string
	Modifiers []string
}

func decodeSemanticTokens(raw []protocol.UInteger) ([]DecodedToken, error) {
	if len(raw)%5 != 0 {
		return nil, fmt.Errorf("raw token data length %d is not a multiple of 5", len(raw))
	}

	var (
		decoded []DecodedToken
		line    uint32
		char    uint32
	)

	for i := 0; i < len(raw); i += 5 {
		deltaLine := raw[i]
		deltaStart := raw[i+1]
		length := raw[i+2]
		tokenTypeIdx := raw[i+3]
		tokenModMask := raw[i+4]

		if deltaLine == 0 {
			char += deltaStart
		} else {
			line += deltaLine
			char = deltaStart
		}

		var modifiers []string
		for j, name := range lsp.SemanticTokenModifiers {
			if tokenModMask&(1<<j) != 0 {
				modifiers = append(modifiers, name)
			}
		}

		decoded = append(decoded, DecodedToken{
			Index:     i / 5,
			Line:      line + 1, // LSP uses 0-based indexing
			Char:      char + 1, // LSP uses 0-based indexing
			Length:    length,
			Type:      lsp.SemanticTokenTypes[tokenTypeIdx],
			Modifiers: modifiers,
		})
	}

	return decoded, nil
}

func assertToken(t *testing.T, token *DecodedToken, expectedLine, expectedChar, expectedLength uint32, expectedType string, expectedModifiers []string) {
	require.Equal(t, expectedLine, token.Line, "line mismatch (expected line %d)", expectedLine)
	require.Equal(t, expectedChar, token.Char, "char mismatch (expected char %d)", expectedChar)
	require.Equal(t, expectedLength, token.Length, "length mismatch")
	require.Equal(t, expectedType, token.Type, "type mismatch")
	require.ElementsMatch(t, expectedModifiers, token.Modifiers, "modifiers mismatch")
}
