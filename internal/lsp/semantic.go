package lsp

import (
	"regexp"
	"slices"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"scilla/internal/docs"
	"scilla/internal/format"
)

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into SemanticTokenTypes
// TokenModifiers is a bitmask based on SemanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int
	TokenModifiers int
}

var wordRE = regexp.MustCompile(`0x[0-9a-fA-F]+|[0-9]+|[A-Za-z_][A-Za-z0-9_']*`)

// declarations maps a keyword to the token type of the name that follows it.
var declarations = map[string]string{
	"contract":   "namespace",
	"library":    "namespace",
	"transition": "function",
	"procedure":  "function",
	"field":      "property",
	"type":       "type",
}

var kindTypes = map[docs.Kind]string{
	docs.Keyword:   "keyword",
	docs.Type:      "type",
	docs.Operation: "function",
}

// TextDocumentSemanticTokensFull handles semantic token requests for the entire document
func (h *ScillaHandler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	text, err := h.document(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	tokens, err := collectSemanticTokens(text)
	if err != nil {
		return nil, err
	}

	return &protocol.SemanticTokens{
		Data: encodeSemanticTokens(tokens),
	}, nil
}

// collectSemanticTokens classifies comments, numbers, documented words and
// the names introduced by declaring keywords.
func collectSemanticTokens(text string) ([]SemanticToken, error) {
	lexemes, err := format.Lex(text)
	if err != nil {
		return nil, err
	}

	li := newLineIndex(text)
	var (
		tokens  []SemanticToken
		declare string
	)

	for _, lx := range lexemes {
		switch {
		case format.IsComment(lx):
			tokens = append(tokens, commentTokens(li, lx.Pos.Offset, lx.Value)...)
			continue
		case format.IsWhitespace(lx):
			continue
		}

		for _, loc := range wordRE.FindAllStringIndex(lx.Value, -1) {
			word := lx.Value[loc[0]:loc[1]]
			offset := lx.Pos.Offset + loc[0]

			tokenType, modifiers := "", 0
			switch {
			case declare != "" && !isNumber(word):
				tokenType, modifiers = declare, modifier("declaration")
			case isNumber(word):
				tokenType = "number"
			default:
				if e, ok := docs.Lookup(word); ok {
					tokenType = kindTypes[e.Kind]
					if e.Kind == docs.Operation {
						modifiers = modifier("defaultLibrary")
					}
				}
			}

			declare = declarations[word]
			if tokenType == "" {
				continue
			}
			tokens = append(tokens, makeToken(li, offset, word, tokenType, modifiers))
		}
	}

	return tokens, nil
}

// commentTokens splits a comment into one token per line.
func commentTokens(li *lineIndex, offset int, value string) []SemanticToken {
	var tokens []SemanticToken
	for line := range strings.SplitSeq(value, "\n") {
		if strings.TrimSpace(line) != "" {
			tokens = append(tokens, makeToken(li, offset, line, "comment", 0))
		}
		offset += len(line) + 1
	}
	return tokens
}

func makeToken(li *lineIndex, offset int, value, tokenType string, modifiers int) SemanticToken {
	pos := li.position(offset)

	var length uint32
	for _, r := range value {
		length += utf16Len(r)
	}

	return SemanticToken{
		Line:           pos.Line,
		StartChar:      pos.Character,
		Length:         length,
		TokenType:      slices.Index(SemanticTokenTypes, tokenType),
		TokenModifiers: modifiers,
	}
}

func modifier(name string) int {
	return 1 << slices.Index(SemanticTokenModifiers, name)
}

func isNumber(word string) bool {
	return word[0] >= '0' && word[0] <= '9'
}

// encodeSemanticTokens produces the relative line/start encoding of the LSP wire format.
func encodeSemanticTokens(tokens []SemanticToken) []protocol.UInteger {
	data := make([]protocol.UInteger, 0, len(tokens)*5)
	var prevLine, prevStart uint32

	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		} else {
			deltaStart = token.StartChar
		}

		data = append(data, deltaLine, deltaStart, token.Length, u32(token.TokenType), u32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}

	return data
}
