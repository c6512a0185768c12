package format

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Placeholder stands in for an extracted comment while tokens are rewritten.
const Placeholder = "scilla-comment-placeholder"

// ScillaLexer splits source into comments, whitespace and runs of text.
// Rule order matters: a "(" only counts as Text when no comment starts there.
var ScillaLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `\(\*(?s:.)*?\*\)`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Text", Pattern: `[^\s(]+|\(`},
})

var (
	commentType    = ScillaLexer.Symbols()["Comment"]
	whitespaceType = ScillaLexer.Symbols()["Whitespace"]
)

// Comment is a block comment lifted out of the source, together with the
// index of the word that carries its placeholder.
type Comment struct {
	Text string
	Word int
}

// Lex returns the raw lexemes of source, without the trailing EOF token.
func Lex(source string) ([]lexer.Token, error) {
	lex, err := ScillaLexer.LexString("", source)
	if err != nil {
		return nil, fmt.Errorf("lex: %w", err)
	}

	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, fmt.Errorf("lex: %w", err)
	}

	if n := len(tokens); n > 0 && tokens[n-1].EOF() {
		tokens = tokens[:n-1]
	}
	return tokens, nil
}

// IsComment reports whether tok is a block comment.
func IsComment(tok lexer.Token) bool {
	return tok.Type == commentType
}

// IsWhitespace reports whether tok is a run of whitespace.
func IsWhitespace(tok lexer.Token) bool {
	return tok.Type == whitespaceType
}

// Scan splits source into whitespace-delimited words, with every comment
// replaced by Placeholder. The comments are returned in source order.
func Scan(source string) ([]string, []Comment, error) {
	tokens, err := Lex(source)
	if err != nil {
		return nil, nil, err
	}

	var (
		words    []string
		comments []Comment
		word     strings.Builder
	)

	flush := func() {
		if word.Len() > 0 {
			words = append(words, word.String())
			word.Reset()
		}
	}

	for _, tok := range tokens {
		switch tok.Type {
		case whitespaceType:
			flush()
		case commentType:
			comments = append(comments, Comment{Text: tok.Value, Word: len(words)})
			word.WriteString(Placeholder)
		default:
			word.WriteString(tok.Value)
		}
	}
	flush()

	return words, comments, nil
}
