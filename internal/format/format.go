// Package format reformats Scilla contract source.
//
// The formatter works on whitespace-delimited words rather than a syntax tree.
// Keywords decide where lines break, blocks opened by a transition's
// parameter list or by "with" and closed by "end" are indented one level, and
// block comments are carried through untouched. When openers and closers do
// not pair up the source is returned as it was.
package format

import (
	"errors"
	"fmt"
	"strings"
)

// Status tells whether Format changed the layout or gave the source back.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFail    Status = "fail"
)

// ErrCommentMismatch is returned when the placeholders left in the tokens do
// not line up with the extracted comments, which happens when the source
// itself contains the placeholder text.
var ErrCommentMismatch = errors.New("comment placeholders do not match extracted comments")

// Format lays out source. On failure the input is returned
// unchanged with StatusFail.
func Format(source string) (string, Status) {
	text, err := Source(source)
	if err != nil {
		return source, StatusFail
	}
	return text, StatusSuccess
}

// Source runs the formatting pipeline and reports why it gave up, if it did.
func Source(source string) (string, error) {
	words, comments, err := Scan(source)
	if err != nil {
		return "", err
	}

	l := place(words)

	blocks, err := pairBlocks(l.openers, l.closers)
	if err != nil {
		return "", err
	}

	tokens := indent(l.tokens, blocks)

	parts, err := reinsert(tokens, comments)
	if err != nil {
		return "", err
	}

	return strings.Join(parts, ""), nil
}

// reinsert renders tokens and puts every comment back in place of its
// placeholder, in source order.
func reinsert(tokens []Token, comments []Comment) ([]string, error) {
	placeholders := 0
	for _, t := range tokens {
		placeholders += strings.Count(t.Word, Placeholder)
	}
	if placeholders != len(comments) {
		return nil, fmt.Errorf("%w: %d placeholders, %d comments", ErrCommentMismatch, placeholders, len(comments))
	}

	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.String()
	}

	for _, c := range comments {
		if c.Word < 0 || c.Word >= len(tokens) {
			return nil, fmt.Errorf("%w: comment refers to token %d of %d", ErrCommentMismatch, c.Word, len(tokens))
		}

		t := tokens[c.Word]
		if t.Word == Placeholder {
			lead := t.leading()
			if lead == "" {
				lead = "\n"
			}
			parts[c.Word] = lead + c.Text + t.Trail
			continue
		}

		if !strings.Contains(parts[c.Word], Placeholder) {
			return nil, fmt.Errorf("%w: token %d has no placeholder left", ErrCommentMismatch, c.Word)
		}
		parts[c.Word] = strings.Replace(parts[c.Word], Placeholder, "\n"+c.Text, 1)
	}

	return parts, nil
}
