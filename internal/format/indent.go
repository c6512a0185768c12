package format

import (
	"fmt"
	"slices"
)

// UnbalancedError reports that block openers and closers do not pair up.
type UnbalancedError struct {
	Openers int
	Closers int
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("unbalanced blocks: %d openers (transition/with), %d closers (end)", e.Openers, e.Closers)
}

// block is an opener/closer pair of token indices.
type block struct {
	open  int
	close int
}

// pairBlocks zips openers and closers positionally after sorting both.
func pairBlocks(openers, closers []int) ([]block, error) {
	openers = slices.Sorted(slices.Values(openers))
	closers = slices.Sorted(slices.Values(closers))

	if len(openers) != len(closers) {
		return nil, &UnbalancedError{Openers: len(openers), Closers: len(closers)}
	}

	blocks := make([]block, len(openers))
	for i := range openers {
		blocks[i] = block{open: openers[i], close: closers[i]}
	}
	return blocks, nil
}

// indent returns a copy of tokens where every line-starting token strictly
// inside a block gains one tab per enclosing block.
func indent(tokens []Token, blocks []block) []Token {
	out := slices.Clone(tokens)
	for _, b := range blocks {
		for i := b.open + 1; i < b.close && i < len(out); i++ {
			if !out[i].startsLine() {
				continue
			}
			lead := out[i].leading()
			out[i].Lead = "\n\t" + lead[1:]
		}
	}
	return out
}
