package format

import "strings"

// effect is what a rule does beyond laying out its own token.
type effect int

const (
	noEffect effect = iota
	openTransition  // the first later token containing ")" opens a block
	openWith        // this token opens a block, the next one starts a line
	closeBlock      // this token closes a block
	markMatch       // position is recorded
	breakSecond     // the token two ahead starts a line
	breakNext       // the next token starts a line
)

// rule lays out a single keyword.
type rule struct {
	lead   string
	trail  string
	effect effect
}

// defaultRule applies to every word that has no entry in rules.
var defaultRule = rule{trail: " "}

// rules is keyed by exact source word.
var rules = map[string]rule{
	"scilla_version": {trail: " "},
	"let":            {lead: "\n", trail: " "},
	"fun":            {lead: "\n\t", trail: " "},
	"field":          {lead: "\n", trail: " "},
	"transition":     {lead: "\n", trail: " ", effect: openTransition},
	"match":          {lead: "\n", trail: " ", effect: markMatch},
	"with":           {effect: openWith},
	"end":            {lead: "\n", trail: "\n", effect: closeBlock},
	"event":          {lead: "\n", trail: " "},
	"contract":       {lead: "\n\n", trail: " ", effect: breakSecond},
	"library":        {lead: "\n\n", trail: " "},
	"import":         {lead: "\n\n", trail: " "},
	"|":              {lead: "\n", trail: " "},
	"send":           {lead: "\n", trail: " "},
	"builtin":        {lead: "\n\t", trail: " "},
	"=>":             {effect: breakNext},
}

// Token is one word of the source together with the layout placed around it.
type Token struct {
	Word  string
	Lead  string
	Trail string
	// Break is set when an earlier token asked this one to start a line.
	Break bool
}

func (t Token) String() string {
	return t.leading() + t.Word + t.Trail
}

func (t Token) leading() string {
	if t.Lead == "" && t.Break {
		return "\n"
	}
	return t.Lead
}

// startsLine reports whether the rendered token begins with a newline.
func (t Token) startsLine() bool {
	return strings.HasPrefix(t.leading(), "\n")
}

// layout is the outcome of the placement pass.
type layout struct {
	tokens  []Token
	openers []int
	closers []int
	matches []int
}

// place applies the rule table in a single forward scan. Look-ahead targets
// past the last token are dropped.
func place(words []string) layout {
	out := layout{tokens: make([]Token, len(words))}
	for i, w := range words {
		out.tokens[i].Word = w
	}

	breakAt := func(i int) {
		if i < len(out.tokens) {
			out.tokens[i].Break = true
		}
	}

	for i, w := range words {
		r, ok := rules[w]
		if !ok {
			r = defaultRule
			if strings.Contains(w, "};") {
				r.effect = breakNext
			}
		}

		out.tokens[i].Lead = r.lead
		out.tokens[i].Trail = r.trail

		switch r.effect {
		case openTransition:
			for j := i + 1; j < len(words); j++ {
				if strings.Contains(words[j], ")") {
					out.openers = append(out.openers, j)
					breakAt(j + 1)
					break
				}
			}
		case openWith:
			out.openers = append(out.openers, i)
			breakAt(i + 1)
		case closeBlock:
			out.closers = append(out.closers, i)
		case markMatch:
			out.matches = append(out.matches, i)
		case breakSecond:
			breakAt(i + 2)
		case breakNext:
			breakAt(i + 1)
		}
	}

	return out
}
