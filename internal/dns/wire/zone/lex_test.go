package zone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func drain(l *lexer) []token {
	var out []token
	for {
		tok, ok := l.next()
		if !ok {
			return out
		}
		out = append(out, tok)
	}
}

func TestLexerSkipsComments(t *testing.T) {
	toks := drain(newLexer("A ; a comment\nB"))
	var texts []string
	for _, tk := range toks {
		if tk.kind == tokATOM {
			texts = append(texts, tk.text)
		}
	}
	assert.Equal(t, []string{"A", "B"}, texts)
}

func TestLexerKeepsQuotedStringWhole(t *testing.T) {
	toks := drain(newLexer(`"hello world" next`))
	assert.Equal(t, tokATOM, toks[0].kind)
	assert.Equal(t, `"hello world"`, toks[0].text)
}

func TestLexerHandlesEscapedQuoteInString(t *testing.T) {
	toks := drain(newLexer(`"a\"b"`))
	assert.Equal(t, `"a\"b"`, toks[0].text)
}

func TestLexerEmitsNewlineTokens(t *testing.T) {
	toks := drain(newLexer("A\nB\n"))
	kinds := make([]tokenKind, len(toks))
	for i, tk := range toks {
		kinds[i] = tk.kind
	}
	assert.Equal(t, []tokenKind{tokATOM, tokNL, tokATOM, tokNL}, kinds)
}
