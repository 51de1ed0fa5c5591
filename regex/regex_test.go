package regex

import (
	"testing"

	"github.com/dekarrin/langcore/automaton"
	"github.com/dekarrin/langcore/types"
	"github.com/stretchr/testify/assert"
)

func acceptsAll(dfa automaton.DFA, inputs []string) bool {
	for _, in := range inputs {
		s := dfa.Start
		ok := true
		for _, c := range in {
			next, has := dfa.Next(s, c)
			if !has {
				ok = false
				break
			}
			s = next
		}
		if !ok || !dfa.IsAccepting(s) {
			return false
		}
	}
	return true
}

func rejectsAll(dfa automaton.DFA, inputs []string) bool {
	for _, in := range inputs {
		s := dfa.Start
		ok := true
		for _, c := range in {
			next, has := dfa.Next(s, c)
			if !has {
				ok = false
				break
			}
			s = next
		}
		if ok && dfa.IsAccepting(s) {
			return false
		}
	}
	return true
}

func TestCompile_Literal(t *testing.T) {
	assert := assert.New(t)

	nfa, err := Compile("ab", types.TokenType{ID: 1, Name: "AB"})
	if !assert.NoError(err) {
		return
	}

	dfa := automaton.Determinize(nfa)
	assert.True(acceptsAll(dfa, []string{"ab"}))
	assert.True(rejectsAll(dfa, []string{"a", "b", "abc", "ba", ""}))
}

func TestCompile_Alternation(t *testing.T) {
	assert := assert.New(t)

	nfa, err := Compile("cat|dog", types.TokenType{ID: 1, Name: "PET"})
	if !assert.NoError(err) {
		return
	}

	dfa := automaton.Determinize(nfa)
	assert.True(acceptsAll(dfa, []string{"cat", "dog"}))
	assert.True(rejectsAll(dfa, []string{"ca", "do", "catdog", ""}))
}

func TestCompile_KleeneStar(t *testing.T) {
	assert := assert.New(t)

	// a(b|c)*
	nfa, err := Compile("a(b|c)*", types.TokenType{ID: 1, Name: "ABC"})
	if !assert.NoError(err) {
		return
	}

	dfa := automaton.Determinize(nfa)
	assert.True(acceptsAll(dfa, []string{"a", "ab", "ac", "abc", "acb", "abbbccc"}))
	assert.True(rejectsAll(dfa, []string{"", "b", "c", "ba"}))
}

func TestCompile_Plus(t *testing.T) {
	assert := assert.New(t)

	nfa, err := Compile("a+", types.TokenType{ID: 1, Name: "APLUS"})
	if !assert.NoError(err) {
		return
	}

	dfa := automaton.Determinize(nfa)
	assert.True(acceptsAll(dfa, []string{"a", "aa", "aaaa"}))
	assert.True(rejectsAll(dfa, []string{"", "b", "ab"}))
}

func TestCompile_Question(t *testing.T) {
	assert := assert.New(t)

	nfa, err := Compile("colou?r", types.TokenType{ID: 1, Name: "COLOR"})
	if !assert.NoError(err) {
		return
	}

	dfa := automaton.Determinize(nfa)
	assert.True(acceptsAll(dfa, []string{"color", "colour"}))
	assert.True(rejectsAll(dfa, []string{"colouur", "colr"}))
}

func TestCompile_Grouping(t *testing.T) {
	assert := assert.New(t)

	nfa, err := Compile("(ab)+c", types.TokenType{ID: 1, Name: "ABC"})
	if !assert.NoError(err) {
		return
	}

	dfa := automaton.Determinize(nfa)
	assert.True(acceptsAll(dfa, []string{"abc", "ababc", "abababc"}))
	assert.True(rejectsAll(dfa, []string{"c", "ab", "abab"}))
}

func TestCompile_EscapedMetacharacter(t *testing.T) {
	assert := assert.New(t)

	nfa, err := Compile(`a\*b`, types.TokenType{ID: 1, Name: "LITSTAR"})
	if !assert.NoError(err) {
		return
	}

	dfa := automaton.Determinize(nfa)
	assert.True(acceptsAll(dfa, []string{"a*b"}))
	assert.True(rejectsAll(dfa, []string{"ab", "aab"}))
}

func TestCompile_EmptyPatternIsMalformed(t *testing.T) {
	assert := assert.New(t)

	_, err := Compile("", types.TokenType{ID: 1, Name: "X"})
	assert.Error(err)
	var mpe *types.MalformedPatternError
	assert.ErrorAs(err, &mpe)
}

func TestCompile_UnbalancedParenIsMalformed(t *testing.T) {
	assert := assert.New(t)

	_, err := Compile("(ab", types.TokenType{ID: 1, Name: "X"})
	assert.Error(err)
}

func TestNormalize_InsertsConcatAndRespectsPrecedence(t *testing.T) {
	assert := assert.New(t)

	postfix, err := Normalize("ab|c*")
	if !assert.NoError(err) {
		return
	}

	// a b concat -> "ab", then c* -> "c*", then alternated: a b . c * |
	kinds := make([]tokenKind, len(postfix))
	for i, tok := range postfix {
		kinds[i] = tok.kind
	}
	assert.Equal([]tokenKind{tokLiteral, tokLiteral, tokConcat, tokLiteral, tokStar, tokAlt}, kinds)
}
