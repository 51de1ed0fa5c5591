package automaton

import (
	"testing"

	"github.com/dekarrin/langcore/types"
	"github.com/stretchr/testify/assert"
)

// buildLinearNFA builds an NFA that accepts exactly the literal string
// lit, tagged with tt, for use across the tests in this file.
func buildLinearNFA(lit string, tt types.TokenType) NFA {
	b := NewBuilder()
	cur := b.AddState(len(lit) == 0)
	start := cur
	for _, c := range lit {
		next := b.AddState(false)
		b.AddTransition(cur, c, next)
		cur = next
	}
	b.Tag(cur, tt)
	return b.Build(start)
}

func TestEpsilonClosure(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder()
	s0 := b.AddState(false)
	s1 := b.AddState(false)
	s2 := b.AddState(true)
	b.AddEpsilon(s0, s1)
	b.AddEpsilon(s1, s2)
	nfa := b.Build(s0)

	assert.Equal([]int{s0, s1, s2}, nfa.EpsilonClosure([]int{s0}))
}

func TestMove(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder()
	s0 := b.AddState(false)
	s1 := b.AddState(true)
	b.AddTransition(s0, 'a', s1)
	nfa := b.Build(s0)

	assert.Equal([]int{s1}, nfa.Move([]int{s0}, 'a'))
	assert.Empty(nfa.Move([]int{s0}, 'b'))
}

func TestDeterminize_SingleLiteral(t *testing.T) {
	assert := assert.New(t)

	tt := types.TokenType{ID: 1, Name: "AB"}
	nfa := buildLinearNFA("ab", tt)

	dfa := Determinize(nfa)
	assert.NoError(dfa.Validate())

	s := dfa.Start
	s, ok := dfa.Next(s, 'a')
	assert.True(ok)
	s, ok = dfa.Next(s, 'b')
	assert.True(ok)
	assert.True(dfa.IsAccepting(s))
	assert.Equal(tt.ID, dfa.States[s].Token.ID)
}

func TestDeterminize_TokenPriority(t *testing.T) {
	assert := assert.New(t)

	// Two patterns overlap on "if": a KEYWORD literal and a generic
	// IDENT (i|f|x|y|z)*-style loop that also matches "if". The
	// earlier-declared (lower id) pattern must win.
	keyword := types.TokenType{ID: 1, Name: "KEYWORD"}
	ident := types.TokenType{ID: 2, Name: "IDENT"}

	kwNFA := buildLinearNFA("if", keyword)

	b := NewBuilder()
	start := b.AddState(false)
	loop := b.AddState(true)
	b.AddEpsilon(start, loop)
	for _, c := range "ifxyz" {
		b.AddTransition(loop, c, loop)
	}
	b.Tag(loop, ident)
	identNFA := b.Build(start)

	merged := Merge(kwNFA, identNFA)
	dfa := Determinize(merged)

	s := dfa.Start
	var ok bool
	s, ok = dfa.Next(s, 'i')
	assert.True(ok)
	s, ok = dfa.Next(s, 'f')
	assert.True(ok)
	assert.True(dfa.IsAccepting(s))
	assert.Equal(keyword.ID, dfa.States[s].Token.ID, "lower-id pattern should win on overlap")
}

func TestMinimize_PreservesLanguage(t *testing.T) {
	assert := assert.New(t)

	// Classic (a|b)*abb minimization example (Dragon Book 3.9.6): this
	// hand-built NFA already determinizes to the minimal 4-state DFA;
	// Minimize must keep exactly that count (no over-merging) while
	// still accepting exactly strings ending in "abb".
	tt := types.TokenType{ID: 1, Name: "ENDS_ABB"}

	b := NewBuilder()
	start := b.AddState(false)
	b.AddTransition(start, 'a', start)
	b.AddTransition(start, 'b', start)
	s1 := b.AddState(false)
	b.AddTransition(start, 'a', s1)
	s2 := b.AddState(false)
	b.AddTransition(s1, 'b', s2)
	s3 := b.AddState(true)
	b.AddTransition(s2, 'b', s3)
	b.Tag(s3, tt)
	nfa := b.Build(start)

	dfa := Determinize(nfa)
	min := Minimize(dfa)
	assert.NoError(min.Validate())
	assert.Len(min.States, 4)

	accepts := func(d DFA, input string) bool {
		s := d.Start
		for _, c := range input {
			next, ok := d.Next(s, c)
			if !ok {
				return false
			}
			s = next
		}
		return d.IsAccepting(s)
	}

	for _, good := range []string{"abb", "aabb", "babb", "ababb"} {
		assert.True(accepts(min, good), "expected %q to be accepted", good)
	}
	for _, bad := range []string{"ab", "abbb", "", "a", "b"} {
		assert.False(accepts(min, bad), "expected %q to be rejected", bad)
	}
}

func TestMinimize_KeepsDistinctTokensSeparate(t *testing.T) {
	assert := assert.New(t)

	// Two single-character literal patterns with different token
	// types must never be folded into one accepting state even though
	// their post-accept behavior (no further transitions) is
	// identical.
	plus := types.TokenType{ID: 1, Name: "PLUS"}
	minus := types.TokenType{ID: 2, Name: "MINUS"}

	merged := Merge(buildLinearNFA("+", plus), buildLinearNFA("-", minus))
	dfa := Determinize(merged)
	min := Minimize(dfa)

	sPlus, ok := min.Next(min.Start, '+')
	assert.True(ok)
	sMinus, ok := min.Next(min.Start, '-')
	assert.True(ok)

	assert.NotEqual(sPlus, sMinus)
	assert.Equal(plus.ID, min.States[sPlus].Token.ID)
	assert.Equal(minus.ID, min.States[sMinus].Token.ID)
}

func TestMerge_UnionOfLanguages(t *testing.T) {
	assert := assert.New(t)

	abNFA := buildLinearNFA("ab", types.TokenType{ID: 1, Name: "AB"})
	cdNFA := buildLinearNFA("cd", types.TokenType{ID: 2, Name: "CD"})

	merged := Merge(abNFA, cdNFA)
	assert.NoError(merged.Validate())

	dfa := Determinize(merged)

	accepts := func(input string) bool {
		s := dfa.Start
		for _, c := range input {
			next, ok := dfa.Next(s, c)
			if !ok {
				return false
			}
			s = next
		}
		return dfa.IsAccepting(s)
	}

	assert.True(accepts("ab"))
	assert.True(accepts("cd"))
	assert.False(accepts("ac"))
}
