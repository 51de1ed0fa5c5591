// Package automaton implements the index-arena finite automata that back
// the lexer side of langcore: NFAs built by Thompson construction
// (package regex), merged under a shared start state, determinized by
// subset construction with token-priority tagging, and minimized by
// table-filling partitioning. States are addressed by int id within a
// single build's arena rather than by pointer, per the "arenas of
// states addressed by index" design note: the cyclic structure an NFA
// or DFA inherently has (loops are the whole point) is then just index
// arithmetic, not a garbage-collector concern.
package automaton

import (
	"sort"

	"github.com/dekarrin/langcore/types"
)

// Transition is a single outgoing edge of an NFA state: either a
// single-character label, or an epsilon (empty) move when Epsilon is
// true.
type Transition struct {
	Epsilon bool
	Label   rune
	To      int
}

// State is one node of an NFA's arena. Identity is its ID (position in
// the owning NFA's States slice); two states with identical outgoing
// transitions are still distinct — identity is positional, not
// structural.
type State struct {
	ID          int
	Transitions []Transition
	Accepting   bool

	// Token is set only on accepting states produced by the tagged
	// regex compiler (package regex). A plain (untagged) NFA used only
	// for language-equivalence checks leaves this nil.
	Token *types.TokenType
}

// NFA is an arena of States plus a distinguished Start state. For a
// single compiled pattern, the end state reachable from Start is
// accepting and carries its token type.
type NFA struct {
	States []State
	Start  int
}

// Builder accumulates States for a single NFA build. Its internal
// counter (len(States)) is scoped to the Builder value, never global,
// so concurrent builds never interact — the build-scoped counter the
// design notes ask for in place of a package-level nextId.
type Builder struct {
	states []State
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddState appends a fresh state and returns its id.
func (b *Builder) AddState(accepting bool) int {
	id := len(b.states)
	b.states = append(b.states, State{ID: id, Accepting: accepting})
	return id
}

// AddTransition adds a labeled transition from -> to on the given
// character.
func (b *Builder) AddTransition(from int, label rune, to int) {
	b.states[from].Transitions = append(b.states[from].Transitions, Transition{Label: label, To: to})
}

// AddEpsilon adds an epsilon transition from -> to.
func (b *Builder) AddEpsilon(from, to int) {
	b.states[from].Transitions = append(b.states[from].Transitions, Transition{Epsilon: true, To: to})
}

// SetAccepting sets or clears the accepting flag of a state. Package
// regex does not call it: its fragment states are created
// non-accepting and only the final end state is marked, via Tag.
func (b *Builder) SetAccepting(state int, accepting bool) {
	b.states[state].Accepting = accepting
}

// Tag marks state as accepting and attaches a token type to it, for use
// by the tagged regex compiler once a pattern's fragment is complete.
func (b *Builder) Tag(state int, tt types.TokenType) {
	ttCopy := tt
	b.states[state].Accepting = true
	b.states[state].Token = &ttCopy
}

// NumStates returns the number of states allocated so far.
func (b *Builder) NumStates() int {
	return len(b.states)
}

// Build finalizes the arena into an NFA with the given start state.
func (b *Builder) Build(start int) NFA {
	states := make([]State, len(b.states))
	copy(states, b.states)
	return NFA{States: states, Start: start}
}

// EpsilonClosure returns the set of states (as a sorted, de-duplicated
// slice of ids) reachable from any state in from using zero or more
// epsilon transitions.
func (nfa NFA) EpsilonClosure(from []int) []int {
	seen := make(map[int]bool, len(from))
	stack := append([]int(nil), from...)
	for _, s := range from {
		seen[s] = true
	}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, t := range nfa.States[s].Transitions {
			if t.Epsilon && !seen[t.To] {
				seen[t.To] = true
				stack = append(stack, t.To)
			}
		}
	}

	return sortedKeys(seen)
}

// Move returns the set of states directly reachable from some state in
// from on input c (no epsilon-closure applied).
func (nfa NFA) Move(from []int, c rune) []int {
	seen := map[int]bool{}
	for _, s := range from {
		for _, t := range nfa.States[s].Transitions {
			if !t.Epsilon && t.Label == c && !seen[t.To] {
				seen[t.To] = true
			}
		}
	}
	return sortedKeys(seen)
}

// Alphabet returns every distinct non-epsilon character labeling some
// transition in the NFA.
func (nfa NFA) Alphabet() []rune {
	seen := map[rune]bool{}
	for _, s := range nfa.States {
		for _, t := range s.Transitions {
			if !t.Epsilon {
				seen[t.Label] = true
			}
		}
	}
	out := make([]rune, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
