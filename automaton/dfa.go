package automaton

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dekarrin/langcore/types"
)

// DFAState is one node of a determinized automaton. NFASet is the
// sorted, de-duplicated set of source NFA state ids this state
// represents, and doubles as its canonical subset-construction key
// (via nfaSetKey).
type DFAState struct {
	ID          int
	NFASet      []int
	Transitions map[rune]int
	Accepting   bool

	// Token is the token type this state accepts, chosen as the
	// minimum-id TokenType among every NFA accepting state folded
	// into NFASet: earlier-declared pattern wins. Nil on non-accepting
	// states.
	Token *types.TokenType
}

// DFA is an arena of DFAStates plus a distinguished Start state.
type DFA struct {
	States []DFAState
	Start  int
}

// Next returns the state reached from state on input c, and whether a
// transition exists at all.
func (d DFA) Next(state int, c rune) (int, bool) {
	to, ok := d.States[state].Transitions[c]
	return to, ok
}

// IsAccepting reports whether state is an accepting state.
func (d DFA) IsAccepting(state int) bool {
	return d.States[state].Accepting
}

// Alphabet returns every distinct character labeling some transition
// in the DFA.
func (d DFA) Alphabet() []rune {
	seen := map[rune]bool{}
	for _, s := range d.States {
		for c := range s.Transitions {
			seen[c] = true
		}
	}
	out := make([]rune, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func nfaSetKey(set []int) string {
	parts := make([]string, len(set))
	for i, s := range set {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ",")
}

// Determinize runs subset construction (Dragon Book Algorithm 3.20)
// over nfa, producing an equivalent DFA. When a DFA state's underlying
// NFA subset contains more than one NFA accepting state — which
// happens whenever two or more patterns that were Merge'd together
// can both match the same input — the resulting DFA state's Token is
// the one with the lowest TokenType.ID: earlier-declared pattern wins.
func Determinize(nfa NFA) DFA {
	alphabet := nfa.Alphabet()

	startSet := nfa.EpsilonClosure([]int{nfa.Start})
	startKey := nfaSetKey(startSet)

	states := []DFAState{}
	keyToID := map[string]int{}

	makeState := func(set []int) int {
		id := len(states)
		st := DFAState{
			ID:          id,
			NFASet:      set,
			Transitions: map[rune]int{},
		}
		var best *types.TokenType
		for _, nfaID := range set {
			ns := nfa.States[nfaID]
			if ns.Accepting {
				st.Accepting = true
				if ns.Token != nil && (best == nil || ns.Token.ID < best.ID) {
					best = ns.Token
				}
			}
		}
		st.Token = best
		states = append(states, st)
		keyToID[nfaSetKey(set)] = id
		return id
	}

	makeState(startSet)
	worklist := []string{startKey}

	for len(worklist) > 0 {
		key := worklist[0]
		worklist = worklist[1:]
		id := keyToID[key]
		set := states[id].NFASet

		for _, c := range alphabet {
			moved := nfa.Move(set, c)
			if len(moved) == 0 {
				continue
			}
			closure := nfa.EpsilonClosure(moved)
			closureKey := nfaSetKey(closure)

			targetID, exists := keyToID[closureKey]
			if !exists {
				targetID = makeState(closure)
				worklist = append(worklist, closureKey)
			}
			states[id].Transitions[c] = targetID
		}
	}

	return DFA{States: states, Start: keyToID[startKey]}
}
