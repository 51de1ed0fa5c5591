package automaton

import (
	"sort"
	"strconv"
)

// Minimize collapses equivalent states of d via table-filling
// partition refinement (Dragon Book Algorithm 3.39, in its Moore
// formulation: start from one coarse partition and split until
// stable, rather than marking a pairwise table — the two are
// equivalent but splitting scales better for the state counts this
// package expects).
//
// States are never merged across different Token tags: a state
// accepting as KEYWORD and a state accepting as IDENT are
// distinguishable even if their outgoing transitions coincide,
// because collapsing them would silently drop which pattern should
// win when two token types can both accept the same input.
func Minimize(d DFA) DFA {
	alphabet := d.Alphabet()

	groupOf := make([]int, len(d.States))
	groups := partitionInitial(d)
	assignGroups(groupOf, groups)

	for {
		newGroups := splitGroups(d, groups, groupOf, alphabet)
		if len(newGroups) == len(groups) {
			groups = newGroups
			break
		}
		groups = newGroups
		assignGroups(groupOf, groups)
	}

	return buildMinimized(d, groups, groupOf, alphabet)
}

// partitionInitial groups states by (accepting, token id) so that
// states accepting under different token types start out separated.
func partitionInitial(d DFA) [][]int {
	type key struct {
		accepting bool
		tokenID   int
	}
	buckets := map[key][]int{}
	for _, s := range d.States {
		k := key{accepting: s.Accepting}
		if s.Accepting && s.Token != nil {
			k.tokenID = s.Token.ID
		} else if s.Accepting {
			k.tokenID = -2 // accepting with no tag, distinct from any real id and from ERROR's -1
		}
		buckets[k] = append(buckets[k], s.ID)
	}

	groups := make([][]int, 0, len(buckets))
	for _, g := range buckets {
		sort.Ints(g)
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })
	return groups
}

func assignGroups(groupOf []int, groups [][]int) {
	for gi, g := range groups {
		for _, s := range g {
			groupOf[s] = gi
		}
	}
}

// splitGroups refines groups by transition signature: two states in
// the same group are kept together only if, for every alphabet
// character, they transition into the same group (or both lack a
// transition on that character).
func splitGroups(d DFA, groups [][]int, groupOf []int, alphabet []rune) [][]int {
	var refined [][]int

	for _, g := range groups {
		signature := func(state int) string {
			parts := make([]byte, 0, len(alphabet)*4)
			for _, c := range alphabet {
				to, ok := d.Next(state, c)
				if !ok {
					parts = append(parts, '-', ',')
					continue
				}
				parts = append(parts, []byte(strconv.Itoa(groupOf[to]))...)
				parts = append(parts, ',')
			}
			return string(parts)
		}

		buckets := map[string][]int{}
		for _, s := range g {
			sig := signature(s)
			buckets[sig] = append(buckets[sig], s)
		}

		if len(buckets) == 1 {
			refined = append(refined, g)
			continue
		}

		for _, sub := range buckets {
			sort.Ints(sub)
			refined = append(refined, sub)
		}
	}

	sort.Slice(refined, func(i, j int) bool { return refined[i][0] < refined[j][0] })
	return refined
}

func buildMinimized(d DFA, groups [][]int, groupOf []int, alphabet []rune) DFA {
	states := make([]DFAState, len(groups))

	for gi, g := range groups {
		rep := d.States[g[0]]
		states[gi] = DFAState{
			ID:          gi,
			NFASet:      rep.NFASet,
			Transitions: map[rune]int{},
			Accepting:   rep.Accepting,
			Token:       rep.Token,
		}
		for _, c := range alphabet {
			if to, ok := d.Next(g[0], c); ok {
				states[gi].Transitions[c] = groupOf[to]
			}
		}
	}

	return DFA{States: states, Start: groupOf[d.Start]}
}
