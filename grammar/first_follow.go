package grammar

import "github.com/dekarrin/langcore/types"

// FirstSets and FollowSets compute FIRST and FOLLOW by explicit
// growth-until-fixpoint worklist iteration rather than the more
// usual memoized recursion: both keep looping over every rule,
// adding to the running sets, until a full pass adds nothing new.
// Recursion on a grammar with left recursion (A -> A α) has to grow
// extra machinery (a visited-set guard) just to terminate; the
// explicit loop terminates for free because each set only ever
// grows and every symbol's set is bounded by the grammar's own
// vocabulary, so the pass-with-no-change fixpoint is always reached.

// FirstSets computes FIRST(X) for every terminal and nonterminal X of
// g, returned as a map from symbol name to its FIRST set (itself a
// set of symbol names, represented as a map[string]bool; Epsilon is a
// member like any other name when X is nullable).
func FirstSets(g *Grammar) map[string]map[string]bool {
	first := map[string]map[string]bool{}

	for _, name := range g.Terminals() {
		first[name] = map[string]bool{name: true}
	}
	first[Epsilon] = map[string]bool{Epsilon: true}
	first[types.EndOfInput.Name] = map[string]bool{types.EndOfInput.Name: true}
	for _, nt := range g.NonTerminals() {
		first[nt] = map[string]bool{}
	}

	add := func(set map[string]bool, name string) bool {
		if set[name] {
			return false
		}
		set[name] = true
		return true
	}

	for {
		changed := false

		for _, r := range g.Rules() {
			ntFirst := first[r.NonTerminal]

			for _, p := range r.Productions {
				if p.IsEpsilon() {
					if add(ntFirst, Epsilon) {
						changed = true
					}
					continue
				}

				allNullable := true
				for _, sym := range p {
					symFirst := first[sym]
					for c := range symFirst {
						if c == Epsilon {
							continue
						}
						if add(ntFirst, c) {
							changed = true
						}
					}
					if !symFirst[Epsilon] {
						allNullable = false
						break
					}
				}
				if allNullable {
					if add(ntFirst, Epsilon) {
						changed = true
					}
				}
			}
		}

		if !changed {
			break
		}
	}

	return first
}

// FirstOfSequence returns FIRST(X1 X2 ... Xn) for a sequence of
// symbols, using an already-computed FirstSets result: the union of
// FIRST(X1), and FIRST(X2) if X1 is nullable, and so on, with Epsilon
// included only if every symbol in seq is nullable (including the
// empty sequence, whose FIRST is {Epsilon} by convention).
func FirstOfSequence(seq []string, first map[string]map[string]bool) map[string]bool {
	result := map[string]bool{}

	allNullable := true
	for _, sym := range seq {
		symFirst := first[sym]
		for c := range symFirst {
			if c != Epsilon {
				result[c] = true
			}
		}
		if !symFirst[Epsilon] {
			allNullable = false
			break
		}
	}
	if allNullable {
		result[Epsilon] = true
	}

	return result
}

// FollowSets computes FOLLOW(A) for every nonterminal A of g, given an
// already-computed FirstSets result, by the same explicit
// growth-until-fixpoint worklist as FirstSets.
func FollowSets(g *Grammar, first map[string]map[string]bool) map[string]map[string]bool {
	follow := map[string]map[string]bool{}
	for _, nt := range g.NonTerminals() {
		follow[nt] = map[string]bool{}
	}

	add := func(set map[string]bool, name string) bool {
		if set[name] {
			return false
		}
		set[name] = true
		return true
	}

	if g.Start != "" {
		add(follow[g.Start], types.EndOfInput.Name)
	}

	for {
		changed := false

		for _, r := range g.Rules() {
			for _, p := range r.Productions {
				if p.IsEpsilon() {
					continue
				}
				for i, sym := range p {
					if !g.IsNonTerminal(sym) {
						continue
					}

					rest := p[i+1:]
					restFirst := FirstOfSequence(rest, first)

					for c := range restFirst {
						if c == Epsilon {
							continue
						}
						if add(follow[sym], c) {
							changed = true
						}
					}

					if restFirst[Epsilon] {
						for c := range follow[r.NonTerminal] {
							if add(follow[sym], c) {
								changed = true
							}
						}
					}
				}
			}
		}

		if !changed {
			break
		}
	}

	return follow
}
