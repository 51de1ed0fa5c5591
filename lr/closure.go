// Package lr builds the canonical LR(1) item collection and the
// LALR(1) ACTION/GOTO tables from it (merging canonical states by
// core-kernel equality, the same construction the automaton package
// this module is patterned on uses, rather than resurrecting that
// package's separate, never-finished efficient-kernel-merge algorithm
// for computing lookaheads directly). The shift/reduce engine that
// drives a token stream against a built Table is in package parse.
package lr

import (
	"sort"
	"strings"

	"github.com/dekarrin/langcore/grammar"
	"github.com/dekarrin/langcore/types"
)

// itemSet is a set of LR1Items keyed by their String() form, used
// throughout CLOSURE/GOTO construction for membership tests and
// deduplication.
type itemSet map[string]grammar.LR1Item

func newItemSet(items ...grammar.LR1Item) itemSet {
	s := make(itemSet, len(items))
	for _, it := range items {
		s[it.String()] = it
	}
	return s
}

func (s itemSet) add(it grammar.LR1Item) bool {
	key := it.String()
	if _, ok := s[key]; ok {
		return false
	}
	s[key] = it
	return true
}

func (s itemSet) sortedItems() []grammar.LR1Item {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	items := make([]grammar.LR1Item, len(keys))
	for i, k := range keys {
		items[i] = s[k]
	}
	return items
}

// coreKey returns the canonical key of a state's LR0 core — its
// dotted productions with lookaheads stripped, via grammar.CoreSet —
// used to merge canonical LR(1) states into LALR(1) states whenever
// two canonical states share the same core (Dragon Book Algorithm
// 4.63's criterion, applied here by post-hoc merging rather than the
// efficient direct-construction algorithm).
func coreKey(items []grammar.LR1Item) string {
	cores := grammar.CoreSet(items)
	keys := make([]string, 0, len(cores))
	for k := range cores {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, "\x00")
}

// closure computes CLOSURE(items) per Dragon Book Algorithm 4.56: for
// every item [A -> α.Bβ, a] with B a nonterminal, add [B -> .γ, b] for
// every production B -> γ and every terminal b in FIRST(βa), until no
// more items can be added.
func closure(g *grammar.Grammar, items []grammar.LR1Item, first map[string]map[string]bool) []grammar.LR1Item {
	set := newItemSet(items...)
	worklist := append([]grammar.LR1Item(nil), items...)

	for len(worklist) > 0 {
		it := worklist[0]
		worklist = worklist[1:]

		nextSym, ok := it.NextSymbol()
		if !ok || !g.IsNonTerminal(nextSym) {
			continue
		}

		beta := it.Right[1:]
		lookaheads := grammar.FirstOfSequence(append(append([]string{}, beta...), it.Lookahead), first)

		for _, prodItem := range grammar.InitialItems(g, nextSym) {
			for la := range lookaheads {
				if la == grammar.Epsilon {
					continue
				}
				newItem := grammar.LR1Item{LR0Item: prodItem, Lookahead: la}
				if set.add(newItem) {
					worklist = append(worklist, newItem)
				}
			}
		}
	}

	return set.sortedItems()
}

// gotoSet computes GOTO(items, symbol): advance the dot over symbol in
// every item of items that has symbol next, then close the result.
func gotoSet(g *grammar.Grammar, items []grammar.LR1Item, symbol string, first map[string]map[string]bool) []grammar.LR1Item {
	var moved []grammar.LR1Item
	for _, it := range items {
		next, ok := it.NextSymbol()
		if ok && next == symbol {
			moved = append(moved, grammar.LR1Item{LR0Item: it.Advance(), Lookahead: it.Lookahead})
		}
	}
	if len(moved) == 0 {
		return nil
	}
	return closure(g, moved, first)
}

// symbolsOf returns every terminal and nonterminal name declared in g,
// in a stable order, for GOTO construction to iterate over.
func symbolsOf(g *grammar.Grammar) []string {
	syms := append([]string{}, g.Terminals()...)
	syms = append(syms, g.NonTerminals()...)
	return syms
}

// ItemState is one node of the canonical LR(1) (or, once merged,
// LALR(1)) collection: the set of LR1 items reachable via the same
// sequence of GOTO moves from the start state.
type ItemState struct {
	ID    int
	Items []grammar.LR1Item
}

// Automaton is a built LR(1) viable-prefix collection — either the
// canonical one from BuildCanonicalLR1, or (internally) its
// core-kernel-merged LALR(1) counterpart — plus the GOTO transition
// function between its states.
type Automaton struct {
	States      []ItemState
	Start       int
	Transitions map[int]map[string]int
}

// BuildCanonicalLR1 constructs the canonical LR(1) item collection
// for g: g is augmented internally (a fresh start symbol S' -> S is
// added; g itself is not modified), then CLOSURE/GOTO are applied
// until no new state appears (Dragon Book Algorithm 4.56, "items(G')").
// This is the full, unmerged collection; BuildLALR merges states of
// this same construction by core kernel to build its ACTION/GOTO
// table, so every LALR(1) state's kernel is the union of one or more
// of this collection's state kernels sharing the same core.
func BuildCanonicalLR1(g *grammar.Grammar) Automaton {
	ag := g.Augmented()
	first := grammar.FirstSets(ag)
	return *buildCanonicalCollection(ag, first)
}

// buildCanonicalCollection runs the canonical LR(1) construction
// (Dragon Book Algorithm 4.56, "items(G')") over augmented grammar ag:
// starting from CLOSURE({[S' -> .S, $]}), repeatedly compute GOTO for
// every state and every symbol until no new state appears.
func buildCanonicalCollection(ag *grammar.Grammar, first map[string]map[string]bool) *Automaton {
	startItem := grammar.LR1Item{
		LR0Item:   grammar.InitialItems(ag, ag.Start)[0],
		Lookahead: types.EndOfInput.Name,
	}
	startItems := closure(ag, []grammar.LR1Item{startItem}, first)

	col := &Automaton{Transitions: map[int]map[string]int{}}
	keyToID := map[string]int{}

	addState := func(items []grammar.LR1Item) int {
		id := len(col.States)
		col.States = append(col.States, ItemState{ID: id, Items: items})
		keyToID[itemsKey(items)] = id
		return id
	}

	startKey := itemsKey(startItems)
	col.Start = addState(startItems)
	keyToID[startKey] = col.Start

	symbols := symbolsOf(ag)
	worklist := []int{col.Start}

	for len(worklist) > 0 {
		id := worklist[0]
		worklist = worklist[1:]
		items := col.States[id].Items

		for _, sym := range symbols {
			target := gotoSet(ag, items, sym, first)
			if len(target) == 0 {
				continue
			}
			key := itemsKey(target)
			targetID, exists := keyToID[key]
			if !exists {
				targetID = addState(target)
				worklist = append(worklist, targetID)
			}
			if col.Transitions[id] == nil {
				col.Transitions[id] = map[string]int{}
			}
			col.Transitions[id][sym] = targetID
		}
	}

	return col
}

func itemsKey(items []grammar.LR1Item) string {
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.String()
	}
	sort.Strings(keys)
	return strings.Join(keys, "\x00")
}
