package lr

import (
	"fmt"
	"sort"

	"github.com/dekarrin/langcore/grammar"
	"github.com/dekarrin/langcore/types"
	"github.com/dekarrin/rosed"
)

// ActionType distinguishes the four things an ACTION table entry can
// tell the shift/reduce engine to do.
type ActionType int

const (
	ActionError ActionType = iota
	ActionShift
	ActionReduce
	ActionAccept
)

func (t ActionType) String() string {
	switch t {
	case ActionShift:
		return "shift"
	case ActionReduce:
		return "reduce"
	case ActionAccept:
		return "accept"
	default:
		return "error"
	}
}

// Action is one ACTION table entry.
type Action struct {
	Type ActionType

	// ShiftState is the state to push, set only when Type is
	// ActionShift.
	ShiftState int

	// ReduceNonTerminal and ReduceProduction identify the production
	// to reduce by, set only when Type is ActionReduce.
	ReduceNonTerminal string
	ReduceProduction  grammar.Production
}

func (a Action) String() string {
	switch a.Type {
	case ActionShift:
		return fmt.Sprintf("shift %d", a.ShiftState)
	case ActionReduce:
		return fmt.Sprintf("reduce %s -> %s", a.ReduceNonTerminal, a.ReduceProduction)
	case ActionAccept:
		return "accept"
	default:
		return "error"
	}
}

// Table is a built ACTION/GOTO table: ACTION[state][terminal] gives
// the next move, GOTO[state][nonTerminal] gives the state to
// transition to after a reduction exposes that nonterminal.
type Table struct {
	ACTION map[int]map[string]Action
	GOTO   map[int]map[string]int
	Start  int
}

// Action returns the ACTION table entry for (state, terminal), or the
// zero Action (Type ActionError) if none exists.
func (t *Table) Action(state int, terminal string) Action {
	return t.ACTION[state][terminal]
}

// Goto returns the GOTO table entry for (state, nonTerminal) and
// whether one exists.
func (t *Table) Goto(state int, nonTerminal string) (int, bool) {
	s, ok := t.GOTO[state][nonTerminal]
	return s, ok
}

// prodRank orders productions by declaration position (rule index,
// then production index within the rule) so the "earliest-declared
// production wins" reduce/reduce default policy has something
// concrete to compare.
type prodRank struct {
	ruleIdx int
	prodIdx int
}

func (a prodRank) less(b prodRank) bool {
	if a.ruleIdx != b.ruleIdx {
		return a.ruleIdx < b.ruleIdx
	}
	return a.prodIdx < b.prodIdx
}

func rankOf(g *grammar.Grammar, nonTerminal string, prod grammar.Production) prodRank {
	for ri, r := range g.Rules() {
		if r.NonTerminal != nonTerminal {
			continue
		}
		for pi, p := range r.Productions {
			if p.Equal(prod) {
				return prodRank{ruleIdx: ri, prodIdx: pi}
			}
		}
	}
	return prodRank{ruleIdx: len(g.Rules()), prodIdx: 0}
}

// BuildLALR constructs the LALR(1) ACTION/GOTO table for g. g is
// augmented internally (a fresh start symbol S' -> S is added; g
// itself is not modified). Table construction always completes: a
// colliding ACTION entry is resolved by the documented default policy
// — shift wins a shift/reduce conflict, the earliest-declared
// production wins a reduce/reduce conflict — and every collision is
// also recorded as a types.Conflict rather than aborting the build.
func BuildLALR(g *grammar.Grammar) (*Table, []types.Conflict) {
	ag := g.Augmented()
	first := grammar.FirstSets(ag)

	col := buildLALRCollection(ag, first)

	table := &Table{
		ACTION: map[int]map[string]Action{},
		GOTO:   map[int]map[string]int{},
		Start:  col.Start,
	}

	var conflicts []types.Conflict

	setAction := func(stateID int, symbol string, next Action) {
		if table.ACTION[stateID] == nil {
			table.ACTION[stateID] = map[string]Action{}
		}
		existing, has := table.ACTION[stateID][symbol]
		if !has || existing.Type == ActionError {
			table.ACTION[stateID][symbol] = next
			return
		}
		if existing.Type == next.Type && actionsEqual(existing, next) {
			return
		}

		switch {
		case existing.Type == ActionShift && next.Type == ActionReduce:
			conflicts = append(conflicts, types.Conflict{
				Kind:                types.ShiftReduceConflict,
				State:               stateID,
				Symbol:              types.NewTerminal(symbol),
				ShiftTarget:         existing.ShiftState,
				ReducingProductions: []string{next.ReduceNonTerminal + " -> " + next.ReduceProduction.String()},
			})
			// keep existing (shift wins)
		case existing.Type == ActionReduce && next.Type == ActionShift:
			conflicts = append(conflicts, types.Conflict{
				Kind:                types.ShiftReduceConflict,
				State:               stateID,
				Symbol:              types.NewTerminal(symbol),
				ShiftTarget:         next.ShiftState,
				ReducingProductions: []string{existing.ReduceNonTerminal + " -> " + existing.ReduceProduction.String()},
			})
			table.ACTION[stateID][symbol] = next // shift wins
		case existing.Type == ActionReduce && next.Type == ActionReduce:
			existingRank := rankOf(ag, existing.ReduceNonTerminal, existing.ReduceProduction)
			nextRank := rankOf(ag, next.ReduceNonTerminal, next.ReduceProduction)

			firstProd := existing.ReduceNonTerminal + " -> " + existing.ReduceProduction.String()
			secondProd := next.ReduceNonTerminal + " -> " + next.ReduceProduction.String()
			kept := existing
			if nextRank.less(existingRank) {
				firstProd, secondProd = secondProd, firstProd
				kept = next
			}

			conflicts = append(conflicts, types.Conflict{
				Kind:                types.ReduceReduceConflict,
				State:               stateID,
				Symbol:              types.NewTerminal(symbol),
				ReducingProductions: []string{firstProd, secondProd},
			})
			table.ACTION[stateID][symbol] = kept
		default:
			// shift/shift, accept/anything: should not arise from a
			// deterministic GOTO function plus one reduce item per
			// (state, lookahead); leave the original action in place.
		}
	}

	for _, st := range col.States {
		for _, item := range st.Items {
			if item.AtEnd() {
				if item.NonTerminal == ag.Start {
					setAction(st.ID, item.Lookahead, Action{Type: ActionAccept})
					continue
				}
				setAction(st.ID, item.Lookahead, Action{
					Type:              ActionReduce,
					ReduceNonTerminal: item.NonTerminal,
					ReduceProduction:  item.Production(),
				})
				continue
			}

			nextSym, _ := item.NextSymbol()
			if !ag.IsTerminal(nextSym) {
				continue
			}
			target, ok := col.Transitions[st.ID][nextSym]
			if !ok {
				continue
			}
			setAction(st.ID, nextSym, Action{Type: ActionShift, ShiftState: target})
		}

		for sym, target := range col.Transitions[st.ID] {
			if ag.IsNonTerminal(sym) {
				if table.GOTO[st.ID] == nil {
					table.GOTO[st.ID] = map[string]int{}
				}
				table.GOTO[st.ID][sym] = target
			}
		}
	}

	return table, conflicts
}

func actionsEqual(a, b Action) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case ActionShift:
		return a.ShiftState == b.ShiftState
	case ActionReduce:
		return a.ReduceNonTerminal == b.ReduceNonTerminal && a.ReduceProduction.Equal(b.ReduceProduction)
	default:
		return true
	}
}

// String renders the ACTION/GOTO table as one row per state, columns
// for every terminal then every nonterminal, laid out as a text table
// by rosed.
func (t *Table) String() string {
	stateIDs := make([]int, 0, len(t.ACTION)+len(t.GOTO))
	seen := map[int]bool{}
	for s := range t.ACTION {
		if !seen[s] {
			seen[s] = true
			stateIDs = append(stateIDs, s)
		}
	}
	for s := range t.GOTO {
		if !seen[s] {
			seen[s] = true
			stateIDs = append(stateIDs, s)
		}
	}
	sort.Ints(stateIDs)

	termSet := map[string]bool{}
	for _, row := range t.ACTION {
		for sym := range row {
			termSet[sym] = true
		}
	}
	nonTermSet := map[string]bool{}
	for _, row := range t.GOTO {
		for sym := range row {
			nonTermSet[sym] = true
		}
	}
	terms := sortedKeysOf(termSet)
	nonTerms := sortedKeysOf(nonTermSet)

	header := append([]string{"STATE"}, terms...)
	header = append(header, nonTerms...)

	data := [][]string{header}
	for _, s := range stateIDs {
		row := make([]string, 0, len(header))
		row = append(row, fmt.Sprintf("%d", s))
		for _, term := range terms {
			if a, ok := t.ACTION[s][term]; ok {
				row = append(row, a.String())
			} else {
				row = append(row, "")
			}
		}
		for _, nt := range nonTerms {
			if target, ok := t.GOTO[s][nt]; ok {
				row = append(row, fmt.Sprintf("%d", target))
			} else {
				row = append(row, "")
			}
		}
		data = append(data, row)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{TableHeaders: true, NoTrailingLineSeparators: true}).
		String()
}

func sortedKeysOf(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
