package grammar

import (
	"fmt"
	"strings"
)

// LR0Item is a dotted production A -> α.β: Left holds the symbols
// already before the dot, Right the symbols still to come. Splitting
// the production this way (rather than storing one slice plus a dot
// index) is what this package's construction is grounded on; it keeps
// Equal/String simple slice comparisons instead of index arithmetic.
type LR0Item struct {
	NonTerminal string
	Left        []string
	Right       []string
}

// Equal reports whether lr0 and o are the same dotted production.
func (lr0 LR0Item) Equal(o LR0Item) bool {
	if lr0.NonTerminal != o.NonTerminal {
		return false
	}
	if len(lr0.Left) != len(o.Left) || len(lr0.Right) != len(o.Right) {
		return false
	}
	for i := range lr0.Left {
		if lr0.Left[i] != o.Left[i] {
			return false
		}
	}
	for i := range lr0.Right {
		if lr0.Right[i] != o.Right[i] {
			return false
		}
	}
	return true
}

// AtEnd reports whether the dot is after the last symbol (Right is
// empty): the item is a completed production, a candidate for
// reduction.
func (lr0 LR0Item) AtEnd() bool {
	return len(lr0.Right) == 0
}

// NextSymbol returns the symbol immediately after the dot and true,
// or ("", false) if the dot is at the end.
func (lr0 LR0Item) NextSymbol() (string, bool) {
	if lr0.AtEnd() {
		return "", false
	}
	return lr0.Right[0], true
}

// Advance returns the item with the dot moved one symbol to the
// right, for use by GOTO when that next symbol has just been shifted.
func (lr0 LR0Item) Advance() LR0Item {
	if lr0.AtEnd() {
		return lr0
	}
	left := make([]string, len(lr0.Left)+1)
	copy(left, lr0.Left)
	left[len(lr0.Left)] = lr0.Right[0]
	right := make([]string, len(lr0.Right)-1)
	copy(right, lr0.Right[1:])
	return LR0Item{NonTerminal: lr0.NonTerminal, Left: left, Right: right}
}

// Production reassembles the full right-hand side Left+Right, ignoring
// the dot position.
func (lr0 LR0Item) Production() Production {
	if len(lr0.Left) == 0 && len(lr0.Right) == 0 {
		return Production{Epsilon}
	}
	p := make(Production, 0, len(lr0.Left)+len(lr0.Right))
	p = append(p, lr0.Left...)
	p = append(p, lr0.Right...)
	return p
}

func (lr0 LR0Item) String() string {
	var sb strings.Builder
	sb.WriteString(lr0.NonTerminal)
	sb.WriteString(" -> ")
	sb.WriteString(strings.Join(lr0.Left, " "))
	if len(lr0.Left) > 0 {
		sb.WriteRune(' ')
	}
	sb.WriteRune('.')
	if len(lr0.Right) > 0 {
		sb.WriteRune(' ')
		sb.WriteString(strings.Join(lr0.Right, " "))
	}
	return sb.String()
}

// LR1Item pairs an LR0Item with a single lookahead terminal, the unit
// of the canonical LR(1) collection (package lr).
type LR1Item struct {
	LR0Item
	Lookahead string
}

// Equal reports whether lr1 and o are the same dotted production with
// the same lookahead.
func (lr1 LR1Item) Equal(o LR1Item) bool {
	return lr1.LR0Item.Equal(o.LR0Item) && lr1.Lookahead == o.Lookahead
}

func (lr1 LR1Item) String() string {
	return fmt.Sprintf("[%s, %s]", lr1.LR0Item.String(), lr1.Lookahead)
}

// CoreSet projects a set of LR1 items down to their LR0 cores —
// dotted productions with lookaheads stripped — keyed by each core's
// String() form so that items sharing a core collapse to one entry.
// Used to decide whether two canonical LR(1) states share a kernel
// and should be merged into one LALR(1) state.
func CoreSet(items []LR1Item) map[string]LR0Item {
	cores := make(map[string]LR0Item, len(items))
	for _, it := range items {
		cores[it.LR0Item.String()] = it.LR0Item
	}
	return cores
}

// EqualCoreSets reports whether a and b contain exactly the same LR0
// cores.
func EqualCoreSets(a, b map[string]LR0Item) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// InitialItems returns A -> .α for each production α of nonTerminal's
// rule: the starting dotted items CLOSURE begins from.
func InitialItems(g *Grammar, nonTerminal string) []LR0Item {
	r, ok := g.Rule(nonTerminal)
	if !ok {
		return nil
	}
	items := make([]LR0Item, 0, len(r.Productions))
	for _, p := range r.Productions {
		if p.IsEpsilon() {
			items = append(items, LR0Item{NonTerminal: nonTerminal, Left: nil, Right: nil})
			continue
		}
		right := make([]string, len(p))
		copy(right, p)
		items = append(items, LR0Item{NonTerminal: nonTerminal, Left: nil, Right: right})
	}
	return items
}
