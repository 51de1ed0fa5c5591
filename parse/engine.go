// Package parse implements the table-driven shift/reduce engine: given
// a built lr.Table and a token stream, it runs Dragon Book Algorithm
// 4.44 (the LR parsing algorithm) to decide whether the stream is a
// sentence of the grammar the table was built from.
package parse

import (
	"sort"

	"github.com/dekarrin/langcore/lr"
	"github.com/dekarrin/langcore/types"
)

// ReductionFunc, if supplied to Parse, is called once per reduce move
// with the nonterminal being reduced to and the number of right-hand
// side symbols popped (0 for an ε production). The production's
// symbols and the matched tokens are not passed. The
// reference parser this engine is grounded on leaves exactly this
// hook for a caller that wants to build a parse tree from the
// reduction sequence instead of just a yes/no answer; this engine
// stops at the hook and lets the caller decide what "building a tree"
// means for them.
type ReductionFunc func(nonTerminal string, productionLength int)

// Result is the outcome of driving a token stream through a Table.
type Result struct {
	Accepted bool

	// Err is set when Accepted is false and the stream failed before
	// the ACCEPT action was reached.
	Err *types.ParseError
}

// Parse drives tokens through table per Algorithm 4.44: a stack of
// state ids starting with the table's start state; at each step, look
// up ACTION(top, lookahead) and shift, reduce, accept, or fail
// accordingly, using GOTO after every reduction to find the state to
// push back on top of the exposed nonterminal.
func Parse(table *lr.Table, tokens []types.LexicalToken, onReduce ReductionFunc) Result {
	stack := []int{table.Start}
	pos := 0

	peek := func() (string, types.Symbol) {
		if pos >= len(tokens) {
			return types.EndOfInput.Name, types.EndOfInput
		}
		tok := tokens[pos]
		return tok.Type.Name, types.NewTerminal(tok.Type.Name)
	}

	for {
		top := stack[len(stack)-1]
		symbolName, symbol := peek()

		action := table.Action(top, symbolName)

		switch action.Type {
		case lr.ActionShift:
			stack = append(stack, action.ShiftState)
			pos++

		case lr.ActionReduce:
			n := len(action.ReduceProduction)
			if action.ReduceProduction.IsEpsilon() {
				n = 0
			}
			stack = stack[:len(stack)-n]

			exposed := stack[len(stack)-1]
			next, ok := table.Goto(exposed, action.ReduceNonTerminal)
			if !ok {
				return Result{Accepted: false, Err: &types.ParseError{
					State:  exposed,
					Symbol: types.NewNonterminal(action.ReduceNonTerminal),
				}}
			}
			stack = append(stack, next)

			if onReduce != nil {
				onReduce(action.ReduceNonTerminal, n)
			}

		case lr.ActionAccept:
			return Result{Accepted: true}

		default:
			return Result{Accepted: false, Err: &types.ParseError{
				State:    top,
				Symbol:   symbol,
				Expected: expectedSymbols(table, top),
			}}
		}
	}
}

// expectedSymbols lists every terminal that has a non-error ACTION
// entry in state, for building a helpful syntax-error message.
func expectedSymbols(table *lr.Table, state int) []types.Symbol {
	var names []string
	for sym, action := range table.ACTION[state] {
		if action.Type != lr.ActionError {
			names = append(names, sym)
		}
	}
	sort.Strings(names)

	expected := make([]types.Symbol, len(names))
	for i, name := range names {
		expected[i] = types.NewTerminal(name)
	}
	return expected
}
