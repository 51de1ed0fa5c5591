package regex

import (
	"github.com/dekarrin/langcore/automaton"
	"github.com/dekarrin/langcore/types"
)

// fragment is an NFA-under-construction: a single entry state and a
// single exit state, per Thompson's invariant that every subexpression
// compiles to a fragment with exactly one exit, which is what lets
// createJuxtapositionFA/createAlternationFA/createKleeneStarFA below
// stitch fragments together by epsilon edges alone. Fragment states
// are all created non-accepting; Compile marks only the final exit as
// accepting.
type fragment struct {
	start int
	end   int
}

// createSingleSymbolFA builds the two-state, one-transition fragment
// for a single literal symbol.
func createSingleSymbolFA(b *automaton.Builder, symbol rune) fragment {
	start := b.AddState(false)
	end := b.AddState(false)
	b.AddTransition(start, symbol, end)
	return fragment{start: start, end: end}
}

// createJuxtapositionFA concatenates left then right: left's exit
// gains an epsilon edge into right's start.
func createJuxtapositionFA(b *automaton.Builder, left, right fragment) fragment {
	b.AddEpsilon(left.end, right.start)
	return fragment{start: left.start, end: right.end}
}

// createAlternationFA builds s|t: a fresh start epsilon-branches into
// both operands, and both operands epsilon-join into a fresh end.
func createAlternationFA(b *automaton.Builder, left, right fragment) fragment {
	start := b.AddState(false)
	end := b.AddState(false)
	b.AddEpsilon(start, left.start)
	b.AddEpsilon(start, right.start)
	b.AddEpsilon(left.end, end)
	b.AddEpsilon(right.end, end)
	return fragment{start: start, end: end}
}

// createKleeneStarFA builds expr*: a fresh start/end pair that can
// skip expr entirely (start -> end) or loop through it any number of
// times (expr.end -> expr.start), per Algorithm 3.23 case (d).
func createKleeneStarFA(b *automaton.Builder, expr fragment) fragment {
	start := b.AddState(false)
	end := b.AddState(false)
	b.AddEpsilon(start, expr.start)
	b.AddEpsilon(start, end)
	b.AddEpsilon(expr.end, expr.start)
	b.AddEpsilon(expr.end, end)
	return fragment{start: start, end: end}
}

// createPlusFA builds expr+: one mandatory pass through expr, then
// the same loop-or-exit choice the star construction offers, but
// without the "skip expr entirely" edge.
func createPlusFA(b *automaton.Builder, expr fragment) fragment {
	end := b.AddState(false)
	b.AddEpsilon(expr.end, expr.start)
	b.AddEpsilon(expr.end, end)
	return fragment{start: expr.start, end: end}
}

// createOptionalFA builds expr?: a fresh start/end that can either
// skip expr or pass through it exactly once.
func createOptionalFA(b *automaton.Builder, expr fragment) fragment {
	start := b.AddState(false)
	end := b.AddState(false)
	b.AddEpsilon(start, expr.start)
	b.AddEpsilon(start, end)
	b.AddEpsilon(expr.end, end)
	return fragment{start: start, end: end}
}

// Compile parses pattern per this package's supported syntax and
// builds a Thompson-construction NFA whose unique accepting state is
// tagged with tt, ready to be combined with other compiled patterns
// via automaton.Merge and determinized via automaton.Determinize.
func Compile(pattern string, tt types.TokenType) (automaton.NFA, error) {
	postfix, err := Normalize(pattern)
	if err != nil {
		if mpe, ok := err.(*types.MalformedPatternError); ok && mpe.Pattern == "" {
			mpe.Pattern = pattern
		}
		return automaton.NFA{}, err
	}

	b := automaton.NewBuilder()
	var stack []fragment

	pop := func() fragment {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return top
	}

	for _, t := range postfix {
		switch t.kind {
		case tokLiteral:
			stack = append(stack, createSingleSymbolFA(b, t.literal))
		case tokConcat:
			right := pop()
			left := pop()
			stack = append(stack, createJuxtapositionFA(b, left, right))
		case tokAlt:
			right := pop()
			left := pop()
			stack = append(stack, createAlternationFA(b, left, right))
		case tokStar:
			expr := pop()
			stack = append(stack, createKleeneStarFA(b, expr))
		case tokPlus:
			expr := pop()
			stack = append(stack, createPlusFA(b, expr))
		case tokQuestion:
			expr := pop()
			stack = append(stack, createOptionalFA(b, expr))
		default:
			return automaton.NFA{}, &types.MalformedPatternError{Pattern: pattern, Reason: "unexpected token in postfix stream"}
		}
	}

	if len(stack) != 1 {
		return automaton.NFA{}, &types.MalformedPatternError{Pattern: pattern, Reason: "postfix stack did not collapse to a single expression"}
	}

	result := pop()
	b.Tag(result.end, tt)

	return b.Build(result.start), nil
}
