// Package regex compiles a small, classic regular-expression syntax —
// literals, alternation (|), concatenation (implicit), the Kleene star
// (*), one-or-more (+), zero-or-one (?), and parenthesized grouping,
// with \ as an escape for a literal of any of those metacharacters —
// into a tagged automaton.NFA by Thompson construction (Algorithm 3.23,
// "The McNaughton-Yamada-Thompson algorithm", in the Dragon Book).
//
// This package is the fill-in for a stub left behind in the example
// this module is patterned on: a RegexToNFA that always returned an
// empty NFA, and Kleene-star/alternation builders that dereferenced a
// nil *NFA. The vocabulary here — createSingleSymbolFA,
// createJuxtapositionFA, createKleeneStarFA, createAlternationFA —
// deliberately matches that stub's, corrected to build against this
// module's int-indexed automaton.Builder arena instead of the
// generic string-keyed NFA the stub assumed.
package regex

import "github.com/dekarrin/langcore/types"

type tokenKind int

const (
	tokLiteral tokenKind = iota
	tokAlt               // |
	tokConcat             // implicit, inserted by Normalize
	tokStar               // *
	tokPlus                // +
	tokQuestion            // ?
	tokLParen
	tokRParen
)

type token struct {
	kind    tokenKind
	literal rune
}

// lex splits a pattern into literal and metacharacter tokens,
// honoring \ as an escape for a literal occurrence of any
// metacharacter (or of \ itself).
func lex(pattern string) ([]token, error) {
	var toks []token
	runes := []rune(pattern)

	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch c {
		case '\\':
			i++
			if i >= len(runes) {
				return nil, &types.MalformedPatternError{Pattern: pattern, Reason: "trailing escape character"}
			}
			toks = append(toks, token{kind: tokLiteral, literal: runes[i]})
		case '|':
			toks = append(toks, token{kind: tokAlt})
		case '*':
			toks = append(toks, token{kind: tokStar})
		case '+':
			toks = append(toks, token{kind: tokPlus})
		case '?':
			toks = append(toks, token{kind: tokQuestion})
		case '(':
			toks = append(toks, token{kind: tokLParen})
		case ')':
			toks = append(toks, token{kind: tokRParen})
		default:
			toks = append(toks, token{kind: tokLiteral, literal: c})
		}
	}

	return toks, nil
}

// endsValue and startsValue report whether a token can end (left
// context) or start (right context) an implicit concatenation: a
// literal, a closing paren, or a postfix unary operator (*, +, ?) all
// "leave a value behind"; an opening paren or a literal both "need a
// value next".
func endsValue(t token) bool {
	return t.kind == tokLiteral || t.kind == tokRParen || t.kind == tokStar || t.kind == tokPlus || t.kind == tokQuestion
}

func startsValue(t token) bool {
	return t.kind == tokLiteral || t.kind == tokLParen
}

// insertConcat walks toks left to right and inserts an explicit
// tokConcat wherever two adjacent tokens would otherwise need
// concatenation inferred from juxtaposition alone, e.g. "ab" is
// "a", concat, "b" and "(a|b)*c" is "(a|b)*", concat, "c".
func insertConcat(toks []token) []token {
	if len(toks) == 0 {
		return toks
	}

	out := make([]token, 0, len(toks)*2)
	out = append(out, toks[0])

	for i := 1; i < len(toks); i++ {
		prev := toks[i-1]
		cur := toks[i]
		if endsValue(prev) && startsValue(cur) {
			out = append(out, token{kind: tokConcat})
		}
		out = append(out, cur)
	}

	return out
}

// precedence ranks binary/postfix operators for the shunting-yard
// conversion: postfix unary (*, +, ?) binds tightest, then
// concatenation, then alternation loosest.
func precedence(k tokenKind) int {
	switch k {
	case tokStar, tokPlus, tokQuestion:
		return 3
	case tokConcat:
		return 2
	case tokAlt:
		return 1
	default:
		return 0
	}
}

func isUnaryPostfix(k tokenKind) bool {
	return k == tokStar || k == tokPlus || k == tokQuestion
}

// toPostfix runs the shunting-yard algorithm over toks (which must
// already have explicit concatenation tokens inserted), producing the
// pattern in postfix order for Compile's single left-to-right stack
// walk.
func toPostfix(toks []token) ([]token, error) {
	var output []token
	var opStack []token

	popToOutput := func() {
		top := opStack[len(opStack)-1]
		opStack = opStack[:len(opStack)-1]
		output = append(output, top)
	}

	for _, t := range toks {
		switch t.kind {
		case tokLiteral:
			output = append(output, t)
		case tokLParen:
			opStack = append(opStack, t)
		case tokRParen:
			found := false
			for len(opStack) > 0 {
				if opStack[len(opStack)-1].kind == tokLParen {
					opStack = opStack[:len(opStack)-1]
					found = true
					break
				}
				popToOutput()
			}
			if !found {
				return nil, &types.MalformedPatternError{Reason: "unbalanced parentheses"}
			}
		default:
			for len(opStack) > 0 {
				top := opStack[len(opStack)-1]
				if top.kind == tokLParen {
					break
				}
				if precedence(top.kind) < precedence(t.kind) {
					break
				}
				// left-associative: pop operators of >= precedence
				// before pushing this one. Postfix unary operators are
				// already maximal-binding since they never appear as
				// the "top" competing with a lower-precedence op in a
				// way that matters here.
				popToOutput()
			}
			opStack = append(opStack, t)
		}
	}

	for len(opStack) > 0 {
		top := opStack[len(opStack)-1]
		if top.kind == tokLParen {
			return nil, &types.MalformedPatternError{Reason: "unbalanced parentheses"}
		}
		popToOutput()
	}

	return output, nil
}

// Normalize converts an infix pattern into its postfix token sequence,
// inserting explicit concatenation and resolving operator precedence
// and parenthesized grouping so Compile can build the NFA with a
// single left-to-right stack walk over the result.
func Normalize(pattern string) ([]token, error) {
	if pattern == "" {
		return nil, &types.MalformedPatternError{Pattern: pattern, Reason: "empty pattern"}
	}

	toks, err := lex(pattern)
	if err != nil {
		return nil, err
	}

	toks = insertConcat(toks)

	return toPostfix(toks)
}
