package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/langcore/types"
)

// MustParse is Parse, panicking on error — for tests and other
// call sites that hand-write a grammar literal and know it to be
// well-formed.
func MustParse(text string) *Grammar {
	g, err := Parse(text)
	if err != nil {
		panic(err.Error())
	}
	return g
}

// Parse builds a Grammar from a compact textual notation: one rule
// per ';'-terminated clause, "NONTERM -> SYM SYM | SYM ..." with
// alternatives separated by '|' and symbols within an alternative
// separated by whitespace. Per the convention this format is
// patterned on, a symbol written in lowercase is a terminal and one
// written in any other case is a nonterminal; "" (an empty
// alternative) is epsilon. The first rule's left-hand nonterminal
// becomes the grammar's Start symbol. Every terminal encountered is
// auto-registered with a TokenType whose ID is its order of first
// appearance — callers that need specific TokenType ids should build
// the Grammar with New/AddTerm/AddRule directly instead.
func Parse(text string) (*Grammar, error) {
	g := New()

	clauses := strings.Split(text, ";")
	nextTermID := 0

	for _, clause := range clauses {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}

		sides := strings.SplitN(clause, "->", 2)
		if len(sides) != 2 {
			return nil, fmt.Errorf("not a rule of the form \"NONTERM -> SYMBOL SYMBOL | SYMBOL ...\": %q", clause)
		}

		nonTerminal := strings.TrimSpace(sides[0])
		if nonTerminal == "" {
			return nil, fmt.Errorf("rule has no left-hand nonterminal: %q", clause)
		}

		if g.Start == "" {
			g.Start = nonTerminal
		}

		alts := strings.Split(sides[1], "|")
		productions := make([]Production, 0, len(alts))

		for _, alt := range alts {
			alt = strings.TrimSpace(alt)
			if alt == "" {
				productions = append(productions, Production{Epsilon})
				continue
			}

			symbols := strings.Fields(alt)
			prod := make(Production, len(symbols))
			for i, sym := range symbols {
				prod[i] = sym
				if isTerminalName(sym) {
					if _, known := g.terminals[sym]; !known {
						g.AddTerm(sym, types.TokenType{ID: nextTermID, Name: sym})
						nextTermID++
					}
				}
			}
			productions = append(productions, prod)
		}

		existing, hasExisting := g.Rule(nonTerminal)
		if hasExisting {
			productions = append(existing.Productions, productions...)
		}
		g.AddRule(nonTerminal, productions...)
	}

	return g, nil
}

// isTerminalName reports whether sym follows the lowercase-is-terminal
// naming convention this parser uses.
func isTerminalName(sym string) bool {
	return strings.ToLower(sym) == sym
}
