package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/langcore/types"
)

// Rule is one nonterminal and all of its alternative right-hand
// sides, in declaration order — order matters later, since the
// default reduce/reduce conflict resolution policy (package lr)
// prefers the earliest-declared production.
type Rule struct {
	NonTerminal string
	Productions []Production
}

// Copy returns an independent copy of r.
func (r Rule) Copy() Rule {
	cp := Rule{NonTerminal: r.NonTerminal, Productions: make([]Production, len(r.Productions))}
	for i, p := range r.Productions {
		cp.Productions[i] = p.Copy()
	}
	return cp
}

func (r Rule) String() string {
	alts := make([]string, len(r.Productions))
	for i, p := range r.Productions {
		alts[i] = p.String()
	}
	return fmt.Sprintf("%s -> %s", r.NonTerminal, strings.Join(alts, " | "))
}

// Grammar is a context-free grammar: a set of Rules, a table of
// terminal symbols and their token types, and a start symbol.
type Grammar struct {
	rules       []Rule
	rulesByName map[string]int
	terminals   map[string]types.TokenType
	Start       string
}

// New returns an empty Grammar; rules and terminals are added with
// AddRule and AddTerm.
func New() *Grammar {
	return &Grammar{
		rulesByName: map[string]int{},
		terminals:   map[string]types.TokenType{},
	}
}

// AddTerm declares name as a terminal symbol with the given token
// type.
func (g *Grammar) AddTerm(name string, tt types.TokenType) {
	g.terminals[name] = tt
}

// AddRule adds or replaces the rule for nonTerminal.
func (g *Grammar) AddRule(nonTerminal string, productions ...Production) {
	r := Rule{NonTerminal: nonTerminal, Productions: productions}
	if idx, ok := g.rulesByName[nonTerminal]; ok {
		g.rules[idx] = r
		return
	}
	g.rulesByName[nonTerminal] = len(g.rules)
	g.rules = append(g.rules, r)
}

// Rule returns the rule for nonTerminal and whether it exists.
func (g *Grammar) Rule(nonTerminal string) (Rule, bool) {
	idx, ok := g.rulesByName[nonTerminal]
	if !ok {
		return Rule{}, false
	}
	return g.rules[idx], true
}

// Rules returns every rule, in declaration order.
func (g *Grammar) Rules() []Rule {
	return g.rules
}

// Term returns the token type of terminal name and whether it exists.
func (g *Grammar) Term(name string) (types.TokenType, bool) {
	tt, ok := g.terminals[name]
	return tt, ok
}

// IsTerminal reports whether name is a declared terminal, including
// the distinguished Epsilon and EndOfInput symbols.
func (g *Grammar) IsTerminal(name string) bool {
	if name == Epsilon || name == types.EndOfInput.Name {
		return true
	}
	_, ok := g.terminals[name]
	return ok
}

// IsNonTerminal reports whether name has a rule defining it.
func (g *Grammar) IsNonTerminal(name string) bool {
	_, ok := g.rulesByName[name]
	return ok
}

// NonTerminals returns every nonterminal name, in declaration order.
func (g *Grammar) NonTerminals() []string {
	names := make([]string, len(g.rules))
	for i, r := range g.rules {
		names[i] = r.NonTerminal
	}
	return names
}

// Terminals returns every terminal name, sorted for deterministic
// iteration (e.g. when filling an ACTION table column by column).
func (g *Grammar) Terminals() []string {
	names := make([]string, 0, len(g.terminals))
	for name := range g.terminals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// augmentedStartSuffix is what GenerateUniqueNonTerminal appends to
// build the synthetic start-symbol name Augmented adds.
const augmentedStartSuffix = "-P"

// GenerateUniqueNonTerminal returns a name derived from base that
// names no existing nonterminal, by appending "-P" until it is
// unique — e.g. for constructing an augmented start symbol.
func (g *Grammar) GenerateUniqueNonTerminal(base string) string {
	name := base
	for g.IsNonTerminal(name) {
		name += augmentedStartSuffix
	}
	return name
}

// Augmented returns a copy of g with a fresh start symbol S' and the
// single production S' -> S, required before LR(1)/LALR(1)
// construction can build a canonical accepting state ([S' -> S ., $]).
// g itself is left unmodified.
func (g *Grammar) Augmented() *Grammar {
	cp := g.Copy()
	newStart := cp.GenerateUniqueNonTerminal(cp.Start)
	cp.AddRule(newStart, Production{cp.Start})
	cp.Start = newStart
	return cp
}

// Copy returns an independent deep copy of g.
func (g *Grammar) Copy() *Grammar {
	cp := New()
	cp.Start = g.Start
	for name, tt := range g.terminals {
		cp.terminals[name] = tt
	}
	for _, r := range g.rules {
		rCopy := r.Copy()
		cp.rulesByName[rCopy.NonTerminal] = len(cp.rules)
		cp.rules = append(cp.rules, rCopy)
	}
	return cp
}

// Validate checks the well-formedness invariants required before
// FIRST/FOLLOW or LR(1) construction can proceed: every symbol named
// on the right of some production is either a declared terminal or a
// defined nonterminal, and Start names a defined nonterminal.
func (g *Grammar) Validate() error {
	if g.Start == "" {
		return &types.GrammarWellFormednessError{Reason: "no start symbol set"}
	}
	if !g.IsNonTerminal(g.Start) {
		return &types.GrammarWellFormednessError{Reason: fmt.Sprintf("start symbol %q is not a defined nonterminal", g.Start)}
	}

	for _, r := range g.rules {
		for _, p := range r.Productions {
			if p.IsEpsilon() {
				continue
			}
			for _, sym := range p {
				if !g.IsTerminal(sym) && !g.IsNonTerminal(sym) {
					return &types.GrammarWellFormednessError{
						Reason: fmt.Sprintf("symbol %q in production %s of rule %s is neither a declared terminal nor a defined nonterminal", sym, p, r.NonTerminal),
					}
				}
			}
		}
	}

	return nil
}

func (g *Grammar) String() string {
	var sb strings.Builder
	for i, r := range g.rules {
		sb.WriteString(r.String())
		if i+1 < len(g.rules) {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}
