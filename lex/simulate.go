// Package lex implements the maximal-munch DFA simulator that turns
// a determinized, minimized automaton.DFA and an input string into a
// token stream. It is the runtime counterpart to package regex
// (pattern -> NFA) and package automaton (NFA -> DFA): once a DFA has
// been built and minimized, this package is the only one that ever
// walks it against real input.
//
// The scan/discard/re-enter-scan loop below is grounded on the
// panic-mode recovery in the reference lexer's lazy, regexp-driven
// matcher: on a run of input no pattern can start matching, it is not
// reported one character at a time but accumulated into a single
// ERROR token, discarding runes until some suffix can match again (or
// input ends) — exactly the "discard one rune, retry the match" loop
// that implementation runs while lx.panicMode is set.
package lex

import (
	"github.com/dekarrin/langcore/automaton"
	"github.com/dekarrin/langcore/types"
)

// Tokenize runs maximal-munch tokenization of input against dfa,
// producing a LexicalToken per matched pattern occurrence and an
// ERROR LexicalToken covering each run of input no pattern can match.
// Tokenize never fails: lexical errors are data (per types.LexicalError's
// doc comment), folded into the returned stream rather than aborting it.
func Tokenize(dfa automaton.DFA, input string) []types.LexicalToken {
	var toks []types.LexicalToken

	runes := []rune(input)
	i := 0
	bytePos := 0

	for i < len(runes) {
		startByte := bytePos

		if length, tt, ok := longestMatch(dfa, runes[i:]); ok {
			lexeme := string(runes[i : i+length])
			toks = append(toks, types.LexicalToken{Lexeme: lexeme, Type: tt, Pos: startByte})
			i += length
			bytePos += len(lexeme)
			continue
		}

		errStart := i
		for i < len(runes) {
			if _, _, ok := longestMatch(dfa, runes[i:]); ok {
				break
			}
			i++
		}
		lexeme := string(runes[errStart:i])
		toks = append(toks, types.LexicalToken{Lexeme: lexeme, Type: types.ErrorTokenType, Pos: startByte})
		bytePos += len(lexeme)
	}

	return toks
}

// longestMatch walks dfa from its start state over runes as far as
// transitions allow, remembering the longest prefix at which the DFA
// was in an accepting state. This is maximal munch: a shorter
// accepting prefix is only used if no longer one exists.
func longestMatch(dfa automaton.DFA, runes []rune) (length int, tt types.TokenType, ok bool) {
	state := dfa.Start

	if dfa.IsAccepting(state) {
		length, tt, ok = 0, *dfa.States[state].Token, true
	}

	for idx, c := range runes {
		next, has := dfa.Next(state, c)
		if !has {
			break
		}
		state = next
		if dfa.IsAccepting(state) {
			length, tt, ok = idx+1, *dfa.States[state].Token, true
		}
	}

	return length, tt, ok
}

// ValidateToken reports whether lexeme, consumed in its entirety, is
// accepted by dfa, and if so which TokenType it accepts as. It is
// useful for checking a single candidate lexeme (e.g. a keyword list
// entry) against a built DFA without running full tokenization.
func ValidateToken(dfa automaton.DFA, lexeme string) (types.TokenType, bool) {
	state := dfa.Start
	for _, c := range lexeme {
		next, has := dfa.Next(state, c)
		if !has {
			return types.TokenType{}, false
		}
		state = next
	}
	if !dfa.IsAccepting(state) {
		return types.TokenType{}, false
	}
	return *dfa.States[state].Token, true
}
