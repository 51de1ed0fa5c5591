package types

import "fmt"

// TokenType is a (id, name) pair identifying a lexical pattern. Lower id
// is higher priority: when a DFA state is simultaneously accepting for
// several patterns, the one with the lowest id wins. Equality is by id.
type TokenType struct {
	ID   int
	Name string
}

func (t TokenType) Equal(o TokenType) bool {
	return t.ID == o.ID
}

func (t TokenType) String() string {
	return t.Name
}

// ErrorTokenType is the distinguished marker used for lexemes that could
// not be matched by any pattern. Its id is deliberately outside the
// range of any user-assigned token type (negative), so it can never
// collide with or be mistaken for a real priority.
var ErrorTokenType = TokenType{ID: -1, Name: "ERROR"}

// LexicalToken is a matched lexeme paired with either a token type or
// the distinguished ERROR marker, produced only by the DFA simulator
// (package lex).
type LexicalToken struct {
	Lexeme string
	Type   TokenType

	// Pos is the byte offset in the original input at which Lexeme
	// begins.
	Pos int
}

// IsError reports whether this token is an ERROR token.
func (t LexicalToken) IsError() bool {
	return t.Type.Equal(ErrorTokenType)
}

func (t LexicalToken) String() string {
	return fmt.Sprintf("<%s %q@%d>", t.Type.Name, t.Lexeme, t.Pos)
}
