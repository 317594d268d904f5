package token

import (
	"fmt"
	"strconv"
)

// TokenKind is an enumeration of the kinds of tokens produced by a Lexer and consumed by a Parser.
type TokenKind uint

func (t TokenKind) String() string {
	i := int(t)
	if i < 0 || len(tokenNames) <= i {
		return "invalid"
	}
	return tokenNames[t]
}

// Lex-able Token kinds encountered in bind trace scripts.
const (
	Invalid TokenKind = iota

	EOF // !.

	Whitespace   // [ \r\t]+
	Comment      // '#' { !EOL . } ( EOL | EOF )
	Word         // BarewordRune {BarewordRune}
	Integer      // [+-]? Digit {Digit}
	Placeholder  // '_' [1-9] {Digit}
	Stop         // '\n' | ';'
	Colon        // ':'
	QuotedString // '"' ( Escape | [^"] )* '"'
)

var tokenNames = []string{
	Invalid: "invalid",

	EOF: "eof",

	Whitespace: "whitespace",
	Comment:    "comment",

	Word:        "word",
	Integer:     "integer",
	Placeholder: "placeholder",

	Stop:  "stop",
	Colon: "colon",

	QuotedString: `quoted string`,
}

// Token is a token with a kind and a start and end location. Start, end,
// and raw fields are considered metadata and should not be used by a parser
// except to provide information to the user. The value may be used by an
// evaluator: it is a string for words and quoted strings, an int for
// integers, and the position for placeholders.
type Token struct {
	Start, End Location
	Kind       TokenKind
	Raw        []byte
	Value      any
}

func (t Token) String() string {
	if t.Raw != nil {
		return fmt.Sprintf("[%v: %v =%q]", t.Kind, t.Start, t.Raw)
	}
	return fmt.Sprintf("[%v: %v]", t.Kind, t.Start)
}

// Location describes a location in an input byte sequence.
type Location struct {
	Name   string // Name is an identifier, usually a file path, for the location.
	Offset int    // A byte offset into an input sequence. Starts at 0.
	Line   int    // A line number, delimited by '\n'. Starts at 1.
	Column int    // A column number. Starts at 1.
}

func (l Location) String() string {
	pos := strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Column) + ":" + strconv.Itoa(l.Offset)
	if l.Name != "" {
		return l.Name + ":" + pos
	}
	return pos
}

func (l Location) AdvancedBy(r rune, size int) Location {
	l.Offset += size
	l.Column++
	if r == '\n' {
		l.Line++
		l.Column = 1
	}
	return l
}
