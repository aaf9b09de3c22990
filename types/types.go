package types

import (
	"fmt"
)

type Position struct {
	Line     int
	Column   int
	Filename string
}

type Span struct {
	From Position
	To   Position
}

type TokenKind int

const (
	EOF TokenKind = iota
	ILLEGAL

	NEWLINE

	NUMBER
	STRING
	IDENT

	NULL
	TRUE
	FALSE

	// operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	BANG
	EQ
	NOTEQ
	LT
	LTEQ
	GT
	GTEQ
	AND
	OR

	// punctuation
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	COLON
	PERIOD
	EQUALS

	// keywords
	VAR
	CONST
	IF
	ELSE
	WHILE
	FUNC
	RETURN
	FOR
	BREAK
	CONTINUE
)

var kindNames = map[TokenKind]string{
	EOF:      "EOF",
	ILLEGAL:  "ILLEGAL",
	NEWLINE:  "NEWLINE",
	NUMBER:   "NUMBER",
	STRING:   "STRING",
	IDENT:    "IDENT",
	NULL:     "NULL",
	TRUE:     "TRUE",
	FALSE:    "FALSE",
	PLUS:     "PLUS",
	MINUS:    "MINUS",
	STAR:     "STAR",
	SLASH:    "SLASH",
	PERCENT:  "PERCENT",
	BANG:     "BANG",
	EQ:       "EQ",
	NOTEQ:    "NOTEQ",
	LT:       "LT",
	LTEQ:     "LTEQ",
	GT:       "GT",
	GTEQ:     "GTEQ",
	AND:      "AND",
	OR:       "OR",
	LPAREN:   "LPAREN",
	RPAREN:   "RPAREN",
	LBRACE:   "LBRACE",
	RBRACE:   "RBRACE",
	LBRACKET: "LBRACKET",
	RBRACKET: "RBRACKET",
	COMMA:    "COMMA",
	COLON:    "COLON",
	PERIOD:   "PERIOD",
	EQUALS:   "EQUALS",
	VAR:      "VAR",
	CONST:    "CONST",
	IF:       "IF",
	ELSE:     "ELSE",
	WHILE:    "WHILE",
	FUNC:     "FUNC",
	RETURN:   "RETURN",
	FOR:      "FOR",
	BREAK:    "BREAK",
	CONTINUE: "CONTINUE",
}

func (t TokenKind) String() string {
	if name, ok := kindNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(t))
}

// IsKeyword reports whether the kind is spelled through the keyword table.
func (t TokenKind) IsKeyword() bool {
	switch t {
	case VAR, CONST, IF, ELSE, WHILE, FUNC, RETURN, FOR, BREAK, CONTINUE, NULL, TRUE, FALSE:
		return true
	}
	return false
}

func (p Position) String() string {
	if p.Filename == "" {
		p.Filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.From, s.To.Line, s.To.Column)
}

func SingleCharSpan(p Position) Span {
	return Span{p, p}
}

type Token struct {
	Kind     TokenKind
	Lexeme   string
	Location Span
}

func (t Token) String() string {
	switch t.Kind {
	case NEWLINE:
		return "NEWLINE"
	case EOF:
		return "EOF"
	}
	return fmt.Sprintf("%s(%q)", t.Kind, t.Lexeme)
}
