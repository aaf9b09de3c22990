package lexer

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/pontaoski/redstone/errors"
	"github.com/pontaoski/redstone/types"
	"github.com/ztrue/tracerr"
)

type Lexer struct {
	pos      types.Position
	reader   *bufio.Reader
	peeked   *types.Token
	keywords Keywords
}

func NewLexer(reader io.Reader, filename string) *Lexer {
	return &Lexer{
		pos:      types.Position{Line: 1, Column: 0, Filename: filename},
		reader:   bufio.NewReader(reader),
		keywords: DefaultKeywords(),
	}
}

// WithKeywords replaces the keyword table used to classify identifiers.
func (l *Lexer) WithKeywords(k Keywords) *Lexer {
	l.keywords = k
	return l
}

// Tokenize scans the whole source and returns its tokens, ending with EOF.
func Tokenize(source string, keywords Keywords) (tokens []types.Token, err error) {
	return TokenizeFile(source, "", keywords)
}

func TokenizeFile(source, filename string, keywords Keywords) (tokens []types.Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if !ok {
				panic(r)
			}
			tokens = nil
			err = tracerr.Wrap(rerr)
		}
	}()

	if keywords == nil {
		keywords = DefaultKeywords()
	}

	l := NewLexer(strings.NewReader(source), filename).WithKeywords(keywords)
	for {
		tok := l.Lex()
		tokens = append(tokens, tok)
		if tok.Kind == types.EOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) newline() {
	l.pos.Line++
	l.pos.Column = 0
}

func (l *Lexer) backup() {
	if err := l.reader.UnreadRune(); err != nil {
		panic(err)
	}

	l.pos.Column--
}

// next reads one rune; ok is false at end of input.
func (l *Lexer) next() (r rune, ok bool) {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return 0, false
		}
		panic(err)
	}
	l.pos.Column++
	return r, true
}

func (l *Lexer) peekIs(b byte) bool {
	byt, err := l.reader.Peek(1)
	if err != nil && err != io.EOF {
		panic(err)
	}
	return len(byt) == 1 && byt[0] == b
}

func (l *Lexer) kinded(t types.TokenKind, lexeme string) types.Token {
	from := l.pos
	from.Column -= len(lexeme) - 1
	if t == types.NEWLINE || t == types.EOF {
		from = l.pos
	}
	return types.Token{
		Kind:     t,
		Lexeme:   lexeme,
		Location: types.Span{From: from, To: l.pos},
	}
}

func (l *Lexer) fail(kind errors.LexErrorKind, text string, from types.Position) {
	panic(&errors.LexError{
		Kind:     kind,
		Text:     text,
		Location: types.Span{From: from, To: l.pos},
	})
}

func firstChar(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func otherChar(r rune) bool {
	return firstChar(r) || isDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func (l *Lexer) lexIdent(first rune) types.Token {
	from := l.pos
	var lit strings.Builder
	lit.WriteRune(first)

	for {
		r, ok := l.next()
		if !ok {
			break
		}
		if otherChar(r) {
			lit.WriteRune(r)
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			lit.WriteRune(r)
			l.fail(errors.InvalidIdentifier, lit.String(), from)
		}
		l.backup()
		break
	}

	word := lit.String()
	kind := types.IDENT
	if kw, ok := l.keywords.Lookup(word); ok {
		kind = kw
	}

	return types.Token{Kind: kind, Lexeme: word, Location: types.Span{From: from, To: l.pos}}
}

func (l *Lexer) lexNumber(first rune) types.Token {
	from := l.pos
	var lit strings.Builder
	lit.WriteRune(first)

	digits := func() {
		for {
			r, ok := l.next()
			if !ok {
				return
			}
			if !isDigit(r) {
				l.backup()
				return
			}
			lit.WriteRune(r)
		}
	}

	if first == '0' {
		if r, ok := l.next(); ok {
			if isDigit(r) {
				lit.WriteRune(r)
				l.fail(errors.MalformedNumber, lit.String(), from)
			}
			l.backup()
		}
	} else {
		digits()
	}

	if l.peekIs('.') {
		l.next()
		lit.WriteRune('.')
		r, ok := l.next()
		if !ok || !isDigit(r) {
			l.fail(errors.MalformedNumber, lit.String(), from)
		}
		lit.WriteRune(r)
		digits()
	}

	if r, ok := l.next(); ok {
		if unicode.IsLetter(r) || r == '_' || r == '.' {
			lit.WriteRune(r)
			l.fail(errors.MalformedNumber, lit.String(), from)
		}
		l.backup()
	}

	return types.Token{Kind: types.NUMBER, Lexeme: lit.String(), Location: types.Span{From: from, To: l.pos}}
}

// lexString should be called when the lexer is past the opening quote.
func (l *Lexer) lexString() types.Token {
	from := l.pos
	var lit strings.Builder

	for {
		r, ok := l.next()
		if !ok || r == '\n' {
			l.fail(errors.UnterminatedString, lit.String(), from)
		}

		switch r {
		case '"':
			return types.Token{Kind: types.STRING, Lexeme: lit.String(), Location: types.Span{From: from, To: l.pos}}
		case '\\':
			esc, ok := l.next()
			if !ok {
				l.fail(errors.UnterminatedString, lit.String(), from)
			}
			switch esc {
			case 'n':
				lit.WriteRune('\n')
			case 't':
				lit.WriteRune('\t')
			case '"':
				lit.WriteRune('"')
			case '\\':
				lit.WriteRune('\\')
			default:
				l.fail(errors.InvalidEscape, "\\"+string(esc), from)
			}
		default:
			lit.WriteRune(r)
		}
	}
}

func (l *Lexer) Peek() types.Token {
	if l.peeked != nil {
		return *l.peeked
	}

	tok := l.Lex()
	l.peeked = &tok

	return tok
}

func (l *Lexer) PeekIs(k ...types.TokenKind) bool {
	token := l.Peek()
	for _, kind := range k {
		if token.Kind == kind {
			return true
		}
	}

	return false
}

var singles = map[rune]types.TokenKind{
	'(': types.LPAREN,
	')': types.RPAREN,
	'{': types.LBRACE,
	'}': types.RBRACE,
	'[': types.LBRACKET,
	']': types.RBRACKET,
	',': types.COMMA,
	':': types.COLON,
	'.': types.PERIOD,
	'+': types.PLUS,
	'-': types.MINUS,
	'*': types.STAR,
	'%': types.PERCENT,
}

// pairs lists the operators whose first character may be followed by a
// second one; the single form is used when it is not.
var pairs = map[rune]struct {
	second rune
	double types.TokenKind
	single types.TokenKind
}{
	'=': {'=', types.EQ, types.EQUALS},
	'!': {'=', types.NOTEQ, types.BANG},
	'<': {'=', types.LTEQ, types.LT},
	'>': {'=', types.GTEQ, types.GT},
	'&': {'&', types.AND, types.ILLEGAL},
	'|': {'|', types.OR, types.ILLEGAL},
}

func (l *Lexer) Lex() types.Token {
	if l.peeked != nil {
		defer func() { l.peeked = nil }()
		return *l.peeked
	}

	for {
		r, ok := l.next()
		if !ok {
			return l.kinded(types.EOF, "")
		}

		switch r {
		case ' ', '\t', '\r':
			continue
		case '\n':
			tok := l.kinded(types.NEWLINE, "\n")
			l.newline()
			return tok
		case '"':
			return l.lexString()
		case '/':
			if l.peekIs('/') {
				l.skipComment()
				continue
			}
			return l.kinded(types.SLASH, "/")
		}

		if kind, ok := singles[r]; ok {
			return l.kinded(kind, string(r))
		}

		if pair, ok := pairs[r]; ok {
			if l.peekIs(byte(pair.second)) {
				l.next()
				return l.kinded(pair.double, string(r)+string(pair.second))
			}
			if pair.single == types.ILLEGAL {
				l.fail(errors.InvalidCharacter, string(r), l.pos)
			}
			return l.kinded(pair.single, string(r))
		}

		switch {
		case isDigit(r):
			return l.lexNumber(r)
		case firstChar(r):
			return l.lexIdent(r)
		}

		l.fail(errors.InvalidCharacter, string(r), l.pos)
	}
}

// skipComment consumes a line comment up to, but not including, the newline.
func (l *Lexer) skipComment() {
	for {
		r, ok := l.next()
		if !ok {
			return
		}
		if r == '\n' {
			l.backup()
			return
		}
	}
}

func (l *Lexer) lexToEOF() (ret []types.Token) {
	t := l.Lex()
	for t.Kind != types.EOF {
		ret = append(ret, t)
		t = l.Lex()
	}
	return
}
