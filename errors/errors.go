package errors

import (
	goerrors "errors"
	"fmt"
	"strings"

	"github.com/pontaoski/redstone/types"
	"github.com/ztrue/tracerr"
)

type LexErrorKind int

const (
	InvalidCharacter LexErrorKind = iota
	UnterminatedString
	MalformedNumber
	InvalidEscape
	InvalidIdentifier
)

func (k LexErrorKind) String() string {
	switch k {
	case InvalidCharacter:
		return "invalid character"
	case UnterminatedString:
		return "unterminated string"
	case MalformedNumber:
		return "malformed number"
	case InvalidEscape:
		return "invalid escape sequence"
	case InvalidIdentifier:
		return "invalid identifier"
	}
	return "lex error"
}

type LexError struct {
	Kind     LexErrorKind
	Text     string
	Location types.Span
}

func (e *LexError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("%s. %s", e.Kind, e.Location)
	}
	return fmt.Sprintf("%s %q. %s", e.Kind, e.Text, e.Location)
}

type ParseErrorKind int

const (
	UnexpectedToken ParseErrorKind = iota
	InvalidAssignmentTarget
	ReservedKeyword
	DuplicateField
	MissingInitializer
)

type ParseError struct {
	Kind     ParseErrorKind
	Message  string
	Expected []types.TokenKind
	Got      types.Token
	Location types.Span
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s. %s", e.Message, e.Location)
}

// Incomplete reports whether the parse stopped because the input ran out.
func (e *ParseError) Incomplete() bool {
	return e.Kind == UnexpectedToken && e.Got.Kind == types.EOF
}

func ExpectedOneOfKindGotKind(expected []types.TokenKind, got types.Token) *ParseError {
	var names []string
	for _, k := range expected {
		names = append(names, k.String())
	}

	msg := fmt.Sprintf("got a %s, expected one of %s", got.Kind, strings.Join(names, ", "))
	if len(expected) == 1 {
		msg = fmt.Sprintf("got a %s, expected a %s", got.Kind, expected[0])
	}

	return &ParseError{
		Kind:     UnexpectedToken,
		Message:  msg,
		Expected: expected,
		Got:      got,
		Location: got.Location,
	}
}

func NewParseError(kind ParseErrorKind, at types.Token, msg string, fmts ...interface{}) *ParseError {
	return &ParseError{
		Kind:     kind,
		Message:  fmt.Sprintf(msg, fmts...),
		Got:      at,
		Location: at.Location,
	}
}

type ValidationError struct {
	Index    int
	Reason   string
	Location types.Span
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("statement %d: %s", e.Index+1, e.Reason)
}

type RuntimeErrorKind int

const (
	UndefinedVariable RuntimeErrorKind = iota
	DuplicateDeclaration
	ConstantReassignment
	TypeMismatch
	DivideByZero
	NotAFunction
	ArityShortfall
	MissingProperty
	NotAnObject
	BreakOutsideLoop
	ContinueOutsideLoop
	ReturnOutsideFunction
	NativeFailure
	CallDepthExceeded
)

func (k RuntimeErrorKind) String() string {
	return [...]string{
		"undefined variable",
		"duplicate declaration",
		"constant reassignment",
		"type mismatch",
		"divide by zero",
		"not a function",
		"missing arguments",
		"missing property",
		"not an object",
		"break outside loop",
		"continue outside loop",
		"return outside function",
		"native function failure",
		"call depth exceeded",
	}[k]
}

type RuntimeError struct {
	Kind    RuntimeErrorKind
	Message string
}

func (e *RuntimeError) Error() string {
	return e.Message
}

func NewRuntimeError(kind RuntimeErrorKind, msg string, fmts ...interface{}) *RuntimeError {
	return &RuntimeError{
		Kind:    kind,
		Message: fmt.Sprintf(msg, fmts...),
	}
}

// Incomplete reports whether err is a parse error caused by running out of
// input, which an interactive reader can fix by asking for more lines.
func Incomplete(err error) bool {
	var perr *ParseError
	if goerrors.As(tracerr.Unwrap(err), &perr) {
		return perr.Incomplete()
	}
	return false
}

// RuntimeKind returns the kind of a runtime error anywhere in err's chain.
func RuntimeKind(err error) (RuntimeErrorKind, bool) {
	var rerr *RuntimeError
	if goerrors.As(tracerr.Unwrap(err), &rerr) {
		return rerr.Kind, true
	}
	return 0, false
}
