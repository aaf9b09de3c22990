// Package ast holds the syntax tree produced by the parser.
//
// Statement and Expression are closed sum types: the marker methods in
// sumtypes_gen.go are generated from ast.adt by the adtGen tool, and every
// node that may appear in a block implements Statement. Expressions are
// statements as well, so a block is a plain []Statement.
package ast

import "github.com/pontaoski/redstone/types"

//go:generate sh -c "cd ../tool && go run . ../ast/ast.adt ../ast/sumtypes_gen.go ast"

type Program struct {
	Body []Statement
}

type Identifier struct {
	Name string
	Pos  types.Span
}

type VariableDeclaration struct {
	Name     Identifier
	Value    Expression
	Constant bool
	Pos      types.Span
}

type FunctionDeclaration struct {
	Name   Identifier
	Params []Identifier
	Body   Block
	Pos    types.Span
}

type Block struct {
	Statements []Statement
	Pos        types.Span
}

// If.Else is nil, an If or a Block.
type If struct {
	Condition Expression
	Then      Block
	Else      Statement
	Pos       types.Span
}

type While struct {
	Condition Expression
	Body      Block
	Pos       types.Span
}

// For.Init, For.Condition and For.Update are optional.
type For struct {
	Init      Statement
	Condition Expression
	Update    Expression
	Body      Block
	Pos       types.Span
}

type Break struct {
	Pos types.Span
}

type Continue struct {
	Pos types.Span
}

type Return struct {
	Value Expression
	Pos   types.Span
}

type NumberLiteral struct {
	Value float64
	Pos   types.Span
}

type StringLiteral struct {
	Value string
	Pos   types.Span
}

type BooleanLiteral struct {
	Value bool
	Pos   types.Span
}

type NullLiteral struct {
	Pos types.Span
}

type Unary struct {
	Operator string
	Operand  Expression
	Pos      types.Span
}

type Binary struct {
	Left     Expression
	Operator string
	Right    Expression
	Pos      types.Span
}

// Logical is a short-circuiting && or ||.
type Logical struct {
	Left     Expression
	Operator string
	Right    Expression
	Pos      types.Span
}

// Assignment.Target is an Identifier or a MemberAccess.
type Assignment struct {
	Target Expression
	Value  Expression
	Pos    types.Span
}

// Property.Value is nil for the shorthand form { name }.
type Property struct {
	Name  Identifier
	Value Expression
}

type ObjectLiteral struct {
	Properties []Property
	Pos        types.Span
}

type MemberAccess struct {
	Object   Expression
	Property Expression
	Pos      types.Span
}

type Call struct {
	Callee    Expression
	Arguments []Expression
	Pos       types.Span
}

// IsAssignable reports whether e may appear on the left of '='.
func IsAssignable(e Expression) bool {
	switch e.(type) {
	case Identifier, MemberAccess:
		return true
	}
	return false
}

// PosOf returns the source span of an expression.
func PosOf(e Expression) types.Span {
	switch v := e.(type) {
	case NumberLiteral:
		return v.Pos
	case StringLiteral:
		return v.Pos
	case BooleanLiteral:
		return v.Pos
	case NullLiteral:
		return v.Pos
	case Identifier:
		return v.Pos
	case Unary:
		return v.Pos
	case Binary:
		return v.Pos
	case Logical:
		return v.Pos
	case Assignment:
		return v.Pos
	case ObjectLiteral:
		return v.Pos
	case MemberAccess:
		return v.Pos
	case Call:
		return v.Pos
	}
	return types.Span{}
}
