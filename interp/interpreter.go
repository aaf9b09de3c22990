package interp

import (
	goerrors "errors"
	"math"
	"strings"

	"github.com/coreos/pkg/capnslog"
	"github.com/pontaoski/redstone/ast"
	"github.com/pontaoski/redstone/errors"
	"github.com/pontaoski/redstone/lexer"
	"github.com/pontaoski/redstone/types"
	"github.com/ztrue/tracerr"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/redstone", "interp")

// MaxCallDepth bounds nested calls so runaway recursion fails with an error
// instead of exhausting the Go stack.
const MaxCallDepth = 4096

type signalKind int

const (
	sigNone signalKind = iota
	sigBreak
	sigContinue
	sigReturn
)

// signal carries a pending break, continue or return out of nested blocks.
type signal struct {
	kind  signalKind
	value Value
}

var none = signal{}

type Interpreter struct {
	keywords lexer.Keywords

	// loops holds the loops active in the current function body; it is
	// emptied for the duration of each call.
	loops     []ast.Statement
	functions int
}

func New() *Interpreter {
	return &Interpreter{keywords: lexer.DefaultKeywords()}
}

// WithKeywords sets the keyword table used to spell keywords in errors.
func (in *Interpreter) WithKeywords(k lexer.Keywords) *Interpreter {
	in.keywords = k
	return in
}

func (in *Interpreter) fail(kind errors.RuntimeErrorKind, msg string, fmts ...interface{}) {
	panic(errors.NewRuntimeError(kind, msg, fmts...))
}

func (in *Interpreter) check(err error) {
	if err != nil {
		panic(err)
	}
}

// EvaluateProgram runs every top-level statement in scope and returns the
// value of the last one.
func (in *Interpreter) EvaluateProgram(program *ast.Program, scope *Scope) (result Value, err error) {
	in.loops = nil
	in.functions = 0

	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if !ok {
				panic(r)
			}
			var runtimeErr *errors.RuntimeError
			if !goerrors.As(rerr, &runtimeErr) {
				panic(r)
			}
			result = nil
			err = tracerr.Wrap(rerr)
		}
	}()

	result = Null{}
	for _, stmt := range program.Body {
		v, _ := in.exec(stmt, scope)
		result = v
	}

	return result, nil
}

// Evaluate evaluates a single expression in scope.
func (in *Interpreter) Evaluate(expr ast.Expression, scope *Scope) (result Value, err error) {
	program := &ast.Program{Body: []ast.Statement{expr.(ast.Statement)}}
	return in.EvaluateProgram(program, scope)
}

func (in *Interpreter) exec(stmt ast.Statement, scope *Scope) (Value, signal) {
	switch s := stmt.(type) {
	case ast.VariableDeclaration:
		var v Value = Null{}
		if s.Value != nil {
			v = in.eval(s.Value, scope)
		}
		in.check(scope.Declare(s.Name.Name, v, s.Constant))
		return v, none
	case ast.FunctionDeclaration:
		fn := &Function{
			Name:    s.Name.Name,
			Params:  make([]string, 0, len(s.Params)),
			Body:    s.Body,
			Closure: scope,
		}
		for _, p := range s.Params {
			fn.Params = append(fn.Params, p.Name)
		}
		in.check(scope.Declare(fn.Name, fn, false))
		return fn, none
	case ast.Block:
		return Void{}, in.execBlock(s, scope)
	case ast.If:
		return Void{}, in.execIf(s, scope)
	case ast.While:
		return Void{}, in.execWhile(s, scope)
	case ast.For:
		return Void{}, in.execFor(s, scope)
	case ast.Break:
		if len(in.loops) == 0 {
			in.fail(errors.BreakOutsideLoop, "'%s' used outside of a loop", in.keywords.Spelling(types.BREAK))
		}
		return Void{}, signal{kind: sigBreak}
	case ast.Continue:
		if len(in.loops) == 0 {
			in.fail(errors.ContinueOutsideLoop, "'%s' used outside of a loop", in.keywords.Spelling(types.CONTINUE))
		}
		return Void{}, signal{kind: sigContinue}
	case ast.Return:
		if in.functions == 0 {
			in.fail(errors.ReturnOutsideFunction, "'%s' used outside of a function", in.keywords.Spelling(types.RETURN))
		}
		var v Value = Void{}
		if s.Value != nil {
			v = in.eval(s.Value, scope)
		}
		return v, signal{kind: sigReturn, value: v}
	case ast.Expression:
		return in.eval(s, scope), none
	}

	panic("unhandled")
}

// execStatements runs statements in scope, stopping at the first signal.
func (in *Interpreter) execStatements(statements []ast.Statement, scope *Scope) signal {
	for _, stmt := range statements {
		if _, sig := in.exec(stmt, scope); sig.kind != sigNone {
			return sig
		}
	}
	return none
}

func (in *Interpreter) execBlock(b ast.Block, scope *Scope) signal {
	return in.execStatements(b.Statements, NewScope(scope))
}

func (in *Interpreter) condition(e ast.Expression, scope *Scope, keyword types.TokenKind) bool {
	v := in.eval(e, scope)
	b, ok := v.(Boolean)
	if !ok {
		in.fail(errors.TypeMismatch, "%s condition %s must be a boolean, got %s",
			in.keywords.Spelling(keyword), ast.ExpressionString(e), TypeName(v))
	}
	return bool(b)
}

func (in *Interpreter) execIf(s ast.If, scope *Scope) signal {
	if in.condition(s.Condition, scope, types.IF) {
		return in.execBlock(s.Then, scope)
	}

	switch e := s.Else.(type) {
	case ast.If:
		return in.execIf(e, scope)
	case ast.Block:
		return in.execBlock(e, scope)
	}
	return none
}

func (in *Interpreter) enterLoop(s ast.Statement) func() {
	in.loops = append(in.loops, s)
	return func() {
		in.loops = in.loops[:len(in.loops)-1]
	}
}

func (in *Interpreter) execWhile(s ast.While, scope *Scope) signal {
	defer in.enterLoop(s)()

	for in.condition(s.Condition, scope, types.WHILE) {
		sig := in.execBlock(s.Body, scope)
		switch sig.kind {
		case sigBreak:
			return none
		case sigReturn:
			return sig
		}
	}
	return none
}

func (in *Interpreter) execFor(s ast.For, scope *Scope) signal {
	loopScope := NewScope(scope)
	if s.Init != nil {
		in.exec(s.Init, loopScope)
	}

	defer in.enterLoop(s)()

	for s.Condition == nil || in.condition(s.Condition, loopScope, types.FOR) {
		sig := in.execBlock(s.Body, loopScope)
		switch sig.kind {
		case sigBreak:
			return none
		case sigReturn:
			return sig
		}
		if s.Update != nil {
			in.eval(s.Update, loopScope)
		}
	}
	return none
}

func (in *Interpreter) eval(e ast.Expression, scope *Scope) Value {
	switch expr := e.(type) {
	case ast.NumberLiteral:
		return Number(expr.Value)
	case ast.StringLiteral:
		return String(expr.Value)
	case ast.BooleanLiteral:
		return Boolean(expr.Value)
	case ast.NullLiteral:
		return Null{}
	case ast.Identifier:
		v, err := scope.Resolve(expr.Name)
		in.check(err)
		return v
	case ast.Unary:
		return in.evalUnary(expr, scope)
	case ast.Binary:
		return in.evalBinary(expr, scope)
	case ast.Logical:
		return in.evalLogical(expr, scope)
	case ast.Assignment:
		return in.evalAssignment(expr, scope)
	case ast.ObjectLiteral:
		obj := NewObject()
		for _, p := range expr.Properties {
			if p.Value == nil {
				v, err := scope.Resolve(p.Name.Name)
				in.check(err)
				obj.Set(p.Name.Name, v)
				continue
			}
			obj.Set(p.Name.Name, in.eval(p.Value, scope))
		}
		return obj
	case ast.MemberAccess:
		obj, name := in.member(expr, scope)
		v, ok := obj.Get(name)
		if !ok {
			in.fail(errors.MissingProperty, "object %s has no property '%s'", ast.ExpressionString(expr.Object), name)
		}
		return v
	case ast.Call:
		return in.evalCall(expr, scope)
	}

	panic("unhandled")
}

// member evaluates the object side of a member access.
func (in *Interpreter) member(expr ast.MemberAccess, scope *Scope) (*Object, string) {
	v := in.eval(expr.Object, scope)
	obj, ok := v.(*Object)
	if !ok {
		in.fail(errors.NotAnObject, "cannot access a property of %s, it is a %s", ast.ExpressionString(expr.Object), TypeName(v))
	}
	prop, ok := expr.Property.(ast.Identifier)
	if !ok {
		in.fail(errors.TypeMismatch, "property of %s must be an identifier", ast.ExpressionString(expr.Object))
	}
	return obj, prop.Name
}

func (in *Interpreter) evalAssignment(expr ast.Assignment, scope *Scope) Value {
	v := in.eval(expr.Value, scope)

	switch target := expr.Target.(type) {
	case ast.Identifier:
		in.check(scope.Assign(target.Name, v))
	case ast.MemberAccess:
		obj, name := in.member(target, scope)
		obj.Set(name, v)
	default:
		in.fail(errors.TypeMismatch, "invalid assignment target %s", ast.ExpressionString(expr.Target))
	}

	return v
}

func (in *Interpreter) evalUnary(expr ast.Unary, scope *Scope) Value {
	v := in.eval(expr.Operand, scope)

	switch expr.Operator {
	case "-":
		if n, ok := v.(Number); ok {
			return -n
		}
	case "!":
		if b, ok := v.(Boolean); ok {
			return !b
		}
	}

	in.fail(errors.TypeMismatch, "cannot apply unary '%s' to %s", expr.Operator, TypeName(v))
	return nil
}

func (in *Interpreter) evalBinary(expr ast.Binary, scope *Scope) Value {
	left := in.eval(expr.Left, scope)
	right := in.eval(expr.Right, scope)

	switch expr.Operator {
	case "==":
		return Boolean(Equal(left, right))
	case "!=":
		return Boolean(!Equal(left, right))
	}

	l, lok := left.(Number)
	r, rok := right.(Number)
	if !lok || !rok {
		in.fail(errors.TypeMismatch, "cannot apply '%s' to %s and %s", expr.Operator, TypeName(left), TypeName(right))
	}

	switch expr.Operator {
	case "+":
		return l + r
	case "-":
		return l - r
	case "*":
		return l * r
	case "/":
		if r == 0 {
			in.fail(errors.DivideByZero, "division by zero in %s", ast.ExpressionString(expr))
		}
		return l / r
	case "%":
		if r == 0 {
			in.fail(errors.DivideByZero, "modulo by zero in %s", ast.ExpressionString(expr))
		}
		return Number(math.Mod(float64(l), float64(r)))
	case "<":
		return Boolean(l < r)
	case "<=":
		return Boolean(l <= r)
	case ">":
		return Boolean(l > r)
	case ">=":
		return Boolean(l >= r)
	}

	panic("unhandled")
}

func (in *Interpreter) evalLogical(expr ast.Logical, scope *Scope) Value {
	operand := func(e ast.Expression) Boolean {
		v := in.eval(e, scope)
		b, ok := v.(Boolean)
		if !ok {
			in.fail(errors.TypeMismatch, "cannot apply '%s' to %s", expr.Operator, TypeName(v))
		}
		return b
	}

	left := operand(expr.Left)
	if expr.Operator == "&&" && !left {
		return Boolean(false)
	}
	if expr.Operator == "||" && left {
		return Boolean(true)
	}
	return operand(expr.Right)
}

func (in *Interpreter) evalCall(expr ast.Call, scope *Scope) Value {
	args := make([]Value, 0, len(expr.Arguments))
	for _, a := range expr.Arguments {
		args = append(args, in.eval(a, scope))
	}

	switch fn := in.eval(expr.Callee, scope).(type) {
	case *NativeFunction:
		v, err := fn.Fn(args, scope)
		if err != nil {
			var rerr *errors.RuntimeError
			if !goerrors.As(err, &rerr) {
				err = errors.NewRuntimeError(errors.NativeFailure, "%s: %s", fn.Name, err)
			}
			panic(err)
		}
		return v
	case *Function:
		return in.invoke(fn, args)
	default:
		in.fail(errors.NotAFunction, "%s is not a function, it is a %s", ast.ExpressionString(expr.Callee), TypeName(fn))
	}

	return nil
}

func (in *Interpreter) invoke(fn *Function, args []Value) Value {
	if len(args) < len(fn.Params) {
		in.fail(errors.ArityShortfall, "%s '%s' is missing arguments: %s",
			in.keywords.Spelling(types.FUNC), fn.Name, strings.Join(fn.Params[len(args):], ", "))
	}
	if in.functions >= MaxCallDepth {
		in.fail(errors.CallDepthExceeded, "maximum call depth of %d exceeded in '%s'", MaxCallDepth, fn.Name)
	}

	if plog.LevelAt(capnslog.TRACE) {
		plog.Tracef("calling %s with %d argument(s)", fn.Name, len(args))
	}

	callScope := NewScope(fn.Closure)
	for i, p := range fn.Params {
		in.check(callScope.Declare(p, args[i], false))
	}

	loops := in.loops
	in.loops = nil
	in.functions++
	defer func() {
		in.loops = loops
		in.functions--
	}()

	sig := in.execStatements(fn.Body.Statements, callScope)
	if sig.kind == sigReturn {
		return sig.value
	}
	return Void{}
}
