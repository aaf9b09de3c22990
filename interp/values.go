package interp

import (
	"strconv"
	"strings"

	"github.com/pontaoski/redstone/ast"
)

//go:generate sh -c "cd ../tool && go run . ../interp/values.adt ../interp/values_gen.go interp"

type Null struct{}

// Void is the result of a call that did not return anything.
type Void struct{}

type Number float64

type String string

type Boolean bool

// Object values are shared by reference: always handle them as *Object.
type Object struct {
	keys   []string
	fields map[string]Value
}

// Function is a user-defined function together with the scope it was
// declared in.
type Function struct {
	Name    string
	Params  []string
	Body    ast.Block
	Closure *Scope
}

// NativeFunc is the calling contract of host-provided functions.
type NativeFunc func(args []Value, scope *Scope) (Value, error)

type NativeFunction struct {
	Name string
	Fn   NativeFunc
}

func NewObject() *Object {
	return &Object{fields: map[string]Value{}}
}

func (o *Object) Get(name string) (Value, bool) {
	v, ok := o.fields[name]
	return v, ok
}

// Set stores a property, remembering the order in which names first appear.
func (o *Object) Set(name string, v Value) {
	if _, ok := o.fields[name]; !ok {
		o.keys = append(o.keys, name)
	}
	o.fields[name] = v
}

func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

func (o *Object) Len() int {
	return len(o.keys)
}

// TypeName is the user-facing name of a value's kind.
func TypeName(v Value) string {
	switch v.(type) {
	case Null:
		return "null"
	case Void:
		return "void"
	case Number:
		return "number"
	case String:
		return "string"
	case Boolean:
		return "boolean"
	case *Object:
		return "object"
	case *Function:
		return "function"
	case *NativeFunction:
		return "native function"
	}
	panic("unhandled")
}

// Format renders a value the way print shows it.
func Format(v Value) string {
	return format(v, false)
}

func format(v Value, nested bool) string {
	switch val := v.(type) {
	case Null:
		return "<air>"
	case Void:
		return "void"
	case Number:
		return strconv.FormatFloat(float64(val), 'f', -1, 64)
	case String:
		if nested {
			return strconv.Quote(string(val))
		}
		return string(val)
	case Boolean:
		if val {
			return "on"
		}
		return "off"
	case *Object:
		if val.Len() == 0 {
			return "{}"
		}
		parts := make([]string, 0, val.Len())
		for _, k := range val.keys {
			parts = append(parts, k+": "+format(val.fields[k], true))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case *Function:
		return "<craft " + val.Name + "(" + strings.Join(val.Params, ", ") + ")>"
	case *NativeFunction:
		return "<native " + val.Name + ">"
	}
	panic("unhandled")
}

// Equal compares values of the same kind by value; values of different
// kinds are never equal. Objects and functions compare by identity.
func Equal(a, b Value) bool {
	switch l := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Void:
		_, ok := b.(Void)
		return ok
	case Number:
		r, ok := b.(Number)
		return ok && l == r
	case String:
		r, ok := b.(String)
		return ok && l == r
	case Boolean:
		r, ok := b.(Boolean)
		return ok && l == r
	case *Object:
		r, ok := b.(*Object)
		return ok && l == r
	case *Function:
		r, ok := b.(*Function)
		return ok && l == r
	case *NativeFunction:
		r, ok := b.(*NativeFunction)
		return ok && l == r
	}
	panic("unhandled")
}
