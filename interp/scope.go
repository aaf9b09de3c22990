package interp

import (
	"sort"

	"github.com/pontaoski/redstone/errors"
)

type binding struct {
	value    Value
	constant bool
}

// Scope is one frame of the lexical environment. Frames are shared by
// pointer, so closures observe later writes to the variables they capture.
type Scope struct {
	parent *Scope
	vars   map[string]*binding
}

func NewScope(parent *Scope) *Scope {
	return &Scope{
		parent: parent,
		vars:   map[string]*binding{},
	}
}

func (s *Scope) Parent() *Scope {
	return s.parent
}

// Declare defines name in this frame only. Shadowing a name of an enclosing
// frame is fine; declaring it twice in the same frame is not.
func (s *Scope) Declare(name string, v Value, constant bool) error {
	if _, ok := s.vars[name]; ok {
		return errors.NewRuntimeError(errors.DuplicateDeclaration, "variable '%s' is already defined", name)
	}
	s.vars[name] = &binding{value: v, constant: constant}
	return nil
}

// Assign overwrites name in the nearest frame that declares it.
func (s *Scope) Assign(name string, v Value) error {
	owner := s.find(name)
	if owner == nil {
		return errors.NewRuntimeError(errors.UndefinedVariable, "cannot assign to undeclared variable '%s'", name)
	}

	b := owner.vars[name]
	if b.constant {
		return errors.NewRuntimeError(errors.ConstantReassignment, "cannot reassign '%s' as it's a bedrock", name)
	}
	b.value = v
	return nil
}

func (s *Scope) Resolve(name string) (Value, error) {
	owner := s.find(name)
	if owner == nil {
		return nil, errors.NewRuntimeError(errors.UndefinedVariable, "could not find the variable '%s'", name)
	}
	return owner.vars[name].value, nil
}

// IsConstant reports whether the nearest binding of name is constant.
func (s *Scope) IsConstant(name string) bool {
	owner := s.find(name)
	return owner != nil && owner.vars[name].constant
}

// Names lists the names declared directly in this frame, sorted.
func (s *Scope) Names() []string {
	keys := make([]string, 0, len(s.vars))
	for k := range s.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Scope) find(name string) *Scope {
	for sc := s; sc != nil; sc = sc.parent {
		if _, ok := sc.vars[name]; ok {
			return sc
		}
	}
	return nil
}
