package interp

import (
	"github.com/pontaoski/redstone/ast"
	"github.com/pontaoski/redstone/errors"
)

// Validate rejects programs whose top-level statements include an
// expression that has no effect. Assignments and calls are allowed; every
// other bare expression is reported with its statement index.
func Validate(program *ast.Program) error {
	for i, stmt := range program.Body {
		expr, ok := stmt.(ast.Expression)
		if !ok {
			continue
		}

		switch e := expr.(type) {
		case ast.Assignment, ast.Call:
			continue
		case ast.Identifier:
			return &errors.ValidationError{Index: i, Reason: "bare identifier '" + e.Name + "' has no effect", Location: e.Pos}
		default:
			return &errors.ValidationError{Index: i, Reason: "expression " + ast.ExpressionString(expr) + " has no effect", Location: ast.PosOf(expr)}
		}
	}
	return nil
}
