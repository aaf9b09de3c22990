package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// ExpressionString renders e fully parenthesized, so that the grouping the
// parser chose is visible.
func ExpressionString(e Expression) string {
	if e == nil {
		return ""
	}

	switch v := e.(type) {
	case NumberLiteral:
		return strconv.FormatFloat(v.Value, 'f', -1, 64)
	case StringLiteral:
		return strconv.Quote(v.Value)
	case BooleanLiteral:
		return strconv.FormatBool(v.Value)
	case NullLiteral:
		return "null"
	case Identifier:
		return v.Name
	case Unary:
		return fmt.Sprintf("(%s%s)", v.Operator, ExpressionString(v.Operand))
	case Binary:
		return fmt.Sprintf("(%s %s %s)", ExpressionString(v.Left), v.Operator, ExpressionString(v.Right))
	case Logical:
		return fmt.Sprintf("(%s %s %s)", ExpressionString(v.Left), v.Operator, ExpressionString(v.Right))
	case Assignment:
		return fmt.Sprintf("(%s = %s)", ExpressionString(v.Target), ExpressionString(v.Value))
	case ObjectLiteral:
		var props []string
		for _, p := range v.Properties {
			if p.Value == nil {
				props = append(props, p.Name.Name)
				continue
			}
			props = append(props, p.Name.Name+": "+ExpressionString(p.Value))
		}
		return "{" + strings.Join(props, ", ") + "}"
	case MemberAccess:
		return ExpressionString(v.Object) + "." + ExpressionString(v.Property)
	case Call:
		var args []string
		for _, a := range v.Arguments {
			args = append(args, ExpressionString(a))
		}
		return ExpressionString(v.Callee) + "(" + strings.Join(args, ", ") + ")"
	}

	panic("unhandled")
}

func (p *Program) String() string {
	var sb strings.Builder
	for _, s := range p.Body {
		writeStatement(&sb, s, 0)
	}
	return sb.String()
}

func (b Block) String() string {
	var sb strings.Builder
	writeBlock(&sb, b, 0)
	return sb.String()
}

func writeBlock(sb *strings.Builder, b Block, indent int) {
	sb.WriteString("{\n")
	for _, s := range b.Statements {
		writeStatement(sb, s, indent+1)
	}
	sb.WriteString(strings.Repeat("  ", indent) + "}")
}

func writeStatement(sb *strings.Builder, s Statement, indent int) {
	pad := strings.Repeat("  ", indent)
	sb.WriteString(pad)

	switch v := s.(type) {
	case VariableDeclaration:
		kw := "var"
		if v.Constant {
			kw = "const"
		}
		sb.WriteString(kw + " " + v.Name.Name)
		if v.Value != nil {
			sb.WriteString(" = " + ExpressionString(v.Value))
		}
	case FunctionDeclaration:
		var params []string
		for _, p := range v.Params {
			params = append(params, p.Name)
		}
		sb.WriteString(fmt.Sprintf("function %s(%s) ", v.Name.Name, strings.Join(params, ", ")))
		writeBlock(sb, v.Body, indent)
	case Block:
		writeBlock(sb, v, indent)
	case If:
		writeIf(sb, v, indent)
	case While:
		sb.WriteString("while (" + ExpressionString(v.Condition) + ") ")
		writeBlock(sb, v.Body, indent)
	case For:
		init := ""
		if v.Init != nil {
			var isb strings.Builder
			writeStatement(&isb, v.Init, 0)
			init = strings.TrimSuffix(isb.String(), "\n")
		}
		sb.WriteString(fmt.Sprintf("for (%s, %s, %s) ", init, ExpressionString(v.Condition), ExpressionString(v.Update)))
		writeBlock(sb, v.Body, indent)
	case Break:
		sb.WriteString("break")
	case Continue:
		sb.WriteString("continue")
	case Return:
		sb.WriteString("return")
		if v.Value != nil {
			sb.WriteString(" " + ExpressionString(v.Value))
		}
	case Expression:
		sb.WriteString(ExpressionString(v))
	default:
		panic("unhandled")
	}

	sb.WriteString("\n")
}

func writeIf(sb *strings.Builder, v If, indent int) {
	sb.WriteString("if (" + ExpressionString(v.Condition) + ") ")
	writeBlock(sb, v.Then, indent)
	switch e := v.Else.(type) {
	case If:
		sb.WriteString(" else ")
		writeIf(sb, e, indent)
	case Block:
		sb.WriteString(" else ")
		writeBlock(sb, e, indent)
	}
}
