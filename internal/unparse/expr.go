package unparse

import (
	"fmt"
	"strings"

	"github.com/Ship-Gate/ShipGate-sub007/internal/ast"
)

// exprString renders an expression to text. Parentheses are emitted
// only where precedence would otherwise change the parse (§4.4
// "minimal necessary parentheses").
func exprString(e ast.Expr) string {
	return exprStringPrec(e, 0)
}

// binaryPrec mirrors the parser's precedence ladder (internal/parser's
// precedence type) so the unparser inserts parentheses exactly where
// round-tripping would otherwise change meaning.
func binaryPrec(op ast.BinaryOp) int {
	switch op {
	case ast.OpImplies:
		return 1
	case ast.OpIff:
		return 2
	case ast.OpOr:
		return 3
	case ast.OpAnd:
		return 4
	case ast.OpEq, ast.OpNotEq, ast.OpIn:
		return 5
	case ast.OpLt, ast.OpLtEq, ast.OpGt, ast.OpGtEq:
		return 6
	case ast.OpPlus, ast.OpMinus:
		return 7
	case ast.OpStar, ast.OpSlash, ast.OpPercent:
		return 8
	default:
		return 0
	}
}

func exprStringPrec(e ast.Expr, minPrec int) string {
	switch v := e.(type) {
	case *ast.StringLit:
		return quote(v.Value)
	case *ast.NumberLit:
		return v.Value
	case *ast.BooleanLit:
		if v.Value {
			return "true"
		}
		return "false"
	case *ast.NullLit:
		return "null"
	case *ast.DurationLit:
		return fmt.Sprintf("%s.%s", v.Value, v.Unit)
	case *ast.RegexLit:
		return fmt.Sprintf("/%s/%s", v.Pattern, v.Flags)
	case *ast.Identifier:
		return v.Name
	case *ast.QualifiedName:
		return strings.Join(v.Parts, ".")
	case *ast.Binary:
		prec := binaryPrec(v.Op)
		left := exprStringPrec(v.Left, prec)
		right := exprStringPrec(v.Right, prec+1)
		s := fmt.Sprintf("%s %s %s", left, v.Op, right)
		if prec < minPrec {
			return "(" + s + ")"
		}
		return s
	case *ast.Unary:
		operand := exprStringPrec(v.Operand, 9)
		if v.Op == ast.OpNot {
			return "not " + operand
		}
		return "-" + operand
	case *ast.Call:
		var args []string
		for _, a := range v.Args {
			args = append(args, exprString(a))
		}
		return fmt.Sprintf("%s(%s)", exprString(v.Callee), strings.Join(args, ", "))
	case *ast.Member:
		return fmt.Sprintf("%s.%s", exprString(v.Object), v.Property)
	case *ast.Index:
		return fmt.Sprintf("%s[%s]", exprString(v.Object), exprString(v.IndexExpr))
	case *ast.Quantifier:
		return fmt.Sprintf("%s(%s, %s => %s)", v.Kind, exprString(v.Collection), v.Var, exprString(v.Predicate))
	case *ast.Conditional:
		if v.Else != nil {
			return fmt.Sprintf("if %s then %s else %s", exprString(v.Cond), exprString(v.Then), exprString(v.Else))
		}
		return fmt.Sprintf("if %s then %s", exprString(v.Cond), exprString(v.Then))
	case *ast.Lambda:
		return fmt.Sprintf("%s => %s", strings.Join(v.Params, ", "), exprString(v.Body))
	case *ast.Old:
		return fmt.Sprintf("old(%s)", exprString(v.Inner))
	case *ast.Result:
		if v.Property == "" {
			return "result"
		}
		return "result." + v.Property
	case *ast.Input:
		return "input." + v.Property
	case *ast.ListExpr:
		var elems []string
		for _, el := range v.Elements {
			elems = append(elems, exprString(el))
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case *ast.MapExpr:
		var entries []string
		for _, ent := range v.Entries {
			entries = append(entries, fmt.Sprintf("%s: %s", ent.Key, exprString(ent.Value)))
		}
		return "{ " + strings.Join(entries, ", ") + " }"
	default:
		return "?"
	}
}
