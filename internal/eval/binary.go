package eval

import (
	"fmt"
	"strings"

	"github.com/Ship-Gate/ShipGate-sub007/internal/ast"
	"github.com/Ship-Gate/ShipGate-sub007/internal/token"
)

func (e *evaluator) evalBinary(v *ast.Binary, depth int) EvaluationResult {
	span := v.Span()
	switch v.Op {
	case ast.OpAnd:
		l := e.eval(v.Left, depth+1)
		r := e.eval(v.Right, depth+1)
		return result(And(l.Value, r.Value), span, "", e.children(l, r)...)
	case ast.OpOr:
		l := e.eval(v.Left, depth+1)
		r := e.eval(v.Right, depth+1)
		return result(Or(l.Value, r.Value), span, "", e.children(l, r)...)
	case ast.OpImplies:
		l := e.eval(v.Left, depth+1)
		r := e.eval(v.Right, depth+1)
		return result(Implies(l.Value, r.Value), span, "", e.children(l, r)...)
	case ast.OpIff:
		l := e.eval(v.Left, depth+1)
		r := e.eval(v.Right, depth+1)
		return result(Iff(l.Value, r.Value), span, "", e.children(l, r)...)
	case ast.OpEq, ast.OpNotEq:
		return e.evalEquality(v, depth, span)
	case ast.OpLt, ast.OpLtEq, ast.OpGt, ast.OpGtEq:
		return e.evalOrder(v, depth, span)
	case ast.OpPlus, ast.OpMinus, ast.OpStar, ast.OpSlash, ast.OpPercent:
		return e.evalArithmetic(v, depth, span)
	case ast.OpIn:
		return e.evalIn(v, depth, span)
	default:
		return result(Unknown, span, fmt.Sprintf("Unsupported operator %q", v.Op))
	}
}

func (e *evaluator) evalEquality(v *ast.Binary, depth int, span token.Span) EvaluationResult {
	lv, lok := e.valueOf(v.Left, depth+1)
	rv, rok := e.valueOf(v.Right, depth+1)
	if !lok || !rok {
		return result(Unknown, span, "Cannot resolve operand")
	}
	eq := Equal(lv, rv)
	if v.Op == ast.OpNotEq {
		eq = !eq
	}
	if eq {
		return result(True, span, "")
	}
	verb := "=="
	if v.Op == ast.OpNotEq {
		verb = "!="
	}
	return result(False, span, fmt.Sprintf("Values not equal: %s %s %s", lv.String(), verb, rv.String()))
}

func (e *evaluator) evalOrder(v *ast.Binary, depth int, span token.Span) EvaluationResult {
	lv, lok := e.valueOf(v.Left, depth+1)
	rv, rok := e.valueOf(v.Right, depth+1)
	if !lok || !rok {
		return result(Unknown, span, "Cannot resolve operand")
	}
	if lv.Kind != NumberVal || rv.Kind != NumberVal {
		return result(False, span, "Relational comparison on non-numeric operand")
	}
	cmp := lv.N.Cmp(rv.N)
	var ok bool
	switch v.Op {
	case ast.OpLt:
		ok = cmp < 0
	case ast.OpLtEq:
		ok = cmp <= 0
	case ast.OpGt:
		ok = cmp > 0
	case ast.OpGtEq:
		ok = cmp >= 0
	}
	if ok {
		return result(True, span, "")
	}
	return result(False, span, fmt.Sprintf("%s %s %s does not hold", lv.N.String(), v.Op, rv.N.String()))
}

func (e *evaluator) evalArithmetic(v *ast.Binary, depth int, span token.Span) EvaluationResult {
	val, ok := e.binaryValue(v, depth)
	if !ok {
		if v.Op == ast.OpSlash || v.Op == ast.OpPercent {
			lv, lok := e.valueOf(v.Left, depth+1)
			rv, rok := e.valueOf(v.Right, depth+1)
			if lok && rok && rv.Kind == NumberVal && rv.N.IsZero() {
				verb := "Division"
				if v.Op == ast.OpPercent {
					verb = "Modulo"
				}
				_ = lv
				return result(False, span, verb+" by zero")
			}
		}
		return result(Unknown, span, "Cannot resolve operand")
	}
	return result(fromBool(val.Truthy()), span, "")
}

// binaryValue computes the arithmetic/concat result as a Value, used
// both for arithmetic expression statements and nested valueOf calls.
func (e *evaluator) binaryValue(v *ast.Binary, depth int) (Value, bool) {
	lv, lok := e.valueOf(v.Left, depth+1)
	rv, rok := e.valueOf(v.Right, depth+1)
	if !lok || !rok {
		return Value{}, false
	}
	if v.Op == ast.OpPlus && (lv.Kind == StringVal || rv.Kind == StringVal) {
		return String(lv.String() + rv.String()), true
	}
	if lv.Kind != NumberVal || rv.Kind != NumberVal {
		return Value{}, false
	}
	switch v.Op {
	case ast.OpPlus:
		return Number(lv.N.Add(rv.N)), true
	case ast.OpMinus:
		return Number(lv.N.Sub(rv.N)), true
	case ast.OpStar:
		return Number(lv.N.Mul(rv.N)), true
	case ast.OpSlash:
		if rv.N.IsZero() {
			return Value{}, false
		}
		return Number(lv.N.Div(rv.N)), true
	case ast.OpPercent:
		if rv.N.IsZero() {
			return Value{}, false
		}
		return Number(lv.N.Mod(rv.N)), true
	default:
		return Value{}, false
	}
}

func (e *evaluator) evalIn(v *ast.Binary, depth int, span token.Span) EvaluationResult {
	lv, lok := e.valueOf(v.Left, depth+1)
	rv, rok := e.valueOf(v.Right, depth+1)
	if !lok || !rok {
		return result(Unknown, span, "Cannot resolve operand")
	}
	switch rv.Kind {
	case ListVal:
		for _, item := range rv.L {
			if Equal(lv, item) {
				return result(True, span, "")
			}
		}
		return result(False, span, "Value not found in collection")
	case StringVal:
		if lv.Kind != StringVal {
			return result(False, span, "Non-string membership test on string")
		}
		if strings.Contains(rv.S, lv.S) {
			return result(True, span, "")
		}
		return result(False, span, "Substring not found")
	default:
		return result(False, span, "'in' requires an array or string right-hand side")
	}
}
