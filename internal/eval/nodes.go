package eval

import (
	"fmt"

	"github.com/Ship-Gate/ShipGate-sub007/internal/ast"
	"github.com/Ship-Gate/ShipGate-sub007/internal/token"
)

func (e *evaluator) evalIdentifier(v *ast.Identifier, span token.Span) EvaluationResult {
	switch v.Name {
	case "true":
		return result(True, span, "")
	case "false":
		return result(False, span, "")
	case "null":
		return result(False, span, "")
	case "now":
		return result(True, span, "")
	}
	if val, ok := e.ctx.Vars[v.Name]; ok {
		return result(fromBool(val.Truthy()), span, "")
	}
	if val, ok := e.ctx.Input[v.Name]; ok {
		return result(fromBool(val.Truthy()), span, "")
	}
	if e.ctx.Domain != nil {
		for _, ent := range e.ctx.Domain.Entities {
			if ent.Name == v.Name {
				return result(True, span, "")
			}
		}
	}
	return result(False, span, "Unknown identifier")
}

func (e *evaluator) evalQualifiedName(v *ast.QualifiedName, span token.Span) EvaluationResult {
	val, ok := e.qualifiedValue(v.Parts)
	if !ok {
		return result(Unknown, span, "Unknown identifier")
	}
	return result(fromBool(val.Truthy()), span, "")
}

func (e *evaluator) evalMember(v *ast.Member, depth int) EvaluationResult {
	span := v.Span()
	objVal, ok := e.valueOf(v.Object, depth+1)
	if !ok {
		return result(Unknown, span, fmt.Sprintf("Cannot resolve %s", v.Property))
	}
	if objVal.IsNull() {
		return result(Unknown, span, "Member access on null")
	}
	if objVal.Kind != MapVal {
		return result(False, span, fmt.Sprintf("Property %q does not exist", v.Property))
	}
	val, found := objVal.M[v.Property]
	if !found {
		return result(False, span, fmt.Sprintf("Property %q does not exist", v.Property))
	}
	return result(fromBool(val.Truthy()), span, "")
}

func (e *evaluator) evalResult(v *ast.Result, span token.Span) EvaluationResult {
	if e.ctx.Result == nil {
		return result(Unknown, span, "No result available")
	}
	if v.Property == "" {
		return result(fromBool(e.ctx.Result.Truthy()), span, "")
	}
	if e.ctx.Result.Kind != MapVal {
		return result(False, span, fmt.Sprintf("result.%s does not exist", v.Property))
	}
	val, found := e.ctx.Result.M[v.Property]
	if !found {
		return result(False, span, fmt.Sprintf("result.%s does not exist", v.Property))
	}
	return result(fromBool(val.Truthy()), span, "")
}

func (e *evaluator) evalInput(v *ast.Input, span token.Span) EvaluationResult {
	val, found := e.ctx.Input[v.Property]
	if !found {
		return result(False, span, fmt.Sprintf("input.%s does not exist", v.Property))
	}
	return result(fromBool(val.Truthy()), span, "")
}

func (e *evaluator) evalOld(v *ast.Old, depth int) EvaluationResult {
	span := v.Span()
	if e.ctx.Old == nil {
		return result(False, span, "old() without previous state snapshot")
	}
	inner := &evaluator{ctx: e.ctx.WithOld(), opts: e.opts}
	r := inner.eval(v.Inner, depth+1)
	r.Span = span
	return r
}

func (e *evaluator) evalIndex(v *ast.Index, depth int) EvaluationResult {
	span := v.Span()
	objVal, ok := e.valueOf(v.Object, depth+1)
	if !ok {
		return result(Unknown, span, "Cannot resolve indexed value")
	}
	if objVal.IsNull() {
		return result(Unknown, span, "Index on null")
	}
	idxVal, ok := e.valueOf(v.IndexExpr, depth+1)
	if !ok {
		return result(Unknown, span, "Cannot resolve index")
	}
	val, found := indexValue(objVal, idxVal)
	if !found {
		return result(False, span, "Index out of bounds")
	}
	return result(fromBool(val.Truthy()), span, "")
}

func (e *evaluator) evalListLiteral(v *ast.ListExpr, depth int) EvaluationResult {
	span := v.Span()
	if len(v.Elements) == 0 {
		return result(False, span, "")
	}
	var kids []EvaluationResult
	for _, el := range v.Elements {
		kids = append(kids, e.eval(el, depth+1))
	}
	return result(True, span, "", e.children(kids...)...)
}

func (e *evaluator) evalMapLiteral(v *ast.MapExpr, depth int) EvaluationResult {
	span := v.Span()
	var kids []EvaluationResult
	for _, ent := range v.Entries {
		kids = append(kids, e.eval(ent.Value, depth+1))
	}
	return result(True, span, "", e.children(kids...)...)
}

func (e *evaluator) evalConditional(v *ast.Conditional, depth int) EvaluationResult {
	span := v.Span()
	cond := e.eval(v.Cond, depth+1)
	switch cond.Value {
	case Unknown:
		return result(Unknown, span, "Condition is unknown", e.children(cond)...)
	case True:
		then := e.eval(v.Then, depth+1)
		return result(then.Value, span, then.Reason, e.children(cond, then)...)
	default:
		if v.Else == nil {
			return result(True, span, "", e.children(cond)...)
		}
		els := e.eval(v.Else, depth+1)
		return result(els.Value, span, els.Reason, e.children(cond, els)...)
	}
}

func (e *evaluator) evalUnary(v *ast.Unary, depth int) EvaluationResult {
	span := v.Span()
	if v.Op == ast.OpNegate {
		val, ok := e.valueOf(v, depth)
		if !ok {
			return result(Unknown, span, "Cannot negate operand")
		}
		return result(fromBool(val.Truthy()), span, "")
	}
	operand := e.eval(v.Operand, depth+1)
	return result(Not(operand.Value), span, "", e.children(operand)...)
}

func (e *evaluator) unaryValue(v *ast.Unary, depth int) (Value, bool) {
	if v.Op != ast.OpNegate {
		return Value{}, false
	}
	val, ok := e.valueOf(v.Operand, depth+1)
	if !ok || val.Kind != NumberVal {
		return Value{}, false
	}
	return Number(val.N.Neg()), true
}
