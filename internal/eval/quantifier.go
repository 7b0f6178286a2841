package eval

import (
	"fmt"

	"github.com/Ship-Gate/ShipGate-sub007/internal/ast"
)

// evalQuantifier implements §4.5's quantifier laws. count, sum, and
// filter share all's universal-predicate combination rule: the
// specification fixes their empty-collection result (True, matching
// the vacuous-truth law) but leaves the non-empty combination
// informal, so this mirrors all's "every element must satisfy the
// predicate" reading rather than any's existential one.
func (e *evaluator) evalQuantifier(v *ast.Quantifier, depth int) EvaluationResult {
	span := v.Span()
	collVal, ok := e.valueOf(v.Collection, depth+1)
	if !ok || collVal.Kind != ListVal {
		return result(Unknown, span, "Cannot resolve quantified collection")
	}

	if len(collVal.L) == 0 {
		switch v.Kind {
		case ast.QAny:
			return result(False, span, "")
		default:
			return result(True, span, "")
		}
	}

	var kids []EvaluationResult
	sawUnknown := false
	for _, item := range collVal.L {
		itemCtx := e.ctx.WithVar(v.Var, item)
		itemEval := (&evaluator{ctx: itemCtx, opts: e.opts}).eval(v.Predicate, depth+1)
		kids = append(kids, itemEval)
		if itemEval.Value == Unknown {
			sawUnknown = true
		}
	}

	switch v.Kind {
	case ast.QAny:
		for _, k := range kids {
			if k.Value == True {
				return result(True, span, "", e.children(kids...)...)
			}
		}
		if sawUnknown {
			return result(Unknown, span, "Cannot determine whether any element satisfies the predicate", e.children(kids...)...)
		}
		return result(False, span, "No element satisfies the predicate", e.children(kids...)...)
	case ast.QNone:
		for _, k := range kids {
			if k.Value == True {
				return result(False, span, "An element satisfies the predicate", e.children(kids...)...)
			}
		}
		if sawUnknown {
			return result(Unknown, span, "Cannot determine whether no element satisfies the predicate", e.children(kids...)...)
		}
		return result(True, span, "", e.children(kids...)...)
	default: // all, count, sum, filter
		for _, k := range kids {
			if k.Value == False {
				return result(False, span, fmt.Sprintf("Element failed the %s predicate", v.Kind), e.children(kids...)...)
			}
		}
		if sawUnknown {
			return result(Unknown, span, "Cannot determine whether every element satisfies the predicate", e.children(kids...)...)
		}
		return result(True, span, "", e.children(kids...)...)
	}
}
