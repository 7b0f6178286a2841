// Package eval implements the tri-state expression evaluator (§4.5):
// every isl expression reduces to True, False, or Unknown, never an
// exception. Concrete violations resolve to False with a reason;
// missing information resolves to Unknown.
package eval

import (
	"github.com/shopspring/decimal"

	"github.com/Ship-Gate/ShipGate-sub007/internal/ast"
	"github.com/Ship-Gate/ShipGate-sub007/internal/config"
	"github.com/Ship-Gate/ShipGate-sub007/internal/token"
)

// EvaluationResult is the evaluator's total, structured output for
// one expression node.
type EvaluationResult struct {
	Value    TriState
	Span     token.Span
	Reason   string
	Children []EvaluationResult
}

// Options controls the depth cap, the adapter, and whether
// intermediate child results are retained (§6 "Verify API").
type Options struct {
	Adapter        ExpressionAdapter
	MaxDepth       int
	CollectChildren bool
}

// DefaultOptions matches the evaluator's documented defaults.
func DefaultOptions() Options {
	return Options{Adapter: DefaultAdapter{}, MaxDepth: config.Default().MaxEvalDepth, CollectChildren: true}
}

// Evaluate reduces expr under ctx to an EvaluationResult tree.
func Evaluate(expr ast.Expr, ctx EvaluationContext, opts Options) EvaluationResult {
	if opts.Adapter == nil {
		opts.Adapter = DefaultAdapter{}
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = config.Default().MaxEvalDepth
	}
	e := &evaluator{ctx: ctx, opts: opts}
	return e.eval(expr, 0)
}

type evaluator struct {
	ctx  EvaluationContext
	opts Options
}

func result(v TriState, span token.Span, reason string, children ...EvaluationResult) EvaluationResult {
	return EvaluationResult{Value: v, Span: span, Reason: reason, Children: children}
}

func (e *evaluator) children(kids ...EvaluationResult) []EvaluationResult {
	if !e.opts.CollectChildren {
		return nil
	}
	return kids
}

func (e *evaluator) eval(expr ast.Expr, depth int) EvaluationResult {
	span := expr.Span()
	if depth > e.opts.MaxDepth {
		return result(False, span, "Maximum evaluation depth exceeded")
	}

	switch v := expr.(type) {
	case *ast.StringLit:
		return e.evalLiteral(Value{Kind: StringVal, S: v.Value}, span)
	case *ast.NumberLit:
		return e.evalNumberLit(v, span)
	case *ast.BooleanLit:
		if v.Value {
			return result(True, span, "")
		}
		return result(False, span, "")
	case *ast.NullLit:
		return result(False, span, "")
	case *ast.DurationLit:
		return result(True, span, "")
	case *ast.RegexLit:
		return result(True, span, "")
	case *ast.Identifier:
		return e.evalIdentifier(v, span)
	case *ast.QualifiedName:
		return e.evalQualifiedName(v, span)
	case *ast.Member:
		return e.evalMember(v, depth)
	case *ast.Call:
		return e.evalCall(v, depth)
	case *ast.Binary:
		return e.evalBinary(v, depth)
	case *ast.Unary:
		return e.evalUnary(v, depth)
	case *ast.Quantifier:
		return e.evalQuantifier(v, depth)
	case *ast.Conditional:
		return e.evalConditional(v, depth)
	case *ast.Old:
		return e.evalOld(v, depth)
	case *ast.Index:
		return e.evalIndex(v, depth)
	case *ast.Result:
		return e.evalResult(v, span)
	case *ast.Input:
		return e.evalInput(v, span)
	case *ast.ListExpr:
		return e.evalListLiteral(v, depth)
	case *ast.MapExpr:
		return e.evalMapLiteral(v, depth)
	case *ast.Lambda:
		// A bare lambda with no quantifier around it has no truth
		// value of its own; treat it as vacuously true.
		return result(True, span, "")
	default:
		return result(Unknown, span, "Unsupported expression node")
	}
}

func (e *evaluator) evalLiteral(v Value, span token.Span) EvaluationResult {
	return result(fromBool(v.Truthy()), span, "")
}

func (e *evaluator) evalNumberLit(n *ast.NumberLit, span token.Span) EvaluationResult {
	if _, err := decimal.NewFromString(n.Value); err != nil {
		return result(False, span, "Malformed number literal")
	}
	return result(True, span, "")
}

// valueOf reduces an expression to a Value for use in comparisons and
// arithmetic; ok=false propagates Unknown to the caller.
func (e *evaluator) valueOf(expr ast.Expr, depth int) (Value, bool) {
	switch v := expr.(type) {
	case *ast.StringLit:
		return String(v.Value), true
	case *ast.NumberLit:
		d, err := decimal.NewFromString(v.Value)
		if err != nil {
			return Value{}, false
		}
		return Number(d), true
	case *ast.BooleanLit:
		return Bool(v.Value), true
	case *ast.NullLit:
		return Null(), true
	case *ast.DurationLit:
		d, err := decimal.NewFromString(v.Value)
		if err != nil {
			return Value{}, false
		}
		return Number(d), true
	case *ast.Identifier:
		return e.identifierValue(v.Name)
	case *ast.QualifiedName:
		return e.qualifiedValue(v.Parts)
	case *ast.ListExpr:
		var items []Value
		for _, el := range v.Elements {
			val, ok := e.valueOf(el, depth+1)
			if !ok {
				return Value{}, false
			}
			items = append(items, val)
		}
		return List(items), true
	case *ast.MapExpr:
		m := map[string]Value{}
		for _, ent := range v.Entries {
			val, ok := e.valueOf(ent.Value, depth+1)
			if !ok {
				return Value{}, false
			}
			m[ent.Key] = val
		}
		return Map(m), true
	case *ast.Member:
		obj, ok := e.valueOf(v.Object, depth+1)
		if !ok || obj.Kind != MapVal {
			return Value{}, false
		}
		val, found := obj.M[v.Property]
		if !found {
			return Value{}, false
		}
		return val, true
	case *ast.Index:
		obj, ok := e.valueOf(v.Object, depth+1)
		if !ok {
			return Value{}, false
		}
		idx, ok := e.valueOf(v.IndexExpr, depth+1)
		if !ok {
			return Value{}, false
		}
		return indexValue(obj, idx)
	case *ast.Result:
		if e.ctx.Result == nil {
			return Value{}, false
		}
		if v.Property == "" {
			return *e.ctx.Result, true
		}
		if e.ctx.Result.Kind != MapVal {
			return Value{}, false
		}
		val, found := e.ctx.Result.M[v.Property]
		return val, found
	case *ast.Input:
		val, found := e.ctx.Input[v.Property]
		return val, found
	case *ast.Old:
		old := *e
		old.ctx = e.ctx.WithOld()
		return old.valueOf(v.Inner, depth+1)
	case *ast.Binary:
		return e.binaryValue(v, depth)
	case *ast.Unary:
		return e.unaryValue(v, depth)
	case *ast.Call:
		return e.callValue(v, depth)
	default:
		return Value{}, false
	}
}

func indexValue(obj, idx Value) (Value, bool) {
	switch obj.Kind {
	case ListVal:
		if idx.Kind != NumberVal {
			return Value{}, false
		}
		i := idx.N.IntPart()
		if i < 0 || int(i) >= len(obj.L) {
			return Value{}, false
		}
		return obj.L[i], true
	case MapVal:
		if idx.Kind != StringVal {
			return Value{}, false
		}
		val, ok := obj.M[idx.S]
		return val, ok
	default:
		return Value{}, false
	}
}

func (e *evaluator) identifierValue(name string) (Value, bool) {
	switch name {
	case "true":
		return Bool(true), true
	case "false":
		return Bool(false), true
	case "null":
		return Null(), true
	case "now":
		return String(e.ctx.Now.Format("2006-01-02T15:04:05Z07:00")), true
	}
	if v, ok := e.ctx.Vars[name]; ok {
		return v, true
	}
	if v, ok := e.ctx.Input[name]; ok {
		return v, true
	}
	return Value{}, false
}

func (e *evaluator) qualifiedValue(parts []string) (Value, bool) {
	if len(parts) == 0 {
		return Value{}, false
	}
	v, ok := e.identifierValue(parts[0])
	if !ok {
		return Value{}, false
	}
	for _, seg := range parts[1:] {
		if v.Kind != MapVal {
			return Value{}, false
		}
		next, found := v.M[seg]
		if !found {
			return Value{}, false
		}
		v = next
	}
	return v, true
}
