// Package check implements the thin check drivers (§4.6): the glue
// between a Behavior's declared conditions and the evaluator,
// producing one CheckResult per evaluated predicate.
package check

import (
	"github.com/Ship-Gate/ShipGate-sub007/internal/ast"
	"github.com/Ship-Gate/ShipGate-sub007/internal/eval"
	"github.com/Ship-Gate/ShipGate-sub007/internal/token"
)

// Kind distinguishes which clause a CheckResult came from.
type Kind string

const (
	KindPrecondition  Kind = "precondition"
	KindPostcondition Kind = "postcondition"
	KindInvariant     Kind = "invariant"
)

// CheckResult is one evaluated predicate, carrying its evaluator
// output through unchanged.
type CheckResult struct {
	Kind     Kind
	Span     token.Span
	Value    eval.TriState
	Reason   string
	Children []eval.EvaluationResult
}

func fromEval(kind Kind, r eval.EvaluationResult) CheckResult {
	return CheckResult{Kind: kind, Span: r.Span, Value: r.Value, Reason: r.Reason, Children: r.Children}
}

// CheckPreconditions evaluates every precondition expression in
// declaration order.
func CheckPreconditions(b *ast.Behavior, ctx eval.EvaluationContext, opts eval.Options) []CheckResult {
	var out []CheckResult
	for _, expr := range b.Preconditions {
		out = append(out, fromEval(KindPrecondition, eval.Evaluate(expr, ctx, opts)))
	}
	return out
}

// Outcome is the state a behavior's execution result resolved to
// (§4.5 "State machine for postcondition checking").
type Outcome struct {
	Success  bool
	ErrorName string // empty unless a specific declared error matched
	AnyError bool
}

// OutcomeSuccess builds the trivial success outcome.
func OutcomeSuccess() Outcome { return Outcome{Success: true} }

// OutcomeError builds an outcome for a matched declared error name.
func OutcomeError(name string) Outcome { return Outcome{ErrorName: name} }

// OutcomeAnyError builds the fallback outcome for an error that
// matched no declared name.
func OutcomeAnyError() Outcome { return Outcome{AnyError: true} }

// ResolveOutcome classifies an execution result per §4.5: a non-null
// result with no error is Success; an error whose code matches a
// declared error name is Error(name); any other error is AnyError.
func ResolveOutcome(b *ast.Behavior, hasError bool, errorCode string, hasResult bool) Outcome {
	if !hasError && hasResult {
		return OutcomeSuccess()
	}
	if hasError {
		for _, es := range b.Output.Errors {
			if es.Name == errorCode {
				return OutcomeError(errorCode)
			}
		}
		return OutcomeAnyError()
	}
	return OutcomeAnyError()
}

func (o Outcome) matchesTag(tag string) bool {
	switch {
	case o.Success:
		return tag == "success"
	case o.ErrorName != "":
		return tag == o.ErrorName || tag == "any_error"
	default:
		return tag == "any_error"
	}
}

// CheckPostconditions picks the PostBlocks whose tag matches outcome
// and evaluates their predicates.
func CheckPostconditions(b *ast.Behavior, ctx eval.EvaluationContext, outcome Outcome, opts eval.Options) []CheckResult {
	var out []CheckResult
	for _, block := range b.Postconditions {
		if !outcome.matchesTag(block.ConditionTag) {
			continue
		}
		for _, expr := range block.Predicates {
			out = append(out, fromEval(KindPostcondition, eval.Evaluate(expr, ctx, opts)))
		}
	}
	return out
}

// CheckInvariants evaluates behavior-level invariants, domain-level
// invariants, and every entity's own invariants.
func CheckInvariants(b *ast.Behavior, d *ast.Domain, ctx eval.EvaluationContext, opts eval.Options) []CheckResult {
	var out []CheckResult
	for _, expr := range b.Invariants {
		out = append(out, fromEval(KindInvariant, eval.Evaluate(expr, ctx, opts)))
	}
	if d != nil {
		for _, expr := range d.Invariants {
			out = append(out, fromEval(KindInvariant, eval.Evaluate(expr, ctx, opts)))
		}
		for _, ent := range d.Entities {
			for _, expr := range ent.Invariants {
				out = append(out, fromEval(KindInvariant, eval.Evaluate(expr, ctx, opts)))
			}
		}
	}
	return out
}

// AllPassed reports whether every result in results is True.
func AllPassed(results []CheckResult) bool {
	for _, r := range results {
		if r.Value != eval.True {
			return false
		}
	}
	return true
}
