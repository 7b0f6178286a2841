package check

import (
	"testing"

	"github.com/Ship-Gate/ShipGate-sub007/internal/ast"
	"github.com/Ship-Gate/ShipGate-sub007/internal/eval"
)

func boolExpr(b bool) ast.Expr { return &ast.BooleanLit{Value: b} }

func TestCheckPreconditions_EvaluatesEachInOrder(t *testing.T) {
	b := &ast.Behavior{Preconditions: []ast.Expr{boolExpr(true), boolExpr(false)}}
	results := CheckPreconditions(b, eval.EvaluationContext{}, eval.DefaultOptions())
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Kind != KindPrecondition || results[0].Value != eval.True {
		t.Errorf("results[0] = %+v, want precondition/True", results[0])
	}
	if results[1].Value != eval.False {
		t.Errorf("results[1] = %+v, want False", results[1])
	}
}

func TestResolveOutcome_SuccessWhenResultAndNoError(t *testing.T) {
	b := &ast.Behavior{}
	o := ResolveOutcome(b, false, "", true)
	if !o.Success || o.ErrorName != "" || o.AnyError {
		t.Errorf("ResolveOutcome(no error, has result) = %+v, want Success", o)
	}
}

func TestResolveOutcome_DeclaredErrorMatchesByName(t *testing.T) {
	b := &ast.Behavior{Output: ast.OutputSpec{Errors: []ast.ErrorSpec{{Name: "InsufficientStock"}}}}
	o := ResolveOutcome(b, true, "InsufficientStock", false)
	if o.Success || o.AnyError || o.ErrorName != "InsufficientStock" {
		t.Errorf("ResolveOutcome(declared error) = %+v, want Error(InsufficientStock)", o)
	}
}

func TestResolveOutcome_UndeclaredErrorFallsBackToAnyError(t *testing.T) {
	b := &ast.Behavior{Output: ast.OutputSpec{Errors: []ast.ErrorSpec{{Name: "InsufficientStock"}}}}
	o := ResolveOutcome(b, true, "SomethingElse", false)
	if !o.AnyError || o.Success || o.ErrorName != "" {
		t.Errorf("ResolveOutcome(undeclared error) = %+v, want AnyError", o)
	}
}

func TestResolveOutcome_NoResultNoErrorIsAnyError(t *testing.T) {
	b := &ast.Behavior{}
	o := ResolveOutcome(b, false, "", false)
	if !o.AnyError {
		t.Errorf("ResolveOutcome(no result, no error) = %+v, want AnyError", o)
	}
}

func TestCheckPostconditions_SuccessTagSelectsSuccessBlock(t *testing.T) {
	b := &ast.Behavior{
		Postconditions: []ast.PostBlock{
			{ConditionTag: "success", Predicates: []ast.Expr{boolExpr(true)}},
			{ConditionTag: "InsufficientStock", Predicates: []ast.Expr{boolExpr(false)}},
		},
	}
	results := CheckPostconditions(b, eval.EvaluationContext{}, OutcomeSuccess(), eval.DefaultOptions())
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (only the success block)", len(results))
	}
	if results[0].Value != eval.True {
		t.Errorf("success block predicate = %s, want True", results[0].Value)
	}
}

func TestCheckPostconditions_ErrorTagSelectsMatchingBlock(t *testing.T) {
	b := &ast.Behavior{
		Postconditions: []ast.PostBlock{
			{ConditionTag: "success", Predicates: []ast.Expr{boolExpr(true)}},
			{ConditionTag: "InsufficientStock", Predicates: []ast.Expr{boolExpr(false)}},
		},
	}
	results := CheckPostconditions(b, eval.EvaluationContext{}, OutcomeError("InsufficientStock"), eval.DefaultOptions())
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (only the matching error block)", len(results))
	}
	if results[0].Value != eval.False {
		t.Errorf("error block predicate = %s, want False", results[0].Value)
	}
}

func TestCheckPostconditions_AnyErrorMatchesCanonicalAnyErrorTag(t *testing.T) {
	b := &ast.Behavior{
		Postconditions: []ast.PostBlock{
			{ConditionTag: "any_error", Predicates: []ast.Expr{boolExpr(true)}},
		},
	}
	results := CheckPostconditions(b, eval.EvaluationContext{}, OutcomeAnyError(), eval.DefaultOptions())
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
}

func TestCheckPostconditions_SpecificErrorAlsoMatchesAnyErrorBlock(t *testing.T) {
	b := &ast.Behavior{
		Postconditions: []ast.PostBlock{
			{ConditionTag: "any_error", Predicates: []ast.Expr{boolExpr(true)}},
		},
	}
	results := CheckPostconditions(b, eval.EvaluationContext{}, OutcomeError("InsufficientStock"), eval.DefaultOptions())
	if len(results) != 1 {
		t.Fatalf("an any_error block should also run for a named declared error, got %d results", len(results))
	}
}

func TestCheckInvariants_CollectsBehaviorDomainAndEntityLevels(t *testing.T) {
	b := &ast.Behavior{Invariants: []ast.Expr{boolExpr(true)}}
	d := &ast.Domain{
		Invariants: []ast.Expr{boolExpr(true)},
		Entities: []*ast.Entity{
			{Name: "Order", Invariants: []ast.Expr{boolExpr(false)}},
		},
	}
	results := CheckInvariants(b, d, eval.EvaluationContext{}, eval.DefaultOptions())
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3 (behavior + domain + entity)", len(results))
	}
	for _, r := range results {
		if r.Kind != KindInvariant {
			t.Errorf("result kind = %q, want invariant", r.Kind)
		}
	}
}

func TestCheckInvariants_NilDomainOnlyChecksBehavior(t *testing.T) {
	b := &ast.Behavior{Invariants: []ast.Expr{boolExpr(true)}}
	results := CheckInvariants(b, nil, eval.EvaluationContext{}, eval.DefaultOptions())
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
}

func TestAllPassed(t *testing.T) {
	allTrue := []CheckResult{{Value: eval.True}, {Value: eval.True}}
	if !AllPassed(allTrue) {
		t.Error("AllPassed should be true when every result is True")
	}
	withFalse := []CheckResult{{Value: eval.True}, {Value: eval.False}}
	if AllPassed(withFalse) {
		t.Error("AllPassed should be false when any result is False")
	}
	withUnknown := []CheckResult{{Value: eval.True}, {Value: eval.Unknown}}
	if AllPassed(withUnknown) {
		t.Error("AllPassed should be false when any result is Unknown (only True counts as passed)")
	}
	if !AllPassed(nil) {
		t.Error("AllPassed of an empty result set should vacuously be true")
	}
}
