// Package islcore is the library's public facade: parsing, unparsing,
// and evaluating isl source, re-exported from the internal packages
// that do the real work.
package islcore

import (
	"github.com/Ship-Gate/ShipGate-sub007/internal/ast"
	"github.com/Ship-Gate/ShipGate-sub007/internal/check"
	"github.com/Ship-Gate/ShipGate-sub007/internal/entitystore"
	"github.com/Ship-Gate/ShipGate-sub007/internal/eval"
	"github.com/Ship-Gate/ShipGate-sub007/internal/fuzzy"
	"github.com/Ship-Gate/ShipGate-sub007/internal/parser"
	"github.com/Ship-Gate/ShipGate-sub007/internal/unparse"
)

type (
	Domain             = ast.Domain
	ParseResult        = parser.ParseResult
	FuzzyResult        = fuzzy.Result
	PartialNode        = fuzzy.PartialNode
	EvaluationContext  = eval.EvaluationContext
	EvaluationResult   = eval.EvaluationResult
	EvalOptions        = eval.Options
	TriState           = eval.TriState
	EntityStore        = eval.EntityStore
	ExpressionAdapter  = eval.ExpressionAdapter
	CheckResult        = check.CheckResult
	Outcome            = check.Outcome
	Store              = entitystore.Store
)

const (
	True    = eval.True
	False   = eval.False
	Unknown = eval.Unknown
)

// Parse runs the strict parser over source (§6 "Parse API").
func Parse(source, filename string) ParseResult {
	return parser.Parse(source, filename)
}

// ParseFile reads path and strictly parses its contents.
func ParseFile(path string) (ParseResult, error) {
	return parser.ParseFile(path)
}

// ParseFuzzy runs the error-recovery parser over source.
func ParseFuzzy(source, filename string) FuzzyResult {
	return fuzzy.Parse(source, filename)
}

// Unparse renders a Domain back to canonical isl text.
func Unparse(d *Domain) string {
	return unparse.Unparse(d)
}

// Evaluate reduces expr to a tri-state EvaluationResult under ctx.
func Evaluate(expr ast.Expr, ctx EvaluationContext, opts EvalOptions) EvaluationResult {
	return eval.Evaluate(expr, ctx, opts)
}

// DefaultEvalOptions matches the evaluator's documented defaults
// (max depth 100, default adapter, children collected).
func DefaultEvalOptions() EvalOptions {
	return eval.DefaultOptions()
}

// CheckPreconditions evaluates a behavior's preconditions.
func CheckPreconditions(b *ast.Behavior, ctx EvaluationContext, opts EvalOptions) []CheckResult {
	return check.CheckPreconditions(b, ctx, opts)
}

// CheckPostconditions evaluates the PostBlocks matching outcome.
func CheckPostconditions(b *ast.Behavior, ctx EvaluationContext, outcome Outcome, opts EvalOptions) []CheckResult {
	return check.CheckPostconditions(b, ctx, outcome, opts)
}

// CheckInvariants evaluates behavior, domain, and entity invariants.
func CheckInvariants(b *ast.Behavior, d *ast.Domain, ctx EvaluationContext, opts EvalOptions) []CheckResult {
	return check.CheckInvariants(b, d, ctx, opts)
}

// ResolveOutcome classifies an execution result per §4.5.
func ResolveOutcome(b *ast.Behavior, hasError bool, errorCode string, hasResult bool) Outcome {
	return check.ResolveOutcome(b, hasError, errorCode, hasResult)
}

// NewStore returns an empty in-memory entity store suitable as the
// eval.EntityStore a host wires into an EvaluationContext when it has
// no database of its own to adapt (§6 "Entity store contract").
func NewStore() *Store {
	return entitystore.New()
}
