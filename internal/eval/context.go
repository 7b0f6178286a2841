package eval

import (
	"context"
	"time"

	"github.com/Ship-Gate/ShipGate-sub007/internal/ast"
)

// EvaluationContext carries every piece of external state an
// expression might reference (§4.5).
type EvaluationContext struct {
	Input   map[string]Value
	Result  *Value // nil if the behavior has not produced one yet
	Error   *Value // nil if no error occurred
	Store   EntityStore
	Old     EntityStoreSnapshot // nil if no prior snapshot exists
	Domain  *ast.Domain
	Now     time.Time
	Vars    map[string]Value // quantifier/lambda and scenario `given` bindings
}

// WithVar returns a copy of ctx with name bound to v, used when
// descending into a quantifier predicate or a lambda body so sibling
// evaluations don't see each other's bindings.
func (ctx EvaluationContext) WithVar(name string, v Value) EvaluationContext {
	next := ctx
	vars := make(map[string]Value, len(ctx.Vars)+1)
	for k, val := range ctx.Vars {
		vars[k] = val
	}
	vars[name] = v
	next.Vars = vars
	return next
}

// WithOld returns a copy of ctx whose EntityStore reads through the
// snapshot instead of the live store, used while evaluating an Old
// expression's inner body (§4.5 "Old").
func (ctx EvaluationContext) WithOld() EvaluationContext {
	next := ctx
	next.Store = snapshotStore{next.Old}
	return next
}

// snapshotStore adapts an EntityStoreSnapshot to the read-only subset
// of EntityStore so Old's inner expression can call the same Call
// evaluation path as the live store.
type snapshotStore struct {
	snap EntityStoreSnapshot
}

func (s snapshotStore) GetAll(entity string) []EntityInstance { return s.snap.GetAll(entity) }
func (s snapshotStore) Exists(entity string, c map[string]Value) bool { return s.snap.Exists(entity, c) }
func (s snapshotStore) Lookup(entity string, c map[string]Value) (EntityInstance, bool) {
	return s.snap.Lookup(entity, c)
}
func (s snapshotStore) Count(entity string, c map[string]Value) int { return s.snap.Count(entity, c) }
func (s snapshotStore) Snapshot(_ context.Context) EntityStoreSnapshot { return s.snap }
