package eval

import "context"

// EntityInstance is one stored record, a flat field map (§6 "Entity
// store contract"). Field access during evaluation goes through
// Fields directly; no schema validation happens here, that is the
// parser/type layer's job.
type EntityInstance struct {
	Entity string
	Fields map[string]Value
}

// EntityStoreSnapshot is an independently-readable view captured at
// one point in time, used by Old (§4.5 "Old").
type EntityStoreSnapshot interface {
	GetAll(entityName string) []EntityInstance
	Exists(entityName string, criteria map[string]Value) bool
	Lookup(entityName string, criteria map[string]Value) (EntityInstance, bool)
	Count(entityName string, criteria map[string]Value) int
}

// EntityStore is the host-supplied contract the evaluator reads
// through. Mutating operations deliberately have no place in this
// interface (§5 "treated as a borrowed handle").
type EntityStore interface {
	EntityStoreSnapshot
	Snapshot(ctx context.Context) EntityStoreSnapshot
}

// ExpressionAdapter is the pluggable interface for domain primitives
// the evaluator cannot decide on its own (§4.5).
type ExpressionAdapter interface {
	IsValid(v Value) TriState
	Length(v Value) (int, bool) // ok=false means Unknown
	Exists(store EntityStoreSnapshot, entity string, criteria map[string]Value) TriState
	Lookup(store EntityStoreSnapshot, entity string, criteria map[string]Value) (Value, bool)
}

// DefaultAdapter implements ExpressionAdapter directly atop
// EntityStoreSnapshot, with no external domain knowledge (§4.5
// "A default adapter is provided").
type DefaultAdapter struct{}

func (DefaultAdapter) IsValid(v Value) TriState {
	switch v.Kind {
	case NullVal:
		return False
	case StringVal:
		return fromBool(v.S != "")
	case NumberVal:
		return True // decimal.Decimal is always finite
	case BoolVal:
		return True
	case ListVal:
		return fromBool(len(v.L) > 0)
	case MapVal:
		return True
	case UUIDVal:
		return True
	default:
		return Unknown
	}
}

func (DefaultAdapter) Length(v Value) (int, bool) {
	switch v.Kind {
	case StringVal:
		return len([]rune(v.S)), true
	case ListVal:
		return len(v.L), true
	default:
		return 0, false
	}
}

func (DefaultAdapter) Exists(store EntityStoreSnapshot, entity string, criteria map[string]Value) TriState {
	if store == nil {
		return Unknown
	}
	return fromBool(store.Exists(entity, criteria))
}

func (DefaultAdapter) Lookup(store EntityStoreSnapshot, entity string, criteria map[string]Value) (Value, bool) {
	if store == nil {
		return Value{}, false
	}
	inst, ok := store.Lookup(entity, criteria)
	if !ok {
		return Value{}, false
	}
	return Map(inst.Fields), true
}
