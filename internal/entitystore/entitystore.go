// Package entitystore provides an in-memory reference implementation
// of the eval.EntityStore contract (§6 "Entity store contract"). Real
// hosts are expected to supply their own adapter over a database; this
// one exists so tests and the islcore facade have something concrete
// to drive.
package entitystore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Ship-Gate/ShipGate-sub007/internal/eval"
)

// Store is a mutable, in-memory EntityStore keyed by entity name.
// Its one mutation method, Create, lives only here, never on the
// eval.EntityStore interface the evaluator reads through (§5); the
// store has no update or delete method.
type Store struct {
	mu   sync.RWMutex
	data map[string][]eval.EntityInstance
}

func New() *Store {
	return &Store{data: map[string][]eval.EntityInstance{}}
}

// Create stores a new instance of entity, generating a UUID-typed
// "id" field when the caller didn't supply one (§6 "Entity store
// contract" — an entity's identity is its UUID primary key). Returns
// the id that ends up on the stored instance.
func (s *Store) Create(entity string, fields map[string]eval.Value) eval.Value {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make(map[string]eval.Value, len(fields)+1)
	for k, v := range fields {
		stored[k] = v
	}
	id, hasID := stored["id"]
	if !hasID {
		id = eval.UUIDValue(uuid.New())
		stored["id"] = id
	}

	s.data[entity] = append(s.data[entity], eval.EntityInstance{Entity: entity, Fields: stored})
	return id
}

func matches(inst eval.EntityInstance, criteria map[string]eval.Value) bool {
	for k, v := range criteria {
		fv, ok := inst.Fields[k]
		if !ok || !eval.Equal(fv, v) {
			return false
		}
	}
	return true
}

func (s *Store) GetAll(entity string) []eval.EntityInstance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]eval.EntityInstance, len(s.data[entity]))
	copy(out, s.data[entity])
	return out
}

func (s *Store) Exists(entity string, criteria map[string]eval.Value) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inst := range s.data[entity] {
		if matches(inst, criteria) {
			return true
		}
	}
	return false
}

func (s *Store) Lookup(entity string, criteria map[string]eval.Value) (eval.EntityInstance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inst := range s.data[entity] {
		if matches(inst, criteria) {
			return inst, true
		}
	}
	return eval.EntityInstance{}, false
}

func (s *Store) Count(entity string, criteria map[string]eval.Value) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, inst := range s.data[entity] {
		if matches(inst, criteria) {
			n++
		}
	}
	return n
}

// Snapshot returns a frozen, independently-readable copy for use as
// eval.EvaluationContext.Old (§4.5 "Old").
func (s *Store) Snapshot(_ context.Context) eval.EntityStoreSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	frozen := make(map[string][]eval.EntityInstance, len(s.data))
	for k, v := range s.data {
		cp := make([]eval.EntityInstance, len(v))
		copy(cp, v)
		frozen[k] = cp
	}
	return &snapshot{data: frozen}
}

type snapshot struct {
	data map[string][]eval.EntityInstance
}

func (s *snapshot) GetAll(entity string) []eval.EntityInstance { return s.data[entity] }

func (s *snapshot) Exists(entity string, criteria map[string]eval.Value) bool {
	for _, inst := range s.data[entity] {
		if matches(inst, criteria) {
			return true
		}
	}
	return false
}

func (s *snapshot) Lookup(entity string, criteria map[string]eval.Value) (eval.EntityInstance, bool) {
	for _, inst := range s.data[entity] {
		if matches(inst, criteria) {
			return inst, true
		}
	}
	return eval.EntityInstance{}, false
}

func (s *snapshot) Count(entity string, criteria map[string]eval.Value) int {
	n := 0
	for _, inst := range s.data[entity] {
		if matches(inst, criteria) {
			n++
		}
	}
	return n
}
