package eval

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValueKind is the closed set of runtime value shapes the evaluator
// and the entity store exchange.
type ValueKind int

const (
	NullVal ValueKind = iota
	StringVal
	NumberVal
	BoolVal
	ListVal
	MapVal
	UUIDVal
)

// Value is a tagged union, one field active per Kind. Number uses
// decimal.Decimal throughout so duration/money/percentage constraint
// arithmetic never loses precision to float64 rounding.
type Value struct {
	Kind ValueKind
	S    string
	N    decimal.Decimal
	B    bool
	L    []Value
	M    map[string]Value
	U    uuid.UUID
}

func Null() Value                { return Value{Kind: NullVal} }
func String(s string) Value      { return Value{Kind: StringVal, S: s} }
func Bool(b bool) Value          { return Value{Kind: BoolVal, B: b} }
func Number(d decimal.Decimal) Value { return Value{Kind: NumberVal, N: d} }
func IntValue(i int64) Value     { return Value{Kind: NumberVal, N: decimal.NewFromInt(i)} }
func List(items []Value) Value   { return Value{Kind: ListVal, L: items} }
func Map(m map[string]Value) Value { return Value{Kind: MapVal, M: m} }
func UUIDValue(id uuid.UUID) Value { return Value{Kind: UUIDVal, U: id} }

func (v Value) IsNull() bool { return v.Kind == NullVal }

// Truthy is the truth value used for literal/identifier evaluation
// (§4.5 "Literals"). It differs from DefaultAdapter.IsValid: a false
// boolean and an empty map are valid there but not truthy here.
func (v Value) Truthy() bool {
	switch v.Kind {
	case NullVal:
		return false
	case StringVal:
		return v.S != ""
	case NumberVal:
		return true
	case BoolVal:
		return v.B
	case ListVal:
		return len(v.L) > 0
	case MapVal:
		return len(v.M) > 0
	case UUIDVal:
		return v.U != uuid.Nil
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.Kind {
	case NullVal:
		return "null"
	case StringVal:
		return v.S
	case NumberVal:
		return v.N.String()
	case BoolVal:
		return fmt.Sprintf("%t", v.B)
	case ListVal:
		return fmt.Sprintf("%v", v.L)
	case MapVal:
		return fmt.Sprintf("%v", v.M)
	case UUIDVal:
		return v.U.String()
	default:
		return "?"
	}
}

// Equal performs the deep structural comparison Binary `==`/`!=`
// require (§4.5 "Comparison").
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		// Numbers and UUID-shaped strings are otherwise-equal only
		// when both sides already agree on kind; a bare string never
		// equals a number.
		return false
	}
	switch a.Kind {
	case NullVal:
		return true
	case StringVal:
		return a.S == b.S
	case NumberVal:
		return a.N.Equal(b.N)
	case BoolVal:
		return a.B == b.B
	case UUIDVal:
		return a.U == b.U
	case ListVal:
		if len(a.L) != len(b.L) {
			return false
		}
		for i := range a.L {
			if !Equal(a.L[i], b.L[i]) {
				return false
			}
		}
		return true
	case MapVal:
		if len(a.M) != len(b.M) {
			return false
		}
		keys := make([]string, 0, len(a.M))
		for k := range a.M {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			bv, ok := b.M[k]
			if !ok || !Equal(a.M[k], bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
