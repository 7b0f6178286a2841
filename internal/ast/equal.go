package ast

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Ship-Gate/ShipGate-sub007/internal/token"
)

// spanComparer always reports spans equal: they are strictly
// informational (§3.1) and excluded from structural equality.
var spanComparer = cmp.Comparer(func(a, b token.Span) bool { return true })

// exportAll lets cmp.Equal reach into this package's unexported
// struct fields (every node field here is exported already, but
// third-party AST consumers embedding these types may not be).
var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

// Equal reports whether two Domains are structurally equal, ignoring
// every Span (§8 round-trip property).
func Equal(a, b *Domain) bool {
	return cmp.Equal(a, b, spanComparer, cmpopts.EquateEmpty(), exportAll)
}

// ExprEqual reports whether two expression subtrees are structurally
// equal, ignoring spans.
func ExprEqual(a, b Expr) bool {
	return cmp.Equal(a, b, spanComparer, cmpopts.EquateEmpty(), exportAll)
}
