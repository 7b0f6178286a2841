// Package ast defines the closed, tagged-variant AST for the isl
// domain specification language (§3.3). Every node carries a Span;
// structural equality (used by the round-trip property, §8) always
// ignores it. Nodes are produced once by the parser and never
// mutated afterwards (§3.3 "Lifecycle").
package ast

import "github.com/Ship-Gate/ShipGate-sub007/internal/token"

// Domain is the root of every parsed file.
type Domain struct {
	Span       token.Span
	Name       string
	Version    string
	Owner      string // empty if absent
	Imports    []*Import
	Types      []*TypeDecl
	Entities   []*Entity
	Behaviors  []*Behavior
	Policies   []*Policy
	Views      []*View
	Scenarios  []*ScenarioBlock
	Chaos      []*ChaosBlock
	Invariants []Expr
}

type Import struct {
	Span   token.Span
	Source string
	Items  []ImportItem
}

type ImportItem struct {
	Span  token.Span
	Name  string
	Alias string // empty if absent
}

// TypeDecl names a TypeDefinition at domain scope.
type TypeDecl struct {
	Span token.Span
	Name string
	Def  TypeDefinition
}

// TypeDefinition is the closed set of type-shape variants (§3.3).
type TypeDefinition interface {
	typeDefinition()
	Span() token.Span
}

type PrimitiveType struct {
	SpanValue token.Span
	Name      string // String|Int|Decimal|Boolean|Timestamp|UUID|Duration
}

func (p *PrimitiveType) typeDefinition()    {}
func (p *PrimitiveType) Span() token.Span   { return p.SpanValue }

type Constraint struct {
	Span  token.Span
	Name  string
	Value Expr
}

type ConstrainedType struct {
	SpanValue   token.Span
	Base        TypeDefinition
	Constraints []Constraint
}

func (c *ConstrainedType) typeDefinition()  {}
func (c *ConstrainedType) Span() token.Span { return c.SpanValue }

type EnumType struct {
	SpanValue token.Span
	Variants  []string
}

func (e *EnumType) typeDefinition()  {}
func (e *EnumType) Span() token.Span { return e.SpanValue }

type Field struct {
	Span        token.Span
	Name        string
	Type        TypeDefinition
	Optional    bool
	Annotations []string
}

type StructType struct {
	SpanValue token.Span
	Fields    []Field
}

func (s *StructType) typeDefinition()  {}
func (s *StructType) Span() token.Span { return s.SpanValue }

type ListType struct {
	SpanValue token.Span
	Element   TypeDefinition
}

func (l *ListType) typeDefinition()  {}
func (l *ListType) Span() token.Span { return l.SpanValue }

type MapType struct {
	SpanValue token.Span
	Key       TypeDefinition
	Value     TypeDefinition
}

func (m *MapType) typeDefinition()  {}
func (m *MapType) Span() token.Span { return m.SpanValue }

type OptionalType struct {
	SpanValue token.Span
	Inner     TypeDefinition
}

func (o *OptionalType) typeDefinition()  {}
func (o *OptionalType) Span() token.Span { return o.SpanValue }

type ReferenceType struct {
	SpanValue     token.Span
	QualifiedName []string
}

func (r *ReferenceType) typeDefinition()  {}
func (r *ReferenceType) Span() token.Span { return r.SpanValue }

type UnionVariant struct {
	Span   token.Span
	Name   string
	Fields []Field
}

type UnionType struct {
	SpanValue token.Span
	Variants  []UnionVariant
}

func (u *UnionType) typeDefinition()  {}
func (u *UnionType) Span() token.Span { return u.SpanValue }

// Lifecycle records raw state-name transition edges (§3.3 "no closure
// is required").
type Lifecycle struct {
	Span        token.Span
	Transitions [][2]string
}

type Entity struct {
	Span       token.Span
	Name       string
	Fields     []Field
	Invariants []Expr
	Lifecycle  *Lifecycle // nil if absent
}

type ErrorSpec struct {
	Span       token.Span
	Name       string
	When       string
	Retriable  bool
	RetryAfter *DurationLit // nil if absent
}

type InputSpec struct {
	Span   token.Span
	Fields []Field
}

type OutputSpec struct {
	Span        token.Span
	SuccessType TypeDefinition
	Errors      []ErrorSpec
}

// PostBlock groups postcondition predicates under an outcome tag in
// the set {"success", "any_error", "<ERROR_NAME>"} (GLOSSARY).
type PostBlock struct {
	Span         token.Span
	ConditionTag string
	Predicates   []Expr
}

type TemporalClause struct {
	Span token.Span
	Raw  string // verbatim clause text; see spec.md §9 Open Questions
}

type SecurityClause struct {
	Span token.Span
	Raw  string
}

type ComplianceClause struct {
	Span token.Span
	Raw  string
}

type ObservabilityClause struct {
	Span token.Span
	Raw  string
}

type Behavior struct {
	Span            token.Span
	Name            string
	Description     string // empty if absent
	Actors          []string
	Input           InputSpec
	Output          OutputSpec
	Preconditions   []Expr
	Postconditions  []PostBlock
	Invariants      []Expr
	Temporal        []TemporalClause
	Security        []SecurityClause
	Compliance      []ComplianceClause
	Observability   []ObservabilityClause
}

// PolicyRule is one `allow`/`deny` rule inside a Policy block.
type PolicyRule struct {
	Span      token.Span
	Effect    string // "allow" | "deny"
	Condition Expr
}

type Policy struct {
	Span    token.Span
	Name    string
	Rules   []PolicyRule
	Default string // "allow" | "deny" | "" if unspecified
}

type View struct {
	Span   token.Span
	Name   string
	Source string // qualified entity/view name this view projects
	Fields []Field
	Filter Expr // nil if absent
}

type Scenario struct {
	Span  token.Span
	Name  string
	Given []Stmt
	When  []Stmt
	Then  []Expr
}

type ScenarioBlock struct {
	Span      token.Span
	Target    string
	Scenarios []Scenario
}

// ChaosArgument is one named argument in a chaos `with { ... }` clause.
type ChaosArgument struct {
	Span  token.Span
	Name  string
	Value Expr
}

// Injection is the normalised shape both `inject <type> on <target>
// with {...}` and block-form `inject { fn(...) }` produce (§4.3
// "Chaos").
type Injection struct {
	Span   token.Span
	Type   string // empty for block form
	Target string // empty for block form
	Fn     string // callee name for block form; empty for inline form
	Args   []ChaosArgument
}

type WithClause struct {
	Span token.Span
	Args []ChaosArgument
}

type ChaosScenario struct {
	Span         token.Span
	Name         string
	Inject       []Injection
	When         []Stmt
	Expectations []Expr
	With         *WithClause // nil if absent
}

type ChaosBlock struct {
	Span      token.Span
	Target    string
	Scenarios []ChaosScenario
}

// Stmt is the closed set of statement-level nodes used inside
// `given`/`when` blocks.
type Stmt interface {
	stmt()
	Span() token.Span
}

// LetStmt binds a name to an expression's value, the shape `given`/
// `when` bodies use most often (e.g. "given user = User { ... }").
type LetStmt struct {
	SpanValue token.Span
	Name      string
	Value     Expr
}

func (s *LetStmt) stmt()           {}
func (s *LetStmt) Span() token.Span { return s.SpanValue }

// ExprStmt is a bare expression used for its evaluation side (a call
// such as `createUser(...)` used for its adapter effects).
type ExprStmt struct {
	SpanValue token.Span
	Value     Expr
}

func (s *ExprStmt) stmt()           {}
func (s *ExprStmt) Span() token.Span { return s.SpanValue }
