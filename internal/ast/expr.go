package ast

import "github.com/Ship-Gate/ShipGate-sub007/internal/token"

// Expr is the closed set of expression nodes (§3.3). Structural
// equality for the round-trip property is Equal/ExprEqual in
// equal.go: a go-cmp comparison of every field that ignores spans.
type Expr interface {
	expr()
	Span() token.Span
}

type StringLit struct {
	SpanValue token.Span
	Value     string
}

func (e *StringLit) expr()           {}
func (e *StringLit) Span() token.Span { return e.SpanValue }

type NumberLit struct {
	SpanValue token.Span
	Value     string // verbatim digits, parsed lazily by eval
	IsFloat   bool
}

func (e *NumberLit) expr()           {}
func (e *NumberLit) Span() token.Span { return e.SpanValue }

type BooleanLit struct {
	SpanValue token.Span
	Value     bool
}

func (e *BooleanLit) expr()           {}
func (e *BooleanLit) Span() token.Span { return e.SpanValue }

type NullLit struct {
	SpanValue token.Span
}

func (e *NullLit) expr()           {}
func (e *NullLit) Span() token.Span { return e.SpanValue }

type DurationLit struct {
	SpanValue token.Span
	Value     string // verbatim numeric portion
	Unit      string // ms|seconds|minutes|hours|days
}

func (e *DurationLit) expr()           {}
func (e *DurationLit) Span() token.Span { return e.SpanValue }

type RegexLit struct {
	SpanValue token.Span
	Pattern   string
	Flags     string
}

func (e *RegexLit) expr()           {}
func (e *RegexLit) Span() token.Span { return e.SpanValue }

type Identifier struct {
	SpanValue token.Span
	Name      string
}

func (e *Identifier) expr()           {}
func (e *Identifier) Span() token.Span { return e.SpanValue }

type QualifiedName struct {
	SpanValue token.Span
	Parts     []string
}

func (e *QualifiedName) expr()           {}
func (e *QualifiedName) Span() token.Span { return e.SpanValue }

// BinaryOp is the closed set of infix operators (§3.3).
type BinaryOp string

const (
	OpEq      BinaryOp = "=="
	OpNotEq   BinaryOp = "!="
	OpLt      BinaryOp = "<"
	OpLtEq    BinaryOp = "<="
	OpGt      BinaryOp = ">"
	OpGtEq    BinaryOp = ">="
	OpPlus    BinaryOp = "+"
	OpMinus   BinaryOp = "-"
	OpStar    BinaryOp = "*"
	OpSlash   BinaryOp = "/"
	OpPercent BinaryOp = "%"
	OpAnd     BinaryOp = "and"
	OpOr      BinaryOp = "or"
	OpImplies BinaryOp = "implies"
	OpIff     BinaryOp = "iff"
	OpIn      BinaryOp = "in"
)

type Binary struct {
	SpanValue token.Span
	Op        BinaryOp
	Left      Expr
	Right     Expr
}

func (e *Binary) expr()           {}
func (e *Binary) Span() token.Span { return e.SpanValue }

type UnaryOp string

const (
	OpNot      UnaryOp = "not"
	OpNegate   UnaryOp = "-"
)

type Unary struct {
	SpanValue token.Span
	Op        UnaryOp
	Operand   Expr
}

func (e *Unary) expr()           {}
func (e *Unary) Span() token.Span { return e.SpanValue }

type Call struct {
	SpanValue token.Span
	Callee    Expr
	Args      []Expr
}

func (e *Call) expr()           {}
func (e *Call) Span() token.Span { return e.SpanValue }

type Member struct {
	SpanValue token.Span
	Object    Expr
	Property  string
}

func (e *Member) expr()           {}
func (e *Member) Span() token.Span { return e.SpanValue }

type Index struct {
	SpanValue token.Span
	Object    Expr
	IndexExpr Expr
}

func (e *Index) expr()           {}
func (e *Index) Span() token.Span { return e.SpanValue }

// QuantifierKind is the closed set of quantifier/aggregate operators
// (§3.3, §4.5).
type QuantifierKind string

const (
	QAll    QuantifierKind = "all"
	QAny    QuantifierKind = "any"
	QNone   QuantifierKind = "none"
	QCount  QuantifierKind = "count"
	QSum    QuantifierKind = "sum"
	QFilter QuantifierKind = "filter"
)

type Quantifier struct {
	SpanValue  token.Span
	Kind       QuantifierKind
	Var        string
	Collection Expr
	Predicate  Expr
}

func (e *Quantifier) expr()           {}
func (e *Quantifier) Span() token.Span { return e.SpanValue }

type Conditional struct {
	SpanValue token.Span
	Cond      Expr
	Then      Expr
	Else      Expr // nil if absent
}

func (e *Conditional) expr()           {}
func (e *Conditional) Span() token.Span { return e.SpanValue }

type Lambda struct {
	SpanValue token.Span
	Params    []string
	Body      Expr
}

func (e *Lambda) expr()           {}
func (e *Lambda) Span() token.Span { return e.SpanValue }

// Old wraps an expression meant to be evaluated against the
// pre-execution entity-store snapshot (§3.3 "Old"; semantically valid
// only inside postconditions, but accepted by the parser anywhere).
type Old struct {
	SpanValue token.Span
	Inner     Expr
}

func (e *Old) expr()           {}
func (e *Old) Span() token.Span { return e.SpanValue }

// Result references the behavior's return value, optionally
// projecting a property of it (`result` vs `result.foo`).
type Result struct {
	SpanValue token.Span
	Property  string // empty if bare `result`
}

func (e *Result) expr()           {}
func (e *Result) Span() token.Span { return e.SpanValue }

// Input references a named field of the behavior's input.
type Input struct {
	SpanValue token.Span
	Property  string
}

func (e *Input) expr()           {}
func (e *Input) Span() token.Span { return e.SpanValue }

type ListExpr struct {
	SpanValue token.Span
	Elements  []Expr
}

func (e *ListExpr) expr()           {}
func (e *ListExpr) Span() token.Span { return e.SpanValue }

type MapEntry struct {
	Span  token.Span
	Key   string
	Value Expr
}

type MapExpr struct {
	SpanValue token.Span
	Entries   []MapEntry
}

func (e *MapExpr) expr()           {}
func (e *MapExpr) Span() token.Span { return e.SpanValue }
