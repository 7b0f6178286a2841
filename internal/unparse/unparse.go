// Package unparse implements the pure, total AST → text function
// (§4.4). Its only contract is round-trip fidelity: parsing the
// output must reproduce a structurally equal AST (spans excluded).
package unparse

import (
	"fmt"
	"strings"

	"github.com/Ship-Gate/ShipGate-sub007/internal/ast"
)

// Unparse renders a Domain to its canonical textual form.
func Unparse(d *ast.Domain) string {
	var w writer
	w.domain(d)
	return w.String()
}

type writer struct {
	b      strings.Builder
	indent int
}

func (w *writer) String() string { return w.b.String() }

func (w *writer) line(format string, args ...any) {
	w.b.WriteString(strings.Repeat("  ", w.indent))
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteString("\n")
}

func (w *writer) raw(s string) { w.b.WriteString(s) }

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func (w *writer) domain(d *ast.Domain) {
	w.line("domain %s {", d.Name)
	w.indent++
	w.line("version: %s", quote(d.Version))
	if d.Owner != "" {
		w.line("owner: %s", quote(d.Owner))
	}
	for _, imp := range d.Imports {
		w.importDecl(imp)
	}
	for _, t := range d.Types {
		w.typeDecl(t)
	}
	for _, e := range d.Entities {
		w.entity(e)
	}
	for _, b := range d.Behaviors {
		w.behavior(b)
	}
	for _, pol := range d.Policies {
		w.policy(pol)
	}
	for _, v := range d.Views {
		w.view(v)
	}
	for _, sb := range d.Scenarios {
		w.scenarioBlock(sb)
	}
	for _, cb := range d.Chaos {
		w.chaosBlock(cb)
	}
	if len(d.Invariants) > 0 {
		w.exprBlock("invariants", d.Invariants)
	}
	w.indent--
	w.line("}")
}

func (w *writer) importDecl(imp *ast.Import) {
	var names []string
	for _, it := range imp.Items {
		if it.Alias != "" {
			names = append(names, it.Name+" as "+it.Alias)
		} else {
			names = append(names, it.Name)
		}
	}
	w.line("imports { %s from %s }", strings.Join(names, ", "), quote(imp.Source))
}

func (w *writer) typeDecl(t *ast.TypeDecl) {
	w.line("type %s = %s", t.Name, typeString(t.Def))
}

func typeString(t ast.TypeDefinition) string {
	switch v := t.(type) {
	case *ast.PrimitiveType:
		return v.Name
	case *ast.ConstrainedType:
		var parts []string
		for _, c := range v.Constraints {
			parts = append(parts, fmt.Sprintf("%s: %s", c.Name, exprString(c.Value)))
		}
		return fmt.Sprintf("%s[%s]", typeString(v.Base), strings.Join(parts, ", "))
	case *ast.EnumType:
		return fmt.Sprintf("enum { %s }", strings.Join(v.Variants, ", "))
	case *ast.StructType:
		var parts []string
		for _, f := range v.Fields {
			parts = append(parts, fieldString(f))
		}
		return fmt.Sprintf("{ %s }", strings.Join(parts, ", "))
	case *ast.ListType:
		return fmt.Sprintf("[%s]", typeString(v.Element))
	case *ast.MapType:
		return fmt.Sprintf("Map<%s, %s>", typeString(v.Key), typeString(v.Value))
	case *ast.OptionalType:
		return typeString(v.Inner) + "?"
	case *ast.ReferenceType:
		return strings.Join(v.QualifiedName, ".")
	case *ast.UnionType:
		var parts []string
		for _, variant := range v.Variants {
			var fields []string
			for _, f := range variant.Fields {
				fields = append(fields, fieldString(f))
			}
			parts = append(parts, fmt.Sprintf("%s { %s }", variant.Name, strings.Join(fields, ", ")))
		}
		return strings.Join(parts, " | ")
	default:
		return "?"
	}
}

func fieldString(f ast.Field) string {
	typ := typeString(f.Type)
	if f.Optional {
		typ += "?"
	}
	s := fmt.Sprintf("%s: %s", f.Name, typ)
	if len(f.Annotations) > 0 {
		s += fmt.Sprintf(" [%s]", strings.Join(f.Annotations, ", "))
	}
	return s
}

func (w *writer) entity(e *ast.Entity) {
	w.line("entity %s {", e.Name)
	w.indent++
	for _, f := range e.Fields {
		w.line("%s", fieldString(f))
	}
	if len(e.Invariants) > 0 {
		w.exprBlock("invariants", e.Invariants)
	}
	if e.Lifecycle != nil {
		w.line("lifecycle {")
		w.indent++
		for _, t := range e.Lifecycle.Transitions {
			w.line("%s -> %s", t[0], t[1])
		}
		w.indent--
		w.line("}")
	}
	w.indent--
	w.line("}")
}

func (w *writer) exprBlock(keyword string, exprs []ast.Expr) {
	w.line("%s {", keyword)
	w.indent++
	for _, e := range exprs {
		w.line("%s", exprString(e))
	}
	w.indent--
	w.line("}")
}

func (w *writer) behavior(b *ast.Behavior) {
	w.line("behavior %s {", b.Name)
	w.indent++
	if b.Description != "" {
		w.line("%s", quote(b.Description))
	}
	if len(b.Actors) > 0 {
		w.line("actors [%s]", strings.Join(b.Actors, ", "))
	}
	if len(b.Input.Fields) > 0 {
		w.line("input {")
		w.indent++
		for _, f := range b.Input.Fields {
			w.line("%s", fieldString(f))
		}
		w.indent--
		w.line("}")
	}
	w.outputSpec(b.Output)
	if len(b.Preconditions) > 0 {
		w.exprBlock("pre", b.Preconditions)
	}
	for _, pb := range b.Postconditions {
		w.line("post %s {", pb.ConditionTag)
		w.indent++
		for _, pr := range pb.Predicates {
			w.line("%s", exprString(pr))
		}
		w.indent--
		w.line("}")
	}
	if len(b.Invariants) > 0 {
		w.exprBlock("invariants", b.Invariants)
	}
	for _, tc := range b.Temporal {
		w.line("temporal { %s }", tc.Raw)
	}
	for _, sc := range b.Security {
		w.line("security { %s }", sc.Raw)
	}
	for _, cc := range b.Compliance {
		w.line("compliance { %s }", cc.Raw)
	}
	for _, oc := range b.Observability {
		w.line("observability { %s }", oc.Raw)
	}
	w.indent--
	w.line("}")
}

func (w *writer) outputSpec(o ast.OutputSpec) {
	if o.SuccessType == nil && len(o.Errors) == 0 {
		return
	}
	w.line("output {")
	w.indent++
	if o.SuccessType != nil {
		w.line("%s", typeString(o.SuccessType))
	}
	if len(o.Errors) > 0 {
		w.line("errors {")
		w.indent++
		for _, es := range o.Errors {
			w.errorSpec(es)
		}
		w.indent--
		w.line("}")
	}
	w.indent--
	w.line("}")
}

func (w *writer) errorSpec(es ast.ErrorSpec) {
	w.line("%s {", es.Name)
	w.indent++
	if es.When != "" {
		w.line("when: %s", quote(es.When))
	}
	w.line("retriable: %t", es.Retriable)
	if es.RetryAfter != nil {
		w.line("retry_after: %s.%s", es.RetryAfter.Value, es.RetryAfter.Unit)
	}
	w.indent--
	w.line("}")
}

func (w *writer) policy(p *ast.Policy) {
	w.line("policy %s {", p.Name)
	w.indent++
	for _, r := range p.Rules {
		w.line("rule %s when: %s", r.Effect, exprString(r.Condition))
	}
	if p.Default != "" {
		w.line("default: %s", p.Default)
	}
	w.indent--
	w.line("}")
}

func (w *writer) view(v *ast.View) {
	w.line("view %s {", v.Name)
	w.indent++
	if v.Source != "" {
		w.line("from %s", v.Source)
	}
	if len(v.Fields) > 0 {
		w.line("fields {")
		w.indent++
		for _, f := range v.Fields {
			w.line("%s", fieldString(f))
		}
		w.indent--
		w.line("}")
	}
	if v.Filter != nil {
		w.line("when: %s", exprString(v.Filter))
	}
	w.indent--
	w.line("}")
}

func (w *writer) scenarioBlock(sb *ast.ScenarioBlock) {
	w.line("scenarios %s {", sb.Target)
	w.indent++
	for _, sc := range sb.Scenarios {
		w.scenario(sc)
	}
	w.indent--
	w.line("}")
}

func (w *writer) scenario(sc ast.Scenario) {
	w.line("scenario %s {", quote(sc.Name))
	w.indent++
	if len(sc.Given) > 0 {
		w.stmtBlock("given", sc.Given)
	}
	if len(sc.When) > 0 {
		w.stmtBlock("when", sc.When)
	}
	if len(sc.Then) > 0 {
		w.exprBlock("then", sc.Then)
	}
	w.indent--
	w.line("}")
}

func (w *writer) stmtBlock(keyword string, stmts []ast.Stmt) {
	w.line("%s {", keyword)
	w.indent++
	for _, s := range stmts {
		w.line("%s", stmtString(s))
	}
	w.indent--
	w.line("}")
}

func stmtString(s ast.Stmt) string {
	switch v := s.(type) {
	case *ast.LetStmt:
		return fmt.Sprintf("%s = %s", v.Name, exprString(v.Value))
	case *ast.ExprStmt:
		return exprString(v.Value)
	default:
		return "?"
	}
}

func (w *writer) chaosBlock(cb *ast.ChaosBlock) {
	w.line("chaos %s {", cb.Target)
	w.indent++
	for _, cs := range cb.Scenarios {
		w.chaosScenario(cs)
	}
	w.indent--
	w.line("}")
}

func (w *writer) chaosScenario(cs ast.ChaosScenario) {
	w.line("scenario %s {", quote(cs.Name))
	w.indent++
	for _, inj := range cs.Inject {
		w.injection(inj)
	}
	if len(cs.When) > 0 {
		w.stmtBlock("when", cs.When)
	}
	if len(cs.Expectations) > 0 {
		w.exprBlock("expect", cs.Expectations)
	}
	if cs.With != nil {
		w.withClause(*cs.With)
	}
	w.indent--
	w.line("}")
}

func (w *writer) injection(inj ast.Injection) {
	if inj.Fn != "" {
		var args []string
		for _, a := range inj.Args {
			if a.Name != "" {
				args = append(args, fmt.Sprintf("%s: %s", a.Name, exprString(a.Value)))
			} else {
				args = append(args, exprString(a.Value))
			}
		}
		w.line("inject { %s(%s) }", inj.Fn, strings.Join(args, ", "))
		return
	}
	if len(inj.Args) == 0 {
		w.line("inject %s on %s", inj.Type, inj.Target)
		return
	}
	w.line("inject %s on %s with {", inj.Type, inj.Target)
	w.indent++
	for _, a := range inj.Args {
		w.line("%s: %s", a.Name, exprString(a.Value))
	}
	w.indent--
	w.line("}")
}

func (w *writer) withClause(wc ast.WithClause) {
	w.line("with {")
	w.indent++
	for _, a := range wc.Args {
		w.line("%s: %s", a.Name, exprString(a.Value))
	}
	w.indent--
	w.line("}")
}
