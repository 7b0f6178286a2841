package parser

import (
	"github.com/Ship-Gate/ShipGate-sub007/internal/ast"
	"github.com/Ship-Gate/ShipGate-sub007/internal/diag"
	"github.com/Ship-Gate/ShipGate-sub007/internal/token"
)

// parseImport handles both the canonical form
//   imports { A from "path" }
// and (after fuzzy normalisation) the already-lowered canonical form
// emitted from the JS-style `imports { A, B as C } from "path"`.
func (p *parser) parseImport() *ast.Import {
	start := p.cur().Span
	p.advance() // 'imports'
	imp := &ast.Import{}

	if p.match(token.KindLBrace) {
		for !p.check(token.KindRBrace) && !p.atEnd() {
			item := p.parseImportItem()
			imp.Items = append(imp.Items, item)
			p.consumeTrailingComma()
			if p.check(token.KindFromKw) {
				tok, _ := p.expectStringAfter(token.KindFromKw)
				imp.Source = unquote(tok.Value)
			}
		}
		p.expect(token.KindRBrace, "'}'")
	} else {
		item := p.parseImportItem()
		imp.Items = append(imp.Items, item)
		tok, _ := p.expectStringAfter(token.KindFromKw)
		imp.Source = unquote(tok.Value)
	}

	imp.Span = token.Merge(start, p.peekAt(-1).Span)
	return imp
}

func (p *parser) expectStringAfter(kw token.Kind) (token.Token, bool) {
	p.expect(kw, "'from'")
	return p.expect(token.KindString, "string literal")
}

func (p *parser) parseImportItem() ast.ImportItem {
	start := p.cur().Span
	nameTok, _ := p.expect(token.KindIdentifier, "import name")
	item := ast.ImportItem{Name: nameTok.Value}
	if p.match(token.KindAsKw) {
		aliasTok, _ := p.expect(token.KindIdentifier, "alias name")
		item.Alias = aliasTok.Value
	}
	item.Span = token.Merge(start, p.peekAt(-1).Span)
	return item
}

// consumeTrailingComma absorbs a single comma; a doubled comma is a
// parse error (§4.2 "Trailing commas").
func (p *parser) consumeTrailingComma() {
	if p.match(token.KindComma) {
		if p.check(token.KindComma) {
			p.errorf(diag.CodeMalformedExpr, "unexpected repeated comma")
			p.advance()
		}
	}
}

// --- Types ---------------------------------------------------------

var primitiveNames = map[string]bool{
	"String": true, "Int": true, "Decimal": true, "Boolean": true,
	"Timestamp": true, "UUID": true, "Duration": true,
}

func (p *parser) parseTypeDecl() *ast.TypeDecl {
	start := p.cur().Span
	p.advance() // 'type'
	nameTok, _ := p.expect(token.KindIdentifier, "type name")
	p.match(token.KindAssign)
	def := p.parseTypeDefinition()
	return &ast.TypeDecl{Span: token.Merge(start, p.peekAt(-1).Span), Name: nameTok.Value, Def: def}
}

func (p *parser) parseTypeDefinition() ast.TypeDefinition {
	base := p.parseTypeAtom()
	if p.match(token.KindLBracket) {
		var constraints []ast.Constraint
		for !p.check(token.KindRBracket) && !p.atEnd() {
			cname, _ := p.expect(token.KindIdentifier, "constraint name")
			p.expect(token.KindColon, "':'")
			val := p.parseExpr(precLowest)
			constraints = append(constraints, ast.Constraint{Name: cname.Value, Value: val})
			p.consumeTrailingComma()
		}
		p.expect(token.KindRBracket, "']'")
		return &ast.ConstrainedType{SpanValue: token.Merge(base.Span(), p.peekAt(-1).Span), Base: base, Constraints: constraints}
	}
	if p.match(token.KindQuestion) {
		return &ast.OptionalType{SpanValue: token.Merge(base.Span(), p.peekAt(-1).Span), Inner: base}
	}
	return base
}

func (p *parser) parseTypeAtom() ast.TypeDefinition {
	start := p.cur().Span
	switch {
	case p.check(token.KindLBracket):
		p.advance()
		elem := p.parseTypeDefinition()
		p.expect(token.KindRBracket, "']'")
		return &ast.ListType{SpanValue: token.Merge(start, p.peekAt(-1).Span), Element: elem}
	case p.check(token.KindEnumKw):
		p.advance()
		p.expect(token.KindLBrace, "'{'")
		var variants []string
		for !p.check(token.KindRBrace) && !p.atEnd() {
			v, _ := p.expect(token.KindIdentifier, "enum variant")
			variants = append(variants, v.Value)
			p.consumeTrailingComma()
		}
		p.expect(token.KindRBrace, "'}'")
		return &ast.EnumType{SpanValue: token.Merge(start, p.peekAt(-1).Span), Variants: variants}
	case p.check(token.KindLBrace):
		p.advance()
		var fields []ast.Field
		for !p.check(token.KindRBrace) && !p.atEnd() {
			fields = append(fields, p.parseField())
			p.consumeTrailingComma()
		}
		p.expect(token.KindRBrace, "'}'")
		return &ast.StructType{SpanValue: token.Merge(start, p.peekAt(-1).Span), Fields: fields}
	case p.check(token.KindIdentifier) && p.cur().Value == "Map":
		p.advance()
		p.expect(token.KindLt, "'<'")
		key := p.parseTypeDefinition()
		p.expect(token.KindComma, "','")
		val := p.parseTypeDefinition()
		p.expect(token.KindGt, "'>'")
		return &ast.MapType{SpanValue: token.Merge(start, p.peekAt(-1).Span), Key: key, Value: val}
	case p.check(token.KindIdentifier) && p.peekAt(1).Kind == token.KindLBrace && looksLikeUnion(p):
		return p.parseUnionType(start)
	case p.check(token.KindIdentifier):
		nameTok := p.advance()
		parts := []string{nameTok.Value}
		for p.check(token.KindDot) {
			p.advance()
			next, _ := p.expect(token.KindIdentifier, "qualified name segment")
			parts = append(parts, next.Value)
		}
		if len(parts) == 1 && primitiveNames[parts[0]] {
			return &ast.PrimitiveType{SpanValue: token.Merge(start, p.peekAt(-1).Span), Name: parts[0]}
		}
		return &ast.ReferenceType{SpanValue: token.Merge(start, p.peekAt(-1).Span), QualifiedName: parts}
	default:
		p.errorf(diag.CodeUnexpectedToken, "expected a type, found %q", p.cur().Value)
		p.advance()
		return &ast.PrimitiveType{SpanValue: start, Name: "String"}
	}
}

// looksLikeUnion is a conservative heuristic: a union type is written
// as `A { fields } | B { fields } | ...`; we only take this branch
// when a '|' follows a brace-closed variant, to avoid misreading a
// plain struct as a one-variant union.
func looksLikeUnion(p *parser) bool {
	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Kind {
		case token.KindLBrace:
			depth++
		case token.KindRBrace:
			depth--
			if depth == 0 {
				return i+1 < len(p.tokens) && p.tokens[i+1].Kind == token.KindPipe
			}
		}
	}
	return false
}

func (p *parser) parseUnionType(start token.Span) ast.TypeDefinition {
	var variants []ast.UnionVariant
	for {
		vstart := p.cur().Span
		nameTok, _ := p.expect(token.KindIdentifier, "union variant name")
		p.expect(token.KindLBrace, "'{'")
		var fields []ast.Field
		for !p.check(token.KindRBrace) && !p.atEnd() {
			fields = append(fields, p.parseField())
			p.consumeTrailingComma()
		}
		p.expect(token.KindRBrace, "'}'")
		variants = append(variants, ast.UnionVariant{Span: token.Merge(vstart, p.peekAt(-1).Span), Name: nameTok.Value, Fields: fields})
		if !p.match(token.KindPipe) {
			break
		}
	}
	return &ast.UnionType{SpanValue: token.Merge(start, p.peekAt(-1).Span), Variants: variants}
}

func (p *parser) parseField() ast.Field {
	start := p.cur().Span
	nameTok, _ := p.expect(token.KindIdentifier, "field name")
	p.expect(token.KindColon, "':'")
	typ := p.parseTypeDefinition()
	f := ast.Field{Name: nameTok.Value, Type: typ}
	if opt, ok := typ.(*ast.OptionalType); ok {
		f.Optional = true
		f.Type = opt.Inner
	}
	if p.match(token.KindLBracket) {
		for !p.check(token.KindRBracket) && !p.atEnd() {
			a, _ := p.expect(token.KindIdentifier, "annotation")
			f.Annotations = append(f.Annotations, a.Value)
			p.consumeTrailingComma()
		}
		p.expect(token.KindRBracket, "']'")
	}
	f.Span = token.Merge(start, p.peekAt(-1).Span)
	return f
}

// --- Entity ----------------------------------------------------------

func (p *parser) parseEntity() *ast.Entity {
	start := p.cur().Span
	p.advance() // 'entity'
	nameTok, _ := p.expect(token.KindIdentifier, "entity name")
	e := &ast.Entity{Name: nameTok.Value}
	p.expect(token.KindLBrace, "'{'")
	for !p.check(token.KindRBrace) && !p.atEnd() {
		switch {
		case p.check(token.KindFieldsKw):
			p.advance()
			p.expect(token.KindLBrace, "'{'")
			for !p.check(token.KindRBrace) && !p.atEnd() {
				e.Fields = append(e.Fields, p.parseField())
				p.consumeTrailingComma()
			}
			p.expect(token.KindRBrace, "'}'")
		case p.check(token.KindInvariantsKw):
			e.Invariants = append(e.Invariants, p.parseInvariantsBlock()...)
		case p.check(token.KindLifecycleKw):
			e.Lifecycle = p.parseLifecycle()
		case p.check(token.KindIdentifier):
			e.Fields = append(e.Fields, p.parseField())
			p.consumeTrailingComma()
		default:
			p.errorf(diag.CodeUnexpectedToken, "unexpected token %q in entity body", p.cur().Value)
			p.advance()
		}
	}
	p.expect(token.KindRBrace, "'}'")
	e.Span = token.Merge(start, p.peekAt(-1).Span)
	return e
}

func (p *parser) parseInvariantsBlock() []ast.Expr {
	p.advance() // 'invariants'
	p.expect(token.KindLBrace, "'{'")
	var exprs []ast.Expr
	for !p.check(token.KindRBrace) && !p.atEnd() {
		exprs = append(exprs, p.parseExpr(precLowest))
		p.consumeTrailingComma()
	}
	p.expect(token.KindRBrace, "'}'")
	return exprs
}

func (p *parser) parseLifecycle() *ast.Lifecycle {
	start := p.cur().Span
	p.advance() // 'lifecycle'
	p.expect(token.KindLBrace, "'{'")
	lc := &ast.Lifecycle{}
	for !p.check(token.KindRBrace) && !p.atEnd() {
		fromTok, _ := p.expect(token.KindIdentifier, "state name")
		p.expect(token.KindArrow, "'->'")
		toTok, _ := p.expect(token.KindIdentifier, "state name")
		lc.Transitions = append(lc.Transitions, [2]string{fromTok.Value, toTok.Value})
		p.consumeTrailingComma()
	}
	p.expect(token.KindRBrace, "'}'")
	lc.Span = token.Merge(start, p.peekAt(-1).Span)
	return lc
}
