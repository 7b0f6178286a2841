package parser

import (
	"strings"

	"github.com/Ship-Gate/ShipGate-sub007/internal/ast"
	"github.com/Ship-Gate/ShipGate-sub007/internal/diag"
	"github.com/Ship-Gate/ShipGate-sub007/internal/token"
)

// Precedence levels, low to high (§4.2 "Expression parsing").
type precedence int

const (
	precLowest precedence = iota
	precImplies
	precIff
	precOr
	precAnd
	precEquality // == != in
	precRelational
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
)

// infixPrecedence maps a binary-operator-shaped token to its binding
// power; implies is right-associative and binds looser than iff,
// matching spec.md §9's Open Question resolution (preserved as-is).
func infixPrecedence(k token.Kind) (precedence, bool) {
	switch k {
	case token.KindImpliesKw:
		return precImplies, true
	case token.KindIffKw:
		return precIff, true
	case token.KindOrKw:
		return precOr, true
	case token.KindAndKw:
		return precAnd, true
	case token.KindEqEq, token.KindNotEq, token.KindInKw:
		return precEquality, true
	case token.KindLt, token.KindLtEq, token.KindGt, token.KindGtEq:
		return precRelational, true
	case token.KindPlus, token.KindMinus:
		return precAdditive, true
	case token.KindStar, token.KindSlash, token.KindPercent:
		return precMultiplicative, true
	default:
		return precLowest, false
	}
}

func binaryOpFor(k token.Kind, lexeme string) ast.BinaryOp {
	switch k {
	case token.KindEqEq:
		return ast.OpEq
	case token.KindNotEq:
		return ast.OpNotEq
	case token.KindLt:
		return ast.OpLt
	case token.KindLtEq:
		return ast.OpLtEq
	case token.KindGt:
		return ast.OpGt
	case token.KindGtEq:
		return ast.OpGtEq
	case token.KindPlus:
		return ast.OpPlus
	case token.KindMinus:
		return ast.OpMinus
	case token.KindStar:
		return ast.OpStar
	case token.KindSlash:
		return ast.OpSlash
	case token.KindPercent:
		return ast.OpPercent
	case token.KindAndKw:
		return ast.OpAnd
	case token.KindOrKw:
		return ast.OpOr
	case token.KindImpliesKw:
		return ast.OpImplies
	case token.KindIffKw:
		return ast.OpIff
	case token.KindInKw:
		return ast.OpIn
	default:
		return ast.BinaryOp(lexeme)
	}
}

// parseExpr is the precedence-climbing entry point (§4.2).
// `implies` is parsed right-associatively; every other binary
// operator is left-associative.
func (p *parser) parseExpr(minPrec precedence) ast.Expr {
	left := p.parseUnary()

	for {
		// A '-' that begins a new line and is not followed by a number
		// is the next entry's list bullet (see consumeBullet), not a
		// binary minus, so the expression ends here.
		if p.check(token.KindMinus) && p.peekAt(1).Kind != token.KindNumber &&
			p.cur().Span.StartLine > p.peekAt(-1).Span.EndLine {
			return left
		}
		prec, ok := infixPrecedence(p.cur().Kind)
		if !ok || prec < minPrec {
			return left
		}
		opTok := p.advance()
		nextMin := prec + 1
		if opTok.Kind == token.KindImpliesKw {
			nextMin = prec // right-associative
		}
		right := p.parseExpr(nextMin)
		left = &ast.Binary{
			SpanValue: token.Merge(left.Span(), right.Span()),
			Op:        binaryOpFor(opTok.Kind, opTok.Value),
			Left:      left,
			Right:     right,
		}
	}
}

func (p *parser) parseUnary() ast.Expr {
	if p.check(token.KindNotKw) {
		start := p.advance().Span
		operand := p.parseUnary()
		return &ast.Unary{SpanValue: token.Merge(start, operand.Span()), Op: ast.OpNot, Operand: operand}
	}
	if p.check(token.KindMinus) {
		start := p.advance().Span
		operand := p.parseUnary()
		return &ast.Unary{SpanValue: token.Merge(start, operand.Span()), Op: ast.OpNegate, Operand: operand}
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() ast.Expr {
	expr := p.parseAtom()
	for {
		switch {
		case p.check(token.KindDot):
			p.advance()
			nameTok, _ := p.expect(token.KindIdentifier, "property name")
			expr = &ast.Member{SpanValue: token.Merge(expr.Span(), nameTok.Span), Object: expr, Property: nameTok.Value}
		case p.check(token.KindLParen):
			p.advance()
			var args []ast.Expr
			for !p.check(token.KindRParen) && !p.atEnd() {
				args = append(args, p.parseCallArgOrLambdaParam())
				p.consumeTrailingComma()
			}
			endTok, _ := p.expect(token.KindRParen, "')'")
			expr = &ast.Call{SpanValue: token.Merge(expr.Span(), endTok.Span), Callee: expr, Args: args}
		case p.check(token.KindLBracket):
			p.advance()
			idx := p.parseExpr(precLowest)
			endTok, _ := p.expect(token.KindRBracket, "']'")
			expr = &ast.Index{SpanValue: token.Merge(expr.Span(), endTok.Span), Object: expr, IndexExpr: idx}
		default:
			return expr
		}
	}
}

// parseCallArgOrLambdaParam parses one call argument, which may
// itself be a lambda `x => expr` inside a quantifier call.
func (p *parser) parseCallArgOrLambdaParam() ast.Expr {
	if p.check(token.KindIdentifier) && p.peekAt(1).Kind == token.KindFatArrow {
		start := p.cur().Span
		param := p.advance().Value
		p.advance() // '=>'
		body := p.parseExpr(precLowest)
		return &ast.Lambda{SpanValue: token.Merge(start, body.Span()), Params: []string{param}, Body: body}
	}
	return p.parseExpr(precLowest)
}

func (p *parser) parseAtom() ast.Expr {
	tok := p.cur()
	switch tok.Kind {
	case token.KindString:
		p.advance()
		return &ast.StringLit{SpanValue: tok.Span, Value: unquote(tok.Value)}
	case token.KindNumber:
		p.advance()
		return &ast.NumberLit{SpanValue: tok.Span, Value: tok.Value, IsFloat: strings.Contains(tok.Value, ".")}
	case token.KindDuration:
		p.advance()
		val, unit := splitDuration(tok.Value)
		return &ast.DurationLit{SpanValue: tok.Span, Value: val, Unit: unit}
	case token.KindBoolean:
		p.advance()
		return &ast.BooleanLit{SpanValue: tok.Span, Value: tok.Value == "true"}
	case token.KindNullKw:
		p.advance()
		return &ast.NullLit{SpanValue: tok.Span}
	case token.KindNowKw:
		p.advance()
		return &ast.Identifier{SpanValue: tok.Span, Name: "now"}
	case token.KindResultKw:
		p.advance()
		if p.check(token.KindDot) {
			p.advance()
			propTok, _ := p.expect(token.KindIdentifier, "result property")
			return &ast.Result{SpanValue: token.Merge(tok.Span, propTok.Span), Property: propTok.Value}
		}
		return &ast.Result{SpanValue: tok.Span}
	case token.KindInputKw:
		p.advance()
		if p.check(token.KindDot) {
			p.advance()
			propTok, _ := p.expect(token.KindIdentifier, "input property")
			return &ast.Input{SpanValue: token.Merge(tok.Span, propTok.Span), Property: propTok.Value}
		}
		p.errorf(diag.CodeMalformedExpr, "'input' must be followed by '.<field>'")
		return &ast.Input{SpanValue: tok.Span}
	case token.KindOldKw:
		p.advance()
		p.expect(token.KindLParen, "'('")
		inner := p.parseExpr(precLowest)
		endTok, _ := p.expect(token.KindRParen, "')'")
		return &ast.Old{SpanValue: token.Merge(tok.Span, endTok.Span), Inner: inner}
	case token.KindAllKw, token.KindAnyKw, token.KindNoneKw, token.KindCountKw, token.KindSumKw, token.KindFilterKw:
		if p.peekAt(1).Kind == token.KindLParen {
			return p.parseQuantifier()
		}
		p.advance()
		return &ast.Identifier{SpanValue: tok.Span, Name: tok.Value}
	case token.KindLParen:
		p.advance()
		inner := p.parseExpr(precLowest)
		p.expect(token.KindRParen, "')'")
		return inner
	case token.KindLBracket:
		return p.parseListLit()
	case token.KindLBrace:
		return p.parseMapLit()
	case token.KindIdentifier:
		return p.parseIdentOrQualified()
	default:
		p.errorf(diag.CodeMalformedExpr, "unexpected token %q in expression", tok.Value)
		p.advance()
		return &ast.NullLit{SpanValue: tok.Span}
	}
}

func (p *parser) parseIdentOrQualified() ast.Expr {
	start := p.advance()
	if !p.check(token.KindDot) {
		return &ast.Identifier{SpanValue: start.Span, Name: start.Value}
	}
	parts := []string{start.Value}
	end := start.Span
	for p.check(token.KindDot) && p.peekAt(1).Kind == token.KindIdentifier {
		p.advance()
		seg := p.advance()
		parts = append(parts, seg.Value)
		end = seg.Span
	}
	return &ast.QualifiedName{SpanValue: token.Merge(start.Span, end), Parts: parts}
}

// parseQuantifier normalises both call forms (§4.2 "Quantifier call
// syntax") into one Quantifier node:
//   kw(collection, var => predicate)
//   kw(var in collection: predicate)
func (p *parser) parseQuantifier() ast.Expr {
	kwTok := p.advance()
	kind := ast.QuantifierKind(kwTok.Value)
	p.expect(token.KindLParen, "'('")

	q := &ast.Quantifier{Kind: kind}

	if p.check(token.KindIdentifier) && p.peekAt(1).Kind == token.KindInKw {
		q.Var = p.advance().Value
		p.advance() // 'in'
		q.Collection = p.parseExpr(precLowest)
		p.expect(token.KindColon, "':'")
		q.Predicate = p.parseExpr(precLowest)
	} else {
		q.Collection = p.parseExpr(precLowest)
		p.expect(token.KindComma, "','")
		lam := p.parseCallArgOrLambdaParam()
		if l, ok := lam.(*ast.Lambda); ok {
			q.Var = l.Params[0]
			q.Predicate = l.Body
		} else {
			q.Predicate = lam
		}
	}

	endTok, _ := p.expect(token.KindRParen, "')'")
	q.SpanValue = token.Merge(kwTok.Span, endTok.Span)
	return q
}

func (p *parser) parseListLit() ast.Expr {
	start := p.advance().Span // '['
	var elems []ast.Expr
	for !p.check(token.KindRBracket) && !p.atEnd() {
		elems = append(elems, p.parseExpr(precLowest))
		p.consumeTrailingComma()
	}
	endTok, _ := p.expect(token.KindRBracket, "']'")
	return &ast.ListExpr{SpanValue: token.Merge(start, endTok.Span), Elements: elems}
}

func (p *parser) parseMapLit() ast.Expr {
	start := p.advance().Span // '{'
	var entries []ast.MapEntry
	for !p.check(token.KindRBrace) && !p.atEnd() {
		eStart := p.cur().Span
		var key string
		if p.check(token.KindString) {
			key = unquote(p.advance().Value)
		} else {
			keyTok, _ := p.expect(token.KindIdentifier, "map key")
			key = keyTok.Value
		}
		p.expect(token.KindColon, "':'")
		val := p.parseExpr(precLowest)
		entries = append(entries, ast.MapEntry{Span: token.Merge(eStart, p.peekAt(-1).Span), Key: key, Value: val})
		p.consumeTrailingComma()
	}
	endTok, _ := p.expect(token.KindRBrace, "'}'")
	return &ast.MapExpr{SpanValue: token.Merge(start, endTok.Span), Entries: entries}
}
