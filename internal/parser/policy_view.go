package parser

import (
	"github.com/Ship-Gate/ShipGate-sub007/internal/ast"
	"github.com/Ship-Gate/ShipGate-sub007/internal/diag"
	"github.com/Ship-Gate/ShipGate-sub007/internal/token"
)

func (p *parser) parsePolicy() *ast.Policy {
	start := p.cur().Span
	p.advance() // 'policy'
	nameTok, _ := p.expect(token.KindIdentifier, "policy name")
	pol := &ast.Policy{Name: nameTok.Value}
	p.expect(token.KindLBrace, "'{'")
	for !p.check(token.KindRBrace) && !p.atEnd() {
		switch {
		case p.check(token.KindRulesKw) || p.check(token.KindRuleKw):
			p.advance()
			if p.match(token.KindLBrace) {
				for !p.check(token.KindRBrace) && !p.atEnd() {
					pol.Rules = append(pol.Rules, p.parsePolicyRule())
				}
				p.expect(token.KindRBrace, "'}'")
			} else {
				pol.Rules = append(pol.Rules, p.parsePolicyRule())
			}
		case p.check(token.KindDefaultKw):
			p.advance()
			p.match(token.KindColon)
			if p.check(token.KindAllowKw) || p.check(token.KindDenyKw) {
				pol.Default = p.advance().Value
			}
		default:
			p.errorf(diag.CodeUnexpectedToken, "unexpected token %q in policy body", p.cur().Value)
			p.advance()
		}
	}
	p.expect(token.KindRBrace, "'}'")
	pol.Span = token.Merge(start, p.peekAt(-1).Span)
	return pol
}

func (p *parser) parsePolicyRule() ast.PolicyRule {
	start := p.cur().Span
	effect := "allow"
	if p.check(token.KindAllowKw) || p.check(token.KindDenyKw) {
		effect = p.advance().Value
	}
	p.match(token.KindWhenKw)
	p.match(token.KindColon)
	cond := p.parseExpr(precLowest)
	p.consumeTrailingComma()
	return ast.PolicyRule{Span: token.Merge(start, p.peekAt(-1).Span), Effect: effect, Condition: cond}
}

func (p *parser) parseView() *ast.View {
	start := p.cur().Span
	p.advance() // 'view'
	nameTok, _ := p.expect(token.KindIdentifier, "view name")
	v := &ast.View{Name: nameTok.Value}
	p.expect(token.KindLBrace, "'{'")
	for !p.check(token.KindRBrace) && !p.atEnd() {
		switch {
		case p.check(token.KindFromKw):
			p.advance()
			srcTok, _ := p.expect(token.KindIdentifier, "source entity")
			v.Source = srcTok.Value
		case p.check(token.KindFieldsKw):
			p.advance()
			p.expect(token.KindLBrace, "'{'")
			for !p.check(token.KindRBrace) && !p.atEnd() {
				v.Fields = append(v.Fields, p.parseField())
				p.consumeTrailingComma()
			}
			p.expect(token.KindRBrace, "'}'")
		case p.check(token.KindWhenKw):
			p.advance()
			p.match(token.KindColon)
			v.Filter = p.parseExpr(precLowest)
		default:
			p.errorf(diag.CodeUnexpectedToken, "unexpected token %q in view body", p.cur().Value)
			p.advance()
		}
	}
	p.expect(token.KindRBrace, "'}'")
	v.Span = token.Merge(start, p.peekAt(-1).Span)
	return v
}

func (p *parser) parseScenarioBlock() *ast.ScenarioBlock {
	start := p.cur().Span
	p.advance() // 'scenarios'
	targetTok, _ := p.expect(token.KindIdentifier, "target behavior name")
	block := &ast.ScenarioBlock{Target: targetTok.Value}
	p.expect(token.KindLBrace, "'{'")
	for p.check(token.KindScenarioKw) {
		block.Scenarios = append(block.Scenarios, p.parseScenario())
	}
	p.expect(token.KindRBrace, "'}'")
	block.Span = token.Merge(start, p.peekAt(-1).Span)
	return block
}

func (p *parser) parseScenario() ast.Scenario {
	start := p.cur().Span
	p.advance() // 'scenario'
	nameTok, _ := p.expect(token.KindString, "scenario name")
	sc := ast.Scenario{Name: unquote(nameTok.Value)}
	p.expect(token.KindLBrace, "'{'")
	for !p.check(token.KindRBrace) && !p.atEnd() {
		switch p.cur().Kind {
		case token.KindGivenKw:
			p.advance()
			sc.Given = append(sc.Given, p.parseStmtBlock()...)
		case token.KindWhenKw:
			p.advance()
			sc.When = append(sc.When, p.parseStmtBlock()...)
		case token.KindThenKw:
			p.advance()
			sc.Then = append(sc.Then, p.parseExprBlock()...)
		default:
			p.errorf(diag.CodeUnexpectedToken, "unexpected token %q in scenario body", p.cur().Value)
			p.advance()
		}
	}
	p.expect(token.KindRBrace, "'}'")
	sc.Span = token.Merge(start, p.peekAt(-1).Span)
	return sc
}

func (p *parser) parseStmtBlock() []ast.Stmt {
	p.expect(token.KindLBrace, "'{'")
	var stmts []ast.Stmt
	for !p.check(token.KindRBrace) && !p.atEnd() {
		stmts = append(stmts, p.parseStmt())
		p.consumeTrailingComma()
		p.match(token.KindSemicolon)
	}
	p.expect(token.KindRBrace, "'}'")
	return stmts
}

func (p *parser) parseStmt() ast.Stmt {
	start := p.cur().Span
	if p.check(token.KindIdentifier) && p.peekAt(1).Kind == token.KindAssign {
		nameTok := p.advance()
		p.advance() // '='
		val := p.parseExpr(precLowest)
		return &ast.LetStmt{SpanValue: token.Merge(start, p.peekAt(-1).Span), Name: nameTok.Value, Value: val}
	}
	val := p.parseExpr(precLowest)
	return &ast.ExprStmt{SpanValue: token.Merge(start, p.peekAt(-1).Span), Value: val}
}

func (p *parser) parseExprBlock() []ast.Expr {
	p.expect(token.KindLBrace, "'{'")
	var exprs []ast.Expr
	for !p.check(token.KindRBrace) && !p.atEnd() {
		p.consumeBullet()
		exprs = append(exprs, p.parseExpr(precLowest))
		p.consumeTrailingComma()
	}
	p.expect(token.KindRBrace, "'}'")
	return exprs
}
