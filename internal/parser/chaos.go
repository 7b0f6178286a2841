package parser

import (
	"github.com/Ship-Gate/ShipGate-sub007/internal/ast"
	"github.com/Ship-Gate/ShipGate-sub007/internal/diag"
	"github.com/Ship-Gate/ShipGate-sub007/internal/token"
)

func (p *parser) parseChaosBlock() *ast.ChaosBlock {
	start := p.cur().Span
	p.advance() // 'chaos'
	var target string
	if p.check(token.KindIdentifier) {
		target = p.advance().Value
	} else if p.check(token.KindString) {
		target = unquote(p.advance().Value)
	}
	block := &ast.ChaosBlock{Target: target}
	p.expect(token.KindLBrace, "'{'")
	for (p.check(token.KindScenarioKw) || p.check(token.KindString)) && !p.atEnd() {
		block.Scenarios = append(block.Scenarios, p.parseChaosScenario())
	}
	p.expect(token.KindRBrace, "'}'")
	block.Span = token.Merge(start, p.peekAt(-1).Span)
	return block
}

// parseChaosScenario parses one `[scenario] "name" { ... }` entry of a
// chaos block and normalises both the call-form injection
//   "name" { inject { fn(args) } when { ... } then { ... } }
// and the inline form
//   scenario "name" { inject <T> on <target> with { ... } then { ... }
//                      expect { ... } with { ... } }
// into one ChaosScenario shape (§4.2 "Chaos"). A scenario body written
// directly inside `chaos "name" { ... }`, with no quoted scenario entry
// around it, is not accepted: parseChaosBlock reports it as an error.
func (p *parser) parseChaosScenario() ast.ChaosScenario {
	start := p.cur().Span
	p.match(token.KindScenarioKw)
	nameTok, _ := p.expect(token.KindString, "scenario name")
	cs := ast.ChaosScenario{Name: unquote(nameTok.Value)}
	p.expect(token.KindLBrace, "'{'")
	for !p.check(token.KindRBrace) && !p.atEnd() {
		switch p.cur().Kind {
		case token.KindInjectKw:
			cs.Inject = append(cs.Inject, p.parseInjection())
		case token.KindWhenKw:
			p.advance()
			cs.When = append(cs.When, p.parseStmtBlock()...)
		case token.KindThenKw:
			p.advance()
			cs.Expectations = append(cs.Expectations, p.parseExprBlock()...)
		case token.KindExpectKw:
			p.advance()
			preds := p.parseExprBlock()
			cs.Expectations = append(cs.Expectations, preds...)
		case token.KindWithKw:
			wc := p.parseWithClause()
			cs.With = &wc
		default:
			p.errorf(diag.CodeUnexpectedToken, "unexpected token %q in chaos scenario body", p.cur().Value)
			p.advance()
		}
	}
	p.expect(token.KindRBrace, "'}'")
	cs.Span = token.Merge(start, p.peekAt(-1).Span)
	return cs
}

func (p *parser) parseInjection() ast.Injection {
	start := p.cur().Span
	p.advance() // 'inject'

	if p.check(token.KindLBrace) {
		p.advance()
		inj := p.parseInjectionCallForm()
		p.expect(token.KindRBrace, "'}'")
		inj.Span = token.Merge(start, p.peekAt(-1).Span)
		return inj
	}

	typeTok, _ := p.expect(token.KindIdentifier, "injection type")
	inj := ast.Injection{Type: typeTok.Value}
	if p.check(token.KindIdentifier) && p.cur().Value == "on" {
		p.advance()
	}
	if p.check(token.KindIdentifier) {
		inj.Target = p.advance().Value
	}
	if p.check(token.KindWithKw) {
		wc := p.parseWithClause()
		inj.Args = wc.Args
	}
	inj.Span = token.Merge(start, p.peekAt(-1).Span)
	return inj
}

// parseInjectionCallForm parses `fn(arg: expr, ...)` inside the
// block-form `inject { ... }`.
func (p *parser) parseInjectionCallForm() ast.Injection {
	fnTok, _ := p.expect(token.KindIdentifier, "injection function name")
	inj := ast.Injection{Fn: fnTok.Value}
	p.expect(token.KindLParen, "'('")
	for !p.check(token.KindRParen) && !p.atEnd() {
		argStart := p.cur().Span
		var name string
		if p.check(token.KindIdentifier) && p.peekAt(1).Kind == token.KindColon {
			name = p.advance().Value
			p.advance() // ':'
		}
		val := p.parseExpr(precLowest)
		inj.Args = append(inj.Args, ast.ChaosArgument{Span: token.Merge(argStart, p.peekAt(-1).Span), Name: name, Value: val})
		p.consumeTrailingComma()
	}
	p.expect(token.KindRParen, "')'")
	return inj
}

func (p *parser) parseWithClause() ast.WithClause {
	start := p.cur().Span
	p.advance() // 'with'
	p.expect(token.KindLBrace, "'{'")
	wc := ast.WithClause{}
	for !p.check(token.KindRBrace) && !p.atEnd() {
		argStart := p.cur().Span
		nameTok, _ := p.expect(token.KindIdentifier, "argument name")
		p.expect(token.KindColon, "':'")
		val := p.parseExpr(precLowest)
		wc.Args = append(wc.Args, ast.ChaosArgument{Span: token.Merge(argStart, p.peekAt(-1).Span), Name: nameTok.Value, Value: val})
		p.consumeTrailingComma()
	}
	p.expect(token.KindRBrace, "'}'")
	wc.Span = token.Merge(start, p.peekAt(-1).Span)
	return wc
}
