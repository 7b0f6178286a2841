// Package parser implements the strict recursive-descent parser for
// isl (§4.2): a hand-written Pratt expression parser plus a
// section-oriented declaration parser, both operating directly on
// the token stream produced by internal/lexer.
package parser

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Ship-Gate/ShipGate-sub007/internal/ast"
	"github.com/Ship-Gate/ShipGate-sub007/internal/diag"
	"github.com/Ship-Gate/ShipGate-sub007/internal/islerr"
	"github.com/Ship-Gate/ShipGate-sub007/internal/lexer"
	"github.com/Ship-Gate/ShipGate-sub007/internal/token"
)

// ParseResult is the parser's total output: a possibly-partial AST,
// every diagnostic raised, the full (unfiltered) token stream, and
// the #islVersion directive if one preceded the domain header.
type ParseResult struct {
	AST         *ast.Domain
	Diagnostics []diag.Diagnostic
	Tokens      []token.Token
	ISLVersion  string // empty if no directive was present
}

// Success reports whether parsing produced zero error-severity
// diagnostics (§4.2 "Failure semantics").
func (r ParseResult) Success() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == diag.SeverityError {
			return false
		}
	}
	return true
}

// Parse tokenises and parses source, returning a ParseResult. ast is
// non-nil if any top-level `domain` header was recognised, even if
// later sections fail (§4.2, §7).
func Parse(source, filename string) ParseResult {
	all, bag := lexer.Lex(source, filename)
	islVersion := scanISLVersionDirective(all)
	toks := lexer.Filtered(all)

	p := &parser{tokens: toks, bag: bag}
	domain := p.parseDomain()

	return ParseResult{
		AST:         domain,
		Diagnostics: p.bag.All(),
		Tokens:      all,
		ISLVersion:  islVersion,
	}
}

// ParseFile reads path and parses its contents.
func ParseFile(path string) (ParseResult, error) {
	src, err := readFile(path)
	if err != nil {
		return ParseResult{}, err
	}
	return Parse(src, path), nil
}

// scanISLVersionDirective inspects raw comment tokens preceding the
// first `domain` keyword for a line of the form `#islVersion "X"`
// (§4.1, §6 "Source format").
func scanISLVersionDirective(all []token.Token) string {
	re := `#islVersion`
	for _, t := range all {
		if t.Category != token.CategoryComment {
			if t.Category == token.CategoryKeyword && t.Kind == token.KindDomainKw {
				break
			}
			continue
		}
		trimmed := strings.TrimSpace(t.Value)
		if strings.HasPrefix(trimmed, re) {
			rest := strings.TrimSpace(strings.TrimPrefix(trimmed, re))
			rest = strings.Trim(rest, `"`)
			return rest
		}
	}
	return ""
}

type parser struct {
	tokens []token.Token
	pos    int
	bag    *diag.Bag
}

func (p *parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *parser) peekAt(off int) token.Token {
	i := p.pos + off
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *parser) atEnd() bool { return p.cur().Kind == token.KindEOF }

func (p *parser) advance() token.Token {
	t := p.cur()
	if !p.atEnd() {
		p.pos++
	}
	return t
}

func (p *parser) check(kind token.Kind) bool { return p.cur().Kind == kind }

func (p *parser) match(kind token.Kind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(kind token.Kind, what string) (token.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	p.errorf(diag.CodeUnexpectedToken, "expected %s, found %q", what, p.cur().Value)
	return p.cur(), false
}

func (p *parser) errorf(code, format string, args ...any) {
	p.bag.Error(code, fmt.Sprintf(format, args...), p.cur().Span)
}

// readFile reads an isl source file for ParseFile.
func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", islerr.New("parser", "io_error", err.Error())
	}
	return string(b), nil
}

// sectionKeywords delimits panic-mode recovery inside a domain block
// (§4.2 "recovers at top-level statement boundaries").
var sectionKeywords = map[token.Kind]bool{
	token.KindVersionKw:        true,
	token.KindOwnerKw:          true,
	token.KindImportsKw:        true,
	token.KindTypeKw:           true,
	token.KindEntityKw:         true,
	token.KindBehaviorKw:       true,
	token.KindPolicyKw:         true,
	token.KindViewKw:           true,
	token.KindScenariosKw:      true,
	token.KindChaosKw:          true,
	token.KindInvariantsKw:     true,
}

// synchronize skips tokens until the next section keyword at the
// current brace depth, or a closing brace that ends the enclosing
// block, or EOF.
func (p *parser) synchronize() {
	depth := 0
	for !p.atEnd() {
		if depth == 0 && sectionKeywords[p.cur().Kind] {
			return
		}
		switch p.cur().Kind {
		case token.KindLBrace:
			depth++
		case token.KindRBrace:
			if depth == 0 {
				return
			}
			depth--
		}
		p.advance()
	}
}

func (p *parser) parseDomain() *ast.Domain {
	start := p.cur().Span
	if !p.check(token.KindDomainKw) {
		// No domain header recognised at all: ast stays nil (§4.2).
		p.errorf(diag.CodeUnexpectedToken, "expected %s, found %q", "'domain'", p.cur().Value)
		return nil
	}
	p.advance()

	nameTok, _ := p.expect(token.KindIdentifier, "domain name")
	d := &ast.Domain{Name: nameTok.Value}

	braced := p.match(token.KindLBrace)

	for {
		if p.atEnd() {
			break
		}
		if braced && p.check(token.KindRBrace) {
			p.advance()
			break
		}
		if !braced && !p.startsDecl() {
			// Brace-less form runs until declarations stop looking like
			// sections; bail once nothing recognisable remains.
			break
		}
		p.parseSection(d)
	}

	if d.Version == "" {
		p.bag.Error(diag.CodeMissingVersion, "domain is missing a required version string", start)
	}
	d.Span = token.Merge(start, p.peekAt(-1).Span)
	return d
}

func (p *parser) startsDecl() bool {
	return sectionKeywords[p.cur().Kind] || p.check(token.KindVersionKw) || p.check(token.KindOwnerKw)
}

func (p *parser) parseSection(d *ast.Domain) {
	switch p.cur().Kind {
	case token.KindVersionKw:
		p.advance()
		p.match(token.KindColon)
		tok, ok := p.expect(token.KindString, "version string")
		if ok {
			d.Version = unquote(tok.Value)
		}
	case token.KindOwnerKw:
		p.advance()
		p.match(token.KindColon)
		tok, ok := p.expect(token.KindString, "owner string")
		if ok {
			d.Owner = unquote(tok.Value)
		}
	case token.KindImportsKw:
		d.Imports = append(d.Imports, p.parseImport())
	case token.KindTypeKw:
		d.Types = append(d.Types, p.parseTypeDecl())
	case token.KindEntityKw:
		d.Entities = append(d.Entities, p.parseEntity())
	case token.KindBehaviorKw:
		d.Behaviors = append(d.Behaviors, p.parseBehavior())
	case token.KindPolicyKw:
		d.Policies = append(d.Policies, p.parsePolicy())
	case token.KindViewKw:
		d.Views = append(d.Views, p.parseView())
	case token.KindScenariosKw:
		d.Scenarios = append(d.Scenarios, p.parseScenarioBlock())
	case token.KindChaosKw:
		d.Chaos = append(d.Chaos, p.parseChaosBlock())
	case token.KindInvariantsKw:
		d.Invariants = append(d.Invariants, p.parseInvariantsBlock()...)
	default:
		p.errorf(diag.CodeUnexpectedToken, "unexpected token %q at domain scope", p.cur().Value)
		p.synchronize()
	}
}

func unquote(raw string) string {
	if len(raw) >= 2 {
		quote := raw[0]
		if raw[len(raw)-1] == quote {
			raw = raw[1 : len(raw)-1]
		}
	}
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			i++
			switch raw[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			case '\'':
				b.WriteByte('\'')
			default:
				b.WriteByte('\\')
				b.WriteByte(raw[i])
			}
			continue
		}
		b.WriteByte(raw[i])
	}
	return b.String()
}

func parseIntLit(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
