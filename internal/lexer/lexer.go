// Package lexer hand-tokenises isl source text into a Token stream
// with byte-accurate spans (§4.1). It never fails: every problem
// becomes a diagnostic and scanning resumes from the next plausible
// boundary (§7 "Propagation policy").
package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/Ship-Gate/ShipGate-sub007/internal/diag"
	"github.com/Ship-Gate/ShipGate-sub007/internal/token"
)

// Lex tokenises source and returns every token (including filtered
// Comment tokens — callers that only want the parser stream should
// use Filtered) along with any diagnostics raised while
// scanning.
func Lex(source, filename string) ([]token.Token, *diag.Bag) {
	l := &lexer{
		src:      source,
		filename: filename,
		line:     1,
		col:      1,
		bag:      &diag.Bag{},
	}
	l.run()
	return l.tokens, l.bag
}

type lexer struct {
	src      string
	filename string
	pos      int // byte offset
	line     int
	col      int // codepoint column, 1-based
	tokens   []token.Token
	bag      *diag.Bag
}

func (l *lexer) run() {
	for {
		tok, ok := l.next()
		if ok {
			l.tokens = append(l.tokens, tok)
		}
		if !ok && l.atEOF() {
			break
		}
		if l.atEOF() {
			break
		}
	}
	l.tokens = append(l.tokens, token.Token{
		Category: token.CategoryEOF,
		Kind:     token.KindEOF,
		Span:     l.pointSpan(),
	})
}

func (l *lexer) atEOF() bool { return l.pos >= len(l.src) }

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekByteAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *lexer) peekRune() (rune, int) {
	if l.pos >= len(l.src) {
		return 0, 0
	}
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	return r, size
}

func (l *lexer) pointSpan() token.Span {
	return token.Span{File: l.filename, StartLine: l.line, StartCol: l.col, EndLine: l.line, EndCol: l.col}
}

// advance consumes one rune, updating the line/column counters per
// §4.1 (line terminators are \n, \r\n, \r).
func (l *lexer) advance() rune {
	r, size := l.peekRune()
	if size == 0 {
		return 0
	}
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else if r == '\r' {
		if l.peekByte() == '\n' {
			l.pos++
		}
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

// next scans and returns the next token. ok is false only at EOF or
// when a zero-length step would otherwise loop forever (defensive).
func (l *lexer) next() (token.Token, bool) {
	for {
		if l.atEOF() {
			return token.Token{}, false
		}
		r, _ := l.peekRune()
		if isSpace(r) {
			l.advance()
			continue
		}
		break
	}
	if l.atEOF() {
		return token.Token{}, false
	}

	startLine, startCol := l.line, l.col

	if strings.HasPrefix(l.src[l.pos:], "//") {
		return l.scanLineComment(startLine, startCol), true
	}
	if strings.HasPrefix(l.src[l.pos:], "#") {
		return l.scanLineComment(startLine, startCol), true
	}
	if strings.HasPrefix(l.src[l.pos:], "/*") {
		return l.scanBlockComment(startLine, startCol), true
	}

	r, _ := l.peekRune()
	switch {
	case r == '"' || r == '\'':
		return l.scanString(startLine, startCol), true
	case isDigit(r):
		return l.scanNumberOrDuration(startLine, startCol), true
	case isIdentStart(r):
		return l.scanIdentOrKeyword(startLine, startCol), true
	default:
		return l.scanOperatorOrPunct(startLine, startCol), true
	}
}

func (l *lexer) span(startLine, startCol int) token.Span {
	return token.Span{File: l.filename, StartLine: startLine, StartCol: startCol, EndLine: l.line, EndCol: l.col}
}

func (l *lexer) scanLineComment(startLine, startCol int) token.Token {
	var b strings.Builder
	for !l.atEOF() {
		r, _ := l.peekRune()
		if r == '\n' || r == '\r' {
			break
		}
		b.WriteRune(l.advance())
	}
	return token.Token{Category: token.CategoryComment, Kind: token.KindComment, Value: b.String(), Span: l.span(startLine, startCol)}
}

func (l *lexer) scanBlockComment(startLine, startCol int) token.Token {
	var b strings.Builder
	b.WriteRune(l.advance()) // '/'
	b.WriteRune(l.advance()) // '*'
	closed := false
	for !l.atEOF() {
		if strings.HasPrefix(l.src[l.pos:], "*/") {
			b.WriteRune(l.advance())
			b.WriteRune(l.advance())
			closed = true
			break
		}
		b.WriteRune(l.advance())
	}
	sp := l.span(startLine, startCol)
	if !closed {
		l.bag.Error(diag.CodeUnterminatedBlockComment, "unterminated block comment", sp)
	}
	return token.Token{Category: token.CategoryComment, Kind: token.KindComment, Value: b.String(), Span: sp}
}

var simpleEscapes = map[rune]rune{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'\\': '\\',
	'"':  '"',
	'\'': '\'',
}

func (l *lexer) scanString(startLine, startCol int) token.Token {
	quote := l.advance()
	var raw strings.Builder
	raw.WriteRune(quote)
	closed := false
	for !l.atEOF() {
		r, _ := l.peekRune()
		if r == quote {
			raw.WriteRune(l.advance())
			closed = true
			break
		}
		if r == '\\' {
			raw.WriteRune(l.advance())
			if l.atEOF() {
				break
			}
			esc, _ := l.peekRune()
			if _, ok := simpleEscapes[esc]; !ok {
				sp := l.span(l.line, l.col)
				l.bag.Warning(diag.CodeInvalidEscape, "unknown escape sequence \\"+string(esc)+" retained verbatim", sp)
			}
			raw.WriteRune(l.advance())
			continue
		}
		if r == '\n' {
			// Unterminated: newline inside a single-line string literal.
			break
		}
		raw.WriteRune(l.advance())
	}
	sp := l.span(startLine, startCol)
	if !closed {
		l.bag.Error(diag.CodeUnterminatedString, "unterminated string literal", sp)
	}
	return token.Token{Category: token.CategoryString, Kind: token.KindString, Value: raw.String(), Span: sp}
}

func (l *lexer) scanDigits() string {
	var b strings.Builder
	for !l.atEOF() {
		r, _ := l.peekRune()
		if !isDigit(r) {
			break
		}
		b.WriteRune(l.advance())
	}
	return b.String()
}

// scanNumberOrDuration implements §4.1: a number literal, optionally
// followed (with an optional '.') by a duration unit suffix.
func (l *lexer) scanNumberOrDuration(startLine, startCol int) token.Token {
	intPart := l.scanDigits()
	value := intPart

	if l.peekByte() == '.' && isDigit(runeAt(l.src, l.pos+1)) {
		l.advance() // '.'
		frac := l.scanDigits()
		value = intPart + "." + frac
	}

	if unit, ok := l.tryScanDurationUnit(); ok {
		sp := l.span(startLine, startCol)
		return token.Token{Category: token.CategoryDuration, Kind: token.KindDuration, Value: value + unit, Span: sp}
	}

	sp := l.span(startLine, startCol)
	kind := token.KindNumber
	return token.Token{Category: token.CategoryNumber, Kind: kind, Value: value, Span: sp}
}

func runeAt(s string, i int) rune {
	if i < 0 || i >= len(s) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return r
}

// tryScanDurationUnit accepts "100ms" and "100.ms" alike: an optional
// bare '.' immediately before the unit, with no digits after it, also
// denotes a duration (§4.1 "both 100ms and 100.ms are accepted").
func (l *lexer) tryScanDurationUnit() (string, bool) {
	save := l.saveState()
	dotSeen := false
	if l.peekByte() == '.' {
		// Only consume if followed by a letter (unit), not digits
		// (which scanNumberOrDuration's caller already handled).
		if isIdentStart(runeAt(l.src, l.pos+1)) {
			l.advance()
			dotSeen = true
		} else {
			return "", false
		}
	}
	start := l.pos
	for !l.atEOF() {
		r, _ := l.peekRune()
		if !isIdentCont(r) {
			break
		}
		l.advance()
	}
	word := l.src[start:l.pos]
	if token.DurationUnits[word] {
		_ = dotSeen
		return word, true
	}
	l.restoreState(save)
	return "", false
}

type lexState struct {
	pos, line, col int
}

func (l *lexer) saveState() lexState { return lexState{l.pos, l.line, l.col} }
func (l *lexer) restoreState(s lexState) {
	l.pos, l.line, l.col = s.pos, s.line, s.col
}

func (l *lexer) scanIdentOrKeyword(startLine, startCol int) token.Token {
	start := l.pos
	for !l.atEOF() {
		r, _ := l.peekRune()
		if !isIdentCont(r) {
			break
		}
		l.advance()
	}
	word := l.src[start:l.pos]
	sp := l.span(startLine, startCol)

	if word == "true" || word == "false" {
		return token.Token{Category: token.CategoryBoolean, Kind: token.KindBoolean, Value: word, Span: sp}
	}
	if kind, ok := token.Keywords[word]; ok {
		return token.Token{Category: token.CategoryKeyword, Kind: kind, Value: word, Span: sp}
	}
	return token.Token{Category: token.CategoryIdentifier, Kind: token.KindIdentifier, Value: word, Span: sp}
}

type opRule struct {
	text string
	kind token.Kind
}

// Longest-match-first operator/punctuation table (§4.1).
var opTable = []opRule{
	{"=>", token.KindFatArrow},
	{"->", token.KindArrow},
	{"==", token.KindEqEq},
	{"!=", token.KindNotEq},
	{"<=", token.KindLtEq},
	{">=", token.KindGtEq},
	{"&&", token.KindAndAnd},
	{"||", token.KindOrOr},
	{"<", token.KindLt},
	{">", token.KindGt},
	{"+", token.KindPlus},
	{"-", token.KindMinus},
	{"*", token.KindStar},
	{"/", token.KindSlash},
	{"%", token.KindPercent},
	{"=", token.KindAssign},
	{"!", token.KindBang},
	{"?", token.KindQuestion},
	{"{", token.KindLBrace},
	{"}", token.KindRBrace},
	{"(", token.KindLParen},
	{")", token.KindRParen},
	{"[", token.KindLBracket},
	{"]", token.KindRBracket},
	{",", token.KindComma},
	{":", token.KindColon},
	{";", token.KindSemicolon},
	{".", token.KindDot},
	{"|", token.KindPipe},
}

func (l *lexer) scanOperatorOrPunct(startLine, startCol int) token.Token {
	rest := l.src[l.pos:]
	for _, rule := range opTable {
		if strings.HasPrefix(rest, rule.text) {
			for range rule.text {
				l.advance()
			}
			sp := l.span(startLine, startCol)
			cat := token.CategoryOperator
			switch rule.kind {
			case token.KindLBrace, token.KindRBrace, token.KindLParen, token.KindRParen,
				token.KindLBracket, token.KindRBracket, token.KindComma, token.KindColon,
				token.KindSemicolon, token.KindDot, token.KindPipe:
				cat = token.CategoryPunctuation
			}
			kind := rule.kind
			switch kind {
			case token.KindAndAnd:
				kind = token.KindAndKw
			case token.KindOrOr:
				kind = token.KindOrKw
			case token.KindBang:
				kind = token.KindNotKw
			}
			return token.Token{Category: cat, Kind: kind, Value: rule.text, Span: sp}
		}
	}
	// Unrecognised character: emit a diagnostic and consume one rune
	// so the scan always makes progress (§7).
	r := l.advance()
	sp := l.span(startLine, startCol)
	l.bag.Error(diag.CodeUnrecognisedChar, "unrecognised character "+string(r), sp)
	return token.Token{Category: token.CategoryOperator, Kind: token.KindIllegal, Value: string(r), Span: sp}
}

// Filtered drops Comment tokens, the stream the parser consumes
// (§3.2); islVersion directive scanning inspects the unfiltered
// stream instead (see internal/parser).
func Filtered(tokens []token.Token) []token.Token {
	out := make([]token.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Category == token.CategoryComment {
			continue
		}
		out = append(out, t)
	}
	return out
}
