package lexer

import (
	"testing"

	"github.com/Ship-Gate/ShipGate-sub007/internal/diag"
	"github.com/Ship-Gate/ShipGate-sub007/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLex_Punctuation(t *testing.T) {
	toks, bag := Lex("{ } ( ) [ ] , : ; . |", "t.isl")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
	want := []token.Kind{
		token.KindLBrace, token.KindRBrace, token.KindLParen, token.KindRParen,
		token.KindLBracket, token.KindRBracket, token.KindComma, token.KindColon,
		token.KindSemicolon, token.KindDot, token.KindPipe, token.KindEOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLex_LongestMatchOperators(t *testing.T) {
	cases := []struct {
		src  string
		kind token.Kind
	}{
		{"=>", token.KindFatArrow},
		{"->", token.KindArrow},
		{"==", token.KindEqEq},
		{"!=", token.KindNotEq},
		{"<=", token.KindLtEq},
		{">=", token.KindGtEq},
		{"&&", token.KindAndKw},
		{"||", token.KindOrKw},
		{"!", token.KindNotKw},
		{"<", token.KindLt},
		{">", token.KindGt},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			toks, _ := Lex(c.src, "t.isl")
			if len(toks) < 1 || toks[0].Kind != c.kind {
				t.Fatalf("Lex(%q) = %v, want first token kind %v", c.src, toks, c.kind)
			}
			if toks[0].Value != c.src {
				t.Errorf("Lex(%q).Value = %q", c.src, toks[0].Value)
			}
		})
	}
}

func TestLex_KeywordsAndIdentifiers(t *testing.T) {
	toks, bag := Lex("domain entity behavior notAKeyword all_things", "t.isl")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
	want := []token.Kind{
		token.KindDomainKw, token.KindEntityKw, token.KindBehaviorKw,
		token.KindIdentifier, token.KindIdentifier, token.KindEOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want len %d", got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLex_TrueFalseAreBooleanNotKeyword(t *testing.T) {
	toks, _ := Lex("true false", "t.isl")
	if toks[0].Kind != token.KindBoolean || toks[0].Category != token.CategoryBoolean {
		t.Errorf("true: got kind %v category %v", toks[0].Kind, toks[0].Category)
	}
	if toks[1].Kind != token.KindBoolean {
		t.Errorf("false: got kind %v", toks[1].Kind)
	}
}

// Quantifier keywords always lex as their Kw kind; the parser, not the
// lexer, disambiguates keyword-vs-identifier by peeking for '(' (§4.1).
func TestLex_QuantifierWordsAlwaysLexAsKeyword(t *testing.T) {
	toks, _ := Lex("all any none count sum filter", "t.isl")
	want := []token.Kind{
		token.KindAllKw, token.KindAnyKw, token.KindNoneKw,
		token.KindCountKw, token.KindSumKw, token.KindFilterKw,
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestLex_NumberAndDuration(t *testing.T) {
	cases := []struct {
		src   string
		kind  token.Kind
		value string
	}{
		{"42", token.KindNumber, "42"},
		{"3.14", token.KindNumber, "3.14"},
		{"100ms", token.KindDuration, "100ms"},
		{"100.ms", token.KindDuration, "100ms"},
		{"5seconds", token.KindDuration, "5seconds"},
		{"2hours", token.KindDuration, "2hours"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			toks, _ := Lex(c.src, "t.isl")
			if toks[0].Kind != c.kind {
				t.Fatalf("Lex(%q) kind = %v, want %v", c.src, toks[0].Kind, c.kind)
			}
			if toks[0].Value != c.value {
				t.Errorf("Lex(%q).Value = %q, want %q", c.src, toks[0].Value, c.value)
			}
		})
	}
}

func TestLex_StringEscapes(t *testing.T) {
	toks, bag := Lex(`"hello\nworld"`, "t.isl")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
	if toks[0].Kind != token.KindString {
		t.Fatalf("kind = %v", toks[0].Kind)
	}
	if toks[0].Value != `"hello\nworld"` {
		t.Errorf("Value = %q", toks[0].Value)
	}
}

func TestLex_UnterminatedStringDiagnostic(t *testing.T) {
	_, bag := Lex(`"unterminated`, "t.isl")
	if !bag.HasErrors() {
		t.Fatal("expected an error diagnostic for an unterminated string")
	}
	found := false
	for _, d := range bag.All() {
		if d.Code == diag.CodeUnterminatedString {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %s diagnostic, got %v", diag.CodeUnterminatedString, bag.All())
	}
}

func TestLex_UnknownEscapeWarns(t *testing.T) {
	_, bag := Lex(`"bad\qescape"`, "t.isl")
	found := false
	for _, d := range bag.All() {
		if d.Code == diag.CodeInvalidEscape && d.Severity == diag.SeverityWarning {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %s warning, got %v", diag.CodeInvalidEscape, bag.All())
	}
}

func TestLex_UnterminatedBlockComment(t *testing.T) {
	_, bag := Lex("/* never closed", "t.isl")
	if !bag.HasErrors() {
		t.Fatal("expected an error for an unterminated block comment")
	}
}

func TestLex_LineCommentStylesIgnored(t *testing.T) {
	toks, bag := Lex("// c style\n# hash style\nidentifier", "t.isl")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
	filtered := Filtered(toks)
	if len(filtered) != 2 { // identifier + EOF
		t.Fatalf("Filtered() = %v, want 2 tokens", filtered)
	}
	if filtered[0].Kind != token.KindIdentifier || filtered[0].Value != "identifier" {
		t.Errorf("filtered[0] = %+v", filtered[0])
	}
}

func TestLex_UnrecognisedCharacterMakesProgress(t *testing.T) {
	toks, bag := Lex("@@ x", "t.isl")
	if !bag.HasErrors() {
		t.Fatal("expected diagnostics for unrecognised characters")
	}
	// Scanning must still reach the trailing identifier.
	found := false
	for _, tk := range toks {
		if tk.Kind == token.KindIdentifier && tk.Value == "x" {
			found = true
		}
	}
	if !found {
		t.Errorf("scanner did not make progress past unrecognised chars: %v", toks)
	}
}

func TestLex_NewlineStyles(t *testing.T) {
	for _, nl := range []string{"\n", "\r\n", "\r"} {
		src := "a" + nl + "b"
		toks, bag := Lex(src, "t.isl")
		if bag.HasErrors() {
			t.Fatalf("newline style %q: unexpected diagnostics: %v", nl, bag.All())
		}
		if len(toks) < 3 {
			t.Fatalf("newline style %q: got %v", nl, toks)
		}
		if toks[1].Span.StartLine != 2 {
			t.Errorf("newline style %q: second token on line %d, want 2", nl, toks[1].Span.StartLine)
		}
	}
}

func TestLex_SpansAreByteAccurate(t *testing.T) {
	toks, _ := Lex("  domain", "t.isl")
	if toks[0].Span.StartCol != 3 {
		t.Errorf("StartCol = %d, want 3", toks[0].Span.StartCol)
	}
}

func TestFiltered_DropsComments(t *testing.T) {
	all := []token.Token{
		{Category: token.CategoryComment, Kind: token.KindComment, Value: "x"},
		{Category: token.CategoryIdentifier, Kind: token.KindIdentifier, Value: "y"},
	}
	out := Filtered(all)
	if len(out) != 1 || out[0].Value != "y" {
		t.Errorf("Filtered() = %v", out)
	}
}
