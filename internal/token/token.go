// Package token defines the lexical vocabulary of the isl domain
// specification language: source spans, token categories, and the
// closed set of token kinds the lexer and parser share.
package token

import "fmt"

// Span is a byte-accurate, 1-based source location. Columns count
// codepoints, not bytes. Spans are strictly informational: AST
// structural equality always ignores them.
type Span struct {
	File       string
	StartLine  int
	StartCol   int
	EndLine    int
	EndCol     int
}

func (s Span) String() string {
	if s.File == "" {
		return fmt.Sprintf("%d:%d-%d:%d", s.StartLine, s.StartCol, s.EndLine, s.EndCol)
	}
	return fmt.Sprintf("%s:%d:%d-%d:%d", s.File, s.StartLine, s.StartCol, s.EndLine, s.EndCol)
}

// Merge returns the smallest span covering both a and b. Both spans
// must belong to the same file; callers that merge across files get
// a's file.
func Merge(a, b Span) Span {
	m := a
	if b.StartLine < a.StartLine || (b.StartLine == a.StartLine && b.StartCol < a.StartCol) {
		m.StartLine, m.StartCol = b.StartLine, b.StartCol
	}
	if b.EndLine > a.EndLine || (b.EndLine == a.EndLine && b.EndCol > a.EndCol) {
		m.EndLine, m.EndCol = b.EndLine, b.EndCol
	}
	return m
}

// Category is the coarse classification of a token, used by the
// parser to decide whether a lexeme can occur in a given grammar
// position without inspecting the finer Kind.
type Category int

const (
	CategoryKeyword Category = iota
	CategoryIdentifier
	CategoryString
	CategoryNumber
	CategoryDuration
	CategoryBoolean
	CategoryPunctuation
	CategoryOperator
	CategoryComment
	CategoryEOF
)

func (c Category) String() string {
	switch c {
	case CategoryKeyword:
		return "Keyword"
	case CategoryIdentifier:
		return "Identifier"
	case CategoryString:
		return "String"
	case CategoryNumber:
		return "Number"
	case CategoryDuration:
		return "Duration"
	case CategoryBoolean:
		return "Boolean"
	case CategoryPunctuation:
		return "Punctuation"
	case CategoryOperator:
		return "Operator"
	case CategoryComment:
		return "Comment"
	case CategoryEOF:
		return "EOF"
	default:
		return "Unknown"
	}
}

// Kind is the fine-grained token tag. Keyword kinds carry a Kw prefix,
// punctuation/operator kinds spell the symbol's name.
type Kind int

const (
	KindEOF Kind = iota
	KindComment
	KindIllegal // unrecognised character; never satisfies atEnd()

	KindIdentifier
	KindString
	KindNumber
	KindDuration
	KindBoolean

	// Punctuation
	KindLBrace
	KindRBrace
	KindLParen
	KindRParen
	KindLBracket
	KindRBracket
	KindComma
	KindColon
	KindSemicolon
	KindDot
	KindPipe

	// Operators
	KindEqEq
	KindNotEq
	KindLt
	KindLtEq
	KindGt
	KindGtEq
	KindPlus
	KindMinus
	KindStar
	KindSlash
	KindPercent
	KindAssign
	KindArrow    // ->
	KindFatArrow // =>
	KindAndAnd   // &&  (aliased to KindAndKw)
	KindOrOr     // ||  (aliased to KindOrKw)
	KindBang     // !   (aliased to KindNotKw)
	KindQuestion

	// Keywords
	KindDomainKw
	KindVersionKw
	KindOwnerKw
	KindEntityKw
	KindBehaviorKw
	KindTypeKw
	KindEnumKw
	KindImportsKw
	KindFromKw
	KindAsKw
	KindViewKw
	KindPolicyKw
	KindScenariosKw
	KindScenarioKw
	KindChaosKw
	KindInjectKw
	KindWhenKw
	KindThenKw
	KindExpectKw
	KindGivenKw
	KindWithKw
	KindInputKw
	KindOutputKw
	KindErrorsKw
	KindPreKw
	KindPreconditionsKw
	KindPostKw
	KindPostconditionsKw
	KindInvariantsKw
	KindLifecycleKw
	KindTemporalKw
	KindSecurityKw
	KindComplianceKw
	KindObservabilityKw
	KindActorsKw
	KindFieldsKw
	KindRulesKw
	KindRuleKw
	KindAllowKw
	KindDenyKw
	KindDefaultKw
	KindAndKw
	KindOrKw
	KindNotKw
	KindImpliesKw
	KindIffKw
	KindInKw
	KindAllKw
	KindAnyKw
	KindNoneKw
	KindCountKw
	KindSumKw
	KindFilterKw
	KindOldKw
	KindResultKw
	KindNowKw
	KindTrueKw
	KindFalseKw
	KindNullKw
)

// Keywords is the closed keyword set recognised by the lexer (§4.1).
// Non-keyword identifier-shaped lexemes become Identifier tokens.
var Keywords = map[string]Kind{
	"domain":          KindDomainKw,
	"version":         KindVersionKw,
	"owner":           KindOwnerKw,
	"entity":          KindEntityKw,
	"behavior":        KindBehaviorKw,
	"type":            KindTypeKw,
	"enum":            KindEnumKw,
	"imports":         KindImportsKw,
	"from":            KindFromKw,
	"as":              KindAsKw,
	"view":            KindViewKw,
	"policy":          KindPolicyKw,
	"scenarios":       KindScenariosKw,
	"scenario":        KindScenarioKw,
	"chaos":           KindChaosKw,
	"inject":          KindInjectKw,
	"when":            KindWhenKw,
	"then":            KindThenKw,
	"expect":          KindExpectKw,
	"given":           KindGivenKw,
	"with":            KindWithKw,
	"input":           KindInputKw,
	"output":          KindOutputKw,
	"errors":          KindErrorsKw,
	"pre":             KindPreKw,
	"preconditions":   KindPreconditionsKw,
	"post":            KindPostKw,
	"postconditions":  KindPostconditionsKw,
	"invariants":      KindInvariantsKw,
	"lifecycle":       KindLifecycleKw,
	"temporal":        KindTemporalKw,
	"security":        KindSecurityKw,
	"compliance":      KindComplianceKw,
	"observability":   KindObservabilityKw,
	"actors":          KindActorsKw,
	"fields":          KindFieldsKw,
	"rules":           KindRulesKw,
	"rule":            KindRuleKw,
	"allow":           KindAllowKw,
	"deny":            KindDenyKw,
	"default":         KindDefaultKw,
	"and":             KindAndKw,
	"or":              KindOrKw,
	"not":             KindNotKw,
	"implies":         KindImpliesKw,
	"iff":             KindIffKw,
	"in":              KindInKw,
	"all":             KindAllKw,
	"any":             KindAnyKw,
	"none":            KindNoneKw,
	"count":           KindCountKw,
	"sum":             KindSumKw,
	"filter":          KindFilterKw,
	"old":             KindOldKw,
	"result":          KindResultKw,
	"now":             KindNowKw,
	"true":            KindTrueKw,
	"false":           KindFalseKw,
	"null":            KindNullKw,
}

// QuantifierKeywords followed directly by "(" lex as keywords; used
// elsewhere they may act as plain identifiers (§4.1). The parser
// disambiguates by peeking the next token, not the lexer.
var QuantifierKeywords = map[Kind]bool{
	KindAllKw:    true,
	KindAnyKw:    true,
	KindNoneKw:   true,
	KindCountKw:  true,
	KindSumKw:    true,
	KindFilterKw: true,
}

// DurationUnits is the closed set of duration suffixes (§4.1).
var DurationUnits = map[string]bool{
	"ms":      true,
	"seconds": true,
	"minutes": true,
	"hours":   true,
	"days":    true,
}

// Token is one lexical unit: a category, a fine kind, the raw
// lexeme, and its source span.
type Token struct {
	Category Category
	Kind     Kind
	Value    string
	Span     Span
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%s) %q @ %s", t.Category, kindName(t.Kind), t.Value, t.Span)
}

func kindName(k Kind) string {
	for name, kw := range Keywords {
		if kw == k {
			return name
		}
	}
	switch k {
	case KindEOF:
		return "EOF"
	case KindIllegal:
		return "Illegal"
	case KindIdentifier:
		return "Identifier"
	case KindString:
		return "String"
	case KindNumber:
		return "Number"
	case KindDuration:
		return "Duration"
	case KindBoolean:
		return "Boolean"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}
