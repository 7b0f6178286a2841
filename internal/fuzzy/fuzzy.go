// Package fuzzy implements the error-recovery parser (§4.3): a fixed
// sequence of source-level normalisations followed by the strict
// parser, with panic-mode recovery and PartialNode markers for
// whatever the strict pass still could not make sense of.
package fuzzy

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Ship-Gate/ShipGate-sub007/internal/ast"
	"github.com/Ship-Gate/ShipGate-sub007/internal/diag"
	"github.com/Ship-Gate/ShipGate-sub007/internal/parser"
	"github.com/Ship-Gate/ShipGate-sub007/internal/token"
)

// PartialNode marks a source range the recovery pass had to drop.
type PartialNode struct {
	Name string
	Span token.Span
}

// Result is the fuzzy parser's total output (§4.3, §6).
type Result struct {
	AST          *ast.Domain
	Warnings     []diag.Diagnostic
	Errors       []diag.Diagnostic
	PartialNodes []PartialNode
	Coverage     float64
}

var primitiveAliases = map[string]string{
	"string":  "String",
	"number":  "Int",
	"boolean": "Boolean",
}

var primitiveAliasPattern = regexp.MustCompile(`(:\s*)(string|number|boolean)(\s*[,\]\}\?\n])`)

var formatAnnotationPattern = regexp.MustCompile(`\[format:\s*([^\]]+)\]`)

var jsImportPattern = regexp.MustCompile(`(?s)imports\s*\{\s*([^}]+)\s*\}\s*from\s*("([^"]*)")`)

var versionFieldPattern = regexp.MustCompile(`version\s*:`)

var domainHeaderPattern = regexp.MustCompile(`domain\s+\w+\s*\{`)

// Parse runs the full normalise-then-strict-parse pipeline.
func Parse(source, filename string) Result {
	normalised, warnings := normalise(source)

	pr := parser.Parse(normalised, filename)

	var errs []diag.Diagnostic
	var partials []PartialNode
	attempted, parsed := 0, 0

	for _, d := range pr.Diagnostics {
		if d.Severity == diag.SeverityError {
			errs = append(errs, d)
			attempted++
			partials = append(partials, PartialNode{Name: d.Code, Span: d.Location})
		}
	}
	if pr.AST != nil {
		parsed = countNodes(pr.AST)
		attempted += parsed
	}

	coverage := 1.0
	if attempted > 0 {
		coverage = float64(parsed) / float64(attempted)
	}

	return Result{
		AST:          pr.AST,
		Warnings:     append(warnings, filterSeverity(pr.Diagnostics, diag.SeverityWarning)...),
		Errors:       errs,
		PartialNodes: partials,
		Coverage:     coverage,
	}
}

func filterSeverity(ds []diag.Diagnostic, sev diag.Severity) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range ds {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

// countNodes gives a rough attempted/parsed denominator for the
// coverage metric: every declaration list contributes its length.
func countNodes(d *ast.Domain) int {
	n := len(d.Imports) + len(d.Types) + len(d.Entities) + len(d.Behaviors) +
		len(d.Policies) + len(d.Views) + len(d.Scenarios) + len(d.Chaos) + 1
	return n
}

// normalise applies the fixed-order source transforms (§4.3). Each
// step is independent text surgery; spans inside the resulting AST
// describe the normalised text, not the original.
func normalise(source string) (string, []diag.Diagnostic) {
	var warnings []diag.Diagnostic

	source, tabWarned := detabLeading(source)
	if tabWarned {
		warnings = append(warnings, diag.Diagnostic{
			Code: diag.CodeFuzzyTabsNormalised, Severity: diag.SeverityWarning,
			Message: "leading tabs normalised to two spaces",
		})
	}

	if n := len(trailingCommaPattern.FindAllString(source, -1)); n > 0 {
		source = dropTrailingCommas(source)
		warnings = append(warnings, diag.Diagnostic{
			Code: diag.CodeFuzzyTrailingComma, Severity: diag.SeverityWarning,
			Message: pluralise(n, "trailing-comma normalisation"),
		})
	}

	if primitiveAliasPattern.MatchString(source) {
		source = primitiveAliasPattern.ReplaceAllStringFunc(source, func(m string) string {
			sub := primitiveAliasPattern.FindStringSubmatch(m)
			return sub[1] + primitiveAliases[sub[2]] + sub[3]
		})
		warnings = append(warnings, diag.Diagnostic{
			Code: diag.CodeFuzzyPrimitiveCase, Severity: diag.SeverityWarning,
			Message: "lowercase primitive type alias normalised to canonical casing",
		})
	}

	if formatAnnotationPattern.MatchString(source) {
		source = formatAnnotationPattern.ReplaceAllString(source, `{ format: "$1" }`)
		warnings = append(warnings, diag.Diagnostic{
			Code: diag.CodeFuzzyFormatLifted, Severity: diag.SeverityWarning,
			Message: "inline [format:...] annotation lifted to a constraint block",
		})
	}

	if jsImportPattern.MatchString(source) {
		source = lowerJSImports(source)
		warnings = append(warnings, diag.Diagnostic{
			Code: diag.CodeFuzzyImportsLowered, Severity: diag.SeverityWarning,
			Message: "multi-item import lowered to one import per line",
		})
	}

	if !versionFieldPattern.MatchString(source) {
		source = injectVersion(source)
		warnings = append(warnings, diag.Diagnostic{
			Code: diag.CodeFuzzyMissingVersion, Severity: diag.SeverityWarning,
			Message: "missing version field synthesised as \"1.0.0\"",
		})
	}

	return source, warnings
}

func pluralise(n int, noun string) string {
	if n == 1 {
		return "one " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func detabLeading(source string) (string, bool) {
	lines := strings.Split(source, "\n")
	warned := false
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, "\t")
		if len(trimmed) != len(line) {
			warned = true
			lines[i] = strings.Repeat("  ", len(line)-len(trimmed)) + trimmed
		}
	}
	return strings.Join(lines, "\n"), warned
}

var trailingCommaPattern = regexp.MustCompile(`,(\s*)([}\)])`)

func dropTrailingCommas(source string) string {
	return trailingCommaPattern.ReplaceAllString(source, "$1$2")
}

func lowerJSImports(source string) string {
	return jsImportPattern.ReplaceAllStringFunc(source, func(m string) string {
		sub := jsImportPattern.FindStringSubmatch(m)
		items := strings.Split(sub[1], ",")
		path := sub[2]
		var lines []string
		for _, it := range items {
			it = strings.TrimSpace(it)
			if it == "" {
				continue
			}
			lines = append(lines, "imports { "+it+" from "+path+" }")
		}
		return strings.Join(lines, "\n")
	})
}

func injectVersion(source string) string {
	loc := domainHeaderPattern.FindStringIndex(source)
	if loc == nil {
		return source
	}
	insertAt := loc[1]
	return source[:insertAt] + "\n  version: \"1.0.0\"" + source[insertAt:]
}
