package fuzzy

import (
	"strings"
	"testing"

	"github.com/Ship-Gate/ShipGate-sub007/internal/diag"
)

func hasWarningCode(warnings []diag.Diagnostic, code string) bool {
	for _, w := range warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

func TestNormalise_DetabsLeadingTabsAndWarns(t *testing.T) {
	src := "domain X {\n\tversion: \"1.0.0\"\n}"
	out, warnings := normalise(src)
	if strings.Contains(out, "\t") {
		t.Errorf("normalised output still contains a tab:\n%s", out)
	}
	if !hasWarningCode(warnings, diag.CodeFuzzyTabsNormalised) {
		t.Error("expected F004 tabs-normalised warning")
	}
}

func TestNormalise_DropsTrailingCommaBeforeClose(t *testing.T) {
	src := `domain X { version: "1.0.0" type T = enum { A, B, } }`
	out, warnings := normalise(src)
	if strings.Contains(out, ", }") || strings.Contains(out, ",}") {
		t.Errorf("trailing comma was not dropped:\n%s", out)
	}
	if !hasWarningCode(warnings, diag.CodeFuzzyTrailingComma) {
		t.Error("expected F002 trailing-comma warning")
	}
}

func TestNormalise_LowersPrimitiveAliasCase(t *testing.T) {
	src := "domain X {\n  version: \"1.0.0\"\n  entity E {\n    name: string\n  }\n}"
	out, warnings := normalise(src)
	if !strings.Contains(out, "name: String") {
		t.Errorf("lowercase primitive alias was not uppercased:\n%s", out)
	}
	if strings.Contains(out, "name: string") {
		t.Error("lowercase alias should have been replaced, not retained")
	}
	if !hasWarningCode(warnings, diag.CodeFuzzyPrimitiveCase) {
		t.Error("expected F003 primitive-case warning")
	}
}

func TestNormalise_LowersNumberAndBooleanAliases(t *testing.T) {
	src := "domain X {\n  version: \"1.0.0\"\n  entity E {\n    age: number,\n    active: boolean\n  }\n}"
	out, _ := normalise(src)
	if !strings.Contains(out, "age: Int") {
		t.Errorf("number alias not mapped to Int:\n%s", out)
	}
	if !strings.Contains(out, "active: Boolean") {
		t.Errorf("boolean alias not mapped to Boolean:\n%s", out)
	}
}

func TestNormalise_LiftsInlineFormatAnnotation(t *testing.T) {
	src := `domain X { version: "1.0.0" entity E { email: String [format: email] } }`
	out, warnings := normalise(src)
	if !strings.Contains(out, `{ format: "email" }`) {
		t.Errorf("inline format annotation was not lifted to a constraint block:\n%s", out)
	}
	if !hasWarningCode(warnings, diag.CodeFuzzyFormatLifted) {
		t.Error("expected F005 format-lifted warning")
	}
}

func TestNormalise_LowersJSStyleImports(t *testing.T) {
	src := "domain X {\n  version: \"1.0.0\"\n  imports { Money, Currency } from \"shared/money.isl\"\n}"
	out, warnings := normalise(src)
	if !strings.Contains(out, `imports { Money from "shared/money.isl" }`) {
		t.Errorf("Money import not lowered to single-item form:\n%s", out)
	}
	if !strings.Contains(out, `imports { Currency from "shared/money.isl" }`) {
		t.Errorf("Currency import not lowered to single-item form:\n%s", out)
	}
	if !hasWarningCode(warnings, diag.CodeFuzzyImportsLowered) {
		t.Error("expected F006 imports-lowered warning")
	}
}

func TestNormalise_InjectsMissingVersion(t *testing.T) {
	src := `domain X { entity E { id: UUID } }`
	out, warnings := normalise(src)
	if !strings.Contains(out, `version: "1.0.0"`) {
		t.Errorf("missing version was not synthesised:\n%s", out)
	}
	if !hasWarningCode(warnings, diag.CodeFuzzyMissingVersion) {
		t.Error("expected F001 missing-version warning")
	}
}

func TestNormalise_PresentVersionIsNotDuplicated(t *testing.T) {
	src := `domain X { version: "2.0.0" }`
	out, warnings := normalise(src)
	if strings.Count(out, "version:") != 1 {
		t.Errorf("version field was duplicated:\n%s", out)
	}
	if hasWarningCode(warnings, diag.CodeFuzzyMissingVersion) {
		t.Error("version is present; should not warn about a missing one")
	}
}

func TestNormalise_AllPassesComposeOnOneMalformedSource(t *testing.T) {
	src := "domain X {\n\tentity E {\n\t\tname: string,\n\t\temail: String [format: email],\n\t}\n\timports { Money, } from \"shared/money.isl\"\n}"
	out, warnings := normalise(src)
	if strings.Contains(out, "\t") {
		t.Error("tabs should have been detabbed")
	}
	if !strings.Contains(out, "name: String") {
		t.Error("primitive alias should have been lowered")
	}
	if !strings.Contains(out, `version: "1.0.0"`) {
		t.Error("missing version should have been injected")
	}
	if len(warnings) == 0 {
		t.Error("expected at least one warning from the combined passes")
	}
}

func TestParse_ValidSourceHasFullCoverageAndNoErrors(t *testing.T) {
	src := `domain Orders {
  version: "1.0.0"
  entity Order {
    id: UUID
  }
}`
	r := Parse(src, "t.isl")
	if r.AST == nil {
		t.Fatal("expected a parsed AST for valid source")
	}
	if len(r.Errors) != 0 {
		t.Errorf("expected no errors, got %v", r.Errors)
	}
	if len(r.PartialNodes) != 0 {
		t.Errorf("expected no partial nodes, got %v", r.PartialNodes)
	}
	if r.Coverage != 1.0 {
		t.Errorf("coverage = %v, want 1.0", r.Coverage)
	}
}

func TestParse_MissingVersionProducesWarningNotError(t *testing.T) {
	src := `domain Orders { entity Order { id: UUID } }`
	r := Parse(src, "t.isl")
	if r.AST == nil {
		t.Fatal("expected a parsed AST even with a synthesised version")
	}
	if !hasWarningCode(r.Warnings, diag.CodeFuzzyMissingVersion) {
		t.Error("expected missing-version warning to surface on the Result")
	}
}

func TestParse_MalformedInputRecordsPartialNodesAndPartialCoverage(t *testing.T) {
	src := `domain Orders {
  version: "1.0.0"
  entity @@@ broken {
    id: UUID
  }
  entity Order {
    id: UUID
  }
}`
	r := Parse(src, "t.isl")
	if len(r.Errors) == 0 {
		t.Fatal("expected at least one error diagnostic for malformed entity header")
	}
	if len(r.PartialNodes) == 0 {
		t.Error("expected at least one partial node recorded for the malformed section")
	}
	if r.Coverage <= 0 || r.Coverage >= 1.0 {
		t.Errorf("coverage = %v, want strictly between 0 and 1 when errors and AST content coexist", r.Coverage)
	}
}
