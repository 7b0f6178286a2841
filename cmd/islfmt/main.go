// islfmt parses an .isl file and prints its canonical unparsed form,
// exercising Parse/Unparse end to end. Exit codes follow §6's CLI
// surface: 0 on success, 1 on any error-severity diagnostic, 2 on I/O
// failure.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Ship-Gate/ShipGate-sub007/internal/diag"
	"github.com/Ship-Gate/ShipGate-sub007/islcore"
)

const helpText = `islfmt — isl parser/formatter

Usage:
  islfmt <file.isl>        Parse and print the canonical form
  islfmt -fuzzy <file.isl> Parse with error recovery first
  islfmt                   Read a single domain block from stdin

Flags:
  -fuzzy   Run the error-recovery parser instead of the strict one
`

func main() {
	fuzzy := flag.Bool("fuzzy", false, "parse with the error-recovery pass")
	flag.Usage = func() { fmt.Fprint(os.Stderr, helpText) }
	flag.Parse()

	if flag.NArg() == 0 {
		os.Exit(runREPL(*fuzzy))
	}
	os.Exit(runFile(flag.Arg(0), *fuzzy))
}

func runFile(path string, fuzzy bool) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "islfmt: %v\n", err)
		return 2
	}
	return process(string(src), path, fuzzy)
}

func runREPL(fuzzy bool) int {
	fmt.Println("islfmt — paste one domain block, then EOF (ctrl-d)")
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var b strings.Builder
	for scanner.Scan() {
		b.WriteString(scanner.Text())
		b.WriteByte('\n')
	}
	return process(b.String(), "<stdin>", fuzzy)
}

func process(src, filename string, fuzzy bool) int {
	var diags []diag.Diagnostic
	var domain *islcore.Domain

	if fuzzy {
		r := islcore.ParseFuzzy(src, filename)
		domain = r.AST
		diags = append(diags, r.Warnings...)
		diags = append(diags, r.Errors...)
		for _, pn := range r.PartialNodes {
			fmt.Fprintf(os.Stderr, "partial: %s at %s\n", pn.Name, pn.Span)
		}
		fmt.Fprintf(os.Stderr, "coverage: %.2f\n", r.Coverage)
	} else {
		r := islcore.Parse(src, filename)
		domain = r.AST
		diags = r.Diagnostics
	}

	hasError := false
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.String())
		if d.Severity == diag.SeverityError {
			hasError = true
		}
	}

	if domain != nil {
		fmt.Println(islcore.Unparse(domain))
	}

	if hasError {
		return 1
	}
	return 0
}
