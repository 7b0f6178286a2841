// Package islerr holds the shared {Kind, Message} value-error
// convention used throughout this module, generalising the pattern
// the teacher repo repeats independently per package (graph.GraphError,
// dsl.SyntaxError, query.QueryError) into one reusable type.
package islerr

import "fmt"

// Error is a value error carrying a short machine-matchable Kind and
// a human-readable Message. Component is the package that raised it
// ("lexer", "parser", "eval", ...), used only for the Error() string.
type Error struct {
	Component string
	Kind      string
	Message   string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s error (%s): %s", e.Component, e.Kind, e.Message)
}

func New(component, kind, message string) Error {
	return Error{Component: component, Kind: kind, Message: message}
}
