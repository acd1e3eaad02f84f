// Package lrerrors collects the error taxonomy surfaced by grammar
// construction and parsing: syntax errors found by the driver, and
// construction-time grammar defects found while building the ACTION/GOTO
// tables. Each type is a struct with unexported fields implementing error,
// built through an exported constructor. MalformedGrammarError and
// ActionArityError also have a Wrap* constructor that records an underlying
// cause recoverable with errors.Unwrap/errors.As; SyntaxError and
// ConflictError have none, so their Unwrap returns nil.
package lrerrors

import (
	"fmt"

	"github.com/bmstu-iu9/parser-edsl/token"
)

// SyntaxError is raised by the parse driver when it reads a token whose
// class has no entry in ACTION[state]. It carries the offending token and
// the set of terminal classes that would have been accepted instead.
type SyntaxError struct {
	msg      string
	tok      token.Token
	expected []token.Class
	wrap     error
}

func (e *SyntaxError) Error() string { return e.msg }

// Token returns the unexpected token that triggered the error.
func (e *SyntaxError) Token() token.Token { return e.tok }

// Expected returns the terminal classes that ACTION[state] would have
// accepted, in the order the grammar's terminals were declared.
func (e *SyntaxError) Expected() []token.Class { return e.expected }

// Unwrap gives the error that the SyntaxError wraps, if it wraps one.
func (e *SyntaxError) Unwrap() error { return e.wrap }

// NewSyntaxError builds a SyntaxError reporting that tok was unexpected,
// with expected naming the terminals that would have been accepted.
func NewSyntaxError(tok token.Token, expected []token.Class) *SyntaxError {
	names := make([]string, len(expected))
	for i, c := range expected {
		names[i] = c.Human()
	}
	msg := fmt.Sprintf("unexpected %s at %s; expected %s",
		tok.Class().Human(), tok.Coordinates().String(), textList(names))
	return &SyntaxError{msg: msg, tok: tok, expected: expected}
}

// ConflictError is raised at table-construction time when a state has both a
// shift and a reduce action (or two reduce actions) defined for the same
// terminal and the host has not opted into shift-wins resolution.
type ConflictError struct {
	msg    string
	state  string
	symbol string
	wrap   error
}

func (e *ConflictError) Error() string { return e.msg }

// State returns the name of the conflicted LALR(1) (merged) state.
func (e *ConflictError) State() string { return e.state }

// Symbol returns the terminal the conflict was found on.
func (e *ConflictError) Symbol() string { return e.symbol }

// Unwrap gives the error that the ConflictError wraps, if it wraps one.
func (e *ConflictError) Unwrap() error { return e.wrap }

// NewConflictError builds a ConflictError for the given state and terminal,
// with detail describing the competing actions.
func NewConflictError(state, symbol, detail string) *ConflictError {
	return &ConflictError{
		msg:    fmt.Sprintf("grammar conflict in state %s on %q: %s", state, symbol, detail),
		state:  state,
		symbol: symbol,
	}
}

// MalformedGrammarError is raised at materialization time: a start
// nonterminal with no productions, or an RHS symbol that is neither a
// declared terminal nor a reachable nonterminal.
type MalformedGrammarError struct {
	msg  string
	wrap error
}

func (e *MalformedGrammarError) Error() string { return e.msg }

// Unwrap gives the error that the MalformedGrammarError wraps, if it wraps
// one.
func (e *MalformedGrammarError) Unwrap() error { return e.wrap }

// NewMalformedGrammarErrorf builds a MalformedGrammarError from a format
// string, in the manner of fmt.Errorf.
func NewMalformedGrammarErrorf(format string, a ...any) *MalformedGrammarError {
	return &MalformedGrammarError{msg: fmt.Sprintf(format, a...)}
}

// WrapMalformedGrammarErrorf builds a MalformedGrammarError that wraps err,
// with a message built from format in the manner of fmt.Errorf.
func WrapMalformedGrammarErrorf(err error, format string, a ...any) *MalformedGrammarError {
	return &MalformedGrammarError{msg: fmt.Sprintf(format, a...), wrap: err}
}

// ActionArityError is raised at materialization time when a reducer's
// parameter count does not match the number of attribute-bearing members in
// its alternative's right-hand side.
type ActionArityError struct {
	msg  string
	wrap error
}

func (e *ActionArityError) Error() string { return e.msg }

// Unwrap gives the error that the ActionArityError wraps, if it wraps one.
func (e *ActionArityError) Unwrap() error { return e.wrap }

// NewActionArityErrorf builds an ActionArityError from a format string, in
// the manner of fmt.Errorf.
func NewActionArityErrorf(format string, a ...any) *ActionArityError {
	return &ActionArityError{msg: fmt.Sprintf(format, a...)}
}

// WrapActionArityErrorf builds an ActionArityError that wraps err, with a
// message built from format in the manner of fmt.Errorf.
func WrapActionArityErrorf(err error, format string, a ...any) *ActionArityError {
	return &ActionArityError{msg: fmt.Sprintf(format, a...), wrap: err}
}

func textList(items []string) string {
	switch len(items) {
	case 0:
		return "(nothing)"
	case 1:
		return items[0]
	case 2:
		return items[0] + " or " + items[1]
	default:
		out := ""
		for i, it := range items {
			if i == len(items)-1 {
				out += "or " + it
				continue
			}
			out += it + ", "
		}
		return out
	}
}
