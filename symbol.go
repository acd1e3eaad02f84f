// Package parsegen is a small domain-specific language for describing
// LALR(1) grammars as ordinary Go values and compiling them into a
// shift-reduce parser. A grammar is built by declaring Nonterminals and
// giving each one its alternatives with Alt/Then/Act, fluent builder
// methods that accumulate a rule's right-hand sides one alternative at a
// time.
package parsegen

import "github.com/bmstu-iu9/parser-edsl/token"

// Symbol is anything that can appear on the right-hand side of a rule: a
// terminal (Term/Punct) or a *Nonterminal.
type Symbol interface {
	isSymbol()
}

// terminalSymbol wraps a token.Class for use on a rule's right-hand side.
// bearing records whether the matched token contributes a value to the
// attribute stack: Term symbols do, Punct symbols (keywords, brackets,
// separators) don't, sparing the host from writing no-op actions just to
// discard punctuation.
type terminalSymbol struct {
	class   token.Class
	bearing bool
}

func (terminalSymbol) isSymbol() {}

// Term declares a terminal whose matched token's attribute participates in
// semantic actions.
func Term(class token.Class) Symbol {
	return terminalSymbol{class: class, bearing: true}
}

// Punct declares a terminal used only for its presence — a keyword,
// operator, or bracket — whose attribute (if it even has one) never reaches
// an action or a pass-through.
func Punct(class token.Class) Symbol {
	return terminalSymbol{class: class, bearing: false}
}
