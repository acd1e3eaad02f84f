// Package grammar holds the data model and analysis for a context-free
// grammar: rules, terminals, nonterminals, the augmented start symbol, and
// FIRST/FOLLOW set computation. It knows nothing about LR automaton
// construction or parsing; those live in package lr.
package grammar

import (
	"github.com/bmstu-iu9/parser-edsl/lrerrors"
	"github.com/bmstu-iu9/parser-edsl/token"
)

// Grammar is the tuple (rules, terminals, nonterminals, start, FIRST,
// FOLLOW). A Grammar returned by New is ready for AddTerm and AddRule calls
// (the zero value is not: its maps are unallocated); the start nonterminal
// is implicitly the LHS of the first rule added.
type Grammar struct {
	rules     []Rule
	terminals []string
	termClass map[string]token.Class
	nonterms  []string
	ntSet     map[string]bool

	augStart string

	first  map[string]*termSet
	follow map[string]*termSet
}

// New returns an empty Grammar ready to be populated with AddTerm/AddRule.
func New() *Grammar {
	return &Grammar{
		termClass: map[string]token.Class{},
		ntSet:     map[string]bool{},
	}
}

// AddTerm registers a terminal tag. Re-adding an already-known id is a no-op.
func (g *Grammar) AddTerm(id string, class token.Class) {
	if _, ok := g.termClass[id]; ok {
		return
	}
	g.terminals = append(g.terminals, id)
	g.termClass[id] = class
}

// AddRule appends one alternative to nt's production list. The first call to
// AddRule on a Grammar fixes its start symbol.
func (g *Grammar) AddRule(nt string, prod Production) {
	if !g.ntSet[nt] {
		g.ntSet[nt] = true
		g.nonterms = append(g.nonterms, nt)
	}
	g.rules = append(g.rules, Rule{NonTerminal: nt, Production: prod})
}

// StartSymbol is the nonterminal of the first rule added.
func (g *Grammar) StartSymbol() string {
	if len(g.rules) == 0 {
		return ""
	}
	return g.rules[0].NonTerminal
}

// AugmentedStart is the synthesized S' nonterminal of the augmenting rule
// S' -> S placed at rule index 0, which gives the parser a unique state to
// accept in. Its name is derived from the start symbol's, extended until it
// is distinct from every declared nonterminal.
func (g *Grammar) AugmentedStart() string {
	if g.augStart != "" {
		return g.augStart
	}
	cand := g.StartSymbol() + "'"
	for g.ntSet[cand] {
		cand += "'"
	}
	g.augStart = cand
	return cand
}

// IsTerminal reports whether sym is a declared terminal tag.
func (g *Grammar) IsTerminal(sym string) bool {
	_, ok := g.termClass[sym]
	return ok
}

// IsNonTerminal reports whether sym is a declared nonterminal (including the
// augmented start symbol).
func (g *Grammar) IsNonTerminal(sym string) bool {
	return g.ntSet[sym] || sym == g.AugmentedStart()
}

// Term returns the token.Class registered for a terminal tag.
func (g *Grammar) Term(id string) token.Class {
	return g.termClass[id]
}

// Terminals returns the declared terminal tags in declaration order.
func (g *Grammar) Terminals() []string {
	out := make([]string, len(g.terminals))
	copy(out, g.terminals)
	return out
}

// NonTerminals returns the declared nonterminals (excluding the augmented
// start symbol) in first-use order.
func (g *Grammar) NonTerminals() []string {
	out := make([]string, len(g.nonterms))
	copy(out, g.nonterms)
	return out
}

// Rules returns the canonical rule list: the augmented rule S' -> S at index
// 0, followed by every rule added via AddRule in declaration order.
func (g *Grammar) Rules() []Rule {
	out := make([]Rule, 0, len(g.rules)+1)
	out = append(out, Rule{
		NonTerminal: g.AugmentedStart(),
		Production: Production{
			Symbols:     []string{g.StartSymbol()},
			AttrBearing: []bool{true},
		},
	})
	out = append(out, g.rules...)
	return out
}

// Rule returns the rule at index i of Rules().
func (g *Grammar) Rule(i int) Rule {
	return g.Rules()[i]
}

// RulesForNonTerminal returns the indices (into Rules()) of every rule whose
// LHS is nt.
func (g *Grammar) RulesForNonTerminal(nt string) []int {
	var out []int
	for i, r := range g.Rules() {
		if r.NonTerminal == nt {
			out = append(out, i)
		}
	}
	return out
}

// Validate checks the grammar's well-formedness invariants (a start
// nonterminal with productions, at least one terminal, every RHS symbol
// resolving to a known terminal or nonterminal, and declared actions whose
// arity matches their alternative's attribute count) and, if they hold,
// computes FIRST and FOLLOW to their fixed points.
func (g *Grammar) Validate() error {
	if len(g.rules) == 0 {
		return lrerrors.NewMalformedGrammarErrorf("grammar has no rules: start nonterminal has no productions")
	}
	if len(g.terminals) == 0 {
		return lrerrors.NewMalformedGrammarErrorf("grammar declares no terminals")
	}

	for _, r := range g.rules {
		for _, sym := range r.Production.Symbols {
			if !g.IsTerminal(sym) && !g.ntSet[sym] {
				return lrerrors.NewMalformedGrammarErrorf(
					"rule %s: symbol %q is neither a declared terminal nor a reachable nonterminal", r.String(), sym)
			}
		}
		if !r.Production.Action.IsZero() {
			if want, got := r.Production.AttrCount(), r.Production.Action.Arity(); want != got {
				return lrerrors.NewActionArityErrorf(
					"rule %s: action takes %d argument(s) but the alternative has %d attribute-bearing member(s)",
					r.String(), got, want)
			}
		} else if r.Production.AttrCount() > 1 {
			return lrerrors.NewMalformedGrammarErrorf(
				"rule %s: %d attribute-bearing members but no action to combine them (pass-through only applies to exactly one)",
				r.String(), r.Production.AttrCount())
		}
	}

	g.computeFirstFollow()
	return nil
}
