package parsegen

// alternative is one right-hand side of a rule together with its optional
// semantic action.
type alternative struct {
	symbols []Symbol
	action  any
}

// Rule accumulates one or more alternatives for a single Nonterminal. Build
// one with Alt, extend the alternative under construction with Then, attach
// its reducer with Act, and start a new alternative with a further call to
// Alt, one alternative at a time.
type Rule struct {
	alts []alternative
}

// Alt starts a Rule (or, called on an existing Rule, starts a new
// alternative within it) whose right-hand side begins with symbols.
func Alt(symbols ...Symbol) *Rule {
	r := &Rule{}
	return r.Alt(symbols...)
}

// Alt starts a new alternative on r, beginning with symbols.
func (r *Rule) Alt(symbols ...Symbol) *Rule {
	cp := append([]Symbol{}, symbols...)
	r.alts = append(r.alts, alternative{symbols: cp})
	return r
}

// Then appends s to the right-hand side of the alternative currently being
// built.
func (r *Rule) Then(s Symbol) *Rule {
	last := &r.alts[len(r.alts)-1]
	last.symbols = append(last.symbols, s)
	return r
}

// Act attaches the semantic reducer for the alternative currently being
// built. fn must be a function whose parameters, left to right, match the
// attribute-bearing members of the alternative's right-hand side; its
// return value (if any) becomes the attribute synthesized for this
// alternative's Nonterminal. Arity is checked when the grammar is
// materialized.
func (r *Rule) Act(fn any) *Rule {
	last := &r.alts[len(r.alts)-1]
	last.action = fn
	return r
}
