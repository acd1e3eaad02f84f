// Package lr builds the canonical LR(1) collection, merges it down to an
// LALR(1) collection, assembles the resulting ACTION/GOTO table, and drives
// a shift-reduce parse over a token.Stream. It knows nothing of the
// host-facing builder surface, which lives in the root package.
package lr

import (
	"sort"

	"github.com/cnf/structhash"

	"github.com/bmstu-iu9/parser-edsl/grammar"
	"github.com/bmstu-iu9/parser-edsl/token"
)

// state is one canonical LR(1) item set, keyed by the content hash of its
// items so that two syntactically identical closures collapse to the same
// state regardless of the order in which they were discovered.
type state struct {
	items []grammar.LR1Item
	hash  string
}

// itemSetKey produces a stable content hash over an item set's sorted keys
// (rule index, marker position, and lookahead tag), so that two item sets
// discovered in different orders but containing the same items collapse to
// the same state.
func itemSetKey(items []grammar.LR1Item) string {
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.Key()
	}
	sort.Strings(keys)
	h, err := structhash.Hash(keys, 1)
	if err != nil {
		// structhash only fails on unhashable types; a []string never is.
		panic(err)
	}
	return h
}

// collection is the canonical LR(1) automaton: numbered states plus the
// GOTO transition function between them.
type collection struct {
	g        *grammar.Grammar
	states   []state
	indexOf  map[string]int // item-set hash -> state index
	trans    []map[string]int // trans[i][symbol] = j, the GOTO(i, symbol) table
	startIdx int
}

// closure computes the closure of an LR(1) item set per Algorithm 4.62 of
// the purple dragon book: repeatedly add, for every item [A -> α·Bβ, a] with
// B a nonterminal, every item [B -> ·γ, b] for b in FIRST(βa), until no more
// items can be added.
func closure(g *grammar.Grammar, items []grammar.LR1Item) []grammar.LR1Item {
	seen := map[string]grammar.LR1Item{}
	var worklist []grammar.LR1Item
	for _, it := range items {
		if _, ok := seen[it.Key()]; !ok {
			seen[it.Key()] = it
			worklist = append(worklist, it)
		}
	}

	rules := g.Rules()
	for len(worklist) > 0 {
		it := worklist[0]
		worklist = worklist[1:]

		rhs := rules[it.Rule].Production.Symbols
		if it.Marker >= len(rhs) {
			continue
		}
		b := rhs[it.Marker]
		if !g.IsNonTerminal(b) {
			continue
		}
		beta := rhs[it.Marker+1:]
		for _, la := range g.FirstWithLookahead(beta, it.Lookahead) {
			for _, ri := range g.RulesForNonTerminal(b) {
				cand := grammar.LR1Item{
					LR0Item:   grammar.LR0Item{Rule: ri, Marker: 0},
					Lookahead: la,
				}
				if _, ok := seen[cand.Key()]; !ok {
					seen[cand.Key()] = cand
					worklist = append(worklist, cand)
				}
			}
		}
	}

	out := make([]grammar.LR1Item, 0, len(seen))
	for _, it := range seen {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// gotoSet computes GOTO(items, sym): the closure of every item whose marker
// can advance across sym.
func gotoSet(g *grammar.Grammar, items []grammar.LR1Item, sym string) []grammar.LR1Item {
	rules := g.Rules()
	var moved []grammar.LR1Item
	for _, it := range items {
		rhs := rules[it.Rule].Production.Symbols
		if it.Marker < len(rhs) && rhs[it.Marker] == sym {
			moved = append(moved, grammar.LR1Item{
				LR0Item:   grammar.LR0Item{Rule: it.Rule, Marker: it.Marker + 1},
				Lookahead: it.Lookahead,
			})
		}
	}
	if len(moved) == 0 {
		return nil
	}
	return closure(g, moved)
}

// buildCanonicalCollection constructs the canonical collection of sets of
// LR(1) items for g by repeated closure and GOTO from the augmented start
// item, per Algorithm 4.62 of the purple dragon book. Merging this
// collection's LR(0)-equivalent cores down to LALR(1) is a separate pass
// (see merge.go).
func buildCanonicalCollection(g *grammar.Grammar) *collection {
	c := &collection{
		g:       g,
		indexOf: map[string]int{},
	}

	startItem := grammar.LR1Item{
		LR0Item:   grammar.LR0Item{Rule: 0, Marker: 0},
		Lookahead: token.EndOfTextID,
	}
	startItems := closure(g, []grammar.LR1Item{startItem})
	c.addState(startItems)
	c.startIdx = 0

	allSymbols := append(append([]string{}, g.Terminals()...), g.NonTerminals()...)

	for i := 0; i < len(c.states); i++ {
		for _, sym := range allSymbols {
			next := gotoSet(g, c.states[i].items, sym)
			if len(next) == 0 {
				continue
			}
			j := c.addState(next)
			if c.trans[i] == nil {
				c.trans[i] = map[string]int{}
			}
			c.trans[i][sym] = j
		}
	}

	return c
}

// addState registers items as a state if its content hash is new, returning
// the (possibly pre-existing) state's index.
func (c *collection) addState(items []grammar.LR1Item) int {
	key := itemSetKey(items)
	if idx, ok := c.indexOf[key]; ok {
		return idx
	}
	idx := len(c.states)
	c.states = append(c.states, state{items: items, hash: key})
	c.trans = append(c.trans, nil)
	c.indexOf[key] = idx
	return idx
}
