package grammar

import (
	"sort"

	"github.com/bmstu-iu9/parser-edsl/token"
)

// epsilonMarker is never a real terminal tag; it flags "derives the empty
// string" inside the FIRST-set fixed point. It is never returned from a
// public FIRST/FOLLOW accessor.
const epsilonMarker = "\x00epsilon"

// FirstOfSequence computes FIRST(symbols): the terminals it contains
// (sorted) and whether Epsilon is a member (i.e. whether symbols can derive
// the empty string). Validate must have been called first.
func (g *Grammar) FirstOfSequence(symbols []string) (terms []string, nullable bool) {
	raw := g.firstOfSeqRaw(symbols)
	for t := range raw {
		if t == epsilonMarker {
			nullable = true
			continue
		}
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms, nullable
}

// FirstWithLookahead computes FIRST(βa) as used by LR(1) closure: FIRST(β)
// if Epsilon is not in it, otherwise (FIRST(β) \ {Epsilon}) ∪ {a}.
func (g *Grammar) FirstWithLookahead(beta []string, a string) []string {
	terms, nullable := g.FirstOfSequence(beta)
	if !nullable {
		return terms
	}
	out := append(terms[:len(terms):len(terms)], a)
	sort.Strings(out)
	return dedupSorted(out)
}

// FollowOf returns FOLLOW(nt), sorted. Validate must have been called
// first.
func (g *Grammar) FollowOf(nt string) []string {
	fs := g.follow[nt]
	if fs == nil {
		return nil
	}
	return fs.Slice()
}

// firstOfSeqRaw computes FIRST(symbols) against the grammar's current FIRST
// approximation (which may be mid fixed-point), returning a set that
// includes epsilonMarker when symbols is nullable.
func (g *Grammar) firstOfSeqRaw(symbols []string) map[string]bool {
	out := map[string]bool{}
	if len(symbols) == 0 {
		out[epsilonMarker] = true
		return out
	}
	sym := symbols[0]
	if g.IsTerminal(sym) {
		out[sym] = true
		return out
	}

	fs := g.first[sym]
	nullable := false
	if fs != nil {
		for _, t := range fs.Slice() {
			out[t] = true
		}
		nullable = fs.Has(epsilonMarker)
	}
	delete(out, epsilonMarker)
	if nullable {
		rest := g.firstOfSeqRaw(symbols[1:])
		for t := range rest {
			out[t] = true
		}
	}
	return out
}

// computeFirstFollow runs the FIRST and FOLLOW fixed-point iterations.
// FIRST is computed first since FOLLOW's propagation rule depends on it.
func (g *Grammar) computeFirstFollow() {
	g.first = map[string]*termSet{}
	for _, nt := range g.nonterms {
		g.first[nt] = newTermSet()
	}

	for changed := true; changed; {
		changed = false
		for _, r := range g.rules {
			add := newTermSet()
			for t := range g.firstOfSeqRaw(r.Production.Symbols) {
				add.Add(t)
			}
			if g.first[r.NonTerminal].AddAll(add) {
				changed = true
			}
		}
	}

	g.follow = map[string]*termSet{}
	for _, nt := range g.nonterms {
		g.follow[nt] = newTermSet()
	}
	start := g.StartSymbol()
	if fs, ok := g.follow[start]; ok {
		fs.Add(token.EndOfTextID)
	}

	for changed := true; changed; {
		changed = false
		for _, r := range g.rules {
			rhs := r.Production.Symbols
			for i, sym := range rhs {
				if !g.ntSet[sym] {
					continue
				}
				rest := rhs[i+1:]
				raw := g.firstOfSeqRaw(rest)
				for t := range raw {
					if t == epsilonMarker {
						continue
					}
					if g.follow[sym].Add(t) {
						changed = true
					}
				}
				if _, nullable := raw[epsilonMarker]; nullable {
					if g.follow[sym].AddAll(g.follow[r.NonTerminal]) {
						changed = true
					}
				}
			}
		}
	}
}

func dedupSorted(in []string) []string {
	out := in[:0:0]
	for i, v := range in {
		if i == 0 || v != in[i-1] {
			out = append(out, v)
		}
	}
	return out
}
