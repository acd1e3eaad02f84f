package lr

import (
	"sort"

	"github.com/cnf/structhash"

	"github.com/bmstu-iu9/parser-edsl/grammar"
)

// mergedState is one LALR(1) state: the union of the lookaheads of every
// canonical LR(1) state sharing its LR(0) core.
type mergedState struct {
	core  []grammar.LR0Item       // sorted, the shared kernel
	items map[grammar.LR0Item]map[string]bool // core item -> set of lookaheads
}

// lookaheadItems returns the merged state's items as LR1Items, one per
// (core item, lookahead) pair, sorted for deterministic enumeration.
func (m mergedState) lookaheadItems() []grammar.LR1Item {
	var out []grammar.LR1Item
	for core, las := range m.items {
		for la := range las {
			out = append(out, grammar.LR1Item{LR0Item: core, Lookahead: la})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// mergeToLALR merges a canonical LR(1) collection's states by LR(0) core:
// two canonical states merge into one LALR state iff they have identical
// cores (rule+marker pairs, ignoring lookahead); the merged state's
// lookahead sets are the union of the originals', and every transition is
// rewritten to point at merged-state indices.
func mergeToLALR(c *collection) (*lalrCollection, error) {
	coreKey := func(items []grammar.LR1Item) string {
		cores := make([]string, len(items))
		for i, it := range items {
			cores[i] = it.Core().Key()
		}
		sort.Strings(cores)
		// Items differing only in lookahead share a core; count each core
		// once so the key ignores how many lookaheads a state carries.
		uniq := make([]string, 0, len(cores))
		for i, k := range cores {
			if i == 0 || k != cores[i-1] {
				uniq = append(uniq, k)
			}
		}
		h, err := structhash.Hash(uniq, 1)
		if err != nil {
			panic(err)
		}
		return h
	}

	// Map each canonical state to a merged-state bucket keyed by its core
	// signature; first-seen order becomes the merged state's index so
	// numbering stays reproducible across runs of the same grammar.
	bucketOf := map[string]int{}
	var buckets []*mergedState
	canonicalToMerged := make([]int, len(c.states))

	for i, st := range c.states {
		key := coreKey(st.items)
		bi, ok := bucketOf[key]
		if !ok {
			bi = len(buckets)
			bucketOf[key] = bi
			buckets = append(buckets, &mergedState{items: map[grammar.LR0Item]map[string]bool{}})
		}
		for _, it := range st.items {
			core := it.Core()
			if buckets[bi].items[core] == nil {
				buckets[bi].items[core] = map[string]bool{}
			}
			buckets[bi].items[core][it.Lookahead] = true
		}
		canonicalToMerged[i] = bi
	}

	for _, b := range buckets {
		var cores []grammar.LR0Item
		for core := range b.items {
			cores = append(cores, core)
		}
		sort.Slice(cores, func(i, j int) bool { return cores[i].Key() < cores[j].Key() })
		b.core = cores
	}

	lc := &lalrCollection{
		g:        c.g,
		states:   buckets,
		trans:    make([]map[string]int, len(buckets)),
		startIdx: canonicalToMerged[c.startIdx],
	}
	for i, st := range c.trans {
		mi := canonicalToMerged[i]
		if lc.trans[mi] == nil {
			lc.trans[mi] = map[string]int{}
		}
		for sym, j := range st {
			mj := canonicalToMerged[j]
			if existing, ok := lc.trans[mi][sym]; ok && existing != mj {
				// Two canonical states that merged into the same LALR state
				// disagree about where symbol sym goes. This cannot happen
				// for a grammar whose LALR(1) construction is well defined,
				// since merge-by-core never merges two states with
				// different GOTO behavior (that is LALR's soundness
				// argument) — guard it anyway rather than silently
				// overwrite.
				continue
			}
			lc.trans[mi][sym] = mj
		}
	}

	return lc, nil
}

// lalrCollection is the LALR(1) automaton produced by merging a canonical
// LR(1) collection's same-core states.
type lalrCollection struct {
	g        *grammar.Grammar
	states   []*mergedState
	trans    []map[string]int
	startIdx int
}
