package parsegen

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bmstu-iu9/parser-edsl/grammar"
	"github.com/bmstu-iu9/parser-edsl/lr"
	"github.com/bmstu-iu9/parser-edsl/lrerrors"
	"github.com/bmstu-iu9/parser-edsl/token"
)

var nontermSeq int64

// Nonterminal is a grammar nonterminal. Give it alternatives with Define,
// then call Parse; the grammar, its tables, and any construction error are
// computed once, on first use, and cached for every later Parse call on the
// same Nonterminal.
type Nonterminal struct {
	name string
	id   string

	alternatives []alternative

	once     sync.Once
	table    *lr.Table
	buildErr error
}

// NewNonterminal creates a fresh Nonterminal named for diagnostics. The
// name need not be unique; a per-process sequence number disambiguates two
// Nonterminals sharing a name in the materialized grammar.
func NewNonterminal(name string) *Nonterminal {
	seq := atomic.AddInt64(&nontermSeq, 1)
	return &Nonterminal{name: name, id: fmt.Sprintf("%s#%d", name, seq)}
}

func (*Nonterminal) isSymbol() {}

func (nt *Nonterminal) String() string { return nt.name }

// Define appends r's alternatives to nt's production list. Calling Define
// more than once accumulates alternatives across calls.
func (nt *Nonterminal) Define(r *Rule) {
	nt.alternatives = append(nt.alternatives, r.alts...)
}

// Parse materializes nt's grammar (on first call) and runs the shift-reduce
// driver over tokens, returning the attribute synthesized for nt or a
// parse/construction error.
func (nt *Nonterminal) Parse(tokens token.Stream) (any, error) {
	nt.once.Do(nt.materialize)
	if nt.buildErr != nil {
		return nil, nt.buildErr
	}
	return lr.Parse(nt.table, tokens)
}

// ParseWithTrace is Parse with a diagnostic trace callback; see
// lr.ParseWithTrace. Pass nil for trace to get exactly Parse's behavior.
func (nt *Nonterminal) ParseWithTrace(tokens token.Stream, trace lr.TraceFunc) (any, error) {
	nt.once.Do(nt.materialize)
	if nt.buildErr != nil {
		return nil, nt.buildErr
	}
	return lr.ParseWithTrace(nt.table, tokens, trace)
}

// Table exposes the materialized ACTION/GOTO table for diagnostics (see
// lr.Table.String). It forces materialization if Parse has not been called
// yet.
func (nt *Nonterminal) Table() (*lr.Table, error) {
	nt.once.Do(nt.materialize)
	return nt.table, nt.buildErr
}

// materialize walks the Nonterminal reference graph reachable from nt,
// registers every discovered Nonterminal's alternatives as grammar rules
// and every terminal symbol they mention, validates the result, and builds
// its LALR(1) table.
func (nt *Nonterminal) materialize() {
	order := []*Nonterminal{nt}
	visited := map[*Nonterminal]bool{nt: true}
	for i := 0; i < len(order); i++ {
		for _, alt := range order[i].alternatives {
			for _, sym := range alt.symbols {
				if other, ok := sym.(*Nonterminal); ok && !visited[other] {
					visited[other] = true
					order = append(order, other)
				}
			}
		}
	}

	g := grammar.New()
	for _, n := range order {
		for _, alt := range n.alternatives {
			symIDs := make([]string, len(alt.symbols))
			bearing := make([]bool, len(alt.symbols))
			for i, sym := range alt.symbols {
				switch s := sym.(type) {
				case *Nonterminal:
					symIDs[i] = s.id
					bearing[i] = true
				case terminalSymbol:
					g.AddTerm(s.class.ID(), s.class)
					symIDs[i] = s.class.ID()
					bearing[i] = s.bearing
				}
			}

			var act grammar.Action
			if alt.action != nil {
				a, err := grammar.NewAction(alt.action)
				if err != nil {
					nt.buildErr = lrerrors.WrapActionArityErrorf(err, "rule for %s: invalid action", n.name)
					return
				}
				act = a
			}

			g.AddRule(n.id, grammar.Production{
				Symbols:     symIDs,
				AttrBearing: bearing,
				Action:      act,
			})
		}
	}

	if err := g.Validate(); err != nil {
		nt.buildErr = err
		return
	}

	table, err := lr.Build(g, false)
	if err != nil {
		nt.buildErr = err
		return
	}
	nt.table = table
}
