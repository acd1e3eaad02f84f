package lr

import (
	"fmt"

	"github.com/dekarrin/rosed"

	"github.com/bmstu-iu9/parser-edsl/grammar"
	"github.com/bmstu-iu9/parser-edsl/lrerrors"
	"github.com/bmstu-iu9/parser-edsl/token"
)

// ActionType identifies what an ACTION table entry does.
type ActionType int

const (
	ActionError ActionType = iota
	ActionShift
	ActionReduce
	ActionAccept
)

// Action is one ACTION[state, terminal] entry.
type Action struct {
	Type ActionType

	// ShiftTo is the destination state, valid when Type is ActionShift.
	ShiftTo int

	// ReduceRule indexes Grammar.Rules(), valid when Type is ActionReduce.
	ReduceRule int
}

func (a Action) String() string {
	switch a.Type {
	case ActionShift:
		return fmt.Sprintf("shift %d", a.ShiftTo)
	case ActionReduce:
		return fmt.Sprintf("reduce %d", a.ReduceRule)
	case ActionAccept:
		return "accept"
	default:
		return "error"
	}
}

// Table is the materialized ACTION/GOTO table for a grammar: the engine
// that drives Parse (see driver.go).
type Table struct {
	g       *grammar.Grammar
	action  []map[string]Action // action[state][terminal]
	goTo    []map[string]int    // goTo[state][nonterminal]
	start   int
	terms   []string
	ntterms []string
}

// Build runs canonical LR(1) construction, merges the result to LALR(1),
// and assembles the resulting ACTION/GOTO table. g must already have passed
// Grammar.Validate. allowConflicts, when false, makes any shift/reduce or
// reduce/reduce conflict a hard error; when true, conflicts resolve
// (shift wins; between two reduces, the one installed first wins) instead
// of being rejected.
func Build(g *grammar.Grammar, allowConflicts bool) (*Table, error) {
	canon := buildCanonicalCollection(g)
	lalr, err := mergeToLALR(canon)
	if err != nil {
		return nil, err
	}

	t := &Table{
		g:       g,
		action:  make([]map[string]Action, len(lalr.states)),
		goTo:    make([]map[string]int, len(lalr.states)),
		start:   lalr.startIdx,
		terms:   g.Terminals(),
		ntterms: g.NonTerminals(),
	}
	for i := range t.action {
		t.action[i] = map[string]Action{}
		t.goTo[i] = map[string]int{}
	}

	rules := g.Rules()
	augStart := g.AugmentedStart()

	for i, st := range lalr.states {
		for sym, j := range lalr.trans[i] {
			if g.IsTerminal(sym) {
				if err := t.setAction(i, sym, Action{Type: ActionShift, ShiftTo: j}, allowConflicts); err != nil {
					return nil, err
				}
			} else {
				t.goTo[i][sym] = j
			}
		}

		for _, it := range st.lookaheadItems() {
			rhs := rules[it.Rule].Production.Symbols
			if it.Marker < len(rhs) {
				continue // not a reduce item
			}
			if rules[it.Rule].NonTerminal == augStart {
				if it.Lookahead == token.EndOfTextID {
					if err := t.setAction(i, token.EndOfTextID, Action{Type: ActionAccept}, allowConflicts); err != nil {
						return nil, err
					}
				}
				continue
			}
			if err := t.setAction(i, it.Lookahead, Action{Type: ActionReduce, ReduceRule: it.Rule}, allowConflicts); err != nil {
				return nil, err
			}
		}
	}

	return t, nil
}

// setAction installs act at ACTION[state, term], resolving or rejecting a
// conflict with whatever is already there. When allowConflicts is set, a
// shift/reduce conflict resolves in favor of the shift and a reduce/reduce
// conflict keeps the entry that was installed first. Build installs a
// state's reduces in the text order of their item keys ("rule.marker,la"),
// so for rule indices of 10 and above the kept rule is not necessarily the
// earlier-declared one.
func (t *Table) setAction(state int, term string, act Action, allowConflicts bool) error {
	existing, ok := t.action[state][term]
	if !ok {
		t.action[state][term] = act
		return nil
	}
	if existing == act {
		return nil
	}

	if !allowConflicts {
		return lrerrors.NewConflictError(
			fmt.Sprintf("state %d", state), term,
			fmt.Sprintf("%s vs %s", existing.String(), act.String()))
	}

	if existing.Type == ActionReduce && act.Type == ActionShift {
		t.action[state][term] = act
	}
	// Shift already installed beats an incoming reduce, and reduce/reduce
	// keeps the first-installed entry: no further action needed either way.
	return nil
}

// ActionAt returns ACTION[state, term], or the zero Action (type
// ActionError) if no entry is defined.
func (t *Table) ActionAt(state int, term string) Action {
	return t.action[state][term]
}

// GotoAt returns GOTO[state, nt], or (-1, false) if undefined.
func (t *Table) GotoAt(state int, nt string) (int, bool) {
	j, ok := t.goTo[state][nt]
	if !ok {
		return -1, false
	}
	return j, true
}

// Start is the index of the automaton's initial state.
func (t *Table) Start() int {
	return t.start
}

// ExpectedTerminals returns the terminal tags that have a defined ACTION at
// state, used to build the "expected" set of a syntax error.
func (t *Table) ExpectedTerminals(state int) []string {
	var out []string
	for _, term := range t.terms {
		if _, ok := t.action[state][term]; ok {
			out = append(out, term)
		}
	}
	if _, ok := t.action[state][token.EndOfTextID]; ok {
		out = append(out, token.EndOfTextID)
	}
	return out
}

// String renders the ACTION/GOTO table as a bordered grid for diagnostics,
// one row per state and one column per terminal and nonterminal.
func (t *Table) String() string {
	allTerms := append(append([]string{}, t.terms...), token.EndOfTextID)

	headers := []string{"S", "|"}
	for _, term := range allTerms {
		headers = append(headers, "A:"+term)
	}
	headers = append(headers, "|")
	for _, nt := range t.ntterms {
		headers = append(headers, "G:"+nt)
	}

	data := [][]string{headers}
	for i := range t.action {
		row := []string{fmt.Sprintf("%d", i), "|"}
		for _, term := range allTerms {
			act, ok := t.action[i][term]
			cell := ""
			if ok {
				switch act.Type {
				case ActionAccept:
					cell = "acc"
				case ActionReduce:
					cell = fmt.Sprintf("r%d", act.ReduceRule)
				case ActionShift:
					cell = fmt.Sprintf("s%d", act.ShiftTo)
				}
			}
			row = append(row, cell)
		}
		row = append(row, "|")
		for _, nt := range t.ntterms {
			cell := ""
			if j, ok := t.goTo[i][nt]; ok {
				cell = fmt.Sprintf("%d", j)
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
