package lr

import (
	"fmt"

	"github.com/bmstu-iu9/parser-edsl/lrerrors"
	"github.com/bmstu-iu9/parser-edsl/token"
)

// frame is one entry of the parse stack: the state reached, and (if the
// symbol that got us there carries a value) its attribute.
type frame struct {
	state int
	attr  any
	has   bool
}

// TraceFunc receives one line of shift-reduce diagnostic trace per call.
// The driver has no logging dependency of its own, so tracing is opt-in and
// host-supplied: pass nil to get silent parsing.
type TraceFunc func(string)

func (f TraceFunc) notify(format string, args ...any) {
	if f != nil {
		f(fmt.Sprintf(format, args...))
	}
}

// Parse runs the table-driven shift-reduce algorithm (purple dragon book
// Algorithm 4.44) over toks, invoking each reduced rule's semantic action
// (if any) against the attributes its right-hand side accumulated. It
// returns the attribute synthesized for the grammar's start symbol, or a
// *lrerrors.SyntaxError if the input does not match ACTION at some point.
//
// When a rule has no action, the attribute of its single attribute-bearing
// RHS member (AttrCount() == 1, enforced at Grammar.Validate time) is
// carried unchanged into the frame pushed for the rule's nonterminal.
func Parse(t *Table, toks token.Stream) (any, error) {
	return ParseWithTrace(t, toks, nil)
}

// ParseWithTrace is Parse with a diagnostic trace callback. trace may be
// nil, in which case it behaves exactly like Parse; when non-nil it is
// notified of every state push/pop, action taken, and token read.
func ParseWithTrace(t *Table, toks token.Stream, trace TraceFunc) (any, error) {
	rules := t.g.Rules()
	stack := []frame{{state: t.start}}
	trace.notify("states.push(): %d", t.start)

	tok := toks.Next()
	trace.notify("Got next token: %s", tok.Class().ID())
	for {
		s := stack[len(stack)-1].state
		termID := tok.Class().ID()
		act := t.ActionAt(s, termID)
		trace.notify("Action[%d, %s]: %s", s, termID, act.String())

		switch act.Type {
		case ActionShift:
			attr, has := tok.Attribute()
			stack = append(stack, frame{state: act.ShiftTo, attr: attr, has: has})
			trace.notify("states.push(): %d", act.ShiftTo)
			tok = toks.Next()
			trace.notify("Got next token: %s", tok.Class().ID())

		case ActionReduce:
			rule := rules[act.ReduceRule]
			n := len(rule.Production.Symbols)

			popped := stack[len(stack)-n:]
			stack = stack[:len(stack)-n]
			for range popped {
				trace.notify("states.pop()")
			}

			var result any
			var resultHas bool
			if !rule.Production.Action.IsZero() {
				args := make([]any, 0, rule.Production.Action.Arity())
				for i, bearing := range rule.Production.AttrBearing {
					if bearing {
						args = append(args, popped[i].attr)
					}
				}
				result = rule.Production.Action.Invoke(args)
				resultHas = true
			} else {
				for i, bearing := range rule.Production.AttrBearing {
					if bearing {
						result, resultHas = popped[i].attr, popped[i].has
						break
					}
				}
			}

			top := stack[len(stack)-1].state
			j, ok := t.GotoAt(top, rule.NonTerminal)
			if !ok {
				return nil, lrerrors.NewMalformedGrammarErrorf(
					"no GOTO entry for state %d on nonterminal %s after reducing %s", top, rule.NonTerminal, rule.String())
			}
			stack = append(stack, frame{state: j, attr: result, has: resultHas})
			trace.notify("states.push(): %d", j)

		case ActionAccept:
			top := stack[len(stack)-1]
			return top.attr, nil

		default:
			expectedIDs := t.ExpectedTerminals(s)
			classes := make([]token.Class, 0, len(expectedIDs))
			for _, id := range expectedIDs {
				if id == token.EndOfTextID {
					classes = append(classes, token.EndOfText)
					continue
				}
				classes = append(classes, t.g.Term(id))
			}
			return nil, lrerrors.NewSyntaxError(tok, classes)
		}
	}
}
