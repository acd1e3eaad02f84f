package parsegen

import (
	"fmt"
	"strconv"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmstu-iu9/parser-edsl/lrerrors"
	"github.com/bmstu-iu9/parser-edsl/token"
)

// --- minimal test-only tokenizer -------------------------------------------
//
// The core library has no lexer of its own; these acceptance tests need
// token.Stream values to drive Parse with, so each one is built by hand
// here rather than by a real scanner.

var (
	tcNumber    = token.NewClass("NUMBER")
	tcVarname   = token.NewClass("VARNAME")
	tcPlus      = token.NewClass("PLUS")
	tcMinus     = token.NewClass("MINUS")
	tcMul       = token.NewClass("MUL")
	tcDiv       = token.NewClass("DIV")
	tcLP        = token.NewClass("LP")
	tcRP        = token.NewClass("RP")
	tcSet       = token.NewClass("SET")
	tcSemicolon = token.NewClass("SEMICOLON")
	tcPrint     = token.NewClass("PRINT")
	tcRead      = token.NewClass("READ")
)

type testTok struct {
	class token.Class
	val   any
	has   bool
	pos   int
}

func (t testTok) Class() token.Class        { return t.class }
func (t testTok) Attribute() (any, bool)    { return t.val, t.has }
func (t testTok) Coordinates() fmt.Stringer { return testPos(t.pos) }

type testPos int

func (p testPos) String() string { return fmt.Sprintf("offset %d", int(p)) }

// scanArith tokenizes a tiny language of numbers, variable names, the four
// arithmetic operators, parens, "=", ";", and the PRINT/READ keywords.
func scanArith(src string) []token.Token {
	var toks []token.Token
	i := 0
	for i < len(src) {
		c := rune(src[i])
		switch {
		case unicode.IsSpace(c):
			i++
		case unicode.IsDigit(c):
			j := i
			for j < len(src) && (unicode.IsDigit(rune(src[j])) || src[j] == '.') {
				j++
			}
			v, _ := strconv.ParseFloat(src[i:j], 64)
			toks = append(toks, testTok{class: tcNumber, val: v, has: true, pos: i})
			i = j
		case unicode.IsLetter(c):
			j := i
			for j < len(src) && (unicode.IsLetter(rune(src[j])) || unicode.IsDigit(rune(src[j]))) {
				j++
			}
			word := src[i:j]
			switch word {
			case "PRINT":
				toks = append(toks, testTok{class: tcPrint, pos: i})
			case "READ":
				toks = append(toks, testTok{class: tcRead, pos: i})
			default:
				toks = append(toks, testTok{class: tcVarname, val: word, has: true, pos: i})
			}
			i = j
		default:
			var cls token.Class
			switch c {
			case '+':
				cls = tcPlus
			case '-':
				cls = tcMinus
			case '*':
				cls = tcMul
			case '/':
				cls = tcDiv
			case '(':
				cls = tcLP
			case ')':
				cls = tcRP
			case '=':
				cls = tcSet
			case ';':
				cls = tcSemicolon
			default:
				i++
				continue
			}
			toks = append(toks, testTok{class: cls, pos: i})
			i++
		}
	}
	toks = append(toks, testTok{class: token.EndOfText, pos: len(src)})
	return toks
}

// buildArithGrammar wires up the standard left-recursive expression grammar
// E -> T | E+T | E-T; T -> F | T*F | T/F; F -> NUMBER | LP E RP | VARNAME.
// lookup resolves a VARNAME's value.
func buildArithGrammar(lookup func(name string) float64) (e, tm, f *Nonterminal) {
	e = NewNonterminal("E")
	tm = NewNonterminal("T")
	f = NewNonterminal("F")

	e.Define(Alt(tm).
		Alt(e, Punct(tcPlus), tm).Act(func(x, y float64) float64 { return x + y }).
		Alt(e, Punct(tcMinus), tm).Act(func(x, y float64) float64 { return x - y }))

	tm.Define(Alt(f).
		Alt(tm, Punct(tcMul), f).Act(func(x, y float64) float64 { return x * y }).
		Alt(tm, Punct(tcDiv), f).Act(func(x, y float64) float64 { return x / y }))

	f.Define(Alt(Term(tcNumber)).
		Alt(Punct(tcLP), e, Punct(tcRP)).
		Alt(Term(tcVarname)).Act(lookup))

	return e, tm, f
}

func Test_S1_arithmeticWithVariables(t *testing.T) {
	assert := assert.New(t)
	vars := map[string]float64{"pi": 3.14}
	e, _, _ := buildArithGrammar(func(n string) float64 { return vars[n] })

	result, err := e.Parse(token.NewSliceStream(scanArith("(3+2)*10+(42+15)*pi")))
	require.NoError(t, err)
	assert.InDelta(228.98, result.(float64), 1e-9)
}

func Test_S2_leftAssociativity(t *testing.T) {
	assert := assert.New(t)
	e, _, _ := buildArithGrammar(func(string) float64 { return 0 })

	result, err := e.Parse(token.NewSliceStream(scanArith("10-3-2")))
	require.NoError(t, err)
	assert.Equal(5.0, result)
}

func Test_S3_precedence(t *testing.T) {
	assert := assert.New(t)
	e, _, _ := buildArithGrammar(func(string) float64 { return 0 })

	result, err := e.Parse(token.NewSliceStream(scanArith("2+3*4")))
	require.NoError(t, err)
	assert.Equal(14.0, result)
}

func Test_S4_parseError(t *testing.T) {
	assert := assert.New(t)
	e, _, _ := buildArithGrammar(func(string) float64 { return 0 })

	_, err := e.Parse(token.NewSliceStream(scanArith("3+")))
	require.Error(t, err)

	var synErr *lrerrors.SyntaxError
	require.ErrorAs(t, err, &synErr)

	ids := map[string]bool{}
	for _, c := range synErr.Expected() {
		ids[c.ID()] = true
	}
	assert.True(ids["NUMBER"])
	assert.True(ids["VARNAME"])
	assert.True(ids["LP"])
}

// Test_S5_epsilon builds L -> <empty> | L X ; X -> NUMBER and checks that
// an empty token stream (EndOfText only) yields an empty list and that
// "1 2 3" yields [1,2,3] left to right.
func Test_S5_epsilon(t *testing.T) {
	assert := assert.New(t)

	l := NewNonterminal("L")
	x := NewNonterminal("X")

	l.Define(Alt().Act(func() []float64 { return nil }).
		Alt(l, x).Act(func(list []float64, v float64) []float64 { return append(list, v) }))
	x.Define(Alt(Term(tcNumber)))

	empty, err := l.Parse(token.NewSliceStream([]token.Token{testTok{class: token.EndOfText}}))
	require.NoError(t, err)
	assert.Empty(empty)

	result, err := l.Parse(token.NewSliceStream(scanArith("1 2 3")))
	require.NoError(t, err)
	assert.Equal([]float64{1, 2, 3}, result)
}

// Test_S6_toyProgram builds a tiny imperative grammar (assignment, PRINT,
// READ, semicolon-separated statements, arithmetic with the usual
// precedence) and checks its actions run bottom-up as the parse proceeds.
func Test_S6_toyProgram(t *testing.T) {
	assert := assert.New(t)

	env := map[string]float64{}
	var printed []float64
	pendingReads := []float64{7} // stubbed input source for READ

	e, _, _ := buildArithGrammar(func(n string) float64 { return env[n] })

	stmt := NewNonterminal("Stmt")
	stmtList := NewNonterminal("StmtList")
	prog := NewNonterminal("Prog")

	stmt.Define(Alt(Term(tcVarname), Punct(tcSet), e).
		Act(func(name string, v float64) any { env[name] = v; return nil }).
		Alt(Punct(tcPrint), e).
		Act(func(v float64) any { printed = append(printed, v); return nil }).
		Alt(Punct(tcRead), Term(tcVarname)).
		Act(func(name string) any {
			if len(pendingReads) > 0 {
				env[name] = pendingReads[0]
				pendingReads = pendingReads[1:]
			}
			return nil
		}))

	// StmtList and Prog carry no attribute of their own: each Stmt's action
	// already did its work (env mutation or appending to printed) as it
	// reduced, so nothing needs to flow further upward.
	stmtList.Define(Alt(stmt).
		Alt(stmtList, Punct(tcSemicolon), stmt).Act(func(_, _ any) any { return nil }))
	prog.Define(Alt(stmtList))

	_, err := prog.Parse(token.NewSliceStream(scanArith("Z = 50 ; W = 2 * Z - 20 ; PRINT W")))
	require.NoError(t, err)
	assert.Equal([]float64{80}, printed)
	assert.Equal(50.0, env["Z"])
}
