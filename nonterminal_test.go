package parsegen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmstu-iu9/parser-edsl/lrerrors"
	"github.com/bmstu-iu9/parser-edsl/token"
)

func Test_Nonterminal_Define_invalidAction_wrapsUnderlyingError(t *testing.T) {
	assert := assert.New(t)

	n := NewNonterminal("N")
	n.Define(Alt(Term(token.NewClass("X"))).Act("not a function"))

	_, err := n.Parse(token.NewSliceStream(nil))
	require.Error(t, err)

	var arityErr *lrerrors.ActionArityError
	require.True(t, errors.As(err, &arityErr))
	assert.Error(errors.Unwrap(arityErr))
}
