package expr_test

import (
	"testing"

	"github.com/aretw0/hodr/pkg/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"body.comments", []string{"body", ".", "comments"}},
		{"comments[id=#commentId]", []string{"comments", "[", "id", "=", "#commentId", "]"}},
		{`name != "Ella Vator"`, []string{"name", "!=", `"Ella Vator"`}},
		{"count>=10", []string{"count", ">=", "10"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, expr.Tokenize(tt.in))
		})
	}
}

func TestParse_Path(t *testing.T) {
	node, err := expr.Parse("session.account.id")
	require.NoError(t, err)

	path, ok := node.(*expr.Path)
	require.True(t, ok, "expected *expr.Path, got %T", node)
	require.Len(t, path.Segments, 3)
	assert.Equal(t, "account", path.Segments[1].Name)
	assert.Nil(t, path.Segments[1].Filter)
}

func TestParse_FilterWithTypedRef(t *testing.T) {
	node, err := expr.Parse("comments[id=#commentId]")
	require.NoError(t, err)

	path := node.(*expr.Path)
	require.Len(t, path.Segments, 1)

	cmp, ok := path.Segments[0].Filter.(*expr.Comparison)
	require.True(t, ok)
	assert.Equal(t, expr.OpEqual, cmp.Operator)

	ref, ok := cmp.Right.(*expr.BindingRef)
	require.True(t, ok)
	assert.Equal(t, expr.HintNumber, ref.Hint)
	assert.Equal(t, []string{"commentId"}, ref.Segments)
}

func TestParse_Literals(t *testing.T) {
	node, err := expr.Parse(`status="open"`)
	require.NoError(t, err)
	assert.Equal(t, &expr.Literal{Value: "open"}, node.(*expr.Comparison).Right)

	node, err = expr.Parse("count<42")
	require.NoError(t, err)
	assert.Equal(t, &expr.Literal{Value: int64(42)}, node.(*expr.Comparison).Right)
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "1abc", "comments[id=1", "a=", "a.", "a b"} {
		t.Run(in, func(t *testing.T) {
			_, err := expr.Parse(in)
			assert.ErrorIs(t, err, expr.ErrInvalidExpression)
		})
	}
}

func TestMustCompile_Panics(t *testing.T) {
	assert.Panics(t, func() { expr.MustCompile("[") })
}
