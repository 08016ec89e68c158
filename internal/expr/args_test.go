package expr_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/slotkit/internal/expr"
	"github.com/specialistvlad/slotkit/internal/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestSplitBits(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{`"title" default required`, []string{`"title"`, "default", "required"}},
		{`'title' key='v'`, []string{`"title"`, `key="v"`}},
		{`x=(a + b) ...attrs`, []string{"x=(a + b)", "...attrs"}},
		{`msg="hello world" items=[1, 2]`, []string{`msg="hello world"`, "items=[1, 2]"}},
		{`say='he said "hi"'`, []string{`say="he said \"hi\""`}},
		{``, nil},
	}
	for _, tc := range tests {
		got, err := expr.SplitBits(tc.in)
		require.NoError(t, err, tc.in)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("SplitBits(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestSplitBits_Errors(t *testing.T) {
	_, err := expr.SplitBits(`"open`)
	require.Error(t, err)
	_, err = expr.SplitBits(`x=(a`)
	require.Error(t, err)
	_, err = expr.SplitBits(`x=a)`)
	require.Error(t, err)
}

func TestParseArgs_KindsAndTake(t *testing.T) {
	bits, err := expr.SplitBits(`"header" default data=x ...extra a==b`)
	require.NoError(t, err)
	args, err := expr.ParseArgs(bits, "test", 1, "default", "required")
	require.NoError(t, err)
	require.Len(t, args, 5)

	assert.Equal(t, expr.Positional, args[0].Kind)
	assert.Equal(t, expr.Flag, args[1].Kind)
	assert.Equal(t, expr.Keyword, args[2].Kind)
	assert.Equal(t, expr.Spread, args[3].Kind)
	assert.Equal(t, expr.Positional, args[4].Kind, "comparison must not be read as a keyword")

	assert.True(t, args.TakeFlag("default"))
	assert.False(t, args.TakeFlag("required"))
	name, ok := args.TakePositional()
	require.True(t, ok)
	assert.Equal(t, `"header"`, name.Raw)
	data, ok := args.Take("data")
	require.True(t, ok)
	assert.Equal(t, "x", data.Expr.Source)
	assert.Len(t, args, 2)
}

func TestArgsEval_SpreadMergesLeftToRight(t *testing.T) {
	bits, err := expr.SplitBits(`"pos" a=1 ...extra b="late"`)
	require.NoError(t, err)
	args, err := expr.ParseArgs(bits, "test", 1)
	require.NoError(t, err)

	sc := scope.New(map[string]cty.Value{
		"extra": expr.ToValue(map[string]any{"a": 2, "b": "early"}),
	})
	pos, kwargs, err := args.Eval(sc)
	require.NoError(t, err)
	require.Len(t, pos, 1)
	assert.Equal(t, "pos", pos[0].AsString())
	assert.Equal(t, "2", expr.String(kwargs["a"]))
	assert.Equal(t, "late", expr.String(kwargs["b"]))
}

func TestArgsEval_SpreadRejectsScalars(t *testing.T) {
	args, err := expr.ParseArgs([]string{"...name"}, "test", 1)
	require.NoError(t, err)
	_, _, err = args.Eval(scope.New(map[string]cty.Value{"name": cty.StringVal("x")}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected an object or map")
}
