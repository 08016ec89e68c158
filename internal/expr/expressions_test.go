package expr_test

import (
	"math"
	"testing"

	"github.com/specialistvlad/slotkit/internal/expr"
	"github.com/specialistvlad/slotkit/internal/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestEval_ResolvesFromScope(t *testing.T) {
	sc := scope.New(map[string]cty.Value{
		"user": cty.ObjectVal(map[string]cty.Value{"name": cty.StringVal("ada")}),
		"n":    cty.NumberIntVal(2),
	})

	tests := []struct {
		src  string
		want string
	}{
		{`user.name`, "ada"},
		{`upper(user.name)`, "ADA"},
		{`n > 1 ? "many" : "one"`, "many"},
		{`"${user.name}!"`, "ada!"},
		{`n * 3`, "6"},
		{`[1, 2]`, "[1,2]"},
		{`true`, "true"},
	}
	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			e, err := expr.Parse(tc.src, "test", 1)
			require.NoError(t, err)
			v, err := e.Eval(sc)
			require.NoError(t, err)
			assert.Equal(t, tc.want, expr.String(v))
		})
	}
}

func TestEval_UndefinedVariableRendersEmpty(t *testing.T) {
	e := expr.MustParse(`missing.deeper`)
	v, err := e.Eval(scope.New(nil))
	require.NoError(t, err)
	assert.False(t, v.IsKnown())
	assert.Equal(t, "", expr.String(v))
}

func TestEvalLenient_MissingAttribute(t *testing.T) {
	sc := scope.New(map[string]cty.Value{
		"user": cty.ObjectVal(map[string]cty.Value{"name": cty.StringVal("ada")}),
	})
	e := expr.MustParse(`user.email`)

	_, err := e.Eval(sc)
	require.Error(t, err)

	v, err := e.EvalLenient(sc)
	require.NoError(t, err)
	assert.Equal(t, "", expr.String(v))
}

func TestParse_RejectsUnknownFunction(t *testing.T) {
	_, err := expr.Parse(`shout(name)`, "test", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown function "shout"`)
}

func TestReferencesAndFunctions(t *testing.T) {
	e := expr.MustParse(`lower(user.name) == upper(user.name) ? user.name : title(fallback)`)
	assert.Equal(t, []string{"fallback", "user.name"}, e.References())
	assert.Equal(t, []string{"lower", "title", "upper"}, e.Functions())
}

func TestStaticString(t *testing.T) {
	s, ok := expr.MustParse(`"header"`).StaticString()
	require.True(t, ok)
	assert.Equal(t, "header", s)

	_, ok = expr.MustParse(`name`).StaticString()
	assert.False(t, ok)

	_, ok = expr.MustParse(`42`).StaticString()
	assert.False(t, ok)
}

func TestToValueAndTruthy(t *testing.T) {
	type card struct {
		Title string
		Tags  []string
	}
	v := expr.ToValue(map[string]any{
		"card":  card{Title: "t", Tags: []string{"a"}},
		"count": 3,
		"none":  nil,
	})
	m, ok := expr.AsMap(v)
	require.True(t, ok)
	assert.Equal(t, `{"Tags":["a"],"Title":"t"}`, expr.String(m["card"]))
	assert.Equal(t, "3", expr.String(m["count"]))
	assert.Equal(t, "", expr.String(m["none"]))

	assert.True(t, expr.Truthy(cty.StringVal("x")))
	assert.False(t, expr.Truthy(cty.StringVal("")))
	assert.False(t, expr.Truthy(cty.NumberIntVal(0)))
	assert.False(t, expr.Truthy(cty.EmptyTupleVal))
	assert.False(t, expr.Truthy(cty.DynamicVal))
	assert.True(t, expr.Truthy(cty.TupleVal([]cty.Value{cty.True})))
}

func TestIterate_SortsObjectKeys(t *testing.T) {
	entries, err := expr.Iterate(expr.ToValue(map[string]any{"b": 2, "a": 1}))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Key.AsString())
	assert.Equal(t, "b", entries[1].Key.AsString())

	_, err = expr.Iterate(cty.StringVal("nope"))
	require.Error(t, err)
}

func TestMarkdownFunction(t *testing.T) {
	sc := scope.New(map[string]cty.Value{"body": cty.StringVal("# Title\n\nSome *text*.")})
	v, err := expr.MustParse(`markdown(body)`).Eval(sc)
	require.NoError(t, err)
	assert.Equal(t, "<h1>Title</h1>\n<p>Some <em>text</em>.</p>\n", v.AsString())
}

func TestToValue_NonFiniteFloats(t *testing.T) {
	type reading struct {
		Value float64 `cty:"value"`
	}

	nan := expr.ToValue(math.NaN())
	assert.True(t, nan.IsNull())
	assert.Equal(t, "", expr.String(nan))
	assert.Equal(t, "+Inf", expr.String(expr.ToValue(math.Inf(1))))

	m, ok := expr.AsMap(expr.ToValue(map[string]any{
		"f32":     float32(math.NaN()),
		"reading": reading{Value: math.NaN()},
	}))
	require.True(t, ok)
	assert.True(t, m["f32"].IsNull())
	assert.True(t, m["reading"].GetAttr("Value").IsNull())
}
