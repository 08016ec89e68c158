package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestLookup_InnerLayerWins(t *testing.T) {
	root := New(map[string]cty.Value{"a": cty.StringVal("root"), "b": cty.StringVal("root-b")})
	inner := root.Push(map[string]cty.Value{"a": cty.StringVal("inner")})

	v, ok := inner.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "inner", v.AsString())

	v, ok = inner.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, "root-b", v.AsString())

	_, ok = inner.Lookup("missing")
	assert.False(t, ok)
}

func TestPush_DoesNotAffectSiblings(t *testing.T) {
	root := New(map[string]cty.Value{"x": cty.NumberIntVal(1)})
	left := root.With("side", cty.StringVal("left"))
	right := root.With("side", cty.StringVal("right"))

	l, _ := left.Lookup("side")
	r, _ := right.Lookup("side")
	assert.Equal(t, "left", l.AsString())
	assert.Equal(t, "right", r.AsString())
	assert.False(t, root.Has("side"))
	assert.Equal(t, 1, root.Depth())
	assert.Equal(t, 2, left.Depth())
}

func TestPush_CopiesInput(t *testing.T) {
	vars := map[string]cty.Value{"k": cty.StringVal("before")}
	s := New(vars)
	vars["k"] = cty.StringVal("after")

	v, _ := s.Lookup("k")
	assert.Equal(t, "before", v.AsString())
}

func TestRoot_ReturnsOutermostLayerOnly(t *testing.T) {
	s := New(map[string]cty.Value{"global": cty.True}).
		With("component", cty.StringVal("data")).
		With("loop", cty.NumberIntVal(3))

	root := s.Root()
	assert.Equal(t, 1, root.Depth())
	assert.True(t, root.Has("global"))
	assert.False(t, root.Has("component"))
	assert.False(t, root.Has("loop"))
}

func TestOver_StacksLayersOnBase(t *testing.T) {
	base := New(map[string]cty.Value{"a": cty.StringVal("base"), "only_base": cty.True})
	top := New(map[string]cty.Value{"a": cty.StringVal("top-root")}).With("b", cty.StringVal("top"))

	merged := top.Over(base)
	assert.Equal(t, 3, merged.Depth())

	v, _ := merged.Lookup("a")
	assert.Equal(t, "top-root", v.AsString())
	assert.True(t, merged.Has("only_base"))
	assert.True(t, merged.Has("b"))
	assert.Equal(t, []string{"a", "b", "only_base"}, merged.Names())
}

func TestNilScope(t *testing.T) {
	var s *Scope
	assert.Equal(t, 0, s.Depth())
	assert.Nil(t, s.Root())
	assert.Nil(t, s.Parent())
	assert.False(t, s.Has("x"))
	assert.Empty(t, s.Flatten())
}

func TestAbove_KeepsOnlyLayersPushedOnBase(t *testing.T) {
	base := New(map[string]cty.Value{"root": cty.True}).With("caller", cty.True)
	top := base.With("data", cty.True).With("loop", cty.True)

	above := top.Above(base)
	assert.Equal(t, 2, above.Depth())
	assert.False(t, above.Has("root"))
	assert.False(t, above.Has("caller"))
	assert.True(t, above.Has("data"))
	assert.True(t, above.Has("loop"))

	assert.Nil(t, base.Above(base))

	other := New(map[string]cty.Value{"elsewhere": cty.True})
	restacked := above.Over(other)
	assert.Equal(t, []string{"data", "elsewhere", "loop"}, restacked.Names())
}
