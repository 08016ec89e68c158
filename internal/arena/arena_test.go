package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocIsSequential(t *testing.T) {
	a := New()
	h1, h2 := a.Alloc(), a.Alloc()
	assert.Equal(t, Handle(1), h1)
	assert.Equal(t, Handle(2), h2)
	assert.Equal(t, "c001", h1.ID())
	assert.Equal(t, "c00a", Handle(10).ID())

	b := New()
	assert.Equal(t, h1, b.Alloc(), "fresh arenas allocate the same handles")
}

func TestSetGetAndRelease(t *testing.T) {
	a := New()
	h := a.Alloc()
	other := a.Alloc()

	// Nothing is stored yet.
	_, ok := a.Get(Instances, h)
	assert.False(t, ok)

	a.Set(Instances, h, "instance")
	a.Set(Fills, h, []string{"header"})
	a.Set(Provides, other, map[string]string{"theme": "dark"})

	v, ok := a.Get(Instances, h)
	require.True(t, ok)
	assert.Equal(t, "instance", v)
	assert.Equal(t, Stats{Instances: 1, Provides: 1, Fills: 1}, a.Stats())

	a.Release(h)
	assert.Equal(t, Stats{Provides: 1}, a.Stats())
	assert.Equal(t, 2, a.Released())

	a.Release(h)
	assert.Equal(t, 2, a.Released(), "double release is a no-op")

	a.Release(other)
	assert.Zero(t, a.Stats().Total())
}

func TestDrop(t *testing.T) {
	a := New()
	h := a.Alloc()
	a.Set(Instances, h, 1)
	a.Set(Provides, h, 2)

	leftover := a.Drop()
	assert.Equal(t, 2, leftover.Total())
	assert.Zero(t, a.Stats().Total())
	assert.Equal(t, "provides", Provides.String())
}
