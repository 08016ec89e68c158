package arena

import "fmt"

// Handle identifies one entry owner (a component instance or a provide
// activation) within an Arena. The zero Handle is never allocated.
type Handle uint32

// ID returns the opaque, render-scoped token for the handle, as used in
// rendered output markers.
func (h Handle) ID() string {
	return fmt.Sprintf("c%03x", uint32(h))
}

// Table names one of the caches held by the arena.
type Table int

const (
	// Instances maps a handle to its component instance record.
	Instances Table = iota
	// Provides maps a provide activation to its published values.
	Provides
	// Fills maps a component instance to the fills compiled against it.
	Fills

	numTables
)

func (t Table) String() string {
	switch t {
	case Instances:
		return "instances"
	case Provides:
		return "provides"
	case Fills:
		return "fills"
	}
	return fmt.Sprintf("table(%d)", int(t))
}

// Stats reports how many entries each table currently holds.
type Stats struct {
	Instances int
	Provides  int
	Fills     int
}

// Total is the sum over all tables.
func (s Stats) Total() int {
	return s.Instances + s.Provides + s.Fills
}

// Arena is a per-render index of cache entries keyed by Handle.
//
// The arena maintains one map per Table:
//   - Instances: handle -> component instance
//   - Provides:  handle -> provided values
//   - Fills:     handle -> compiled fills
type Arena struct {
	next     Handle
	tables   [numTables]map[Handle]any
	released int
}

// New creates a new, empty arena.
func New() *Arena {
	a := &Arena{}
	for i := range a.tables {
		a.tables[i] = make(map[Handle]any)
	}
	return a
}

// Alloc returns a fresh handle. Handles are allocated sequentially starting
// at 1, so two identical renders allocate identical handles.
func (a *Arena) Alloc() Handle {
	a.next++
	return a.next
}

// Set records value under h in table t, replacing any previous entry.
func (a *Arena) Set(t Table, h Handle, value any) {
	a.tables[t][h] = value
}

// Get retrieves the entry for h in table t.
func (a *Arena) Get(t Table, h Handle) (any, bool) {
	v, ok := a.tables[t][h]
	return v, ok
}

// Release evicts every entry owned by h across all tables. Releasing a
// handle twice is harmless.
func (a *Arena) Release(h Handle) {
	for _, table := range a.tables {
		if _, ok := table[h]; ok {
			delete(table, h)
			a.released++
		}
	}
}

// Released is the number of entries evicted through Release.
func (a *Arena) Released() int {
	return a.released
}

// Stats reports the current number of entries per table.
func (a *Arena) Stats() Stats {
	return Stats{
		Instances: len(a.tables[Instances]),
		Provides:  len(a.tables[Provides]),
		Fills:     len(a.tables[Fills]),
	}
}

// Drop evicts everything still held and returns the stats from just before
// the eviction.
func (a *Arena) Drop() Stats {
	before := a.Stats()
	for i := range a.tables {
		a.tables[i] = make(map[Handle]any)
	}
	return before
}
