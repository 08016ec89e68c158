// Package scope implements the layered variable scope used while rendering
// templates.
//
// A Scope is a persistent singly linked list of layers. Pushing a layer
// never mutates the receiver; it returns a new Scope whose parent is the
// old one. Two branches of a render tree can therefore extend the same
// parent without observing each other's layers, and "popping" is simply
// dropping the reference.
//
// Lookup walks from the innermost layer outward; the first layer holding
// the key wins.
package scope

import (
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// Scope is one immutable layer plus a link to the enclosing layers. The nil
// *Scope is a valid, empty scope.
type Scope struct {
	vars   map[string]cty.Value
	parent *Scope
	depth  int
}

// New creates a root scope holding a copy of vars.
func New(vars map[string]cty.Value) *Scope {
	return (*Scope)(nil).Push(vars)
}

// Push returns a new scope with vars as its innermost layer. The map is
// copied, so later changes by the caller are not observed.
func (s *Scope) Push(vars map[string]cty.Value) *Scope {
	layer := make(map[string]cty.Value, len(vars))
	for k, v := range vars {
		layer[k] = v
	}
	return &Scope{vars: layer, parent: s, depth: s.Depth() + 1}
}

// With is a convenience for pushing a single binding.
func (s *Scope) With(name string, value cty.Value) *Scope {
	return s.Push(map[string]cty.Value{name: value})
}

// Parent returns the scope without its innermost layer, or nil.
func (s *Scope) Parent() *Scope {
	if s == nil {
		return nil
	}
	return s.parent
}

// Depth is the number of layers in the chain.
func (s *Scope) Depth() int {
	if s == nil {
		return 0
	}
	return s.depth
}

// Root returns a scope made of the outermost layer only.
func (s *Scope) Root() *Scope {
	if s == nil {
		return nil
	}
	cur := s
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Lookup returns the value bound to name in the innermost layer that has it.
func (s *Scope) Lookup(name string) (cty.Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return cty.NilVal, false
}

// Has reports whether name is bound in any layer.
func (s *Scope) Has(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Layers returns the layers from outermost to innermost. The returned maps
// must not be modified.
func (s *Scope) Layers() []map[string]cty.Value {
	layers := make([]map[string]cty.Value, s.Depth())
	i := len(layers) - 1
	for cur := s; cur != nil; cur = cur.parent {
		layers[i] = cur.vars
		i--
	}
	return layers
}

// Over re-stacks every layer of s, outermost first, on top of base. The
// result resolves names in s first and falls back to base.
func (s *Scope) Over(base *Scope) *Scope {
	out := base
	for _, layer := range s.Layers() {
		out = &Scope{vars: layer, parent: out, depth: out.Depth() + 1}
	}
	return out
}

// Above returns the layers of s that were pushed on top of base, as a scope
// of their own. s must extend base.
func (s *Scope) Above(base *Scope) *Scope {
	var layers []map[string]cty.Value
	for cur := s; cur.Depth() > base.Depth(); cur = cur.parent {
		layers = append(layers, cur.vars)
	}
	var out *Scope
	for i := len(layers) - 1; i >= 0; i-- {
		out = &Scope{vars: layers[i], parent: out, depth: out.Depth() + 1}
	}
	return out
}

// Flatten collapses the chain into a single map, inner layers winning.
func (s *Scope) Flatten() map[string]cty.Value {
	out := make(map[string]cty.Value)
	for _, layer := range s.Layers() {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}

// Names returns every bound name, sorted.
func (s *Scope) Names() []string {
	flat := s.Flatten()
	names := make([]string, 0, len(flat))
	for k := range flat {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
