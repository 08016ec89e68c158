// Package arena provides the per-render, in-memory index that holds every
// cache entry keyed to a component instance.
//
// # Purpose
//
// A single top-level render call walks a tree of component instances. Each
// instance owns a few pieces of transient state: the instance record itself,
// the fills compiled against it, and the values published by `provide` tags
// in its subtree. Those entries are kept in an Arena, addressed by a small
// integer Handle allocated from the arena.
//
// # Lifecycle
//
//  1. **Created** when a top-level render starts
//  2. **Populated** as instances are created and provide/fill entries are recorded
//  3. **Released** per handle, as soon as that instance's subtree finishes rendering
//  4. **Dropped** when the top-level render returns, evicting anything left over
//
// After a render completes, Stats() reports zero entries; a non-zero count
// means an instance escaped its Release and is a bug.
//
// # Concurrency Model
//
// Rendering is single-threaded and each render call owns its arena, so the
// arena is not safe for concurrent use and does not need to be.
package arena
