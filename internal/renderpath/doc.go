// internal/renderpath/doc.go

/*
Package renderpath provides a structured representation of the chain of
components and slots that was active when a render error occurred.

The canonical text form is a `>`-separated sequence of segments, e.g.
`Page > Card > slot:title > Button`. Component segments are bare names;
slot and fill segments carry a `slot:` or `fill:` prefix.

Paths are values: Append never mutates the receiver, so sibling branches of
a render tree can extend a shared parent path independently.
*/
package renderpath
