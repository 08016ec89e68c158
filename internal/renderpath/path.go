// internal/renderpath/path.go
package renderpath

import (
	"reflect"
	"strings"
)

// Separator joins segments in the canonical string form.
const Separator = " > "

// Append returns a new path with seg added at the end. The receiver is not
// modified.
func (p Path) Append(seg Segment) Path {
	segs := make([]Segment, len(p.Segments), len(p.Segments)+1)
	copy(segs, p.Segments)
	return Path{Segments: append(segs, seg)}
}

// Prepend returns a new path with seg added at the front.
func (p Path) Prepend(seg Segment) Path {
	segs := make([]Segment, 0, len(p.Segments)+1)
	segs = append(segs, seg)
	return Path{Segments: append(segs, p.Segments...)}
}

// Len is the number of segments.
func (p Path) Len() int {
	return len(p.Segments)
}

// Components returns only the component names, outermost first.
func (p Path) Components() []string {
	var names []string
	for _, s := range p.Segments {
		if s.Kind == Component {
			names = append(names, s.Name)
		}
	}
	return names
}

// String serializes the path into its canonical string representation.
func (p Path) String() string {
	var sb strings.Builder
	for i, seg := range p.Segments {
		if i > 0 {
			sb.WriteString(Separator)
		}
		sb.WriteString(seg.String())
	}
	return sb.String()
}

// Equal checks for deep equality between two paths.
func (p Path) Equal(other Path) bool {
	if len(p.Segments) == 0 && len(other.Segments) == 0 {
		return true
	}
	return reflect.DeepEqual(p.Segments, other.Segments)
}
