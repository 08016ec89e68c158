// internal/renderpath/types.go
package renderpath

// Kind tells what a segment names.
type Kind int

const (
	// Component is a component render.
	Component Kind = iota
	// Slot is a slot being resolved inside a component body.
	Slot
	// Fill is caller-supplied content rendered into a slot.
	Fill
)

var kindPrefixes = map[Kind]string{
	Slot: "slot:",
	Fill: "fill:",
}

// Segment is a single element of a render path.
type Segment struct {
	Kind Kind
	Name string
}

// NewComponent creates a component segment.
func NewComponent(name string) Segment {
	return Segment{Kind: Component, Name: name}
}

// NewSlot creates a slot segment.
func NewSlot(name string) Segment {
	return Segment{Kind: Slot, Name: name}
}

// NewFill creates a fill segment.
func NewFill(name string) Segment {
	return Segment{Kind: Fill, Name: name}
}

// String renders the segment in its canonical form.
func (s Segment) String() string {
	return kindPrefixes[s.Kind] + s.Name
}

// Path is the structured representation of a render path.
type Path struct {
	Segments []Segment
}
