package template

import "fmt"

// SyntaxError is returned when a template cannot be parsed.
type SyntaxError struct {
	Name string
	Line int
	Msg  string
}

// Error implements the error interface for SyntaxError.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Name, e.Line, e.Msg)
}

// Pos locates a node in its template source.
type Pos struct {
	Name string
	Line int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d", p.Name, p.Line)
}

// wrap annotates err with the node position.
func (p Pos) wrap(err error) error {
	return fmt.Errorf("%s: %w", p, err)
}
