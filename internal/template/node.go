package template

import (
	"context"
	"strings"

	"github.com/specialistvlad/slotkit/internal/scope"
)

// Node is one element of a parsed template.
type Node interface {
	Render(ctx context.Context, sc *scope.Scope) (string, error)
}

// Parent is implemented by nodes that own nested node lists, so that static
// analysis can walk the whole tree.
type Parent interface {
	Node
	Children() []NodeList
}

// NodeList is a sequence of nodes rendered one after another.
type NodeList []Node

// Render renders every node under sc and concatenates the results.
func (l NodeList) Render(ctx context.Context, sc *scope.Scope) (string, error) {
	if len(l) == 1 {
		return l[0].Render(ctx, sc)
	}
	var b strings.Builder
	for _, n := range l {
		out, err := n.Render(ctx, sc)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

// IsBlank reports whether the list holds nothing but whitespace text.
func (l NodeList) IsBlank() bool {
	for _, n := range l {
		t, ok := n.(*TextNode)
		if !ok || strings.TrimSpace(t.Text) != "" {
			return false
		}
	}
	return true
}

// Walk visits every node of l depth first. When fn returns false the
// children of that node are skipped.
func Walk(l NodeList, fn func(Node) bool) {
	for _, n := range l {
		if !fn(n) {
			continue
		}
		if p, ok := n.(Parent); ok {
			for _, child := range p.Children() {
				Walk(child, fn)
			}
		}
	}
}

// Template is a parsed template source.
type Template struct {
	Name string
	Root NodeList
}

// Render renders the template under sc.
func (t *Template) Render(ctx context.Context, sc *scope.Scope) (string, error) {
	return t.Root.Render(ctx, sc)
}
