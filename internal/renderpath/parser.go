// internal/renderpath/parser.go
package renderpath

import (
	"fmt"
	"strings"
)

// Parse creates a Path from its canonical string representation.
func Parse(raw string) (Path, error) {
	if strings.TrimSpace(raw) == "" {
		return Path{}, fmt.Errorf("render path cannot be empty")
	}

	var p Path
	for _, part := range strings.Split(raw, ">") {
		part = strings.TrimSpace(part)
		if part == "" {
			return Path{}, fmt.Errorf("render path contains empty segment")
		}
		seg := NewComponent(part)
		for kind, prefix := range kindPrefixes {
			if strings.HasPrefix(part, prefix) {
				seg = Segment{Kind: kind, Name: strings.TrimPrefix(part, prefix)}
				break
			}
		}
		if seg.Name == "" {
			return Path{}, fmt.Errorf("invalid path segment %q: missing name", part)
		}
		p.Segments = append(p.Segments, seg)
	}
	return p, nil
}
