package deps

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/zeebo/blake3"
)

// Marker identifies one rendered component instance in the output.
type Marker struct {
	ClassID    string
	InstanceID string
	Extra      string
}

// String formats the marker as it appears in rendered output.
func (m Marker) String() string {
	return fmt.Sprintf("<!-- _RENDERED %s,%s,%s -->", m.ClassID, m.InstanceID, m.Extra)
}

var markerRegex = regexp.MustCompile(`<!-- _RENDERED ([^,\s]+),([^,\s]+),([^,\s]*) -->`)

// FindMarkers returns every marker in s, in order of appearance.
func FindMarkers(s string) []Marker {
	matches := markerRegex.FindAllStringSubmatch(s, -1)
	markers := make([]Marker, 0, len(matches))
	for _, m := range matches {
		markers = append(markers, Marker{ClassID: m[1], InstanceID: m[2], Extra: m[3]})
	}
	return markers
}

// ParseMarker parses a single marker string.
func ParseMarker(s string) (Marker, error) {
	m := markerRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil || len(m[0]) != len(strings.TrimSpace(s)) {
		return Marker{}, fmt.Errorf("invalid render marker %q", s)
	}
	return Marker{ClassID: m[1], InstanceID: m[2], Extra: m[3]}, nil
}

// Strip removes every marker from s.
func Strip(s string) string {
	if !strings.Contains(s, "<!-- _RENDERED ") {
		return s
	}
	return markerRegex.ReplaceAllString(s, "")
}

// ClassID derives the stable class identifier for a component name.
func ClassID(name string) string {
	return fmt.Sprintf("%s_%s", sanitize(name), shortHash(name, 6))
}

// DataKey derives the key under which per-instance data payloads are
// deduplicated.
func DataKey(payload string) string {
	return shortHash(payload, 8)
}

func shortHash(s string, n int) string {
	sum := blake3.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:n]
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, name)
}
