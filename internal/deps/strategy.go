package deps

import (
	"fmt"
	"strings"
)

// Strategy selects what Apply does with the markers.
type Strategy string

const (
	// Raw leaves markers in place for a downstream pass.
	Raw Strategy = "raw"
	// Ignore strips markers and emits nothing.
	Ignore Strategy = "ignore"
	// Simple strips markers and emits styles and scripts of the rendered
	// classes, each once.
	Simple Strategy = "simple"
)

// ParseStrategy validates a strategy name. The empty string selects Simple.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", Simple:
		return Simple, nil
	case Raw:
		return Raw, nil
	case Ignore:
		return Ignore, nil
	}
	return "", fmt.Errorf("unknown deps strategy %q: must be 'raw', 'ignore' or 'simple'", s)
}

// Asset is the companion style and script of one component class.
type Asset struct {
	ClassID string
	Name    string
	Style   string
	Script  string
}

// Collector records the assets and data payloads met during one render.
type Collector struct {
	assets map[string]Asset
	data   map[string]string
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		assets: make(map[string]Asset),
		data:   make(map[string]string),
	}
}

// Register records the assets of a class. The first registration wins.
func (c *Collector) Register(a Asset) {
	if _, ok := c.assets[a.ClassID]; !ok {
		c.assets[a.ClassID] = a
	}
}

// RegisterData records an inline payload under key, as referenced by the
// Extra field of a marker.
func (c *Collector) RegisterData(key, payload string) {
	if _, ok := c.data[key]; !ok {
		c.data[key] = payload
	}
}

// Apply post-processes a fully rendered document according to strategy.
func Apply(strategy Strategy, html string, c *Collector) (string, error) {
	switch strategy {
	case Raw:
		return html, nil
	case Ignore:
		return Strip(html), nil
	case Simple, "":
		return applySimple(html, c), nil
	}
	return "", fmt.Errorf("unknown deps strategy %q", strategy)
}

func applySimple(html string, c *Collector) string {
	if c == nil {
		c = NewCollector()
	}
	var styles, scripts strings.Builder
	seenClass := make(map[string]bool)
	seenData := make(map[string]bool)
	for _, m := range FindMarkers(html) {
		if !seenClass[m.ClassID] {
			seenClass[m.ClassID] = true
			if a, ok := c.assets[m.ClassID]; ok {
				if a.Style != "" {
					fmt.Fprintf(&styles, "<style data-slotkit-class=%q>%s</style>", a.ClassID, a.Style)
				}
				if a.Script != "" {
					fmt.Fprintf(&scripts, "<script data-slotkit-class=%q>%s</script>", a.ClassID, a.Script)
				}
			}
		}
		if m.Extra != "" && !seenData[m.Extra] {
			seenData[m.Extra] = true
			scripts.WriteString(c.data[m.Extra])
		}
	}

	out := Strip(html)
	out = insertBefore(out, "</head>", styles.String())
	out = insertBefore(out, "</body>", scripts.String())
	return out
}

// insertBefore puts snippet before the last occurrence of tag, or appends
// it when the document has no such tag.
func insertBefore(doc, tag, snippet string) string {
	if snippet == "" {
		return doc
	}
	if i := strings.LastIndex(doc, tag); i >= 0 {
		return doc[:i] + snippet + doc[i:]
	}
	return doc + snippet
}
