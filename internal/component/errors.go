package component

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/slotkit/internal/renderpath"
)

// ConfigError reports a misuse of components, slots or fills: a missing
// required fill, duplicate fills, conflicting default slots and the like.
// Error boundaries never intercept it.
type ConfigError struct {
	Component string
	Slot      string
	Msg       string
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("component")
	if e.Component != "" {
		fmt.Fprintf(&b, " %q", e.Component)
	}
	if e.Slot != "" {
		fmt.Fprintf(&b, ", slot %q", e.Slot)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	return b.String()
}

// IsConfigError reports whether err is, or wraps, a ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// RenderError wraps a failure with the chain of components and slots that
// were being rendered, outermost first, e.g. `page > slot:content > button`.
type RenderError struct {
	Path renderpath.Path
	Err  error
}

// Error implements the error interface for RenderError.
func (e *RenderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *RenderError) Unwrap() error {
	return e.Err
}

// withSegment prepends seg to the path carried by err.
func withSegment(err error, seg renderpath.Segment) error {
	if err == nil {
		return nil
	}
	if re, ok := err.(*RenderError); ok {
		return &RenderError{Path: re.Path.Prepend(seg), Err: re.Err}
	}
	return &RenderError{Path: renderpath.Path{}.Append(seg), Err: err}
}
