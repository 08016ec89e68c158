package component

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/specialistvlad/slotkit/internal/config"
	"github.com/specialistvlad/slotkit/internal/ctxlog"
	"github.com/specialistvlad/slotkit/internal/deps"
	"github.com/specialistvlad/slotkit/internal/hcl_adapter"
	"github.com/specialistvlad/slotkit/internal/template"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Settings are the registry-wide render settings.
type Settings struct {
	ContextBehavior ContextBehavior
	DepsStrategy    deps.Strategy
}

// Option configures a Registry.
type Option func(*Registry)

// WithConverter sets the converter used by Input.Decode.
func WithConverter(c config.Converter) Option {
	return func(r *Registry) {
		r.converter = c
	}
}

// compiled is the parsed form of a definition plus what static analysis
// learned about its slots.
type compiled struct {
	tpl *template.Template
	// defaultSlot is set when exactly one literal name is marked default.
	// defaultNames lists every literal default name.
	defaultSlot  string
	defaultNames []string
	slotNames    map[string]bool
	// dynamicSlots is set when some slot name is only known at render time.
	dynamicSlots bool
}

// Registry holds component definitions and the tag library their templates
// are parsed with.
type Registry struct {
	settings  Settings
	lib       *template.Library
	converter config.Converter

	mu       sync.RWMutex
	defs     map[string]*Definition
	compiled map[string]*compiled
}

// NewRegistry creates a registry with the built-in tags and components.
func NewRegistry(settings Settings, opts ...Option) *Registry {
	if settings.ContextBehavior == nil {
		settings.ContextBehavior = Inherited
	}
	if settings.DepsStrategy == "" {
		settings.DepsStrategy = deps.Simple
	}
	r := &Registry{
		settings:  settings,
		lib:       template.NewLibrary(),
		converter: hcl_adapter.NewConverter(),
		defs:      make(map[string]*Definition),
		compiled:  make(map[string]*compiled),
	}
	for _, opt := range opts {
		opt(r)
	}
	registerTags(r.lib)
	r.Register(errorFallback())
	return r
}

// Register adds a definition. It panics if the name is empty or already
// taken, as this is a programming error.
func (r *Registry) Register(def *Definition) {
	if def == nil || def.Name == "" {
		panic("component definition must have a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.Name]; exists {
		panic(fmt.Sprintf("component %q is already registered", def.Name))
	}
	r.defs[def.Name] = def
}

// Get returns the definition registered under name.
func (r *Registry) Get(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// Names returns the registered component names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Settings returns the registry settings.
func (r *Registry) Settings() Settings {
	return r.settings
}

// Library is the tag library templates are parsed with.
func (r *Registry) Library() *template.Library {
	return r.lib
}

// Parse parses src with the registry's tag library.
func (r *Registry) Parse(name, src string) (*template.Template, error) {
	return r.lib.Parse(name, src)
}

// compile parses the template of def once and caches the result.
func (r *Registry) compile(def *Definition) (*compiled, error) {
	r.mu.RLock()
	c, ok := r.compiled[def.Name]
	r.mu.RUnlock()
	if ok {
		return c, nil
	}

	c = &compiled{slotNames: make(map[string]bool)}
	if def.Render == nil {
		tpl, err := r.lib.Parse(def.templateName(), def.Template)
		if err != nil {
			return nil, err
		}
		c.tpl = tpl
		if err := analyzeSlots(def.Name, tpl, c); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.compiled[def.Name]; ok {
		return existing, nil
	}
	r.compiled[def.Name] = c
	return c, nil
}

var slotNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_\-]*$`)

// validateSlotName rejects empty and non-identifier slot names.
func validateSlotName(component, name string) error {
	if !slotNameRegex.MatchString(name) {
		return &ConfigError{Component: component, Slot: name, Msg: "slot name must be a non-empty identifier"}
	}
	return nil
}

// analyzeSlots records the statically known slots of tpl. The one default
// slot rule applies per render pass and is checked by claimDefault.
func analyzeSlots(component string, tpl *template.Template, c *compiled) error {
	var errs []error
	seenDefault := make(map[string]bool)
	template.Walk(tpl.Root, func(n template.Node) bool {
		switch node := n.(type) {
		case *SlotNode:
			name, ok := node.Name.StaticString()
			if !ok {
				c.dynamicSlots = true
				return true
			}
			if err := validateSlotName(component, name); err != nil {
				errs = append(errs, err)
				return true
			}
			c.slotNames[name] = true
			if node.Default && !seenDefault[name] {
				seenDefault[name] = true
				c.defaultNames = append(c.defaultNames, name)
			}
		}
		return true
	})
	if len(c.defaultNames) == 1 {
		c.defaultSlot = c.defaultNames[0]
	}
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	return errors.Join(errs...)
}

// Validate parses every template and checks the definitions against each
// other, reporting all problems at once.
func (r *Registry) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var errs []string

	for _, name := range r.Names() {
		def, _ := r.Get(name)
		c, err := r.compile(def)
		if err != nil {
			errs = append(errs, fmt.Sprintf("component '%s': %v", name, err))
			continue
		}

		for input, spec := range def.Inputs {
			if spec.Type == cty.NilType || spec.Type.Equals(cty.DynamicPseudoType) {
				logger.Debug("Component input accepts any type.", "component", name, "input", input)
			}
			if spec.Default == cty.NilVal || spec.Default.IsNull() || spec.Type == cty.NilType {
				continue
			}
			if _, err := convert.Convert(spec.Default, spec.Type); err != nil {
				errs = append(errs, fmt.Sprintf("component '%s', input '%s': default does not match type %s: %v", name, input, spec.Type.FriendlyName(), err))
			}
		}

		if c.tpl == nil {
			continue
		}
		if len(c.defaultNames) > 1 {
			logger.Debug("Template marks several slots default; at most one may render per pass.",
				"component", name, "slots", c.defaultNames)
		}
		template.Walk(c.tpl.Root, func(n template.Node) bool {
			node, ok := n.(*ComponentNode)
			if !ok {
				return true
			}
			if ref, ok := node.Name.StaticString(); ok {
				if _, exists := r.Get(ref); !exists {
					errs = append(errs, fmt.Sprintf("component '%s': references unknown component '%s' at %s", name, ref, node.Pos))
				}
			}
			return true
		})
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Debug("Registry validation passed.", "components", len(r.Names()))
	return nil
}
