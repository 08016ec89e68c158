package component

import (
	"fmt"

	"github.com/specialistvlad/slotkit/internal/arena"
	"github.com/specialistvlad/slotkit/internal/scope"
	"github.com/zclconf/go-cty/cty"
)

// State is the lifecycle stage of one component render.
type State int

const (
	Created State = iota
	DataComputed
	ScopePushed
	BodyRendering
	ScopePopped
	Done
	Errored
)

func (s State) String() string {
	switch s {
	case Created:
		return "CREATED"
	case DataComputed:
		return "DATA_COMPUTED"
	case ScopePushed:
		return "SCOPE_PUSHED"
	case BodyRendering:
		return "BODY_RENDERING"
	case ScopePopped:
		return "SCOPE_POPPED"
	case Done:
		return "DONE"
	case Errored:
		return "ERRORED"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var transitions = map[State][]State{
	Created:       {DataComputed, Errored},
	DataComputed:  {ScopePushed, Errored},
	ScopePushed:   {BodyRendering},
	BodyRendering: {ScopePopped, Errored},
	ScopePopped:   {Done},
	Errored:       {Done},
}

// Instance is one activation of a component definition within a render.
type Instance struct {
	Handle arena.Handle
	Def    *Definition
	Parent *Instance
	Input  *Input
	Data   map[string]cty.Value

	// Root is the top-level context of the render, Caller the scope at the
	// component tag and Body the scope its body renders under.
	Root   *scope.Scope
	Caller *scope.Scope
	Body   *scope.Scope

	fills       map[string]*Fill
	compiled    *compiled
	defaultSlot string
	seen        map[string]bool
	state       State
	history     []State
}

func newInstance(h arena.Handle, def *Definition, parent *Instance, root, caller *scope.Scope) *Instance {
	return &Instance{
		Handle:  h,
		Def:     def,
		Parent:  parent,
		Root:    root,
		Caller:  caller,
		seen:    make(map[string]bool),
		state:   Created,
		history: []State{Created},
	}
}

// ID is the render-scoped identifier of the instance.
func (i *Instance) ID() string {
	return i.Handle.ID()
}

// State returns the current lifecycle stage.
func (i *Instance) State() State {
	return i.state
}

// History returns every stage the instance went through, in order.
func (i *Instance) History() []State {
	return append([]State(nil), i.history...)
}

// HasFill reports whether the caller supplied a fill for name.
func (i *Instance) HasFill(name string) bool {
	_, ok := i.fills[name]
	return ok
}

// advance moves the instance to the next stage. An illegal transition is an
// internal bug.
func (i *Instance) advance(to State) error {
	for _, allowed := range transitions[i.state] {
		if allowed == to {
			i.state = to
			i.history = append(i.history, to)
			return nil
		}
	}
	return fmt.Errorf("internal error: component %q instance %s cannot go from %s to %s", i.Def.Name, i.ID(), i.state, to)
}

// fail records an error on the way out, whatever stage it happened in.
func (i *Instance) fail() {
	if i.state == Done || i.state == Errored {
		return
	}
	i.state = Errored
	i.history = append(i.history, Errored)
}

// claimDefault records name as the default slot of this render pass.
func (i *Instance) claimDefault(name string) error {
	if i.defaultSlot != "" && i.defaultSlot != name {
		return &ConfigError{
			Component: i.Def.Name,
			Slot:      name,
			Msg:       fmt.Sprintf("only one slot may be marked default, %q already is", i.defaultSlot),
		}
	}
	i.defaultSlot = name
	return nil
}
