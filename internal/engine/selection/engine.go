package selection

// Engine is one interactive build session: a State plus the rules that move
// it. It is not safe for concurrent use.
type Engine struct {
	rules *Rules
	state State
	view  *View
}

// New starts a session with an empty selection
func New(rules *Rules) *Engine {
	return &Engine{rules: rules}
}

// Restore resumes a session from a persisted state
func Restore(rules *Rules, state State) *Engine {
	return &Engine{rules: rules, state: state.Clone()}
}

// Rules returns the rules driving the session
func (e *Engine) Rules() *Rules {
	return e.rules
}

// State returns a copy of the current state
func (e *Engine) State() State {
	return e.state.Clone()
}

// Version returns the current state version
func (e *Engine) Version() uint64 {
	return e.state.Version
}

// Apply runs a command and reports whether the state changed
func (e *Engine) Apply(cmd Command) bool {
	next := e.rules.Apply(e.state, cmd)
	if next.Version == e.state.Version {
		return false
	}
	e.state = next
	return true
}

// Select adds a trait
func (e *Engine) Select(traitID string) bool {
	return e.Apply(SelectTrait{TraitID: traitID})
}

// Deselect removes a trait and its dependents
func (e *Engine) Deselect(traitID string) bool {
	return e.Apply(DeselectTrait{TraitID: traitID})
}

// Toggle flips a trait when the rules allow it
func (e *Engine) Toggle(traitID string) bool {
	return e.Apply(ToggleTrait{TraitID: traitID})
}

// SetOption chooses a sub-option for a selected trait
func (e *Engine) SetOption(traitID, optionID string) bool {
	return e.Apply(SetOption{TraitID: traitID, OptionID: optionID})
}

// LoadPreset replaces the selection
func (e *Engine) LoadPreset(cmd LoadPreset) bool {
	return e.Apply(cmd)
}

// SetDefaults seeds an empty selection
func (e *Engine) SetDefaults(traitIDs []string) bool {
	return e.Apply(SetDefaults{TraitIDs: traitIDs})
}

// Reset clears the selection
func (e *Engine) Reset() bool {
	return e.Apply(Reset{})
}

// IsSelected reports whether the trait is selected
func (e *Engine) IsSelected(traitID string) bool {
	return e.state.IsSelected(traitID)
}

// CanSelect checks the trait against the current state
func (e *Engine) CanSelect(traitID string) Eligibility {
	return e.rules.CanSelect(e.state, traitID)
}

// CanDeselect checks the trait against the current state
func (e *Engine) CanDeselect(traitID string) Eligibility {
	return e.rules.CanDeselect(e.state, traitID)
}

// View returns the derived values, recomputed only when the version moves.
// Callers must treat the returned slices and maps as read-only.
func (e *Engine) View() View {
	if e.view == nil || e.view.Version != e.state.Version {
		v := e.rules.View(e.state)
		e.view = &v
	}
	return *e.view
}
