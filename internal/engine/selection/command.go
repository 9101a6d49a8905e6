package selection

// Command is one of the state transitions a build session accepts. The set is
// closed: only the types in this file implement it.
type Command interface {
	// Name identifies the command in logs
	Name() string
	isCommand()
}

// Command names
const (
	CommandSelect      = "select"
	CommandDeselect    = "deselect"
	CommandToggle      = "toggle"
	CommandSetOption   = "set-option"
	CommandLoadPreset  = "load-preset"
	CommandSetDefaults = "set-defaults"
	CommandReset       = "reset"
)

// SelectTrait adds a trait, replacing same-category exclusions and pulling in
// the category's required trait.
type SelectTrait struct {
	TraitID string
}

// DeselectTrait removes a trait and everything that depended on it.
type DeselectTrait struct {
	TraitID string
}

// ToggleTrait selects or deselects, honoring CanSelect/CanDeselect. A blocked
// toggle leaves the state unchanged.
type ToggleTrait struct {
	TraitID string
}

// SetOption overwrites the chosen sub-option of a selected trait. An empty
// OptionID clears the choice.
type SetOption struct {
	TraitID  string
	OptionID string
}

// LoadPreset replaces the whole selection with trusted bulk data.
type LoadPreset struct {
	PresetID    string
	DisplayName string
	TraitIDs    []string
	Options     map[string]string
}

// SetDefaults seeds the selection only when nothing is selected yet.
type SetDefaults struct {
	TraitIDs []string
}

// Reset clears the selection back to the empty baseline.
type Reset struct{}

func (SelectTrait) Name() string   { return CommandSelect }
func (DeselectTrait) Name() string { return CommandDeselect }
func (ToggleTrait) Name() string   { return CommandToggle }
func (SetOption) Name() string     { return CommandSetOption }
func (LoadPreset) Name() string    { return CommandLoadPreset }
func (SetDefaults) Name() string   { return CommandSetDefaults }
func (Reset) Name() string         { return CommandReset }

func (SelectTrait) isCommand()   {}
func (DeselectTrait) isCommand() {}
func (ToggleTrait) isCommand()   {}
func (SetOption) isCommand()     {}
func (LoadPreset) isCommand()    {}
func (SetDefaults) isCommand()   {}
func (Reset) isCommand()         {}
