package selection

// State is the selection owned by one build session. Values are treated as
// immutable by the rules; every transition returns a new State.
type State struct {
	SelectedTraitIDs []string          `json:"selected_trait_ids"`
	SelectedOptions  map[string]string `json:"selected_options,omitempty"`
	LoadedPresetID   string            `json:"loaded_preset_id,omitempty"`
	PresetName       string            `json:"preset_name,omitempty"`
	// Version increments on every state-changing command
	Version uint64 `json:"version"`
}

// Clone returns a deep copy
func (s State) Clone() State {
	out := s
	out.SelectedTraitIDs = append([]string(nil), s.SelectedTraitIDs...)
	if s.SelectedOptions != nil {
		out.SelectedOptions = make(map[string]string, len(s.SelectedOptions))
		for k, v := range s.SelectedOptions {
			out.SelectedOptions[k] = v
		}
	}
	return out
}

// IsSelected reports whether the trait is in the selection
func (s State) IsSelected(traitID string) bool {
	for _, id := range s.SelectedTraitIDs {
		if id == traitID {
			return true
		}
	}
	return false
}

// Option returns the chosen option for a trait
func (s State) Option(traitID string) (string, bool) {
	opt, ok := s.SelectedOptions[traitID]
	return opt, ok && opt != ""
}

// IsEmpty reports whether nothing is selected
func (s State) IsEmpty() bool {
	return len(s.SelectedTraitIDs) == 0
}

func (s *State) setOption(traitID, optionID string) {
	if optionID == "" {
		delete(s.SelectedOptions, traitID)
		return
	}
	if s.SelectedOptions == nil {
		s.SelectedOptions = make(map[string]string)
	}
	s.SelectedOptions[traitID] = optionID
}

// removeWhere drops matching traits and their options, reporting whether
// anything was removed
func (s *State) removeWhere(match func(id string) bool) bool {
	kept := s.SelectedTraitIDs[:0:0]
	removed := false
	for _, id := range s.SelectedTraitIDs {
		if match(id) {
			delete(s.SelectedOptions, id)
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	s.SelectedTraitIDs = kept
	return removed
}
