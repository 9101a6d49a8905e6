package ancestry

// Build is a persisted build session: who owns it, what is selected, and the
// version counter the selection rules advance.
type Build struct {
	ID               string            `json:"id"`
	OwnerID          string            `json:"owner_id"`
	Name             string            `json:"name,omitempty"`
	Description      string            `json:"description,omitempty"`
	SelectedTraitIDs []string          `json:"selected_trait_ids,omitempty"`
	SelectedOptions  map[string]string `json:"selected_options,omitempty"`
	LoadedPresetID   string            `json:"loaded_preset_id,omitempty"`
	PresetName       string            `json:"preset_name,omitempty"`
	Version          uint64            `json:"version"`
	CreatedAt        int64             `json:"created_at"`
	UpdatedAt        int64             `json:"updated_at"`
	ExpiresAt        int64             `json:"expires_at,omitempty"`
}
