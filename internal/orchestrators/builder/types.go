package builder

import (
	"github.com/KirkDiggler/ancestry-builder/internal/engine/selection"
	"github.com/KirkDiggler/ancestry-builder/internal/entities/ancestry"
	"github.com/KirkDiggler/ancestry-builder/internal/export"
)

// StartBuildInput defines the request for starting a build session
type StartBuildInput struct {
	OwnerID     string
	Name        string
	Description string
	// PresetID seeds the selection from a preset; ArchetypeID is optional
	PresetID    string
	ArchetypeID string
	// ApplyDefaults seeds catalog default traits when no preset is given
	ApplyDefaults bool
}

// StartBuildOutput defines the response for starting a build session
type StartBuildOutput struct {
	Build *ancestry.Build
	View  selection.View
	// Dropped lists preset trait ids the catalog no longer knows
	Dropped []string
}

// GetBuildInput defines the request for loading a build
type GetBuildInput struct {
	BuildID string
}

// GetBuildOutput defines the response for loading a build
type GetBuildOutput struct {
	Build *ancestry.Build
	View  selection.View
}

// ListBuildsInput defines the request for listing an owner's builds
type ListBuildsInput struct {
	OwnerID string
}

// BuildSummary is one row of a build listing
type BuildSummary struct {
	Build       *ancestry.Build
	PointsSpent int
	Complete    bool
}

// ListBuildsOutput defines the response for listing builds
type ListBuildsOutput struct {
	Builds []BuildSummary
}

// DeleteBuildInput defines the request for deleting a build
type DeleteBuildInput struct {
	BuildID string
}

// DeleteBuildOutput defines the response for deleting a build
type DeleteBuildOutput struct{}

// ApplyCommandInput defines the request for running a selection command
type ApplyCommandInput struct {
	BuildID string
	Command selection.Command
	// IfVersion rejects the command when the stored version differs
	IfVersion *uint64
}

// ApplyCommandOutput defines the response for running a selection command
type ApplyCommandOutput struct {
	Build   *ancestry.Build
	View    selection.View
	Changed bool
	// Reason explains an unchanged trait command when the rules blocked it
	Reason string
	// Suggestions holds near matches when the trait id is unknown
	Suggestions []string
}

// LoadPresetInput defines the request for replacing a build with a preset
type LoadPresetInput struct {
	BuildID     string
	PresetID    string
	ArchetypeID string
}

// LoadPresetOutput defines the response for loading a preset
type LoadPresetOutput struct {
	Build   *ancestry.Build
	View    selection.View
	Dropped []string
}

// CheckTraitInput defines the request for checking one trait
type CheckTraitInput struct {
	BuildID string
	TraitID string
}

// CheckTraitOutput defines the response for checking one trait
type CheckTraitOutput struct {
	Trait       *ancestry.Trait
	Selected    bool
	CanSelect   selection.Eligibility
	CanDeselect selection.Eligibility
	Suggestions []string
}

// ExportBuildInput defines the request for exporting a build
type ExportBuildInput struct {
	BuildID string
	// Name overrides the stored build name
	Name string
}

// ExportBuildOutput defines the response for exporting a build
type ExportBuildOutput struct {
	Snapshot *export.Snapshot
}
