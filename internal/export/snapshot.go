// Package export renders a build into a portable JSON document.
package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/KirkDiggler/ancestry-builder/internal/engine/selection"
	"github.com/KirkDiggler/ancestry-builder/internal/errors"
	"github.com/KirkDiggler/ancestry-builder/internal/pkg/clock"
)

// SchemaVersion is written into every snapshot
const SchemaVersion = "1.0.0"

// DefaultName is used when neither a name nor a preset name is known
const DefaultName = "Custom Ancestry"

// Trait is one selected trait as exported
type Trait struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	CategoryID     string `json:"categoryId"`
	Points         int    `json:"points"`
	SelectedOption string `json:"selectedOption,omitempty"`
	OptionName     string `json:"optionName,omitempty"`
}

// Summary carries the totals at export time
type Summary struct {
	PointsSpent     int            `json:"pointsSpent"`
	RemainingPoints int            `json:"remainingPoints"`
	CategoryCounts  map[string]int `json:"categoryCounts"`
	LoadedPresetID  string         `json:"loadedPresetId,omitempty"`
}

// Snapshot is the exported ancestry document
type Snapshot struct {
	Version     string    `json:"version"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Traits      []Trait   `json:"traits"`
	Summary     Summary   `json:"summary"`
	Warnings    []string  `json:"warnings"`
	ExportedAt  time.Time `json:"exportedAt"`
}

// Input names the export
type Input struct {
	Name        string
	Description string
}

// Build snapshots a view. Output is deterministic for the same view and clock.
func Build(view selection.View, input Input, clk clock.Clock) *Snapshot {
	if clk == nil {
		clk = clock.New()
	}

	name := input.Name
	if name == "" {
		name = view.PresetName
	}
	if name == "" {
		name = DefaultName
	}

	traits := make([]Trait, 0, len(view.Traits))
	for _, t := range view.Traits {
		out := Trait{
			ID:         t.ID,
			Name:       t.Name,
			Type:       t.Type,
			CategoryID: t.CategoryID,
			Points:     view.TraitPoints[t.ID],
		}
		if optID, ok := view.Options[t.ID]; ok && optID != "" {
			out.SelectedOption = optID
			if opt, found := t.Option(optID); found {
				out.OptionName = opt.Name
			}
		}
		traits = append(traits, out)
	}

	warnings := make([]string, 0, len(view.Warnings))
	for _, w := range view.Warnings {
		warnings = append(warnings, w.Message)
	}

	counts := make(map[string]int, len(view.CategoryCounts))
	for k, v := range view.CategoryCounts {
		counts[k] = v
	}

	return &Snapshot{
		Version:     SchemaVersion,
		Name:        name,
		Description: input.Description,
		Traits:      traits,
		Summary: Summary{
			PointsSpent:     view.PointsSpent,
			RemainingPoints: view.RemainingPoints,
			CategoryCounts:  counts,
			LoadedPresetID:  view.LoadedPresetID,
		},
		Warnings:   warnings,
		ExportedAt: clk.Now().UTC(),
	}
}

// Write encodes the snapshot as indented JSON
func Write(w io.Writer, snapshot *Snapshot) error {
	if snapshot == nil {
		return errors.InvalidArgument("snapshot is required")
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return errors.Wrap(err, "failed to write snapshot")
	}
	return nil
}

// Read decodes a snapshot previously produced by Write
func Read(r io.Reader) (*Snapshot, error) {
	var snapshot Snapshot
	if err := json.NewDecoder(r).Decode(&snapshot); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to decode snapshot")
	}
	if snapshot.Version != SchemaVersion {
		return nil, errors.FailedPreconditionf("unsupported snapshot version %q", snapshot.Version).
			WithMeta("version", snapshot.Version)
	}
	return &snapshot, nil
}
