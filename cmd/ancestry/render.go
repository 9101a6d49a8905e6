package main

import (
	"fmt"
	"io"

	"github.com/KirkDiggler/ancestry-builder/internal/engine/selection"
)

// printView writes a human readable summary of a build view
func printView(w io.Writer, view selection.View) {
	if view.PresetName != "" {
		fmt.Fprintf(w, "Preset: %s (%s)\n", view.PresetName, view.LoadedPresetID)
	}

	fmt.Fprintln(w, "Traits:")
	if len(view.Traits) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, t := range view.Traits {
		line := fmt.Sprintf("  %-24s %-26s %+d", t.ID, t.Name, view.TraitPoints[t.ID])
		if optionID, ok := view.Options[t.ID]; ok {
			name := optionID
			if o, found := t.Option(optionID); found {
				name = o.Name
			}
			line += fmt.Sprintf("  [%s]", name)
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintf(w, "Points: %d spent", view.PointsSpent)
	if view.PointBudget > 0 {
		fmt.Fprintf(w, " of %d (%d remaining)", view.PointBudget, view.RemainingPoints)
	}
	fmt.Fprintln(w)

	for _, warn := range view.Warnings {
		fmt.Fprintf(w, "%-7s %s\n", warn.Severity, warn.Message)
	}
	if view.Complete() {
		fmt.Fprintln(w, "Status: complete")
	} else {
		fmt.Fprintln(w, "Status: incomplete")
	}
}
