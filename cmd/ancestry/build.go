package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/ancestry-builder/internal/catalog"
	"github.com/KirkDiggler/ancestry-builder/internal/engine/selection"
	"github.com/KirkDiggler/ancestry-builder/internal/errors"
	"github.com/KirkDiggler/ancestry-builder/internal/export"
	"github.com/KirkDiggler/ancestry-builder/internal/pkg/clock"
)

var (
	buildPreset      string
	buildArchetype   string
	buildToggles     []string
	buildOptions     []string
	buildName        string
	buildDescription string
	buildNoDefaults  bool
	buildJSON        bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build an ancestry in memory",
	Long: `Build an ancestry without persisting it. The build starts from a preset or the
catalog defaults, then applies toggles and option choices in order. Toggles the
rules refuse are reported and skipped.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildPreset, "preset", "", "Preset to start from")
	buildCmd.Flags().StringVar(&buildArchetype, "archetype", "", "Archetype of the preset")
	buildCmd.Flags().StringSliceVar(&buildToggles, "toggle", nil, "Trait ids to toggle, in order")
	buildCmd.Flags().StringSliceVar(&buildOptions, "option", nil, "Option choices as trait=option")
	buildCmd.Flags().StringVar(&buildName, "name", "", "Name for the exported ancestry")
	buildCmd.Flags().StringVar(&buildDescription, "description", "", "Description for the exported ancestry")
	buildCmd.Flags().BoolVar(&buildNoDefaults, "no-defaults", false, "Do not seed catalog default traits")
	buildCmd.Flags().BoolVar(&buildJSON, "json", false, "Print the export snapshot as JSON")
}

func runBuild(cmd *cobra.Command, _ []string) error {
	if buildArchetype != "" && buildPreset == "" {
		return errors.InvalidArgument("--archetype requires --preset")
	}

	cat, err := loadCatalog(cmd.Context())
	if err != nil {
		return err
	}
	rules, err := newRules(cat)
	if err != nil {
		return err
	}
	assignments, err := parseAssignments(buildOptions)
	if err != nil {
		return err
	}

	engine := selection.New(rules)
	if err := seedEngine(engine, cat, buildPreset, buildArchetype, !buildNoDefaults); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := applyToggles(out, engine, cat, buildToggles); err != nil {
		return err
	}
	if err := applyOptions(engine, cat, assignments); err != nil {
		return err
	}

	view := engine.View()
	if buildJSON {
		snapshot := export.Build(view, export.Input{
			Name:        buildName,
			Description: buildDescription,
		}, clock.New())
		return export.Write(out, snapshot)
	}

	printView(out, view)
	return nil
}

// seedEngine loads a preset, or the catalog defaults when none is named
func seedEngine(engine *selection.Engine, cat *catalog.Catalog, presetID, archetypeID string, defaults bool) error {
	if presetID == "" {
		if defaults {
			engine.SetDefaults(cat.DefaultTraitIDs())
		}
		return nil
	}

	resolved, err := cat.ResolvePreset(presetID, archetypeID)
	if err != nil {
		return errors.Wrap(err, "failed to resolve preset")
	}
	if len(resolved.Dropped) > 0 {
		slog.Warn("preset references traits missing from the catalog",
			"preset_id", resolved.ID,
			"dropped", resolved.Dropped)
	}

	engine.LoadPreset(selection.LoadPreset{
		PresetID:    resolved.ID,
		DisplayName: resolved.DisplayName,
		TraitIDs:    resolved.TraitIDs,
		Options:     resolved.Options,
	})
	return nil
}

// applyToggles toggles each trait, reporting the ones the rules refuse
func applyToggles(w io.Writer, engine *selection.Engine, cat *catalog.Catalog, ids []string) error {
	for _, id := range ids {
		if !cat.HasTrait(id) {
			return unknownTrait(cat, id)
		}

		eligibility := engine.CanSelect(id)
		if engine.IsSelected(id) {
			eligibility = engine.CanDeselect(id)
		}
		if !eligibility.Eligible {
			fmt.Fprintf(w, "Skipped %s: %s\n", id, eligibility.Reason)
			continue
		}

		engine.Toggle(id)
	}
	return nil
}

// applyOptions records option choices on selected traits
func applyOptions(engine *selection.Engine, cat *catalog.Catalog, assignments [][2]string) error {
	for _, a := range assignments {
		traitID, optionID := a[0], a[1]
		t := cat.Trait(traitID)
		if t == nil {
			return unknownTrait(cat, traitID)
		}
		if !engine.IsSelected(traitID) {
			return errors.FailedPreconditionf("trait %s is not selected", traitID).WithMeta("trait_id", traitID)
		}
		if _, ok := t.Option(optionID); !ok {
			slog.Warn("option is not listed for trait",
				"trait_id", traitID,
				"option_id", optionID)
		}
		engine.SetOption(traitID, optionID)
	}
	return nil
}
