package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List prebuilt ancestries and their archetypes",
	RunE:  runPresets,
}

func runPresets(cmd *cobra.Command, _ []string) error {
	cat, err := loadCatalog(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(cat.Presets()) == 0 {
		fmt.Fprintln(out, "No presets in catalog")
		return nil
	}

	for _, p := range cat.Presets() {
		fmt.Fprintf(out, "%-16s %s\n", p.ID, displayName(p.Name, p.ID))
		if p.Summary != "" {
			fmt.Fprintf(out, "%-16s %s\n", "", p.Summary)
		}
		for _, ref := range p.Traits {
			marker := ""
			if !cat.HasTrait(ref.ID) {
				marker = " (not in catalog)"
			}
			if ref.Option != "" {
				fmt.Fprintf(out, "    %s=%s%s\n", ref.ID, ref.Option, marker)
				continue
			}
			fmt.Fprintf(out, "    %s%s\n", ref.ID, marker)
		}
		for _, a := range p.Archetypes {
			fmt.Fprintf(out, "  archetype %s: %s\n", a.ID, displayName(a.Name, a.ID))
			for _, ref := range a.Traits {
				fmt.Fprintf(out, "    + %s\n", ref.ID)
			}
		}
	}
	return nil
}
