package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/ancestry-builder/internal/catalog"
	"github.com/KirkDiggler/ancestry-builder/internal/errors"
)

var catalogType string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List trait types, categories and traits",
	Long:  `List the loaded catalog. Required categories and required traits are marked.`,
	RunE:  runCatalog,
}

func init() {
	catalogCmd.Flags().StringVar(&catalogType, "type", "", "Only list this trait type")
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	cat, err := loadCatalog(cmd.Context())
	if err != nil {
		return err
	}

	types := cat.Types()
	if catalogType != "" {
		t := cat.Type(catalogType)
		if t == nil {
			return errors.NotFoundf("trait type %s not found", catalogType).WithMeta("type_id", catalogType)
		}
		types = []*catalog.TypeInfo{t}
	}

	out := cmd.OutOrStdout()
	if cat.PointBudget() > 0 {
		fmt.Fprintf(out, "Point budget: %d\n\n", cat.PointBudget())
	}
	for _, t := range types {
		printType(out, cat, t)
	}
	return nil
}

func printType(w io.Writer, cat *catalog.Catalog, t *catalog.TypeInfo) {
	var notes []string
	if t.MaxCategories > 0 {
		notes = append(notes, fmt.Sprintf("max %d categories", t.MaxCategories))
	}
	if t.Recommended {
		notes = append(notes, "recommended")
	}
	fmt.Fprintf(w, "%s (%s)", displayName(t.Name, t.ID), t.ID)
	if len(notes) > 0 {
		fmt.Fprintf(w, " [%s]", strings.Join(notes, ", "))
	}
	fmt.Fprintln(w)

	for _, cid := range t.CategoryIDs {
		c := cat.Category(cid)
		fmt.Fprintf(w, "  %s", c.Name)
		if c.Required {
			fmt.Fprint(w, " [required]")
		}
		if c.Label != "" {
			fmt.Fprintf(w, " - %s", c.Label)
		}
		fmt.Fprintln(w)

		for _, id := range c.TraitIDs {
			tr := cat.Trait(id)
			marker := " "
			if id == c.RequiredTrait {
				marker = "*"
			}
			fmt.Fprintf(w, "   %s %-24s %-26s %s\n", marker, tr.ID, tr.Name, pointsLabel(tr.BasePoints(), tr.RequiresOption))
			for _, o := range tr.Options {
				fmt.Fprintf(w, "       - %-20s %-26s %+d\n", o.ID, o.Name, o.Points)
			}
			if len(tr.Requires) > 0 {
				fmt.Fprintf(w, "       requires: %s\n", strings.Join(tr.Requires, ", "))
			}
			if len(tr.Excludes) > 0 {
				fmt.Fprintf(w, "       excludes: %s\n", strings.Join(tr.Excludes, ", "))
			}
		}
	}
	fmt.Fprintln(w)
}

func pointsLabel(points int, fromOption bool) string {
	if fromOption {
		return "by option"
	}
	return fmt.Sprintf("%+d", points)
}

func displayName(name, id string) string {
	if name == "" {
		return id
	}
	return name
}
