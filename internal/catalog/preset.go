package catalog

import (
	"fmt"

	"github.com/KirkDiggler/ancestry-builder/internal/entities/ancestry"
	"github.com/KirkDiggler/ancestry-builder/internal/errors"
)

// ResolvedPreset is a preset (and optional archetype) resolved against the
// catalog, ready to seed a build.
type ResolvedPreset struct {
	// ID is the preset id, or "preset/archetype" when an archetype is chosen
	ID          string
	DisplayName string
	TraitIDs    []string
	Options     map[string]string
	// Dropped lists referenced ids that are not in the catalog
	Dropped []string
}

// ResolvePreset resolves a preset's trait references. Ids missing from the
// catalog are dropped rather than failing the load. An unknown preset or
// archetype id is a NotFound error.
func (c *Catalog) ResolvePreset(presetID, archetypeID string) (*ResolvedPreset, error) {
	p := c.Preset(presetID)
	if p == nil {
		return nil, errors.NotFoundf("preset %s not found", presetID).WithMeta("preset_id", presetID)
	}

	refs := append([]ancestry.TraitRef(nil), p.Traits...)
	out := &ResolvedPreset{
		ID:          p.ID,
		DisplayName: p.Name,
		Options:     make(map[string]string),
	}
	if out.DisplayName == "" {
		out.DisplayName = p.ID
	}

	if archetypeID != "" {
		a, ok := p.Archetype(archetypeID)
		if !ok {
			return nil, errors.NotFoundf("archetype %s not found in preset %s", archetypeID, presetID).
				WithMeta("preset_id", presetID).
				WithMeta("archetype_id", archetypeID)
		}
		refs = append(refs, a.Traits...)
		out.ID = fmt.Sprintf("%s/%s", p.ID, a.ID)
		if a.Name != "" {
			out.DisplayName = fmt.Sprintf("%s (%s)", out.DisplayName, a.Name)
		}
	}

	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if !c.HasTrait(ref.ID) {
			out.Dropped = append(out.Dropped, ref.ID)
			continue
		}
		if ref.Option != "" {
			out.Options[ref.ID] = ref.Option
		}
		if seen[ref.ID] {
			continue
		}
		seen[ref.ID] = true
		out.TraitIDs = append(out.TraitIDs, ref.ID)
	}

	return out, nil
}
