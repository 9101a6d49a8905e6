// Package catalog loads the static trait catalog and exposes read-only lookups
package catalog

import (
	"github.com/KirkDiggler/ancestry-builder/internal/entities/ancestry"
)

// TypeInfo describes a trait type and the categories under it, in document order
type TypeInfo struct {
	ID            string
	Name          string
	Description   string
	MaxCategories int
	Recommended   bool
	CategoryIDs   []string
}

// CategoryInfo describes a category and its member trait ids
type CategoryInfo struct {
	ID            string
	Name          string
	Description   string
	Label         string
	Type          string
	Required      bool
	RequiredTrait string
	TraitIDs      []string
}

// RequiredCategory is a category that must always have one selected member
type RequiredCategory struct {
	CategoryID   string
	CategoryName string
	TraitIDs     []string
	// DefaultTraitID is the first default-flagged member, empty when there is none
	DefaultTraitID string
}

// RequiredTrait is a trait that must be selected while any sibling is selected
type RequiredTrait struct {
	CategoryID   string
	CategoryName string
	TraitID      string
	SiblingIDs   []string
}

// Catalog is the normalized, immutable trait catalog. It is safe to share
// between sessions once built.
type Catalog struct {
	traits      map[string]*ancestry.Trait
	traitOrder  []string
	types       []*TypeInfo
	categories  map[string]*CategoryInfo
	required    []RequiredCategory
	reqTraits   []RequiredTrait
	defaults    []*ancestry.Trait
	presets     []*ancestry.Preset
	pointBudget int
}

// Trait returns the trait with the given id, or nil
func (c *Catalog) Trait(id string) *ancestry.Trait {
	return c.traits[id]
}

// HasTrait reports whether id is a catalog trait
func (c *Catalog) HasTrait(id string) bool {
	_, ok := c.traits[id]
	return ok
}

// TraitName resolves a display name, falling back to the id itself
func (c *Catalog) TraitName(id string) string {
	if t := c.traits[id]; t != nil && t.Name != "" {
		return t.Name
	}
	return id
}

// Traits returns every trait in document order
func (c *Catalog) Traits() []*ancestry.Trait {
	out := make([]*ancestry.Trait, len(c.traitOrder))
	for i, id := range c.traitOrder {
		out[i] = c.traits[id]
	}
	return out
}

// TraitIDs returns every trait id in document order
func (c *Catalog) TraitIDs() []string {
	return append([]string(nil), c.traitOrder...)
}

// Types returns the trait types in document order
func (c *Catalog) Types() []*TypeInfo {
	return c.types
}

// Type returns the type with the given id, or nil
func (c *Catalog) Type(id string) *TypeInfo {
	for _, t := range c.types {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Category returns the category with the given id, or nil
func (c *Catalog) Category(id string) *CategoryInfo {
	return c.categories[id]
}

// CategoryOf returns the category a trait belongs to, or nil
func (c *Catalog) CategoryOf(traitID string) *CategoryInfo {
	t := c.traits[traitID]
	if t == nil {
		return nil
	}
	return c.categories[t.CategoryID]
}

// RequiredCategories returns the categories flagged required, in document order
func (c *Catalog) RequiredCategories() []RequiredCategory {
	return c.required
}

// RequiredTraits returns the requiredTrait declarations, in document order
func (c *Catalog) RequiredTraits() []RequiredTrait {
	return c.reqTraits
}

// Defaults returns the traits flagged default, in document order
func (c *Catalog) Defaults() []*ancestry.Trait {
	return c.defaults
}

// DefaultTraitIDs returns the ids of the traits flagged default
func (c *Catalog) DefaultTraitIDs() []string {
	ids := make([]string, len(c.defaults))
	for i, t := range c.defaults {
		ids[i] = t.ID
	}
	return ids
}

// Presets returns the prebuilt ancestries in document order
func (c *Catalog) Presets() []*ancestry.Preset {
	return c.presets
}

// Preset returns the preset with the given id, or nil
func (c *Catalog) Preset(id string) *ancestry.Preset {
	for _, p := range c.presets {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PointBudget is the recommended point total declared by the catalog; 0 when unset
func (c *Catalog) PointBudget() int {
	return c.pointBudget
}
