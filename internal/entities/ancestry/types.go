// Package ancestry defines the catalog entities for custom ancestry building
package ancestry

// Trait type identifiers used by the bundled catalog. A catalog may define any
// other type id; these are only the ones with default advisory limits.
const (
	TypeCore     = "core"
	TypeHeritage = "heritage"
	TypeCulture  = "culture"
)

// Option is a sub-choice of a trait. When the owning trait has RequiresOption
// set, the option's points replace the trait's own points.
type Option struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Points      int    `json:"points" yaml:"points"`
}

// Trait is the atomic selectable unit.
//
// CategoryID, CategoryName, Type and Label are assigned by the catalog loader
// from the trait's position in the document and are never read from the raw
// record.
type Trait struct {
	ID             string   `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
	Points         *int     `json:"points,omitempty" yaml:"points,omitempty"`
	Required       bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Requires       []string `json:"requires,omitempty" yaml:"requires,omitempty"`
	Excludes       []string `json:"excludes,omitempty" yaml:"excludes,omitempty"`
	Options        []Option `json:"options,omitempty" yaml:"options,omitempty"`
	RequiresOption bool     `json:"requiresOption,omitempty" yaml:"requiresOption,omitempty"`
	Default        bool     `json:"default,omitempty" yaml:"default,omitempty"`

	CategoryID   string `json:"-" yaml:"-"`
	CategoryName string `json:"-" yaml:"-"`
	Type         string `json:"-" yaml:"-"`
	Label        string `json:"-" yaml:"-"`
}

// BasePoints returns the trait's own cost, zero when absent
func (t *Trait) BasePoints() int {
	if t == nil || t.Points == nil {
		return 0
	}
	return *t.Points
}

// Option looks up a sub-choice by id
func (t *Trait) Option(id string) (Option, bool) {
	if t == nil {
		return Option{}, false
	}
	for _, o := range t.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// HasOptions reports whether the trait offers sub-choices
func (t *Trait) HasOptions() bool {
	return t != nil && len(t.Options) > 0
}

// RequiresTrait reports whether id is listed in the trait's prerequisites
func (t *Trait) RequiresTrait(id string) bool {
	return contains(t.Requires, id)
}

// ExcludesTrait reports whether id is listed in the trait's exclusions
func (t *Trait) ExcludesTrait(id string) bool {
	return contains(t.Excludes, id)
}

// Category is a named group of traits within a type.
type Category struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
	// RequiredTrait must stay selected while any sibling in the category is selected
	RequiredTrait string  `json:"requiredTrait,omitempty" yaml:"requiredTrait,omitempty"`
	Traits        []Trait `json:"traits" yaml:"traits"`
}

// TraitType is the broadest grouping (core, heritage, culture, ...).
type TraitType struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// MaxCategories is the recommended maximum of distinct categories; 0 means no limit
	MaxCategories int `json:"maxCategories,omitempty" yaml:"maxCategories,omitempty"`
	// Recommended types warn when nothing of the type is selected
	Recommended bool       `json:"recommended,omitempty" yaml:"recommended,omitempty"`
	Categories  []Category `json:"categories" yaml:"categories"`
}

// TraitRef points at a catalog trait from a preset, optionally with a chosen option
type TraitRef struct {
	ID     string `json:"id" yaml:"id"`
	Option string `json:"option,omitempty" yaml:"option,omitempty"`
}

// Archetype is a sub-variant of a preset that contributes extra traits
type Archetype struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Traits      []TraitRef `json:"traits" yaml:"traits"`
}

// Preset is a ready-made ancestry that can seed a build.
type Preset struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Summary     string      `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Traits      []TraitRef  `json:"traits" yaml:"traits"`
	Archetypes  []Archetype `json:"archetypes,omitempty" yaml:"archetypes,omitempty"`
}

// Archetype looks up a sub-variant by id
func (p *Preset) Archetype(id string) (*Archetype, bool) {
	for i := range p.Archetypes {
		if p.Archetypes[i].ID == id {
			return &p.Archetypes[i], true
		}
	}
	return nil, false
}

// Document is the raw catalog file: type -> category -> trait list.
type Document struct {
	// PointBudget is the recommended total; 0 leaves the budget to configuration
	PointBudget int         `json:"pointBudget,omitempty" yaml:"pointBudget,omitempty"`
	TraitTypes  []TraitType `json:"traitTypes" yaml:"traitTypes"`
	Presets     []Preset    `json:"presets,omitempty" yaml:"presets,omitempty"`
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
