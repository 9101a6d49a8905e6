package selection

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/ancestry-builder/internal/catalog"
	"github.com/KirkDiggler/ancestry-builder/internal/entities/ancestry"
	"github.com/KirkDiggler/ancestry-builder/internal/errors"
)

// Limits are the soft caps warnings are computed against
type Limits struct {
	PointBudget      int
	MaxCategories    map[string]int
	RecommendedTypes []string
}

// LimitsFromCatalog reads the budget and per-type caps declared by the catalog
func LimitsFromCatalog(cat *catalog.Catalog) Limits {
	limits := Limits{
		PointBudget:   cat.PointBudget(),
		MaxCategories: make(map[string]int),
	}
	for _, t := range cat.Types() {
		if t.MaxCategories > 0 {
			limits.MaxCategories[t.ID] = t.MaxCategories
		}
		if t.Recommended {
			limits.RecommendedTypes = append(limits.RecommendedTypes, t.ID)
		}
	}
	return limits
}

func (l Limits) recommends(typeID string) bool {
	for _, id := range l.RecommendedTypes {
		if id == typeID {
			return true
		}
	}
	return false
}

// Eligibility is the answer to "may this trait change state right now"
type Eligibility struct {
	Eligible bool
	Reason   string
}

func allowed() Eligibility {
	return Eligibility{Eligible: true}
}

func blocked(format string, args ...any) Eligibility {
	return Eligibility{Reason: fmt.Sprintf(format, args...)}
}

// RulesConfig configures the rules
type RulesConfig struct {
	Catalog *catalog.Catalog
	// Limits defaults to LimitsFromCatalog when nil
	Limits *Limits
	Logger *slog.Logger
}

// Validate ensures the config is usable
func (c *RulesConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Limits != nil && c.Limits.PointBudget < 0 {
		vb.Field("Limits.PointBudget", "must not be negative")
	}
	return vb.Build()
}

// Rules evaluates commands and derived views against one catalog. Every
// method is pure with respect to the State it is given.
type Rules struct {
	catalog *catalog.Catalog
	limits  Limits
	logger  *slog.Logger
}

// NewRules creates rules bound to a catalog
func NewRules(cfg *RulesConfig) (*Rules, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid rules config")
	}

	limits := LimitsFromCatalog(cfg.Catalog)
	if cfg.Limits != nil {
		limits = *cfg.Limits
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Rules{
		catalog: cfg.Catalog,
		limits:  limits,
		logger:  logger,
	}, nil
}

// Catalog returns the bound catalog
func (r *Rules) Catalog() *catalog.Catalog {
	return r.catalog
}

// Limits returns the active limits
func (r *Rules) Limits() Limits {
	return r.limits
}

// CanSelect reports whether the trait may be added to the selection.
// Exclusions inside one category never block; selecting simply replaces.
func (r *Rules) CanSelect(s State, traitID string) Eligibility {
	t := r.catalog.Trait(traitID)
	if t == nil {
		return blocked("Trait not found")
	}

	for _, id := range s.SelectedTraitIDs {
		other := r.catalog.Trait(id)
		if other == nil || other.CategoryID == t.CategoryID {
			continue
		}
		if t.ExcludesTrait(id) || other.ExcludesTrait(traitID) {
			return blocked("Conflicts with %s", other.Name)
		}
	}

	var missing []string
	for _, req := range t.Requires {
		if !s.IsSelected(req) {
			missing = append(missing, r.catalog.TraitName(req))
		}
	}
	if len(missing) > 0 {
		return blocked("Requires %s", strings.Join(missing, ", "))
	}

	return allowed()
}

// CanDeselect reports whether the trait may be removed from the selection
func (r *Rules) CanDeselect(s State, traitID string) Eligibility {
	t := r.catalog.Trait(traitID)
	if t == nil {
		return blocked("Trait not found")
	}
	if !s.IsSelected(traitID) {
		return allowed()
	}

	cat := r.catalog.Category(t.CategoryID)
	if cat == nil {
		return allowed()
	}

	if cat.Required && r.selectedIn(s, cat) <= 1 {
		return blocked("%s requires a selection", cat.Name)
	}

	if cat.RequiredTrait == traitID {
		for _, sibling := range cat.TraitIDs {
			if sibling != traitID && s.IsSelected(sibling) {
				return blocked("%s is required while other %s traits are selected", t.Name, cat.Name)
			}
		}
	}

	return allowed()
}

func (r *Rules) selectedIn(s State, cat *catalog.CategoryInfo) int {
	count := 0
	for _, id := range cat.TraitIDs {
		if s.IsSelected(id) {
			count++
		}
	}
	return count
}

// Apply runs one command and returns the resulting state. The input is never
// mutated. A command that changes nothing returns the input unchanged,
// including its version.
func (r *Rules) Apply(s State, cmd Command) State {
	next := s.Clone()

	var changed bool
	switch c := cmd.(type) {
	case SelectTrait:
		changed = r.selectTrait(&next, c.TraitID)
	case DeselectTrait:
		changed = r.deselectTrait(&next, c.TraitID)
	case ToggleTrait:
		changed = r.toggleTrait(&next, c.TraitID)
	case SetOption:
		changed = r.setOption(&next, c.TraitID, c.OptionID)
	case LoadPreset:
		changed = r.loadPreset(&next, c)
	case SetDefaults:
		changed = r.setDefaults(&next, c.TraitIDs)
	case Reset:
		next = State{}
		changed = true
	default:
		r.logger.Warn("ignoring unsupported command", "command", fmt.Sprintf("%T", cmd))
	}

	if !changed {
		return s
	}
	next.Version = s.Version + 1
	return next
}

func (r *Rules) selectTrait(s *State, traitID string) bool {
	t := r.catalog.Trait(traitID)
	if t == nil {
		r.logger.Debug("ignoring select of unknown trait", "trait_id", traitID)
		return false
	}
	if s.IsSelected(traitID) {
		return false
	}
	for _, req := range t.Requires {
		if !s.IsSelected(req) {
			r.logger.Debug("ignoring select with missing prerequisite",
				"trait_id", traitID,
				"requires", req)
			return false
		}
	}

	removed := s.removeWhere(func(id string) bool {
		if t.ExcludesTrait(id) {
			return true
		}
		other := r.catalog.Trait(id)
		return other != nil && other.ExcludesTrait(traitID)
	})
	s.SelectedTraitIDs = append(s.SelectedTraitIDs, traitID)

	if cat := r.catalog.Category(t.CategoryID); cat != nil && cat.RequiredTrait != "" && !s.IsSelected(cat.RequiredTrait) {
		r.selectTrait(s, cat.RequiredTrait)
	}

	// the trait itself is pruned again when its required trait could not be selected
	r.prune(s)
	return removed || s.IsSelected(traitID)
}

func (r *Rules) deselectTrait(s *State, traitID string) bool {
	if !r.catalog.HasTrait(traitID) {
		r.logger.Debug("ignoring deselect of unknown trait", "trait_id", traitID)
		return false
	}
	if !s.IsSelected(traitID) {
		return false
	}

	s.removeWhere(func(id string) bool { return id == traitID })
	r.prune(s)
	return true
}

func (r *Rules) toggleTrait(s *State, traitID string) bool {
	if s.IsSelected(traitID) {
		if e := r.CanDeselect(*s, traitID); !e.Eligible {
			r.logger.Debug("toggle blocked", "trait_id", traitID, "reason", e.Reason)
			return false
		}
		return r.deselectTrait(s, traitID)
	}

	if e := r.CanSelect(*s, traitID); !e.Eligible {
		r.logger.Debug("toggle blocked", "trait_id", traitID, "reason", e.Reason)
		return false
	}
	return r.selectTrait(s, traitID)
}

func (r *Rules) setOption(s *State, traitID, optionID string) bool {
	t := r.catalog.Trait(traitID)
	if t == nil {
		r.logger.Debug("ignoring option for unknown trait", "trait_id", traitID)
		return false
	}
	if !s.IsSelected(traitID) {
		r.logger.Debug("ignoring option for unselected trait", "trait_id", traitID)
		return false
	}
	if current, _ := s.Option(traitID); current == optionID {
		return false
	}
	if _, ok := t.Option(optionID); optionID != "" && !ok {
		r.logger.Debug("storing option not offered by trait",
			"trait_id", traitID,
			"option_id", optionID)
	}

	s.setOption(traitID, optionID)
	return true
}

func (r *Rules) loadPreset(s *State, cmd LoadPreset) bool {
	next := State{
		LoadedPresetID: cmd.PresetID,
		PresetName:     cmd.DisplayName,
	}
	r.seed(&next, cmd.TraitIDs)

	for traitID, optionID := range cmd.Options {
		if next.IsSelected(traitID) {
			next.setOption(traitID, optionID)
		}
	}

	*s = next
	return true
}

func (r *Rules) setDefaults(s *State, traitIDs []string) bool {
	if !s.IsEmpty() {
		return false
	}
	r.seed(s, traitIDs)
	return !s.IsEmpty()
}

// seed fills an empty selection from trusted bulk data, backfilling required
// categories and required traits.
func (r *Rules) seed(s *State, traitIDs []string) {
	for _, id := range traitIDs {
		if !r.catalog.HasTrait(id) {
			r.logger.Debug("dropping unknown trait from bulk load", "trait_id", id)
			continue
		}
		if !s.IsSelected(id) {
			s.SelectedTraitIDs = append(s.SelectedTraitIDs, id)
		}
	}

	for _, req := range r.catalog.RequiredCategories() {
		if req.DefaultTraitID == "" || r.anySelected(*s, req.TraitIDs) {
			continue
		}
		s.SelectedTraitIDs = append(s.SelectedTraitIDs, req.DefaultTraitID)
	}

	for _, req := range r.catalog.RequiredTraits() {
		if !s.IsSelected(req.TraitID) && r.anySelected(*s, req.SiblingIDs) {
			s.SelectedTraitIDs = append(s.SelectedTraitIDs, req.TraitID)
		}
	}
}

func (r *Rules) anySelected(s State, ids []string) bool {
	for _, id := range ids {
		if s.IsSelected(id) {
			return true
		}
	}
	return false
}

// prune removes, until nothing changes, every selected trait whose
// prerequisites or category required trait are no longer selected.
func (r *Rules) prune(s *State) {
	for {
		current := s.Clone()
		removed := s.removeWhere(func(id string) bool {
			return !r.supported(current, id)
		})
		if !removed {
			break
		}
	}

	for id := range s.SelectedOptions {
		if !s.IsSelected(id) {
			delete(s.SelectedOptions, id)
		}
	}
}

func (r *Rules) supported(s State, traitID string) bool {
	t := r.catalog.Trait(traitID)
	if t == nil {
		return false
	}
	for _, req := range t.Requires {
		if !s.IsSelected(req) {
			return false
		}
	}
	if cat := r.catalog.Category(t.CategoryID); cat != nil && cat.RequiredTrait != "" && cat.RequiredTrait != traitID {
		return s.IsSelected(cat.RequiredTrait)
	}
	return true
}

// traits resolves the selection to catalog records in selection order
func (r *Rules) traits(s State) []*ancestry.Trait {
	out := make([]*ancestry.Trait, 0, len(s.SelectedTraitIDs))
	for _, id := range s.SelectedTraitIDs {
		if t := r.catalog.Trait(id); t != nil {
			out = append(out, t)
		}
	}
	return out
}
