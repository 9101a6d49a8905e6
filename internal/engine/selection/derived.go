package selection

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/ancestry-builder/internal/entities/ancestry"
)

// Warning kinds
const (
	WarningRequiredCategory = "required-category"
	WarningMissingOption    = "missing-option"
	WarningOverBudget       = "over-budget"
	WarningCategoryCount    = "category-count"
	WarningMissingType      = "missing-type"
)

// Severity of a warning
type Severity string

// Severities
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Warning is an advisory message about the current selection. Errors mark a
// build as incomplete; nothing here blocks a command.
type Warning struct {
	Kind       string   `json:"kind"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	CategoryID string   `json:"category_id,omitempty"`
	TraitID    string   `json:"trait_id,omitempty"`
	TypeID     string   `json:"type_id,omitempty"`
}

// View bundles the derived values for one state
type View struct {
	Traits          []*ancestry.Trait
	Options         map[string]string
	TraitPoints     map[string]int
	PointsSpent     int
	PointBudget     int
	RemainingPoints int
	// CategoryCounts holds the number of distinct categories used per type,
	// with an entry for every catalog type
	CategoryCounts map[string]int
	Warnings       []Warning
	LoadedPresetID string
	PresetName     string
	Version        uint64
}

// Complete reports whether the view carries no error-severity warnings
func (v View) Complete() bool {
	for _, w := range v.Warnings {
		if w.Severity == SeverityError {
			return false
		}
	}
	return true
}

// TraitPoints returns what one selected trait costs in the given state
func (r *Rules) TraitPoints(s State, t *ancestry.Trait) int {
	if !t.RequiresOption {
		return t.BasePoints()
	}
	optID, ok := s.Option(t.ID)
	if !ok {
		return 0
	}
	opt, ok := t.Option(optID)
	if !ok {
		return 0
	}
	return opt.Points
}

// PointsSpent sums the cost of every selected trait
func (r *Rules) PointsSpent(s State) int {
	total := 0
	for _, t := range r.traits(s) {
		total += r.TraitPoints(s, t)
	}
	return total
}

// RemainingPoints is the budget minus points spent; it may be negative
func (r *Rules) RemainingPoints(s State) int {
	return r.limits.PointBudget - r.PointsSpent(s)
}

// CategoryCounts counts distinct categories in use per trait type
func (r *Rules) CategoryCounts(s State) map[string]int {
	counts := make(map[string]int)
	for _, t := range r.catalog.Types() {
		counts[t.ID] = 0
	}

	seen := make(map[string]bool)
	for _, t := range r.traits(s) {
		if seen[t.CategoryID] {
			continue
		}
		seen[t.CategoryID] = true
		counts[t.Type]++
	}
	return counts
}

// Warnings lists advisory messages in a fixed order: required categories,
// missing options, budget, then per-type counts in catalog order. Missing
// recommended types are only reported once something is selected.
func (r *Rules) Warnings(s State) []Warning {
	var warnings []Warning

	for _, req := range r.catalog.RequiredCategories() {
		if r.anySelected(s, req.TraitIDs) {
			continue
		}
		warnings = append(warnings, Warning{
			Kind:       WarningRequiredCategory,
			Severity:   SeverityError,
			Message:    fmt.Sprintf("%s: Select one", req.CategoryName),
			CategoryID: req.CategoryID,
		})
	}

	for _, t := range r.traits(s) {
		if !t.RequiresOption {
			continue
		}
		if _, ok := s.Option(t.ID); ok {
			continue
		}
		warnings = append(warnings, Warning{
			Kind:       WarningMissingOption,
			Severity:   SeverityError,
			Message:    fmt.Sprintf("%s: Select a sub-option", t.Name),
			CategoryID: t.CategoryID,
			TraitID:    t.ID,
		})
	}

	if spent := r.PointsSpent(s); spent > r.limits.PointBudget {
		warnings = append(warnings, Warning{
			Kind:     WarningOverBudget,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("You have spent %d points (%d recommended)", spent, r.limits.PointBudget),
		})
	}

	counts := r.CategoryCounts(s)
	for _, t := range r.catalog.Types() {
		count := counts[t.ID]
		label := strings.ToLower(t.Name)

		if limit, ok := r.limits.MaxCategories[t.ID]; ok && count > limit {
			warnings = append(warnings, Warning{
				Kind:     WarningCategoryCount,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("You have traits from %d %s categories (%d recommended)", count, label, limit),
				TypeID:   t.ID,
			})
		}

		if count == 0 && !s.IsEmpty() && r.limits.recommends(t.ID) {
			warnings = append(warnings, Warning{
				Kind:     WarningMissingType,
				Severity: SeverityInfo,
				Message:  fmt.Sprintf("Consider selecting at least 1 %s trait", label),
				TypeID:   t.ID,
			})
		}
	}

	return warnings
}

// View computes every derived value for the state
func (r *Rules) View(s State) View {
	traits := r.traits(s)
	points := make(map[string]int, len(traits))
	spent := 0
	for _, t := range traits {
		points[t.ID] = r.TraitPoints(s, t)
		spent += points[t.ID]
	}

	options := make(map[string]string, len(s.SelectedOptions))
	for k, v := range s.SelectedOptions {
		options[k] = v
	}

	return View{
		Traits:          traits,
		Options:         options,
		TraitPoints:     points,
		PointsSpent:     spent,
		PointBudget:     r.limits.PointBudget,
		RemainingPoints: r.limits.PointBudget - spent,
		CategoryCounts:  r.CategoryCounts(s),
		Warnings:        r.Warnings(s),
		LoadedPresetID:  s.LoadedPresetID,
		PresetName:      s.PresetName,
		Version:         s.Version,
	}
}
