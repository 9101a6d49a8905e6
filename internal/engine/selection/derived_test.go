package selection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/ancestry-builder/internal/engine/selection"
	"github.com/KirkDiggler/ancestry-builder/internal/entities/ancestry"
	"github.com/KirkDiggler/ancestry-builder/internal/testutils"
	"github.com/KirkDiggler/ancestry-builder/internal/testutils/builders"
)

type DerivedTestSuite struct {
	suite.Suite
	rules *selection.Rules
}

func (s *DerivedTestSuite) SetupTest() {
	rules, err := selection.NewRules(&selection.RulesConfig{Catalog: testutils.MustCatalog(s.T())})
	s.Require().NoError(err)
	s.rules = rules
}

func (s *DerivedTestSuite) selected(ids ...string) selection.State {
	state := selection.State{}
	for _, id := range ids {
		state = s.rules.Apply(state, selection.SelectTrait{TraitID: id})
	}
	return state
}

func (s *DerivedTestSuite) kinds(warnings []selection.Warning) []string {
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, w.Kind)
	}
	return out
}

func (s *DerivedTestSuite) ofKind(warnings []selection.Warning, kind string) []selection.Warning {
	var out []selection.Warning
	for _, w := range warnings {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}

func (s *DerivedTestSuite) TestPointsSpent() {
	s.Run("option price replaces base points", func() {
		state := s.selected(testutils.TraitDraconicAncestry)
		s.Equal(0, s.rules.PointsSpent(state))

		state = s.rules.Apply(state, selection.SetOption{TraitID: testutils.TraitDraconicAncestry, OptionID: "gold"})
		s.Equal(3, s.rules.PointsSpent(state))

		state = s.rules.Apply(state, selection.SetOption{TraitID: testutils.TraitDraconicAncestry, OptionID: "red"})
		s.Equal(1, s.rules.PointsSpent(state))
		s.Equal(15, s.rules.RemainingPoints(state))
	})

	s.Run("unlisted option costs nothing", func() {
		state := s.selected(testutils.TraitDraconicAncestry)
		state = s.rules.Apply(state, selection.SetOption{TraitID: testutils.TraitDraconicAncestry, OptionID: "silver"})

		s.Equal(0, s.rules.PointsSpent(state))
	})

	s.Run("negative points reduce the total", func() {
		state := s.selected(testutils.TraitStreetwise, testutils.TraitLoneWolf)
		s.Equal(0, s.rules.PointsSpent(state))
	})
}

func (s *DerivedTestSuite) TestCategoryCounts() {
	s.Run("every type is present", func() {
		counts := s.rules.CategoryCounts(selection.State{})
		s.Equal(map[string]int{"core": 0, "heritage": 0, "culture": 0}, counts)
	})

	s.Run("counts distinct categories", func() {
		state := s.selected(
			testutils.TraitSizeMedium,
			testutils.TraitHellishResistance,
			testutils.TraitKeenSmell,
			testutils.TraitPackTactics,
			testutils.TraitStreetwise,
		)

		counts := s.rules.CategoryCounts(state)
		s.Equal(1, counts["core"])
		s.Equal(2, counts["heritage"])
		s.Equal(1, counts["culture"])
	})
}

func (s *DerivedTestSuite) TestWarnings() {
	s.Run("empty selection", func() {
		warnings := s.rules.Warnings(selection.State{})

		s.Equal([]selection.Warning{{
			Kind:       selection.WarningRequiredCategory,
			Severity:   selection.SeverityError,
			Message:    "Size: Select one",
			CategoryID: testutils.CategorySize,
		}}, warnings)
	})

	s.Run("missing type once anything is selected", func() {
		warnings := s.rules.Warnings(s.selected(testutils.TraitSizeMedium))

		s.Equal([]selection.Warning{{
			Kind:     selection.WarningMissingType,
			Severity: selection.SeverityInfo,
			Message:  "Consider selecting at least 1 culture trait",
			TypeID:   ancestry.TypeCulture,
		}}, warnings)
	})

	s.Run("fixed ordering", func() {
		state := s.selected(testutils.TraitDraconicAncestry, testutils.TraitKeenSmell, testutils.TraitFeyStep)

		warnings := s.rules.Warnings(state)
		s.Equal([]string{
			selection.WarningRequiredCategory,
			selection.WarningMissingOption,
			selection.WarningCategoryCount,
			selection.WarningMissingType,
		}, s.kinds(warnings))
		s.Equal("Draconic Ancestry: Select a sub-option", warnings[1].Message)
		s.Equal(testutils.TraitDraconicAncestry, warnings[1].TraitID)
		s.Equal("You have traits from 3 heritage categories (2 recommended)", warnings[2].Message)
		s.Equal(selection.SeverityWarning, warnings[2].Severity)
	})

	s.Run("single over-budget warning that clears", func() {
		state := s.selected(
			testutils.TraitSizeMedium,
			testutils.TraitSpeedFast,
			testutils.TraitDarkvision,
			testutils.TraitSuperiorDarkvision,
			testutils.TraitHellishResistance,
			testutils.TraitInfernalWings,
			testutils.TraitFeyStep,
			testutils.TraitTrance,
			testutils.TraitLoreKeeper,
		)
		s.Require().Equal(17, s.rules.PointsSpent(state))

		over := s.ofKind(s.rules.Warnings(state), selection.WarningOverBudget)
		s.Require().Len(over, 1)
		s.Equal("You have spent 17 points (16 recommended)", over[0].Message)

		state = s.rules.Apply(state, selection.DeselectTrait{TraitID: testutils.TraitTrance})
		s.Equal(16, s.rules.PointsSpent(state))
		s.Empty(s.ofKind(s.rules.Warnings(state), selection.WarningOverBudget))
	})

	s.Run("complete build", func() {
		state := s.selected(testutils.TraitSizeMedium, testutils.TraitWanderer)

		view := s.rules.View(state)
		s.Empty(view.Warnings)
		s.True(view.Complete())
	})
}

func (s *DerivedTestSuite) TestView() {
	state := s.selected(testutils.TraitSizeMedium, testutils.TraitDraconicAncestry)
	state = s.rules.Apply(state, selection.SetOption{TraitID: testutils.TraitDraconicAncestry, OptionID: "gold"})

	view := s.rules.View(state)
	s.Require().Len(view.Traits, 2)
	s.Equal(testutils.TraitSizeMedium, view.Traits[0].ID)
	s.Equal(testutils.TraitDraconicAncestry, view.Traits[1].ID)
	s.Equal(map[string]string{testutils.TraitDraconicAncestry: "gold"}, view.Options)
	s.Equal(3, view.PointsSpent)
	s.Equal(16, view.PointBudget)
	s.Equal(13, view.RemainingPoints)
	s.Equal(state.Version, view.Version)
	s.True(view.Complete())
}

func TestDerivedSuite(t *testing.T) {
	suite.Run(t, new(DerivedTestSuite))
}

func TestPointsAreAdditive(t *testing.T) {
	doc := builders.NewDocumentBuilder().
		WithPointBudget(3).
		WithCategory(ancestry.Category{ID: "a", Traits: []ancestry.Trait{builders.Trait("two", 2)}}).
		WithCategory(ancestry.Category{ID: "b", Traits: []ancestry.Trait{builders.Trait("zero", 0)}}).
		WithCategory(ancestry.Category{ID: "c", Traits: []ancestry.Trait{builders.Trait("minus", -1)}}).
		WithCategory(ancestry.Category{ID: "d", Traits: []ancestry.Trait{builders.Trait("three", 3)}}).
		WithCategory(ancestry.Category{ID: "e", Traits: []ancestry.Trait{{ID: "unpriced", Name: "Unpriced"}}}).
		Build()

	rules, err := selection.NewRules(&selection.RulesConfig{Catalog: testutils.MustCatalog(t, doc)})
	require.NoError(t, err)

	engine := selection.New(rules)
	for _, id := range []string{"two", "zero", "minus", "three", "unpriced"} {
		require.True(t, engine.Select(id), "select %s", id)
	}

	view := engine.View()
	assert.Equal(t, 4, view.PointsSpent)
	assert.Equal(t, -1, view.RemainingPoints)
	require.Len(t, view.Warnings, 1)
	assert.Equal(t, "You have spent 4 points (3 recommended)", view.Warnings[0].Message)
}
