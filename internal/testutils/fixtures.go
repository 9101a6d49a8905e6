package testutils

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/ancestry-builder/internal/catalog"
	"github.com/KirkDiggler/ancestry-builder/internal/entities/ancestry"
)

// Fixture trait ids used across package tests
const (
	TraitSizeSmall          = "size-small"
	TraitSizeMedium         = "size-medium"
	TraitSpeedFast          = "speed-fast"
	TraitDarkvision         = "darkvision-60"
	TraitSuperiorDarkvision = "superior-darkvision"
	TraitFiendishLegacy     = "fiendish-legacy"
	TraitHellishResistance  = "hellish-resistance"
	TraitInfernalWings      = "infernal-wings"
	TraitDraconicAncestry   = "draconic-ancestry"
	TraitBreathWeapon       = "breath-weapon"
	TraitKeenSmell          = "keen-smell"
	TraitPackTactics        = "pack-tactics"
	TraitFeyStep            = "fey-step"
	TraitTrance             = "trance"
	TraitWanderer           = "wanderer"
	TraitLoreKeeper         = "lore-keeper"
	TraitStreetwise         = "streetwise"
	TraitLoneWolf           = "lone-wolf"
	TraitWeaponTraining     = "weapon-training"

	CategorySize     = "size"
	CategoryFiendish = "fiendish"
	CategoryDraconic = "draconic"

	PresetTiefling = "tiefling"
	PresetKobold   = "kobold"
)

// Points returns a pointer for the optional points field
func Points(p int) *int {
	return &p
}

// AncestryDocument returns a fresh copy of the fixture catalog document.
//
// Layout:
//   - core: size (required, radio small/medium, medium default), speed, darkvision
//   - heritage (max 2 categories): fiendish (requiredTrait fiendish-legacy),
//     draconic (option-priced ancestry), bestial, feywild
//   - culture (max 2, recommended): nomad, scholar, urban, martial
func AncestryDocument() *ancestry.Document {
	return &ancestry.Document{
		PointBudget: 16,
		TraitTypes: []ancestry.TraitType{
			{
				ID:   ancestry.TypeCore,
				Name: "Core Attributes",
				Categories: []ancestry.Category{
					{
						ID:       CategorySize,
						Name:     "Size",
						Required: true,
						Traits: []ancestry.Trait{
							{ID: TraitSizeSmall, Name: "Small", Points: Points(0), Excludes: []string{TraitSizeMedium}},
							{ID: TraitSizeMedium, Name: "Medium", Points: Points(0), Excludes: []string{TraitSizeSmall}, Default: true},
						},
					},
					{
						ID:   "speed",
						Name: "Speed",
						Traits: []ancestry.Trait{
							{ID: TraitSpeedFast, Name: "Fast", Points: Points(2)},
						},
					},
					{
						ID:   "darkvision",
						Name: "Darkvision",
						Traits: []ancestry.Trait{
							{ID: TraitDarkvision, Name: "Darkvision", Points: Points(1)},
							{ID: TraitSuperiorDarkvision, Name: "Superior Darkvision", Points: Points(2), Requires: []string{TraitDarkvision}},
						},
					},
				},
			},
			{
				ID:            ancestry.TypeHeritage,
				Name:          "Heritage",
				MaxCategories: 2,
				Categories: []ancestry.Category{
					{
						ID:            CategoryFiendish,
						Name:          "Fiendish",
						Label:         "Planar Ancestry",
						RequiredTrait: TraitFiendishLegacy,
						Traits: []ancestry.Trait{
							{ID: TraitFiendishLegacy, Name: "Fiendish Legacy", Points: Points(1), Required: true},
							{ID: TraitHellishResistance, Name: "Hellish Resistance", Points: Points(2)},
							{ID: TraitInfernalWings, Name: "Infernal Wings", Points: Points(3), Requires: []string{TraitHellishResistance}},
						},
					},
					{
						ID:    CategoryDraconic,
						Name:  "Draconic",
						Label: "Planar Ancestry",
						Traits: []ancestry.Trait{
							{
								ID:             TraitDraconicAncestry,
								Name:           "Draconic Ancestry",
								RequiresOption: true,
								Options: []ancestry.Option{
									{ID: "red", Name: "Red", Points: 1},
									{ID: "gold", Name: "Gold", Points: 3},
								},
							},
							{ID: TraitBreathWeapon, Name: "Breath Weapon", Points: Points(2), Requires: []string{TraitDraconicAncestry}},
						},
					},
					{
						ID:    "bestial",
						Name:  "Bestial",
						Label: "Bestial Ancestry",
						Traits: []ancestry.Trait{
							{ID: TraitKeenSmell, Name: "Keen Smell", Points: Points(1)},
							{ID: TraitPackTactics, Name: "Pack Tactics", Points: Points(2), Excludes: []string{TraitLoneWolf}},
						},
					},
					{
						ID:   "feywild",
						Name: "Feywild",
						Traits: []ancestry.Trait{
							{ID: TraitFeyStep, Name: "Fey Step", Points: Points(3)},
							{ID: TraitTrance, Name: "Trance", Points: Points(1)},
						},
					},
				},
			},
			{
				ID:            ancestry.TypeCulture,
				Name:          "Culture",
				MaxCategories: 2,
				Recommended:   true,
				Categories: []ancestry.Category{
					{ID: "nomad", Name: "Nomad", Traits: []ancestry.Trait{{ID: TraitWanderer, Name: "Wanderer", Points: Points(1)}}},
					{ID: "scholar", Name: "Scholar", Traits: []ancestry.Trait{{ID: TraitLoreKeeper, Name: "Lore Keeper", Points: Points(2)}}},
					{
						ID:   "urban",
						Name: "Urban",
						Traits: []ancestry.Trait{
							{ID: TraitStreetwise, Name: "Streetwise", Points: Points(1)},
							{ID: TraitLoneWolf, Name: "Lone Wolf", Points: Points(-1)},
						},
					},
					{ID: "martial", Name: "Martial", Traits: []ancestry.Trait{{ID: TraitWeaponTraining, Name: "Weapon Training", Points: Points(2)}}},
				},
			},
		},
		Presets: []ancestry.Preset{
			{
				ID:   PresetTiefling,
				Name: "Tiefling",
				Traits: []ancestry.TraitRef{
					{ID: TraitSizeMedium},
					{ID: TraitFiendishLegacy},
					{ID: TraitHellishResistance},
					{ID: TraitDarkvision},
					{ID: "retired-trait"},
				},
				Archetypes: []ancestry.Archetype{
					{ID: "winged", Name: "Winged", Traits: []ancestry.TraitRef{{ID: TraitInfernalWings}}},
				},
			},
			{
				ID:   PresetKobold,
				Name: "Kobold",
				Traits: []ancestry.TraitRef{
					{ID: TraitDraconicAncestry, Option: "red"},
					{ID: TraitPackTactics},
				},
			},
		},
	}
}

// MustCatalog builds the fixture catalog (or the given documents) and fails the test on error
func MustCatalog(t testing.TB, docs ...*ancestry.Document) *catalog.Catalog {
	t.Helper()
	if len(docs) == 0 {
		docs = []*ancestry.Document{AncestryDocument()}
	}
	cat, err := catalog.Build(docs...)
	require.NoError(t, err, "failed to build fixture catalog")
	return cat
}
