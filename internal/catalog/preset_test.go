package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/ancestry-builder/internal/errors"
	"github.com/KirkDiggler/ancestry-builder/internal/testutils"
)

func TestResolvePreset(t *testing.T) {
	cat := testutils.MustCatalog(t)

	t.Run("drops unknown traits", func(t *testing.T) {
		resolved, err := cat.ResolvePreset(testutils.PresetTiefling, "")
		require.NoError(t, err)

		assert.Equal(t, testutils.PresetTiefling, resolved.ID)
		assert.Equal(t, "Tiefling", resolved.DisplayName)
		assert.Equal(t, []string{
			testutils.TraitSizeMedium,
			testutils.TraitFiendishLegacy,
			testutils.TraitHellishResistance,
			testutils.TraitDarkvision,
		}, resolved.TraitIDs)
		assert.Equal(t, []string{"retired-trait"}, resolved.Dropped)
		assert.Empty(t, resolved.Options)
	})

	t.Run("archetype adds traits", func(t *testing.T) {
		resolved, err := cat.ResolvePreset(testutils.PresetTiefling, "winged")
		require.NoError(t, err)

		assert.Equal(t, "tiefling/winged", resolved.ID)
		assert.Equal(t, "Tiefling (Winged)", resolved.DisplayName)
		assert.Equal(t, testutils.TraitInfernalWings, resolved.TraitIDs[len(resolved.TraitIDs)-1])
	})

	t.Run("keeps chosen options", func(t *testing.T) {
		resolved, err := cat.ResolvePreset(testutils.PresetKobold, "")
		require.NoError(t, err)

		assert.Equal(t, map[string]string{testutils.TraitDraconicAncestry: "red"}, resolved.Options)
		assert.Empty(t, resolved.Dropped)
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, err := cat.ResolvePreset("gnome", "")
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
		assert.Equal(t, "gnome", errors.GetMeta(err)["preset_id"])
	})

	t.Run("unknown archetype", func(t *testing.T) {
		_, err := cat.ResolvePreset(testutils.PresetTiefling, "horned")
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})
}
