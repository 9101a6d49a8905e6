package builder_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/ancestry-builder/internal/engine/selection"
	"github.com/KirkDiggler/ancestry-builder/internal/errors"
	"github.com/KirkDiggler/ancestry-builder/internal/orchestrators/builder"
	"github.com/KirkDiggler/ancestry-builder/internal/pkg/clock"
	"github.com/KirkDiggler/ancestry-builder/internal/pkg/idgen"
	buildrepo "github.com/KirkDiggler/ancestry-builder/internal/repositories/build"
	"github.com/KirkDiggler/ancestry-builder/internal/testutils"
)

func TestBuildSessionAgainstRedis(t *testing.T) {
	ctx := context.Background()
	client, mr := testutils.CreateTestRedisClient(t)
	clk := clock.NewFixed(time.Now().UTC().Truncate(time.Second))

	repo, err := buildrepo.NewRedisRepository(&buildrepo.RedisConfig{Client: client, Clock: clk})
	require.NoError(t, err)

	service, err := builder.NewOrchestrator(&builder.Config{
		Catalog:     testutils.MustCatalog(t),
		Repository:  repo,
		IDGenerator: idgen.NewUUID("build"),
		Clock:       clk,
		SessionTTL:  30 * time.Minute,
	})
	require.NoError(t, err)

	started, err := service.StartBuild(ctx, &builder.StartBuildInput{OwnerID: "owner_1", ApplyDefaults: true})
	require.NoError(t, err)
	buildID := started.Build.ID
	assert.Equal(t, 30*time.Minute, mr.TTL("build:"+buildID))

	for _, cmd := range []selection.Command{
		selection.SelectTrait{TraitID: testutils.TraitDraconicAncestry},
		selection.SetOption{TraitID: testutils.TraitDraconicAncestry, OptionID: "gold"},
		selection.SelectTrait{TraitID: testutils.TraitBreathWeapon},
		selection.ToggleTrait{TraitID: testutils.TraitWanderer},
	} {
		out, err := service.ApplyCommand(ctx, &builder.ApplyCommandInput{BuildID: buildID, Command: cmd})
		require.NoError(t, err)
		require.True(t, out.Changed, "command %s", cmd.Name())
	}

	got, err := service.GetBuild(ctx, &builder.GetBuildInput{BuildID: buildID})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), got.Build.Version)
	assert.Equal(t, 6, got.View.PointsSpent)
	assert.True(t, got.View.Complete())

	// removing the ancestry drops the breath weapon with it
	_, err = service.ApplyCommand(ctx, &builder.ApplyCommandInput{
		BuildID: buildID,
		Command: selection.DeselectTrait{TraitID: testutils.TraitDraconicAncestry},
	})
	require.NoError(t, err)

	got, err = service.GetBuild(ctx, &builder.GetBuildInput{BuildID: buildID})
	require.NoError(t, err)
	assert.Equal(t, []string{testutils.TraitSizeMedium, testutils.TraitWanderer}, got.Build.SelectedTraitIDs)
	assert.Empty(t, got.Build.SelectedOptions)

	listed, err := service.ListBuilds(ctx, &builder.ListBuildsInput{OwnerID: "owner_1"})
	require.NoError(t, err)
	require.Len(t, listed.Builds, 1)
	assert.Equal(t, buildID, listed.Builds[0].Build.ID)

	mr.FastForward(time.Hour)
	_, err = service.GetBuild(ctx, &builder.GetBuildInput{BuildID: buildID})
	assert.True(t, errors.IsNotFound(err))
}
