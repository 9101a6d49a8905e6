package build_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/ancestry-builder/internal/entities/ancestry"
	"github.com/KirkDiggler/ancestry-builder/internal/errors"
	"github.com/KirkDiggler/ancestry-builder/internal/pkg/clock"
	"github.com/KirkDiggler/ancestry-builder/internal/redis"
	"github.com/KirkDiggler/ancestry-builder/internal/repositories/build"
	"github.com/KirkDiggler/ancestry-builder/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	client redis.Client
	mr     *miniredis.Miniredis
	clock  *clock.Fixed
	repo   build.Repository
	ctx    context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	s.client, s.mr = testutils.CreateTestRedisClient(s.T())
	s.clock = clock.NewFixed(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	s.ctx = context.Background()

	repo, err := build.NewRedisRepository(&build.RedisConfig{
		Client: s.client,
		Clock:  s.clock,
		TTL:    time.Hour,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) newBuild(id, owner string, createdAt int64) *ancestry.Build {
	return &ancestry.Build{
		ID:               id,
		OwnerID:          owner,
		Name:             "Ember",
		SelectedTraitIDs: []string{testutils.TraitSizeMedium, testutils.TraitDraconicAncestry},
		SelectedOptions:  map[string]string{testutils.TraitDraconicAncestry: "red"},
		Version:          3,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}
}

func (s *RedisRepositoryTestSuite) TestNewRedisRepository() {
	_, err := build.NewRedisRepository(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = build.NewRedisRepository(&build.RedisConfig{})
	s.True(errors.IsInvalidArgument(err))

	_, err = build.NewRedisRepository(&build.RedisConfig{Client: s.client, TTL: -time.Second})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestCreate() {
	s.Run("stores the build with a TTL and indexes the owner", func() {
		b := s.newBuild("build_1", "owner_1", 100)

		out, err := s.repo.Create(s.ctx, build.CreateInput{Build: b})
		s.Require().NoError(err)
		s.Equal(b, out.Build)

		s.True(s.mr.Exists("build:build_1"))
		s.Equal(time.Hour, s.mr.TTL("build:build_1"))

		members, err := s.mr.Members("build:owner:owner_1")
		s.Require().NoError(err)
		s.Equal([]string{"build_1"}, members)
	})

	s.Run("explicit expiry wins over the default TTL", func() {
		b := s.newBuild("build_2", "owner_1", 100)
		b.ExpiresAt = s.clock.Now().Add(10 * time.Minute).Unix()

		_, err := s.repo.Create(s.ctx, build.CreateInput{Build: b})
		s.Require().NoError(err)
		s.Equal(10*time.Minute, s.mr.TTL("build:build_2"))
	})

	s.Run("duplicate id", func() {
		_, err := s.repo.Create(s.ctx, build.CreateInput{Build: s.newBuild("build_1", "owner_2", 100)})
		s.Require().Error(err)
		s.True(errors.IsAlreadyExists(err))
	})

	s.Run("already expired", func() {
		b := s.newBuild("build_3", "owner_1", 100)
		b.ExpiresAt = s.clock.Now().Add(-time.Minute).Unix()

		_, err := s.repo.Create(s.ctx, build.CreateInput{Build: b})
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("validation", func() {
		_, err := s.repo.Create(s.ctx, build.CreateInput{})
		s.True(errors.IsInvalidArgument(err))

		_, err = s.repo.Create(s.ctx, build.CreateInput{Build: s.newBuild("", "owner_1", 0)})
		s.True(errors.IsInvalidArgument(err))

		_, err = s.repo.Create(s.ctx, build.CreateInput{Build: s.newBuild("build_4", "", 0)})
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *RedisRepositoryTestSuite) TestGet() {
	b := s.newBuild("build_1", "owner_1", 100)
	_, err := s.repo.Create(s.ctx, build.CreateInput{Build: b})
	s.Require().NoError(err)

	s.Run("round trips", func() {
		out, err := s.repo.Get(s.ctx, build.GetInput{ID: "build_1"})
		s.Require().NoError(err)
		s.Equal(b, out.Build)
	})

	s.Run("missing", func() {
		_, err := s.repo.Get(s.ctx, build.GetInput{ID: "build_404"})
		s.Require().Error(err)
		s.True(errors.IsNotFound(err))
		s.Equal("build_404", errors.GetMeta(err)["build_id"])
	})

	s.Run("expired", func() {
		s.mr.FastForward(2 * time.Hour)

		_, err := s.repo.Get(s.ctx, build.GetInput{ID: "build_1"})
		s.True(errors.IsNotFound(err))
	})

	s.Run("corrupt record", func() {
		s.Require().NoError(s.mr.Set("build:broken", "{not json"))

		_, err := s.repo.Get(s.ctx, build.GetInput{ID: "broken"})
		s.Require().Error(err)
		s.True(errors.IsDataLoss(err))
	})

	s.Run("empty id", func() {
		_, err := s.repo.Get(s.ctx, build.GetInput{})
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *RedisRepositoryTestSuite) TestUpdate() {
	b := s.newBuild("build_1", "owner_1", 100)
	_, err := s.repo.Create(s.ctx, build.CreateInput{Build: b})
	s.Require().NoError(err)

	s.Run("replaces and refreshes the TTL", func() {
		s.mr.FastForward(30 * time.Minute)

		updated := *b
		updated.SelectedTraitIDs = []string{testutils.TraitSizeSmall}
		updated.SelectedOptions = nil
		updated.Version = 4

		_, err := s.repo.Update(s.ctx, build.UpdateInput{Build: &updated})
		s.Require().NoError(err)
		s.Equal(time.Hour, s.mr.TTL("build:build_1"))

		out, err := s.repo.Get(s.ctx, build.GetInput{ID: "build_1"})
		s.Require().NoError(err)
		s.Equal(uint64(4), out.Build.Version)
		s.Equal([]string{testutils.TraitSizeSmall}, out.Build.SelectedTraitIDs)
		s.Nil(out.Build.SelectedOptions)
	})

	s.Run("missing", func() {
		_, err := s.repo.Update(s.ctx, build.UpdateInput{Build: s.newBuild("build_404", "owner_1", 0)})
		s.True(errors.IsNotFound(err))
	})

	s.Run("nil build", func() {
		_, err := s.repo.Update(s.ctx, build.UpdateInput{})
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *RedisRepositoryTestSuite) TestDelete() {
	_, err := s.repo.Create(s.ctx, build.CreateInput{Build: s.newBuild("build_1", "owner_1", 100)})
	s.Require().NoError(err)
	_, err = s.repo.Create(s.ctx, build.CreateInput{Build: s.newBuild("build_2", "owner_1", 200)})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, build.DeleteInput{ID: "build_1"})
	s.Require().NoError(err)

	s.False(s.mr.Exists("build:build_1"))
	members, err := s.mr.Members("build:owner:owner_1")
	s.Require().NoError(err)
	s.Equal([]string{"build_2"}, members)

	_, err = s.repo.Delete(s.ctx, build.DeleteInput{ID: "build_1"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Delete(s.ctx, build.DeleteInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestListByOwner() {
	for _, b := range []*ancestry.Build{
		s.newBuild("build_c", "owner_1", 300),
		s.newBuild("build_a", "owner_1", 100),
		s.newBuild("build_b", "owner_1", 100),
		s.newBuild("build_x", "owner_2", 50),
	} {
		_, err := s.repo.Create(s.ctx, build.CreateInput{Build: b})
		s.Require().NoError(err)
	}

	s.Run("oldest first", func() {
		out, err := s.repo.ListByOwner(s.ctx, build.ListByOwnerInput{OwnerID: "owner_1"})
		s.Require().NoError(err)

		ids := make([]string, 0, len(out.Builds))
		for _, b := range out.Builds {
			ids = append(ids, b.ID)
		}
		s.Equal([]string{"build_a", "build_b", "build_c"}, ids)
	})

	s.Run("drops expired entries from the index", func() {
		s.mr.Del("build:build_b")

		out, err := s.repo.ListByOwner(s.ctx, build.ListByOwnerInput{OwnerID: "owner_1"})
		s.Require().NoError(err)
		s.Len(out.Builds, 2)

		members, err := s.mr.Members("build:owner:owner_1")
		s.Require().NoError(err)
		s.ElementsMatch([]string{"build_a", "build_c"}, members)
	})

	s.Run("unknown owner", func() {
		out, err := s.repo.ListByOwner(s.ctx, build.ListByOwnerInput{OwnerID: "owner_404"})
		s.Require().NoError(err)
		s.Empty(out.Builds)
		s.NotNil(out.Builds)
	})

	s.Run("empty owner", func() {
		_, err := s.repo.ListByOwner(s.ctx, build.ListByOwnerInput{})
		s.True(errors.IsInvalidArgument(err))
	})
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}
