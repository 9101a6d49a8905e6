package build

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sort"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/ancestry-builder/internal/entities/ancestry"
	"github.com/KirkDiggler/ancestry-builder/internal/errors"
	"github.com/KirkDiggler/ancestry-builder/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/ancestry-builder/internal/redis"
)

const (
	buildKeyPrefix = "build:"
	ownerKeyPrefix = "build:owner:"

	// DefaultTTL applies when a build carries no expiry of its own
	DefaultTTL = 24 * time.Hour

	errBuildNil      = "build cannot be nil"
	errBuildIDEmpty  = "build ID cannot be empty"
	errOwnerIDEmpty  = "owner ID cannot be empty"
	errBuildExpired  = "build has already expired"
	errBuildNotFound = "build with ID %s not found"
)

// RedisConfig configures the Redis repository
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
	// TTL defaults to DefaultTTL
	TTL time.Duration
}

// Validate ensures the config is usable
func (c *RedisConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.TTL < 0 {
		vb.Field("TTL", "must not be negative")
	}
	return vb.Build()
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
	ttl    time.Duration
}

// NewRedisRepository creates a Redis-backed build repository
func NewRedisRepository(cfg *RedisConfig) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid redis repository config")
	}

	repo := &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
		ttl:    cfg.TTL,
	}
	if repo.clock == nil {
		repo.clock = clock.New()
	}
	if repo.ttl == 0 {
		repo.ttl = DefaultTTL
	}
	return repo, nil
}

func buildKey(id string) string {
	return buildKeyPrefix + id
}

func ownerKey(ownerID string) string {
	return ownerKeyPrefix + ownerID
}

// ttlFor derives the key expiry from the build's own deadline when it has one
func (r *redisRepository) ttlFor(b *ancestry.Build) (time.Duration, error) {
	if b.ExpiresAt == 0 {
		return r.ttl, nil
	}
	ttl := time.Unix(b.ExpiresAt, 0).Sub(r.clock.Now())
	if ttl <= 0 {
		return 0, errors.InvalidArgument(errBuildExpired)
	}
	return ttl, nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Build == nil {
		return nil, errors.InvalidArgument(errBuildNil)
	}
	if input.Build.ID == "" {
		return nil, errors.InvalidArgument(errBuildIDEmpty)
	}
	if input.Build.OwnerID == "" {
		return nil, errors.InvalidArgument(errOwnerIDEmpty)
	}

	ttl, err := r.ttlFor(input.Build)
	if err != nil {
		return nil, err
	}

	key := buildKey(input.Build.ID)
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to check existing build")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("build with ID %s already exists", input.Build.ID)
	}

	data, err := json.Marshal(input.Build)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal build")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, ttl)
	pipe.SAdd(ctx, ownerKey(input.Build.OwnerID), input.Build.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to create build")
	}

	return &CreateOutput{Build: input.Build}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errBuildIDEmpty)
	}

	result, err := r.client.Get(ctx, buildKey(input.ID)).Result()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, errors.NotFoundf(errBuildNotFound, input.ID).WithMeta("build_id", input.ID)
		}
		return nil, errors.Wrap(err, "failed to get build")
	}

	b, err := decode(result)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read build %s", input.ID)
	}

	return &GetOutput{Build: b}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.Build == nil {
		return nil, errors.InvalidArgument(errBuildNil)
	}
	if input.Build.ID == "" {
		return nil, errors.InvalidArgument(errBuildIDEmpty)
	}

	ttl, err := r.ttlFor(input.Build)
	if err != nil {
		return nil, err
	}

	key := buildKey(input.Build.ID)
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf(errBuildNotFound, input.Build.ID).WithMeta("build_id", input.Build.ID)
	}

	data, err := json.Marshal(input.Build)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal build")
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to update build")
	}

	return &UpdateOutput{Build: input.Build}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errBuildIDEmpty)
	}

	existing, err := r.Get(ctx, GetInput(input))
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, buildKey(input.ID))
	if existing.Build.OwnerID != "" {
		pipe.SRem(ctx, ownerKey(existing.Build.OwnerID), input.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to delete build")
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) ListByOwner(ctx context.Context, input ListByOwnerInput) (*ListByOwnerOutput, error) {
	if input.OwnerID == "" {
		return nil, errors.InvalidArgument(errOwnerIDEmpty)
	}

	idxKey := ownerKey(input.OwnerID)
	ids, err := r.client.SMembers(ctx, idxKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read owner index")
	}
	if len(ids) == 0 {
		return &ListByOwnerOutput{Builds: []*ancestry.Build{}}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = buildKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load builds")
	}

	builds := make([]*ancestry.Build, 0, len(values))
	var stale []any
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		b, err := decode(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read build %s", ids[i])
		}
		builds = append(builds, b)
	}

	// Expired builds leave their id in the index; drop them lazily.
	if len(stale) > 0 {
		if err := r.client.SRem(ctx, idxKey, stale...).Err(); err != nil {
			return nil, errors.Wrap(err, "failed to prune owner index")
		}
	}

	sort.Slice(builds, func(i, j int) bool {
		if builds[i].CreatedAt == builds[j].CreatedAt {
			return builds[i].ID < builds[j].ID
		}
		return builds[i].CreatedAt < builds[j].CreatedAt
	})

	return &ListByOwnerOutput{Builds: builds}, nil
}

func decode(raw string) (*ancestry.Build, error) {
	var b ancestry.Build
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to unmarshal build")
	}
	return &b, nil
}
