package build

import (
	"context"
	stderrors "errors"
	"strings"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/ancestry-builder/internal/errors"
	redisclient "github.com/KirkDiggler/ancestry-builder/internal/redis"
)

// scanBatch is the COUNT hint passed to SCAN
const scanBatch = 100

// ScanOutput reports the stored builds that could not be decoded
type ScanOutput struct {
	Checked int
	// Corrupted holds the Redis keys, not build ids
	Corrupted []string
}

// Scan walks every build key and reports the ones whose payload no longer
// decodes or has no id. Owner index sets are skipped.
func Scan(ctx context.Context, client redisclient.Client) (*ScanOutput, error) {
	if client == nil {
		return nil, errors.InvalidArgument("client is required")
	}

	out := &ScanOutput{Corrupted: []string{}}
	iter := client.Scan(ctx, 0, buildKeyPrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if strings.HasPrefix(key, ownerKeyPrefix) {
			continue
		}

		data, err := client.Get(ctx, key).Result()
		if stderrors.Is(err, redis.Nil) {
			// expired between SCAN and GET
			continue
		}
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read build").
				WithMeta("key", key)
		}

		out.Checked++
		if b, err := decode(data); err != nil || b.ID == "" {
			out.Corrupted = append(out.Corrupted, key)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to scan builds")
	}

	return out, nil
}

// Purge deletes the given build keys. Owner index entries for them are
// pruned the next time the owner's builds are listed.
func Purge(ctx context.Context, client redisclient.Client, keys []string) (int64, error) {
	if client == nil {
		return 0, errors.InvalidArgument("client is required")
	}
	for _, key := range keys {
		if !strings.HasPrefix(key, buildKeyPrefix) || strings.HasPrefix(key, ownerKeyPrefix) {
			return 0, errors.InvalidArgumentf("%s is not a build key", key).WithMeta("key", key)
		}
	}
	if len(keys) == 0 {
		return 0, nil
	}

	n, err := client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to delete builds")
	}
	return n, nil
}
