// Package testutils provides shared fixtures and Redis helpers for tests
package testutils

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/ancestry-builder/internal/redis"
)

// CreateTestRedisClient starts an in-memory Redis and returns a client bound
// to it. Both are closed when the test finishes; the server is returned so
// tests can inspect keys or fast-forward TTLs.
func CreateTestRedisClient(t testing.TB) (redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	client, err := redis.NewClient(mr.Addr(), nil)
	require.NoError(t, err, "failed to create redis client")
	t.Cleanup(func() {
		_ = client.Close()
	})

	return client, mr
}

// CreateTestRedisClientWithData is CreateTestRedisClient with a hook to seed
// the server before the client connects
func CreateTestRedisClientWithData(t testing.TB, seed func(mr *miniredis.Miniredis)) (redis.Client, *miniredis.Miniredis) {
	t.Helper()

	client, mr := CreateTestRedisClient(t)
	if seed != nil {
		seed(mr)
	}
	return client, mr
}
