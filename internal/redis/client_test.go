package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/ancestry-builder/internal/errors"
	"github.com/KirkDiggler/ancestry-builder/internal/redis"
)

func TestNewClient(t *testing.T) {
	t.Run("requires an endpoint", func(t *testing.T) {
		_, err := redis.NewClient("", nil)
		require.Error(t, err)
		assert.True(t, errors.IsInvalidArgument(err))
	})

	t.Run("talks to a server", func(t *testing.T) {
		mr := miniredis.RunT(t)

		client, err := redis.NewClient(mr.Addr(), &redis.Options{PoolSize: 2})
		require.NoError(t, err)
		defer client.Close()

		require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
		got, err := mr.Get("k")
		require.NoError(t, err)
		assert.Equal(t, "v", got)
	})
}

func TestNewClientFromURL(t *testing.T) {
	mr := miniredis.RunT(t)

	testCases := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "bare endpoint", url: mr.Addr()},
		{name: "redis url", url: "redis://" + mr.Addr() + "/0"},
		{name: "empty", url: "", wantErr: true},
		{name: "bad scheme", url: "http://" + mr.Addr(), wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client, err := redis.NewClientFromURL(tc.url)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsInvalidArgument(err))
				return
			}
			require.NoError(t, err)
			defer client.Close()

			assert.NoError(t, client.Ping(context.Background()).Err())
		})
	}
}
