package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client is the subset of go-redis the repositories depend on. Any
// redis.UniversalClient satisfies it.
type Client interface {
	redis.Cmdable
	Close() error
}

// Pipeliner is a queued batch of commands
type Pipeliner interface {
	redis.Pipeliner
}

// Nil is returned by reads of missing keys
const Nil = redis.Nil
