package database

import (
	"context"
	"errors"
)

// KV is the capability set the analytics stores need from a backend.
// Get returns (nil, nil) when the key does not exist.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ErrEmptyKey is returned when a backend is called with an empty key.
var ErrEmptyKey = errors.New("database: empty key")
