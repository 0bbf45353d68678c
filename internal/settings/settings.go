// Package settings defines the key-value contract used to persist best times
// and the backends that implement it.
package settings

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no value has ever been stored under a key.
var ErrNotFound = errors.New("settings: key not found")

// Settings reads and writes durations by key.
type Settings interface {
	ReadDuration(ctx context.Context, key string) (time.Duration, error)
	WriteDuration(ctx context.Context, key string, d time.Duration) error
}
