package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Backend is a Settings implementation that can also enumerate its contents.
type Backend interface {
	Settings
	LoadAll(ctx context.Context) (map[string]time.Duration, error)
}

// Cached serves reads from memory and batches writes to a slower backend.
//
// Reads and writes never touch the backend, so callers on the engine loop do
// not block on I/O. Dirty keys are flushed by Run every interval and once
// more when Run's context is canceled.
type Cached struct {
	backend  Backend
	interval time.Duration

	mu     sync.Mutex
	values map[string]time.Duration
	dirty  map[string]time.Duration
}

// NewCached wraps backend. Call Load before serving reads.
func NewCached(backend Backend, interval time.Duration) *Cached {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Cached{
		backend:  backend,
		interval: interval,
		values:   make(map[string]time.Duration),
		dirty:    make(map[string]time.Duration),
	}
}

// Load primes the cache with every value the backend holds.
func (c *Cached) Load(ctx context.Context) error {
	all, err := c.backend.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range all {
		if _, pending := c.dirty[k]; !pending {
			c.values[k] = v
		}
	}
	slog.Info("settings cache loaded", "keys", len(all))
	return nil
}

func (c *Cached) ReadDuration(_ context.Context, key string) (time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.values[key]
	if !ok {
		return 0, ErrNotFound
	}
	return d, nil
}

func (c *Cached) WriteDuration(_ context.Context, key string, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = d
	c.dirty[key] = d
	return nil
}

// Pending returns the number of keys not yet flushed.
func (c *Cached) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.dirty)
}

// Flush writes every dirty key to the backend. Keys that fail stay dirty
// unless they were overwritten meanwhile.
func (c *Cached) Flush(ctx context.Context) error {
	c.mu.Lock()
	batch := c.dirty
	c.dirty = make(map[string]time.Duration, len(batch))
	c.mu.Unlock()

	var errs []error
	for key, d := range batch {
		if err := c.backend.WriteDuration(ctx, key, d); err != nil {
			errs = append(errs, fmt.Errorf("flush %s: %w", key, err))
			c.mu.Lock()
			if _, newer := c.dirty[key]; !newer {
				c.dirty[key] = d
			}
			c.mu.Unlock()
		}
	}

	if len(batch) > 0 {
		slog.Debug("settings flushed", "keys", len(batch), "failed", len(errs))
	}
	return errors.Join(errs...)
}

// Run flushes periodically. Blocks until ctx is canceled.
func (c *Cached) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	slog.Info("settings flush loop started", "interval", c.interval)

	for {
		select {
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			if err := c.Flush(final); err != nil {
				slog.Error("final settings flush", "error", err)
			}
			cancel()
			slog.Info("settings flush loop stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := c.Flush(ctx); err != nil {
				slog.Warn("settings flush", "error", err)
			}
		}
	}
}
