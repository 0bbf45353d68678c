// Package besttime records personal-best kill times per boss on top of a
// settings backend.
package besttime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/udisondev/bosstimers/internal/game/boss"
	"github.com/udisondev/bosstimers/internal/settings"
)

// Fallback is the best time assumed when none is stored or it cannot be read.
const Fallback = time.Hour

var (
	ErrUnbound      = errors.New("besttime: boss has no binding")
	ErrKeyCollision = errors.New("besttime: storage key collision")
	ErrInvalid      = errors.New("besttime: stored value is not positive")
)

// Binding is the typed accessor pair for one boss.
type Binding struct {
	Key   string
	Read  func(ctx context.Context) (time.Duration, error)
	Write func(ctx context.Context, d time.Duration) error
}

// Store resolves every boss to its binding. Bindings are built once in New.
type Store struct {
	bindings map[string]Binding
}

// Key derives the settings key for a boss name: first rune lower-cased,
// whitespace and punctuation dropped, "PB" appended.
// "Kree'arra" → "kreearraPB", "General Graardor" → "generalGraardorPB".
func Key(name string) string {
	var sb strings.Builder
	sb.Grow(len(name) + 2)
	first := true
	for _, r := range name {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			continue
		}
		if first {
			r = unicode.ToLower(r)
			first = false
		}
		sb.WriteRune(r)
	}
	sb.WriteString("PB")
	return sb.String()
}

// New binds every boss in catalog to s and checks the bindings are complete
// and collision-free.
func New(catalog []*boss.Boss, s settings.Settings) (*Store, error) {
	st := &Store{bindings: make(map[string]Binding, len(catalog))}
	owners := make(map[string]string, len(catalog))

	for _, b := range catalog {
		key := Key(b.Name)
		if key == "PB" {
			return nil, fmt.Errorf("%w: %q derives empty key", ErrUnbound, b.Name)
		}
		if other, dup := owners[key]; dup {
			return nil, fmt.Errorf("%w: %q and %q both map to %s", ErrKeyCollision, other, b.Name, key)
		}
		owners[key] = b.Name
		st.bindings[b.Name] = Binding{
			Key: key,
			Read: func(ctx context.Context) (time.Duration, error) {
				return s.ReadDuration(ctx, key)
			},
			Write: func(ctx context.Context, d time.Duration) error {
				return s.WriteDuration(ctx, key, d)
			},
		}
	}
	return st, nil
}

// Binding returns the accessor pair for b.
func (s *Store) Binding(b *boss.Boss) (Binding, bool) {
	bind, ok := s.bindings[b.Name]
	return bind, ok
}

// Read returns the stored best time for b truncated to whole seconds,
// or Fallback if it is missing, unreadable or not positive.
func (s *Store) Read(ctx context.Context, b *boss.Boss) time.Duration {
	d, err := s.read(ctx, b)
	if err != nil {
		if errors.Is(err, settings.ErrNotFound) {
			slog.Debug("no stored best time, using fallback", "boss", b.Name, "fallback", Fallback)
		} else {
			slog.Warn("reading best time, using fallback", "boss", b.Name, "error", err)
		}
		return Fallback
	}
	slog.Debug("loaded best time", "boss", b.Name, "best", d)
	return d
}

func (s *Store) read(ctx context.Context, b *boss.Boss) (time.Duration, error) {
	bind, ok := s.bindings[b.Name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnbound, b.Name)
	}
	d, err := bind.Read(ctx)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", bind.Key, err)
	}
	d = d.Truncate(time.Second)
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s = %v", ErrInvalid, bind.Key, d)
	}
	return d, nil
}

// Write persists d as the new best time for b. Failures are logged and dropped.
func (s *Store) Write(ctx context.Context, b *boss.Boss, d time.Duration) {
	bind, ok := s.bindings[b.Name]
	if !ok {
		slog.Warn("best time not saved", "boss", b.Name, "error", ErrUnbound)
		return
	}
	if err := bind.Write(ctx, d); err != nil {
		slog.Warn("best time not saved", "boss", b.Name, "key", bind.Key, "error", err)
		return
	}
	slog.Info("new best time saved", "boss", b.Name, "best", d)
}
