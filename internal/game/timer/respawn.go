package timer

import (
	"time"

	"github.com/udisondev/bosstimers/internal/game/boss"
)

// Respawn counts down from a boss's death to its next spawn.
type Respawn struct {
	boss     *boss.Boss
	clock    Clock
	start    time.Time
	duration time.Duration
}

// NewRespawn starts a countdown for b at the current time.
func NewRespawn(b *boss.Boss, clock Clock) *Respawn {
	if clock == nil {
		clock = time.Now
	}
	return &Respawn{
		boss:     b,
		clock:    clock,
		start:    clock(),
		duration: b.RespawnDelay,
	}
}

func (r *Respawn) Boss() *boss.Boss        { return r.boss }
func (r *Respawn) Start() time.Time        { return r.start }
func (r *Respawn) Duration() time.Duration { return r.duration }

// Remaining goes negative once the respawn window has opened.
func (r *Respawn) Remaining() time.Duration {
	return r.duration - r.clock().Sub(r.start)
}

// Expired reports whether the countdown reached zero.
func (r *Respawn) Expired() bool {
	return r.Remaining() <= 0
}

func (r *Respawn) Text() string {
	return FormatClock(r.Remaining())
}

func (r *Respawn) Color() ColorTier {
	return Neutral
}

func (r *Respawn) Visible() bool {
	return !r.Expired()
}
