package timer

import (
	"time"

	"github.com/udisondev/bosstimers/internal/game/boss"
)

// Encounter is a running kill stopwatch bound to one boss.
//
// The best-time deadline is fixed when the encounter starts: a kill counts as
// a new best only if it lands strictly before start + best-at-start.
type Encounter struct {
	boss     *boss.Boss
	clock    Clock
	start    time.Time
	best     time.Duration
	deadline time.Time

	ended   bool
	elapsed time.Duration // frozen once ended
}

// NewEncounter starts a stopwatch for b now. best is the stored best time.
func NewEncounter(b *boss.Boss, best time.Duration, clock Clock) *Encounter {
	if clock == nil {
		clock = time.Now
	}
	start := clock()
	return &Encounter{
		boss:     b,
		clock:    clock,
		start:    start,
		best:     best,
		deadline: start.Add(best),
	}
}

func (e *Encounter) Boss() *boss.Boss           { return e.boss }
func (e *Encounter) Start() time.Time           { return e.start }
func (e *Encounter) BestAtStart() time.Duration { return e.best }
func (e *Encounter) Deadline() time.Time        { return e.deadline }
func (e *Encounter) Ended() bool                { return e.ended }

// Clone returns an independent copy safe to read while e keeps changing.
func (e *Encounter) Clone() *Encounter {
	c := *e
	return &c
}

// Elapsed is recomputed on every call until the encounter ends.
func (e *Encounter) Elapsed() time.Duration {
	if e.ended {
		return e.elapsed
	}
	return e.clock().Sub(e.start)
}

// Remaining is the time left before the best-time deadline passes.
func (e *Encounter) Remaining() time.Duration {
	if e.ended {
		return e.best - e.elapsed
	}
	return e.deadline.Sub(e.clock())
}

// IsNewBest reports whether now is strictly before the deadline.
func (e *Encounter) IsNewBest() bool {
	if e.ended {
		return e.elapsed < e.best
	}
	return e.clock().Before(e.deadline)
}

// End freezes the stopwatch and returns the time to record as a new best.
// ok is false unless interacting names this boss and the deadline has not
// passed. Calling End again returns the frozen result.
func (e *Encounter) End(interacting string) (best time.Duration, ok bool) {
	if !e.ended {
		now := e.clock()
		e.elapsed = now.Sub(e.start)
		e.ended = true
	}
	if interacting != e.boss.Name {
		return 0, false
	}
	if !e.IsNewBest() {
		return 0, false
	}
	return e.elapsed, true
}

func (e *Encounter) Text() string {
	return FormatClock(e.Elapsed())
}

// Color is neutral while more than 10% of the best time remains, warning
// from there to the deadline, and danger past it.
func (e *Encounter) Color() ColorTier {
	left := e.Remaining()
	switch {
	case left > e.best/10:
		return Neutral
	case left >= 0:
		return Warning
	default:
		return Danger
	}
}

// Visible is false once the encounter has ended.
func (e *Encounter) Visible() bool {
	return !e.ended
}
