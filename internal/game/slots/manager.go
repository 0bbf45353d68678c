// Package slots owns the bounded set of running kill stopwatches.
package slots

import (
	"context"
	"log/slog"
	"time"

	"github.com/udisondev/bosstimers/internal/game/boss"
	"github.com/udisondev/bosstimers/internal/game/timer"
)

// BestTimes is the best-time store as the slot manager sees it.
type BestTimes interface {
	Read(ctx context.Context, b *boss.Boss) time.Duration
	Write(ctx context.Context, b *boss.Boss, d time.Duration)
}

// Manager holds the slot array.
//
// The array is allocated lazily by the first encounter and sized by that
// boss's family: 1 for solo bosses, 3 for a family. Clearing a solo boss
// drops the whole array; clearing a family member only empties its slot.
//
// Not safe for concurrent use: every call comes from the engine loop.
type Manager struct {
	best  BestTimes
	clock timer.Clock

	enabled         bool
	clearOnTeleport bool

	slots []*timer.Encounter // nil until allocated
}

// NewManager creates a manager with encounters enabled.
func NewManager(best BestTimes, clock timer.Clock) *Manager {
	if clock == nil {
		clock = time.Now
	}
	return &Manager{
		best:    best,
		clock:   clock,
		enabled: true,
	}
}

// SetEnabled turns encounter tracking on or off. Disabling does not clear
// running encounters; the caller decides that.
func (m *Manager) SetEnabled(enabled bool) {
	m.enabled = enabled
}

// SetClearOnTeleport controls whether instance-exempt bosses lose their
// encounter as soon as the observer leaves the lair.
func (m *Manager) SetClearOnTeleport(v bool) {
	m.clearOnTeleport = v
}

// Start opens an encounter for b. It returns false when one already exists,
// tracking is disabled, or no slot is free.
func (m *Manager) Start(ctx context.Context, b *boss.Boss) bool {
	if !m.enabled || m.Find(b.Name) != nil {
		return false
	}

	if m.slots == nil {
		m.slots = make([]*timer.Encounter, b.Family.Capacity())
		slog.Debug("kill timer slots allocated", "boss", b.Name, "capacity", len(m.slots))
	}

	for i, e := range m.slots {
		if e != nil {
			continue
		}
		enc := timer.NewEncounter(b, m.best.Read(ctx, b), m.clock)
		m.slots[i] = enc
		slog.Debug("kill timer started",
			"boss", b.Name,
			"slot", i,
			"bestAtStart", enc.BestAtStart())
		return true
	}

	slog.Warn("no free kill timer slot", "boss", b.Name, "capacity", len(m.slots))
	return false
}

// End closes b's encounter. On a kill the elapsed time is saved when it beats
// the best time and the observer was fighting b.
func (m *Manager) End(ctx context.Context, b *boss.Boss, wasKill bool, interacting string) {
	enc := m.Find(b.Name)
	if enc == nil {
		return
	}

	if wasKill {
		if best, ok := enc.End(interacting); ok {
			m.best.Write(ctx, b, best)
		} else {
			slog.Debug("kill time not saved",
				"boss", b.Name,
				"elapsed", enc.Elapsed(),
				"bestAtStart", enc.BestAtStart(),
				"interacting", interacting)
		}
	}

	m.Clear(b)
}

// Clear drops b's encounter without recording anything.
func (m *Manager) Clear(b *boss.Boss) {
	i := m.index(b.Name)
	if i < 0 {
		return
	}

	enc := m.slots[i]
	enc.End("")

	if b.IsFamily() {
		m.slots[i] = nil
		slog.Debug("kill timer cleared", "boss", b.Name, "slot", i, "elapsed", enc.Elapsed())
		return
	}

	m.slots = nil
	slog.Debug("kill timer slots released", "boss", b.Name, "elapsed", enc.Elapsed())
}

// ClearAll drops the whole array.
func (m *Manager) ClearAll() {
	if m.slots == nil {
		return
	}
	for _, e := range m.slots {
		if e != nil {
			e.End("")
		}
	}
	m.slots = nil
	slog.Debug("all kill timers cleared")
}

// EvaluateRegion clears every encounter whose boss is no longer valid in
// region. A family member leaving its lair clears the whole array.
func (m *Manager) EvaluateRegion(region int, instanced bool) {
	m.evaluate(region, instanced, nil)
}

// EvaluateInstanceExempt applies the region policy to instance-exempt bosses
// only. Used when the clear-on-teleport option changes.
func (m *Manager) EvaluateInstanceExempt(region int, instanced bool) {
	m.evaluate(region, instanced, func(b *boss.Boss) bool { return b.InstanceExempt })
}

func (m *Manager) evaluate(region int, instanced bool, only func(*boss.Boss) bool) {
	for _, enc := range m.Active() {
		b := enc.Boss()
		if only != nil && !only(b) {
			continue
		}
		if m.Find(b.Name) == nil {
			continue // dropped with its family earlier in this pass
		}
		if m.validIn(b, region, instanced) {
			continue
		}

		if b.IsFamily() {
			slog.Debug("left family lair, clearing kill timers",
				"boss", b.Name, "family", b.Family, "region", region)
			m.ClearAll()
			return
		}
		slog.Debug("left lair, clearing kill timer", "boss", b.Name, "region", region)
		m.Clear(b)
	}
}

func (m *Manager) validIn(b *boss.Boss, region int, instanced bool) bool {
	if b.ValidIn(region) {
		return true
	}
	return b.InstanceExempt && !m.clearOnTeleport && instanced
}

// Find returns the running encounter for name, or nil.
func (m *Manager) Find(name string) *timer.Encounter {
	if i := m.index(name); i >= 0 {
		return m.slots[i]
	}
	return nil
}

func (m *Manager) index(name string) int {
	if name == "" {
		return -1
	}
	for i, e := range m.slots {
		if e != nil && e.Boss().Name == name {
			return i
		}
	}
	return -1
}

// Active returns the running encounters in slot order.
func (m *Manager) Active() []*timer.Encounter {
	out := make([]*timer.Encounter, 0, len(m.slots))
	for _, e := range m.slots {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Slots returns a copy of the array, empty slots included. Nil when unallocated.
func (m *Manager) Slots() []*timer.Encounter {
	if m.slots == nil {
		return nil
	}
	out := make([]*timer.Encounter, len(m.slots))
	copy(out, m.slots)
	return out
}

// Allocated reports whether the slot array exists.
func (m *Manager) Allocated() bool {
	return m.slots != nil
}

// Capacity is the array size, 0 when unallocated.
func (m *Manager) Capacity() int {
	return len(m.slots)
}
