package boss

import (
	"slices"
	"time"
)

// Family groups adversaries that are fought concurrently and share one slot array.
type Family string

const (
	// Solo is the empty family: the adversary owns the whole slot array.
	Solo           Family = ""
	DagannothKings Family = "Dagannoth Kings"
)

// Capacity returns the slot array size allocated when a member of the family
// starts the first encounter.
func (f Family) Capacity() int {
	if f == Solo {
		return 1
	}
	return 3
}

// Boss is an immutable catalog entry.
type Boss struct {
	Name         string
	RespawnDelay time.Duration
	Icon         string // item sprite reference used by the renderer
	Family       Family

	// Regions lists the map regions where an encounter stays valid.
	// Empty means the encounter is not region-constrained.
	Regions []int

	// InstanceExempt keeps the encounter valid inside a personal instanced
	// area unless clear-on-teleport is enabled.
	InstanceExempt bool

	// SpawnByAnimation bosses never start an encounter on spawn; their
	// StartAnimations do instead.
	SpawnByAnimation bool

	// DeathWithoutDespawn bosses keep their encounter on a non-death despawn;
	// the region policy clears it instead.
	DeathWithoutDespawn bool

	// NoRespawnTimer bosses end via a special mechanic with no predictable respawn.
	NoRespawnTimer bool

	StartAnimations []int
	EndAnimations   []int
}

// IsFamily reports whether the boss shares its slot array with siblings.
func (b *Boss) IsFamily() bool {
	return b.Family != Solo
}

// ValidIn reports whether an encounter with b stays valid in region.
func (b *Boss) ValidIn(region int) bool {
	if len(b.Regions) == 0 {
		return true
	}
	return slices.Contains(b.Regions, region)
}

// StartsOn reports whether animationID marks the start of combat.
func (b *Boss) StartsOn(animationID int) bool {
	return slices.Contains(b.StartAnimations, animationID)
}

// EndsOn reports whether animationID marks the end of combat without a kill.
func (b *Boss) EndsOn(animationID int) bool {
	return slices.Contains(b.EndAnimations, animationID)
}
