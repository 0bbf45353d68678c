package dispatch

// Target is the actor the observer is interacting with.
type Target struct {
	Name string
	NPC  bool
}

// Observer is the local player's state as last reported by the host.
// Region is meaningless until RegionKnown is set by a location event.
type Observer struct {
	Region      int
	Instanced   bool
	RegionKnown bool
	Target      Target
}

// HasTarget reports whether the observer is interacting with anything.
func (o Observer) HasTarget() bool {
	return o.Target.Name != ""
}
