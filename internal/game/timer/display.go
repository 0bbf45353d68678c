// Package timer holds the two timers a boss encounter produces: the kill
// stopwatch and the respawn countdown.
package timer

import (
	"fmt"
	"time"
)

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

// ColorTier is the text color the renderer should use for a timer.
type ColorTier int

const (
	Neutral ColorTier = iota
	Warning
	Danger
)

func (c ColorTier) String() string {
	switch c {
	case Warning:
		return "warning"
	case Danger:
		return "danger"
	default:
		return "neutral"
	}
}

// MarshalText renders the tier by name in JSON payloads.
func (c ColorTier) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ColorTier) UnmarshalText(text []byte) error {
	switch string(text) {
	case "neutral":
		*c = Neutral
	case "warning":
		*c = Warning
	case "danger":
		*c = Danger
	default:
		return fmt.Errorf("unknown color tier %q", text)
	}
	return nil
}

// Displayable is what the renderer needs from any timer.
type Displayable interface {
	Text() string
	Color() ColorTier
	Visible() bool
}

var (
	_ Displayable = (*Encounter)(nil)
	_ Displayable = (*Respawn)(nil)
)

// FormatClock renders d as m:ss. Minutes wrap at one hour, matching the
// in-game stopwatch. Negative durations render as 0:00.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int64(d / time.Second)
	minutes := (seconds % 3600) / 60
	return fmt.Sprintf("%d:%02d", minutes, seconds%60)
}
