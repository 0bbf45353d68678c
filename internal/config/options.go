package config

import "fmt"

// Option keys as reported in configChanged events.
const (
	KeyKillTimerStyle  = "killTimerStyle"
	KeyClearOnTeleport = "clearCorpKillTimerOnTele"
)

// DisplayMode is how kill timers are shown.
type DisplayMode string

const (
	DisplayOff     DisplayMode = "off"
	DisplayInfoBox DisplayMode = "infobox" // compact badges
	DisplayPanel   DisplayMode = "panel"   // summary panel
)

// Options are the operator-facing toggles. They can change at runtime.
type Options struct {
	DisplayMode     DisplayMode `yaml:"display_mode" env:"DISPLAY_MODE"`
	ClearOnTeleport bool        `yaml:"clear_on_teleport" env:"CLEAR_ON_TELEPORT"`
}

// DefaultOptions matches a fresh install: badges on, teleport keeps corp.
func DefaultOptions() Options {
	return Options{DisplayMode: DisplayInfoBox}
}

// Enabled reports whether kill timers should run at all.
func (o Options) Enabled() bool {
	return o.DisplayMode != DisplayOff
}

// Validate rejects unknown display modes.
func (o Options) Validate() error {
	switch o.DisplayMode {
	case DisplayOff, DisplayInfoBox, DisplayPanel:
		return nil
	default:
		return fmt.Errorf("unknown display mode %q", o.DisplayMode)
	}
}

// Diff returns the keys whose values differ between o and next.
func (o Options) Diff(next Options) []string {
	var keys []string
	if o.DisplayMode != next.DisplayMode {
		keys = append(keys, KeyKillTimerStyle)
	}
	if o.ClearOnTeleport != next.ClearOnTeleport {
		keys = append(keys, KeyClearOnTeleport)
	}
	return keys
}
