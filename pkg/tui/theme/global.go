// ABOUTME: Lock-free active theme pointer shared between the config watcher and status-line draws
// ABOUTME: Current() returns the active theme; Set() swaps it atomically so a reload never torn-reads

package theme

import "sync/atomic"

var current atomic.Pointer[Theme]

func init() {
	p := DefaultPalette()
	current.Store(&Theme{Name: "default", Palette: p})
}

// Current returns the theme the status line should draw with. Safe to
// call from the config watcher's goroutine, a resize callback's
// goroutine, and the main loop at once; never returns nil.
func Current() *Theme {
	return current.Load()
}

// Set atomically replaces the active theme, e.g. when config.Watcher
// observes ColorPalette change on disk. Readers via Current never see a
// partially-updated Theme.
func Set(t *Theme) {
	current.Store(t)
}
