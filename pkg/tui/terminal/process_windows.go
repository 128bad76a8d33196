// ABOUTME: Windows stub for ProcessTerminal's SIGWINCH-equivalent resize source
// ABOUTME: Windows has no SIGWINCH; until wired, the demo only observes geometry at startup

//go:build windows

package terminal

// startResizeListener is a no-op on Windows. Without it, a mid-session
// window resize leaves display.Engine's believed geometry stale until
// the process restarts — acceptable for the demo, not for a real editor.
// TODO: wire SetConsoleMode+ReadConsoleInput to detect resize events.
func (t *ProcessTerminal) startResizeListener() {
}
