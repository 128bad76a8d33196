// ABOUTME: Unix SIGWINCH handling: the "window-size change is delivered as an external event" of spec.md §5
// ABOUTME: Spawns a goroutine that listens for SIGWINCH and drives the resize callback into display.Engine.Resize

//go:build unix

package terminal

import (
	"os"
	"os/signal"
	"syscall"
)

// startResizeListener sets up a SIGWINCH handler that calls the
// resize callback with the new terminal dimensions. The callback chain
// (see cmd/ne-display-demo) ends in display.Engine.Resize followed by
// ResetWindow, so a panic partway through must still restore the
// terminal rather than leave it in raw mode with a broken scroll region.
func (t *ProcessTerminal) startResizeListener() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)

	go func() {
		for range sigCh {
			t.handleResizeSignal()
		}
	}()
}

func (t *ProcessTerminal) handleResizeSignal() {
	t.mu.Lock()
	fn := t.resizeFn
	cursorNormal := t.cursorNormal
	t.mu.Unlock()

	if fn == nil {
		return
	}

	defer RecoverGoroutine(t, cursorNormal)

	w, h, err := t.Size()
	if err != nil {
		return
	}
	fn(w, h)
}
