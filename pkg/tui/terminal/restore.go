// ABOUTME: Panic recovery that restores the terminal before the process or a goroutine gives up
// ABOUTME: Guarantees the scoped-resource rule from spec.md §5: raw mode never survives an abnormal exit

package terminal

import (
	"fmt"
	"os"
	"runtime/debug"
)

// defaultCursorNormal is the fallback cursor-show sequence used when no
// terminal.Capabilities.CursorNormal string is available (the terminfo
// entry has none, or the caller never provided one at all). It matches
// ANSIProfile's own CursorNormal.
const defaultCursorNormal = "\x1b[?25h"

// RestoreOnPanic should be deferred at the top of main (or any
// goroutine that owns the terminal). On panic it shows the cursor using
// the Capability Table's cursor_normal string (falling back to the
// ANSI default if cursorNormal is empty), exits raw mode via the
// provided Terminal, prints the panic value and stack trace, then exits
// with code 1.
func RestoreOnPanic(t Terminal, cursorNormal string) {
	r := recover()
	if r == nil {
		return
	}

	showCursor(cursorNormal)
	_ = t.ExitRawMode()

	fmt.Fprintf(os.Stderr, "\npanic: %v\n\n%s\n", r, debug.Stack())
	os.Exit(1)
}

// RecoverGoroutine should be deferred at the top of background goroutines
// that run while the terminal is in raw mode. Unlike RestoreOnPanic it
// does NOT call os.Exit, allowing the main goroutine to handle shutdown.
func RecoverGoroutine(t Terminal, cursorNormal string) {
	r := recover()
	if r == nil {
		return
	}

	showCursor(cursorNormal)
	_ = t.ExitRawMode()

	fmt.Fprintf(os.Stderr, "\ngoroutine panic: %v\n\n%s\n", r, debug.Stack())
}

// showCursor is a best-effort write straight to os.Stdout: by the time a
// panic unwinds this far the display.Engine's own output pipeline cannot
// be trusted to still be reachable.
func showCursor(cursorNormal string) {
	seq := cursorNormal
	if seq == "" {
		seq = defaultCursorNormal
	}
	_, _ = os.Stdout.Write([]byte(seq))
}
