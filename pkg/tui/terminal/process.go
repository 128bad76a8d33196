// ABOUTME: ProcessTerminal is the real-TTY Terminal backing cmd/ne-display-demo, via os.Stdout and golang.org/x/term.
// ABOUTME: Manages raw mode state and delegates platform-specific SIGWINCH handling to startResizeListener.

package terminal

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

// ProcessTerminal is a real terminal backed by os.Stdout and x/term.
type ProcessTerminal struct {
	mu           sync.Mutex
	oldState     *term.State
	resizeFn     func(width, height int)
	cursorNormal string // terminal.Capabilities.CursorNormal, for a panicking resize goroutine
}

// NewProcessTerminal returns a ProcessTerminal ready for use.
func NewProcessTerminal() *ProcessTerminal {
	return &ProcessTerminal{}
}

// SetCursorNormal records the Capability Table's cursor-show sequence so
// a panic in the resize goroutine (see process_unix.go) can restore the
// cursor the same way RestoreOnPanic does on the main goroutine.
func (t *ProcessTerminal) SetCursorNormal(seq string) {
	t.mu.Lock()
	t.cursorNormal = seq
	t.mu.Unlock()
}

// EnterRawMode switches stdin to raw mode, saving the previous state.
func (t *ProcessTerminal) EnterRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	t.oldState = state
	return nil
}

// ExitRawMode restores the terminal to its previous state.
func (t *ProcessTerminal) ExitRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.oldState == nil {
		return nil
	}
	if err := term.Restore(int(os.Stdin.Fd()), t.oldState); err != nil {
		return fmt.Errorf("exiting raw mode: %w", err)
	}
	t.oldState = nil
	return nil
}

// Size returns the current terminal dimensions; cmd/ne-display-demo
// feeds these straight into termcap.Capabilities.Rows/Cols at startup
// and on every OnResize callback.
func (t *ProcessTerminal) Size() (width, height int, err error) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("getting terminal size: %w", err)
	}
	return w, h, nil
}

// Write sends the display engine's encoded byte stream to os.Stdout.
func (t *ProcessTerminal) Write(p []byte) (int, error) {
	n, err := os.Stdout.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to stdout: %w", err)
	}
	return n, nil
}

// OnResize registers a callback invoked when the terminal is resized.
// Platform-specific signal handling is set up by startResizeListener.
func (t *ProcessTerminal) OnResize(fn func(width, height int)) {
	t.mu.Lock()
	t.resizeFn = fn
	t.mu.Unlock()

	t.startResizeListener()
}
