// ABOUTME: Test harness for spawning the demo binary under a real pseudo-terminal
// ABOUTME: Grounded on the teacher's e2e session helpers (startPi/send/expectStringTimeout shape)

package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

// session wraps a running demo process attached to a pty, recording
// everything it writes so tests can assert on raw output bytes.
type session struct {
	cmd *exec.Cmd
	pty *os.File

	mu  sync.Mutex
	buf bytes.Buffer
}

// buildDemo compiles cmd/ne-display-demo once per test binary invocation
// and returns the path to the resulting executable.
func buildDemo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	bin := filepath.Join(dir, "ne-display-demo")

	build := exec.Command("go", "build", "-o", bin, "./cmd/ne-display-demo")
	build.Dir = repoRoot(t)
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("building demo binary: %v\n%s", err, out)
	}
	return bin
}

func repoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	return filepath.Dir(wd)
}

// startDemo launches the demo binary with the given extra args, attached
// to a new pty sized rows x cols, and begins draining its output.
func startDemo(t *testing.T, cols, rows int, args ...string) *session {
	t.Helper()

	bin := buildDemo(t)
	cmd := exec.Command(bin, args...)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	f, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		t.Fatalf("starting pty: %v", err)
	}

	s := &session{cmd: cmd, pty: f}
	go s.drain()
	return s
}

func (s *session) drain() {
	var chunk [4096]byte
	for {
		n, err := s.pty.Read(chunk[:])
		if n > 0 {
			s.mu.Lock()
			s.buf.Write(chunk[:n])
			s.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

func (s *session) output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

// send writes raw bytes to the pty's controlling side, as if typed.
func (s *session) send(t *testing.T, text string) {
	t.Helper()
	if _, err := s.pty.WriteString(text); err != nil {
		t.Fatalf("writing to pty: %v", err)
	}
}

func (s *session) sendCtrlD(t *testing.T) {
	t.Helper()
	if _, err := s.pty.Write([]byte{0x04}); err != nil {
		t.Fatalf("writing ctrl-d: %v", err)
	}
}

// expectContainsTimeout polls the recorded output until it contains want
// or the timeout elapses.
func (s *session) expectContainsTimeout(t *testing.T, want string, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if bytes.Contains([]byte(s.output()), []byte(want)) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q in output; got:\n%q", want, s.output())
}

// waitExit waits for the process to terminate within timeout.
func (s *session) waitExit(t *testing.T, timeout time.Duration) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- s.cmd.Wait() }()

	select {
	case <-done:
	case <-time.After(timeout):
		s.cmd.Process.Kill()
		t.Fatalf("process did not exit within %s", timeout)
	}
}

func (s *session) close() {
	s.pty.Close()
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
}
