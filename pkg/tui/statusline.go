// ABOUTME: Single status-line composer: the one exception to the "no windowing or panes" Non-goal
// ABOUTME: Builds themed, width-clipped status text; never consulted by the core display engine

package tui

import (
	"fmt"

	"github.com/vigna-ne/dispd/pkg/tui/theme"
	"github.com/vigna-ne/dispd/pkg/tui/width"
)

// Status holds the fields the status line reports. The core display
// engine has no notion of these; they are gathered by the editor shell
// (cmd/ne-display-demo) from the buffer it is driving.
type Status struct {
	Name     string
	Row, Col int
	Modified bool
	TabSize  int
	Encoding string
}

// Render composes s into a single line of at most cols visible columns,
// colored by p, with spaces between the left and right fields so it
// exactly fills the row (so a shrinking status never leaves stale text
// behind it).
func Render(s Status, cols int, p theme.Palette) string {
	name := s.Name
	if name == "" {
		name = "[unnamed]"
	}
	modified := ""
	if s.Modified {
		modified = p.Warning.Apply("[modified]")
	}

	left := p.Accent.Apply(name)
	if modified != "" {
		left += " " + modified
	}
	right := p.Muted.Apply(fmt.Sprintf("%d,%-3d  tab=%d  %s", s.Row+1, s.Col+1, s.TabSize, s.Encoding))

	line := pad(left, right, cols)
	return width.TruncateToWidth(line, cols)
}

// pad joins left and right with enough spaces between them to fill cols
// visible columns, measuring through any ANSI color sequences left/right
// may already contain.
func pad(left, right string, cols int) string {
	lw := width.VisibleWidth(left)
	rw := width.VisibleWidth(right)
	gap := cols - lw - rw
	if gap < 1 {
		gap = 1
	}
	out := left
	for i := 0; i < gap; i++ {
		out += " "
	}
	out += right
	return out
}
