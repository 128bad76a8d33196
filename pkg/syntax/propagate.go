// ABOUTME: Syntax State Propagator: re-parses successive lines until a fixed point is reached
// ABOUTME: Ported from display.c's update_syntax_states()

package syntax

import "github.com/vigna-ne/dispd/pkg/buffer"

// Parser is buffer.Parser under this package's name: the external
// collaborator spec.md calls parse(). The type itself lives in
// pkg/buffer so Buffer.Syntax() can return it without an import cycle;
// the core never implements tokenizing itself.
type Parser = buffer.Parser

// Redrawer is invoked for each line that needs its on-screen rendering
// refreshed because propagation changed its content's highlighting.
// row is the line's screen row counted from the row passed to
// Propagate; it is never negative, and it may lie past the visible
// window, so implementations skip rows they do not display.
type Redrawer interface {
	RedrawLine(row int) error
}

// Propagate implements update_syntax_states: starting from line
// startIndex+1, recompute each line's pre-state from the previous line's
// post-state until a line's newly computed pre-state equals its
// previously stored one (a fixed point). While endIndex >= 0 the walk
// does not stop at a fixed point before passing endIndex; it always
// stops at the end of the buffer.
//
// row is the screen row of line startIndex; it increments for each line
// visited so Redrawer.RedrawLine receives that line's row. A negative
// row means no line is redrawn.
func Propagate(b buffer.Buffer, p Parser, r Redrawer, row int, startIndex int, endIndex int) error {
	prevPost := func() (buffer.HighlightState, bool) {
		ld, ok := b.Line(startIndex)
		if !ok {
			return buffer.HighlightState{}, false
		}
		_, post := p.Parse(ld.Bytes(), ld.PreState())
		return post, true
	}

	post, ok := prevPost()
	if !ok {
		return nil
	}

	i := startIndex + 1
	curRow := row
	if curRow >= 0 {
		curRow++
	}

	for {
		ld, ok := b.Line(i)
		if !ok {
			break
		}

		atFixedPoint := ld.PreState().Equal(post)
		pastEnd := endIndex >= 0 && i > endIndex

		if atFixedPoint && (pastEnd || endIndex < 0) {
			break
		}

		ld.SetPreState(post)

		if curRow >= 0 {
			if err := r.RedrawLine(curRow); err != nil {
				return err
			}
		}

		_, post = p.Parse(ld.Bytes(), post)

		i++
		if curRow >= 0 {
			curRow++
		}
	}

	return nil
}
