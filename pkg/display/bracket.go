// ABOUTME: automatch_bracket highlight: four independently togglable XOR transforms plus brightness swap
// ABOUTME: Ported from display.c's automatch_bracket()

package display

import (
	"github.com/vigna-ne/dispd/pkg/attr"
	"github.com/vigna-ne/dispd/pkg/encode"
)

// BracketTransform configures which transforms are XORed into the
// matched bracket's attribute, matching the source's configurable
// automatch bitmask (&1 brightness swap, &2 inverse, &4 bold, &8 underline).
type BracketTransform struct {
	SwapBrightness bool
	Inverse        bool
	Bold           bool
	Underline      bool
}

// bracketState retains the cell's character and original attribute
// across show/hide calls, since automatch_bracket's hide path must
// restore exactly what show replaced.
type bracketState struct {
	active   bool
	row, col int
	char     rune
	original attr.Attr
}

// AutomatchBracket renders or restores the highlight on the matching
// bracket character c at (row,col), discovered by the caller (bracket
// matching itself is an external collaborator's concern, not this
// engine's). show=true rewrites the cell under the transformed
// attribute; show=false rewrites it under the attribute it had before.
func (e *Engine) AutomatchBracket(row, col int, c rune, original attr.Attr, t BracketTransform, show bool) {
	if !show {
		if !e.bracket.active {
			return
		}
		e.drawBracketCell(e.bracket.row, e.bracket.col, e.bracket.char, e.bracket.original)
		e.bracket.active = false
		return
	}

	highlighted := applyBracketTransform(original, t)
	e.bracket = bracketState{active: true, row: row, col: col, char: c, original: original}
	e.drawBracketCell(row, col, c, highlighted)
}

func (e *Engine) drawBracketCell(row, col int, c rune, a attr.Attr) {
	w := encode.Width(c)
	if w < 1 {
		w = 1
	}
	e.moveTo(row, col)
	e.write(e.attrs.Set(a))
	e.write(e.enc.Chars([]rune{c}, a, w))
	e.planner.NoteWrote(w)
}

func applyBracketTransform(a attr.Attr, t BracketTransform) attr.Attr {
	var flags uint32
	if t.Inverse {
		flags |= attr.INVERSE
	}
	if t.Bold {
		flags |= attr.BOLD
	}
	if t.Underline {
		flags |= attr.UNDERLINE
	}
	out := a.Xor(flags)

	if t.SwapBrightness {
		if fg, ok := out.FG(); ok {
			out = out.WithFG(attr.SwapBrightness(fg))
		}
		if bg, ok := out.BG(); ok {
			out = out.WithBG(attr.SwapBrightness(bg))
		}
	}
	return out
}
