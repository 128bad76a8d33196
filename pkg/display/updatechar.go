// ABOUTME: Single-character insert/delete/overwrite update routines with TAB-absorption logic
// ABOUTME: Ported from display.c's update_inserted_char/update_deleted_char/update_overwritten_char

package display

import (
	"unicode/utf8"

	"github.com/vigna-ne/dispd/pkg/attr"
	"github.com/vigna-ne/dispd/pkg/buffer"
	"github.com/vigna-ne/dispd/pkg/encode"
	"github.com/vigna-ne/dispd/pkg/render"
)

// decodeChar reads one logical character at content[pos:], honoring the
// output stream's encoding the way the Line Renderer does.
func decodeChar(content []byte, pos int, utf8Mode bool) (rune, int) {
	if utf8Mode {
		c, size := utf8.DecodeRune(content[pos:])
		if c == utf8.RuneError && size <= 1 {
			return rune(content[pos]), 1
		}
		return c, size
	}
	return rune(content[pos]), 1
}

// runeAtCol returns the character whose rendered span starts at screen
// column col, walking the line with tab expansion. ok is false when col
// falls past the line's end or inside a tab's or wide character's span.
func runeAtCol(content []byte, tabSize, col int, utf8Mode bool) (rune, bool) {
	currCol := 0
	pos := 0
	for pos < len(content) {
		c, size := decodeChar(content, pos, utf8Mode)
		if currCol == col {
			return c, true
		}
		if c == '\t' {
			currCol += tabSize - currCol%tabSize
		} else {
			currCol += encode.Width(c)
		}
		if currCol > col {
			return 0, false
		}
		pos += size
	}
	return 0, false
}

// tabRight returns the screen column of the first TAB character at or
// after `fromCol` in the rendered line, and the tab's rendered width at
// that column, or ok=false if there is none before the line ends.
func tabRight(content []byte, tabSize, fromCol int, utf8Mode bool) (col, width int, ok bool) {
	currCol := 0
	pos := 0
	for pos < len(content) {
		c, size := decodeChar(content, pos, utf8Mode)
		if c == '\t' {
			w := tabSize - currCol%tabSize
			if currCol >= fromCol {
				return currCol, w, true
			}
			currCol += w
		} else {
			currCol += encode.Width(c)
		}
		pos += size
	}
	return 0, 0, false
}

// UpdateInsertedChar reflects a character already inserted into the
// buffer at logical attrPos/screen column insertCol on row. attrBuf is
// the shared cache to keep in lockstep with the buffer mutation.
func (e *Engine) UpdateInsertedChar(b buffer.Buffer, ld buffer.LineDesc, row, insertCol, attrPos int, cWidth int, a attr.Attr) {
	if cached, ok := b.AttrBuf().Attrs(); ok {
		shifted := make([]uint32, len(cached)+1)
		copy(shifted, cached[:attrPos])
		shifted[attrPos] = uint32(a)
		copy(shifted[attrPos+1:], cached[attrPos:])
		b.AttrBuf().Set(shifted)
	}

	e.dirty.noteUpdate(row)
	if e.dirty.deferred() {
		return
	}

	content := ld.Bytes()
	lineEndCol := lineWidth(content, b.TabSize(), e.enc.UTF8)
	if insertCol >= lineEndCol-cWidth {
		// Last character on the line: no shift needed, just write it.
		e.writeCharAt(content, b.TabSize(), row, insertCol, cWidth, a)
		return
	}

	tabCol, tabWidth, hasTab := tabRight(content, b.TabSize(), insertCol, e.enc.UTF8)
	switch {
	case !hasTab:
		if !e.charInsDelOK {
			e.redrawFromColumn(b, ld, row, insertCol)
			return
		}
		e.insertColumns(row, insertCol, cWidth)
		e.writeCharAt(content, b.TabSize(), row, insertCol, cWidth, a)
	case tabWidth+cWidth <= b.TabSize():
		// The TAB absorbs the new character's width: rewrite the span
		// between the insertion point and the TAB.
		e.redrawSpan(b, ld, row, insertCol, tabCol+1)
	default:
		if !e.charInsDelOK {
			e.redrawFromColumn(b, ld, row, insertCol)
			return
		}
		// The TAB spills: open cWidth columns for the character, then
		// re-widen the TAB with the columns it lost.
		e.insertColumns(row, insertCol, cWidth)
		e.insertColumns(row, tabCol, tabSpillover(cWidth, b.TabSize()))
		e.writeCharAt(content, b.TabSize(), row, insertCol, cWidth, a)
	}
}

// insertColumns opens n blank columns at (row,col) using the parametric
// insert capability when available, else n single inserts.
func (e *Engine) insertColumns(row, col, n int) {
	if n <= 0 {
		return
	}
	e.moveTo(row, col)
	if e.caps.ParmInsertCharacter != nil {
		e.write([]byte(e.caps.ParmInsertCharacter(n)))
		return
	}
	for i := 0; i < n; i++ {
		e.write([]byte(e.caps.InsertCharacter))
	}
}

// writeCharAt draws the character occupying screen column col into the
// blank cell(s) an insert just opened there. A TAB renders as its
// expansion spaces, never as the control-character substitute.
func (e *Engine) writeCharAt(content []byte, tabSize, row, col, width int, a attr.Attr) {
	c, ok := runeAtCol(content, tabSize, col, e.enc.UTF8)
	if !ok {
		return
	}
	e.moveTo(row, col)
	e.write(e.attrs.Set(a))
	if c == '\t' {
		spaces := make([]rune, width)
		for i := range spaces {
			spaces[i] = ' '
		}
		e.write(e.enc.Chars(spaces, a, width))
	} else {
		e.write(e.enc.Chars([]rune{c}, a, width))
	}
	e.planner.NoteWrote(width)
}

func tabSpillover(cWidth, tabSize int) int {
	n := tabSize - cWidth
	if n < 0 {
		n = 0
	}
	return n
}

// UpdateDeletedChar mirrors UpdateInsertedChar for a deletion already
// applied to the buffer.
func (e *Engine) UpdateDeletedChar(b buffer.Buffer, ld buffer.LineDesc, row, deleteCol, attrPos int, cWidth int) {
	if cached, ok := b.AttrBuf().Attrs(); ok && attrPos < len(cached) {
		shifted := make([]uint32, len(cached)-1)
		copy(shifted, cached[:attrPos])
		copy(shifted[attrPos:], cached[attrPos+1:])
		b.AttrBuf().Set(shifted)
	}

	e.dirty.noteUpdate(row)
	if e.dirty.deferred() {
		return
	}

	content := ld.Bytes()
	tabCol, tabWidth, hasTab := tabRight(content, b.TabSize(), deleteCol, e.enc.UTF8)

	if hasTab && tabWidth > cWidth {
		// The TAB absorbs the deleted width: it widened in place, so
		// rewrite the span from the deletion point through the TAB.
		e.redrawSpan(b, ld, row, deleteCol, tabCol+tabWidth)
		return
	}

	if !e.charDelOK {
		e.redrawFromColumn(b, ld, row, deleteCol)
		return
	}
	e.deleteColumns(row, deleteCol, cWidth)
	if !hasTab {
		return
	}
	e.deleteColumns(row, tabCol, b.TabSize()-cWidth)
	e.redrawSpan(b, ld, row, tabCol, tabCol+b.TabSize())
}

// deleteColumns closes n columns at (row,col) using the parametric
// delete capability when available, else n single deletes.
func (e *Engine) deleteColumns(row, col, n int) {
	if n <= 0 {
		return
	}
	e.moveTo(row, col)
	if e.caps.ParmDeleteChar != nil {
		e.write([]byte(e.caps.ParmDeleteChar(n)))
		return
	}
	for i := 0; i < n; i++ {
		e.write([]byte(e.caps.DeleteCharacter))
	}
}

// UpdateOverwrittenChar handles a same-position replacement. Equal
// widths are a simple rewrite. Unequal widths first open or close the
// width delta on the terminal, under the same TAB-absorption rules the
// insert/delete paths use, and then write the full replacement
// character into the adjusted cell. The attribute cache entry is
// replaced in place: an overwrite changes no character count.
func (e *Engine) UpdateOverwrittenChar(b buffer.Buffer, ld buffer.LineDesc, row, col, attrPos, oldWidth, newWidth int, a attr.Attr) {
	if cached, ok := b.AttrBuf().Attrs(); ok && attrPos < len(cached) {
		cached[attrPos] = uint32(a)
		b.AttrBuf().Set(cached)
	}

	e.dirty.noteUpdate(row)
	if e.dirty.deferred() {
		return
	}

	content := ld.Bytes()
	if oldWidth == newWidth {
		e.writeCharAt(content, b.TabSize(), row, col, newWidth, a)
		return
	}

	// The replacement occupies [col,col+newWidth) in the mutated line;
	// the TAB that can absorb the delta is the first one past it.
	tabCol, tabWidth, hasTab := tabRight(content, b.TabSize(), col+newWidth, e.enc.UTF8)

	if delta := newWidth - oldWidth; delta > 0 {
		switch {
		case hasTab && tabWidth+delta <= b.TabSize():
			// The TAB absorbs the enlargement: one span redraw covers
			// the replacement character and the narrowed TAB.
			e.redrawSpan(b, ld, row, col, tabCol+1)
			return
		case !e.charInsDelOK:
			e.redrawFromColumn(b, ld, row, col)
			return
		case hasTab:
			e.insertColumns(row, col, delta)
			e.insertColumns(row, tabCol, tabSpillover(delta, b.TabSize()))
		default:
			e.insertColumns(row, col, delta)
		}
	} else {
		delta = -delta
		switch {
		case hasTab && tabWidth > delta:
			// The TAB re-widens by the shrinkage: span redraw again.
			e.redrawSpan(b, ld, row, col, tabCol+1)
			return
		case !e.charDelOK:
			e.redrawFromColumn(b, ld, row, col)
			return
		case hasTab:
			e.deleteColumns(row, col+newWidth, delta)
			e.deleteColumns(row, tabCol, b.TabSize()-delta)
			e.redrawSpan(b, ld, row, tabCol, tabCol+b.TabSize())
		default:
			e.deleteColumns(row, col+newWidth, delta)
		}
	}

	e.writeCharAt(content, b.TabSize(), row, col, newWidth, a)
}

func lineWidth(content []byte, tabSize int, utf8Mode bool) int {
	col := 0
	pos := 0
	for pos < len(content) {
		c, size := decodeChar(content, pos, utf8Mode)
		if c == '\t' {
			col += tabSize - col%tabSize
		} else {
			col += encode.Width(c)
		}
		pos += size
	}
	return col
}

// redrawSpan redraws screen columns [from,to) on row by re-rendering
// the line restricted to that column window.
func (e *Engine) redrawSpan(b buffer.Buffer, ld buffer.LineDesc, row, from, to int) {
	params := e.renderParams(from, to-from, b.TabSize(), false, nil, nil)
	cells, clearFrom := render.RenderLine(ld, params)
	e.drawCells(row, from, cells)
	if clearFrom >= 0 {
		e.moveTo(row, clearFrom)
		e.write([]byte(e.caps.ClrEOL))
	}
}

// redrawFromColumn redraws from col to the end of the row, the
// capability-missing fallback every insert/delete path uses.
func (e *Engine) redrawFromColumn(b buffer.Buffer, ld buffer.LineDesc, row, col int) {
	e.redrawSpan(b, ld, row, col, e.caps.Cols)
}
