// ABOUTME: Line Renderer: tab expansion, wide-character clipping, and differential redraw
// ABOUTME: Ported from display.c's output_line_desc()

package render

import (
	"unicode/utf8"

	"github.com/vigna-ne/dispd/pkg/attr"
	"github.com/vigna-ne/dispd/pkg/buffer"
	"github.com/vigna-ne/dispd/pkg/encode"
)

// Cell is one unit of rendered output: the bytes to write and where, in
// screen-relative column offset from the caller's starting column. Width
// is the number of screen columns the bytes occupy, so the caller can
// keep the cursor planner's position in lockstep with the write.
type Cell struct {
	Col   int
	Bytes []byte
	Width int
	Attr  attr.Attr
}

// Params bundles the arguments to RenderLine, mirroring
// output_line_desc's parameter list.
type Params struct {
	FromCol       int
	NumCols       int
	TabSize       int
	ClearedAtEnd  bool
	UTF8          bool
	Attrs         []attr.Attr // per logical character, len == number of chars in ld
	Diff          []attr.Attr // previous attribute vector, or nil to disable differential redraw
	ClearToEOLSeq string
}

// visible resolves Open Question #1 from the distilled spec: a cell at
// outputCol with the given width is visible within [fromCol,
// fromCol+numCols) when its span overlaps the window at all, i.e. its
// right edge has passed fromCol and its left edge has not passed the
// right edge of the window.
func visible(outputCol, width, fromCol, numCols int) bool {
	return outputCol+width > fromCol && outputCol < fromCol+numCols
}

// RenderLine renders the visible slice of a line into a sequence of
// cells plus the logical column a trailing clear-to-end-of-line should
// start from, or clearFrom == -1 when no clear is needed. Every logical
// character advances attrPos by one regardless of display width or tab
// expansion, matching the source exactly.
func RenderLine(ld buffer.LineDesc, p Params) (cells []Cell, clearFrom int) {
	content := ld.Bytes()

	currCol := 0
	pos := 0
	attrPos := 0

	writeAttr := func(a attr.Attr) attr.Attr {
		if p.Attrs != nil && attrPos < len(p.Attrs) {
			a = p.Attrs[attrPos]
		}
		return a
	}

	shouldWrite := func() bool {
		if p.Diff == nil {
			return true
		}
		if attrPos >= len(p.Diff) {
			return true
		}
		if p.Attrs == nil || attrPos >= len(p.Attrs) {
			return true
		}
		return p.Attrs[attrPos] != p.Diff[attrPos]
	}

	for pos < len(content) {
		var c rune
		var size int
		if p.UTF8 {
			c, size = utf8.DecodeRune(content[pos:])
			if c == utf8.RuneError && size <= 1 {
				c = rune(content[pos])
				size = 1
			}
		} else {
			c = rune(content[pos])
			size = 1
		}

		if c == '\t' {
			width := p.TabSize - currCol%p.TabSize
			a := writeAttr(attr.None)
			write := shouldWrite()
			for i := 0; i < width; i++ {
				col := currCol + i
				if visible(col, 1, p.FromCol, p.NumCols) && write {
					cells = append(cells, Cell{Col: col - p.FromCol, Bytes: []byte{' '}, Width: 1, Attr: a})
				}
			}
			currCol += width
			pos += size
			attrPos++
			continue
		}

		w := encode.Width(c)
		if w < 1 {
			w = 1
		}
		a := writeAttr(attr.None)
		if visible(currCol, w, p.FromCol, p.NumCols) && shouldWrite() {
			if currCol >= p.FromCol && currCol+w <= p.FromCol+p.NumCols {
				cells = append(cells, Cell{Col: currCol - p.FromCol, Bytes: []byte(string(c)), Width: w, Attr: a})
			} else {
				// Straddles an edge: render the visible portion as spaces,
				// matching the source's fallback for partially clipped
				// wide characters.
				for col := currCol; col < currCol+w; col++ {
					if visible(col, 1, p.FromCol, p.NumCols) {
						cells = append(cells, Cell{Col: col - p.FromCol, Bytes: []byte{' '}, Width: 1, Attr: a})
					}
				}
			}
		}
		currCol += w
		pos += size
		attrPos++
	}

	clearFrom = -1
	if currCol-p.FromCol < p.NumCols && !p.ClearedAtEnd {
		clearFrom = currCol
		if clearFrom < p.FromCol {
			clearFrom = p.FromCol
		}
	}

	return cells, clearFrom
}
