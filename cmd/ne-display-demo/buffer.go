// ABOUTME: In-memory buffer.Buffer implementation backing the demo editor
// ABOUTME: Holds plain text lines with no syntax state, grounded on buffer.LineDesc's contract

package main

import (
	"unicode/utf8"

	"github.com/vigna-ne/dispd/pkg/buffer"
	"github.com/vigna-ne/dispd/pkg/encode"
)

type demoLine struct {
	text  []byte
	state buffer.HighlightState
}

func (l *demoLine) Bytes() []byte                       { return l.text }
func (l *demoLine) PreState() buffer.HighlightState     { return l.state }
func (l *demoLine) SetPreState(s buffer.HighlightState) { l.state = s }

// demoBuffer is the smallest buffer.Buffer that can drive the display
// engine end to end: a slice of lines, a cursor, and a window origin.
type demoBuffer struct {
	lines    []*demoLine
	topLine  int
	curLine  int
	winX     int
	winY     int
	tabSize  int
	encoding buffer.Encoding
	attrBuf  buffer.AttrBuf
	syntax   bool

	name     string
	modified bool
}

func newDemoBuffer(tabSize int, enc buffer.Encoding) *demoBuffer {
	return &demoBuffer{
		lines:    []*demoLine{{text: []byte{}}},
		tabSize:  tabSize,
		encoding: enc,
		name:     "[unnamed]",
	}
}

func (b *demoBuffer) Line(n int) (buffer.LineDesc, bool) {
	i := b.topLine + n
	if n < 0 || i >= len(b.lines) {
		return nil, false
	}
	return b.lines[i], true
}

func (b *demoBuffer) TopLine() int              { return b.topLine }
func (b *demoBuffer) CurrentLine() int          { return b.curLine }
func (b *demoBuffer) WinX() int                 { return b.winX }
func (b *demoBuffer) WinY() int                 { return b.winY }
func (b *demoBuffer) TabSize() int              { return b.tabSize }
func (b *demoBuffer) Encoding() buffer.Encoding { return b.encoding }
func (b *demoBuffer) HasSyntax() bool           { return b.syntax }
func (b *demoBuffer) Syntax() buffer.Parser     { return nil }
func (b *demoBuffer) AttrBuf() *buffer.AttrBuf  { return &b.attrBuf }

// insertRune appends a rune to the current line's byte content; the
// demo does not track screen columns, only enough text to exercise
// the display engine's full-line redraw path.
func (b *demoBuffer) insertRune(r rune) {
	line := b.lines[b.curLine]
	line.text = append(line.text, []byte(string(r))...)
	b.modified = true
}

func (b *demoBuffer) newline() {
	b.lines = append(b.lines, &demoLine{text: []byte{}})
	b.curLine = len(b.lines) - 1
	b.modified = true
	if b.curLine-b.topLine >= b.winY {
		b.topLine = b.curLine - b.winY + 1
	}
}

// deleteLastRune removes the final rune of the current line, returning
// the screen column the rune started at and its rendered width, for the
// display engine's incremental delete path.
func (b *demoBuffer) deleteLastRune() (col, width int, ok bool) {
	line := b.lines[b.curLine]
	if len(line.text) == 0 {
		return 0, 0, false
	}
	r, size := utf8.DecodeLastRune(line.text)
	line.text = line.text[:len(line.text)-size]
	b.modified = true

	col = b.renderedWidth()
	if r == '\t' {
		width = b.tabSize - col%b.tabSize
	} else if width = encode.Width(r); width < 1 {
		width = 1
	}
	return col, width, true
}

// renderedWidth is the tab-expanded column count of the current line.
func (b *demoBuffer) renderedWidth() int {
	col := 0
	for _, r := range string(b.lines[b.curLine].text) {
		if r == '\t' {
			col += b.tabSize - col%b.tabSize
			continue
		}
		if w := encode.Width(r); w > 0 {
			col += w
		} else {
			col++
		}
	}
	return col
}

// runeCount is the logical character count of the current line, the
// attribute-vector position of a character appended or removed at its end.
func (b *demoBuffer) runeCount() int {
	return utf8.RuneCount(b.lines[b.curLine].text)
}

// column reports the 0-indexed byte length of the current line, the
// demo's stand-in for a cursor column (it does not track one).
func (b *demoBuffer) column() int {
	return len(b.lines[b.curLine].text)
}
