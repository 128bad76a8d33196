// ABOUTME: Incremental Update Layer: the display-update API the editor calls after each mutation
// ABOUTME: Wires the Cursor Motion Planner, Attribute Engine, Output Encoder, Line Renderer, and Syntax State Propagator

package display

import (
	"io"

	"golang.org/x/text/encoding/charmap"

	"github.com/vigna-ne/dispd/internal/log"
	"github.com/vigna-ne/dispd/pkg/attr"
	"github.com/vigna-ne/dispd/pkg/buffer"
	"github.com/vigna-ne/dispd/pkg/encode"
	"github.com/vigna-ne/dispd/pkg/motion"
	"github.com/vigna-ne/dispd/pkg/render"
	"github.com/vigna-ne/dispd/pkg/syntax"
	"github.com/vigna-ne/dispd/pkg/termcap"
)

// Engine is the process-wide display state: terminal geometry and
// cursor belief (via Planner), the SGR state (via attr.Engine), the
// dirty-region tracker, and the capability-derived sequences the
// update routines need directly (clear-to-eol, insert/delete line).
type Engine struct {
	caps    termcap.Capabilities
	w       io.Writer
	planner *motion.Planner
	attrs   *attr.Engine
	enc     *encode.Encoder

	dirty Dirty

	charInsDelOK bool
	charDelOK    bool
	lineInsDelOK bool

	// specifiedWindow is the number of top rows that participate in
	// line insert/delete (spec.md's specified_window); rows at or past
	// it are excluded from scroll, leaving room for a status line.
	specifiedWindow int

	// needAttrUpdate is set by the editor when the current line's syntax
	// state may have changed; PropagateSyntax consumes and clears it.
	needAttrUpdate bool

	// turboUserSet distinguishes a configured TURBO from the 2*rows
	// default, which tracks geometry across resizes.
	turboUserSet bool

	bracket bracketState
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithTurbo overrides the default TURBO threshold (2*rows when zero).
func WithTurbo(n int) Option {
	return func(e *Engine) {
		e.dirty.turbo = n
		e.turboUserSet = n > 0
	}
}

// WithSpecifiedWindow reserves the rows from n to caps.Rows-1 outside the
// scroll region, for a status line or other fixed decoration below the
// buffer text. n <= 0 or n >= caps.Rows means "no reservation" (the
// default: the whole screen scrolls).
func WithSpecifiedWindow(n int) Option {
	return func(e *Engine) { e.specifiedWindow = n }
}

// WithCharmap selects an 8-bit output encoding table for non-UTF-8
// terminals; ignored when the capability table says the stream is UTF-8.
func WithCharmap(cm *charmap.Charmap) Option {
	return func(e *Engine) {
		if !e.enc.UTF8 {
			e.enc = encode.New(false, cm)
		}
	}
}

// New constructs an Engine. It returns termcap.ErrIncapable if caps
// fails Capabilities.Validate().
func New(caps termcap.Capabilities, w io.Writer, opts ...Option) (*Engine, error) {
	if err := caps.Validate(); err != nil {
		return nil, err
	}

	seq := motion.Sequences{
		Up: caps.CursorUp, Down: caps.CursorDown, Left: caps.CursorLeft, Right: caps.CursorRight,
		Home: caps.CursorHome, CR: caps.CarriageReturn, LastLine: caps.CursorToLL,
		Tab:           caps.Tab,
		CursorAddress: caps.CursorAddress,
		ColumnAddress: caps.ColumnAddress,
		RowAddress:    caps.RowAddress,
	}
	table := motion.Table{
		Up:      motion.CostFromCapability(caps.CursorUp),
		Down:    motion.CostFromCapability(caps.CursorDown),
		Left:    motion.CostFromCapability(caps.CursorLeft),
		Right:   motion.CostFromCapability(caps.CursorRight),
		Home:    motion.CostFromCapability(caps.CursorHome),
		CR:      motion.CostFromCapability(caps.CarriageReturn),
		Tab:     motion.CostFromCapability(caps.Tab),
		TabSize: 8,
		UseTabs: caps.Tab != "",
	}

	// Terminals without a dedicated reverse-video mode render INVERSE
	// through standout, the way ne degrades on the same hardware.
	reverse := caps.EnterReverseMode
	if reverse == "" {
		reverse = caps.EnterStandoutMode
	}

	e := &Engine{
		caps: caps,
		w:    w,
		// eat_newline_glitch defers the wrap after the last column: the
		// cursor floats until the next printable character, which is the
		// magic-wrap state the planner must recover from with CRLF.
		planner: motion.New(seq, table, caps.Rows, caps.Cols, caps.AutoRightMargin && caps.EatNewlineGlitch),
		attrs: attr.NewEngine(attr.Sequences{
			EnterBold: caps.EnterBoldMode, EnterUnderline: caps.EnterUnderlineMode,
			EnterDim: caps.EnterDimMode, EnterBlink: caps.EnterBlinkMode,
			EnterReverse: reverse, EnterStandout: caps.EnterStandoutMode,
			ExitStandout: caps.ExitStandoutMode, ExitAttrs: caps.ExitAttributeMode,
			SetForeground: caps.SetForeground, SetBackground: caps.SetBackground,
		}, caps.AnsiColorOK, attr.NoColorVideoMask(caps.NoColorVideo)),
		enc:          encode.New(caps.IOUTF8, nil),
		charInsDelOK: caps.InsertCharacter != "" || caps.ParmInsertCharacter != nil,
		charDelOK:    caps.DeleteCharacter != "" || caps.ParmDeleteChar != nil,
		lineInsDelOK: caps.InsertLine != "" && caps.DeleteLine != "",
	}
	e.dirty.rows = caps.Rows
	e.dirty.turbo = 0
	e.specifiedWindow = caps.Rows

	for _, o := range opts {
		o(e)
	}
	if e.dirty.turbo <= 0 {
		e.dirty.turbo = 2 * caps.Rows
	}
	if e.specifiedWindow <= 0 || e.specifiedWindow > caps.Rows {
		e.specifiedWindow = caps.Rows
	}
	e.setScrollRegion()
	e.dirty.reset()
	return e, nil
}

// setScrollRegion confines terminal scrolling to the specified window
// when rows are reserved below it. change_scroll_region homes the cursor
// on DEC-compatible terminals, so the planner's belief is dropped.
func (e *Engine) setScrollRegion() {
	if e.caps.ChangeScrollRegion == nil || e.specifiedWindow >= e.caps.Rows {
		return
	}
	e.write([]byte(e.caps.ChangeScrollRegion(0, e.scrollRows())))
	e.planner.Invalidate()
}

// scrollRows returns the last row index (inclusive) that participates in
// scrolling and line insert/delete, honoring specifiedWindow.
func (e *Engine) scrollRows() int {
	return e.specifiedWindow - 1
}

func (e *Engine) write(b []byte) {
	if len(b) == 0 {
		return
	}
	if _, err := e.w.Write(b); err != nil {
		log.Warn("display: write failed: %v", err)
	}
}

// moveTo moves the cursor and writes the bytes in one step, the common
// pattern every update routine below uses before drawing.
func (e *Engine) moveTo(row, col int) {
	e.write(e.planner.MoveTo(row, col))
}

// renderParams builds render.Params for a row from the engine's capability
// table and the supplied attribute vectors.
func (e *Engine) renderParams(fromCol, numCols, tabSize int, clearedAtEnd bool, attrs, diff []attr.Attr) render.Params {
	return render.Params{
		FromCol: fromCol, NumCols: numCols, TabSize: tabSize,
		ClearedAtEnd: clearedAtEnd, UTF8: e.enc.UTF8,
		Attrs: attrs, Diff: diff, ClearToEOLSeq: e.caps.ClrEOL,
	}
}

// drawCells positions and writes each cell under its attribute, keeping
// the planner's cursor belief in lockstep with every printable column
// emitted. Adjacent cells need no motion bytes: once NoteWrote has
// advanced the believed position, MoveTo to the next column is a no-op.
func (e *Engine) drawCells(row, baseCol int, cells []render.Cell) {
	for _, c := range cells {
		e.moveTo(row, baseCol+c.Col)
		e.write(e.attrs.Set(c.Attr))
		e.write(e.enc.Chars([]rune(string(c.Bytes)), c.Attr, c.Width))
		e.planner.NoteWrote(c.Width)
	}
}

// UpdatePartialLine walks the line list from top, renders row `row`
// (counting from the top of the window) restricted to [fromCol,...),
// and returns the line descriptor it drew, or ok=false past end of text.
func (e *Engine) UpdatePartialLine(b buffer.Buffer, row, fromCol int, clearedAtEnd, differential bool) (buffer.LineDesc, bool) {
	ld, _, ok := e.updatePartialLine(b, row, fromCol, clearedAtEnd, differential)
	return ld, ok
}

// updatePartialLine is UpdatePartialLine's implementation; it also
// returns the freshly parsed attribute vector for row, if a syntax
// engine is attached, so UpdateLine can decide whether to refresh
// AttrBuf from it without re-parsing.
func (e *Engine) updatePartialLine(b buffer.Buffer, row, fromCol int, clearedAtEnd, differential bool) (buffer.LineDesc, []uint32, bool) {
	e.dirty.noteUpdate(row)

	ld, ok := b.Line(row)
	if !ok {
		if !e.dirty.deferred() {
			e.moveTo(row, 0)
			e.write([]byte(e.caps.ClrEOL))
		}
		return nil, nil, false
	}

	if e.dirty.deferred() {
		return ld, nil, true
	}

	var fresh []uint32
	var attrs []attr.Attr
	if b.HasSyntax() {
		fresh, _ = b.Syntax().Parse(ld.Bytes(), ld.PreState())
		attrs = toAttrs(fresh)
		if row != b.CurrentLine() {
			// Parsing a line other than the current one reuses the
			// syntax engine's shared scratch buffer, corrupting
			// whatever AttrBuf held for the current line.
			b.AttrBuf().Invalidate()
		}
	}

	var diff []attr.Attr
	if differential {
		if cached, valid := b.AttrBuf().Attrs(); valid {
			diff = toAttrs(cached)
		}
	}

	params := e.renderParams(fromCol, e.caps.Cols-fromCol, b.TabSize(), clearedAtEnd, attrs, diff)
	cells, clearFrom := render.RenderLine(ld, params)
	e.drawCells(row, fromCol, cells)
	if clearFrom >= 0 {
		e.moveTo(row, clearFrom)
		e.write([]byte(e.caps.ClrEOL))
	}
	return ld, fresh, true
}

func toAttrs(u []uint32) []attr.Attr {
	out := make([]attr.Attr, len(u))
	for i, v := range u {
		out[i] = attr.Attr(v)
	}
	return out
}

// UpdateLine draws the whole of row `row` and, if it is the buffer's
// current line with syntax enabled, refreshes the cached attribute
// buffer from the fresh parse.
func (e *Engine) UpdateLine(b buffer.Buffer, row int, clearedAtEnd, differential bool) {
	ld, fresh, ok := e.updatePartialLine(b, row, 0, clearedAtEnd, differential)
	if !ok || ld == nil {
		return
	}
	if row == b.CurrentLine() && b.HasSyntax() && fresh != nil {
		b.AttrBuf().Set(fresh)
	}
}

// UpdateWindowLines draws rows [start,end]. doit bypasses TURBO for the
// whole pass, so a refresh spanning more rows than the threshold cannot
// defer its own tail; the per-row update counts are discarded afterward
// since a bypassed pass never contributes to the throttle.
func (e *Engine) UpdateWindowLines(b buffer.Buffer, start, end int, doit bool) {
	if doit {
		saved := e.dirty.updated
		e.dirty.bypass = true
		defer func() {
			e.dirty.bypass = false
			e.dirty.updated = saved
		}()
	}
	for row := start; row <= end; row++ {
		e.UpdateLine(b, row, false, false)
	}
	if doit {
		e.dirty.reset()
	}
}

// RefreshWindow draws the dirty range if one is pending, always
// clearing the update counter afterward.
func (e *Engine) RefreshWindow(b buffer.Buffer) {
	if e.dirty.needsRefresh {
		e.UpdateWindowLines(b, e.dirty.firstLine, e.dirty.lastLine, true)
	}
	e.dirty.updated = 0
}

// DelayUpdate forces the engine into deferred mode, used before bulk
// operations. No-op is intentionally not implemented as a test-mode
// flag here; callers in tests construct an Engine and may choose not
// to call it.
func (e *Engine) DelayUpdate() {
	e.dirty.updated = e.dirty.turbo + 1
	e.dirty.needsRefresh = true
}

// ResetWindow marks the full window as needing a redraw without
// drawing anything yet.
func (e *Engine) ResetWindow() {
	e.dirty.needsRefresh = true
	e.dirty.firstLine = 0
	e.dirty.lastLine = e.scrollRows()
}

// ScrollWindow scrolls starting at `line` by n (+1 down, -1 up). When
// the terminal supports line insert/delete it is used directly;
// otherwise every row from `line` to the bottom of the scroll region is
// redrawn.
func (e *Engine) ScrollWindow(b buffer.Buffer, line, n int) {
	e.dirty.noteUpdate(line)
	if e.dirty.deferred() {
		// Every row from line to the bottom of the scroll region moved;
		// the deferred refresh must redraw all of them.
		e.dirty.extend(e.scrollRows())
		return
	}
	if !e.lineInsDelOK {
		e.UpdateWindowLines(b, line, e.scrollRows(), false)
		return
	}
	e.moveTo(line, 0)
	if n < 0 {
		e.write([]byte(e.caps.DeleteLine))
		e.UpdateLine(b, e.scrollRows(), false, false)
	} else {
		e.write([]byte(e.caps.InsertLine))
		e.UpdateLine(b, line, false, false)
	}
}

// Resize updates geometry after a SIGWINCH-class event and forces a
// full reset_window, per spec.md's concurrency model.
func (e *Engine) Resize(rows, cols int) {
	if e.specifiedWindow >= e.caps.Rows {
		// Was "whole screen"; stay "whole screen" at the new geometry.
		e.specifiedWindow = rows
	}
	if e.specifiedWindow > rows {
		e.specifiedWindow = rows
	}
	e.caps.Rows = rows
	e.caps.Cols = cols
	e.dirty.rows = rows
	if !e.turboUserSet {
		e.dirty.turbo = 2 * rows
	}
	e.planner = motion.New(
		motion.Sequences{
			Up: e.caps.CursorUp, Down: e.caps.CursorDown, Left: e.caps.CursorLeft, Right: e.caps.CursorRight,
			Home: e.caps.CursorHome, CR: e.caps.CarriageReturn, LastLine: e.caps.CursorToLL,
			Tab: e.caps.Tab, CursorAddress: e.caps.CursorAddress, ColumnAddress: e.caps.ColumnAddress, RowAddress: e.caps.RowAddress,
		},
		motion.Table{
			Up: motion.CostFromCapability(e.caps.CursorUp), Down: motion.CostFromCapability(e.caps.CursorDown),
			Left: motion.CostFromCapability(e.caps.CursorLeft), Right: motion.CostFromCapability(e.caps.CursorRight),
			Home: motion.CostFromCapability(e.caps.CursorHome), CR: motion.CostFromCapability(e.caps.CarriageReturn),
			Tab: motion.CostFromCapability(e.caps.Tab), TabSize: 8, UseTabs: e.caps.Tab != "",
		},
		rows, cols, e.caps.AutoRightMargin && e.caps.EatNewlineGlitch,
	)
	e.setScrollRegion()
	e.ResetWindow()
}

// StatusLineRow returns the row a status line belongs on: the first row
// excluded from the scroll region by specifiedWindow, or -1 if the whole
// screen scrolls and there is no row to spare.
func (e *Engine) StatusLineRow() int {
	if e.specifiedWindow >= e.caps.Rows {
		return -1
	}
	return e.specifiedWindow
}

// DrawStatusLine writes a pre-themed, already-escaped line of text
// (see pkg/tui.Render) on StatusLineRow(), outside TURBO and dirty-range
// tracking: the status line is decoration, not buffer content, so it
// bypasses the Incremental Update Layer entirely. The attribute engine's
// belief about the terminal's SGR state is reset to None afterward so the
// raw color bytes this call wrote directly don't desync Engine.attrs from
// what's actually on the terminal.
func (e *Engine) DrawStatusLine(text string) {
	row := e.StatusLineRow()
	if row < 0 {
		return
	}
	e.moveTo(row, 0)
	e.write([]byte(text))
	e.write(e.attrs.Set(attr.None))
	// The raw write advanced the terminal's cursor by an amount the
	// planner never saw; forget the position so the next move is absolute.
	e.planner.Invalidate()
}

// SetNeedAttrUpdate records that the current line's syntax state may
// have changed, arming the next PropagateSyntax call.
func (e *Engine) SetNeedAttrUpdate() {
	e.needAttrUpdate = true
}

// PropagateSyntax runs the Syntax State Propagator starting after the
// line at startIndex, redrawing any visible line whose highlight state
// needed updating. It is a no-op unless SetNeedAttrUpdate was called
// since the last propagation.
func (e *Engine) PropagateSyntax(b buffer.Buffer, p syntax.Parser, row, startIndex, endIndex int) error {
	if !e.needAttrUpdate {
		return nil
	}
	e.needAttrUpdate = false
	return syntax.Propagate(b, p, engineRedrawer{e: e, b: b}, row, startIndex, endIndex)
}

type engineRedrawer struct {
	e *Engine
	b buffer.Buffer
}

func (r engineRedrawer) RedrawLine(row int) error {
	if row < 0 || row >= r.e.specifiedWindow {
		// The propagation walk left the visible window; the line's
		// stored state still updates, but there is nothing to draw.
		return nil
	}
	r.e.UpdateLine(r.b, row, false, true)
	return nil
}
