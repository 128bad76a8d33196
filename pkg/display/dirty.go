// ABOUTME: Dirty-region state: the TURBO throttle and [firstLine,lastLine] tracking
// ABOUTME: Ported from display.c's window_needs_refresh/first_line/last_line/updated_lines statics

package display

// Dirty tracks which rows need a redraw and whether the engine has
// switched from cell-level updates to deferred whole-region redraw.
type Dirty struct {
	rows         int
	turbo        int
	needsRefresh bool
	firstLine    int
	lastLine     int
	updated      int

	// bypass suspends the TURBO throttle while update_window_lines runs
	// with doit: a refresh spanning more rows than TURBO must not defer
	// its own tail.
	bypass bool
}

func (d *Dirty) reset() {
	d.needsRefresh = false
	d.firstLine = d.rows
	d.lastLine = -1
	d.updated = 0
}

// deferred reports whether the engine is past TURBO and must not emit
// cell bytes for this row; it only tracks the dirty range.
func (d *Dirty) deferred() bool {
	return !d.bypass && d.updated > d.turbo
}

// extend grows the dirty range to include row without counting an
// update, for operations whose deferred redraw covers more rows than
// the one they were invoked on.
func (d *Dirty) extend(row int) {
	if row < d.firstLine {
		d.firstLine = row
	}
	if row > d.lastLine {
		d.lastLine = row
	}
}

// noteUpdate records that row was touched, growing the dirty range and
// the update counter. Once the counter exceeds TURBO, needsRefresh
// latches true and stays true until the next refresh.
func (d *Dirty) noteUpdate(row int) {
	d.updated++
	if row < d.firstLine {
		d.firstLine = row
	}
	if row > d.lastLine {
		d.lastLine = row
	}
	if d.updated > d.turbo {
		d.needsRefresh = true
	}
}
