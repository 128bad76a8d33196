// ABOUTME: Cursor motion planner: picks the cheapest of five plans and executes it
// ABOUTME: Ported from cm.c's cmgoto()/calccost(); five plans are USEREL, USEHOME, USELL, USECR, and direct absolute

package motion

import "strings"

// Position is the planner's belief about the cursor location. Unknown
// positions (the source's sentinel (-1,-1)) are modeled explicitly
// rather than with negative coordinates.
type Position struct {
	Row, Col int
	Known    bool
}

// Sequences names the capability strings the planner needs.
type Sequences struct {
	Up, Down, Left, Right string
	Home, CR, LastLine    string
	Tab                   string
	CursorAddress         func(row, col int) string
	ColumnAddress         func(col int) string // horizontal absolute
	RowAddress            func(row int) string // vertical absolute
}

// Planner maintains the believed cursor position and emits the
// minimal-cost byte sequence to reach a requested one.
type Planner struct {
	seq    Sequences
	table  Table
	rows   int
	cols   int
	pos    Position
	magic  bool // magicwrap: writing col==cols leaves the cursor "floating"
	atEdge bool // true once a write has left curX==cols under magicwrap
}

// New constructs a Planner for the given geometry and capability table.
// magicwrap matches the terminal's deferred-wrap quirk described in
// spec.md's Data Model (pkg/display passes auto_right_margin &&
// eat_newline_glitch).
func New(seq Sequences, table Table, rows, cols int, magicwrap bool) *Planner {
	return &Planner{seq: seq, table: table, rows: rows, cols: cols, magic: magicwrap}
}

// Position returns the planner's current belief about cursor location.
func (p *Planner) Position() Position {
	return p.pos
}

// NoteWroteLastColumn records that output just reached curX==cols under
// magicwrap, so the next MoveTo must recover with CRLF first.
func (p *Planner) NoteWroteLastColumn() {
	if p.magic {
		p.atEdge = true
	}
}

// NoteWrote records that n columns of printable output were just
// emitted, advancing the believed cursor the way the terminal will.
// Reaching the last column under magicwrap leaves the cursor floating;
// on other terminals the post-wrap position depends on auto_right_margin,
// so the position is simply forgotten and the next MoveTo goes absolute.
func (p *Planner) NoteWrote(n int) {
	if n <= 0 || !p.pos.Known {
		return
	}
	p.pos.Col += n
	if p.pos.Col >= p.cols {
		if p.magic {
			p.pos.Col = p.cols
			p.atEdge = true
			return
		}
		p.pos = Position{}
	}
}

// Invalidate forgets the cursor position, forcing absolute addressing on
// the next MoveTo. Used after raw writes that bypass the planner.
func (p *Planner) Invalidate() {
	p.pos = Position{}
	p.atEdge = false
}

// MoveTo brings the cursor to (row,col), returning the bytes to emit.
func (p *Planner) MoveTo(row, col int) []byte {
	var out []byte

	if p.atEdge {
		out = append(out, "\r\n"...)
		p.atEdge = false
		if p.pos.Known {
			p.pos = Position{Row: p.pos.Row + 1, Col: 0, Known: true}
		}
	}

	if p.pos.Known && p.pos.Row == row && p.pos.Col == col {
		return out
	}

	rel := p.relativePlan(p.pos, row, col)

	home := Infeasible
	var homeBytes []byte
	if p.seq.Home != "" {
		relFromHome := p.relativePlan(Position{Row: 0, Col: 0, Known: true}, row, col)
		if relFromHome.cost.Feasible() {
			home = relFromHome.cost.Add(CostFromCapability(p.seq.Home))
			homeBytes = append([]byte(p.seq.Home), relFromHome.bytes...)
		}
	}

	ll := Infeasible
	var llBytes []byte
	if p.seq.LastLine != "" {
		relFromLL := p.relativePlan(Position{Row: p.rows - 1, Col: 0, Known: true}, row, col)
		if relFromLL.cost.Feasible() {
			ll = relFromLL.cost.Add(CostFromCapability(p.seq.LastLine))
			llBytes = append([]byte(p.seq.LastLine), relFromLL.bytes...)
		}
	}

	cr := Infeasible
	var crBytes []byte
	if p.seq.CR != "" && p.pos.Known {
		relFromCR := p.relativePlan(Position{Row: p.pos.Row, Col: 0, Known: true}, row, col)
		if relFromCR.cost.Feasible() {
			cr = relFromCR.cost.Add(CostFromCapability(p.seq.CR))
			crBytes = append([]byte(p.seq.CR), relFromCR.bytes...)
		}
	}

	directCost, directBytes, directOK := p.directPlan(row, col)

	best := rel.cost
	bestBytes := rel.bytes
	if home.Less(best) {
		best, bestBytes = home, homeBytes
	}
	if ll.Less(best) {
		best, bestBytes = ll, llBytes
	}
	if cr.Less(best) {
		best, bestBytes = cr, crBytes
	}

	// Ties prefer direct absolute addressing: it is the least fragile.
	if directOK && directCost.LessOrEqual(best) {
		out = append(out, directBytes...)
		p.pos = Position{Row: row, Col: col, Known: true}
		return out
	}

	if !best.Feasible() {
		// No relative plan and no direct plan: emit the visible marker
		// and fall back to lost-cursor semantics so every later MoveTo
		// tries absolute addressing first.
		out = append(out, OOPS...)
		p.pos = Position{}
		return out
	}

	out = append(out, bestBytes...)
	p.pos = Position{Row: row, Col: col, Known: true}
	return out
}

// directPlan evaluates the direct-addressing candidate: full absolute,
// or horizontal-absolute when row==curY, or vertical-absolute when
// col==curX.
func (p *Planner) directPlan(row, col int) (Cost, []byte, bool) {
	if p.pos.Known && p.pos.Row == row && p.seq.ColumnAddress != nil {
		s := p.seq.ColumnAddress(col)
		return CostFromCapability(s), []byte(s), s != ""
	}
	if p.pos.Known && p.pos.Col == col && p.seq.RowAddress != nil {
		s := p.seq.RowAddress(row)
		return CostFromCapability(s), []byte(s), s != ""
	}
	if p.seq.CursorAddress != nil {
		s := p.seq.CursorAddress(row, col)
		return CostFromCapability(s), []byte(s), s != ""
	}
	return Infeasible, nil, false
}

type relResult struct {
	cost  Cost
	bytes []byte
}

// relativePlan computes the cost and bytes to move from src to (row,col)
// using only cardinal steps and tabs, per calccost().
func (p *Planner) relativePlan(src Position, row, col int) relResult {
	if !src.Known {
		return relResult{cost: Infeasible}
	}

	var b strings.Builder
	total := Finite(0)

	dy := row - src.Row
	switch {
	case dy > 0:
		if !p.table.Down.Feasible() {
			return relResult{cost: Infeasible}
		}
		total = total.Add(p.table.Down.Scale(dy))
		b.WriteString(strings.Repeat(p.seq.Down, dy))
	case dy < 0:
		if !p.table.Up.Feasible() {
			return relResult{cost: Infeasible}
		}
		n := -dy
		total = total.Add(p.table.Up.Scale(n))
		b.WriteString(strings.Repeat(p.seq.Up, n))
	}

	dx := col - src.Col
	switch {
	case dx > 0:
		hCost, hBytes, ok := p.horizontalRight(src.Col, col)
		if !ok {
			return relResult{cost: Infeasible}
		}
		total = total.Add(hCost)
		b.Write(hBytes)
	case dx < 0:
		if !p.table.Left.Feasible() {
			return relResult{cost: Infeasible}
		}
		n := -dx
		total = total.Add(p.table.Left.Scale(n))
		b.WriteString(strings.Repeat(p.seq.Left, n))
	}

	return relResult{cost: total, bytes: []byte(b.String())}
}

// horizontalRight computes the cheapest of {no-tabs, ntabs, n2tabs} to
// move from srcCol to dstCol>srcCol, per calccost()'s tab optimization.
// Tabs land on the terminal's actual tab grid, so the number of tabs and
// the remaining rights depend on srcCol's position within that grid, not
// just on the distance dx: a tab from col 5 reaches col 8, not col 13.
func (p *Planner) horizontalRight(srcCol, dstCol int) (Cost, []byte, bool) {
	dx := dstCol - srcCol

	noTabs := Infeasible
	if p.table.Right.Feasible() {
		noTabs = p.table.Right.Scale(dx)
	}
	bestCost := noTabs
	bestBytes := []byte(strings.Repeat(p.seq.Right, dx))
	bestOK := noTabs.Feasible()

	if p.table.UseTabs && p.table.TabSize > 0 && p.table.Tab.Feasible() {
		tw := p.table.TabSize
		s := srcCol % tw
		ntabs := (dx + s) / tw
		if ntabs > 0 {
			tabCol := srcCol - s + ntabs*tw // column after ntabs tabs from srcCol
			rem := dstCol - tabCol
			if rem >= 0 {
				cost := p.table.Tab.Scale(ntabs).Add(p.table.Right.Scale(rem))
				if cost.Feasible() && (cost.Less(bestCost) || !bestOK) {
					bestCost = cost
					bestBytes = []byte(strings.Repeat(p.seq.Tab, ntabs) + strings.Repeat(p.seq.Right, rem))
					bestOK = true
				}
			}

			n2tabs := ntabs + 1
			tabCol2 := tabCol + tw
			overshoot := tabCol2 - dstCol
			// n2tabs is valid only if it lands strictly before the right edge.
			if overshoot > 0 && overshoot < tw && tabCol2 < p.cols {
				cost2 := p.table.Tab.Scale(n2tabs).Add(p.table.Left.Scale(overshoot))
				if cost2.Feasible() && cost2.Less(bestCost) {
					bestCost = cost2
					bestBytes = []byte(strings.Repeat(p.seq.Tab, n2tabs) + strings.Repeat(p.seq.Left, overshoot))
					bestOK = true
				}
			}
		}
	}

	return bestCost, bestBytes, bestOK
}

// OOPS is the visible marker MoveTo emits when a relative plan is
// infeasible and no direct plan exists either; the cursor position is
// then treated as lost.
const OOPS = "OOPS"
