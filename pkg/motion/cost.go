// ABOUTME: Explicit infeasible-cost domain and the precomputed cardinal cost table
// ABOUTME: Ported from cm.c's cmcostinit(); BIG is modeled as a variant, never a magic int

package motion

// Cost is either a finite, non-negative byte count or Infeasible. Unlike
// the source's BIG=9999 sentinel, arithmetic on an infeasible Cost always
// stays infeasible rather than risking overflow back into range.
type Cost struct {
	n          int
	infeasible bool
}

// Finite constructs a feasible cost of n bytes.
func Finite(n int) Cost {
	return Cost{n: n}
}

// Infeasible is the cost of a plan that cannot be executed, because a
// required capability string is empty.
var Infeasible = Cost{infeasible: true}

// Feasible reports whether the cost represents an executable plan.
func (c Cost) Feasible() bool {
	return !c.infeasible
}

// Value returns the byte count. Only meaningful when Feasible().
func (c Cost) Value() int {
	return c.n
}

// Add sums two costs; the result is infeasible if either operand is.
func (c Cost) Add(o Cost) Cost {
	if !c.Feasible() || !o.Feasible() {
		return Infeasible
	}
	return Finite(c.n + o.n)
}

// Scale multiplies a feasible cost by n.
func (c Cost) Scale(n int) Cost {
	if !c.Feasible() {
		return Infeasible
	}
	return Finite(c.n * n)
}

// Less reports whether c is strictly cheaper than o. An infeasible cost
// is never less than anything, and anything feasible is less than an
// infeasible cost.
func (c Cost) Less(o Cost) bool {
	if !c.Feasible() {
		return false
	}
	if !o.Feasible() {
		return true
	}
	return c.n < o.n
}

// LessOrEqual reports c <= o under the same feasibility ordering as Less.
func (c Cost) LessOrEqual(o Cost) bool {
	return c.Less(o) || c == o
}

// CostFromCapability expands a capability string once through a
// byte-counting sink (no padding model here: padding delays do not add
// bytes to the stream, only wall-clock delay, so byte count is the cost
// the planner optimizes). An empty capability string is infeasible.
func CostFromCapability(s string) Cost {
	if s == "" {
		return Infeasible
	}
	return Finite(len(s))
}

// Table holds the precomputed per-direction and absolute-addressing
// costs, recomputed whenever capabilities change.
type Table struct {
	Up, Down, Left, Right Cost
	Home, CR, LastLine    Cost
	Tab                   Cost
	TabSize               int
	UseTabs               bool

	// AbsMin, HAbsMin, VAbsMin are minimum costs for full absolute,
	// horizontal-absolute (row==curY), and vertical-absolute (col==curX)
	// addressing. The real cost is recomputed before committing.
	AbsMin, HAbsMin, VAbsMin Cost
}
