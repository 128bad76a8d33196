// ABOUTME: Minimal-transition SGR emitter: tracks current state, emits only the bytes needed
// ABOUTME: Ported from term.c's optimized set_attr, which only resets when a bit or color is being cleared

package attr

import "strconv"

// Sequences names the capability strings the engine needs to emit
// attribute transitions. The attribute strings are plain byte strings;
// the parametric color sequences are functions of the color index.
type Sequences struct {
	EnterBold      string
	EnterUnderline string
	EnterDim       string
	EnterBlink     string
	EnterReverse   string // also used for INVERSE
	EnterStandout  string
	ExitStandout   string
	ExitAttrs      string // exit_attribute_mode: resets everything
	SetForeground  func(idx int) string
	SetBackground  func(idx int) string
}

// Engine tracks the attribute state believed to be active on the
// terminal and computes the minimal byte sequence to reach a new state.
type Engine struct {
	seq         Sequences
	current     Attr
	ansiColorOK bool
	noColor     NoColorVideoMask
}

// NewEngine constructs an Engine for the given capability sequences.
func NewEngine(seq Sequences, ansiColorOK bool, noColor NoColorVideoMask) *Engine {
	return &Engine{seq: seq, ansiColorOK: ansiColorOK, noColor: noColor}
}

// Current returns the attribute state the engine believes is active.
func (e *Engine) Current() Attr {
	return e.current
}

// Reset forgets the tracked state without emitting anything, used after
// an external full-screen clear that is known to reset the terminal.
func (e *Engine) Reset() {
	e.current = None
}

// Set computes the bytes needed to transition from the current tracked
// state to want, and updates the tracked state to want.
func (e *Engine) Set(want Attr) []byte {
	want = e.noColor.Apply(want)
	var out []byte

	curFlags := e.current.Flags()
	wantFlags := want.Flags()

	curFG, curFGSet := e.current.FG()
	curBG, curBGSet := e.current.BG()
	wantFG, wantFGSet := want.FG()
	wantBG, wantBGSet := want.BG()

	shrinking := curFlags&^wantFlags != 0
	fgBecomesDefault := curFGSet && !wantFGSet
	bgBecomesDefault := curBGSet && !wantBGSet

	justReset := false
	if shrinking || fgBecomesDefault || bgBecomesDefault {
		out = append(out, e.seq.ExitAttrs...)
		out = append(out, e.enterSeq(wantFlags)...)
		justReset = true
	} else {
		added := wantFlags &^ curFlags
		out = append(out, e.enterSeq(added)...)
	}

	emitFG := wantFGSet && (justReset || !curFGSet || curFG != wantFG)
	emitBG := wantBGSet && (justReset || !curBGSet || curBG != wantBG)
	if emitFG && e.seq.SetForeground != nil {
		out = append(out, e.seq.SetForeground(Translate(wantFG, e.ansiColorOK))...)
	}
	if emitBG && e.seq.SetBackground != nil {
		out = append(out, e.seq.SetBackground(Translate(wantBG, e.ansiColorOK))...)
	}

	e.current = want
	return out
}

// enterSeq emits the enter-mode sequences for every flag bit newly set.
func (e *Engine) enterSeq(flags uint32) string {
	var s string
	if flags&BOLD != 0 {
		s += e.seq.EnterBold
	}
	if flags&UNDERLINE != 0 {
		s += e.seq.EnterUnderline
	}
	if flags&DIM != 0 {
		s += e.seq.EnterDim
	}
	if flags&BLINK != 0 {
		s += e.seq.EnterBlink
	}
	if flags&INVERSE != 0 {
		s += e.seq.EnterReverse
	}
	if flags&STANDOUT != 0 {
		s += e.seq.EnterStandout
	}
	return s
}

// ansiSGRForeground and ansiSGRBackground build the SetForeground/
// SetBackground closures for a plain ANSI ("\x1b[3Nm"/"\x1b[4Nm") terminal,
// the common case used by the hardwired ANSI profile. Bright indices
// (8..15) use the aixterm high-intensity parameters 90-97/100-107.
func ansiSGRForeground(idx int) string {
	if idx >= 8 {
		return "\x1b[9" + strconv.Itoa(idx-8) + "m"
	}
	return "\x1b[3" + strconv.Itoa(idx) + "m"
}

func ansiSGRBackground(idx int) string {
	if idx >= 8 {
		return "\x1b[10" + strconv.Itoa(idx-8) + "m"
	}
	return "\x1b[4" + strconv.Itoa(idx) + "m"
}

// DefaultANSISequences builds the Sequences set matching ansi.c's
// hardwired profile.
func DefaultANSISequences() Sequences {
	return Sequences{
		EnterBold:      "\x1b[1m",
		EnterUnderline: "\x1b[4m",
		EnterDim:       "\x1b[2m",
		EnterBlink:     "\x1b[5m",
		EnterReverse:   "\x1b[7m",
		EnterStandout:  "\x1b[7m",
		ExitStandout:   "\x1b[m",
		ExitAttrs:      "\x1b[m",
		SetForeground:  ansiSGRForeground,
		SetBackground:  ansiSGRBackground,
	}
}
