// ABOUTME: Hardwired ANSI capability profile used when no terminfo database is available
// ABOUTME: Ported field-for-field from ansi.c's setup_ansi_term()

package termcap

import "strconv"

// ANSIProfile returns the hardwired 25x80 VT100-class profile ne falls
// back to when the environment has no terminfo database.
func ANSIProfile() Capabilities {
	c := Capabilities{
		Rows: 25,
		Cols: 80,

		CarriageReturn: "\r",
		CursorHome:     "\x1b[H",
		CursorRight:    "\x1b[C",
		CursorDown:     "\x1b[B",
		CursorLeft:     "\x1b[D",
		CursorUp:       "\x1b[A",

		// VT100-class terminals wrap lazily: the cursor floats after the
		// last column until the next printable character.
		AutoRightMargin:  true,
		EatNewlineGlitch: true,

		ClrEOS:        "\x1b[J",
		ClearScreen:   "\x1b[H\x1b[J",
		Bell:          "\x07",
		ScrollForward: "\n",

		EnterStandoutMode: "\x1b[7m",
		ExitStandoutMode:  "\x1b[m",
		ExitAttributeMode: "\x1b[m",

		MoveStandoutMode: false,

		InsertLine:      "\x1b[L",
		DeleteLine:      "\x1b[M",
		DeleteCharacter: "\x1b[P",
		MoveInsertMode:  true,

		ExitAltCharsetMode: "\x1b[10m",
		TildeGlitch:        false,
		MemoryBelow:        false,
		HasMetaKey:         false,

		ClrEOL:               "\x1b[K",
		TransparentUnderline: false,
		NoColorVideo:         3,
		AnsiColorOK:          true,

		EnterBoldMode:      "\x1b[1m",
		EnterUnderlineMode: "\x1b[4m",
		EnterBlinkMode:     "\x1b[5m",
		EnterReverseMode:   "\x1b[7m",

		CursorInvisible: "\x1b[?25l",
		CursorNormal:    "\x1b[?25h",
	}
	c.MagicCookieGlitch.Present = true
	c.MagicCookieGlitch.Value = -1

	// cursor_address: terminfo's "\x1b[%i%p1%d;%p2%dH" form, %i bumping
	// both params by one to 1-indexed coordinates.
	c.CursorAddress = func(row, col int) string {
		return "\x1b[" + strconv.Itoa(row+1) + ";" + strconv.Itoa(col+1) + "H"
	}
	// Bright palette indices (8..15) map to the aixterm high-intensity
	// SGR parameters; the base eight use the standard 30-37/40-47 range.
	c.SetForeground = func(idx int) string {
		if idx >= 8 {
			return "\x1b[9" + strconv.Itoa(idx-8) + "m"
		}
		return "\x1b[3" + strconv.Itoa(idx) + "m"
	}
	c.SetBackground = func(idx int) string {
		if idx >= 8 {
			return "\x1b[10" + strconv.Itoa(idx-8) + "m"
		}
		return "\x1b[4" + strconv.Itoa(idx) + "m"
	}
	return c
}
