// ABOUTME: Capability Table: terminal strings and flags consumed by the display engine
// ABOUTME: Populated from terminfo (xo/terminfo) or the hardwired ANSI profile in ansiprofile.go

package termcap

import "fmt"

// ErrIncapable is returned when a terminal lacks the minimum capabilities
// the core requires: absolute addressing, or the full set of up/down/
// left/right cardinal motions.
var ErrIncapable = fmt.Errorf("terminal lacks required cursor motion capabilities")

// Capabilities is the flat capability record; no macro aliasing, one
// field per terminfo capability the core consumes.
type Capabilities struct {
	Rows, Cols int

	CursorAddress func(row, col int) string // cup, %i%p1%d;%p2%dH style
	ColumnAddress func(col int) string      // hpa
	RowAddress    func(row int) string      // vpa

	// *Template carry the raw terminfo parameter string each func above
	// was compiled from, so pkg/termcap's cache can serialize the
	// capability and rebuild the closure via tparm on a cache hit
	// instead of losing it to a non-serializable func value. Empty when
	// the capability came from a profile (like ANSIProfile) that built
	// its func by hand rather than from a terminfo template.
	CursorAddressTemplate string
	ColumnAddressTemplate string
	RowAddressTemplate    string

	CursorHome                                    string
	CursorToLL                                    string // cursor to last line
	CarriageReturn                                string
	CursorUp, CursorDown, CursorLeft, CursorRight string
	Tab                                           string

	AutoRightMargin  bool
	EatNewlineGlitch bool
	TildeGlitch      bool
	MemoryBelow      bool
	MoveInsertMode   bool
	MoveStandoutMode bool

	// MagicCookieGlitch is tri-state: Present is false when no value is
	// known (terminfo reports none, or zero); otherwise Value holds
	// magic_cookie_glitch, which ANSIProfile sets to -1.
	MagicCookieGlitch struct {
		Present bool
		Value   int
	}

	ClrEOL, ClrEOS, ClearScreen  string
	Bell                         string
	ScrollForward, ScrollReverse string
	ChangeScrollRegion           func(top, bottom int) string
	ChangeScrollRegionTemplate   string

	InsertLine, DeleteLine                              string
	ParmInsertLine, ParmDeleteLine                      func(n int) string
	ParmInsertLineTemplate, ParmDeleteLineTemplate      string
	InsertCharacter, DeleteCharacter                    string
	ParmInsertCharacter, ParmDeleteChar                 func(n int) string
	ParmInsertCharacterTemplate, ParmDeleteCharTemplate string
	EnterInsertMode, ExitInsertMode                     string
	EnterDeleteMode, ExitDeleteMode                     string
	InsertPadding                                       string

	EnterBoldMode, EnterUnderlineMode, EnterDimMode, EnterBlinkMode string
	EnterReverseMode, EnterStandoutMode, ExitStandoutMode           string
	ExitAttributeMode, ExitAltCharsetMode                           string
	NoColorVideo                                                    int

	SetForeground                                func(idx int) string
	SetBackground                                func(idx int) string
	SetForegroundTemplate, SetBackgroundTemplate string
	AnsiColorOK                                  bool

	CursorInvisible, CursorNormal string
	EnterCAMode, ExitCAMode       string
	KeypadXmit, KeypadLocal       string
	MetaOn, MetaOff               string
	HasMetaKey                    bool

	TransparentUnderline bool
	IOUTF8               bool
}

// Validate enforces the minimum-capability rule from spec.md §7: either
// absolute addressing, or all four cardinal motions.
func (c Capabilities) Validate() error {
	if c.Rows <= 0 || c.Cols <= 0 {
		return fmt.Errorf("%w: unknown geometry", ErrIncapable)
	}
	hasAbs := c.CursorAddress != nil
	hasCardinals := c.CursorUp != "" && c.CursorDown != "" && c.CursorLeft != "" && c.CursorRight != ""
	if !hasAbs && !hasCardinals {
		return ErrIncapable
	}
	return nil
}
