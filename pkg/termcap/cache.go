// ABOUTME: Resolved capability profile cache, keyed by $TERM, to skip re-parsing terminfo
// ABOUTME: MarshalEasyJSON/UnmarshalEasyJSON are hand-written since code generation cannot run here

package termcap

import (
	"os"
	"path/filepath"

	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"
)

// cachedProfile is the serializable subset of Capabilities: plain
// fields verbatim, and raw terminfo templates for the parametric
// fields, replayed through tparm at load time instead of caching a
// Go closure (which cannot be serialized).
type cachedProfile struct {
	Rows, Cols int

	CursorAddressTemplate  string
	ColumnAddressTemplate  string
	RowAddressTemplate     string
	ParmInsertLineTemplate string
	ParmDeleteLineTemplate string
	ParmIchTemplate        string
	ParmDchTemplate        string
	SetForegroundTemplate  string
	SetBackgroundTemplate  string

	ChangeScrollRegionTemplate string

	CursorHome, CursorToLL, CarriageReturn        string
	CursorUp, CursorDown, CursorLeft, CursorRight string
	Tab                                           string
	AutoRightMargin, EatNewlineGlitch             bool
	TildeGlitch, MemoryBelow                      bool
	MoveInsertMode, MoveStandoutMode              bool
	MagicCookiePresent                            bool
	MagicCookieValue                              int
	ClrEOL, ClrEOS, ClearScreen                   string
	Bell, ScrollForward, ScrollReverse            string
	InsertLine, DeleteLine                        string
	InsertCharacter, DeleteCharacter              string
	EnterInsertMode, ExitInsertMode               string
	EnterDeleteMode, ExitDeleteMode               string
	InsertPadding                                 string
	EnterBoldMode, EnterUnderlineMode             string
	EnterDimMode, EnterBlinkMode                  string
	EnterReverseMode, EnterStandoutMode           string
	ExitStandoutMode, ExitAttributeMode           string
	ExitAltCharsetMode                            string
	NoColorVideo                                  int
	AnsiColorOK                                   bool
	CursorInvisible, CursorNormal                 string
	EnterCAMode, ExitCAMode                       string
	KeypadXmit, KeypadLocal                       string
	MetaOn, MetaOff                               string
	HasMetaKey                                    bool
	TransparentUnderline                          bool
}

// MarshalEasyJSON implements easyjson.Marshaler by hand; this module
// does not run `easyjson -all` code generation, so the (de)serializer is
// written directly against the jwriter/jlexer primitives it would emit.
func (c *cachedProfile) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawByte('{')
	first := true
	field := func(name string) {
		if !first {
			w.RawByte(',')
		}
		first = false
		w.String(name)
		w.RawByte(':')
	}

	field("rows")
	w.Int(c.Rows)
	field("cols")
	w.Int(c.Cols)
	field("cursor_address_template")
	w.String(c.CursorAddressTemplate)
	field("column_address_template")
	w.String(c.ColumnAddressTemplate)
	field("row_address_template")
	w.String(c.RowAddressTemplate)
	field("parm_insert_line_template")
	w.String(c.ParmInsertLineTemplate)
	field("parm_delete_line_template")
	w.String(c.ParmDeleteLineTemplate)
	field("parm_ich_template")
	w.String(c.ParmIchTemplate)
	field("parm_dch_template")
	w.String(c.ParmDchTemplate)
	field("set_foreground_template")
	w.String(c.SetForegroundTemplate)
	field("set_background_template")
	w.String(c.SetBackgroundTemplate)
	field("change_scroll_region_template")
	w.String(c.ChangeScrollRegionTemplate)
	field("cursor_home")
	w.String(c.CursorHome)
	field("cursor_to_ll")
	w.String(c.CursorToLL)
	field("carriage_return")
	w.String(c.CarriageReturn)
	field("cursor_up")
	w.String(c.CursorUp)
	field("cursor_down")
	w.String(c.CursorDown)
	field("cursor_left")
	w.String(c.CursorLeft)
	field("cursor_right")
	w.String(c.CursorRight)
	field("tab")
	w.String(c.Tab)
	field("auto_right_margin")
	w.Bool(c.AutoRightMargin)
	field("eat_newline_glitch")
	w.Bool(c.EatNewlineGlitch)
	field("tilde_glitch")
	w.Bool(c.TildeGlitch)
	field("memory_below")
	w.Bool(c.MemoryBelow)
	field("move_insert_mode")
	w.Bool(c.MoveInsertMode)
	field("move_standout_mode")
	w.Bool(c.MoveStandoutMode)
	field("magic_cookie_present")
	w.Bool(c.MagicCookiePresent)
	field("magic_cookie_value")
	w.Int(c.MagicCookieValue)
	field("clr_eol")
	w.String(c.ClrEOL)
	field("clr_eos")
	w.String(c.ClrEOS)
	field("clear_screen")
	w.String(c.ClearScreen)
	field("bell")
	w.String(c.Bell)
	field("scroll_forward")
	w.String(c.ScrollForward)
	field("scroll_reverse")
	w.String(c.ScrollReverse)
	field("insert_line")
	w.String(c.InsertLine)
	field("delete_line")
	w.String(c.DeleteLine)
	field("insert_character")
	w.String(c.InsertCharacter)
	field("delete_character")
	w.String(c.DeleteCharacter)
	field("enter_insert_mode")
	w.String(c.EnterInsertMode)
	field("exit_insert_mode")
	w.String(c.ExitInsertMode)
	field("enter_delete_mode")
	w.String(c.EnterDeleteMode)
	field("exit_delete_mode")
	w.String(c.ExitDeleteMode)
	field("insert_padding")
	w.String(c.InsertPadding)
	field("enter_bold_mode")
	w.String(c.EnterBoldMode)
	field("enter_underline_mode")
	w.String(c.EnterUnderlineMode)
	field("enter_dim_mode")
	w.String(c.EnterDimMode)
	field("enter_blink_mode")
	w.String(c.EnterBlinkMode)
	field("enter_reverse_mode")
	w.String(c.EnterReverseMode)
	field("enter_standout_mode")
	w.String(c.EnterStandoutMode)
	field("exit_standout_mode")
	w.String(c.ExitStandoutMode)
	field("exit_attribute_mode")
	w.String(c.ExitAttributeMode)
	field("exit_alt_charset_mode")
	w.String(c.ExitAltCharsetMode)
	field("no_color_video")
	w.Int(c.NoColorVideo)
	field("ansi_color_ok")
	w.Bool(c.AnsiColorOK)
	field("cursor_invisible")
	w.String(c.CursorInvisible)
	field("cursor_normal")
	w.String(c.CursorNormal)
	field("enter_ca_mode")
	w.String(c.EnterCAMode)
	field("exit_ca_mode")
	w.String(c.ExitCAMode)
	field("keypad_xmit")
	w.String(c.KeypadXmit)
	field("keypad_local")
	w.String(c.KeypadLocal)
	field("meta_on")
	w.String(c.MetaOn)
	field("meta_off")
	w.String(c.MetaOff)
	field("has_meta_key")
	w.Bool(c.HasMetaKey)
	field("transparent_underline")
	w.Bool(c.TransparentUnderline)
	w.RawByte('}')
}

// UnmarshalEasyJSON implements easyjson.Unmarshaler by hand.
func (c *cachedProfile) UnmarshalEasyJSON(l *jlexer.Lexer) {
	l.Delim('{')
	for !l.IsDelim('}') {
		key := l.UnsafeFieldName(false)
		l.WantColon()
		switch key {
		case "rows":
			c.Rows = l.Int()
		case "cols":
			c.Cols = l.Int()
		case "cursor_address_template":
			c.CursorAddressTemplate = l.String()
		case "column_address_template":
			c.ColumnAddressTemplate = l.String()
		case "row_address_template":
			c.RowAddressTemplate = l.String()
		case "parm_insert_line_template":
			c.ParmInsertLineTemplate = l.String()
		case "parm_delete_line_template":
			c.ParmDeleteLineTemplate = l.String()
		case "parm_ich_template":
			c.ParmIchTemplate = l.String()
		case "parm_dch_template":
			c.ParmDchTemplate = l.String()
		case "set_foreground_template":
			c.SetForegroundTemplate = l.String()
		case "set_background_template":
			c.SetBackgroundTemplate = l.String()
		case "change_scroll_region_template":
			c.ChangeScrollRegionTemplate = l.String()
		case "cursor_home":
			c.CursorHome = l.String()
		case "cursor_to_ll":
			c.CursorToLL = l.String()
		case "carriage_return":
			c.CarriageReturn = l.String()
		case "cursor_up":
			c.CursorUp = l.String()
		case "cursor_down":
			c.CursorDown = l.String()
		case "cursor_left":
			c.CursorLeft = l.String()
		case "cursor_right":
			c.CursorRight = l.String()
		case "tab":
			c.Tab = l.String()
		case "auto_right_margin":
			c.AutoRightMargin = l.Bool()
		case "eat_newline_glitch":
			c.EatNewlineGlitch = l.Bool()
		case "tilde_glitch":
			c.TildeGlitch = l.Bool()
		case "memory_below":
			c.MemoryBelow = l.Bool()
		case "move_insert_mode":
			c.MoveInsertMode = l.Bool()
		case "move_standout_mode":
			c.MoveStandoutMode = l.Bool()
		case "magic_cookie_present":
			c.MagicCookiePresent = l.Bool()
		case "magic_cookie_value":
			c.MagicCookieValue = l.Int()
		case "clr_eol":
			c.ClrEOL = l.String()
		case "clr_eos":
			c.ClrEOS = l.String()
		case "clear_screen":
			c.ClearScreen = l.String()
		case "bell":
			c.Bell = l.String()
		case "scroll_forward":
			c.ScrollForward = l.String()
		case "scroll_reverse":
			c.ScrollReverse = l.String()
		case "insert_line":
			c.InsertLine = l.String()
		case "delete_line":
			c.DeleteLine = l.String()
		case "insert_character":
			c.InsertCharacter = l.String()
		case "delete_character":
			c.DeleteCharacter = l.String()
		case "enter_insert_mode":
			c.EnterInsertMode = l.String()
		case "exit_insert_mode":
			c.ExitInsertMode = l.String()
		case "enter_delete_mode":
			c.EnterDeleteMode = l.String()
		case "exit_delete_mode":
			c.ExitDeleteMode = l.String()
		case "insert_padding":
			c.InsertPadding = l.String()
		case "enter_bold_mode":
			c.EnterBoldMode = l.String()
		case "enter_underline_mode":
			c.EnterUnderlineMode = l.String()
		case "enter_dim_mode":
			c.EnterDimMode = l.String()
		case "enter_blink_mode":
			c.EnterBlinkMode = l.String()
		case "enter_reverse_mode":
			c.EnterReverseMode = l.String()
		case "enter_standout_mode":
			c.EnterStandoutMode = l.String()
		case "exit_standout_mode":
			c.ExitStandoutMode = l.String()
		case "exit_attribute_mode":
			c.ExitAttributeMode = l.String()
		case "exit_alt_charset_mode":
			c.ExitAltCharsetMode = l.String()
		case "no_color_video":
			c.NoColorVideo = l.Int()
		case "ansi_color_ok":
			c.AnsiColorOK = l.Bool()
		case "cursor_invisible":
			c.CursorInvisible = l.String()
		case "cursor_normal":
			c.CursorNormal = l.String()
		case "enter_ca_mode":
			c.EnterCAMode = l.String()
		case "exit_ca_mode":
			c.ExitCAMode = l.String()
		case "keypad_xmit":
			c.KeypadXmit = l.String()
		case "keypad_local":
			c.KeypadLocal = l.String()
		case "meta_on":
			c.MetaOn = l.String()
		case "meta_off":
			c.MetaOff = l.String()
		case "has_meta_key":
			c.HasMetaKey = l.Bool()
		case "transparent_underline":
			c.TransparentUnderline = l.Bool()
		default:
			l.SkipRecursive()
		}
		l.WantComma()
	}
	l.Delim('}')
}

func cacheDir() string {
	if d, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && d != "" {
		return filepath.Join(d, "dispd")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "dispd")
}

func cachePath(term string) string {
	return filepath.Join(cacheDir(), "termcap-"+term+".json")
}

func toCached(c Capabilities) *cachedProfile {
	cp := &cachedProfile{
		Rows: c.Rows, Cols: c.Cols,
		CursorAddressTemplate:      c.CursorAddressTemplate,
		ColumnAddressTemplate:      c.ColumnAddressTemplate,
		RowAddressTemplate:         c.RowAddressTemplate,
		ParmInsertLineTemplate:     c.ParmInsertLineTemplate,
		ParmDeleteLineTemplate:     c.ParmDeleteLineTemplate,
		ParmIchTemplate:            c.ParmInsertCharacterTemplate,
		ParmDchTemplate:            c.ParmDeleteCharTemplate,
		SetForegroundTemplate:      c.SetForegroundTemplate,
		SetBackgroundTemplate:      c.SetBackgroundTemplate,
		ChangeScrollRegionTemplate: c.ChangeScrollRegionTemplate,
		CursorHome:                 c.CursorHome, CursorToLL: c.CursorToLL, CarriageReturn: c.CarriageReturn,
		CursorUp: c.CursorUp, CursorDown: c.CursorDown, CursorLeft: c.CursorLeft, CursorRight: c.CursorRight,
		Tab:                c.Tab,
		AutoRightMargin:    c.AutoRightMargin,
		EatNewlineGlitch:   c.EatNewlineGlitch,
		TildeGlitch:        c.TildeGlitch,
		MemoryBelow:        c.MemoryBelow,
		MoveInsertMode:     c.MoveInsertMode,
		MoveStandoutMode:   c.MoveStandoutMode,
		MagicCookiePresent: c.MagicCookieGlitch.Present,
		MagicCookieValue:   c.MagicCookieGlitch.Value,
		ClrEOL:             c.ClrEOL, ClrEOS: c.ClrEOS, ClearScreen: c.ClearScreen,
		Bell: c.Bell, ScrollForward: c.ScrollForward, ScrollReverse: c.ScrollReverse,
		InsertLine: c.InsertLine, DeleteLine: c.DeleteLine,
		InsertCharacter: c.InsertCharacter, DeleteCharacter: c.DeleteCharacter,
		EnterInsertMode: c.EnterInsertMode, ExitInsertMode: c.ExitInsertMode,
		EnterDeleteMode: c.EnterDeleteMode, ExitDeleteMode: c.ExitDeleteMode,
		InsertPadding: c.InsertPadding,
		EnterBoldMode: c.EnterBoldMode, EnterUnderlineMode: c.EnterUnderlineMode,
		EnterDimMode: c.EnterDimMode, EnterBlinkMode: c.EnterBlinkMode,
		EnterReverseMode: c.EnterReverseMode, EnterStandoutMode: c.EnterStandoutMode,
		ExitStandoutMode: c.ExitStandoutMode, ExitAttributeMode: c.ExitAttributeMode,
		ExitAltCharsetMode: c.ExitAltCharsetMode,
		NoColorVideo:       c.NoColorVideo,
		AnsiColorOK:        c.AnsiColorOK,
		CursorInvisible:    c.CursorInvisible, CursorNormal: c.CursorNormal,
		EnterCAMode: c.EnterCAMode, ExitCAMode: c.ExitCAMode,
		KeypadXmit: c.KeypadXmit, KeypadLocal: c.KeypadLocal,
		MetaOn: c.MetaOn, MetaOff: c.MetaOff, HasMetaKey: c.HasMetaKey,
		TransparentUnderline: c.TransparentUnderline,
	}
	return cp
}

func (cp *cachedProfile) toCapabilities() Capabilities {
	c := Capabilities{
		Rows: cp.Rows, Cols: cp.Cols,
		CursorHome: cp.CursorHome, CursorToLL: cp.CursorToLL, CarriageReturn: cp.CarriageReturn,
		CursorUp: cp.CursorUp, CursorDown: cp.CursorDown, CursorLeft: cp.CursorLeft, CursorRight: cp.CursorRight,
		Tab:              cp.Tab,
		AutoRightMargin:  cp.AutoRightMargin,
		EatNewlineGlitch: cp.EatNewlineGlitch,
		TildeGlitch:      cp.TildeGlitch,
		MemoryBelow:      cp.MemoryBelow,
		MoveInsertMode:   cp.MoveInsertMode,
		MoveStandoutMode: cp.MoveStandoutMode,
		ClrEOL:           cp.ClrEOL, ClrEOS: cp.ClrEOS, ClearScreen: cp.ClearScreen,
		Bell: cp.Bell, ScrollForward: cp.ScrollForward, ScrollReverse: cp.ScrollReverse,
		InsertLine: cp.InsertLine, DeleteLine: cp.DeleteLine,
		InsertCharacter: cp.InsertCharacter, DeleteCharacter: cp.DeleteCharacter,
		EnterInsertMode: cp.EnterInsertMode, ExitInsertMode: cp.ExitInsertMode,
		EnterDeleteMode: cp.EnterDeleteMode, ExitDeleteMode: cp.ExitDeleteMode,
		InsertPadding: cp.InsertPadding,
		EnterBoldMode: cp.EnterBoldMode, EnterUnderlineMode: cp.EnterUnderlineMode,
		EnterDimMode: cp.EnterDimMode, EnterBlinkMode: cp.EnterBlinkMode,
		EnterReverseMode: cp.EnterReverseMode, EnterStandoutMode: cp.EnterStandoutMode,
		ExitStandoutMode: cp.ExitStandoutMode, ExitAttributeMode: cp.ExitAttributeMode,
		ExitAltCharsetMode: cp.ExitAltCharsetMode,
		NoColorVideo:       cp.NoColorVideo,
		AnsiColorOK:        cp.AnsiColorOK,
		CursorInvisible:    cp.CursorInvisible, CursorNormal: cp.CursorNormal,
		EnterCAMode: cp.EnterCAMode, ExitCAMode: cp.ExitCAMode,
		KeypadXmit: cp.KeypadXmit, KeypadLocal: cp.KeypadLocal,
		MetaOn: cp.MetaOn, MetaOff: cp.MetaOff, HasMetaKey: cp.HasMetaKey,
		TransparentUnderline: cp.TransparentUnderline,
	}
	c.MagicCookieGlitch.Present = cp.MagicCookiePresent
	c.MagicCookieGlitch.Value = cp.MagicCookieValue

	c.CursorAddressTemplate = cp.CursorAddressTemplate
	c.ColumnAddressTemplate = cp.ColumnAddressTemplate
	c.RowAddressTemplate = cp.RowAddressTemplate
	c.ParmInsertLineTemplate = cp.ParmInsertLineTemplate
	c.ParmDeleteLineTemplate = cp.ParmDeleteLineTemplate
	c.ParmInsertCharacterTemplate = cp.ParmIchTemplate
	c.ParmDeleteCharTemplate = cp.ParmDchTemplate
	c.SetForegroundTemplate = cp.SetForegroundTemplate
	c.SetBackgroundTemplate = cp.SetBackgroundTemplate
	c.ChangeScrollRegionTemplate = cp.ChangeScrollRegionTemplate

	if cp.CursorAddressTemplate != "" {
		tmpl := cp.CursorAddressTemplate
		c.CursorAddress = func(row, col int) string { return tparm(tmpl, row, col) }
	}
	if cp.ColumnAddressTemplate != "" {
		tmpl := cp.ColumnAddressTemplate
		c.ColumnAddress = func(col int) string { return tparm(tmpl, col) }
	}
	if cp.RowAddressTemplate != "" {
		tmpl := cp.RowAddressTemplate
		c.RowAddress = func(row int) string { return tparm(tmpl, row) }
	}
	if cp.ParmInsertLineTemplate != "" {
		tmpl := cp.ParmInsertLineTemplate
		c.ParmInsertLine = func(n int) string { return tparm(tmpl, n) }
	}
	if cp.ParmDeleteLineTemplate != "" {
		tmpl := cp.ParmDeleteLineTemplate
		c.ParmDeleteLine = func(n int) string { return tparm(tmpl, n) }
	}
	if cp.ParmIchTemplate != "" {
		tmpl := cp.ParmIchTemplate
		c.ParmInsertCharacter = func(n int) string { return tparm(tmpl, n) }
	}
	if cp.ParmDchTemplate != "" {
		tmpl := cp.ParmDchTemplate
		c.ParmDeleteChar = func(n int) string { return tparm(tmpl, n) }
	}
	if cp.SetForegroundTemplate != "" {
		tmpl := cp.SetForegroundTemplate
		c.SetForeground = func(idx int) string { return tparm(tmpl, idx) }
	}
	if cp.SetBackgroundTemplate != "" {
		tmpl := cp.SetBackgroundTemplate
		c.SetBackground = func(idx int) string { return tparm(tmpl, idx) }
	}
	if cp.ChangeScrollRegionTemplate != "" {
		tmpl := cp.ChangeScrollRegionTemplate
		c.ChangeScrollRegion = func(top, bottom int) string { return tparm(tmpl, top, bottom) }
	}
	return c
}

func loadCache(term string) (Capabilities, bool) {
	data, err := os.ReadFile(cachePath(term))
	if err != nil {
		return Capabilities{}, false
	}
	var cp cachedProfile
	if err := easyjson.Unmarshal(data, &cp); err != nil {
		return Capabilities{}, false
	}
	return cp.toCapabilities(), true
}

func saveCache(term string, c Capabilities) error {
	if err := os.MkdirAll(cacheDir(), 0o755); err != nil {
		return err
	}
	cp := toCached(c)
	data, err := easyjson.Marshal(cp)
	if err != nil {
		return err
	}
	return os.WriteFile(cachePath(term), data, 0o644)
}
