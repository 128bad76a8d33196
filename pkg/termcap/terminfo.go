// ABOUTME: Resolves a Capabilities record from the system terminfo database
// ABOUTME: Falls back to ANSIProfile when no database entry can be found for $TERM

package termcap

import (
	"context"
	"os"

	"github.com/xo/terminfo"
	"golang.org/x/sync/errgroup"
)

// searchPaths lists the conventional terminfo database roots; probed
// concurrently since most are absent on any given system.
func searchPaths() []string {
	paths := []string{
		"/usr/share/terminfo",
		"/lib/terminfo",
		"/usr/lib/terminfo",
		"/etc/terminfo",
	}
	if home, ok := os.LookupEnv("HOME"); ok {
		paths = append(paths, home+"/.terminfo")
	}
	if v, ok := os.LookupEnv("TERMINFO"); ok {
		paths = append([]string{v}, paths...)
	}
	return paths
}

// probeSearchPaths concurrently checks which terminfo roots exist, using
// errgroup so a slow or unreadable mount does not serialize startup.
func probeSearchPaths(ctx context.Context) []string {
	paths := searchPaths()
	present := make([]bool, len(paths))

	g, _ := errgroup.WithContext(ctx)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if fi, err := os.Stat(p); err == nil && fi.IsDir() {
				present[i] = true
			}
			return nil
		})
	}
	_ = g.Wait()

	var out []string
	for i, ok := range present {
		if ok {
			out = append(out, paths[i])
		}
	}
	return out
}

// Load resolves capabilities for $TERM via the terminfo database,
// falling back to the hardwired ANSI profile when no entry is found or
// the environment lacks a usable database.
func Load(ctx context.Context) (Capabilities, error) {
	term := os.Getenv("TERM")
	if term == "" {
		return ANSIProfile(), nil
	}

	if cached, ok := loadCache(term); ok {
		return cached, nil
	}

	_ = probeSearchPaths(ctx) // warms the OS stat cache ahead of terminfo's own lookup

	ti, err := terminfo.LoadFromEnv()
	if err != nil {
		return ANSIProfile(), nil
	}

	caps := fromTerminfo(ti)
	_ = saveCache(term, caps)
	return caps, nil
}

// fromTerminfo translates a *terminfo.Terminfo into our flat Capabilities
// record, the Go analogue of ne's info2cap.h macro table. terminfo stores
// string capabilities as byte slices; every field here is converted once
// so the rest of the engine only ever sees plain strings.
func fromTerminfo(ti *terminfo.Terminfo) Capabilities {
	str := func(i int) string { return string(ti.Strings[i]) }

	c := Capabilities{
		Rows: ti.Nums[terminfo.Lines],
		Cols: ti.Nums[terminfo.Columns],

		CursorHome:     str(terminfo.CursorHome),
		CursorToLL:     str(terminfo.CursorToLl),
		CarriageReturn: str(terminfo.CarriageReturn),
		CursorUp:       str(terminfo.CursorUp),
		CursorDown:     str(terminfo.CursorDown),
		CursorLeft:     str(terminfo.CursorLeft),
		CursorRight:    str(terminfo.CursorRight),
		Tab:            str(terminfo.Tab),

		AutoRightMargin:  ti.Bools[terminfo.AutoRightMargin],
		EatNewlineGlitch: ti.Bools[terminfo.EatNewlineGlitch],
		TildeGlitch:      ti.Bools[terminfo.TildeGlitch],
		MemoryBelow:      ti.Bools[terminfo.MemoryBelow],
		MoveInsertMode:   ti.Bools[terminfo.MoveInsertMode],
		MoveStandoutMode: ti.Bools[terminfo.MoveStandoutMode],

		ClrEOL:        str(terminfo.ClrEol),
		ClrEOS:        str(terminfo.ClrEos),
		ClearScreen:   str(terminfo.ClearScreen),
		Bell:          str(terminfo.Bell),
		ScrollForward: str(terminfo.ScrollForward),
		ScrollReverse: str(terminfo.ScrollReverse),

		InsertLine:      str(terminfo.InsertLine),
		DeleteLine:      str(terminfo.DeleteLine),
		InsertCharacter: str(terminfo.InsertCharacter),
		DeleteCharacter: str(terminfo.DeleteCharacter),
		EnterInsertMode: str(terminfo.EnterInsertMode),
		ExitInsertMode:  str(terminfo.ExitInsertMode),
		EnterDeleteMode: str(terminfo.EnterDeleteMode),
		ExitDeleteMode:  str(terminfo.ExitDeleteMode),
		InsertPadding:   str(terminfo.InsertPadding),

		EnterBoldMode:      str(terminfo.EnterBoldMode),
		EnterUnderlineMode: str(terminfo.EnterUnderlineMode),
		EnterDimMode:       str(terminfo.EnterDimMode),
		EnterBlinkMode:     str(terminfo.EnterBlinkMode),
		EnterReverseMode:   str(terminfo.EnterReverseMode),
		EnterStandoutMode:  str(terminfo.EnterStandoutMode),
		ExitStandoutMode:   str(terminfo.ExitStandoutMode),
		ExitAttributeMode:  str(terminfo.ExitAttributeMode),
		ExitAltCharsetMode: str(terminfo.ExitAltCharsetMode),
		NoColorVideo:       ti.Nums[terminfo.NoColorVideo],

		CursorInvisible: str(terminfo.CursorInvisible),
		CursorNormal:    str(terminfo.CursorNormal),
		EnterCAMode:     str(terminfo.EnterCaMode),
		ExitCAMode:      str(terminfo.ExitCaMode),
		KeypadXmit:      str(terminfo.KeypadXmit),
		KeypadLocal:     str(terminfo.KeypadLocal),
		MetaOn:          str(terminfo.MetaOn),
		MetaOff:         str(terminfo.MetaOff),
		HasMetaKey:      ti.Bools[terminfo.HasMetaKey],

		TransparentUnderline: ti.Bools[terminfo.TransparentUnderline],
	}

	if mc, ok := ti.Nums[terminfo.MagicCookieGlitch]; ok && mc != 0 {
		c.MagicCookieGlitch.Present = true
		c.MagicCookieGlitch.Value = mc
	}

	if tmpl := str(terminfo.CursorAddress); tmpl != "" {
		c.CursorAddressTemplate = tmpl
		c.CursorAddress = func(row, col int) string {
			return ti.Printf(terminfo.CursorAddress, row, col)
		}
	}
	if tmpl := str(terminfo.ColumnAddress); tmpl != "" {
		c.ColumnAddressTemplate = tmpl
		c.ColumnAddress = func(col int) string {
			return ti.Printf(terminfo.ColumnAddress, col)
		}
	}
	if tmpl := str(terminfo.RowAddress); tmpl != "" {
		c.RowAddressTemplate = tmpl
		c.RowAddress = func(row int) string {
			return ti.Printf(terminfo.RowAddress, row)
		}
	}
	if tmpl := str(terminfo.ChangeScrollRegion); tmpl != "" {
		c.ChangeScrollRegionTemplate = tmpl
		c.ChangeScrollRegion = func(top, bottom int) string {
			return ti.Printf(terminfo.ChangeScrollRegion, top, bottom)
		}
	}
	if tmpl := str(terminfo.ParmInsertLine); tmpl != "" {
		c.ParmInsertLineTemplate = tmpl
		c.ParmInsertLine = func(n int) string { return ti.Printf(terminfo.ParmInsertLine, n) }
	}
	if tmpl := str(terminfo.ParmDeleteLine); tmpl != "" {
		c.ParmDeleteLineTemplate = tmpl
		c.ParmDeleteLine = func(n int) string { return ti.Printf(terminfo.ParmDeleteLine, n) }
	}
	if tmpl := str(terminfo.ParmIch); tmpl != "" {
		c.ParmInsertCharacterTemplate = tmpl
		c.ParmInsertCharacter = func(n int) string { return ti.Printf(terminfo.ParmIch, n) }
	}
	if tmpl := str(terminfo.ParmDch); tmpl != "" {
		c.ParmDeleteCharTemplate = tmpl
		c.ParmDeleteChar = func(n int) string { return ti.Printf(terminfo.ParmDch, n) }
	}

	c.AnsiColorOK = ti.Nums[terminfo.MaxColors] >= 8
	if tmpl := str(terminfo.SetAForeground); tmpl != "" {
		c.SetForegroundTemplate = tmpl
		c.SetForeground = func(idx int) string { return ti.Printf(terminfo.SetAForeground, idx) }
	}
	if tmpl := str(terminfo.SetABackground); tmpl != "" {
		c.SetBackgroundTemplate = tmpl
		c.SetBackground = func(idx int) string { return ti.Printf(terminfo.SetABackground, idx) }
	}

	return c
}
