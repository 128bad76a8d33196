// ABOUTME: Tests for the Capability Table's validation rule and the on-disk profile cache round-trip
// ABOUTME: Exercises toCached/toCapabilities through saveCache/loadCache so a reload cannot silently drop a parametric capability

package termcap

import "testing"

func TestValidateRequiresAbsoluteOrAllCardinals(t *testing.T) {
	t.Parallel()

	if err := (Capabilities{}).Validate(); err == nil {
		t.Fatal("expected error for zero geometry")
	}

	noMotion := Capabilities{Rows: 25, Cols: 80}
	if err := noMotion.Validate(); err == nil {
		t.Fatal("expected error with neither absolute addressing nor cardinal motions")
	}

	cardinals := Capabilities{
		Rows: 25, Cols: 80,
		CursorUp: "\x1b[A", CursorDown: "\x1b[B", CursorLeft: "\x1b[D", CursorRight: "\x1b[C",
	}
	if err := cardinals.Validate(); err != nil {
		t.Fatalf("expected cardinal motions to satisfy Validate, got %v", err)
	}

	abs := Capabilities{Rows: 25, Cols: 80, CursorAddress: func(row, col int) string { return "" }}
	if err := abs.Validate(); err != nil {
		t.Fatalf("expected absolute addressing to satisfy Validate, got %v", err)
	}
}

// TestCacheRoundTripPreservesParametricCapabilities guards against the
// profile cache silently losing a function-valued capability: every
// parametric field must survive a saveCache/loadCache cycle with the
// same behavior it had before being written, not just a non-nil func.
func TestCacheRoundTripPreservesParametricCapabilities(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := Capabilities{
		Rows: 24, Cols: 80,
		CursorAddressTemplate:       "\x1b[%i%p1%d;%p2%dH",
		ColumnAddressTemplate:       "\x1b[%i%p1%dG",
		RowAddressTemplate:          "\x1b[%i%p1%dd",
		ParmInsertLineTemplate:      "\x1b[%p1%dL",
		ParmDeleteLineTemplate:      "\x1b[%p1%dM",
		ParmInsertCharacterTemplate: "\x1b[%p1%d@",
		ParmDeleteCharTemplate:      "\x1b[%p1%dP",
		SetForegroundTemplate:       "\x1b[3%p1%dm",
		SetBackgroundTemplate:       "\x1b[4%p1%dm",
	}
	c.CursorAddress = func(row, col int) string { return tparm(c.CursorAddressTemplate, row, col) }
	c.ColumnAddress = func(col int) string { return tparm(c.ColumnAddressTemplate, col) }
	c.RowAddress = func(row int) string { return tparm(c.RowAddressTemplate, row) }
	c.ParmInsertLine = func(n int) string { return tparm(c.ParmInsertLineTemplate, n) }
	c.ParmDeleteLine = func(n int) string { return tparm(c.ParmDeleteLineTemplate, n) }
	c.ParmInsertCharacter = func(n int) string { return tparm(c.ParmInsertCharacterTemplate, n) }
	c.ParmDeleteChar = func(n int) string { return tparm(c.ParmDeleteCharTemplate, n) }
	c.SetForeground = func(idx int) string { return tparm(c.SetForegroundTemplate, idx) }
	c.SetBackground = func(idx int) string { return tparm(c.SetBackgroundTemplate, idx) }

	if err := saveCache("xterm-roundtrip-test", c); err != nil {
		t.Fatalf("saveCache: %v", err)
	}

	loaded, ok := loadCache("xterm-roundtrip-test")
	if !ok {
		t.Fatal("expected cache hit after saveCache")
	}

	if loaded.ParmInsertLine == nil {
		t.Fatal("ParmInsertLine lost across cache round-trip")
	} else if got := loaded.ParmInsertLine(3); got != "\x1b[3L" {
		t.Fatalf("ParmInsertLine(3) = %q, want %q", got, "\x1b[3L")
	}

	if loaded.ParmDeleteLine == nil {
		t.Fatal("ParmDeleteLine lost across cache round-trip")
	} else if got := loaded.ParmDeleteLine(2); got != "\x1b[2M" {
		t.Fatalf("ParmDeleteLine(2) = %q, want %q", got, "\x1b[2M")
	}

	if loaded.ParmInsertCharacter == nil {
		t.Fatal("ParmInsertCharacter lost across cache round-trip")
	} else if got := loaded.ParmInsertCharacter(1); got != "\x1b[1@" {
		t.Fatalf("ParmInsertCharacter(1) = %q, want %q", got, "\x1b[1@")
	}

	if loaded.ParmDeleteChar == nil {
		t.Fatal("ParmDeleteChar lost across cache round-trip")
	} else if got := loaded.ParmDeleteChar(1); got != "\x1b[1P" {
		t.Fatalf("ParmDeleteChar(1) = %q, want %q", got, "\x1b[1P")
	}

	if loaded.CursorAddress == nil {
		t.Fatal("CursorAddress lost across cache round-trip")
	} else if got := loaded.CursorAddress(5, 10); got != "\x1b[6;11H" {
		t.Fatalf("CursorAddress(5,10) = %q, want %q", got, "\x1b[6;11H")
	}

	if loaded.ColumnAddress == nil {
		t.Fatal("ColumnAddress lost across cache round-trip")
	} else if got := loaded.ColumnAddress(9); got != "\x1b[10G" {
		t.Fatalf("ColumnAddress(9) = %q, want %q", got, "\x1b[10G")
	}

	if loaded.RowAddress == nil {
		t.Fatal("RowAddress lost across cache round-trip")
	} else if got := loaded.RowAddress(9); got != "\x1b[10d" {
		t.Fatalf("RowAddress(9) = %q, want %q", got, "\x1b[10d")
	}

	if loaded.SetForeground == nil {
		t.Fatal("SetForeground lost across cache round-trip")
	} else if got := loaded.SetForeground(2); got != "\x1b[32m" {
		t.Fatalf("SetForeground(2) = %q, want %q", got, "\x1b[32m")
	}

	if loaded.SetBackground == nil {
		t.Fatal("SetBackground lost across cache round-trip")
	} else if got := loaded.SetBackground(4); got != "\x1b[44m" {
		t.Fatalf("SetBackground(4) = %q, want %q", got, "\x1b[44m")
	}
}

func TestCacheMissReturnsFalseForUnknownTerm(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	if _, ok := loadCache("no-such-term-in-cache"); ok {
		t.Fatal("expected cache miss for a term that was never saved")
	}
}
