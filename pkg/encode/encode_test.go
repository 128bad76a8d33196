// ABOUTME: Tests for control-character substitution and UTF-8/8-bit encoding paths

package encode

import (
	"testing"

	"github.com/vigna-ne/dispd/pkg/attr"
)

func TestCharSubstitutesControlChars(t *testing.T) {
	t.Parallel()
	e := New(true, nil)

	b, a := e.Char(0x01, attr.None)
	if string(b) != "A" || !a.Has(attr.INVERSE) {
		t.Fatalf("got %q %v", b, a)
	}

	b, a = e.Char(0x7F, attr.None)
	if string(b) != "?" || !a.Has(attr.INVERSE) {
		t.Fatalf("DEL: got %q %v", b, a)
	}

	b, a = e.Char(0xA0, attr.None)
	if string(b) != " " || !a.Has(attr.INVERSE) {
		t.Fatalf("NBSP: got %q %v", b, a)
	}
}

func TestCharUTF8EncodesMultibyte(t *testing.T) {
	t.Parallel()
	e := New(true, nil)

	b, a := e.Char('é', attr.None)
	if string(b) != "é" || a.Has(attr.INVERSE) {
		t.Fatalf("got %q %v", b, a)
	}
}

func TestCharNonUTF8TruncatesHighCodepoints(t *testing.T) {
	t.Parallel()
	e := New(false, nil)

	b, a := e.Char(0x0100, attr.None)
	if string(b) != "?" || !a.Has(attr.INVERSE) {
		t.Fatalf("got %q %v", b, a)
	}

	b, a = e.Char('A', attr.None)
	if string(b) != "A" || a.Has(attr.INVERSE) {
		t.Fatalf("ascii passthrough: got %q %v", b, a)
	}
}

func TestCharsStopsAtColumnBudget(t *testing.T) {
	t.Parallel()
	e := New(true, nil)

	out := e.Chars([]rune("hello"), attr.None, 3)
	if string(out) != "hel" {
		t.Fatalf("got %q", out)
	}
}
