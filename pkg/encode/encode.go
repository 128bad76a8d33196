// ABOUTME: Output byte encoder: non-printable substitution and UTF-8/8-bit code point encoding
// ABOUTME: Ported from term.c's out()/output_chars(), using go-runewidth for display width

package encode

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/encoding/charmap"

	"github.com/vigna-ne/dispd/pkg/attr"
)

// Encoder converts logical characters into the bytes written to the
// terminal, substituting non-printable ranges with a visible marker
// under the INVERSE attribute, per ne's out().
type Encoder struct {
	UTF8    bool
	Charmap *charmap.Charmap // non-nil selects an 8-bit encoding table; nil means raw low byte
}

// New constructs an Encoder. When utf8 is false and cm is nil, code
// points up to 0xFF are written as their low byte (ne's legacy 8-bit
// behavior); larger ones become '?' under INVERSE.
func New(utf8Mode bool, cm *charmap.Charmap) *Encoder {
	return &Encoder{UTF8: utf8Mode, Charmap: cm}
}

// Char encodes one rune for output, returning the bytes to write and the
// attribute to render them with (which may have gained INVERSE if the
// rune was substituted).
func (e *Encoder) Char(c rune, a attr.Attr) ([]byte, attr.Attr) {
	switch {
	case c >= 0x00 && c <= 0x1F:
		return []byte{'@' + byte(c)}, a.WithFlags(attr.INVERSE)
	case c >= 0x7F && c <= 0x9F:
		return []byte{'?'}, a.WithFlags(attr.INVERSE)
	case c == 0xA0:
		return []byte{' '}, a.WithFlags(attr.INVERSE)
	}

	if e.UTF8 {
		if runewidth.RuneWidth(c) <= 0 {
			return []byte{'?'}, a.WithFlags(attr.INVERSE)
		}
		buf := make([]byte, utf8.UTFMax)
		n := utf8.EncodeRune(buf, c)
		return buf[:n], a
	}

	if c > 0xFF {
		return []byte{'?'}, a.WithFlags(attr.INVERSE)
	}
	if e.Charmap != nil {
		b, ok := e.Charmap.EncodeRune(c)
		if !ok {
			return []byte{'?'}, a.WithFlags(attr.INVERSE)
		}
		return []byte{b}, a
	}
	return []byte{byte(c)}, a
}

// Width returns the display width of a rune, the single call site other
// packages must use for geometry math.
func Width(c rune) int {
	return runewidth.RuneWidth(c)
}
