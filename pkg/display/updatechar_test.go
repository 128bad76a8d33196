// ABOUTME: Direct tests for the single-character delete/overwrite update paths
// ABOUTME: Asserts on the emitted escape sequences and the planner's cursor belief, not just "some bytes"

package display

import (
	"bytes"
	"testing"

	"github.com/vigna-ne/dispd/pkg/attr"
	"github.com/vigna-ne/dispd/pkg/termcap"
)

// newCharEngine builds an engine over the ANSI profile extended with the
// character-insert capability the profile itself lacks, so these tests
// reach the terminal insert/delete paths instead of the redraw fallback.
func newCharEngine(t *testing.T) (*Engine, *bytes.Buffer) {
	t.Helper()
	caps := termcap.ANSIProfile()
	caps.IOUTF8 = true
	caps.InsertCharacter = "\x1b[@"
	var buf bytes.Buffer
	e, err := New(caps, &buf, WithTurbo(100))
	if err != nil {
		t.Fatal(err)
	}
	return e, &buf
}

func TestUpdateDeletedCharUsesTerminalDelete(t *testing.T) {
	t.Parallel()
	e, buf := newCharEngine(t)
	b := makeBuffer(1)
	// "abcdef" with 'c' deleted at column 2.
	b.lines[0] = &fakeLine{b: []byte("abdef")}
	b.attrBuf.Set([]uint32{0, 0, 0, 0, 0, 0})

	buf.Reset()
	e.UpdateDeletedChar(b, b.lines[0], 0, 2, 2, 1)

	if !bytes.Contains(buf.Bytes(), []byte("\x1b[P")) {
		t.Fatalf("expected a delete-character sequence, got %q", buf.Bytes())
	}
	cached, ok := b.AttrBuf().Attrs()
	if !ok || len(cached) != 5 {
		t.Fatalf("expected attribute vector shrunk to 5, got %v valid=%v", cached, ok)
	}
}

func TestUpdateOverwrittenCharEqualWidthRewritesCell(t *testing.T) {
	t.Parallel()
	e, buf := newCharEngine(t)
	b := makeBuffer(1)
	// "abc" with 'b' overwritten by 'x' at column 1.
	b.lines[0] = &fakeLine{b: []byte("axc")}
	b.attrBuf.Set([]uint32{0, 0, 0})

	buf.Reset()
	want := attr.None.WithFG(attr.Red)
	e.UpdateOverwrittenChar(b, b.lines[0], 0, 1, 1, 1, 1, want)

	if !bytes.Contains(buf.Bytes(), []byte("x")) {
		t.Fatalf("expected the replacement character written, got %q", buf.Bytes())
	}
	if pos := e.planner.Position(); !pos.Known || pos.Row != 0 || pos.Col != 2 {
		t.Fatalf("cursor belief = %+v, want (0,2)", pos)
	}
	cached, _ := b.AttrBuf().Attrs()
	if len(cached) != 3 || cached[1] != uint32(want) {
		t.Fatalf("attribute cache entry not replaced in place: %v", cached)
	}
}

func TestUpdateOverwrittenCharWiderOpensDeltaAndWritesFullRune(t *testing.T) {
	t.Parallel()
	e, buf := newCharEngine(t)
	b := makeBuffer(1)
	// "abc" with 'b' (width 1) overwritten by a double-width character.
	b.lines[0] = &fakeLine{b: []byte("a漢c")}
	b.attrBuf.Set([]uint32{0, 0, 0})

	buf.Reset()
	e.UpdateOverwrittenChar(b, b.lines[0], 0, 1, 1, 1, 2, attr.None)

	if !bytes.Contains(buf.Bytes(), []byte("\x1b[@")) {
		t.Fatalf("expected one column opened for the width delta, got %q", buf.Bytes())
	}
	if !bytes.Contains(buf.Bytes(), []byte("漢")) {
		t.Fatalf("expected the full replacement rune written, got %q", buf.Bytes())
	}
	if pos := e.planner.Position(); !pos.Known || pos.Col != 3 {
		t.Fatalf("cursor belief = %+v, want col 1+2=3", pos)
	}
}

func TestUpdateOverwrittenCharNarrowerDeletesDeltaAndWritesRune(t *testing.T) {
	t.Parallel()
	e, buf := newCharEngine(t)
	b := makeBuffer(1)
	// Double-width character overwritten by 'x' (width 1) at column 1.
	b.lines[0] = &fakeLine{b: []byte("axc")}
	b.attrBuf.Set([]uint32{0, 0, 0})

	buf.Reset()
	e.UpdateOverwrittenChar(b, b.lines[0], 0, 1, 1, 2, 1, attr.None)

	if !bytes.Contains(buf.Bytes(), []byte("\x1b[P")) {
		t.Fatalf("expected one column deleted for the width delta, got %q", buf.Bytes())
	}
	if !bytes.Contains(buf.Bytes(), []byte("x")) {
		t.Fatalf("expected the replacement character written, got %q", buf.Bytes())
	}
	if pos := e.planner.Position(); !pos.Known || pos.Col != 2 {
		t.Fatalf("cursor belief = %+v, want col 1+1=2", pos)
	}
}

func TestUpdateOverwrittenCharTabAbsorbsEnlargement(t *testing.T) {
	t.Parallel()
	e, buf := newCharEngine(t)
	b := makeBuffer(1)
	// "ab\tz" with 'b' overwritten by a double-width character; the TAB
	// to its right narrows by one column and absorbs the enlargement.
	b.lines[0] = &fakeLine{b: []byte("a漢\tz")}
	b.attrBuf.Set([]uint32{0, 0, 0, 0})

	buf.Reset()
	e.UpdateOverwrittenChar(b, b.lines[0], 0, 1, 1, 1, 2, attr.None)

	if bytes.Contains(buf.Bytes(), []byte("\x1b[@")) {
		t.Fatalf("TAB absorption must not open columns, got %q", buf.Bytes())
	}
	if !bytes.Contains(buf.Bytes(), []byte("漢")) {
		t.Fatalf("expected the span redraw to include the replacement rune, got %q", buf.Bytes())
	}
}
