// ABOUTME: Row-level write/insert/delete helpers built on Encoder.Char
// ABOUTME: Ported from term.c's output_chars/insert_chars/delete_chars

package encode

import "github.com/vigna-ne/dispd/pkg/attr"

// InsertSeqs names the capability strings needed to insert characters.
// Parametric is used directly when non-empty (%d already substituted by
// the caller); otherwise EnterInsert/single Char/ExitInsert are used n times.
type InsertSeqs struct {
	Parametric  func(n int) string
	EnterInsert string
	ExitInsert  string
	Padding     string
}

// DeleteSeqs mirrors InsertSeqs for character deletion.
type DeleteSeqs struct {
	Parametric   func(n int) string
	EnterDelete  string
	SingleDelete string
	ExitDelete   string
}

// Chars encodes a run of logical characters for output, stopping once
// numCols screen columns have been produced. It does not expand tabs;
// callers (the Line Renderer) pass already tab-expanded spaces.
func (e *Encoder) Chars(runes []rune, a attr.Attr, numCols int) []byte {
	var out []byte
	col := 0
	for _, c := range runes {
		w := Width(c)
		if w <= 0 {
			w = 1
		}
		if col+w > numCols {
			break
		}
		b, _ := e.Char(c, a)
		out = append(out, b...)
		col += w
	}
	return out
}

// Insert emits the bytes to insert n columns worth of characters,
// preferring the parametric capability when available.
func Insert(seqs InsertSeqs, runes []rune, e *Encoder, a attr.Attr, n int) []byte {
	var out []byte
	if seqs.Parametric != nil {
		out = append(out, seqs.Parametric(n)...)
		for _, c := range runes {
			b, _ := e.Char(c, a)
			out = append(out, b...)
		}
		return out
	}
	out = append(out, seqs.EnterInsert...)
	for _, c := range runes {
		b, _ := e.Char(c, a)
		out = append(out, b...)
		out = append(out, seqs.Padding...)
	}
	out = append(out, seqs.ExitInsert...)
	return out
}

// Delete emits the bytes to delete n terminal columns.
func Delete(seqs DeleteSeqs, n int) []byte {
	var out []byte
	if seqs.Parametric != nil {
		return append(out, seqs.Parametric(n)...)
	}
	out = append(out, seqs.EnterDelete...)
	for i := 0; i < n; i++ {
		out = append(out, seqs.SingleDelete...)
	}
	out = append(out, seqs.ExitDelete...)
	return out
}
