package grid

import (
	"strings"
	"testing"
)

// rowText renders a row's printable content (trailing blanks trimmed) for
// assertions.
func rowText(r Row) string {
	var b strings.Builder
	for _, c := range r.Cells {
		if c.IsWideTrailer() {
			continue
		}
		b.WriteRune(c.Ch)
	}
	return strings.TrimRight(b.String(), " ")
}

// TestReflowNarrowThenWide covers spec §8 scenario S3: a 40x10 grid
// receives 60 printable characters followed by newline, is resized to
// 20x10 (reflowing to three 20-wide rows, first two wrapped), then resized
// back to 40x10 (reflowing to the original single 40-wide row plus a
// 20-wide continuation).
func TestReflowNarrowThenWide(t *testing.T) {
	g := New(10, 40, 0)
	line := strings.Repeat("x", 60)
	g.Feed([]byte(line + "\r\n"))

	g.Resize(10, 20)
	if len(g.viewport) != 10 {
		t.Fatalf("want 10 rows after resize, got %d", len(g.viewport))
	}
	if !g.viewport[0].Wrapped || !g.viewport[1].Wrapped {
		t.Fatalf("want first two rows wrapped after narrowing, got %v %v", g.viewport[0].Wrapped, g.viewport[1].Wrapped)
	}
	if rowText(g.viewport[0]) != strings.Repeat("x", 20) {
		t.Fatalf("row0: got %q", rowText(g.viewport[0]))
	}
	if rowText(g.viewport[1]) != strings.Repeat("x", 20) {
		t.Fatalf("row1: got %q", rowText(g.viewport[1]))
	}
	if rowText(g.viewport[2]) != strings.Repeat("x", 20) {
		t.Fatalf("row2: got %q", rowText(g.viewport[2]))
	}

	g.Resize(10, 40)
	if g.viewport[0].Wrapped != true {
		t.Fatalf("want row0 wrapped after widening back, got %v", g.viewport[0].Wrapped)
	}
	if rowText(g.viewport[0]) != strings.Repeat("x", 40) {
		t.Fatalf("row0 after widen: got %q", rowText(g.viewport[0]))
	}
	if rowText(g.viewport[1]) != strings.Repeat("x", 20) {
		t.Fatalf("row1 after widen: got %q", rowText(g.viewport[1]))
	}
}

func TestResizeGrowPullsFromScrollback(t *testing.T) {
	g := New(3, 10, 100)
	g.Feed([]byte("one\r\ntwo\r\nthree\r\nfour\r\nfive"))
	if g.ScrollbackLen() == 0 {
		t.Fatal("want rows pushed to scrollback after enough newlines")
	}
	before := g.ScrollbackLen()
	g.Resize(6, 10)
	if g.ScrollbackLen() >= before {
		t.Fatalf("want scrollback to shrink as rows are pulled back into the viewport, had %d now %d", before, g.ScrollbackLen())
	}
}

func TestAlternateScreenDoesNotReflow(t *testing.T) {
	g := New(5, 10, 0)
	g.Feed([]byte("\x1b[?1049h"))
	g.Feed([]byte("hello"))
	g.Resize(5, 6)
	if len(g.altScreen[0].Cells) != 6 {
		t.Fatalf("want alt screen clipped to 6 cols, got %d", len(g.altScreen[0].Cells))
	}
}
