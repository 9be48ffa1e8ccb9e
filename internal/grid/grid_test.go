package grid

import "testing"

func TestNewGridDims(t *testing.T) {
	g := New(20, 121, 1000)
	r, c := g.Dims()
	if r != 20 || c != 121 {
		t.Fatalf("want 20x121, got %dx%d", r, c)
	}
	if len(g.viewport) != 20 || len(g.viewport[0].Cells) != 121 {
		t.Fatalf("viewport not rows*cols: %d rows, %d cols", len(g.viewport), len(g.viewport[0].Cells))
	}
}

// TestInvariantCellCountAndCursorBounds covers spec §8 invariant 1: after
// any sequence of VT bytes, the viewport is exactly R*C cells and the
// cursor stays in bounds.
func TestInvariantCellCountAndCursorBounds(t *testing.T) {
	g := New(10, 20, 100)
	g.Feed([]byte("hello\r\nworld\x1b[2J\x1b[10;30Hfoo\x1b[5A\x1b[100C"))

	if len(g.viewport) != 10 {
		t.Fatalf("want 10 rows, got %d", len(g.viewport))
	}
	for _, row := range g.viewport {
		if len(row.Cells) != 20 {
			t.Fatalf("want 20 cols, got %d", len(row.Cells))
		}
	}
	row, col, _ := g.Cursor()
	if row < 0 || row >= 10 {
		t.Fatalf("cursor row out of bounds: %d", row)
	}
	if col < 0 || col >= 20 {
		t.Fatalf("cursor col out of bounds: %d", col)
	}
	if !(g.scrollTop < g.scrollBottom && g.scrollBottom < g.rows) {
		t.Fatalf("scroll region invalid: top=%d bottom=%d rows=%d", g.scrollTop, g.scrollBottom, g.rows)
	}
}

func TestPrintBasic(t *testing.T) {
	g := New(5, 10, 0)
	g.Feed([]byte("hi"))
	if g.viewport[0].Cells[0].Ch != 'h' || g.viewport[0].Cells[1].Ch != 'i' {
		t.Fatalf("unexpected cells: %+v", g.viewport[0].Cells[:2])
	}
	_, col, _ := g.Cursor()
	if col != 2 {
		t.Fatalf("want cursor col 2, got %d", col)
	}
}

func TestAutoWrapSetsPendingWrap(t *testing.T) {
	g := New(5, 4, 0)
	g.Feed([]byte("abcd"))
	row, col, _ := g.Cursor()
	if row != 0 || col != 3 {
		t.Fatalf("want row0 col3 pending-wrap, got row%d col%d", row, col)
	}
	if !g.pendingWrap {
		t.Fatal("want pendingWrap after filling the row")
	}
	g.Feed([]byte("e"))
	row, col, _ = g.Cursor()
	if row != 1 || col != 1 {
		t.Fatalf("want wrap to row1 col1, got row%d col%d", row, col)
	}
	if !g.viewport[0].Wrapped {
		t.Fatal("want row0 marked wrapped")
	}
}

func TestSGRColorsAndReset(t *testing.T) {
	g := New(2, 10, 0)
	g.Feed([]byte("\x1b[1;38;2;10;20;30mX\x1b[0mY"))
	cellX := g.viewport[0].Cells[0]
	if cellX.Style.Flags&FlagBold == 0 {
		t.Fatal("want bold flag on X")
	}
	if cellX.Style.Fg.Kind != ColorRGB || cellX.Style.Fg.Value != (10<<16|20<<8|30) {
		t.Fatalf("unexpected fg: %+v", cellX.Style.Fg)
	}
	cellY := g.viewport[0].Cells[1]
	if cellY.Style.Flags != 0 {
		t.Fatalf("want reset style on Y, got %+v", cellY.Style)
	}
}

func TestEraseInLine(t *testing.T) {
	g := New(1, 5, 0)
	g.Feed([]byte("abcde\x1b[3D\x1b[K"))
	want := "ab"
	for i, c := range g.viewport[0].Cells {
		if i < 2 {
			if c.Ch != rune(want[i]) {
				t.Fatalf("cell %d: want %c got %c", i, want[i], c.Ch)
			}
		} else if c.Ch != ' ' {
			t.Fatalf("cell %d: want blank, got %c", i, c.Ch)
		}
	}
}

func TestWideCharacterTrailer(t *testing.T) {
	g := New(1, 10, 0)
	g.Feed([]byte("中")) // CJK wide character
	if g.viewport[0].Cells[0].Width != 2 {
		t.Fatalf("want width 2, got %d", g.viewport[0].Cells[0].Width)
	}
	if !g.viewport[0].Cells[1].IsWideTrailer() {
		t.Fatal("want trailer marker in the adjacent cell")
	}
}
