package grid

import (
	"strings"
	"testing"
)

// TestRenderRoundTrip covers spec §8 invariant 4: parsing a grid's own
// render output into a fresh grid reproduces the original cell's glyph and
// style.
func TestRenderRoundTrip(t *testing.T) {
	src := New(1, 10, 0)
	src.Feed([]byte("\x1b[1;4;38;2;200;100;50mZ"))
	diff := src.Render()

	dst := New(1, 10, 0)
	dst.Feed(diff)

	want := src.viewport[0].Cells[0]
	got := dst.viewport[0].Cells[0]
	if got.Ch != want.Ch {
		t.Fatalf("glyph mismatch: want %q got %q", want.Ch, got.Ch)
	}
	if got.Style.Fg != want.Style.Fg {
		t.Fatalf("fg mismatch: want %+v got %+v", want.Style.Fg, got.Style.Fg)
	}
	if got.Style.Flags&(FlagBold|FlagUnderline) != want.Style.Flags&(FlagBold|FlagUnderline) {
		t.Fatalf("flags mismatch: want %v got %v", want.Style.Flags, got.Style.Flags)
	}
}

func TestRenderOmitsUnchangedCells(t *testing.T) {
	g := New(2, 10, 0)
	g.Feed([]byte("hello"))
	g.Render() // establishes lastRendered baseline

	diff := g.Render()
	if len(diff) != 0 {
		t.Fatalf("want empty diff for an unchanged grid, got %q", diff)
	}
}

func TestRenderSkipsWideTrailer(t *testing.T) {
	g := New(1, 10, 0)
	g.Feed([]byte("中"))
	diff := g.Render()
	if len(diff) == 0 {
		t.Fatal("want a non-empty diff for the first render")
	}
}

// TestRenderColorProfileDownsample covers SPEC_FULL.md §2's client color
// profile wiring: a truecolor cell renders with the 24-bit SGR form by
// default, and with an indexed 5;n form once the profile is degraded.
func TestRenderColorProfileDownsample(t *testing.T) {
	g := New(1, 10, 0)
	g.Feed([]byte("\x1b[38;2;200;100;50mZ"))
	truecolor := g.Render()
	if !strings.Contains(string(truecolor), "38;2;200;100;50") {
		t.Fatalf("want 24-bit SGR in default profile, got %q", truecolor)
	}

	g.SetColorProfile(ColorProfileANSI256)
	degraded := g.Render()
	if strings.Contains(string(degraded), "38;2;") {
		t.Fatalf("want no 24-bit SGR after downsampling to ANSI256, got %q", degraded)
	}
	if !strings.Contains(string(degraded), "38;5;") {
		t.Fatalf("want an indexed 38;5;n escape after downsampling, got %q", degraded)
	}
}

// TestRenderColorProfileAsciiOmitsColor covers the Ascii profile: no SGR
// color parameters at all, just the reset/attribute prefix.
func TestRenderColorProfileAsciiOmitsColor(t *testing.T) {
	g := New(1, 10, 0)
	g.SetColorProfile(ColorProfileAscii)
	g.Feed([]byte("\x1b[1;38;2;200;100;50mZ"))
	diff := g.Render()
	if strings.Contains(string(diff), "38;") {
		t.Fatalf("want no fg color escape in Ascii profile, got %q", diff)
	}
	if !strings.Contains(string(diff), "0;1m") {
		t.Fatalf("want the bold attribute preserved, got %q", diff)
	}
}
