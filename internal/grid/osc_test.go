package grid

import "testing"

// TestOSC52Clipboard covers spec §8 scenario S5: `ESC ] 52 ; c ; <base64>
// ESC \` invokes the clipboard handler with the decoded text and leaves
// cell data untouched.
func TestOSC52Clipboard(t *testing.T) {
	g := New(2, 10, 0)
	var gotText string
	var gotDest ClipboardDest
	g.SetClipboardHandler(func(text string, dest ClipboardDest) {
		gotText, gotDest = text, dest
	})

	before := cloneRows(g.viewport)
	g.Feed([]byte("\x1b]52;c;SGVsbG8=\x1b\\"))

	if gotText != "Hello" {
		t.Fatalf("want clipboard text %q, got %q", "Hello", gotText)
	}
	if gotDest != ClipboardDestSystem {
		t.Fatalf("want system destination, got %v", gotDest)
	}
	for i := range before {
		for j := range before[i].Cells {
			if before[i].Cells[j] != g.viewport[i].Cells[j] {
				t.Fatalf("cell [%d][%d] mutated by an OSC 52 sequence", i, j)
			}
		}
	}
}

func TestOSCSetsTitle(t *testing.T) {
	g := New(2, 10, 0)
	g.Feed([]byte("\x1b]2;my title\x07"))
	if g.Title() != "my title" {
		t.Fatalf("want title %q, got %q", "my title", g.Title())
	}
}

func TestHyperlinkAssignsAndResetsLinkID(t *testing.T) {
	g := New(1, 10, 0)
	g.Feed([]byte("\x1b]8;;http://example.com\x1b\\X\x1b]8;;\x1b\\Y"))
	linkCell := g.viewport[0].Cells[0]
	plainCell := g.viewport[0].Cells[1]
	if linkCell.Style.LinkID == 0 {
		t.Fatal("want a non-zero link id on X")
	}
	if g.LinkURI(linkCell.Style.LinkID) != "http://example.com" {
		t.Fatalf("want resolved uri, got %q", g.LinkURI(linkCell.Style.LinkID))
	}
	if plainCell.Style.LinkID != 0 {
		t.Fatal("want link id cleared for Y after the empty OSC 8 reset")
	}
}

func TestDCSPassthroughDoesNotTouchCells(t *testing.T) {
	g := New(1, 10, 0)
	g.Feed([]byte("hi"))
	before := cloneRows(g.viewport)
	g.Feed([]byte("\x1bPq#0;2;0;0;0#1;2;100;100;100\x1b\\"))
	for j := range before[0].Cells {
		if before[0].Cells[j] != g.viewport[0].Cells[j] {
			t.Fatalf("cell %d mutated by a DCS sequence", j)
		}
	}
	if len(g.LastDCSPayload()) == 0 {
		t.Fatal("want the DCS payload recorded for inspection")
	}
}
