package grid

import "testing"

// TestCopySelectionAcrossWrap is grounded in spec §8 scenario S4: printing
// "hello world\nfoo" at width 8 wraps "hello world" across two rows: copy
// must glue the wrapped pair with no separator and join the following
// logical line with "\n".
func TestCopySelectionAcrossWrap(t *testing.T) {
	g := New(5, 8, 0)
	g.Feed([]byte("hello world\r\nfoo"))

	g.SetSelection(0, 0, 2, 2)
	got := g.CopySelection()
	want := "hello world\nfoo"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestCopySelectionSingleLine(t *testing.T) {
	g := New(3, 20, 0)
	g.Feed([]byte("hello there"))
	g.SetSelection(0, 6, 0, 10)
	if got := g.CopySelection(); got != "there" {
		t.Fatalf("want %q, got %q", "there", got)
	}
}

func TestSelectionInvalidatedByScroll(t *testing.T) {
	g := New(2, 10, 10)
	g.Feed([]byte("a\r\nb"))
	g.SetSelection(0, 0, 0, 0)
	if g.GetSelection() == nil {
		t.Fatal("want selection set")
	}
	g.Feed([]byte("\r\nc")) // forces a scroll, shifting row identity
	if g.GetSelection() != nil {
		t.Fatal("want selection cleared after a scroll shifts anchor rows")
	}
}
