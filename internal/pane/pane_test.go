package pane

import "testing"

func TestTitleFallsBackToDefault(t *testing.T) {
	p := New(1, 5, 10, 0)
	if p.Title() != "pane 1" {
		t.Fatalf("want default title, got %q", p.Title())
	}
	p.HandleOutput([]byte("\x1b]2;app title\x07"))
	if p.Title() != "app title" {
		t.Fatalf("want app title, got %q", p.Title())
	}
	p.UserTitle = "renamed"
	if p.Title() != "renamed" {
		t.Fatalf("want user title to win, got %q", p.Title())
	}
}

func TestResizeUpdatesDims(t *testing.T) {
	p := New(1, 10, 20, 0)
	p.Resize(24, 80)
	r, c := p.Dims()
	if r != 24 || c != 80 {
		t.Fatalf("want 24x80, got %dx%d", r, c)
	}
}
