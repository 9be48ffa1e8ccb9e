package tab

import (
	"testing"

	"muxd/internal/bus"
	"muxd/internal/pane"
	"muxd/internal/tiler"
)

func TestAddAndCloseUpdatesFocus(t *testing.T) {
	tb := New(1, "main")
	p1 := pane.New(1, 24, 80, 0)
	p2 := pane.New(2, 24, 80, 0)

	if err := tb.AddPane(p1, tiler.Horizontal); err != nil {
		t.Fatalf("add p1: %v", err)
	}
	if tb.FocusedPaneID != 1 {
		t.Fatalf("want focus 1, got %d", tb.FocusedPaneID)
	}
	if err := tb.AddPane(p2, tiler.Horizontal); err != nil {
		t.Fatalf("add p2: %v", err)
	}
	if tb.FocusedPaneID != 2 {
		t.Fatalf("want focus 2, got %d", tb.FocusedPaneID)
	}

	if err := tb.ClosePane(2); err != nil {
		t.Fatalf("close p2: %v", err)
	}
	if tb.FocusedPaneID != 1 {
		t.Fatalf("want focus to fall back to 1, got %d", tb.FocusedPaneID)
	}
	if tb.Empty() {
		t.Fatalf("tab should still have one pane")
	}

	if err := tb.ClosePane(1); err != nil {
		t.Fatalf("close p1: %v", err)
	}
	if !tb.Empty() {
		t.Fatalf("tab should be empty")
	}
}

// TestSyncInputWritesEveryPaneInOrder covers spec §8 invariant 5: with
// sync_input set, one write lands on every pane's PTY, in ascending
// pane-id order, each carrying the identical payload.
func TestSyncInputWritesEveryPaneInOrder(t *testing.T) {
	tb := New(1, "main")
	p1 := pane.New(3, 24, 80, 0)
	p2 := pane.New(1, 24, 80, 0)
	p3 := pane.New(2, 24, 80, 0)
	for _, p := range []*pane.Pane{p1, p2, p3} {
		if err := tb.AddPane(p, tiler.Vertical); err != nil {
			t.Fatalf("add pane %d: %v", p.ID, err)
		}
	}
	tb.SyncInput = true

	ids := tb.Write([]byte("x"))
	want := []pane.ID{1, 2, 3}
	if len(ids) != len(want) {
		t.Fatalf("want %d destinations, got %d", len(want), len(ids))
	}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("want ascending order %v, got %v", want, ids)
		}
	}
}

func TestWriteWithoutSyncGoesToFocusedOnly(t *testing.T) {
	tb := New(1, "main")
	p1 := pane.New(1, 24, 80, 0)
	p2 := pane.New(2, 24, 80, 0)
	tb.AddPane(p1, tiler.Vertical)
	tb.AddPane(p2, tiler.Vertical)

	ids := tb.Write([]byte("x"))
	if len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("want only focused pane 2, got %v", ids)
	}
}

func TestMoveFocusDelegatesToTiler(t *testing.T) {
	tb := New(1, "main")
	p1 := pane.New(1, 24, 80, 0)
	p2 := pane.New(2, 24, 80, 0)
	tb.AddPane(p1, tiler.Vertical)
	tb.AddPane(p2, tiler.Vertical)

	rect := tiler.Rect{X: 0, Y: 0, W: 80, H: 24}
	if !tb.MoveFocus(rect, bus.DirLeft) {
		t.Fatalf("want move_focus to find a neighbor")
	}
	if tb.FocusedPaneID != 1 {
		t.Fatalf("want focus to move to pane 1, got %d", tb.FocusedPaneID)
	}
}
