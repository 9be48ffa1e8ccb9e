package input

import (
	"testing"

	"muxd/internal/bus"
	"muxd/internal/tiler"
)

func TestNormalModeWritesRawBytes(t *testing.T) {
	in := New(DefaultKeybinds())
	actions := in.Decode([]byte("a"))
	if len(actions) != 1 || actions[0].Kind != bus.ActionWrite || string(actions[0].Bytes) != "a" {
		t.Fatalf("want write 'a', got %+v", actions)
	}
}

func TestArrowKeyDecodesAsNamedKey(t *testing.T) {
	in := New(DefaultKeybinds())
	actions := in.Decode([]byte("\x1b[A"))
	if len(actions) != 1 || actions[0].Kind != bus.ActionWrite {
		t.Fatalf("want a write action for Up, got %+v", actions)
	}
	if string(actions[0].Bytes) != "\x1b[A" {
		t.Fatalf("want raw Up bytes passed through, got %q", actions[0].Bytes)
	}
}

func TestKeybindOverridesDefault(t *testing.T) {
	binds := DefaultKeybinds()
	binds[bus.ModeNormal] = map[string][]bus.Action{
		"ctrl-b": {{Kind: bus.ActionSetMode, Mode: bus.ModePane}},
	}
	in := New(binds)
	actions := in.Decode([]byte{0x02})
	if len(actions) != 1 || actions[0].Kind != bus.ActionSetMode || actions[0].Mode != bus.ModePane {
		t.Fatalf("want SetMode(Pane) override, got %+v", actions)
	}
}

func TestRenameTabModeAppendsTypedText(t *testing.T) {
	in := New(DefaultKeybinds())
	in.SetMode(bus.ModeRenameTab)
	actions := in.Decode([]byte("x"))
	if len(actions) != 1 || actions[0].Kind != bus.ActionRenameTab || actions[0].Name != "x" {
		t.Fatalf("want RenameTab append, got %+v", actions)
	}
}

func TestResizeModeDefaultsToNoop(t *testing.T) {
	in := New(DefaultKeybinds())
	in.SetMode(bus.ModeResize)
	actions := in.Decode([]byte("x"))
	if len(actions) != 0 {
		t.Fatalf("want no-op in Resize mode with no binding, got %+v", actions)
	}
}

func TestIncompleteEscapeIsHeldThenFlushed(t *testing.T) {
	in := New(DefaultKeybinds())
	actions := in.Decode([]byte{0x1B})
	if len(actions) != 0 {
		t.Fatalf("want lone ESC to be held back, got %+v", actions)
	}
	actions = in.Flush()
	if len(actions) != 1 || string(actions[0].Bytes) != "\x1b" {
		t.Fatalf("want flushed Escape key write, got %+v", actions)
	}
}

func TestDecodeMouseSGR(t *testing.T) {
	ev, consumed, ok := DecodeMouseSGR([]byte("\x1b[<0;10;5M"))
	if !ok {
		t.Fatalf("want SGR mouse decode to succeed")
	}
	if consumed != len("\x1b[<0;10;5M") {
		t.Fatalf("want full sequence consumed, got %d", consumed)
	}
	if ev.Col != 9 || ev.Row != 4 || !ev.Pressed {
		t.Fatalf("want col=9 row=4 pressed, got %+v", ev)
	}
}

func TestTranslateFindsContainingPane(t *testing.T) {
	leaves := []tiler.LeafRect{
		{PaneID: 1, Rect: tiler.Rect{X: 0, Y: 0, W: 10, H: 10}},
		{PaneID: 2, Rect: tiler.Rect{X: 10, Y: 0, W: 10, H: 10}},
	}
	id, rel, ok := Translate(bus.MouseEvent{Row: 3, Col: 14}, leaves)
	if !ok || id != 2 {
		t.Fatalf("want pane 2, got %d ok=%v", id, ok)
	}
	if rel.Col != 4 {
		t.Fatalf("want relative col 4, got %d", rel.Col)
	}
}
