package clipboard

import (
	"strings"
	"testing"

	"muxd/internal/bus"
)

func TestEncodeClipboardDestination(t *testing.T) {
	seq := Encode("hello", bus.ClipboardSystem)
	if !strings.Contains(seq, "52") {
		t.Fatalf("want an OSC 52 sequence, got %q", seq)
	}
}

func TestEncodePrimaryDestination(t *testing.T) {
	seq := Encode("hello", bus.ClipboardPrimary)
	if !strings.Contains(seq, "52") {
		t.Fatalf("want an OSC 52 sequence, got %q", seq)
	}
}
