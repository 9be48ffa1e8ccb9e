package ptymgr

import "testing"

func TestParseOSCColorQueryBEL(t *testing.T) {
	num, query, length, ok := parseOSCColorQuery([]byte("\x1b]10;?\x07trailing"))
	if !ok || num != 10 || !query {
		t.Fatalf("want OSC 10 query, got num=%d query=%v ok=%v", num, query, ok)
	}
	if length != len("\x1b]10;?\x07") {
		t.Fatalf("want length %d, got %d", len("\x1b]10;?\x07"), length)
	}
}

func TestParseOSCColorQuerySTTerminated(t *testing.T) {
	num, query, length, ok := parseOSCColorQuery([]byte("\x1b]11;?\x1b\\"))
	if !ok || num != 11 || !query {
		t.Fatalf("want OSC 11 query, got num=%d query=%v ok=%v", num, query, ok)
	}
	if length != len("\x1b]11;?\x1b\\") {
		t.Fatalf("want length %d, got %d", len("\x1b]11;?\x1b\\"), length)
	}
}

func TestParseOSCColorQueryIgnoresUnrelatedOSC(t *testing.T) {
	_, _, _, ok := parseOSCColorQuery([]byte("\x1b]0;some title\x07"))
	if ok {
		t.Fatalf("want OSC 0 (title) to be ignored by the color-query parser")
	}
}

func TestParseOSCColorQueryRejectsSetForm(t *testing.T) {
	// OSC 10;rgb:.... sets a color rather than querying it; only the "?"
	// form is a query this layer must answer.
	_, query, _, ok := parseOSCColorQuery([]byte("\x1b]10;rgb:ffff/ffff/ffff\x07"))
	if !ok {
		t.Fatalf("want a recognized OSC 10 sequence")
	}
	if query {
		t.Fatalf("want query=false for a color-set form")
	}
}

func TestManagerColorsDefaultsThenOverride(t *testing.T) {
	m := New(nil, nil)

	fg, bg := m.colors()
	if fg != defaultOscFg || bg != defaultOscBg {
		t.Fatalf("want default colors before SetColors, got fg=%q bg=%q", fg, bg)
	}

	m.SetColors("rgb:1111/2222/3333", "rgb:4444/5555/6666")
	fg, bg = m.colors()
	if fg != "rgb:1111/2222/3333" || bg != "rgb:4444/5555/6666" {
		t.Fatalf("want overridden colors, got fg=%q bg=%q", fg, bg)
	}
}
