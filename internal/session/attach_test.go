package session

import (
	"testing"

	"muxd/internal/grid"
)

func TestParseColorProfile(t *testing.T) {
	cases := []struct {
		in   string
		want grid.ColorProfile
	}{
		{"", grid.ColorProfileTrueColor},
		{"truecolor", grid.ColorProfileTrueColor},
		{"ansi256", grid.ColorProfileANSI256},
		{"ansi", grid.ColorProfileANSI},
		{"ascii", grid.ColorProfileAscii},
		{"bogus", grid.ColorProfileTrueColor},
	}
	for _, c := range cases {
		if got := parseColorProfile(c.in); got != c.want {
			t.Errorf("parseColorProfile(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
