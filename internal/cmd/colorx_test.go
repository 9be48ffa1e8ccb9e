package cmd

import (
	"testing"

	"github.com/charmbracelet/colorprofile"
	"github.com/muesli/termenv"
)

func TestColorToX11RGBColor(t *testing.T) {
	got := colorToX11(termenv.RGBColor("#ff8000"))
	want := "rgb:ffff/8080/0000"
	if got != want {
		t.Fatalf("colorToX11(#ff8000) = %q, want %q", got, want)
	}
}

func TestColorToX11Nil(t *testing.T) {
	if got := colorToX11(nil); got != "" {
		t.Fatalf("colorToX11(nil) = %q, want empty", got)
	}
}

func TestColorProfileName(t *testing.T) {
	cases := []struct {
		in   colorprofile.Profile
		want string
	}{
		{colorprofile.TrueColor, "truecolor"},
		{colorprofile.ANSI256, "ansi256"},
		{colorprofile.ANSI, "ansi"},
		{colorprofile.Ascii, "ascii"},
		{colorprofile.NoTTY, "ascii"},
	}
	for _, c := range cases {
		if got := colorProfileName(c.in); got != c.want {
			t.Errorf("colorProfileName(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
