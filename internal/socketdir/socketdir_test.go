package socketdir

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		socketType, name string
		want             string
	}{
		{"session", "main", "session.main.sock"},
		{"session", "work-laptop", "session.work-laptop.sock"},
	}
	for _, tt := range tests {
		got := Format(tt.socketType, tt.name)
		if got != tt.want {
			t.Errorf("Format(%q, %q) = %q, want %q", tt.socketType, tt.name, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		filename string
		wantType string
		wantName string
		wantOK   bool
	}{
		{"session.main.sock", TypeSession, "main", true},
		{"session.work-laptop.sock", TypeSession, "work-laptop", true},
		{"notasocket.txt", "", "", false},
		{"noperiod.sock", "", "", false},
		{".sock", "", "", false},
		{"onlyone.sock", "", "", false},
		{"session..sock", TypeSession, "", true}, // degenerate but parseable
	}
	for _, tt := range tests {
		entry, ok := Parse(tt.filename)
		if ok != tt.wantOK {
			t.Errorf("Parse(%q) ok = %v, want %v", tt.filename, ok, tt.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if entry.Type != tt.wantType {
			t.Errorf("Parse(%q).Type = %q, want %q", tt.filename, entry.Type, tt.wantType)
		}
		if entry.Name != tt.wantName {
			t.Errorf("Parse(%q).Name = %q, want %q", tt.filename, entry.Name, tt.wantName)
		}
	}
}

func TestPath(t *testing.T) {
	got := Path(TypeSession, "main")
	want := filepath.Join(Dir(), "session.main.sock")
	if got != want {
		t.Errorf("Path(session, main) = %q, want %q", got, want)
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()

	os.WriteFile(filepath.Join(dir, "session.main.sock"), nil, 0o600)
	os.WriteFile(filepath.Join(dir, "session.work.sock"), nil, 0o600)

	t.Run("single match", func(t *testing.T) {
		path, err := FindIn(dir, "main")
		if err != nil {
			t.Fatal(err)
		}
		want := filepath.Join(dir, "session.main.sock")
		if path != want {
			t.Errorf("Find(main) = %q, want %q", path, want)
		}
	})

	t.Run("no match", func(t *testing.T) {
		_, err := FindIn(dir, "nonexistent")
		if err == nil {
			t.Fatal("expected error for no match")
		}
	})
}

func TestListIn(t *testing.T) {
	dir := t.TempDir()

	os.WriteFile(filepath.Join(dir, "session.main.sock"), nil, 0o600)
	os.WriteFile(filepath.Join(dir, "session.work.sock"), nil, 0o600)
	os.WriteFile(filepath.Join(dir, "random.txt"), nil, 0o600)      // ignored
	os.WriteFile(filepath.Join(dir, "old-format.sock"), nil, 0o600) // ignored (no type.name format)

	entries, err := ListIn(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(entries), entries)
	}
	for _, e := range entries {
		if e.Type != TypeSession {
			t.Errorf("expected type %q, got %q", TypeSession, e.Type)
		}
		if e.Path == "" {
			t.Error("entry has empty Path")
		}
	}
}

func TestListInEmptyDir(t *testing.T) {
	entries, err := ListIn(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected 0 entries, got %d", len(entries))
	}
}

func TestListInNonexistentDir(t *testing.T) {
	entries, err := ListIn("/nonexistent/path")
	if err != nil {
		t.Fatal(err)
	}
	if entries != nil {
		t.Errorf("expected nil, got %v", entries)
	}
}

func TestDirEndsInSockets(t *testing.T) {
	ResetDirCache()
	defer ResetDirCache()

	dir := Dir()
	if !strings.HasSuffix(dir, "sockets") {
		t.Errorf("Dir() = %q, expected to end with 'sockets'", dir)
	}
}

func TestResolveSocketDirShortPathIsUnchanged(t *testing.T) {
	real := filepath.Join(t.TempDir(), "sockets")
	got := resolveSocketDir(real)
	if got != real {
		t.Errorf("resolveSocketDir(%q) = %q, want unchanged for a short path", real, got)
	}
}

func TestResolveSocketDirLongPathGetsSymlinked(t *testing.T) {
	base := t.TempDir()
	real := filepath.Join(base, strings.Repeat("x", maxSocketPathLen), "sockets")
	got := resolveSocketDir(real)
	if got == real {
		t.Fatalf("want a shortened symlink path for a long real dir, got the real path back")
	}
	target, err := os.Readlink(got)
	if err != nil {
		t.Fatalf("Readlink(%q): %v", got, err)
	}
	if target != real {
		t.Errorf("symlink target = %q, want %q", target, real)
	}
}
