// Package socketdir locates and names the per-session control sockets a
// running muxd server listens on (spec §4 "attach"). Naming and listing
// are carried over from the source's socketdir package; this adds the
// symlink-shortening Dir() resolution the source's own test suite
// already expected (resolveSocketDir/ResetDirCache) but its production
// code never implemented — unix socket paths are capped at ~104-108
// bytes depending on platform, and a config directory nested under a
// long $HOME can blow that budget.
package socketdir

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"muxd/internal/config"
)

// TypeSession is the only socket kind muxd currently creates: one
// control socket per running server (spec §4 "Session").
const TypeSession = "session"

// maxSocketPathLen is a conservative unix-domain-socket path budget;
// sun_path is 108 bytes on Linux and 104 on BSD/macOS, minus room for
// the filename itself.
const maxSocketPathLen = 90

// Entry represents a parsed socket file in the socket directory.
type Entry struct {
	Type string // "session"
	Name string // session name, e.g. "main"
	Path string // full path to .sock file
}

// Format returns the socket filename for a given type and name, e.g.
// "session.main.sock".
func Format(socketType, name string) string {
	return socketType + "." + name + ".sock"
}

// Parse extracts type and name from a socket filename like
// "session.main.sock". Returns false if the filename doesn't match.
func Parse(filename string) (Entry, bool) {
	if !strings.HasSuffix(filename, ".sock") {
		return Entry{}, false
	}
	base := strings.TrimSuffix(filename, ".sock")
	dot := strings.IndexByte(base, '.')
	if dot < 1 {
		return Entry{}, false
	}
	return Entry{Type: base[:dot], Name: base[dot+1:]}, true
}

var (
	dirCacheMu sync.Mutex
	dirCache   string
)

// ResetDirCache clears the cached resolved socket directory, forcing
// the next Dir() call to recompute it. Exposed for tests.
func ResetDirCache() {
	dirCacheMu.Lock()
	defer dirCacheMu.Unlock()
	dirCache = ""
}

// Dir returns the directory new sockets should be created in: normally
// ~/.config/muxd/sockets, or, if that path is long enough to risk
// overflowing sun_path, a symlink to it created under the OS temp dir
// instead.
func Dir() string {
	dirCacheMu.Lock()
	defer dirCacheMu.Unlock()
	if dirCache != "" {
		return dirCache
	}
	dirCache = resolveSocketDir(filepath.Join(config.ConfigDir(), "sockets"))
	return dirCache
}

// resolveSocketDir returns real if it's short enough to hold a socket
// filename, otherwise creates (or reuses) a short symlink under the
// temp dir pointing at real and returns the symlink path.
func resolveSocketDir(real string) string {
	if err := os.MkdirAll(real, 0o700); err != nil {
		return real
	}
	if len(real)+1+len("session.x.sock") <= maxSocketPathLen {
		return real
	}

	link := filepath.Join(os.TempDir(), fmt.Sprintf("muxd-sockets-%d", os.Getuid()))
	if target, err := os.Readlink(link); err == nil && target == real {
		return link
	}
	os.Remove(link)
	if err := os.Symlink(real, link); err != nil {
		return real
	}
	return link
}

// Path returns the full socket path for a given type and name.
func Path(socketType, name string) string {
	return filepath.Join(Dir(), Format(socketType, name))
}

// Find globs for *.{name}.sock in the default socket directory and
// returns the full path. Errors if zero or more than one match.
func Find(name string) (string, error) {
	return FindIn(Dir(), name)
}

// FindIn globs for *.{name}.sock in the given directory.
func FindIn(dir, name string) (string, error) {
	pattern := filepath.Join(dir, "*."+name+".sock")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no socket found for %q", name)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous name %q: %d sockets match", name, len(matches))
	}
}

// List returns all parsed socket entries from the default directory.
func List() ([]Entry, error) {
	return ListIn(Dir())
}

// ListIn returns all parsed socket entries from the given directory.
func ListIn(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var entries []Entry
	for _, de := range dirEntries {
		entry, ok := Parse(de.Name())
		if !ok {
			continue
		}
		entry.Path = filepath.Join(dir, de.Name())
		entries = append(entries, entry)
	}
	return entries, nil
}
