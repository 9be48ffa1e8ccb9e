package eventlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"muxd/internal/bus"
)

func TestLogAppendsOneJSONLinePerEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer l.Close()

	ctx := bus.NewErrorContext().Push("daemon").Push("accept")
	l.Info("daemon", "client attached", ctx)
	l.Error("ptymgr", "spawn failed", bus.NewErrorContext())

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log file: %v", err)
	}
	defer f.Close()

	var lines []Event
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var ev Event
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			t.Fatalf("unmarshal line %q: %v", sc.Text(), err)
		}
		lines = append(lines, ev)
	}
	if len(lines) != 2 {
		t.Fatalf("want 2 log lines, got %d", len(lines))
	}
	if lines[0].Level != LevelInfo || lines[0].Message != "client attached" {
		t.Fatalf("unexpected first event: %+v", lines[0])
	}
	if len(lines[0].ErrorContext) != 2 {
		t.Fatalf("want 2 breadcrumbs, got %+v", lines[0].ErrorContext)
	}
	if lines[1].Level != LevelError || lines[1].Message != "spawn failed" {
		t.Fatalf("unexpected second event: %+v", lines[1])
	}
}

func TestOpenAppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	l1, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	l1.Info("daemon", "first", bus.NewErrorContext())
	l1.Close()

	l2, err := Open(path)
	if err != nil {
		t.Fatalf("Open (reopen): %v", err)
	}
	l2.Info("daemon", "second", bus.NewErrorContext())
	l2.Close()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	sc := bufio.NewScanner(bytes.NewReader(b))
	count := 0
	for sc.Scan() {
		count++
	}
	if count != 2 {
		t.Fatalf("want 2 lines across both Opens, got %d", count)
	}
}
