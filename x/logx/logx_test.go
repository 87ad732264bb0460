package logx

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewTo(&buf, "power")
	l.Infof("state=%s", "active")
	l.With("wake").Warnf("button held %dms", 5000)

	got := buf.String()
	want := "[power] info: state=active\n[power/wake] warn: button held 5000ms\n"
	if got != want {
		t.Fatalf("unexpected output:\n%q\nwant\n%q", got, want)
	}
}

func TestNilLoggerIsSilent(t *testing.T) {
	var l *Logger
	l.Errorf("ignored %d", 1) // must not panic
}

func TestDefaultOutput(t *testing.T) {
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	defer SetOutput(prev)

	New("main").Errorf("boom")
	if !strings.Contains(buf.String(), "[main] error: boom") {
		t.Fatalf("expected line on Output, got %q", buf.String())
	}
}
