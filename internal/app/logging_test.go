package app

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func fixedLogger(buf *bytes.Buffer, level LogLevel) *Logger {
	l := NewLogger(LoggerConfig{Level: level, Output: buf, Prefix: "tilestorm"})
	l.sink.now = func() time.Time {
		return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	}
	return l
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LogLevelDebug, false},
		{"INFO", LogLevelInfo, false},
		{"warning", LogLevelWarn, false},
		{"error", LogLevelError, false},
		{"loud", LogLevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if got != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("ParseLogLevel(%q) = %v, %v; want %v, err %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestLogLevelString(t *testing.T) {
	if LogLevelWarn.String() != "WARN" || LogLevel(42).String() != "UNKNOWN" {
		t.Error("unexpected level names")
	}
}

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, LogLevelDebug)

	l.Info("saved %s", "level.yaml")

	want := "2024-05-01T12:00:00.000 [INFO] tilestorm: saved level.yaml\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, LogLevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown")

	if n := strings.Count(buf.String(), "\n"); n != 2 {
		t.Errorf("got %d lines, want 2: %q", n, buf.String())
	}

	l.SetLevel(LogLevelDebug)
	l.Debug("now shown")
	if !strings.Contains(buf.String(), "now shown") {
		t.Error("SetLevel did not take effect")
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, LogLevelInfo)

	l.WithComponent("config").WithField("path", "/etc/x.toml").Info("reloaded")

	if !strings.HasSuffix(buf.String(), "reloaded {component=config, path=/etc/x.toml}\n") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestDerivedLoggerSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, LogLevelError)
	child := l.WithComponent("script")

	l.SetLevel(LogLevelInfo)
	child.Info("visible")

	if !strings.Contains(buf.String(), "visible") {
		t.Error("child logger should follow the parent level")
	}
	if child.Level() != LogLevelInfo {
		t.Errorf("child.Level() = %v", child.Level())
	}
}

func TestNullLogger(t *testing.T) {
	l := NewNullLogger()
	l.Error("discarded")
	l.WithField("k", 1).Info("discarded")
}
