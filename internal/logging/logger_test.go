package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// decode parses the single JSON line written to buf.
func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log line %q is not JSON: %v", buf.String(), err)
	}
	return entry
}

func newBufferLogger(level zerolog.Level) (*ZerologAdapter, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewZerologAdapter(zerolog.New(&buf).Level(level)), &buf
}

func TestFieldConstructors(t *testing.T) {
	cause := errors.New("diverged")
	tests := []struct {
		field Field
		key   string
		value any
	}{
		{String("fn", "sine"), "fn", "sine"},
		{Int("workers", 8), "workers", 8},
		{Float64("tol", 1e-9), "tol", 1e-9},
		{Duration("elapsed", time.Second), "elapsed", time.Second},
		{Err(cause), "error", cause},
		{Err(nil), "error", nil},
	}
	for _, tt := range tests {
		if tt.field.Key != tt.key || tt.field.Value != tt.value {
			t.Errorf("got %+v, want {%s %v}", tt.field, tt.key, tt.value)
		}
	}
}

func TestZerologAdapterLevels(t *testing.T) {
	tests := []struct {
		name  string
		log   func(Logger)
		level string
		msg   string
	}{
		{"info", func(l Logger) { l.Info("serving") }, "info", "serving"},
		{"debug", func(l Logger) { l.Debug("step") }, "debug", "step"},
		{"error", func(l Logger) { l.Error("request failed", errors.New("boom")) }, "error", "request failed"},
		{"printf", func(l Logger) { l.Printf("n=%d", 101) }, "info", "n=101"},
		{"println", func(l Logger) { l.Println("a", 1) }, "info", "a 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := newBufferLogger(zerolog.DebugLevel)
			tt.log(l)
			entry := decode(t, buf)
			if entry["level"] != tt.level || entry["message"] != tt.msg {
				t.Errorf("entry = %v, want level %s message %q", entry, tt.level, tt.msg)
			}
		})
	}
}

func TestZerologAdapterErrorCarriesCause(t *testing.T) {
	l, buf := newBufferLogger(zerolog.InfoLevel)
	l.Error("calibration failed", errors.New("no samples"), String("strategy", "pool"))

	entry := decode(t, buf)
	if entry["error"] != "no samples" || entry["strategy"] != "pool" {
		t.Errorf("entry = %v", entry)
	}
}

func TestZerologAdapterFieldTypes(t *testing.T) {
	l, buf := newBufferLogger(zerolog.InfoLevel)
	l.Info("fields",
		String("s", "x"),
		Int("i", 3),
		Field{Key: "i64", Value: int64(-4)},
		Field{Key: "u64", Value: uint64(5)},
		Float64("f", 0.25),
		Field{Key: "b", Value: true},
		Field{Key: "e", Value: errors.New("inner")},
		Field{Key: "other", Value: []int{1, 2}},
	)

	entry := decode(t, buf)
	want := map[string]any{
		"s": "x", "i": 3.0, "i64": -4.0, "u64": 5.0, "f": 0.25, "b": true, "e": "inner",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v (%T), want %v", k, entry[k], entry[k], v)
		}
	}
	if _, ok := entry["other"].([]any); !ok {
		t.Errorf("other = %v, want a JSON array", entry["other"])
	}
}

func TestZerologAdapterFiltersBelowLevel(t *testing.T) {
	l, buf := newBufferLogger(zerolog.InfoLevel)
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug entry written at info level: %q", buf.String())
	}
}

func TestNewLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "server").Info("up")

	entry := decode(t, &buf)
	if entry["component"] != "server" {
		t.Errorf("component = %v", entry["component"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("missing timestamp")
	}
}

func TestNewDefaultLogger(t *testing.T) {
	var _ Logger = NewDefaultLogger()
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"WARN", zerolog.WarnLevel, false},
		{"Error", zerolog.ErrorLevel, false},
		{"loud", zerolog.NoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsole(&buf, zerolog.WarnLevel, true)

	logger.Info().Msg("quiet")
	logger.Warn().Str("fn", "sine").Msg("slow")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Error("info entry should be filtered at warn level")
	}
	if !strings.Contains(out, "slow") || !strings.Contains(out, "fn=sine") {
		t.Errorf("console output = %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("noColor output contains ANSI escapes")
	}
}
