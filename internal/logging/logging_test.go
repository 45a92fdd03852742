package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestNewLogger(t *testing.T) {
	t.Run("with default output", func(t *testing.T) {
		logger := NewLogger(Config{Level: InfoLevel})
		if logger == nil {
			t.Fatal("NewLogger returned nil")
		}
	})

	t.Run("with custom output", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLogger(Config{Level: InfoLevel, Output: buf})
		if logger.writer != buf {
			t.Error("Logger should use provided output writer")
		}
	})
}

func TestLogLevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		configLvl LogLevel
		logLvl    LogLevel
		shouldLog bool
	}{
		{"debug logs debug", DebugLevel, DebugLevel, true},
		{"debug logs error", DebugLevel, ErrorLevel, true},
		{"info skips debug", InfoLevel, DebugLevel, false},
		{"info logs info", InfoLevel, InfoLevel, true},
		{"info logs warn", InfoLevel, WarnLevel, true},
		{"warn skips info", WarnLevel, InfoLevel, false},
		{"warn logs error", WarnLevel, ErrorLevel, true},
		{"error skips warn", ErrorLevel, WarnLevel, false},
		{"error logs error", ErrorLevel, ErrorLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewLogger(Config{Level: tt.configLvl, Output: buf})

			logger.log(tt.logLvl, "test message", nil)

			logged := buf.Len() > 0
			if logged != tt.shouldLog {
				t.Errorf("logged = %v, want %v (output %q)", logged, tt.shouldLog, buf.String())
			}
		})
	}
}

func TestHumanFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(Config{Format: HumanFormat, Level: DebugLevel, Output: buf})

	logger.Info("Document rendered", map[string]interface{}{
		KeyFormat:    "csv",
		KeyDataset:   "units",
		KeyRequestID: "3f2a9c1e-8d1b-4c55-a3f0-2b9e51f7a001",
		"cached":     true,
		"bytes":      412,
	})

	out := buf.String()
	if !strings.HasSuffix(out, "INFO  [3f2a9c1e] units.csv Document rendered | bytes=412 cached=true\n") {
		t.Errorf("unexpected layout: %q", out)
	}
	if _, err := time.Parse(time.RFC3339, strings.Fields(out)[0]); err != nil {
		t.Errorf("line should start with an RFC3339 timestamp: %q", out)
	}
}

func TestHumanFormat_Layout(t *testing.T) {
	tests := []struct {
		name   string
		level  LogLevel
		fields map[string]interface{}
		want   string
	}{
		{
			name:  "no fields",
			level: WarnLevel,
			want:  "WARN  Cache disabled\n",
		},
		{
			name:   "format only",
			level:  InfoLevel,
			fields: map[string]interface{}{KeyFormat: "xml"},
			want:   "INFO  *.xml Cache disabled\n",
		},
		{
			name:   "short request id kept whole",
			level:  ErrorLevel,
			fields: map[string]interface{}{KeyRequestID: "req-42", KeyDataset: "recipes"},
			want:   "ERROR [req-42] recipes Cache disabled\n",
		},
		{
			name:   "values needing quotes",
			level:  DebugLevel,
			fields: map[string]interface{}{"error": "disk is full", "path": "", "user_agent": "curl"},
			want:   `DEBUG Cache disabled | error="disk is full" path="" user_agent=curl` + "\n",
		},
		{
			name:   "error and duration values",
			level:  InfoLevel,
			fields: map[string]interface{}{"cause": fmt.Errorf("locked"), "took": 1500 * time.Millisecond},
			want:   "INFO  Cache disabled | cause=locked took=1.5s\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewLogger(Config{Format: HumanFormat, Level: DebugLevel, Output: buf})
			logger.log(tt.level, "Cache disabled", tt.fields)

			out := buf.String()
			// strip the timestamp
			if i := strings.IndexByte(out, ' '); i >= 0 {
				out = out[i+1:]
			}
			if out != tt.want {
				t.Errorf("line = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestHumanFormat_GroupsAndAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(Config{Format: HumanFormat, Level: InfoLevel, Output: buf})

	sl := logger.Slog().With(KeyDataset, "units").WithGroup("cache")
	sl.Info("Lookup", "hit", false, slog.Group("entry", "ttl", "5m0s"))

	out := buf.String()
	if !strings.Contains(out, " units Lookup | cache.hit=false cache.entry.ttl=5m0s\n") {
		t.Errorf("unexpected layout: %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(Config{Format: JSONFormat, Level: InfoLevel, Output: buf})

	logger.Warn("Export failed", map[string]interface{}{"dataset": "recipes"})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "Export failed" {
		t.Errorf("msg = %v, want %q", entry["msg"], "Export failed")
	}
	if entry["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", entry["level"])
	}
	if entry["dataset"] != "recipes" {
		t.Errorf("dataset = %v, want recipes", entry["dataset"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"bogus":   InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewDiscardLogger(t *testing.T) {
	logger := NewDiscardLogger()
	// must not panic
	logger.Error("ignored", map[string]interface{}{"k": 1})
}
