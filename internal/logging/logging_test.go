package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{" warning ", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"", log.InfoLevel},
		{"verbose", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormatter(t *testing.T) {
	tests := []struct {
		in   string
		want log.Formatter
	}{
		{"json", log.JSONFormatter},
		{"JSON", log.JSONFormatter},
		{"logfmt", log.LogfmtFormatter},
		{"text", log.TextFormatter},
		{"pretty", log.TextFormatter},
	}
	for _, tt := range tests {
		if got := ParseFormatter(tt.in); got != tt.want {
			t.Errorf("ParseFormatter(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "debug")
	t.Setenv(EnvFormat, "json")

	opts := FromEnv()
	if opts.Level != log.DebugLevel {
		t.Errorf("Level: got %v, want debug", opts.Level)
	}
	if opts.Formatter != log.JSONFormatter {
		t.Errorf("Formatter: got %v, want json", opts.Formatter)
	}
	if opts.Prefix != "nesconf" {
		t.Errorf("Prefix: got %q, want nesconf", opts.Prefix)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Level = log.WarnLevel
	logger := New(&buf, opts)

	logger.Info("hidden")
	logger.Warn("config not saved", "path", "/tmp/x.toml")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "config not saved") || !strings.Contains(out, "/tmp/x.toml") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Formatter = log.JSONFormatter
	New(&buf, opts).Info("loaded", "recent", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v: %q", err, buf.String())
	}
	if entry["msg"] != "loaded" {
		t.Errorf("msg: got %v", entry["msg"])
	}
	if entry["recent"] != float64(3) {
		t.Errorf("recent: got %v", entry["recent"])
	}
}

func TestSetupInstallsDefault(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	var buf bytes.Buffer
	Setup(&buf, DefaultOptions())
	log.Info("through the package logger")

	if !strings.Contains(buf.String(), "through the package logger") {
		t.Errorf("default logger not installed: %q", buf.String())
	}
}

func TestOpenFile(t *testing.T) {
	t.Run("creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "nested", "nesconf.log")
		f, err := OpenFile(path)
		if err != nil {
			t.Fatalf("OpenFile: %v", err)
		}
		defer f.Close()
		if _, err := os.Stat(path); err != nil {
			t.Errorf("log file not created: %v", err)
		}
	})

	t.Run("appends", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nesconf.log")
		for _, line := range []string{"one\n", "two\n"} {
			f, err := OpenFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := f.WriteString(line); err != nil {
				t.Fatal(err)
			}
			f.Close()
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "one\ntwo\n" {
			t.Errorf("content: got %q", data)
		}
	})

	t.Run("empty path", func(t *testing.T) {
		if _, err := OpenFile("  "); err == nil {
			t.Fatal("expected error for empty path")
		}
	})
}
