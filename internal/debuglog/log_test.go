package debuglog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	if err := Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestLevelNamesRoundTrip(t *testing.T) {
	for _, level := range []LogLevel{LevelDebug, LevelInfo, LevelWarn, LevelError, LevelOff} {
		if got := ParseLogLevel(level.String()); got != level {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", level.String(), got, level)
		}
	}
	if got := LogLevel(42).String(); got != "UNKNOWN" {
		t.Errorf("unknown level rendered as %q", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LevelDebug,
		" Info ":  LevelInfo,
		"warning": LevelWarn,
		"ERROR":   LevelError,
		"off":     LevelOff,
		"verbose": LevelInfo,
		"":        LevelInfo,
	}

	for input, want := range tests {
		if got := ParseLogLevel(input); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name    string
		level   LogLevel
		present []string
		absent  []string
	}{
		{
			name:    "info hides debug",
			level:   LevelInfo,
			present: []string{"[INFO] page 2 loaded", "[WARN] trailer missing", "[ERROR] catalog down"},
			absent:  []string{"prefetch armed"},
		},
		{
			name:    "error keeps only errors",
			level:   LevelError,
			present: []string{"[ERROR] catalog down"},
			absent:  []string{"prefetch armed", "page 2 loaded", "trailer missing"},
		},
		{
			name:    "debug keeps everything",
			level:   LevelDebug,
			present: []string{"[DEBUG] prefetch armed", "[INFO] page 2 loaded"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logPath := filepath.Join(t.TempDir(), "flix.log")
			if err := Setup(tt.level, logPath); err != nil {
				t.Fatalf("Setup failed: %v", err)
			}
			if GetLevel() != tt.level {
				t.Errorf("GetLevel() = %v, want %v", GetLevel(), tt.level)
			}

			Debugf("prefetch armed")
			Infof("page %d loaded", 2)
			Warnf("trailer missing")
			Errorf("catalog down")

			content := readLog(t, logPath)
			for _, want := range tt.present {
				if !strings.Contains(content, want) {
					t.Errorf("log is missing %q:\n%s", want, content)
				}
			}
			for _, unwanted := range tt.absent {
				if strings.Contains(content, unwanted) {
					t.Errorf("log should not contain %q", unwanted)
				}
			}
		})
	}
}

func TestOffWritesNothing(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "flix.log")
	if err := Setup(LevelOff, logPath); err != nil {
		t.Fatalf("Setup with LevelOff failed: %v", err)
	}
	Errorf("never written")

	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Errorf("expected no log file, stat returned %v", err)
	}
}

func TestSetLevelChangesFilter(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "flix.log")
	if err := Setup(LevelError, logPath); err != nil {
		t.Fatal(err)
	}
	Infof("before")
	SetLevel(LevelInfo)
	Infof("after")

	content := readLog(t, logPath)
	if strings.Contains(content, "before") || !strings.Contains(content, "after") {
		t.Errorf("level change not applied:\n%s", content)
	}
}

func TestSetupCreatesLogDirectory(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "logs", "flix.log")

	if err := SetupWithRotation(LevelWarn, Rotation{MaxSizeMB: 1, MaxBackups: 2}, logPath); err != nil {
		t.Fatalf("SetupWithRotation failed: %v", err)
	}
	Warnf("stale response discarded")

	if content := readLog(t, logPath); !strings.Contains(content, "[WARN] stale response discarded") {
		t.Errorf("missing WARN line, got %q", content)
	}
}

func TestDefaultPath(t *testing.T) {
	if got := DefaultPath(); filepath.Base(got) != "flix.log" || filepath.Base(filepath.Dir(got)) != ".flix" {
		t.Errorf("DefaultPath() = %q", got)
	}
}

func TestFieldLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "flix.log")
	if err := Setup(LevelDebug, logPath); err != nil {
		t.Fatal(err)
	}

	WithFields(map[string]any{"movie": 603, "site": "YouTube"}).Infof("resolved trailer")
	WithFields(nil).Warnf("no fields")

	content := readLog(t, logPath)
	if !strings.Contains(content, "resolved trailer [movie=603 site=YouTube]") {
		t.Errorf("fields not rendered in key order:\n%s", content)
	}
	if !strings.Contains(content, "[WARN] no fields\n") {
		t.Errorf("empty field set should add nothing:\n%s", content)
	}
}
