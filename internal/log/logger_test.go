package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
}

func TestLogger_WriterSinkAndLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, LevelInfo)
	logger.now = fixedClock

	logger.Debug("engine: routed %s", "kick")
	logger.Info("engine: executed %s", "kick")
	logger.Warn("confirm: expired entry for %s", "steve")
	logger.Error("store: insert failed")

	got := buf.String()
	if strings.Contains(got, "DEBUG") {
		t.Errorf("debug line should be filtered:\n%s", got)
	}
	want := "[2026-03-14 09:26:53] INFO: engine: executed kick\n"
	if !strings.HasPrefix(got, want) {
		t.Errorf("first line = %q, want %q", strings.SplitAfter(got, "\n")[0], want)
	}
	for _, line := range []string{"WARN: confirm: expired entry for steve", "ERROR: store: insert failed"} {
		if !strings.Contains(got, line) {
			t.Errorf("missing %q in:\n%s", line, got)
		}
	}
}

func TestLogger_FileIsOwnerOnlyAndAppends(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logPath := filepath.Join(dir, "community.log")

	for _, msg := range []string{"first run", "second run"} {
		logger, err := New(logPath, LevelDebug)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		logger.Info("%s", msg)
		if err := logger.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("stat log file: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("log file mode = %o, want 600", info.Mode().Perm())
	}

	dirInfo, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat log dir: %v", err)
	}
	if dirInfo.Mode().Perm() != 0700 {
		t.Errorf("log dir mode = %o, want 700", dirInfo.Mode().Perm())
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(content), "first run") || !strings.Contains(string(content), "second run") {
		t.Errorf("log should contain both runs:\n%s", content)
	}
}

func TestLogger_FixesExistingPermissions(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "community.log")
	if err := os.WriteFile(logPath, nil, 0644); err != nil {
		t.Fatal(err)
	}

	logger, err := New(logPath, LevelInfo)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = logger.Close() }()

	info, _ := os.Stat(logPath)
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %o, want 600", info.Mode().Perm())
	}
}

func TestNew_PathUnderFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "afile")
	if err := os.WriteFile(file, nil, 0600); err != nil {
		t.Fatal(err)
	}

	_, err := New(filepath.Join(file, "sub", "community.log"), LevelInfo)
	if err == nil || !strings.Contains(err.Error(), "create log directory") {
		t.Errorf("expected directory error, got %v", err)
	}
}

func TestLogger_SetEnabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, LevelInfo)

	logger.Info("kept")
	logger.SetEnabled(false)
	logger.Info("dropped")
	logger.SetEnabled(true)
	logger.Info("kept again")

	got := buf.String()
	if strings.Contains(got, "dropped") {
		t.Error("disabled logger wrote a line")
	}
	if strings.Count(got, "kept") != 2 {
		t.Errorf("expected two kept lines:\n%s", got)
	}
}

func TestLogger_Writer(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, LevelDebug)

	_, _ = logger.Writer(LevelWarn).Write([]byte("from writer\n"))

	if !strings.Contains(buf.String(), "WARN: from writer\n") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestLogger_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, LevelDebug)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.Info("worker %d", n)
		}(i)
	}
	wg.Wait()

	if lines := strings.Count(buf.String(), "\n"); lines != 20 {
		t.Errorf("got %d lines, want 20", lines)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{" info ", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"Error", LevelError},
		{"verbose", LevelWarn},
		{"", LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLevel_String(t *testing.T) {
	if LevelError.String() != "ERROR" || Level(42).String() != "UNKNOWN" {
		t.Errorf("unexpected level names: %s %s", LevelError, Level(42))
	}
}

func TestNilSafety(t *testing.T) {
	var logger *Logger
	logger.Info("ignored")
	logger.SetEnabled(true)
	if err := logger.Close(); err != nil {
		t.Errorf("Close on nil logger: %v", err)
	}

	if err := NewWriter(&bytes.Buffer{}, LevelInfo).Close(); err != nil {
		t.Errorf("Close on stream logger: %v", err)
	}
}

func TestGlobalLogger(t *testing.T) {
	saved := GetLogger()
	defer func() {
		defaultLoggerMu.Lock()
		defaultLogger = saved
		defaultLoggerMu.Unlock()
	}()

	defaultLoggerMu.Lock()
	defaultLogger = nil
	defaultLoggerMu.Unlock()

	Info("dropped")
	if err := Close(); err != nil {
		t.Errorf("Close without logger: %v", err)
	}

	var buf bytes.Buffer
	defaultLoggerMu.Lock()
	defaultLogger = NewWriter(&buf, LevelDebug)
	defaultLoggerMu.Unlock()

	Debug("global %d", 1)
	Warn("global %d", 2)
	if strings.Count(buf.String(), "global") != 2 {
		t.Errorf("global logger output:\n%s", buf.String())
	}
}

func TestOrNop(t *testing.T) {
	if _, ok := OrNop(nil).(NopLogger); !ok {
		t.Error("OrNop(nil) should return NopLogger")
	}
	l := NewWriter(&bytes.Buffer{}, LevelInfo)
	if OrNop(l) != l {
		t.Error("OrNop should keep a non-nil logger")
	}
}
