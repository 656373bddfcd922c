package debuglog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LevelOff, "OFF"},
		{LogLevel(42), "UNKNOWN"},
	}

	for _, test := range tests {
		if got := test.level.String(); got != test.expected {
			t.Errorf("LogLevel.String() = %q, want %q", got, test.expected)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"DEBUG", LevelDebug},
		{"debug", LevelDebug},
		{" info ", LevelInfo},
		{"WARN", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"off", LevelOff},
		{"none", LevelOff},
		{"INVALID", LevelInfo},
		{"", LevelInfo},
	}

	for _, test := range tests {
		if got := ParseLogLevel(test.input); got != test.expected {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", test.input, got, test.expected)
		}
	}
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	if err := Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(content)
}

func TestSetupWithLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "test.log")

	if err := Setup(LevelInfo, logPath); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	if GetLevel() != LevelInfo {
		t.Errorf("GetLevel() = %v, want %v", GetLevel(), LevelInfo)
	}

	Debugf("debug message")
	Infof("info message")
	Warnf("warn message")
	Errorf("error message")

	logContent := readLog(t, logPath)
	if strings.Contains(logContent, "debug message") {
		t.Error("DEBUG message should not appear with INFO level")
	}
	for _, want := range []string{"[INFO] info message", "[WARN] warn message", "[ERROR] error message"} {
		if !strings.Contains(logContent, want) {
			t.Errorf("log should contain %q, got: %s", want, logContent)
		}
	}
}

func TestSetupWithLevelOff(t *testing.T) {
	if err := Setup(LevelOff); err != nil {
		t.Fatalf("Setup with LevelOff failed: %v", err)
	}

	if GetLevel() != LevelOff {
		t.Errorf("GetLevel() = %v, want %v", GetLevel(), LevelOff)
	}

	// Must be safe with no logger configured
	Debugf("debug message")
	Errorf("error message")
	WithFields(Fields{"k": "v"}).Errorf("field message")
}

func TestFieldLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "field_test.log")

	if err := Setup(LevelDebug, logPath); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	logger := WithFields(Fields{
		"component": "feed",
		"session":   "abc",
	}).WithField("count", 42)

	logger.Infof("fetch complete")

	logContent := readLog(t, logPath)
	if !strings.Contains(logContent, "fetch complete") {
		t.Error("Log message should contain the main message")
	}
	// Fields are sorted by key
	if !strings.Contains(logContent, "[component=feed count=42 session=abc]") {
		t.Errorf("Log should contain sorted fields, got: %s", logContent)
	}
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	parent := WithFields(Fields{"a": 1})
	child := parent.WithField("b", 2)

	if _, ok := parent.fields["b"]; ok {
		t.Error("WithField should not modify the parent logger")
	}
	if child.fields["a"] != 1 || child.fields["b"] != 2 {
		t.Errorf("child fields = %v, want a=1 b=2", child.fields)
	}
}

func TestSetLevel(t *testing.T) {
	SetLevel(LevelDebug)
	if GetLevel() != LevelDebug {
		t.Errorf("SetLevel(LevelDebug) failed, got %v", GetLevel())
	}

	SetLevel(LevelError)
	if GetLevel() != LevelError {
		t.Errorf("SetLevel(LevelError) failed, got %v", GetLevel())
	}

	SetLevel(LevelOff)
}

func TestDefaultPath(t *testing.T) {
	if !strings.HasSuffix(DefaultPath(), filepath.Join("brief", "brief.log")) {
		t.Errorf("DefaultPath() = %s, want suffix brief/brief.log", DefaultPath())
	}
}
