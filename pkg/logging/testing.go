package logging

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestLogger is a trace-level logger that keeps its JSON lines in memory.
type TestLogger struct {
	*zerolog.Logger
	Buffer *bytes.Buffer
}

// NewTestLogger returns a TestLogger. The global level is lowered to trace
// for the duration of t.
func NewTestLogger(t testing.TB) *TestLogger {
	t.Helper()

	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.TraceLevel).With().Timestamp().Logger()
	return &TestLogger{Logger: &logger, Buffer: &buf}
}

func (tl *TestLogger) Output() string {
	return tl.Buffer.String()
}

// Lines splits the output into log entries.
func (tl *TestLogger) Lines() []string {
	return strings.FieldsFunc(tl.Output(), func(r rune) bool { return r == '\n' })
}

func (tl *TestLogger) Contains(substr string) bool {
	return strings.Contains(tl.Output(), substr)
}

func (tl *TestLogger) ContainsAll(substrs ...string) bool {
	return !slices.ContainsFunc(substrs, func(s string) bool { return !tl.Contains(s) })
}

func (tl *TestLogger) Count() int {
	return len(tl.Lines())
}

func (tl *TestLogger) Clear() {
	tl.Buffer.Reset()
}

func (tl *TestLogger) AssertContains(t testing.TB, substr string) {
	t.Helper()
	if !tl.Contains(substr) {
		t.Errorf("expected log entry containing %q, got:\n%s", substr, tl.Output())
	}
}

func (tl *TestLogger) AssertNotContains(t testing.TB, substr string) {
	t.Helper()
	if tl.Contains(substr) {
		t.Errorf("unexpected log entry containing %q:\n%s", substr, tl.Output())
	}
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

// CaptureLoggingForTest routes the default logger into a TestLogger until t ends.
func CaptureLoggingForTest(t testing.TB) *TestLogger {
	t.Helper()
	prev := *Default()
	tl := NewTestLogger(t)
	SetDefault(*tl.Logger)
	t.Cleanup(func() { SetDefault(prev) })
	return tl
}
