package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// swapDefault points the package-level logger at a buffer for the
// duration of one test.
func swapDefault(t *testing.T, opts ...Option) *bytes.Buffer {
	t.Helper()

	original := defaultLog
	t.Cleanup(func() { defaultLog = original })

	var buf bytes.Buffer

	defaultLog = Make(&buf, opts...)

	return &buf
}

func TestPackageLevelFunctions(t *testing.T) {
	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Trace", Trace, "TRACE"},
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := swapDefault(t,
				WithLevel(LevelTrace),
				WithFormat(FormatJSON),
				WithPretty(false))

			tt.fn("package message", slog.String("key", "value"))

			output := buf.String()
			if !strings.Contains(output, "package message") {
				t.Errorf("message missing from %q", output)
			}
			if !strings.Contains(output, tt.level) {
				t.Errorf("level %s missing from %q", tt.level, output)
			}
			if !strings.Contains(output, `"key":"value"`) {
				t.Errorf("attribute missing from %q", output)
			}
		})
	}
}

func TestConfigRewrapsDefault(t *testing.T) {
	buf := swapDefault(t, WithLevel(LevelError), WithPretty(false))

	Info("dropped")

	if buf.Len() != 0 {
		t.Fatalf("info logged at error level: %q", buf.String())
	}

	Config(WithLevel(LevelInfo))

	Info("visible")

	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("reconfigured logger missing output: %q", buf.String())
	}
}

func TestDefaultReturnsCurrent(t *testing.T) {
	swapDefault(t, WithLevel(LevelWarn))

	if Default().Level() != LevelWarn {
		t.Errorf("Default().Level() = %v, want warn", Default().Level())
	}
}
