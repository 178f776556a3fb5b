package log

import (
	"slices"
	"strings"
	"testing"
	"time"
)

func TestOptionsSetFields(t *testing.T) {
	c := apply(config{},
		WithLevel(LevelWarn),
		WithFormat(FormatText),
		WithCaller(true),
		WithPretty(false))

	if c.level != LevelWarn {
		t.Errorf("level = %v, want warn", c.level)
	}
	if c.format != FormatText {
		t.Errorf("format = %v, want text", c.format)
	}
	if !c.caller {
		t.Error("caller not enabled")
	}
	if c.pretty {
		t.Error("pretty not disabled")
	}
	if c.mutex == nil {
		t.Error("options on a zero config must install a mutex")
	}
}

func TestWithDefaultsNilWriter(t *testing.T) {
	c := WithDefaults(nil)(config{})

	if c.output == nil {
		t.Fatal("nil writer must be replaced, not kept")
	}
	if c.level != DefaultLevel || c.format != DefaultFormat {
		t.Errorf("defaults not applied: level=%v format=%v", c.level, c.format)
	}
}

func TestCloneDetachesMutex(t *testing.T) {
	base := makeConfig(nil)
	derived := base.clone(WithLevel(LevelError))

	if derived.mutex == base.mutex {
		t.Error("clone shares the base mutex")
	}
	if base.level == derived.level {
		t.Error("clone option leaked into the base config")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"WARN", LevelWarn},
		{"error", LevelError},
		{"warn+2", LevelWarn + 2},
		{"nonsense", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{" text ", FormatText},
		{"yaml", DefaultFormat},
		{"", DefaultFormat},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.input); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLevelStrings(t *testing.T) {
	got := slices.Collect(Levels())
	want := []string{"trace", "debug", "info", "warn", "error"}

	if !slices.Equal(got, want) {
		t.Errorf("Levels() = %v, want %v", got, want)
	}
}

func TestFormatStrings(t *testing.T) {
	got := slices.Collect(Formats())

	if !slices.Contains(got, "json") || !slices.Contains(got, "text") {
		t.Errorf("Formats() = %v", got)
	}
}

func TestFormatTimeLayouts(t *testing.T) {
	now := time.Date(2023, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		name     string
		layout   string
		want     string
		contains string
	}{
		{
			name:   "named rfc3339",
			layout: "RFC3339",
			want:   "2023-10-15T14:30:45Z",
		},
		{
			name:   "named rfc3339 nano",
			layout: "RFC3339Nano",
			want:   "2023-10-15T14:30:45.123456789Z",
		},
		{
			name:   "named layout with spaces and case",
			layout: "RFC 3339",
			want:   "2023-10-15T14:30:45Z",
		},
		{
			name:   "literal layout",
			layout: "2006-01-02 15:04:05.000",
			want:   "2023-10-15 14:30:45.123",
		},
		{
			name:     "unknown name used verbatim",
			layout:   "UNKNOWN_FORMAT",
			contains: "UNKNOWN_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := makeFormatTimeFunc(tt.layout)(now)

			if tt.want != "" && got != tt.want {
				t.Errorf("formatted %q, want %q", got, tt.want)
			}
			if tt.contains != "" && !strings.Contains(got, tt.contains) {
				t.Errorf("formatted %q, want substring %q", got, tt.contains)
			}
		})
	}
}

func TestFormatTimeDisabled(t *testing.T) {
	now := time.Now()

	for _, layout := range []string{"", "   \t  ", "none"} {
		if got := makeFormatTimeFunc(layout)(now); got != "" {
			t.Errorf("layout %q formatted %q, want empty", layout, got)
		}
	}
}

func BenchmarkFormatTime(b *testing.B) {
	format := makeFormatTimeFunc("RFC3339Nano")
	now := time.Now()

	for b.Loop() {
		_ = format(now)
	}
}
