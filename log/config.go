package log

//go:generate go tool stringer --linecomment --type Level,Format --output config_string.go

import (
	"io"
	"iter"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log message.
type Level slog.Level

const levelTraceMask = -8

const (
	LevelTrace Level = Level(levelTraceMask)  // trace
	LevelDebug Level = Level(slog.LevelDebug) // debug
	LevelInfo  Level = Level(slog.LevelInfo)  // info
	LevelWarn  Level = Level(slog.LevelWarn)  // warn
	LevelError Level = Level(slog.LevelError) // error
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelInfo

// Levels returns an iterator over all defined log levels in increasing
// order of severity.
func Levels() iter.Seq[string] {
	all := []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError}

	return func(yield func(string) bool) {
		for _, level := range all {
			if !yield(level.String()) {
				return
			}
		}
	}
}

// ParseLevel parses a string representation of a log level.
// Valid level strings are "TRACE", "DEBUG", "INFO", "WARN", and "ERROR",
// optionally followed by a "+" or "-" and an integer offset.
// See [slog.Level.UnmarshalText] for details.
// Unparseable input yields [DefaultLevel].
func ParseLevel(s string) Level {
	// slog.Level.UnmarshalText knows nothing about trace.
	if strings.EqualFold(s, "trace") {
		return LevelTrace
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// Format represents the output format for log messages.
type Format int

const (
	FormatText Format = iota // text
	FormatJSON               // json
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatJSON

// Formats returns an iterator over all defined log formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, format := range []Format{FormatJSON, FormatText} {
			if !yield(format.String()) {
				return
			}
		}
	}
}

// ParseFormat parses a string representation of a log format.
// Valid format strings are "json" and "text".
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return DefaultFormat
	}
}

// FormatTime defines a function that formats a time.Time value as a string.
type FormatTime func(time.Time) string

// DefaultTimeLayout is the default used when no valid time layout is provided.
const DefaultTimeLayout = time.RFC3339

// DefaultCaller is the default setting for including caller information
// in log output.
const DefaultCaller = false

// DefaultPretty is the default setting for pretty printing log output.
const DefaultPretty = true

// config holds the configuration options for a Logger.
type config struct {
	mutex      *sync.RWMutex
	output     io.Writer
	formatTime FormatTime
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

// makeConfig creates a new config with defaults applied, overridden by any
// provided options.
func makeConfig(w io.Writer, opts ...Option) config {
	c := config{mutex: &sync.RWMutex{}}

	return apply(apply(c, WithDefaults(w)), opts...)
}

// clone creates a copy of the config with a separate mutex and applies any
// provided options.
func (c config) clone(opts ...Option) config {
	c.mutex = &sync.RWMutex{}

	return apply(c, opts...)
}

// replaceAttr rewrites the time and level attributes of each record.
// The timestamp is rendered with the configured layout (or dropped when
// the layout is empty), and the level string is rewritten so that trace
// records read "TRACE" instead of slog's "DEBUG-4".
func (c config) replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			formatted := c.formatTime(t)
			if formatted == "" {
				return slog.Attr{}
			}

			a.Value = slog.StringValue(formatted)
		}

	case slog.LevelKey:
		if level, ok := a.Value.Any().(slog.Level); ok {
			// Uppercase matches slog's own level rendering.
			a.Value = slog.StringValue(strings.ToUpper(Level(level).String()))
		}
	}

	return a
}

// handler creates a slog.Handler based on the current configuration.
// The optional opts can be used to override specific configuration values.
func (c config) handler(opts ...Option) slog.Handler {
	cfg := apply(c, opts...)

	hopt := &slog.HandlerOptions{
		AddSource:   cfg.caller,
		Level:       slog.Level(cfg.level),
		ReplaceAttr: cfg.replaceAttr,
	}

	switch {
	case cfg.pretty && cfg.format == FormatJSON:
		return newPrettyJSONHandler(cfg.output, hopt)

	case cfg.pretty && cfg.format == FormatText:
		return newPrettyTextHandler(cfg.output, hopt)

	case cfg.format == FormatJSON:
		return slog.NewJSONHandler(cfg.output, hopt)

	case cfg.format == FormatText:
		return slog.NewTextHandler(cfg.output, hopt)

	default:
		return slog.DiscardHandler
	}
}

// set wraps a config mutation with the write lock held.
// Options may be applied to configs shared with live loggers, so every
// mutation goes through here.
func set(mutate func(*config)) Option {
	return func(c config) config {
		if c.mutex == nil {
			c.mutex = &sync.RWMutex{}
		} else {
			c.mutex.Lock()
			defer c.mutex.Unlock()
		}

		mutate(&c)

		return c
	}
}

// WithDefaults returns a functional option that sets the default
// configuration: [DefaultTimeLayout], [DefaultLevel], [DefaultFormat],
// [DefaultPretty], and caller info disabled.
func WithDefaults(w io.Writer) Option {
	if w == nil {
		w = io.Discard
	}

	return set(func(c *config) {
		c.output = w
		c.formatTime = makeFormatTimeFunc(DefaultTimeLayout)
		c.level = DefaultLevel
		c.format = DefaultFormat
		c.caller = DefaultCaller
		c.pretty = DefaultPretty
	})
}

// WithOutput returns a functional option that sets the output [io.Writer]
// for log messages.
// If a nil writer is provided, [io.Discard] is used instead.
func WithOutput(w io.Writer) Option {
	if w == nil {
		w = io.Discard
	}

	return set(func(c *config) { c.output = w })
}

// WithLevel returns a functional option that sets the minimum log level.
// Messages below this level are discarded.
func WithLevel(level Level) Option {
	return set(func(c *config) { c.level = level })
}

// WithFormat returns a functional option that sets the output format
// for log messages.
func WithFormat(format Format) Option {
	return set(func(c *config) { c.format = format })
}

// WithTimeLayout returns a functional option that sets the layout used to
// format log timestamps.
//
// The layout string can be one of the named layouts from the [time] package
// (for example, "RFC3339" or "RFC3339Nano"). Otherwise, it is passed verbatim
// to [time.Time.Format] and must follow the standard specification.
//
// If an empty string (after trimming whitespace) is provided, timestamps are
// disabled and no time is included in log output.
func WithTimeLayout(layout string) Option {
	format := makeFormatTimeFunc(layout)

	return set(func(c *config) { c.formatTime = format })
}

// WithCaller returns a functional option that controls whether caller
// information is included in log output.
func WithCaller(enable bool) Option {
	return set(func(c *config) { c.caller = enable })
}

// WithPretty returns a functional option that controls whether log output
// uses pretty printing with colors and formatting.
// For text format: removes quotes, uses colors for keys (gray) and values.
// For JSON format: multiline with indentation and colors.
func WithPretty(enable bool) Option {
	return set(func(c *config) { c.pretty = enable })
}

// timeLayout maps named layouts to their corresponding time.Time constants.
var timeLayout = map[string]string{
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rubydate":    time.RubyDate,
	"rfc822":      time.RFC822,
	"rfc822z":     time.RFC822Z,
	"rfc850":      time.RFC850,
	"kitchen":     time.Kitchen,

	"stamp": time.Stamp,
	"none":  "",

	"stampmilli": time.StampMilli,
	"milli":      time.StampMilli,
	"millis":     time.StampMilli,
	"ms":         time.StampMilli,

	"stampmicro": time.StampMicro,
	"micro":      time.StampMicro,
	"micros":     time.StampMicro,
	"us":         time.StampMicro,

	"stampnano": time.StampNano,
	"nano":      time.StampNano,
	"nanos":     time.StampNano,
	"ns":        time.StampNano,
}

// makeFormatTimeFunc resolves a layout name or literal layout string
// into a formatting function. Only letters and digits are considered
// when matching named layouts, so "RFC 3339" and "rfc3339" are the same
// name; unrecognized input is treated as a literal layout.
func makeFormatTimeFunc(layout string) FormatTime {
	name := strings.Map(
		func(r rune) rune {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				return r
			}

			return -1
		},
		strings.ToLower(layout),
	)

	if name == "" {
		return func(time.Time) string { return "" }
	}

	if std, ok := timeLayout[name]; ok {
		layout = std
	}

	return func(t time.Time) string { return t.Format(layout) }
}
