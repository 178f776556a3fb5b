package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyBase carries the state shared by both pretty handlers. The
// mutex serializes writes so interleaved records stay whole lines.
type prettyBase struct {
	opts slog.HandlerOptions
	mu   *sync.Mutex
	w    io.Writer
}

func makePrettyBase(w io.Writer, opts *slog.HandlerOptions) prettyBase {
	return prettyBase{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (h *prettyBase) enabled(level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// source returns the record's origin as file:line, or "" when caller
// info is disabled or unavailable.
func (h *prettyBase) source(r slog.Record) string {
	if !h.opts.AddSource {
		return ""
	}

	src := r.Source()
	if src == nil {
		return ""
	}

	return fmt.Sprintf("%s:%d", src.File, src.Line)
}

// flush writes the buffered record followed by a newline.
func (h *prettyBase) flush(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func colorize(buf *bytes.Buffer, color, text string) {
	buf.WriteString(color)
	buf.WriteString(text)
	buf.WriteString(colorReset)
}

// levelColor picks the severity color: red for errors, yellow for
// warnings, green for info, blue for anything below.
func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	default:
		return colorBlue
	}
}

func boolColor(b bool) string {
	if b {
		return colorGreen
	}

	return colorRed
}

// prettyTextHandler renders records as colorized key=value lines
// without quoting: gray keys, per-type value colors.
type prettyTextHandler struct {
	prettyBase
	groups []string
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{prettyBase: makePrettyBase(w, opts)}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		h.writeAttr(buf, slog.Time(slog.TimeKey, r.Time))
	}

	h.writeAttr(buf, slog.Any(slog.LevelKey, r.Level))

	if src := h.source(r); src != "" {
		h.writeAttr(buf, slog.String(slog.SourceKey, src))
	}

	h.writeAttr(buf, slog.String(slog.MessageKey, r.Message))

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, a)

		return true
	})

	return h.flush(buf)
}

func (h *prettyTextHandler) WithAttrs([]slog.Attr) slog.Handler {
	return &prettyTextHandler{
		prettyBase: h.prettyBase,
		groups:     h.groups,
	}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{
		prettyBase: h.prettyBase,
		groups:     append(h.groups[:len(h.groups):len(h.groups)], name),
	}
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, a slog.Attr) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	colorize(buf, colorGray, a.Key)
	buf.WriteByte('=')
	h.writeValue(buf, a.Value)
}

func (h *prettyTextHandler) writeValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		colorize(buf, colorCyan, v.String())

	case slog.KindInt64:
		colorize(buf, colorYellow, strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		colorize(buf, colorYellow, strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		colorize(buf, colorYellow,
			strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		colorize(buf, boolColor(v.Bool()), strconv.FormatBool(v.Bool()))

	case slog.KindDuration:
		colorize(buf, colorMagenta, v.Duration().String())

	case slog.KindTime:
		colorize(buf, colorBlue, v.Time().String())

	case slog.KindAny:
		if level, ok := v.Any().(slog.Level); ok {
			colorize(buf, levelColor(level), level.String())

			return
		}

		colorize(buf, colorCyan, v.String())

	default:
		colorize(buf, colorCyan, v.String())
	}
}

// prettyJSONHandler renders records as a multiline JSON-shaped block
// with colorized keys and values. The output is for human eyes, not
// for parsers: values are not quoted or escaped.
type prettyJSONHandler struct {
	prettyBase
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{prettyBase: makePrettyBase(w, opts)}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	buf.WriteString("{\n")

	first := true

	if !r.Time.IsZero() {
		h.writeField(buf, slog.TimeKey,
			r.Time.Format("2006-01-02T15:04:05Z07:00"), &first)
	}

	h.writeField(buf, slog.LevelKey, r.Level.String(), &first)

	if src := h.source(r); src != "" {
		h.writeField(buf, slog.SourceKey, src, &first)
	}

	h.writeField(buf, slog.MessageKey, r.Message, &first)

	r.Attrs(func(a slog.Attr) bool {
		h.writeField(buf, a.Key, a.Value.Any(), &first)

		return true
	})

	buf.WriteString("\n}")

	return h.flush(buf)
}

func (h *prettyJSONHandler) WithAttrs([]slog.Attr) slog.Handler {
	return &prettyJSONHandler{prettyBase: h.prettyBase}
}

func (h *prettyJSONHandler) WithGroup(string) slog.Handler {
	return &prettyJSONHandler{prettyBase: h.prettyBase}
}

func (h *prettyJSONHandler) writeField(
	buf *bytes.Buffer,
	key string,
	value any,
	first *bool,
) {
	if !*first {
		buf.WriteString(",\n")
	}

	*first = false

	buf.WriteString("  ")
	colorize(buf, colorGray, key)
	buf.WriteString(": ")
	h.writeValue(buf, value)
}

func (h *prettyJSONHandler) writeValue(buf *bytes.Buffer, v any) {
	switch val := v.(type) {
	case string:
		colorize(buf, colorCyan, val)

	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		colorize(buf, colorYellow, fmt.Sprint(val))

	case bool:
		colorize(buf, boolColor(val), strconv.FormatBool(val))

	case nil:
		colorize(buf, colorGray, "null")

	default:
		colorize(buf, colorCyan, fmt.Sprint(val))
	}
}
