package log

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"
)

// Logger is a concurrency-safe structured logger wrapping [slog.Logger]
// with a Trace level below Debug.
//
// The zero value is valid and discards everything, so packages can hold
// a Logger field without null checks and callers opt in with an option.
type Logger struct {
	*slog.Logger
	config
}

// Make creates a new [Logger] writing to w with [DefaultFormat],
// [DefaultLevel], [DefaultTimeLayout], and caller info disabled, each
// overridable through functional options such as [WithFormat],
// [WithLevel], [WithTimeLayout], and [WithCaller].
func Make(w io.Writer, opts ...Option) Logger {
	// cfg is unshared here, so the options mutate it without locking.
	cfg := makeConfig(w, opts...)

	return Logger{
		config: cfg,
		Logger: slog.New(cfg.handler()),
	}
}

// Wrap returns a new [Logger] with the receiver's configuration as the
// base and the given options applied over it.
func (l Logger) Wrap(opts ...Option) Logger {
	// clone copies the value receiver and installs a fresh mutex, so
	// only the read of the existing config needs the lock.
	defer l.rlock()()

	cfg := l.clone(opts...)

	return Logger{
		config: cfg,
		Logger: slog.New(cfg.handler()),
	}
}

// With returns a new [Logger] that includes the given attributes in
// every record.
func (l Logger) With(attrs ...slog.Attr) Logger {
	if l.Logger == nil {
		return l
	}

	unlock := l.rlock()
	cfg := l.clone()
	unlock()

	return Logger{
		config: cfg,
		Logger: slog.New(l.Logger.Handler().WithAttrs(attrs)),
	}
}

// Level returns the current minimum log level.
func (l Logger) Level() Level {
	if l.Logger == nil {
		return DefaultLevel
	}

	defer l.rlock()()

	return l.level
}

// Format returns the current log output format.
func (l Logger) Format() Format {
	if l.Logger == nil {
		return DefaultFormat
	}

	defer l.rlock()()

	return l.format
}

// TraceContext logs a message at Trace level with the provided context.
func (l Logger) TraceContext(
	ctx context.Context,
	msg string,
	attrs ...slog.Attr,
) {
	l.emit(ctx, LevelTrace, msg, attrs...)
}

// Trace logs a message at Trace level.
func (l Logger) Trace(msg string, attrs ...slog.Attr) {
	l.TraceContext(DefaultContextProvider(), msg, attrs...)
}

// DebugContext logs a message at Debug level with the provided context.
func (l Logger) DebugContext(
	ctx context.Context,
	msg string,
	attrs ...slog.Attr,
) {
	l.emit(ctx, LevelDebug, msg, attrs...)
}

// Debug logs a message at Debug level.
func (l Logger) Debug(msg string, attrs ...slog.Attr) {
	l.DebugContext(DefaultContextProvider(), msg, attrs...)
}

// InfoContext logs a message at Info level with the provided context.
func (l Logger) InfoContext(
	ctx context.Context,
	msg string,
	attrs ...slog.Attr,
) {
	l.emit(ctx, LevelInfo, msg, attrs...)
}

// Info logs a message at Info level.
func (l Logger) Info(msg string, attrs ...slog.Attr) {
	l.InfoContext(DefaultContextProvider(), msg, attrs...)
}

// WarnContext logs a message at Warn level with the provided context.
func (l Logger) WarnContext(
	ctx context.Context,
	msg string,
	attrs ...slog.Attr,
) {
	l.emit(ctx, LevelWarn, msg, attrs...)
}

// Warn logs a message at Warn level.
func (l Logger) Warn(msg string, attrs ...slog.Attr) {
	l.WarnContext(DefaultContextProvider(), msg, attrs...)
}

// ErrorContext logs a message at Error level with the provided context.
func (l Logger) ErrorContext(
	ctx context.Context,
	msg string,
	attrs ...slog.Attr,
) {
	l.emit(ctx, LevelError, msg, attrs...)
}

// Error logs a message at Error level.
func (l Logger) Error(msg string, attrs ...slog.Attr) {
	l.ErrorContext(DefaultContextProvider(), msg, attrs...)
}

// rlock acquires the config read lock and returns the release func.
// A zero-value Logger never allocated a mutex; its config is also never
// mutated, so there is nothing to release.
func (l Logger) rlock() func() {
	if l.mutex == nil {
		return func() {}
	}

	l.mutex.RLock()

	return l.mutex.RUnlock
}

// emit writes one record at the given level.
//
// slog.Logger pins the caller PC at its own call site, which would
// report this file for every record. Building the record manually with
// runtime.Callers lets the skip count (Callers, emit, the *Context
// method, its non-Context or package-level wrapper) land on the real
// call site instead.
func (l Logger) emit(
	ctx context.Context,
	level Level,
	msg string,
	attrs ...slog.Attr,
) {
	if l.Logger == nil {
		return
	}

	defer l.rlock()()

	if !l.Enabled(ctx, slog.Level(level)) {
		return
	}

	var pcs [1]uintptr

	runtime.Callers(4, pcs[:])

	r := slog.NewRecord(time.Now(), slog.Level(level), msg, pcs[0])
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}
