// Package log provides a concurrency-safe structured logging interface
// based on [log/slog], extended with a Trace level below Debug.
//
// Loggers are configured at creation time with functional options
// covering output destination, format, minimum level, time layout,
// caller information, and pretty printing.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("reading sources", slog.Int("count", len(paths)))
//	logger.Error("evaluation failed", slog.Any("error", err))
//
// The zero value of [Logger] is valid and discards every record, so a
// Logger field never needs a nil check.
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a new logger from an existing one with further
// options applied over its configuration.
//
// # Adding Attributes
//
// Attributes added with [Logger.With] are included in every subsequent
// record:
//
//	logger = logger.With(slog.String("component", "parser"))
//	logger.Debug("token stream open") // includes component=parser
//
// # Context-Aware Logging
//
// Each level has a context-aware and a context-unaware variant:
//
//	logger.InfoContext(ctx, "cache cleared")
//	logger.Info("cache cleared") // uses DefaultContextProvider
//
// Context-unaware functions call their context-aware counterparts with
// the context returned by [DefaultContextProvider], which is
// [context.TODO] unless reassigned.
//
// # Levels
//
// Five levels are defined: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Records below the configured level are
// discarded. [ParseLevel] and [ParseFormat] convert the command-line
// spellings.
//
// # Package-Level Logger
//
// The package-level functions ([Trace], [Debug], [Info], [Warn],
// [Error], and their Context variants) write through a process-wide
// default logger, reconfigured with [Config].
package log
