// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are configured at creation time with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// Subsystems tag their messages with [Logger.Component] and pass loggers
// around either explicitly or through a context with [IntoContext] and
// [FromContext]. The zero [Logger] discards everything.
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Trace is used for per-node and per-probe
// detail. Output is either [FormatText] or [FormatJSON]; with [WithPretty]
// both are styled with lipgloss when written to a terminal.
package log
