package script

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ardnew/autoconfig/translate"
)

// LegacyFilename is the name of a script that is translated before
// evaluation.
const LegacyFilename = "meson.build"

// RunOption configures [Run].
type RunOption func(*runConfig)

type runConfig struct {
	legacy   bool
	globals  starlark.StringDict
	platform *Platform
}

// WithLegacy forces translation of the script regardless of its name.
func WithLegacy(legacy bool) RunOption {
	return func(c *runConfig) { c.legacy = legacy }
}

// WithPlatform sets the machine described by host_machine and
// build_machine.
func WithPlatform(p Platform) RunOption {
	return func(c *runConfig) { c.platform = &p }
}

// WithGlobals adds predeclared names, replacing builtins of the same name.
func WithGlobals(globals starlark.StringDict) RunOption {
	return func(c *runConfig) { c.globals = globals }
}

// IsLegacy reports whether filename names a legacy build script.
func IsLegacy(filename string) bool {
	return filepath.Base(filename) == LegacyFilename
}

// FileOptions are the dialect options scripts are evaluated with.
func FileOptions() *syntax.FileOptions {
	return &syntax.FileOptions{
		Set:             true,
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
		Recursion:       true,
	}
}

// Run evaluates src, translating it first when it is a legacy script, with
// c attached to the evaluating thread. It returns the script's globals.
func Run(
	ctx context.Context,
	c *Context,
	filename string,
	src []byte,
	opts ...RunOption,
) (starlark.StringDict, error) {
	var cfg runConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	if c == nil {
		c = &Context{}
	}

	logger := c.Logger.Component("script")

	if cfg.legacy || IsLegacy(filename) {
		text, err := translate.Source(ctx, src, translate.WithLogger(logger))
		if err != nil {
			return nil, err
		}

		logger.TraceContext(ctx, "translated legacy script",
			slog.String("file", filename), slog.String("source", text))

		src = []byte(text)
	}

	predeclared := Globals()
	if cfg.platform != nil {
		predeclared = GlobalsFor(*cfg.platform)
	}

	for name, v := range cfg.globals {
		predeclared[name] = v
	}

	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			logger.InfoContext(ctx, msg, slog.String("source", "print"))
		},
	}

	c.attach(ctx, thread)

	globals, err := starlark.ExecFileOptions(FileOptions(), thread, filename, src, predeclared)
	if err != nil {
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			logger.DebugContext(ctx, "backtrace", slog.String("trace", evalErr.Backtrace()))
		}

		return nil, ErrEval.With(slog.String("file", filename)).Wrap(err)
	}

	logger.DebugContext(ctx, "evaluated script",
		slog.String("file", filename), slog.Int("globals", len(globals)))

	return globals, nil
}
