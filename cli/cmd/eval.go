package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ardnew/autoconfig/log"
	"github.com/ardnew/autoconfig/script"
	"github.com/ardnew/autoconfig/translate"
)

// Eval evaluates a build script.
type Eval struct {
	Script string `arg:"" help:"Build script to evaluate." optional:"" type:"path"`
	Config string `       help:"Build script to evaluate."                  type:"path" short:"c" placeholder:"SCRIPT"`
	Legacy bool   `       help:"Translate the script from the legacy dialect regardless of its name."`
	Input  string `       help:"Template used when configure_file() names no input."   type:"path" placeholder:"FILE"`
	Output string `       help:"Header written when configure_file() names no output." type:"path" placeholder:"FILE"`
}

// path returns the script to evaluate; the positional argument wins.
func (e *Eval) path() string {
	if e.Script != "" {
		return e.Script
	}

	return e.Config
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context, s *Settings) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	path := e.path()
	if path == "" {
		return ErrNoScript
	}

	src, err := readSource(path)
	if err != nil {
		return ErrReadScript.With(slog.String("file", path)).Wrap(err)
	}

	logger := log.Default()

	c, err := s.scriptContext(logger, cacheDirFrom(ctx))
	if err != nil {
		return err
	}

	c.Input, c.Output = e.Input, e.Output

	globals, err := script.Run(ctx, c, path, src, script.WithLegacy(e.Legacy))
	if err != nil {
		var terr *translate.Error
		if errors.As(err, &terr) && terr.Source != "" {
			fmt.Fprintln(stderr(ctx), terr.Snippet())
		}

		return err
	}

	log.DebugContext(ctx, "evaluation complete",
		slog.String("file", path),
		slog.Int("globals", len(globals)),
	)

	return nil
}

// cacheDirFrom returns the cache directory kong was configured with.
func cacheDirFrom(ctx context.Context) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	return ktx.Model.Vars()[CacheIdentifier]
}
