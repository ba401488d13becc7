package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/autoconfig/log"
	"github.com/ardnew/autoconfig/translate"
)

// Translate prints the embedded-dialect translation of a legacy script.
type Translate struct {
	Source string `arg:"" default:"meson.build" help:"Legacy build script, or '-' for stdin." optional:""`
}

// Run executes the translate command.
func (t *Translate) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	file := slog.String("file", t.Source)

	src, err := readSource(t.Source)
	if err != nil {
		return ErrReadScript.With(file).Wrap(err)
	}

	text, err := translate.Source(ctx, src, translate.WithLogger(log.Default()))
	if err != nil {
		var terr *translate.Error
		if errors.As(err, &terr) && terr.Source != "" {
			fmt.Fprintln(stderr(ctx), terr.Snippet())
		}

		return ErrTranslate.With(file).Wrap(err)
	}

	if _, err := io.WriteString(stdout(ctx), text); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
