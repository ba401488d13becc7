package meson

import (
	"log/slog"

	"github.com/ardnew/autoconfig/pkg"
)

// ErrSyntax is returned for any input the parser cannot recognize.
var ErrSyntax = pkg.NewError("syntax error")

func syntaxError(at Point, format string, args ...any) *pkg.Error {
	return ErrSyntax.
		With(slog.Int("line", at.Line), slog.Int("column", at.Column)).
		Wrapf("%s: "+format, append([]any{at}, args...)...)
}
