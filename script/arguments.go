package script

import (
	"log/slog"
	"os"
	"strings"

	"go.starlark.net/starlark"
)

const argsLogMode = 0o644

// add_project_arguments(*args, language="", native=False)
//
// Each string argument, and each string of a list argument, is appended to
// the arguments log followed by a space.
func addProjectArguments(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var (
		language starlark.Value = starlark.None
		native   bool
	)

	if err := starlark.UnpackArgs(b.Name(), nil, kwargs,
		"language?", &language, "native?", &native); err != nil {
		return nil, err
	}

	values, err := stringsOf(b.Name(), args)
	if err != nil {
		return nil, err
	}

	c := contextOf(thread)
	path := c.argsLog()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, argsLogMode)
	if err != nil {
		return nil, ErrWriteArguments.With(slog.String("file", path)).Wrap(err)
	}
	defer f.Close()

	var sb strings.Builder

	for _, v := range values {
		sb.WriteString(v + " ")
	}

	if _, err := f.WriteString(sb.String()); err != nil {
		return nil, ErrWriteArguments.With(slog.String("file", path)).Wrap(err)
	}

	c.Logger.TraceContext(c.runContext(), "project arguments",
		slog.String("file", path), slog.Any("args", values))

	return starlark.None, nil
}
