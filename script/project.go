package script

import (
	"log/slog"
	"strings"

	"go.starlark.net/starlark"
)

// Project is the project declared by a script's project() call.
type Project struct {
	Name      string
	Version   string
	Languages []string
}

// ProjectOf returns the project recorded on thread.
func ProjectOf(thread *starlark.Thread) (*Project, error) {
	if p, ok := thread.Local(projectKey).(*Project); ok {
		return p, nil
	}

	return nil, ErrNoProject
}

// project(name, *languages, version="", license="", default_options=[],
// meson_version="")
func project(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	if _, err := ProjectOf(thread); err == nil {
		return nil, ErrProjectRedefined
	}

	if len(args) == 0 {
		return nil, ErrInvalidArgument.Wrapf("%s: missing project name", b.Name())
	}

	name, ok := starlark.AsString(args[0])
	if !ok {
		return nil, ErrInvalidArgument.Wrapf("%s: project name must be a string, got %s",
			b.Name(), args[0].Type())
	}

	languages, err := stringsOf(b.Name(), args[1:])
	if err != nil {
		return nil, err
	}

	var (
		version, license, mesonVersion string
		defaults                       starlark.Value = starlark.NewList(nil)
	)

	if err := starlark.UnpackArgs(b.Name(), nil, kwargs,
		"version?", &version,
		"license?", &license,
		"default_options?", &defaults,
		"meson_version?", &mesonVersion,
	); err != nil {
		return nil, err
	}

	c := contextOf(thread)

	opts, err := stringsOf(b.Name(), starlark.Tuple{defaults})
	if err != nil {
		return nil, err
	}

	for _, opt := range opts {
		key, value, err := ParseOption(opt)
		if err != nil {
			return nil, err
		}

		if _, set := c.Options[key]; !set {
			if c.Options == nil {
				c.Options = make(map[string]any)
			}

			c.Options[key] = value
		}
	}

	p := &Project{Name: name, Version: version, Languages: languages}
	thread.SetLocal(projectKey, p)

	c.Logger.DebugContext(c.runContext(), "project",
		slog.String("name", p.Name),
		slog.String("version", p.Version),
		slog.String("languages", strings.Join(p.Languages, ",")))

	return starlark.None, nil
}

// stringsOf flattens strings and lists of strings.
func stringsOf(fn string, values starlark.Tuple) ([]string, error) {
	var out []string

	for _, v := range values {
		switch v := v.(type) {
		case starlark.String:
			out = append(out, string(v))

		case *starlark.List, starlark.Tuple:
			iter := starlark.Iterate(v)

			var elem starlark.Value

			for iter.Next(&elem) {
				s, ok := starlark.AsString(elem)
				if !ok {
					iter.Done()

					return nil, ErrInvalidArgument.Wrapf(
						"%s supports list of strings, or string; got list of %s",
						fn, elem.Type())
				}

				out = append(out, s)
			}

			iter.Done()

		default:
			return nil, ErrInvalidArgument.Wrapf(
				"%s supports list of strings, or string; got %s", fn, v.Type())
		}
	}

	return out, nil
}
