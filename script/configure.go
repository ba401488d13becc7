package script

import (
	"log/slog"

	"go.starlark.net/starlark"

	"github.com/ardnew/autoconfig/confdata"
	"github.com/ardnew/autoconfig/configure"
)

// configuration_data(dict=None)
func configurationData(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var entries *starlark.Dict

	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "dict?", &entries); err != nil {
		return nil, err
	}

	d := confdata.New(confdata.WithAllowFreeze(contextOf(thread).AllowFreeze))

	if entries != nil {
		for _, item := range entries.Items() {
			key, ok := starlark.AsString(item[0])
			if !ok {
				return nil, confdata.ErrInvalidKey.Wrapf("got %s, want string", item[0].Type())
			}

			if err := d.Set(key, confdata.FromStarlark(item[1]), ""); err != nil {
				return nil, err
			}
		}
	}

	return d, nil
}

// configure_file(input=, output=, configuration=)
func configureFile(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	c := contextOf(thread)

	var (
		input, output = c.Input, c.Output
		conf          starlark.Value
	)

	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"input?", &input,
		"output?", &output,
		"configuration", &conf,
	); err != nil {
		return nil, err
	}

	if input == "" || output == "" {
		return nil, ErrInvalidArgument.Wrapf("%s: input and output are required", b.Name())
	}

	var snap confdata.Snapshot

	switch conf := conf.(type) {
	case *confdata.Data:
		snap = conf.Snapshot()

	case *starlark.Dict:
		v, err := configurationData(thread, b, starlark.Tuple{conf}, nil)
		if err != nil {
			return nil, err
		}

		snap = v.(*confdata.Data).Snapshot() //nolint:forcetypeassert

	default:
		return nil, ErrInvalidArgument.Wrapf("%s: configuration must be %s or dict, got %s",
			b.Name(), confdata.TypeName, conf.Type())
	}

	ctx := c.runContext()

	if err := configure.RenderFile(ctx, input, output, snap,
		configure.WithLogger(c.Logger)); err != nil {
		return nil, err
	}

	c.Logger.InfoContext(ctx, "configured file",
		slog.String("input", input),
		slog.String("output", output),
		slog.Int("keys", snap.Len()))

	return starlark.None, nil
}
