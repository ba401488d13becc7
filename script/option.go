package script

import (
	"fmt"
	"sort"
	"strings"

	"github.com/expr-lang/expr"
	"go.starlark.net/starlark"
)

// ParseOption splits a "NAME=VALUE" option. VALUE is evaluated as an
// expression, so "true", "42", and `["a", "b"]` become a bool, an int, and a
// list; anything that does not evaluate is kept as a plain string.
func ParseOption(s string) (name string, value any, err error) {
	name, raw, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)

	if !ok || name == "" {
		return "", nil, ErrInvalidOption.Wrapf("%q: expected NAME=VALUE", s)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return name, "", nil
	}

	v, err := expr.Eval(raw, nil)
	if err != nil || v == nil {
		return name, raw, nil
	}

	return name, v, nil
}

// ParseOptions parses each "NAME=VALUE" in opts. Later values win.
func ParseOptions(opts []string) (map[string]any, error) {
	out := make(map[string]any, len(opts))

	for _, opt := range opts {
		name, value, err := ParseOption(opt)
		if err != nil {
			return nil, err
		}

		out[name] = value
	}

	return out, nil
}

// get_option(name, ty="")
func getOption(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var name, ty string

	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"name", &name, "ty?", &ty); err != nil {
		return nil, err
	}

	c := contextOf(thread)

	value, ok := c.Options[name]
	if !ok {
		return zeroOption(ty)
	}

	v, err := toStarlark(value)
	if err != nil {
		return nil, ErrInvalidOption.Wrapf("%s: %w", name, err)
	}

	switch ty {
	case "str":
		if s, ok := v.(starlark.String); ok {
			return s, nil
		}

		return starlark.String(v.String()), nil

	case "bool":
		return v.Truth(), nil

	case "array":
		if _, ok := v.(*starlark.List); !ok {
			return starlark.NewList([]starlark.Value{v}), nil
		}
	}

	return v, nil
}

func zeroOption(ty string) (starlark.Value, error) {
	switch ty {
	case "", "str":
		return starlark.String(""), nil
	case "bool":
		return starlark.False, nil
	case "int":
		return starlark.MakeInt(0), nil
	case "array":
		return starlark.NewList(nil), nil
	default:
		return nil, ErrInvalidOption.Wrapf("unknown option type %q", ty)
	}
}

// toStarlark converts a Go value produced by [ParseOption] to Starlark.
func toStarlark(v any) (starlark.Value, error) {
	switch v := v.(type) {
	case nil:
		return starlark.None, nil
	case starlark.Value:
		return v, nil
	case bool:
		return starlark.Bool(v), nil
	case string:
		return starlark.String(v), nil
	case int:
		return starlark.MakeInt(v), nil
	case int64:
		return starlark.MakeInt64(v), nil
	case uint64:
		return starlark.MakeUint64(v), nil
	case float64:
		return starlark.Float(v), nil

	case []any:
		elems := make([]starlark.Value, len(v))

		for i, e := range v {
			sv, err := toStarlark(e)
			if err != nil {
				return nil, err
			}

			elems[i] = sv
		}

		return starlark.NewList(elems), nil

	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		d := starlark.NewDict(len(v))

		for _, k := range keys {
			sv, err := toStarlark(v[k])
			if err != nil {
				return nil, err
			}

			if err := d.SetKey(starlark.String(k), sv); err != nil {
				return nil, err
			}
		}

		return d, nil

	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}
