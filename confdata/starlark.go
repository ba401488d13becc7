package confdata

import (
	"fmt"
	"sort"
	"strings"

	"go.starlark.net/starlark"
)

// TypeName is the Starlark type of a [Data].
const TypeName = "configuration_data"

var (
	_ starlark.HasSetKey = (*Data)(nil)
	_ starlark.Sequence  = (*Data)(nil)
	_ starlark.HasAttrs  = (*Data)(nil)
)

// methods are the Starlark methods of a [Data].
//
//nolint:gochecknoglobals
var methods = map[string]*starlark.Builtin{
	"set":          starlark.NewBuiltin("set", dataSet),
	"set10":        starlark.NewBuiltin("set10", dataSet10),
	"set_quoted":   starlark.NewBuiltin("set_quoted", dataSetQuoted),
	"get":          starlark.NewBuiltin("get", dataGet),
	"get_unquoted": starlark.NewBuiltin("get_unquoted", dataGetUnquoted),
	"has":          starlark.NewBuiltin("has", dataHas),
	"keys":         starlark.NewBuiltin("keys", dataKeys),
	"merge_from":   starlark.NewBuiltin("merge_from", dataMergeFrom),
}

// String implements starlark.Value.
func (d *Data) String() string {
	var sb strings.Builder

	sb.WriteString(TypeName + "({")

	for i, k := range d.keys {
		if i > 0 {
			sb.WriteString(", ")
		}

		fmt.Fprintf(&sb, "%s: %s", starlark.String(k), ToStarlark(d.entries[k].Value))
	}

	sb.WriteString("})")

	return sb.String()
}

// Type implements starlark.Value.
func (d *Data) Type() string { return TypeName }

// Freeze implements starlark.Value. It freezes d only when freezing is
// enabled and no borrow is outstanding; otherwise d stays mutable.
func (d *Data) Freeze() {
	if d.TryFreeze() != nil {
		return
	}

	for _, e := range d.entries {
		if v, ok := e.Value.(starlark.Value); ok {
			v.Freeze()
		}
	}
}

// Truth implements starlark.Value.
func (d *Data) Truth() starlark.Bool { return len(d.keys) > 0 }

// Hash implements starlark.Value.
func (d *Data) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: %s", TypeName)
}

// Iterate implements starlark.Iterable. The iterator holds a shared borrow
// until Done is called.
func (d *Data) Iterate() starlark.Iterator {
	release, err := d.borrow()
	if err != nil {
		return &iterator{}
	}

	return &iterator{keys: d.keys, release: release}
}

// Get implements starlark.Mapping.
func (d *Data) Get(k starlark.Value) (starlark.Value, bool, error) {
	key, ok := k.(starlark.String)
	if !ok {
		return nil, false, ErrInvalidKey.Wrapf("got %s, want string", k.Type())
	}

	e, found := d.Lookup(string(key))
	if !found {
		return nil, false, nil
	}

	return ToStarlark(e.Value), true, nil
}

// SetKey implements starlark.HasSetKey.
func (d *Data) SetKey(k, v starlark.Value) error {
	key, ok := k.(starlark.String)
	if !ok {
		return ErrInvalidKey.Wrapf("got %s, want string", k.Type())
	}

	return d.Set(string(key), FromStarlark(v), "")
}

// Attr implements starlark.HasAttrs.
func (d *Data) Attr(name string) (starlark.Value, error) {
	b, ok := methods[name]
	if !ok {
		return nil, nil
	}

	return b.BindReceiver(d), nil
}

// AttrNames implements starlark.HasAttrs.
func (d *Data) AttrNames() []string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

type iterator struct {
	keys    []string
	i       int
	release func()
}

func (it *iterator) Next(p *starlark.Value) bool {
	if it.i >= len(it.keys) {
		return false
	}

	*p = starlark.String(it.keys[it.i])
	it.i++

	return true
}

func (it *iterator) Done() {
	if it.release != nil {
		it.release()
		it.release = nil
	}
}

// FromStarlark converts a Starlark value to an [Entry] value: strings, ints
// that fit in int64, and bools become their Go equivalents; anything else
// is kept as is.
func FromStarlark(v starlark.Value) any {
	switch v := v.(type) {
	case starlark.String:
		return string(v)

	case starlark.Bool:
		return bool(v)

	case starlark.Int:
		if i, ok := v.Int64(); ok {
			return i
		}

		return v

	default:
		return v
	}
}

// ToStarlark converts an [Entry] value to a Starlark value.
func ToStarlark(x any) starlark.Value {
	switch x := x.(type) {
	case starlark.Value:
		return x
	case string:
		return starlark.String(x)
	case bool:
		return starlark.Bool(x)
	case int64:
		return starlark.MakeInt64(x)
	case int:
		return starlark.MakeInt(x)
	default:
		return starlark.None
	}
}

func receiver(b *starlark.Builtin) *Data {
	return b.Receiver().(*Data) //nolint:forcetypeassert
}

// set(key, value, description="")
func dataSet(
	_ *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var (
		key, desc string
		value     starlark.Value
	)

	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"key", &key, "value", &value, "description?", &desc); err != nil {
		return nil, err
	}

	return starlark.None, receiver(b).Set(key, FromStarlark(value), desc)
}

// set10(key, value, description="") stores 1 or 0 by the truth of value.
func dataSet10(
	_ *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var (
		key, desc string
		value     starlark.Value
	)

	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"key", &key, "value", &value, "description?", &desc); err != nil {
		return nil, err
	}

	return starlark.None, receiver(b).Set(key, int64(btoi(bool(value.Truth()))), desc)
}

//nolint:gochecknoglobals
var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// set_quoted(key, value, description="") stores value as a C string literal.
func dataSetQuoted(
	_ *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var key, value, desc string

	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"key", &key, "value", &value, "description?", &desc); err != nil {
		return nil, err
	}

	return starlark.None, receiver(b).Set(key, `"`+quoteEscaper.Replace(value)+`"`, desc)
}

// get(key, default=<none>)
func dataGet(
	_ *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var (
		key  string
		dflt starlark.Value
	)

	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"key", &key, "default?", &dflt); err != nil {
		return nil, err
	}

	if e, ok := receiver(b).Lookup(key); ok {
		return ToStarlark(e.Value), nil
	}

	if dflt != nil {
		return dflt, nil
	}

	return nil, ErrKeyNotFound.Wrapf("%q", key)
}

// get_unquoted(key, default=<none>) is get with surrounding double quotes
// removed from string values.
func dataGetUnquoted(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	v, err := dataGet(thread, b, args, kwargs)
	if err != nil {
		return nil, err
	}

	if s, ok := v.(starlark.String); ok && len(s) >= 2 &&
		strings.HasPrefix(string(s), `"`) && strings.HasSuffix(string(s), `"`) {
		return s[1 : len(s)-1], nil
	}

	return v, nil
}

// has(key)
func dataHas(
	_ *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var key string

	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &key); err != nil {
		return nil, err
	}

	return starlark.Bool(receiver(b).Has(key)), nil
}

// keys()
func dataKeys(
	_ *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}

	keys := receiver(b).Keys()
	elems := make([]starlark.Value, len(keys))

	for i, k := range keys {
		elems[i] = starlark.String(k)
	}

	return starlark.NewList(elems), nil
}

// merge_from(other)
func dataMergeFrom(
	_ *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var other *Data

	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &other); err != nil {
		return nil, err
	}

	return starlark.None, receiver(b).MergeFrom(other)
}

func btoi(b bool) int {
	if b {
		return 1
	}

	return 0
}
