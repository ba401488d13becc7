package script

import (
	"log/slog"
	"maps"
	"slices"
	"strings"

	"go.starlark.net/starlark"

	"github.com/ardnew/autoconfig/manifest"
	"github.com/ardnew/autoconfig/toolchain"
)

// Compiler is the Starlark value returned by autoconfig.get_compiler.
type Compiler struct {
	prober *toolchain.Prober
}

var _ starlark.HasAttrs = Compiler{}

// NewCompiler returns the Starlark value for p.
func NewCompiler(p *toolchain.Prober) Compiler { return Compiler{prober: p} }

func (c Compiler) String() string {
	return "<compiler " + c.prober.Compiler().String() + ">"
}

func (c Compiler) Type() string          { return "compiler" }
func (c Compiler) Freeze()               {}
func (c Compiler) Truth() starlark.Bool  { return true }
func (c Compiler) Hash() (uint32, error) { return starlark.String(c.String()).Hash() }

//nolint:gochecknoglobals
var compilerMethods = map[string]*starlark.Builtin{
	"compiles":                starlark.NewBuiltin("compiles", compilerCompiles),
	"links":                   starlark.NewBuiltin("links", compilerLinks),
	"has_type":                starlark.NewBuiltin("has_type", compilerHasType),
	"has_header":              starlark.NewBuiltin("has_header", compilerHasHeader),
	"has_header_symbol":       starlark.NewBuiltin("has_header_symbol", compilerHasHeaderSymbol),
	"has_member":              starlark.NewBuiltin("has_member", compilerHasMember),
	"has_function":            starlark.NewBuiltin("has_function", compilerHasFunction),
	"sizeof":                  starlark.NewBuiltin("sizeof", compilerSizeof),
	"get_supported_arguments": starlark.NewBuiltin("get_supported_arguments", compilerSupportedArguments),
	"has_argument":            starlark.NewBuiltin("has_argument", compilerHasArgument),
	"find_library":            starlark.NewBuiltin("find_library", compilerFindLibrary),
	"get_id":                  starlark.NewBuiltin("get_id", compilerID),
	"get_language":            starlark.NewBuiltin("get_language", compilerLanguage),
}

func (c Compiler) Attr(name string) (starlark.Value, error) {
	if b, ok := compilerMethods[name]; ok {
		return b.BindReceiver(c), nil
	}

	return nil, nil
}

func (c Compiler) AttrNames() []string {
	return slices.Sorted(maps.Keys(compilerMethods))
}

func compilerOf(b *starlark.Builtin) *toolchain.Prober {
	return b.Receiver().(Compiler).prober //nolint:forcetypeassert
}

// probeOptions are the keyword arguments shared by the probe methods.
type probeOptions struct {
	prefix       starlark.Value
	args         starlark.Value
	dependencies starlark.Value
	includes     starlark.Value
	name         string
	required     starlark.Value
	unmet        []string
}

func newProbeOptions() *probeOptions {
	return &probeOptions{
		prefix:       starlark.None,
		args:         starlark.None,
		dependencies: starlark.None,
		includes:     starlark.None,
		required:     starlark.False,
	}
}

// unpack parses args and kwargs: the positional parameters named by pairs
// followed by the shared keywords.
func (o *probeOptions) unpack(
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
	pairs ...any,
) error {
	pairs = append(pairs,
		"prefix?", &o.prefix,
		"args?", &o.args,
		"dependencies?", &o.dependencies,
		"include_directories?", &o.includes,
		"name?", &o.name,
		"required?", &o.required,
	)

	return starlark.UnpackArgs(b.Name(), args, kwargs, pairs...)
}

// resolve returns the prefix text and compiler arguments.
func (o *probeOptions) resolve(fn string) (prefix string, args []string, err error) {
	if o.prefix != starlark.None {
		lines, err := stringsOf(fn, starlark.Tuple{o.prefix})
		if err != nil {
			return "", nil, err
		}

		prefix = strings.Join(lines, "\n")
	}

	if o.includes != starlark.None {
		dirs, err := stringsOf(fn, starlark.Tuple{o.includes})
		if err != nil {
			return "", nil, err
		}

		for _, dir := range dirs {
			args = append(args, "-I"+dir)
		}
	}

	if o.dependencies != starlark.None {
		if o.unmet, err = unmetDependencies(fn, o.dependencies); err != nil {
			return "", nil, err
		}
	}

	if o.args != starlark.None {
		extra, err := stringsOf(fn, starlark.Tuple{o.args})
		if err != nil {
			return "", nil, err
		}

		args = append(args, extra...)
	}

	return prefix, args, nil
}

// unmetDependencies returns the names of the dependencies in v, a
// dependency or a list of them, that were not found.
func unmetDependencies(fn string, v starlark.Value) ([]string, error) {
	deps := []starlark.Value{v}

	if l, ok := v.(*starlark.List); ok {
		deps = deps[:0]
		for i := range l.Len() {
			deps = append(deps, l.Index(i))
		}
	}

	var unmet []string

	for _, x := range deps {
		d, ok := x.(*Dependency)
		if !ok {
			return nil, ErrInvalidArgument.Wrapf("%s: dependencies: got %s, want dependency", fn, x.Type())
		}

		if !d.Found() {
			unmet = append(unmet, d.Name())
		}
	}

	return unmet, nil
}

// result applies required= to a boolean probe result.
func (o *probeOptions) result(
	thread *starlark.Thread,
	fn, subject string,
	ok bool,
) (starlark.Value, error) {
	c := contextOf(thread)

	attrs := []slog.Attr{slog.String("check", fn), slog.String("subject", subject), slog.Bool("result", ok)}
	if o.name != "" {
		attrs = append(attrs, slog.String("name", o.name))
	}

	if ok && len(o.unmet) > 0 {
		ok = false

		attrs = append(attrs, slog.Any("unmet", o.unmet))
	}

	c.Logger.DebugContext(c.runContext(), "compiler check", attrs...)

	if !ok && bool(o.required.Truth()) {
		return nil, ErrRequired.Wrapf("%s(%q)", fn, subject)
	}

	return starlark.Bool(ok), nil
}

// compiles(code, args=, name=, dependencies=, include_directories=)
func compilerCompiles(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var code string

	o := newProbeOptions()
	if err := o.unpack(b, args, kwargs, "code", &code); err != nil {
		return nil, err
	}

	_, cargs, err := o.resolve(b.Name())
	if err != nil {
		return nil, err
	}

	ok := compilerOf(b).Compiles(contextOf(thread).runContext(), code, cargs...)

	return o.result(thread, b.Name(), o.name, ok)
}

// links(code, args=, name=, dependencies=, include_directories=)
func compilerLinks(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var code string

	o := newProbeOptions()
	if err := o.unpack(b, args, kwargs, "code", &code); err != nil {
		return nil, err
	}

	_, cargs, err := o.resolve(b.Name())
	if err != nil {
		return nil, err
	}

	ok := compilerOf(b).Links(contextOf(thread).runContext(), code, cargs...)

	return o.result(thread, b.Name(), o.name, ok)
}

// has_type(sym, prefix=, args=)
func compilerHasType(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var sym string

	o := newProbeOptions()
	if err := o.unpack(b, args, kwargs, "typename", &sym); err != nil {
		return nil, err
	}

	prefix, cargs, err := o.resolve(b.Name())
	if err != nil {
		return nil, err
	}

	ok := compilerOf(b).HasType(contextOf(thread).runContext(), sym, prefix, cargs...)

	return o.result(thread, b.Name(), sym, ok)
}

// has_header(header, prefix=, args=, required=)
func compilerHasHeader(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var header string

	o := newProbeOptions()
	if err := o.unpack(b, args, kwargs, "header", &header); err != nil {
		return nil, err
	}

	prefix, cargs, err := o.resolve(b.Name())
	if err != nil {
		return nil, err
	}

	ok := compilerOf(b).HasHeader(contextOf(thread).runContext(), header, prefix, cargs...)

	return o.result(thread, b.Name(), header, ok)
}

// has_header_symbol(header, symbol, prefix=, args=, required=)
func compilerHasHeaderSymbol(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var header, sym string

	o := newProbeOptions()
	if err := o.unpack(b, args, kwargs, "header", &header, "symbol", &sym); err != nil {
		return nil, err
	}

	prefix, cargs, err := o.resolve(b.Name())
	if err != nil {
		return nil, err
	}

	ok := compilerOf(b).HasHeaderSymbol(contextOf(thread).runContext(),
		header, sym, prefix, cargs...)

	return o.result(thread, b.Name(), header+":"+sym, ok)
}

// has_member(typename, membername, prefix=, args=)
func compilerHasMember(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var typ, member string

	o := newProbeOptions()
	if err := o.unpack(b, args, kwargs, "typename", &typ, "membername", &member); err != nil {
		return nil, err
	}

	prefix, cargs, err := o.resolve(b.Name())
	if err != nil {
		return nil, err
	}

	ok := compilerOf(b).HasMember(contextOf(thread).runContext(), typ, member, prefix, cargs...)

	return o.result(thread, b.Name(), typ+"."+member, ok)
}

// has_function(funcname, prefix=, args=, dependencies=)
func compilerHasFunction(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var fn string

	o := newProbeOptions()
	if err := o.unpack(b, args, kwargs, "funcname", &fn); err != nil {
		return nil, err
	}

	prefix, cargs, err := o.resolve(b.Name())
	if err != nil {
		return nil, err
	}

	ok := compilerOf(b).HasFunction(contextOf(thread).runContext(), fn, prefix, cargs...)

	return o.result(thread, b.Name(), fn, ok)
}

// sizeof(typename, prefix=, args=)
func compilerSizeof(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var sym string

	o := newProbeOptions()
	if err := o.unpack(b, args, kwargs, "typename", &sym); err != nil {
		return nil, err
	}

	prefix, cargs, err := o.resolve(b.Name())
	if err != nil {
		return nil, err
	}

	size, err := compilerOf(b).Sizeof(contextOf(thread).runContext(), sym, prefix, cargs...)
	if err != nil {
		return nil, err
	}

	return starlark.MakeInt(size), nil
}

// get_supported_arguments(*flags)
func compilerSupportedArguments(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var checked string

	if err := starlark.UnpackArgs(b.Name(), nil, kwargs, "checked?", &checked); err != nil {
		return nil, err
	}

	flags, err := stringsOf(b.Name(), args)
	if err != nil {
		return nil, err
	}

	supported := compilerOf(b).SupportedArguments(contextOf(thread).runContext(), flags...)

	if checked == "require" && len(supported) != len(flags) {
		return nil, ErrRequired.Wrapf("%s: unsupported arguments in %v", b.Name(), flags)
	}

	elems := make([]starlark.Value, len(supported))
	for i, flag := range supported {
		elems[i] = starlark.String(flag)
	}

	return starlark.NewList(elems), nil
}

// has_argument(flag)
func compilerHasArgument(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var flag string

	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &flag); err != nil {
		return nil, err
	}

	supported := compilerOf(b).SupportedArguments(contextOf(thread).runContext(), flag)

	return starlark.Bool(len(supported) == 1), nil
}

// find_library(name, dirs=[], required=False) returns a dependency that is
// found when the library links.
func compilerFindLibrary(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var (
		name     string
		dirs     starlark.Value = starlark.NewList(nil)
		required starlark.Value = starlark.False
	)

	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"name", &name, "dirs?", &dirs, "required?", &required); err != nil {
		return nil, err
	}

	paths, err := stringsOf(b.Name(), starlark.Tuple{dirs})
	if err != nil {
		return nil, err
	}

	ok := compilerOf(b).FindLibrary(contextOf(thread).runContext(), name, paths...)
	if !ok && bool(required.Truth()) {
		return nil, manifest.ErrMissingDependency.Wrapf("library %s", name)
	}

	return NewDependency(name, ok, nil), nil
}

// get_id()
func compilerID(
	_ *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}

	return starlark.String(compilerOf(b).Compiler().ID()), nil
}

// get_language()
func compilerLanguage(
	_ *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}

	return starlark.String(compilerOf(b).Compiler().Language()), nil
}
