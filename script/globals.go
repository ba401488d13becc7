package script

import (
	"log/slog"
	"strings"

	"go.starlark.net/lib/json"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/ardnew/autoconfig/pkg"
	"github.com/ardnew/autoconfig/toolchain"
)

// Globals returns the predeclared namespace of a build script.
func Globals() starlark.StringDict {
	return GlobalsFor(HostPlatform())
}

// GlobalsFor returns the predeclared namespace with host_machine and
// build_machine describing p.
func GlobalsFor(p Platform) starlark.StringDict {
	return starlark.StringDict{
		"project":               starlark.NewBuiltin("project", project),
		"dependency":            starlark.NewBuiltin("dependency", dependency),
		"configuration_data":    starlark.NewBuiltin("configuration_data", configurationData),
		"configure_file":        starlark.NewBuiltin("configure_file", configureFile),
		"get_option":            starlark.NewBuiltin("get_option", getOption),
		"add_project_arguments": starlark.NewBuiltin("add_project_arguments", addProjectArguments),
		"message":               starlark.NewBuiltin("message", message),
		"warning":               starlark.NewBuiltin("warning", warning),
		"error":                 starlark.NewBuiltin("error", scriptError),
		"assert":                starlark.NewBuiltin("assert", scriptAssert),
		"struct":                starlark.NewBuiltin("struct", starlarkstruct.Make),
		"json":                  json.Module,
		"host_machine":          p.Module("host_machine"),
		"build_machine":         p.Module("build_machine"),
		"autoconfig":            autoconfigModule(),
	}
}

func autoconfigModule() *starlarkstruct.Module {
	return &starlarkstruct.Module{
		Name: "autoconfig",
		Members: starlark.StringDict{
			"project_name":    starlark.NewBuiltin("autoconfig.project_name", projectName),
			"project_version": starlark.NewBuiltin("autoconfig.project_version", projectVersion),
			"get_compiler":    starlark.NewBuiltin("autoconfig.get_compiler", getCompiler),
			"version":         starlark.NewBuiltin("autoconfig.version", toolVersion),
		},
	}
}

func projectName(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}

	p, err := ProjectOf(thread)
	if err != nil {
		return nil, err
	}

	return starlark.String(p.Name), nil
}

func projectVersion(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}

	p, err := ProjectOf(thread)
	if err != nil {
		return nil, err
	}

	return starlark.String(p.Version), nil
}

// get_compiler(language="c", native=False)
func getCompiler(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var (
		language = string(toolchain.LanguageC)
		native   bool
	)

	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"language?", &language, "native?", &native); err != nil {
		return nil, err
	}

	c := contextOf(thread)
	if c.Prober == nil {
		return nil, ErrNoCompiler
	}

	lang, err := toolchain.ParseLanguage(language)
	if err != nil {
		return nil, err
	}

	return NewCompiler(c.Prober.ForLanguage(lang)), nil
}

func toolVersion(
	_ *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}

	return starlark.String(pkg.Version()), nil
}

// join renders args the way print does: strings verbatim, other values by
// their Starlark representation, separated by spaces.
func join(args starlark.Tuple) string {
	parts := make([]string, len(args))

	for i, arg := range args {
		if s, ok := starlark.AsString(arg); ok {
			parts[i] = s
		} else {
			parts[i] = arg.String()
		}
	}

	return strings.Join(parts, " ")
}

// message(*args)
func message(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, ErrInvalidArgument.Wrapf("%s: unexpected keyword arguments", b.Name())
	}

	c := contextOf(thread)
	c.Logger.InfoContext(c.runContext(), join(args), slog.String("source", b.Name()))

	return starlark.None, nil
}

// warning(*args)
func warning(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, ErrInvalidArgument.Wrapf("%s: unexpected keyword arguments", b.Name())
	}

	c := contextOf(thread)
	c.Logger.WarnContext(c.runContext(), join(args), slog.String("source", b.Name()))

	return starlark.None, nil
}

// error(*args) aborts the run.
func scriptError(
	_ *starlark.Thread,
	_ *starlark.Builtin,
	args starlark.Tuple,
	_ []starlark.Tuple,
) (starlark.Value, error) {
	return nil, ErrScript.Wrapf("%s", join(args))
}

// assert(condition, message="")
func scriptAssert(
	_ *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var (
		cond starlark.Value
		msg  string
	)

	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &cond, &msg); err != nil {
		return nil, err
	}

	if cond.Truth() {
		return starlark.None, nil
	}

	if msg == "" {
		return nil, ErrAssertion
	}

	return nil, ErrAssertion.Wrapf("%s", msg)
}
