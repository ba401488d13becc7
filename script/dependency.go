package script

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.starlark.net/starlark"

	"github.com/ardnew/autoconfig/manifest"
)

// Dependency is the result of a dependency() lookup. It is immutable.
type Dependency struct {
	name    string
	found   bool
	version *semver.Version
}

var _ starlark.HasAttrs = (*Dependency)(nil)

// NewDependency returns a Dependency. A nil version is 0.0.0.
func NewDependency(name string, found bool, version *semver.Version) *Dependency {
	if version == nil {
		version = zeroVersion
	}

	return &Dependency{name: name, found: found, version: version}
}

// Name returns the dependency name.
func (d *Dependency) Name() string { return d.name }

// Found reports whether the dependency was found.
func (d *Dependency) Found() bool { return d.found }

// Version returns the resolved version, 0.0.0 when not found.
func (d *Dependency) Version() *semver.Version { return d.version }

func (d *Dependency) String() string {
	return fmt.Sprintf("<dependency %s found=%t version=%s>", d.name, d.found, d.version)
}

func (d *Dependency) Type() string          { return "dependency" }
func (d *Dependency) Freeze()               {}
func (d *Dependency) Truth() starlark.Bool  { return true }
func (d *Dependency) Hash() (uint32, error) { return starlark.String(d.name).Hash() }

//nolint:gochecknoglobals
var dependencyMethods = map[string]*starlark.Builtin{
	"found":              starlark.NewBuiltin("found", dependencyFound),
	"name":               starlark.NewBuiltin("name", dependencyName),
	"version":            starlark.NewBuiltin("version", dependencyVersion),
	"partial_dependency": starlark.NewBuiltin("partial_dependency", partialDependency),
}

func (d *Dependency) Attr(name string) (starlark.Value, error) {
	if b, ok := dependencyMethods[name]; ok {
		return b.BindReceiver(d), nil
	}

	return nil, nil
}

func (d *Dependency) AttrNames() []string {
	return []string{"found", "name", "partial_dependency", "version"}
}

func dependencyOf(b *starlark.Builtin) *Dependency {
	return b.Receiver().(*Dependency) //nolint:forcetypeassert
}

func dependencyFound(
	_ *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}

	return starlark.Bool(dependencyOf(b).found), nil
}

func dependencyName(
	_ *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}

	return starlark.String(dependencyOf(b).name), nil
}

func dependencyVersion(
	_ *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}

	return NewVersion(dependencyOf(b).version), nil
}

// partial_dependency(compile_args=, link_args=, links=, includes=, sources=)
// accepts the selectors and returns the dependency unchanged.
func partialDependency(
	_ *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var compileArgs, linkArgs, links, includes, sources bool

	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"compile_args?", &compileArgs,
		"link_args?", &linkArgs,
		"links?", &links,
		"includes?", &includes,
		"sources?", &sources,
	); err != nil {
		return nil, err
	}

	return dependencyOf(b), nil
}

// dependency(name, required=False, disabler=None, version=None)
func dependency(
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var (
		name                        string
		required, disabler, version starlark.Value = starlark.False, starlark.None, starlark.None
	)

	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"name", &name,
		"required?", &required,
		"disabler?", &disabler,
		"version?", &version,
	); err != nil {
		return nil, err
	}

	c := contextOf(thread)
	ctx := c.runContext()

	spec, ok := c.Manifest.Lookup(name)
	if !ok {
		if required.Truth() {
			return nil, manifest.ErrMissingDependency.Wrapf("%s", name)
		}

		c.Logger.WarnContext(ctx, "missing dependency",
			slog.String("name", name),
			slog.String("available",
				strings.Join(manifest.Suggest(name, c.Manifest.Names()), ", ")))

		return NewDependency(name, false, nil), nil
	}

	if version != starlark.None {
		reqs, err := stringsOf(b.Name(), starlark.Tuple{version})
		if err != nil {
			return nil, err
		}

		v := NewVersion(spec.Version)

		for _, req := range reqs {
			match, err := v.Compare(req)
			if err != nil {
				return nil, err
			}

			if !match {
				c.Logger.WarnContext(ctx, "dependency version mismatch",
					slog.String("name", name),
					slog.String("version", spec.Version.String()),
					slog.String("required", req))
			}
		}
	}

	c.Logger.DebugContext(ctx, "found dependency",
		slog.String("name", name), slog.String("version", spec.Version.String()))

	return NewDependency(name, true, spec.Version), nil
}
