package script

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Version is the Starlark value of a semantic version.
type Version struct {
	v *semver.Version
}

var (
	_ starlark.HasAttrs   = Version{}
	_ starlark.Comparable = Version{}
)

// zeroVersion is the version of a dependency that was not found.
//
//nolint:gochecknoglobals
var zeroVersion = semver.New(0, 0, 0, "", "")

// NewVersion returns the Starlark value of v. A nil v is 0.0.0.
func NewVersion(v *semver.Version) Version {
	if v == nil {
		v = zeroVersion
	}

	return Version{v: v}
}

// Semver returns the underlying version.
func (v Version) Semver() *semver.Version { return v.v }

func (v Version) String() string        { return v.v.String() }
func (v Version) Type() string          { return "version" }
func (v Version) Freeze()               {}
func (v Version) Truth() starlark.Bool  { return true }
func (v Version) Hash() (uint32, error) { return starlark.String(v.v.String()).Hash() }

// CompareSameType orders versions by semantic version precedence.
func (v Version) CompareSameType(op syntax.Token, y starlark.Value, _ int) (bool, error) {
	cmp := v.v.Compare(y.(Version).v) //nolint:forcetypeassert

	switch op {
	case syntax.EQL:
		return cmp == 0, nil
	case syntax.NEQ:
		return cmp != 0, nil
	case syntax.LT:
		return cmp < 0, nil
	case syntax.LE:
		return cmp <= 0, nil
	case syntax.GT:
		return cmp > 0, nil
	case syntax.GE:
		return cmp >= 0, nil
	default:
		return false, fmt.Errorf("%s %s %s not implemented", v.Type(), op, y.Type())
	}
}

func (v Version) Attr(name string) (starlark.Value, error) {
	switch name {
	case "version_compare":
		return starlark.NewBuiltin(name, versionCompare).BindReceiver(v), nil
	default:
		return nil, nil
	}
}

func (v Version) AttrNames() []string { return []string{"version_compare"} }

// Compare reports whether v satisfies the constraint req, such as ">=1.2"
// or "^1.3.0".
func (v Version) Compare(req string) (bool, error) {
	c, err := semver.NewConstraint(req)
	if err != nil {
		return false, ErrInvalidConstraint.Wrapf("%q: %w", req, err)
	}

	return c.Check(v.v), nil
}

// version_compare(req)
func versionCompare(
	_ *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var req string

	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &req); err != nil {
		return nil, err
	}

	ok, err := b.Receiver().(Version).Compare(req) //nolint:forcetypeassert
	if err != nil {
		return nil, err
	}

	return starlark.Bool(ok), nil
}
