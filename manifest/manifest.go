package manifest

import (
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/autoconfig/pkg"
)

var (
	ErrMissingDependency = pkg.NewError("missing dependency")
	ErrInvalidSpec       = pkg.NewError("invalid dependency spec")
	ErrInvalidVersion    = pkg.NewError("invalid version")
	ErrReadManifest      = pkg.NewError("cannot read manifest")
)

// Spec names an available dependency and its version.
type Spec struct {
	Name    string
	Version *semver.Version
}

// ParseSpec parses a "NAME=SEMVER" dependency spec.
// The version must be a complete semantic version (e.g., "1.2.3").
func ParseSpec(s string) (Spec, error) {
	name, version, ok := strings.Cut(s, "=")

	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Spec{}, ErrInvalidSpec.Wrapf("%q: expected NAME=VERSION", s)
	}

	return NewSpec(name, version)
}

// NewSpec returns the Spec for name at version.
func NewSpec(name, version string) (Spec, error) {
	v, err := semver.StrictNewVersion(strings.TrimSpace(version))
	if err != nil {
		return Spec{}, ErrInvalidVersion.Wrapf("%s: %q: %w", name, version, err)
	}

	return Spec{Name: name, Version: v}, nil
}

// String returns the spec in "NAME=VERSION" form.
func (s Spec) String() string {
	if s.Version == nil {
		return s.Name + "="
	}

	return s.Name + "=" + s.Version.String()
}

// Manifest is the read-only set of dependencies available to a run.
type Manifest struct {
	names []string
	specs map[string]Spec
}

// New returns a Manifest of specs. When a name repeats, the last spec wins
// while the name keeps its first position.
func New(specs ...Spec) *Manifest {
	m := &Manifest{specs: make(map[string]Spec, len(specs))}

	for _, s := range specs {
		if _, ok := m.specs[s.Name]; !ok {
			m.names = append(m.names, s.Name)
		}

		m.specs[s.Name] = s
	}

	return m
}

// Lookup returns the spec with exactly the given name.
func (m *Manifest) Lookup(name string) (Spec, bool) {
	if m == nil {
		return Spec{}, false
	}

	s, ok := m.specs[name]

	return s, ok
}

// Require returns the spec with exactly the given name, or
// [ErrMissingDependency].
func (m *Manifest) Require(name string) (Spec, error) {
	s, ok := m.Lookup(name)
	if !ok {
		return Spec{}, ErrMissingDependency.Wrapf("%s", name)
	}

	return s, nil
}

// Names returns the dependency names in first-definition order.
func (m *Manifest) Names() []string {
	if m == nil {
		return nil
	}

	return slices.Clone(m.names)
}

// Len returns the number of dependencies.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}

	return len(m.names)
}

// Suggest orders candidates by fuzzy similarity to name. Candidates that
// match are returned first, best match first; the rest follow in their
// original order.
func Suggest(name string, candidates []string) []string {
	out := make([]string, 0, len(candidates))
	seen := make([]bool, len(candidates))

	for _, m := range fuzzy.Find(name, candidates) {
		out = append(out, m.Str)
		seen[m.Index] = true
	}

	for i, c := range candidates {
		if !seen[i] {
			out = append(out, c)
		}
	}

	return out
}
