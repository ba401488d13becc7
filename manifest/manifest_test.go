package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSpec(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "valid", input: "zlib=1.3.1", want: "zlib=1.3.1"},
		{name: "spaces", input: " zlib = 1.3.1 ", want: "zlib=1.3.1"},
		{name: "prerelease", input: "foo=2.0.0-rc.1", want: "foo=2.0.0-rc.1"},
		{name: "missing separator", input: "zlib", wantErr: ErrInvalidSpec},
		{name: "missing name", input: "=1.0.0", wantErr: ErrInvalidSpec},
		{name: "partial version", input: "zlib=1.3", wantErr: ErrInvalidVersion},
		{name: "garbage version", input: "zlib=latest", wantErr: ErrInvalidVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSpec(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func mustSpec(t *testing.T, s string) Spec {
	t.Helper()

	spec, err := ParseSpec(s)
	require.NoError(t, err)

	return spec
}

func TestManifest(t *testing.T) {
	m := New(
		mustSpec(t, "zlib=1.2.0"),
		mustSpec(t, "openssl=3.0.2"),
		mustSpec(t, "zlib=1.3.1"),
	)

	assert.Equal(t, []string{"zlib", "openssl"}, m.Names())
	assert.Equal(t, 2, m.Len())

	spec, ok := m.Lookup("zlib")
	require.True(t, ok)
	assert.Equal(t, "1.3.1", spec.Version.String(), "last definition wins")

	_, ok = m.Lookup("ZLIB")
	assert.False(t, ok, "lookup is exact")

	_, err := m.Require("missing-lib")
	require.ErrorIs(t, err, ErrMissingDependency)
	assert.Contains(t, err.Error(), "missing-lib")

	names := m.Names()
	names[0] = "mutated"
	assert.Equal(t, "zlib", m.Names()[0], "Names returns a copy")
}

func TestManifest_Nil(t *testing.T) {
	var m *Manifest

	_, ok := m.Lookup("x")
	assert.False(t, ok)
	assert.Zero(t, m.Len())
	assert.Empty(t, m.Names())
}

func TestLoad(t *testing.T) {
	src := "dependencies:\n  zlib: 1.3.1\n  openssl: \"3.0.2\"\n  libfoo: 0.1.0\n"

	specs, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, specs, 3)

	got := make([]string, 0, len(specs))
	for _, s := range specs {
		got = append(got, s.String())
	}

	assert.Equal(t, []string{"zlib=1.3.1", "openssl=3.0.2", "libfoo=0.1.0"}, got)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "bad version", input: "dependencies:\n  zlib: one\n", wantErr: ErrInvalidVersion},
		{name: "missing version", input: "dependencies:\n  zlib:\n", wantErr: ErrInvalidSpec},
		{name: "unknown field", input: "packages:\n  zlib: 1.0.0\n", wantErr: ErrReadManifest},
		{name: "malformed", input: "dependencies: [\n", wantErr: ErrReadManifest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deps.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dependencies:\n  zlib: 1.3.1\n"), 0o600))

	specs, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "zlib", specs[0].Name)

	_, err = LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, ErrReadManifest)
}

func TestSuggest(t *testing.T) {
	candidates := []string{"openssl", "zlib", "zlib-ng", "curl"}

	got := Suggest("zlib", candidates)

	require.Len(t, got, len(candidates))
	assert.Equal(t, "zlib", got[0], "exact match ranks first")
	assert.Equal(t, "zlib-ng", got[1])
	assert.Equal(t, []string{"openssl", "curl"}, got[2:], "unmatched names keep their order")

	assert.Equal(t, candidates, Suggest("qqq", candidates))
	assert.Empty(t, Suggest("x", nil))
}
