package confdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestData_SetLookup(t *testing.T) {
	d := New()

	require.NoError(t, d.Set("HAVE_ZLIB", true, "zlib found"))
	require.NoError(t, d.Set("VERSION", "1.0", ""))
	require.NoError(t, d.Set("SIZEOF_INT", int64(4), ""))
	require.NoError(t, d.Set("HAVE_ZLIB", false, ""))

	assert.Equal(t, []string{"HAVE_ZLIB", "VERSION", "SIZEOF_INT"}, d.Keys(),
		"overwrite keeps position")
	assert.Equal(t, 3, d.Len())

	e, ok := d.Lookup("HAVE_ZLIB")
	require.True(t, ok)
	assert.Equal(t, Entry{Value: false}, e)

	assert.True(t, d.Has("VERSION"))
	assert.False(t, d.Has("version"))

	require.ErrorIs(t, d.Set("", 1, ""), ErrInvalidKey)
	assert.True(t, d.State().Free())
}

func TestData_MutationDuringIteration(t *testing.T) {
	d := New()
	require.NoError(t, d.Set("A", int64(1), ""))
	require.NoError(t, d.Set("B", int64(2), ""))

	var errs []error

	for k := range d.All() {
		assert.Equal(t, "shared(1)", d.State().String())
		errs = append(errs, d.Set(k+"_COPY", int64(0), ""))
	}

	require.Len(t, errs, 2)

	for _, err := range errs {
		require.ErrorIs(t, err, ErrMutationDuringIteration)
	}

	assert.True(t, d.State().Free(), "borrow released after loop")
	assert.Equal(t, []string{"A", "B"}, d.Keys())
}

func TestData_AllEarlyBreakReleases(t *testing.T) {
	d := New()
	require.NoError(t, d.Set("A", "a", ""))
	require.NoError(t, d.Set("B", "b", ""))

	for range d.All() {
		break
	}

	assert.True(t, d.State().Free())
	require.NoError(t, d.Set("C", "c", ""))
}

func TestData_MergeFrom(t *testing.T) {
	dst := New()
	require.NoError(t, dst.Set("A", "old", ""))

	src := New()
	require.NoError(t, src.Set("B", int64(2), "bee"))
	require.NoError(t, src.Set("A", "new", ""))

	require.NoError(t, dst.MergeFrom(src))
	assert.Equal(t, []string{"A", "B"}, dst.Keys())

	e, _ := dst.Lookup("A")
	assert.Equal(t, "new", e.Value)

	e, _ = dst.Lookup("B")
	assert.Equal(t, Entry{Value: int64(2), Description: "bee"}, e)

	require.ErrorIs(t, dst.MergeFrom(dst), ErrMutationDuringIteration)
	assert.True(t, dst.State().Free())
	assert.True(t, src.State().Free())
}

func TestData_Freeze(t *testing.T) {
	d := New()
	require.ErrorIs(t, d.TryFreeze(), ErrFreezeUnsupported)

	d = New(WithAllowFreeze(true))
	require.NoError(t, d.Set("A", "a", ""))

	for range d.All() {
		require.ErrorIs(t, d.TryFreeze(), ErrBorrowed)
	}

	require.NoError(t, d.TryFreeze())
	require.NoError(t, d.TryFreeze(), "freezing twice succeeds")
	assert.Equal(t, "frozen", d.State().String())

	require.ErrorIs(t, d.Set("B", "b", ""), ErrImmutable)
	require.ErrorIs(t, d.MergeFrom(New()), ErrImmutable)

	e, ok := d.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, "a", e.Value)
}

func TestSnapshot(t *testing.T) {
	d := New()
	require.NoError(t, d.Set("A", "a", ""))

	snap := d.Snapshot()
	require.NoError(t, d.Set("B", "b", ""))

	assert.Equal(t, 1, snap.Len())
	assert.Equal(t, []string{"A"}, snap.Keys())

	_, ok := snap.Lookup("B")
	assert.False(t, ok)

	var zero Snapshot

	_, ok = zero.Lookup("A")
	assert.False(t, ok)
	assert.Zero(t, zero.Len())
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{State{}, "free"},
		{State{shared: 2}, "shared(2)"},
		{State{exclusive: true}, "exclusive"},
		{State{frozen: true, shared: 1}, "frozen"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}
