package confdata

import (
	"iter"
	"slices"
	"strconv"

	"github.com/ardnew/autoconfig/pkg"
)

var (
	ErrMutationDuringIteration = pkg.NewError("mutation during iteration")
	ErrImmutable               = pkg.NewError("cannot mutate immutable value")
	ErrFreezeUnsupported       = pkg.NewError("freezing configuration data is not enabled")
	ErrBorrowed                = pkg.NewError("cannot freeze while borrowed")
	ErrKeyNotFound             = pkg.NewError("key not found")
	ErrInvalidKey              = pkg.NewError("invalid key")
)

// Entry is a configured value and its optional description.
//
// Value is a string, an int64, a bool, or any other value supplied by the
// caller, which templates treat as unrecognized.
type Entry struct {
	Value       any
	Description string
}

// State is the borrow state of a [Data].
type State struct {
	shared    int
	exclusive bool
	frozen    bool
}

// Free reports whether no borrow is outstanding and the data is mutable.
func (s State) Free() bool { return !s.frozen && !s.exclusive && s.shared == 0 }

// Frozen reports whether the data is permanently immutable.
func (s State) Frozen() bool { return s.frozen }

// Shared returns the number of outstanding shared borrows.
func (s State) Shared() int { return s.shared }

// Exclusive reports whether a mutation is in progress.
func (s State) Exclusive() bool { return s.exclusive }

// String returns "free", "shared(n)", "exclusive", or "frozen".
func (s State) String() string {
	switch {
	case s.frozen:
		return "frozen"
	case s.exclusive:
		return "exclusive"
	case s.shared > 0:
		return "shared(" + strconv.Itoa(s.shared) + ")"
	default:
		return "free"
	}
}

// Data is an insertion-ordered set of configuration entries.
//
// Data moves one way from mutable to frozen. While mutable, readers take
// shared borrows and writers take an exclusive borrow; a write that starts
// while any borrow is outstanding (for example, from inside a loop over the
// same Data) fails with [ErrMutationDuringIteration]. Writes after freezing
// fail with [ErrImmutable].
//
// The borrow rules guard against reentrancy within one goroutine; Data is
// not safe for concurrent use.
type Data struct {
	keys        []string
	entries     map[string]Entry
	state       State
	allowFreeze bool
}

// Option configures a [Data].
type Option func(*Data)

// WithAllowFreeze enables the transition to the frozen state.
func WithAllowFreeze(allow bool) Option {
	return func(d *Data) { d.allowFreeze = allow }
}

// New returns an empty, mutable Data.
func New(opts ...Option) *Data {
	d := &Data{entries: make(map[string]Entry)}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// State returns the current borrow state.
func (d *Data) State() State { return d.state }

// Len returns the number of entries.
func (d *Data) Len() int { return len(d.keys) }

// Set inserts or overwrites key. An overwritten key keeps its position.
func (d *Data) Set(key string, value any, description string) error {
	release, err := d.borrowMut()
	if err != nil {
		return err
	}
	defer release()

	if key == "" {
		return ErrInvalidKey.Wrapf("key must not be empty")
	}

	if _, ok := d.entries[key]; !ok {
		d.keys = append(d.keys, key)
	}

	d.entries[key] = Entry{Value: value, Description: description}

	return nil
}

// Lookup returns the entry for key.
func (d *Data) Lookup(key string) (Entry, bool) {
	release, err := d.borrow()
	if err != nil {
		return Entry{}, false
	}
	defer release()

	e, ok := d.entries[key]

	return e, ok
}

// Has reports whether key is set.
func (d *Data) Has(key string) bool {
	_, ok := d.Lookup(key)

	return ok
}

// Keys returns the keys in insertion order.
func (d *Data) Keys() []string {
	release, err := d.borrow()
	if err != nil {
		return nil
	}
	defer release()

	return slices.Clone(d.keys)
}

// All returns an iterator over the entries in insertion order.
// A shared borrow is held until the iteration ends.
func (d *Data) All() iter.Seq2[string, Entry] {
	return func(yield func(string, Entry) bool) {
		release, err := d.borrow()
		if err != nil {
			return
		}
		defer release()

		for _, k := range d.keys {
			if !yield(k, d.entries[k]) {
				return
			}
		}
	}
}

// MergeFrom copies every entry of src into d, in src's order.
// Merging a Data into itself is a mutation during iteration.
func (d *Data) MergeFrom(src *Data) error {
	readDone, err := src.borrow()
	if err != nil {
		return err
	}
	defer readDone()

	release, err := d.borrowMut()
	if err != nil {
		return err
	}
	defer release()

	for _, k := range src.keys {
		if _, ok := d.entries[k]; !ok {
			d.keys = append(d.keys, k)
		}

		d.entries[k] = src.entries[k]
	}

	return nil
}

// Snapshot returns an immutable copy of the current entries.
func (d *Data) Snapshot() Snapshot {
	release, err := d.borrow()
	if err != nil {
		return Snapshot{}
	}
	defer release()

	s := Snapshot{
		keys:    slices.Clone(d.keys),
		entries: make(map[string]Entry, len(d.entries)),
	}

	for k, e := range d.entries {
		s.entries[k] = e
	}

	return s
}

// TryFreeze makes d permanently immutable. It fails with
// [ErrFreezeUnsupported] unless enabled by [WithAllowFreeze], and with
// [ErrBorrowed] while any borrow is outstanding. Freezing a frozen Data
// succeeds.
func (d *Data) TryFreeze() error {
	switch {
	case !d.allowFreeze:
		return ErrFreezeUnsupported
	case d.state.frozen:
		return nil
	case !d.state.Free():
		return ErrBorrowed.Wrapf("state %s", d.state)
	}

	d.state.frozen = true

	return nil
}

// borrow takes a shared borrow. Reads of frozen data need no borrow.
func (d *Data) borrow() (release func(), err error) {
	if d.state.frozen {
		return func() {}, nil
	}

	if d.state.exclusive {
		return nil, ErrMutationDuringIteration
	}

	d.state.shared++

	return func() { d.state.shared-- }, nil
}

// borrowMut takes the exclusive borrow.
func (d *Data) borrowMut() (release func(), err error) {
	switch {
	case d.state.frozen:
		return nil, ErrImmutable
	case d.state.exclusive || d.state.shared > 0:
		return nil, ErrMutationDuringIteration
	}

	d.state.exclusive = true

	return func() { d.state.exclusive = false }, nil
}

// Snapshot is a read-only copy of a [Data].
type Snapshot struct {
	keys    []string
	entries map[string]Entry
}

// Lookup returns the entry for key.
func (s Snapshot) Lookup(key string) (Entry, bool) {
	e, ok := s.entries[key]

	return e, ok
}

// Keys returns the keys in insertion order.
func (s Snapshot) Keys() []string { return slices.Clone(s.keys) }

// Len returns the number of entries.
func (s Snapshot) Len() int { return len(s.keys) }
