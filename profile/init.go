package profile

import (
	"path/filepath"
	"regexp"
)

// Tag is the build tag that enables profiling support. It also names the
// subdirectory of the cache directory where profiles are written by default.
const Tag = "pprof"

// Config describes one profiling session.
type Config struct {
	Mode  string
	Dir   string
	Label string
	Quiet bool
}

// Option sets a field of a [Config].
type Option func(*Config)

// WithMode sets the profiling mode. See [Modes].
func WithMode(mode string) Option {
	return func(c *Config) { c.Mode = mode }
}

// WithDir sets the directory profiles are written under.
func WithDir(dir string) Option {
	return func(c *Config) { c.Dir = dir }
}

// WithLabel names the subdirectory of Dir for this session, typically the
// command and script being profiled, so that profiles of different scripts
// do not overwrite each other.
func WithLabel(label string) Option {
	return func(c *Config) { c.Label = unsafeLabel.ReplaceAllString(label, "_") }
}

// WithQuiet suppresses the profiler's own log output.
func WithQuiet(quiet bool) Option {
	return func(c *Config) { c.Quiet = quiet }
}

//nolint:gochecknoglobals
var unsafeLabel = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Path returns the directory the session writes its profile to.
func (c Config) Path() string {
	if c.Label == "" {
		return c.Dir
	}

	return filepath.Join(c.Dir, c.Label)
}

// Start initializes the profiler and returns an interface for stopping it.
//
// If the binary was built without the pprof tag, or the configured mode is
// empty or unknown, Start returns a no-op implementation.
// Both Start and Stop are always safely callable.
func Start(opts ...Option) interface{ Stop() } {
	var c Config

	for _, opt := range opts {
		opt(&c)
	}

	if c.Mode == "" || !Enabled {
		return ignore{}
	}

	return start(c)
}

type ignore struct{}

func (ignore) Stop() {}
