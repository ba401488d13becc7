package cmd

import (
	"log/slog"
	"path/filepath"

	"github.com/ardnew/autoconfig/log"
	"github.com/ardnew/autoconfig/manifest"
	"github.com/ardnew/autoconfig/script"
	"github.com/ardnew/autoconfig/toolchain"
)

// probeCacheDir is the subdirectory of the cache directory holding
// persisted probe results.
const probeCacheDir = "probe"

// Settings are the global flags shared by every evaluation. They may be
// set in the configuration file written by [Init].
type Settings struct {
	Compiler   string   `default:"gcc" enum:"gcc,clang" group:"compiler" help:"Compiler family."`
	CC         string   `                               group:"compiler" help:"Compiler executable (default: the family name)."   name:"cc"        placeholder:"EXE"`
	Language   string   `default:"c"   enum:"c,c++"     group:"compiler" help:"Language compiler probes are written in."`
	ISystem    []string `                               group:"compiler" help:"Add a system include directory to every probe."    name:"isystem"   placeholder:"DIR"`
	IQuote     []string `                               group:"compiler" help:"Add a quoted include directory to every probe."    name:"iquote"    placeholder:"DIR"`
	ToolPath   []string `                               group:"compiler" help:"Prepend a directory to PATH when running probes."  name:"tool-path" placeholder:"DIR"`
	ProbeCache bool     `                               group:"compiler" help:"Reuse probe results across runs."`

	Dependency []string `group:"manifest" help:"Make a dependency available to dependency()." placeholder:"NAME=SEMVER" short:"d"`
	Manifest   string   `group:"manifest" help:"YAML file listing available dependencies."     placeholder:"FILE"        type:"existingfile"`

	Option      []string `help:"Set a get_option() value."                   placeholder:"NAME=VALUE" short:"D"`
	ArgsLog     string   `default:"${argsLog}" help:"File add_project_arguments() appends to." placeholder:"FILE"`
	AllowFreeze bool     `help:"Allow freezing configuration_data values."`
}

// manifest merges the manifest file with -d specs; -d wins.
func (s *Settings) manifest() (*manifest.Manifest, error) {
	var specs []manifest.Spec

	if s.Manifest != "" {
		loaded, err := manifest.LoadFile(s.Manifest)
		if err != nil {
			return nil, ErrDependencies.With(slog.String("file", s.Manifest)).Wrap(err)
		}

		specs = append(specs, loaded...)
	}

	for _, d := range s.Dependency {
		spec, err := manifest.ParseSpec(d)
		if err != nil {
			return nil, ErrDependencies.Wrap(err)
		}

		specs = append(specs, spec)
	}

	return manifest.New(specs...), nil
}

// prober builds the compiler prober described by s.
func (s *Settings) prober(logger log.Logger, cacheDir string) (*toolchain.Prober, error) {
	family, err := toolchain.ParseFamily(s.Compiler)
	if err != nil {
		return nil, ErrToolchain.Wrap(err)
	}

	lang, err := toolchain.ParseLanguage(s.Language)
	if err != nil {
		return nil, ErrToolchain.Wrap(err)
	}

	compiler := toolchain.New(family, s.CC, lang, toolchain.IncludeArgs(s.ISystem, s.IQuote)...)

	opts := []toolchain.Option{
		toolchain.WithLogger(logger),
		toolchain.WithRunner(toolchain.NewExecRunner(
			toolchain.WithToolPath(s.ToolPath...),
			toolchain.WithRunnerLogger(logger),
		)),
	}

	if s.ProbeCache && cacheDir != "" {
		opts = append(opts, toolchain.WithCache(filepath.Join(cacheDir, probeCacheDir)))
	}

	logger.Debug("toolchain", slog.String("compiler", compiler.String()),
		slog.Bool("cache", s.ProbeCache))

	return toolchain.NewProber(compiler, opts...), nil
}

// scriptContext returns the script context for one evaluation.
func (s *Settings) scriptContext(logger log.Logger, cacheDir string) (*script.Context, error) {
	deps, err := s.manifest()
	if err != nil {
		return nil, err
	}

	prober, err := s.prober(logger, cacheDir)
	if err != nil {
		return nil, err
	}

	options, err := script.ParseOptions(s.Option)
	if err != nil {
		return nil, err
	}

	return &script.Context{
		Manifest:    deps,
		Prober:      prober,
		Options:     options,
		ArgsLog:     s.ArgsLog,
		AllowFreeze: s.AllowFreeze,
		Logger:      logger,
	}, nil
}

// Vars returns the kong variables referenced by Settings.
func (*Settings) Vars() map[string]string {
	return map[string]string{"argsLog": script.DefaultArgsLog}
}
