package toolchain

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/autoconfig/log"
)

// Prober answers capability queries about a [Compiler] by compiling small
// probe programs.
//
// Boolean probes never fail: any compile error, non-zero exit, or failure to
// start the toolchain is reported as false.
type Prober struct {
	compiler Compiler
	runner   Runner
	cache    *Cache
	logger   log.Logger
}

// Option configures a [Prober].
type Option func(*Prober)

// WithRunner sets the Runner used to invoke the toolchain.
func WithRunner(r Runner) Option {
	return func(p *Prober) { p.runner = r }
}

// WithCache enables memoization of boolean probe results, persisted under
// dir (or in memory only if dir is empty).
func WithCache(dir string) Option {
	return func(p *Prober) { p.cache = NewCache(dir) }
}

// WithLogger sets the logger used for trace output.
func WithLogger(logger log.Logger) Option {
	return func(p *Prober) { p.logger = logger }
}

// NewProber returns a Prober for c. Without [WithRunner], an [ExecRunner]
// is used.
func NewProber(c Compiler, opts ...Option) *Prober {
	p := &Prober{compiler: c}

	for _, opt := range opts {
		opt(p)
	}

	if p.runner == nil {
		p.runner = NewExecRunner(WithRunnerLogger(p.logger))
	}

	return p
}

// Compiler returns the toolchain p probes.
func (p *Prober) Compiler() Compiler { return p.compiler }

// ForLanguage returns a Prober sharing p's runner and cache that compiles
// probes as language l.
func (p *Prober) ForLanguage(l Language) *Prober {
	c := *p
	c.compiler = p.compiler.WithLanguage(l)

	return &c
}

// Compiles reports whether code compiles.
func (p *Prober) Compiles(ctx context.Context, code string, args ...string) bool {
	return p.probe(ctx, "compiles", code, args)
}

// Links reports whether code compiles and links into an executable.
func (p *Prober) Links(ctx context.Context, code string, args ...string) bool {
	return p.probeLink(ctx, "links", code, args)
}

// HasType reports whether sym names a complete type.
func (p *Prober) HasType(ctx context.Context, sym, prefix string, args ...string) bool {
	return p.probe(ctx, "has_type", hasTypeSource(sym, prefix), args)
}

// HasHeader reports whether header can be included.
func (p *Prober) HasHeader(ctx context.Context, header, prefix string, args ...string) bool {
	return p.probe(ctx, "has_header", hasHeaderSource(header, prefix), args)
}

// HasHeaderSymbol reports whether header declares sym as a macro or symbol.
func (p *Prober) HasHeaderSymbol(
	ctx context.Context,
	header, sym, prefix string,
	args ...string,
) bool {
	return p.probe(ctx, "has_header_symbol",
		hasHeaderSymbolSource(header, sym, prefix), args)
}

// HasMember reports whether typ has a member named member.
func (p *Prober) HasMember(
	ctx context.Context,
	typ, member, prefix string,
	args ...string,
) bool {
	return p.probe(ctx, "has_member", hasMemberSource(typ, member, prefix), args)
}

// HasFunction reports whether fn is available, either as a library function
// or as a compiler builtin.
func (p *Prober) HasFunction(ctx context.Context, fn, prefix string, args ...string) bool {
	if p.probeLink(ctx, "has_function", hasFunctionSource(fn, prefix), args) {
		return true
	}

	return p.probe(ctx, "has_builtin", hasBuiltinSource(fn, prefix), args)
}

// SupportedArguments returns the flags the compiler accepts, in input
// order.
func (p *Prober) SupportedArguments(ctx context.Context, flags ...string) []string {
	var extra []string
	if p.compiler.family == FamilyClang {
		extra = []string{"-Werror=unknown-warning-option"}
	}

	supported := make([]string, 0, len(flags))

	for _, flag := range flags {
		args := append(slices.Clone(extra), "-c", flag)
		if p.probe(ctx, "supported_argument", supportedArgumentSource, args) {
			supported = append(supported, flag)
		}
	}

	return supported
}

// FindLibrary reports whether the library name can be linked, searching
// dirs in addition to the default library path.
func (p *Prober) FindLibrary(ctx context.Context, name string, dirs ...string) bool {
	args := make([]string, 0, len(dirs)+1)

	for _, dir := range dirs {
		args = append(args, "-L"+dir)
	}

	return p.Links(ctx, linkSource, append(args, "-l"+name)...)
}

// Sizeof returns the size in bytes of sym, as computed by compiling and
// running a program that prints it. Results are never cached.
func (p *Prober) Sizeof(
	ctx context.Context,
	sym, prefix string,
	args ...string,
) (int, error) {
	dir, err := os.MkdirTemp("", "autoconfig-sizeof-")
	if err != nil {
		return 0, ErrProbe.Wrap(err)
	}
	defer os.RemoveAll(dir)

	exe := filepath.Join(dir, "sizeof")
	attrs := []slog.Attr{slog.String("probe", "sizeof"), slog.String("symbol", sym)}

	res, err := p.link(ctx, sizeofSource(sym, prefix), exe, args)
	if err != nil {
		return 0, ErrProbe.With(attrs...).Wrap(err)
	}

	if !res.OK() {
		return 0, ErrProbe.With(append(attrs, slog.String("stderr", string(res.Stderr)))...).
			Wrapf("command exited non-zero code (%d)\n%s\n%s",
				res.ExitCode, res.Stderr, res.Stdout)
	}

	out, err := p.runner.Run(ctx, Invocation{Path: exe})
	if err != nil {
		return 0, ErrProbe.With(attrs...).Wrap(err)
	}

	if !out.OK() {
		return 0, ErrProbe.With(append(attrs, slog.String("stderr", string(out.Stderr)))...).
			Wrapf("sizeof program exited non-zero code (%d)\n%s", out.ExitCode, out.Stderr)
	}

	text := strings.TrimSpace(string(out.Stdout))

	size, err := strconv.ParseUint(text, 10, 31)
	if err != nil {
		return 0, ErrProbe.With(attrs...).Wrapf("failed to parse int size, %q", text)
	}

	p.logger.TraceContext(ctx, "probe",
		slog.String("probe", "sizeof"), slog.String("symbol", sym),
		slog.Uint64("result", size))

	return int(size), nil
}

// probe runs a compile-only probe, consulting the cache if enabled.
func (p *Prober) probe(ctx context.Context, name, code string, args []string) bool {
	key := p.key(name, code, args)
	if v, ok := p.cached(ctx, key); ok {
		return v
	}

	res, err := p.runner.Run(ctx, p.compileInvocation(code, args))
	ok := err == nil && res.OK()

	p.logger.TraceContext(ctx, "probe",
		slog.String("probe", name), slog.Bool("result", ok))
	p.remember(key, ok)

	return ok
}

// probeLink runs a probe that must link into an executable, consulting the
// cache if enabled.
func (p *Prober) probeLink(ctx context.Context, name, code string, args []string) bool {
	key := p.key(name, code, args)
	if v, ok := p.cached(ctx, key); ok {
		return v
	}

	dir, err := os.MkdirTemp("", "autoconfig-link-")
	if err != nil {
		return false
	}
	defer os.RemoveAll(dir)

	res, err := p.link(ctx, code, filepath.Join(dir, "probe"), args)
	ok := err == nil && res.OK()

	p.logger.TraceContext(ctx, "probe",
		slog.String("probe", name), slog.Bool("result", ok))
	p.remember(key, ok)

	return ok
}

// compileInvocation compiles code from stdin to the null device.
func (p *Prober) compileInvocation(code string, args []string) Invocation {
	argv := p.compiler.Args()
	argv = append(argv, "-O0", "-c", "-x", string(p.compiler.language), "-", "-o", os.DevNull)

	return Invocation{
		Path:  p.compiler.executable,
		Args:  append(argv, args...),
		Stdin: []byte(code),
	}
}

// link compiles and links code from stdin into the executable out.
func (p *Prober) link(ctx context.Context, code, out string, args []string) (Result, error) {
	argv := p.compiler.Args()
	argv = append(argv, "-x", string(p.compiler.language), "-", "-x", "none", "-o", out)

	return p.runner.Run(ctx, Invocation{
		Path:  p.compiler.executable,
		Args:  append(argv, args...),
		Stdin: []byte(code),
	})
}

func (p *Prober) key(name, code string, args []string) string {
	if p.cache == nil {
		return ""
	}

	parts := append(p.compiler.identity(), name, code)

	return p.cache.Key(append(parts, args...)...)
}

func (p *Prober) cached(ctx context.Context, key string) (result, ok bool) {
	if p.cache == nil {
		return false, false
	}

	result, ok = p.cache.Load(key)
	if ok {
		p.logger.TraceContext(ctx, "probe cache hit",
			slog.String("key", key), slog.Bool("result", result))
	}

	return result, ok
}

func (p *Prober) remember(key string, result bool) {
	if p.cache != nil {
		p.cache.Store(key, result)
	}
}
