package toolchain

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/autoconfig/log"
)

// Invocation describes one subprocess.
type Invocation struct {
	Path  string
	Args  []string
	Stdin []byte
	Dir   string
}

// String returns the command line of the invocation.
func (inv Invocation) String() string {
	return strings.Join(append([]string{inv.Path}, inv.Args...), " ")
}

// Result holds the outcome of a subprocess that was started.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// OK reports whether the subprocess exited successfully.
func (r Result) OK() bool { return r.ExitCode == 0 }

// Runner executes toolchain invocations.
//
// Run returns an error only if the subprocess could not be started.
// A subprocess that runs and fails is reported through [Result.ExitCode].
type Runner interface {
	Run(ctx context.Context, inv Invocation) (Result, error)
}

// ExecRunner runs invocations as operating-system processes.
type ExecRunner struct {
	toolPath []string
	logger   log.Logger
}

// RunnerOption configures an [ExecRunner].
type RunnerOption func(*ExecRunner)

// WithToolPath prepends dirs to the PATH seen by, and used to locate,
// every subprocess.
func WithToolPath(dirs ...string) RunnerOption {
	return func(r *ExecRunner) {
		r.toolPath = append(r.toolPath, dirs...)
	}
}

// WithRunnerLogger sets the logger used for trace output.
func WithRunnerLogger(logger log.Logger) RunnerOption {
	return func(r *ExecRunner) { r.logger = logger }
}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner(opts ...RunnerOption) *ExecRunner {
	r := &ExecRunner{}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run implements [Runner].
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (Result, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, r.resolve(inv.Path), inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if inv.Stdin != nil {
		cmd.Stdin = bytes.NewReader(inv.Stdin)
	}

	if len(r.toolPath) > 0 {
		cmd.Env = append(os.Environ(), "PATH="+r.searchPath())
	}

	r.logger.TraceContext(ctx, "exec", slog.String("command", inv.String()))

	err := cmd.Run()

	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()

		return res, nil
	}

	if err != nil {
		return res, ErrSpawn.With(slog.String("command", inv.Path)).Wrap(err)
	}

	return res, nil
}

// searchPath returns PATH with the tool directories prepended.
func (r *ExecRunner) searchPath() string {
	return mung.Make(
		mung.WithSubjectItems(os.Getenv("PATH")),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(r.toolPath...),
	).String()
}

// resolve locates a bare command name in the tool directories.
// Names containing a path separator, and names not found there, are
// returned unchanged for exec to resolve against the process PATH.
func (r *ExecRunner) resolve(name string) string {
	if strings.ContainsRune(name, filepath.Separator) {
		return name
	}

	for _, dir := range r.toolPath {
		candidate := filepath.Join(dir, name)

		info, err := os.Stat(candidate)
		if err == nil && info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0 {
			return candidate
		}
	}

	return name
}
