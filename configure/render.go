package configure

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/readahead"
	"go.starlark.net/starlark"

	"github.com/ardnew/autoconfig/confdata"
	"github.com/ardnew/autoconfig/log"
	"github.com/ardnew/autoconfig/pkg"
)

const (
	directive   = "#cmakedefine"
	directive01 = "#cmakedefine01"
)

// Option configures rendering.
type Option func(*renderer)

// WithLogger sets the logger used to report missing keys.
func WithLogger(logger log.Logger) Option {
	return func(r *renderer) { r.logger = logger }
}

type renderer struct {
	snap   confdata.Snapshot
	logger log.Logger
}

// Render reads a template from r and writes the rendered result to w.
// Every output line ends with a newline.
func Render(
	ctx context.Context,
	r io.Reader,
	w io.Writer,
	snap confdata.Snapshot,
	opts ...Option,
) error {
	rn := renderer{snap: snap}

	for _, opt := range opts {
		opt(&rn)
	}

	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)
	lineno := 0

	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return ErrReadTemplate.Wrap(err)
		}

		if line == "" && err != nil {
			break
		}

		lineno++

		out, rerr := rn.line(ctx, strings.TrimRight(line, "\r\n"))
		if rerr != nil {
			return rerr.With(slog.Int("line", lineno))
		}

		if _, werr := bw.WriteString(out + "\n"); werr != nil {
			return ErrWriteOutput.Wrap(werr)
		}

		if err != nil {
			break
		}
	}

	if err := bw.Flush(); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// RenderFile renders the template at input into output. The output is
// written to a temporary file in the same directory and renamed over the
// destination, so readers never observe a partial header.
func RenderFile(
	ctx context.Context,
	input, output string,
	snap confdata.Snapshot,
	opts ...Option,
) (err error) {
	in, err := os.Open(input)
	if err != nil {
		return ErrReadTemplate.With(slog.String("file", input)).Wrap(err)
	}
	defer in.Close()

	ra := readahead.NewReader(in)
	defer ra.Close()

	tmp, err := os.CreateTemp(filepath.Dir(output), "."+filepath.Base(output)+".*")
	if err != nil {
		return ErrWriteOutput.With(slog.String("file", output)).Wrap(err)
	}

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = Render(ctx, ra, tmp, snap, opts...); err != nil {
		return err
	}

	if err = tmp.Close(); err != nil {
		return ErrWriteOutput.With(slog.String("file", output)).Wrap(err)
	}

	if err = os.Rename(tmp.Name(), output); err != nil {
		return ErrWriteOutput.With(slog.String("file", output)).Wrap(err)
	}

	return nil
}

func (r renderer) line(ctx context.Context, line string) (string, *pkg.Error) {
	switch {
	case strings.HasPrefix(line, directive01):
		fields := strings.Fields(line[len(directive01):])
		if len(fields) == 0 {
			return "", ErrMalformedDirective.Wrapf("%s: missing name", directive01)
		}

		return r.define01(ctx, fields[0]), nil

	case strings.HasPrefix(line, directive):
		fields := strings.Fields(line[len(directive):])
		if len(fields) == 0 {
			return "", ErrMalformedDirective.Wrapf("%s: missing name", directive)
		}

		key := fields[0]

		if len(fields) > 1 {
			rest := strings.Join(fields[1:], " ")
			if len(rest) > 1 && strings.HasPrefix(rest, "@") && strings.HasSuffix(rest, "@") {
				key = rest[1 : len(rest)-1]
			}
		}

		return r.define(ctx, key), nil
	}

	if e, ok := r.snap.Lookup(line); ok {
		return text(e.Value), nil
	}

	return line, nil
}

func (r renderer) define(ctx context.Context, key string) string {
	e, ok := r.snap.Lookup(key)
	if !ok {
		r.logger.DebugContext(ctx, "missing configuration key", slog.String("key", key))

		return undef(key)
	}

	switch v := e.Value.(type) {
	case string:
		return "#define " + key + " " + quote(v)
	case int64:
		return "#define " + key + " " + strconv.FormatInt(v, 10)
	case int:
		return "#define " + key + " " + strconv.Itoa(v)
	case starlark.Int:
		return "#define " + key + " " + v.String()
	case bool:
		if v {
			return "#define " + key
		}
	}

	return undef(key)
}

func (r renderer) define01(ctx context.Context, key string) string {
	e, ok := r.snap.Lookup(key)
	if !ok {
		r.logger.DebugContext(ctx, "missing configuration key", slog.String("key", key))

		return "#define " + key + " 0"
	}

	if truth(e.Value) {
		return "#define " + key + " 1"
	}

	return "#define " + key + " 0"
}

func undef(key string) string { return "/* #undef " + key + " */" }

// quote returns the C literal for s. Values that are already quoted, as
// stored by set_quoted, are emitted unchanged.
func quote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s
	}

	return starlark.String(s).String()
}

func text(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case starlark.String:
		return string(v)
	default:
		return confdata.ToStarlark(v).String()
	}
}

func truth(v any) bool {
	switch v := v.(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	case string:
		return v != ""
	case starlark.Value:
		return bool(v.Truth())
	default:
		return false
	}
}
