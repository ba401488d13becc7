package translate

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/autoconfig/log"
	"github.com/ardnew/autoconfig/meson"
)

// indentUnit is prepended to each line of a nested body.
const indentUnit = "  "

// Option configures a translation.
type Option func(*config)

type config struct {
	logger log.Logger
}

// WithLogger sets the logger used for trace output.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// Source parses Meson source and translates it into Starlark.
// On failure no partial output is returned.
func Source(ctx context.Context, src []byte, opts ...Option) (string, error) {
	cfg := makeConfig(opts...)

	root, err := meson.Parse(ctx, src, meson.WithLogger(cfg.logger))
	if err != nil {
		return "", ErrParse.Wrap(err)
	}

	return Tree(ctx, root, src, opts...)
}

// Tree translates an already-parsed syntax tree into Starlark.
// The tree is not modified; src must be the text root was parsed from.
func Tree(
	ctx context.Context,
	root *meson.Node,
	src []byte,
	opts ...Option,
) (string, error) {
	cfg := makeConfig(opts...)

	t := &translator{src: src}
	t.handlers = handlerTable()

	var buf buffer

	if err := t.emit(root, &buf); err != nil {
		cfg.logger.DebugContext(ctx, "translate failed", slog.Any("error", err))

		return "", err
	}

	cfg.logger.TraceContext(ctx, "translate complete",
		slog.Int("input_bytes", len(src)),
		slog.Int("output_bytes", buf.Len()))

	return buf.String(), nil
}

func makeConfig(opts ...Option) config {
	var c config

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// buffer accumulates translated text for one syntax subtree.
type buffer struct {
	strings.Builder
}

// splice writes body into b as an indented block, or a single "pass"
// statement if body is empty.
func (b *buffer) splice(body string) {
	if strings.TrimSpace(body) == "" {
		body = "pass\n"
	}

	for line := range strings.Lines(body) {
		b.WriteString(indentUnit)
		b.WriteString(line)
	}
}

type handler func(t *translator, n *meson.Node, b *buffer) error

// translator walks a syntax tree, dispatching each node to the handler
// registered for its kind.
type translator struct {
	src      []byte
	handlers map[meson.Kind]handler
}

func (t *translator) emit(n *meson.Node, b *buffer) error {
	h, ok := t.handlers[n.Kind]
	if !ok {
		return newError(n, t.src)
	}

	return h(t, n, b)
}

func (t *translator) emitChildren(n *meson.Node, b *buffer) error {
	for _, c := range n.Children {
		if err := t.emit(c, b); err != nil {
			return err
		}
	}

	return nil
}
