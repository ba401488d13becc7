// Package translate converts Meson build descriptions into Starlark source.
//
// Translation is syntax-directed: each node kind of the [meson] syntax tree
// has one handler, and a node without a handler aborts the translation with
// an [*Error]. Literals and identifiers are copied verbatim (except that
// the "meson" object becomes "autoconfig" and booleans are capitalized),
// statement bodies are indented by two spaces, and comments are dropped.
//
//	out, err := translate.Source(ctx, src)
//	if errors.Is(err, translate.ErrUnsupportedNode) {
//		var te *translate.Error
//		errors.As(err, &te)
//		fmt.Fprintln(os.Stderr, te.Snippet())
//	}
package translate
