package translate

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/autoconfig/meson"
	"github.com/ardnew/autoconfig/pkg"
)

// ErrUnsupportedNode is matched by every [*Error].
var ErrUnsupportedNode = pkg.NewError("unsupported syntax")

// ErrParse wraps a failure to parse the legacy input.
var ErrParse = pkg.NewError("cannot parse legacy input")

// Error reports a syntax-tree node that has no translation.
type Error struct {
	Kind   meson.Kind
	Text   string
	Line   int
	Column int
	// Source is the full text of the line the node starts on.
	Source string
}

func newError(n *meson.Node, src []byte) *Error {
	e := &Error{
		Kind:   n.Kind,
		Text:   n.Text(src),
		Line:   n.Start.Line,
		Column: n.Start.Column,
	}

	if off := n.Start.Offset; off >= 0 && off <= len(src) {
		begin := strings.LastIndexByte(string(src[:off]), '\n') + 1

		end := len(src)
		if i := strings.IndexByte(string(src[off:]), '\n'); i >= 0 {
			end = off + i
		}

		e.Source = string(src[begin:end])
	}

	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	text, _, multiline := strings.Cut(e.Text, "\n")
	if multiline {
		text += "..."
	}

	return fmt.Sprintf("%d:%d: %s %s %s",
		e.Line, e.Column, ErrUnsupportedNode.Error(), e.Kind, strconv.Quote(text))
}

// Unwrap returns [ErrUnsupportedNode].
func (e *Error) Unwrap() error { return ErrUnsupportedNode }

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrUnsupportedNode.Error()),
		slog.String("kind", string(e.Kind)),
		slog.String("text", e.Text),
		slog.Int("line", e.Line),
		slog.Int("column", e.Column),
	)
}

//nolint:gochecknoglobals
var (
	gutterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	caretStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Snippet renders the offending source line with a caret marking the node.
func (e *Error) Snippet() string {
	if e.Source == "" {
		return ""
	}

	lineNo := strconv.Itoa(e.Line)
	gutter := gutterStyle.Render(lineNo + " | ")
	blank := gutterStyle.Render(strings.Repeat(" ", len(lineNo)) + " | ")

	width := len(e.Text)
	if i := strings.IndexByte(e.Text, '\n'); i >= 0 {
		width = i
	}

	col := max(e.Column-1, 0)
	marker := strings.Repeat(" ", col) + caretStyle.Render(strings.Repeat("^", max(width, 1)))

	return gutter + e.Source + "\n" + blank + marker
}
