package translate

import (
	"strconv"
	"strings"

	"github.com/ardnew/autoconfig/meson"
)

// handlerTable returns the translation of every supported node kind.
// Kinds absent from the table are reported as unsupported.
func handlerTable() map[meson.Kind]handler {
	table := map[meson.Kind]handler{
		meson.KindSourceFile:     (*translator).emitChildren,
		meson.KindComment:        skip,
		meson.KindExpressionStmt: statement,
		meson.KindAssignment:     statement,
		meson.KindBreak:          text("break\n"),
		meson.KindContinue:       text("continue\n"),
		meson.KindIf:             (*translator).emitChildren,
		meson.KindElif:           (*translator).emitChildren,
		meson.KindElse:           (*translator).emitChildren,
		meson.KindForeach:        foreach,
		meson.KindBlock:          block,

		meson.KindIdentifier:    identifier,
		meson.KindString:        stringLiteral,
		meson.KindNumber:        verbatim,
		meson.KindBool:          boolean,
		meson.KindList:          (*translator).emitChildren,
		meson.KindDict:          (*translator).emitChildren,
		meson.KindPair:          (*translator).emitChildren,
		meson.KindCall:          (*translator).emitChildren,
		meson.KindArguments:     (*translator).emitChildren,
		meson.KindMember:        (*translator).emitChildren,
		meson.KindSubscript:     (*translator).emitChildren,
		meson.KindParenthesized: (*translator).emitChildren,
		meson.KindBinary:        binary,
		meson.KindUnary:         (*translator).emitChildren,
		meson.KindConditional:   conditional,

		"if":         text("if "),
		"elif":       text("elif "),
		"else":       text("else"),
		"endif":      skip,
		"foreach":    text("for "),
		"endforeach": skip,
		"not":        text("not "),
		",":          text(", "),
		":":          separator,
		"-":          minus,
		"/":          text(" // "),
	}

	for _, tok := range []meson.Kind{"(", ")", "[", "]", "{", "}", "."} {
		table[tok] = verbatim
	}

	for _, op := range []meson.Kind{
		"=", "+=", "==", "!=", "<", "<=", ">", ">=",
		"+", "*", "%", "and", "or", "in", "not in",
	} {
		table[op] = text(" " + string(op) + " ")
	}

	return table
}

func skip(*translator, *meson.Node, *buffer) error { return nil }

func text(s string) handler {
	return func(_ *translator, _ *meson.Node, b *buffer) error {
		b.WriteString(s)

		return nil
	}
}

func verbatim(t *translator, n *meson.Node, b *buffer) error {
	b.WriteString(n.Text(t.src))

	return nil
}

// statement emits a simple statement on its own line.
func statement(t *translator, n *meson.Node, b *buffer) error {
	if err := t.emitChildren(n, b); err != nil {
		return err
	}

	b.WriteByte('\n')

	return nil
}

// block ends the enclosing header line and splices the indented body.
func block(t *translator, n *meson.Node, b *buffer) error {
	var body buffer

	if err := t.emitChildren(n, &body); err != nil {
		return err
	}

	b.WriteString(":\n")
	b.splice(body.String())

	return nil
}

// foreach emits a for loop. Two loop variables iterate over the items of
// a dictionary.
func foreach(t *translator, n *meson.Node, b *buffer) error {
	pairs := false
	inHeader := true

	for _, c := range n.Children {
		switch {
		case c.Kind == ",":
			pairs = true
		case c.Kind == ":":
			inHeader = false
		}

		if !inHeader && c.Named && c.Kind != meson.KindBlock &&
			c.Kind != meson.KindComment && pairs {
			b.WriteByte('(')

			if err := t.emit(c, b); err != nil {
				return err
			}

			b.WriteString(").items()")

			pairs = false

			continue
		}

		if err := t.emit(c, b); err != nil {
			return err
		}
	}

	return nil
}

func identifier(t *translator, n *meson.Node, b *buffer) error {
	name := n.Text(t.src)

	isProperty := n.ParentKind() == meson.KindMember && n.Parent.Child(2) == n
	if name == "meson" && !isProperty {
		name = "autoconfig"
	}

	b.WriteString(name)

	return nil
}

// stringLiteral emits a quoted string. Multiline strings, which have no
// escape sequences, are re-quoted onto a single line.
func stringLiteral(t *translator, n *meson.Node, b *buffer) error {
	s := n.Text(t.src)

	if len(s) >= 6 && strings.HasPrefix(s, "'''") && strings.HasSuffix(s, "'''") {
		s = strconv.Quote(s[3 : len(s)-3])
	}

	b.WriteString(s)

	return nil
}

func boolean(t *translator, n *meson.Node, b *buffer) error {
	switch n.Text(t.src) {
	case "true":
		b.WriteString("True")
	case "false":
		b.WriteString("False")
	default:
		return newError(n, t.src)
	}

	return nil
}

// separator emits the ':' of a key/value pair or a foreach header.
func separator(t *translator, n *meson.Node, b *buffer) error {
	switch n.ParentKind() {
	case meson.KindForeach:
		b.WriteString(" in ")

	case meson.KindPair:
		switch n.Parent.ParentKind() {
		case meson.KindDict:
			b.WriteString(": ")
		case meson.KindArguments:
			b.WriteString(" = ")
		default:
			return newError(n.Parent, t.src)
		}

	default:
		return newError(n, t.src)
	}

	return nil
}

func minus(_ *translator, n *meson.Node, b *buffer) error {
	if n.ParentKind() == meson.KindUnary {
		b.WriteByte('-')
	} else {
		b.WriteString(" - ")
	}

	return nil
}

// binary emits a binary expression. A negated operand of an operator that
// binds tighter than "not" keeps its grouping with parentheses.
func binary(t *translator, n *meson.Node, b *buffer) error {
	if len(n.Children) < 3 {
		return newError(n, t.src)
	}

	op := n.Child(1).Kind
	logical := op == "and" || op == "or"

	for _, c := range n.Children {
		group := !logical && c.Kind == meson.KindUnary && c.Child(0).Kind == "not"

		if group {
			b.WriteByte('(')
		}

		if err := t.emit(c, b); err != nil {
			return err
		}

		if group {
			b.WriteByte(')')
		}
	}

	return nil
}

// conditional emits "cond ? a : b" as "(a if cond else b)".
func conditional(t *translator, n *meson.Node, b *buffer) error {
	named := n.NamedChildren()
	if len(named) < 3 {
		return newError(n, t.src)
	}

	cond, yes, no := named[0], named[1], named[2]

	b.WriteByte('(')

	for i, part := range []*meson.Node{yes, cond, no} {
		switch i {
		case 1:
			b.WriteString(" if ")
		case 2:
			b.WriteString(" else ")
		}

		if err := t.emit(part, b); err != nil {
			return err
		}
	}

	b.WriteByte(')')

	return nil
}
