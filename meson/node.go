package meson

import (
	"strconv"
	"strings"
)

// Kind names the syntactic category of a [Node].
//
// Named kinds describe statements and expressions. Anonymous kinds are the
// literal text of the keyword or punctuation token the node was built from
// (e.g., "if", "+=", ",").
type Kind string

// Named node kinds.
const (
	KindSourceFile     Kind = "source_file"
	KindExpressionStmt Kind = "expression_statement"
	KindAssignment     Kind = "assignment_statement"
	KindIf             Kind = "if_command"
	KindElif           Kind = "elif_command"
	KindElse           Kind = "else_command"
	KindForeach        Kind = "foreach_command"
	KindBlock          Kind = "block"
	KindBreak          Kind = "keyword_break"
	KindContinue       Kind = "keyword_continue"
	KindComment        Kind = "comment"

	KindIdentifier    Kind = "identifier"
	KindString        Kind = "string"
	KindFormatString  Kind = "format_string"
	KindNumber        Kind = "number"
	KindBool          Kind = "bool"
	KindList          Kind = "list"
	KindDict          Kind = "dictionaries"
	KindPair          Kind = "pair"
	KindCall          Kind = "function_expression"
	KindArguments     Kind = "argument_list"
	KindMember        Kind = "member_expression"
	KindSubscript     Kind = "subscript_expression"
	KindBinary        Kind = "binary_expression"
	KindUnary         Kind = "unary_expression"
	KindParenthesized Kind = "parenthesized_expression"
	KindConditional   Kind = "conditional_expression"
)

// Point is a location in the source text.
// Offset is a byte offset; Line and Column are 1-based.
type Point struct {
	Offset int
	Line   int
	Column int
}

// String returns the position as "line:column".
func (p Point) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Node is a vertex of the concrete syntax tree produced by [Parse].
//
// Every token of the input except whitespace and newlines is represented by
// a leaf, so the children of a node read left to right reproduce its source.
// Trees are never modified after Parse returns.
type Node struct {
	Kind     Kind
	Named    bool
	Start    Point
	End      Point
	Children []*Node
	Parent   *Node
}

// Text returns the source text spanned by n.
func (n *Node) Text(src []byte) string {
	if n == nil || n.Start.Offset < 0 || n.End.Offset > len(src) ||
		n.Start.Offset > n.End.Offset {
		return ""
	}

	return string(src[n.Start.Offset:n.End.Offset])
}

// Child returns the i'th child of n, or nil if out of range.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}

	return n.Children[i]
}

// NamedChildren returns the named children of n in order.
func (n *Node) NamedChildren() []*Node {
	named := make([]*Node, 0, len(n.Children))

	for _, c := range n.Children {
		if c.Named {
			named = append(named, c)
		}
	}

	return named
}

// ParentKind returns the kind of n's parent, or "" at the root.
func (n *Node) ParentKind() Kind {
	if n == nil || n.Parent == nil {
		return ""
	}

	return n.Parent.Kind
}

// Walk calls fn for n and each of its descendants in depth-first order.
// Descent into a subtree stops when fn returns false for its root.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// SExpr renders the named structure of n as an S-expression, e.g.
// "(source_file (expression_statement (function_expression ...)))".
func (n *Node) SExpr() string {
	var sb strings.Builder

	n.sexpr(&sb)

	return sb.String()
}

func (n *Node) sexpr(sb *strings.Builder) {
	sb.WriteByte('(')
	sb.WriteString(string(n.Kind))

	for _, c := range n.Children {
		if !c.Named {
			continue
		}

		sb.WriteByte(' ')
		c.sexpr(sb)
	}

	sb.WriteByte(')')
}

func (n *Node) add(children ...*Node) *Node {
	for _, c := range children {
		if c == nil {
			continue
		}

		c.Parent = n
		n.Children = append(n.Children, c)

		if len(n.Children) == 1 {
			n.Start, n.End = c.Start, c.End
		}

		if c.End.Offset > n.End.Offset {
			n.End = c.End
		}
	}

	return n
}

func branch(kind Kind, children ...*Node) *Node {
	return (&Node{Kind: kind, Named: true}).add(children...)
}
