package meson

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/autoconfig/log"
	"github.com/ardnew/autoconfig/pkg"
)

// Option configures a call to [Parse].
type Option func(*parser)

// WithLogger sets the logger used for parser trace output.
func WithLogger(logger log.Logger) Option {
	return func(p *parser) { p.logger = logger }
}

// keywords cannot be used as identifiers.
//
//nolint:gochecknoglobals
var keywords = map[string]bool{
	"if": true, "elif": true, "else": true, "endif": true,
	"foreach": true, "endforeach": true, "break": true, "continue": true,
	"and": true, "or": true, "not": true, "in": true,
	"true": true, "false": true,
}

// ParseReader parses a syntax tree from an io.Reader.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, pkg.WrapError(err)
	}

	return Parse(ctx, data, opts...)
}

// Parse parses Meson build-description source into a concrete syntax tree
// rooted at a [KindSourceFile] node.
func Parse(ctx context.Context, src []byte, opts ...Option) (*Node, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}

	for _, opt := range opts {
		opt(p)
	}

	stmts, err := p.parseStatements()
	if err != nil {
		return nil, err
	}

	root := branch(KindSourceFile, stmts...)
	root.Start = Point{Offset: 0, Line: 1, Column: 1}
	root.End = toks[len(toks)-1].end

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("token_count", len(toks)),
		slog.Int("statement_count", len(root.Children)))

	return root, nil
}

// parser holds the parser state.
type parser struct {
	toks []token
	pos  int
	// nested collects comments found inside brackets until the enclosing
	// statement is complete.
	nested []*Node
	logger log.Logger
}

// parseStatements parses statements until EOF or, if terminators are given,
// until one of the terminator keywords begins a line.
func (p *parser) parseStatements(terminators ...string) ([]*Node, error) {
	var out []*Node

	for {
		t := p.peek()

		switch {
		case t.kind == tokNewline:
			p.next()

			continue

		case t.kind == tokEOF:
			if len(terminators) > 0 {
				return nil, syntaxError(t.start, "expected %s before end of input",
					strings.Join(terminators, " or "))
			}

			return out, nil

		case t.kind == tokComment:
			p.next()
			out = append(out, p.leaf(t, KindComment, true))

			continue

		case t.kind == tokIdent && slices.Contains(terminators, t.text):
			return out, nil
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		stmt.add(p.nested...)
		p.nested = nil

		out = append(out, stmt)

		switch t := p.peek(); t.kind {
		case tokNewline, tokEOF, tokComment:
		default:
			return nil, syntaxError(t.start, "unexpected %s after statement",
				describe(t))
		}
	}
}

// parseStatement parses: if | foreach | break | continue | assignment |
// expression.
func (p *parser) parseStatement() (*Node, error) {
	t := p.peek()

	if t.kind == tokIdent {
		switch t.text {
		case "if":
			return p.parseIf()
		case "foreach":
			return p.parseForeach()
		case "break":
			p.next()

			return p.leaf(t, KindBreak, true), nil
		case "continue":
			p.next()

			return p.leaf(t, KindContinue, true), nil
		}
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if op := p.peek(); p.isPunct(op, "=", "+=") {
		if expr.Kind != KindIdentifier {
			return nil, syntaxError(expr.Start, "cannot assign to %s", expr.Kind)
		}

		p.next()

		rhs, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		return branch(KindAssignment, expr, p.anon(op), rhs), nil
	}

	return branch(KindExpressionStmt, expr), nil
}

// parseIf parses: 'if' expr block ('elif' expr block)* ('else' block)? 'endif'.
func (p *parser) parseIf() (*Node, error) {
	kw := p.next()

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock("elif", "else", "endif")
	if err != nil {
		return nil, err
	}

	n := branch(KindIf, p.anon(kw), cond, body)

	for p.isKeyword(p.peek(), "elif") {
		kw := p.next()

		cond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		body, err := p.parseBlock("elif", "else", "endif")
		if err != nil {
			return nil, err
		}

		n.add(branch(KindElif, p.anon(kw), cond, body))
	}

	if p.isKeyword(p.peek(), "else") {
		kw := p.next()

		body, err := p.parseBlock("endif")
		if err != nil {
			return nil, err
		}

		n.add(branch(KindElse, p.anon(kw), body))
	}

	end, err := p.expectKeyword("endif")
	if err != nil {
		return nil, err
	}

	return n.add(end), nil
}

// parseForeach parses:
// 'foreach' ident (',' ident)? ':' expr block 'endforeach'.
func (p *parser) parseForeach() (*Node, error) {
	n := branch(KindForeach, p.anon(p.next()))

	id, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}

	n.add(id)

	if t := p.peek(); p.isPunct(t, ",") {
		n.add(p.anon(p.next()))

		id, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}

		n.add(id)
	}

	colon, err := p.expectPunct(":")
	if err != nil {
		return nil, err
	}

	items, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock("endforeach")
	if err != nil {
		return nil, err
	}

	end, err := p.expectKeyword("endforeach")
	if err != nil {
		return nil, err
	}

	return n.add(colon, items, body, end), nil
}

// parseBlock parses the end of a compound statement header followed by the
// statements of its body.
func (p *parser) parseBlock(terminators ...string) (*Node, error) {
	switch t := p.peek(); t.kind {
	case tokNewline, tokComment:
	default:
		return nil, syntaxError(t.start, "expected newline, found %s", describe(t))
	}

	stmts, err := p.parseStatements(terminators...)
	if err != nil {
		return nil, err
	}

	block := branch(KindBlock, stmts...)
	if len(stmts) == 0 {
		block.Start = p.peek().start
		block.End = block.Start
	}

	return block, nil
}

// parseExpression parses: or ('?' expr ':' expr)?.
func (p *parser) parseExpression() (*Node, error) {
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if t := p.peek(); !p.isPunct(t, "?") {
		return cond, nil
	}

	q := p.anon(p.next())

	a, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	colon, err := p.expectPunct(":")
	if err != nil {
		return nil, err
	}

	b, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return branch(KindConditional, cond, q, a, colon, b), nil
}

func (p *parser) parseOr() (*Node, error) {
	return p.parseBinary(p.parseAnd, func(t token) bool {
		return p.isKeyword(t, "or")
	})
}

func (p *parser) parseAnd() (*Node, error) {
	return p.parseBinary(p.parseComparison, func(t token) bool {
		return p.isKeyword(t, "and")
	})
}

// parseComparison parses additive operands joined by relational operators,
// 'in', and 'not in'.
func (p *parser) parseComparison() (*Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()

		var op *Node

		switch {
		case p.isPunct(t, "==", "!=", "<", "<=", ">", ">="), p.isKeyword(t, "in"):
			op = p.anon(p.next())

		case p.isKeyword(t, "not") && p.isKeyword(p.peekSecond(), "in"):
			p.next()
			in := p.next()
			op = &Node{Kind: "not in", Start: t.start, End: in.end}

		default:
			return left, nil
		}

		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}

		left = branch(KindBinary, left, op, right)
	}
}

func (p *parser) parseAdditive() (*Node, error) {
	return p.parseBinary(p.parseMultiplicative, func(t token) bool {
		return p.isPunct(t, "+", "-")
	})
}

func (p *parser) parseMultiplicative() (*Node, error) {
	return p.parseBinary(p.parseUnary, func(t token) bool {
		return p.isPunct(t, "*", "/", "%")
	})
}

// parseBinary parses a left-associative chain of operands joined by
// operators accepted by isOp.
func (p *parser) parseBinary(
	operand func() (*Node, error),
	isOp func(token) bool,
) (*Node, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}

	for isOp(p.peek()) {
		op := p.anon(p.next())

		right, err := operand()
		if err != nil {
			return nil, err
		}

		left = branch(KindBinary, left, op, right)
	}

	return left, nil
}

// parseUnary parses: ('not' | '-') unary | postfix.
func (p *parser) parseUnary() (*Node, error) {
	t := p.peek()
	if !p.isKeyword(t, "not") && !p.isPunct(t, "-") {
		return p.parsePostfix()
	}

	op := p.anon(p.next())

	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	return branch(KindUnary, op, operand), nil
}

// parsePostfix parses a primary followed by any number of calls, member
// accesses, and subscripts.
func (p *parser) parsePostfix() (*Node, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()

		switch {
		case p.isPunct(t, "("):
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}

			expr = branch(KindCall, expr, args)

		case p.isPunct(t, "."):
			dot := p.anon(p.next())

			name, err := p.expectIdentifier()
			if err != nil {
				return nil, err
			}

			expr = branch(KindMember, expr, dot, name)

		case p.isPunct(t, "["):
			open := p.anon(p.next())

			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}

			closing, err := p.expectPunct("]")
			if err != nil {
				return nil, err
			}

			expr = branch(KindSubscript, expr, open, index, closing)

		default:
			return expr, nil
		}
	}
}

func (p *parser) parsePrimary() (*Node, error) {
	t := p.peek()

	switch t.kind {
	case tokIdent:
		switch {
		case t.text == "true" || t.text == "false":
			return p.leaf(p.next(), KindBool, true), nil
		case keywords[t.text]:
			return nil, syntaxError(t.start, "unexpected keyword %q", t.text)
		}

		return p.leaf(p.next(), KindIdentifier, true), nil

	case tokNumber:
		return p.leaf(p.next(), KindNumber, true), nil

	case tokString:
		return p.leaf(p.next(), KindString, true), nil

	case tokFString:
		return p.leaf(p.next(), KindFormatString, true), nil

	case tokPunct:
		switch t.text {
		case "(":
			open := p.anon(p.next())

			inner, err := p.parseExpression()
			if err != nil {
				return nil, err
			}

			closing, err := p.expectPunct(")")
			if err != nil {
				return nil, err
			}

			return branch(KindParenthesized, open, inner, closing), nil

		case "[":
			return p.parseSequence(KindList, "[", "]", p.parseExpression)

		case "{":
			return p.parseSequence(KindDict, "{", "}", p.parsePair)
		}
	}

	return nil, syntaxError(t.start, "unexpected %s", describe(t))
}

// parseArguments parses a parenthesized list of positional and keyword
// arguments.
func (p *parser) parseArguments() (*Node, error) {
	return p.parseSequence(KindArguments, "(", ")", func() (*Node, error) {
		t := p.peek()
		if t.kind == tokIdent && !keywords[t.text] &&
			p.isPunct(p.peekSecond(), ":") {
			key := p.leaf(p.next(), KindIdentifier, true)
			colon := p.anon(p.next())

			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}

			return branch(KindPair, key, colon, value), nil
		}

		return p.parseExpression()
	})
}

// parsePair parses: expr ':' expr.
func (p *parser) parsePair() (*Node, error) {
	key, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	colon, err := p.expectPunct(":")
	if err != nil {
		return nil, err
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return branch(KindPair, key, colon, value), nil
}

// parseSequence parses: open (elem (',' elem)* ','?)? close.
func (p *parser) parseSequence(
	kind Kind,
	open, closing string,
	elem func() (*Node, error),
) (*Node, error) {
	start, err := p.expectPunct(open)
	if err != nil {
		return nil, err
	}

	n := branch(kind, start)

	for !p.isPunct(p.peek(), closing) {
		e, err := elem()
		if err != nil {
			return nil, err
		}

		n.add(e)

		if !p.isPunct(p.peek(), ",") {
			break
		}

		n.add(p.anon(p.next()))
	}

	end, err := p.expectPunct(closing)
	if err != nil {
		return nil, err
	}

	return n.add(end), nil
}

func (p *parser) expectPunct(text string) (*Node, error) {
	t := p.peek()
	if !p.isPunct(t, text) {
		return nil, syntaxError(t.start, "expected %q, found %s", text, describe(t))
	}

	return p.anon(p.next()), nil
}

func (p *parser) expectKeyword(text string) (*Node, error) {
	t := p.peek()
	if !p.isKeyword(t, text) {
		return nil, syntaxError(t.start, "expected %q, found %s", text, describe(t))
	}

	return p.anon(p.next()), nil
}

func (p *parser) expectIdentifier() (*Node, error) {
	t := p.peek()
	if t.kind != tokIdent || keywords[t.text] {
		return nil, syntaxError(t.start, "expected identifier, found %s",
			describe(t))
	}

	return p.leaf(p.next(), KindIdentifier, true), nil
}

// peek returns the next significant token without consuming it.
// Comments inside brackets are moved aside as they are passed.
func (p *parser) peek() token {
	for t := p.toks[p.pos]; t.kind == tokComment && t.depth > 0; t = p.toks[p.pos] {
		p.nested = append(p.nested, p.leaf(t, KindComment, true))
		p.pos++
	}

	return p.toks[p.pos]
}

// peekSecond returns the significant token following the next one.
func (p *parser) peekSecond() token {
	p.peek()

	for i := p.pos + 1; i < len(p.toks); i++ {
		if t := p.toks[i]; t.kind != tokComment || t.depth == 0 {
			return t
		}
	}

	return p.toks[len(p.toks)-1]
}

func (p *parser) next() token {
	t := p.peek()
	if t.kind != tokEOF {
		p.pos++
	}

	return t
}

func (p *parser) isPunct(t token, texts ...string) bool {
	return t.kind == tokPunct && slices.Contains(texts, t.text)
}

func (p *parser) isKeyword(t token, text string) bool {
	return t.kind == tokIdent && t.text == text
}

func (p *parser) leaf(t token, kind Kind, named bool) *Node {
	return &Node{Kind: kind, Named: named, Start: t.start, End: t.end}
}

// anon returns an anonymous leaf whose kind is the token text.
func (p *parser) anon(t token) *Node {
	return p.leaf(t, Kind(t.text), false)
}

func describe(t token) string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokNewline:
		return "newline"
	default:
		return strconv.Quote(t.text)
	}
}
