package meson

import (
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNewline
	tokComment
	tokIdent
	tokNumber
	tokString
	tokFString
	tokPunct
)

type token struct {
	kind  tokenKind
	text  string
	start Point
	end   Point
	// depth is the bracket nesting level the token was read at.
	depth int
}

// punctuation lists operator tokens, longest first.
//
//nolint:gochecknoglobals
var punctuation = []string{
	"+=", "==", "!=", "<=", ">=",
	"(", ")", "[", "]", "{", "}",
	",", ":", ".", "?", "=",
	"<", ">", "+", "-", "*", "/", "%",
}

// lexer splits source text into tokens.
//
// Newlines are significant only outside brackets, where they terminate
// statements. Comments are kept as tokens so the parser can place them in
// the tree.
type lexer struct {
	input []byte
	pos   int
	line  int
	col   int
	depth int
	toks  []token
}

func lex(input []byte) ([]token, error) {
	l := &lexer{input: input, line: 1, col: 1}

	for {
		l.skipBlanks()

		if l.eof() {
			break
		}

		if err := l.next(); err != nil {
			return nil, err
		}
	}

	at := l.position()
	l.toks = append(l.toks, token{kind: tokEOF, start: at, end: at})

	return l.toks, nil
}

func (l *lexer) next() error {
	start := l.position()
	c := l.peek()

	switch {
	case c == '\n':
		l.advance()

		if l.depth == 0 && len(l.toks) > 0 &&
			l.toks[len(l.toks)-1].kind != tokNewline {
			l.emit(tokNewline, start)
		}

		return nil

	case c == '#':
		for !l.eof() && l.peek() != '\n' {
			l.advance()
		}

		l.emit(tokComment, start)

		return nil

	case c == '\'':
		return l.lexString(start, tokString)

	case c == 'f' && l.peekN(2) == "f'":
		l.advance()

		return l.lexString(start, tokFString)

	case isIdentStart(c):
		for !l.eof() && isIdentPart(l.peek()) {
			l.advance()
		}

		l.emit(tokIdent, start)

		return nil

	case isDigit(c):
		return l.lexNumber(start)
	}

	for _, p := range punctuation {
		if l.peekN(len(p)) != p {
			continue
		}

		for range len(p) {
			l.advance()
		}

		switch p {
		case "(", "[", "{":
			l.depth++
		case ")", "]", "}":
			if l.depth > 0 {
				l.depth--
			}
		}

		l.emit(tokPunct, start)

		return nil
	}

	return syntaxError(start, "unexpected character %q", c)
}

func (l *lexer) lexString(start Point, kind tokenKind) error {
	if l.peekN(3) == "'''" {
		for range 3 {
			l.advance()
		}

		for !l.eof() {
			if l.peekN(3) == "'''" {
				for range 3 {
					l.advance()
				}

				l.emit(kind, start)

				return nil
			}

			l.advance()
		}

		return syntaxError(start, "unterminated multiline string")
	}

	l.advance() // opening quote

	for !l.eof() {
		switch l.peek() {
		case '\\':
			l.advance()

			if l.eof() {
				return syntaxError(start, "unterminated string")
			}

			l.advance()

		case '\n':
			return syntaxError(start, "newline in string")

		case '\'':
			l.advance()
			l.emit(kind, start)

			return nil

		default:
			l.advance()
		}
	}

	return syntaxError(start, "unterminated string")
}

func (l *lexer) lexNumber(start Point) error {
	digit := isDigit

	if prefix := l.peekN(2); len(prefix) == 2 && prefix[0] == '0' {
		radix := true

		switch prefix[1] {
		case 'x', 'X':
			digit = isHexDigit
		case 'o', 'O':
			digit = func(r rune) bool { return r >= '0' && r <= '7' }
		case 'b', 'B':
			digit = func(r rune) bool { return r == '0' || r == '1' }
		default:
			radix = false
		}

		if radix {
			l.advance()
			l.advance()

			if l.eof() || !digit(l.peek()) {
				return syntaxError(start, "malformed number")
			}
		}
	}

	for !l.eof() && digit(l.peek()) {
		l.advance()
	}

	if !l.eof() && isIdentPart(l.peek()) {
		return syntaxError(start, "malformed number")
	}

	l.emit(tokNumber, start)

	return nil
}

func (l *lexer) emit(kind tokenKind, start Point) {
	l.toks = append(l.toks, token{
		kind:  kind,
		text:  string(l.input[start.Offset:l.pos]),
		start: start,
		end:   l.position(),
		depth: l.depth,
	})
}

func (l *lexer) skipBlanks() {
	for !l.eof() {
		switch l.peek() {
		case ' ', '\t', '\r', '\f', '\v':
			l.advance()
		default:
			return
		}
	}
}

func (l *lexer) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(l.input[l.pos:])

	return r
}

func (l *lexer) peekN(n int) string {
	if l.pos+n > len(l.input) {
		return string(l.input[l.pos:])
	}

	return string(l.input[l.pos : l.pos+n])
}

func (l *lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRune(l.input[l.pos:])

	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *lexer) position() Point {
	return Point{Offset: l.pos, Line: l.line, Column: l.col}
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
