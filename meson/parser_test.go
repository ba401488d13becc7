package meson

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestParse_Structure(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "function call",
			input: "project('foo', 'c')",
			want: "(source_file (expression_statement (function_expression " +
				"(identifier) (argument_list (string) (string)))))",
		},
		{
			name:  "assignment",
			input: "x = 1\n",
			want:  "(source_file (assignment_statement (identifier) (number)))",
		},
		{
			name:  "append assignment",
			input: "c_args += '-DNDEBUG'",
			want:  "(source_file (assignment_statement (identifier) (string)))",
		},
		{
			name:  "if elif else",
			input: "if a\n  b()\nelif c\nelse\nendif\n",
			want: "(source_file (if_command (identifier) (block (expression_statement " +
				"(function_expression (identifier) (argument_list)))) " +
				"(elif_command (identifier) (block)) (else_command (block))))",
		},
		{
			name:  "foreach two variables",
			input: "foreach k, v : d\n  break\nendforeach",
			want: "(source_file (foreach_command (identifier) (identifier) " +
				"(identifier) (block (keyword_break))))",
		},
		{
			name:  "ternary",
			input: "x = a ? b : c",
			want: "(source_file (assignment_statement (identifier) " +
				"(conditional_expression (identifier) (identifier) (identifier))))",
		},
		{
			name:  "precedence",
			input: "x = 1 + 2 * 3",
			want: "(source_file (assignment_statement (identifier) (binary_expression " +
				"(number) (binary_expression (number) (number)))))",
		},
		{
			name:  "method call",
			input: "meson.project_version()",
			want: "(source_file (expression_statement (function_expression " +
				"(member_expression (identifier) (identifier)) (argument_list))))",
		},
		{
			name:  "dictionary with trailing comma",
			input: "d = {'a': 1,}",
			want: "(source_file (assignment_statement (identifier) " +
				"(dictionaries (pair (string) (number)))))",
		},
		{
			name:  "keyword arguments",
			input: "dependency('z', required: true)",
			want: "(source_file (expression_statement (function_expression " +
				"(identifier) (argument_list (string) (pair (identifier) (bool))))))",
		},
		{
			name:  "statement comments",
			input: "# top\nfoo() # trailing\n",
			want: "(source_file (comment) (expression_statement (function_expression " +
				"(identifier) (argument_list))) (comment))",
		},
		{
			name:  "comment inside brackets",
			input: "foo(\n  'a', # first\n  'b',\n)\n",
			want: "(source_file (expression_statement (function_expression " +
				"(identifier) (argument_list (string) (string))) (comment)))",
		},
		{
			name:  "subscript",
			input: "x = y[0]",
			want: "(source_file (assignment_statement (identifier) " +
				"(subscript_expression (identifier) (number))))",
		},
		{
			name:  "unary minus",
			input: "x = -1",
			want:  "(source_file (assignment_statement (identifier) (unary_expression (number))))",
		},
		{
			name:  "format string",
			input: "x = f'@a@'",
			want:  "(source_file (assignment_statement (identifier) (format_string)))",
		},
		{
			name:  "multiline string",
			input: "x = '''a\nb'''",
			want:  "(source_file (assignment_statement (identifier) (string)))",
		},
		{
			name:  "radix numbers",
			input: "x = [0x1f, 0o17, 0b101, 0]",
			want: "(source_file (assignment_statement (identifier) " +
				"(list (number) (number) (number) (number))))",
		},
		{
			name:  "parenthesized",
			input: "x = (a or b) and not c",
			want: "(source_file (assignment_statement (identifier) (binary_expression " +
				"(parenthesized_expression (binary_expression (identifier) (identifier))) " +
				"(unary_expression (identifier)))))",
		},
		{
			name:  "empty input",
			input: "\n\n",
			want:  "(source_file)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Parse(context.Background(), []byte(tt.input))
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if got := root.SExpr(); got != tt.want {
				t.Errorf("SExpr()\n got: %s\nwant: %s", got, tt.want)
			}
		})
	}
}

func TestParse_NotIn(t *testing.T) {
	root, err := Parse(context.Background(), []byte("x = a not in b"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	bin := root.Child(0).Child(2)
	if bin.Kind != KindBinary {
		t.Fatalf("expected %s, got %s", KindBinary, bin.Kind)
	}

	if op := bin.Child(1); op.Kind != "not in" || op.Named {
		t.Errorf("expected anonymous \"not in\" operator, got %q (named=%v)",
			op.Kind, op.Named)
	}
}

func TestParse_Positions(t *testing.T) {
	src := []byte("# header\n\nproject('demo')\n")

	root, err := Parse(context.Background(), src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	stmt := root.Child(1)
	if stmt.Start.Line != 3 || stmt.Start.Column != 1 {
		t.Errorf("expected statement at 3:1, got %s", stmt.Start)
	}

	str := stmt.Child(0).Child(1).Child(1)
	if got := str.Text(src); got != "'demo'" {
		t.Errorf("Text() = %q, want %q", got, "'demo'")
	}

	if str.Start.Column != 9 {
		t.Errorf("expected string at column 9, got %d", str.Start.Column)
	}
}

func TestParse_ParentLinks(t *testing.T) {
	src := []byte("if a == 1\n  foreach x : [1, 2]\n    f(x)\n  endforeach\nendif\n")

	root, err := Parse(context.Background(), src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	count := 0

	root.Walk(func(n *Node) bool {
		count++

		for _, c := range n.Children {
			if c.Parent != n {
				t.Errorf("child %s of %s has wrong parent", c.Kind, n.Kind)
			}

			if c.Start.Offset < n.Start.Offset || c.End.Offset > n.End.Offset {
				t.Errorf("child %s [%d,%d) outside parent %s [%d,%d)",
					c.Kind, c.Start.Offset, c.End.Offset,
					n.Kind, n.Start.Offset, n.End.Offset)
			}
		}

		return true
	})

	if count < 10 {
		t.Errorf("expected a non-trivial tree, visited %d nodes", count)
	}

	if root.ParentKind() != "" {
		t.Errorf("root ParentKind() = %q, want empty", root.ParentKind())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		pos   string
	}{
		{name: "unterminated if", input: "if a\n  b()\n", pos: "3:1"},
		{name: "unterminated call", input: "foo(", pos: "1:5"},
		{name: "unterminated string", input: "x = 'abc", pos: "1:5"},
		{name: "newline in string", input: "x = 'a\nb'", pos: "1:5"},
		{name: "assign to literal", input: "1 = 2", pos: "1:1"},
		{name: "stray endif", input: "endif", pos: "1:1"},
		{name: "two expressions", input: "x = 1 2", pos: "1:7"},
		{name: "malformed radix", input: "x = 0x", pos: "1:5"},
		{name: "unknown character", input: "x = $", pos: "1:5"},
		{name: "missing separator", input: "foo(\n  'a' 'b')", pos: "2:7"},
		{name: "header without newline", input: "if a b()\nendif", pos: "1:6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(context.Background(), []byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}

			if !errors.Is(err, ErrSyntax) {
				t.Errorf("expected ErrSyntax, got %v", err)
			}

			if !strings.Contains(err.Error(), tt.pos) {
				t.Errorf("expected position %s in %q", tt.pos, err.Error())
			}
		})
	}
}

func TestParseReader(t *testing.T) {
	root, err := ParseReader(context.Background(),
		strings.NewReader("project('x')\n"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if len(root.NamedChildren()) != 1 {
		t.Errorf("expected 1 statement, got %d", len(root.NamedChildren()))
	}
}
