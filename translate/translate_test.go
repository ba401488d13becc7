package translate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.starlark.net/syntax"

	"github.com/ardnew/autoconfig/meson"
)

// starlarkOptions matches the dialect options used for evaluation.
//
//nolint:gochecknoglobals
var starlarkOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

func TestSource(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name: "release flags",
			input: "if buildtype != 'debug' and buildtype != 'debugoptimized'\n" +
				"  c_args += '-DNDEBUG'\n" +
				"endif\n",
			want: "if buildtype != 'debug' and buildtype != 'debugoptimized':\n" +
				"  c_args += '-DNDEBUG'\n",
		},
		{
			name:  "keyword arguments",
			input: "project('demo', 'c', version: '1.0.0')",
			want:  "project('demo', 'c', version = '1.0.0')\n",
		},
		{
			name:  "dictionary literal",
			input: "d = {'a': 1, 'b': true}",
			want:  "d = {'a': 1, 'b': True}\n",
		},
		{
			name:  "meson object",
			input: "v = meson.project_version()",
			want:  "v = autoconfig.project_version()\n",
		},
		{
			name:  "member named meson",
			input: "v = x.meson",
			want:  "v = x.meson\n",
		},
		{
			name:  "foreach list",
			input: "foreach h : ['a.h', 'b.h']\n  message(h)\nendforeach",
			want:  "for h in ['a.h', 'b.h']:\n  message(h)\n",
		},
		{
			name:  "foreach dictionary",
			input: "foreach k, v : d\nendforeach",
			want:  "for k, v in (d).items():\n  pass\n",
		},
		{
			name: "if elif else",
			input: "if a\n  x = 1\nelif b\n  x = 2\nelse\n  x = 3\nendif\n" +
				"y = x\n",
			want: "if a:\n  x = 1\nelif b:\n  x = 2\nelse:\n  x = 3\ny = x\n",
		},
		{
			name: "nested bodies",
			input: "foreach x : xs\n  if x == 0\n    continue\n  elif x > 9\n" +
				"    break\n  endif\n  f(x)\nendforeach\n",
			want: "for x in xs:\n  if x == 0:\n    continue\n  elif x > 9:\n" +
				"    break\n  f(x)\n",
		},
		{
			name:  "ternary",
			input: "x = a ? 'y' : 'n'",
			want:  "x = ('y' if a else 'n')\n",
		},
		{
			name:  "unary minus",
			input: "x = -1 - 2",
			want:  "x = -1 - 2\n",
		},
		{
			name:  "integer division",
			input: "half = total / 2 * 3 % 4",
			want:  "half = total // 2 * 3 % 4\n",
		},
		{
			name:  "negated comparison operand",
			input: "x = not a == b",
			want:  "x = (not a) == b\n",
		},
		{
			name:  "negated logical operand",
			input: "y = not a and b",
			want:  "y = not a and b\n",
		},
		{
			name:  "membership",
			input: "x = 'a' not in l or 'b' in l",
			want:  "x = 'a' not in l or 'b' in l\n",
		},
		{
			name:  "arithmetic and subscript",
			input: "x = y[0] * 2 % 3 + (4 / 2)",
			want:  "x = y[0] * 2 % 3 + (4 / 2)\n",
		},
		{
			name:  "comments dropped",
			input: "# leading\nfoo() # trailing\nbar(\n  1, # inner\n)\n",
			want:  "foo()\nbar(1, )\n",
		},
		{
			name:  "multiline string",
			input: "x = '''a\nb'''",
			want:  "x = \"a\\nb\"\n",
		},
		{
			name:  "empty body",
			input: "if a\n  # nothing yet\nendif",
			want:  "if a:\n  pass\n",
		},
		{
			name:  "method chain",
			input: "cc = meson.get_compiler('c')\nok = cc.has_header('stdio.h', required: false)",
			want:  "cc = autoconfig.get_compiler('c')\nok = cc.has_header('stdio.h', required = False)\n",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Source(context.Background(), []byte(tt.input))
			if err != nil {
				t.Fatalf("translate error: %v", err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Source() mismatch (-want +got):\n%s", diff)
			}

			if _, err := starlarkOptions.Parse("test.star", got, 0); err != nil {
				t.Errorf("output is not valid Starlark: %v\n%s", err, got)
			}
		})
	}
}

func TestSource_CommentsAndWhitespace(t *testing.T) {
	plain := "project('p')\nif a\n  b()\nendif\n"
	noisy := "# header\n\nproject( 'p' )   # name\n\n\nif a # cond\n\n  b( )\n\nendif\n"

	want, err := Source(context.Background(), []byte(plain))
	if err != nil {
		t.Fatalf("translate error: %v", err)
	}

	got, err := Source(context.Background(), []byte(noisy))
	if err != nil {
		t.Fatalf("translate error: %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("comment and whitespace changes altered output (-want +got):\n%s", diff)
	}
}

func TestSource_Unsupported(t *testing.T) {
	src := "project('p')\nx = f'@name@'\n"

	got, err := Source(context.Background(), []byte(src))
	if err == nil {
		t.Fatal("expected error")
	}

	if got != "" {
		t.Errorf("expected no partial output, got %q", got)
	}

	if !errors.Is(err, ErrUnsupportedNode) {
		t.Errorf("expected ErrUnsupportedNode, got %v", err)
	}

	var te *Error
	if !errors.As(err, &te) {
		t.Fatalf("expected *Error, got %T", err)
	}

	want := &Error{
		Kind:   meson.KindFormatString,
		Text:   "f'@name@'",
		Line:   2,
		Column: 5,
		Source: "x = f'@name@'",
	}

	if diff := cmp.Diff(want, te); diff != "" {
		t.Errorf("error mismatch (-want +got):\n%s", diff)
	}

	if !strings.Contains(te.Error(), "2:5") ||
		!strings.Contains(te.Error(), string(meson.KindFormatString)) {
		t.Errorf("error message lacks position or kind: %q", te.Error())
	}

	snippet := te.Snippet()
	if !strings.Contains(snippet, "x = f'@name@'") || !strings.Contains(snippet, "^") {
		t.Errorf("unexpected snippet:\n%s", snippet)
	}
}

func TestSource_SyntaxError(t *testing.T) {
	_, err := Source(context.Background(), []byte("if a\n"))
	if err == nil {
		t.Fatal("expected error")
	}

	if !errors.Is(err, ErrParse) || !errors.Is(err, meson.ErrSyntax) {
		t.Errorf("expected ErrParse wrapping meson.ErrSyntax, got %v", err)
	}
}

func TestTree_UnknownKind(t *testing.T) {
	src := []byte("x")
	root := &meson.Node{
		Kind:  meson.KindSourceFile,
		Named: true,
		End:   meson.Point{Offset: 1, Line: 1, Column: 2},
	}
	child := &meson.Node{
		Kind:   "mystery",
		Named:  true,
		Start:  meson.Point{Offset: 0, Line: 1, Column: 1},
		End:    meson.Point{Offset: 1, Line: 1, Column: 2},
		Parent: root,
	}
	root.Children = []*meson.Node{child}

	_, err := Tree(context.Background(), root, src)

	var te *Error
	if !errors.As(err, &te) {
		t.Fatalf("expected *Error, got %v", err)
	}

	if te.Kind != "mystery" || te.Text != "x" {
		t.Errorf("unexpected error fields: %+v", te)
	}
}

func TestTree_DoesNotModifyTree(t *testing.T) {
	src := []byte("if a\n  b()\nendif\n")

	root, err := meson.Parse(context.Background(), src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	before := root.SExpr()

	if _, err := Tree(context.Background(), root, src); err != nil {
		t.Fatalf("translate error: %v", err)
	}

	if after := root.SExpr(); after != before {
		t.Errorf("tree changed:\nbefore: %s\nafter:  %s", before, after)
	}
}
