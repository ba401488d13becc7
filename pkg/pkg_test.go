package pkg

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "autoconfig"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version() != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version())
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Fatal("Expected Author to have at least one entry")
	}

	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Expected Author to contain ardnew")
	}
}

func TestError_Message(t *testing.T) {
	base := NewError("missing dependency")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"sentinel", base, "missing dependency"},
		{"wrapped", base.Wrap(errors.New("zlib")), "missing dependency: zlib"},
		{"wrapf", base.Wrapf("%s", "pixman-1"), "missing dependency: pixman-1"},
		{"bare", WrapError(errors.New("plain")), "plain"},
		{"empty", &Error{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_IsMatchesSentinel(t *testing.T) {
	sentinel := NewError("cannot mutate immutable value")
	other := NewError("cannot mutate immutable value")

	derived := sentinel.With(slog.String("key", "HAVE_FOO")).Wrapf("set")
	chained := fmt.Errorf("builtin set: %w", derived)

	if !errors.Is(derived, sentinel) {
		t.Error("derived error should match its sentinel")
	}

	if !errors.Is(chained, sentinel) {
		t.Error("chained error should match its sentinel")
	}

	if errors.Is(derived, other) {
		t.Error("derived error must not match an unrelated sentinel")
	}
}

func TestError_WithDoesNotAlias(t *testing.T) {
	base := NewError("probe failed").With(slog.String("a", "1"))
	left := base.With(slog.String("b", "2"))
	right := base.With(slog.String("c", "3"))

	if len(left.Attrs()) != 2 || len(right.Attrs()) != 2 {
		t.Fatalf("unexpected attrs: %v / %v", left.Attrs(), right.Attrs())
	}

	if left.Attrs()[1].Key != "b" || right.Attrs()[1].Key != "c" {
		t.Errorf("With must copy attributes: %v / %v", left.Attrs(), right.Attrs())
	}
}

func TestError_LogValue(t *testing.T) {
	err := NewError("sizeof failed").
		Wrap(errors.New("exit status 1")).
		With(slog.String("symbol", "long"))

	v := err.LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("LogValue kind = %v, want group", v.Kind())
	}

	keys := make([]string, 0)
	for _, a := range v.Group() {
		keys = append(keys, a.Key)
	}

	if !slices.Equal(keys, []string{"error", "cause", "symbol"}) {
		t.Errorf("LogValue keys = %v", keys)
	}
}
