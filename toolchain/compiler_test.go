package toolchain

import (
	"errors"
	"slices"
	"testing"
)

func TestParseFamily(t *testing.T) {
	tests := []struct {
		input string
		want  Family
		err   bool
	}{
		{input: "gcc", want: FamilyGCC},
		{input: " Clang ", want: FamilyClang},
		{input: "msvc", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFamily(tt.input)
			if tt.err {
				if !errors.Is(err, ErrInvalidFamily) {
					t.Errorf("expected ErrInvalidFamily, got %v", err)
				}

				return
			}

			if err != nil || got != tt.want {
				t.Errorf("ParseFamily(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
			}
		})
	}
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		input string
		want  Language
		err   bool
	}{
		{input: "c", want: LanguageC},
		{input: "c++", want: LanguageCXX},
		{input: "CPP", want: LanguageCXX},
		{input: "cxx", want: LanguageCXX},
		{input: "rust", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLanguage(tt.input)
			if tt.err {
				if !errors.Is(err, ErrInvalidLanguage) {
					t.Errorf("expected ErrInvalidLanguage, got %v", err)
				}

				return
			}

			if err != nil || got != tt.want {
				t.Errorf("ParseLanguage(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
			}
		})
	}
}

func TestCompiler(t *testing.T) {
	base := []string{"-isystem", "/inc"}
	c := New(FamilyClang, "", LanguageC, base...)

	if c.Executable() != "clang" {
		t.Errorf("Executable() = %q, want clang", c.Executable())
	}

	if c.ID() != "clang" || c.Family() != FamilyClang {
		t.Errorf("ID() = %q, Family() = %q", c.ID(), c.Family())
	}

	base[1] = "/changed"
	if c.Args()[1] != "/inc" {
		t.Error("Compiler shares its argument slice with the caller")
	}

	args := c.Args()
	args[0] = "-mutated"

	if c.Args()[0] != "-isystem" {
		t.Error("Args() exposes internal state")
	}

	cxx := c.WithLanguage(LanguageCXX)
	if cxx.Language() != LanguageCXX || c.Language() != LanguageC {
		t.Errorf("WithLanguage modified the original: %s, %s", c, cxx)
	}

	if c.String() != "clang (c)" {
		t.Errorf("String() = %q", c.String())
	}

	if New(FamilyGCC, "/usr/bin/gcc-14", LanguageC).Executable() != "/usr/bin/gcc-14" {
		t.Error("explicit executable not kept")
	}
}

func TestIncludeArgs(t *testing.T) {
	got := IncludeArgs([]string{"/a", "/b"}, []string{"/q"})
	want := []string{"-isystem", "/a", "-isystem", "/b", "-iquote", "/q"}

	if !slices.Equal(got, want) {
		t.Errorf("IncludeArgs() = %q, want %q", got, want)
	}

	if len(IncludeArgs(nil, nil)) != 0 {
		t.Error("expected no arguments")
	}
}
