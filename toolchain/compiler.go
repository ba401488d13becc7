package toolchain

import (
	"slices"
	"strings"
)

// Family identifies a compiler family.
type Family string

// Supported compiler families.
const (
	FamilyGCC   Family = "gcc"
	FamilyClang Family = "clang"
)

// ParseFamily returns the family named by s.
func ParseFamily(s string) (Family, error) {
	switch f := Family(strings.ToLower(strings.TrimSpace(s))); f {
	case FamilyGCC, FamilyClang:
		return f, nil
	default:
		return "", ErrInvalidFamily.Wrapf("%q", s)
	}
}

// Language identifies the source language probes are compiled as.
type Language string

// Supported languages.
const (
	LanguageC   Language = "c"
	LanguageCXX Language = "c++"
)

// ParseLanguage returns the language named by s. C++ is accepted as
// "c++", "cpp", or "cxx".
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c":
		return LanguageC, nil
	case "c++", "cpp", "cxx":
		return LanguageCXX, nil
	default:
		return "", ErrInvalidLanguage.Wrapf("%q", s)
	}
}

// Compiler identifies a toolchain: its family, executable, probe language,
// and the arguments passed to every invocation.
//
// A Compiler is an immutable value; the With methods return modified copies.
type Compiler struct {
	family     Family
	executable string
	language   Language
	args       []string
}

// New returns a Compiler. An empty executable defaults to the family name.
func New(family Family, executable string, language Language, args ...string) Compiler {
	if executable == "" {
		executable = string(family)
	}

	return Compiler{
		family:     family,
		executable: executable,
		language:   language,
		args:       slices.Clone(args),
	}
}

// Family returns the compiler family.
func (c Compiler) Family() Family { return c.family }

// Executable returns the compiler executable name or path.
func (c Compiler) Executable() string { return c.executable }

// Language returns the probe language.
func (c Compiler) Language() Language { return c.language }

// Args returns a copy of the base arguments.
func (c Compiler) Args() []string { return slices.Clone(c.args) }

// ID returns the compiler identifier reported to scripts.
func (c Compiler) ID() string { return string(c.family) }

// WithLanguage returns a copy of c that compiles probes as language l.
func (c Compiler) WithLanguage(l Language) Compiler {
	c.args = slices.Clone(c.args)
	c.language = l

	return c
}

// String returns a short description, e.g. "gcc (c)".
func (c Compiler) String() string {
	return c.executable + " (" + string(c.language) + ")"
}

// identity lists the fields that distinguish one toolchain from another.
func (c Compiler) identity() []string {
	return append([]string{string(c.family), c.executable, string(c.language)}, c.args...)
}

// IncludeArgs returns the arguments adding system and quoted include
// directories. Each flag and directory is a separate argument.
func IncludeArgs(system, quote []string) []string {
	args := make([]string, 0, 2*(len(system)+len(quote)))

	for _, dir := range system {
		args = append(args, "-isystem", dir)
	}

	for _, dir := range quote {
		args = append(args, "-iquote", dir)
	}

	return args
}
