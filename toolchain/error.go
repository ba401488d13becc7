package toolchain

import "github.com/ardnew/autoconfig/pkg"

var (
	// ErrProbe is returned when a probe that must produce a value fails.
	ErrProbe = pkg.NewError("probe failed")

	// ErrSpawn is returned when the toolchain cannot be started.
	ErrSpawn = pkg.NewError("cannot run toolchain")

	ErrInvalidFamily   = pkg.NewError("invalid compiler family")
	ErrInvalidLanguage = pkg.NewError("invalid language")
)
