package cmd

import "github.com/ardnew/autoconfig/pkg"

var (
	ErrNoScript     = pkg.NewError("no build script given (use --config or a positional path)")
	ErrReadScript   = pkg.NewError("read build script")
	ErrReadConfig   = pkg.NewError("read configuration file")
	ErrWriteConfig  = pkg.NewError("write configuration file")
	ErrFileExists   = pkg.NewError("file exists (use --force to overwrite)")
	ErrYAMLMarshal  = pkg.NewError("marshal YAML")
	ErrTranslate    = pkg.NewError("translate legacy script")
	ErrWriteOutput  = pkg.NewError("write output")
	ErrToolchain    = pkg.NewError("configure toolchain")
	ErrDependencies = pkg.NewError("load dependencies")
)
