// Package cli contains the command line interface for autoconfig.
//
// # Usage
//
//	autoconfig [flags] [eval] <script>
//	autoconfig translate <meson.build>
//	autoconfig init [--force]
//
// Scripts named meson.build, or any script given with --legacy, are
// translated before evaluation.
//
// # Configuration File
//
// Global flags may be set in a YAML file in the user configuration
// directory (for example, ~/.config/autoconfig/config.yaml). Keys are flag
// names with hyphens or underscores, and nested mappings join their keys
// with a hyphen:
//
//	compiler: clang
//	isystem:
//	  - /opt/sdk/include
//	log:
//	  level: debug
//
// "autoconfig init" writes such a file from the current flag values.
// Command-line flags override config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o autoconfig .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/autoconfig/pprof)
package cli
