// Package toolchain probes the capabilities of a native C or C++ compiler.
//
// A [Compiler] names the toolchain; a [Prober] answers questions about it by
// generating a small program for each query and running the compiler
// through a [Runner]. Every probe starts at least one subprocess, and
// results are recomputed on each call unless [WithCache] is given.
package toolchain
