// Package profile provides optional runtime profiling for autoconfig.
//
// Profiling wraps [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Start] returns a no-op and [Modes] is empty, so
// the CLI hides the mode enum.
//
// Supported modes with the tag are allocs, block, clock, cpu, goroutine,
// heap, mem, mutex, thread, and trace. A profiled evaluation that spends most
// of its time waiting on the compiler is best inspected in clock mode:
//
//	autoconfig --pprof-mode=clock --pprof-dir=/tmp/prof eval autoconfig.star
//	go tool pprof -http=: /tmp/prof/clock.pprof
package profile
