// Package profile provides optional runtime profiling for smartscript.
//
// Profiling is built on [github.com/pkg/profile] and is compiled in only with
// the "pprof" build tag. Without the tag every operation is a no-op and
// [Modes] reports no modes.
//
//	go build -tags pprof .
//	smartscript --pprof-mode cpu --pprof-dir ./profiles fmt page.tmpl
//	go tool pprof -http=: ./profiles/cpu.pprof
//
// The supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread, and trace. The default output directory is the "pprof"
// subdirectory of the user cache directory.
//
// Builds with the tag also register the [net/http/pprof] handlers.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
