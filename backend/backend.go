// Package backend defines the interface a code generator implements to turn
// a type-checked ir.Program into something runnable. No generator ships in
// this module yet; cmd/aaa's run and test subcommands fail with a clear
// "no backend configured" error rather than silently doing nothing.
package backend

import "github.com/golangee/aaa/ir"

// CodeGenerator turns a fully type-checked program into an executable
// artifact at outputPath. Implementations are free to interpret, transpile,
// or compile to native code; the checker's guarantees (every call site
// unified, every branch agreeing, every match exhaustive) hold regardless
// of backend.
type CodeGenerator interface {
	// Name identifies the backend for CLI flags and diagnostics.
	Name() string

	// Generate emits the artifact for prog to outputPath.
	Generate(prog *ir.Program, outputPath string) error
}

// ErrNoBackend is returned by Generate-less call sites (cmd/aaa's run/test)
// until a real CodeGenerator is registered.
type ErrNoBackend struct{}

func (ErrNoBackend) Error() string {
	return "no code generator backend is configured for this build"
}
