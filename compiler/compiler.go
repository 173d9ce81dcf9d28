// Package compiler drives the pipeline end to end: it discovers every file
// reachable from an entry file by following imports, parses each one at
// most once, builds the cross-reference table, validates the entry point,
// and type-checks every function, aggregating diagnostics from every phase
// into one shared reporter.
package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/golangee/aaa/ast"
	"github.com/golangee/aaa/check"
	"github.com/golangee/aaa/diag"
	"github.com/golangee/aaa/ir"
	"github.com/golangee/aaa/parser"
	"github.com/golangee/aaa/resolve"
	"github.com/golangee/aaa/stdlibcfg"
)

// Result is everything a driver (the CLI, a test) needs after compilation.
type Result struct {
	Program  *ir.Program
	Reporter *diag.Reporter
}

// Compile parses entryFile and every file it transitively imports, resolves
// and type-checks the whole program, and returns the typed IR together with
// every diagnostic recorded. Program is non-nil even when the reporter has
// errors, so callers can still inspect whatever survived; the one exception
// is an entryFile whose absolute path cannot be determined, which leaves
// Program nil.
func Compile(entryFile string, stdlib *stdlibcfg.Config) *Result {
	rep := diag.NewReporter()

	entryPath, err := filepath.Abs(entryFile)
	if err != nil {
		rep.Add(fmt.Errorf("resolving %q: %w", entryFile, err))

		return &Result{Reporter: rep}
	}

	entryPath = filepath.Clean(entryPath)

	files := loadAll(entryPath, rep)

	table := resolve.Resolve(files, stdlib, rep)
	resolve.CheckMain(table, entryPath, rep)

	prog := check.Check(table, entryPath, rep)

	return &Result{Program: prog, Reporter: rep}
}

// loadAll opens entryPath and, transitively, every file it imports,
// memoizing by canonical path so a file shared by two importers is only
// ever read and parsed once. File reads are the pipeline's only blocking
// I/O; everything downstream operates purely on the resulting in-memory
// ASTs.
func loadAll(entryPath string, rep *diag.Reporter) map[string]*ast.File {
	files := map[string]*ast.File{}

	var queue []string

	seen := map[string]bool{entryPath: true}
	queue = append(queue, entryPath)

	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]

		f, err := os.Open(path)
		if err != nil {
			rep.Add(fmt.Errorf("opening %q: %w", path, err))

			continue
		}

		file, ok := parser.ParseFile(path, f, rep)

		f.Close()

		if !ok {
			continue
		}

		files[path] = file

		imports := file.Imports()
		sort.Slice(imports, func(i, j int) bool { return imports[i].Path < imports[j].Path })

		for _, imp := range imports {
			target := resolve.ImportPath(path, imp.Path)
			if seen[target] {
				continue
			}

			seen[target] = true

			queue = append(queue, target)
		}
	}

	return files
}
