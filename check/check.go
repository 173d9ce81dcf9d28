package check

import (
	"sort"

	"github.com/golangee/aaa/diag"
	"github.com/golangee/aaa/ir"
	"github.com/golangee/aaa/resolve"
)

// Check type-checks every function in table, in import-dependency order
// (imported files before importers) and file-declaration order within a
// file, and returns the resulting typed IR. entryFile is recorded on the
// Program for the backend.
func Check(table *resolve.Table, entryFile string, rep *diag.Reporter) *ir.Program {
	prog := ir.NewProgram(table, entryFile)

	primCache := map[string]*resolve.ResolvedType{}
	primWarned := map[string]bool{}

	for _, path := range checkOrder(table) {
		file := table.Files[path]

		for _, fn := range file.Funcs() {
			c := newChecker(table, rep, prog, primCache, primWarned)
			c.checkFunc(path, fn)
		}
	}

	return prog
}

// checkOrder topologically sorts files by their import edges (a file's
// imports come before it); any cycle the cross-referencer already reported
// is broken arbitrarily rather than re-diagnosed here.
func checkOrder(table *resolve.Table) []string {
	paths := make([]string, 0, len(table.Files))
	for p := range table.Files {
		paths = append(paths, p)
	}

	sort.Strings(paths)

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)

	state := map[string]int{}

	var order []string

	var visit func(path string)

	visit = func(path string) {
		if state[path] != unvisited {
			return
		}

		state[path] = visiting

		deps := append([]string(nil), table.Imports[path]...)
		sort.Strings(deps)

		for _, dep := range deps {
			if state[dep] == visiting {
				continue
			}

			visit(dep)
		}

		state[path] = done
		order = append(order, path)
	}

	for _, path := range paths {
		visit(path)
	}

	return order
}
