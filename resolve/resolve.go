package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/golangee/aaa/ast"
	"github.com/golangee/aaa/diag"
	"github.com/golangee/aaa/stdlibcfg"
	"github.com/golangee/aaa/token"
)

// Resolve runs the four cross-referencer phases over files
// (keyed by canonical path) and returns the resulting Table. Files whose
// parse already failed should not be included; files here are assumed to
// have a well-formed (if not yet semantically valid) AST.
func Resolve(files map[string]*ast.File, stdlib *stdlibcfg.Config, rep *diag.Reporter) *Table {
	t := newTable()
	t.Files = files

	paths := sortedKeys(files)

	declarationScan(t, paths, rep)
	importResolution(t, paths, rep)
	typeExprLinking(t, paths, stdlib, rep)
	signatureRealization(t, paths, rep)

	return t
}

func sortedKeys(files map[string]*ast.File) []string {
	out := make([]string, 0, len(files))
	for k := range files {
		out = append(out, k)
	}

	sort.Strings(out)

	return out
}

// declarationScan is phase 1: every top-level item is inserted under its
// qualified name; same-file collisions are reported with both sites.
func declarationScan(t *Table, paths []string, rep *diag.Reporter) {
	for _, path := range paths {
		file := t.Files[path]
		decls := map[string]*Symbol{}
		t.Decls[path] = decls

		insert := func(name string, sym *Symbol) {
			if existing, ok := decls[name]; ok {
				rep.Add(token.NewPosError(
					nodeAt(sym.Pos), fmt.Sprintf("%q is already declared", name),
					token.NewErrDetail(nodeAt(existing.Pos), fmt.Sprintf("previous declaration of %q here", name)),
				))

				return
			}

			decls[name] = sym
		}

		for _, item := range file.Items {
			switch item.Kind {
			case ast.TopFunc:
				fn := item.Func
				insert(fn.QualifiedName(), &Symbol{Kind: SymFunc, Name: fn.QualifiedName(), File: path, Pos: fn.Begin(), Func: fn})
			case ast.TopStruct:
				st := item.Struct
				insert(st.Name, &Symbol{Kind: SymStruct, Name: st.Name, File: path, Pos: st.Begin(), Struct: st})
			case ast.TopEnum:
				en := item.Enum
				insert(en.Name, &Symbol{Kind: SymEnum, Name: en.Name, File: path, Pos: en.Begin(), Enum: en})

				for _, v := range en.Variants {
					qualified := en.Name + ":" + v.Name
					insert(qualified, &Symbol{Kind: SymVariant, Name: qualified, File: path, Pos: v.Begin(), Enum: en, Variant: v})
				}
			}
		}
	}
}

// importResolution is phase 2: resolves `from "path" import A, B`, enforces
// direct-definition-only imports, and rejects cyclic import graphs.
func importResolution(t *Table, paths []string, rep *diag.Reporter) {
	for _, path := range paths {
		scope := map[string]*Symbol{}
		for name, sym := range t.Decls[path] {
			scope[name] = sym
		}

		t.Scopes[path] = scope
	}

	for _, path := range paths {
		file := t.Files[path]
		scope := t.Scopes[path]

		for _, imp := range file.Imports() {
			target := ImportPath(path, imp.Path)

			targetDecls, ok := t.Decls[target]
			if !ok {
				rep.Add(token.NewPosError(imp, fmt.Sprintf("cannot find imported file %q", imp.Path)))
				continue
			}

			t.Imports[path] = append(t.Imports[path], target)

			for _, name := range imp.Names {
				sym, ok := targetDecls[name]
				if !ok {
					if _, existsIndirectly := t.Scopes[target][name]; existsIndirectly {
						rep.Add(token.NewPosError(imp, fmt.Sprintf("%q is not directly defined in %q (indirect re-exports are forbidden)", name, imp.Path)))
					} else {
						rep.Add(token.NewPosError(imp, fmt.Sprintf("%q is not defined in %q", name, imp.Path)))
					}

					continue
				}

				if existing, collides := scope[name]; collides && existing.File == path {
					rep.Add(token.NewPosError(
						imp, fmt.Sprintf("imported name %q collides with a local declaration", name),
						token.NewErrDetail(nodeAt(existing.Pos), fmt.Sprintf("local declaration of %q here", name)),
					))

					continue
				}

				scope[name] = sym
			}
		}
	}

	detectImportCycles(t, paths, rep)
}

func detectImportCycles(t *Table, paths []string, rep *diag.Reporter) {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := map[string]int{}
	reported := map[string]bool{}

	var stack []string

	var visit func(path string)

	visit = func(path string) {
		color[path] = gray
		stack = append(stack, path)

		for _, next := range t.Imports[path] {
			switch color[next] {
			case white:
				visit(next)
			case gray:
				cycleKey := cycleSignature(stack, next)
				if !reported[cycleKey] {
					reported[cycleKey] = true
					rep.Add(token.NewPosError(importNodeTo(t.Files[path], path, next), "cyclic import: "+formatCycle(stack, next)))
				}
			}
		}

		stack = stack[:len(stack)-1]
		color[path] = black
	}

	for _, path := range paths {
		if color[path] == white {
			visit(path)
		}
	}
}

func cycleSignature(stack []string, closing string) string {
	i := indexOf(stack, closing)
	if i < 0 {
		i = 0
	}

	return strings.Join(stack[i:], "->") + "->" + closing
}

func formatCycle(stack []string, closing string) string {
	i := indexOf(stack, closing)
	if i < 0 {
		i = 0
	}

	parts := append([]string(nil), stack[i:]...)
	parts = append(parts, closing)

	return strings.Join(parts, " -> ")
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}

	return -1
}

func nodeAt(pos token.Pos) token.Node {
	return token.NewNode(pos, pos)
}

// importNodeTo finds the import item in file that targets the canonical
// path `to`, falling back to the file itself if none is found (shouldn't
// happen, since `to` only reaches the gray case via a previously recorded
// import edge).
func importNodeTo(file *ast.File, from, to string) token.Node {
	for _, imp := range file.Imports() {
		if ImportPath(from, imp.Path) == to {
			return imp
		}
	}

	return token.NewNode(token.Pos{File: from}, token.Pos{File: from})
}
