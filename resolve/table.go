package resolve

import "github.com/golangee/aaa/ast"

// Table is the cross-reference table: a write-once map from qualified names
// to symbol records, plus the per-file scopes and type-expression links
// needed by the type checker. Apart from the Instantiations cache, which the
// type checker fills in at generic call sites, it must not be mutated once
// Resolve returns.
type Table struct {
	// Files holds every successfully parsed file, keyed by canonical path.
	Files map[string]*ast.File

	// Decls holds, for each file, the symbols directly defined in it (not
	// including anything it imported). Indirect re-export enforcement
	// relies on import resolution only ever consulting this map on the
	// target file.
	Decls map[string]map[string]*Symbol

	// Scopes holds, for each file, every name visible inside it: its own
	// Decls plus whatever it validly imported.
	Scopes map[string]map[string]*Symbol

	// Imports maps a file to the canonical paths of the files it imports
	// from, built during import resolution.
	Imports map[string][]string

	// TypeSym links each *ast.TypeExpr that names a concrete (non-type-
	// parameter) type to the Symbol it resolved to.
	TypeSym map[*ast.TypeExpr]*Symbol

	// TypeParamRef links each *ast.TypeExpr that refers to a type parameter
	// to its index in the owning declaration's TypeParams list.
	TypeParamRef map[*ast.TypeExpr]int

	// Instantiations caches concrete realizations of generic schemes, keyed
	// by (generic symbol, concrete type-argument tuple).
	Instantiations map[InstKey]*Instantiation
}

func newTable() *Table {
	return &Table{
		Files:        map[string]*ast.File{},
		Decls:        map[string]map[string]*Symbol{},
		Scopes:       map[string]map[string]*Symbol{},
		Imports:      map[string][]string{},
		TypeSym:        map[*ast.TypeExpr]*Symbol{},
		TypeParamRef:   map[*ast.TypeExpr]int{},
		Instantiations: map[InstKey]*Instantiation{},
	}
}

// Lookup resolves name as seen from file: its own declarations first, then
// anything it imported.
func (t *Table) Lookup(file, name string) (*Symbol, bool) {
	scope, ok := t.Scopes[file]
	if !ok {
		return nil, false
	}

	sym, ok := scope[name]

	return sym, ok
}

// SymbolOfType returns the symbol a resolved TypeExpr names, if any (it is
// absent for TypeNever, TypeFn, and type-parameter references).
func (t *Table) SymbolOfType(te *ast.TypeExpr) (*Symbol, bool) {
	sym, ok := t.TypeSym[te]

	return sym, ok
}

// TypeParamIndex returns the index into the owning declaration's TypeParams
// that te refers to, if te is a type-parameter reference.
func (t *Table) TypeParamIndex(te *ast.TypeExpr) (int, bool) {
	idx, ok := t.TypeParamRef[te]

	return idx, ok
}
