// Package check implements the type checker: a forward
// stack-effect analysis of every function body, covering generics,
// never-typed control flow, branch/loop/match agreement, struct field
// access and function pointers.
package check

import (
	"strings"

	"github.com/golangee/aaa/ast"
	"github.com/golangee/aaa/resolve"
)

// resolveType turns a parsed type expression into a fully concrete
// resolved type, substituting type-parameter references against subst
// (indexed the same way as the owning declaration's TypeParams list).
func resolveType(table *resolve.Table, te *ast.TypeExpr, subst []*resolve.ResolvedType) *resolve.ResolvedType {
	if te == nil {
		return nil
	}

	switch te.Kind {
	case ast.TypeNever:
		return &resolve.ResolvedType{Never: true}
	case ast.TypeFn:
		return &resolve.ResolvedType{Fn: &resolve.FnType{
			Args: resolveTypeList(table, te.FnArgs, subst),
			Rets: resolveTypeList(table, te.FnRets, subst),
		}}
	}

	if idx, ok := table.TypeParamIndex(te); ok {
		if idx < len(subst) && subst[idx] != nil {
			return subst[idx]
		}

		return &resolve.ResolvedType{IsVar: true, Var: -1 - idx}
	}

	sym, _ := table.SymbolOfType(te)

	return &resolve.ResolvedType{Named: &resolve.NamedType{
		Symbol: sym,
		Args:   resolveTypeList(table, te.Args, subst),
	}}
}

func resolveTypeList(table *resolve.Table, list []*ast.TypeExpr, subst []*resolve.ResolvedType) []*resolve.ResolvedType {
	if len(list) == 0 {
		return nil
	}

	out := make([]*resolve.ResolvedType, len(list))
	for i, te := range list {
		out[i] = resolveType(table, te, subst)
	}

	return out
}

// freshOpaqueSubst builds a substitution vector where each of a
// declaration's own type parameters maps to a distinct opaque type — used
// while checking a generic function's own body, where its type parameters
// stand for some unknown-but-fixed type rather than a type to be inferred.
func freshOpaqueSubst(params []string) []*resolve.ResolvedType {
	out := make([]*resolve.ResolvedType, len(params))
	for i := range params {
		out[i] = &resolve.ResolvedType{IsVar: true, Opaque: true, Var: i}
	}

	return out
}

// typeEqual reports whether two resolved types are structurally identical.
func typeEqual(a, b *resolve.ResolvedType) bool {
	if a == nil || b == nil {
		return a == b
	}

	if a.Never || b.Never {
		return a.Never && b.Never
	}

	if a.IsVar || b.IsVar {
		return a.IsVar && b.IsVar && a.Opaque == b.Opaque && a.Var == b.Var
	}

	if a.Fn != nil || b.Fn != nil {
		if a.Fn == nil || b.Fn == nil {
			return false
		}

		return typeListEqual(a.Fn.Args, b.Fn.Args) && typeListEqual(a.Fn.Rets, b.Fn.Rets)
	}

	if a.Named == nil || b.Named == nil {
		return a.Named == b.Named
	}

	if a.Named.Symbol != b.Named.Symbol {
		return false
	}

	return typeListEqual(a.Named.Args, b.Named.Args)
}

func typeListEqual(a, b []*resolve.ResolvedType) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !typeEqual(a[i], b[i]) {
			return false
		}
	}

	return true
}

// typeString renders a resolved type for diagnostics.
func typeString(t *resolve.ResolvedType) string {
	if t == nil {
		return "?"
	}

	if t.Never {
		return "never"
	}

	if t.IsVar {
		return "?"
	}

	if t.Fn != nil {
		var sb strings.Builder

		sb.WriteString("fn[")
		writeTypeStrings(&sb, t.Fn.Args)
		sb.WriteString("][")
		writeTypeStrings(&sb, t.Fn.Rets)
		sb.WriteString("]")

		return sb.String()
	}

	if t.Named == nil || t.Named.Symbol == nil {
		return "?"
	}

	if len(t.Named.Args) == 0 {
		return t.Named.Symbol.Name
	}

	var sb strings.Builder

	sb.WriteString(t.Named.Symbol.Name)
	sb.WriteString("[")
	writeTypeStrings(&sb, t.Named.Args)
	sb.WriteString("]")

	return sb.String()
}

func writeTypeStrings(sb *strings.Builder, list []*resolve.ResolvedType) {
	for i, t := range list {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(typeString(t))
	}
}
