package resolve

import (
	"fmt"

	"github.com/golangee/aaa/ast"
	"github.com/golangee/aaa/diag"
	"github.com/golangee/aaa/stdlibcfg"
	"github.com/golangee/aaa/token"
)

// typeExprLinking is phase 3: every type expression in every signature and
// field is resolved to a concrete symbol (or recorded as a type-parameter
// reference), arity is validated, and the builtin/standard-library and
// associated-function-receiver rules are enforced.
func typeExprLinking(t *Table, paths []string, stdlib *stdlibcfg.Config, rep *diag.Reporter) {
	for _, path := range paths {
		file := t.Files[path]
		inStdlib := stdlib != nil && stdlib.Contains(path)

		for _, item := range file.Items {
			switch item.Kind {
			case ast.TopFunc:
				linkFunc(t, path, inStdlib, item.Func, rep)
			case ast.TopStruct:
				linkStruct(t, path, inStdlib, item.Struct, rep)
			case ast.TopEnum:
				linkEnum(t, path, item.Enum, rep)
			}
		}
	}
}

func linkFunc(t *Table, path string, inStdlib bool, fn *ast.Func, rep *diag.Reporter) {
	if fn.Builtin && !inStdlib {
		rep.Add(token.NewPosError(fn, fmt.Sprintf("builtin function %q may only be declared inside %s", fn.QualifiedName(), stdlibcfg.EnvVar)))
	}

	params := fn.TypeParams

	for _, arg := range fn.Args {
		linkTypeExpr(t, path, params, arg.Type, rep)
	}

	for _, ret := range fn.Rets {
		linkTypeExpr(t, path, params, ret, rep)
	}

	if fn.Owner != "" {
		checkReceiver(t, path, fn, rep)
	}

	if fn.Body != nil {
		linkBlockTypes(t, path, params, fn.Body, rep)
	}
}

// checkReceiver enforces that an associated function's first argument (and,
// if any return values exist, first return value) names the owning type.
func checkReceiver(t *Table, path string, fn *ast.Func, rep *diag.Reporter) {
	if len(fn.Args) == 0 || fn.Args[0].Type.Name != fn.Owner {
		rep.Add(token.NewPosError(fn, fmt.Sprintf("associated function %s:%s must take %s as its first argument", fn.Owner, fn.Name, fn.Owner)))
	}

	if len(fn.Rets) > 0 && fn.Rets[0].Name != fn.Owner {
		rep.Add(token.NewPosError(fn, fmt.Sprintf("associated function %s:%s must return %s as its first return value", fn.Owner, fn.Name, fn.Owner)))
	}
}

func linkStruct(t *Table, path string, inStdlib bool, st *ast.Struct, rep *diag.Reporter) {
	if st.Builtin && !inStdlib {
		rep.Add(token.NewPosError(st, fmt.Sprintf("builtin struct %q may only be declared inside %s", st.Name, stdlibcfg.EnvVar)))
	}

	for _, f := range st.Fields {
		linkTypeExpr(t, path, st.TypeParams, f.Type, rep)
	}
}

func linkEnum(t *Table, path string, en *ast.Enum, rep *diag.Reporter) {
	for _, v := range en.Variants {
		for _, d := range v.Data {
			if len(en.TypeParams) == 0 && d.Kind == ast.TypeNamed && len(d.Args) == 0 {
				if _, ok := t.Lookup(path, d.Name); !ok {
					rep.Add(token.NewPosError(d, fmt.Sprintf("variant %s:%s references type parameter %q but enum %s is not generic", en.Name, v.Name, d.Name, en.Name)))

					continue
				}
			}

			linkTypeExpr(t, path, en.TypeParams, d, rep)
		}
	}
}

func linkBlockTypes(t *Table, path string, params []string, b *ast.Block, rep *diag.Reporter) {
	for _, item := range b.Items {
		linkItemTypes(t, path, params, item, rep)
	}
}

func linkItemTypes(t *Table, path string, params []string, item ast.Item, rep *diag.Reporter) {
	switch n := item.(type) {
	case *ast.If:
		linkBlockTypes(t, path, params, n.Cond, rep)
		linkBlockTypes(t, path, params, n.Then, rep)

		if n.Else != nil {
			linkBlockTypes(t, path, params, n.Else, rep)
		}
	case *ast.While:
		linkBlockTypes(t, path, params, n.Cond, rep)
		linkBlockTypes(t, path, params, n.Body, rep)
	case *ast.Foreach:
		linkBlockTypes(t, path, params, n.Body, rep)
	case *ast.Use:
		linkBlockTypes(t, path, params, n.Body, rep)
	case *ast.Assign:
		linkBlockTypes(t, path, params, n.Expr, rep)
	case *ast.Match:
		for _, c := range n.Cases {
			linkBlockTypes(t, path, params, c.Body, rep)
		}

		if n.Default != nil {
			linkBlockTypes(t, path, params, n.Default, rep)
		}
	case *ast.SetField:
		linkBlockTypes(t, path, params, n.Expr, rep)
	}
}

// linkTypeExpr resolves te against the type-parameter list of the enclosing
// declaration, then the file's scope, recording the link in t and reporting
// "unknown identifiable" or arity-mismatch diagnostics.
func linkTypeExpr(t *Table, path string, params []string, te *ast.TypeExpr, rep *diag.Reporter) {
	if te == nil {
		return
	}

	switch te.Kind {
	case ast.TypeNever:
		return
	case ast.TypeFn:
		for _, a := range te.FnArgs {
			linkTypeExpr(t, path, params, a, rep)
		}

		for _, r := range te.FnRets {
			linkTypeExpr(t, path, params, r, rep)
		}

		return
	}

	for i, p := range params {
		if p == te.Name {
			if len(te.Args) != 0 {
				rep.Add(token.NewPosError(te, fmt.Sprintf("type parameter %q does not take type arguments", te.Name)))
			}

			t.TypeParamRef[te] = i

			return
		}
	}

	sym, ok := t.Lookup(path, te.Name)
	if !ok {
		rep.Add(token.NewPosError(te, fmt.Sprintf("unknown identifiable %q", te.Name)))

		return
	}

	if sym.Kind != SymStruct && sym.Kind != SymEnum {
		rep.Add(token.NewPosError(te, fmt.Sprintf("%q is a %s, not a type", te.Name, sym.Kind)))

		return
	}

	expectedArity := len(sym.TypeParams())
	if len(te.Args) != expectedArity {
		rep.Add(token.NewPosError(te, fmt.Sprintf("wrong number of type parameters for %q: found %d, expected %d", te.Name, len(te.Args), expectedArity)))
	}

	for _, arg := range te.Args {
		linkTypeExpr(t, path, params, arg, rep)
	}

	t.TypeSym[te] = sym
}
