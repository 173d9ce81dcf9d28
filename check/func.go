package check

import (
	"fmt"

	"github.com/golangee/aaa/ast"
	"github.com/golangee/aaa/diag"
	"github.com/golangee/aaa/ir"
	"github.com/golangee/aaa/resolve"
	"github.com/golangee/aaa/token"
)

// Checker holds the state threaded through one function's stack-effect
// analysis: the shared cross-reference table and diagnostics sink, the IR
// being populated, and this function's own substitution (its type
// parameters as opaque variables) and local-variable scope.
type Checker struct {
	table *resolve.Table
	rep   *diag.Reporter
	prog  *ir.Program

	file string
	fn   *ast.Func

	subst  []*resolve.ResolvedType
	locals *scope

	primCache  map[string]*resolve.ResolvedType
	primWarned map[string]bool
}

func newChecker(table *resolve.Table, rep *diag.Reporter, prog *ir.Program, primCache map[string]*resolve.ResolvedType, primWarned map[string]bool) *Checker {
	return &Checker{
		table:      table,
		rep:        rep,
		prog:       prog,
		primCache:  primCache,
		primWarned: primWarned,
	}
}

// checkFunc analyzes one function's body and records its IR. Builtins have
// no body and are skipped entirely: their signature is trusted as given by
// the runtime.
func (c *Checker) checkFunc(file string, fn *ast.Func) {
	if fn.Builtin {
		return
	}

	c.file = file
	c.fn = fn
	c.subst = freshOpaqueSubst(fn.TypeParams)
	c.locals = newScope()
	c.locals.push()

	entry := ir.Stack{}

	for _, arg := range fn.Args {
		t := resolveType(c.table, arg.Type, c.subst)
		entry = pushType(entry, t, arg.Const)

		c.locals.declare(c, arg.Name, arg.Begin(), &localBinding{Type: t, Const: arg.Const, Pos: arg.Begin()})
	}

	res := c.analyzeBlock(fn.Body, entry)

	if !res.Never {
		expected := wrapTypes(resolveTypeList(c.table, fn.Rets, c.subst))
		if !stackTypesEqual(res.Stack, expected) {
			c.rep.Add(token.NewPosError(fn, fmt.Sprintf(
				"%s's body ends with stack %s, but its signature declares %s",
				fn.QualifiedName(), formatStack(res.Stack), formatStack(expected))))
		}
	}

	c.locals.pop()
}

// primitiveType resolves one of the built-in scalar type names (int, bool,
// str, char) as seen from the current file, caching the lookup per file and
// warning at most once per file if the standard library doesn't define it.
func (c *Checker) primitiveType(name string) *resolve.ResolvedType {
	key := c.file + "\x00" + name

	if t, ok := c.primCache[key]; ok {
		return t
	}

	sym, ok := c.table.Lookup(c.file, name)
	if !ok {
		if !c.primWarned[key] {
			c.primWarned[key] = true
			c.rep.Add(token.NewPosError(nodeAt(token.Pos{File: c.file}), fmt.Sprintf(
				"builtin type %q is not visible here; is it imported from the standard library?", name)))
		}

		t := &resolve.ResolvedType{Named: &resolve.NamedType{}}
		c.primCache[key] = t

		return t
	}

	t := &resolve.ResolvedType{Named: &resolve.NamedType{Symbol: sym}}
	c.primCache[key] = t

	return t
}

func wrapTypes(types []*resolve.ResolvedType) ir.Stack {
	s := make(ir.Stack, len(types))
	for i, t := range types {
		s[i] = ir.Slot{Type: t}
	}

	return s
}

func isBool(t *resolve.ResolvedType) bool {
	return t != nil && t.Named != nil && t.Named.Symbol != nil && t.Named.Symbol.Name == "bool"
}

func argTypeExprs(args []*ast.Argument) []*ast.TypeExpr {
	out := make([]*ast.TypeExpr, len(args))
	for i, a := range args {
		out[i] = a.Type
	}

	return out
}
