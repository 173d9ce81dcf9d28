package check

import (
	"fmt"
	"strings"

	"github.com/golangee/aaa/ast"
	"github.com/golangee/aaa/ir"
	"github.com/golangee/aaa/resolve"
	"github.com/golangee/aaa/token"
)

// callSignature is the fraction of ast.Func the call machinery actually
// needs, so the same code can drive a real function call, an enum variant
// constructor, and a foreach iterator step through one path.
type callSignature struct {
	Args       []callArg
	Rets       []*resolve.ResolvedType
	TypeParams []string
	Never      bool
}

type callArg struct {
	Type  *resolve.ResolvedType
	Const bool
}

// call pops len(sig.Args) values off pre, unifies each against its formal
// type (instantiating fresh type variables for sig.TypeParams), and pushes
// the substituted return types. On success it also returns the concrete
// instantiation, non-nil only when sig.TypeParams is non-empty.
func (c *Checker) call(sig callSignature, sym *resolve.Symbol, pre ir.Stack, at token.Node) (post ir.Stack, never bool, inst *resolve.Instantiation, ok bool) {
	popped, rest, ok := popN(pre, len(sig.Args))
	if !ok {
		c.rep.Add(token.NewPosError(at, fmt.Sprintf(
			"stack underflow: need %d value(s), found %s", len(sig.Args), formatStack(pre))))

		return pre, false, nil, false
	}

	b := bindings{}

	for i, arg := range sig.Args {
		if !unify(arg.Type, popped[i].Type, b) {
			c.rep.Add(token.NewPosError(at, fmt.Sprintf(
				"argument %d: expected %s, found %s", i+1, typeString(arg.Type), typeString(popped[i].Type))))

			return pre, false, nil, false
		}

		if !arg.Const && popped[i].Const {
			c.rep.Add(token.NewPosError(at, fmt.Sprintf(
				"argument %d is const and cannot be passed to a mutable parameter", i+1)))
		}
	}

	if len(sig.TypeParams) > 0 && len(b) < len(sig.TypeParams) {
		c.rep.Add(token.NewPosError(at, "cannot infer all type parameters from the arguments given"))

		return pre, false, nil, false
	}

	rets := substituteList(sig.Rets, b)
	post = pushTypes(rest, rets, false)

	if len(sig.TypeParams) > 0 && sym != nil {
		argType := make([]*resolve.ResolvedType, len(sig.TypeParams))
		for i := range sig.TypeParams {
			argType[i] = b[i]
		}

		inst = c.instantiate(sym, argType)
	}

	return post, sig.Never, inst, true
}

// instantiate interns a concrete instantiation of a generic symbol in the
// table's shared cache, keyed by its stringified type-argument tuple.
func (c *Checker) instantiate(sym *resolve.Symbol, argType []*resolve.ResolvedType) *resolve.Instantiation {
	key := resolve.InstKey{Symbol: sym, TypeArgs: typeArgsKey(argType)}

	if existing, ok := c.table.Instantiations[key]; ok {
		return existing
	}

	inst := &resolve.Instantiation{Key: key, ArgType: argType}
	c.table.Instantiations[key] = inst

	return inst
}

func typeArgsKey(args []*resolve.ResolvedType) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = typeString(a)
	}

	return strings.Join(parts, ",")
}

// freshVarSubst is like freshOpaqueSubst but builds solvable (non-opaque)
// unification variables, one per call site.
func freshVarSubst(params []string) []*resolve.ResolvedType {
	out := make([]*resolve.ResolvedType, len(params))
	for i := range params {
		out[i] = &resolve.ResolvedType{IsVar: true, Var: i}
	}

	return out
}

// funcCallSignature builds the callSignature for an ordinary call to fn.
func (c *Checker) funcCallSignature(fn *ast.Func) callSignature {
	subst := freshVarSubst(fn.TypeParams)

	args := make([]callArg, len(fn.Args))
	for i, a := range fn.Args {
		args[i] = callArg{Type: resolveType(c.table, a.Type, subst), Const: a.Const}
	}

	return callSignature{
		Args:       args,
		Rets:       resolveTypeList(c.table, fn.Rets, subst),
		TypeParams: fn.TypeParams,
		Never:      fn.Never,
	}
}

// variantCallSignature builds the callSignature for constructing the enum
// variant named by variantSym: its associated data as (mutable) arguments,
// the enum itself as the sole return value. The enum's own symbol is looked
// up in the variant's defining file, since a file may import a variant
// without importing the enum type name it belongs to.
func (c *Checker) variantCallSignature(variantSym *resolve.Symbol) callSignature {
	en := variantSym.Enum
	v := variantSym.Variant
	subst := freshVarSubst(en.TypeParams)

	args := make([]callArg, len(v.Data))
	for i, d := range v.Data {
		args[i] = callArg{Type: resolveType(c.table, d, subst), Const: false}
	}

	enumSym := c.table.Decls[variantSym.File][en.Name]

	return callSignature{
		Args: args,
		Rets: []*resolve.ResolvedType{{Named: &resolve.NamedType{
			Symbol: enumSym,
			Args:   subst,
		}}},
		TypeParams: en.TypeParams,
	}
}
