package resolve

import "github.com/golangee/aaa/diag"

// signatureRealization is phase 4, the last step before the table is handed
// to the type checker. It does no resolution work of its own — phase 3
// (typeExprLinking) already pinned down every signature, concrete or
// generic — it only allocates the Instantiations cache so check.Check can
// populate it at call sites without a nil check.
func signatureRealization(t *Table, paths []string, rep *diag.Reporter) {
	t.Instantiations = map[InstKey]*Instantiation{}
}

// InstKey identifies one concrete instantiation of a generic function or
// struct: the generic symbol together with its concrete type-argument
// tuple, stringified so it can be used as a map key.
type InstKey struct {
	Symbol   *Symbol
	TypeArgs string
}

// Instantiation is a cached, fully concrete realization of a generic
// scheme's signature.
type Instantiation struct {
	Key     InstKey
	ArgType []*ResolvedType
}

// ResolvedType is a fully concrete type (no remaining type-parameter
// placeholders): either a named type with resolved, equally concrete
// arguments, a function-pointer type, or never.
type ResolvedType struct {
	Never bool
	Fn    *FnType
	Named *NamedType

	// IsVar/Var/Opaque are used by the type checker while unifying a
	// generic call site and while checking a generic function's own body;
	// the opaque ones therefore also appear in the stacks recorded for such
	// a body in the ir.Program. Opaque vars stand for an enclosing generic
	// function's own type parameters (fixed but unknown); non-opaque vars
	// are the fresh unification variables of one call site and must end up
	// bound by the time unification finishes.
	IsVar  bool
	Var    int
	Opaque bool
}

type FnType struct {
	Args []*ResolvedType
	Rets []*ResolvedType
}

type NamedType struct {
	Symbol *Symbol
	Args   []*ResolvedType
}
