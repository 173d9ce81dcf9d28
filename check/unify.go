package check

import "github.com/golangee/aaa/resolve"

// bindings maps a call site's fresh type variables (by Var index) to the
// concrete type they were unified against.
type bindings map[int]*resolve.ResolvedType

// unify walks formal (which may contain fresh, to-be-solved type variables,
// or opaque variables standing for the caller's own type parameters)
// against actual (the concrete type found on the stack), recording variable
// bindings. It returns false on the first structural mismatch.
func unify(formal, actual *resolve.ResolvedType, b bindings) bool {
	if formal == nil || actual == nil {
		return formal == actual
	}

	if formal.IsVar && !formal.Opaque {
		if existing, ok := b[formal.Var]; ok {
			return typeEqual(existing, actual)
		}

		b[formal.Var] = actual

		return true
	}

	if actual.Never {
		// never unifies with anything on the formal side: a never-typed
		// value has already made the remainder of its branch unreachable,
		// so it imposes no constraint here.
		return true
	}

	if formal.Never {
		return actual.Never
	}

	if formal.IsVar && formal.Opaque {
		return typeEqual(formal, actual)
	}

	if formal.Fn != nil {
		if actual.Fn == nil || len(formal.Fn.Args) != len(actual.Fn.Args) || len(formal.Fn.Rets) != len(actual.Fn.Rets) {
			return false
		}

		for i := range formal.Fn.Args {
			if !unify(formal.Fn.Args[i], actual.Fn.Args[i], b) {
				return false
			}
		}

		for i := range formal.Fn.Rets {
			if !unify(formal.Fn.Rets[i], actual.Fn.Rets[i], b) {
				return false
			}
		}

		return true
	}

	if formal.Named == nil || actual.Named == nil {
		return false
	}

	if formal.Named.Symbol != actual.Named.Symbol {
		return false
	}

	if len(formal.Named.Args) != len(actual.Named.Args) {
		return false
	}

	for i := range formal.Named.Args {
		if !unify(formal.Named.Args[i], actual.Named.Args[i], b) {
			return false
		}
	}

	return true
}

// substitute applies resolved bindings to t, replacing every bound fresh
// variable with its concrete type. Unbound fresh variables and opaque
// variables pass through unchanged.
func substitute(t *resolve.ResolvedType, b bindings) *resolve.ResolvedType {
	if t == nil {
		return nil
	}

	if t.IsVar {
		if !t.Opaque {
			if bound, ok := b[t.Var]; ok {
				return bound
			}
		}

		return t
	}

	if t.Never {
		return t
	}

	if t.Fn != nil {
		return &resolve.ResolvedType{Fn: &resolve.FnType{
			Args: substituteList(t.Fn.Args, b),
			Rets: substituteList(t.Fn.Rets, b),
		}}
	}

	if t.Named == nil {
		return t
	}

	return &resolve.ResolvedType{Named: &resolve.NamedType{
		Symbol: t.Named.Symbol,
		Args:   substituteList(t.Named.Args, b),
	}}
}

func substituteList(list []*resolve.ResolvedType, b bindings) []*resolve.ResolvedType {
	if len(list) == 0 {
		return nil
	}

	out := make([]*resolve.ResolvedType, len(list))
	for i, t := range list {
		out[i] = substitute(t, b)
	}

	return out
}
