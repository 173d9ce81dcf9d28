package check

import (
	"strings"

	"github.com/golangee/aaa/ir"
	"github.com/golangee/aaa/resolve"
)

func cloneStack(s ir.Stack) ir.Stack {
	return append(ir.Stack(nil), s...)
}

func pushType(s ir.Stack, t *resolve.ResolvedType, isConst bool) ir.Stack {
	return append(cloneStack(s), ir.Slot{Type: t, Const: isConst})
}

func pushTypes(s ir.Stack, types []*resolve.ResolvedType, isConst bool) ir.Stack {
	out := cloneStack(s)
	for _, t := range types {
		out = append(out, ir.Slot{Type: t, Const: isConst})
	}

	return out
}

// popN pops the top n slots, returning them bottom-first together with the
// remaining stack. ok is false if the stack is too shallow.
func popN(s ir.Stack, n int) (popped, rest ir.Stack, ok bool) {
	if len(s) < n {
		return nil, s, false
	}

	split := len(s) - n

	return cloneStack(s[split:]), cloneStack(s[:split]), true
}

// stackTypesEqual compares two stacks by type only: branch agreement is a
// matter of shape, not mutability.
func stackTypesEqual(a, b ir.Stack) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !typeEqual(a[i].Type, b[i].Type) {
			return false
		}
	}

	return true
}

// mergeStacks combines two type-equal stacks produced by sibling branches,
// taking the const lattice's meet per slot: if either branch produced a
// const value in a slot, the merged value is const, since code after the
// merge cannot assume the branch that ran.
func mergeStacks(a, b ir.Stack) ir.Stack {
	out := make(ir.Stack, len(a))

	for i := range a {
		out[i] = ir.Slot{Type: a[i].Type, Const: a[i].Const || b[i].Const}
	}

	return out
}

func formatStack(s ir.Stack) string {
	if len(s) == 0 {
		return "<empty>"
	}

	parts := make([]string, len(s))
	for i, slot := range s {
		parts[i] = typeString(slot.Type)
	}

	return strings.Join(parts, " ")
}
