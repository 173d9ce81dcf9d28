// Package ir holds the typed intermediate representation: the AST enriched
// with, for every item, the stack type vector immediately before and after
// it, the resolved symbol handle for every identifier, and the concrete
// type-argument tuple for every generic call site. Rather than copying the
// AST into a second tree, the typed IR is represented as read-only
// side-tables keyed by the original *ast.Item pointers — the AST nodes
// already behave as arena handles, so a second arena would only duplicate
// data.
package ir

import (
	"github.com/golangee/aaa/ast"
	"github.com/golangee/aaa/resolve"
)

// Slot is one position in a stack type: a concrete resolved type together
// with its const/mutable attribute.
type Slot struct {
	Type  *resolve.ResolvedType
	Const bool
}

// Stack is a stack type vector, bottom first.
type Stack []Slot

// Program is the fully type-checked, cross-resolved IR handed to the
// backend. It is immutable after construction.
type Program struct {
	Table     *resolve.Table
	EntryFile string

	// StackBefore/StackAfter record the stack type immediately before and
	// after every analysed item.
	StackBefore map[ast.Item]Stack
	StackAfter  map[ast.Item]Stack

	// ItemSymbol records the resolved symbol handle for every identifier-
	// bearing item (IdentRef, FnLit) and every match Case.
	ItemSymbol map[ast.Item]*resolve.Symbol
	CaseSymbol map[*ast.Case]*resolve.Symbol

	// ItemNever records, for every item that never falls through to its
	// successor, that fact as a single boolean flag.
	ItemNever map[ast.Item]bool

	// CallInstantiation records the concrete type-argument tuple chosen for
	// every generic call site.
	CallInstantiation map[ast.Item]*resolve.Instantiation
}

// NewProgram creates an empty Program ready for the checker to populate.
func NewProgram(table *resolve.Table, entryFile string) *Program {
	return &Program{
		Table:             table,
		EntryFile:         entryFile,
		StackBefore:       map[ast.Item]Stack{},
		StackAfter:        map[ast.Item]Stack{},
		ItemSymbol:        map[ast.Item]*resolve.Symbol{},
		CaseSymbol:        map[*ast.Case]*resolve.Symbol{},
		ItemNever:         map[ast.Item]bool{},
		CallInstantiation: map[ast.Item]*resolve.Instantiation{},
	}
}
