// Package resolve implements the cross-referencer: it
// builds the global symbol graph from every parsed file, resolves imports,
// detects import cycles, links type expressions to symbols, and realizes
// function/struct/enum signatures. Its output, a *Table, is write-once and
// read-only for the remainder of the pipeline, except for the
// Instantiations cache that the type checker fills in.
package resolve

import (
	"github.com/golangee/aaa/ast"
	"github.com/golangee/aaa/token"
)

// SymbolKind discriminates what a Symbol stands for.
type SymbolKind int

const (
	SymFunc SymbolKind = iota
	SymStruct
	SymEnum
	SymVariant
	SymTypeParam
)

func (k SymbolKind) String() string {
	switch k {
	case SymFunc:
		return "function"
	case SymStruct:
		return "struct"
	case SymEnum:
		return "enum"
	case SymVariant:
		return "enum variant"
	case SymTypeParam:
		return "type parameter"
	default:
		return "symbol"
	}
}

// Symbol is one entry of the cross-reference table: a declaration's kind,
// defining position, and kind-specific payload.
type Symbol struct {
	Kind SymbolKind
	// Name is the symbol's lookup key as used in source: the unqualified
	// name, or Owner:Name for an associated function, or Enum:Variant for a
	// variant constructor.
	Name string
	File string
	Pos  token.Pos

	Func    *ast.Func
	Struct  *ast.Struct
	Enum    *ast.Enum
	Variant *ast.Variant

	// TypeParamIndex is the position of this type parameter within its
	// owning function/struct/enum's TypeParams list (SymTypeParam only).
	TypeParamIndex int
}

func (s *Symbol) Begin() token.Pos { return s.Pos }
func (s *Symbol) End() token.Pos   { return s.Pos }

// TypeParams returns the type-parameter list of the declaration a symbol
// refers to, or nil for symbols that aren't generic-capable.
func (s *Symbol) TypeParams() []string {
	switch s.Kind {
	case SymFunc:
		return s.Func.TypeParams
	case SymStruct:
		return s.Struct.TypeParams
	case SymEnum:
		return s.Enum.TypeParams
	default:
		return nil
	}
}
