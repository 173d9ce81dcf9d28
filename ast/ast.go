// Package ast defines the per-file abstract syntax tree produced by the
// parser: top-level items (functions, structs, enums, imports) and the
// function-body item sequences. Every node embeds
// token.Position so diagnostics can always be anchored at a source range.
package ast

import (
	"strings"

	"github.com/golangee/aaa/token"
)

// TypeExprKind discriminates the shapes a TypeExpr can take.
type TypeExprKind int

const (
	// TypeNamed is a named type, optionally with bracketed type arguments
	// (vec[int], map[str, T], Foo).
	TypeNamed TypeExprKind = iota
	// TypeFn is a function-pointer type fn[arg-types][ret-types].
	TypeFn
	// TypeNever is the never-returning marker type.
	TypeNever
)

// TypeExpr is a type expression as written in source: a named type with
// optional type arguments, a function-pointer type, or the never marker.
// Type-parameter references are syntactically identical to TypeNamed with no
// Args; resolve distinguishes them by looking the name up against the
// enclosing function/struct/enum's type parameter list.
type TypeExpr struct {
	token.Position
	Kind Kind
	Name string
	Args []*TypeExpr

	FnArgs []*TypeExpr
	FnRets []*TypeExpr
}

// Kind is an alias retained so call sites read TypeExpr.Kind naturally.
type Kind = TypeExprKind

func (t *TypeExpr) String() string {
	switch t.Kind {
	case TypeNever:
		return "never"
	case TypeFn:
		var sb strings.Builder

		sb.WriteString("fn[")
		writeTypeList(&sb, t.FnArgs)
		sb.WriteString("][")
		writeTypeList(&sb, t.FnRets)
		sb.WriteString("]")

		return sb.String()
	default:
		if len(t.Args) == 0 {
			return t.Name
		}

		var sb strings.Builder

		sb.WriteString(t.Name)
		sb.WriteString("[")
		writeTypeList(&sb, t.Args)
		sb.WriteString("]")

		return sb.String()
	}
}

func writeTypeList(sb *strings.Builder, list []*TypeExpr) {
	for i, t := range list {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(t.String())
	}
}

// Argument is one formal parameter of a function signature.
type Argument struct {
	token.Position
	Name  string
	Type  *TypeExpr
	Const bool
}

// Func is a top-level function or associated function (Owner:Name).
type Func struct {
	token.Position
	// Name is the unqualified function name.
	Name string
	// Owner is the receiver type name for an associated function
	// (Type:method), empty for a free function.
	Owner      string
	TypeParams []string
	Args       []*Argument
	Rets       []*TypeExpr
	Body       *Block
	// Builtin marks a declaration with no body, provided by the runtime.
	Builtin bool
	// Never marks a function that never returns control to its caller.
	Never bool
}

// QualifiedName returns "Owner:Name" for an associated function, or Name for
// a free function.
func (f *Func) QualifiedName() string {
	if f.Owner == "" {
		return f.Name
	}

	return f.Owner + ":" + f.Name
}

// Field is one member of a struct.
type Field struct {
	token.Position
	Name string
	Type *TypeExpr
}

// Struct is a top-level struct declaration.
type Struct struct {
	token.Position
	Name       string
	TypeParams []string
	Fields     []*Field
	// Builtin marks a type provided by the runtime with no Go-visible layout.
	Builtin bool
}

// Variant is one constructor of an enum.
type Variant struct {
	token.Position
	Name string
	// Data is the associated-data signature: nil for a unit variant, one
	// element for a single payload, more for a tuple.
	Data []*TypeExpr
}

// Enum is a top-level tagged-union declaration.
type Enum struct {
	token.Position
	Name       string
	TypeParams []string
	Variants   []*Variant
}

// Import is a top-level `from "path" import A, B` item.
type Import struct {
	token.Position
	Path  string
	Names []string
}

// TopLevelKind discriminates the item held by a TopLevel.
type TopLevelKind int

const (
	TopFunc TopLevelKind = iota
	TopStruct
	TopEnum
	TopImport
)

// TopLevel is one top-level item together with its declaration order, used
// by the cross-referencer and error reporter to keep diagnostics in
// file-declaration order.
type TopLevel struct {
	token.Position
	Kind   TopLevelKind
	Func   *Func
	Struct *Struct
	Enum   *Enum
	Import *Import
}

// File is the AST of a single source file.
type File struct {
	// Path is the canonical path the file was opened under.
	Path string
	// Items preserves top-level declaration order across kinds; Funcs,
	// Structs, Enums and Imports below are convenience views over it.
	Items []*TopLevel
}

func (f *File) Funcs() []*Func {
	var out []*Func

	for _, it := range f.Items {
		if it.Kind == TopFunc {
			out = append(out, it.Func)
		}
	}

	return out
}

func (f *File) Structs() []*Struct {
	var out []*Struct

	for _, it := range f.Items {
		if it.Kind == TopStruct {
			out = append(out, it.Struct)
		}
	}

	return out
}

func (f *File) Enums() []*Enum {
	var out []*Enum

	for _, it := range f.Items {
		if it.Kind == TopEnum {
			out = append(out, it.Enum)
		}
	}

	return out
}

func (f *File) Imports() []*Import {
	var out []*Import

	for _, it := range f.Items {
		if it.Kind == TopImport {
			out = append(out, it.Import)
		}
	}

	return out
}
