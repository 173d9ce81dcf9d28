package ast

import "github.com/golangee/aaa/token"

// Item is one element of a function body: a literal push, an identifier
// reference, a control-flow construct, or one of the struct/enum/function
// pointer forms.
type Item interface {
	token.Node
	itemNode()
}

// Block is an ordered sequence of Items, the unit every control-flow
// construct below operates on (condition-blocks, then/else blocks, loop and
// case bodies, use-block and assignment expression-blocks).
type Block struct {
	token.Position
	Items []Item
}

// Base is embedded by every concrete Item to supply its source range and
// satisfy the itemNode marker.
type Base struct {
	token.Position
}

func (Base) itemNode() {}

// LitInt is an integer literal push.
type LitInt struct {
	Base
	Value int64
}

// LitBool is a `true`/`false` literal push.
type LitBool struct {
	Base
	Value bool
}

// LitString is a string literal push.
type LitString struct {
	Base
	Value string
}

// LitChar is a char literal push.
type LitChar struct {
	Base
	Value rune
}

// IdentRef is a bare identifier reference. It may bind to a function, a
// builtin, a local, an argument, an enum constructor, or a struct
// zero-value, disambiguated by the cross-referencer.
type IdentRef struct {
	Base
	Name string
}

// If is `if Cond { Then } [else { Else }]`.
type If struct {
	Base
	Cond *Block
	Then *Block
	// Else is nil when no else-block was written.
	Else *Block
}

// While is `while Cond { Body }`.
type While struct {
	Base
	Cond *Block
	Body *Block
}

// Foreach is `foreach { Body }`, operating on the iterable on top of the
// stack.
type Foreach struct {
	Base
	Body *Block
}

// Use is `use name1 name2 ... { Body }`: pops len(Names) values, binds them
// left-to-right (rightmost name binds the original top-of-stack), and scopes
// them to Body.
type Use struct {
	Base
	Names []string
	Body  *Block
}

// Assign is `name <- { Expr }`.
type Assign struct {
	Base
	Name string
	Expr *Block
}

// Case is one `case EnumName:variant [as names...] { Body }` arm of a Match.
type Case struct {
	token.Position
	Enum    string
	Variant string
	// Names binds the variant's associated data, left to right. It is either
	// empty (nothing is bound) or exactly as long as the variant's data list.
	Names []string
	Body  *Block
}

// Match is a `match { case ... default { ... } }` item.
type Match struct {
	Base
	Cases []*Case
	// Default is nil when no default arm was written.
	Default *Block
}

// GetField is `"name" ?`: pops a struct, pushes the named field's value.
type GetField struct {
	Base
	Name string
}

// SetField is `"name" { Expr } !`: pops a struct, runs Expr (which must
// produce exactly one value), and stores it into the named field.
type SetField struct {
	Base
	Name string
	Expr *Block
}

// CallPtr is the bare `call` token: pops a function pointer and applies its
// signature to the rest of the stack.
type CallPtr struct {
	Base
}

// FnLit is `"Qualified:Name" fn`: pushes a function-pointer value referring
// to the named function or enum constructor.
type FnLit struct {
	Base
	Name string
}

// Return validates the current stack against the enclosing function's
// return types and marks everything after it unreachable.
type Return struct {
	Base
}
