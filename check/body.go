package check

import (
	"fmt"
	"strings"

	"github.com/golangee/aaa/ast"
	"github.com/golangee/aaa/ir"
	"github.com/golangee/aaa/resolve"
	"github.com/golangee/aaa/token"
)

// blockResult is the outcome of analyzing a block: the stack it leaves
// behind, and whether control ever falls through to whatever follows it.
type blockResult struct {
	Stack ir.Stack
	Never bool
}

// analyzeBlock walks a block's items in order, threading the stack through
// each one and recording its before/after state in the IR. An item
// following one that never falls through is flagged unreachable once and
// the remainder of the block is skipped.
func (c *Checker) analyzeBlock(b *ast.Block, pre ir.Stack) blockResult {
	stack := pre
	never := false

	for _, item := range b.Items {
		if never {
			c.rep.Add(token.NewPosError(item, "unreachable code"))
			break
		}

		c.prog.StackBefore[item] = cloneStack(stack)

		res := c.analyzeItem(item, stack)

		stack = res.Stack
		never = res.Never
		c.prog.StackAfter[item] = cloneStack(stack)
		c.prog.ItemNever[item] = never
	}

	return blockResult{Stack: stack, Never: never}
}

func (c *Checker) analyzeItem(item ast.Item, pre ir.Stack) blockResult {
	switch it := item.(type) {
	case *ast.LitInt:
		return blockResult{Stack: pushType(pre, c.primitiveType("int"), false)}
	case *ast.LitBool:
		return blockResult{Stack: pushType(pre, c.primitiveType("bool"), false)}
	case *ast.LitString:
		return blockResult{Stack: pushType(pre, c.primitiveType("str"), false)}
	case *ast.LitChar:
		return blockResult{Stack: pushType(pre, c.primitiveType("char"), false)}
	case *ast.IdentRef:
		return c.analyzeIdentRef(it, pre)
	case *ast.If:
		return c.analyzeIf(it, pre)
	case *ast.While:
		return c.analyzeWhile(it, pre)
	case *ast.Foreach:
		return c.analyzeForeach(it, pre)
	case *ast.Use:
		return c.analyzeUse(it, pre)
	case *ast.Assign:
		return c.analyzeAssign(it, pre)
	case *ast.Match:
		return c.analyzeMatch(it, pre)
	case *ast.GetField:
		return c.analyzeGetField(it, pre)
	case *ast.SetField:
		return c.analyzeSetField(it, pre)
	case *ast.CallPtr:
		return c.analyzeCallPtr(it, pre)
	case *ast.FnLit:
		return c.analyzeFnLit(it, pre)
	case *ast.Return:
		return c.analyzeReturn(it, pre)
	default:
		panic(fmt.Sprintf("check: unhandled item type %T", item))
	}
}

func (c *Checker) analyzeIdentRef(it *ast.IdentRef, pre ir.Stack) blockResult {
	if !strings.Contains(it.Name, ":") {
		if b, ok := c.locals.lookup(it.Name); ok {
			return blockResult{Stack: pushType(pre, b.Type, b.Const)}
		}
	}

	sym, ok := c.table.Lookup(c.file, it.Name)
	if !ok {
		c.rep.Add(token.NewPosError(it, fmt.Sprintf("unknown identifiable %q", it.Name)))

		return blockResult{Stack: pre}
	}

	switch sym.Kind {
	case resolve.SymFunc:
		sig := c.funcCallSignature(sym.Func)

		post, never, inst, ok := c.call(sig, sym, pre, it)
		if ok {
			c.prog.ItemSymbol[it] = sym

			if inst != nil {
				c.prog.CallInstantiation[it] = inst
			}
		}

		return blockResult{Stack: post, Never: never}
	case resolve.SymStruct:
		if len(sym.Struct.TypeParams) > 0 {
			c.rep.Add(token.NewPosError(it, fmt.Sprintf(
				"cannot construct a zero value of generic struct %q without type arguments", sym.Name)))

			return blockResult{Stack: pre}
		}

		c.prog.ItemSymbol[it] = sym

		return blockResult{Stack: pushType(pre, &resolve.ResolvedType{Named: &resolve.NamedType{Symbol: sym}}, false)}
	case resolve.SymEnum:
		c.rep.Add(token.NewPosError(it, fmt.Sprintf("%q names an enum type; use one of its variants instead", sym.Name)))

		return blockResult{Stack: pre}
	case resolve.SymVariant:
		sig := c.variantCallSignature(sym)

		post, never, inst, ok := c.call(sig, sym, pre, it)
		if ok {
			c.prog.ItemSymbol[it] = sym

			if inst != nil {
				c.prog.CallInstantiation[it] = inst
			}
		}

		return blockResult{Stack: post, Never: never}
	default:
		c.rep.Add(token.NewPosError(it, fmt.Sprintf("%q is a type parameter, not a value", sym.Name)))

		return blockResult{Stack: pre}
	}
}

// analyzeExactlyOnePush requires block, analyzed starting from pre, to
// leave pre's values untouched below exactly one new value on top —
// condition-blocks and single-value expression-blocks share this shape.
func (c *Checker) analyzeExactlyOnePush(block *ast.Block, pre ir.Stack, context string) (slot ir.Slot, never bool, ok bool) {
	res := c.analyzeBlock(block, pre)
	if res.Never {
		return ir.Slot{}, true, true
	}

	if len(res.Stack) != len(pre)+1 || !stackTypesEqual(res.Stack[:len(pre)], pre) {
		c.rep.Add(token.NewPosError(block, fmt.Sprintf(
			"%s must push exactly one value onto the incoming stack, found %s", context, formatStack(res.Stack))))

		return ir.Slot{}, false, false
	}

	return res.Stack[len(res.Stack)-1], false, true
}

func (c *Checker) requireBoolCond(block *ast.Block, pre ir.Stack, context string) (never bool, ok bool) {
	slot, never, ok := c.analyzeExactlyOnePush(block, pre, context)
	if never || !ok {
		return never, ok
	}

	if !isBool(slot.Type) {
		c.rep.Add(token.NewPosError(block, fmt.Sprintf("%s must push a bool, found %s", context, typeString(slot.Type))))

		return false, false
	}

	return false, true
}

func (c *Checker) analyzeIf(it *ast.If, pre ir.Stack) blockResult {
	condNever, _ := c.requireBoolCond(it.Cond, pre, "an if-condition")
	if condNever {
		return blockResult{Stack: pre, Never: true}
	}

	thenRes := c.analyzeBlock(it.Then, pre)

	if it.Else == nil {
		if !thenRes.Never && !stackTypesEqual(thenRes.Stack, pre) {
			c.rep.Add(token.NewPosError(it.Then, fmt.Sprintf(
				"then-block without an else must leave the stack unchanged, found %s", formatStack(thenRes.Stack))))
		}

		return blockResult{Stack: pre}
	}

	elseRes := c.analyzeBlock(it.Else, pre)

	switch {
	case thenRes.Never && elseRes.Never:
		return blockResult{Stack: pre, Never: true}
	case thenRes.Never:
		return blockResult{Stack: elseRes.Stack}
	case elseRes.Never:
		return blockResult{Stack: thenRes.Stack}
	default:
		if !stackTypesEqual(thenRes.Stack, elseRes.Stack) {
			c.rep.Add(token.NewPosError(it, fmt.Sprintf(
				"if/else branches disagree: then leaves %s, else leaves %s",
				formatStack(thenRes.Stack), formatStack(elseRes.Stack))))

			return blockResult{Stack: thenRes.Stack}
		}

		return blockResult{Stack: mergeStacks(thenRes.Stack, elseRes.Stack)}
	}
}

func (c *Checker) analyzeWhile(it *ast.While, pre ir.Stack) blockResult {
	condNever, _ := c.requireBoolCond(it.Cond, pre, "a while-condition")
	if condNever {
		return blockResult{Stack: pre, Never: true}
	}

	bodyRes := c.analyzeBlock(it.Body, pre)
	if !bodyRes.Never && !stackTypesEqual(bodyRes.Stack, pre) {
		c.rep.Add(token.NewPosError(it.Body, fmt.Sprintf(
			"while-body must leave the stack as found to loop, found %s", formatStack(bodyRes.Stack))))
	}

	return blockResult{Stack: pre}
}

func (c *Checker) analyzeForeach(it *ast.Foreach, pre ir.Stack) blockResult {
	popped, rest, ok := popN(pre, 1)
	if !ok {
		c.rep.Add(token.NewPosError(it, "foreach requires an iterable value on top of the stack"))

		return blockResult{Stack: pre}
	}

	container := popped[0]
	if container.Type == nil || container.Type.Named == nil || container.Type.Named.Symbol == nil {
		c.rep.Add(token.NewPosError(it, fmt.Sprintf("foreach: %s is not iterable", typeString(container.Type))))

		return blockResult{Stack: rest}
	}

	containerSym := container.Type.Named.Symbol

	iterSym, ok := c.table.Lookup(c.file, containerSym.Name+":iter")
	if !ok || iterSym.Kind != resolve.SymFunc || len(iterSym.Func.Args) != 1 {
		c.rep.Add(token.NewPosError(it, fmt.Sprintf("type %q has no :iter method and cannot be used in foreach", containerSym.Name)))

		return blockResult{Stack: rest}
	}

	iterSig := callSignature{
		Args: []callArg{{
			Type:  resolveType(c.table, iterSym.Func.Args[0].Type, container.Type.Named.Args),
			Const: iterSym.Func.Args[0].Const,
		}},
		Rets: resolveTypeList(c.table, iterSym.Func.Rets, container.Type.Named.Args),
	}

	iterPost, _, _, ok := c.call(iterSig, nil, ir.Stack{container}, it)
	if !ok || len(iterPost) != 1 {
		c.rep.Add(token.NewPosError(it, fmt.Sprintf("%s:iter must return exactly one iterator value", containerSym.Name)))

		return blockResult{Stack: rest}
	}

	iterSlot := iterPost[0]
	if iterSlot.Type.Named == nil || iterSlot.Type.Named.Symbol == nil {
		c.rep.Add(token.NewPosError(it, fmt.Sprintf("%s:iter does not return an iterator type", containerSym.Name)))

		return blockResult{Stack: rest}
	}

	iterTypeSym := iterSlot.Type.Named.Symbol

	nextSym, ok := c.table.Lookup(c.file, iterTypeSym.Name+":next")
	if !ok || nextSym.Kind != resolve.SymFunc || len(nextSym.Func.Args) != 1 || len(nextSym.Func.Rets) == 0 {
		c.rep.Add(token.NewPosError(it, fmt.Sprintf("iterator %q has no usable :next method", iterTypeSym.Name)))

		return blockResult{Stack: rest}
	}

	nextRets := resolveTypeList(c.table, nextSym.Func.Rets, iterSlot.Type.Named.Args)
	if !isBool(nextRets[len(nextRets)-1]) {
		c.rep.Add(token.NewPosError(it, fmt.Sprintf("%s:next must return a bool continuation flag last", iterTypeSym.Name)))

		return blockResult{Stack: rest}
	}

	itemTypes := nextRets[:len(nextRets)-1]
	bodyPre := pushTypes(rest, itemTypes, false)

	bodyRes := c.analyzeBlock(it.Body, bodyPre)
	if !bodyRes.Never && !stackTypesEqual(bodyRes.Stack, rest) {
		c.rep.Add(token.NewPosError(it.Body, fmt.Sprintf(
			"foreach-body must leave the stack as found before the per-item values, found %s", formatStack(bodyRes.Stack))))
	}

	return blockResult{Stack: rest}
}

func (c *Checker) analyzeUse(it *ast.Use, pre ir.Stack) blockResult {
	popped, rest, ok := popN(pre, len(it.Names))
	if !ok {
		c.rep.Add(token.NewPosError(it, fmt.Sprintf(
			"use needs %d value(s), found %s", len(it.Names), formatStack(pre))))

		return blockResult{Stack: pre}
	}

	c.locals.push()

	for i, name := range it.Names {
		c.locals.declare(c, name, it.Begin(), &localBinding{Type: popped[i].Type, Const: popped[i].Const, Pos: it.Begin()})
	}

	bodyRes := c.analyzeBlock(it.Body, rest)

	c.locals.pop()

	return bodyRes
}

func (c *Checker) analyzeAssign(it *ast.Assign, pre ir.Stack) blockResult {
	slot, never, ok := c.analyzeExactlyOnePush(it.Expr, pre, "an assignment's expression-block")
	if never {
		return blockResult{Stack: pre, Never: true}
	}

	if !ok {
		return blockResult{Stack: pre}
	}

	c.locals.declare(c, it.Name, it.Begin(), &localBinding{Type: slot.Type, Const: slot.Const, Pos: it.Begin()})

	return blockResult{Stack: pre}
}

func (c *Checker) analyzeGetField(it *ast.GetField, pre ir.Stack) blockResult {
	popped, rest, ok := popN(pre, 1)
	if !ok {
		c.rep.Add(token.NewPosError(it, "cannot read a field: the stack is empty"))

		return blockResult{Stack: pre}
	}

	base := popped[0]

	sym, field := c.lookupField(base.Type, it.Name)
	if sym == nil {
		c.rep.Add(token.NewPosError(it, fmt.Sprintf("cannot read a field on non-struct value %s", typeString(base.Type))))

		return blockResult{Stack: rest}
	}

	if field == nil {
		c.rep.Add(token.NewPosError(it, fmt.Sprintf("struct %q has no field %q", sym.Name, it.Name)))

		return blockResult{Stack: rest}
	}

	c.prog.ItemSymbol[it] = sym

	fieldType := resolveType(c.table, field.Type, base.Type.Named.Args)

	return blockResult{Stack: pushType(rest, fieldType, base.Const)}
}

func (c *Checker) analyzeSetField(it *ast.SetField, pre ir.Stack) blockResult {
	popped, rest, ok := popN(pre, 1)
	if !ok {
		c.rep.Add(token.NewPosError(it, "cannot set a field: the stack is empty"))

		return blockResult{Stack: pre}
	}

	base := popped[0]

	sym, field := c.lookupField(base.Type, it.Name)
	if sym == nil {
		c.rep.Add(token.NewPosError(it, fmt.Sprintf("cannot set a field on non-struct value %s", typeString(base.Type))))

		return blockResult{Stack: rest}
	}

	if field == nil {
		c.rep.Add(token.NewPosError(it, fmt.Sprintf("struct %q has no field %q", sym.Name, it.Name)))

		return blockResult{Stack: rest}
	}

	if base.Const {
		c.rep.Add(token.NewPosError(it, fmt.Sprintf("cannot set field %q of a const value", it.Name)))
	}

	c.prog.ItemSymbol[it] = sym

	fieldType := resolveType(c.table, field.Type, base.Type.Named.Args)

	slot, never, ok := c.analyzeExactlyOnePush(it.Expr, rest, fmt.Sprintf("field %q's expression-block", it.Name))
	if never {
		return blockResult{Stack: pre, Never: true}
	}

	if ok && !typeEqual(slot.Type, fieldType) {
		c.rep.Add(token.NewPosError(it.Expr, fmt.Sprintf(
			"cannot assign %s to field %q of type %s", typeString(slot.Type), it.Name, typeString(fieldType))))
	}

	return blockResult{Stack: rest}
}

// lookupField resolves name against t's struct fields. sym is nil if t
// isn't a struct type at all; field is nil if the struct has no such field.
func (c *Checker) lookupField(t *resolve.ResolvedType, name string) (sym *resolve.Symbol, field *ast.Field) {
	if t == nil || t.Named == nil || t.Named.Symbol == nil || t.Named.Symbol.Kind != resolve.SymStruct {
		return nil, nil
	}

	sym = t.Named.Symbol

	for _, f := range sym.Struct.Fields {
		if f.Name == name {
			return sym, f
		}
	}

	return sym, nil
}

func (c *Checker) analyzeCallPtr(it *ast.CallPtr, pre ir.Stack) blockResult {
	popped, rest, ok := popN(pre, 1)
	if !ok {
		c.rep.Add(token.NewPosError(it, "cannot call: the stack is empty"))

		return blockResult{Stack: pre}
	}

	fp := popped[0]
	if fp.Type == nil || fp.Type.Fn == nil {
		c.rep.Add(token.NewPosError(it, fmt.Sprintf("cannot call: top of stack is %s, not a function pointer", typeString(fp.Type))))

		return blockResult{Stack: rest}
	}

	args, rest2, ok := popN(rest, len(fp.Type.Fn.Args))
	if !ok {
		c.rep.Add(token.NewPosError(it, fmt.Sprintf(
			"call needs %d value(s), found %s", len(fp.Type.Fn.Args), formatStack(rest))))

		return blockResult{Stack: rest}
	}

	for i, formal := range fp.Type.Fn.Args {
		if !typeEqual(formal, args[i].Type) {
			c.rep.Add(token.NewPosError(it, fmt.Sprintf(
				"argument %d: expected %s, found %s", i+1, typeString(formal), typeString(args[i].Type))))
		}
	}

	return blockResult{Stack: pushTypes(rest2, fp.Type.Fn.Rets, false)}
}

func (c *Checker) analyzeFnLit(it *ast.FnLit, pre ir.Stack) blockResult {
	sym, ok := c.table.Lookup(c.file, it.Name)
	if !ok {
		c.rep.Add(token.NewPosError(it, fmt.Sprintf("unknown identifiable %q", it.Name)))

		return blockResult{Stack: pre}
	}

	switch sym.Kind {
	case resolve.SymFunc:
		if len(sym.Func.TypeParams) > 0 {
			c.rep.Add(token.NewPosError(it, fmt.Sprintf(
				"cannot take a function pointer to generic function %q without a concrete instantiation", sym.Name)))

			return blockResult{Stack: pre}
		}

		fnType := &resolve.ResolvedType{Fn: &resolve.FnType{
			Args: resolveTypeList(c.table, argTypeExprs(sym.Func.Args), nil),
			Rets: resolveTypeList(c.table, sym.Func.Rets, nil),
		}}

		c.prog.ItemSymbol[it] = sym

		return blockResult{Stack: pushType(pre, fnType, false)}
	case resolve.SymVariant:
		if len(sym.Enum.TypeParams) > 0 {
			c.rep.Add(token.NewPosError(it, fmt.Sprintf(
				"cannot take a function pointer to generic enum constructor %q without a concrete instantiation", sym.Name)))

			return blockResult{Stack: pre}
		}

		enumSym := c.table.Decls[sym.File][sym.Enum.Name]
		fnType := &resolve.ResolvedType{Fn: &resolve.FnType{
			Args: resolveTypeList(c.table, sym.Variant.Data, nil),
			Rets: []*resolve.ResolvedType{{Named: &resolve.NamedType{Symbol: enumSym}}},
		}}

		c.prog.ItemSymbol[it] = sym

		return blockResult{Stack: pushType(pre, fnType, false)}
	default:
		c.rep.Add(token.NewPosError(it, fmt.Sprintf("%q cannot be used as a function pointer", sym.Name)))

		return blockResult{Stack: pre}
	}
}

func (c *Checker) analyzeReturn(it *ast.Return, pre ir.Stack) blockResult {
	expected := wrapTypes(resolveTypeList(c.table, c.fn.Rets, c.subst))

	if !stackTypesEqual(pre, expected) {
		c.rep.Add(token.NewPosError(it, fmt.Sprintf(
			"return: stack is %s, but the function declares %s", formatStack(pre), formatStack(expected))))
	}

	return blockResult{Stack: pre, Never: true}
}

func (c *Checker) analyzeMatch(it *ast.Match, pre ir.Stack) blockResult {
	popped, rest, ok := popN(pre, 1)
	if !ok {
		c.rep.Add(token.NewPosError(it, "match requires a value on top of the stack"))

		return blockResult{Stack: pre}
	}

	subj := popped[0]
	if subj.Type == nil || subj.Type.Named == nil || subj.Type.Named.Symbol == nil || subj.Type.Named.Symbol.Kind != resolve.SymEnum {
		c.rep.Add(token.NewPosError(it, fmt.Sprintf("match requires an enum value on top of the stack, found %s", typeString(subj.Type))))

		return blockResult{Stack: rest}
	}

	enumSym := subj.Type.Named.Symbol
	en := enumSym.Enum

	seen := map[string]bool{}

	var results []blockResult

	for _, cs := range it.Cases {
		if cs.Enum != en.Name {
			c.rep.Add(token.NewPosError(cs, fmt.Sprintf("case names %q but match is on %q", cs.Enum, en.Name)))

			continue
		}

		var variant *ast.Variant

		for _, v := range en.Variants {
			if v.Name == cs.Variant {
				variant = v

				break
			}
		}

		if variant == nil {
			c.rep.Add(token.NewPosError(cs, fmt.Sprintf("enum %q has no variant %q", en.Name, cs.Variant)))

			continue
		}

		if seen[variant.Name] {
			c.rep.Add(token.NewPosError(cs, fmt.Sprintf("variant %q is already handled by an earlier case", variant.Name)))

			continue
		}

		seen[variant.Name] = true

		if len(cs.Names) != 0 && len(cs.Names) != len(variant.Data) {
			c.rep.Add(token.NewPosError(cs, fmt.Sprintf(
				"case binds %d name(s) but variant %q carries %d value(s)", len(cs.Names), variant.Name, len(variant.Data))))
		}

		c.locals.push()

		if len(cs.Names) == len(variant.Data) {
			for i, name := range cs.Names {
				dt := resolveType(c.table, variant.Data[i], subj.Type.Named.Args)
				c.locals.declare(c, name, cs.Begin(), &localBinding{Type: dt, Const: subj.Const, Pos: cs.Begin()})
			}
		}

		caseRes := c.analyzeBlock(cs.Body, rest)

		c.locals.pop()

		results = append(results, caseRes)

		c.prog.CaseSymbol[cs] = &resolve.Symbol{
			Kind: resolve.SymVariant, Name: en.Name + ":" + variant.Name,
			File: enumSym.File, Pos: cs.Begin(), Enum: en, Variant: variant,
		}
	}

	var missing []string

	for _, v := range en.Variants {
		if !seen[v.Name] {
			missing = append(missing, v.Name)
		}
	}

	if len(missing) > 0 && it.Default == nil {
		c.rep.Add(token.NewPosError(it, fmt.Sprintf("match on %q is not exhaustive: missing %s", en.Name, strings.Join(missing, ", "))))
	} else if len(missing) == 0 && it.Default != nil {
		c.rep.Add(token.NewPosError(it.Default, fmt.Sprintf("match on %q already handles every variant; this default is unreachable", en.Name)))
	}

	if it.Default != nil {
		results = append(results, c.analyzeBlock(it.Default, rest))
	}

	if len(results) == 0 {
		return blockResult{Stack: rest}
	}

	var shape ir.Stack

	mismatch := false
	allNever := true

	for _, r := range results {
		if r.Never {
			continue
		}

		allNever = false

		if shape == nil {
			shape = r.Stack
		} else if !stackTypesEqual(shape, r.Stack) {
			mismatch = true
		}
	}

	if mismatch {
		c.rep.Add(token.NewPosError(it, "match cases disagree on the resulting stack shape"))
	}

	if allNever {
		return blockResult{Stack: rest, Never: true}
	}

	merged := shape
	for _, r := range results {
		if r.Never {
			continue
		}

		merged = mergeStacks(merged, r.Stack)
	}

	return blockResult{Stack: merged}
}
