package parser

import (
	"strings"
	"testing"

	"github.com/golangee/aaa/ast"
	"github.com/golangee/aaa/diag"
)

func parseOK(t *testing.T, src string) *ast.File {
	t.Helper()

	rep := diag.NewReporter()

	file, ok := ParseFile("test.aaa", strings.NewReader(src), rep)
	if !ok || rep.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", rep.Errors())
	}

	return file
}

func parseFail(t *testing.T, src string) *diag.Reporter {
	t.Helper()

	rep := diag.NewReporter()

	_, ok := ParseFile("test.aaa", strings.NewReader(src), rep)
	if ok && !rep.HasErrors() {
		t.Fatalf("expected a parse error, got none")
	}

	return rep
}

func TestParseImport(t *testing.T) {
	file := parseOK(t, `from "std/io" import print, println`)

	imports := file.Imports()
	if len(imports) != 1 {
		t.Fatalf("expected 1 import, got %d", len(imports))
	}

	imp := imports[0]
	if imp.Path != "std/io" {
		t.Fatalf("path = %q", imp.Path)
	}

	if want := []string{"print", "println"}; !equalStrings(imp.Names, want) {
		t.Fatalf("names = %v, want %v", imp.Names, want)
	}
}

func TestParseFuncSignature(t *testing.T) {
	file := parseOK(t, `
fn add args { a: int, b: const int } return { int } {
	a b
}
`)

	fns := file.Funcs()
	if len(fns) != 1 {
		t.Fatalf("expected 1 func, got %d", len(fns))
	}

	fn := fns[0]
	if fn.Name != "add" {
		t.Fatalf("name = %q", fn.Name)
	}

	if len(fn.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(fn.Args))
	}

	if fn.Args[0].Const {
		t.Fatalf("arg 0 should not be const")
	}

	if !fn.Args[1].Const {
		t.Fatalf("arg 1 should be const")
	}

	if len(fn.Rets) != 1 || fn.Rets[0].Name != "int" {
		t.Fatalf("rets = %v", fn.Rets)
	}

	if len(fn.Body.Items) != 2 {
		t.Fatalf("expected 2 body items, got %d", len(fn.Body.Items))
	}
}

func TestParseAssociatedFunc(t *testing.T) {
	file := parseOK(t, `
fn Vec:push args { v: Vec, x: int } {
	drop
}
`)

	fn := file.Funcs()[0]
	if fn.Owner != "Vec" || fn.Name != "push" {
		t.Fatalf("owner/name = %q/%q", fn.Owner, fn.Name)
	}

	if fn.QualifiedName() != "Vec:push" {
		t.Fatalf("qualified name = %q", fn.QualifiedName())
	}
}

func TestParseNeverFunc(t *testing.T) {
	file := parseOK(t, `
fn panic args { msg: str } never {
	loop
}
`)

	fn := file.Funcs()[0]
	if !fn.Never {
		t.Fatalf("expected Never to be set")
	}

	if fn.Rets != nil {
		t.Fatalf("a never function must not declare Rets, got %v", fn.Rets)
	}
}

func TestParseBuiltinFunc(t *testing.T) {
	file := parseOK(t, `builtin fn add args { a: int, b: int } return { int }`)

	fn := file.Funcs()[0]
	if !fn.Builtin {
		t.Fatalf("expected Builtin to be set")
	}

	if fn.Body != nil {
		t.Fatalf("a builtin function must have no body")
	}
}

func TestParseGenericFunc(t *testing.T) {
	file := parseOK(t, `
fn identity[T] args { x: T } return { T } {
	x
}
`)

	fn := file.Funcs()[0]
	if want := []string{"T"}; !equalStrings(fn.TypeParams, want) {
		t.Fatalf("type params = %v, want %v", fn.TypeParams, want)
	}
}

func TestParseDuplicateGenericParam(t *testing.T) {
	rep := parseFail(t, `
fn identity[T, T] args { x: T } return { T } {
	x
}
`)

	if rep.Count() != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d", rep.Count())
	}
}

func TestParseStruct(t *testing.T) {
	file := parseOK(t, `
struct Point {
	x: int,
	y: int
}
`)

	structs := file.Structs()
	if len(structs) != 1 {
		t.Fatalf("expected 1 struct, got %d", len(structs))
	}

	st := structs[0]
	if len(st.Fields) != 2 || st.Fields[0].Name != "x" || st.Fields[1].Name != "y" {
		t.Fatalf("fields = %+v", st.Fields)
	}
}

func TestParseGenericStruct(t *testing.T) {
	file := parseOK(t, `
struct Box[T] {
	value: T
}
`)

	st := file.Structs()[0]
	if want := []string{"T"}; !equalStrings(st.TypeParams, want) {
		t.Fatalf("type params = %v, want %v", st.TypeParams, want)
	}
}

func TestParseEnum(t *testing.T) {
	file := parseOK(t, `
enum Result[T, E] {
	Ok as T,
	Err as E
}
`)

	enums := file.Enums()
	if len(enums) != 1 {
		t.Fatalf("expected 1 enum, got %d", len(enums))
	}

	en := enums[0]
	if len(en.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(en.Variants))
	}

	if en.Variants[0].Name != "Ok" || len(en.Variants[0].Data) != 1 {
		t.Fatalf("variant 0 = %+v", en.Variants[0])
	}
}

func TestParseEnumUnitVariant(t *testing.T) {
	file := parseOK(t, `
enum Bit {
	Zero,
	One
}
`)

	en := file.Enums()[0]
	if en.Variants[0].Data != nil || en.Variants[1].Data != nil {
		t.Fatalf("unit variants must carry no data, got %+v", en.Variants)
	}
}

func TestParseEnumTupleVariant(t *testing.T) {
	file := parseOK(t, `
enum Shape {
	Rect as [int, int],
	Circle as int
}
`)

	en := file.Enums()[0]
	if len(en.Variants[0].Data) != 2 {
		t.Fatalf("Rect should carry 2 values, got %d", len(en.Variants[0].Data))
	}

	if len(en.Variants[1].Data) != 1 {
		t.Fatalf("Circle should carry 1 value, got %d", len(en.Variants[1].Data))
	}
}

func TestParseIfElse(t *testing.T) {
	file := parseOK(t, `
fn abs args { x: int } return { int } {
	x lt if { true } { negate } else { x } call
}
`)

	fn := file.Funcs()[0]
	if len(fn.Body.Items) != 4 {
		t.Fatalf("expected 4 body items, got %d", len(fn.Body.Items))
	}

	ifItem, ok := fn.Body.Items[2].(*ast.If)
	if !ok {
		t.Fatalf("item 2 = %T, want *ast.If", fn.Body.Items[2])
	}

	if ifItem.Else == nil {
		t.Fatalf("expected an else-block")
	}
}

func TestParseWhileForeachUse(t *testing.T) {
	file := parseOK(t, `
fn sumAll args { v: Vec } return { int } {
	0 use total {
		while { false } { }
		v foreach {
			total
		}
		total
	}
}
`)

	_ = file
}

func TestParseMatchWithDefault(t *testing.T) {
	file := parseOK(t, `
fn describe args { r: Result } return { str } {
	r match {
		case Result:Ok as v {
			v
		}
		default {
			"error"
		}
	}
}
`)

	fn := file.Funcs()[0]

	m, ok := fn.Body.Items[0].(*ast.Match)
	if !ok {
		t.Fatalf("item 0 = %T, want *ast.Match", fn.Body.Items[0])
	}

	if len(m.Cases) != 1 || m.Cases[0].Enum != "Result" || m.Cases[0].Variant != "Ok" {
		t.Fatalf("cases = %+v", m.Cases)
	}

	if want := []string{"v"}; !equalStrings(m.Cases[0].Names, want) {
		t.Fatalf("case names = %v, want %v", m.Cases[0].Names, want)
	}

	if m.Default == nil {
		t.Fatalf("expected a default block")
	}
}

func TestParseFieldAccessAndAssignment(t *testing.T) {
	file := parseOK(t, `
fn moveRight args { p: Point } return { Point } {
	p "x" ? 1 add p "x" { p "x" ? 1 add } !
}
`)

	fn := file.Funcs()[0]

	if _, ok := fn.Body.Items[0].(*ast.IdentRef); !ok {
		t.Fatalf("item 0 = %T, want *ast.IdentRef", fn.Body.Items[0])
	}

	if _, ok := fn.Body.Items[1].(*ast.GetField); !ok {
		t.Fatalf("item 1 = %T, want *ast.GetField", fn.Body.Items[1])
	}

	if _, ok := fn.Body.Items[5].(*ast.SetField); !ok {
		t.Fatalf("item 5 = %T, want *ast.SetField", fn.Body.Items[5])
	}
}

func TestParseSetField(t *testing.T) {
	file := parseOK(t, `
fn zeroX args { p: Point } return { Point } {
	p "x" { 0 } !
}
`)

	fn := file.Funcs()[0]

	setField, ok := fn.Body.Items[1].(*ast.SetField)
	if !ok {
		t.Fatalf("item 1 = %T, want *ast.SetField", fn.Body.Items[1])
	}

	if setField.Name != "x" {
		t.Fatalf("name = %q", setField.Name)
	}

	if len(setField.Expr.Items) != 1 {
		t.Fatalf("expected 1 item in the set-field expression, got %d", len(setField.Expr.Items))
	}
}

func TestParseFnLitAndCallPtr(t *testing.T) {
	file := parseOK(t, `
fn twice args { f: fn[int][int], x: int } return { int } {
	x f call f call
}
`)

	fn := file.Funcs()[0]

	if fn.Args[0].Type.Kind != ast.TypeFn {
		t.Fatalf("arg 0 type kind = %v", fn.Args[0].Type.Kind)
	}

	if _, ok := fn.Body.Items[1].(*ast.IdentRef); !ok {
		t.Fatalf("item 1 = %T, want *ast.IdentRef", fn.Body.Items[1])
	}

	if _, ok := fn.Body.Items[2].(*ast.CallPtr); !ok {
		t.Fatalf("item 2 = %T, want *ast.CallPtr", fn.Body.Items[2])
	}
}

func TestParseAssociatedCallSyntax(t *testing.T) {
	file := parseOK(t, `
fn make args { } return { Vec } {
	Vec:new
}
`)

	fn := file.Funcs()[0]

	ref, ok := fn.Body.Items[0].(*ast.IdentRef)
	if !ok {
		t.Fatalf("item 0 = %T, want *ast.IdentRef", fn.Body.Items[0])
	}

	if ref.Name != "Vec:new" {
		t.Fatalf("name = %q", ref.Name)
	}
}

func TestParseAssign(t *testing.T) {
	file := parseOK(t, `
fn squared args { x: int } return { int } {
	y <- { x x mul }
	y
}
`)

	fn := file.Funcs()[0]

	assign, ok := fn.Body.Items[0].(*ast.Assign)
	if !ok {
		t.Fatalf("item 0 = %T, want *ast.Assign", fn.Body.Items[0])
	}

	if assign.Name != "y" {
		t.Fatalf("name = %q", assign.Name)
	}

	if len(assign.Expr.Items) != 3 {
		t.Fatalf("expected 3 items in the assignment expression, got %d", len(assign.Expr.Items))
	}
}

func TestParseRecoversAfterSyntaxError(t *testing.T) {
	rep := diag.NewReporter()

	file, ok := ParseFile("test.aaa", strings.NewReader(`
fn broken args { x: } {
	x
}

fn ok args { } {
}
`), rep)

	if ok {
		t.Fatalf("expected the file to be marked failed")
	}

	if !rep.HasErrors() {
		t.Fatalf("expected at least one diagnostic")
	}

	fns := file.Funcs()
	if len(fns) != 1 || fns[0].Name != "ok" {
		t.Fatalf("expected recovery to reach the next fn, got %+v", fns)
	}
}

func TestParseMissingMainBodyFails(t *testing.T) {
	parseFail(t, `fn main {`)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
