package resolve

import (
	"testing"

	"github.com/golangee/aaa/ast"
	"github.com/golangee/aaa/diag"
)

func namedType(name string, args ...*ast.TypeExpr) *ast.TypeExpr {
	return &ast.TypeExpr{Kind: ast.TypeNamed, Name: name, Args: args}
}

func funcDecl(name string, args []*ast.Argument, rets []*ast.TypeExpr, body *ast.Block) *ast.Func {
	if body == nil {
		body = &ast.Block{}
	}

	return &ast.Func{Name: name, Args: args, Rets: rets, Body: body}
}

func fileOf(path string, items ...*ast.TopLevel) *ast.File {
	return &ast.File{Path: path, Items: items}
}

func topFunc(fn *ast.Func) *ast.TopLevel     { return &ast.TopLevel{Kind: ast.TopFunc, Func: fn} }
func topStruct(st *ast.Struct) *ast.TopLevel { return &ast.TopLevel{Kind: ast.TopStruct, Struct: st} }
func topEnum(en *ast.Enum) *ast.TopLevel     { return &ast.TopLevel{Kind: ast.TopEnum, Enum: en} }

func topImport(path string, names ...string) *ast.TopLevel {
	return &ast.TopLevel{Kind: ast.TopImport, Import: &ast.Import{Path: path, Names: names}}
}

func TestDeclarationCollisionReported(t *testing.T) {
	rep := diag.NewReporter()

	files := map[string]*ast.File{
		"/a.aaa": fileOf("/a.aaa",
			topFunc(funcDecl("f", nil, nil, nil)),
			topFunc(funcDecl("f", nil, nil, nil)),
		),
	}

	Resolve(files, nil, rep)

	if rep.Count() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", rep.Count(), rep.Errors())
	}
}

func TestImportMissingNameReported(t *testing.T) {
	rep := diag.NewReporter()

	files := map[string]*ast.File{
		"/a.aaa": fileOf("/a.aaa", topFunc(funcDecl("f", nil, nil, nil))),
		"/b.aaa": fileOf("/b.aaa", topImport("a", "g")),
	}

	Resolve(files, nil, rep)

	if rep.Count() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", rep.Count(), rep.Errors())
	}
}

func TestIndirectReexportForbidden(t *testing.T) {
	rep := diag.NewReporter()

	files := map[string]*ast.File{
		"/a.aaa": fileOf("/a.aaa", topFunc(funcDecl("f", nil, nil, nil))),
		"/b.aaa": fileOf("/b.aaa", topImport("a", "f")),
		"/c.aaa": fileOf("/c.aaa", topImport("b", "f")),
	}

	table := Resolve(files, nil, rep)

	if rep.Count() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", rep.Count(), rep.Errors())
	}

	if _, ok := table.Lookup("/c.aaa", "f"); ok {
		t.Fatalf("an indirect re-export must not be visible in /c.aaa's scope")
	}
}

func TestLocalDeclarationWinsOverImportCollision(t *testing.T) {
	rep := diag.NewReporter()

	files := map[string]*ast.File{
		"/a.aaa": fileOf("/a.aaa", topFunc(funcDecl("f", nil, nil, nil))),
		"/b.aaa": fileOf("/b.aaa",
			topFunc(funcDecl("f", nil, nil, nil)),
			topImport("a", "f"),
		),
	}

	Resolve(files, nil, rep)

	if rep.Count() != 1 {
		t.Fatalf("expected 1 diagnostic for the import/local collision, got %d: %v", rep.Count(), rep.Errors())
	}
}

func TestImportCycleDetected(t *testing.T) {
	rep := diag.NewReporter()

	files := map[string]*ast.File{
		"/a.aaa": fileOf("/a.aaa",
			topFunc(funcDecl("f", nil, nil, nil)),
			topImport("b", "g"),
		),
		"/b.aaa": fileOf("/b.aaa",
			topFunc(funcDecl("g", nil, nil, nil)),
			topImport("a", "f"),
		),
	}

	Resolve(files, nil, rep)

	if rep.Count() != 1 {
		t.Fatalf("expected 1 cyclic-import diagnostic, got %d: %v", rep.Count(), rep.Errors())
	}
}

func TestUnknownTypeReported(t *testing.T) {
	rep := diag.NewReporter()

	files := map[string]*ast.File{
		"/a.aaa": fileOf("/a.aaa", topFunc(funcDecl("f",
			[]*ast.Argument{{Name: "x", Type: namedType("Bogus")}}, nil, nil))),
	}

	Resolve(files, nil, rep)

	if rep.Count() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", rep.Count(), rep.Errors())
	}
}

func TestTypeArityMismatchReported(t *testing.T) {
	rep := diag.NewReporter()

	files := map[string]*ast.File{
		"/a.aaa": fileOf("/a.aaa",
			topStruct(&ast.Struct{Name: "Box", TypeParams: []string{"T"}, Fields: []*ast.Field{
				{Name: "value", Type: namedType("T")},
			}}),
			topFunc(funcDecl("f",
				[]*ast.Argument{{Name: "b", Type: namedType("Box")}}, nil, nil)),
		),
	}

	Resolve(files, nil, rep)

	if rep.Count() != 1 {
		t.Fatalf("expected 1 arity diagnostic, got %d: %v", rep.Count(), rep.Errors())
	}
}

func TestAssociatedFunctionReceiverRule(t *testing.T) {
	tests := []struct {
		name    string
		args    []*ast.Argument
		rets    []*ast.TypeExpr
		wantErr bool
	}{
		{
			name:    "first argument and first return both name the owner",
			args:    []*ast.Argument{{Name: "c", Type: namedType("Counter")}},
			rets:    []*ast.TypeExpr{namedType("Counter")},
			wantErr: false,
		},
		{
			name:    "no return values is fine",
			args:    []*ast.Argument{{Name: "c", Type: namedType("Counter")}},
			rets:    nil,
			wantErr: false,
		},
		{
			name:    "first argument does not name the owner",
			args:    []*ast.Argument{{Name: "c", Type: namedType("int")}},
			rets:    []*ast.TypeExpr{namedType("Counter")},
			wantErr: true,
		},
		{
			name:    "first return value does not name the owner",
			args:    []*ast.Argument{{Name: "c", Type: namedType("Counter")}},
			rets:    []*ast.TypeExpr{namedType("int")},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rep := diag.NewReporter()

			fn := funcDecl("Reset", tc.args, tc.rets, nil)
			fn.Owner = "Counter"

			files := map[string]*ast.File{
				"/a.aaa": fileOf("/a.aaa",
					topStruct(&ast.Struct{Name: "Counter"}),
					topStruct(&ast.Struct{Name: "int"}),
					topFunc(fn),
				),
			}

			Resolve(files, nil, rep)

			if tc.wantErr && !rep.HasErrors() {
				t.Fatalf("expected a receiver-rule diagnostic, got none")
			}

			if !tc.wantErr && rep.HasErrors() {
				t.Fatalf("unexpected diagnostics: %v", rep.Errors())
			}
		})
	}
}

func TestGenericStructResolvesCleanly(t *testing.T) {
	rep := diag.NewReporter()

	files := map[string]*ast.File{
		"/a.aaa": fileOf("/a.aaa",
			topStruct(&ast.Struct{Name: "Box", TypeParams: []string{"T"}, Fields: []*ast.Field{
				{Name: "value", Type: namedType("T")},
			}}),
			topStruct(&ast.Struct{Name: "Num"}),
			topFunc(funcDecl("f",
				[]*ast.Argument{{Name: "b", Type: namedType("Box", namedType("Num"))}}, nil, nil)),
		),
	}

	table := Resolve(files, nil, rep)

	if rep.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", rep.Errors())
	}

	sym, ok := table.Lookup("/a.aaa", "Box")
	if !ok || sym.Kind != SymStruct {
		t.Fatalf("Box should resolve to a struct symbol")
	}
}

func TestEnumVariantsDeclaredAlongsideEnum(t *testing.T) {
	rep := diag.NewReporter()

	files := map[string]*ast.File{
		"/a.aaa": fileOf("/a.aaa", topEnum(&ast.Enum{Name: "Bit", Variants: []*ast.Variant{
			{Name: "Zero"}, {Name: "One"},
		}})),
	}

	table := Resolve(files, nil, rep)

	if rep.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", rep.Errors())
	}

	if _, ok := table.Decls["/a.aaa"]["Bit:Zero"]; !ok {
		t.Fatalf("expected Bit:Zero to be declared alongside the enum")
	}

	sym, ok := table.Decls["/a.aaa"]["Bit:One"]
	if !ok || sym.Kind != SymVariant {
		t.Fatalf("Bit:One should be a variant symbol")
	}
}

func TestCheckMainRejectsWrongSignature(t *testing.T) {
	rep := diag.NewReporter()

	files := map[string]*ast.File{
		"/a.aaa": fileOf("/a.aaa",
			topStruct(&ast.Struct{Name: "int"}),
			topFunc(funcDecl("main",
				[]*ast.Argument{{Name: "x", Type: namedType("int")}}, nil, nil)),
		),
	}

	table := Resolve(files, nil, rep)
	if rep.HasErrors() {
		t.Fatalf("unexpected resolve diagnostics: %v", rep.Errors())
	}

	CheckMain(table, "/a.aaa", rep)

	if rep.Count() != 1 {
		t.Fatalf("expected 1 diagnostic from CheckMain, got %d: %v", rep.Count(), rep.Errors())
	}
}

func TestCheckMainAcceptsArgvSignature(t *testing.T) {
	rep := diag.NewReporter()

	files := map[string]*ast.File{
		"/a.aaa": fileOf("/a.aaa",
			topStruct(&ast.Struct{Name: "vec", TypeParams: []string{"T"}}),
			topStruct(&ast.Struct{Name: "str"}),
			topFunc(funcDecl("main",
				[]*ast.Argument{{Name: "argv", Type: namedType("vec", namedType("str"))}}, nil, nil)),
		),
	}

	table := Resolve(files, nil, rep)
	if rep.HasErrors() {
		t.Fatalf("unexpected resolve diagnostics: %v", rep.Errors())
	}

	CheckMain(table, "/a.aaa", rep)

	if rep.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", rep.Errors())
	}
}

func TestCheckMainMissing(t *testing.T) {
	rep := diag.NewReporter()

	files := map[string]*ast.File{
		"/a.aaa": fileOf("/a.aaa", topFunc(funcDecl("helper", nil, nil, nil))),
	}

	table := Resolve(files, nil, rep)
	CheckMain(table, "/a.aaa", rep)

	if rep.Count() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", rep.Count(), rep.Errors())
	}
}

func TestImportPathIsRelativeToImportingFile(t *testing.T) {
	if got, want := ImportPath("/proj/src/a.aaa", "util"), "/proj/src/util.aaa"; got != want {
		t.Fatalf("ImportPath = %q, want %q", got, want)
	}

	if got, want := ImportPath("/proj/src/a.aaa", "../std/io"), "/proj/std/io.aaa"; got != want {
		t.Fatalf("ImportPath = %q, want %q", got, want)
	}
}
