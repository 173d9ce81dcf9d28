package resolve

import (
	"fmt"

	"github.com/golangee/aaa/ast"
	"github.com/golangee/aaa/diag"
	"github.com/golangee/aaa/token"
)

// CheckMain enforces the rule that the entry file contains a main
// function with one of the four permitted signatures: no args no return;
// argv of vec[str] no return; argv of vec[str] returning int; or no args
// returning int.
func CheckMain(t *Table, entryFile string, rep *diag.Reporter) {
	sym, ok := t.Lookup(entryFile, "main")
	if !ok {
		rep.Add(token.NewPosError(token.NewNode(token.Pos{File: entryFile}, token.Pos{File: entryFile}), "no 'main' function found in entry file"))

		return
	}

	if sym.Kind != SymFunc {
		rep.Add(token.NewPosError(sym, fmt.Sprintf("'main' is a %s, not a function", sym.Kind)))

		return
	}

	fn := sym.Func

	if len(fn.TypeParams) != 0 {
		rep.Add(token.NewPosError(fn, "'main' may not be generic"))

		return
	}

	noArgs := len(fn.Args) == 0
	argvArgs := len(fn.Args) == 1 && fn.Args[0].Type.Kind == ast.TypeNamed && fn.Args[0].Type.Name == "vec" &&
		len(fn.Args[0].Type.Args) == 1 && fn.Args[0].Type.Args[0].Name == "str"

	noRet := len(fn.Rets) == 0
	intRet := len(fn.Rets) == 1 && fn.Rets[0].Kind == ast.TypeNamed && fn.Rets[0].Name == "int"

	switch {
	case noArgs && noRet, argvArgs && noRet, argvArgs && intRet, noArgs && intRet:
		return
	default:
		rep.Add(token.NewPosError(fn, "'main' must have one of: no args/no return, argv vec[str]/no return, argv vec[str]/returns int, no args/returns int"))
	}
}
