package compiler

import (
	"path/filepath"
	"testing"

	"os"
)

func writeFile(t *testing.T, dir, name, src string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}

	return path
}

func TestCompileCleanProgram(t *testing.T) {
	dir := t.TempDir()

	entry := writeFile(t, dir, "main.aaa", `
struct int {
}

fn id args { x: int } return { int } {
}

fn main args { } {
	1 id use x { }
}
`)

	res := Compile(entry, nil)

	if res.Reporter.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Reporter.Errors())
	}

	if res.Program == nil {
		t.Fatalf("expected a non-nil program")
	}

	if res.Program.EntryFile == "" {
		t.Fatalf("expected EntryFile to be recorded")
	}
}

func TestCompileMissingMainReported(t *testing.T) {
	dir := t.TempDir()

	entry := writeFile(t, dir, "main.aaa", `
struct int {
}
`)

	res := Compile(entry, nil)

	if !res.Reporter.HasErrors() {
		t.Fatalf("expected a diagnostic for the missing main function")
	}
}

func TestCompileReturnStackMismatchReported(t *testing.T) {
	dir := t.TempDir()

	entry := writeFile(t, dir, "main.aaa", `
struct int {
}

fn main args { } {
	1
}
`)

	res := Compile(entry, nil)

	if !res.Reporter.HasErrors() {
		t.Fatalf("expected a diagnostic for main leaving a stray value on the stack")
	}
}

func TestCompileFollowsImportsAcrossFiles(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "types.aaa", `
struct int {
}
`)

	entry := writeFile(t, dir, "main.aaa", `
from "types" import int

fn id args { x: int } return { int } {
}

fn main args { } {
	1 id use x { }
}
`)

	res := Compile(entry, nil)

	if res.Reporter.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Reporter.Errors())
	}
}

func TestCompileCyclicImportReported(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "b.aaa", `
from "a" import int

fn main args { } {
}
`)

	entry := writeFile(t, dir, "a.aaa", `
from "b" import int

struct int {
}
`)

	res := Compile(entry, nil)

	if !res.Reporter.HasErrors() {
		t.Fatalf("expected a cyclic-import diagnostic")
	}
}
