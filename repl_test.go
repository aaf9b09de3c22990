package main

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pontaoski/redstone/lexer"
)

func TestReplKeepsState(t *testing.T) {
	var out bytes.Buffer
	r := newRepl(lexer.DefaultKeywords(), &out)

	if r.handle("item x = 2") {
		t.Fatalf("session ended early")
	}
	out.Reset()

	r.handle("x * 3")
	if out.String() != green("6")+"\n" {
		t.Fatalf("got %q", out.String())
	}
	out.Reset()

	r.handle("print(x)")
	if out.String() != "2\n" {
		t.Fatalf("void results should not be echoed, got %q", out.String())
	}
	out.Reset()

	r.handle("print(missing)")
	if !strings.Contains(out.String(), "could not find the variable 'missing'") {
		t.Fatalf("got %q", out.String())
	}
	out.Reset()

	// bare expressions are allowed here, unlike in scripts
	r.handle("x")
	if out.String() != green("2")+"\n" {
		t.Fatalf("got %q", out.String())
	}
}

func TestReplCommands(t *testing.T) {
	var out bytes.Buffer
	r := newRepl(lexer.DefaultKeywords(), &out)

	r.handle("debug")
	if !r.showAst {
		t.Fatalf("debug did not toggle")
	}
	out.Reset()
	r.handle("item y = 1")
	if !strings.Contains(out.String(), "VariableDeclaration") {
		t.Fatalf("expected an AST dump, got %q", out.String())
	}
	r.handle("DEBUG")
	if r.showAst {
		t.Fatalf("debug did not toggle back")
	}

	out.Reset()
	r.handle("cls")
	if out.String() != "\x1b[H\x1b[2J" {
		t.Fatalf("got %q", out.String())
	}

	if !r.handle("  exit  ") {
		t.Fatalf("exit did not end the session")
	}
}

func TestReplRunFile(t *testing.T) {
	dir := inTempDir(t)
	script := filepath.Join(dir, "lib.rsd")
	if err := ioutil.WriteFile(script, []byte("craft twice(n) {\n  dispense n * 2\n}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	r := newRepl(lexer.DefaultKeywords(), &out)
	r.handle("run " + script)
	out.Reset()

	r.handle("twice(21)")
	if out.String() != green("42")+"\n" {
		t.Fatalf("got %q", out.String())
	}

	out.Reset()
	r.handle("run " + filepath.Join(dir, "missing.rsd"))
	if !strings.Contains(out.String(), "Error:") {
		t.Fatalf("got %q", out.String())
	}
}

func TestIsCommand(t *testing.T) {
	for src, expected := range map[string]bool{
		"exit":          true,
		" clear ":       true,
		"debug":         true,
		"run main.rsd":  true,
		"exit()":        false,
		"item exit = 1": false,
		"":              false,
		"craft f() {":   false,
	} {
		if isCommand(src) != expected {
			t.Fatalf("%q: expected %v", src, expected)
		}
	}
}
