// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package qlang

import (
	"bytes"
	"testing"
)

func TestModuleSaveLoadRoundTrip(t *testing.T) {
	src := `
	class Base { int32 a = 1; func get() : int32 { return a; } }
	class Derived extends Base { int32 b = 2; func sum() : int32 { return a + b; } }`
	module, diags := compile(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors())
	}
	diags2 := NewDiagnostics()
	toks := NewTokenizer(src, diags2).Tokenize()
	prog := NewParser(toks, diags2).ParseProgram()

	var buf bytes.Buffer
	if err := Save(&buf, prog, module); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loadedModule, _, err := Load(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loadedModule.Classes) != len(module.Classes) {
		t.Fatalf("got %d classes after round-trip, want %d", len(loadedModule.Classes), len(module.Classes))
	}
	rt := NewRuntime(loadedModule)
	inst, err := rt.CreateInstance("Derived")
	if err != nil {
		t.Fatalf("CreateInstance after round-trip: %v", err)
	}
	ret, err := rt.CallMethod(inst, "sum", nil)
	if err != nil || ret.Int32() != 3 {
		t.Fatalf("got %v err=%v, want 3", ret, err)
	}
}

func TestModuleSaveLoadRoundTripsName(t *testing.T) {
	src := `class A { int32 x; }`
	diags := NewDiagnostics()
	toks := NewTokenizer(src, diags).Tokenize()
	prog := NewParser(toks, diags).ParseProgram()
	module := NewNamedCompiler("physics", diags).Compile(prog)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors())
	}

	var buf bytes.Buffer
	if err := Save(&buf, prog, module); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loadedModule, _, err := Load(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loadedModule.Name != "physics" {
		t.Errorf("got module name %q, want %q", loadedModule.Name, "physics")
	}
}

func TestModuleLoadRejectsBadMagic(t *testing.T) {
	_, _, err := Load(bytes.NewReader([]byte{0, 0, 0, 0, 1, 0, 0, 0}))
	qerr, ok := err.(*Error)
	if !ok || qerr.Code != InvalidModule {
		t.Fatalf("expected InvalidModule, got %v", err)
	}
}

func TestModuleSaveIsByteIdenticalAcrossRuns(t *testing.T) {
	src := `class A { int32 x; func f() : int32 { return x; } }`
	diags := NewDiagnostics()
	toks := NewTokenizer(src, diags).Tokenize()
	prog := NewParser(toks, diags).ParseProgram()
	module := NewCompiler(diags).Compile(prog)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors())
	}

	var buf1, buf2 bytes.Buffer
	if err := Save(&buf1, prog, module); err != nil {
		t.Fatalf("Save 1: %v", err)
	}
	if err := Save(&buf2, prog, module); err != nil {
		t.Fatalf("Save 2: %v", err)
	}
	if !bytes.Equal(buf1.Bytes(), buf2.Bytes()) {
		t.Fatal("two saves of the same module produced different bytes")
	}
}
