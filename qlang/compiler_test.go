// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package qlang

import "testing"

func compile(t *testing.T, src string) (*Module, *Diagnostics) {
	t.Helper()
	diags := NewDiagnostics()
	toks := NewTokenizer(src, diags).Tokenize()
	prog := NewParser(toks, diags).ParseProgram()
	module := NewCompiler(diags).Compile(prog)
	return module, diags
}

func TestLayoutFlattensInheritedMembersFirst(t *testing.T) {
	module, diags := compile(t, `
	class Base { int32 a; int32 b; }
	class Derived extends Base { int32 c; }`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors())
	}
	layout := module.Classes["Derived"]
	names := []string{}
	for _, m := range layout.Members {
		names = append(names, m.Name)
	}
	want := []string{"a", "b", "c"}
	if len(names) != len(want) {
		t.Fatalf("got members %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got members %v, want %v", names, want)
		}
	}
	if layout.SlotOf("c") != 2 {
		t.Fatalf("got slot %d for c, want 2", layout.SlotOf("c"))
	}
}

func TestLayoutComputesByteOffsetsAndTotalSize(t *testing.T) {
	module, diags := compile(t, `class Foo { float32 x = 1.5f; float32 y; }`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors())
	}
	layout := module.Classes["Foo"]
	if layout.TotalSize != 8 {
		t.Fatalf("got total_size %d, want 8", layout.TotalSize)
	}
	wantOffsets := map[string]int{"x": 0, "y": 4}
	for name, want := range wantOffsets {
		slot := layout.SlotOf(name)
		if slot < 0 {
			t.Fatalf("missing member %q", name)
		}
		if got := layout.Members[slot].ByteOffset; got != want {
			t.Errorf("member %q: got offset %d, want %d", name, got, want)
		}
	}
}

func TestLayoutInheritedOffsetsSurviveIntoChild(t *testing.T) {
	module, diags := compile(t, `class A { int32 a; } class B extends A { int32 b; }`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors())
	}
	layout := module.Classes["B"]
	if layout.TotalSize != 8 {
		t.Fatalf("got total_size %d, want 8", layout.TotalSize)
	}
	if got := layout.Members[layout.SlotOf("a")].ByteOffset; got != 0 {
		t.Errorf("member \"a\": got offset %d, want 0", got)
	}
	if got := layout.Members[layout.SlotOf("b")].ByteOffset; got != 4 {
		t.Errorf("member \"b\": got offset %d, want 4", got)
	}
}

func TestLayoutIsDeterministicAcrossCompiles(t *testing.T) {
	src := `class A { int32 x; } class B extends A { int32 y; func get() : int32 { return y; } }`
	m1, d1 := compile(t, src)
	m2, d2 := compile(t, src)
	if d1.HasErrors() || d2.HasErrors() {
		t.Fatal("unexpected diagnostics")
	}
	if len(m1.Classes["B"].Members) != len(m2.Classes["B"].Members) {
		t.Fatal("layouts differ across independent compiles of identical source")
	}
	for i := range m1.Classes["B"].Members {
		if m1.Classes["B"].Members[i] != m2.Classes["B"].Members[i] {
			t.Fatalf("member %d differs: %+v vs %+v", i, m1.Classes["B"].Members[i], m2.Classes["B"].Members[i])
		}
	}
}

func TestCompileRejectsRedeclaredClass(t *testing.T) {
	_, diags := compile(t, `class A { } class A { }`)
	if !diags.HasErrors() || diags.Errors()[0].Code != RedeclaredClass {
		t.Fatalf("expected RedeclaredClass, got %v", diags.Errors())
	}
}

func TestCompileRejectsUnknownParent(t *testing.T) {
	_, diags := compile(t, `class A extends Ghost { }`)
	if !diags.HasErrors() || diags.Errors()[0].Code != UnknownType {
		t.Fatalf("expected UnknownType, got %v", diags.Errors())
	}
}

func TestCompileRejectsReturnTypeMismatchOnOverride(t *testing.T) {
	_, diags := compile(t, `
	class A { func f() : int32 { return 1; } }
	class B extends A { func f() : bool { return true; } }`)
	if !diags.HasErrors() || diags.Errors()[0].Code != ReturnTypeMismatch {
		t.Fatalf("expected ReturnTypeMismatch, got %v", diags.Errors())
	}
}

func TestRuntimeCreateInstanceAndCallMethod(t *testing.T) {
	module, diags := compile(t, `
	class Counter {
		int32 value = 0;
		func inc(int32 by) : int32 {
			value = value + by;
			return value;
		}
	}`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors())
	}
	rt := NewRuntime(module)
	inst, err := rt.CreateInstance("Counter")
	if err != nil {
		t.Fatalf("CreateInstance: %v", err)
	}
	v, err := inst.Get("value")
	if err != nil || v.Int32() != 0 {
		t.Fatalf("expected initial value 0, got %v err=%v", v, err)
	}
	ret, err := rt.CallMethod(inst, "inc", []QValue{NewInt32(5)})
	if err != nil {
		t.Fatalf("CallMethod: %v", err)
	}
	if ret.Int32() != 5 {
		t.Fatalf("got %d, want 5", ret.Int32())
	}
	ret, err = rt.CallMethod(inst, "inc", []QValue{NewInt32(2)})
	if err != nil || ret.Int32() != 7 {
		t.Fatalf("got %v err=%v, want 7", ret, err)
	}
}

func TestRuntimeInheritedMethodDispatch(t *testing.T) {
	module, diags := compile(t, `
	class Base { func greeting() : string { return "hi"; } }
	class Derived extends Base { int32 extra = 1; }`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors())
	}
	rt := NewRuntime(module)
	inst, err := rt.CreateInstance("Derived")
	if err != nil {
		t.Fatalf("CreateInstance: %v", err)
	}
	ret, err := rt.CallMethod(inst, "greeting", nil)
	if err != nil || ret.String() != "hi" {
		t.Fatalf("got %v err=%v, want hi", ret, err)
	}
}

func TestRuntimeUnknownMethodIsRuntimeError(t *testing.T) {
	module, diags := compile(t, `class A { }`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors())
	}
	rt := NewRuntime(module)
	inst, _ := rt.CreateInstance("A")
	_, err := rt.CallMethod(inst, "missing", nil)
	qerr, ok := err.(*Error)
	if !ok || qerr.Code != UnknownMethod {
		t.Fatalf("expected UnknownMethod error, got %v", err)
	}
}

func TestRuntimeNativeFunctionCall(t *testing.T) {
	module, diags := compile(t, `class A { func f() : int32 { return double(21); } }`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors())
	}
	rt := NewRuntime(module)
	rt.RegisterNative("double", func(rt *Runtime, args []QValue) (QValue, error) {
		return NewInt32(args[0].Int32() * 2), nil
	})
	inst, _ := rt.CreateInstance("A")
	ret, err := rt.CallMethod(inst, "f", nil)
	if err != nil || ret.Int32() != 42 {
		t.Fatalf("got %v err=%v, want 42", ret, err)
	}
}
