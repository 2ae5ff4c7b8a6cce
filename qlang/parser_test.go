// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package qlang

import "testing"

func parse(t *testing.T, src string) (*Program, *Diagnostics) {
	t.Helper()
	diags := NewDiagnostics()
	toks := NewTokenizer(src, diags).Tokenize()
	prog := NewParser(toks, diags).ParseProgram()
	return prog, diags
}

func TestParseClassWithMembersAndMethods(t *testing.T) {
	src := `
	class Actor {
		float32 x = 0.0f;
		float32 y = 0.0f;
		func move(float32 dx, float32 dy) : bool {
			x = x + dx;
			y = y + dy;
			return true;
		}
	}`
	prog, diags := parse(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors())
	}
	if len(prog.Classes) != 1 {
		t.Fatalf("got %d classes, want 1", len(prog.Classes))
	}
	c := prog.Classes[0]
	if c.Name != "Actor" || len(c.Members) != 2 || len(c.Methods) != 1 {
		t.Fatalf("unexpected class shape: %+v", c)
	}
	if c.Methods[0].Name != "move" || len(c.Methods[0].Params) != 2 || c.Methods[0].ReturnType != "bool" {
		t.Fatalf("unexpected method shape: %+v", c.Methods[0])
	}
}

func TestParseInheritance(t *testing.T) {
	prog, diags := parse(t, `class Base { int32 a; } class Derived extends Base { int32 b; }`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors())
	}
	if prog.Classes[1].Extends != "Base" {
		t.Fatalf("got Extends %q, want Base", prog.Classes[1].Extends)
	}
}

func TestParseControlFlowAndExpressions(t *testing.T) {
	src := `class C { func f() : int32 {
		int32 i = 0;
		for (int32 j = 0; j < 10; j = j + 1) {
			if (j == 5) { return j; } else { i = i + 1; }
		}
		while (i < 3) { i = i + 1; }
		return i;
	} }`
	_, diags := parse(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors())
	}
}

func TestParseMethodCallAndMemberChain(t *testing.T) {
	prog, diags := parse(t, `class C { func f() { this.x.y(1, 2); } }`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors())
	}
	stmt := prog.Classes[0].Methods[0].Body.Stmts[0].(*ExprStmt)
	call, ok := stmt.X.(*CallExpr)
	if !ok {
		t.Fatalf("expected a CallExpr, got %T", stmt.X)
	}
	if len(call.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(call.Args))
	}
}

func TestParseCast(t *testing.T) {
	prog, diags := parse(t, `class C { func f() : int32 { return (int32)1.5; } }`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors())
	}
	ret := prog.Classes[0].Methods[0].Body.Stmts[0].(*ReturnStmt)
	if _, ok := ret.Value.(*CastExpr); !ok {
		t.Fatalf("expected a CastExpr, got %T", ret.Value)
	}
}

func TestParseRecoversFromSyntaxError(t *testing.T) {
	_, diags := parse(t, `class C { !!! } class D { int32 x; }`)
	if !diags.HasErrors() {
		t.Fatal("expected at least one diagnostic")
	}
}
