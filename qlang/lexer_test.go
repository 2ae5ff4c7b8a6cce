// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package qlang

import "testing"

func TestTokenizeKeywordsAndPunctuation(t *testing.T) {
	src := `class Foo extends Bar { int32 x = 1; func move(float32 dt) : bool { return x >= 2 && !false; } }`
	diags := NewDiagnostics()
	toks := NewTokenizer(src, diags).Tokenize()
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors())
	}
	want := []TokKind{
		TokClass, TokIdent, TokExtends, TokIdent, TokLBrace,
		TokInt32, TokIdent, TokAssign, TokIntLit, TokSemi,
		TokFunc, TokIdent, TokLParen, TokFloat32, TokIdent, TokRParen, TokColon, TokBool, TokLBrace,
		TokReturn, TokIdent, TokGe, TokIntLit, TokAnd, TokNot, TokFalse, TokSemi,
		TokRBrace, TokRBrace, TokEOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Kind != w {
			t.Fatalf("token %d: got kind %v, want %v (lexeme %q)", i, toks[i].Kind, w, toks[i].Lexeme)
		}
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	diags := NewDiagnostics()
	toks := NewTokenizer(`"never closed`, diags).Tokenize()
	if !diags.HasErrors() {
		t.Fatal("expected a diagnostic for an unterminated string")
	}
	if diags.Errors()[0].Code != UnterminatedString {
		t.Fatalf("got code %v, want UnterminatedString", diags.Errors()[0].Code)
	}
	if toks[len(toks)-1].Kind != TokEOF {
		t.Fatal("tokenizer must still terminate with EOF after a lexical error")
	}
}

func TestTokenizeUnbalancedBlockComment(t *testing.T) {
	diags := NewDiagnostics()
	NewTokenizer("/* never closed", diags).Tokenize()
	if !diags.HasErrors() || diags.Errors()[0].Code != UnterminatedString {
		t.Fatal("expected an UnterminatedString diagnostic for an unbalanced block comment")
	}
}

func TestTokenizeInvalidCharacterRecovers(t *testing.T) {
	diags := NewDiagnostics()
	toks := NewTokenizer("int32 x @ int32 y", diags).Tokenize()
	if !diags.HasErrors() || diags.Errors()[0].Code != InvalidCharacter {
		t.Fatal("expected an InvalidCharacter diagnostic")
	}
	var idents int
	for _, tok := range toks {
		if tok.Kind == TokIdent {
			idents++
		}
	}
	if idents != 2 {
		t.Fatalf("expected scanning to recover and find 2 identifiers, got %d", idents)
	}
}

func TestTokenizeNumberSuffixes(t *testing.T) {
	diags := NewDiagnostics()
	toks := NewTokenizer("1 2L 3.0 4.0f", diags).Tokenize()
	want := []TokKind{TokIntLit, TokLongLit, TokDoubleLit, TokFloatLit, TokEOF}
	for i, w := range want {
		if toks[i].Kind != w {
			t.Fatalf("token %d: got %v want %v", i, toks[i].Kind, w)
		}
	}
}
