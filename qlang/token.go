// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package qlang

// TokKind enumerates every lexeme class the tokenizer produces.
type TokKind int

const (
	TokEOF TokKind = iota
	TokIdent
	TokIntLit
	TokLongLit
	TokFloatLit
	TokDoubleLit
	TokStringLit
	TokTrue
	TokFalse
	TokNull

	// keywords
	TokClass
	TokExtends
	TokStatic
	TokFunc
	TokReturn
	TokIf
	TokElse
	TokWhile
	TokFor

	// primitive type keywords.
	TokInt32
	TokInt64
	TokFloat32
	TokFloat64
	TokBool
	TokString
	TokCptr
	TokIptr
	TokFptr
	TokBptr

	// punctuation / operators
	TokLBrace
	TokRBrace
	TokLParen
	TokRParen
	TokSemi
	TokComma
	TokColon
	TokDot
	TokAssign
	TokPlus
	TokMinus
	TokStar
	TokSlash
	TokPercent
	TokEq
	TokNe
	TokLt
	TokLe
	TokGt
	TokGe
	TokAnd
	TokOr
	TokNot
)

// keywords maps reserved words (including primitive type names) to their
// token kind.
var keywords = map[string]TokKind{
	"class":   TokClass,
	"extends": TokExtends,
	"static":  TokStatic,
	"func":    TokFunc,
	"return":  TokReturn,
	"if":      TokIf,
	"else":    TokElse,
	"while":   TokWhile,
	"for":     TokFor,
	"true":    TokTrue,
	"false":   TokFalse,
	"null":    TokNull,
	"int32":   TokInt32,
	"int64":   TokInt64,
	"float32": TokFloat32,
	"float64": TokFloat64,
	"bool":    TokBool,
	"string":  TokString,
	"cptr":    TokCptr,
	"iptr":    TokIptr,
	"fptr":    TokFptr,
	"bptr":    TokBptr,
}

// primitiveTypeNames identifies the keyword kinds that can stand in a
// type_name production.
var primitiveTypeNames = map[TokKind]bool{
	TokInt32: true, TokInt64: true, TokFloat32: true, TokFloat64: true,
	TokBool: true, TokString: true, TokCptr: true, TokIptr: true,
	TokFptr: true, TokBptr: true,
}

// Token is one lexeme with its 1-based source position.
type Token struct {
	Kind   TokKind
	Lexeme string
	Pos    Pos
}
