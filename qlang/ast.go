// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package qlang

// ast.go declares the typed AST produced by the parser. Every node records
// the Pos of its first token for diagnostics raised during compilation.

// Program is the root of a parsed source file.
type Program struct {
	Classes []*ClassDecl
	Funcs   []*FuncDecl
}

// TypeRef names a declared type: either a primitive keyword or a class
// name resolved later by the compiler.
type TypeRef struct {
	Name string
	Pos  Pos
}

// MemberDecl is a class field: a declared type, a name, and an optional
// initializer expression.
type MemberDecl struct {
	Type TypeRef
	Name string
	Init Expr // nil if absent.
	Pos  Pos
}

// ClassDecl is a top-level class declaration.
type ClassDecl struct {
	Name       string
	Extends    string // "" if no parent.
	IsStatic   bool
	Members    []*MemberDecl
	Methods    []*MethodDecl
	Pos        Pos
}

// MethodDecl is a method declaration inside a class body.
type MethodDecl struct {
	Name       string
	Params     []*Param
	ReturnType string // "" defaults to "null" per spec.
	Body       *BlockStmt
	Pos        Pos
}

// FuncDecl is a top-level (non-method) function declaration. QLang source
// programs used by the engine are normally all-class, but the grammar
// permits top-level funcs. The parser collects them in Program.Funcs; the
// compiler does not compile them, so they are not callable at run time.
type FuncDecl struct {
	Name       string
	Params     []*Param
	ReturnType string
	Body       *BlockStmt
	Pos        Pos
}

// Param is one method/function parameter.
type Param struct {
	Type TypeRef
	Name string
}

// Stmt is the interface implemented by every statement node.
type Stmt interface{ stmtPos() Pos }

type BlockStmt struct {
	Stmts []Stmt
	Pos   Pos
}

type VarDeclStmt struct {
	Type TypeRef
	Name string
	Init Expr // nil if absent.
	Pos  Pos
}

type AssignStmt struct {
	Target Expr // identifier or member-access.
	Value  Expr
	Pos    Pos
}

type IfStmt struct {
	Cond Expr
	Then *BlockStmt
	Else Stmt // *BlockStmt or *IfStmt, nil if absent.
	Pos  Pos
}

type WhileStmt struct {
	Cond Expr
	Body *BlockStmt
	Pos  Pos
}

type ForStmt struct {
	Init Stmt // VarDeclStmt, AssignStmt, or nil.
	Cond Expr // nil means "true".
	Post Stmt // AssignStmt or nil.
	Body *BlockStmt
	Pos  Pos
}

type ReturnStmt struct {
	Value Expr // nil for bare return.
	Pos   Pos
}

type ExprStmt struct {
	X   Expr
	Pos Pos
}

func (s *BlockStmt) stmtPos() Pos    { return s.Pos }
func (s *VarDeclStmt) stmtPos() Pos  { return s.Pos }
func (s *AssignStmt) stmtPos() Pos   { return s.Pos }
func (s *IfStmt) stmtPos() Pos       { return s.Pos }
func (s *WhileStmt) stmtPos() Pos    { return s.Pos }
func (s *ForStmt) stmtPos() Pos      { return s.Pos }
func (s *ReturnStmt) stmtPos() Pos   { return s.Pos }
func (s *ExprStmt) stmtPos() Pos     { return s.Pos }

// Expr is the interface implemented by every expression node.
type Expr interface{ exprPos() Pos }

type LiteralExpr struct {
	Kind Kind // KindInt32, KindInt64, KindFloat32, KindFloat64, KindString, KindBool, KindNull.
	Raw  string
	Pos  Pos
}

type IdentExpr struct {
	Name string
	Pos  Pos
}

type MemberExpr struct {
	Target Expr
	Name   string
	Pos    Pos
}

type CallExpr struct {
	Callee Expr // IdentExpr (native/func) or MemberExpr (method call).
	Args   []Expr
	Pos    Pos
}

type BinaryExpr struct {
	Op    TokKind
	Left  Expr
	Right Expr
	Pos   Pos
}

type UnaryExpr struct {
	Op  TokKind
	X   Expr
	Pos Pos
}

type CastExpr struct {
	Type TypeRef
	X    Expr
	Pos  Pos
}

func (e *LiteralExpr) exprPos() Pos { return e.Pos }
func (e *IdentExpr) exprPos() Pos   { return e.Pos }
func (e *MemberExpr) exprPos() Pos  { return e.Pos }
func (e *CallExpr) exprPos() Pos    { return e.Pos }
func (e *BinaryExpr) exprPos() Pos  { return e.Pos }
func (e *UnaryExpr) exprPos() Pos   { return e.Pos }
func (e *CastExpr) exprPos() Pos    { return e.Pos }
