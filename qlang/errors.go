// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package qlang

import "fmt"

// Code identifies one of the taxonomy's failure modes. Tokenizer and
// parser errors are accumulated in a Diagnostics collector; compile errors
// are accumulated per class and returned as a batch; runtime errors
// surface directly to the caller of Runtime.CallMethod.
type Code int

const (
	// Syntactic.
	UnterminatedString Code = iota
	UnexpectedToken
	InvalidCharacter

	// Semantic (compile).
	UnknownType
	UnknownMember
	UnknownMethod
	ArityMismatch
	IncompatibleTypes
	RedeclaredClass
	RedeclaredMember
	RedeclaredMethod
	ReturnTypeMismatch

	// Runtime.
	UnknownFunction
	FieldTypeMismatch
	ArgumentTypeError
	NullDereference

	// Module codec.
	InvalidModule
	UnsupportedModuleVersion
	IoError
)

func (c Code) String() string {
	switch c {
	case UnterminatedString:
		return "UnterminatedString"
	case UnexpectedToken:
		return "UnexpectedToken"
	case InvalidCharacter:
		return "InvalidCharacter"
	case UnknownType:
		return "UnknownType"
	case UnknownMember:
		return "UnknownMember"
	case UnknownMethod:
		return "UnknownMethod"
	case ArityMismatch:
		return "ArityMismatch"
	case IncompatibleTypes:
		return "IncompatibleTypes"
	case RedeclaredClass:
		return "RedeclaredClass"
	case RedeclaredMember:
		return "RedeclaredMember"
	case RedeclaredMethod:
		return "RedeclaredMethod"
	case ReturnTypeMismatch:
		return "ReturnTypeMismatch"
	case UnknownFunction:
		return "UnknownFunction"
	case FieldTypeMismatch:
		return "FieldTypeMismatch"
	case ArgumentTypeError:
		return "ArgumentTypeError"
	case NullDereference:
		return "NullDereference"
	case InvalidModule:
		return "InvalidModule"
	case UnsupportedModuleVersion:
		return "UnsupportedModuleVersion"
	case IoError:
		return "IoError"
	default:
		return "Unknown"
	}
}

// Error is a single taxonomy failure, optionally tagged with the source
// position it came from. Runtime and module-codec errors implement the
// plain error interface; Diagnostics accumulates Errors with a Pos.
type Error struct {
	Code    Code
	Message string
	Pos     Pos // zero value if not position-tagged (runtime/codec errors).
}

func (e *Error) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("%s at %d:%d: %s", e.Code, e.Pos.Line, e.Pos.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newErr(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func newErrAt(code Code, pos Pos, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Pos: pos}
}
