// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package qlang implements the QLang scripting front end and runtime: a
// tokenizer, a recursive-descent parser, a four-pass compiler, a closure
// based execution backend, per-instance reflection, and the .qm module
// codec. It interoperates with engine-side code through opaque C-style
// pointers (cptr) and a native function bridge.
package qlang

import "fmt"

// Kind enumerates the dynamic type tag carried by a QValue. The kind of a
// value never changes once the value is constructed; assignment replaces
// the whole QValue, never just its payload.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindString
	KindPtr      // opaque, non-owning C-style pointer (cptr).
	KindInstance // class-instance handle.
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindPtr:
		return "cptr"
	case KindInstance:
		return "instance"
	default:
		return "unknown"
	}
}

// QValue is the scripting layer's tagged dynamic value. The zero QValue is
// null. TypeName is stable for the value's lifetime; Set* helpers replace
// the whole variant rather than mutate the payload in place.
type QValue struct {
	kind Kind
	b    bool
	i32  int32
	i64  int64
	f32  float32
	f64  float64
	str  string
	ptr  any // unsafe.Pointer-compatible opaque value, or *ClassInstance.
}

// Null is the canonical null QValue.
var Null = QValue{kind: KindNull}

func NewBool(v bool) QValue       { return QValue{kind: KindBool, b: v} }
func NewInt32(v int32) QValue     { return QValue{kind: KindInt32, i32: v} }
func NewInt64(v int64) QValue     { return QValue{kind: KindInt64, i64: v} }
func NewFloat32(v float32) QValue { return QValue{kind: KindFloat32, f32: v} }
func NewFloat64(v float64) QValue { return QValue{kind: KindFloat64, f64: v} }
func NewString(v string) QValue   { return QValue{kind: KindString, str: v} }
func NewPtr(v any) QValue         { return QValue{kind: KindPtr, ptr: v} }
func NewInstance(v *ClassInstance) QValue {
	return QValue{kind: KindInstance, ptr: v}
}

// Kind returns the value's dynamic type tag.
func (v QValue) Kind() Kind { return v.kind }

// TypeName returns the primitive type name as used in QLang source
// (int32, float64, cptr, ...).
func (v QValue) TypeName() string { return v.kind.String() }

func (v QValue) Bool() bool          { return v.b }
func (v QValue) Int32() int32        { return v.i32 }
func (v QValue) Int64() int64        { return v.i64 }
func (v QValue) Float32() float32    { return v.f32 }
func (v QValue) Float64() float64    { return v.f64 }
func (v QValue) String() string      { return v.str }
func (v QValue) Ptr() any            { return v.ptr }
func (v QValue) Instance() *ClassInstance {
	if inst, ok := v.ptr.(*ClassInstance); ok {
		return inst
	}
	return nil
}

// AsFloat64 widens any numeric variant to float64, used for arithmetic and
// string coercion. Non-numeric kinds return (0, false).
func (v QValue) AsFloat64() (float64, bool) {
	switch v.kind {
	case KindInt32:
		return float64(v.i32), true
	case KindInt64:
		return float64(v.i64), true
	case KindFloat32:
		return float64(v.f32), true
	case KindFloat64:
		return v.f64, true
	}
	return 0, false
}

// Text renders a QValue for debug output and string-concatenation coercion.
func (v QValue) Text() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt32:
		return fmt.Sprintf("%d", v.i32)
	case KindInt64:
		return fmt.Sprintf("%d", v.i64)
	case KindFloat32:
		return fmt.Sprintf("%g", v.f32)
	case KindFloat64:
		return fmt.Sprintf("%g", v.f64)
	case KindString:
		return v.str
	case KindPtr:
		return fmt.Sprintf("<cptr:%p>", v.ptr)
	case KindInstance:
		return "<instance>"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether the value's kind participates in numeric
// conversions. Boolean is deliberately excluded: QLang booleans are not
// numeric per spec.
func (k Kind) IsNumeric() bool {
	switch k {
	case KindInt32, KindInt64, KindFloat32, KindFloat64:
		return true
	}
	return false
}
