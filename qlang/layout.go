// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package qlang

// layout.go computes the struct-of-offsets reflection layout for a class:
// the flattened, inheritance-ordered member list used by ClassInstance for
// typed field access, and the method signature table used for dispatch and
// arity/type checking.

// MemberInfo describes one flattened class field: its declared type, its
// slot index in the instance's backing QValue slice, its byte offset and
// type token per the .qm wire format, and which class in the inheritance
// chain declared it.
type MemberInfo struct {
	Name        string
	Type        string
	TypeToken   int32
	Slot        int
	ByteOffset  int
	DeclaredIn  string
	DefaultInit Expr
}

// MethodSig is the resolved signature of a compiled method: parameter
// types (for arity/type checks at call sites) and the return type.
type MethodSig struct {
	Name       string
	ParamTypes []string
	ReturnType string
	DeclaredIn string
}

// ClassLayout is the flattened, order-stable member/method table for one
// class, inherited members first (parent-to-child), own members appended
// after. Two classes with identical declared member sequences produce
// byte-identical slot assignments and byte offsets, which is what lets
// .qm files and live ClassInstances agree on field order and shape across
// independent compiles.
//
// Storage itself stays Go-native: a ClassInstance holds one QValue per
// member in a slice indexed by Slot, not a raw byte buffer read and
// written through ByteOffset/TypeToken with unsafe casts. ByteOffset and
// TotalSize are still computed here, to the letter of the offset/alignment
// rule below, as metadata for editor-reflection callers — a QLang host
// embedding the engine in another language reads them off a loaded Module
// without ever touching Go's QValue representation. The .qm codec does not
// write them; see module.go's codec comment.
type ClassLayout struct {
	Name      string
	Parent    string
	IsStatic  bool
	Members   []MemberInfo
	Methods   map[string]*MethodSig
	MethodSeq []string // method names in declaration order, for deterministic serialization.
	TotalSize int      // byte size including trailing alignment padding.
	align     int      // largest member alignment seen, used to pad TotalSize.
}

// SlotOf returns the flattened slot index of a member by name, or -1.
func (l *ClassLayout) SlotOf(name string) int {
	for i := range l.Members {
		if l.Members[i].Name == name {
			return i
		}
	}
	return -1
}

// memberTypeShape returns typeName's byte size and natural alignment.
// Primitives use their machine width; string, the opaque pointer types
// (cptr/iptr/fptr/bptr), and class-typed members are all stored as an
// 8-byte handle (a Go string header, a C-style pointer, or an instance
// reference respectively).
func memberTypeShape(typeName string) (size, align int) {
	switch typeName {
	case "bool":
		return 1, 1
	case "int32", "float32":
		return 4, 4
	case "int64", "float64":
		return 8, 8
	default: // string, cptr, iptr, fptr, bptr, or a class name.
		return 8, 8
	}
}

// memberTypeToken maps typeName to the i32 type_token the .qm format
// records, reusing the runtime's own Kind enumeration so a loaded module's
// token always matches the Kind a freshly-compiled one would assign.
func memberTypeToken(typeName string) int32 {
	switch typeName {
	case "bool":
		return int32(KindBool)
	case "int32":
		return int32(KindInt32)
	case "int64":
		return int32(KindInt64)
	case "float32":
		return int32(KindFloat32)
	case "float64":
		return int32(KindFloat64)
	case "string":
		return int32(KindString)
	case "cptr", "iptr", "fptr", "bptr":
		return int32(KindPtr)
	default:
		return int32(KindInstance)
	}
}

func alignUp(offset, align int) int {
	if align <= 1 {
		return offset
	}
	return (offset + align - 1) / align * align
}

// buildLayout flattens decl's own members onto parentLayout's member list
// (nil parentLayout for a root class), assigning slots and byte offsets in
// that order. Inherited members keep the offsets parentLayout already gave
// them; the class's own members continue from parentLayout.TotalSize,
// each aligned up to its own natural alignment, per §4.3's layout pass.
func buildLayout(decl *ClassDecl, parentLayout *ClassLayout) *ClassLayout {
	l := &ClassLayout{
		Name:     decl.Name,
		Parent:   decl.Extends,
		IsStatic: decl.IsStatic,
		Methods:  map[string]*MethodSig{},
		align:    1,
	}
	offset := 0
	if parentLayout != nil {
		l.Members = append(l.Members, parentLayout.Members...)
		for name, sig := range parentLayout.Methods {
			l.Methods[name] = sig
		}
		l.MethodSeq = append(l.MethodSeq, parentLayout.MethodSeq...)
		offset = parentLayout.TotalSize
		l.align = parentLayout.align
	}
	for _, m := range decl.Members {
		size, align := memberTypeShape(m.Type.Name)
		offset = alignUp(offset, align)
		if align > l.align {
			l.align = align
		}
		l.Members = append(l.Members, MemberInfo{
			Name:        m.Name,
			Type:        m.Type.Name,
			TypeToken:   memberTypeToken(m.Type.Name),
			Slot:        len(l.Members),
			ByteOffset:  offset,
			DeclaredIn:  decl.Name,
			DefaultInit: m.Init,
		})
		offset += size
	}
	l.TotalSize = alignUp(offset, l.align)
	for _, md := range decl.Methods {
		paramTypes := make([]string, len(md.Params))
		for i, prm := range md.Params {
			paramTypes[i] = prm.Type.Name
		}
		ret := md.ReturnType
		if ret == "" {
			ret = "null"
		}
		if _, exists := l.Methods[md.Name]; !exists {
			l.MethodSeq = append(l.MethodSeq, md.Name)
		}
		l.Methods[md.Name] = &MethodSig{
			Name:       md.Name,
			ParamTypes: paramTypes,
			ReturnType: ret,
			DeclaredIn: decl.Name,
		}
	}
	return l
}
