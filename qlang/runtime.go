// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package qlang

// runtime.go hosts a compiled Module's live execution: instance creation,
// method dispatch with argument marshalling, typed field access, and the
// native-function bridge engine code registers into.

// NativeFunc is an engine-provided function callable from QLang source by
// bare identifier (e.g. "print", "printError").
type NativeFunc func(rt *Runtime, args []QValue) (QValue, error)

// Runtime binds one compiled Module to a set of native functions and
// hosts its live instances. A Runtime is not safe for concurrent use from
// multiple goroutines without external synchronization, matching how the
// engine drives it: one scene update tick at a time.
type Runtime struct {
	module  *Module
	natives map[string]NativeFunc
}

// NewRuntime returns a runtime over module with no natives registered.
func NewRuntime(module *Module) *Runtime {
	return &Runtime{module: module, natives: map[string]NativeFunc{}}
}

// RegisterNative binds name so QLang source can call it as a bare
// identifier. Re-registering a name replaces the previous binding.
func (rt *Runtime) RegisterNative(name string, fn NativeFunc) {
	rt.natives[name] = fn
}

// ClassInstance is a live object: its class layout plus one QValue slot
// per flattened member (inherited members first, per ClassLayout.Members).
type ClassInstance struct {
	className string
	layout    *ClassLayout
	rt        *Runtime
	slots     []QValue
}

// ClassName returns the instance's concrete class name.
func (ci *ClassInstance) ClassName() string { return ci.className }

// CreateInstance allocates a new instance of className, running each
// member's default initializer expression (if any) against an empty
// Context — qlang field initializers cannot reference other fields or
// "this", matching original_source's construction order.
func (rt *Runtime) CreateInstance(className string) (*ClassInstance, error) {
	layout, ok := rt.module.Classes[className]
	if !ok {
		return nil, newErr(UnknownType, "unknown class %q", className)
	}
	if layout.IsStatic {
		return nil, newErr(UnknownType, "cannot instantiate static class %q", className)
	}
	inst := &ClassInstance{className: className, layout: layout, rt: rt, slots: make([]QValue, len(layout.Members))}
	ev := &evaluator{rt: rt, self: nil, layout: layout, layouts: rt.module.Classes}
	for i, m := range layout.Members {
		if m.DefaultInit == nil {
			continue
		}
		v, err := ev.eval(m.DefaultInit, NewContext(nil))
		if err != nil {
			return nil, err
		}
		inst.slots[i] = v
	}
	return inst, nil
}

// CallMethod dispatches name on inst with args, marshalling missing
// trailing arguments to null and reporting ArityMismatch if the call
// supplies more arguments than the method declares.
func (rt *Runtime) CallMethod(inst *ClassInstance, name string, args []QValue) (QValue, error) {
	sig, ok := inst.layout.Methods[name]
	if !ok {
		return Null, newErr(UnknownMethod, "class %q has no method %q", inst.className, name)
	}
	if len(args) > len(sig.ParamTypes) {
		return Null, newErr(ArityMismatch, "method %q.%q takes %d argument(s), got %d", inst.className, name, len(sig.ParamTypes), len(args))
	}
	set, ok := rt.module.Methods[sig.DeclaredIn]
	if !ok {
		return Null, newErr(UnknownMethod, "method %q.%q has no compiled body", inst.className, name)
	}
	body, ok := set[name]
	if !ok {
		return Null, newErr(UnknownMethod, "method %q.%q has no compiled body", inst.className, name)
	}
	return body(rt, inst, args)
}

// Get returns the current value of a flattened member by name.
func (ci *ClassInstance) Get(name string) (QValue, error) {
	slot := ci.layout.SlotOf(name)
	if slot < 0 {
		return Null, newErr(UnknownMember, "class %q has no member %q", ci.className, name)
	}
	return ci.slots[slot], nil
}

// Set assigns a flattened member by name, rejecting a value whose kind
// does not match the member's declared type (primitive members only;
// instance-typed members accept any KindInstance value, matching QLang's
// lack of compile-time generic member types).
func (ci *ClassInstance) Set(name string, v QValue) error {
	slot := ci.layout.SlotOf(name)
	if slot < 0 {
		return newErr(UnknownMember, "class %q has no member %q", ci.className, name)
	}
	declared := ci.layout.Members[slot].Type
	if !typeAccepts(declared, v) {
		return newErr(FieldTypeMismatch, "member %q.%q declared %q, assigned %s", ci.className, name, declared, v.TypeName())
	}
	ci.slots[slot] = v
	return nil
}

func typeAccepts(declared string, v QValue) bool {
	switch declared {
	case "int32", "int64", "float32", "float64":
		return v.Kind().IsNumeric() || v.Kind() == KindNull
	case "bool":
		return v.Kind() == KindBool || v.Kind() == KindNull
	case "string":
		return v.Kind() == KindString || v.Kind() == KindNull
	case "cptr", "iptr", "fptr", "bptr":
		return v.Kind() == KindPtr || v.Kind() == KindNull
	default:
		return v.Kind() == KindInstance || v.Kind() == KindNull
	}
}

// MemberView is one member's name, declared type, and current value, used
// by editor-side reflection panels.
type MemberView struct {
	Name  string
	Type  string
	Value QValue
}

// Members returns every flattened member's current value, inherited
// members first, matching ClassLayout.Members order.
func (ci *ClassInstance) Members() []MemberView {
	views := make([]MemberView, len(ci.layout.Members))
	for i, m := range ci.layout.Members {
		views[i] = MemberView{Name: m.Name, Type: m.Type, Value: ci.slots[i]}
	}
	return views
}
