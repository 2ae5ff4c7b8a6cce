// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package qlang

import "sort"

// compiler.go drives the four-pass compile: declaration, layout,
// method-signature, and body. There is no LLVM-style IR backend in this
// tree (no ecosystem LLVM binding exists to target); instead the body
// pass lowers each method into a CompiledMethod closure that walks its
// parsed statement list against a ClassLayout-typed Context. The closure
// is built exactly once per method at compile time, so steady-state
// dispatch cost is a map lookup plus a tree-walk, not a re-parse.

// CompiledMethod is a method body lowered to a callable closure. rt gives
// access to native functions and sibling instances; self is nil for a
// static class's methods.
type CompiledMethod func(rt *Runtime, self *ClassInstance, args []QValue) (QValue, error)

// Module is the compiled output of one source unit: its name (the .qm
// module_name field, blank for an anonymous in-memory compile), every
// class's layout, and compiled methods, keyed by class name.
type Module struct {
	Name    string
	Classes map[string]*ClassLayout
	Methods map[string]map[string]CompiledMethod // class name -> method name -> body.
}

// Compiler runs the four passes over a parsed Program.
type Compiler struct {
	name  string
	diags *Diagnostics
	decls map[string]*ClassDecl
	order []string
}

// NewCompiler returns an anonymous compiler that accumulates semantic
// errors in diags; the resulting Module's Name is blank. Use
// NewNamedCompiler when the module will be saved to a .qm file.
func NewCompiler(diags *Diagnostics) *Compiler {
	return NewNamedCompiler("", diags)
}

// NewNamedCompiler returns a compiler whose resulting Module carries name,
// the value written as the .qm file's module_name field.
func NewNamedCompiler(name string, diags *Diagnostics) *Compiler {
	return &Compiler{name: name, diags: diags, decls: map[string]*ClassDecl{}}
}

// Compile runs all four passes and returns the resulting Module. On
// semantic error the Module is still returned (best-effort, so an editor
// can still inspect partially valid output) but diags.HasErrors() is true.
func (c *Compiler) Compile(prog *Program) *Module {
	c.declarationPass(prog)
	layouts := c.layoutPass()
	c.signaturePass(layouts)
	methods := c.bodyPass(prog, layouts)
	return &Module{Name: c.name, Classes: layouts, Methods: methods}
}

// declarationPass registers every class name, rejecting duplicates.
func (c *Compiler) declarationPass(prog *Program) {
	for _, cd := range prog.Classes {
		if _, exists := c.decls[cd.Name]; exists {
			c.diags.Add(RedeclaredClass, cd.Pos, "class %q redeclared", cd.Name)
			continue
		}
		c.decls[cd.Name] = cd
		c.order = append(c.order, cd.Name)
	}
}

// layoutPass builds a ClassLayout per class in dependency order (parents
// before children), detecting unknown-parent and member/method
// redeclaration within a single class body.
func (c *Compiler) layoutPass() map[string]*ClassLayout {
	layouts := map[string]*ClassLayout{}
	var build func(name string, chain map[string]bool) *ClassLayout
	build = func(name string, chain map[string]bool) *ClassLayout {
		if l, ok := layouts[name]; ok {
			return l
		}
		decl, ok := c.decls[name]
		if !ok {
			return nil
		}
		var parentLayout *ClassLayout
		if decl.Extends != "" {
			if chain[decl.Extends] {
				c.diags.Add(UnknownType, decl.Pos, "inheritance cycle involving %q", name)
			} else if _, exists := c.decls[decl.Extends]; !exists {
				c.diags.Add(UnknownType, decl.Pos, "unknown parent class %q", decl.Extends)
			} else {
				chain[name] = true
				parentLayout = build(decl.Extends, chain)
			}
		}
		seenMembers := map[string]bool{}
		for _, m := range decl.Members {
			if seenMembers[m.Name] {
				c.diags.Add(RedeclaredMember, m.Pos, "member %q redeclared in class %q", m.Name, name)
			}
			seenMembers[m.Name] = true
		}
		seenMethods := map[string]bool{}
		for _, md := range decl.Methods {
			if seenMethods[md.Name] {
				c.diags.Add(RedeclaredMethod, md.Pos, "method %q redeclared in class %q", md.Name, name)
			}
			seenMethods[md.Name] = true
		}
		l := buildLayout(decl, parentLayout)
		layouts[name] = l
		return l
	}
	names := append([]string{}, c.order...)
	sort.Strings(names)
	for _, name := range names {
		build(name, map[string]bool{})
	}
	return layouts
}

// signaturePass checks that an overriding method's return type matches the
// signature it overrides.
func (c *Compiler) signaturePass(layouts map[string]*ClassLayout) {
	names := append([]string{}, c.order...)
	sort.Strings(names)
	for _, name := range names {
		decl := c.decls[name]
		layout := layouts[name]
		if layout == nil || decl.Extends == "" {
			continue
		}
		parent := layouts[decl.Extends]
		if parent == nil {
			continue
		}
		for _, md := range decl.Methods {
			if parentSig, ok := parent.Methods[md.Name]; ok {
				ret := md.ReturnType
				if ret == "" {
					ret = "null"
				}
				if ret != parentSig.ReturnType {
					c.diags.Add(ReturnTypeMismatch, md.Pos,
						"method %q.%q return type %q does not match overridden %q.%q return type %q",
						name, md.Name, ret, decl.Extends, md.Name, parentSig.ReturnType)
				}
			}
		}
	}
}

// bodyPass lowers every method and static function body into a
// CompiledMethod closure over the finished layouts.
func (c *Compiler) bodyPass(prog *Program, layouts map[string]*ClassLayout) map[string]map[string]CompiledMethod {
	methods := map[string]map[string]CompiledMethod{}
	for _, decl := range prog.Classes {
		layout := layouts[decl.Name]
		if layout == nil {
			continue
		}
		set := map[string]CompiledMethod{}
		for _, md := range decl.Methods {
			set[md.Name] = compileMethodBody(md, layout, layouts)
		}
		methods[decl.Name] = set
	}
	return methods
}

// compileMethodBody captures md's body and the enclosing layout once, and
// returns a closure that interprets the body against a fresh per-call
// Context each time it is invoked.
func compileMethodBody(md *MethodDecl, layout *ClassLayout, layouts map[string]*ClassLayout) CompiledMethod {
	params := md.Params
	body := md.Body
	return func(rt *Runtime, self *ClassInstance, args []QValue) (QValue, error) {
		ctx := NewContext(nil)
		for i, prm := range params {
			if i < len(args) {
				ctx.SetLocal(prm.Name, args[i])
			} else {
				ctx.SetLocal(prm.Name, Null)
			}
		}
		ev := &evaluator{rt: rt, self: self, layout: layout, layouts: layouts}
		ret, flow, err := ev.execBlock(body, ctx)
		if err != nil {
			return Null, err
		}
		if flow == flowReturn {
			return ret, nil
		}
		return Null, nil
	}
}
