// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package qlang

// context.go implements the lexical scope chain used while a compiled
// method body runs: one Context per block, locals shadowing the parent's.

// Context is one lexical scope: a map of local variables and a link to
// the enclosing scope (nil at the method body's outermost block).
type Context struct {
	vars   map[string]QValue
	parent *Context
}

// NewContext returns a new scope chained to parent (nil for a root scope).
func NewContext(parent *Context) *Context {
	return &Context{vars: map[string]QValue{}, parent: parent}
}

// Child opens a nested scope, used for each block statement (if/while/for
// bodies) so a loop-local variable does not leak into the enclosing scope.
func (c *Context) Child() *Context { return NewContext(c) }

// Lookup searches this scope and its ancestors for name.
func (c *Context) Lookup(name string) (QValue, bool) {
	for s := c; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}
	return Null, false
}

// SetLocal declares or overwrites name in this scope specifically (used
// for parameter binding and var-decl statements).
func (c *Context) SetLocal(name string, v QValue) { c.vars[name] = v }

// Assign updates name in the nearest enclosing scope that declares it,
// falling back to declaring it in the current scope if no ancestor does
// (covers assignment to a name introduced without an explicit var-decl,
// which the grammar permits for loop counters reused across iterations).
func (c *Context) Assign(name string, v QValue) {
	for s := c; s != nil; s = s.parent {
		if _, ok := s.vars[name]; ok {
			s.vars[name] = v
			return
		}
	}
	c.vars[name] = v
}
