// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package qlang

// Pos is a 1-based source location. Every token and every AST node records
// the Pos of its first token so later diagnostics can point at it.
type Pos struct {
	Line   int
	Column int
}

// Diagnostics accumulates source-position-tagged errors without stopping
// the pass that raised them. The tokenizer, parser, and compiler all share
// this accumulate-and-continue policy; editor panels render the whole
// batch with spans rather than surfacing the first failure only.
type Diagnostics struct {
	errs []*Error
}

// NewDiagnostics returns an empty collector.
func NewDiagnostics() *Diagnostics { return &Diagnostics{} }

// Add records a diagnostic at the given position.
func (d *Diagnostics) Add(code Code, pos Pos, format string, args ...any) {
	d.errs = append(d.errs, newErrAt(code, pos, format, args...))
}

// Errors returns the accumulated diagnostics in emission order.
func (d *Diagnostics) Errors() []*Error { return d.errs }

// HasErrors reports whether any diagnostic was recorded.
func (d *Diagnostics) HasErrors() bool { return len(d.errs) > 0 }

// Reset clears accumulated diagnostics so a collector can be reused across
// a restartable token sequence.
func (d *Diagnostics) Reset() { d.errs = d.errs[:0] }
