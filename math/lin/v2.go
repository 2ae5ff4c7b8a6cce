// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// v2.go adds the 2 element vector the original vector/matrix package never
// needed: UV and UV2 (lightmap atlas) texture coordinates are the only
// 2D quantities this engine tracks.

// V2 is a 2 element vector, used for texture and lightmap-atlas coordinates.
type V2 struct {
	X float64
	Y float64
}

// Eq (==) returns true if v and a have identical coordinates.
func (v *V2) Eq(a *V2) bool { return v.X == a.X && v.Y == a.Y }

// Aeq (~=) returns true if v and a are within Epsilon of each other.
func (v *V2) Aeq(a *V2) bool { return Aeq(v.X, a.X) && Aeq(v.Y, a.Y) }

// Add sets v to a+b and returns v.
func (v *V2) Add(a, b *V2) *V2 {
	v.X, v.Y = a.X+b.X, a.Y+b.Y
	return v
}

// Sub sets v to a-b and returns v.
func (v *V2) Sub(a, b *V2) *V2 {
	v.X, v.Y = a.X-b.X, a.Y-b.Y
	return v
}

// Scale sets v to a*s and returns v.
func (v *V2) Scale(a *V2, s float64) *V2 {
	v.X, v.Y = a.X*s, a.Y*s
	return v
}

// NewV2 returns the zero 2 element vector.
func NewV2() *V2 { return &V2{} }
