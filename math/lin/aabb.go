// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

import "math"

// aabb.go adds the axis-aligned bounding box the teacher package never
// needed: mesh raycasting uses it as a broad-phase reject before the
// per-triangle Möller–Trumbore test.

// AABB is an axis-aligned bounding box in local or world space.
type AABB struct {
	Min V3
	Max V3
}

// NewAABB returns an AABB inverted so the first ExtendPoint call always
// wins (Min > Max until something has been added).
func NewAABB() *AABB {
	inf := math.MaxFloat64
	return &AABB{Min: V3{X: inf, Y: inf, Z: inf}, Max: V3{X: -inf, Y: -inf, Z: -inf}}
}

// ExtendPoint grows the box to include p.
func (b *AABB) ExtendPoint(p *V3) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
}

// IntersectRay reports whether the ray starting at origin in direction dir
// intersects the box, using the slab method. dir components within
// Epsilon of zero are treated as parallel-to-that-axis (no division).
func (b *AABB) IntersectRay(origin, dir *V3) bool {
	tmin, tmax := -math.MaxFloat64, math.MaxFloat64
	axes := [3]struct{ o, d, lo, hi float64 }{
		{origin.X, dir.X, b.Min.X, b.Max.X},
		{origin.Y, dir.Y, b.Min.Y, b.Max.Y},
		{origin.Z, dir.Z, b.Min.Z, b.Max.Z},
	}
	for _, ax := range axes {
		if Aeq(ax.d, 0) {
			if ax.o < ax.lo || ax.o > ax.hi {
				return false
			}
			continue
		}
		t1 := (ax.lo - ax.o) / ax.d
		t2 := (ax.hi - ax.o) / ax.d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return false
		}
	}
	return tmax >= 0
}
