// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package quantum

// pov combines location, direction (orientation), and scale to give a
// "point of view". The original pov was a bare lin.T (location+rotation);
// scale is added here since scene nodes, unlike cameras, need it.

import (
	"github.com/StarSignalAnt/Quantum3D-sub000/math/lin"
)

// pov is a location, orientation, and scale used for placing, rotating
// and sizing objects and cameras in 3D world space.
//
//	pov.Loc   : location/position              - where we are.
//	pov.Rot   : rotation/direction/orientation - which way we're facing.
//	pov.Scale : non-uniform scale              - how big we are.
type pov struct {
	Loc   *lin.V3
	Rot   *lin.Q
	Scale *lin.V3
}

func newPov() pov {
	return pov{Loc: &lin.V3{}, Rot: &lin.Q{X: 0, Y: 0, Z: 0, W: 1}, Scale: &lin.V3{X: 1, Y: 1, Z: 1}}
}

// Set (=, copy, clone) assigns all the elements values from transform a to
// the corresponding element values in pov. Scale is left untouched since
// lin.T (the teacher's camera transform type) carries no scale.
func (p *pov) Set(a *lin.T) {
	p.Loc.Set(a.Loc)
	p.Rot.Set(a.Rot)
}

// Move increments the current position with respect to the current
// orientation, i.e. adds the distance travelled in the current direction
// to the current location.
func (p *pov) Move(x, y, z float64) {
	dx, dy, dz := lin.MultSQ(x, y, z, p.Rot)
	p.Loc.X += dx
	p.Loc.Y += dy
	p.Loc.Z += dz
}

// Spin rotates the current direction by the given number degrees around
// each axis.
func (p *pov) Spin(x, y, z float64) {
	if x != 0 {
		rotation := lin.NewQ().SetAa(1, 0, 0, lin.Rad(x))
		p.Rot.Mult(rotation, p.Rot)
	}
	if y != 0 {
		rotation := lin.NewQ().SetAa(0, 1, 0, lin.Rad(y))
		p.Rot.Mult(rotation, p.Rot)
	}
	if z != 0 {
		rotation := lin.NewQ().SetAa(0, 0, 1, lin.Rad(z))
		p.Rot.Mult(rotation, p.Rot)
	}
}

// Matrix composes the local transform matrix: scale, then rotate, then
// translate (row-vector convention, matching the Scale*/Translate* helpers
// camera.go's view transforms use).
func (p *pov) Matrix() *lin.M4 {
	m := lin.NewM4()
	m.SetQ(p.Rot)
	m.ScaleSM(p.Scale.X, p.Scale.Y, p.Scale.Z)
	m.TranslateMT(p.Loc.X, p.Loc.Y, p.Loc.Z)
	return m
}
