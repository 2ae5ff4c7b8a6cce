// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package quantum

// cameranode.go adapts camera.go's projection/inverse-projection math and
// Ray/Screen picking onto a SceneNode, per
// original_source/QuantumEngine/CameraNode.h. Unlike the teacher's
// standalone camera struct, a CameraNode is placed in the graph like any
// other node (it can be parented, animated, scripted); WorldMatrix is
// overridden to return the inverse of the node's placement transform (the
// view matrix a renderer actually wants), while WorldPosition keeps
// returning the true, un-inverted world position.

import (
	"github.com/StarSignalAnt/Quantum3D-sub000/math/lin"
)

// CameraNode is a SceneNode that also tracks a projection and exposes the
// view-matrix/ray-casting helpers a renderer and a picking tool need.
type CameraNode struct {
	*SceneNode

	pm  *lin.M4 // Projection matrix.
	ipm *lin.M4 // Inverse projection matrix.

	v0  lin.V4 // Scratch for Ray/Screen calculations.
	ray lin.V3
}

// NewCameraNode returns a camera node at the graph origin looking down -Z,
// with an uninitialized projection (SetPerspective or SetOrthographic must
// be called before Ray or Screen are used).
func NewCameraNode(name string) *CameraNode {
	return &CameraNode{
		SceneNode: NewSceneNode(name),
		pm:        lin.NewM4(),
		ipm:       lin.NewM4(),
	}
}

// SetPerspective configures a 3D perspective projection. fov is in degrees.
func (c *CameraNode) SetPerspective(fov, aspect, near, far float64) {
	c.pm.Persp(fov, aspect, near, far)
	c.ipm.PerspInv(fov, aspect, near, far)
}

// SetOrthographic configures a 2D orthographic projection.
func (c *CameraNode) SetOrthographic(left, right, bottom, top, near, far float64) {
	c.pm.Ortho(left, right, bottom, top, near, far)
	c.ipm.Set(lin.M4I) // orthographic views are expected to match screen pixel sizes.
}

// ViewMatrix returns the inverse of the node's placement transform: the
// matrix a renderer multiplies world-space geometry by to get view space.
// This is what CameraNode's WorldMatrix override returns.
func (c *CameraNode) ViewMatrix() *lin.M4 {
	view, ok := lin.NewM4().Invert(c.SceneNode.WorldMatrix())
	if !ok {
		return lin.NewM4I()
	}
	return view
}

// WorldMatrix overrides SceneNode.WorldMatrix to return the view matrix
// (the placement transform's inverse) rather than the placement transform
// itself, matching how a camera's "world matrix" is consumed downstream.
// Use WorldPosition for the camera's actual world-space location.
func (c *CameraNode) WorldMatrix() *lin.M4 { return c.ViewMatrix() }

// WorldPosition returns the camera's true (un-inverted) world-space
// location, overriding nothing — SceneNode's placement transform already
// carries the real position; only WorldMatrix's meaning changes for a
// camera.
func (c *CameraNode) WorldPosition() *lin.V3 { return c.SceneNode.WorldPosition() }

// Ray applies the inverse projection and inverse view transforms to derive
// a world-space direction for a ray cast from the camera through the
// mouse's mx, my screen position, given window dimensions ww, wh. See
// camera.go's Ray for the derivation this generalizes.
func (c *CameraNode) Ray(mx, my, ww, wh int) (x, y, z float64) {
	c.ray.SetS(0, 0, 0)
	if mx < 0 || mx > ww || my < 0 || my > wh {
		return c.ray.X, c.ray.Y, c.ray.Z
	}
	clipx := float64(2*mx)/float64(ww) - 1
	clipy := float64(2*my)/float64(wh) - 1
	clip := c.v0.SetS(clipx, clipy, -1, 1)

	eye := clip.MultvM(clip, c.ipm)
	eye.Z = -1
	eye.W = 0

	invView, ok := lin.NewM4().Invert(c.ViewMatrix())
	if !ok {
		invView = lin.NewM4I()
	}
	world := eye.MultvM(eye, invView)
	c.ray.SetS(world.X, world.Y, world.Z)
	c.ray.Unit()
	return c.ray.X, c.ray.Y, c.ray.Z
}

// Screen projects a world-space point wx, wy, wz to 2D screen coordinates
// sx, sy given window dimensions ww, wh. The reverse of Ray.
func (c *CameraNode) Screen(wx, wy, wz float64, ww, wh int) (sx, sy int) {
	vec := c.v0.SetS(wx, wy, wz, 1)
	vec.MultvM(vec, c.ViewMatrix())
	vec.MultvM(vec, c.pm)
	clipx := vec.X/vec.W + 1
	clipy := vec.Y/vec.W + 1
	sx = int(lin.Round(clipx*0.5*float64(ww), 0))
	sy = int(lin.Round(clipy*0.5*float64(wh), 0))
	return
}
