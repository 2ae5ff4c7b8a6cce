// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package quantum

// gizmo_scale.go has no original_source counterpart (GizmoBase.h declares
// GizmoType::Scale but no ScaleGizmo.{h,cpp} file exists in the pack).
// Built by generalizing TranslateGizmo's axis-drag math: instead of
// offsetting the target's position along the dragged axis, ScaleGizmo
// multiplies the target's scale on that axis, using small box handles
// (rather than arrows) to read as a scale tool at a glance.

import (
	"math"

	"github.com/StarSignalAnt/Quantum3D-sub000/math/lin"
)

// ScaleGizmo lets a user drag a target SceneNode's scale along one of its
// three axes.
type ScaleGizmo struct {
	gizmoBase

	axisX, axisY, axisZ *mesh
	dragStartScale       lin.V3
}

// NewScaleGizmo builds a scale gizmo with freshly generated box-handle
// meshes for the X, Y, and Z axes.
func NewScaleGizmo() *ScaleGizmo {
	return &ScaleGizmo{
		gizmoBase: newGizmoBase(),
		axisX:     generateScaleHandleMesh("GizmoScaleX", lin.V3{X: 1}),
		axisY:     generateScaleHandleMesh("GizmoScaleY", lin.V3{Y: 1}),
		axisZ:     generateScaleHandleMesh("GizmoScaleZ", lin.V3{Z: 1}),
	}
}

// AxisMeshes returns the gizmo's three handle meshes, in X/Y/Z order, for a
// SceneRenderer to draw.
func (g *ScaleGizmo) AxisMeshes() (x, y, z *mesh) { return g.axisX, g.axisY, g.axisZ }

// OnMouseClicked starts or stops a drag, as TranslateGizmo.OnMouseClicked.
func (g *ScaleGizmo) OnMouseClicked(x, y int, pressed bool, width, height int) bool {
	if pressed {
		axis := g.hitTest(x, y, width, height)
		if axis == AxisNone {
			return false
		}
		g.dragging = true
		g.activeAxis = axis
		g.lastMouseX, g.lastMouseY = x, y
		if g.target != nil {
			g.dragStartPos = *g.target.WorldPosition()
			g.dragStartScale = *g.target.LocalScale()
		}
		return true
	}
	if g.dragging {
		g.dragging = false
		g.activeAxis = AxisNone
		return true
	}
	return false
}

// OnMouseMoved advances an in-progress drag: vertical mouse movement scales
// the target up or down along the active axis, multiplying the running
// drag scale by a factor from the vertical movement since the last move.
func (g *ScaleGizmo) OnMouseMoved(x, y int) {
	if !g.dragging || g.activeAxis == AxisNone || g.target == nil {
		return
	}
	deltaY := float64(g.lastMouseY - y) // up is positive.
	g.lastMouseX, g.lastMouseY = x, y

	const sensitivity = 0.01
	factor := 1 + deltaY*sensitivity

	s := g.dragStartScale
	switch g.activeAxis {
	case AxisX:
		s.X *= factor
	case AxisY:
		s.Y *= factor
	case AxisZ:
		s.Z *= factor
	}
	g.dragStartScale = s
	g.target.SetLocalScale(s.X, s.Y, s.Z)
}

func (g *ScaleGizmo) hitTest(mouseX, mouseY, width, height int) GizmoAxis {
	g.viewportW, g.viewportH = width, height
	if width == 0 || height == 0 {
		return AxisNone
	}
	origin, dir := g.calculatePickingRay(mouseX, mouseY)

	scale := g.currentScale
	if scale < 0.001 {
		scale = g.calculateScreenConstantScale(0.15)
	}
	rotation := g.gizmoRotation()
	model := handleModelMatrix(g.position, rotation, scale)

	best := AxisNone
	bestDist := math.MaxFloat64
	test := func(m *mesh, axis GizmoAxis) {
		if hit, dist := g.hitTestMesh(origin, dir, m, model); hit && dist < bestDist {
			best, bestDist = axis, dist
		}
	}
	test(g.axisX, AxisX)
	test(g.axisY, AxisY)
	test(g.axisZ, AxisZ)
	return best
}

// generateScaleHandleMesh builds a thin shaft capped with a small cube,
// pointing along dir — the same shaft geometry as generateArrowMesh's
// GizmoType::Translate arrow, but with a box cap instead of a pyramid head
// so a scale handle reads differently at a glance.
func generateScaleHandleMesh(name string, dir lin.V3) *mesh {
	const shaftLen = 0.8
	const shaftThick = 0.025
	const capHalf = 0.05

	up := lin.V3{Y: 1}
	if math.Abs(dir.Y) > 0.9 {
		up = lin.V3{X: 1}
	}
	right := cross(dir, up)
	up = cross(right, dir)
	right.Unit()
	up.Unit()

	var verts []Vertex
	var tris []Triangle
	addQuad := func(v0, v1, v2, v3 lin.V3) {
		base := uint32(len(verts))
		verts = append(verts, Vertex{Pos: v0}, Vertex{Pos: v1}, Vertex{Pos: v2}, Vertex{Pos: v3})
		tris = append(tris, Triangle{A: base, B: base + 1, C: base + 2}, Triangle{A: base, B: base + 2, C: base + 3})
	}
	scaled := func(a lin.V3, s float64) lin.V3 { return lin.V3{X: a.X * s, Y: a.Y * s, Z: a.Z * s} }
	add := func(a, b lin.V3) lin.V3 { return lin.V3{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z} }
	sub := func(a, b lin.V3) lin.V3 { return lin.V3{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z} }

	s0 := sub(scaled(right, -shaftThick), scaled(up, shaftThick))
	s1 := sub(scaled(right, shaftThick), scaled(up, shaftThick))
	s2 := add(scaled(right, shaftThick), scaled(up, shaftThick))
	s3 := add(scaled(right, -shaftThick), scaled(up, shaftThick))
	shaftEnd := scaled(dir, shaftLen)
	e0, e1, e2, e3 := add(s0, shaftEnd), add(s1, shaftEnd), add(s2, shaftEnd), add(s3, shaftEnd)

	addQuad(s0, s1, e1, e0)
	addQuad(s1, s2, e2, e1)
	addQuad(s2, s3, e3, e2)
	addQuad(s3, s0, e0, e3)
	addQuad(s1, s0, s3, s2)

	center := shaftEnd
	right, up2 := scaled(right, capHalf), scaled(up, capHalf)
	forward := scaled(dir, capHalf)
	c000 := sub(sub(center, right), up2)
	c100 := add(sub(center, up2), right)
	c110 := add(add(center, right), up2)
	c010 := sub(add(center, up2), right)
	c001 := add(c000, scaled(forward, 2))
	c101 := add(c100, scaled(forward, 2))
	c111 := add(c110, scaled(forward, 2))
	c011 := add(c010, scaled(forward, 2))

	addQuad(c000, c100, c110, c010) // near face.
	addQuad(c001, c011, c111, c101) // far face.
	addQuad(c000, c010, c011, c001) // left face.
	addQuad(c100, c101, c111, c110) // right face.
	addQuad(c010, c110, c111, c011) // top face.
	addQuad(c000, c001, c101, c100) // bottom face.

	m := newMesh(name)
	m.SetGeometry(verts, tris)
	m.Finalize()
	return m
}
