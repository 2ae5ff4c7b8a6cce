// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package quantum

// gizmo_translate.go ports original_source/QuantumEngine/TranslateGizmo.{h,
// cpp}: three arrow-shaped axis handles, hit-tested against the picking
// ray, and a drag that projects mouse movement onto the active axis's
// screen-space direction to derive a world-space offset.

import (
	"math"

	"github.com/StarSignalAnt/Quantum3D-sub000/math/lin"
)

// TranslateGizmo lets a user drag a target SceneNode along one of its
// three axes.
type TranslateGizmo struct {
	gizmoBase

	axisX, axisY, axisZ *mesh
}

// NewTranslateGizmo builds a translate gizmo with freshly generated arrow
// meshes for the X, Y, and Z axes.
func NewTranslateGizmo() *TranslateGizmo {
	return &TranslateGizmo{
		gizmoBase: newGizmoBase(),
		axisX:     generateArrowMesh("GizmoX", lin.V3{X: 1}),
		axisY:     generateArrowMesh("GizmoY", lin.V3{Y: 1}),
		axisZ:     generateArrowMesh("GizmoZ", lin.V3{Z: 1}),
	}
}

// AxisMeshes returns the gizmo's three arrow meshes, in X/Y/Z order, for a
// SceneRenderer to draw.
func (g *TranslateGizmo) AxisMeshes() (x, y, z *mesh) { return g.axisX, g.axisY, g.axisZ }

// OnMouseClicked starts or stops a drag. It returns true if the gizmo
// consumed the click (so the caller should not also run node selection).
func (g *TranslateGizmo) OnMouseClicked(x, y int, pressed bool, width, height int) bool {
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

// OnMouseMoved advances an in-progress drag, moving the target node along
// the active axis by the screen-space-projected mouse delta.
func (g *TranslateGizmo) OnMouseMoved(x, y int) {
	if !g.dragging || g.activeAxis == AxisNone || g.target == nil || g.camera == nil {
		return
	}
	deltaX, deltaY := float64(x-g.lastMouseX), float64(y-g.lastMouseY)
	g.lastMouseX, g.lastMouseY = x, y

	axisDir := axisDirection(g.activeAxis)

	gizmoSX, gizmoSY := g.camera.Screen(g.position.X, g.position.Y, g.position.Z, g.viewportW, g.viewportH)
	endPoint := lin.V3{X: g.position.X + axisDir.X, Y: g.position.Y + axisDir.Y, Z: g.position.Z + axisDir.Z}
	endSX, endSY := g.camera.Screen(endPoint.X, endPoint.Y, endPoint.Z, g.viewportW, g.viewportH)

	screenAxisX, screenAxisY := float64(endSX-gizmoSX), float64(gizmoSY-endSY) // Y inverted.
	screenLen := math.Sqrt(screenAxisX*screenAxisX + screenAxisY*screenAxisY)
	if screenLen < 0.001 {
		return
	}
	screenAxisX, screenAxisY = screenAxisX/screenLen, screenAxisY/screenLen

	normDeltaX := deltaX / float64(g.viewportW) * 2
	normDeltaY := deltaY / float64(g.viewportH) * 2
	movement := normDeltaX*screenAxisX + normDeltaY*screenAxisY

	camPos := g.cameraPosition()
	dx, dy, dz := camPos.X-g.position.X, camPos.Y-g.position.Y, camPos.Z-g.position.Z
	distance := math.Sqrt(dx*dx + dy*dy + dz*dz)

	const sensitivity = 2.0
	worldMovement := movement * distance * sensitivity

	cur := g.target.WorldPosition()
	newPos := lin.V3{
		X: cur.X + axisDir.X*worldMovement,
		Y: cur.Y + axisDir.Y*worldMovement,
		Z: cur.Z + axisDir.Z*worldMovement,
	}
	g.target.SetLocalPosition(newPos.X, newPos.Y, newPos.Z)
	g.position = newPos
}

func (g *TranslateGizmo) hitTest(mouseX, mouseY, width, height int) GizmoAxis {
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

// generateArrowMesh builds a unit-length arrow (a thin box shaft topped by
// a pyramid head) pointing along dir, ported from
// TranslateGizmo::GenerateMeshes's createArrow lambda.
func generateArrowMesh(name string, dir lin.V3) *mesh {
	const shaftLen = 0.8
	const shaftThick = 0.025
	const headLen = 0.2
	const headThick = 0.06

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
	addTri := func(v0, v1, v2 lin.V3) {
		base := uint32(len(verts))
		verts = append(verts, Vertex{Pos: v0}, Vertex{Pos: v1}, Vertex{Pos: v2})
		tris = append(tris, Triangle{A: base, B: base + 1, C: base + 2})
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
	addQuad(e0, e1, e2, e3)

	h0 := add(sub(scaled(right, -headThick), scaled(up, headThick)), shaftEnd)
	h1 := add(sub(scaled(right, headThick), scaled(up, headThick)), shaftEnd)
	h2 := add(add(scaled(right, headThick), scaled(up, headThick)), shaftEnd)
	h3 := add(add(scaled(right, -headThick), scaled(up, headThick)), shaftEnd)
	tip := scaled(dir, shaftLen+headLen)

	addQuad(h0, h1, h2, h3)
	addTri(h0, h3, tip)
	addTri(h1, h0, tip)
	addTri(h2, h1, tip)
	addTri(h3, h2, tip)

	m := newMesh(name)
	m.SetGeometry(verts, tris)
	m.Finalize()
	return m
}

func cross(a, b lin.V3) lin.V3 {
	return lin.V3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}
