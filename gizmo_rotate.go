// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package quantum

// gizmo_rotate.go ports original_source/QuantumEngine/RotateGizmo.{h,cpp}:
// three torus ring handles, one per axis, and a drag that tracks the mouse
// angle around the gizmo's screen-space center to derive a rotation delta.

import (
	"math"

	"github.com/StarSignalAnt/Quantum3D-sub000/math/lin"
)

// RotateGizmo lets a user drag a target SceneNode's orientation around one
// of its three axes.
type RotateGizmo struct {
	gizmoBase

	ringX, ringY, ringZ *mesh
}

// NewRotateGizmo builds a rotate gizmo with freshly generated torus meshes
// for the X, Y, and Z rings.
func NewRotateGizmo() *RotateGizmo {
	return &RotateGizmo{
		gizmoBase: newGizmoBase(),
		ringX:     generateTorusMesh("GizmoRingX", lin.V3{Y: 1}, 90),
		ringY:     generateTorusMesh("GizmoRingY", lin.V3{X: 1}, 90),
		ringZ:     generateTorusMesh("GizmoRingZ", lin.V3{Z: 1}, 0),
	}
}

// AxisMeshes returns the gizmo's three ring meshes, in X/Y/Z order, for a
// SceneRenderer to draw.
func (g *RotateGizmo) AxisMeshes() (x, y, z *mesh) { return g.ringX, g.ringY, g.ringZ }

// OnMouseClicked starts or stops a drag, as TranslateGizmo.OnMouseClicked.
func (g *RotateGizmo) OnMouseClicked(x, y int, pressed bool, width, height int) bool {
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
			g.dragAxisDir = axisDirection(axis)
			g.dragStartAngle = g.angleFromMouse(x, y)
			g.dragStartRot = *g.target.LocalRotation()
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

// OnMouseMoved advances an in-progress drag, applying the mouse angle
// delta (around the gizmo's screen-space projection) as a rotation around
// the active axis, composed onto the node's rotation as it stood when the
// drag started.
func (g *RotateGizmo) OnMouseMoved(x, y int) {
	if !g.dragging || g.activeAxis == AxisNone || g.target == nil || g.camera == nil {
		return
	}
	currentAngle := g.angleFromMouse(x, y)
	deltaAngle := currentAngle - g.dragStartAngle

	delta := lin.NewQ().SetAa(g.dragAxisDir.X, g.dragAxisDir.Y, g.dragAxisDir.Z, deltaAngle)
	newRot := lin.NewQ().Mult(delta, &g.dragStartRot)
	g.target.SetLocalRotation(newRot.X, newRot.Y, newRot.Z, newRot.W)
}

// angleFromMouse returns the angle, in radians, of the mouse position
// around the gizmo's screen-space center. Used both to capture the drag's
// starting angle and to measure its current one.
func (g *RotateGizmo) angleFromMouse(mouseX, mouseY int) float64 {
	cx, cy := g.camera.Screen(g.position.X, g.position.Y, g.position.Z, g.viewportW, g.viewportH)
	return math.Atan2(float64(mouseY-cy), float64(mouseX-cx))
}

func (g *RotateGizmo) hitTest(mouseX, mouseY, width, height int) GizmoAxis {
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
	test(g.ringX, AxisX)
	test(g.ringY, AxisY)
	test(g.ringZ, AxisZ)
	return best
}

// generateTorusMesh builds a torus ring (the rotate gizmo's handle shape),
// oriented by rotating the canonical XY-plane torus rotationAngleDeg
// degrees around rotationAxis. Port of RotateGizmo::GenerateMeshes's
// createTorus lambda.
func generateTorusMesh(name string, rotationAxis lin.V3, rotationAngleDeg float64) *mesh {
	const majorRadius = 1.0
	const minorRadius = 0.03
	const majorSegments = 48
	const minorSegments = 12

	rot := lin.NewQ().SetAa(rotationAxis.X, rotationAxis.Y, rotationAxis.Z, lin.Rad(rotationAngleDeg))

	var verts []Vertex
	for i := 0; i <= majorSegments; i++ {
		u := float64(i) / majorSegments * 2 * math.Pi
		for j := 0; j <= minorSegments; j++ {
			v := float64(j) / minorSegments * 2 * math.Pi

			x := (majorRadius + minorRadius*math.Cos(v)) * math.Cos(u)
			y := (majorRadius + minorRadius*math.Cos(v)) * math.Sin(u)
			z := minorRadius * math.Sin(v)

			nx := math.Cos(v) * math.Cos(u)
			ny := math.Cos(v) * math.Sin(u)
			nz := math.Sin(v)

			pos := lin.V3{X: x, Y: y, Z: z}
			pos.MultvQ(&pos, rot)
			norm := lin.V3{X: nx, Y: ny, Z: nz}
			norm.MultvQ(&norm, rot)
			norm.Unit()

			verts = append(verts, Vertex{
				Pos:    pos,
				Normal: norm,
				UV:     lin.V2{X: float64(i) / majorSegments, Y: float64(j) / minorSegments},
			})
		}
	}

	var tris []Triangle
	for i := 0; i < majorSegments; i++ {
		for j := 0; j < minorSegments; j++ {
			a := uint32(i*(minorSegments+1) + j)
			b := a + minorSegments + 1
			tris = append(tris, Triangle{A: a, B: b, C: a + 1}, Triangle{A: b, B: b + 1, C: a + 1})
		}
	}

	m := newMesh(name)
	m.SetGeometry(verts, tris)
	m.Finalize()
	return m
}
