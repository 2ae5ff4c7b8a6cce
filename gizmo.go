// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package quantum

// gizmo.go is the shared base every interactive manipulation gizmo
// (translate, rotate, scale) embeds, ported from
// original_source/QuantumEngine/GizmoBase.{h,cpp}: axis/space enums, the
// picking-ray and screen-constant-scale helpers, and the drag-state fields
// every concrete gizmo tracks. The teacher's Vulkan-command-buffer Render
// signature and GraphNode weak_ptr target are replaced with this package's
// own SceneNode and a renderer-agnostic mesh list a SceneRenderer can draw.

import (
	"math"

	"github.com/StarSignalAnt/Quantum3D-sub000/math/lin"
)

// GizmoAxis identifies which axis handle a gizmo interaction affects.
type GizmoAxis int

const (
	AxisNone GizmoAxis = iota
	AxisX
	AxisY
	AxisZ
)

// GizmoSpace selects whether a gizmo's handles are oriented to world axes
// or to the target node's own local axes.
type GizmoSpace int

const (
	SpaceLocal GizmoSpace = iota
	SpaceGlobal
)

// gizmoBase holds the state and ray/hit-test helpers common to every
// concrete gizmo type. It is never used directly; embed it in a concrete
// gizmo like TranslateGizmo.
type gizmoBase struct {
	rc *Raycaster

	position   lin.V3
	target     *SceneNode
	camera     *CameraNode
	viewportW  int
	viewportH  int
	space      GizmoSpace

	dragging       bool
	activeAxis     GizmoAxis
	lastMouseX     int
	lastMouseY     int
	dragStartPos   lin.V3
	dragAxisDir    lin.V3
	dragStartAngle float64
	dragStartRot   lin.Q
	currentScale   float64
}

func newGizmoBase() gizmoBase {
	return gizmoBase{rc: NewRaycaster(), currentScale: 1}
}

// SetTargetNode selects the node the gizmo manipulates.
func (g *gizmoBase) SetTargetNode(n *SceneNode) { g.target = n }

// TargetNode returns the node the gizmo currently manipulates, or nil.
func (g *gizmoBase) TargetNode() *SceneNode { return g.target }

// SetPosition places the gizmo directly, independent of any target node.
func (g *gizmoBase) SetPosition(p lin.V3) { g.position = p }

// Position returns the gizmo's current world-space position.
func (g *gizmoBase) Position() lin.V3 { return g.position }

// SetViewState records the camera and viewport size a subsequent
// OnMouseClicked/OnMouseMoved hit test or drag should use.
func (g *gizmoBase) SetViewState(camera *CameraNode, width, height int) {
	g.camera = camera
	g.viewportW, g.viewportH = width, height
}

// IsDragging reports whether an axis handle is currently being dragged.
func (g *gizmoBase) IsDragging() bool { return g.dragging }

// ActiveAxis returns the axis currently being dragged, or AxisNone.
func (g *gizmoBase) ActiveAxis() GizmoAxis { return g.activeAxis }

// SetSpace selects local or global handle orientation.
func (g *gizmoBase) SetSpace(s GizmoSpace) { g.space = s }

// Space returns the gizmo's current handle orientation.
func (g *gizmoBase) Space() GizmoSpace { return g.space }

// SyncWithTarget moves the gizmo to the target node's current world
// position. Callers call this once per frame before Render so the gizmo
// visually tracks a node that a script or another gizmo has moved.
func (g *gizmoBase) SyncWithTarget() {
	if g.target == nil {
		return
	}
	g.position = *g.target.WorldPosition()
}

// gizmoRotation returns the rotation a gizmo's handle meshes should be
// drawn with: identity for global space, the target's local
// (parent-relative) rotation for local space.
func (g *gizmoBase) gizmoRotation() lin.Q {
	if g.space == SpaceGlobal || g.target == nil {
		return *lin.NewQI()
	}
	return *g.target.LocalRotation()
}

// calculatePickingRay derives a world-space ray through the camera and the
// given screen position, using CameraNode's own Ray/WorldPosition.
func (g *gizmoBase) calculatePickingRay(mouseX, mouseY int) (origin, dir lin.V3) {
	if g.camera == nil {
		return
	}
	origin = *g.camera.WorldPosition()
	x, y, z := g.camera.Ray(mouseX, mouseY, g.viewportW, g.viewportH)
	dir = lin.V3{X: x, Y: y, Z: z}
	return
}

// cameraPosition returns the bound camera's world position, or the zero
// vector if no camera is bound.
func (g *gizmoBase) cameraPosition() lin.V3 {
	if g.camera == nil {
		return lin.V3{}
	}
	return *g.camera.WorldPosition()
}

// calculateScreenConstantScale sizes a gizmo's handles so they subtend a
// roughly constant screen-space size regardless of distance from the
// camera, matching GizmoBase::CalculateScreenConstantScale.
func (g *gizmoBase) calculateScreenConstantScale(base float64) float64 {
	cam := g.cameraPosition()
	dx, dy, dz := g.position.X-cam.X, g.position.Y-cam.Y, g.position.Z-cam.Z
	dist := math.Sqrt(dx*dx + dy*dy + dz*dz)
	return base * dist
}

// hitTestMesh raycasts against m placed by model and reports the nearest
// hit, reusing this gizmo's own Raycaster rather than the scene's picking
// one so gizmo hit-testing never shares (and thrashes) the scene's
// triangle cache.
func (g *gizmoBase) hitTestMesh(origin, dir lin.V3, m *mesh, model *lin.M4) (hit bool, dist float64) {
	return g.rc.Cast(m, model, &origin, &dir)
}

// axisDirection returns the unit world-space direction axis points along.
func axisDirection(axis GizmoAxis) lin.V3 {
	switch axis {
	case AxisX:
		return lin.V3{X: 1}
	case AxisY:
		return lin.V3{Y: 1}
	case AxisZ:
		return lin.V3{Z: 1}
	default:
		return lin.V3{}
	}
}

// handleModelMatrix composes the scale-then-rotate-then-translate matrix an
// axis handle mesh is drawn and hit-tested with, following pov.Matrix's
// composition order.
func handleModelMatrix(position lin.V3, rotation lin.Q, scale float64) *lin.M4 {
	m := lin.NewM4()
	m.SetQ(&rotation)
	m.ScaleSM(scale, scale, scale)
	m.TranslateMT(position.X, position.Y, position.Z)
	return m
}
