// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package quantum

import (
	"testing"
)

func TestNewTranslateGizmoBuildsThreeArrowMeshes(t *testing.T) {
	g := NewTranslateGizmo()
	x, y, z := g.AxisMeshes()
	for name, m := range map[string]*mesh{"x": x, "y": y, "z": z} {
		if len(m.Vertices) == 0 || len(m.Triangles) == 0 {
			t.Errorf("axis %s mesh has no geometry", name)
		}
		if !m.Finalized {
			t.Errorf("axis %s mesh was not finalized", name)
		}
	}
}

func TestNewRotateGizmoBuildsThreeRingMeshes(t *testing.T) {
	g := NewRotateGizmo()
	x, y, z := g.AxisMeshes()
	for name, m := range map[string]*mesh{"x": x, "y": y, "z": z} {
		if len(m.Vertices) == 0 || len(m.Triangles) == 0 {
			t.Errorf("ring %s mesh has no geometry", name)
		}
	}
}

func TestNewScaleGizmoBuildsThreeHandleMeshes(t *testing.T) {
	g := NewScaleGizmo()
	x, y, z := g.AxisMeshes()
	for name, m := range map[string]*mesh{"x": x, "y": y, "z": z} {
		if len(m.Vertices) == 0 || len(m.Triangles) == 0 {
			t.Errorf("handle %s mesh has no geometry", name)
		}
	}
}

func TestTranslateGizmoDragMovesTargetAlongAxis(t *testing.T) {
	g := NewTranslateGizmo()
	target := NewSceneNode("target")
	target.SetLocalPosition(0, 0, 0)

	cam := NewCameraNode("cam")
	cam.SetLocalPosition(0, 0, 10)
	cam.SetPerspective(60, 1, 0.1, 100)

	g.SetTargetNode(target)
	g.SetViewState(cam, 800, 600)
	g.SyncWithTarget()

	g.dragging = true
	g.activeAxis = AxisX
	g.lastMouseX, g.lastMouseY = 400, 300

	g.OnMouseMoved(450, 300)

	moved := target.LocalPosition()
	if moved.X == 0 {
		t.Errorf("expected target to move along X after drag, stayed at %v", moved)
	}
}

func TestScaleGizmoDragScalesTargetAlongAxis(t *testing.T) {
	g := NewScaleGizmo()
	target := NewSceneNode("target")

	g.SetTargetNode(target)
	g.dragging = true
	g.activeAxis = AxisY
	g.dragStartScale = *target.LocalScale()
	g.lastMouseX, g.lastMouseY = 400, 300

	g.OnMouseMoved(400, 250) // moved up.

	s := target.LocalScale()
	if s.Y <= 1.0 {
		t.Errorf("expected Y scale to grow when dragging up, got %v", s.Y)
	}
	if s.X != 1.0 || s.Z != 1.0 {
		t.Errorf("expected only Y axis to change, got %v", s)
	}
}

func TestRotateGizmoClickWithoutCameraDoesNotStartDrag(t *testing.T) {
	g := NewRotateGizmo()
	target := NewSceneNode("target")
	g.SetTargetNode(target)

	// No camera bound, so hitTest always misses; clicking should not start
	// a drag or consume the click.
	consumed := g.OnMouseClicked(10, 10, true, 800, 600)
	if consumed {
		t.Errorf("expected click to miss with no camera bound")
	}
	if g.IsDragging() {
		t.Errorf("expected no drag to start on a miss")
	}
}
