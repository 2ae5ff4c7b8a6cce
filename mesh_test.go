// Copyright © 2018 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package quantum

import (
	"testing"

	"github.com/StarSignalAnt/Quantum3D-sub000/math/lin"
)

func TestSetGeometryBumpsVersion(t *testing.T) {
	m := newMesh("meshTest")
	before := m.GeometryVersion
	m.SetGeometry([]Vertex{
		{Pos: lin.V3{X: 0, Y: 0, Z: 0}},
		{Pos: lin.V3{X: 1, Y: 0, Z: 0}},
		{Pos: lin.V3{X: 0, Y: 1, Z: 0}},
	}, []Triangle{{A: 0, B: 1, C: 2}})
	if m.GeometryVersion != before+1 {
		t.Errorf("expected version %d got %d", before+1, m.GeometryVersion)
	}
	if m.Finalized {
		t.Errorf("expected Finalized to be cleared after SetGeometry")
	}
}

func TestFinalizeMarksGeometryReady(t *testing.T) {
	m := newMesh("meshTest")
	m.SetGeometry([]Vertex{
		{Pos: lin.V3{X: 0, Y: 0, Z: 0}},
		{Pos: lin.V3{X: 1, Y: 0, Z: 0}},
		{Pos: lin.V3{X: 0, Y: 1, Z: 0}},
	}, []Triangle{{A: 0, B: 1, C: 2}})
	if m.Finalized {
		t.Fatalf("expected Finalized to start false after SetGeometry")
	}
	m.Finalize()
	if !m.Finalized {
		t.Errorf("expected Finalized after Finalize")
	}
}

func TestBoundsComputesAABB(t *testing.T) {
	m := newMesh("meshTest")
	m.SetGeometry([]Vertex{
		{Pos: lin.V3{X: -1, Y: -2, Z: -3}},
		{Pos: lin.V3{X: 4, Y: 5, Z: 6}},
	}, nil)
	b := m.Bounds()
	if b.Min.X != -1 || b.Min.Y != -2 || b.Min.Z != -3 {
		t.Errorf("unexpected min %v", b.Min)
	}
	if b.Max.X != 4 || b.Max.Y != 5 || b.Max.Z != 6 {
		t.Errorf("unexpected max %v", b.Max)
	}
}

func TestHasUV2(t *testing.T) {
	m := newMesh("meshTest")
	m.SetGeometry([]Vertex{{Pos: lin.V3{}}, {Pos: lin.V3{}}}, nil)
	if m.HasUV2() {
		t.Errorf("expected no UV2 before atlas assignment")
	}
	m.Vertices[0].UV2 = lin.V2{X: 0.5, Y: 0.5}
	if !m.HasUV2() {
		t.Errorf("expected UV2 once a vertex carries a non-zero value")
	}
}
