// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package quantum

import (
	"math"
	"testing"

	"github.com/StarSignalAnt/Quantum3D-sub000/math/lin"
)

func TestPackUBORoundTripsFieldOrderAndPadding(t *testing.T) {
	ubo := frameUBO{
		model:      lin.M4{Xx: 1},
		view:       lin.M4{Yy: 2},
		proj:       lin.M4{Zz: 3},
		viewPos:    lin.V3{X: 4, Y: 5, Z: 6},
		lightPos:   lin.V3{X: 7, Y: 8, Z: 9},
		lightColor: lin.V3{X: 10, Y: 11, Z: 12},
	}
	buf := packUBO(ubo)

	const matBytes = 64
	const vecBytes = 16
	wantLen := 3*matBytes + 3*vecBytes
	if len(buf) != wantLen {
		t.Fatalf("expected %d packed bytes, got %d", wantLen, len(buf))
	}

	readF32 := func(off int) float32 {
		bits := uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16 | uint32(buf[off+3])<<24
		return math.Float32frombits(bits)
	}

	// model.Xx is the first float of the first mat4.
	if got := readF32(0); got != 1 {
		t.Errorf("model.Xx: expected 1, got %v", got)
	}
	// view.Yy is the 6th float (index 5) of the second mat4.
	if got := readF32(matBytes + 5*4); got != 2 {
		t.Errorf("view.Yy: expected 2, got %v", got)
	}
	// proj.Zz is the 11th float (index 10) of the third mat4.
	if got := readF32(2*matBytes + 10*4); got != 3 {
		t.Errorf("proj.Zz: expected 3, got %v", got)
	}

	vecsStart := 3 * matBytes
	if got := readF32(vecsStart); got != 4 {
		t.Errorf("viewPos.X: expected 4, got %v", got)
	}
	if got := readF32(vecsStart + 12); got != 0 {
		t.Errorf("viewPos padding: expected 0, got %v", got)
	}
	if got := readF32(vecsStart + vecBytes); got != 7 {
		t.Errorf("lightPos.X: expected 7, got %v", got)
	}
	if got := readF32(vecsStart + 2*vecBytes); got != 10 {
		t.Errorf("lightColor.X: expected 10, got %v", got)
	}
}

func TestBuildUBOUsesCurrentCameraAndFirstLight(t *testing.T) {
	g := NewSceneGraph()
	node := g.CreateNode("mesh-owner", nil)
	node.AddMesh(newMesh("m"))

	cam := NewCameraNode("cam")
	cam.SetLocalPosition(1, 2, 3)
	cam.SetPerspective(60, 1, 0.1, 100)
	g.SetCurrentCamera(cam)

	lightNode := g.CreateNode("light", nil)
	lightNode.SetLocalPosition(5, 6, 7)
	light := newLight()
	light.R, light.G, light.B = 0.1, 0.2, 0.3
	g.AddLight(lightNode, light)

	r := &SceneRenderer{graph: g, lastView: *lin.NewM4I(), lastProj: *lin.NewM4I()}
	ubo := r.buildUBO(node)

	if ubo.viewPos.X != 1 || ubo.viewPos.Y != 2 || ubo.viewPos.Z != 3 {
		t.Errorf("expected viewPos from the bound camera, got %v", ubo.viewPos)
	}
	if ubo.lightPos.X != 5 || ubo.lightPos.Y != 6 || ubo.lightPos.Z != 7 {
		t.Errorf("expected lightPos from the first registered light, got %v", ubo.lightPos)
	}
	if ubo.lightColor.X != 0.1 || ubo.lightColor.Y != 0.2 || ubo.lightColor.Z != 0.3 {
		t.Errorf("expected lightColor from the first registered light, got %v", ubo.lightColor)
	}
	wantModel := node.WorldMatrix()
	if ubo.model != *wantModel {
		t.Errorf("expected model to be node's world matrix, got %v want %v", ubo.model, *wantModel)
	}
}

func TestBuildUBOFallsBackWithNoLightsRegistered(t *testing.T) {
	g := NewSceneGraph()
	node := g.CreateNode("mesh-owner", nil)

	r := &SceneRenderer{graph: g, lastView: *lin.NewM4I(), lastProj: *lin.NewM4I()}
	ubo := r.buildUBO(node)

	if ubo.lightColor.X == 0 && ubo.lightColor.Y == 0 && ubo.lightColor.Z == 0 {
		t.Errorf("expected a non-zero fallback light color with no lights registered")
	}
}
