// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package quantum

import (
	"testing"

	"github.com/StarSignalAnt/Quantum3D-sub000/math/lin"
)

func newBakeQuad() *mesh {
	m := newMesh("quad")
	m.SetGeometry([]Vertex{
		{Pos: lin.V3{X: -1, Y: 0, Z: -1}, Normal: lin.V3{X: 0, Y: 1, Z: 0}},
		{Pos: lin.V3{X: 1, Y: 0, Z: -1}, Normal: lin.V3{X: 0, Y: 1, Z: 0}},
		{Pos: lin.V3{X: 1, Y: 0, Z: 1}, Normal: lin.V3{X: 0, Y: 1, Z: 0}},
		{Pos: lin.V3{X: -1, Y: 0, Z: 1}, Normal: lin.V3{X: 0, Y: 1, Z: 0}},
	}, []Triangle{{A: 0, B: 1, C: 2}, {A: 0, B: 2, C: 3}})
	return m
}

func TestBakeFailsWithNoLights(t *testing.T) {
	g := NewSceneGraph()
	n := g.CreateNode("floor", nil)
	n.AddMesh(newBakeQuad())

	b := NewLightmapBaker()
	err := b.Bake(g, DefaultBakeSettings(), nil)
	if err == nil {
		t.Fatalf("expected an error baking a scene with no lights")
	}
	qerr, ok := err.(*Error)
	if !ok || qerr.Code != NoLights {
		t.Errorf("expected NoLights error, got %v", err)
	}
}

func TestBakeFailsWithNoMeshes(t *testing.T) {
	g := NewSceneGraph()
	lightNode := g.CreateNode("light", nil)
	lightNode.SetLocalPosition(0, 5, 0)
	g.AddLight(lightNode, newLight())

	b := NewLightmapBaker()
	err := b.Bake(g, DefaultBakeSettings(), nil)
	if err == nil {
		t.Fatalf("expected an error baking a scene with no meshes")
	}
	qerr, ok := err.(*Error)
	if !ok || qerr.Code != NoMeshes {
		t.Errorf("expected NoMeshes error, got %v", err)
	}
}

func TestBakeProducesLitLightmap(t *testing.T) {
	g := NewSceneGraph()
	floor := g.CreateNode("floor", nil)
	floor.AddMesh(newBakeQuad())

	lightNode := g.CreateNode("light", nil)
	lightNode.SetLocalPosition(0, 5, 0)
	light := newLight()
	light.SetRange(50)
	g.AddLight(lightNode, light)

	settings := DefaultBakeSettings()
	settings.Resolution = 8
	settings.EnableGI = false // keep the test fast and deterministic.

	var lastFraction float64
	var sawComplete bool
	b := NewLightmapBaker()
	err := b.Bake(g, settings, func(fraction float64, status string) {
		lastFraction = fraction
		if status == "Baking complete!" {
			sawComplete = true
		}
	})
	if err != nil {
		t.Fatalf("Bake failed: %v", err)
	}
	if !sawComplete || lastFraction != 1 {
		t.Errorf("expected a final 100%% progress callback, got fraction=%v complete=%v", lastFraction, sawComplete)
	}

	lightmaps := b.BakedLightmaps()
	if len(lightmaps) != 1 {
		t.Fatalf("expected 1 baked lightmap, got %d", len(lightmaps))
	}
	baked := lightmaps[0]
	if baked.Width != settings.Resolution || baked.Height != settings.Resolution {
		t.Errorf("unexpected lightmap size %dx%d", baked.Width, baked.Height)
	}

	// A texel at the lightmap's center should have received some direct
	// light from the overhead point light (the quad faces +Y, the light
	// sits at y=5 directly above it).
	center := baked.Image.RGBAAt(settings.Resolution/2, settings.Resolution/2)
	if center.R == 0 && center.G == 0 && center.B == 0 {
		t.Errorf("expected some lit color at the lightmap center, got black")
	}
	if center.A != 255 {
		t.Errorf("expected opaque alpha, got %d", center.A)
	}
}

func TestEnsureUV2AssignsNonOverlappingCells(t *testing.T) {
	m := newBakeQuad()
	if m.HasUV2() {
		t.Fatalf("test fixture should start without UV2")
	}
	if err := ensureUV2(m, 64); err != nil {
		t.Fatalf("ensureUV2 failed: %v", err)
	}
	if !m.HasUV2() {
		t.Errorf("expected UV2 to be assigned after ensureUV2")
	}
	// ensureUV2 is expected to duplicate vertices into one chart per
	// triangle (see bake.go's doc comment), so the mesh should now have
	// exactly 3 vertices per original triangle.
	if len(m.Vertices) != 6 {
		t.Errorf("expected 6 vertices after per-triangle chart packing, got %d", len(m.Vertices))
	}
}
