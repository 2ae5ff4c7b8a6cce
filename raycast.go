// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package quantum

// raycast.go has no teacher precedent — gazed-vu never raycasts against
// mesh geometry, only against simple physics primitives (the deleted
// eng.go's NewBox/NewSphere/NewPlane). It is built from spec.md's mesh
// raycaster description: a per-mesh triangle cache keyed by geometry
// version and guarded by a mutex, and a CPU Möller–Trumbore test run in the
// mesh's local space after transforming the ray by the model's inverse.
// Only the cache lookup and rebuild hold the mutex; concurrent casts run
// their triangle tests in parallel. There is no GPU intersection path.

import (
	"sync"

	"github.com/StarSignalAnt/Quantum3D-sub000/math/lin"
)

const rayEpsilon = 1e-8

type cachedTriangle struct {
	a, b, c lin.V3
}

type meshCacheEntry struct {
	version uint64
	tris    []cachedTriangle
}

// Raycaster casts rays against mesh geometry, caching each mesh's
// world-independent triangle list until its GeometryVersion changes.
// A single Raycaster is safe for concurrent use.
type Raycaster struct {
	mu    sync.Mutex
	cache map[*mesh]*meshCacheEntry
}

// NewRaycaster returns a Raycaster with an empty cache.
func NewRaycaster() *Raycaster {
	return &Raycaster{cache: map[*mesh]*meshCacheEntry{}}
}

// InvalidateMesh drops m's cached triangles, forcing a rebuild on the next
// Cast against it.
func (rc *Raycaster) InvalidateMesh(m *mesh) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	delete(rc.cache, m)
}

// ClearCache drops every mesh's cached triangles.
func (rc *Raycaster) ClearCache() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.cache = map[*mesh]*meshCacheEntry{}
}

func (rc *Raycaster) trianglesFor(m *mesh) []cachedTriangle {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if entry, ok := rc.cache[m]; ok && entry.version == m.GeometryVersion {
		return entry.tris
	}
	tris := make([]cachedTriangle, 0, len(m.Triangles))
	for _, tr := range m.Triangles {
		tris = append(tris, cachedTriangle{
			a: m.Vertices[tr.A].Pos,
			b: m.Vertices[tr.B].Pos,
			c: m.Vertices[tr.C].Pos,
		})
	}
	rc.cache[m] = &meshCacheEntry{version: m.GeometryVersion, tris: tris}
	return tris
}

// Cast intersects a world-space ray (origin, dir) against mesh m placed by
// model (m's local-to-world transform), reporting the nearest hit distance
// in model-space units. dir is transformed by model's inverse but is not
// renormalized afterwards, matching spec.md's raycaster invariant that a
// non-uniformly scaled model warps distance along with direction.
func (rc *Raycaster) Cast(m *mesh, model *lin.M4, origin, dir *lin.V3) (hit bool, dist float64) {
	if len(m.Triangles) == 0 {
		return false, 0
	}
	inv, ok := lin.NewM4().Invert(model)
	if !ok {
		return false, 0
	}

	lo := lin.NewV4().SetS(origin.X, origin.Y, origin.Z, 1)
	lo.MultvM(lo, inv)
	localOrigin := lin.V3{X: lo.X, Y: lo.Y, Z: lo.Z}

	ld := lin.NewV4().SetS(dir.X, dir.Y, dir.Z, 0)
	ld.MultvM(ld, inv)
	localDir := lin.V3{X: ld.X, Y: ld.Y, Z: ld.Z}

	if !m.Bounds().IntersectRay(&localOrigin, &localDir) {
		return false, 0
	}

	found := false
	best := 0.0
	for _, tr := range rc.trianglesFor(m) {
		if t, ok := intersectTriangle(&localOrigin, &localDir, &tr.a, &tr.b, &tr.c); ok {
			if !found || t < best {
				best, found = t, true
			}
		}
	}
	return found, best
}

// intersectTriangle is the Möller–Trumbore ray/triangle intersection test,
// run in whatever space origin, dir, and the triangle vertices share.
func intersectTriangle(origin, dir, a, b, c *lin.V3) (t float64, hit bool) {
	var edge1, edge2, h, s, q lin.V3
	edge1.Sub(b, a)
	edge2.Sub(c, a)
	h.Cross(dir, &edge2)
	det := edge1.Dot(&h)
	if det > -rayEpsilon && det < rayEpsilon {
		return 0, false // ray parallel to the triangle's plane.
	}
	invDet := 1 / det
	s.Sub(origin, a)
	u := invDet * s.Dot(&h)
	if u < 0 || u > 1 {
		return 0, false
	}
	q.Cross(&s, &edge1)
	v := invDet * dir.Dot(&q)
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t = invDet * edge2.Dot(&q)
	if t <= rayEpsilon {
		return 0, false // triangle is behind the ray origin.
	}
	return t, true
}
