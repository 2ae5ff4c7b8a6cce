// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package quantum

import (
	"fmt"
	"hash/crc64"
	"math"

	"github.com/StarSignalAnt/Quantum3D-sub000/math/lin"
	"github.com/StarSignalAnt/Quantum3D-sub000/render/vk"
)

// msh tags a mesh's aid as a mesh-type asset, and stringHash turns its name
// into the low bits of that id, following assets.go's assetType/assetID
// scheme in the teacher repo. Nothing outside this package's mesh cache
// keys off asset type anymore, so the rest of that scheme was not ported.
const msh = 3

var crcTable = crc64.MakeTable(crc64.ISO)

func stringHash(s string) uint64 { return crc64.Checksum([]byte(s), crcTable) }

// Vertex is one CPU-side vertex: position, normal, and the two UV sets a
// mesh carries — UV for the material's base textures, UV2 for a baked
// lightmap atlas (absent until a bake's chart-packing step assigns it).
type Vertex struct {
	Pos    lin.V3
	Normal lin.V3
	UV     lin.V2
	UV2    lin.V2
}

// Triangle indexes three Vertex entries in a mesh's Vertices slice.
type Triangle struct {
	A, B, C uint32
}

// mesh holds 3D model data in a format that is easily consumed by a rendering
// layer. The data consists of one or more sets of per-vertex data points and
// how the vertex positions are organized into shapes like triangles or lines.
// A mesh is expected to be referenced by multiple models and thus does not
// contain any instance information like location or scale. A mesh is most
// often created by the asset pipeline from disk based files that were in turn
// created by tools like Blender.
//
// A mesh keeps its triangle geometry in plain CPU arrays: the raycaster and
// lightmap baker need random-access vertex/triangle reads that a bound GPU
// buffer can't give them cheaply, and the Vulkan draw path uploads its own
// device-local buffers lazily from those same arrays. GeometryVersion bumps
// on every Vertices/Triangles mutation so both caches know to rebuild.
type mesh struct {
	name string // Unique mesh name.
	tag  uint64 // name and type as a number.

	// CPU-side geometry consumed by raycasting and lightmap baking.
	Vertices        []Vertex
	Triangles       []Triangle
	GeometryVersion uint64
	Finalized       bool
	bounds          *lin.AABB

	// Vulkan device-local geometry buffers, uploaded lazily by
	// ensureGPUBuffers on first draw; gpuVersion tags the GeometryVersion
	// they were built from, so a geometry change triggers a rebuild on the
	// next draw.
	gpuVertexBuffer vk.Buffer
	gpuIndexBuffer  vk.Buffer
	indexCount      uint32
	gpuVersion      uint64

	// material is the mesh's bound PBR material, per
	// original_source/QuantumEngine/Mesh3D.h's Mesh3D::GetMaterial/
	// SetMaterial. A mesh with no material bound renders with the
	// renderer's default pipeline and texture.
	material *Material
}

// SetMaterial binds m's draw-time material.
func (m *mesh) SetMaterial(mat *Material) { m.material = mat }

// Material returns the mesh's bound material, or nil if none was set.
func (m *mesh) Material() *Material { return m.material }

// newMesh allocates an empty mesh structure.
func newMesh(name string) *mesh {
	return &mesh{name: name, tag: msh + stringHash(name)<<32}
}

// label and aid are used to uniquely identify assets.
func (m *mesh) label() string { return m.name } // asset name
func (m *mesh) aid() uint64   { return m.tag }  // asset type and name.

// SetGeometry replaces the mesh's CPU-side vertex/triangle arrays,
// bumping GeometryVersion and clearing Finalized so the GPU buffers and
// any cached raycast/bake geometry are rebuilt before next use.
func (m *mesh) SetGeometry(verts []Vertex, tris []Triangle) {
	m.Vertices = verts
	m.Triangles = tris
	m.GeometryVersion++
	m.Finalized = false
	m.bounds = nil
}

// Finalize marks the mesh's current CPU-side geometry ready to render. The
// actual GPU upload happens lazily in ensureGPUBuffers on first draw, the
// same deferred-build pattern PipelineRegistry.GetPipeline uses for GPU
// pipeline objects; Finalize exists so callers that build geometry ahead of
// any draw (bake.go's UV2 re-chart, the gizmo mesh builders) can mark that
// step done without reaching into the GPU layer themselves.
func (m *mesh) Finalize() {
	m.Finalized = true
}

// vertexStride is the byte size of one packed GPU vertex: position (3),
// normal (3), and UV (2) as float32, matching PLPBR.vert's input layout.
// UV2 is omitted from the draw-time vertex buffer; the lightmap baker
// reads/writes it directly on the CPU-side Vertices slice and only the
// rasterizer (bake.go), never the draw pipeline, consumes it.
const vertexStride = (3 + 3 + 2) * 4

// packVertex appends one vertex's packed float32 fields to buf.
func packVertex(buf []byte, v Vertex) []byte {
	put := func(f float64) {
		bits := math.Float32bits(float32(f))
		buf = append(buf, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
	}
	put(v.Pos.X)
	put(v.Pos.Y)
	put(v.Pos.Z)
	put(v.Normal.X)
	put(v.Normal.Y)
	put(v.Normal.Z)
	put(v.UV.X)
	put(v.UV.Y)
	return buf
}

// ensureGPUBuffers uploads the mesh's current CPU geometry to device-local
// vertex/index buffers, skipping the upload if the buffers already reflect
// GeometryVersion — the same lazy-build-once-then-cache pattern
// PipelineRegistry.GetPipeline uses for GPU pipeline objects.
func (m *mesh) ensureGPUBuffers(device *vk.Device) error {
	if m.gpuVertexBuffer != 0 && m.gpuVersion == m.GeometryVersion {
		return nil
	}
	vbytes := make([]byte, 0, len(m.Vertices)*vertexStride)
	for _, v := range m.Vertices {
		vbytes = packVertex(vbytes, v)
	}
	vbuf, err := device.CreateVertexBuffer(uint64(len(vbytes)))
	if err != nil {
		return fmt.Errorf("mesh %q: %w", m.name, err)
	}
	if err := device.UpdateBuffer(vbuf, vbytes); err != nil {
		return fmt.Errorf("mesh %q: %w", m.name, err)
	}

	ibytes := make([]byte, 0, len(m.Triangles)*3*4)
	for _, tr := range m.Triangles {
		for _, idx := range [3]uint32{tr.A, tr.B, tr.C} {
			ibytes = append(ibytes, byte(idx), byte(idx>>8), byte(idx>>16), byte(idx>>24))
		}
	}
	ibuf, err := device.CreateIndexBuffer(uint64(len(ibytes)))
	if err != nil {
		return fmt.Errorf("mesh %q: %w", m.name, err)
	}
	if err := device.UpdateBuffer(ibuf, ibytes); err != nil {
		return fmt.Errorf("mesh %q: %w", m.name, err)
	}

	m.gpuVertexBuffer, m.gpuIndexBuffer = vbuf, ibuf
	m.indexCount = uint32(len(m.Triangles) * 3)
	m.gpuVersion = m.GeometryVersion
	return nil
}

// draw uploads the mesh's GPU buffers if stale, binds them, and records an
// indexed draw call.
func (m *mesh) draw(device *vk.Device, cmd vk.CommandBuffer) error {
	if err := m.ensureGPUBuffers(device); err != nil {
		return err
	}
	device.CmdBindVertexBuffers(cmd, []vk.Buffer{m.gpuVertexBuffer}, []uint64{0})
	device.CmdBindIndexBuffer(cmd, m.gpuIndexBuffer, 0)
	device.CmdDrawIndexed(cmd, m.indexCount)
	return nil
}

// Bounds returns the mesh's local-space axis-aligned bounding box,
// computed once per GeometryVersion.
func (m *mesh) Bounds() *lin.AABB {
	if m.bounds == nil {
		b := lin.NewAABB()
		for i := range m.Vertices {
			b.ExtendPoint(&m.Vertices[i].Pos)
		}
		m.bounds = b
	}
	return m.bounds
}

// HasUV2 reports whether any vertex carries a non-zero second UV
// coordinate, taken to mean a lightmap atlas has already been assigned.
func (m *mesh) HasUV2() bool {
	if len(m.Vertices) == 0 {
		return false
	}
	for _, v := range m.Vertices {
		if v.UV2.X != 0 || v.UV2.Y != 0 {
			return true
		}
	}
	return false
}
