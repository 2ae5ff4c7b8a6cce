// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package quantum

// renderer.go ports original_source/QuantumEngine/SceneRenderer.{h,cpp}:
// per-frame scene-graph traversal, one shared per-frame UBO carrying the
// view/projection/lighting data every mesh's draw call reads, and
// pipeline/descriptor-set bind-skip tracking across a frame. Generalized
// from gazed-vu/render.Renderer's single-Model Render(m) call into a full
// recursive SceneGraph walk, per spec.md §4.8's closing paragraph on
// minimizing redundant binds.

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/StarSignalAnt/Quantum3D-sub000/math/lin"
	"github.com/StarSignalAnt/Quantum3D-sub000/render/vk"
)

// defaultPipelineName is the pipeline a mesh draws with when its material
// is nil or names a pipeline the registry doesn't have, matching
// SceneRenderer::RenderNode's PLSimple fallback.
const defaultPipelineName = "PLSimple"

// overlayPipelineName is the flat, unlit pipeline gizmo handle meshes draw
// with through DrawOverlayMesh — gizmo.go's doc comment calls this package
// "a renderer-agnostic mesh list a SceneRenderer can draw" rather than
// giving each gizmo its own Vulkan-facing Render method.
const overlayPipelineName = "PLUnlit"

// frameUBO is the per-frame uniform data every mesh's draw call reads:
// MVP matrices plus the first light's position/color, matching
// UniformBufferObject in SceneRenderer.cpp (must stay layout-compatible
// with PLPBR.frag).
type frameUBO struct {
	model, view, proj lin.M4
	viewPos           lin.V3
	lightPos          lin.V3
	lightColor        lin.V3
}

// packUBO serializes u into the std140-ish layout SceneRenderer.cpp's
// UniformBufferObject uses: three mat4s, then three vec3s each padded to
// 16 bytes.
func packUBO(u frameUBO) []byte {
	buf := make([]byte, 0, 3*64+3*16)
	buf = appendM4(buf, &u.model)
	buf = appendM4(buf, &u.view)
	buf = appendM4(buf, &u.proj)
	buf = appendV3Padded(buf, &u.viewPos)
	buf = appendV3Padded(buf, &u.lightPos)
	buf = appendV3Padded(buf, &u.lightColor)
	return buf
}

func appendF32(buf []byte, f float64) []byte {
	bits := math.Float32bits(float32(f))
	return append(buf, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
}

func appendM4(buf []byte, m *lin.M4) []byte {
	for _, f := range [16]float64{
		m.Xx, m.Xy, m.Xz, m.Xw,
		m.Yx, m.Yy, m.Yz, m.Yw,
		m.Zx, m.Zy, m.Zz, m.Zw,
		m.Wx, m.Wy, m.Wz, m.Ww,
	} {
		buf = appendF32(buf, f)
	}
	return buf
}

func appendV3Padded(buf []byte, v *lin.V3) []byte {
	buf = appendF32(buf, v.X)
	buf = appendF32(buf, v.Y)
	buf = appendF32(buf, v.Z)
	return appendF32(buf, 0) // pad to 16 bytes, matching UniformBufferObject's paddingN fields.
}

// SceneRenderer owns the Vulkan-facing resources needed to draw a
// SceneGraph: the shared descriptor set layout, per-frame UBO, and a
// default white texture/sampler used when a mesh's material is missing a
// slot. It tracks the last bound pipeline and descriptor set across a
// RenderScene call so repeated meshes sharing a material skip redundant
// binds, per spec.md §4.8.
type SceneRenderer struct {
	device    *vk.Device
	pipelines *PipelineRegistry

	descriptorLayout vk.DescriptorSetLayout
	descriptorPool   vk.DescriptorPool
	uboBuffer        vk.Buffer

	defaultTexture vk.Image
	defaultSampler vk.Sampler

	graph *SceneGraph

	currentPipeline      vk.Pipeline
	currentDescriptorSet vk.DescriptorSet

	// lastView/lastProj cache the frame's camera matrices so
	// DrawOverlayMesh (gizmo handles, drawn after the scene traversal
	// proper) doesn't need its own camera plumbing.
	lastView lin.M4
	lastProj lin.M4

	nodeCount int
	meshCount int
}

// NewSceneRenderer returns a renderer bound to device and pipelines.
// Initialize must be called once before the first RenderScene.
func NewSceneRenderer(device *vk.Device, pipelines *PipelineRegistry) *SceneRenderer {
	return &SceneRenderer{device: device, pipelines: pipelines}
}

// Initialize creates the shared descriptor set layout (UBO at binding 0,
// four PBR samplers at 1-4, shadow/lightmap at 5), the per-frame UBO
// buffer, and a 1x1 default texture, then hands the layout to the
// pipeline registry so pipelines it builds share it. If manifestPath is
// non-empty, pipelines it names are registered via LoadManifest;
// otherwise the caller is expected to have already called
// pipelines.RegisterPipeline for every pipeline name its materials use.
func (r *SceneRenderer) Initialize(pass vk.RenderPass, manifestPath string) error {
	bindings := []vk.DescriptorBinding{
		{Binding: 0, Kind: vk.DescriptorUniformBuffer, Count: 1, StageVertex: true, StageFrag: true},
		{Binding: 1, Kind: vk.DescriptorSampler, Count: 1, StageFrag: true},
		{Binding: 2, Kind: vk.DescriptorSampler, Count: 1, StageFrag: true},
		{Binding: 3, Kind: vk.DescriptorSampler, Count: 1, StageFrag: true},
		{Binding: 4, Kind: vk.DescriptorSampler, Count: 1, StageFrag: true},
		{Binding: 5, Kind: vk.DescriptorSampler, Count: 1, StageFrag: true},
	}
	layout, err := r.device.CreateDescriptorSetLayout(bindings)
	if err != nil {
		return wrapErr(GpuKernelFailed, "SceneRenderer.Initialize", err)
	}
	r.descriptorLayout = layout

	const uboSize = 3*64 + 3*16
	uboBuffer, err := r.device.CreateUniformBuffer(uboSize)
	if err != nil {
		return wrapErr(GpuKernelFailed, "SceneRenderer.Initialize", err)
	}
	r.uboBuffer = uboBuffer

	tex, err := r.device.CreateImage(1, 1, 4)
	if err != nil {
		return wrapErr(GpuKernelFailed, "SceneRenderer.Initialize", err)
	}
	r.defaultTexture = tex

	samp, err := r.device.CreateSampler()
	if err != nil {
		return wrapErr(GpuKernelFailed, "SceneRenderer.Initialize", err)
	}
	r.defaultSampler = samp

	r.pipelines.Initialize(r.device, pass, r.descriptorLayout)
	if manifestPath != "" {
		if err := r.pipelines.LoadManifest(manifestPath); err != nil {
			return wrapErr(GpuKernelFailed, "SceneRenderer.Initialize", err)
		}
	}
	return nil
}

// SetSceneGraph selects the graph RenderScene draws, allocating a
// descriptor pool sized for every distinct material the graph currently
// holds. Call again after structurally changing which materials are in
// use (adding meshes with new materials).
func (r *SceneRenderer) SetSceneGraph(graph *SceneGraph) error {
	r.graph = graph
	if graph == nil {
		return nil
	}
	var materials []*Material
	seen := map[*Material]bool{}
	graph.ForEveryNode(func(n *SceneNode) {
		for _, m := range n.meshes {
			mat := m.Material()
			if mat != nil && !seen[mat] {
				seen[mat] = true
				materials = append(materials, mat)
			}
		}
	})
	if len(materials) == 0 {
		return nil
	}
	pool, err := r.device.CreateDescriptorPool(uint32(len(materials)))
	if err != nil {
		return wrapErr(GpuKernelFailed, "SceneRenderer.SetSceneGraph", err)
	}
	r.descriptorPool = pool
	for _, mat := range materials {
		if err := mat.CreateDescriptorSet(r.device, r.descriptorPool, r.descriptorLayout,
			r.defaultTexture, r.defaultSampler, r.uboBuffer, r.defaultTexture, r.defaultSampler); err != nil {
			slog.Default().Error("material descriptor set build failed", "material", mat.Name, "error", err)
		}
	}
	return nil
}

// RenderScene traverses the graph set by SetSceneGraph, updating the
// shared per-frame UBO from the graph's current camera and first light,
// then recording one draw per finalized mesh. Nodes with no meshes are
// still visited for their children. Resets the bind-skip state at the
// start of the call, matching RenderScene resetting m_CurrentPipeline
// each frame in the original.
func (r *SceneRenderer) RenderScene(cmd vk.CommandBuffer, width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	r.device.CmdSetViewport(cmd, vk.Viewport{Width: float32(width), Height: float32(height), MaxDepth: 1})
	r.device.CmdSetScissor(cmd, vk.Scissor{Width: int32(width), Height: int32(height)})

	r.currentPipeline = 0
	r.currentDescriptorSet = 0
	r.nodeCount, r.meshCount = 0, 0

	r.lastView = *lin.NewM4I()
	if r.graph != nil {
		if cam := r.graph.GetCurrentCamera(); cam != nil {
			r.lastView = *cam.ViewMatrix()
		}
	}
	proj := lin.NewM4()
	proj.Persp(45, float64(width)/float64(height), 0.1, 100)
	r.lastProj = *proj

	if r.graph == nil || r.graph.Root == nil {
		return nil
	}
	return r.renderNode(cmd, r.graph.Root)
}

func (r *SceneRenderer) renderNode(cmd vk.CommandBuffer, node *SceneNode) error {
	r.nodeCount++

	if len(node.meshes) > 0 {
		ubo := r.buildUBO(node)
		if err := r.device.UpdateBuffer(r.uboBuffer, packUBO(ubo)); err != nil {
			return wrapErr(GpuKernelFailed, "SceneRenderer.RenderScene", err)
		}
		for _, m := range node.meshes {
			if err := r.drawMesh(cmd, m); err != nil {
				return err
			}
		}
	}

	for _, child := range node.children {
		if err := r.renderNode(cmd, child); err != nil {
			return err
		}
	}
	return nil
}

// buildUBO assembles the shared per-frame uniforms for node: its world
// matrix as model, the graph's current camera's view (or a fixed
// origin-looking-down--Z fallback, per RenderNode's fallback camera), the
// fixed 45-degree perspective RenderScene builds for the frame (the
// camera's own projection is not used), and the first registered light's
// world position/color (or a
// fallback above-and-to-the-side light, per the original).
func (r *SceneRenderer) buildUBO(node *SceneNode) frameUBO {
	var ubo frameUBO
	ubo.model = *node.WorldMatrix()
	ubo.view = r.lastView
	ubo.proj = r.lastProj

	if cam := r.graph.GetCurrentCamera(); cam != nil {
		ubo.viewPos = *cam.WorldPosition()
	}

	if lights := r.graph.GetLights(); len(lights) > 0 {
		ubo.lightPos = *lights[0].WorldPosition()
		ubo.lightColor = lin.V3{X: lights[0].Light.R, Y: lights[0].Light.G, Z: lights[0].Light.B}
	} else {
		ubo.lightPos = lin.V3{X: 3, Y: 8, Z: -2}
		ubo.lightColor = lin.V3{X: 150, Y: 150, Z: 150}
	}
	return ubo
}

// drawMesh resolves m's pipeline and descriptor set (falling back to the
// default pipeline, and binding no descriptor set, when m has no
// material), binds them only if they differ from the last bound
// pipeline/descriptor set, and records the mesh's draw call.
func (r *SceneRenderer) drawMesh(cmd vk.CommandBuffer, m *mesh) error {
	if !m.Finalized {
		slog.Default().Warn("mesh not finalized, skipping draw", "mesh", m.name)
		return nil
	}

	pipelineName := defaultPipelineName
	var descriptorSet vk.DescriptorSet
	if mat := m.Material(); mat != nil {
		if mat.PipelineName != "" {
			pipelineName = mat.PipelineName
		}
		descriptorSet = mat.DescriptorSet()
	}

	pipeline, err := r.pipelines.GetPipeline(pipelineName)
	if err != nil {
		return wrapErr(GpuKernelFailed, "SceneRenderer.drawMesh", fmt.Errorf("mesh %q: %w", m.name, err))
	}

	if pipeline != r.currentPipeline {
		r.currentPipeline = pipeline
		r.device.CmdBindPipeline(cmd, pipeline)
		if descriptorSet != 0 {
			r.device.CmdBindDescriptorSet(cmd, r.descriptorLayout, descriptorSet)
			r.currentDescriptorSet = descriptorSet
		}
	} else if descriptorSet != 0 && descriptorSet != r.currentDescriptorSet {
		r.device.CmdBindDescriptorSet(cmd, r.descriptorLayout, descriptorSet)
		r.currentDescriptorSet = descriptorSet
	}

	if err := m.draw(r.device, cmd); err != nil {
		return wrapErr(GpuKernelFailed, "SceneRenderer.drawMesh", err)
	}
	r.meshCount++
	return nil
}

// DrawOverlayMesh draws m with the flat unlit pipeline at the given world
// matrix, reusing the view/projection RenderScene computed for the current
// frame. Call it after RenderScene, once per frame, for each gizmo handle
// mesh a gizmo's AxisMeshes exposes — gizmos have no material and no scene
// graph membership of their own, so they bypass drawMesh's material/
// descriptor-set resolution entirely.
func (r *SceneRenderer) DrawOverlayMesh(cmd vk.CommandBuffer, m *mesh, model *lin.M4) error {
	if !m.Finalized {
		slog.Default().Warn("overlay mesh not finalized, skipping draw", "mesh", m.name)
		return nil
	}
	ubo := frameUBO{model: *model, view: r.lastView, proj: r.lastProj}
	if err := r.device.UpdateBuffer(r.uboBuffer, packUBO(ubo)); err != nil {
		return wrapErr(GpuKernelFailed, "SceneRenderer.DrawOverlayMesh", err)
	}

	pipeline, err := r.pipelines.GetPipeline(overlayPipelineName)
	if err != nil {
		return wrapErr(GpuKernelFailed, "SceneRenderer.DrawOverlayMesh", fmt.Errorf("mesh %q: %w", m.name, err))
	}
	if pipeline != r.currentPipeline {
		r.currentPipeline = pipeline
		r.device.CmdBindPipeline(cmd, pipeline)
	}

	if err := m.draw(r.device, cmd); err != nil {
		return wrapErr(GpuKernelFailed, "SceneRenderer.DrawOverlayMesh", err)
	}
	r.meshCount++
	return nil
}

// NodeCount and MeshCount report the last RenderScene call's traversal
// and draw counts, matching SceneRenderer's debug m_RenderNodeCount/
// m_RenderMeshCount counters.
func (r *SceneRenderer) NodeCount() int { return r.nodeCount }
func (r *SceneRenderer) MeshCount() int { return r.meshCount }

// Shutdown destroys the renderer's own GPU resources (not the pipelines
// it built, which PipelineRegistry.Shutdown owns) and waits for the
// device to go idle first, matching SceneRenderer::Shutdown.
func (r *SceneRenderer) Shutdown() error {
	if err := r.device.WaitIdle(); err != nil {
		return wrapErr(GpuKernelFailed, "SceneRenderer.Shutdown", err)
	}
	r.graph = nil
	return nil
}
