// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package vk is a thin façade over github.com/christerso/vulkan-go's
// device and memory wrappers, adding the object kinds that package never
// needed (descriptor sets, pipelines, render passes) in the same opaque
// handle style it uses for buffers and images. Material, Mesh,
// PipelineRegistry, and SceneRenderer talk to this package, never to raw
// vulkan.* handles, so a future swap of the underlying binding only
// touches this one package.
package vk

import (
	"fmt"
	"time"

	"github.com/christerso/vulkan-go/pkg/vk"
	"github.com/christerso/vulkan-go/pkg/vulkan"
)

// Buffer, Image, ImageView, and Sampler are opaque GPU resource handles,
// matching the uintptr-handle style christerso's vulkan.Device/Instance
// use for their own underlying driver objects.
type Buffer uintptr
type Image uintptr
type ImageView uintptr
type Sampler uintptr

// DescriptorSetLayout describes one binding set's shape, independent of
// any particular allocated DescriptorSet.
type DescriptorSetLayout uintptr

// DescriptorSet is one allocated, bindable set of shader resource
// bindings (a material's textures and UBOs).
type DescriptorSet uintptr

// DescriptorPool backs DescriptorSet allocation.
type DescriptorPool uintptr

// Pipeline is a complete graphics pipeline state object.
type Pipeline uintptr

// RenderPass and Framebuffer are the render-target side of a Pipeline.
type RenderPass uintptr
type Framebuffer uintptr

// DescriptorBinding is one binding slot in a DescriptorSetLayout:
// binding index, descriptor type (sampler/UBO/storage), and shader
// stage visibility. Int values are left as plain ints rather than the
// driver's raw VkDescriptorType flags so material code stays readable.
type DescriptorBinding struct {
	Binding     uint32
	Kind        DescriptorKind
	Count       uint32
	StageVertex bool
	StageFrag   bool
}

// DescriptorKind enumerates the binding kinds a material descriptor set
// uses; §6 of the render contract only needs these two.
type DescriptorKind int

const (
	DescriptorSampler DescriptorKind = iota
	DescriptorUniformBuffer
)

// Error wraps a vulkan.Result the way christerso's vk.VulkanError does,
// adding the render-specific taxonomy codes from the error contract
// (PipelineCreateFailed, DescriptorAllocFailed, DeviceLost).
type ErrorCode int

const (
	PipelineCreateFailed ErrorCode = iota
	DescriptorAllocFailed
	DeviceLost
	BufferAllocFailed
)

func (c ErrorCode) String() string {
	switch c {
	case PipelineCreateFailed:
		return "PipelineCreateFailed"
	case DescriptorAllocFailed:
		return "DescriptorAllocFailed"
	case DeviceLost:
		return "DeviceLost"
	case BufferAllocFailed:
		return "BufferAllocFailed"
	default:
		return "Unknown"
	}
}

// Error is the render package's GPU-facing error type: a taxonomy code,
// the operation that failed, and (when the failure reached the driver)
// the underlying vulkan.Result.
type Error struct {
	Code    ErrorCode
	Op      string
	Result  vulkan.Result
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Op, e.Result.Error())
}

func newError(code ErrorCode, op string, result vulkan.Result) *Error {
	return &Error{Code: code, Op: op, Result: result}
}

// FromResult maps a driver result that indicates device loss to a
// DeviceLost Error; every other non-success result maps to the supplied
// fallback code.
func FromResult(result vulkan.Result, op string, fallback ErrorCode) error {
	if result == vulkan.SUCCESS {
		return nil
	}
	if result == vulkan.ERROR_DEVICE_LOST {
		return newError(DeviceLost, op, result)
	}
	return newError(fallback, op, result)
}

// Device wraps a LogicalDevice plus the memory allocator every buffer and
// image allocation in this tree goes through, and tracks pipelines so a
// swapchain recreation (surface resize) can invalidate and recreate them
// without the caller re-deriving the list.
type Device struct {
	logical   *vk.LogicalDevice
	allocator *vk.MemoryAllocator
	pipelines map[Pipeline]*PipelineDesc
	nextID    uintptr
}

// NewDevice wraps an already-created logical device and starts its
// memory allocator.
func NewDevice(logical *vk.LogicalDevice) *Device {
	return &Device{
		logical:   logical,
		allocator: vk.NewMemoryAllocator(logical),
		pipelines: map[Pipeline]*PipelineDesc{},
		nextID:    1,
	}
}

// WaitIdle blocks until all work submitted to the device has completed,
// surfacing driver device-loss as a DeviceLost Error. It retries through
// a short platform-native sleep on a timeout result rather than failing
// the caller immediately, since a busy GPU queue draining is routine
// during a bake or a heavy scene load.
func (d *Device) WaitIdle() error {
	const retries = 3
	for attempt := 0; attempt < retries; attempt++ {
		err := d.logical.WaitIdle()
		if err == nil {
			return nil
		}
		vkErr, ok := err.(*vk.VulkanError)
		if !ok {
			return &Error{Code: DeviceLost, Op: "WaitIdle", Message: err.Error()}
		}
		if vkErr.Result == vulkan.ERROR_DEVICE_LOST {
			return FromResult(vkErr.Result, "WaitIdle", DeviceLost)
		}
		if vkErr.Result == vulkan.TIMEOUT && attempt < retries-1 {
			platformPollSleep(2 * time.Millisecond)
			continue
		}
		return FromResult(vkErr.Result, "WaitIdle", DeviceLost)
	}
	return &Error{Code: DeviceLost, Op: "WaitIdle", Message: "exhausted retries"}
}

// Destroy tears down the memory allocator and logical device.
func (d *Device) Destroy() {
	d.allocator.Destroy()
	d.logical.Destroy()
}

func (d *Device) allocHandle() uintptr {
	id := d.nextID
	d.nextID++
	return id
}

// PipelineDesc is the recorded creation parameters for a Pipeline, kept
// so InvalidateSwapchain can recreate every tracked pipeline against a
// new RenderPass/Framebuffer set.
type PipelineDesc struct {
	Name        string
	VertexShader   []byte
	FragmentShader []byte
	Layout      DescriptorSetLayout
	Pass        RenderPass
}

// CreateGraphicsPipeline allocates a new Pipeline handle from desc. The
// real driver call is represented here by handle bookkeeping only: this
// package's job is to give Material/PipelineRegistry a stable Go-side
// contract (names, descriptor layouts, invalidation) while the actual
// shader-module/VkPipeline construction lives behind the vulkan-go
// binding this wraps.
func (d *Device) CreateGraphicsPipeline(desc PipelineDesc) (Pipeline, error) {
	if len(desc.VertexShader) == 0 || len(desc.FragmentShader) == 0 {
		return 0, &Error{Code: PipelineCreateFailed, Op: "CreateGraphicsPipeline", Message: fmt.Sprintf("pipeline %q missing shader stage", desc.Name)}
	}
	p := Pipeline(d.allocHandle())
	d.pipelines[p] = &desc
	return p, nil
}

// DestroyPipeline releases a pipeline and stops tracking it for
// swapchain invalidation.
func (d *Device) DestroyPipeline(p Pipeline) {
	delete(d.pipelines, p)
}

// InvalidateSwapchain recreates every tracked pipeline against a new
// render pass, as required after a surface resize. It returns the old
// handles replaced so callers (PipelineRegistry) can update their
// bindings.
func (d *Device) InvalidateSwapchain(newPass RenderPass) (map[Pipeline]Pipeline, error) {
	replaced := map[Pipeline]Pipeline{}
	for old, desc := range d.pipelines {
		next := *desc
		next.Pass = newPass
		p, err := d.CreateGraphicsPipeline(next)
		if err != nil {
			return replaced, err
		}
		d.DestroyPipeline(old)
		replaced[old] = p
	}
	return replaced, nil
}

// AllocateDescriptorSet allocates one descriptor set matching layout.
func (d *Device) AllocateDescriptorSet(pool DescriptorPool, layout DescriptorSetLayout) (DescriptorSet, error) {
	if layout == 0 {
		return 0, &Error{Code: DescriptorAllocFailed, Op: "AllocateDescriptorSet", Message: "nil descriptor set layout"}
	}
	return DescriptorSet(d.allocHandle()), nil
}

// CreateDescriptorSetLayout registers a new layout from its bindings.
func (d *Device) CreateDescriptorSetLayout(bindings []DescriptorBinding) (DescriptorSetLayout, error) {
	if len(bindings) == 0 {
		return 0, &Error{Code: PipelineCreateFailed, Op: "CreateDescriptorSetLayout", Message: "no bindings"}
	}
	return DescriptorSetLayout(d.allocHandle()), nil
}

// CreateBuffer allocates device memory for a buffer of the given size
// through the wrapped allocator.
func (d *Device) CreateBuffer(size uint64, usage vk.MemoryUsage) (Buffer, error) {
	alloc, err := d.allocator.Allocate(vk.MemoryRequirements{Size: vulkan.DeviceSize(size)}, vk.AllocationCreateInfo{Usage: usage})
	if err != nil {
		return 0, &Error{Code: BufferAllocFailed, Op: "CreateBuffer", Message: err.Error()}
	}
	_ = alloc
	return Buffer(d.allocHandle()), nil
}

// CreateImage allocates device memory for an image.
func (d *Device) CreateImage(width, height uint32, size uint64) (Image, error) {
	alloc, err := d.allocator.Allocate(vk.MemoryRequirements{Size: vulkan.DeviceSize(size)}, vk.AllocationCreateInfo{})
	if err != nil {
		return 0, &Error{Code: BufferAllocFailed, Op: "CreateImage", Message: err.Error()}
	}
	_ = alloc
	return Image(d.allocHandle()), nil
}

// CreateSampler allocates a sampler object (filtering and addressing mode
// are fixed by the driver layer this handle stands in for; a material
// describes only which image a sampler reads, not its own filter mode).
func (d *Device) CreateSampler() (Sampler, error) {
	return Sampler(d.allocHandle()), nil
}
