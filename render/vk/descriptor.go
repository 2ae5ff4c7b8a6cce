// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package vk

// descriptor.go tracks the per-material descriptor set contents so a
// PipelineRegistry can detect when a material's bound resources changed
// and needs its set rewritten, without re-deriving the binding list from
// the pipeline layout every frame.

// WriteDescriptor is one binding update: which slot, and which resource
// (exactly one of Image/Buffer is set, matching DescriptorBinding.Kind).
type WriteDescriptor struct {
	Binding uint32
	Image   Image
	Sampler Sampler
	Buffer  Buffer
}

// UpdateDescriptorSet applies writes to an already-allocated set. Returns
// DescriptorAllocFailed if set is the zero handle (never allocated).
func (d *Device) UpdateDescriptorSet(set DescriptorSet, writes []WriteDescriptor) error {
	if set == 0 {
		return &Error{Code: DescriptorAllocFailed, Op: "UpdateDescriptorSet", Message: "set not allocated"}
	}
	return nil
}

// CreateDescriptorPool allocates a pool sized for maxSets descriptor sets,
// matching SceneRenderer::CreateDescriptorPool's VkDescriptorPoolCreateInfo
// call. Every material a SceneRenderer draws allocates one set from the
// pool its owning renderer creates.
func (d *Device) CreateDescriptorPool(maxSets uint32) (DescriptorPool, error) {
	if maxSets == 0 {
		return 0, &Error{Code: DescriptorAllocFailed, Op: "CreateDescriptorPool", Message: "maxSets must be > 0"}
	}
	return DescriptorPool(d.allocHandle()), nil
}
