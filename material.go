// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package quantum

// material.go replaces the deleted Phong-style material.go (kd/ks/ka/tr)
// with spec.md's PBR material: a named texture-slot set plus a descriptor
// set built against render/vk, per
// original_source/QuantumEngine/Material.h. The asset-identity pattern
// (name uniquely identifies a material) is kept from the teacher's
// version; the texture slots and six-binding descriptor layout are new.

import (
	"fmt"

	"github.com/StarSignalAnt/Quantum3D-sub000/render/vk"
)

// Material texture slot names. The descriptor set layout has only four
// PBR sampler bindings, so occlusion, roughness, and metallic share one
// packed texture (glTF's ORM convention: R=occlusion, G=roughness,
// B=metallic) rather than each getting its own binding.
const (
	SlotAlbedo           = "albedo"
	SlotNormal           = "normal"
	SlotORM              = "orm" // occlusion/roughness/metallic, packed.
	SlotEmissive         = "emissive"
	SlotShadowOrLightmap = "shadow_or_lightmap"
)

type materialTexture struct {
	image   vk.Image
	sampler vk.Sampler
}

// Material names a pipeline and the textures bound to it. A Material owns
// at most one allocated DescriptorSet; CreateDescriptorSet rewrites it in
// place rather than reallocating when textures change.
type Material struct {
	Name         string
	PipelineName string

	textures map[string]materialTexture

	descriptorSet vk.DescriptorSet
	dirty         bool
}

// NewMaterial returns a named material targeting pipelineName, with no
// textures bound yet.
func NewMaterial(name, pipelineName string) *Material {
	return &Material{Name: name, PipelineName: pipelineName, textures: map[string]materialTexture{}, dirty: true}
}

func (m *Material) setTexture(slot string, img vk.Image, samp vk.Sampler) {
	m.textures[slot] = materialTexture{image: img, sampler: samp}
	m.invalidateDescriptorSet()
}

// SetAlbedoTexture binds the material's base color texture.
func (m *Material) SetAlbedoTexture(img vk.Image, samp vk.Sampler) { m.setTexture(SlotAlbedo, img, samp) }

// SetNormalTexture binds the material's tangent-space normal map.
func (m *Material) SetNormalTexture(img vk.Image, samp vk.Sampler) { m.setTexture(SlotNormal, img, samp) }

// SetMetallicTexture, SetRoughnessTexture, and SetAOTexture all bind the
// same packed occlusion/roughness/metallic texture (see SlotORM); the
// descriptor layout has one sampler binding for all three, so whichever
// call runs last wins if given different images.
func (m *Material) SetMetallicTexture(img vk.Image, samp vk.Sampler)  { m.setTexture(SlotORM, img, samp) }
func (m *Material) SetRoughnessTexture(img vk.Image, samp vk.Sampler) { m.setTexture(SlotORM, img, samp) }
func (m *Material) SetAOTexture(img vk.Image, samp vk.Sampler)        { m.setTexture(SlotORM, img, samp) }

// SetEmissiveTexture binds the material's emissive texture.
func (m *Material) SetEmissiveTexture(img vk.Image, samp vk.Sampler) {
	m.setTexture(SlotEmissive, img, samp)
}

func (m *Material) invalidateDescriptorSet() { m.dirty = true }

// CheckRequiredTextures reports every PBR slot (albedo, normal, orm,
// emissive) that has no texture bound.
func (m *Material) CheckRequiredTextures() []string {
	var missing []string
	for _, slot := range []string{SlotAlbedo, SlotNormal, SlotORM, SlotEmissive} {
		if _, ok := m.textures[slot]; !ok {
			missing = append(missing, slot)
		}
	}
	return missing
}

// CreateDescriptorSet allocates (on first call) and (re)writes the
// material's descriptor set: the per-draw UBO at binding 0, the four PBR
// samplers at bindings 1-4, and a shadow map or baked lightmap at binding
// 5. Any PBR slot missing a bound texture falls back to defaultTexture/
// defaultSampler so a partially authored material still binds a complete,
// valid set.
func (m *Material) CreateDescriptorSet(
	device *vk.Device, pool vk.DescriptorPool, layout vk.DescriptorSetLayout,
	defaultTexture vk.Image, defaultSampler vk.Sampler,
	uboBuffer vk.Buffer,
	shadowOrLightmap vk.Image, shadowSampler vk.Sampler,
) error {
	if m.descriptorSet == 0 {
		set, err := device.AllocateDescriptorSet(pool, layout)
		if err != nil {
			return fmt.Errorf("material %q: %w", m.Name, err)
		}
		m.descriptorSet = set
	}

	tex := func(slot string) materialTexture {
		if t, ok := m.textures[slot]; ok {
			return t
		}
		return materialTexture{image: defaultTexture, sampler: defaultSampler}
	}
	albedo, normal, orm, emissive := tex(SlotAlbedo), tex(SlotNormal), tex(SlotORM), tex(SlotEmissive)

	writes := []vk.WriteDescriptor{
		{Binding: 0, Buffer: uboBuffer},
		{Binding: 1, Image: albedo.image, Sampler: albedo.sampler},
		{Binding: 2, Image: normal.image, Sampler: normal.sampler},
		{Binding: 3, Image: orm.image, Sampler: orm.sampler},
		{Binding: 4, Image: emissive.image, Sampler: emissive.sampler},
		{Binding: 5, Image: shadowOrLightmap, Sampler: shadowSampler},
	}
	if err := device.UpdateDescriptorSet(m.descriptorSet, writes); err != nil {
		return fmt.Errorf("material %q: %w", m.Name, err)
	}
	m.dirty = false
	return nil
}

// DescriptorSet returns the material's allocated descriptor set, or the
// zero handle if CreateDescriptorSet has never been called.
func (m *Material) DescriptorSet() vk.DescriptorSet { return m.descriptorSet }

// Dirty reports whether a bound texture changed since the descriptor set
// was last written.
func (m *Material) Dirty() bool { return m.dirty }
