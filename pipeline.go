// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package quantum

// pipeline.go has no direct teacher precedent (gazed-vu never lazily
// builds or invalidates GPU pipeline objects); its lifecycle
// (Initialize -> RegisterPipeline -> GetPipeline (lazy) ->
// InvalidatePipelines -> Shutdown) and YAML manifest shape follow
// original_source/QuantumEngine/RenderingPipelines.{h,cpp}.

import (
	"fmt"
	"os"

	"github.com/StarSignalAnt/Quantum3D-sub000/render/vk"
	"gopkg.in/yaml.v3"
)

// PipelineManifestEntry is one pipeline's on-disk description, as loaded
// from a YAML manifest by PipelineRegistry.LoadManifest.
type PipelineManifestEntry struct {
	Name     string `yaml:"name"`
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
	Type     string `yaml:"type"` // e.g. "opaque", "transparent", "shadow".
}

type registeredPipeline struct {
	desc    vk.PipelineDesc
	kind    string
	handle  vk.Pipeline
	created bool
}

// PipelineRegistry is the engine-wide table of named graphics pipelines.
// A pipeline's shader bytes and kind are recorded at RegisterPipeline
// time, but its GPU object is only built the first time GetPipeline asks
// for it.
type PipelineRegistry struct {
	device    *vk.Device
	pass      vk.RenderPass
	layout    vk.DescriptorSetLayout
	pipelines map[string]*registeredPipeline
}

// Initialize binds the registry to the device, render pass, and primary
// descriptor set layout every pipeline it creates will share.
func (r *PipelineRegistry) Initialize(device *vk.Device, pass vk.RenderPass, layout vk.DescriptorSetLayout) {
	r.device = device
	r.pass = pass
	r.layout = layout
	r.pipelines = map[string]*registeredPipeline{}
}

// RegisterPipeline records name's shader bytes and kind without building a
// GPU pipeline object. Re-registering an existing name drops its already
// built object, if any.
func (r *PipelineRegistry) RegisterPipeline(name string, vertexShader, fragmentShader []byte, kind string) {
	r.pipelines[name] = &registeredPipeline{
		desc: vk.PipelineDesc{
			Name:           name,
			VertexShader:   vertexShader,
			FragmentShader: fragmentShader,
			Layout:         r.layout,
			Pass:           r.pass,
		},
		kind: kind,
	}
}

// LoadManifest parses a YAML pipeline manifest (a list of
// PipelineManifestEntry) and registers each entry, reading its vertex and
// fragment shader bytes from the paths it names.
func (r *PipelineRegistry) LoadManifest(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("pipeline manifest %q: %w", path, err)
	}
	var entries []PipelineManifestEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("pipeline manifest %q: %w", path, err)
	}
	for _, e := range entries {
		vert, err := os.ReadFile(e.Vertex)
		if err != nil {
			return fmt.Errorf("pipeline %q: %w", e.Name, err)
		}
		frag, err := os.ReadFile(e.Fragment)
		if err != nil {
			return fmt.Errorf("pipeline %q: %w", e.Name, err)
		}
		r.RegisterPipeline(e.Name, vert, frag, e.Type)
	}
	return nil
}

// GetPipeline returns name's GPU pipeline handle, creating it on first
// request.
func (r *PipelineRegistry) GetPipeline(name string) (vk.Pipeline, error) {
	p, ok := r.pipelines[name]
	if !ok {
		return 0, fmt.Errorf("pipeline %q not registered", name)
	}
	if p.created {
		return p.handle, nil
	}
	handle, err := r.device.CreateGraphicsPipeline(p.desc)
	if err != nil {
		return 0, err
	}
	p.handle, p.created = handle, true
	return handle, nil
}

// InvalidatePipelines recreates every already-built pipeline against a new
// render pass (after a surface resize, for example) and updates each
// registration's recorded pass so later GetPipeline calls stay consistent.
func (r *PipelineRegistry) InvalidatePipelines(pass vk.RenderPass) error {
	r.pass = pass
	replaced, err := r.device.InvalidateSwapchain(pass)
	if err != nil {
		return err
	}
	for _, p := range r.pipelines {
		p.desc.Pass = pass
		if !p.created {
			continue
		}
		if next, ok := replaced[p.handle]; ok {
			p.handle = next
		}
	}
	return nil
}

// Shutdown destroys every built pipeline and clears the registry.
func (r *PipelineRegistry) Shutdown() {
	for _, p := range r.pipelines {
		if p.created {
			r.device.DestroyPipeline(p.handle)
		}
	}
	r.pipelines = map[string]*registeredPipeline{}
}
