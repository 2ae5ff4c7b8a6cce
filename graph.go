// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package quantum

// graph.go owns the scene's node tree, its lights, and its active camera.
// Generalized from the teacher's scene.go (one scene held a flat []*part
// and a single *camera) into a tree plus a light collection, per
// original_source/QuantumEngine/SceneGraph.h.

import (
	"github.com/StarSignalAnt/Quantum3D-sub000/math/lin"
)

// LightNode attaches a Light's color to a SceneNode so a light can be
// positioned and parented exactly like any other node.
type LightNode struct {
	*SceneNode
	Light *Light
}

// SceneGraph owns a tree of SceneNodes rooted at Root, the lights that
// illuminate it, and the camera currently rendering it.
type SceneGraph struct {
	Root   *SceneNode
	camera *CameraNode
	lights []*LightNode
}

// NewSceneGraph returns a graph with an empty, named root node.
func NewSceneGraph() *SceneGraph {
	return &SceneGraph{Root: NewSceneNode("root")}
}

// CreateNode allocates a new node named name and attaches it under parent.
// A nil parent attaches the node under the graph's root.
func (g *SceneGraph) CreateNode(name string, parent *SceneNode) *SceneNode {
	if parent == nil {
		parent = g.Root
	}
	n := NewSceneNode(name)
	parent.AddChild(n)
	return n
}

// FindNode searches the whole tree depth-first for the first node named
// name, starting at Root.
func (g *SceneGraph) FindNode(name string) *SceneNode {
	if g.Root.name == name {
		return g.Root
	}
	return g.Root.FindChild(name, true)
}

// Clear discards every node under Root (Root itself is kept), every light,
// and the current camera.
func (g *SceneGraph) Clear() {
	g.Root.children = nil
	g.Root.meshes = nil
	g.Root.scripts = nil
	g.Root.markDirty()
	g.lights = nil
	g.camera = nil
}

// NodeCount returns the number of nodes in the tree, Root included.
func (g *SceneGraph) NodeCount() int {
	count := 0
	g.ForEveryNode(func(*SceneNode) { count++ })
	return count
}

// MeshCount returns the total number of meshes attached across every node.
func (g *SceneGraph) MeshCount() int {
	count := 0
	g.ForEveryNode(func(n *SceneNode) { count += len(n.meshes) })
	return count
}

// SetCurrentCamera selects the camera the graph renders through.
func (g *SceneGraph) SetCurrentCamera(c *CameraNode) { g.camera = c }

// GetCurrentCamera returns the camera the graph renders through, or nil if
// none has been set.
func (g *SceneGraph) GetCurrentCamera() *CameraNode { return g.camera }

// AddLight wraps node with color and registers it as one of the graph's
// lights. node need not already be part of the tree; callers typically
// pass a node just returned from CreateNode.
func (g *SceneGraph) AddLight(node *SceneNode, color *Light) *LightNode {
	ln := &LightNode{SceneNode: node, Light: color}
	g.lights = append(g.lights, ln)
	return ln
}

// GetLights returns every light registered with the graph.
func (g *SceneGraph) GetLights() []*LightNode { return g.lights }

// GetLightPosition returns the world-space position of the i'th light.
// Panics if i is out of range, matching original_source's unchecked
// array-index access.
func (g *SceneGraph) GetLightPosition(i int) *lin.V3 {
	return g.lights[i].WorldPosition()
}

// ForEveryNode visits Root and every descendant, depth-first, pre-order.
func (g *SceneGraph) ForEveryNode(visit func(*SceneNode)) {
	forEveryNode(g.Root, visit)
}

func forEveryNode(n *SceneNode, visit func(*SceneNode)) {
	visit(n)
	for _, c := range n.children {
		forEveryNode(c, visit)
	}
}

// OnPlay fires OnPlay on every node in the tree, pre-order.
func (g *SceneGraph) OnPlay() { g.ForEveryNode((*SceneNode).OnPlay) }

// OnStop fires OnStop on every node in the tree, pre-order.
func (g *SceneGraph) OnStop() { g.ForEveryNode((*SceneNode).OnStop) }

// OnUpdate fires OnUpdate(dt) on every node in the tree, pre-order.
func (g *SceneGraph) OnUpdate(dt float64) {
	g.ForEveryNode(func(n *SceneNode) { n.OnUpdate(dt) })
}

// SelectEntity casts a ray from origin in direction dir and returns the
// nearest node whose mesh the ray intersects, along with the hit distance.
// It returns (nil, 0) if nothing is hit. The graph-level convenience wraps
// a Raycaster (raycast.go) so callers need not build one themselves for a
// one-off pick.
func (g *SceneGraph) SelectEntity(rc *Raycaster, origin, dir *lin.V3) (*SceneNode, float64) {
	var best *SceneNode
	bestDist := 0.0
	found := false
	g.ForEveryNode(func(n *SceneNode) {
		for _, m := range n.meshes {
			hit, dist := rc.Cast(m, n.WorldMatrix(), origin, dir)
			if hit && (!found || dist < bestDist) {
				best, bestDist, found = n, dist, true
			}
		}
	})
	return best, bestDist
}
