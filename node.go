// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package quantum

// node.go builds the scene graph's node type on top of pov (location,
// rotation, scale). Where the teacher's part.go threaded every node through
// a stage's manager (sm *stage, pid uint32), a SceneNode owns its children
// directly as a plain tree: there is no component-manager layer left in
// this tree to register against (see DESIGN.md's engine-generation entry),
// and original_source/QuantumEngine/SceneGraph.h's GraphNode is itself a
// plain parent/children tree, not a manager-backed one.

import (
	"log/slog"

	"github.com/StarSignalAnt/Quantum3D-sub000/math/lin"
	"github.com/StarSignalAnt/Quantum3D-sub000/qlang"
)

// Script pairs a compiled qlang class instance with the runtime hosting it.
// Node lifecycle hooks call into it by name; methods a class doesn't define
// are silently skipped, matching original_source's optional on_play/
// on_stop/on_update overrides. No native functions that let a script reach
// back into the node that owns it are registered in this module; scripts
// get only the builtins from qlang.RegisterBuiltins.
type Script struct {
	Runtime  *qlang.Runtime
	Instance *qlang.ClassInstance
}

func (s *Script) call(method string, args ...qlang.QValue) {
	if s == nil || s.Runtime == nil || s.Instance == nil {
		return
	}
	if _, err := s.Runtime.CallMethod(s.Instance, method, args); err != nil {
		if qerr, ok := err.(*qlang.Error); ok && qerr.Code == qlang.UnknownMethod {
			return // optional hook, not implemented by this class.
		}
		slog.Default().Error("script call failed", "method", method, "error", err)
	}
}

// SceneNode is one node of a SceneGraph: a named transform that may carry
// meshes, scripts, and child nodes. Its world transform is cached and only
// recomputed when the node or one of its ancestors has moved, per
// spec's world_dirty invariant.
type SceneNode struct {
	pov

	name     string
	parent   *SceneNode
	children []*SceneNode
	meshes   []*mesh
	scripts  []*Script

	worldCache *lin.M4
	worldDirty bool
}

// NewSceneNode returns a named, identity-transformed, parentless node.
func NewSceneNode(name string) *SceneNode {
	return &SceneNode{
		pov:        newPov(),
		name:       name,
		worldCache: lin.NewM4I(),
		worldDirty: true,
	}
}

// Name returns the node's identifying name. Names need not be unique; a
// SceneGraph's FindNode returns the first depth-first match.
func (n *SceneNode) Name() string { return n.name }

// SetName renames the node.
func (n *SceneNode) SetName(name string) { n.name = name }

// Parent returns the node's parent, or nil for a root node.
func (n *SceneNode) Parent() *SceneNode { return n.parent }

// Children returns the node's direct children. The returned slice is owned
// by the node; callers must not modify it.
func (n *SceneNode) Children() []*SceneNode { return n.children }

// LocalPosition, LocalRotation, and LocalScale expose the node's pov fields
// for callers that want to read without a copy.
func (n *SceneNode) LocalPosition() *lin.V3 { return n.Loc }
func (n *SceneNode) LocalRotation() *lin.Q  { return n.Rot }
func (n *SceneNode) LocalScale() *lin.V3    { return n.Scale }

// SetLocalPosition repositions the node relative to its parent and marks
// its subtree's world matrices dirty.
func (n *SceneNode) SetLocalPosition(x, y, z float64) {
	n.Loc.SetS(x, y, z)
	n.markDirty()
}

// SetLocalRotation reorients the node relative to its parent and marks
// its subtree's world matrices dirty.
func (n *SceneNode) SetLocalRotation(x, y, z, w float64) {
	n.Rot.X, n.Rot.Y, n.Rot.Z, n.Rot.W = x, y, z, w
	n.markDirty()
}

// SetLocalScale resizes the node relative to its parent and marks its
// subtree's world matrices dirty.
func (n *SceneNode) SetLocalScale(x, y, z float64) {
	n.Scale.SetS(x, y, z)
	n.markDirty()
}

// Move offsets the node's position along its current orientation and marks
// its subtree dirty.
func (n *SceneNode) Move(x, y, z float64) {
	n.pov.Move(x, y, z)
	n.markDirty()
}

// Turn rotates the node by the given number of degrees around each axis and
// marks its subtree dirty. It wraps pov's Spin.
func (n *SceneNode) Turn(x, y, z float64) {
	n.pov.Spin(x, y, z)
	n.markDirty()
}

// markDirty flags this node and every descendant as needing a world-matrix
// recompute. Eager propagation (rather than a single dirty bit checked
// against a parent chain) keeps WorldMatrix O(1) for the common case of a
// node queried every frame whether or not it moved.
func (n *SceneNode) markDirty() {
	if n.worldDirty {
		return // already dirty; descendants already marked.
	}
	n.worldDirty = true
	for _, c := range n.children {
		c.markDirty()
	}
}

// LocalMatrix returns the node's parent-relative transform: scale, then
// rotate, then translate.
func (n *SceneNode) LocalMatrix() *lin.M4 { return n.pov.Matrix() }

// WorldMatrix returns the node's transform in world space, recomputing and
// caching it if the node (or an ancestor) has moved since the last call.
func (n *SceneNode) WorldMatrix() *lin.M4 {
	if !n.worldDirty {
		return n.worldCache
	}
	local := n.LocalMatrix()
	if n.parent == nil {
		n.worldCache = local
	} else {
		n.worldCache = lin.NewM4().Mult(local, n.parent.WorldMatrix())
	}
	n.worldDirty = false
	return n.worldCache
}

// WorldPosition extracts the translation component of WorldMatrix.
func (n *SceneNode) WorldPosition() *lin.V3 {
	m := n.WorldMatrix()
	return &lin.V3{X: m.Wx, Y: m.Wy, Z: m.Wz}
}

// AddChild reparents child under n, detaching it from any previous parent
// first.
func (n *SceneNode) AddChild(child *SceneNode) {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
	child.markDirty()
}

// RemoveChild detaches child from n. A no-op if child is not a direct
// child of n.
func (n *SceneNode) RemoveChild(child *SceneNode) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			child.markDirty()
			return
		}
	}
}

// FindChild searches n's direct children (or its whole subtree, when
// recursive is true) depth-first for the first node named name. FindChild
// does not match n itself.
func (n *SceneNode) FindChild(name string, recursive bool) *SceneNode {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	if recursive {
		for _, c := range n.children {
			if found := c.FindChild(name, true); found != nil {
				return found
			}
		}
	}
	return nil
}

// AddMesh attaches a renderable mesh to the node.
func (n *SceneNode) AddMesh(m *mesh) { n.meshes = append(n.meshes, m) }

// Meshes returns the meshes attached directly to this node.
func (n *SceneNode) Meshes() []*mesh { return n.meshes }

// AddScript attaches a script instance whose OnPlay/OnStop/OnUpdate
// methods fire alongside the node's own lifecycle calls.
func (n *SceneNode) AddScript(s *Script) { n.scripts = append(n.scripts, s) }

// Scripts returns the scripts attached directly to this node.
func (n *SceneNode) Scripts() []*Script { return n.scripts }

// OnPlay fires every attached script's OnPlay hook. It does not recurse
// into children; callers drive recursion through ForEveryNode (graph.go).
func (n *SceneNode) OnPlay() {
	for _, s := range n.scripts {
		s.call("OnPlay")
	}
}

// OnStop fires every attached script's OnStop hook.
func (n *SceneNode) OnStop() {
	for _, s := range n.scripts {
		s.call("OnStop")
	}
}

// OnUpdate fires every attached script's OnUpdate hook with the frame's
// delta time in seconds.
func (n *SceneNode) OnUpdate(dt float64) {
	for _, s := range n.scripts {
		s.call("OnUpdate", qlang.NewFloat64(dt))
	}
}
