package scene

import "github.com/google/uuid"

// InstanceFlags is the instance flag bitset (spec §3).
type InstanceFlags uint32

// FlagUseTree marks an instance as tree-eligible: it participates in the
// BVH built by Rebuild. Instances without this flag always stay on the
// world's flat live list and are visited by queries as the residual list.
const FlagUseTree InstanceFlags = 1 << 0

// Instance is a placement of a Mesh into the world with its own transform
// (spec §3/glossary). It is on exactly one of: the world's flat live list,
// or a BVH leaf/straddle list — never both, mirroring
// original_source/mesh.cpp's Inst::next/prev dual use. parent == nil means
// the flat list; parent != nil names the owning BVH node.
type Instance struct {
	ID   uuid.UUID
	Name string

	Mesh  *Mesh
	world *World

	Transform Matrix4
	BBox      AABB
	Flags     InstanceFlags

	// shareNext/sharePrev thread Mesh.shareHead, independent of list/parent
	// below since an instance is simultaneously on its mesh's share list
	// AND on exactly one of {flat list, BVH leaf/straddle list}.
	shareMesh        *Mesh
	shareNext, sharePrev *Instance

	// listNext/listPrev thread either the world's flat live list or a BVH
	// leaf's/straddle's instance list, per the mutual-exclusivity
	// invariant; parent discriminates which.
	listNext, listPrev *Instance
	parent             *BVHNode
}

// UseTree reports whether the instance participates in the BVH.
func (i *Instance) UseTree() bool { return i.Flags&FlagUseTree != 0 }

// OnFlatList reports whether the instance is currently on the world's flat
// live list rather than a BVH leaf/straddle list.
func (i *Instance) OnFlatList() bool { return i.parent == nil }

// RefreshBBox recomputes the instance's world-space AABB from its mesh's
// vertices and its current transform (spec §4.3). If the mesh has no
// vertices the AABB is left at its previous value, matching "left
// undefined" for an empty mesh.
func (i *Instance) RefreshBBox() {
	if i.Mesh == nil || i.Mesh.vertCount == 0 {
		return
	}
	points := make([]Vec3, 0, i.Mesh.vertCount)
	for v := i.Mesh.vertHead; v != nil; v = v.next {
		points = append(points, i.Transform.TransformPointAffine(v.Point()))
	}
	i.BBox = NewAABBFromPoints(points)
}
