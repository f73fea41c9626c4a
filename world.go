package scene

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// World owns the mesh list and the instance live list (spec §3), and at
// most one BVH root. Mesh/instance counts are maintained eagerly rather
// than computed on demand.
type World struct {
	logger *zap.SugaredLogger

	meshHead, meshTail *Mesh
	meshCount          int

	flatHead, flatTail *Instance
	instCount          int

	bvhRoot *BVHNode

	// Diagnostic counters (spec §5), reset at the start of each query;
	// per-World rather than process-wide globals.
	bspTests, bspInsts, bspNodes int
}

// NewWorld returns an empty world. A nil logger falls back to a no-op
// logger so callers never need a nil check.
func NewWorld(logger *zap.SugaredLogger) *World {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &World{logger: logger}
}

// MeshCount and InstanceCount report the eagerly maintained live counts.
func (w *World) MeshCount() int     { return w.meshCount }
func (w *World) InstanceCount() int { return w.instCount }

// BVHRoot returns the current tree root, or nil if the world has never
// been rebuilt or has no tree-eligible instances.
func (w *World) BVHRoot() *BVHNode { return w.bvhRoot }

// Meshes returns every live mesh, in mesh-list order.
func (w *World) Meshes() []*Mesh {
	out := make([]*Mesh, 0, w.meshCount)
	for m := w.meshHead; m != nil; m = m.next {
		out = append(out, m)
	}
	return out
}

// FindMesh returns the mesh with the given name, or nil.
func (w *World) FindMesh(name string) *Mesh {
	for m := w.meshHead; m != nil; m = m.next {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// AddMesh creates an empty mesh appended to the mesh list; its
// untransformed AABB is the zero value until the PLY collaborator (or
// AddVertex) extends it (spec §4.1).
func (w *World) AddMesh(name string) *Mesh {
	m := newMesh(w, name)
	m.prev = w.meshTail
	if w.meshTail != nil {
		w.meshTail.next = m
	} else {
		w.meshHead = m
	}
	w.meshTail = m
	w.meshCount++
	w.logger.Debugw("mesh added", "name", name, "id", m.ID)
	return m
}

// DeleteMesh deletes every instance on m's share list, then frees m's
// triangles, lines, and vertices, then unlinks m from the mesh list
// (spec §4.1). Returns ErrInvalidArgument if m belongs to a different
// world.
func (w *World) DeleteMesh(m *Mesh) error {
	if m == nil || m.world != w {
		return wrapf(ErrInvalidArgument, "DeleteMesh: mesh not owned by this world")
	}

	m.delete()

	if m.prev != nil {
		m.prev.next = m.next
	} else {
		w.meshHead = m.next
	}
	if m.next != nil {
		m.next.prev = m.prev
	} else {
		w.meshTail = m.prev
	}
	m.next, m.prev = nil, nil
	w.meshCount--
	w.logger.Debugw("mesh deleted", "name", m.Name, "id", m.ID)
	return nil
}

// AddInstance places mesh into the world (spec §4.2). A nil transform is
// treated as identity, in which case the world AABB is seeded directly
// from the mesh's untransformed AABB rather than recomputed via the
// identity transform — an exact equivalent, cheaper to compute.
func (w *World) AddInstance(mesh *Mesh, name string, transform *Matrix4, flags InstanceFlags) (*Instance, error) {
	if mesh == nil || mesh.world != w {
		return nil, wrapf(ErrInvalidArgument, "AddInstance: mesh not owned by this world")
	}

	tm := IdentityMatrix()
	identity := true
	if transform != nil {
		tm = *transform
		identity = false
	}

	inst := &Instance{ID: uuid.New(), Name: name, Mesh: mesh, world: w, Transform: tm, Flags: flags}

	mesh.linkShare(inst)

	inst.listPrev = w.flatTail
	if w.flatTail != nil {
		w.flatTail.listNext = inst
	} else {
		w.flatHead = inst
	}
	w.flatTail = inst

	if identity {
		inst.BBox = mesh.bbox
	} else {
		inst.RefreshBBox()
	}

	w.instCount++
	w.logger.Debugw("instance added", "name", name, "mesh", mesh.Name, "useTree", inst.UseTree())
	return inst, nil
}

// DeleteInstance removes inst from whichever list currently holds it — the
// world flat list or a BVH leaf/straddle list — and from its mesh's share
// list (spec §4.2).
func (w *World) DeleteInstance(inst *Instance) error {
	if inst == nil || inst.world != w {
		return wrapf(ErrInvalidArgument, "DeleteInstance: instance not owned by this world")
	}

	if inst.shareMesh != nil {
		inst.shareMesh.unlinkShare(inst)
	}

	switch {
	case inst.parent == nil:
		w.unlinkFlat(inst)
	case inst.parent == w.bvhRoot && inst.parent.Kind == BVHInst:
		// The whole tree was this one instance; see Rebuild's comment.
		w.bvhRoot = nil
		inst.parent = nil
	default:
		inst.parent.removeInstance(inst)
	}

	w.instCount--
	w.logger.Debugw("instance deleted", "name", inst.Name, "mesh", inst.Mesh.Name)
	return nil
}

func (w *World) unlinkFlat(inst *Instance) {
	if inst.listPrev != nil {
		inst.listPrev.listNext = inst.listNext
	} else {
		w.flatHead = inst.listNext
	}
	if inst.listNext != nil {
		inst.listNext.listPrev = inst.listPrev
	} else {
		w.flatTail = inst.listPrev
	}
	inst.listNext, inst.listPrev = nil, nil
}

// FlatInstances returns every instance currently on the residual flat list
// (not owned by the BVH), in list order.
func (w *World) FlatInstances() []*Instance {
	var out []*Instance
	for i := w.flatHead; i != nil; i = i.listNext {
		out = append(out, i)
	}
	return out
}
