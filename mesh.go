package scene

import "github.com/google/uuid"

// Mesh is the unique owner of an ordered sequence of vertices, triangles,
// and line segments (spec §3). Its untransformed AABB is maintained
// incrementally as vertices are added, the same strategy as
// original_source/mesh.cpp's Mesh::Update.
type Mesh struct {
	ID   uuid.UUID
	Name string

	world      *World
	next, prev *Mesh

	vertHead, vertTail *Vertex
	vertCount          int

	triHead, triTail *Triangle
	triCount         int

	lineHead, lineTail *Line
	lineCount          int

	bbox      AABB
	bboxValid bool

	// shareHead is the head of the list of instances referencing this
	// mesh, threaded through Instance.shareNext/sharePrev.
	shareHead *Instance
}

func newMesh(w *World, name string) *Mesh {
	return &Mesh{ID: uuid.New(), Name: name, world: w}
}

// BBox returns the mesh's untransformed AABB. Per spec §4.3, a mesh with no
// vertices has an undefined AABB; callers must not query it in that state.
func (m *Mesh) BBox() AABB {
	return m.bbox
}

// AddVertex appends a vertex and extends the mesh's untransformed AABB.
func (m *Mesh) AddVertex(x, y, z float64, c Color) *Vertex {
	v := newVertex(m, x, y, z, c)
	v.prev = m.vertTail
	if m.vertTail != nil {
		m.vertTail.next = v
	} else {
		m.vertHead = v
	}
	m.vertTail = v
	m.vertCount++

	p := v.Point()
	if !m.bboxValid {
		m.bbox = AABB{Min: p, Max: p}
		m.bboxValid = true
	} else {
		m.bbox.growPoint(p)
	}
	return v
}

// AddTriangle links a new triangle referencing three of this mesh's
// vertices into the mesh's triangle list and their per-corner share lists.
// Per spec §3 no triangle may reference a vertex from another mesh.
func (m *Mesh) AddTriangle(a, b, c *Vertex, visual uint32) *Triangle {
	t := newTriangle(m, a, b, c, visual)
	t.prev = m.triTail
	if m.triTail != nil {
		m.triTail.next = t
	} else {
		m.triHead = t
	}
	m.triTail = t
	m.triCount++
	return t
}

// AddLine links a new line segment analogously to AddTriangle.
func (m *Mesh) AddLine(a, b *Vertex, visual uint32) *Line {
	l := newLine(m, a, b, visual)
	l.prev = m.lineTail
	if m.lineTail != nil {
		m.lineTail.next = l
	} else {
		m.lineHead = l
	}
	m.lineTail = l
	m.lineCount++
	return l
}

// Vertices, Triangles, Lines each return the mesh's primitives in insertion
// order. They allocate a slice; hot traversal paths (AABB recompute,
// triangle enumeration) walk the linked lists directly instead.
func (m *Mesh) Vertices() []*Vertex {
	out := make([]*Vertex, 0, m.vertCount)
	for v := m.vertHead; v != nil; v = v.next {
		out = append(out, v)
	}
	return out
}

func (m *Mesh) Triangles() []*Triangle {
	out := make([]*Triangle, 0, m.triCount)
	for t := m.triHead; t != nil; t = t.next {
		out = append(out, t)
	}
	return out
}

func (m *Mesh) Lines() []*Line {
	out := make([]*Line, 0, m.lineCount)
	for l := m.lineHead; l != nil; l = l.next {
		out = append(out, l)
	}
	return out
}

// VertexCount, TriangleCount, LineCount report list lengths maintained
// eagerly alongside the linked lists.
func (m *Mesh) VertexCount() int   { return m.vertCount }
func (m *Mesh) TriangleCount() int { return m.triCount }
func (m *Mesh) LineCount() int     { return m.lineCount }

// EnumerateTriangles invokes cb once per triangle with its 9 position
// scalars, 12 color bytes, and its visual tag, matching the mesh triangle
// enumeration callback ABI of spec §6.
func (m *Mesh) EnumerateTriangles(cb func(coords [9]float64, colors [12]byte, visual uint32, cookie any), cookie any) {
	for t := m.triHead; t != nil; t = t.next {
		pts := t.Points()
		var coords [9]float64
		var colors [12]byte
		for i := 0; i < 3; i++ {
			coords[i*3+0] = pts[i].X
			coords[i*3+1] = pts[i].Y
			coords[i*3+2] = pts[i].Z
			b := t.Corners[i].Color.Bytes()
			copy(colors[i*4:i*4+4], b[:])
		}
		cb(coords, colors, t.Visual, cookie)
	}
}

// linkShare prepends inst to this mesh's instance share list.
func (m *Mesh) linkShare(inst *Instance) {
	inst.shareMesh = m
	inst.sharePrev = nil
	inst.shareNext = m.shareHead
	if m.shareHead != nil {
		m.shareHead.sharePrev = inst
	}
	m.shareHead = inst
}

// unlinkShare splices inst out of this mesh's instance share list.
func (m *Mesh) unlinkShare(inst *Instance) {
	if inst.sharePrev != nil {
		inst.sharePrev.shareNext = inst.shareNext
	} else {
		m.shareHead = inst.shareNext
	}
	if inst.shareNext != nil {
		inst.shareNext.sharePrev = inst.sharePrev
	}
	inst.shareNext, inst.sharePrev, inst.shareMesh = nil, nil, nil
}

// shareList returns the instances currently referencing this mesh, in
// share-list order (most-recently-added first).
func (m *Mesh) shareList() []*Instance {
	var out []*Instance
	for inst := m.shareHead; inst != nil; inst = inst.shareNext {
		out = append(out, inst)
	}
	return out
}

// delete cascades: every instance on the share list is destroyed, then
// every triangle, line, and vertex is freed in insertion order (spec §4.1).
// It does not unlink m from the world mesh list; the caller (World.DeleteMesh)
// does that after this returns.
func (m *Mesh) delete() {
	for _, inst := range m.shareList() {
		m.world.DeleteInstance(inst)
	}
	m.triHead, m.triTail, m.triCount = nil, nil, 0
	m.lineHead, m.lineTail, m.lineCount = nil, nil, 0
	m.vertHead, m.vertTail, m.vertCount = nil, nil, 0
}
