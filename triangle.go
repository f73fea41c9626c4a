package scene

// Triangle is a single face owned by exactly one Mesh, referencing three
// Vertex corners by pointer (spec §3: meshes are pure triangle lists, no
// separate index buffer). shareNext[i] threads the per-corner share list
// rooted at Corners[i].triShareHead.
type Triangle struct {
	Mesh *Mesh

	next, prev *Triangle

	Corners   [3]*Vertex
	shareNext [3]*Triangle

	// Visual is an opaque material/shading tag. Spec §3 only requires the
	// scene database to carry it through unchanged, never interpret it.
	Visual uint32
}

func newTriangle(mesh *Mesh, a, b, c *Vertex, visual uint32) *Triangle {
	t := &Triangle{Mesh: mesh, Corners: [3]*Vertex{a, b, c}, Visual: visual}
	a.linkTriangleShare(t, 0)
	b.linkTriangleShare(t, 1)
	c.linkTriangleShare(t, 2)
	return t
}

// cornerIndexOf returns which of t's three corners is v. Called only while
// walking v's own share list, so v is always one of the three by
// construction; a miss indicates a corrupted share list.
func (t *Triangle) cornerIndexOf(v *Vertex) int {
	for i, c := range t.Corners {
		if c == v {
			return i
		}
	}
	panic("scene: triangle share list corrupted: vertex not a corner")
}

// Points returns the three corner positions, the form the ray/triangle
// intersection routine and triangle enumeration both want.
func (t *Triangle) Points() [3]Vec3 {
	return [3]Vec3{t.Corners[0].Point(), t.Corners[1].Point(), t.Corners[2].Point()}
}
