package scene

// Line is a 2-endpoint edge owned by exactly one Mesh, the wireframe/guide
// analogue of Triangle (spec §3 lists lines alongside triangles as a second,
// independent primitive list per mesh). shareNext[i] threads the per-vertex
// line share list rooted at Endpoints[i].lineShareHead.
type Line struct {
	Mesh *Mesh

	next, prev *Line

	Endpoints [2]*Vertex
	shareNext [2]*Line

	Visual uint32
}

func newLine(mesh *Mesh, a, b *Vertex, visual uint32) *Line {
	l := &Line{Mesh: mesh, Endpoints: [2]*Vertex{a, b}, Visual: visual}
	a.linkLineShare(l, 0)
	b.linkLineShare(l, 1)
	return l
}

// endpointIndexOf returns which of l's two endpoints is v.
func (l *Line) endpointIndexOf(v *Vertex) int {
	for i, e := range l.Endpoints {
		if e == v {
			return i
		}
	}
	panic("scene: line share list corrupted: vertex not an endpoint")
}

// Points returns the two endpoint positions.
func (l *Line) Points() [2]Vec3 {
	return [2]Vec3{l.Endpoints[0].Point(), l.Endpoints[1].Point()}
}
