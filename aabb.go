package scene

// AABB is an axis-aligned bounding box in world coordinates: the six-float
// (xmin,xmax,ymin,ymax,zmin,zmax) box of spec §3, carried here as two
// corner vectors for idiomatic Go access.
type AABB struct {
	Min, Max Vec3
}

// emptyAABB is the zero-value box NewAABBFromPoints returns for an empty
// point set.
var emptyAABB = AABB{}

// NewAABBFromPoints returns the AABB enclosing every point. Called with no
// points it returns the zero-value AABB, matching the "left undefined" rule
// for an empty mesh (spec §4.3) -- callers must not query it.
func NewAABBFromPoints(points []Vec3) AABB {
	if len(points) == 0 {
		return emptyAABB
	}
	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.growPoint(p)
	}
	return box
}

func (b *AABB) growPoint(p Vec3) {
	b.Min.X = minFloat(b.Min.X, p.X)
	b.Min.Y = minFloat(b.Min.Y, p.Y)
	b.Min.Z = minFloat(b.Min.Z, p.Z)
	b.Max.X = maxFloat(b.Max.X, p.X)
	b.Max.Y = maxFloat(b.Max.Y, p.Y)
	b.Max.Z = maxFloat(b.Max.Z, p.Z)
}

// Union returns the AABB enclosing both boxes.
func (b AABB) Union(other AABB) AABB {
	return AABB{
		Min: Vec3{minFloat(b.Min.X, other.Min.X), minFloat(b.Min.Y, other.Min.Y), minFloat(b.Min.Z, other.Min.Z)},
		Max: Vec3{maxFloat(b.Max.X, other.Max.X), maxFloat(b.Max.Y, other.Max.Y), maxFloat(b.Max.Z, other.Max.Z)},
	}
}

// Corners returns the 8 corners of the box, used by the hull query's
// PositiveProduct test.
func (b AABB) Corners() [8]Vec3 {
	return [8]Vec3{
		{b.Min.X, b.Min.Y, b.Min.Z},
		{b.Max.X, b.Min.Y, b.Min.Z},
		{b.Min.X, b.Max.Y, b.Min.Z},
		{b.Max.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Min.Y, b.Max.Z},
		{b.Max.X, b.Min.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Max.Z},
		{b.Max.X, b.Max.Y, b.Max.Z},
	}
}

// Axis returns the (lo, hi) extent of the box along axis 0=x, 1=y, 2=z.
func (b AABB) Axis(axis int) (lo, hi float64) {
	switch axis {
	case 0:
		return b.Min.X, b.Max.X
	case 1:
		return b.Min.Y, b.Max.Y
	default:
		return b.Min.Z, b.Max.Z
	}
}

// Centroid returns lo+hi along axis, twice the box center: cheaper than the
// center and sorts identically. It is the same key the SAH builder's
// axisCentroid sorts by.
func (b AABB) Centroid(axis int) float64 {
	lo, hi := b.Axis(axis)
	return lo + hi
}

// Size returns the per-axis extent (Δx, Δy, Δz).
func (b AABB) Size() Vec3 {
	return Vec3{b.Max.X - b.Min.X, b.Max.Y - b.Min.Y, b.Max.Z - b.Min.Z}
}

// bbox6 returns the box in the wire order spec §6's BVH introspection
// callback expects: (xmin,xmax,ymin,ymax,zmin,zmax).
func (b AABB) bbox6() [6]float64 {
	return [6]float64{b.Min.X, b.Max.X, b.Min.Y, b.Max.Y, b.Min.Z, b.Max.Z}
}

// weightedSurfaceArea implements the SAH metric of spec §4.4:
//
//	A = (Δx·Δy)·heightScale + (Δy·Δz) + (Δz·Δx)
//
// heightScale biases splits away from vertical separation for a 2.5D world;
// it is supplied by the caller (normally BuildOptions.HeightScale) rather
// than hardwired, since the spec leaves its value to an external terrain
// collaborator this package does not have.
func weightedSurfaceArea(size Vec3, heightScale float64) float64 {
	return (size.X*size.Y)*heightScale + (size.Y * size.Z) + (size.Z * size.X)
}
