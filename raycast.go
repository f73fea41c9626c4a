package scene

// slabTest reports whether an AABB is entirely on the wrong side of the
// Plücker line ray, for one of the four ray-octant sign combinations of
// spec §4.6. Each of the six inequalities picks a different pair of AABB
// extrema depending on the sign of the ray's x/y direction components.
//
// original_source/mesh.cpp's HitWorld0..3 solve the same six wedge tests
// but only for a downward ray (its dispatcher asserts v[2] < 0). spec §4.6
// requires the opposite convention, v[2] >= 0, so the inequalities below
// are not a transcription of HitWorld0..3: they are HitWorld0..3 with the
// ray and box mirrored through z (vz -> -vz, mx -> -mx, my -> -my,
// z0 -> -z1, z1 -> -z0; mz, vx, vy are unaffected by a z-mirror) and
// simplified back into terms of the unmirrored ray and box.
type slabTest func(bbox AABB, ray [9]float64) bool

// slabTest00 handles v[0] < 0, v[1] < 0.
func slabTest00(b AABB, ray [9]float64) bool {
	x0, x1 := b.Min.X, b.Max.X
	y0, y1 := b.Min.Y, b.Max.Y
	z0, z1 := b.Min.Z, b.Max.Z
	return z1*ray[3]-ray[5]*x1-ray[1] > 0 ||
		ray[0]+z1*ray[4]-ray[5]*y1 > 0 ||
		ray[2]-ray[4]*x0+ray[3]*y1 > 0 ||
		ray[1]-z0*ray[3]+ray[5]*x0 > 0 ||
		ray[5]*y0-ray[0]-z0*ray[4] > 0 ||
		ray[4]*x1-ray[3]*y0-ray[2] > 0
}

// slabTest10 handles v[0] >= 0, v[1] < 0.
func slabTest10(b AABB, ray [9]float64) bool {
	x0, x1 := b.Min.X, b.Max.X
	y0, y1 := b.Min.Y, b.Max.Y
	z0, z1 := b.Min.Z, b.Max.Z
	return ray[0]+z1*ray[4]-ray[5]*y1 > 0 ||
		ray[1]-z1*ray[3]+ray[5]*x0 > 0 ||
		ray[2]-ray[4]*x0+ray[3]*y0 > 0 ||
		ray[5]*y0-ray[0]-z0*ray[4] > 0 ||
		z1*ray[3]-ray[5]*x1-ray[1] > 0 ||
		ray[4]*x1-ray[3]*y1-ray[2] > 0
}

// slabTest01 handles v[0] < 0, v[1] >= 0.
func slabTest01(b AABB, ray [9]float64) bool {
	x0, x1 := b.Min.X, b.Max.X
	y0, y1 := b.Min.Y, b.Max.Y
	z0, z1 := b.Min.Z, b.Max.Z
	return ray[5]*y0-ray[0]-z1*ray[4] > 0 ||
		z1*ray[3]-ray[5]*x1-ray[1] > 0 ||
		ray[2]+ray[3]*y1-ray[4]*x1 > 0 ||
		ray[0]+z0*ray[4]-ray[5]*y1 > 0 ||
		ray[1]-z0*ray[3]+ray[5]*x0 > 0 ||
		ray[4]*x0-ray[3]*y0-ray[2] > 0
}

// slabTest11 handles v[0] >= 0, v[1] >= 0.
func slabTest11(b AABB, ray [9]float64) bool {
	x0, x1 := b.Min.X, b.Max.X
	y0, y1 := b.Min.Y, b.Max.Y
	z0, z1 := b.Min.Z, b.Max.Z
	return ray[1]-z1*ray[3]+ray[5]*x0 > 0 ||
		ray[5]*y0-ray[0]-z1*ray[4] > 0 ||
		ray[2]-ray[4]*x1+ray[3]*y0 > 0 ||
		z0*ray[3]-ray[5]*x1-ray[1] > 0 ||
		ray[0]+z0*ray[4]-ray[5]*y1 > 0 ||
		ray[4]*x0-ray[3]*y1-ray[2] > 0
}

// RayPick finds the foremost triangle hit along an oriented ray,
// accelerated by the BVH via Plücker-coordinate slab rejection (spec
// §4.6). Rays with dir.Z < 0 are unsupported: downward-looking picks are a
// programmer error in this upward-viewing terrain model, and this panics
// rather than silently extending to all eight octants (spec §4.6, §7,
// Design Notes).
func (w *World) RayPick(origin, dir Vec3) (inst *Instance, hit Vec3, ok bool) {
	if dir.Z < 0 {
		panic("scene: ray pick requires v[2] >= 0; downward rays are unsupported")
	}

	moment := crossProduct(origin, dir)
	ray := [9]float64{moment.X, moment.Y, moment.Z, dir.X, dir.Y, dir.Z, origin.X, origin.Y, origin.Z}
	ret := origin // the initial hit record is the ray origin p

	var outside slabTest
	switch {
	case dir.X < 0 && dir.Y < 0:
		outside = slabTest00
	case dir.X >= 0 && dir.Y < 0:
		outside = slabTest10
	case dir.X < 0 && dir.Y >= 0:
		outside = slabTest01
	default:
		outside = slabTest11
	}

	best := w.rayTraverse(w.bvhRoot, ray, &ret, outside)

	// Residual flat-list instances are tested directly, same as the dual
	// traversal in QueryHull.
	for i := w.flatHead; i != nil; i = i.listNext {
		if w.hitFace(i, ray, &ret) {
			best = i
		}
	}

	return best, ret, best != nil
}

// rayTraverse descends the BVH, culling subtrees whose AABB is entirely on
// the wrong side of the line, and otherwise dispatching on node kind. Both
// children are always visited (no front-to-back early termination); the
// right child wins ties, matching the source's `i = j ? j : i` pattern
// exactly. Since hitFace reports a hit only when it raised ret.Z and the
// right child is visited after the left, the returned instance is the one
// that most recently raised ret.Z within the subtree.
func (w *World) rayTraverse(n *BVHNode, ray [9]float64, ret *Vec3, outside slabTest) *Instance {
	if n == nil {
		return nil
	}
	if outside(n.BBox, ray) {
		return nil
	}

	switch n.Kind {
	case BVHInst:
		if w.hitFace(n.Inst, ray, ret) {
			return n.Inst
		}
		return nil

	case BVHLeaf:
		var best *Instance
		for i := n.Head; i != nil; i = i.listNext {
			if w.hitFace(i, ray, ret) {
				best = i
			}
		}
		return best

	case BVHNode2:
		left := w.rayTraverse(n.Children[0], ray, ret, outside)
		right := w.rayTraverse(n.Children[1], ray, ret, outside)
		if right != nil {
			return right
		}
		return left

	default: // BVHNodeShare
		left := w.rayTraverse(n.Children[0], ray, ret, outside)
		right := w.rayTraverse(n.Children[1], ray, ret, outside)
		best := left
		if right != nil {
			best = right
		}
		for i := n.Head; i != nil; i = i.listNext {
			if w.hitFace(i, ray, ret) {
				best = i
			}
		}
		return best
	}
}

// hitFace tests every triangle of inst's mesh, transformed by inst's
// transform, against the ray, updating ret whenever a hit's z is strictly
// greater than ret's current z (the foremost-hit rule, spec §4.6).
func (w *World) hitFace(inst *Instance, ray [9]float64, ret *Vec3) bool {
	if inst.Mesh == nil {
		return false
	}
	origin := Vec3{X: ray[6], Y: ray[7], Z: ray[8]}
	dir := Vec3{X: ray[3], Y: ray[4], Z: ray[5]}

	flag := false
	for t := inst.Mesh.triHead; t != nil; t = t.next {
		pts := t.Points()
		v0 := inst.Transform.TransformPointAffine(pts[0])
		v1 := inst.Transform.TransformPointAffine(pts[1])
		v2 := inst.Transform.TransformPointAffine(pts[2])

		if hitPt, hit := rayIntersectsTriangle(origin, dir, v0, v1, v2); hit {
			if hitPt.Z > ret.Z {
				*ret = hitPt
				flag = true
			}
		}
	}
	return flag
}
