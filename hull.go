package scene

// Plane is an oriented half-space `ax+by+cz+d ≤ 0 := inside` (spec §4.5).
type Plane struct {
	A, B, C, D float64
}

// positiveProduct is the signed-product primitive of spec §4.5:
// PositiveProduct(plane, corner) ∈ {0=inside/negative, 1=outside/positive}.
func positiveProduct(p Plane, corner Vec3) int {
	if p.A*corner.X+p.B*corner.Y+p.C*corner.Z+p.D > 0 {
		return 1
	}
	return 0
}

// HullCallback is the hull query callback ABI of spec §6.
type HullCallback func(mesh *Mesh, transform Matrix4, cookie any)

// QueryHull enumerates every instance whose world AABB is not entirely
// outside any of up to 4 half-space planes (spec §4.5). It is a dual
// traversal: the BVH is queried with the full plane set, then the residual
// flat instance list is queried element-by-element with the same set.
// Diagnostic counters are reset at entry.
func (w *World) QueryHull(planes []Plane, cb HullCallback, cookie any) {
	w.bspTests, w.bspInsts, w.bspNodes = 0, 0, 0

	if w.bvhRoot != nil {
		w.queryNode(w.bvhRoot, planes, cb, cookie)
	}
	for inst := w.flatHead; inst != nil; inst = inst.listNext {
		w.queryInstance(inst, planes, cb, cookie)
	}
}

// reducePlanes tests bbox's 8 corners against each plane. A plane for
// which all 8 corners are positive (outside) prunes the whole subtree; a
// plane for which all 8 corners are negative (inside) is dropped from the
// set passed to descendants.
func (w *World) reducePlanes(bbox AABB, planes []Plane) (outside bool, reduced []Plane) {
	if len(planes) == 0 {
		return false, nil
	}
	corners := bbox.Corners()
	reduced = make([]Plane, 0, len(planes))
	for _, p := range planes {
		allPositive, allNegative := true, true
		for _, c := range corners {
			w.bspTests++
			if positiveProduct(p, c) == 1 {
				allNegative = false
			} else {
				allPositive = false
			}
		}
		if allPositive {
			return true, nil
		}
		if allNegative {
			continue
		}
		reduced = append(reduced, p)
	}
	return false, reduced
}

func (w *World) queryNode(n *BVHNode, planes []Plane, cb HullCallback, cookie any) {
	w.bspNodes++
	outside, reduced := w.reducePlanes(n.BBox, planes)
	if outside {
		return
	}
	if len(reduced) == 0 {
		w.emitAll(n, cb, cookie)
		return
	}

	switch n.Kind {
	case BVHInst:
		w.bspInsts++
		cb(n.Inst.Mesh, n.Inst.Transform, cookie)
	case BVHLeaf:
		for i := n.Head; i != nil; i = i.listNext {
			w.queryInstance(i, reduced, cb, cookie)
		}
	case BVHNode2:
		w.queryNode(n.Children[0], reduced, cb, cookie)
		w.queryNode(n.Children[1], reduced, cb, cookie)
	case BVHNodeShare:
		w.queryNode(n.Children[0], reduced, cb, cookie)
		w.queryNode(n.Children[1], reduced, cb, cookie)
		for i := n.Head; i != nil; i = i.listNext {
			w.queryInstance(i, reduced, cb, cookie)
		}
	}
}

// queryInstance tests a single instance (a residual flat-list member, or a
// leaf/straddle member) against the remaining plane set.
func (w *World) queryInstance(inst *Instance, planes []Plane, cb HullCallback, cookie any) {
	outside, _ := w.reducePlanes(inst.BBox, planes)
	if outside {
		return
	}
	w.bspInsts++
	cb(inst.Mesh, inst.Transform, cookie)
}

// emitAll is the no-clip variant: every instance in the subtree is
// unconditionally emitted once the plane set has been fully satisfied.
func (w *World) emitAll(n *BVHNode, cb HullCallback, cookie any) {
	switch n.Kind {
	case BVHInst:
		w.bspInsts++
		cb(n.Inst.Mesh, n.Inst.Transform, cookie)
	case BVHLeaf:
		for i := n.Head; i != nil; i = i.listNext {
			w.bspInsts++
			cb(i.Mesh, i.Transform, cookie)
		}
	case BVHNode2:
		w.emitAll(n.Children[0], cb, cookie)
		w.emitAll(n.Children[1], cb, cookie)
	case BVHNodeShare:
		w.emitAll(n.Children[0], cb, cookie)
		w.emitAll(n.Children[1], cb, cookie)
		for i := n.Head; i != nil; i = i.listNext {
			w.bspInsts++
			cb(i.Mesh, i.Transform, cookie)
		}
	}
}
