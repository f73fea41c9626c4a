package scene

import (
	"math"
	"sort"
)

// BuildOptions configures Rebuild. HeightScale is the HEIGHT_SCALE
// constant of spec §4.4/§6: a build-time value from the terrain
// collaborator biasing splits away from vertical separation. This repo has
// no terrain collaborator, so it is a field with a documented default
// rather than a hardwired constant.
type BuildOptions struct {
	HeightScale float64
	// RefreshBoxes requests that every eligible instance's world AABB be
	// recomputed from its transform before the tree is built.
	RefreshBoxes bool
}

// DefaultBuildOptions returns HeightScale 1.0 (standard half-surface area)
// with box refresh enabled.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{HeightScale: 1.0, RefreshBoxes: true}
}

type buildItem struct {
	inst *Instance
	bbox AABB
}

// Rebuild extracts every tree-eligible (FlagUseTree) instance from the
// world's flat live list, optionally refreshes their world AABBs, and
// builds a fresh BVH over them via top-down SAH split (spec §4.4). The
// non-eligible tail remains on the flat list as the residual list queries
// traverse element-by-element.
func (w *World) Rebuild(opts BuildOptions) {
	var eligible []buildItem
	var residualHead, residualTail *Instance

	for inst := w.flatHead; inst != nil; {
		next := inst.listNext
		inst.listNext, inst.listPrev = nil, nil

		if inst.UseTree() {
			if opts.RefreshBoxes {
				inst.RefreshBBox()
			}
			eligible = append(eligible, buildItem{inst: inst, bbox: inst.BBox})
		} else {
			inst.listPrev = residualTail
			if residualTail != nil {
				residualTail.listNext = inst
			} else {
				residualHead = inst
			}
			residualTail = inst
		}
		inst = next
	}
	w.flatHead, w.flatTail = residualHead, residualTail

	if len(eligible) == 0 {
		w.bvhRoot = nil
		return
	}

	root := buildRecursive(eligible, opts)
	if root.Kind == BVHInst {
		// The entire tree is a single instance: there is no containing
		// Node to record as its parent, so it points at its own wrapper
		// to distinguish "in the tree" from "on the flat list" (parent
		// == nil). World.DeleteInstance special-cases this.
		root.Inst.parent = root
	}
	w.bvhRoot = root
}

// buildRecursive implements the SAH split of spec §4.4 over three axes.
func buildRecursive(items []buildItem, opts BuildOptions) *BVHNode {
	if len(items) == 1 {
		return &BVHNode{Kind: BVHInst, Inst: items[0].inst, BBox: items[0].bbox}
	}

	n := len(items)
	totalArea := weightedSurfaceArea(unionAll(items).Size(), opts.HeightScale)

	bestCost := math.Inf(1)
	bestSplit := 1
	var bestSorted []buildItem

	for axis := 0; axis < 3; axis++ {
		sorted := sortedByAxis(items, axis)
		prefix := prefixAreas(sorted, opts.HeightScale)
		suffix := suffixAreas(sorted, opts.HeightScale)

		for i := 1; i < n; i++ {
			cost := prefix[i-1]*float64(i) + suffix[i]*float64(n-i)
			if cost < bestCost {
				bestCost = cost
				bestSplit = i
				bestSorted = sorted
			}
		}
	}

	// Leaf fallback: splitting isn't worth more than ~2 instances of leaf
	// cost.
	if bestCost+2*totalArea > float64(n)*totalArea {
		return buildLeaf(bestSorted)
	}

	left := buildRecursive(bestSorted[:bestSplit], opts)
	right := buildRecursive(bestSorted[bestSplit:], opts)

	node := &BVHNode{Kind: BVHNode2, BBox: left.BBox.Union(right.BBox), Children: [2]*BVHNode{left, right}}
	left.Parent, right.Parent = node, node
	attachInstParent(left, node)
	attachInstParent(right, node)
	return node
}

// attachInstParent records the instance-level back-pointer for a degenerate
// BVHInst child onto its containing node; Leaf/Node2/NodeShare children
// already set their own members' parent pointers when they were built.
func attachInstParent(child, container *BVHNode) {
	if child.Kind == BVHInst {
		child.Inst.parent = container
	}
}

// buildLeaf wires sorted into a single Leaf node in one pass, matching
// spec §4.4's "the intrusive list is wired in a single pass with
// head.prev = nil, tail.next = nil".
func buildLeaf(sorted []buildItem) *BVHNode {
	leaf := &BVHNode{Kind: BVHLeaf}
	box := sorted[0].bbox

	for idx, it := range sorted {
		inst := it.inst
		inst.parent = leaf
		if idx == 0 {
			inst.listPrev = nil
			leaf.Head = inst
		} else {
			prev := sorted[idx-1].inst
			inst.listPrev = prev
			prev.listNext = inst
		}
		if idx == len(sorted)-1 {
			inst.listNext = nil
			leaf.Tail = inst
		}
		if idx > 0 {
			box = box.Union(it.bbox)
		}
	}
	leaf.BBox = box
	return leaf
}

func axisCentroid(it buildItem, axis int) float64 {
	lo, hi := it.bbox.Axis(axis)
	return lo + hi
}

func sortedByAxis(items []buildItem, axis int) []buildItem {
	out := make([]buildItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return axisCentroid(out[i], axis) < axisCentroid(out[j], axis)
	})
	return out
}

// prefixAreas[i] is the weighted half-surface area of the union of
// sorted[0..i].
func prefixAreas(sorted []buildItem, heightScale float64) []float64 {
	areas := make([]float64, len(sorted))
	box := sorted[0].bbox
	areas[0] = weightedSurfaceArea(box.Size(), heightScale)
	for i := 1; i < len(sorted); i++ {
		box = box.Union(sorted[i].bbox)
		areas[i] = weightedSurfaceArea(box.Size(), heightScale)
	}
	return areas
}

// suffixAreas[i] is the weighted half-surface area of the union of
// sorted[i..n).
func suffixAreas(sorted []buildItem, heightScale float64) []float64 {
	n := len(sorted)
	areas := make([]float64, n)
	box := sorted[n-1].bbox
	areas[n-1] = weightedSurfaceArea(box.Size(), heightScale)
	for i := n - 2; i >= 0; i-- {
		box = box.Union(sorted[i].bbox)
		areas[i] = weightedSurfaceArea(box.Size(), heightScale)
	}
	return areas
}

func unionAll(items []buildItem) AABB {
	box := items[0].bbox
	for _, it := range items[1:] {
		box = box.Union(it.bbox)
	}
	return box
}
