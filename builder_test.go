package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addSpreadInstances(t *testing.T, w *World, m *Mesh, n int, spacing float64) []*Instance {
	t.Helper()
	var out []*Instance
	for i := 0; i < n; i++ {
		tm := translation(float64(i)*spacing, 0, 0)
		inst, err := w.AddInstance(m, "i", &tm, FlagUseTree)
		require.NoError(t, err)
		out = append(out, inst)
	}
	return out
}

func TestRebuildLeafFallbackForClusteredInstances(t *testing.T) {
	w := NewWorld(nil)
	m := cubeMesh(t, w, "cube")
	addSpreadInstances(t, w, m, 3, 0.001)

	w.Rebuild(DefaultBuildOptions())
	root := w.BVHRoot()
	require.NotNil(t, root)
	assert.Equal(t, BVHLeaf, root.Kind)
	assert.Len(t, root.leafInstances(), 3)
}

func TestRebuildSplitsWidelySeparatedInstances(t *testing.T) {
	w := NewWorld(nil)
	m := cubeMesh(t, w, "cube")
	// Four instances, because a two-instance partition always takes the
	// leaf fallback (minCost + 2·totalArea > 2·totalArea whenever minCost > 0).
	addSpreadInstances(t, w, m, 4, 1000)

	w.Rebuild(DefaultBuildOptions())
	root := w.BVHRoot()
	require.NotNil(t, root)
	assert.Equal(t, BVHNode2, root.Kind)
	assert.NotNil(t, root.Children[0])
	assert.NotNil(t, root.Children[1])
}

func TestRebuildNeverEmitsNodeShare(t *testing.T) {
	w := NewWorld(nil)
	m := cubeMesh(t, w, "cube")
	addSpreadInstances(t, w, m, 20, 5)

	w.Rebuild(DefaultBuildOptions())
	var walk func(n *BVHNode)
	walk = func(n *BVHNode) {
		if n == nil {
			return
		}
		assert.NotEqual(t, BVHNodeShare, n.Kind)
		if n.Kind == BVHNode2 {
			walk(n.Children[0])
			walk(n.Children[1])
		}
	}
	walk(w.BVHRoot())
}

func TestRebuildLeavesNonEligibleInstancesOnFlatList(t *testing.T) {
	w := NewWorld(nil)
	m := cubeMesh(t, w, "cube")
	addSpreadInstances(t, w, m, 4, 100)
	residual, err := w.AddInstance(m, "residual", nil, 0)
	require.NoError(t, err)

	w.Rebuild(DefaultBuildOptions())
	assert.True(t, residual.OnFlatList())
	assert.Equal(t, []*Instance{residual}, w.FlatInstances())
}

func TestRebuildWithNoEligibleInstancesLeavesRootNil(t *testing.T) {
	w := NewWorld(nil)
	m := cubeMesh(t, w, "cube")
	_, err := w.AddInstance(m, "flat", nil, 0)
	require.NoError(t, err)

	w.Rebuild(DefaultBuildOptions())
	assert.Nil(t, w.BVHRoot())
}

func TestBVHRootBBoxCoversAllInstances(t *testing.T) {
	w := NewWorld(nil)
	m := cubeMesh(t, w, "cube")
	insts := addSpreadInstances(t, w, m, 6, 50)

	w.Rebuild(DefaultBuildOptions())
	root := w.BVHRoot()
	require.NotNil(t, root)

	want := insts[0].BBox
	for _, inst := range insts[1:] {
		want = want.Union(inst.BBox)
	}
	assert.Equal(t, want.Min, root.BBox.Min)
	assert.Equal(t, want.Max, root.BBox.Max)
}
