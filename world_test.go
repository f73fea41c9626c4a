package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cubeMesh adds a unit cube (8 verts, 12 triangles) to w, named name.
func cubeMesh(t *testing.T, w *World, name string) *Mesh {
	t.Helper()
	m := w.AddMesh(name)
	corners := [8]Vec3{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
	}
	v := make([]*Vertex, 8)
	for i, c := range corners {
		v[i] = m.AddVertex(c.X, c.Y, c.Z, OpaqueWhite)
	}
	quads := [6][4]int{
		{0, 1, 2, 3}, {4, 5, 6, 7}, {0, 1, 5, 4},
		{2, 3, 7, 6}, {1, 2, 6, 5}, {0, 3, 7, 4},
	}
	for _, q := range quads {
		m.AddTriangle(v[q[0]], v[q[1]], v[q[2]], 0)
		m.AddTriangle(v[q[0]], v[q[2]], v[q[3]], 0)
	}
	return m
}

func translation(x, y, z float64) Matrix4 {
	m := IdentityMatrix()
	m.M[3], m.M[7], m.M[11] = x, y, z
	return m
}

func TestAddMeshAppendsToList(t *testing.T) {
	w := NewWorld(nil)
	a := w.AddMesh("a")
	b := w.AddMesh("b")
	assert.Equal(t, 2, w.MeshCount())
	assert.Equal(t, []*Mesh{a, b}, w.Meshes())
	assert.Same(t, a, w.FindMesh("a"))
	assert.Nil(t, w.FindMesh("missing"))
}

func TestAddInstanceIdentityTransformSeedsBBoxFromMesh(t *testing.T) {
	w := NewWorld(nil)
	m := cubeMesh(t, w, "cube")
	inst, err := w.AddInstance(m, "i0", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, m.BBox(), inst.BBox)
	assert.True(t, inst.OnFlatList())
}

func TestAddInstanceRejectsMeshFromOtherWorld(t *testing.T) {
	w1 := NewWorld(nil)
	w2 := NewWorld(nil)
	m := cubeMesh(t, w1, "cube")
	_, err := w2.AddInstance(m, "i0", nil, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDeleteInstanceFromFlatList(t *testing.T) {
	w := NewWorld(nil)
	m := cubeMesh(t, w, "cube")
	inst, err := w.AddInstance(m, "i0", nil, 0)
	require.NoError(t, err)

	require.NoError(t, w.DeleteInstance(inst))
	assert.Equal(t, 0, w.InstanceCount())
	assert.Empty(t, w.FlatInstances())
	assert.Empty(t, m.shareList())
}

func TestDeleteMeshCascadesToInstances(t *testing.T) {
	w := NewWorld(nil)
	m := cubeMesh(t, w, "cube")
	_, err := w.AddInstance(m, "i0", nil, 0)
	require.NoError(t, err)
	_, err = w.AddInstance(m, "i1", nil, 0)
	require.NoError(t, err)

	require.NoError(t, w.DeleteMesh(m))
	assert.Equal(t, 0, w.MeshCount())
	assert.Equal(t, 0, w.InstanceCount())
}

func TestDeleteInstanceFromBVHLeaf(t *testing.T) {
	w := NewWorld(nil)
	m := cubeMesh(t, w, "cube")

	var insts []*Instance
	for i := 0; i < 4; i++ {
		tm := translation(float64(i)*10, 0, 0)
		inst, err := w.AddInstance(m, "i", &tm, FlagUseTree)
		require.NoError(t, err)
		insts = append(insts, inst)
	}
	w.Rebuild(DefaultBuildOptions())
	require.NotNil(t, w.BVHRoot())

	victim := insts[1]
	assert.False(t, victim.OnFlatList())
	require.NoError(t, w.DeleteInstance(victim))
	assert.Equal(t, 3, w.InstanceCount())
}

func TestDeleteInstanceFromSingletonRoot(t *testing.T) {
	w := NewWorld(nil)
	m := cubeMesh(t, w, "cube")
	inst, err := w.AddInstance(m, "only", nil, FlagUseTree)
	require.NoError(t, err)

	w.Rebuild(DefaultBuildOptions())
	require.NotNil(t, w.BVHRoot())
	assert.Equal(t, BVHInst, w.BVHRoot().Kind)

	require.NoError(t, w.DeleteInstance(inst))
	assert.Nil(t, w.BVHRoot())
	assert.Equal(t, 0, w.InstanceCount())
}
