package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRayPickHitsSingleCube(t *testing.T) {
	w := NewWorld(nil)
	m := cubeMesh(t, w, "cube")
	inst, err := w.AddInstance(m, "cube0", nil, FlagUseTree)
	require.NoError(t, err)
	w.Rebuild(DefaultBuildOptions())

	hitInst, hit, ok := w.RayPick(Vec3{X: 0.5, Y: 0.5, Z: -5}, Vec3{X: 0, Y: 0, Z: 1})
	require.True(t, ok)
	assert.Same(t, inst, hitInst)
	// The ray crosses the bottom (z=0) and top (z=1) faces; the greater z wins.
	assert.InDelta(t, 1.0, hit.Z, 1e-9)
}

func TestRayPickMissesWhenOffTarget(t *testing.T) {
	w := NewWorld(nil)
	m := cubeMesh(t, w, "cube")
	_, err := w.AddInstance(m, "cube0", nil, FlagUseTree)
	require.NoError(t, err)
	w.Rebuild(DefaultBuildOptions())

	_, _, ok := w.RayPick(Vec3{X: 50, Y: 50, Z: -5}, Vec3{X: 0, Y: 0, Z: 1})
	assert.False(t, ok)
}

func TestRayPickForemostHitPrefersGreaterZ(t *testing.T) {
	w := NewWorld(nil)
	m := cubeMesh(t, w, "cube")

	lowTM := IdentityMatrix()
	_, err := w.AddInstance(m, "low", &lowTM, FlagUseTree)
	require.NoError(t, err)

	highTM := translation(0, 0, 10)
	high, err := w.AddInstance(m, "high", &highTM, FlagUseTree)
	require.NoError(t, err)

	w.Rebuild(DefaultBuildOptions())

	hitInst, hit, ok := w.RayPick(Vec3{X: 0.5, Y: 0.5, Z: -100}, Vec3{X: 0, Y: 0, Z: 1})
	require.True(t, ok)
	assert.Same(t, high, hitInst)
	assert.InDelta(t, 11.0, hit.Z, 1e-9)
}

func TestRayPickTestsResidualFlatList(t *testing.T) {
	w := NewWorld(nil)
	m := cubeMesh(t, w, "cube")
	inst, err := w.AddInstance(m, "flat", nil, 0)
	require.NoError(t, err)

	hitInst, _, ok := w.RayPick(Vec3{X: 0.5, Y: 0.5, Z: -5}, Vec3{X: 0, Y: 0, Z: 1})
	require.True(t, ok)
	assert.Same(t, inst, hitInst)
}

func TestRayPickPanicsOnNegativeZDirection(t *testing.T) {
	w := NewWorld(nil)
	assert.Panics(t, func() {
		w.RayPick(Vec3{}, Vec3{X: 0, Y: 0, Z: -1})
	})
}

func TestRayPickAllFourOctants(t *testing.T) {
	w := NewWorld(nil)
	m := cubeMesh(t, w, "cube")
	inst, err := w.AddInstance(m, "cube0", nil, FlagUseTree)
	require.NoError(t, err)
	w.Rebuild(DefaultBuildOptions())

	dirs := []Vec3{
		{X: 0.01, Y: 0.01, Z: 1},
		{X: -0.01, Y: 0.01, Z: 1},
		{X: 0.01, Y: -0.01, Z: 1},
		{X: -0.01, Y: -0.01, Z: 1},
	}
	for _, d := range dirs {
		hitInst, _, ok := w.RayPick(Vec3{X: 0.5, Y: 0.5, Z: -5}, d)
		require.True(t, ok)
		assert.Same(t, inst, hitInst)
	}
}
