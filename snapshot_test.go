package scene

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveThenLoadSnapshotRoundTrips(t *testing.T) {
	w := NewWorld(nil)
	m := w.AddMesh("cube")
	require.NoError(t, LoadPLY(m, strings.NewReader(plyNoColor)))

	tm := translation(1, 2, 3)
	_, err := w.AddInstance(m, "i0", &tm, FlagUseTree)
	require.NoError(t, err)
	_, err = w.AddInstance(m, "i1", nil, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, SaveSnapshot(w, &buf))

	w2 := NewWorld(nil)
	require.NoError(t, LoadSnapshot(w2, &buf))

	assert.Equal(t, 2, w2.InstanceCount())
	assert.Equal(t, 1, w2.MeshCount())
	mesh2 := w2.FindMesh("cube")
	require.NotNil(t, mesh2)
	assert.Equal(t, 0, mesh2.VertexCount(), "snapshot never serializes mesh geometry, only the instance list")
}

func TestLoadSnapshotCreatesEmptyMeshWhenMissing(t *testing.T) {
	w := NewWorld(nil)
	m := w.AddMesh("terrain")
	_, err := w.AddInstance(m, "tile0", nil, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, SaveSnapshot(w, &buf))

	w2 := NewWorld(nil)
	require.NoError(t, LoadSnapshot(w2, &buf))
	mesh2 := w2.FindMesh("terrain")
	require.NotNil(t, mesh2)
	assert.Equal(t, 0, mesh2.VertexCount())
}

func TestLoadSnapshotTornDownOnTruncation(t *testing.T) {
	w := NewWorld(nil)
	m := w.AddMesh("cube")
	_, err := w.AddInstance(m, "i0", nil, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, SaveSnapshot(w, &buf))
	truncated := buf.Bytes()[:buf.Len()-4]

	w2 := NewWorld(nil)
	err = LoadSnapshot(w2, bytes.NewReader(truncated))
	assert.ErrorIs(t, err, ErrIoError)
	assert.Equal(t, 0, w2.MeshCount())
}

func TestLoadSnapshotDoesNotRebuildBVH(t *testing.T) {
	w := NewWorld(nil)
	m := w.AddMesh("cube")
	_, err := w.AddInstance(m, "i0", nil, FlagUseTree)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, SaveSnapshot(w, &buf))

	w2 := NewWorld(nil)
	require.NoError(t, LoadSnapshot(w2, &buf))
	assert.Nil(t, w2.BVHRoot())
}
