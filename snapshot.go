package scene

import (
	"encoding/binary"
	"io"
)

// SaveSnapshot writes every instance currently on the world's flat list and
// BVH to w in the binary format of spec §6: a little-endian int32 instance
// count, then per instance a length-prefixed mesh name, a length-prefixed
// instance name, the 16 row-major transform components, and the flags
// bitset. The BVH topology itself is never serialized.
func SaveSnapshot(world *World, w io.Writer) error {
	instances := world.FlatInstances()
	if world.bvhRoot != nil {
		instances = append(instances, bvhInstances(world.bvhRoot)...)
	}

	if err := binary.Write(w, binary.LittleEndian, int32(len(instances))); err != nil {
		return wrapf(ErrIoError, "snapshot: write instance count: %v", err)
	}

	for _, inst := range instances {
		if err := writeSnapshotString(w, inst.Mesh.Name); err != nil {
			return wrapf(ErrIoError, "snapshot: write mesh name: %v", err)
		}
		if err := writeSnapshotString(w, inst.Name); err != nil {
			return wrapf(ErrIoError, "snapshot: write instance name: %v", err)
		}
		tm := inst.Transform.ToArray16()
		if err := binary.Write(w, binary.LittleEndian, tm); err != nil {
			return wrapf(ErrIoError, "snapshot: write transform: %v", err)
		}
		if err := binary.Write(w, binary.LittleEndian, int32(inst.Flags)); err != nil {
			return wrapf(ErrIoError, "snapshot: write flags: %v", err)
		}
	}

	return nil
}

func writeSnapshotString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, int32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// bvhInstances collects every instance currently held by the tree, in no
// particular order; used only by SaveSnapshot, which does not distinguish
// flat-list membership from tree membership in the serialized form.
func bvhInstances(n *BVHNode) []*Instance {
	switch n.Kind {
	case BVHInst:
		return []*Instance{n.Inst}
	case BVHLeaf:
		return n.leafInstances()
	case BVHNodeShare:
		out := bvhInstances(n.Children[0])
		out = append(out, bvhInstances(n.Children[1])...)
		return append(out, n.leafInstances()...)
	default: // BVHNode2
		out := bvhInstances(n.Children[0])
		return append(out, bvhInstances(n.Children[1])...)
	}
}

// LoadSnapshot reads a binary world snapshot into world (spec §6). For each
// record, a mesh matching the recorded name is reused if one exists;
// otherwise an empty mesh with that name is created, expecting the caller
// to populate it from a PLY payload afterward. The BVH is never restored;
// callers must call Rebuild after a successful load. On truncation, the
// world is torn down (every mesh added so far is deleted) and ErrIoError is
// returned, matching the "partially built world is torn down" contract.
func LoadSnapshot(world *World, r io.Reader) error {
	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return wrapf(ErrIoError, "snapshot: read instance count: %v", err)
	}
	if count < 0 {
		return wrapf(ErrInvalidArgument, "snapshot: negative instance count")
	}

	created := make(map[string]*Mesh)

	fail := func(err error) error {
		for _, m := range created {
			world.DeleteMesh(m)
		}
		return wrapf(ErrIoError, "snapshot: %v", err)
	}

	for i := int32(0); i < count; i++ {
		meshName, err := readSnapshotString(r)
		if err != nil {
			return fail(err)
		}
		instName, err := readSnapshotString(r)
		if err != nil {
			return fail(err)
		}

		var tm [16]float64
		if err := binary.Read(r, binary.LittleEndian, &tm); err != nil {
			return fail(err)
		}
		var flags int32
		if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
			return fail(err)
		}

		mesh := world.FindMesh(meshName)
		if mesh == nil {
			mesh = world.AddMesh(meshName)
			created[meshName] = mesh
		}

		matrix := Matrix4FromArray16(tm)
		if _, err := world.AddInstance(mesh, instName, &matrix, InstanceFlags(flags)); err != nil {
			return fail(err)
		}
	}

	world.logger.Infow("snapshot loaded", "instances", count)
	return nil
}

func readSnapshotString(r io.Reader) (string, error) {
	var n int32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	if n < 0 {
		return "", wrapf(ErrMalformedMesh, "snapshot: negative string length")
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
