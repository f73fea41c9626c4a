package scene

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// plyLineReader yields non-blank, non-comment PLY lines with one line of
// pushback, the only lookahead this grammar ever needs (deciding whether
// vertex color properties are present before the `element face` line).
type plyLineReader struct {
	scanner *bufio.Scanner
	lineNum int
	pending string
	hasPending bool
}

func newPlyLineReader(r io.Reader) *plyLineReader {
	return &plyLineReader{scanner: bufio.NewScanner(r)}
}

func (r *plyLineReader) next() (string, bool) {
	if r.hasPending {
		r.hasPending = false
		return r.pending, true
	}
	for r.scanner.Scan() {
		r.lineNum++
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" || strings.HasPrefix(line, "comment") {
			continue
		}
		return line, true
	}
	return "", false
}

func (r *plyLineReader) pushBack(line string) {
	r.pending = line
	r.hasPending = true
}

// LoadPLY populates mesh from an ASCII PLY 1.0 stream (spec §6). The
// accepted grammar is narrow and exact: exactly two element declarations,
// `element vertex N` then `element face M`; vertex properties are either
// {x,y,z} or {x,y,z,red,green,blue,alpha}; every face must be a triangle.
// `comment` lines are ignored anywhere except before `ply`/`format`. On any
// grammar violation the partially built mesh is discarded and
// ErrMalformedMesh is returned (spec §7), matching the teacher's
// line-numbered bufio.Scanner idiom in obj_loader.go.
func LoadPLY(mesh *Mesh, r io.Reader) error {
	lr := newPlyLineReader(r)

	fail := func(reason string) error {
		mesh.delete()
		return wrapf(ErrMalformedMesh, "ply: line %d: %s", lr.lineNum, reason)
	}

	// `ply` and `format` are read without lr.next's comment skipping, so a
	// comment line ahead of either one is rejected.
	headerLine := func() (string, bool) {
		for lr.scanner.Scan() {
			lr.lineNum++
			if line := strings.TrimSpace(lr.scanner.Text()); line != "" {
				return line, true
			}
		}
		return "", false
	}

	line, ok := headerLine()
	if !ok || line != "ply" {
		return fail("expected 'ply' magic header")
	}

	line, ok = headerLine()
	if !ok || !strings.HasPrefix(line, "format ascii") {
		return fail("expected 'format ascii 1.0'")
	}

	line, ok = lr.next()
	if !ok {
		return fail("expected 'element vertex N'")
	}
	vertexCount, err := parsePlyElement(line, "vertex")
	if err != nil {
		return fail(err.Error())
	}

	hasColor, err := readVertexProperties(lr)
	if err != nil {
		return fail(err.Error())
	}

	line, ok = lr.next()
	if !ok {
		return fail("expected 'element face N'")
	}
	faceCount, err := parsePlyElement(line, "face")
	if err != nil {
		return fail(err.Error())
	}

	line, ok = lr.next()
	if !ok || line != "property list uchar uint vertex_indices" {
		return fail("expected 'property list uchar uint vertex_indices'")
	}

	line, ok = lr.next()
	if !ok || line != "end_header" {
		return fail("expected 'end_header'")
	}

	verts := make([]*Vertex, 0, vertexCount)
	for i := 0; i < vertexCount; i++ {
		line, ok = lr.next()
		if !ok {
			return fail("truncated vertex list")
		}
		v, err := parsePlyVertex(mesh, line, hasColor)
		if err != nil {
			return fail(err.Error())
		}
		verts = append(verts, v)
	}

	for i := 0; i < faceCount; i++ {
		line, ok = lr.next()
		if !ok {
			return fail("truncated face list")
		}
		if err := parsePlyFace(mesh, line, verts); err != nil {
			return fail(err.Error())
		}
	}

	return nil
}

func parsePlyElement(line, want string) (int, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 || fields[0] != "element" || fields[1] != want {
		return 0, wrapf(ErrMalformedMesh, "expected 'element %s N'", want)
	}
	n, err := strconv.Atoi(fields[2])
	if err != nil || n < 0 {
		return 0, wrapf(ErrMalformedMesh, "invalid element count %q", fields[2])
	}
	return n, nil
}

// readVertexProperties accepts exactly one of the two allowed property
// layouts: {x,y,z} or {x,y,z,red,green,blue,alpha}. For the {x,y,z} layout
// it has already read the following `element face` line while looking for
// color properties, so it pushes that line back onto lr for the caller.
func readVertexProperties(lr *plyLineReader) (hasColor bool, err error) {
	plain := []string{"property float x", "property float y", "property float z"}
	colorExtra := []string{"property uchar red", "property uchar green", "property uchar blue", "property uchar alpha"}

	for _, want := range plain {
		line, ok := lr.next()
		if !ok || line != want {
			return false, wrapf(ErrMalformedMesh, "expected %q", want)
		}
	}

	line, ok := lr.next()
	if !ok {
		return false, wrapf(ErrMalformedMesh, "expected 'element face N' or color properties")
	}
	if strings.HasPrefix(line, "element face") {
		lr.pushBack(line)
		return false, nil
	}
	if line != colorExtra[0] {
		return false, wrapf(ErrMalformedMesh, "expected %q or 'element face N'", colorExtra[0])
	}
	for _, want := range colorExtra[1:] {
		line, ok := lr.next()
		if !ok || line != want {
			return false, wrapf(ErrMalformedMesh, "expected %q", want)
		}
	}
	return true, nil
}

func parsePlyVertex(mesh *Mesh, line string, hasColor bool) (*Vertex, error) {
	fields := strings.Fields(line)
	want := 3
	if hasColor {
		want = 7
	}
	if len(fields) != want {
		return nil, wrapf(ErrMalformedMesh, "expected %d vertex fields, got %d", want, len(fields))
	}

	x, err1 := strconv.ParseFloat(fields[0], 64)
	y, err2 := strconv.ParseFloat(fields[1], 64)
	z, err3 := strconv.ParseFloat(fields[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return nil, wrapf(ErrMalformedMesh, "invalid vertex coordinates %q", line)
	}

	c := OpaqueWhite
	if hasColor {
		r, err1 := strconv.Atoi(fields[3])
		g, err2 := strconv.Atoi(fields[4])
		b, err3 := strconv.Atoi(fields[5])
		a, err4 := strconv.Atoi(fields[6])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			return nil, wrapf(ErrMalformedMesh, "invalid vertex color %q", line)
		}
		c = Color{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}
	}

	return mesh.AddVertex(x, y, z, c), nil
}

func parsePlyFace(mesh *Mesh, line string, verts []*Vertex) error {
	fields := strings.Fields(line)
	if len(fields) < 1 {
		return wrapf(ErrMalformedMesh, "empty face line")
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n != 3 {
		return wrapf(ErrMalformedMesh, "face must be a triangle, got count %q", fields[0])
	}
	if len(fields) != 4 {
		return wrapf(ErrMalformedMesh, "expected 3 face indices, got %d", len(fields)-1)
	}

	var idx [3]int
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(fields[i+1])
		if err != nil || v < 0 || v >= len(verts) {
			return wrapf(ErrMalformedMesh, "face vertex index %q out of range", fields[i+1])
		}
		idx[i] = v
	}
	if idx[0] == idx[1] || idx[1] == idx[2] || idx[0] == idx[2] {
		return wrapf(ErrMalformedMesh, "degenerate triangle: repeated vertex index")
	}

	mesh.AddTriangle(verts[idx[0]], verts[idx[1]], verts[idx[2]], 0)
	return nil
}
