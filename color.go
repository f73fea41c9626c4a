package scene

// Color is the 4-byte RGBA color carried by every vertex (spec §3: "4 bytes
// of RGBA"). NewColorRGB builds an opaque color from RGB alone; the PLY
// loader gives vertices without color properties OpaqueWhite.
type Color struct {
	R, G, B, A uint8
}

// OpaqueWhite is the default vertex color when none is supplied.
var OpaqueWhite = Color{255, 255, 255, 255}

// NewColorRGB builds an opaque color.
func NewColorRGB(r, g, b uint8) Color {
	return Color{r, g, b, 255}
}

// Bytes returns the color as its 4 wire bytes, in the order the mesh
// triangle-enumeration callback (spec §6) packs colors[12] for 3 vertices.
func (c Color) Bytes() [4]byte {
	return [4]byte{c.R, c.G, c.B, c.A}
}
