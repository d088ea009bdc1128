package chunk

// Vertex is one corner of a mesher-emitted quad.
type Vertex struct {
	PX, PY, PZ float32
	NX, NY, NZ float32
	U, V       float32
	Light      Light
}

// Mesh is the vertex/index pair produced by the mesher for one chunk.
// Quads are always emitted as four vertices with indices (0,2,1,1,2,3)
// so the two triangles wind consistently outward.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// AppendQuad appends four vertices and their six winding indices to the
// mesh, in the fixed (0,2,1,1,2,3) order.
func (m *Mesh) AppendQuad(v0, v1, v2, v3 Vertex) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, v0, v1, v2, v3)
	m.Indices = append(m.Indices,
		base+0, base+2, base+1,
		base+1, base+2, base+3,
	)
}
