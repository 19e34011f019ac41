package math

// GeometryGenerateNormals assigns each triangle's face normal to its three
// vertices. Vertices are expected to be unshared (three per triangle) when
// faceted shading is wanted.
func GeometryGenerateNormals(vertices []Vertex3D) {
	for i := 0; i+2 < len(vertices); i += 3 {
		edge1 := vertices[i+1].Position.Sub(vertices[i].Position)
		edge2 := vertices[i+2].Position.Sub(vertices[i].Position)

		normal := edge1.Cross(edge2).Normalize()

		vertices[i+0].Normal = normal
		vertices[i+1].Normal = normal
		vertices[i+2].Normal = normal
	}
}

// GeometryExtents returns the axis-aligned bounds of the given vertices.
func GeometryExtents(vertices []Vertex3D) Extents3D {
	if len(vertices) == 0 {
		return Extents3D{}
	}
	ext := Extents3D{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		ext.Min = ext.Min.Min(v.Position)
		ext.Max = ext.Max.Max(v.Position)
	}
	return ext
}

func (e Extents3D) Center() Vec3 {
	return e.Min.Add(e.Max).MulScalar(0.5)
}

func (e Extents3D) Size() Vec3 {
	return e.Max.Sub(e.Min)
}
