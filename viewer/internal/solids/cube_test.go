package solids

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestBuildCubeCounts(t *testing.T) {
	tests := []struct {
		name          string
		scale, offset mgl32.Vec3
		repeat        float32
	}{
		{"unit", mgl32.Vec3{1, 1, 1}, mgl32.Vec3{}, 1},
		{"column", mgl32.Vec3{0.2, 3, 0.2}, mgl32.Vec3{0.1, 1.5, 0}, 0.5},
		{"slab", mgl32.Vec3{12, 0.1, 8}, mgl32.Vec3{6, 0.045, 4}, 0.25},
		{"degenerate", mgl32.Vec3{0, 0, 0}, mgl32.Vec3{-3, 2, 1}, 2},
	}
	for _, tt := range tests {
		m := BuildCube(tt.scale, tt.offset, tt.repeat)
		if m.VertexCount() != 24 {
			t.Errorf("%s: VertexCount() = %d, want 24", tt.name, m.VertexCount())
		}
		if len(m.Normals) != 24*3 {
			t.Errorf("%s: normals = %d, want 24", tt.name, len(m.Normals)/3)
		}
		if len(m.UVs) != 24*2 {
			t.Errorf("%s: uvs = %d, want 24", tt.name, len(m.UVs)/2)
		}
		if len(m.Indices) != 36 || m.TriangleCount() != 12 {
			t.Errorf("%s: indices = %d, want 36", tt.name, len(m.Indices))
		}
		for _, idx := range m.Indices {
			if int(idx) >= m.VertexCount() {
				t.Fatalf("%s: index %d out of range", tt.name, idx)
			}
		}
	}
}

func TestBuildCubeFaceNormals(t *testing.T) {
	m := BuildCube(mgl32.Vec3{2, 3, 4}, mgl32.Vec3{1, 1, 1}, 1)
	for face := 0; face < 6; face++ {
		n := m.Normal(face * 4)
		if math.Abs(float64(n.Len())-1) > 1e-6 {
			t.Errorf("face %d: normal %v not unit length", face, n)
		}
		for k := 1; k < 4; k++ {
			if got := m.Normal(face*4 + k); got != n {
				t.Errorf("face %d vertex %d: normal %v, want %v", face, k, got, n)
			}
		}
	}
	// Cada triângulo pertence a uma única face.
	for tri := 0; tri < m.TriangleCount(); tri++ {
		a, b, c := m.Indices[3*tri], m.Indices[3*tri+1], m.Indices[3*tri+2]
		if a/4 != b/4 || b/4 != c/4 {
			t.Errorf("triangle %d spans faces: %d %d %d", tri, a, b, c)
		}
	}
}

func TestBuildCubeScaleOffset(t *testing.T) {
	scale := mgl32.Vec3{2, 4, 6}
	offset := mgl32.Vec3{10, -1, 3}
	m := BuildCube(scale, offset, 1)

	lo := m.Vertex(0)
	hi := m.Vertex(0)
	for i := 1; i < m.VertexCount(); i++ {
		v := m.Vertex(i)
		for k := 0; k < 3; k++ {
			if v[k] < lo[k] {
				lo[k] = v[k]
			}
			if v[k] > hi[k] {
				hi[k] = v[k]
			}
		}
	}
	for k := 0; k < 3; k++ {
		if hi[k]-lo[k] != scale[k] {
			t.Errorf("axis %d: extent %v, want %v", k, hi[k]-lo[k], scale[k])
		}
		if (hi[k]+lo[k])/2 != offset[k] {
			t.Errorf("axis %d: center %v, want %v", k, (hi[k]+lo[k])/2, offset[k])
		}
	}
}

func TestBuildCubeUVDeterministic(t *testing.T) {
	scale := mgl32.Vec3{0.2, 2.25, 3.8}
	offset := mgl32.Vec3{2.1, 1.125, 0.7}
	a := BuildCube(scale, offset, 0.5)
	b := BuildCube(scale, offset, 0.5)
	for i := range a.UVs {
		if math.Float32bits(a.UVs[i]) != math.Float32bits(b.UVs[i]) {
			t.Fatalf("uv[%d]: %v != %v", i, a.UVs[i], b.UVs[i])
		}
	}
}

func TestBuildCubeUVValues(t *testing.T) {
	m := BuildCube(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{}, 1)
	tests := []struct {
		vertex int
		want   mgl32.Vec2
	}{
		// lado distante, normal +Z: sinal invertido em u
		{0, mgl32.Vec2{1.5, -0.5}},
		{2, mgl32.Vec2{-0.5, 1.5}},
		// lado próximo, normal -Z
		{7, mgl32.Vec2{-0.5, -0.5}},
		// direita, normal +X: (z, y)
		{8, mgl32.Vec2{-0.5, -0.5}},
		{10, mgl32.Vec2{1.5, 1.5}},
		// esquerda, normal -X
		{12, mgl32.Vec2{-0.5, -0.5}},
		// topo, normal +Y: (x, z)
		{16, mgl32.Vec2{1.5, -0.5}},
		// base, normal -Y
		{20, mgl32.Vec2{-0.5, 1.5}},
	}
	for _, tt := range tests {
		if got := m.UV(tt.vertex); got != tt.want {
			t.Errorf("UV(%d) = %v, want %v", tt.vertex, got, tt.want)
		}
	}
}

func TestBuildCubeUVRepeat(t *testing.T) {
	base := BuildCube(mgl32.Vec3{3, 2, 1}, mgl32.Vec3{1, 0, 0}, 1)
	half := BuildCube(mgl32.Vec3{3, 2, 1}, mgl32.Vec3{1, 0, 0}, 0.5)
	for i := range base.UVs {
		if half.UVs[i] != base.UVs[i]*0.5 {
			t.Fatalf("uv[%d] = %v, want %v", i, half.UVs[i], base.UVs[i]*0.5)
		}
	}
}

func TestDominantAxisTieBreak(t *testing.T) {
	tests := []struct {
		n    mgl32.Vec3
		want int
	}{
		{mgl32.Vec3{1, 0, 0}, 0},
		{mgl32.Vec3{0, -1, 0}, 1},
		{mgl32.Vec3{0, 0, 1}, 2},
		{mgl32.Vec3{0.5, 0.5, 0.5}, 0},
		{mgl32.Vec3{0, 0.7, -0.7}, 1},
		{mgl32.Vec3{-0.6, 0.2, 0.6}, 0},
	}
	for _, tt := range tests {
		if got := dominantAxis(tt.n); got != tt.want {
			t.Errorf("dominantAxis(%v) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	m := BuildCube(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{}, 1)
	c := m.Clone()
	c.Vertices[0] = 99
	c.Indices[0] = 7
	if m.Vertices[0] == 99 || m.Indices[0] == 7 {
		t.Error("Clone() shares buffers with the original")
	}
}
