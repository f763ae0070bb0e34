// Package solids gera as primitivas de malha usadas pela cidade.
//
// Cada bloco é um cubo unitário escalado e deslocado dentro da própria malha.
// O deslocamento entra nos vértices (e não na transformação do objeto) para
// que o mapeamento planar de UV continue contínuo entre blocos vizinhos de
// uma mesma parede.
package solids

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh contém os buffers de um sólido, no formato plano que o renderizador sobe para a GPU.
type Mesh struct {
	Vertices []float32 // xyz por vértice
	Normals  []float32 // xyz por vértice
	UVs      []float32 // uv por vértice
	Indices  []uint16  // 3 por triângulo
}

// VertexCount retorna o número de vértices.
func (m Mesh) VertexCount() int { return len(m.Vertices) / 3 }

// TriangleCount retorna o número de triângulos.
func (m Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Vertex retorna a posição do vértice i.
func (m Mesh) Vertex(i int) mgl32.Vec3 {
	return mgl32.Vec3{m.Vertices[3*i], m.Vertices[3*i+1], m.Vertices[3*i+2]}
}

// Normal retorna a normal do vértice i.
func (m Mesh) Normal(i int) mgl32.Vec3 {
	return mgl32.Vec3{m.Normals[3*i], m.Normals[3*i+1], m.Normals[3*i+2]}
}

// UV retorna a coordenada de textura do vértice i.
func (m Mesh) UV(i int) mgl32.Vec2 {
	return mgl32.Vec2{m.UVs[2*i], m.UVs[2*i+1]}
}

// Clone cria uma cópia profunda dos buffers.
func (m Mesh) Clone() Mesh {
	return Mesh{
		Vertices: append([]float32(nil), m.Vertices...),
		Normals:  append([]float32(nil), m.Normals...),
		UVs:      append([]float32(nil), m.UVs...),
		Indices:  append([]uint16(nil), m.Indices...),
	}
}

// BuildCube cria a malha de um bloco: o cubo unitário multiplicado por scale
// e somado a offset. uvRepeat multiplica as UVs planares.
func BuildCube(scale, offset mgl32.Vec3, uvRepeat float32) Mesh {
	m := Mesh{
		Vertices: make([]float32, 0, 3*len(unitCubeVerts)),
		Normals:  make([]float32, 0, 3*len(unitCubeVerts)),
		UVs:      make([]float32, 0, 2*len(unitCubeVerts)),
		Indices:  make([]uint16, len(unitCubeIndices)),
	}
	for i, v := range unitCubeVerts {
		pos := mgl32.Vec3{scale[0] * v[0], scale[1] * v[1], scale[2] * v[2]}.Add(offset)
		n := unitCubeNormals[i]
		uv := planarUV(dominantAxis(n), pos, n).Mul(uvRepeat)

		m.Vertices = append(m.Vertices, pos[0], pos[1], pos[2])
		m.Normals = append(m.Normals, n[0], n[1], n[2])
		m.UVs = append(m.UVs, uv[0], uv[1])
	}
	copy(m.Indices, unitCubeIndices[:])
	return m
}

const (
	uvScaleFactor = 2.0  // espaço de vértice -0.5..0.5 para espaço de UV
	uvOffset      = 0.25 // UVs vivem em 0..1
)

// dominantAxis retorna o eixo de maior componente absoluta da normal.
// Empates vão para X, depois Y.
func dominantAxis(n mgl32.Vec3) int {
	ax, ay, az := abs32(n[0]), abs32(n[1]), abs32(n[2])
	switch {
	case ax >= ay && ax >= az:
		return 0
	case ay >= az:
		return 1
	default:
		return 2
	}
}

// planarUV projeta o vértice no plano perpendicular ao eixo dominante.
func planarUV(axis int, v, n mgl32.Vec3) mgl32.Vec2 {
	switch axis {
	case 0:
		return singleUV(v[2], v[1], n[0]) // normal em X: usa Z e Y
	case 1:
		return singleUV(v[0], v[2], n[1]) // normal em Y: usa X e Z
	default:
		return singleUV(v[0], v[1], -n[2]) // normal em Z: usa X e Y, invertido
	}
}

func singleUV(u, v, normal float32) mgl32.Vec2 {
	sign := float32(1.0)
	if math.Signbit(float64(normal)) {
		sign = -1.0
	}
	return mgl32.Vec2{u*sign + uvOffset, v + uvOffset}.Mul(uvScaleFactor)
}

func abs32(x float32) float32 {
	return float32(math.Abs(float64(x)))
}

// O cubo unitário. Sem vértices compartilhados nos cantos.
var unitCubeVerts = [24]mgl32.Vec3{
	// lado distante (0, 0, 1)
	{-0.5, -0.5, 0.5},
	{0.5, -0.5, 0.5},
	{0.5, 0.5, 0.5},
	{-0.5, 0.5, 0.5},
	// lado próximo (0, 0, -1)
	{-0.5, 0.5, -0.5},
	{0.5, 0.5, -0.5},
	{0.5, -0.5, -0.5},
	{-0.5, -0.5, -0.5},
	// direita (1, 0, 0)
	{0.5, -0.5, -0.5},
	{0.5, 0.5, -0.5},
	{0.5, 0.5, 0.5},
	{0.5, -0.5, 0.5},
	// esquerda (-1, 0, 0)
	{-0.5, -0.5, 0.5},
	{-0.5, 0.5, 0.5},
	{-0.5, 0.5, -0.5},
	{-0.5, -0.5, -0.5},
	// topo (0, 1, 0)
	{0.5, 0.5, -0.5},
	{-0.5, 0.5, -0.5},
	{-0.5, 0.5, 0.5},
	{0.5, 0.5, 0.5},
	// base (0, -1, 0)
	{0.5, -0.5, 0.5},
	{-0.5, -0.5, 0.5},
	{-0.5, -0.5, -0.5},
	{0.5, -0.5, -0.5},
}

var unitCubeNormals = [24]mgl32.Vec3{
	{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1},
	{0, 0, -1}, {0, 0, -1}, {0, 0, -1}, {0, 0, -1},
	{1, 0, 0}, {1, 0, 0}, {1, 0, 0}, {1, 0, 0},
	{-1, 0, 0}, {-1, 0, 0}, {-1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, 1, 0}, {0, 1, 0}, {0, 1, 0},
	{0, -1, 0}, {0, -1, 0}, {0, -1, 0}, {0, -1, 0},
}

// Os 12 triângulos, enrolamento mão esquerda.
var unitCubeIndices = [36]uint16{
	0, 1, 2, 2, 3, 0, // distante
	4, 5, 6, 6, 7, 4, // próximo
	8, 9, 10, 10, 11, 8, // direita
	12, 13, 14, 14, 15, 12, // esquerda
	16, 17, 18, 18, 19, 16, // topo
	20, 21, 22, 22, 23, 20, // base
}
