// Package render define o contrato que a geração da cidade consome do engine
// de render, mais a contabilidade de recursos comum às implementações.
//
// A implementação de janela (raylib) vive em render/gpu; Headless, neste
// pacote, serve aos testes e ao modo sem janela.
package render

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"RenderBench/viewer/internal/solids"
)

// Handles opacos. Zero nunca é um handle válido.
type (
	MeshHandle     uint64
	TextureHandle  uint64
	MaterialHandle uint64
	ObjectHandle   uint64
)

// MaterialParams descreve um material PBR simples.
type MaterialParams struct {
	Albedo    TextureHandle
	Normal    TextureHandle
	Metallic  float32
	Roughness float32
	AO        float32
}

// Engine é o subconjunto do renderizador usado pelos workers da cidade.
// As implementações devem aceitar chamadas de qualquer goroutine.
type Engine interface {
	AddMesh(m solids.Mesh) (MeshHandle, error)
	AddTexture(pixels []byte, width, height int, label string) (TextureHandle, error)
	AddMaterial(p MaterialParams) (MaterialHandle, error)
	AddObject(mesh MeshHandle, material MaterialHandle, transform mgl32.Mat4) (ObjectHandle, error)

	// RemoveObject libera o objeto junto com a malha e o material que ele possui.
	RemoveObject(h ObjectHandle)

	// ReleaseMesh e ReleaseMaterial liberam recursos que nunca chegaram a um objeto.
	ReleaseMesh(h MeshHandle)
	ReleaseMaterial(h MaterialHandle)

	// ReleaseTexture libera uma textura que nenhum material vivo usa.
	ReleaseTexture(h TextureHandle)
}

var (
	ErrUnknownHandle = errors.New("handle desconhecido")
	ErrHandleInUse   = errors.New("recurso já pertence a um objeto")
	ErrInvalidMesh   = errors.New("malha inválida")
	ErrInvalidImage  = errors.New("dimensões de textura inválidas")
)

// Stats conta os recursos vivos de um engine.
type Stats struct {
	Meshes    int
	Textures  int
	Materials int
	Objects   int
	Triangles int
}
