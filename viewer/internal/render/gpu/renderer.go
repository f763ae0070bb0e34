// Package gpu implementa render.Engine sobre raylib.
//
// Toda chamada GL acontece no thread de render. Os workers só registram
// o recurso no Ledger (que devolve o handle na hora) e enfileiram a operação;
// ProcessPending executa a fila a cada quadro dentro de um orçamento de tempo.
package gpu

/*
#include <stdlib.h>
*/
import "C"

import (
	"log"
	"sync"
	"time"
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/go-gl/mathgl/mgl32"

	"RenderBench/shared/util"
	"RenderBench/viewer/internal/render"
	"RenderBench/viewer/internal/solids"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type opKind int

const (
	opMesh opKind = iota
	opTexture
	opMaterial
	opObject
	opRemoveObject
	opReleaseMesh
	opReleaseMaterial
	opReleaseTexture
)

// op é uma operação GL pendente. Só os campos do tipo correspondente são usados.
type op struct {
	kind opKind

	mesh     render.MeshHandle
	texture  render.TextureHandle
	material render.MaterialHandle
	object   render.ObjectHandle

	geometry  solids.Mesh
	pixels    []byte
	width     int
	height    int
	params    render.MaterialParams
	transform mgl32.Mat4
}

// matKey identifica um material GL compartilhado.
type matKey struct {
	albedo, normal render.TextureHandle
	metallic       float32
	roughness      float32
	ao             float32
}

type drawItem struct {
	mesh      rl.Mesh
	key       matKey
	transform rl.Matrix
}

// Renderer é o engine raylib da cidade.
type Renderer struct {
	ledger  *render.Ledger
	pending *util.ThreadSafeQueue[op]

	// Estado GL: só o thread de render escreve; mu protege as leituras de Stats.
	mu        sync.RWMutex
	meshes    map[render.MeshHandle]rl.Mesh
	textures  map[render.TextureHandle]rl.Texture2D
	materials map[render.MaterialHandle]matKey
	shared    map[matKey]rl.Material
	objects   map[render.ObjectHandle]drawItem
	gpuBytes  uint64

	shader     rl.Shader
	viewPosLoc int32
	lightLoc   int32
	light      mgl32.Vec3
}

// NewRenderer compila o shader da cidade. Precisa de uma janela aberta.
func NewRenderer(lightDir mgl32.Vec3) *Renderer {
	r := &Renderer{
		ledger:    render.NewLedger(),
		pending:   util.NewThreadSafeQueue[op](),
		meshes:    make(map[render.MeshHandle]rl.Mesh),
		textures:  make(map[render.TextureHandle]rl.Texture2D),
		materials: make(map[render.MaterialHandle]matKey),
		shared:    make(map[matKey]rl.Material),
		objects:   make(map[render.ObjectHandle]drawItem),
		light:     lightDir.Normalize(),
	}

	if rl.IsWindowReady() {
		r.shader = rl.LoadShaderFromMemory(cityVertexShader, cityFragmentShader)
		r.viewPosLoc = rl.GetShaderLocation(r.shader, "viewPos")
		r.lightLoc = rl.GetShaderLocation(r.shader, "lightDir")
		r.setLight()
		log.Printf("[Renderer] Shader da cidade carregado (id=%d)", r.shader.ID)
	} else {
		log.Printf("[Renderer] AVISO: janela não pronta, shader não carregado")
	}
	return r
}

func (r *Renderer) setLight() {
	if r.shader.ID == 0 {
		return
	}
	rl.SetShaderValue(r.shader, r.lightLoc, []float32{r.light[0], r.light[1], r.light[2]}, rl.ShaderUniformVec3)
}

// --- render.Engine: chamado de qualquer goroutine ---

func (r *Renderer) AddMesh(m solids.Mesh) (render.MeshHandle, error) {
	h, err := r.ledger.NewMesh(m)
	if err != nil {
		return 0, err
	}
	r.pending.Push(op{kind: opMesh, mesh: h, geometry: m})
	return h, nil
}

func (r *Renderer) AddTexture(pixels []byte, width, height int, label string) (render.TextureHandle, error) {
	h, err := r.ledger.NewTexture(pixels, width, height, label)
	if err != nil {
		return 0, err
	}
	r.pending.Push(op{kind: opTexture, texture: h, pixels: pixels, width: width, height: height})
	return h, nil
}

func (r *Renderer) AddMaterial(p render.MaterialParams) (render.MaterialHandle, error) {
	h, err := r.ledger.NewMaterial(p)
	if err != nil {
		return 0, err
	}
	r.pending.Push(op{kind: opMaterial, material: h, params: p})
	return h, nil
}

func (r *Renderer) AddObject(mesh render.MeshHandle, material render.MaterialHandle, transform mgl32.Mat4) (render.ObjectHandle, error) {
	h, err := r.ledger.NewObject(mesh, material, transform)
	if err != nil {
		return 0, err
	}
	r.pending.Push(op{kind: opObject, object: h, mesh: mesh, material: material, transform: transform})
	return h, nil
}

func (r *Renderer) RemoveObject(h render.ObjectHandle) {
	obj, ok := r.ledger.RemoveObject(h)
	if !ok {
		return
	}
	r.pending.Push(op{kind: opRemoveObject, object: h, mesh: obj.Mesh, material: obj.Material})
}

func (r *Renderer) ReleaseMesh(h render.MeshHandle) {
	if r.ledger.ReleaseMesh(h) {
		r.pending.Push(op{kind: opReleaseMesh, mesh: h})
	}
}

func (r *Renderer) ReleaseMaterial(h render.MaterialHandle) {
	if r.ledger.ReleaseMaterial(h) {
		r.pending.Push(op{kind: opReleaseMaterial, material: h})
	}
}

func (r *Renderer) ReleaseTexture(h render.TextureHandle) {
	if r.ledger.ReleaseTexture(h) {
		r.pending.Push(op{kind: opReleaseTexture, texture: h})
	}
}

// Stats retorna a contagem do lado lógico (handles já aceitos).
func (r *Renderer) Stats() render.Stats { return r.ledger.Stats() }

// Pending retorna quantas operações GL aguardam o thread de render.
func (r *Renderer) Pending() int { return r.pending.Len() }

// GPUBytes retorna uma estimativa da memória de vértices e texturas na GPU.
func (r *Renderer) GPUBytes() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gpuBytes
}

// --- thread de render ---

// ProcessPending executa operações enfileiradas até esgotar a fila ou o orçamento.
// A fila é FIFO, então a criação de um recurso sempre precede a sua remoção.
func (r *Renderer) ProcessPending(budget time.Duration) int {
	start := time.Now()
	done := 0
	for time.Since(start) < budget {
		o, ok := r.pending.Pop()
		if !ok {
			break
		}
		r.apply(o)
		done++
	}
	return done
}

func (r *Renderer) apply(o op) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch o.kind {
	case opMesh:
		mesh := r.geometryToMesh(o.geometry)
		rl.UploadMesh(&mesh, false)
		r.meshes[o.mesh] = mesh
		r.gpuBytes += meshBytes(o.geometry)

	case opTexture:
		img := rl.NewImage(o.pixels, int32(o.width), int32(o.height), 1, rl.UncompressedR8g8b8a8)
		tex := rl.LoadTextureFromImage(img)
		rl.GenTextureMipmaps(&tex)
		rl.SetTextureFilter(tex, rl.FilterTrilinear)
		rl.SetTextureWrap(tex, rl.WrapRepeat)
		r.textures[o.texture] = tex
		r.gpuBytes += uint64(len(o.pixels))
		log.Printf("[Renderer] Textura %d enviada (%dx%d, %s)", o.texture, o.width, o.height, humanize.Bytes(uint64(len(o.pixels))))

	case opMaterial:
		key := matKey{
			albedo:    o.params.Albedo,
			normal:    o.params.Normal,
			metallic:  o.params.Metallic,
			roughness: o.params.Roughness,
			ao:        o.params.AO,
		}
		if _, ok := r.shared[key]; !ok {
			r.shared[key] = r.newMaterial(key)
		}
		r.materials[o.material] = key

	case opObject:
		r.objects[o.object] = drawItem{
			mesh:      r.meshes[o.mesh],
			key:       r.materials[o.material],
			transform: toMatrix(o.transform),
		}

	case opRemoveObject:
		delete(r.objects, o.object)
		r.unloadMesh(o.mesh)
		delete(r.materials, o.material)

	case opReleaseMesh:
		r.unloadMesh(o.mesh)

	case opReleaseMaterial:
		delete(r.materials, o.material)

	case opReleaseTexture:
		// O Ledger só libera texturas sem material vivo; um rl.Material compartilhado
		// que ainda a cite não tem mais objetos para desenhar.
		if tex, ok := r.textures[o.texture]; ok {
			r.gpuBytes -= uint64(tex.Width) * uint64(tex.Height) * 4
			rl.UnloadTexture(tex)
			delete(r.textures, o.texture)
		}
	}
}

// newMaterial cria o material GL de um par albedo/normal. Os materiais ficam
// vivos até Unload: são poucos (um por textura da cidade) e compartilhados.
func (r *Renderer) newMaterial(key matKey) rl.Material {
	mat := rl.LoadMaterialDefault()
	if r.shader.ID != 0 {
		mat.Shader = r.shader
	}
	rl.SetMaterialTexture(&mat, rl.MapAlbedo, r.textures[key.albedo])
	rl.SetMaterialTexture(&mat, rl.MapNormal, r.textures[key.normal])
	mat.Params = [4]float32{key.metallic, key.roughness, key.ao, 0}
	return mat
}

func (r *Renderer) unloadMesh(h render.MeshHandle) {
	mesh, ok := r.meshes[h]
	if !ok {
		return
	}
	r.gpuBytes -= uint64(mesh.VertexCount)*vertexBytes + uint64(mesh.TriangleCount)*3*2
	// UnloadMesh também libera os buffers C alocados em geometryToMesh.
	rl.UnloadMesh(&mesh)
	delete(r.meshes, h)
}

// Draw desenha todos os objetos vivos. Deve ser chamado entre BeginMode3D e EndMode3D.
func (r *Renderer) Draw(camera rl.Camera3D) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.shader.ID != 0 {
		pos := camera.Position
		rl.SetShaderValue(r.shader, r.viewPosLoc, []float32{pos.X, pos.Y, pos.Z}, rl.ShaderUniformVec3)
	}
	drawn := 0
	for _, it := range r.objects {
		mat, ok := r.shared[it.key]
		if !ok {
			continue
		}
		rl.DrawMesh(it.mesh, mat, it.transform)
		drawn++
	}
	return drawn
}

// Unload libera todos os recursos GL restantes. Deve rodar no thread de render,
// depois que os workers pararam e a fila foi esvaziada.
func (r *Renderer) Unload() {
	for _, o := range r.pending.Drain() {
		r.apply(o)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for h, mesh := range r.meshes {
		rl.UnloadMesh(&mesh)
		delete(r.meshes, h)
	}
	for key, mat := range r.shared {
		// UnloadMaterial descarregaria as texturas compartilhadas; só o array de mapas é nosso.
		C.free(unsafe.Pointer(mat.Maps))
		delete(r.shared, key)
	}
	for h, tex := range r.textures {
		rl.UnloadTexture(tex)
		delete(r.textures, h)
	}
	r.objects = make(map[render.ObjectHandle]drawItem)
	r.materials = make(map[render.MaterialHandle]matKey)
	r.gpuBytes = 0
	if r.shader.ID != 0 {
		rl.UnloadShader(r.shader)
		r.shader = rl.Shader{}
	}
	log.Printf("[Renderer] Recursos GPU liberados")
}

const vertexBytes = (3 + 3 + 2) * 4

func meshBytes(m solids.Mesh) uint64 {
	return uint64(m.VertexCount())*vertexBytes + uint64(len(m.Indices))*2
}

func (r *Renderer) geometryToMesh(data solids.Mesh) rl.Mesh {
	var mesh rl.Mesh
	mesh.VertexCount = int32(data.VertexCount())
	mesh.TriangleCount = int32(data.TriangleCount())

	if len(data.Vertices) > 0 {
		mesh.Vertices = (*float32)(copyToC(unsafe.Pointer(&data.Vertices[0]), len(data.Vertices)*4))
	}
	if len(data.Normals) > 0 {
		mesh.Normals = (*float32)(copyToC(unsafe.Pointer(&data.Normals[0]), len(data.Normals)*4))
	}
	if len(data.UVs) > 0 {
		mesh.Texcoords = (*float32)(copyToC(unsafe.Pointer(&data.UVs[0]), len(data.UVs)*4))
	}
	if len(data.Indices) > 0 {
		mesh.Indices = (*uint16)(copyToC(unsafe.Pointer(&data.Indices[0]), len(data.Indices)*2))
	}
	return mesh
}

func copyToC(data unsafe.Pointer, size int) unsafe.Pointer {
	if size <= 0 || data == nil {
		return nil
	}
	ptr := C.malloc(C.size_t(size))
	if ptr == nil {
		return nil
	}
	copy(unsafe.Slice((*byte)(ptr), size), unsafe.Slice((*byte)(data), size))
	return ptr
}

// toMatrix converte uma Mat4 (coluna-maior) para rl.Matrix, que tem o mesmo layout em memória.
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}
