package render

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"RenderBench/viewer/internal/solids"
)

// Object é um objeto registrado: cada objeto possui a sua malha e o seu material.
type Object struct {
	Mesh      MeshHandle
	Material  MaterialHandle
	Transform mgl32.Mat4
}

type meshEntry struct {
	triangles int
	owned     bool
}

type materialEntry struct {
	params MaterialParams
	owned  bool
}

type textureEntry struct {
	width, height int
	label         string
}

// Ledger valida e contabiliza os recursos de um engine, sem tocar na GPU.
// Tanto Headless quanto o renderizador raylib delegam a ele a alocação de handles,
// então um handle aceito aqui é sempre válido do lado da GPU.
type Ledger struct {
	next atomic.Uint64

	mu        sync.RWMutex
	meshes    map[MeshHandle]meshEntry
	textures  map[TextureHandle]textureEntry
	materials map[MaterialHandle]materialEntry
	objects   map[ObjectHandle]Object
	triangles int
}

// NewLedger cria um ledger vazio.
func NewLedger() *Ledger {
	return &Ledger{
		meshes:    make(map[MeshHandle]meshEntry),
		textures:  make(map[TextureHandle]textureEntry),
		materials: make(map[MaterialHandle]materialEntry),
		objects:   make(map[ObjectHandle]Object),
	}
}

func (l *Ledger) alloc() uint64 { return l.next.Add(1) }

// ValidateMesh confere tamanhos de buffers e índices.
func ValidateMesh(m solids.Mesh) error {
	n := m.VertexCount()
	switch {
	case n == 0 || len(m.Vertices)%3 != 0:
		return fmt.Errorf("%w: %d floats de posição", ErrInvalidMesh, len(m.Vertices))
	case n > math.MaxUint16+1:
		return fmt.Errorf("%w: %d vértices excedem índices de 16 bits", ErrInvalidMesh, n)
	case len(m.Normals) != 3*n || len(m.UVs) != 2*n:
		return fmt.Errorf("%w: normais=%d uvs=%d para %d vértices", ErrInvalidMesh, len(m.Normals)/3, len(m.UVs)/2, n)
	case len(m.Indices) == 0 || len(m.Indices)%3 != 0:
		return fmt.Errorf("%w: %d índices", ErrInvalidMesh, len(m.Indices))
	}
	for _, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: índice %d fora de [0,%d)", ErrInvalidMesh, idx, n)
		}
	}
	return nil
}

// NewMesh registra uma malha.
func (l *Ledger) NewMesh(m solids.Mesh) (MeshHandle, error) {
	if err := ValidateMesh(m); err != nil {
		return 0, err
	}
	h := MeshHandle(l.alloc())
	l.mu.Lock()
	l.meshes[h] = meshEntry{triangles: m.TriangleCount()}
	l.mu.Unlock()
	return h, nil
}

// NewTexture registra uma textura RGBA8.
func (l *Ledger) NewTexture(pixels []byte, width, height int, label string) (TextureHandle, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return 0, fmt.Errorf("%w: %s %dx%d com %d bytes", ErrInvalidImage, label, width, height, len(pixels))
	}
	h := TextureHandle(l.alloc())
	l.mu.Lock()
	l.textures[h] = textureEntry{width: width, height: height, label: label}
	l.mu.Unlock()
	return h, nil
}

// NewMaterial registra um material sobre duas texturas já registradas.
func (l *Ledger) NewMaterial(p MaterialParams) (MaterialHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.textures[p.Albedo]; !ok {
		return 0, fmt.Errorf("albedo %d: %w", p.Albedo, ErrUnknownHandle)
	}
	if _, ok := l.textures[p.Normal]; !ok {
		return 0, fmt.Errorf("normal %d: %w", p.Normal, ErrUnknownHandle)
	}
	h := MaterialHandle(l.alloc())
	l.materials[h] = materialEntry{params: p}
	return h, nil
}

// NewObject liga malha e material a um objeto. Os dois passam a pertencer ao objeto.
func (l *Ledger) NewObject(mesh MeshHandle, material MaterialHandle, transform mgl32.Mat4) (ObjectHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	me, ok := l.meshes[mesh]
	if !ok {
		return 0, fmt.Errorf("malha %d: %w", mesh, ErrUnknownHandle)
	}
	if me.owned {
		return 0, fmt.Errorf("malha %d: %w", mesh, ErrHandleInUse)
	}
	mat, ok := l.materials[material]
	if !ok {
		return 0, fmt.Errorf("material %d: %w", material, ErrUnknownHandle)
	}
	if mat.owned {
		return 0, fmt.Errorf("material %d: %w", material, ErrHandleInUse)
	}
	me.owned = true
	mat.owned = true
	l.meshes[mesh] = me
	l.materials[material] = mat
	l.triangles += me.triangles

	h := ObjectHandle(l.alloc())
	l.objects[h] = Object{Mesh: mesh, Material: material, Transform: transform}
	return h, nil
}

// RemoveObject apaga o objeto com sua malha e material e devolve o que foi removido.
func (l *Ledger) RemoveObject(h ObjectHandle) (Object, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	obj, ok := l.objects[h]
	if !ok {
		return Object{}, false
	}
	l.triangles -= l.meshes[obj.Mesh].triangles
	delete(l.objects, h)
	delete(l.meshes, obj.Mesh)
	delete(l.materials, obj.Material)
	return obj, true
}

// ReleaseMesh apaga uma malha sem dono. Malhas de objetos só saem por RemoveObject.
func (l *Ledger) ReleaseMesh(h MeshHandle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	me, ok := l.meshes[h]
	if !ok || me.owned {
		return false
	}
	delete(l.meshes, h)
	return true
}

// ReleaseMaterial apaga um material sem dono.
func (l *Ledger) ReleaseMaterial(h MaterialHandle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	mat, ok := l.materials[h]
	if !ok || mat.owned {
		return false
	}
	delete(l.materials, h)
	return true
}

// ReleaseTexture apaga uma textura que nenhum material referencia.
func (l *Ledger) ReleaseTexture(h TextureHandle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.textures[h]; !ok {
		return false
	}
	for _, m := range l.materials {
		if m.params.Albedo == h || m.params.Normal == h {
			return false
		}
	}
	delete(l.textures, h)
	return true
}

// Material retorna os parâmetros de um material vivo.
func (l *Ledger) Material(h MaterialHandle) (MaterialParams, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	m, ok := l.materials[h]
	return m.params, ok
}

// HasObject informa se o objeto ainda está registrado.
func (l *Ledger) HasObject(h ObjectHandle) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.objects[h]
	return ok
}

// ForEachObject percorre os objetos vivos sob trava de leitura.
// fn não deve chamar de volta o ledger.
func (l *Ledger) ForEachObject(fn func(ObjectHandle, Object)) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for h, o := range l.objects {
		fn(h, o)
	}
}

// Stats retorna a contagem de recursos vivos.
func (l *Ledger) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Stats{
		Meshes:    len(l.meshes),
		Textures:  len(l.textures),
		Materials: len(l.materials),
		Objects:   len(l.objects),
		Triangles: l.triangles,
	}
}
