package render

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"RenderBench/viewer/internal/solids"
)

// Op identifica uma operação do Engine, para injeção de falhas.
type Op int

const (
	OpAddMesh Op = iota
	OpAddTexture
	OpAddMaterial
	OpAddObject
)

func (o Op) String() string {
	return [...]string{"AddMesh", "AddTexture", "AddMaterial", "AddObject"}[o]
}

// ErrInjected é devolvido pelas falhas programadas com FailEvery.
var ErrInjected = errors.New("falha injetada")

// Headless é um engine só em memória: valida e contabiliza como o renderizador
// de verdade, sem GPU. Serve para testes e para o modo -headless.
type Headless struct {
	*Ledger

	mu    sync.Mutex
	fault func(Op) error
	calls [4]int

	added   atomic.Int64
	removed atomic.Int64
	frames  atomic.Int64
}

// NewHeadless cria um engine vazio.
func NewHeadless() *Headless {
	return &Headless{Ledger: NewLedger()}
}

// SetFault instala um gancho chamado antes de cada operação Add. Um erro
// não nulo faz a operação falhar sem registrar nada. nil remove o gancho.
func (e *Headless) SetFault(fn func(Op) error) {
	e.mu.Lock()
	e.fault = fn
	e.mu.Unlock()
}

// FailEvery faz a n-ésima chamada de op (e as múltiplas de n) falhar com ErrInjected.
func (e *Headless) FailEvery(op Op, n int) {
	var count atomic.Int64
	e.SetFault(func(o Op) error {
		if o == op && count.Add(1)%int64(n) == 0 {
			return ErrInjected
		}
		return nil
	})
}

func (e *Headless) check(op Op) error {
	e.mu.Lock()
	e.calls[op]++
	fn := e.fault
	e.mu.Unlock()
	if fn != nil {
		return fn(op)
	}
	return nil
}

// Calls retorna quantas vezes op foi chamada, incluindo as que falharam.
func (e *Headless) Calls(op Op) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls[op]
}

func (e *Headless) AddMesh(m solids.Mesh) (MeshHandle, error) {
	if err := e.check(OpAddMesh); err != nil {
		return 0, err
	}
	return e.NewMesh(m)
}

func (e *Headless) AddTexture(pixels []byte, width, height int, label string) (TextureHandle, error) {
	if err := e.check(OpAddTexture); err != nil {
		return 0, err
	}
	return e.NewTexture(pixels, width, height, label)
}

func (e *Headless) AddMaterial(p MaterialParams) (MaterialHandle, error) {
	if err := e.check(OpAddMaterial); err != nil {
		return 0, err
	}
	return e.NewMaterial(p)
}

func (e *Headless) AddObject(mesh MeshHandle, material MaterialHandle, transform mgl32.Mat4) (ObjectHandle, error) {
	if err := e.check(OpAddObject); err != nil {
		return 0, err
	}
	h, err := e.NewObject(mesh, material, transform)
	if err == nil {
		e.added.Add(1)
	}
	return h, err
}

func (e *Headless) RemoveObject(h ObjectHandle) {
	if _, ok := e.Ledger.RemoveObject(h); ok {
		e.removed.Add(1)
	}
}

func (e *Headless) ReleaseMesh(h MeshHandle) { e.Ledger.ReleaseMesh(h) }

func (e *Headless) ReleaseMaterial(h MaterialHandle) { e.Ledger.ReleaseMaterial(h) }

func (e *Headless) ReleaseTexture(h TextureHandle) { e.Ledger.ReleaseTexture(h) }

// Churn retorna o total de objetos adicionados e removidos desde a criação.
func (e *Headless) Churn() (added, removed int64) {
	return e.added.Load(), e.removed.Load()
}

// Frame simula o consumo de um quadro: percorre os objetos vivos como o loop
// de desenho faria e retorna quantos seriam desenhados.
func (e *Headless) Frame() int {
	n := 0
	e.ForEachObject(func(ObjectHandle, Object) { n++ })
	e.frames.Add(1)
	return n
}

// Frames retorna quantos quadros foram simulados.
func (e *Headless) Frames() int64 { return e.frames.Load() }
