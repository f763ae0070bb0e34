package citybuilder

import (
	"errors"
	"sync"
	"sync/atomic"

	"RenderBench/viewer/internal/render"
)

// TextureHandles é um par de texturas já residente no engine.
type TextureHandles struct {
	Albedo render.TextureHandle
	Normal render.TextureHandle
	Repeat float32
}

// TextureTable mapeia chave semântica para texturas no engine. Imutável depois de instalada.
type TextureTable map[string]TextureHandles

// CityObject mantém vivo um objeto registrado. Release o remove do engine uma única vez.
type CityObject struct {
	handle   render.ObjectHandle
	engine   render.Engine
	released atomic.Bool
}

func newCityObject(h render.ObjectHandle, engine render.Engine) *CityObject {
	return &CityObject{handle: h, engine: engine}
}

// Handle retorna o handle do objeto no engine.
func (o *CityObject) Handle() render.ObjectHandle { return o.handle }

// Released informa se Release já rodou.
func (o *CityObject) Released() bool { return o.released.Load() }

// Release remove o objeto (e a malha e o material dele) do engine.
// Retorna false se já tinha sido liberado.
func (o *CityObject) Release() bool {
	if !o.released.CompareAndSwap(false, true) {
		return false
	}
	o.engine.RemoveObject(o.handle)
	return true
}

func releaseAll(objs []*CityObject) {
	for _, o := range objs {
		o.Release()
	}
}

var errTexturesInstalled = errors.New("tabela de texturas já instalada")

// CityState é o estado compartilhado entre os workers, sob uma única trava.
// A trava só cobre atualizações em memória; chamadas ao engine ficam fora dela.
type CityState struct {
	mu        sync.Mutex
	textures  TextureTable
	permanent []*CityObject
	transient map[int][]*CityObject
}

// NewCityState cria o estado vazio.
func NewCityState() *CityState {
	return &CityState{transient: make(map[int][]*CityObject)}
}

// InstallTextures grava a tabela de texturas. Só pode ser chamada uma vez.
func (s *CityState) InstallTextures(t TextureTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.textures != nil {
		return errTexturesInstalled
	}
	s.textures = t
	return nil
}

// Textures retorna a tabela instalada (nil antes de InstallTextures).
func (s *CityState) Textures() TextureTable {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.textures
}

// AppendPermanent anexa um lote permanente inteiro.
func (s *CityState) AppendPermanent(objs []*CityObject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.permanent = append(s.permanent, objs...)
}

// SwapTransient troca o lote transitório do worker e devolve o anterior.
func (s *CityState) SwapTransient(worker int, objs []*CityObject) []*CityObject {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.transient[worker]
	if len(objs) == 0 {
		delete(s.transient, worker)
	} else {
		s.transient[worker] = objs
	}
	return old
}

// TakeTransient remove e devolve o lote transitório do worker.
func (s *CityState) TakeTransient(worker int) []*CityObject {
	return s.SwapTransient(worker, nil)
}

// TakeAll esvazia o estado e devolve todos os objetos.
func (s *CityState) TakeAll() []*CityObject {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.permanent
	s.permanent = nil
	for w, objs := range s.transient {
		all = append(all, objs...)
		delete(s.transient, w)
	}
	return all
}

// Counts retorna o tamanho dos lotes permanente e transitório.
func (s *CityState) Counts() (permanent, transient int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, objs := range s.transient {
		transient += len(objs)
	}
	return len(s.permanent), transient
}

// Objects retorna uma cópia de todos os objetos vivos.
func (s *CityState) Objects() []*CityObject {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*CityObject, 0, len(s.permanent))
	out = append(out, s.permanent...)
	for _, objs := range s.transient {
		out = append(out, objs...)
	}
	return out
}
