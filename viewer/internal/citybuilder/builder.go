// Package citybuilder gera a cidade em background e mantém o ciclo de carga:
// um lote permanente criado uma vez e um lote transitório que é criado,
// mantido por uma janela ociosa, removido e recriado até o Stop.
package citybuilder

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"RenderBench/shared/config"
	"RenderBench/viewer/internal/city"
	"RenderBench/viewer/internal/render"
	"RenderBench/viewer/internal/solids"
	"RenderBench/viewer/internal/textures"
)

// MaxWorkers é o limite de sanidade para o número de workers.
const MaxWorkers = 100

// Parâmetros dos materiais da cidade.
const (
	materialMetallic  = 0.2
	materialRoughness = 0.2
	materialAO        = 1.0
)

// Params reúne tudo que o builder precisa para gerar a cidade.
type Params struct {
	TextureDir     string
	Textures       []config.TextureDescriptor
	MaxTextureSize int

	Rows     int     // grade Rows x Rows
	Spacing  float32 // 0 = city.AutoSpacing
	Dims     city.Dimensions
	Building city.BuildingSpec
	// Choose escolhe o prédio de cada célula; nil usa Building em todas.
	Choose func(city.Cell) city.BuildingSpec

	Idle        time.Duration // quanto cada lote transitório (e cada pausa) dura
	Poll        time.Duration // fatia de sono entre checagens do flag de parada
	JoinTimeout time.Duration // espera máxima do Stop
}

// DefaultParams retorna os parâmetros padrão, iguais aos de config.DefaultConfig.
func DefaultParams() Params {
	return ParamsFromConfig(config.DefaultConfig(), config.DefaultTextures())
}

// ParamsFromConfig converte a configuração do viewer.
func ParamsFromConfig(cfg *config.Config, descs []config.TextureDescriptor) Params {
	return Params{
		TextureDir:     cfg.TextureDir,
		Textures:       descs,
		MaxTextureSize: cfg.MaxTextureSize,
		Rows:           cfg.GridRows,
		Spacing:        cfg.GridSpacing,
		Dims: city.Dimensions{
			BayWidth:      cfg.BayWidth,
			StoryHeight:   cfg.StoryHeight,
			WallThickness: cfg.WallThickness,
			ParapetHeight: cfg.ParapetHeight,
		},
		Building:    city.DefaultBuilding(),
		Idle:        cfg.IdleDuration(),
		Poll:        cfg.PollInterval(),
		JoinTimeout: cfg.JoinTimeout(),
	}
}

func (p Params) validate() error {
	switch {
	case p.Rows <= 0:
		return &ConfigError{Field: "rows", Value: p.Rows, Reason: "deve ser positivo"}
	case p.Dims.BayWidth <= 0 || p.Dims.StoryHeight <= 0 || p.Dims.WallThickness <= 0:
		return &ConfigError{Field: "dims", Value: p.Dims, Reason: "medidas devem ser positivas"}
	case p.Dims.ColumnThickness() >= p.Dims.BayWidth:
		return &ConfigError{Field: "wall_thickness", Value: p.Dims.WallThickness, Reason: "coluna mais larga que a baia"}
	case p.Poll <= 0:
		return &ConfigError{Field: "poll", Value: p.Poll, Reason: "deve ser positivo"}
	case p.Idle < 0:
		return &ConfigError{Field: "idle", Value: p.Idle, Reason: "não pode ser negativo"}
	}
	if err := config.ValidateTextures(p.Textures); err != nil {
		return &ConfigError{Field: "textures", Value: len(p.Textures), Reason: err.Error()}
	}
	if err := p.Building.Validate(); err != nil {
		return &ConfigError{Field: "building", Value: len(p.Building.Stories), Reason: err.Error()}
	}
	return nil
}

// Counts resume o estado da cidade.
type Counts struct {
	Permanent int
	Transient int
	Cycles    int64 // ciclos completos de criar/remover, somando todos os workers
}

// CityBuilder controla os workers de geração.
type CityBuilder struct {
	params Params
	state  *CityState
	engine render.Engine
	grid   city.Grid

	mu      sync.Mutex // ciclo de vida: started/stopping
	started bool
	stopped bool

	stop   atomic.Bool
	wg     sync.WaitGroup
	phases []atomic.Int32
	cycles atomic.Int64
}

// New cria um builder sem iniciar nada.
func New(params Params) *CityBuilder {
	return &CityBuilder{params: params, state: NewCityState()}
}

// State expõe o estado compartilhado.
func (b *CityBuilder) State() *CityState { return b.state }

// Start carrega e envia as texturas no goroutine chamador e então inicia n workers.
// Erros de configuração ou de textura abortam antes de qualquer worker existir.
func (b *CityBuilder) Start(n int, engine render.Engine) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started {
		return &ConfigError{Field: "start", Value: n, Reason: "builder já iniciado"}
	}
	if n < 0 || n >= MaxWorkers {
		return &ConfigError{Field: "workers", Value: n, Reason: fmt.Sprintf("deve estar em [0, %d)", MaxWorkers)}
	}
	if engine == nil {
		return &ConfigError{Field: "engine", Value: nil, Reason: "engine ausente"}
	}
	if err := b.params.validate(); err != nil {
		return err
	}

	b.phases = make([]atomic.Int32, n)
	b.setAll(PhaseTexturesLoading)

	start := time.Now()
	table, err := b.loadTextures(engine)
	if err != nil {
		b.setAll(PhaseIdle)
		return err
	}
	if err := b.state.InstallTextures(table); err != nil {
		return &ConfigError{Field: "textures", Value: len(table), Reason: err.Error()}
	}
	b.setAll(PhaseTexturesReady)
	log.Printf("[CityBuilder] %d texturas prontas em %v", len(table), time.Since(start).Round(time.Millisecond))

	spacing := b.params.Spacing
	if spacing <= 0 {
		spacing = city.AutoSpacing(b.params.Building, b.params.Dims)
	}
	b.grid = city.Grid{Rows: b.params.Rows, Cols: b.params.Rows, Spacing: spacing}
	b.engine = engine
	b.started = true

	for i := 0; i < n; i++ {
		b.wg.Add(1)
		go b.worker(i, n)
	}
	log.Printf("[CityBuilder] %d worker(s) iniciados, grade %dx%d (espaçamento %.1f)", n, b.grid.Rows, b.grid.Cols, spacing)
	return nil
}

// loadTextures decodifica os pares e os registra no engine.
// Se um envio falha, as texturas já enviadas são liberadas.
func (b *CityBuilder) loadTextures(engine render.Engine) (TextureTable, error) {
	cache := textures.NewCache(b.params.TextureDir, b.params.MaxTextureSize)
	sets, err := cache.Load(b.params.Textures)
	if err != nil {
		return nil, fmt.Errorf("carregando texturas: %w", err)
	}
	for _, key := range city.TextureKeys {
		if _, ok := sets[key]; !ok {
			return nil, &ConfigError{Field: "textures", Value: key, Reason: "chave obrigatória ausente"}
		}
	}

	keys := make([]string, 0, len(sets))
	for k := range sets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var uploaded []render.TextureHandle
	done := false
	defer func() {
		if done {
			return
		}
		for _, h := range uploaded {
			engine.ReleaseTexture(h)
		}
	}()

	table := make(TextureTable, len(sets))
	for _, key := range keys {
		set := sets[key]
		albedo, err := engine.AddTexture(set.Albedo.Pix, set.Albedo.Rect.Dx(), set.Albedo.Rect.Dy(), key+"/albedo")
		if err != nil {
			return nil, &ResourceRegistrationError{Op: "AddTexture", Block: -1, Err: err}
		}
		uploaded = append(uploaded, albedo)
		normal, err := engine.AddTexture(set.Normal.Pix, set.Normal.Rect.Dx(), set.Normal.Rect.Dy(), key+"/normal")
		if err != nil {
			return nil, &ResourceRegistrationError{Op: "AddTexture", Block: -1, Err: err}
		}
		uploaded = append(uploaded, normal)
		table[key] = TextureHandles{Albedo: albedo, Normal: normal, Repeat: set.Repeat}
	}
	done = true
	return table, nil
}

func (b *CityBuilder) setAll(p WorkerPhase) {
	for i := range b.phases {
		b.phases[i].Store(int32(p))
	}
}

func (b *CityBuilder) setPhase(id int, p WorkerPhase) {
	b.phases[id].Store(int32(p))
}

// Phases retorna a fase atual de cada worker.
func (b *CityBuilder) Phases() []WorkerPhase {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]WorkerPhase, len(b.phases))
	for i := range b.phases {
		out[i] = WorkerPhase(b.phases[i].Load())
	}
	return out
}

// Counts retorna o tamanho dos lotes e quantos ciclos já rodaram.
func (b *CityBuilder) Counts() Counts {
	p, t := b.state.Counts()
	return Counts{Permanent: p, Transient: t, Cycles: b.cycles.Load()}
}

// Stopping informa se o flag de parada já foi levantado.
func (b *CityBuilder) Stopping() bool { return b.stop.Load() }

func (b *CityBuilder) worker(id, n int) {
	defer b.wg.Done()
	defer b.setPhase(id, PhaseStopped)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Worker %d da cidade abortou: %v (a parte dele da grade fica de fora)", id, r)
		}
	}()

	b.setPhase(id, PhaseGeneratingPermanent)
	perm, err := b.register(b.plan(id, n, false))
	if err != nil {
		log.Printf("[CityBuilder] Worker %d: lote permanente descartado: %v", id, err)
	} else {
		b.state.AppendPermanent(perm)
	}

	for !b.stop.Load() {
		b.setPhase(id, PhaseGeneratingTransient)
		objs, err := b.register(b.plan(id, n, true))
		if err != nil {
			log.Printf("[CityBuilder] Worker %d: lote transitório descartado: %v", id, err)
			objs = nil
		}
		releaseAll(b.state.SwapTransient(id, objs))

		b.setPhase(id, PhaseHolding)
		if !b.hold() {
			return
		}

		b.setPhase(id, PhaseDeletingTransient)
		releaseAll(b.state.TakeTransient(id))
		b.cycles.Add(1)

		b.setPhase(id, PhaseHolding)
		if !b.hold() {
			return
		}
	}
}

// hold dorme pela janela ociosa em fatias de Poll. Retorna false se o Stop chegou.
func (b *CityBuilder) hold() bool {
	deadline := time.Now().Add(b.params.Idle)
	for !b.stop.Load() {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return true
		}
		time.Sleep(min(remaining, b.params.Poll))
	}
	return false
}

// plan lista os blocos do worker id numa metade da grade: a primeira metade
// das linhas é permanente, a segunda transitória. O worker 0 também leva o chão.
func (b *CityBuilder) plan(id, n int, transient bool) []city.Block {
	half := b.grid.Rows / 2
	lo, hi := 0, half
	if transient {
		lo, hi = half, b.grid.Rows
	}

	var blocks []city.Block
	if id == 0 && !transient {
		blocks = append(blocks, city.Ground(b.grid, b.params.Dims))
	}

	choose := b.params.Choose
	if choose == nil {
		choose = city.Same(b.params.Building)
	}
	for r := lo; r < hi; r++ {
		if r%n != id {
			continue
		}
		for _, bld := range city.DrawGrid(b.grid.Cells(r, r+1), choose, b.params.Dims) {
			blocks = append(blocks, bld.Blocks()...)
		}
	}
	return blocks
}

// register cria malha, material e objeto de cada bloco, fora da trava do estado.
// Qualquer falha (ou pânico) libera o que já tinha sido registrado do lote.
func (b *CityBuilder) register(blocks []city.Block) ([]*CityObject, error) {
	table := b.state.Textures()
	engine := b.engine

	var (
		pendingMesh render.MeshHandle
		pendingMat  render.MaterialHandle
		committed   bool
	)
	made := make([]*CityObject, 0, len(blocks))
	defer func() {
		if committed {
			return
		}
		if pendingMesh != 0 {
			engine.ReleaseMesh(pendingMesh)
		}
		if pendingMat != 0 {
			engine.ReleaseMaterial(pendingMat)
		}
		releaseAll(made)
	}()

	for i, blk := range blocks {
		tex, ok := table[blk.Texture]
		if !ok {
			return nil, &ResourceRegistrationError{Op: "texture", Block: i, Err: fmt.Errorf("chave %q sem textura", blk.Texture)}
		}

		mesh, err := engine.AddMesh(solids.BuildCube(blk.Scale, blk.Offset, tex.Repeat))
		if err != nil {
			return nil, &ResourceRegistrationError{Op: "AddMesh", Block: i, Err: err}
		}
		pendingMesh = mesh

		mat, err := engine.AddMaterial(render.MaterialParams{
			Albedo:    tex.Albedo,
			Normal:    tex.Normal,
			Metallic:  materialMetallic,
			Roughness: materialRoughness,
			AO:        materialAO,
		})
		if err != nil {
			return nil, &ResourceRegistrationError{Op: "AddMaterial", Block: i, Err: err}
		}
		pendingMat = mat

		h, err := engine.AddObject(mesh, mat, blk.Transform())
		if err != nil {
			return nil, &ResourceRegistrationError{Op: "AddObject", Block: i, Err: err}
		}
		pendingMesh, pendingMat = 0, 0
		made = append(made, newCityObject(h, engine))
	}
	committed = true
	return made, nil
}

// Stop levanta o flag de parada e espera os workers por até JoinTimeout.
// Sem Start, ou numa segunda chamada, não faz nada. O lote permanente e um
// lote transitório recém-criado continuam registrados; Close os remove.
func (b *CityBuilder) Stop() error {
	b.mu.Lock()
	if !b.started || b.stopped {
		b.mu.Unlock()
		return nil
	}
	b.stopped = true
	b.mu.Unlock()

	start := time.Now()
	b.stop.Store(true)

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	timeout := b.params.JoinTimeout
	if timeout <= 0 {
		<-done
		log.Printf("[CityBuilder] Workers parados em %v", time.Since(start).Round(time.Millisecond))
		return nil
	}
	select {
	case <-done:
		log.Printf("[CityBuilder] Workers parados em %v", time.Since(start).Round(time.Millisecond))
		return nil
	case <-time.After(timeout):
		err := &ShutdownError{Workers: b.running(), Timeout: timeout}
		log.Printf("[CityBuilder] ERRO GRAVE: %v", err)
		return err
	}
}

func (b *CityBuilder) running() []int {
	var ids []int
	for i := range b.phases {
		if WorkerPhase(b.phases[i].Load()) != PhaseStopped {
			ids = append(ids, i)
		}
	}
	return ids
}

// Close para os workers (se preciso) e remove do engine todos os objetos da cidade.
func (b *CityBuilder) Close() error {
	err := b.Stop()
	objs := b.state.TakeAll()
	releaseAll(objs)
	if len(objs) > 0 {
		log.Printf("[CityBuilder] %d objetos liberados no encerramento", len(objs))
	}
	return err
}
