// Package app liga a janela raylib, a câmera, o renderizador e o gerador da cidade.
package app

import (
	"fmt"
	"log"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"RenderBench/shared/config"
	"RenderBench/viewer/internal/camera"
	"RenderBench/viewer/internal/citybuilder"
	"RenderBench/viewer/internal/render/gpu"
	"RenderBench/viewer/internal/stats"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Orçamentos de upload por quadro.
const (
	frameBudget   = 4 * time.Millisecond
	loadingBudget = 500 * time.Millisecond
)

// App é a aplicação com janela.
type App struct {
	Config   *config.Config
	Textures []config.TextureDescriptor

	Cam      *camera.FlyCamera
	renderer *gpu.Renderer
	builder  *citybuilder.CityBuilder
	recorder *stats.Recorder

	loading   bool // ainda esvaziando a fila inicial de uploads
	grabbed   bool // mouse capturado para olhar em volta
	smoothFPS float32
	drawn     int
	applied   int
	started   time.Time
}

// New cria a aplicação sem abrir a janela.
func New(cfg *config.Config, descs []config.TextureDescriptor) *App {
	return &App{
		Config:   cfg,
		Textures: descs,
		Cam:      camera.New(cfg.WalkSpeed, cfg.RunSpeed, cfg.CameraSensitivity),
		loading:  true,
	}
}

// Run abre a janela, inicia a cidade e roda o loop até a janela fechar
// ou a duração pedida acabar.
func (a *App) Run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro fatal recuperado: %v", r)
			panic(r)
		}
	}()

	flags := uint32(rl.FlagWindowResizable)
	if a.Config.MSAA {
		flags |= uint32(rl.FlagMsaa4xHint)
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(a.Config.WindowWidth, a.Config.WindowHeight, a.Config.WindowTitle)
	rl.SetTraceLogLevel(rl.LogWarning)
	defer rl.CloseWindow()

	if a.Config.Fullscreen {
		rl.ToggleFullscreen()
	}
	rl.SetTargetFPS(a.Config.TargetFPS)
	rl.SetExitKey(0) // ESC só solta o mouse

	log.Printf("[App] Janela %dx%d inicializada", a.Config.WindowWidth, a.Config.WindowHeight)

	a.renderer = gpu.NewRenderer(mgl32.Vec3(a.Config.LightDirection))
	defer a.renderer.Unload()

	a.drawLoading("Carregando texturas...")
	a.builder = citybuilder.New(citybuilder.ParamsFromConfig(a.Config, a.Textures))
	if err := a.builder.Start(a.Config.WorkerThreads, a.renderer); err != nil {
		return fmt.Errorf("iniciando a cidade: %w", err)
	}
	// Roda antes do Unload: os workers precisam parar antes da GPU ser liberada.
	defer func() {
		if cerr := a.builder.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	a.started = time.Now()
	a.recorder = stats.NewRecorder(a.started, time.Second)
	limit := a.Config.RunDuration()

	for !rl.WindowShouldClose() {
		if limit > 0 && time.Since(a.started) >= limit {
			log.Printf("[App] Duração de %v atingida", limit)
			break
		}
		a.update()
		a.draw()
	}

	log.Println("[App] Finalizando aplicação...")
	return nil
}

// update roda a lógica de um quadro.
func (a *App) update() {
	budget := frameBudget
	if a.loading {
		budget = loadingBudget
	}
	a.applied = a.renderer.ProcessPending(budget)
	if a.loading && a.renderer.Pending() == 0 && a.permanentDone() {
		a.loading = false
		log.Printf("[App] Cidade inicial pronta em %v", time.Since(a.started).Round(time.Millisecond))
	}

	a.updateInput()
	a.updateCamera()

	if s, ok := a.recorder.Frame(time.Now()); ok {
		c := a.builder.Counts()
		log.Printf("[Stats] %s | objetos %d+%d, ciclos %d", s, c.Permanent, c.Transient, c.Cycles)
	}
}

// permanentDone informa se todos os workers já passaram do lote permanente.
func (a *App) permanentDone() bool {
	for _, p := range a.builder.Phases() {
		if p < citybuilder.PhaseGeneratingTransient {
			return false
		}
	}
	return true
}

// rlCamera converte a câmera livre para o formato do raylib.
func (a *App) rlCamera() rl.Camera3D {
	pos := a.Cam.Position
	target := a.Cam.Target()
	_, _, up := a.Cam.Axes()
	return rl.Camera3D{
		Position:   rl.NewVector3(pos.X(), pos.Y(), pos.Z()),
		Target:     rl.NewVector3(target.X(), target.Y(), target.Z()),
		Up:         rl.NewVector3(up.X(), up.Y(), up.Z()),
		Fovy:       a.Cam.Fovy,
		Projection: rl.CameraPerspective,
	}
}
