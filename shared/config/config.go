package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config armazena as configurações do RenderBench.
type Config struct {
	// Janela
	WindowWidth  int32  `json:"window_width"`
	WindowHeight int32  `json:"window_height"`
	WindowTitle  string `json:"window_title"`
	Fullscreen   bool   `json:"fullscreen"`
	TargetFPS    int32  `json:"target_fps"` // 0 = sem limite (modo benchmark)
	MSAA         bool   `json:"msaa"`

	// Cidade
	TextureDir      string  `json:"texture_dir"`
	TextureManifest string  `json:"texture_manifest"` // YAML opcional; vazio = tabela embutida
	WorkerThreads   int     `json:"worker_threads"`
	GridRows        int     `json:"grid_rows"`
	GridSpacing     float32 `json:"grid_spacing"` // 0 = pegada do prédio + rua
	BayWidth        float32 `json:"bay_width"`
	StoryHeight     float32 `json:"story_height"`
	WallThickness   float32 `json:"wall_thickness"`
	ParapetHeight   float32 `json:"parapet_height"`
	IdleSeconds     float64 `json:"idle_seconds"`    // Tempo que cada lote transitório fica vivo
	PollMillis      int     `json:"poll_millis"`     // Granularidade do flag de parada
	JoinTimeoutSecs float64 `json:"join_timeout_secs"`
	MaxTextureSize  int     `json:"max_texture_size"` // 0 = sem redimensionar

	// Câmera
	WalkSpeed         float32 `json:"walk_speed"`
	RunSpeed          float32 `json:"run_speed"`
	CameraSensitivity float32 `json:"camera_sensitivity"`

	// Iluminação
	LightDirection [3]float32 `json:"light_direction"`

	// Execução
	Headless   bool    `json:"headless"`    // Só gera a cidade, sem janela
	RunSeconds float64 `json:"run_seconds"` // 0 = até fechar a janela / Ctrl+C

	// Debug
	ShowDebugInfo bool `json:"show_debug_info"`
	ShowGrid      bool `json:"show_grid"`
}

// DefaultConfig retorna a configuração padrão.
func DefaultConfig() *Config {
	return &Config{
		WindowWidth:  1280,
		WindowHeight: 720,
		WindowTitle:  "RenderBench",
		Fullscreen:   false,
		TargetFPS:    0,
		MSAA:         true,

		TextureDir:      "resources/city",
		TextureManifest: "",
		WorkerThreads:   2,
		GridRows:        8,
		GridSpacing:     0,
		BayWidth:        4.0,
		StoryHeight:     3.0,
		WallThickness:   0.1,
		ParapetHeight:   0.6,
		IdleSeconds:     10.0,
		PollMillis:      100,
		JoinTimeoutSecs: 5.0,
		MaxTextureSize:  0,

		WalkSpeed:         10.0,
		RunSpeed:          50.0,
		CameraSensitivity: 0.3,

		LightDirection: [3]float32{-1, -4, 2},

		Headless:   false,
		RunSeconds: 0,

		ShowDebugInfo: true,
		ShowGrid:      false,
	}
}

// DefaultPath retorna o caminho padrão do config.json, ao lado do executável.
func DefaultPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(filepath.Dir(execPath), "config.json")
}

// Load carrega as configurações de um arquivo JSON.
// Se o arquivo não existir, retorna as configurações padrão.
// Um arquivo existente mas malformado é erro: o benchmark não deve rodar
// com parâmetros diferentes dos pedidos.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("falha ao ler %s: %w", path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("falha ao parsear %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate verifica os limites básicos dos parâmetros.
func (c *Config) Validate() error {
	switch {
	case c.WorkerThreads < 0:
		return fmt.Errorf("worker_threads inválido: %d", c.WorkerThreads)
	case c.GridRows <= 0:
		return fmt.Errorf("grid_rows deve ser positivo: %d", c.GridRows)
	case c.BayWidth <= 0 || c.StoryHeight <= 0 || c.WallThickness <= 0:
		return fmt.Errorf("dimensões devem ser positivas (bay=%v story=%v wall=%v)",
			c.BayWidth, c.StoryHeight, c.WallThickness)
	case c.ParapetHeight < 0 || c.GridSpacing < 0:
		return fmt.Errorf("parapet_height e grid_spacing não podem ser negativos")
	case 2*c.WallThickness >= c.BayWidth:
		return fmt.Errorf("wall_thickness %v grande demais para bay_width %v", c.WallThickness, c.BayWidth)
	case c.IdleSeconds < 0:
		return fmt.Errorf("idle_seconds não pode ser negativo: %v", c.IdleSeconds)
	case c.PollMillis <= 0:
		return fmt.Errorf("poll_millis deve ser positivo: %d", c.PollMillis)
	case c.MaxTextureSize < 0:
		return fmt.Errorf("max_texture_size não pode ser negativo: %d", c.MaxTextureSize)
	}
	return nil
}

// IdleDuration retorna o tempo de espera entre ciclos como time.Duration.
func (c *Config) IdleDuration() time.Duration {
	return time.Duration(c.IdleSeconds * float64(time.Second))
}

// PollInterval retorna a fatia de sono usada para checar o flag de parada.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollMillis) * time.Millisecond
}

// JoinTimeout retorna quanto o Stop espera pelos workers.
func (c *Config) JoinTimeout() time.Duration {
	return time.Duration(c.JoinTimeoutSecs * float64(time.Second))
}

// RunDuration retorna a duração pedida da execução (0 = indefinida).
func (c *Config) RunDuration() time.Duration {
	return time.Duration(c.RunSeconds * float64(time.Second))
}
