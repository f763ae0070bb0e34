package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"

	"RenderBench/shared/config"
	"RenderBench/viewer/internal/app"
)

func main() {
	// Raylib/OpenGL exige rodar na thread principal do SO
	runtime.LockOSThread()

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "[ERRO FATAL] %v\n", err)
		os.Exit(1)
	}
}

// run executa o benchmark. O arquivo de log é fechado antes do retorno,
// inclusive em erro, para o chamador poder encerrar o processo.
func run(args []string) (err error) {
	flags := flag.NewFlagSet("renderbench", flag.ContinueOnError)
	logPath := flags.String("log", "debug_rb.log", "Arquivo de log")
	configPath := flags.String("config", config.DefaultPath(), "Arquivo de configuração JSON")
	textureDir := flags.String("textures", "", "Diretório das texturas da cidade")
	manifest := flags.String("manifest", "", "Manifesto YAML das texturas (vazio = tabela embutida)")
	workers := flags.Int("workers", -1, "Número de workers de geração")
	rows := flags.Int("rows", 0, "Linhas (e colunas) da grade de prédios")
	bay := flags.Float64("bay", 0, "Largura de uma baia de parede")
	story := flags.Float64("story", 0, "Altura de um andar")
	idle := flags.Float64("idle", -1, "Segundos que cada lote transitório fica vivo")
	walk := flags.Float64("walk", 0, "Velocidade de caminhada (unidades/s)")
	runSpeed := flags.Float64("run", 0, "Velocidade com Shift (unidades/s)")
	light := flags.String("directional-light", "", "Direção da luz x,y,z")
	fps := flags.Int("fps", -1, "Limite de FPS (0 = sem limite)")
	fullscreen := flags.Bool("fullscreen", false, "Iniciar em tela cheia")
	width := flags.Int("width", 0, "Largura da janela")
	height := flags.Int("height", 0, "Altura da janela")
	headless := flags.Bool("headless", false, "Só gera a cidade, sem janela")
	seconds := flags.Float64("seconds", 0, "Duração da execução em segundos (0 = indefinida)")
	debug := flags.Bool("debug", false, "Mostrar informações de debug")
	if err := flags.Parse(args); err != nil {
		return err
	}

	// Log em arquivo
	f, ferr := os.OpenFile(*logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if ferr == nil {
		log.SetOutput(f)
		log.Println("--- INICIANDO RENDERBENCH ---")
		defer func() {
			log.SetOutput(os.Stderr)
			f.Close()
		}()
	}
	log.SetFlags(log.Ltime | log.Lshortfile)
	defer func() {
		if err != nil {
			log.Printf("[ERRO FATAL] %v", err)
		}
	}()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// Flags sobrescrevem o config salvo
	if *textureDir != "" {
		cfg.TextureDir = *textureDir
	}
	if *manifest != "" {
		cfg.TextureManifest = *manifest
	}
	if *workers >= 0 {
		cfg.WorkerThreads = *workers
	}
	if *rows > 0 {
		cfg.GridRows = *rows
	}
	if *bay > 0 {
		cfg.BayWidth = float32(*bay)
	}
	if *story > 0 {
		cfg.StoryHeight = float32(*story)
	}
	if *idle >= 0 {
		cfg.IdleSeconds = *idle
	}
	if *walk > 0 {
		cfg.WalkSpeed = float32(*walk)
	}
	if *runSpeed > 0 {
		cfg.RunSpeed = float32(*runSpeed)
	}
	if *light != "" {
		dir, err := parseVec3(*light)
		if err != nil {
			return fmt.Errorf("-directional-light: %w", err)
		}
		cfg.LightDirection = dir
	}
	if *fps >= 0 {
		cfg.TargetFPS = int32(*fps)
	}
	if *fullscreen {
		cfg.Fullscreen = true
	}
	if *width > 0 {
		cfg.WindowWidth = int32(*width)
	}
	if *height > 0 {
		cfg.WindowHeight = int32(*height)
	}
	if *headless {
		cfg.Headless = true
	}
	if *seconds > 0 {
		cfg.RunSeconds = *seconds
	}
	if *debug {
		cfg.ShowDebugInfo = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	descs, err := config.LoadTextures(cfg.TextureManifest)
	if err != nil {
		return err
	}

	log.Printf("[RenderBench] %d workers, grade %dx%d, lote transitório de %.1fs",
		cfg.WorkerThreads, cfg.GridRows, cfg.GridRows, cfg.IdleSeconds)

	if cfg.Headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return app.RunHeadless(ctx, cfg, descs)
	}
	return app.New(cfg, descs).Run()
}

// parseVec3 lê "x,y,z".
func parseVec3(s string) ([3]float32, error) {
	var v [3]float32
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return v, fmt.Errorf("esperado x,y,z, recebido %q", s)
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return v, fmt.Errorf("componente %d: %w", i, err)
		}
		v[i] = float32(f)
	}
	if v == [3]float32{} {
		return v, fmt.Errorf("direção nula")
	}
	return v, nil
}
