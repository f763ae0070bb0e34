package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dustin/go-humanize"

	"RenderBench/shared/config"
	"RenderBench/viewer/internal/citybuilder"
	"RenderBench/viewer/internal/render"
	"RenderBench/viewer/internal/stats"
)

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

// RunHeadless gera a cidade contra o engine em memória, sem janela.
// Cada tique percorre os objetos vivos como um quadro faria. Termina quando
// ctx é cancelado ou a duração configurada acaba.
func RunHeadless(ctx context.Context, cfg *config.Config, descs []config.TextureDescriptor) (err error) {
	if d := cfg.RunDuration(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	engine := render.NewHeadless()
	builder := citybuilder.New(citybuilder.ParamsFromConfig(cfg, descs))
	if err := builder.Start(cfg.WorkerThreads, engine); err != nil {
		return fmt.Errorf("iniciando a cidade: %w", err)
	}
	defer func() {
		if cerr := builder.Close(); cerr != nil && err == nil {
			err = cerr
		}
		added, removed := engine.Churn()
		st := engine.Stats()
		log.Printf("[Headless] Fim: %s quadros, %s objetos criados, %s removidos, %d vivos",
			humanize.Comma(engine.Frames()), humanize.Comma(added), humanize.Comma(removed), st.Objects)
	}()

	fps := cfg.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	recorder := stats.NewRecorder(time.Now(), time.Second)
	log.Printf("[Headless] Rodando a %d quadros/s simulados", fps)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[Headless] Encerrando: %v", ctx.Err())
			return nil
		case now := <-ticker.C:
			engine.Frame()
			if s, ok := recorder.Frame(now); ok {
				c := builder.Counts()
				st := engine.Stats()
				log.Printf("[Stats] %s | objetos %s (%d+%d), triângulos %s, ciclos %d",
					s, humanize.Comma(int64(st.Objects)), c.Permanent, c.Transient,
					humanize.Comma(int64(st.Triangles)), c.Cycles)
			}
		}
	}
}
