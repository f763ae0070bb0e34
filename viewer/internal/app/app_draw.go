package app

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"RenderBench/shared/util"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var background = rl.NewColor(30, 30, 40, 255)

// draw renderiza a cena.
func (a *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(background)

	cam := a.rlCamera()
	rl.BeginMode3D(cam)
	if a.Config.ShowGrid {
		rl.DrawGrid(40, a.Config.BayWidth)
	}
	a.drawn = a.renderer.Draw(cam)
	rl.EndMode3D()

	if a.loading {
		a.drawLoadingOverlay()
	}
	a.drawHUD()
	a.drawFrameGraph()

	rl.EndDrawing()
}

// drawLoading mostra um quadro só com a mensagem, antes do loop começar.
func (a *App) drawLoading(msg string) {
	rl.BeginDrawing()
	rl.ClearBackground(background)
	w := rl.MeasureText(msg, 24)
	rl.DrawText(msg, int32(rl.GetScreenWidth())/2-w/2, int32(rl.GetScreenHeight())/2, 24, rl.White)
	rl.EndDrawing()
}

func (a *App) drawLoadingOverlay() {
	msg := fmt.Sprintf("Enviando para a GPU... %d pendentes", a.renderer.Pending())
	rl.DrawText(msg, 10, int32(rl.GetScreenHeight())-30, 20, rl.Yellow)
}

// drawHUD desenha o painel de estatísticas.
func (a *App) drawHUD() {
	if !a.Config.ShowDebugInfo {
		return
	}

	width := int32(380)
	height := int32(190)
	x := int32(rl.GetScreenWidth()) - width - 10
	y := int32(10)

	rl.DrawRectangle(x, y, width, height, rl.NewColor(0, 0, 0, 180))
	rl.DrawRectangleLines(x, y, width, height, rl.NewColor(50, 50, 50, 255))

	fps := float32(rl.GetFPS())
	a.smoothFPS = util.Lerp(a.smoothFPS, fps, 0.1)
	fpsColor := rl.Green
	if a.smoothFPS < 30 {
		fpsColor = rl.Red
	} else if a.smoothFPS < 50 {
		fpsColor = rl.Yellow
	}
	rl.DrawText(fmt.Sprintf("FPS: %.0f", a.smoothFPS), x+10, y+10, 20, fpsColor)

	rl.DrawLine(x+10, y+35, x+width-10, y+35, rl.NewColor(100, 100, 100, 100))

	last := a.recorder.Last()
	rl.DrawText("QUADROS (último segundo)", x+10, y+45, 12, rl.Gray)
	rl.DrawText(fmt.Sprintf("Média %.2fms  95%% %.2fms  Máx %.2fms",
		ms(last.Mean), ms(last.P95), ms(last.Max)), x+10, y+60, 14, rl.White)

	rl.DrawLine(x+10, y+80, x+width-10, y+80, rl.NewColor(100, 100, 100, 100))

	c := a.builder.Counts()
	st := a.renderer.Stats()
	rl.DrawText("CIDADE", x+10, y+90, 12, rl.Gray)
	rl.DrawText(fmt.Sprintf("Objetos: %s (%s permanentes, %s transitórios)",
		humanize.Comma(int64(st.Objects)), humanize.Comma(int64(c.Permanent)), humanize.Comma(int64(c.Transient))),
		x+10, y+105, 14, rl.LightGray)
	rl.DrawText(fmt.Sprintf("Triângulos: %s  Desenhados: %s",
		humanize.Comma(int64(st.Triangles)), humanize.Comma(int64(a.drawn))), x+10, y+122, 14, rl.LightGray)
	rl.DrawText(fmt.Sprintf("GPU: %s  Fila: %d (+%d/quadro)  Ciclos: %d",
		humanize.Bytes(a.renderer.GPUBytes()), a.renderer.Pending(), a.applied, c.Cycles), x+10, y+139, 14, rl.LightGray)

	rl.DrawText("WASD/QZ: Mover | Shift: Correr | Clique: Olhar | G: Grade | F3: HUD", x+10, y+165, 12, rl.SkyBlue)
}

// drawFrameGraph desenha as barras dos últimos quadros no canto inferior direito.
func (a *App) drawFrameGraph() {
	if !a.Config.ShowDebugInfo {
		return
	}
	h := a.recorder.History()
	const graphHeight = 60
	width := int32(h.Cap())
	x := int32(rl.GetScreenWidth()) - width - 10
	y := int32(rl.GetScreenHeight()) - graphHeight - 10
	rl.DrawRectangle(x, y, width, graphHeight, rl.NewColor(0, 0, 0, 150))

	// Escala fixa de 33ms para a altura toda; quadros mais lentos saturam
	scale := float32(graphHeight) / 33.3
	h.Each(func(i int, d time.Duration) {
		bar := int32(util.Clamp(float32(ms(d))*scale, 1, graphHeight))
		color := rl.Green
		if ms(d) > 16.7 {
			color = rl.Orange
		}
		rl.DrawLine(x+int32(i), y+graphHeight, x+int32(i), y+graphHeight-bar, color)
	})
	rl.DrawText(fmt.Sprintf("pico %.1fms", ms(h.Max())), x+4, y+4, 10, rl.LightGray)
}
