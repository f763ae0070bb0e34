package app

import (
	"log"

	"RenderBench/viewer/internal/camera"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// updateCamera move e gira a câmera conforme teclado e mouse.
func (a *App) updateCamera() {
	dt := rl.GetFrameTime()

	a.Cam.Move(camera.Input{
		Forward: rl.IsKeyDown(rl.KeyW),
		Back:    rl.IsKeyDown(rl.KeyS),
		Left:    rl.IsKeyDown(rl.KeyA),
		Right:   rl.IsKeyDown(rl.KeyD),
		Up:      rl.IsKeyDown(rl.KeyQ),
		Down:    rl.IsKeyDown(rl.KeyZ),
		Run:     rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift),
	}, dt)

	if a.grabbed {
		delta := rl.GetMouseDelta()
		a.Cam.Look(delta.X, delta.Y)
	}
}

// updateInput processa as teclas gerais.
func (a *App) updateInput() {
	// Clique captura o mouse; ESC ou perda de foco solta
	if !a.grabbed && rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		rl.DisableCursor()
		a.grabbed = true
	}
	if a.grabbed && (rl.IsKeyPressed(rl.KeyEscape) || !rl.IsWindowFocused()) {
		rl.EnableCursor()
		a.grabbed = false
	}

	if rl.IsKeyPressed(rl.KeyF3) {
		a.Config.ShowDebugInfo = !a.Config.ShowDebugInfo
	}
	if rl.IsKeyPressed(rl.KeyG) {
		a.Config.ShowGrid = !a.Config.ShowGrid
	}
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		log.Printf("[App] Câmera em (%.1f, %.1f, %.1f) yaw=%.2f pitch=%.2f",
			a.Cam.Position.X(), a.Cam.Position.Y(), a.Cam.Position.Z(), a.Cam.Yaw, a.Cam.Pitch)
	}
}
