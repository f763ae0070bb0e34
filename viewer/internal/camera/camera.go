// Package camera implementa a câmera livre (fly camera) do benchmark.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"RenderBench/shared/util"
)

const (
	tau       = 2 * math.Pi
	maxPitch  = math.Pi/2 - 0.0001
	lookScale = 0.01 // radianos por pixel com sensibilidade 1
)

// Input é o estado das teclas de movimento num quadro.
type Input struct {
	Forward, Back bool // W / S
	Left, Right   bool // A / D
	Up, Down      bool // Q / Z
	Run           bool // Shift
}

// Any informa se alguma tecla de movimento está pressionada.
func (in Input) Any() bool {
	return in.Forward || in.Back || in.Left || in.Right || in.Up || in.Down
}

// FlyCamera é uma câmera em primeira pessoa com yaw/pitch.
// Yaw zero olha para -Z; pitch positivo olha para cima.
type FlyCamera struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32

	WalkSpeed   float32 // unidades/s
	RunSpeed    float32 // unidades/s com Shift
	Sensitivity float32
	Fovy        float32
}

// New cria a câmera na posição inicial padrão, olhando para a origem de cima.
func New(walk, run, sensitivity float32) *FlyCamera {
	return &FlyCamera{
		Position:    mgl32.Vec3{3, 2, 3},
		Yaw:         math.Pi / 4,
		Pitch:       -math.Pi / 8,
		WalkSpeed:   walk,
		RunSpeed:    run,
		Sensitivity: sensitivity,
		Fovy:        60,
	}
}

func (c *FlyCamera) rotation() mgl32.Mat4 {
	return mgl32.HomogRotate3DY(c.Yaw).Mul4(mgl32.HomogRotate3DX(c.Pitch))
}

// Axes retorna os eixos forward, right e up da câmera.
func (c *FlyCamera) Axes() (forward, right, up mgl32.Vec3) {
	rot := c.rotation()
	forward = rot.Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	right = rot.Mul4x1(mgl32.Vec4{1, 0, 0, 0}).Vec3()
	up = rot.Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3()
	return forward, right, up
}

// Target é o ponto uma unidade à frente da câmera.
func (c *FlyCamera) Target() mgl32.Vec3 {
	forward, _, _ := c.Axes()
	return c.Position.Add(forward)
}

// Move desloca a câmera conforme o input durante dt segundos.
// Retorna true se a posição mudou.
func (c *FlyCamera) Move(in Input, dt float32) bool {
	if !in.Any() || dt <= 0 {
		return false
	}
	speed := c.WalkSpeed
	if in.Run {
		speed = c.RunSpeed
	}

	forward, right, up := c.Axes()
	var dir mgl32.Vec3
	if in.Forward {
		dir = dir.Add(forward)
	}
	if in.Back {
		dir = dir.Sub(forward)
	}
	if in.Right {
		dir = dir.Add(right)
	}
	if in.Left {
		dir = dir.Sub(right)
	}
	if in.Up {
		dir = dir.Add(up)
	}
	if in.Down {
		dir = dir.Sub(up)
	}
	// Cada tecla anda na velocidade cheia no seu eixo
	c.Position = c.Position.Add(dir.Mul(speed * dt))
	return dir.Len() > 0
}

// Look gira a câmera pelo deslocamento do mouse em pixels.
func (c *FlyCamera) Look(dx, dy float32) {
	c.Yaw -= dx * c.Sensitivity * lookScale
	c.Pitch -= dy * c.Sensitivity * lookScale

	if c.Yaw < 0 {
		c.Yaw += tau
	} else if c.Yaw >= tau {
		c.Yaw -= tau
	}
	c.Pitch = util.Clamp(c.Pitch, -maxPitch, maxPitch)
}

// View retorna a matriz de visão.
func (c *FlyCamera) View() mgl32.Mat4 {
	_, _, up := c.Axes()
	return mgl32.LookAtV(c.Position, c.Target(), up)
}
