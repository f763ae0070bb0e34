package city

import "github.com/go-gl/mathgl/mgl32"

// Frações de altura das faixas de alvenaria.
const (
	lintelFraction = 0.25 // verga da porta e faixa superior da janela
	sillFraction   = 0.25 // faixa inferior da janela
)

// Bands retorna as alturas (verga, abertura, peitoril) de uma baia de altura h.
// Sólida conta como verga de altura h; None como abertura total.
func Bands(kind WallKind, h float32) (top, opening, bottom float32) {
	switch kind {
	case WallSolid:
		return h, 0, 0
	case WallDoor:
		top = lintelFraction * h
		return top, h - top, 0
	case WallWindow:
		top = lintelFraction * h
		bottom = sillFraction * h
		return top, h - (top + bottom), bottom
	default:
		return 0, h, 0
	}
}

// WallSection retorna os blocos de uma baia no referencial da parede:
// X ao longo da face, Y para cima, Z na espessura. A baia i começa em x = i*BayWidth.
//
// A coluna de pedra ocupa a borda esquerda em toda a altura; o enchimento de
// tijolo cobre o resto da largura conforme o tipo.
func WallSection(kind WallKind, bay int, d Dimensions) []Block {
	h := d.StoryHeight
	ct := d.ColumnThickness()
	x0 := float32(bay) * d.BayWidth

	blocks := []Block{{
		Scale:    mgl32.Vec3{ct, h, ct},
		Offset:   mgl32.Vec3{x0 + ct/2, h / 2, 0},
		Rotation: mgl32.QuatIdent(),
		Texture:  TexStone,
	}}

	infillW := d.BayWidth - ct
	infillX := x0 + ct + infillW/2
	band := func(height, centerY float32) Block {
		return Block{
			Scale:    mgl32.Vec3{infillW, height, d.WallThickness},
			Offset:   mgl32.Vec3{infillX, centerY, 0},
			Rotation: mgl32.QuatIdent(),
			Texture:  TexBrick,
		}
	}

	top, _, bottom := Bands(kind, h)
	switch kind {
	case WallSolid:
		blocks = append(blocks, band(h, h/2))
	case WallDoor:
		blocks = append(blocks, band(top, h-top/2))
	case WallWindow:
		blocks = append(blocks, band(top, h-top/2), band(bottom, bottom/2))
	}
	return blocks
}
