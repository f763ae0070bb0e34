// Package city compõe a geometria procedural da cidade: seção de parede,
// andar, prédio e grade de prédios.
//
// Todas as funções são puras. Elas só descrevem blocos (escala, deslocamento,
// posição, rotação e chave de textura); o registro no engine de render fica
// com quem chama, para que a posse dos handles resultantes seja explícita.
package city

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// WallKind é o tipo de abertura de uma baia.
type WallKind int

const (
	WallNone WallKind = iota
	WallSolid
	WallDoor
	WallWindow
)

func (k WallKind) String() string {
	switch k {
	case WallNone:
		return "none"
	case WallSolid:
		return "solid"
	case WallDoor:
		return "door"
	case WallWindow:
		return "window"
	}
	return fmt.Sprintf("WallKind(%d)", int(k))
}

// WallSpec descreve um andar. O fundo espelha a frente e o lado esquerdo espelha o direito.
type WallSpec struct {
	Front []WallKind
	Side  []WallKind
}

// BuildingSpec lista os andares de baixo para cima.
type BuildingSpec struct {
	Stories []WallSpec
}

// Top retorna o andar mais alto, que dimensiona o telhado e a pegada do prédio.
func (b BuildingSpec) Top() WallSpec {
	if len(b.Stories) == 0 {
		return WallSpec{}
	}
	return b.Stories[len(b.Stories)-1]
}

// Validate rejeita prédios sem andares ou com faces vazias.
// Andares com contagens de baias diferentes são aceitos: o telhado segue o último.
func (b BuildingSpec) Validate() error {
	if len(b.Stories) == 0 {
		return fmt.Errorf("prédio sem andares")
	}
	for i, s := range b.Stories {
		if len(s.Front) == 0 || len(s.Side) == 0 {
			return fmt.Errorf("andar %d sem baias (frente=%d lado=%d)", i, len(s.Front), len(s.Side))
		}
	}
	return nil
}

// Uniform informa se todos os andares têm a mesma pegada.
func (b BuildingSpec) Uniform() bool {
	for _, s := range b.Stories {
		if len(s.Front) != len(b.Stories[0].Front) || len(s.Side) != len(b.Stories[0].Side) {
			return false
		}
	}
	return true
}

// Dimensions agrupa as medidas comuns a toda a cidade.
type Dimensions struct {
	BayWidth      float32
	StoryHeight   float32
	WallThickness float32
	ParapetHeight float32
}

// ColumnThickness é a largura da coluna de pedra de cada baia.
func (d Dimensions) ColumnThickness() float32 { return 2 * d.WallThickness }

// FloorThickness é a espessura das lajes de piso, teto e telhado.
func (d Dimensions) FloorThickness() float32 { return d.WallThickness }

// Footprint retorna a largura (X) e a profundidade (Z) de um andar.
func (d Dimensions) Footprint(s WallSpec) (width, depth float32) {
	return float32(len(s.Front)) * d.BayWidth, float32(len(s.Side)) * d.BayWidth
}

// Chaves de textura usadas pelo compositor.
const (
	TexStone   = "stone"
	TexBrick   = "brick"
	TexFloor   = "floor"
	TexCeiling = "ceiling"
	TexRoof    = "roof"
	TexGround  = "ground"
)

// TextureKeys lista todas as chaves que a cidade consome.
var TextureKeys = []string{TexBrick, TexGround, TexRoof, TexFloor, TexCeiling, TexStone}

// Block é um sólido a registrar: cubo unitário escalado e deslocado na malha,
// depois posicionado por Rotation e Position.
type Block struct {
	Scale    mgl32.Vec3
	Offset   mgl32.Vec3
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Texture  string
}

// Transform retorna a matriz de modelo (translação * rotação).
func (b Block) Transform() mgl32.Mat4 {
	return mgl32.Translate3D(b.Position[0], b.Position[1], b.Position[2]).Mul4(b.Rotation.Mat4())
}

// Center retorna o centro do bloco em coordenadas de mundo.
func (b Block) Center() mgl32.Vec3 {
	return b.Position.Add(b.Rotation.Rotate(b.Offset))
}

// Placement posiciona um prédio: canto de origem e giro em torno de Y (radianos).
type Placement struct {
	Position mgl32.Vec3
	Yaw      float32
}

func (p Placement) rotation() mgl32.Quat {
	return mgl32.QuatRotate(p.Yaw, mgl32.Vec3{0, 1, 0})
}

// place leva um bloco do referencial local (origem local, rotação local) para o do prédio.
func (p Placement) place(b Block, origin mgl32.Vec3, local mgl32.Quat) Block {
	rot := p.rotation()
	b.Position = p.Position.Add(rot.Rotate(origin))
	b.Rotation = rot.Mul(local).Normalize()
	return b
}
