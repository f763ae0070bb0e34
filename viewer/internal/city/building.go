package city

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Face identifica uma das quatro paredes de um andar.
type Face int

const (
	FaceFront Face = iota
	FaceRight
	FaceBack
	FaceLeft
)

func (f Face) String() string {
	return [...]string{"front", "right", "back", "left"}[f]
}

// Section é o grupo de blocos de uma baia numa face.
type Section struct {
	Kind   WallKind
	Face   Face
	Bay    int
	Blocks []Block
}

// Story é um andar montado: as seções das quatro faces mais piso e teto.
type Story struct {
	Sections []Section
	Floor    Block
	Ceiling  Block
}

// Blocks achata o andar na ordem seções, piso, teto.
func (s Story) Blocks() []Block {
	var out []Block
	for _, sec := range s.Sections {
		out = append(out, sec.Blocks...)
	}
	return append(out, s.Floor, s.Ceiling)
}

// Roof é a laje de cobertura com as quatro faixas de platibanda.
type Roof struct {
	Cap     Block
	Parapet [4]Block // frente, fundo, esquerda, direita
}

// Blocks retorna a laje seguida das faixas.
func (r Roof) Blocks() []Block {
	return append([]Block{r.Cap}, r.Parapet[:]...)
}

// Building é um prédio completo.
type Building struct {
	Stories []Story
	Roof    Roof
}

// Blocks achata o prédio: andares de baixo para cima, depois o telhado.
func (b Building) Blocks() []Block {
	var out []Block
	for _, s := range b.Stories {
		out = append(out, s.Blocks()...)
	}
	return append(out, b.Roof.Blocks()...)
}

var upAxis = mgl32.Vec3{0, 1, 0}

// faceFrame retorna a origem e a rotação local de uma face.
// A frente corre em +X a partir da origem; as outras seguem o perímetro no sentido horário visto de cima.
func faceFrame(f Face, width, depth float32) (mgl32.Vec3, mgl32.Quat) {
	switch f {
	case FaceRight:
		return mgl32.Vec3{width, 0, 0}, mgl32.QuatRotate(mgl32.DegToRad(-90), upAxis)
	case FaceBack:
		return mgl32.Vec3{width, 0, depth}, mgl32.QuatRotate(mgl32.DegToRad(180), upAxis)
	case FaceLeft:
		return mgl32.Vec3{0, 0, depth}, mgl32.QuatRotate(mgl32.DegToRad(-270), upAxis)
	default:
		return mgl32.Vec3{}, mgl32.QuatIdent()
	}
}

// DrawStory monta o andar storyIndex: frente, direita, fundo (reusa a frente)
// e esquerda (reusa o lado), nessa ordem, mais as lajes de piso e teto.
// Produz exatamente 2*len(Front) + 2*len(Side) seções.
func DrawStory(spec WallSpec, storyIndex int, p Placement, d Dimensions) Story {
	width, depth := d.Footprint(spec)
	y := float32(storyIndex) * d.StoryHeight

	faces := []struct {
		face Face
		bays []WallKind
	}{
		{FaceFront, spec.Front},
		{FaceRight, spec.Side},
		{FaceBack, spec.Front},
		{FaceLeft, spec.Side},
	}

	story := Story{Sections: make([]Section, 0, 2*len(spec.Front)+2*len(spec.Side))}
	for _, f := range faces {
		origin, rot := faceFrame(f.face, width, depth)
		origin[1] += y
		for bay, kind := range f.bays {
			sec := Section{Kind: kind, Face: f.face, Bay: bay}
			for _, b := range WallSection(kind, bay, d) {
				sec.Blocks = append(sec.Blocks, p.place(b, origin, rot))
			}
			story.Sections = append(story.Sections, sec)
		}
	}

	ct := d.ColumnThickness()
	ft := d.FloorThickness()
	slab := mgl32.Vec3{width - ct, ft, depth - ct}
	origin := mgl32.Vec3{0, y, 0}

	story.Floor = p.place(Block{
		Scale:   slab,
		Offset:  mgl32.Vec3{width / 2, 0.45 * ft, depth / 2},
		Texture: TexFloor,
	}, origin, mgl32.QuatIdent())
	story.Ceiling = p.place(Block{
		Scale:   slab,
		Offset:  mgl32.Vec3{width / 2, d.StoryHeight - 0.55*ft, depth / 2},
		Texture: TexCeiling,
	}, origin, mgl32.QuatIdent())
	return story
}

// DrawRoof cobre o andar top apoiado em y = level*StoryHeight.
func DrawRoof(top WallSpec, level int, p Placement, d Dimensions) Roof {
	width, depth := d.Footprint(top)
	ct := d.ColumnThickness()
	ft := d.FloorThickness()
	ph := d.ParapetHeight
	origin := mgl32.Vec3{0, float32(level) * d.StoryHeight, 0}
	yc := ft + ph/2

	strip := func(scale, center mgl32.Vec3) Block {
		return p.place(Block{Scale: scale, Offset: center, Texture: TexStone}, origin, mgl32.QuatIdent())
	}

	return Roof{
		Cap: p.place(Block{
			Scale:   mgl32.Vec3{width, ft, depth},
			Offset:  mgl32.Vec3{width / 2, ft / 2, depth / 2},
			Texture: TexRoof,
		}, origin, mgl32.QuatIdent()),
		Parapet: [4]Block{
			strip(mgl32.Vec3{width, ph, ct}, mgl32.Vec3{width / 2, yc, 0}),
			strip(mgl32.Vec3{width, ph, ct}, mgl32.Vec3{width / 2, yc, depth}),
			strip(mgl32.Vec3{ct, ph, depth}, mgl32.Vec3{0, yc, depth / 2}),
			strip(mgl32.Vec3{ct, ph, depth}, mgl32.Vec3{width, yc, depth / 2}),
		},
	}
}

// DrawBuilding empilha os andares e fecha com o telhado, dimensionado pelo último andar.
func DrawBuilding(spec BuildingSpec, p Placement, d Dimensions) Building {
	b := Building{Stories: make([]Story, 0, len(spec.Stories))}
	for i, s := range spec.Stories {
		b.Stories = append(b.Stories, DrawStory(s, i, p, d))
	}
	b.Roof = DrawRoof(spec.Top(), len(spec.Stories), p, d)
	return b
}

// DefaultBuilding é o prédio padrão da cidade: térreo com porta e quatro andares de janelas.
func DefaultBuilding() BuildingSpec {
	ground := WallSpec{
		Front: []WallKind{WallWindow, WallDoor, WallWindow},
		Side:  []WallKind{WallSolid, WallWindow},
	}
	upper := WallSpec{
		Front: []WallKind{WallWindow, WallWindow, WallWindow},
		Side:  []WallKind{WallWindow, WallSolid},
	}
	return BuildingSpec{Stories: []WallSpec{ground, upper, upper, upper, upper}}
}
