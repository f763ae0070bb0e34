package city

import "github.com/go-gl/mathgl/mgl32"

// Grid é uma grade Rows x Cols de prédios centrada na origem.
type Grid struct {
	Rows    int
	Cols    int
	Spacing float32
}

// Cell é uma célula da grade com o centro em coordenadas de mundo.
type Cell struct {
	Row    int
	Col    int
	Center mgl32.Vec3
}

// streetBays é a largura da rua entre prédios, em baias.
const streetBays = 2

// AutoSpacing retorna o espaçamento para spec: maior lado do prédio mais a rua.
func AutoSpacing(spec BuildingSpec, d Dimensions) float32 {
	w, dep := d.Footprint(spec.Top())
	return max(w, dep) + streetBays*d.BayWidth
}

// Center retorna o centro da célula (row, col).
func (g Grid) Center(row, col int) mgl32.Vec3 {
	x := (float32(col) - float32(g.Cols-1)/2) * g.Spacing
	z := (float32(row) - float32(g.Rows-1)/2) * g.Spacing
	return mgl32.Vec3{x, 0, z}
}

// Cells retorna as células das linhas [rowStart, rowEnd), limitadas à grade.
func (g Grid) Cells(rowStart, rowEnd int) []Cell {
	rowStart = max(rowStart, 0)
	rowEnd = min(rowEnd, g.Rows)
	if rowEnd <= rowStart || g.Cols <= 0 {
		return nil
	}
	cells := make([]Cell, 0, (rowEnd-rowStart)*g.Cols)
	for r := rowStart; r < rowEnd; r++ {
		for c := 0; c < g.Cols; c++ {
			cells = append(cells, Cell{Row: r, Col: c, Center: g.Center(r, c)})
		}
	}
	return cells
}

// All retorna todas as células.
func (g Grid) All() []Cell { return g.Cells(0, g.Rows) }

// PlacementFor centraliza a pegada de spec sobre o centro da célula.
func PlacementFor(cell Cell, spec BuildingSpec, d Dimensions) Placement {
	w, dep := d.Footprint(spec.Top())
	return Placement{Position: cell.Center.Sub(mgl32.Vec3{w / 2, 0, dep / 2})}
}

// Same retorna um seletor que usa o mesmo prédio em toda célula.
func Same(spec BuildingSpec) func(Cell) BuildingSpec {
	return func(Cell) BuildingSpec { return spec }
}

// DrawGrid compõe um prédio por célula. choose escolhe o prédio de cada célula.
func DrawGrid(cells []Cell, choose func(Cell) BuildingSpec, d Dimensions) []Building {
	out := make([]Building, 0, len(cells))
	for _, c := range cells {
		spec := choose(c)
		out = append(out, DrawBuilding(spec, PlacementFor(c, spec, d), d))
	}
	return out
}

// Ground é a laje de chão sob a grade inteira, com o topo em y = 0.
func Ground(g Grid, d Dimensions) Block {
	ft := d.FloorThickness()
	return Block{
		Scale:    mgl32.Vec3{float32(g.Cols) * g.Spacing, ft, float32(g.Rows) * g.Spacing},
		Offset:   mgl32.Vec3{0, -ft / 2, 0},
		Rotation: mgl32.QuatIdent(),
		Texture:  TexGround,
	}
}
