package city

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

var testDims = Dimensions{BayWidth: 4, StoryHeight: 3, WallThickness: 0.1, ParapetHeight: 0.5}

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-4 }

func nearVec(a, b mgl32.Vec3) bool {
	return near(a[0], b[0]) && near(a[1], b[1]) && near(a[2], b[2])
}

func TestBands(t *testing.T) {
	tests := []struct {
		kind                 WallKind
		h                    float32
		top, opening, bottom float32
	}{
		{WallWindow, 3, 0.75, 1.5, 0.75},
		{WallWindow, 4, 1, 2, 1},
		{WallWindow, 2.5, 0.625, 1.25, 0.625},
		{WallDoor, 3, 0.75, 2.25, 0},
		{WallDoor, 4, 1, 3, 0},
		{WallDoor, 2.5, 0.625, 1.875, 0},
		{WallSolid, 3, 3, 0, 0},
		{WallNone, 3, 0, 3, 0},
	}
	for _, tt := range tests {
		top, opening, bottom := Bands(tt.kind, tt.h)
		if top != tt.top || opening != tt.opening || bottom != tt.bottom {
			t.Errorf("Bands(%v, %v) = (%v, %v, %v), want (%v, %v, %v)",
				tt.kind, tt.h, top, opening, bottom, tt.top, tt.opening, tt.bottom)
		}
		if top+opening+bottom != tt.h {
			t.Errorf("Bands(%v, %v) sum = %v, want %v", tt.kind, tt.h, top+opening+bottom, tt.h)
		}
	}
}

func TestWallSectionBlocks(t *testing.T) {
	tests := []struct {
		kind  WallKind
		count int
	}{
		{WallNone, 1},
		{WallSolid, 2},
		{WallDoor, 2},
		{WallWindow, 3},
	}
	for _, tt := range tests {
		blocks := WallSection(tt.kind, 0, testDims)
		if len(blocks) != tt.count {
			t.Errorf("WallSection(%v) = %d blocks, want %d", tt.kind, len(blocks), tt.count)
			continue
		}
		col := blocks[0]
		if col.Texture != TexStone || col.Scale != (mgl32.Vec3{0.2, 3, 0.2}) {
			t.Errorf("%v column = %+v", tt.kind, col)
		}
		for _, b := range blocks[1:] {
			if b.Texture != TexBrick {
				t.Errorf("%v infill texture = %s", tt.kind, b.Texture)
			}
			if !near(b.Scale[0], 3.8) {
				t.Errorf("%v infill width = %v, want 3.8", tt.kind, b.Scale[0])
			}
			// O enchimento começa onde a coluna termina e vai até a borda da baia.
			if !near(b.Offset[0]-b.Scale[0]/2, 0.2) || !near(b.Offset[0]+b.Scale[0]/2, 4) {
				t.Errorf("%v infill spans [%v, %v]", tt.kind, b.Offset[0]-b.Scale[0]/2, b.Offset[0]+b.Scale[0]/2)
			}
		}
	}
}

func TestWallSectionWindowOpening(t *testing.T) {
	blocks := WallSection(WallWindow, 2, testDims)
	top, bottom := blocks[1], blocks[2]
	if !near(top.Offset[1]+top.Scale[1]/2, 3) || !near(top.Offset[1]-top.Scale[1]/2, 2.25) {
		t.Errorf("top band = %+v", top)
	}
	if !near(bottom.Offset[1]-bottom.Scale[1]/2, 0) || !near(bottom.Offset[1]+bottom.Scale[1]/2, 0.75) {
		t.Errorf("bottom band = %+v", bottom)
	}
	if !near(blocks[0].Offset[0], 8.1) {
		t.Errorf("bay 2 column x = %v, want 8.1", blocks[0].Offset[0])
	}
}

func TestWallSectionDoorOpening(t *testing.T) {
	blocks := WallSection(WallDoor, 0, testDims)
	lintel := blocks[1]
	if !near(lintel.Offset[1]-lintel.Scale[1]/2, 2.25) || !near(lintel.Scale[1], 0.75) {
		t.Errorf("lintel = %+v", lintel)
	}
}

func TestDrawStorySectionCount(t *testing.T) {
	tests := []struct {
		front, side []WallKind
	}{
		{[]WallKind{WallSolid}, []WallKind{WallSolid}},
		{[]WallKind{WallWindow, WallDoor, WallWindow}, []WallKind{WallSolid, WallWindow}},
		{[]WallKind{WallNone, WallNone, WallNone, WallNone}, []WallKind{WallWindow}},
	}
	for _, tt := range tests {
		spec := WallSpec{Front: tt.front, Side: tt.side}
		story := DrawStory(spec, 0, Placement{}, testDims)
		want := 2*len(tt.front) + 2*len(tt.side)
		if len(story.Sections) != want {
			t.Errorf("F=%d S=%d: %d sections, want %d", len(tt.front), len(tt.side), len(story.Sections), want)
		}
		perFace := map[Face]int{}
		for _, s := range story.Sections {
			perFace[s.Face]++
		}
		if perFace[FaceFront] != len(tt.front) || perFace[FaceBack] != len(tt.front) ||
			perFace[FaceRight] != len(tt.side) || perFace[FaceLeft] != len(tt.side) {
			t.Errorf("per face = %v", perFace)
		}
		if story.Floor.Texture != TexFloor || story.Ceiling.Texture != TexCeiling {
			t.Errorf("slabs = %s/%s", story.Floor.Texture, story.Ceiling.Texture)
		}
	}
}

func TestDrawStoryFacesFollowPerimeter(t *testing.T) {
	spec := WallSpec{Front: []WallKind{WallSolid, WallSolid}, Side: []WallKind{WallSolid}}
	story := DrawStory(spec, 1, Placement{}, testDims)
	// largura 8, profundidade 4
	wantColumns := map[Face]mgl32.Vec3{
		FaceFront: {0.1, 4.5, 0},
		FaceRight: {8, 4.5, 0.1},
		FaceBack:  {7.9, 4.5, 4},
		FaceLeft:  {0, 4.5, 3.9},
	}
	for _, s := range story.Sections {
		if s.Bay != 0 {
			continue
		}
		got := s.Blocks[0].Center()
		if !nearVec(got, wantColumns[s.Face]) {
			t.Errorf("%v column center = %v, want %v", s.Face, got, wantColumns[s.Face])
		}
	}
}

func TestDrawStorySlabs(t *testing.T) {
	spec := WallSpec{Front: []WallKind{WallSolid, WallSolid}, Side: []WallKind{WallSolid}}
	story := DrawStory(spec, 2, Placement{}, testDims)
	ft := testDims.FloorThickness()
	if c := story.Floor.Center(); !nearVec(c, mgl32.Vec3{4, 6 + 0.45*ft, 2}) {
		t.Errorf("floor center = %v", c)
	}
	if c := story.Ceiling.Center(); !nearVec(c, mgl32.Vec3{4, 9 - 0.55*ft, 2}) {
		t.Errorf("ceiling center = %v", c)
	}
	if !near(story.Floor.Scale[0], 7.8) || !near(story.Floor.Scale[2], 3.8) {
		t.Errorf("floor scale = %v", story.Floor.Scale)
	}
}

func TestDrawBuildingRoofFromTopStory(t *testing.T) {
	spec := BuildingSpec{Stories: []WallSpec{
		{Front: []WallKind{WallDoor, WallSolid, WallSolid}, Side: []WallKind{WallSolid, WallSolid}},
		{Front: []WallKind{WallWindow}, Side: []WallKind{WallWindow}},
	}}
	b := DrawBuilding(spec, Placement{}, testDims)
	if len(b.Stories) != 2 {
		t.Fatalf("stories = %d", len(b.Stories))
	}
	if got := b.Roof.Cap.Scale; !near(got[0], 4) || !near(got[2], 4) {
		t.Errorf("roof cap scale = %v, want top story footprint 4x4", got)
	}
	if c := b.Roof.Cap.Center(); !near(c[1], 6+0.05) {
		t.Errorf("roof cap y = %v", c[1])
	}
	for i, p := range b.Roof.Parapet {
		if p.Texture != TexStone || !near(p.Scale[1], testDims.ParapetHeight) {
			t.Errorf("parapet %d = %+v", i, p)
		}
	}
	wantBlocks := 0
	for _, s := range b.Stories {
		wantBlocks += len(s.Blocks())
	}
	if got := len(b.Blocks()); got != wantBlocks+5 {
		t.Errorf("Blocks() = %d, want %d", got, wantBlocks+5)
	}
}

func TestPlacementRotatesBuilding(t *testing.T) {
	spec := WallSpec{Front: []WallKind{WallSolid}, Side: []WallKind{WallSolid}}
	p := Placement{Position: mgl32.Vec3{10, 0, 0}, Yaw: math.Pi / 2}
	story := DrawStory(spec, 0, p, testDims)
	// Com giro de 90°, +X local vira -Z.
	got := story.Sections[0].Blocks[0].Center()
	if !nearVec(got, mgl32.Vec3{10, 1.5, -0.1}) {
		t.Errorf("rotated column center = %v", got)
	}
}

func TestGridCellsSymmetric(t *testing.T) {
	for _, r := range []int{1, 2, 3, 8} {
		g := Grid{Rows: r, Cols: r, Spacing: 20}
		cells := g.All()
		if len(cells) != r*r {
			t.Errorf("R=%d: %d cells, want %d", r, len(cells), r*r)
		}
		var sum mgl32.Vec3
		var minX, maxX, minZ, maxZ float32
		for _, c := range cells {
			sum = sum.Add(c.Center)
			minX, maxX = min(minX, c.Center[0]), max(maxX, c.Center[0])
			minZ, maxZ = min(minZ, c.Center[2]), max(maxZ, c.Center[2])
		}
		if !nearVec(sum, mgl32.Vec3{}) {
			t.Errorf("R=%d: centers sum to %v", r, sum)
		}
		if minX != -maxX || minZ != -maxZ {
			t.Errorf("R=%d: extent x[%v,%v] z[%v,%v] not symmetric", r, minX, maxX, minZ, maxZ)
		}
	}
}

func TestGridCellsRange(t *testing.T) {
	g := Grid{Rows: 8, Cols: 8, Spacing: 10}
	if got := len(g.Cells(0, 4)); got != 32 {
		t.Errorf("Cells(0,4) = %d, want 32", got)
	}
	if got := len(g.Cells(4, 100)); got != 32 {
		t.Errorf("Cells(4,100) = %d, want 32", got)
	}
	if got := g.Cells(5, 5); got != nil {
		t.Errorf("Cells(5,5) = %v, want nil", got)
	}
	for _, c := range g.Cells(6, 7) {
		if c.Row != 6 {
			t.Errorf("cell row = %d, want 6", c.Row)
		}
	}
}

func TestDrawGridCentersFootprints(t *testing.T) {
	spec := DefaultBuilding()
	spacing := AutoSpacing(spec, testDims)
	g := Grid{Rows: 2, Cols: 2, Spacing: spacing}
	buildings := DrawGrid(g.All(), Same(spec), testDims)
	if len(buildings) != 4 {
		t.Fatalf("buildings = %d", len(buildings))
	}
	w, d := testDims.Footprint(spec.Top())
	for i, b := range buildings {
		rc := b.Roof.Cap.Center()
		cell := g.All()[i].Center
		if !near(rc[0], cell[0]) || !near(rc[2], cell[2]) {
			t.Errorf("building %d roof center %v, cell center %v", i, rc, cell)
		}
	}
	if spacing <= max(w, d) {
		t.Errorf("AutoSpacing = %v leaves no street", spacing)
	}
}

func TestDrawGridChooser(t *testing.T) {
	tall := DefaultBuilding()
	short := BuildingSpec{Stories: tall.Stories[:1]}
	g := Grid{Rows: 1, Cols: 2, Spacing: 30}
	buildings := DrawGrid(g.All(), func(c Cell) BuildingSpec {
		if c.Col == 0 {
			return short
		}
		return tall
	}, testDims)
	if len(buildings[0].Stories) != 1 || len(buildings[1].Stories) != len(tall.Stories) {
		t.Errorf("stories = %d/%d", len(buildings[0].Stories), len(buildings[1].Stories))
	}
}

func TestGround(t *testing.T) {
	g := Grid{Rows: 4, Cols: 3, Spacing: 10}
	ground := Ground(g, testDims)
	if ground.Scale != (mgl32.Vec3{30, 0.1, 40}) {
		t.Errorf("ground scale = %v", ground.Scale)
	}
	if !near(ground.Center()[1]+ground.Scale[1]/2, 0) {
		t.Errorf("ground top = %v, want 0", ground.Center()[1]+ground.Scale[1]/2)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		spec BuildingSpec
		ok   bool
	}{
		{"default", DefaultBuilding(), true},
		{"empty", BuildingSpec{}, false},
		{"no side", BuildingSpec{Stories: []WallSpec{{Front: []WallKind{WallSolid}}}}, false},
		{"ragged", BuildingSpec{Stories: []WallSpec{
			{Front: []WallKind{WallSolid, WallSolid}, Side: []WallKind{WallSolid}},
			{Front: []WallKind{WallSolid}, Side: []WallKind{WallSolid}},
		}}, true},
	}
	for _, tt := range tests {
		if err := tt.spec.Validate(); (err == nil) != tt.ok {
			t.Errorf("%s: Validate() = %v, want ok=%v", tt.name, err, tt.ok)
		}
	}
	if !DefaultBuilding().Uniform() {
		t.Error("DefaultBuilding() not uniform")
	}
	if tests[3].spec.Uniform() {
		t.Error("ragged spec reported uniform")
	}
}
