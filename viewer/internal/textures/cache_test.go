package textures

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"RenderBench/shared/config"
)

func writePNG(t *testing.T, dir, name string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "brick_a.png", 4, 2, color.RGBA{200, 10, 10, 255})
	writePNG(t, dir, "brick_n.png", 4, 2, color.RGBA{128, 128, 255, 255})

	sets, err := Load(dir, []config.TextureDescriptor{
		{Key: "brick", Albedo: "brick_a.png", Normal: "brick_n.png", Repeat: 0.5},
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	set, ok := sets["brick"]
	if !ok {
		t.Fatal("brick missing")
	}
	if set.Repeat != 0.5 || set.Key != "brick" {
		t.Errorf("set = %+v", set)
	}
	if set.Albedo.Rect.Dx() != 4 || set.Albedo.Rect.Dy() != 2 {
		t.Errorf("albedo size = %v", set.Albedo.Rect)
	}
	if got := set.Albedo.RGBAAt(1, 1); got != (color.RGBA{200, 10, 10, 255}) {
		t.Errorf("albedo pixel = %v", got)
	}
	if len(set.Normal.Pix) != 4*2*4 {
		t.Errorf("normal pix = %d bytes, want 32", len(set.Normal.Pix))
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "a.png", 1, 1, color.White)

	_, err := Load(dir, []config.TextureDescriptor{
		{Key: "roof", Albedo: "a.png", Normal: "nao_existe.png", Repeat: 1},
	})
	var le *AssetLoadError
	if !errors.As(err, &le) {
		t.Fatalf("Load() error = %v, want *AssetLoadError", err)
	}
	if le.Key != "roof" || filepath.Base(le.Path) != "nao_existe.png" {
		t.Errorf("AssetLoadError = %+v", le)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error does not wrap os.ErrNotExist: %v", err)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "a.png", 1, 1, color.White)
	if err := os.WriteFile(filepath.Join(dir, "bad.png"), []byte("isto não é png"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir, []config.TextureDescriptor{
		{Key: "floor", Albedo: "bad.png", Normal: "a.png", Repeat: 1},
	})
	var le *AssetLoadError
	if !errors.As(err, &le) || filepath.Base(le.Path) != "bad.png" {
		t.Fatalf("Load() error = %v, want AssetLoadError naming bad.png", err)
	}
}

func TestLoadDeduplicatesFiles(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "shared_a.png", 2, 2, color.White)
	writePNG(t, dir, "shared_n.png", 2, 2, color.Black)

	c := NewCache(dir, 0)
	sets, err := c.Load([]config.TextureDescriptor{
		{Key: "floor", Albedo: "shared_a.png", Normal: "shared_n.png", Repeat: 1},
		{Key: "ceiling", Albedo: "shared_a.png", Normal: "shared_n.png", Repeat: 0.5},
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2 decoded files", c.Len())
	}
	if sets["floor"].Albedo != sets["ceiling"].Albedo {
		t.Error("same file decoded twice")
	}
	if c.Bytes() != 2*2*2*4 {
		t.Errorf("Bytes() = %d, want 32", c.Bytes())
	}
}

func TestLoadDuplicateKeyLastWins(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "a.png", 1, 1, color.White)

	sets, err := Load(dir, []config.TextureDescriptor{
		{Key: "stone", Albedo: "a.png", Normal: "a.png", Repeat: 1},
		{Key: "stone", Albedo: "a.png", Normal: "a.png", Repeat: 3},
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(sets) != 1 || sets["stone"].Repeat != 3 {
		t.Errorf("sets = %+v, want one entry with repeat 3", sets)
	}
}

func TestDownscale(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "big.png", 64, 16, color.RGBA{10, 20, 30, 255})

	c := NewCache(dir, 32)
	sets, err := c.Load([]config.TextureDescriptor{
		{Key: "ground", Albedo: "big.png", Normal: "big.png", Repeat: 0.25},
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	b := sets["ground"].Albedo.Rect
	if b.Dx() != 32 || b.Dy() != 8 {
		t.Errorf("downscaled size = %dx%d, want 32x8", b.Dx(), b.Dy())
	}
	got := sets["ground"].Albedo.RGBAAt(16, 4)
	want := color.RGBA{10, 20, 30, 255}
	if absDiff(got.R, want.R) > 1 || absDiff(got.G, want.G) > 1 || absDiff(got.B, want.B) > 1 {
		t.Errorf("pixel after resize = %v, want ~%v", got, want)
	}
}

func TestToRGBANormalizesOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 8, 7))
	src.SetRGBA(5, 5, color.RGBA{1, 2, 3, 4})
	dst := toRGBA(src)
	if dst.Rect.Min != (image.Point{}) || dst.Rect.Dx() != 3 || dst.Rect.Dy() != 2 {
		t.Fatalf("rect = %v", dst.Rect)
	}
	if dst.RGBAAt(0, 0) != (color.RGBA{1, 2, 3, 4}) {
		t.Errorf("pixel = %v", dst.RGBAAt(0, 0))
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
