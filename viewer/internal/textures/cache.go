// Package textures carrega os pares albedo/normal da cidade em buffers RGBA na CPU.
// Nenhuma chamada de GPU acontece aqui.
package textures

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	// Decodificadores registrados em image.Decode
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/dustin/go-humanize"
	xdraw "golang.org/x/image/draw"

	"RenderBench/shared/config"
)

// TextureSet é um par de imagens imutável identificado por uma chave semântica.
type TextureSet struct {
	Key    string
	Albedo *image.RGBA
	Normal *image.RGBA
	Repeat float32
}

// AssetLoadError indica um arquivo de textura ausente ou corrompido.
type AssetLoadError struct {
	Key  string
	Path string
	Err  error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("textura %q: falha ao carregar %s: %v", e.Key, e.Path, e.Err)
}

func (e *AssetLoadError) Unwrap() error { return e.Err }

// Cache guarda as imagens já decodificadas, indexadas pelo nome do arquivo.
// Não é seguro para uso concorrente; o CityBuilder só o usa na fase de inicialização.
type Cache struct {
	dir     string
	maxSize int
	images  map[string]*image.RGBA
}

// NewCache cria um cache para o diretório dir. maxSize > 0 limita o maior
// lado de cada imagem (reescala CatmullRom).
func NewCache(dir string, maxSize int) *Cache {
	return &Cache{
		dir:     dir,
		maxSize: maxSize,
		images:  make(map[string]*image.RGBA),
	}
}

// Load decodifica todos os descritores. Chaves duplicadas: a última vence.
func Load(dir string, descs []config.TextureDescriptor) (map[string]TextureSet, error) {
	return NewCache(dir, 0).Load(descs)
}

// Load decodifica os pares de cada descritor e retorna o mapa chave -> TextureSet.
// Qualquer arquivo ilegível aborta o carregamento inteiro.
func (c *Cache) Load(descs []config.TextureDescriptor) (map[string]TextureSet, error) {
	out := make(map[string]TextureSet, len(descs))
	for _, d := range descs {
		albedo, err := c.get(d.Key, d.Albedo)
		if err != nil {
			return nil, err
		}
		normal, err := c.get(d.Key, d.Normal)
		if err != nil {
			return nil, err
		}
		if _, dup := out[d.Key]; dup {
			log.Printf("[Textures] AVISO: chave duplicada %q, a última definição vence", d.Key)
		}
		out[d.Key] = TextureSet{Key: d.Key, Albedo: albedo, Normal: normal, Repeat: d.Repeat}
	}
	log.Printf("[Textures] %d conjuntos carregados (%d arquivos, %s em RAM)",
		len(out), len(c.images), humanize.Bytes(c.Bytes()))
	return out, nil
}

// Len retorna quantos arquivos distintos foram decodificados.
func (c *Cache) Len() int { return len(c.images) }

// Bytes retorna o total de bytes de pixels guardados.
func (c *Cache) Bytes() uint64 {
	var total uint64
	for _, img := range c.images {
		total += uint64(len(img.Pix))
	}
	return total
}

func (c *Cache) get(key, file string) (*image.RGBA, error) {
	if img, ok := c.images[file]; ok {
		return img, nil
	}
	path := filepath.Join(c.dir, file)
	img, err := decodeFile(path)
	if err != nil {
		return nil, &AssetLoadError{Key: key, Path: path, Err: err}
	}
	if c.maxSize > 0 {
		img = downscale(img, c.maxSize)
	}
	c.images[file] = img
	return img, nil
}

func decodeFile(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decodificação: %w", err)
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("imagem vazia")
	}
	return toRGBA(src), nil
}

// toRGBA converte para RGBA com origem em (0,0), que é o layout que a GPU espera.
func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Copy(dst, image.Point{}, src, b, xdraw.Src, nil)
	return dst
}

// downscale reduz img para que o maior lado caiba em limit, mantendo a proporção.
func downscale(img *image.RGBA, limit int) *image.RGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w <= limit && h <= limit {
		return img
	}
	nw, nh := limit, limit
	if w > h {
		nh = max(1, h*limit/w)
	} else {
		nw = max(1, w*limit/h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}
