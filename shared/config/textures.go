package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// TextureDescriptor descreve um par de texturas (albedo + normal) da cidade.
type TextureDescriptor struct {
	Key    string  `yaml:"key" json:"key"`
	Albedo string  `yaml:"albedo" json:"albedo"`
	Normal string  `yaml:"normal" json:"normal"`
	Repeat float32 `yaml:"repeat" json:"repeat"`
}

// TextureManifest é o root do textures.yaml.
type TextureManifest struct {
	Textures []TextureDescriptor `yaml:"textures" json:"textures"`
}

//go:embed textures.schema.json
var manifestSchemaJSON string

const manifestSchemaURL = "textures.schema.json"

// DefaultTextures é a tabela embutida, usada quando não há manifesto.
func DefaultTextures() []TextureDescriptor {
	return []TextureDescriptor{
		{Key: "brick", Albedo: "redbrick_albedo.png", Normal: "redbrick_normal.png", Repeat: 0.5},
		{Key: "ground", Albedo: "cobblestone_albedo.png", Normal: "cobblestone_normal.png", Repeat: 0.25},
		{Key: "roof", Albedo: "roof_gravel_albedo.png", Normal: "roof_gravel_normal.png", Repeat: 0.5},
		{Key: "floor", Albedo: "terracotta_floor_albedo.png", Normal: "terracotta_floor_normal.png", Repeat: 0.5},
		{Key: "ceiling", Albedo: "ceiling_tiles_albedo.png", Normal: "ceiling_tiles_normal.png", Repeat: 0.5},
		{Key: "stone", Albedo: "white_stone_albedo.png", Normal: "white_stone_normal.png", Repeat: 0.5},
	}
}

// LoadTextures retorna os descritores do manifesto YAML em path,
// ou a tabela embutida se path estiver vazio.
func LoadTextures(path string) ([]TextureDescriptor, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultTextures(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler manifesto de texturas: %w", err)
	}
	return ParseTextures(raw)
}

// ParseTextures decodifica e valida um manifesto YAML.
func ParseTextures(raw []byte) ([]TextureDescriptor, error) {
	if err := validateManifest(raw); err != nil {
		return nil, err
	}
	var m TextureManifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("textures.yaml: %w", err)
	}
	if err := ValidateTextures(m.Textures); err != nil {
		return nil, fmt.Errorf("textures.yaml: %w", err)
	}
	return m.Textures, nil
}

// ValidateTextures verifica a lista mesmo quando ela não veio de um manifesto.
func ValidateTextures(descs []TextureDescriptor) error {
	if len(descs) == 0 {
		return fmt.Errorf("lista de texturas vazia")
	}
	for i, d := range descs {
		switch {
		case strings.TrimSpace(d.Key) == "":
			return fmt.Errorf("textura #%d sem key", i)
		case strings.TrimSpace(d.Albedo) == "" || strings.TrimSpace(d.Normal) == "":
			return fmt.Errorf("textura %q sem arquivo albedo/normal", d.Key)
		case d.Repeat <= 0:
			return fmt.Errorf("textura %q com repeat inválido: %v", d.Key, d.Repeat)
		}
	}
	return nil
}

// validateManifest confere o YAML contra o schema embutido.
// O YAML é normalizado para JSON antes, pois o validador só entende tipos JSON.
func validateManifest(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("textures.yaml: %w", err)
	}
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("textures.yaml: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(asJSON))
	dec.UseNumber()
	var normalized any
	if err := dec.Decode(&normalized); err != nil {
		return fmt.Errorf("textures.yaml: %w", err)
	}

	schema, err := jsonschema.CompileString(manifestSchemaURL, manifestSchemaJSON)
	if err != nil {
		return fmt.Errorf("schema de texturas inválido: %w", err)
	}
	if err := schema.Validate(normalized); err != nil {
		return fmt.Errorf("textures.yaml fora do schema: %w", err)
	}
	return nil
}
