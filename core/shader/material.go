package shader

import (
	"maps"
	"path"
	"strings"

	"github.com/benji-bou/annocfg/core/graph"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// MaterialState reads the current socket values of an instantiated shader.
// Missing values report false and the link falls back to its default.
type MaterialState interface {
	Name() string
	Float(key string) (float64, bool)
	Color(key string) (colorful.Color, bool)
	Flag(key string) (bool, bool)
	Texture(key string) (string, bool)
}

// Settings carries the export options shared by every link.
type Settings struct {
	// TextureQuality is the suffix of the texture variant loaded in the editor,
	// "0" for the highest quality.
	TextureQuality string
}

func DefaultSettings() Settings {
	return Settings{TextureQuality: "0"}
}

// Material is an in-memory MaterialState.
type Material struct {
	name     string
	floats   map[string]float64
	colors   map[string]colorful.Color
	flags    map[string]bool
	textures map[string]string
}

func NewMaterial(name string) *Material {
	return &Material{
		name:     name,
		floats:   map[string]float64{},
		colors:   map[string]colorful.Color{},
		flags:    map[string]bool{},
		textures: map[string]string{},
	}
}

func (m *Material) Name() string        { return m.name }
func (m *Material) SetName(name string) { m.name = name }

func (m *Material) Float(key string) (float64, bool) {
	f, ok := m.floats[key]
	return f, ok
}

func (m *Material) Color(key string) (colorful.Color, bool) {
	c, ok := m.colors[key]
	return c, ok
}

func (m *Material) Flag(key string) (bool, bool) {
	b, ok := m.flags[key]
	return b, ok
}

func (m *Material) Texture(key string) (string, bool) {
	t, ok := m.textures[key]
	return t, ok
}

func (m *Material) SetFloat(key string, f float64) *Material {
	m.floats[key] = f
	return m
}

// SetColor stores c as is. Multipliers above 1 are legal.
func (m *Material) SetColor(key string, c colorful.Color) *Material {
	m.colors[key] = c
	return m
}

func (m *Material) SetFlag(key string, b bool) *Material {
	m.flags[key] = b
	return m
}

func (m *Material) SetTexture(key, file string) *Material {
	m.textures[key] = file
	return m
}

func (m *Material) Floats() map[string]float64 {
	return maps.Clone(m.floats)
}

func (m *Material) Colors() map[string]colorful.Color {
	return maps.Clone(m.colors)
}

func (m *Material) Flags() map[string]bool {
	return maps.Clone(m.flags)
}

func (m *Material) Textures() map[string]string {
	return maps.Clone(m.textures)
}

// Values converts the numeric state into group input values for
// graph.ShaderGraph.Evaluate. Textures carry no value and are left out.
func (m *Material) Values() map[string]graph.Value {
	res := make(map[string]graph.Value, len(m.floats)+len(m.colors))
	for k, f := range m.floats {
		res[k] = graph.Scalar(f)
	}
	for k, c := range m.colors {
		res[k] = colorValue(c)
	}
	return res
}

func colorValue(c colorful.Color) graph.Value {
	return graph.Value{c.R, c.G, c.B}
}

// ExportTexturePath turns the texture loaded in the editor back into the path
// referenced by the game files: the quality suffix is dropped and the
// extension becomes the authoring one, ".psd", unless the file is a ".png".
func ExportTexturePath(file string, s Settings) string {
	dir, base := path.Split(strings.ReplaceAll(file, `\`, "/"))
	file = dir + strings.ReplaceAll(base, "_"+s.TextureQuality+".", ".")
	ext := path.Ext(file)
	if strings.EqualFold(ext, ".png") {
		return file
	}
	return strings.TrimSuffix(file, ext) + ".psd"
}

// ImportTexturePath maps a game path to the compiled texture of the selected
// quality, "x.psd" becoming "x_<quality>.dds".
func ImportTexturePath(file string, s Settings) string {
	if file == "" {
		return ""
	}
	file = strings.ReplaceAll(file, `\`, "/")
	return strings.TrimSuffix(file, path.Ext(file)) + "_" + s.TextureQuality + ".dds"
}
