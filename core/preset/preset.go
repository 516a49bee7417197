// Package preset loads material presets: YAML documents interpolated as Go
// templates with the sprig function set, then applied to a shader.
package preset

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/benji-bou/annocfg/core/proptree"
	"github.com/benji-bou/annocfg/core/shader"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

var ErrUnknownKey = errors.New("preset key has no link in shader")

type Preset struct {
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Version     string         `yaml:"version,omitempty" json:"version,omitempty"`
	Author      string         `yaml:"author,omitempty" json:"author,omitempty"`
	Shader      string         `yaml:"shader" json:"shader" description:"Shader id, the default shader when unknown"`
	Material    Material       `yaml:"material" json:"material"`
	Variables   map[string]any `yaml:"-" json:"-"`
}

// Material lists socket values by link key.
type Material struct {
	Name     string             `yaml:"name,omitempty" json:"name,omitempty"`
	Floats   map[string]float64 `yaml:"floats,omitempty" json:"floats,omitempty"`
	Colors   map[string]Color   `yaml:"colors,omitempty" json:"colors,omitempty"`
	Flags    map[string]bool    `yaml:"flags,omitempty" json:"flags,omitempty"`
	Textures map[string]string  `yaml:"textures,omitempty" json:"textures,omitempty"`
}

func (p Preset) Raw() ([]byte, error) {
	raw, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal preset to yaml, %w", err)
	}
	return raw, nil
}

func NewFile(path string, variables map[string]any) (Preset, error) {
	content, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return Preset{}, err
	}
	return New(content, variables)
}

// New interpolates raw with variables and decodes the result. Unknown fields
// are rejected.
func New(raw []byte, variables map[string]any) (Preset, error) {
	raw, err := InterpolateVariable(raw, variables)
	if err != nil {
		return Preset{}, fmt.Errorf("parsing preset, %w", err)
	}
	p := Preset{Variables: variables}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return Preset{}, fmt.Errorf("decoding preset, %w", err)
	}
	return p, nil
}

func InterpolateVariable(raw []byte, variables map[string]any) ([]byte, error) {
	goTpl, err := template.New("PresetInterpolation").Funcs(sprig.TxtFuncMap()).Parse(string(raw))
	if err != nil {
		return raw, fmt.Errorf("as go template failed, %w", err)
	}
	interpolated := &bytes.Buffer{}
	if err := goTpl.Execute(interpolated, variables); err != nil {
		return nil, fmt.Errorf("executing variable interpolation, %w", err)
	}
	return interpolated.Bytes(), nil
}

// FromMaterial captures m as a preset for shaderID.
func FromMaterial(shaderID string, m *shader.Material) Preset {
	return Preset{
		Name:   m.Name(),
		Shader: shaderID,
		Material: Material{
			Name:   m.Name(),
			Floats: m.Floats(),
			Colors: lo.MapValues(m.Colors(), func(c colorful.Color, _ string) Color {
				return Color{c.R, c.G, c.B}
			}),
			Flags:    m.Flags(),
			Textures: m.Textures(),
		},
	}
}

// NewShader instantiates the preset's shader from c.
func (p Preset) NewShader(c *shader.Catalog) (*shader.Shader, error) {
	return c.NewOrDefault(p.Shader)
}

// Validate reports every material key the shader has no link for.
func (p Preset) Validate(s *shader.Shader) error {
	keys := slices.Concat(
		lo.Keys(p.Material.Floats),
		lo.Keys(p.Material.Colors),
		lo.Keys(p.Material.Flags),
		lo.Keys(p.Material.Textures),
	)
	slices.Sort(keys)
	var errs []error
	for _, k := range keys {
		if !s.HasLink(k) && !isGatedFlag(s, k) {
			errs = append(errs, fmt.Errorf("%w: %s has no %s", ErrUnknownKey, s.ID, k))
		}
	}
	return errors.Join(errs...)
}

func isGatedFlag(s *shader.Shader, key string) bool {
	for _, l := range s.Links() {
		if f, ok := l.(*shader.FlagLink); ok {
			if slices.ContainsFunc(f.Gated(), func(g shader.Link) bool { return g.Key() == key }) {
				return true
			}
		}
	}
	return false
}

// State builds the material state described by the preset.
func (p Preset) State() *shader.Material {
	name := p.Material.Name
	if name == "" {
		name = p.Name
	}
	m := shader.NewMaterial(name)
	for k, f := range p.Material.Floats {
		m.SetFloat(k, f)
	}
	for k, c := range p.Material.Colors {
		m.SetColor(k, c.Color())
	}
	for k, b := range p.Material.Flags {
		m.SetFlag(k, b)
	}
	for k, file := range p.Material.Textures {
		m.SetTexture(k, file)
	}
	return m
}

// Export validates the preset against its shader and writes the material
// Config block.
func (p Preset) Export(c *shader.Catalog, reg *shader.GraphRegistry, settings shader.Settings) (*proptree.Node, error) {
	s, err := p.NewShader(c)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(s); err != nil {
		return nil, err
	}
	return s.Export(reg, p.State(), settings)
}
