package shader

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/benji-bou/annocfg/core/convert"
	"github.com/samber/lo"
)

const (
	AnnoDefaultShaderID     = "AnnoDefaultShader"
	SimplePBRPropShaderID   = "SimplePBRPropShader"
	DecalDetailPropShaderID = "DecalDetailPropShader"

	defaultVertexFormat = "P4h_N4b_G4b_B4b_T2h"
)

var ErrUnknownShader = errors.New("unknown shader")

// AnnoDefaultShader is the shader of regular building models.
func AnnoDefaultShader() *Shader {
	return NewShader(AnnoDefaultShaderID, func(t *Template) error {
		diffuse := t.AddDiffuse("cDiffuse", "cDiffuseMultiplier")
		diffuse = t.AddDye(diffuse, "cDyeMask")
		t.AddNormal("cNormal", "cHeight")
		t.AddGloss("Glossiness")
		t.AddMetallic("cMetallic")
		t.AddEmission(diffuse, "cEmissiveColor", "cNightGlow")
		return t.Finish("Alpha")
	}).
		Compose(LegacyComponent()).
		Compose(CommonComponent()).
		Compose(TerrainAdaptionComponent()).
		Compose(EnvironmentComponent()).
		Compose(GlowComponent()).
		MustSetProperty("VertexFormat", convert.StringValue(defaultVertexFormat))
}

// SimplePBRPropShader is used by props. It has no material properties.
func SimplePBRPropShader() *Shader {
	return NewShader(SimplePBRPropShaderID, func(t *Template) error {
		diffuse := t.AddDiffuse("cDiffuse", "cDiffuseMultiplier")
		diffuse = t.AddDye(diffuse, "cDyeMask")
		t.AddNormal("cNormal", "")
		t.AddGloss("Glossiness")
		t.AddMetallic("cMetallic")
		t.AddEmission(diffuse, "cEmissiveColor", "cNightGlow")
		return t.Finish("Alpha")
	}).
		Compose(CommonComponent()).
		Compose(MetallicComponent()).
		Compose(TerrainAdaptionComponent()).
		Compose(EnvironmentComponent()).
		Compose(GlowComponent()).
		AddLink(NewFlagLink("Force Alphablending", "FORCE_ALPHA_BLEND")).
		AddLink(NewFlagLink("Disable Revive Distance", "DisableReviveDistance")).
		ClearProperties()
}

// DecalDetailPropShader only carries a diffuse layer.
func DecalDetailPropShader() *Shader {
	return NewShader(DecalDetailPropShaderID, func(t *Template) error {
		t.AddDiffuse("cDiffuse", "cDiffuseMultiplier")
		return t.Finish("Alpha")
	}).
		Compose(PropBasicDiffuseComponent()).
		ClearProperties()
}

type Factory func() *Shader

// Catalog maps shader ids to their factories. Ids without a factory fall back
// to the default one when asked through NewOrDefault.
type Catalog struct {
	factories map[string]Factory
	fallback  Factory
	rwMutex   sync.RWMutex
}

func NewCatalog(fallback Factory) *Catalog {
	return &Catalog{factories: map[string]Factory{}, fallback: fallback}
}

var DefaultCatalog = sync.OnceValue(func() *Catalog {
	c := NewCatalog(AnnoDefaultShader)
	c.Register(AnnoDefaultShaderID, AnnoDefaultShader)
	c.Register(SimplePBRPropShaderID, SimplePBRPropShader)
	c.Register(DecalDetailPropShaderID, DecalDetailPropShader)
	return c
})

func (c *Catalog) Register(id string, f Factory) {
	c.rwMutex.Lock()
	defer c.rwMutex.Unlock()
	c.factories[id] = f
}

// New instantiates the shader registered under id.
func (c *Catalog) New(id string) (*Shader, error) {
	c.rwMutex.RLock()
	f, ok := c.factories[id]
	c.rwMutex.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShader, id)
	}
	return f(), nil
}

func (c *Catalog) NewOrDefault(id string) (*Shader, error) {
	s, err := c.New(id)
	if err == nil {
		return s, nil
	}
	if c.fallback == nil {
		return nil, err
	}
	slog.Info("shader not found, using default shader", "shader", id)
	return c.fallback(), nil
}

// IDs lists the registered ids sorted.
func (c *Catalog) IDs() []string {
	c.rwMutex.RLock()
	defer c.rwMutex.RUnlock()
	ids := lo.Keys(c.factories)
	slices.Sort(ids)
	return ids
}
