package shader

import (
	"slices"

	"github.com/benji-bou/annocfg/core/convert"
)

// Component is a named, ordered bundle of links describing one material
// feature.
type Component struct {
	Name  string
	links []Link
}

func NewComponent(name string, links ...Link) Component {
	return Component{Name: name, links: links}
}

func (c Component) Links() []Link {
	return slices.Clone(c.links)
}

// With returns a component holding c's links followed by others' links.
func (c Component) With(others ...Component) Component {
	res := Component{Name: c.Name, links: slices.Clone(c.links)}
	for _, o := range others {
		res.links = append(res.links, o.links...)
	}
	return res
}

var (
	white = convert.RGB(1, 1, 1)
	black = convert.RGB(0, 0, 0)
)

func DiffuseComponent() Component {
	return NewComponent("Diffuse",
		NewTextureLink("cDiffuse", "cModelDiffTex", "DIFFUSE_ENABLED"),
		NewColorLink("cDiffuseMultiplier", "cDiffuseColor", white),
		NewTextureLink("cDyeMask", "cDyeMaskTex", "DYE_MASK_ENABLED"),
		NewFloatLink("Alpha", "cOpacity", 1.0),
	)
}

func NormalComponent() Component {
	return NewComponent("Normal",
		NewTextureLink("cNormal", "cModelNormalTex", "NORMAL_ENABLED"),
		NewTextureLink("cHeight", "cHeightMap", "HEIGHT_MAP_ENABLED"),
		NewFloatLink("Glossiness", "cGlossinessFactor", 1.0),
	)
}

// MetallicComponent is the PBR metal layer. It declares cMetallic again on top
// of CommonComponent; the later declaration wins.
func MetallicComponent() Component {
	return NewComponent("Metallic",
		NewTextureLink("cMetallic", "cModelMetallicTex", "METALLIC_TEX_ENABLED"),
		NewTextureLink("cSeparateAOTex", "cSeparateAOTex", "SEPARATE_AO_TEXTURE"),
	)
}

func CommonComponent() Component {
	return NewComponent("Common").With(
		DiffuseComponent(),
		NormalComponent(),
		NewComponent("CommonMetallic", NewTextureLink("cMetallic", "cModelMetallicTex", "METALLIC_TEX_ENABLED")),
	)
}

func EnvironmentComponent() Component {
	return NewComponent("Environment",
		NewFlagLink("WATER_CUTOUT_ENABLED", "WATER_CUTOUT_ENABLED"),
		NewFlagLink("SELF_SHADOWING_ENABLED", "SELF_SHADOWING_ENABLED"),
		NewFlagLink("cUseTerrainTinting", "cUseTerrainTinting").Socketed(),
	)
}

func GlowComponent() Component {
	return NewComponent("Glow",
		NewColorLink("cEmissiveColor", "cEmissiveColor", black),
		NewTextureLink("cNightGlow", "cNightGlowMap", "NIGHT_GLOW_ENABLED"),
	)
}

func TerrainAdaptionComponent() Component {
	return NewComponent("TerrainAdaption",
		NewFlagLink("ADJUST_TO_TERRAIN_HEIGHT", "ADJUST_TO_TERRAIN_HEIGHT",
			NewFlagLink("VERTEX_COLORED_TERRAIN_ADAPTION", "VERTEX_COLORED_TERRAIN_ADAPTION"),
			NewFlagLink("ABSOLUTE_TERRAIN_ADAPTION", "ABSOLUTE_TERRAIN_ADAPTION"),
		),
	)
}

// LegacyComponent holds leaves the default shader keeps writing although the
// editor has no control for them.
func LegacyComponent() Component {
	return NewComponent("Legacy",
		NewFloatLink("cTexScrollSpeed", "cTexScrollSpeed", 0).Detached(),
		NewFlagLink("PARALLAX_MAPPING_ENABLED", "PARALLAX_MAPPING_ENABLED",
			NewFloatLink("cParallaxScale", "cParallaxScale", 1.0).Detached(),
		),
	)
}

func PropBasicDiffuseComponent() Component {
	return NewComponent("PropBasicDiffuse",
		NewTextureLink("cDiffuse", "cModelDiffTex", "DIFFUSE_ENABLED"),
		NewColorLink("cDiffuseMultiplier", "cDiffuseColor", white),
		NewFloatLink("Alpha", "cOpacity", 1.0),
	)
}
