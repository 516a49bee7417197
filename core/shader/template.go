package shader

import (
	"errors"
	"log/slog"

	"github.com/benji-bou/annocfg/core/graph"
)

const (
	gridX   = 300.0
	gridY   = 300.0
	offsetY = 3 * gridY

	emissionScale = 10.0
	normalAmount  = 0.5
)

// Template lays the fixed node topology of the Anno shaders out on a graph.
// Steps whose input sockets were not composed into the shader are skipped and
// later steps work with what is there. Errors are collected and reported by
// Finish.
type Template struct {
	g    *graph.ShaderGraph
	errs []error

	baseColor graph.Ref
	normal    graph.Ref
	roughness graph.Ref
	metallic  graph.Ref
	emission  graph.Ref
}

func NewTemplate(g *graph.ShaderGraph) *Template {
	return &Template{g: g}
}

func (t *Template) in(socket string) graph.Ref {
	return graph.Out(graph.GroupInputID, socket)
}

func (t *Template) has(step string, sockets ...string) bool {
	for _, s := range sockets {
		if !t.g.HasInput(s) {
			slog.Debug("skipping shader template step", "shader", t.g.Name, "step", step, "socket", s)
			return false
		}
	}
	return true
}

// add creates a node at grid position (x, y).
func (t *Template) add(id string, typ graph.NodeType, op string, x, y float64) *graph.Node {
	n, err := t.g.AddNode(&graph.Node{
		ID:        id,
		Type:      typ,
		Label:     id,
		Operation: op,
		Location:  [2]float64{x * gridX, y*gridY - offsetY},
	})
	if err != nil {
		t.errs = append(t.errs, err)
		return &graph.Node{ID: id, Type: typ}
	}
	return n
}

func (t *Template) link(from, to graph.Ref) {
	if err := t.g.Connect(from, to); err != nil {
		t.errs = append(t.errs, err)
	}
}

// AddDiffuse multiplies the diffuse texture by the diffuse color.
func (t *Template) AddDiffuse(diffuse, multiplier string) graph.Ref {
	if !t.has("diffuse", diffuse, multiplier) {
		return graph.Ref{}
	}
	t.add("mix_c_diffuse", graph.MixRGB, graph.OpMultiply, 1, 4).SetDefault("Fac", graph.Scalar(1))
	t.link(t.in(multiplier), graph.Out("mix_c_diffuse", "Color1"))
	t.link(t.in(diffuse), graph.Out("mix_c_diffuse", "Color2"))
	t.baseColor = graph.Out("mix_c_diffuse", "Color")
	return t.baseColor
}

// AddDye tints the diffuse output red where the dye mask is set.
func (t *Template) AddDye(diffuse graph.Ref, mask string) graph.Ref {
	if diffuse == (graph.Ref{}) || !t.has("dye", mask) {
		return diffuse
	}
	t.add("dye_mask", graph.RGBToBW, "", 1, 3)
	t.link(t.in(mask), graph.Out("dye_mask", "Color"))
	t.add("final_diffuse", graph.MixRGB, graph.OpMultiply, 2, 3).SetDefault("Color2", graph.Value{1, 0, 0})
	t.link(graph.Out("dye_mask", "Val"), graph.Out("final_diffuse", "Fac"))
	t.link(diffuse, graph.Out("final_diffuse", "Color1"))
	t.baseColor = graph.Out("final_diffuse", "Color")
	return t.baseColor
}

// AddNormal rebuilds the blue channel of a two channel normal map,
// b = sqrt(1 - r^2 - g^2), and bumps it with the height map when present.
func (t *Template) AddNormal(normal, height string) graph.Ref {
	if !t.has("normal", normal) {
		return graph.Ref{}
	}
	t.add("separate_normal", graph.SeparateRGB, "", 1, 2)
	t.link(t.in(normal), graph.Out("separate_normal", "Image"))

	t.add("square_x", graph.Math, graph.OpPower, 2, 1.5).SetDefault("Value_001", graph.Scalar(2))
	t.link(graph.Out("separate_normal", "R"), graph.Out("square_x", "Value"))
	t.add("square_y", graph.Math, graph.OpPower, 2, 2.5).SetDefault("Value_001", graph.Scalar(2))
	t.link(graph.Out("separate_normal", "G"), graph.Out("square_y", "Value"))

	t.add("add_squares", graph.Math, graph.OpAdd, 2.5, 2)
	t.link(graph.Out("square_x", "Value"), graph.Out("add_squares", "Value"))
	t.link(graph.Out("square_y", "Value"), graph.Out("add_squares", "Value_001"))

	t.add("inverted_add_squares", graph.Math, graph.OpSubtract, 3, 2).SetDefault("Value", graph.Scalar(1))
	t.link(graph.Out("add_squares", "Value"), graph.Out("inverted_add_squares", "Value_001"))

	t.add("normal_blue", graph.Math, graph.OpSqrt, 3.5, 2)
	t.link(graph.Out("inverted_add_squares", "Value"), graph.Out("normal_blue", "Value"))

	t.add("combine_normal", graph.CombineRGB, "", 4, 2)
	t.link(graph.Out("separate_normal", "R"), graph.Out("combine_normal", "R"))
	t.link(graph.Out("separate_normal", "G"), graph.Out("combine_normal", "G"))
	t.link(graph.Out("normal_blue", "Value"), graph.Out("combine_normal", "B"))

	t.add("normal_map", graph.NormalMap, "", 5, 2).SetDefault("Strength", graph.Scalar(normalAmount))
	t.link(graph.Out("combine_normal", "Image"), graph.Out("normal_map", "Color"))
	t.normal = graph.Out("normal_map", "Normal")

	if height == "" || !t.has("height", height) {
		return t.normal
	}
	t.add("height_bw", graph.RGBToBW, "", 5, 3)
	t.link(t.in(height), graph.Out("height_bw", "Color"))
	t.add("bump_map", graph.Bump, "", 6, 2).SetDefault("Strength", graph.Scalar(normalAmount))
	t.link(graph.Out("height_bw", "Val"), graph.Out("bump_map", "Height"))
	t.link(t.normal, graph.Out("bump_map", "Normal"))
	t.normal = graph.Out("bump_map", "Normal")
	return t.normal
}

// AddGloss derives roughness as 1 - glossiness.
func (t *Template) AddGloss(gloss string) graph.Ref {
	if !t.has("gloss", gloss) {
		return graph.Ref{}
	}
	t.add("roughness", graph.Math, graph.OpSubtract, 3, 0).SetDefault("Value", graph.Scalar(1))
	t.link(t.in(gloss), graph.Out("roughness", "Value_001"))
	t.roughness = graph.Out("roughness", "Value")
	return t.roughness
}

// AddMetallic uses the luminance of the metallic texture.
func (t *Template) AddMetallic(metallic string) graph.Ref {
	if !t.has("metallic", metallic) {
		return graph.Ref{}
	}
	t.add("metallic", graph.RGBToBW, "", 1, 3)
	t.link(t.in(metallic), graph.Out("metallic", "Color"))
	t.metallic = graph.Out("metallic", "Val")
	return t.metallic
}

// AddEmission multiplies the diffuse color with the scaled emissive color and
// masks it with the night glow map, tinted per object by a three stop ramp
// driven by the fractional object location.
func (t *Template) AddEmission(diffuse graph.Ref, emissive, nightGlow string) graph.Ref {
	if diffuse == (graph.Ref{}) || !t.has("emission", emissive, nightGlow) {
		return graph.Ref{}
	}
	t.add("emission_scale", graph.VectorMath, graph.OpScale, 1, -1).SetDefault("Scale", graph.Scalar(emissionScale))
	t.link(t.in(emissive), graph.Out("emission_scale", "Vector"))

	t.add("combined_emissive_color", graph.VectorMath, graph.OpMultiply, 2, -1)
	t.link(diffuse, graph.Out("combined_emissive_color", "Vector"))
	t.link(graph.Out("emission_scale", "Vector"), graph.Out("combined_emissive_color", "Vector_001"))

	t.add("object_info", graph.ObjectInfo, "", 1, -2)
	t.add("random_0_1", graph.Math, graph.OpFract, 2, -2)
	t.link(graph.Out("object_info", "Location"), graph.Out("random_0_1", "Value"))

	ramp := t.add("color_ramp", graph.ValToRGB, "", 3, -2)
	ramp.Ramp = []graph.RampStop{
		{Position: 0, Color: graph.Value{1, 0, 0}},
		{Position: 1.0 / 3.0, Color: graph.Value{0, 1, 0}},
		{Position: 2.0 / 3.0, Color: graph.Value{0, 0, 1}},
	}
	t.link(graph.Out("random_0_1", "Value"), graph.Out("color_ramp", "Fac"))

	t.add("location_masked_emission", graph.VectorMath, graph.OpMultiply, 4, -2)
	t.link(graph.Out("color_ramp", "Color"), graph.Out("location_masked_emission", "Vector"))
	t.link(t.in(nightGlow), graph.Out("location_masked_emission", "Vector_001"))

	t.add("final_emission_color", graph.MixRGB, graph.OpMix, 5, -1).SetDefault("Color1", graph.Value{0, 0, 0})
	t.link(graph.Out("location_masked_emission", "Vector"), graph.Out("final_emission_color", "Fac"))
	t.link(graph.Out("combined_emissive_color", "Vector"), graph.Out("final_emission_color", "Color2"))
	t.emission = graph.Out("final_emission_color", "Color")
	return t.emission
}

// Finish wires every produced value into a principled BSDF feeding the
// "Shader" output, and reports the errors met along the way.
func (t *Template) Finish(alpha string) error {
	bsdf := t.add("bsdf", graph.PrincipledBSDF, "", 4, 0).
		SetDefault("Alpha", graph.Scalar(1)).
		SetDefault("Emission Strength", graph.Scalar(1))
	if alpha != "" && t.has("alpha", alpha) {
		t.link(t.in(alpha), graph.Out(bsdf.ID, "Alpha"))
	}
	for _, in := range []struct {
		socket string
		ref    graph.Ref
	}{
		{"Roughness", t.roughness},
		{"Normal", t.normal},
		{"Base Color", t.baseColor},
		{"Metallic", t.metallic},
		{"Emission Color", t.emission},
	} {
		if in.ref != (graph.Ref{}) {
			t.link(in.ref, graph.Out(bsdf.ID, in.socket))
		}
	}
	t.link(graph.Out(bsdf.ID, "BSDF"), graph.Out(graph.GroupOutputID, ShaderOutput))
	return errors.Join(t.errs...)
}
