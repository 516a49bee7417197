package preset_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benji-bou/annocfg/core/convert"
	"github.com/benji-bou/annocfg/core/preset"
	"github.com/benji-bou/annocfg/core/proptree"
	"github.com/benji-bou/annocfg/core/shader"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const roofPreset = `name: roof
shader: AnnoDefaultShader
material:
  name: {{ .name | default "roof" | upper }}
  floats:
    Glossiness: {{ .gloss | default 0.5 }}
  colors:
    cDiffuseMultiplier: [1, 0.5, 0.25]
    cEmissiveColor: "#ff0000"
  flags:
    ADJUST_TO_TERRAIN_HEIGHT: true
    ABSOLUTE_TERRAIN_ADAPTION: true
  textures:
    cDiffuse: data/graphics/{{ .name | default "roof" }}_diff_0.dds
`

func TestNew(t *testing.T) {
	testCases := []struct {
		name      string
		variables map[string]any
		want      preset.Material
	}{
		{
			name: "defaults",
			want: preset.Material{
				Name:     "ROOF",
				Floats:   map[string]float64{"Glossiness": 0.5},
				Colors:   map[string]preset.Color{"cDiffuseMultiplier": {1, 0.5, 0.25}, "cEmissiveColor": {1, 0, 0}},
				Flags:    map[string]bool{"ADJUST_TO_TERRAIN_HEIGHT": true, "ABSOLUTE_TERRAIN_ADAPTION": true},
				Textures: map[string]string{"cDiffuse": "data/graphics/roof_diff_0.dds"},
			},
		},
		{
			name:      "variables",
			variables: map[string]any{"name": "barn", "gloss": 0.25},
			want: preset.Material{
				Name:     "BARN",
				Floats:   map[string]float64{"Glossiness": 0.25},
				Colors:   map[string]preset.Color{"cDiffuseMultiplier": {1, 0.5, 0.25}, "cEmissiveColor": {1, 0, 0}},
				Flags:    map[string]bool{"ADJUST_TO_TERRAIN_HEIGHT": true, "ABSOLUTE_TERRAIN_ADAPTION": true},
				Textures: map[string]string{"cDiffuse": "data/graphics/barn_diff_0.dds"},
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := preset.New([]byte(roofPreset), tc.variables)
			if err != nil {
				t.Fatalf("New error: %v", err)
			}
			if p.Shader != shader.AnnoDefaultShaderID {
				t.Errorf("Shader = %q", p.Shader)
			}
			if diff := cmp.Diff(tc.want, p.Material); diff != "" {
				t.Errorf("Material mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewRejects(t *testing.T) {
	testCases := map[string]string{
		"unknown field": "name: x\nshading: y\n",
		"short color":   "material:\n  colors:\n    cDiffuseMultiplier: [1, 0]\n",
		"bad hex":       "material:\n  colors:\n    cDiffuseMultiplier: \"#zz\"\n",
		"bad template":  "name: {{ .name \n",
	}
	for name, raw := range testCases {
		t.Run(name, func(t *testing.T) {
			if _, err := preset.New([]byte(raw), nil); err == nil {
				t.Errorf("New(%q) succeeded", raw)
			}
		})
	}
}

func TestExport(t *testing.T) {
	p, err := preset.New([]byte(roofPreset), nil)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	cfg, err := p.Export(shader.DefaultCatalog(), shader.NewGraphRegistry(), shader.DefaultSettings())
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	out, err := proptree.MarshalString(cfg, false)
	if err != nil {
		t.Fatalf("MarshalString error: %v", err)
	}
	for _, want := range []string{
		"<Name>ROOF</Name>",
		"<cModelDiffTex>data/graphics/roof_diff.psd</cModelDiffTex>",
		"<cGlossinessFactor>0.5</cGlossinessFactor>",
		"<cEmissiveColor.r>1.0</cEmissiveColor.r>",
		"<ABSOLUTE_TERRAIN_ADAPTION>1</ABSOLUTE_TERRAIN_ADAPTION>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("export misses %s\n%s", want, out)
		}
	}
}

func TestExportUnknownKey(t *testing.T) {
	p := preset.Preset{
		Name:   "decal",
		Shader: shader.DecalDetailPropShaderID,
		Material: preset.Material{
			Floats:   map[string]float64{"Glossiness": 1},
			Textures: map[string]string{"cDiffuse": "a.dds", "cNormal": "b.dds"},
		},
	}
	_, err := p.Export(shader.DefaultCatalog(), shader.NewGraphRegistry(), shader.DefaultSettings())
	if !errors.Is(err, preset.ErrUnknownKey) {
		t.Fatalf("Export error = %v; want ErrUnknownKey", err)
	}
	for _, key := range []string{"Glossiness", "cNormal"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not name %s", err, key)
		}
	}
}

func TestFromMaterialRoundTrip(t *testing.T) {
	m := shader.NewMaterial("wall").
		SetFloat("Alpha", 0.5).
		SetColor("cDiffuseMultiplier", convert.RGB(0.5, 0.25, 1)).
		SetFlag("WATER_CUTOUT_ENABLED", true).
		SetTexture("cNormal", "n_0.dds")
	p := preset.FromMaterial(shader.AnnoDefaultShaderID, m)
	raw, err := p.Raw()
	if err != nil {
		t.Fatalf("Raw error: %v", err)
	}
	back, err := preset.New(raw, nil)
	if err != nil {
		t.Fatalf("New error: %v\n%s", err, raw)
	}
	if diff := cmp.Diff(p, back, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roof.yaml")
	if err := os.WriteFile(path, []byte(roofPreset), 0o600); err != nil {
		t.Fatal(err)
	}
	p, err := preset.NewFile(path, map[string]any{"name": "hut"})
	if err != nil {
		t.Fatalf("NewFile error: %v", err)
	}
	if p.Material.Name != "HUT" {
		t.Errorf("Material.Name = %q; want HUT", p.Material.Name)
	}
}

func TestSchema(t *testing.T) {
	raw, err := preset.Schema()
	if err != nil {
		t.Fatalf("Schema error: %v", err)
	}
	var doc struct {
		Title      string                     `json:"title"`
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	if doc.Title != "annocfg material preset" {
		t.Errorf("title = %q", doc.Title)
	}
	for _, key := range []string{"name", "shader", "material"} {
		if _, ok := doc.Properties[key]; !ok {
			t.Errorf("schema has no %s property", key)
		}
	}
	if _, ok := doc.Properties["Variables"]; ok {
		t.Errorf("schema exposes Variables")
	}
}
