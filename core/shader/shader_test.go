package shader_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benji-bou/annocfg/core/convert"
	"github.com/benji-bou/annocfg/core/graph"
	"github.com/benji-bou/annocfg/core/graph/graphtest"
	"github.com/benji-bou/annocfg/core/proptree"
	"github.com/benji-bou/annocfg/core/shader"
	"github.com/google/go-cmp/cmp"
)

func TestBuildGraphOnce(t *testing.T) {
	reg := shader.NewGraphRegistry()
	first, err := shader.AnnoDefaultShader().BuildGraph(reg)
	if err != nil {
		t.Fatalf("BuildGraph error: %v", err)
	}
	second, err := shader.AnnoDefaultShader().BuildGraph(reg)
	if err != nil {
		t.Fatalf("second BuildGraph error: %v", err)
	}
	if first != second || first.ID != second.ID {
		t.Errorf("BuildGraph returned %s then %s; want the same graph", first.ID, second.ID)
	}
	if got := reg.Len(); got != 1 {
		t.Errorf("registry holds %d graphs; want 1", got)
	}
	if got, want := first.NodeCount(), second.NodeCount(); got != want {
		t.Errorf("node count changed from %d to %d", want, got)
	}
}

func TestGraphRegistryRecursiveBuild(t *testing.T) {
	reg := shader.NewGraphRegistry()
	var inner error
	_, err := reg.GetOrBuild(context.Background(), "loop", func(ctx context.Context) (*graph.ShaderGraph, error) {
		_, inner = reg.GetOrBuild(ctx, "loop", func(context.Context) (*graph.ShaderGraph, error) {
			return graph.New("loop"), nil
		})
		return graph.New("loop"), nil
	})
	if err != nil {
		t.Fatalf("GetOrBuild error: %v", err)
	}
	if !errors.Is(inner, shader.ErrRecursiveBuild) {
		t.Errorf("nested GetOrBuild error = %v; want ErrRecursiveBuild", inner)
	}
}

func TestGraphRegistryNestedBuild(t *testing.T) {
	reg := shader.NewGraphRegistry()
	var inner error
	_, err := reg.GetOrBuild(context.Background(), "a", func(ctx context.Context) (*graph.ShaderGraph, error) {
		_, err := reg.GetOrBuild(ctx, "b", func(ctx context.Context) (*graph.ShaderGraph, error) {
			_, inner = reg.GetOrBuild(ctx, "a", func(context.Context) (*graph.ShaderGraph, error) {
				return graph.New("a"), nil
			})
			return graph.New("b"), nil
		})
		return graph.New("a"), err
	})
	if err != nil {
		t.Fatalf("GetOrBuild error: %v", err)
	}
	if !errors.Is(inner, shader.ErrRecursiveBuild) {
		t.Errorf("cyclic GetOrBuild error = %v; want ErrRecursiveBuild", inner)
	}
	if got := reg.Len(); got != 2 {
		t.Errorf("registry holds %d graphs; want 2", got)
	}
}

func TestGraphRegistryConcurrentBuild(t *testing.T) {
	reg := shader.NewGraphRegistry()
	started := make(chan struct{})
	release := make(chan struct{})
	var builds atomic.Int32
	build := func(context.Context) (*graph.ShaderGraph, error) {
		builds.Add(1)
		close(started)
		<-release
		return graph.New("shared"), nil
	}

	const waiters = 4
	var wg sync.WaitGroup
	results := make([]*graph.ShaderGraph, waiters+1)
	errs := make([]error, waiters+1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = reg.GetOrBuild(context.Background(), "shared", build)
	}()
	<-started
	for i := 1; i <= waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = reg.GetOrBuild(context.Background(), "shared", build)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("GetOrBuild #%d error = %v; want nil", i, err)
		}
		if results[i] != results[0] {
			t.Errorf("GetOrBuild #%d returned another graph", i)
		}
	}
	if got := builds.Load(); got != 1 {
		t.Errorf("build ran %d times; want 1", got)
	}
}

func TestGraphRegistryWaiterCanceled(t *testing.T) {
	reg := shader.NewGraphRegistry()
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error)
	go func() {
		_, err := reg.GetOrBuild(context.Background(), "slow", func(context.Context) (*graph.ShaderGraph, error) {
			close(started)
			<-release
			return graph.New("slow"), nil
		})
		done <- err
	}()
	<-started
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := reg.GetOrBuild(ctx, "slow", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled GetOrBuild error = %v; want context.Canceled", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Errorf("GetOrBuild error = %v", err)
	}
}

func TestGraphRegistryFailedBuild(t *testing.T) {
	reg := shader.NewGraphRegistry()
	boom := errors.New("boom")
	if _, err := reg.GetOrBuild(context.Background(), "x", func(context.Context) (*graph.ShaderGraph, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("GetOrBuild error = %v; want boom", err)
	}
	if _, ok := reg.Lookup("x"); ok {
		t.Errorf("failed build was registered")
	}
	g, err := reg.GetOrBuild(context.Background(), "x", func(context.Context) (*graph.ShaderGraph, error) { return graph.New("x"), nil })
	if err != nil || g == nil {
		t.Errorf("retry GetOrBuild = %v, %v", g, err)
	}
	reg.Reset()
	if reg.Len() != 0 {
		t.Errorf("Len after Reset = %d", reg.Len())
	}
}

func TestDefaultShaderInputs(t *testing.T) {
	g, err := shader.AnnoDefaultShader().BuildGraph(shader.NewGraphRegistry())
	if err != nil {
		t.Fatalf("BuildGraph error: %v", err)
	}
	graphtest.AssertInputs(t, g, []string{
		"cDiffuse", "cDiffuseMultiplier", "cDyeMask", "Alpha",
		"cNormal", "cHeight", "Glossiness", "cMetallic",
		"cUseTerrainTinting", "cEmissiveColor", "cNightGlow",
	})
	outs := g.Outputs()
	if len(outs) != 1 || outs[0].Name != shader.ShaderOutput || outs[0].Type != graph.ShaderSocket {
		t.Errorf("outputs = %+v; want a single Shader socket", outs)
	}
	mult, _ := g.Input("cDiffuseMultiplier")
	if !mult.HasDefault || mult.Default != (graph.Value{1, 1, 1}) {
		t.Errorf("cDiffuseMultiplier default = %+v", mult)
	}
	alpha, _ := g.Input("Alpha")
	if alpha.Type != graph.FloatSocket || alpha.Default.Float() != 1 {
		t.Errorf("Alpha socket = %+v", alpha)
	}
	diffuse, _ := g.Input("cDiffuse")
	if diffuse.HasDefault {
		t.Errorf("cDiffuse has a default value")
	}
}

func TestDefaultShaderTopology(t *testing.T) {
	g, err := shader.AnnoDefaultShader().BuildGraph(shader.NewGraphRegistry())
	if err != nil {
		t.Fatalf("BuildGraph error: %v", err)
	}
	in := graph.GroupInputID
	for _, c := range []struct{ from, to graph.Ref }{
		{graph.Out(in, "cDiffuseMultiplier"), graph.Out("mix_c_diffuse", "Color1")},
		{graph.Out(in, "cDiffuse"), graph.Out("mix_c_diffuse", "Color2")},
		{graph.Out("dye_mask", "Val"), graph.Out("final_diffuse", "Fac")},
		{graph.Out("normal_map", "Normal"), graph.Out("bump_map", "Normal")},
		{graph.Out("height_bw", "Val"), graph.Out("bump_map", "Height")},
		{graph.Out(in, "Glossiness"), graph.Out("roughness", "Value_001")},
		{graph.Out("final_diffuse", "Color"), graph.Out("bsdf", "Base Color")},
		{graph.Out("bump_map", "Normal"), graph.Out("bsdf", "Normal")},
		{graph.Out("metallic", "Val"), graph.Out("bsdf", "Metallic")},
		{graph.Out("final_emission_color", "Color"), graph.Out("bsdf", "Emission Color")},
		{graph.Out(in, "Alpha"), graph.Out("bsdf", "Alpha")},
		{graph.Out("bsdf", "BSDF"), graph.Out(graph.GroupOutputID, shader.ShaderOutput)},
	} {
		graphtest.AssertConnected(t, g, c.from, c.to)
	}
	var sinks []string
	for n := range g.Sinks() {
		sinks = append(sinks, n.ID)
	}
	if diff := cmp.Diff([]string{graph.GroupOutputID}, sinks); diff != "" {
		t.Errorf("dangling nodes (-want +got):\n%s", diff)
	}
}

func TestDefaultShaderEvaluation(t *testing.T) {
	g, err := shader.AnnoDefaultShader().BuildGraph(shader.NewGraphRegistry())
	if err != nil {
		t.Fatalf("BuildGraph error: %v", err)
	}
	base := map[string]graph.Value{
		"cDiffuse":           {1, 1, 1},
		"cDiffuseMultiplier": {0.5, 0.5, 0.5},
		"cDyeMask":           {0, 0, 0},
		"cNormal":            {0.6, 0, 0},
		"Glossiness":         graph.Scalar(0.8),
		"cMetallic":          {1, 1, 1},
		"cEmissiveColor":     {0.1, 0.2, 0.3},
		"cNightGlow":         {1, 1, 1},
	}
	dyed := map[string]graph.Value{}
	for k, v := range base {
		dyed[k] = v
	}
	dyed["cDyeMask"] = graph.Value{1, 1, 1}

	graphtest.AssertEval(t, g, []graphtest.EvalCase{
		{
			Name:     "undyed",
			Inputs:   base,
			Location: graph.Scalar(0.5),
			Expected: map[graph.Ref]graph.Value{
				graph.Out("bsdf", "Base Color"):            {0.5, 0.5, 0.5},
				graph.Out("bsdf", "Roughness"):             graph.Scalar(0.2),
				graph.Out("bsdf", "Metallic"):              graph.Scalar(1),
				graph.Out("bsdf", "Alpha"):                 graph.Scalar(1),
				graph.Out("bsdf", "Emission Strength"):     graph.Scalar(1),
				graph.Out("combine_normal", "Image"):       {0.6, 0, 0.8},
				graph.Out("emission_scale", "Vector"):      {1, 2, 3},
				graph.Out("color_ramp", "Color"):           {0, 1, 0},
				graph.Out("final_emission_color", "Color"): {0.5 / 3, 1.0 / 3, 1.5 / 3},
				graph.Out(graph.GroupOutputID, "Shader"):   {0.5, 0.5, 0.5},
			},
		},
		{
			Name:     "dyed",
			Inputs:   dyed,
			Location: graph.Scalar(0.1),
			Expected: map[graph.Ref]graph.Value{
				graph.Out("bsdf", "Base Color"):  {0.5, 0, 0},
				graph.Out("color_ramp", "Color"): {1, 0, 0},
			},
		},
		{
			Name:     "blue tint",
			Inputs:   base,
			Location: graph.Scalar(3.7),
			Expected: map[graph.Ref]graph.Value{
				graph.Out("color_ramp", "Color"): {0, 0, 1},
			},
		},
	})
}

func TestDecalShaderTopology(t *testing.T) {
	g, err := shader.DecalDetailPropShader().BuildGraph(shader.NewGraphRegistry())
	if err != nil {
		t.Fatalf("BuildGraph error: %v", err)
	}
	graphtest.AssertInputs(t, g, []string{"cDiffuse", "cDiffuseMultiplier", "Alpha"})
	graphtest.AssertConnected(t, g, graph.Out("mix_c_diffuse", "Color"), graph.Out("bsdf", "Base Color"))
	for _, id := range []string{"final_diffuse", "separate_normal", "roughness", "final_emission_color"} {
		if _, err := g.Node(id); !errors.Is(err, graph.ErrUnknownNode) {
			t.Errorf("Node(%s) error = %v; want ErrUnknownNode", id, err)
		}
	}
}

func TestPBRShaderSkipsHeight(t *testing.T) {
	g, err := shader.SimplePBRPropShader().BuildGraph(shader.NewGraphRegistry())
	if err != nil {
		t.Fatalf("BuildGraph error: %v", err)
	}
	graphtest.AssertConnected(t, g, graph.Out("normal_map", "Normal"), graph.Out("bsdf", "Normal"))
	if _, err := g.Node("bump_map"); err == nil {
		t.Errorf("PBR shader built a bump node")
	}
}

// Two components declaring the same key: lookup returns the later link, both
// stay listed, the graph gets one socket and only the later link is exported.
func TestLinkOverrideByKey(t *testing.T) {
	s := shader.SimplePBRPropShader()
	var metallic []shader.Link
	for _, l := range s.Links() {
		if l.Key() == "cMetallic" {
			metallic = append(metallic, l)
		}
	}
	if len(metallic) != 2 {
		t.Fatalf("Links() holds %d cMetallic declarations; want 2", len(metallic))
	}
	got, ok := s.Link("cMetallic")
	if !ok || got != metallic[1] {
		t.Errorf("Link(cMetallic) did not return the later declaration")
	}
	if !s.Superseded(metallic[0]) || s.Superseded(metallic[1]) {
		t.Errorf("Superseded = %v, %v; want true, false", s.Superseded(metallic[0]), s.Superseded(metallic[1]))
	}

	reg := shader.NewGraphRegistry()
	g, err := s.BuildGraph(reg)
	if err != nil {
		t.Fatalf("BuildGraph error: %v", err)
	}
	count := 0
	for _, in := range g.Inputs() {
		if in.Name == "cMetallic" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("graph declares %d cMetallic sockets; want 1", count)
	}

	valid, err := s.ValidLinks(reg)
	if err != nil {
		t.Fatalf("ValidLinks error: %v", err)
	}
	if slices.Contains(valid, metallic[0]) || !slices.Contains(valid, metallic[1]) {
		t.Errorf("ValidLinks keeps the superseded cMetallic link")
	}

	m := shader.NewMaterial("prop").SetTexture("cMetallic", "data/graphics/prop_metal_0.png")
	cfg, err := s.Export(reg, m, shader.DefaultSettings())
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	if n := cfg.LeafCount("METALLIC_TEX_ENABLED"); n != 1 {
		t.Errorf("METALLIC_TEX_ENABLED written %d times; want 1", n)
	}
}

func TestSetProperty(t *testing.T) {
	testCases := []struct {
		name string
		key  string
		v    convert.Value
		err  error
	}{
		{"string", "Name", convert.StringValue("roof"), nil},
		{"int", "NumBonesPerVertex", convert.IntValue(4), nil},
		{"unknown", "Shininess", convert.FloatValue(1), shader.ErrUnknownProperty},
		{"kind mismatch", "ShaderID", convert.StringValue("8"), shader.ErrPropertyKind},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := shader.AnnoDefaultShader()
			err := s.SetProperty(tc.key, tc.v)
			if !errors.Is(err, tc.err) {
				t.Fatalf("SetProperty error = %v; want %v", err, tc.err)
			}
			if tc.err != nil {
				return
			}
			if got, _ := s.Property(tc.key); !got.Equal(tc.v) {
				t.Errorf("Property(%s) = %v; want %v", tc.key, got, tc.v)
			}
		})
	}
}

func TestMustSetProperty(t *testing.T) {
	s := shader.NewShader("static", nil).MustSetProperty("ShaderID", convert.IntValue(3))
	if v, _ := s.Property("ShaderID"); v.Int() != 3 {
		t.Errorf("ShaderID = %v; want 3", v)
	}
	defer func() {
		err, _ := recover().(error)
		if !errors.Is(err, shader.ErrPropertyKind) {
			t.Errorf("recovered %v; want ErrPropertyKind", err)
		}
	}()
	s.MustSetProperty("ShaderID", convert.StringValue("3"))
	t.Errorf("MustSetProperty did not panic on a kind mismatch")
}

func TestMaterialProperties(t *testing.T) {
	def := shader.AnnoDefaultShader()
	keys := make([]string, 0, 5)
	for _, p := range def.Properties() {
		keys = append(keys, p.Key)
	}
	if diff := cmp.Diff([]string{"ConfigType", "Name", "ShaderID", "VertexFormat", "NumBonesPerVertex"}, keys); diff != "" {
		t.Errorf("property order mismatch (-want +got):\n%s", diff)
	}
	if v, _ := def.Property("VertexFormat"); v.Text() != "P4h_N4b_G4b_B4b_T2h" {
		t.Errorf("VertexFormat = %q", v.Text())
	}
	if got := len(shader.SimplePBRPropShader().Properties()); got != 0 {
		t.Errorf("PBR shader has %d properties; want 0", got)
	}
	if got := len(shader.DecalDetailPropShader().Properties()); got != 0 {
		t.Errorf("decal shader has %d properties; want 0", got)
	}
}

func TestExportDefaultShader(t *testing.T) {
	reg := shader.NewGraphRegistry()
	s := shader.AnnoDefaultShader()
	m := shader.NewMaterial("roof").
		SetTexture("cDiffuse", `data\graphics\roof_diff_0.png`).
		SetTexture("cNormal", "data/graphics/roof_norm_0.dds").
		SetColor("cDiffuseMultiplier", convert.RGB(1, 0.5, 0.25)).
		SetFloat("Glossiness", 0.5).
		SetFlag("ADJUST_TO_TERRAIN_HEIGHT", true).
		SetFlag("ABSOLUTE_TERRAIN_ADAPTION", true)

	cfg, err := s.Export(reg, m, shader.DefaultSettings())
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	out, err := proptree.MarshalString(cfg, false)
	if err != nil {
		t.Fatalf("MarshalString error: %v", err)
	}
	for _, want := range []string{
		"<Config><ConfigType>MATERIAL</ConfigType><Name>roof</Name><ShaderID>8</ShaderID>" +
			"<VertexFormat>P4h_N4b_G4b_B4b_T2h</VertexFormat><NumBonesPerVertex>0</NumBonesPerVertex>" +
			"<cTexScrollSpeed>0.0</cTexScrollSpeed><PARALLAX_MAPPING_ENABLED>0</PARALLAX_MAPPING_ENABLED>" +
			"<DIFFUSE_ENABLED>1</DIFFUSE_ENABLED><cModelDiffTex>data/graphics/roof_diff.png</cModelDiffTex>",
		"<cDiffuseColor.r>1.0</cDiffuseColor.r><cDiffuseColor.g>0.5</cDiffuseColor.g><cDiffuseColor.b>0.25</cDiffuseColor.b>",
		"<DYE_MASK_ENABLED>0</DYE_MASK_ENABLED><cDyeMaskTex></cDyeMaskTex>",
		"<NORMAL_ENABLED>1</NORMAL_ENABLED><cModelNormalTex>data/graphics/roof_norm.psd</cModelNormalTex>",
		"<cGlossinessFactor>0.5</cGlossinessFactor>",
		"<ADJUST_TO_TERRAIN_HEIGHT>1</ADJUST_TO_TERRAIN_HEIGHT>" +
			"<VERTEX_COLORED_TERRAIN_ADAPTION>0</VERTEX_COLORED_TERRAIN_ADAPTION>" +
			"<ABSOLUTE_TERRAIN_ADAPTION>1</ABSOLUTE_TERRAIN_ADAPTION>",
		"<cEmissiveColor.r>0.0</cEmissiveColor.r>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("export misses %s\n%s", want, out)
		}
	}
	if strings.Contains(out, "cParallaxScale") {
		t.Errorf("gated leaf written while its flag is off:\n%s", out)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	reg := shader.NewGraphRegistry()
	s := shader.AnnoDefaultShader()
	settings := shader.Settings{TextureQuality: "1"}
	m := shader.NewMaterial("wall").
		SetTexture("cDiffuse", "data/graphics/wall_diff_1.dds").
		SetColor("cEmissiveColor", convert.RGB(0.2, 0.4, 0.6)).
		SetFloat("Alpha", 0.75).
		SetFlag("WATER_CUTOUT_ENABLED", true).
		SetFlag("cUseTerrainTinting", true)

	cfg, err := s.Export(reg, m, settings)
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	text, err := proptree.MarshalString(cfg, true)
	if err != nil {
		t.Fatalf("MarshalString error: %v", err)
	}
	parsed, err := proptree.ParseString(text, nil)
	if err != nil {
		t.Fatalf("ParseString error: %v", err)
	}
	back, err := s.Import(reg, parsed, settings)
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if back.Name() != "wall" {
		t.Errorf("Name = %q; want wall", back.Name())
	}
	if tex, _ := back.Texture("cDiffuse"); tex != "data/graphics/wall_diff_1.dds" {
		t.Errorf("cDiffuse texture = %q", tex)
	}
	if _, ok := back.Texture("cNormal"); ok {
		t.Errorf("disabled cNormal texture imported")
	}
	if f, _ := back.Float("Alpha"); f != 0.75 {
		t.Errorf("Alpha = %v; want 0.75", f)
	}
	if c, _ := back.Color("cEmissiveColor"); c != convert.RGB(0.2, 0.4, 0.6) {
		t.Errorf("cEmissiveColor = %v", c)
	}
	if b, _ := back.Flag("WATER_CUTOUT_ENABLED"); !b {
		t.Errorf("WATER_CUTOUT_ENABLED = false")
	}
	if f, _ := back.Float("cUseTerrainTinting"); f != 1 {
		t.Errorf("cUseTerrainTinting socket = %v; want 1", f)
	}
	if c, _ := back.Color("cDiffuseMultiplier"); c != convert.RGB(1, 1, 1) {
		t.Errorf("cDiffuseMultiplier = %v; want default white", c)
	}
}

func TestImportExportKeepsOverbrightColors(t *testing.T) {
	reg := shader.NewGraphRegistry()
	s := shader.AnnoDefaultShader()
	cfg := proptree.New("Config", nil)
	testCases := []struct {
		tag  string
		text string
		want float64
	}{
		{"cDiffuseColor.r", "2.0", 2},
		{"cDiffuseColor.g", "-0.5", -0.5},
		{"cDiffuseColor.b", "1.25", 1.25},
	}
	for _, tc := range testCases {
		if err := cfg.Set(tc.tag, tc.text, true); err != nil {
			t.Fatalf("Set(%s) error: %v", tc.tag, err)
		}
	}
	m, err := s.Import(reg, cfg, shader.DefaultSettings())
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if c, _ := m.Color("cDiffuseMultiplier"); c != convert.RGB(2, -0.5, 1.25) {
		t.Errorf("cDiffuseMultiplier = %v; want {2 -0.5 1.25}", c)
	}
	out, err := s.Export(reg, m, shader.DefaultSettings())
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	for _, tc := range testCases {
		t.Run(tc.tag, func(t *testing.T) {
			v, ok := out.Value(tc.tag)
			if !ok {
				t.Fatalf("%s missing from export", tc.tag)
			}
			if got := v.Float(); got != tc.want {
				t.Errorf("%s = %v; want %v", tc.tag, got, tc.want)
			}
		})
	}
}

func TestTexturePaths(t *testing.T) {
	settings := shader.Settings{TextureQuality: "0"}
	testCases := []struct {
		name string
		file string
		want string
	}{
		{"dds", "data/graphics/wall_diff_0.dds", "data/graphics/wall_diff.psd"},
		{"backslashes", `data\graphics\wall_norm_0.dds`, "data/graphics/wall_norm.psd"},
		{"png kept", "data/ui/icon_0.png", "data/ui/icon.png"},
		{"directory untouched", "data/v_0.1/tex_0.dds", "data/v_0.1/tex.psd"},
		{"other quality", "data/graphics/wall_diff_1.dds", "data/graphics/wall_diff_1.psd"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := shader.ExportTexturePath(tc.file, settings); got != tc.want {
				t.Errorf("ExportTexturePath(%q) = %q; want %q", tc.file, got, tc.want)
			}
		})
	}
	if got := shader.ImportTexturePath("data/v_0.1/tex.psd", settings); got != "data/v_0.1/tex_0.dds" {
		t.Errorf("ImportTexturePath = %q; want data/v_0.1/tex_0.dds", got)
	}
	if got := shader.ImportTexturePath("", settings); got != "" {
		t.Errorf("ImportTexturePath(\"\") = %q; want empty", got)
	}
}

func TestImportUnnamed(t *testing.T) {
	cfg := proptree.New("Config", nil)
	m, err := shader.DecalDetailPropShader().Import(shader.NewGraphRegistry(), cfg, shader.DefaultSettings())
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if m.Name() != shader.DefaultMaterialName {
		t.Errorf("Name = %q; want %q", m.Name(), shader.DefaultMaterialName)
	}
	if f, _ := m.Float("Alpha"); f != 1 {
		t.Errorf("Alpha = %v; want default 1", f)
	}
}

func TestCatalog(t *testing.T) {
	c := shader.DefaultCatalog()
	if diff := cmp.Diff([]string{"AnnoDefaultShader", "DecalDetailPropShader", "SimplePBRPropShader"}, c.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
	s, err := c.New(shader.SimplePBRPropShaderID)
	if err != nil || s.ID != shader.SimplePBRPropShaderID {
		t.Errorf("New(SimplePBRPropShader) = %v, %v", s, err)
	}
	if _, err := c.New("Glass"); !errors.Is(err, shader.ErrUnknownShader) {
		t.Errorf("New(Glass) error = %v; want ErrUnknownShader", err)
	}
	s, err = c.NewOrDefault("Glass")
	if err != nil || s.ID != shader.AnnoDefaultShaderID {
		t.Errorf("NewOrDefault(Glass) = %v, %v; want default shader", s, err)
	}
}
