package ctrl

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/benji-bou/annocfg/core/api"
	"github.com/benji-bou/annocfg/core/graph"
	"github.com/benji-bou/annocfg/core/preset"
	"github.com/benji-bou/annocfg/core/proptree"
	"github.com/benji-bou/annocfg/core/shader"
	"github.com/benji-bou/annocfg/helper"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

const mimeDOT = "text/vnd.graphviz"

func NewShader(catalog *shader.Catalog, reg *shader.GraphRegistry, settings shader.Settings) api.Ctrler {
	return Shader{catalog: catalog, reg: reg, settings: settings}
}

// Shader exposes the shader catalog, the node groups it builds and material
// export from presets.
type Shader struct {
	catalog  *shader.Catalog
	reg      *shader.GraphRegistry
	settings shader.Settings
}

func (s Shader) Route() []helper.SrvOption {
	return []helper.SrvOption{
		helper.WithGet("/shaders", s.list),
		helper.WithGet("/shaders/:id/graph", s.drawGraph),
		helper.WithGet("/schema/preset", s.schema),
		helper.WithPost("/material", s.material),
		helper.WithPost("/material/import", s.importMaterial),
	}
}

type socketInfo struct {
	Name    string      `json:"name"`
	Type    string      `json:"type"`
	Default *[3]float64 `json:"default,omitempty"`
}

type shaderInfo struct {
	ID     string       `json:"id"`
	Inputs []socketInfo `json:"inputs"`
	Links  []string     `json:"links"`
}

func (s Shader) list(c echo.Context) error {
	res := make([]shaderInfo, 0)
	for _, id := range s.catalog.IDs() {
		sh, err := s.catalog.New(id)
		if err != nil {
			return fail(c, err)
		}
		g, err := sh.BuildGraph(s.reg)
		if err != nil {
			return fail(c, err)
		}
		valid, err := sh.ValidLinks(s.reg)
		if err != nil {
			return fail(c, err)
		}
		res = append(res, shaderInfo{
			ID: id,
			Inputs: lo.Map(g.Inputs(), func(in graph.Socket, _ int) socketInfo {
				info := socketInfo{Name: in.Name, Type: string(in.Type)}
				if in.HasDefault {
					def := [3]float64(in.Default)
					info.Default = &def
				}
				return info
			}),
			Links: lo.Map(valid, func(l shader.Link, _ int) string { return l.Key() }),
		})
	}
	return c.JSON(http.StatusOK, res)
}

func (s Shader) drawGraph(c echo.Context) error {
	sh, err := s.catalog.New(c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	g, err := sh.BuildGraph(s.reg)
	if err != nil {
		return fail(c, err)
	}
	buf := &bytes.Buffer{}
	if err := g.DrawGraph(buf); err != nil {
		return fail(c, err)
	}
	return c.Blob(http.StatusOK, mimeDOT, buf.Bytes())
}

func (s Shader) schema(c echo.Context) error {
	raw, err := preset.Schema()
	if err != nil {
		return fail(c, err)
	}
	return c.JSONBlob(http.StatusOK, raw)
}

// variables turns the query string into preset variables.
func variables(c echo.Context) map[string]any {
	return lo.MapValues(c.QueryParams(), func(v []string, _ string) any { return v[0] })
}

func (s Shader) material(c echo.Context) error {
	body := c.Request().Body
	defer body.Close()
	raw, err := io.ReadAll(body)
	if err != nil {
		return fail(c, err)
	}
	p, err := preset.New(raw, variables(c))
	if err != nil {
		return fail(c, fmt.Errorf("%w: %w", errBadRequest, err))
	}
	cfg, err := p.Export(s.catalog, s.reg, s.settings)
	if err != nil {
		return fail(c, err)
	}
	buf := &bytes.Buffer{}
	if err := proptree.Encode(buf, cfg, true); err != nil {
		return fail(c, err)
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationXMLCharsetUTF8, buf.Bytes())
}

// importMaterial reads a material Config block with the shader named by the
// "shader" parameter and answers the equivalent preset.
func (s Shader) importMaterial(c echo.Context) error {
	id := c.QueryParam("shader")
	sh, err := s.catalog.NewOrDefault(id)
	if err != nil {
		return fail(c, err)
	}
	body := c.Request().Body
	defer body.Close()
	cfg, err := proptree.Decode(body, nil)
	if cfg == nil {
		return fail(c, fmt.Errorf("%w: %w", errBadRequest, err))
	}
	m, err := sh.Import(s.reg, cfg, s.settings)
	if err != nil {
		return fail(c, err)
	}
	raw, err := preset.FromMaterial(sh.ID, m).Raw()
	if err != nil {
		return fail(c, err)
	}
	return c.Blob(http.StatusOK, mimeYAML, raw)
}
