package ctrl

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/benji-bou/annocfg/core/api"
	"github.com/benji-bou/annocfg/core/convert"
	"github.com/benji-bou/annocfg/core/proptree"
	"github.com/benji-bou/annocfg/helper"
	"github.com/labstack/echo/v4"
	"gopkg.in/yaml.v3"
)

const mimeYAML = "application/yaml"

func NewConfig(conv *convert.Registry) api.Ctrler {
	return Config{conv: conv}
}

// Config exposes the .cfg codec: round trip, YAML dump and XPath queries.
type Config struct {
	conv *convert.Registry
}

func (cf Config) Route() []helper.SrvOption {
	return []helper.SrvOption{
		helper.WithPost("/roundtrip", cf.roundtrip),
		helper.WithPost("/dump", cf.dump),
		helper.WithPost("/query", cf.query),
	}
}

// ExtractTreeFromBody parses the request body. Unresolved object references
// are logged and dropped, any other decoding failure is a bad request.
func (cf Config) ExtractTreeFromBody(c echo.Context) (*proptree.Node, error) {
	body := c.Request().Body
	defer body.Close()
	n, err := proptree.Decode(body, cf.conv)
	if n == nil {
		return nil, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	if err != nil {
		slog.Warn("config parsed with skipped leaves", "path", c.Path(), "error", err)
	}
	return n, nil
}

func (cf Config) roundtrip(c echo.Context) error {
	n, err := cf.ExtractTreeFromBody(c)
	if err != nil {
		return fail(c, err)
	}
	buf := &bytes.Buffer{}
	if err := proptree.Encode(buf, n, c.QueryParam("indent") != "false"); err != nil {
		return fail(c, err)
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationXMLCharsetUTF8, buf.Bytes())
}

func (cf Config) dump(c echo.Context) error {
	n, err := cf.ExtractTreeFromBody(c)
	if err != nil {
		return fail(c, err)
	}
	raw, err := yaml.Marshal(n)
	if err != nil {
		return fail(c, err)
	}
	return c.Blob(http.StatusOK, mimeYAML, raw)
}

type queryResponse struct {
	Matches []string `json:"matches"`
}

func (cf Config) query(c echo.Context) error {
	expr := c.QueryParam("xpath")
	if expr == "" {
		return fail(c, fmt.Errorf("%w: missing xpath parameter", errBadRequest))
	}
	n, err := cf.ExtractTreeFromBody(c)
	if err != nil {
		return fail(c, err)
	}
	matches, err := proptree.Query(n, expr)
	if err != nil {
		return fail(c, fmt.Errorf("%w: %w", errBadRequest, err))
	}
	return c.JSON(http.StatusOK, queryResponse{Matches: matches})
}
