package ctrl

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/benji-bou/annocfg/core/convert"
	"github.com/benji-bou/annocfg/core/preset"
	"github.com/benji-bou/annocfg/core/proptree"
	"github.com/benji-bou/annocfg/core/shader"
	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Error string `json:"error"`
}

// fail maps domain errors to status codes and reports them as JSON.
func fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, shader.ErrUnknownShader):
		status = http.StatusNotFound
	case errors.Is(err, convert.ErrFormat),
		errors.Is(err, convert.ErrLookup),
		errors.Is(err, proptree.ErrNoElement),
		errors.Is(err, preset.ErrUnknownKey),
		errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "path", c.Path(), "error", err)
	}
	return c.JSON(status, errorResponse{Error: err.Error()})
}

var errBadRequest = errors.New("bad request")
