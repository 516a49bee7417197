// Package api exposes the config codec and the shader catalog over HTTP.
package api

import (
	"context"

	"github.com/benji-bou/annocfg/helper"
	"github.com/labstack/echo/v4/middleware"
)

const apiVersion = "/v1"

type Ctrler interface {
	Route() []helper.SrvOption
}

// NewServer mounts every controller under /v1.
func NewServer(ctx context.Context, addr string, ctrl ...Ctrler) *helper.Srv {
	optSrv := make([]helper.SrvOption, 0)
	for _, c := range ctrl {
		optSrv = append(optSrv, c.Route()...)
	}
	return helper.NewServer(
		helper.WithContext(ctx),
		helper.WithAddr(addr),
		helper.WithLog(),
		helper.WithMiddleware(middleware.CORS(), middleware.Recover()),
		helper.WithGroup(apiVersion, optSrv...),
	)
}

func Listen(ctx context.Context, addr string, ctrl ...Ctrler) error {
	return NewServer(ctx, addr, ctrl...).Run()
}
