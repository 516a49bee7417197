package helper

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	slogecho "github.com/samber/slog-echo"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	shutdownTimeout time.Duration = 10 * time.Second
	defaultAddr                   = ":8080"
)

type RouteConfigurable interface {
	Add(method, path string, handler echo.HandlerFunc, middleware ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	Group(prefix string, middleware ...echo.MiddlewareFunc) (sg *echo.Group)
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	Use(middleware ...echo.MiddlewareFunc)
}

// PATTERN Factory Options
type SrvOption func(e RouteConfigurable)

type Srv struct {
	*echo.Echo
	Addr string
	ctx  context.Context
}

func shutdown(e *echo.Echo) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return err
	}
	return nil
}

// NewServer configures an echo server without starting it.
func NewServer(opt ...SrvOption) *Srv {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Pre(middleware.RemoveTrailingSlash())

	srv := &Srv{Echo: e, Addr: defaultAddr, ctx: context.Background()}
	for _, o := range opt {
		o(srv)
	}
	return srv
}

// Run serves until the server context is done or the listener fails.
func (srv *Srv) Run() (err error) {
	defer func(e *echo.Echo) {
		if errShutdown := shutdown(e); err == nil {
			err = errShutdown
		}
	}(srv.Echo)
	errCServer := make(chan error)
	go func() {
		defer close(errCServer)
		slog.Info("http server listening", "addr", srv.Addr)
		errStart := srv.Start(srv.Addr)
		if errStart != nil && !errors.Is(errStart, http.ErrServerClosed) {
			errCServer <- errStart
		}
	}()
	select {
	case <-srv.ctx.Done():
		return nil
	case err = <-errCServer:
		return err
	}
}

func WithContext(ctx context.Context) SrvOption {
	return func(e RouteConfigurable) {
		if srv, isSrv := e.(*Srv); isSrv {
			srv.ctx = ctx
		}
	}
}

// WithLog logs every request through the default slog logger.
func WithLog() SrvOption {
	return func(e RouteConfigurable) {
		config := slogecho.Config{
			DefaultLevel:       slog.LevelInfo,
			ClientErrorLevel:   slog.LevelWarn,
			ServerErrorLevel:   slog.LevelError,
			WithRequestHeader:  false,
			WithRequestBody:    false,
			WithResponseHeader: false,
			WithResponseBody:   false,
			Filters:            []slogecho.Filter{slogecho.IgnorePathPrefix("/ping")},
		}

		e.Use(slogecho.NewWithConfig(slog.Default(), config))
	}
}

func WithGroup(grouppath string, opt ...SrvOption) SrvOption {
	return func(e RouteConfigurable) {
		g := e.Group(grouppath)
		for _, o := range opt {
			o(g)
		}
	}
}

func WithMiddleware(m ...echo.MiddlewareFunc) SrvOption {
	return func(e RouteConfigurable) {
		e.Use(m...)
	}
}

func WithGet(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) SrvOption {
	return func(e RouteConfigurable) {
		e.GET(path, h, m...)
	}
}

func WithPost(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) SrvOption {
	return func(e RouteConfigurable) {
		e.POST(path, h, m...)
	}
}

// WithAddr only applies to the top level server, groups ignore it.
func WithAddr(addr string) SrvOption {
	return func(e RouteConfigurable) {
		if srv, isSrv := e.(*Srv); isSrv && addr != "" {
			srv.Addr = addr
		} else if !isSrv {
			slog.Warn("cannot set Addr on non *Srv type", "addr", addr)
		}
	}
}
