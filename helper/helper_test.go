package helper_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/benji-bou/annocfg/helper"
)

type settings struct {
	name  string
	level int
}

func withName(name string) helper.Option[settings] {
	return func(s *settings) {
		s.name = name
	}
}

func TestConfigure(t *testing.T) {
	base := settings{name: "base", level: 1}
	got := helper.Configure(base, withName("a"), nil, withName("b"))
	if got.name != "b" || got.level != 1 {
		t.Errorf("Configure = %+v; want name b level 1", got)
	}
	if base.name != "base" {
		t.Errorf("Configure mutated its input: %+v", base)
	}
	ptr := helper.ConfigurePtr(&base, withName("c"))
	if ptr != &base || base.name != "c" {
		t.Errorf("ConfigurePtr did not update in place: %+v", base)
	}
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input string
		want  slog.Level
		err   bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"WARN", slog.LevelWarn, false},
		{"error+2", slog.LevelError + 2, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := helper.ParseLevel(tc.input)
			if (err != nil) != tc.err {
				t.Fatalf("ParseLevel(%q) error = %v; want error %v", tc.input, err, tc.err)
			}
			if got != tc.want {
				t.Errorf("ParseLevel(%q) = %v; want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestServerRoutes(t *testing.T) {
	srv := helper.NewServer(
		helper.WithGroup("/v1",
			helper.WithGet("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") }),
		),
	)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ping/", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Errorf("GET /v1/ping/ = %d %q; want 200 pong", rec.Code, rec.Body.String())
	}
}

func TestServerRunStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := helper.NewServer(helper.WithContext(ctx), helper.WithAddr("127.0.0.1:0"))
	done := make(chan error, 1)
	go func() { done <- srv.Run() }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run error = %v; want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the context was canceled")
	}
}
