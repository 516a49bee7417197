package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/benji-bou/annocfg/core/api"
	"github.com/benji-bou/annocfg/core/api/ctrl"
	"github.com/benji-bou/annocfg/core/config"
	"github.com/benji-bou/annocfg/core/shader"
	"github.com/benji-bou/annocfg/helper"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "annocfg-webapi",
		Usage: "serve the annocfg codec and shader catalog over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML settings file",
				EnvVars: []string{"ANNOCFG_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "listen address, overrides the settings file",
				EnvVars: []string{"ADDR"},
			},
		},
		Action: func(c *cli.Context) error {
			var opt []config.Option
			if c.IsSet("addr") {
				opt = append(opt, config.WithListen(c.String("addr")))
			}
			cfg, err := config.LoadFile(c.String("config"), opt...)
			if err != nil {
				return err
			}
			helper.SetLog(cfg.Level())
			reg, err := cfg.Registry()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return api.Listen(ctx, cfg.Listen,
				ctrl.NewConfig(reg),
				ctrl.NewShader(shader.DefaultCatalog(), shader.NewGraphRegistry(), cfg.Settings()),
			)
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
