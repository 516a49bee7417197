package main

import (
	"log"
	"os"

	"github.com/benji-bou/annocfg/core/config"
	"github.com/benji-bou/annocfg/helper"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "annocfg",
		Usage: "annocfg reads, rewrites and generates Anno .cfg files and their materials",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML settings file",
				EnvVars: []string{"ANNOCFG_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "texture-quality",
				Usage: "texture variant suffix used for imported texture paths",
			},
			&cli.StringFlag{
				Name:  "sequences",
				Usage: "YAML table of feedback sequence names to ids",
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			helper.SetLog(cfg.Level())
			return nil
		},
		Commands: []*cli.Command{
			roundtripCommand(),
			dumpCommand(),
			queryCommand(),
			materialsCommand(),
			animationsCommand(),
			materialCommand(),
			importCommand(),
			graphCommand(),
			schemaCommand(),
			shadersCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadConfig reads the settings file and lets explicit flags override it.
func loadConfig(c *cli.Context) (config.Config, error) {
	var opt []config.Option
	if c.IsSet("log-level") {
		opt = append(opt, config.WithLogLevel(c.String("log-level")))
	}
	if c.IsSet("texture-quality") {
		opt = append(opt, config.WithTextureQuality(c.String("texture-quality")))
	}
	if c.IsSet("sequences") {
		opt = append(opt, config.WithSequencesFile(c.String("sequences")))
	}
	return config.LoadFile(c.String("config"), opt...)
}
