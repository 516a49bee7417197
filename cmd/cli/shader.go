package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/benji-bou/annocfg/core/preset"
	"github.com/benji-bou/annocfg/core/proptree"
	"github.com/benji-bou/annocfg/core/shader"
	"github.com/urfave/cli/v2"
)

// parseVars turns repeated key=value flags into preset variables.
func parseVars(raw []string) (map[string]any, error) {
	vars := make(map[string]any, len(raw))
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("variable %q is not key=value", kv)
		}
		vars[k] = v
	}
	return vars, nil
}

func materialCommand() *cli.Command {
	return &cli.Command{
		Name:  "material",
		Usage: "write the material Config block described by a preset",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "preset", Aliases: []string{"p"}, Usage: "preset YAML file", Required: true},
			&cli.StringSliceFlag{Name: "var", Usage: "preset variable as key=value, repeatable"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			vars, err := parseVars(c.StringSlice("var"))
			if err != nil {
				return err
			}
			p, err := preset.NewFile(c.String("preset"), vars)
			if err != nil {
				return err
			}
			node, err := p.Export(shader.DefaultCatalog(), shader.NewGraphRegistry(), cfg.Settings())
			if err != nil {
				return err
			}
			return proptree.Encode(c.App.Writer, node, true)
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "read a material Config block back into a preset",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "shader", Aliases: []string{"s"}, Value: shader.AnnoDefaultShaderID, Usage: "shader id"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			n, err := readTree(c)
			if err != nil {
				return err
			}
			s, err := shader.DefaultCatalog().NewOrDefault(c.String("shader"))
			if err != nil {
				return err
			}
			m, err := s.Import(shader.NewGraphRegistry(), n, cfg.Settings())
			if err != nil {
				return err
			}
			raw, err := preset.FromMaterial(s.ID, m).Raw()
			if err != nil {
				return err
			}
			_, err = c.App.Writer.Write(raw)
			return err
		},
	}
}

func graphCommand() *cli.Command {
	return &cli.Command{
		Name:  "graph",
		Usage: "render the node group of a shader as DOT",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "shader", Aliases: []string{"s"}, Value: shader.AnnoDefaultShaderID, Usage: "shader id"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "destination file, stdout when empty"},
		},
		Action: func(c *cli.Context) error {
			s, err := shader.DefaultCatalog().New(c.String("shader"))
			if err != nil {
				return err
			}
			g, err := s.BuildGraph(shader.NewGraphRegistry())
			if err != nil {
				return err
			}
			out := c.App.Writer
			if path := c.String("output"); path != "" {
				f, err := os.Create(path) // #nosec G304
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return g.DrawGraph(out)
		},
	}
}

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "print the JSON schema of preset files",
		Action: func(c *cli.Context) error {
			raw, err := preset.Schema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.App.Writer, string(raw))
			return err
		},
	}
}

func shadersCommand() *cli.Command {
	return &cli.Command{
		Name:  "shaders",
		Usage: "list the known shaders and their inputs",
		Action: func(c *cli.Context) error {
			reg := shader.NewGraphRegistry()
			for _, id := range shader.DefaultCatalog().IDs() {
				s, err := shader.DefaultCatalog().New(id)
				if err != nil {
					return err
				}
				g, err := s.BuildGraph(reg)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "%s\n", id)
				for _, in := range g.Inputs() {
					fmt.Fprintf(c.App.Writer, "\t%s\t%s\n", in.Name, in.Type)
				}
			}
			return nil
		},
	}
}
