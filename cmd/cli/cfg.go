package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/benji-bou/annocfg/core/proptree"
	"github.com/benji-bou/annocfg/core/scene"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const materialNamesXPath = "//Config[ConfigType='MATERIAL']/Name"

var errMissingFile = errors.New("missing FILE argument")

// readTree parses the file named by the first argument. Skipped references
// are only logged.
func readTree(c *cli.Context) (*proptree.Node, error) {
	path := c.Args().First()
	if path == "" {
		return nil, errMissingFile
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, err
	}
	defer f.Close()
	n, err := proptree.Decode(f, reg)
	if n == nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err != nil {
		slog.Warn("some leaves were skipped", "file", path, "error", err)
	}
	return n, nil
}

func roundtripCommand() *cli.Command {
	return &cli.Command{
		Name:      "roundtrip",
		Usage:     "parse a .cfg file and write it back",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "destination file, stdout when empty"},
			&cli.BoolFlag{Name: "compact", Usage: "write everything on one line"},
		},
		Action: func(c *cli.Context) error {
			n, err := readTree(c)
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
			return proptree.Encode(out, n, !c.Bool("compact"))
		},
	}
}

func dumpCommand() *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "print the typed property tree of a .cfg file as YAML",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			n, err := readTree(c)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(c.App.Writer)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(n)
		},
	}
}

func printQuery(c *cli.Context, expr string) error {
	n, err := readTree(c)
	if err != nil {
		return err
	}
	matches, err := proptree.Query(n, expr)
	if err != nil {
		return err
	}
	for _, m := range matches {
		fmt.Fprintln(c.App.Writer, m)
	}
	return nil
}

func queryCommand() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "print the text of every element matching an XPath expression",
		ArgsUsage: "FILE XPATH",
		Action: func(c *cli.Context) error {
			expr := c.Args().Get(1)
			if expr == "" {
				return errors.New("missing XPATH argument")
			}
			return printQuery(c, expr)
		},
	}
}

func materialsCommand() *cli.Command {
	return &cli.Command{
		Name:      "materials",
		Usage:     "list the material names of a .cfg file",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			return printQuery(c, materialNamesXPath)
		},
	}
}

func animationsCommand() *cli.Command {
	return &cli.Command{
		Name:      "animations",
		Usage:     "split the Animations block of a model .cfg into one entry per animation",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return errMissingFile
			}
			raw, err := os.ReadFile(path) // #nosec G304
			if err != nil {
				return err
			}
			arena := scene.NewArena()
			root, err := arena.Add(scene.NoObject, scene.ClassMainFile, filepath.Base(path), nil)
			if err != nil {
				return err
			}
			props, err := proptree.ParseString(string(raw), arena.Registry())
			if props == nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			name := "MODEL_" + strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			if _, err := arena.Add(root.ID, scene.ClassModel, name, props); err != nil {
				return err
			}
			if _, err := arena.ExtractAllAnimations(root.ID); err != nil {
				return err
			}
			return arena.Walk(root.ID, func(o *scene.Object) bool {
				if o.Class != scene.ClassAnimation {
					return true
				}
				fmt.Fprintf(c.App.Writer, "# %s\n", o.Name)
				if err := proptree.Encode(c.App.Writer, o.Properties, true); err != nil {
					slog.Error("failed to encode animation", "animation", o.Name, "error", err)
					return false
				}
				return true
			})
		},
	}
}
