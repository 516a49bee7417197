package preset

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Color is a linear RGB triple. In YAML it is written either as a sequence
// of three floats or as a "#rrggbb" hex string.
type Color [3]float64

func (c Color) Color() colorful.Color {
	return colorful.Color{R: c[0], G: c[1], B: c[2]}
}

func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		hex, err := colorful.Hex(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: color %q: %w", node.Line, node.Value, err)
		}
		*c = Color{hex.R, hex.G, hex.B}
		return nil
	}
	var comps []float64
	if err := node.Decode(&comps); err != nil {
		return err
	}
	if len(comps) != len(c) {
		return fmt.Errorf("line %d: color needs 3 components, got %d", node.Line, len(comps))
	}
	*c = Color{comps[0], comps[1], comps[2]}
	return nil
}

func (c Color) MarshalYAML() (any, error) {
	return []float64{c[0], c[1], c[2]}, nil
}
