// Package shader describes Anno materials as a composition of links, builds
// the matching node group once per shader and converts materials between
// their Config block and an editable MaterialState.
package shader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/benji-bou/annocfg/core/convert"
	"github.com/benji-bou/annocfg/core/graph"
	"github.com/benji-bou/annocfg/core/proptree"
	"github.com/benji-bou/annocfg/helper/collections/set"
)

const (
	ShaderOutput        = "Shader"
	DefaultMaterialName = "Unnamed Material"
	materialConfigTag   = "Config"
)

var (
	ErrUnknownProperty = errors.New("unknown material property")
	ErrPropertyKind    = errors.New("material property kind mismatch")
)

type Property struct {
	Key   string
	Value convert.Value
}

// TemplateFunc lays out the fixed topology of a shader on its node group.
type TemplateFunc func(t *Template) error

// Shader is an ordered composition of links plus the material properties
// written ahead of them.
type Shader struct {
	ID string

	links      []Link
	byKey      map[string]Link
	properties []Property
	template   TemplateFunc
}

// NewShader returns a shader with the standard material properties and no
// links. A nil template only builds the group interface.
func NewShader(id string, template TemplateFunc) *Shader {
	return &Shader{
		ID:       id,
		byKey:    map[string]Link{},
		template: template,
		properties: []Property{
			{Key: proptree.ConfigTypeTag, Value: convert.StringValue("MATERIAL")},
			{Key: "Name", Value: convert.StringValue("")},
			{Key: "ShaderID", Value: convert.IntValue(8)},
			{Key: "VertexFormat", Value: convert.StringValue("")},
			{Key: "NumBonesPerVertex", Value: convert.IntValue(0)},
		},
	}
}

// Compose appends the component's links. A link whose key was already
// declared takes over lookups by key, the earlier declaration stays listed.
func (s *Shader) Compose(c Component) *Shader {
	for _, l := range c.Links() {
		s.AddLink(l)
	}
	return s
}

func (s *Shader) AddLink(l Link) *Shader {
	s.links = append(s.links, l)
	s.byKey[l.Key()] = l
	return s
}

func (s *Shader) HasLink(key string) bool {
	_, ok := s.byKey[key]
	return ok
}

// Link returns the latest link declared under key.
func (s *Shader) Link(key string) (Link, bool) {
	l, ok := s.byKey[key]
	return l, ok
}

// Links lists every declaration in composition order, superseded ones
// included.
func (s *Shader) Links() []Link {
	return slices.Clone(s.links)
}

// Superseded reports whether a later link took over l's key.
func (s *Shader) Superseded(l Link) bool {
	return s.byKey[l.Key()] != l
}

// SetProperty replaces an existing property with a value of the same kind.
func (s *Shader) SetProperty(key string, v convert.Value) error {
	i := slices.IndexFunc(s.properties, func(p Property) bool { return p.Key == key })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownProperty, key)
	}
	if got, want := v.Kind(), s.properties[i].Value.Kind(); got != want {
		return fmt.Errorf("%w: %s is %s, got %s", ErrPropertyKind, key, want, got)
	}
	s.properties[i].Value = v
	return nil
}

// MustSetProperty is SetProperty for static shader definitions. It panics on
// an unknown key or a kind mismatch.
func (s *Shader) MustSetProperty(key string, v convert.Value) *Shader {
	if err := s.SetProperty(key, v); err != nil {
		panic(err)
	}
	return s
}

func (s *Shader) Property(key string) (convert.Value, bool) {
	i := slices.IndexFunc(s.properties, func(p Property) bool { return p.Key == key })
	if i < 0 {
		return convert.Value{}, false
	}
	return s.properties[i].Value, true
}

func (s *Shader) Properties() []Property {
	return slices.Clone(s.properties)
}

// ClearProperties drops every material property. Prop shaders export links only.
func (s *Shader) ClearProperties() *Shader {
	s.properties = nil
	return s
}

// BuildGraph returns the node group of this shader from reg, building it on
// first use.
func (s *Shader) BuildGraph(reg *GraphRegistry) (*graph.ShaderGraph, error) {
	return reg.GetOrBuild(context.Background(), s.ID, func(context.Context) (*graph.ShaderGraph, error) {
		return s.buildGraph()
	})
}

// buildGraph declares one input per socket key at the position of its first
// declaration, typed after the link currently owning the key.
func (s *Shader) buildGraph() (*graph.ShaderGraph, error) {
	g := graph.New(s.ID)
	seen := set.New[string]()
	for _, l := range s.links {
		if !l.HasSocket() || seen.Contains(l.Key()) {
			continue
		}
		seen.Add(l.Key())
		owner := s.byKey[l.Key()]
		if !owner.HasSocket() {
			continue
		}
		if err := g.AddInputSocket(owner.Socket()); err != nil {
			return nil, err
		}
	}
	if err := g.AddOutputSocket(graph.Socket{Name: ShaderOutput, Type: graph.ShaderSocket}); err != nil {
		return nil, err
	}
	if s.template != nil {
		if err := s.template(NewTemplate(g)); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// valid reports whether l takes part in export: it must own its key and its
// socket, if any, must exist on the built group.
func (s *Shader) valid(g *graph.ShaderGraph, l Link) bool {
	if s.Superseded(l) {
		return false
	}
	return !l.HasSocket() || g.HasInput(l.Key())
}

// ValidLinks lists the links export would write, in order.
func (s *Shader) ValidLinks(reg *GraphRegistry) ([]Link, error) {
	g, err := s.BuildGraph(reg)
	if err != nil {
		return nil, err
	}
	res := make([]Link, 0, len(s.links))
	for _, l := range s.links {
		if s.valid(g, l) {
			res = append(res, l)
		}
	}
	return res, nil
}

// Export writes the material Config block: properties first, then every valid
// link's leaves in link order. Invalid links are skipped silently.
func (s *Shader) Export(reg *GraphRegistry, state MaterialState, settings Settings) (*proptree.Node, error) {
	g, err := s.BuildGraph(reg)
	if err != nil {
		return nil, err
	}
	cfg := proptree.New(materialConfigTag, nil)
	for _, p := range s.properties {
		v := p.Value
		if p.Key == "Name" && state.Name() != "" {
			v = convert.StringValue(state.Name())
		}
		cfg.SetValue(p.Key, v, false)
	}
	for _, l := range s.links {
		if !s.valid(g, l) {
			slog.Debug("skipping invalid link", "shader", s.ID, "link", l.Key())
			continue
		}
		if err := l.ToXML(cfg, state, settings); err != nil {
			return nil, fmt.Errorf("export %s link %s: %w", s.ID, l.Key(), err)
		}
	}
	return cfg, nil
}

// Import reads a material Config block back into a Material through the
// valid links.
func (s *Shader) Import(reg *GraphRegistry, cfg *proptree.Node, settings Settings) (*Material, error) {
	g, err := s.BuildGraph(reg)
	if err != nil {
		return nil, err
	}
	name := cfg.StringOr("Name", "")
	if name == "" {
		name = DefaultMaterialName
	}
	m := NewMaterial(name)
	for _, l := range s.links {
		if !s.valid(g, l) {
			continue
		}
		if err := l.FromXML(cfg, m, settings); err != nil {
			return nil, fmt.Errorf("import %s link %s: %w", s.ID, l.Key(), err)
		}
	}
	return m, nil
}
