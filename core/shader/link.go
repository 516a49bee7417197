package shader

import (
	"fmt"

	"github.com/benji-bou/annocfg/core/convert"
	"github.com/benji-bou/annocfg/core/graph"
	"github.com/benji-bou/annocfg/core/proptree"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Link binds one material parameter to a group input socket and to the XML
// leaves that encode it.
type Link interface {
	Key() string
	// HasSocket is false for export-only links without graph presence.
	HasSocket() bool
	Socket() graph.Socket
	HasDefaultValue() bool
	// ToXML appends this link's leaves to cfg.
	ToXML(cfg *proptree.Node, state MaterialState, s Settings) error
	// FromXML reads this link's leaves from cfg into m.
	FromXML(cfg *proptree.Node, m *Material, s Settings) error
}

// FlagLink writes a boolean enable leaf. Gated links are only written, and
// only read back, while the flag is set.
type FlagLink struct {
	key    string
	flag   string
	socket bool
	gated  []Link
}

func NewFlagLink(key, flag string, gated ...Link) *FlagLink {
	return &FlagLink{key: key, flag: flag, gated: gated}
}

// Socketed exposes the flag as a 0/1 float input of the graph.
func (l *FlagLink) Socketed() *FlagLink {
	l.socket = true
	return l
}

func (l *FlagLink) Key() string           { return l.key }
func (l *FlagLink) Flag() string          { return l.flag }
func (l *FlagLink) HasSocket() bool       { return l.socket }
func (l *FlagLink) HasDefaultValue() bool { return l.socket }
func (l *FlagLink) Gated() []Link         { return l.gated }

func (l *FlagLink) Socket() graph.Socket {
	return graph.Socket{Name: l.key, Type: graph.FloatSocket, Default: graph.Scalar(0), HasDefault: true}
}

func (l *FlagLink) enabled(state MaterialState) bool {
	if b, ok := state.Flag(l.key); ok {
		return b
	}
	if l.socket {
		f, _ := state.Float(l.key)
		return f != 0
	}
	return false
}

func (l *FlagLink) ToXML(cfg *proptree.Node, state MaterialState, s Settings) error {
	on := l.enabled(state)
	cfg.SetValue(l.flag, convert.BoolValue(on), false)
	if !on {
		return nil
	}
	for _, g := range l.gated {
		if err := g.ToXML(cfg, state, s); err != nil {
			return fmt.Errorf("flag %s: %w", l.flag, err)
		}
	}
	return nil
}

func (l *FlagLink) FromXML(cfg *proptree.Node, m *Material, s Settings) error {
	v, _ := cfg.Value(l.flag)
	on := v.Bool()
	m.SetFlag(l.key, on)
	if l.socket {
		m.SetFloat(l.key, v.Float())
	}
	if !on {
		return nil
	}
	for _, g := range l.gated {
		if err := g.FromXML(cfg, m, s); err != nil {
			return fmt.Errorf("flag %s: %w", l.flag, err)
		}
	}
	return nil
}

// TextureLink maps an image socket to an enable flag and a texture path leaf.
type TextureLink struct {
	key  string
	path string
	flag string
}

func NewTextureLink(key, pathTag, flagTag string) *TextureLink {
	return &TextureLink{key: key, path: pathTag, flag: flagTag}
}

func (l *TextureLink) Key() string           { return l.key }
func (l *TextureLink) PathTag() string       { return l.path }
func (l *TextureLink) FlagTag() string       { return l.flag }
func (l *TextureLink) HasSocket() bool       { return true }
func (l *TextureLink) HasDefaultValue() bool { return false }

func (l *TextureLink) Socket() graph.Socket {
	return graph.Socket{Name: l.key, Type: graph.ColorSocket}
}

func (l *TextureLink) ToXML(cfg *proptree.Node, state MaterialState, s Settings) error {
	file, _ := state.Texture(l.key)
	if l.flag != "" {
		cfg.SetValue(l.flag, convert.BoolValue(file != ""), false)
	}
	if file != "" {
		file = ExportTexturePath(file, s)
	}
	cfg.SetValue(l.path, convert.StringValue(file), false)
	return nil
}

func (l *TextureLink) FromXML(cfg *proptree.Node, m *Material, s Settings) error {
	if l.flag != "" {
		if v, _ := cfg.Value(l.flag); !v.Bool() {
			return nil
		}
	}
	file := cfg.StringOr(l.path, "")
	if file == "" {
		return nil
	}
	m.SetTexture(l.key, ImportTexturePath(file, s))
	return nil
}

// FloatLink maps a float socket to a single float leaf. A detached FloatLink
// keeps the leaf without exposing a socket.
type FloatLink struct {
	key      string
	tag      string
	def      float64
	detached bool
}

func NewFloatLink(key, tag string, def float64) *FloatLink {
	return &FloatLink{key: key, tag: tag, def: def}
}

func (l *FloatLink) Detached() *FloatLink {
	l.detached = true
	return l
}

func (l *FloatLink) Key() string           { return l.key }
func (l *FloatLink) Tag() string           { return l.tag }
func (l *FloatLink) HasSocket() bool       { return !l.detached }
func (l *FloatLink) HasDefaultValue() bool { return true }

func (l *FloatLink) Socket() graph.Socket {
	return graph.Socket{Name: l.key, Type: graph.FloatSocket, Default: graph.Scalar(l.def), HasDefault: true}
}

func (l *FloatLink) ToXML(cfg *proptree.Node, state MaterialState, _ Settings) error {
	f, ok := state.Float(l.key)
	if !ok {
		f = l.def
	}
	cfg.SetValue(l.tag, convert.FloatValue(f), false)
	return nil
}

func (l *FloatLink) FromXML(cfg *proptree.Node, m *Material, _ Settings) error {
	f := l.def
	if v, ok := cfg.Value(l.tag); ok {
		f = v.Float()
	}
	m.SetFloat(l.key, f)
	return nil
}

// CompositeLink spreads one vector socket over several float leaves, one per
// component.
type CompositeLink struct {
	key  string
	kind graph.SocketType
	tags []string
	def  colorful.Color
}

// NewColorLink declares a color socket stored as <tag>.r, <tag>.g and <tag>.b.
func NewColorLink(key, tag string, def colorful.Color) *CompositeLink {
	return &CompositeLink{
		key:  key,
		kind: graph.ColorSocket,
		tags: []string{tag + ".r", tag + ".g", tag + ".b"},
		def:  def,
	}
}

// NewVectorLink declares a vector socket stored as <tag>.x, <tag>.y and <tag>.z.
func NewVectorLink(key, tag string, def colorful.Color) *CompositeLink {
	return &CompositeLink{
		key:  key,
		kind: graph.VectorSocket,
		tags: []string{tag + ".x", tag + ".y", tag + ".z"},
		def:  def,
	}
}

func (l *CompositeLink) Key() string           { return l.key }
func (l *CompositeLink) Tags() []string        { return l.tags }
func (l *CompositeLink) HasSocket() bool       { return true }
func (l *CompositeLink) HasDefaultValue() bool { return true }

func (l *CompositeLink) Socket() graph.Socket {
	return graph.Socket{Name: l.key, Type: l.kind, Default: colorValue(l.def), HasDefault: true}
}

func (l *CompositeLink) ToXML(cfg *proptree.Node, state MaterialState, _ Settings) error {
	c, ok := state.Color(l.key)
	if !ok {
		c = l.def
	}
	for i, f := range []float64{c.R, c.G, c.B} {
		cfg.SetValue(l.tags[i], convert.FloatValue(f), false)
	}
	return nil
}

func (l *CompositeLink) FromXML(cfg *proptree.Node, m *Material, _ Settings) error {
	comps := []float64{l.def.R, l.def.G, l.def.B}
	for i, tag := range l.tags {
		if v, ok := cfg.Value(tag); ok {
			comps[i] = v.Float()
		}
	}
	m.SetColor(l.key, colorful.Color{R: comps[0], G: comps[1], B: comps[2]})
	return nil
}
