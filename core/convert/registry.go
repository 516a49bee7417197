package convert

import (
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/benji-bou/annocfg/helper"
)

var defaultTags = map[string]Kind{
	"ConfigType":                      String,
	"FileName":                        String,
	"Name":                            String,
	"AdaptTerrainHeight":              Bool,
	"HeightAdaptationMode":            Bool,
	"SEPARATE_AO_TEXTURE":             Bool,
	"cUseTerrainTinting":              Bool,
	"ADJUST_TO_TERRAIN_HEIGHT":        Bool,
	"VERTEX_COLORED_TERRAIN_ADAPTION": Bool,
	"ABSOLUTE_TERRAIN_ADAPTION":       Bool,
	"FORCE_ALPHA_BLEND":               Bool,
	"DisableReviveDistance":           Bool,
	"SequenceID":                      EnumSequenceID,
	"m_IdleSequenceID":                EnumSequenceID,
	"BlenderModelID":                  ObjectReference,
	"BlenderParticleID":               ObjectReference,
}

type suffixRule struct {
	suffix string
	kind   Kind
}

var defaultSuffixes = []suffixRule{
	{"_ENABLED", Bool},
}

var floatLiteral = regexp.MustCompile(`^-?(?:(?:\d+\.\d*|\.\d+)(?:[eE][-+]?\d+)?|\d+[eE][-+]?\d+)$`)

// Registry selects the converter of a leaf from its tag and raw text.
type Registry struct {
	tags      map[string]Kind
	suffixes  []suffixRule
	objects   ObjectRegistry
	sequences SequenceTable
}

type Option = helper.Option[Registry]

func NewRegistry(opt ...Option) *Registry {
	r := &Registry{
		tags:      maps.Clone(defaultTags),
		suffixes:  slices.Clone(defaultSuffixes),
		sequences: DefaultSequences(),
	}
	return helper.ConfigurePtr(r, opt...)
}

// Default is a registry with the built-in tag table and no object registry.
var Default = sync.OnceValue(func() *Registry { return NewRegistry() })

func WithTag(tag string, kind Kind) Option {
	return func(r *Registry) {
		r.tags[tag] = kind
	}
}

func WithTagSuffix(suffix string, kind Kind) Option {
	return func(r *Registry) {
		r.suffixes = append(r.suffixes, suffixRule{suffix, kind})
	}
}

func WithObjects(objects ObjectRegistry) Option {
	return func(r *Registry) {
		r.objects = objects
	}
}

func WithSequences(table SequenceTable) Option {
	return func(r *Registry) {
		if table != nil {
			r.sequences = table
		}
	}
}

// Resolve never fails: explicit tags win, then tag suffixes, then the kind
// inferred from the text.
func (r *Registry) Resolve(tag, raw string) Converter {
	return r.Converter(r.KindOf(tag, raw))
}

func (r *Registry) KindOf(tag, raw string) Kind {
	if k, ok := r.tags[tag]; ok {
		return k
	}
	for _, rule := range r.suffixes {
		if strings.HasSuffix(tag, rule.suffix) {
			return rule.kind
		}
	}
	return Infer(raw)
}

func (r *Registry) Converter(kind Kind) Converter {
	switch kind {
	case Bool:
		return boolConverter{}
	case Int:
		return intConverter{}
	case Float:
		return floatConverter{}
	case Color3:
		return colorConverter{}
	case EnumSequenceID:
		return sequenceConverter{table: r.sequences}
	case ObjectReference:
		return objectConverter{objects: r.objects}
	default:
		return stringConverter{}
	}
}

// Encode renders v with the converter of its own kind.
func (r *Registry) Encode(v Value) (string, error) {
	return r.Converter(v.Kind()).Encode(v)
}

// Infer guesses the kind of untagged text. Integers must be canonical so that
// "007" or "-0" keep their exact spelling as strings.
func Infer(raw string) Kind {
	if strings.HasPrefix(raw, colorPrefix) {
		return Color3
	}
	if isCanonicalInt(raw) {
		return Int
	}
	if floatLiteral.MatchString(raw) {
		return Float
	}
	return String
}

func isCanonicalInt(raw string) bool {
	digits := strings.TrimPrefix(raw, "-")
	if digits == "" || strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return false
	}
	i, err := strconv.ParseInt(raw, 10, 64)
	return err == nil && strconv.FormatInt(i, 10) == raw
}
