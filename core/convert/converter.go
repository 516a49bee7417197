package convert

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	colorPrefix = "_COLOR["
	colorSuffix = "]"
)

// Converter maps the raw text of one XML leaf to a typed Value and back.
type Converter interface {
	Kind() Kind
	Decode(text string) (Value, error)
	Encode(v Value) (string, error)
}

type stringConverter struct{}

func (stringConverter) Kind() Kind                        { return String }
func (stringConverter) Decode(text string) (Value, error) { return StringValue(text), nil }
func (stringConverter) Encode(v Value) (string, error) {
	if v.kind != String {
		return "", fmt.Errorf("%w: encode %s as String", ErrKind, v.kind)
	}
	return v.s, nil
}

type boolConverter struct{}

func (boolConverter) Kind() Kind { return Bool }

func (boolConverter) Decode(text string) (Value, error) {
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return BoolValue(false), fmt.Errorf("%w: bool %q: %w", ErrFallback, text, err)
	}
	return BoolValue(i != 0), nil
}

func (boolConverter) Encode(v Value) (string, error) {
	if v.kind != Bool {
		return "", fmt.Errorf("%w: encode %s as Bool", ErrKind, v.kind)
	}
	if v.b {
		return "1", nil
	}
	return "0", nil
}

type intConverter struct{}

func (intConverter) Kind() Kind { return Int }

func (intConverter) Decode(text string) (Value, error) {
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return IntValue(0), fmt.Errorf("%w: int %q: %w", ErrFallback, text, err)
	}
	return IntValue(i), nil
}

func (intConverter) Encode(v Value) (string, error) {
	if v.kind != Int {
		return "", fmt.Errorf("%w: encode %s as Int", ErrKind, v.kind)
	}
	return strconv.FormatInt(v.i, 10), nil
}

type floatConverter struct{}

func (floatConverter) Kind() Kind { return Float }

func (floatConverter) Decode(text string) (Value, error) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return FloatValue(0), fmt.Errorf("%w: float %q: %w", ErrFallback, text, err)
	}
	return FloatValue(f), nil
}

func (floatConverter) Encode(v Value) (string, error) {
	if v.kind != Float {
		return "", fmt.Errorf("%w: encode %s as Float", ErrKind, v.kind)
	}
	return FormatFloat(v.f), nil
}

// FormatFloat renders f as the shortest decimal that decodes back to f, always
// keeping a fractional part: 1 -> "1.0", 0.30000 -> "0.3".
func FormatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

type colorConverter struct{}

func (colorConverter) Kind() Kind { return Color3 }

// Decode parses "_COLOR[r, g, b]". Whitespace is ignored anywhere in the literal.
func (colorConverter) Decode(text string) (Value, error) {
	c, err := ParseColor(text)
	if err != nil {
		return Zero(Color3), err
	}
	return ColorValue(c), nil
}

func (colorConverter) Encode(v Value) (string, error) {
	if v.kind != Color3 {
		return "", fmt.Errorf("%w: encode %s as Color3", ErrKind, v.kind)
	}
	return FormatColor(v.color), nil
}

func ParseColor(text string) (colorful.Color, error) {
	compact := strings.Join(strings.Fields(text), "")
	if !strings.HasPrefix(compact, colorPrefix) || !strings.HasSuffix(compact, colorSuffix) {
		return colorful.Color{}, fmt.Errorf("%w: color %q: missing %s...%s", ErrFormat, text, colorPrefix, colorSuffix)
	}
	parts := strings.Split(strings.TrimSuffix(strings.TrimPrefix(compact, colorPrefix), colorSuffix), ",")
	if len(parts) != 3 {
		return colorful.Color{}, fmt.Errorf("%w: color %q has %d components, want 3", ErrFormat, text, len(parts))
	}
	var rgb [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return colorful.Color{}, fmt.Errorf("%w: color %q component %d: %w", ErrFormat, text, i, err)
		}
		rgb[i] = f
	}
	return RGB(rgb[0], rgb[1], rgb[2]), nil
}

func FormatColor(c colorful.Color) string {
	return colorPrefix + FormatFloat(c.R) + ", " + FormatFloat(c.G) + ", " + FormatFloat(c.B) + colorSuffix
}

type sequenceConverter struct {
	table SequenceTable
}

func (sequenceConverter) Kind() Kind { return EnumSequenceID }

func (c sequenceConverter) Decode(text string) (Value, error) {
	id, err := strconv.Atoi(text)
	if err != nil {
		return SequenceValue(NoSequence), fmt.Errorf("%w: sequence id %q: %w", ErrFallback, text, err)
	}
	if name, ok := c.table.Name(id); ok {
		return SequenceValue(name), nil
	}
	return SequenceValue(NoSequence), nil
}

func (c sequenceConverter) Encode(v Value) (string, error) {
	if v.kind != EnumSequenceID {
		return "", fmt.Errorf("%w: encode %s as EnumSequenceID", ErrKind, v.kind)
	}
	if id, ok := c.table.ID(v.s); ok {
		return strconv.Itoa(id), nil
	}
	return strconv.Itoa(UnknownSequenceID), nil
}

type objectConverter struct {
	objects ObjectRegistry
}

func (objectConverter) Kind() Kind { return ObjectReference }

// Decode resolves text through the object registry. The empty name is the
// null reference.
func (c objectConverter) Decode(text string) (Value, error) {
	if text == "" {
		return ReferenceValue(nil), nil
	}
	if c.objects == nil {
		return ReferenceValue(nil), fmt.Errorf("%w: %q: no object registry", ErrLookup, text)
	}
	h, err := c.objects.Resolve(text)
	if err != nil {
		return ReferenceValue(nil), fmt.Errorf("%w: %q: %w", ErrLookup, text, err)
	}
	return ReferenceValue(h), nil
}

func (c objectConverter) Encode(v Value) (string, error) {
	if v.kind != ObjectReference {
		return "", fmt.Errorf("%w: encode %s as ObjectReference", ErrKind, v.kind)
	}
	if v.ref == nil || c.objects == nil {
		return "", nil
	}
	return c.objects.NameOf(v.ref), nil
}
