package convert

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Handle is an opaque reference to an object owned by an ObjectRegistry.
// A nil Handle is the null reference.
type Handle any

// Value is a decoded leaf value tagged with its Kind.
type Value struct {
	kind  Kind
	b     bool
	i     int64
	f     float64
	s     string
	color colorful.Color
	ref   Handle
}

func StringValue(s string) Value         { return Value{kind: String, s: s} }
func BoolValue(b bool) Value             { return Value{kind: Bool, b: b} }
func IntValue(i int64) Value             { return Value{kind: Int, i: i} }
func FloatValue(f float64) Value         { return Value{kind: Float, f: f} }
func ColorValue(c colorful.Color) Value  { return Value{kind: Color3, color: c} }
func SequenceValue(name string) Value    { return Value{kind: EnumSequenceID, s: name} }
func ReferenceValue(h Handle) Value      { return Value{kind: ObjectReference, ref: h} }
func RGB(r, g, b float64) colorful.Color { return colorful.Color{R: r, G: g, B: b} }

func (v Value) Kind() Kind            { return v.kind }
func (v Value) Color() colorful.Color { return v.color }
func (v Value) Ref() Handle           { return v.ref }

// Equal compares kind and payload. Handles must be comparable.
func (v Value) Equal(other Value) bool { return v == other }

func (v Value) String() string { return fmt.Sprintf("%s(%v)", v.kind, v.Any()) }

// Zero returns the zero value of kind k.
func Zero(k Kind) Value {
	return Value{kind: k}
}

// Any returns the payload as a plain Go value.
func (v Value) Any() any {
	switch v.kind {
	case Bool:
		return v.b
	case Int:
		return v.i
	case Float:
		return v.f
	case Color3:
		return v.color
	case ObjectReference:
		return v.ref
	default:
		return v.s
	}
}

// Text returns the textual payload of String and EnumSequenceID values.
func (v Value) Text() string {
	return v.s
}

// Bool reports the truthiness of numeric and boolean values.
func (v Value) Bool() bool {
	switch v.kind {
	case Bool:
		return v.b
	case Int:
		return v.i != 0
	case Float:
		return v.f != 0
	case String:
		return v.s != "" && v.s != "0"
	}
	return false
}

func (v Value) Int() int64 {
	switch v.kind {
	case Int:
		return v.i
	case Float:
		return int64(v.f)
	case Bool:
		if v.b {
			return 1
		}
	}
	return 0
}

func (v Value) Float() float64 {
	switch v.kind {
	case Float:
		return v.f
	case Int:
		return float64(v.i)
	case Bool:
		if v.b {
			return 1
		}
	}
	return 0
}
