package graph

import (
	"fmt"
	"math"
)

// Value is the payload carried by every socket. Colors and vectors use the
// three components, scalars are broadcast to all of them.
type Value [3]float64

func Scalar(f float64) Value { return Value{f, f, f} }

// Float collapses v to a scalar by averaging its components.
func (v Value) Float() float64 {
	if v[0] == v[1] && v[1] == v[2] {
		return v[0]
	}
	return (v[0] + v[1] + v[2]) / 3
}

func (v Value) Add(o Value) Value     { return Value{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }
func (v Value) Mul(o Value) Value     { return Value{v[0] * o[0], v[1] * o[1], v[2] * o[2]} }
func (v Value) Scale(f float64) Value { return Value{v[0] * f, v[1] * f, v[2] * f} }

func (v Value) Normalize() Value {
	l := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// ApproxEqual compares component wise within tol.
func (v Value) ApproxEqual(o Value, tol float64) bool {
	for i := range v {
		if math.Abs(v[i]-o[i]) > tol {
			return false
		}
	}
	return true
}

type SocketType string

const (
	FloatSocket  SocketType = "NodeSocketFloat"
	ColorSocket  SocketType = "NodeSocketColor"
	VectorSocket SocketType = "NodeSocketVector"
	ShaderSocket SocketType = "NodeSocketShader"
)

// Socket is one group interface socket.
type Socket struct {
	Name       string
	Type       SocketType
	Default    Value
	HasDefault bool
}

type NodeType string

const (
	GroupInput     NodeType = "NodeGroupInput"
	GroupOutput    NodeType = "NodeGroupOutput"
	MixRGB         NodeType = "ShaderNodeMixRGB"
	RGBToBW        NodeType = "ShaderNodeRGBToBW"
	SeparateRGB    NodeType = "ShaderNodeSeparateRGB"
	CombineRGB     NodeType = "ShaderNodeCombineRGB"
	Math           NodeType = "ShaderNodeMath"
	VectorMath     NodeType = "ShaderNodeVectorMath"
	NormalMap      NodeType = "ShaderNodeNormalMap"
	Bump           NodeType = "ShaderNodeBump"
	ObjectInfo     NodeType = "ShaderNodeObjectInfo"
	ValToRGB       NodeType = "ShaderNodeValToRGB"
	PrincipledBSDF NodeType = "ShaderNodeBsdfPrincipled"
)

// Operations understood by Math, VectorMath and MixRGB nodes.
const (
	OpAdd      = "ADD"
	OpSubtract = "SUBTRACT"
	OpMultiply = "MULTIPLY"
	OpPower    = "POWER"
	OpSqrt     = "SQRT"
	OpFract    = "FRACT"
	OpScale    = "SCALE"
	OpMix      = "MIX"
)

var inputSockets = map[NodeType][]string{
	MixRGB:         {"Fac", "Color1", "Color2"},
	RGBToBW:        {"Color"},
	SeparateRGB:    {"Image"},
	CombineRGB:     {"R", "G", "B"},
	Math:           {"Value", "Value_001"},
	VectorMath:     {"Vector", "Vector_001", "Scale"},
	NormalMap:      {"Strength", "Color"},
	Bump:           {"Strength", "Height", "Normal"},
	ObjectInfo:     {},
	ValToRGB:       {"Fac"},
	PrincipledBSDF: {"Base Color", "Metallic", "Roughness", "Alpha", "Normal", "Emission Color", "Emission Strength"},
}

var outputSockets = map[NodeType][]string{
	MixRGB:         {"Color"},
	RGBToBW:        {"Val"},
	SeparateRGB:    {"R", "G", "B"},
	CombineRGB:     {"Image"},
	Math:           {"Value"},
	VectorMath:     {"Vector"},
	NormalMap:      {"Normal"},
	Bump:           {"Normal"},
	ObjectInfo:     {"Location", "Random"},
	ValToRGB:       {"Color", "Alpha"},
	PrincipledBSDF: {"BSDF"},
	GroupOutput:    {},
}

// RampStop is one color ramp element. Ramps always use constant interpolation.
type RampStop struct {
	Position float64
	Color    Value
}

// Ref addresses one socket of one node.
type Ref struct {
	Node   string
	Socket string
}

func Out(node, socket string) Ref { return Ref{Node: node, Socket: socket} }

func (r Ref) String() string { return r.Node + "." + r.Socket }

// Node is one vertex of a ShaderGraph. Inputs holds the wiring of its input
// sockets; unconnected inputs fall back to Defaults.
type Node struct {
	ID        string
	Type      NodeType
	Label     string
	Operation string
	Location  [2]float64
	Defaults  map[string]Value
	Inputs    map[string]Ref
	Ramp      []RampStop
}

func (n *Node) String() string {
	if n.Operation != "" {
		return fmt.Sprintf("%s(%s:%s)", n.ID, n.Type, n.Operation)
	}
	return fmt.Sprintf("%s(%s)", n.ID, n.Type)
}

// SetDefault assigns the value used by an unconnected input.
func (n *Node) SetDefault(socket string, v Value) *Node {
	if n.Defaults == nil {
		n.Defaults = map[string]Value{}
	}
	n.Defaults[socket] = v
	return n
}
