package graph

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/benji-bou/annocfg/helper"
)

type evalConfig struct {
	location Value
}

type EvalOption = helper.Option[evalConfig]

// WithObjectLocation sets the world location reported by ObjectInfo nodes.
func WithObjectLocation(loc Value) EvalOption {
	return func(c *evalConfig) {
		c.location = loc
	}
}

// Evaluation holds the resolved input and output values of every node.
type Evaluation struct {
	inputs  map[string]map[string]Value
	outputs map[string]map[string]Value
}

func (e *Evaluation) Output(r Ref) (Value, bool) {
	v, ok := e.outputs[r.Node][r.Socket]
	return v, ok
}

func (e *Evaluation) Input(r Ref) (Value, bool) {
	v, ok := e.inputs[r.Node][r.Socket]
	return v, ok
}

// Evaluate computes the graph for one set of group input values. Inputs that
// are not given use their socket default.
func (sg *ShaderGraph) Evaluate(inputs map[string]Value, opt ...EvalOption) (*Evaluation, error) {
	cfg := helper.ConfigurePtr(&evalConfig{}, opt...)
	order, err := sg.Nodes()
	if err != nil {
		return nil, err
	}
	ev := &Evaluation{
		inputs:  make(map[string]map[string]Value, len(order)),
		outputs: make(map[string]map[string]Value, len(order)),
	}
	for _, n := range order {
		in := make(map[string]Value, len(n.Inputs)+len(n.Defaults))
		for _, name := range sg.inputsOf(n) {
			if src, ok := n.Inputs[name]; ok {
				v, ok := ev.Output(src)
				if !ok {
					return nil, fmt.Errorf("evaluate %s: %w: %s", n.ID, ErrUnknownSocket, src)
				}
				in[name] = v
				continue
			}
			in[name] = n.Defaults[name]
		}
		ev.inputs[n.ID] = in
		out, err := sg.compute(n, in, inputs, cfg)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s: %w", n.ID, err)
		}
		ev.outputs[n.ID] = out
	}
	return ev, nil
}

func (sg *ShaderGraph) compute(n *Node, in, groupInputs map[string]Value, cfg *evalConfig) (map[string]Value, error) {
	switch n.Type {
	case GroupInput:
		out := make(map[string]Value, len(sg.inputs))
		for _, s := range sg.inputs {
			v, ok := groupInputs[s.Name]
			if !ok {
				v = s.Default
			}
			out[s.Name] = v
		}
		return out, nil
	case GroupOutput:
		return in, nil
	case MixRGB:
		return map[string]Value{"Color": mix(n.Operation, in["Fac"].Float(), in["Color1"], in["Color2"])}, nil
	case RGBToBW:
		return map[string]Value{"Val": Scalar(luminance(in["Color"]))}, nil
	case SeparateRGB:
		c := in["Image"]
		return map[string]Value{"R": Scalar(c[0]), "G": Scalar(c[1]), "B": Scalar(c[2])}, nil
	case CombineRGB:
		return map[string]Value{"Image": {in["R"].Float(), in["G"].Float(), in["B"].Float()}}, nil
	case Math:
		v, err := mathOp(n.Operation, in["Value"].Float(), in["Value_001"].Float())
		if err != nil {
			return nil, err
		}
		return map[string]Value{"Value": Scalar(v)}, nil
	case VectorMath:
		switch n.Operation {
		case OpScale:
			return map[string]Value{"Vector": in["Vector"].Scale(in["Scale"].Float())}, nil
		case OpMultiply:
			return map[string]Value{"Vector": in["Vector"].Mul(in["Vector_001"])}, nil
		case OpAdd:
			return map[string]Value{"Vector": in["Vector"].Add(in["Vector_001"])}, nil
		}
		return nil, fmt.Errorf("unsupported vector operation %q", n.Operation)
	case NormalMap:
		c := in["Color"]
		tangent := Value{c[0]*2 - 1, c[1]*2 - 1, c[2]*2 - 1}.Normalize()
		s := in["Strength"].Float()
		flat := Value{0, 0, 1}
		return map[string]Value{"Normal": flat.Scale(1 - s).Add(tangent.Scale(s)).Normalize()}, nil
	case Bump:
		normal := Value{0, 0, 1}
		if _, ok := n.Inputs["Normal"]; ok {
			normal = in["Normal"]
		}
		return map[string]Value{"Normal": normal}, nil
	case ObjectInfo:
		return map[string]Value{"Location": cfg.location, "Random": Scalar(0)}, nil
	case ValToRGB:
		c := ramp(n.Ramp, in["Fac"].Float())
		return map[string]Value{"Color": c, "Alpha": Scalar(1)}, nil
	case PrincipledBSDF:
		return map[string]Value{"BSDF": in["Base Color"]}, nil
	}
	slog.Warn("node type has no evaluator", "node", n.ID, "type", n.Type)
	return map[string]Value{}, nil
}

func mix(op string, fac float64, c1, c2 Value) Value {
	switch op {
	case OpMultiply:
		return c1.Mul(Value{1 - fac + fac*c2[0], 1 - fac + fac*c2[1], 1 - fac + fac*c2[2]})
	default:
		return c1.Scale(1 - fac).Add(c2.Scale(fac))
	}
}

// luminance uses Rec. 709 weights.
func luminance(c Value) float64 {
	return 0.2126*c[0] + 0.7152*c[1] + 0.0722*c[2]
}

func mathOp(op string, a, b float64) (float64, error) {
	switch op {
	case OpAdd:
		return a + b, nil
	case OpSubtract:
		return a - b, nil
	case OpMultiply:
		return a * b, nil
	case OpPower:
		return math.Pow(a, b), nil
	case OpSqrt:
		if a <= 0 {
			return 0, nil
		}
		return math.Sqrt(a), nil
	case OpFract:
		return a - math.Floor(a), nil
	}
	return 0, fmt.Errorf("unsupported math operation %q", op)
}

// ramp returns the color of the last stop at or before fac.
func ramp(stops []RampStop, fac float64) Value {
	if len(stops) == 0 {
		return Scalar(fac)
	}
	c := stops[0].Color
	for _, s := range stops {
		if s.Position <= fac {
			c = s.Color
		}
	}
	return c
}
