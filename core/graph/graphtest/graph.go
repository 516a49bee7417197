package graphtest

import (
	"testing"

	"github.com/benji-bou/annocfg/core/graph"
)

type TestNode struct {
	ID        string
	Type      graph.NodeType
	Operation string
	Defaults  map[string]graph.Value
}

type TestLink struct {
	From graph.Ref
	To   graph.Ref
}

// TestGraph is a declarative graph used by table tests.
type TestGraph struct {
	Name    string
	Inputs  []graph.Socket
	Outputs []graph.Socket
	Nodes   []TestNode
	Links   []TestLink
}

// Build materialises tg, failing the test on any construction error.
func (tg TestGraph) Build(t *testing.T) *graph.ShaderGraph {
	t.Helper()
	g := graph.New(tg.Name)
	for _, s := range tg.Inputs {
		if err := g.AddInputSocket(s); err != nil {
			t.Fatalf("AddInputSocket(%s): %v", s.Name, err)
		}
	}
	for _, s := range tg.Outputs {
		if err := g.AddOutputSocket(s); err != nil {
			t.Fatalf("AddOutputSocket(%s): %v", s.Name, err)
		}
	}
	for _, n := range tg.Nodes {
		if _, err := g.AddNode(&graph.Node{ID: n.ID, Type: n.Type, Operation: n.Operation, Defaults: n.Defaults}); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	for _, l := range tg.Links {
		if err := g.Connect(l.From, l.To); err != nil {
			t.Fatalf("Connect(%s, %s): %v", l.From, l.To, err)
		}
	}
	return g
}

func ColorInput(name string) graph.Socket {
	return graph.Socket{Name: name, Type: graph.ColorSocket}
}

func FloatInput(name string, def float64) graph.Socket {
	return graph.Socket{Name: name, Type: graph.FloatSocket, Default: graph.Scalar(def), HasDefault: true}
}

// NormalReconstruction is the normal map chain rebuilding the blue channel
// from red and green: b = sqrt(1 - r^2 - g^2).
func NormalReconstruction() TestGraph {
	in := graph.GroupInputID
	return TestGraph{
		Name:    "normal",
		Inputs:  []graph.Socket{ColorInput("cNormal")},
		Outputs: []graph.Socket{{Name: "Color", Type: graph.ColorSocket}},
		Nodes: []TestNode{
			{ID: "separate", Type: graph.SeparateRGB},
			{ID: "pow_r", Type: graph.Math, Operation: graph.OpPower, Defaults: map[string]graph.Value{"Value_001": graph.Scalar(2)}},
			{ID: "pow_g", Type: graph.Math, Operation: graph.OpPower, Defaults: map[string]graph.Value{"Value_001": graph.Scalar(2)}},
			{ID: "sum", Type: graph.Math, Operation: graph.OpAdd},
			{ID: "one_minus", Type: graph.Math, Operation: graph.OpSubtract, Defaults: map[string]graph.Value{"Value": graph.Scalar(1)}},
			{ID: "sqrt", Type: graph.Math, Operation: graph.OpSqrt},
			{ID: "combine", Type: graph.CombineRGB},
		},
		Links: []TestLink{
			{graph.Out(in, "cNormal"), graph.Out("separate", "Image")},
			{graph.Out("separate", "R"), graph.Out("pow_r", "Value")},
			{graph.Out("separate", "G"), graph.Out("pow_g", "Value")},
			{graph.Out("pow_r", "Value"), graph.Out("sum", "Value")},
			{graph.Out("pow_g", "Value"), graph.Out("sum", "Value_001")},
			{graph.Out("sum", "Value"), graph.Out("one_minus", "Value_001")},
			{graph.Out("one_minus", "Value"), graph.Out("sqrt", "Value")},
			{graph.Out("separate", "R"), graph.Out("combine", "R")},
			{graph.Out("separate", "G"), graph.Out("combine", "G")},
			{graph.Out("sqrt", "Value"), graph.Out("combine", "B")},
			{graph.Out("combine", "Image"), graph.Out(graph.GroupOutputID, "Color")},
		},
	}
}
