package graphtest

import (
	"slices"
	"testing"

	"github.com/benji-bou/annocfg/core/graph"
)

const Tolerance = 1e-6

// AssertEval evaluates g for every case and compares the expected socket values.
func AssertEval(t *testing.T, g *graph.ShaderGraph, cases []EvalCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			t.Helper()
			ev, err := g.Evaluate(tc.Inputs, graph.WithObjectLocation(tc.Location))
			if err != nil {
				t.Fatalf("Evaluate error: %v", err)
			}
			for ref, want := range tc.Expected {
				got, ok := ev.Output(ref)
				if !ok {
					got, ok = ev.Input(ref)
				}
				if !ok {
					t.Errorf("socket %s not evaluated", ref)
					continue
				}
				if !got.ApproxEqual(want, Tolerance) {
					t.Errorf("%s = %v; want %v", ref, got, want)
				}
			}
		})
	}
}

// AssertConnected fails unless the input socket to is wired to from.
func AssertConnected(t *testing.T, g *graph.ShaderGraph, from, to graph.Ref) {
	t.Helper()
	n, err := g.Node(to.Node)
	if err != nil {
		t.Errorf("node %s: %v", to.Node, err)
		return
	}
	if got, ok := n.Inputs[to.Socket]; !ok || got != from {
		t.Errorf("%s is fed by %v; want %s", to, got, from)
	}
}

// AssertInputs compares the group input socket names in declaration order.
func AssertInputs(t *testing.T, g *graph.ShaderGraph, want []string) {
	t.Helper()
	got := make([]string, 0, len(want))
	for _, s := range g.Inputs() {
		got = append(got, s.Name)
	}
	if !slices.Equal(got, want) {
		t.Errorf("inputs = %v; want %v", got, want)
	}
}
