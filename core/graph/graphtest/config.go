package graphtest

import "github.com/benji-bou/annocfg/core/graph"

// EvalCase describes one numeric check of a built graph.
// `Inputs` are the group input values fed to the evaluation,
// `Location` the object location seen by ObjectInfo nodes and
// `Expected` maps a node socket to the value it must hold.
type EvalCase struct {
	Name     string
	Inputs   map[string]graph.Value
	Location graph.Value
	Expected map[graph.Ref]graph.Value
}
