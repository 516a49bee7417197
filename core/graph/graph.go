package graph

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
	"github.com/google/uuid"
)

const (
	GroupInputID  = "group_input"
	GroupOutputID = "group_output"

	socketsAttr = "label"
)

var (
	ErrUnknownNode     = errors.New("unknown node")
	ErrUnknownSocket   = errors.New("unknown socket")
	ErrDuplicateSocket = errors.New("socket already declared")
	ErrSocketConnected = errors.New("input socket already connected")
)

// ShaderGraph is a node group: a DAG of shader nodes keyed by node id, with an
// input and an output interface. Edges aggregate every socket connection
// between the same pair of nodes.
type ShaderGraph struct {
	graph.Graph[string, *Node]
	ID   uuid.UUID
	Name string

	inputs  []Socket
	outputs []Socket
}

// New returns a graph holding only its group input and output nodes.
func New(name string) *ShaderGraph {
	g := graph.New(func(n *Node) string {
		return n.ID
	}, graph.Directed(), graph.Acyclic(), graph.PreventCycles())
	sg := &ShaderGraph{Graph: g, ID: uuid.New(), Name: name}
	_, _ = sg.AddNode(&Node{ID: GroupInputID, Type: GroupInput, Location: [2]float64{-1200, 0}})
	_, _ = sg.AddNode(&Node{ID: GroupOutputID, Type: GroupOutput, Location: [2]float64{1200, 0}})
	return sg
}

// AddInputSocket declares a new group input.
func (sg *ShaderGraph) AddInputSocket(s Socket) error {
	if sg.HasInput(s.Name) {
		return fmt.Errorf("%w: input %q", ErrDuplicateSocket, s.Name)
	}
	sg.inputs = append(sg.inputs, s)
	return nil
}

func (sg *ShaderGraph) AddOutputSocket(s Socket) error {
	if slices.ContainsFunc(sg.outputs, func(o Socket) bool { return o.Name == s.Name }) {
		return fmt.Errorf("%w: output %q", ErrDuplicateSocket, s.Name)
	}
	sg.outputs = append(sg.outputs, s)
	return nil
}

func (sg *ShaderGraph) Inputs() []Socket  { return slices.Clone(sg.inputs) }
func (sg *ShaderGraph) Outputs() []Socket { return slices.Clone(sg.outputs) }

func (sg *ShaderGraph) Input(name string) (Socket, bool) {
	i := slices.IndexFunc(sg.inputs, func(s Socket) bool { return s.Name == name })
	if i < 0 {
		return Socket{}, false
	}
	return sg.inputs[i], true
}

func (sg *ShaderGraph) HasInput(name string) bool {
	_, ok := sg.Input(name)
	return ok
}

// AddNode inserts n and returns it so templates can chain SetDefault calls.
func (sg *ShaderGraph) AddNode(n *Node) (*Node, error) {
	if n.Inputs == nil {
		n.Inputs = map[string]Ref{}
	}
	if n.Defaults == nil {
		n.Defaults = map[string]Value{}
	}
	attrs := []func(*graph.VertexProperties){graph.VertexAttribute("shape", "box")}
	label := string(n.Type)
	if n.Operation != "" {
		label += `\n` + n.Operation
	}
	attrs = append(attrs, graph.VertexAttribute("label", n.ID+`\n`+label))
	if err := sg.AddVertex(n, attrs...); err != nil {
		return nil, fmt.Errorf("add node %s: %w", n.ID, err)
	}
	return n, nil
}

func (sg *ShaderGraph) Node(id string) (*Node, error) {
	n, err := sg.Vertex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return n, nil
}

// Connect wires the output socket from into the input socket to. Both sockets
// must exist on their node type (or on the group interface) and an input
// accepts a single connection.
func (sg *ShaderGraph) Connect(from, to Ref) error {
	src, err := sg.Node(from.Node)
	if err != nil {
		return err
	}
	dst, err := sg.Node(to.Node)
	if err != nil {
		return err
	}
	if !slices.Contains(sg.outputsOf(src), from.Socket) {
		return fmt.Errorf("%w: output %s", ErrUnknownSocket, from)
	}
	if !slices.Contains(sg.inputsOf(dst), to.Socket) {
		return fmt.Errorf("%w: input %s", ErrUnknownSocket, to)
	}
	if prev, ok := dst.Inputs[to.Socket]; ok {
		return fmt.Errorf("%w: %s from %s", ErrSocketConnected, to, prev)
	}

	label := from.Socket + " -> " + to.Socket
	err = sg.AddEdge(from.Node, to.Node, graph.EdgeAttribute(socketsAttr, label))
	if errors.Is(err, graph.ErrEdgeAlreadyExists) {
		edge, eerr := sg.Edge(from.Node, to.Node)
		if eerr != nil {
			return fmt.Errorf("connect %s to %s: %w", from, to, eerr)
		}
		label = edge.Properties.Attributes[socketsAttr] + `\n` + label
		err = sg.UpdateEdge(from.Node, to.Node, graph.EdgeAttribute(socketsAttr, label))
	}
	if err != nil {
		return fmt.Errorf("connect %s to %s: %w", from, to, err)
	}
	dst.Inputs[to.Socket] = from
	return nil
}

func (sg *ShaderGraph) inputsOf(n *Node) []string {
	if n.Type == GroupOutput {
		return socketNames(sg.outputs)
	}
	return inputSockets[n.Type]
}

func (sg *ShaderGraph) outputsOf(n *Node) []string {
	if n.Type == GroupInput {
		return socketNames(sg.inputs)
	}
	return outputSockets[n.Type]
}

func socketNames(s []Socket) []string {
	res := make([]string, 0, len(s))
	for _, sock := range s {
		res = append(res, sock.Name)
	}
	return res
}

// Nodes lists the nodes in a stable topological order.
func (sg *ShaderGraph) Nodes() ([]*Node, error) {
	order, err := graph.StableTopologicalSort[string, *Node](sg.Graph, func(a, b string) bool {
		return a < b
	})
	if err != nil {
		return nil, fmt.Errorf("sort graph %s: %w", sg.Name, err)
	}
	res := make([]*Node, 0, len(order))
	for _, id := range order {
		n, err := sg.Node(id)
		if err != nil {
			return nil, err
		}
		res = append(res, n)
	}
	return res, nil
}

// NodeCount returns the number of nodes, group input and output included.
func (sg *ShaderGraph) NodeCount() int {
	order, err := sg.Order()
	if err != nil {
		return 0
	}
	return order
}

// Sinks iterates over nodes without outgoing connections.
func (sg *ShaderGraph) Sinks() iter.Seq[*Node] {
	return sg.iterNeighborless(sg.AdjacencyMap)
}

// Sources iterates over nodes without incoming connections.
func (sg *ShaderGraph) Sources() iter.Seq[*Node] {
	return sg.iterNeighborless(sg.PredecessorMap)
}

func (sg *ShaderGraph) iterNeighborless(orientedNeighborSearch func() (map[string]map[string]graph.Edge[string], error)) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		neighborMap, err := orientedNeighborSearch()
		if err != nil {
			return
		}
		ids := make([]string, 0, len(neighborMap))
		for id, neighbors := range neighborMap {
			if len(neighbors) == 0 {
				ids = append(ids, id)
			}
		}
		slices.Sort(ids)
		for _, id := range ids {
			n, err := sg.Vertex(id)
			if err != nil {
				continue
			}
			if !yield(n) {
				return
			}
		}
	}
}

// DrawGraph renders the graph as DOT.
func (sg *ShaderGraph) DrawGraph(w io.Writer) error {
	return draw.DOT[string, *Node](sg.Graph, w,
		draw.GraphAttribute("label", strings.ReplaceAll(sg.Name, `"`, `'`)),
		draw.GraphAttribute("rankdir", "LR"),
	)
}
