package datastructure

import (
	"github.com/lintang-b-s/routex/pkg"
	"github.com/lintang-b-s/routex/pkg/geo"
	"github.com/lintang-b-s/routex/pkg/util"
)

type NodeID uint64

type EdgeID uint64

// Node road network vertex. immutable once loaded into a graph.
type Node struct {
	ID        NodeID         `json:"id"`
	Coord     geo.Coordinate `json:"coord"`
	Elevation float64        `json:"elevation"`
	Barrier   bool           `json:"barrier"`
}

func NewNode(id NodeID, coord geo.Coordinate) Node {
	return Node{ID: id, Coord: coord}
}

// Edge directed road segment. a bidirectional road is loaded as two edges.
type Edge struct {
	ID         EdgeID        `json:"id"`
	From       NodeID        `json:"from"`
	To         NodeID        `json:"to"`
	Length     float64       `json:"length"`      // meter
	Cost       float64       `json:"cost"`        // second
	StreetName string        `json:"street_name"` // empty for unnamed roads
	RoadClass  pkg.RoadClass `json:"road_class"`
	OneWay     bool          `json:"one_way"`
	Toll       bool          `json:"toll"`
	Highway    bool          `json:"highway"`
}

// Graph arena-owned road network. nodes and edges reference each other by id
// only, all lookups go through the graph. read-only after BuildGraph, so it
// is safe for any number of concurrent searches without locking.
type Graph struct {
	nodes    map[NodeID]Node
	outEdges map[NodeID][]Edge
	numEdges int
}

// BuildGraph validate and index the node/edge set. the whole set is rejected
// on the first dangling endpoint or non-positive cost, so a published graph
// never contains a half-valid edge table.
func BuildGraph(nodes []Node, edges []Edge) (*Graph, error) {
	g := &Graph{
		nodes:    make(map[NodeID]Node, len(nodes)),
		outEdges: make(map[NodeID][]Edge, len(nodes)),
	}
	for _, node := range nodes {
		g.nodes[node.ID] = node
	}

	for _, edge := range edges {
		if _, ok := g.nodes[edge.From]; !ok {
			return nil, util.WrapErrorf(nil, util.ErrDanglingEdge,
				"edge %d: from_node %d not in graph", edge.ID, edge.From)
		}
		if _, ok := g.nodes[edge.To]; !ok {
			return nil, util.WrapErrorf(nil, util.ErrDanglingEdge,
				"edge %d: to_node %d not in graph", edge.ID, edge.To)
		}
		// a* requires strictly positive edge costs
		if edge.Cost <= 0 || edge.Length < 0 {
			return nil, util.WrapErrorf(nil, util.ErrInvalidEdgeCost,
				"edge %d: cost %f length %f", edge.ID, edge.Cost, edge.Length)
		}
		g.outEdges[edge.From] = append(g.outEdges[edge.From], edge)
		g.numEdges++
	}

	return g, nil
}

func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

func (g *Graph) NumEdges() int {
	return g.numEdges
}

func (g *Graph) IsEmpty() bool {
	return len(g.nodes) == 0
}

func (g *Graph) GetNode(id NodeID) (Node, bool) {
	node, ok := g.nodes[id]
	return node, ok
}

func (g *Graph) GetNodeCoordinates(id NodeID) (float64, float64) {
	node := g.nodes[id]
	return node.Coord.Lat, node.Coord.Lon
}

// OutgoingEdges all directed edges leaving id. empty for a dead end.
func (g *Graph) OutgoingEdges(id NodeID) []Edge {
	return g.outEdges[id]
}

func (g *Graph) ForNodes(fn func(node Node)) {
	for _, node := range g.nodes {
		fn(node)
	}
}
