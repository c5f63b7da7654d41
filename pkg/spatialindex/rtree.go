package spatialindex

import (
	"math"

	"github.com/lintang-b-s/routex/pkg/datastructure"
	"github.com/lintang-b-s/routex/pkg/geo"
	"github.com/lintang-b-s/routex/pkg/util"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

const (
	initialSearchRadiusM = 500.0
	maxSearchRadiusM     = 4.0e6
)

// Rtree spatial index over graph nodes, used to resolve a request coordinate
// to the nearest graph node. bound to one graph snapshot, a graph reload
// builds a fresh index.
type Rtree struct {
	tr    *rtree.RTreeG[datastructure.NodeID]
	graph *datastructure.Graph
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[datastructure.NodeID]
	return &Rtree{
		tr: &tr,
	}
}

// Build index every node of the graph as a degenerate point box.
func (rt *Rtree) Build(graph *datastructure.Graph, log *zap.Logger) {
	log.Info("building r-tree spatial index...", zap.Int("nodes", graph.NumNodes()))
	rt.graph = graph
	graph.ForNodes(func(node datastructure.Node) {
		point := [2]float64{node.Coord.Lon, node.Coord.Lat}
		rt.tr.Insert(point, point, node.ID)
	})
	log.Info("r-tree spatial index built.")
}

// searchWithinRadius all node ids whose point lies inside the bounding box of
// radius (meter) around the query point.
func (rt *Rtree) searchWithinRadius(qLat, qLon, radius float64) []datastructure.NodeID {
	lowerLat, lowerLon := geo.GetDestinationPoint(qLat, qLon, 225, radius)
	upperLat, upperLon := geo.GetDestinationPoint(qLat, qLon, 45, radius)

	results := make([]datastructure.NodeID, 0, 10)
	rt.tr.Search([2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat},
		func(min, max [2]float64, data datastructure.NodeID) bool {
			results = append(results, data)
			return true
		})
	return results
}

// NearestNode node minimizing great-circle distance to the query coordinate.
// searches an expanding bounding box and only accepts a candidate when it is
// provably closer than any node outside the searched box, so the answer is
// the exact argmin regardless of index bucketing.
func (rt *Rtree) NearestNode(coord geo.Coordinate) (datastructure.NodeID, error) {
	if rt.graph == nil || rt.graph.IsEmpty() {
		return 0, util.WrapErrorf(nil, util.ErrEmptyGraph, "nearest_node on empty graph")
	}

	for radius := initialSearchRadiusM; radius <= maxSearchRadiusM; radius *= 2 {
		candidates := rt.searchWithinRadius(coord.Lat, coord.Lon, radius)
		if len(candidates) == 0 {
			continue
		}
		best, bestDist := rt.closest(coord, candidates)
		// nodes outside the box are farther than radius/2 from the query,
		// anything within that bound is the global minimum
		if bestDist <= radius/2 {
			return best, nil
		}
	}

	// sparse graph far from the query point, fall back to a linear scan
	best, _ := rt.linearScan(coord)
	return best, nil
}

func (rt *Rtree) closest(coord geo.Coordinate, candidates []datastructure.NodeID) (datastructure.NodeID, float64) {
	var best datastructure.NodeID
	bestDist := math.Inf(1)
	for _, id := range candidates {
		lat, lon := rt.graph.GetNodeCoordinates(id)
		dist := geo.CalculateHaversineDistance(coord.Lat, coord.Lon, lat, lon)
		if dist < bestDist || (dist == bestDist && id < best) {
			best = id
			bestDist = dist
		}
	}
	return best, bestDist
}

func (rt *Rtree) linearScan(coord geo.Coordinate) (datastructure.NodeID, float64) {
	var best datastructure.NodeID
	bestDist := math.Inf(1)
	rt.graph.ForNodes(func(node datastructure.Node) {
		dist := geo.Distance(coord, node.Coord)
		if dist < bestDist || (dist == bestDist && node.ID < best) {
			best = node.ID
			bestDist = dist
		}
	})
	return best, bestDist
}

// SnapDistance perpendicular distance (meter) from coord to the closest
// outgoing edge of node id. advisory, reported back to the caller so the api
// layer can warn when the request point is far off the road network.
func (rt *Rtree) SnapDistance(coord geo.Coordinate, id datastructure.NodeID) float64 {
	node, ok := rt.graph.GetNode(id)
	if !ok {
		return math.Inf(1)
	}
	best := geo.Distance(coord, node.Coord)
	for _, edge := range rt.graph.OutgoingEdges(id) {
		to, ok := rt.graph.GetNode(edge.To)
		if !ok {
			continue
		}
		dist := geo.PointLinePerpendicularDistance(node.Coord, to.Coord, coord)
		if dist < best {
			best = dist
		}
	}
	return best
}
