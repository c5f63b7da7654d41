package routing

import (
	"context"

	"github.com/lintang-b-s/routex/pkg"
	"github.com/lintang-b-s/routex/pkg/datastructure"
	"github.com/lintang-b-s/routex/pkg/geo"
	"github.com/lintang-b-s/routex/pkg/util"
)

type CostFunction interface {
	GetWeight(edge datastructure.Edge) float64
	GetHeuristicCost(distanceM float64) float64
}

type vertexInfo struct {
	gScore     float64
	parentNode datastructure.NodeID
	parentEdge datastructure.Edge
	hasParent  bool
}

// AStar single-request shortest path search. one search owns its open/closed
// sets and score table exclusively, concurrent route requests each run their
// own instance over the same read-only graph snapshot.
type AStar struct {
	graph     *datastructure.Graph
	costFn    CostFunction
	penalties map[datastructure.EdgeID]float64

	forwardInfo     map[datastructure.NodeID]*vertexInfo
	closed          map[datastructure.NodeID]struct{}
	pq              *datastructure.MinHeap[datastructure.NodeID]
	pqItems         map[datastructure.NodeID]*datastructure.PriorityQueueNode[datastructure.NodeID]
	numSettledNodes int
}

func NewAStar(graph *datastructure.Graph, costFn CostFunction) *AStar {
	return &AStar{
		graph:     graph,
		costFn:    costFn,
		penalties: make(map[datastructure.EdgeID]float64),
	}
}

// SetEdgePenalty multiply the weight of an edge for this search instance.
// used by the alternative-route penalty method, factor must be >= 1 so the
// heuristic stays admissible.
func (as *AStar) SetEdgePenalty(edgeID datastructure.EdgeID, factor float64) {
	if factor > 1 {
		as.penalties[edgeID] = factor
	}
}

func (as *AStar) edgeWeight(edge datastructure.Edge) float64 {
	w := as.costFn.GetWeight(edge)
	if w >= pkg.INF_WEIGHT {
		return w
	}
	if factor, ok := as.penalties[edge.ID]; ok {
		w *= factor
	}
	return w
}

func (as *AStar) heuristic(from geo.Coordinate, goal geo.Coordinate) float64 {
	return as.costFn.GetHeuristicCost(geo.Distance(from, goal))
}

// FindPath classic a* from start to goal. returns util.ErrNotFound when the
// open set empties before the goal is settled (disconnected component or all
// connecting roads excluded by avoidance options). the caller may cancel via
// ctx, checked between priority-queue pops.
func (as *AStar) FindPath(ctx context.Context, start, goal datastructure.NodeID) (datastructure.SearchResult, error) {
	startNode, ok := as.graph.GetNode(start)
	if !ok {
		return datastructure.SearchResult{}, util.WrapErrorf(nil, util.ErrNotFound, "start node %d not in graph", start)
	}
	goalNode, ok := as.graph.GetNode(goal)
	if !ok {
		return datastructure.SearchResult{}, util.WrapErrorf(nil, util.ErrNotFound, "goal node %d not in graph", goal)
	}
	if start == goal {
		return datastructure.NewSearchResult([]datastructure.NodeID{start}, nil, 0, 0), nil
	}

	as.forwardInfo = make(map[datastructure.NodeID]*vertexInfo)
	as.closed = make(map[datastructure.NodeID]struct{})
	as.pq = datastructure.NewFourAryHeap[datastructure.NodeID]()
	as.pqItems = make(map[datastructure.NodeID]*datastructure.PriorityQueueNode[datastructure.NodeID])

	as.forwardInfo[start] = &vertexInfo{gScore: 0}
	startItem := datastructure.NewPriorityQueueNode(
		as.heuristic(startNode.Coord, goalNode.Coord), 0, start)
	as.pq.Insert(startItem)
	as.pqItems[start] = startItem

	for !as.pq.IsEmpty() {
		if util.StopConcurrentOperation(ctx) {
			return datastructure.SearchResult{}, ctx.Err()
		}

		item, err := as.pq.ExtractMin()
		if err != nil {
			break
		}
		uID := item.GetItem()
		delete(as.pqItems, uID)

		if _, settled := as.closed[uID]; settled {
			continue
		}
		as.closed[uID] = struct{}{}
		as.numSettledNodes++

		if uID == goal {
			// admissible heuristic + non-negative weights: the popped goal
			// carries the optimal cost
			return as.buildResult(start, goal)
		}

		as.relaxOutEdges(uID, goalNode.Coord)
	}

	return datastructure.SearchResult{}, util.WrapErrorf(nil, util.ErrNotFound,
		"no path from node %d to node %d", start, goal)
}

func (as *AStar) relaxOutEdges(uID datastructure.NodeID, goalCoord geo.Coordinate) {
	uInfo := as.forwardInfo[uID]

	for _, edge := range as.graph.OutgoingEdges(uID) {
		vID := edge.To
		if _, settled := as.closed[vID]; settled {
			continue
		}

		edgeWeight := as.edgeWeight(edge)
		newGScore := uInfo.gScore + edgeWeight
		if newGScore >= pkg.INF_WEIGHT {
			// edge excluded by avoidance options, not offered as a neighbor
			continue
		}

		vInfo, vAlreadyVisited := as.forwardInfo[vID]
		if vAlreadyVisited && newGScore >= vInfo.gScore {
			// newGScore is not better, do nothing. parallel edges between
			// the same node pair land here too, the cheaper relaxation wins
			continue
		}

		as.forwardInfo[vID] = &vertexInfo{
			gScore:     newGScore,
			parentNode: uID,
			parentEdge: edge,
			hasParent:  true,
		}

		priority := newGScore + as.heuristic(as.nodeCoord(vID), goalCoord)
		if item, inQueue := as.pqItems[vID]; inQueue {
			if err := as.pq.DecreaseKey(item, priority, newGScore); err == nil {
				continue
			}
		}
		item := datastructure.NewPriorityQueueNode(priority, newGScore, vID)
		as.pq.Insert(item)
		as.pqItems[vID] = item
	}
}

func (as *AStar) nodeCoord(id datastructure.NodeID) geo.Coordinate {
	lat, lon := as.graph.GetNodeCoordinates(id)
	return geo.Coordinate{Lat: lat, Lon: lon}
}

// buildResult follow parent links goal to start, then reverse. distance and
// duration accumulate the raw edge attributes, not the penalized weights.
func (as *AStar) buildResult(start, goal datastructure.NodeID) (datastructure.SearchResult, error) {
	revPath := make([]datastructure.NodeID, 0)
	revEdges := make([]datastructure.Edge, 0)
	distance, duration := 0.0, 0.0

	cur := goal
	for cur != start {
		info, ok := as.forwardInfo[cur]
		if !ok || !info.hasParent {
			// parent chain broke, validation should make this impossible
			return datastructure.SearchResult{}, util.WrapErrorf(nil, util.ErrNotFound,
				"broken parent chain at node %d", cur)
		}
		revPath = append(revPath, cur)
		revEdges = append(revEdges, info.parentEdge)
		distance += info.parentEdge.Length
		duration += info.parentEdge.Cost
		cur = info.parentNode
	}
	revPath = append(revPath, start)

	return datastructure.NewSearchResult(
		util.ReverseG(revPath), util.ReverseG(revEdges), distance, duration), nil
}

func (as *AStar) GetNumSettledNodes() int {
	return as.numSettledNodes
}
