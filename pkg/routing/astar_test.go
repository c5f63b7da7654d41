package routing

import (
	"context"
	"errors"
	"testing"

	"github.com/lintang-b-s/routex/pkg"
	"github.com/lintang-b-s/routex/pkg/costfunction"
	"github.com/lintang-b-s/routex/pkg/datastructure"
	"github.com/lintang-b-s/routex/pkg/geo"
	"github.com/lintang-b-s/routex/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	gridSpacingDegree = 0.001 // ~111 meter
	gridEdgeLengthM   = 111.0
	gridEdgeCostS     = 10.0
)

// buildGridGraph n x n grid with 4-neighbor connectivity, every edge cost
// gridEdgeCostS. returns the graph and an id lookup by (row, col).
func buildGridGraph(t *testing.T, n int) (*datastructure.Graph, func(r, c int) datastructure.NodeID) {
	t.Helper()

	id := func(r, c int) datastructure.NodeID {
		return datastructure.NodeID(r*n + c + 1)
	}

	nodes := make([]datastructure.Node, 0, n*n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			nodes = append(nodes, datastructure.NewNode(id(r, c), geo.Coordinate{
				Lat: float64(r) * gridSpacingDegree,
				Lon: float64(c) * gridSpacingDegree,
			}))
		}
	}

	edges := make([]datastructure.Edge, 0, 4*n*n)
	edgeID := datastructure.EdgeID(1)
	addBidirectional := func(a, b datastructure.NodeID) {
		edges = append(edges,
			datastructure.Edge{ID: edgeID, From: a, To: b, Length: gridEdgeLengthM, Cost: gridEdgeCostS},
			datastructure.Edge{ID: edgeID + 1, From: b, To: a, Length: gridEdgeLengthM, Cost: gridEdgeCostS})
		edgeID += 2
	}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if c+1 < n {
				addBidirectional(id(r, c), id(r, c+1))
			}
			if r+1 < n {
				addBidirectional(id(r, c), id(r+1, c))
			}
		}
	}

	graph, err := datastructure.BuildGraph(nodes, edges)
	require.NoError(t, err)
	return graph, id
}

func carCostFunction() *costfunction.TimeCostFunction {
	return costfunction.NewTimeCostFunction(pkg.VEHICLE_CAR, costfunction.AvoidanceOptions{}, 0)
}

func TestAStarGridOptimality(t *testing.T) {
	graph, id := buildGridGraph(t, 4)

	result, err := NewAStar(graph, carCostFunction()).FindPath(context.Background(), id(0, 0), id(3, 3))
	require.NoError(t, err)

	// manhattan distance on a uniform grid: 6 hops
	assert.InDelta(t, 6*gridEdgeCostS, result.GetDuration(), 1e-9)
	assert.InDelta(t, 6*gridEdgeLengthM, result.GetDistance(), 1e-9)
	assert.Len(t, result.GetPath(), 7)
	assert.Len(t, result.GetEdges(), 6)
	assert.Equal(t, id(0, 0), result.GetPath()[0])
	assert.Equal(t, id(3, 3), result.GetPath()[6])
}

func TestAStarHeuristicAdmissible(t *testing.T) {
	graph, id := buildGridGraph(t, 4)
	costFn := carCostFunction()
	goal := id(3, 3)
	goalLat, goalLon := graph.GetNodeCoordinates(goal)

	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			start := id(r, c)
			result, err := NewAStar(graph, costFn).FindPath(context.Background(), start, goal)
			require.NoError(t, err)

			lat, lon := graph.GetNodeCoordinates(start)
			h := costFn.GetHeuristicCost(geo.CalculateHaversineDistance(lat, lon, goalLat, goalLon))
			assert.LessOrEqual(t, h, result.GetDuration()+1e-9,
				"heuristic overestimates remaining cost at (%d,%d)", r, c)
		}
	}
}

func TestAStarDeterministic(t *testing.T) {
	graph, id := buildGridGraph(t, 5)

	first, err := NewAStar(graph, carCostFunction()).FindPath(context.Background(), id(0, 0), id(4, 4))
	require.NoError(t, err)
	second, err := NewAStar(graph, carCostFunction()).FindPath(context.Background(), id(0, 0), id(4, 4))
	require.NoError(t, err)

	assert.Equal(t, first.GetPath(), second.GetPath())
}

func TestAStarStartEqualsGoal(t *testing.T) {
	graph, id := buildGridGraph(t, 2)

	result, err := NewAStar(graph, carCostFunction()).FindPath(context.Background(), id(0, 0), id(0, 0))
	require.NoError(t, err)
	assert.Equal(t, []datastructure.NodeID{id(0, 0)}, result.GetPath())
	assert.Zero(t, result.GetDistance())
	assert.Zero(t, result.GetDuration())
}

func TestAStarUnreachableGoal(t *testing.T) {
	// two disconnected components
	nodes := []datastructure.Node{
		datastructure.NewNode(1, geo.Coordinate{Lat: 0, Lon: 0}),
		datastructure.NewNode(2, geo.Coordinate{Lat: 0, Lon: 0.001}),
		datastructure.NewNode(3, geo.Coordinate{Lat: 1, Lon: 1}),
		datastructure.NewNode(4, geo.Coordinate{Lat: 1, Lon: 1.001}),
	}
	edges := []datastructure.Edge{
		{ID: 1, From: 1, To: 2, Length: 111, Cost: 10},
		{ID: 2, From: 3, To: 4, Length: 111, Cost: 10},
	}
	graph, err := datastructure.BuildGraph(nodes, edges)
	require.NoError(t, err)

	_, err = NewAStar(graph, carCostFunction()).FindPath(context.Background(), 1, 4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrNotFound))
}

func TestAStarAvoidanceOptions(t *testing.T) {
	// the only road from 1 to 3 crosses a tolled highway segment 2->3
	nodes := []datastructure.Node{
		datastructure.NewNode(1, geo.Coordinate{Lat: 0, Lon: 0}),
		datastructure.NewNode(2, geo.Coordinate{Lat: 0, Lon: 0.001}),
		datastructure.NewNode(3, geo.Coordinate{Lat: 0, Lon: 0.002}),
	}
	edges := []datastructure.Edge{
		{ID: 1, From: 1, To: 2, Length: 111, Cost: 10},
		{ID: 2, From: 2, To: 3, Length: 111, Cost: 10, Toll: true, Highway: true},
	}
	graph, err := datastructure.BuildGraph(nodes, edges)
	require.NoError(t, err)

	testCases := []struct {
		name      string
		opts      costfunction.AvoidanceOptions
		reachable bool
	}{
		{name: "no avoidance", opts: costfunction.AvoidanceOptions{}, reachable: true},
		{name: "avoid tolls", opts: costfunction.AvoidanceOptions{AvoidTolls: true}, reachable: false},
		{name: "avoid highways", opts: costfunction.AvoidanceOptions{AvoidHighways: true}, reachable: false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			costFn := costfunction.NewTimeCostFunction(pkg.VEHICLE_CAR, tt.opts, 0)
			result, err := NewAStar(graph, costFn).FindPath(context.Background(), 1, 3)
			if !tt.reachable {
				require.Error(t, err)
				assert.True(t, errors.Is(err, util.ErrNotFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []datastructure.NodeID{1, 2, 3}, result.GetPath())
		})
	}
}

func TestAStarParallelEdgesCheaperWins(t *testing.T) {
	nodes := []datastructure.Node{
		datastructure.NewNode(1, geo.Coordinate{Lat: 0, Lon: 0}),
		datastructure.NewNode(2, geo.Coordinate{Lat: 0, Lon: 0.001}),
	}
	edges := []datastructure.Edge{
		{ID: 1, From: 1, To: 2, Length: 150, Cost: 10},
		{ID: 2, From: 1, To: 2, Length: 111, Cost: 5},
	}
	graph, err := datastructure.BuildGraph(nodes, edges)
	require.NoError(t, err)

	result, err := NewAStar(graph, carCostFunction()).FindPath(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, result.GetEdges(), 1)
	assert.Equal(t, datastructure.EdgeID(2), result.GetEdges()[0].ID)
	assert.InDelta(t, 5, result.GetDuration(), 1e-9)
}

func TestAStarCancellation(t *testing.T) {
	graph, id := buildGridGraph(t, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAStar(graph, carCostFunction()).FindPath(ctx, id(0, 0), id(3, 3))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSearchLegsWaypoints(t *testing.T) {
	graph, id := buildGridGraph(t, 4)

	stops := []datastructure.NodeID{id(0, 0), id(3, 0), id(3, 3)}
	result, err := SearchLegs(context.Background(), graph, carCostFunction(), stops)
	require.NoError(t, err)

	assert.InDelta(t, 6*gridEdgeCostS, result.GetDuration(), 1e-9)
	require.Len(t, result.GetPath(), 7)
	assert.Equal(t, id(0, 0), result.GetPath()[0])
	assert.Equal(t, id(3, 0), result.GetPath()[3])
	assert.Equal(t, id(3, 3), result.GetPath()[6])
}

func TestSearchLegsFailingLegFailsRequest(t *testing.T) {
	nodes := []datastructure.Node{
		datastructure.NewNode(1, geo.Coordinate{Lat: 0, Lon: 0}),
		datastructure.NewNode(2, geo.Coordinate{Lat: 0, Lon: 0.001}),
		datastructure.NewNode(3, geo.Coordinate{Lat: 1, Lon: 1}),
	}
	edges := []datastructure.Edge{
		{ID: 1, From: 1, To: 2, Length: 111, Cost: 10},
	}
	graph, err := datastructure.BuildGraph(nodes, edges)
	require.NoError(t, err)

	_, err = SearchLegs(context.Background(), graph, carCostFunction(),
		[]datastructure.NodeID{1, 2, 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrNotFound))
}

func TestAlternativeRoutesDiverge(t *testing.T) {
	// diamond: fast road via 2, slightly slower via 3
	nodes := []datastructure.Node{
		datastructure.NewNode(1, geo.Coordinate{Lat: 0, Lon: 0}),
		datastructure.NewNode(2, geo.Coordinate{Lat: 0.001, Lon: 0.001}),
		datastructure.NewNode(3, geo.Coordinate{Lat: -0.001, Lon: 0.001}),
		datastructure.NewNode(4, geo.Coordinate{Lat: 0, Lon: 0.002}),
	}
	edges := []datastructure.Edge{
		{ID: 1, From: 1, To: 2, Length: 157, Cost: 10},
		{ID: 2, From: 2, To: 4, Length: 157, Cost: 10},
		{ID: 3, From: 1, To: 3, Length: 157, Cost: 11},
		{ID: 4, From: 3, To: 4, Length: 157, Cost: 11},
	}
	graph, err := datastructure.BuildGraph(nodes, edges)
	require.NoError(t, err)
	costFn := carCostFunction()

	primary, err := NewAStar(graph, costFn).FindPath(context.Background(), 1, 4)
	require.NoError(t, err)
	assert.Equal(t, []datastructure.NodeID{1, 2, 4}, primary.GetPath())

	alternatives, err := AlternativeRoutes(context.Background(), graph, costFn,
		[]datastructure.NodeID{1, 4}, primary, 2)
	require.NoError(t, err)
	require.Len(t, alternatives, 1)
	assert.Equal(t, []datastructure.NodeID{1, 3, 4}, alternatives[0].GetPath())
}

func TestAlternativeRoutesKeepWaypoints(t *testing.T) {
	// forced via point at 2, then two roads on to 5: fast via 3, slower via 4
	nodes := []datastructure.Node{
		datastructure.NewNode(1, geo.Coordinate{Lat: 0, Lon: 0}),
		datastructure.NewNode(2, geo.Coordinate{Lat: 0, Lon: 0.001}),
		datastructure.NewNode(3, geo.Coordinate{Lat: 0.001, Lon: 0.002}),
		datastructure.NewNode(4, geo.Coordinate{Lat: -0.001, Lon: 0.002}),
		datastructure.NewNode(5, geo.Coordinate{Lat: 0, Lon: 0.003}),
	}
	edges := []datastructure.Edge{
		{ID: 1, From: 1, To: 2, Length: 111, Cost: 10},
		{ID: 2, From: 2, To: 3, Length: 157, Cost: 10},
		{ID: 3, From: 3, To: 5, Length: 157, Cost: 10},
		{ID: 4, From: 2, To: 4, Length: 157, Cost: 11},
		{ID: 5, From: 4, To: 5, Length: 157, Cost: 11},
	}
	graph, err := datastructure.BuildGraph(nodes, edges)
	require.NoError(t, err)
	costFn := carCostFunction()

	stops := []datastructure.NodeID{1, 2, 5}
	primary, err := SearchLegs(context.Background(), graph, costFn, stops)
	require.NoError(t, err)
	assert.Equal(t, []datastructure.NodeID{1, 2, 3, 5}, primary.GetPath())

	alternatives, err := AlternativeRoutes(context.Background(), graph, costFn, stops, primary, 2)
	require.NoError(t, err)
	require.Len(t, alternatives, 1)
	// the alternative still passes through the via point
	assert.Equal(t, []datastructure.NodeID{1, 2, 4, 5}, alternatives[0].GetPath())
}

func TestSearchLegsCancelledIsNotNoRoute(t *testing.T) {
	graph, id := buildGridGraph(t, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SearchLegs(ctx, graph, carCostFunction(),
		[]datastructure.NodeID{id(0, 0), id(3, 3)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, util.ErrNotFound))
}
