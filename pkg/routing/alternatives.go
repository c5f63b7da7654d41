package routing

import (
	"context"
	"errors"

	"github.com/lintang-b-s/routex/pkg"
	"github.com/lintang-b-s/routex/pkg/datastructure"
	"github.com/lintang-b-s/routex/pkg/util"
)

// AlternativeRoutes penalty method: re-run the search with the edges of the
// already found routes made more expensive, keep results whose node sequence
// actually differs. heuristic stays admissible because penalties only raise
// edge costs. searches run over the full stop sequence so via points are
// honored. returns up to maxAlternatives routes, possibly fewer or none.
func AlternativeRoutes(ctx context.Context, graph *datastructure.Graph, costFn CostFunction,
	stops []datastructure.NodeID, primary datastructure.SearchResult,
	maxAlternatives int) ([]datastructure.SearchResult, error) {
	if maxAlternatives > pkg.MAX_ALTERNATIVE_ROUTES {
		maxAlternatives = pkg.MAX_ALTERNATIVE_ROUTES
	}

	alternatives := make([]datastructure.SearchResult, 0, maxAlternatives)
	found := []datastructure.SearchResult{primary}

	for len(alternatives) < maxAlternatives {
		result, err := searchStopsPenalized(ctx, graph, costFn, stops, found)
		if err != nil {
			if errors.Is(err, util.ErrNotFound) {
				break
			}
			return nil, err
		}
		if !divergesFromAll(result, found) {
			// penalties were not enough to push the search off the known
			// routes, raising them further only loops
			break
		}
		alternatives = append(alternatives, result)
		found = append(found, result)
	}

	return alternatives, nil
}

// searchStopsPenalized per-leg a* over the stop sequence with every edge of
// the known routes penalized, legs concatenated in stop order.
func searchStopsPenalized(ctx context.Context, graph *datastructure.Graph, costFn CostFunction,
	stops []datastructure.NodeID, known []datastructure.SearchResult) (datastructure.SearchResult, error) {
	if len(stops) < 2 {
		return datastructure.SearchResult{}, util.WrapErrorf(nil, util.ErrNotFound, "not enough stops")
	}

	var full datastructure.SearchResult
	for i := 0; i < len(stops)-1; i++ {
		search := NewAStar(graph, costFn)
		for _, route := range known {
			for _, edge := range route.GetEdges() {
				search.SetEdgePenalty(edge.ID, pkg.ALTERNATIVE_ROUTE_PENALTY_FACTOR)
			}
		}

		leg, err := search.FindPath(ctx, stops[i], stops[i+1])
		if err != nil {
			return datastructure.SearchResult{}, err
		}
		if i == 0 {
			full = leg
		} else {
			full = full.Concat(leg)
		}
	}
	return full, nil
}

func divergesFromAll(candidate datastructure.SearchResult, known []datastructure.SearchResult) bool {
	for _, route := range known {
		if samePath(candidate.GetPath(), route.GetPath()) {
			return false
		}
	}
	return true
}

func samePath(a, b []datastructure.NodeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
