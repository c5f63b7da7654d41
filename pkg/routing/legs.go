package routing

import (
	"context"
	"errors"
	"runtime"

	"github.com/lintang-b-s/routex/pkg/concurrent"
	"github.com/lintang-b-s/routex/pkg/datastructure"
	"github.com/lintang-b-s/routex/pkg/util"
)

type legJob struct {
	index int
	from  datastructure.NodeID
	to    datastructure.NodeID
}

type legResult struct {
	index  int
	result datastructure.SearchResult
	err    error
}

// SearchLegs run one a* search per consecutive stop pair and concatenate the
// results in stop order. legs are independent searches, so they fan out over
// a worker pool. any failed leg fails the whole request. a cancelled or
// timed-out leg keeps its context error, "no route" is only reported when a
// search genuinely exhausted the graph.
func SearchLegs(ctx context.Context, graph *datastructure.Graph, costFn CostFunction,
	stops []datastructure.NodeID) (datastructure.SearchResult, error) {
	if len(stops) == 0 {
		return datastructure.SearchResult{}, util.WrapErrorf(nil, util.ErrNotFound, "no stops given")
	}
	if len(stops) == 1 {
		return datastructure.NewSearchResult(stops, nil, 0, 0), nil
	}

	numLegs := len(stops) - 1
	pool := concurrent.NewWorkerPool[legJob, legResult](
		util.MinInt(numLegs, runtime.NumCPU()), numLegs)
	pool.Start(func(job legJob) legResult {
		res, err := NewAStar(graph, costFn).FindPath(ctx, job.from, job.to)
		return legResult{index: job.index, result: res, err: err}
	})

	for i := 0; i < numLegs; i++ {
		pool.AddJob(legJob{index: i, from: stops[i], to: stops[i+1]})
	}
	pool.Close()
	pool.Wait()

	legs := make([]datastructure.SearchResult, numLegs)
	for res := range pool.CollectResults() {
		if res.err != nil {
			if errors.Is(res.err, context.Canceled) || errors.Is(res.err, context.DeadlineExceeded) {
				return datastructure.SearchResult{}, res.err
			}
			return datastructure.SearchResult{}, util.WrapErrorf(res.err, util.ErrNotFound,
				"leg %d of %d failed", res.index+1, numLegs)
		}
		legs[res.index] = res.result
	}

	full := legs[0]
	for _, leg := range legs[1:] {
		full = full.Concat(leg)
	}
	return full, nil
}
