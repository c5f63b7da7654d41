package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lintang-b-s/routex/pkg"
	"github.com/lintang-b-s/routex/pkg/costfunction"
	"github.com/lintang-b-s/routex/pkg/datastructure"
	"github.com/lintang-b-s/routex/pkg/geo"
	"github.com/lintang-b-s/routex/pkg/guidance"
	"github.com/lintang-b-s/routex/pkg/routecache"
	"github.com/lintang-b-s/routex/pkg/routing"
	"github.com/lintang-b-s/routex/pkg/spatialindex"
	"github.com/lintang-b-s/routex/pkg/util"
	"go.uber.org/zap"
)

const farSnapWarnDistanceM = 500.0

// snapshot immutable pairing of a graph and the spatial index built over it.
// in-flight searches keep their snapshot alive until they finish, a reload
// publishes a new one atomically.
type snapshot struct {
	graph *datastructure.Graph
	index *spatialindex.Rtree
}

// Engine the single public entry point of the pathfinding core. a web
// handler calls ComputeRoute, everything else (parsing, persistence, tiles,
// geocoding) lives outside.
type Engine struct {
	log      *zap.Logger
	cfg      Config
	validate *validator.Validate
	cache    *routecache.RouteCache

	snapshot atomic.Pointer[snapshot]
}

func New(cfg Config, log *zap.Logger) (*Engine, error) {
	cache, err := routecache.New(cfg.CacheMaxEntries, cfg.CacheTTL, log)
	if err != nil {
		return nil, err
	}
	return &Engine{
		log:      log,
		cfg:      cfg,
		validate: validator.New(),
		cache:    cache,
	}, nil
}

// LoadGraph validate and publish a new road network. builds the new snapshot
// off to the side and swaps it in atomically, so concurrent searches never
// observe a partially-loaded graph. on validation failure the previous
// snapshot (if any) stays active.
func (e *Engine) LoadGraph(nodes []datastructure.Node, edges []datastructure.Edge) error {
	graph, err := datastructure.BuildGraph(nodes, edges)
	if err != nil {
		e.log.Warn("graph load rejected", zap.Error(err))
		return err
	}

	index := spatialindex.NewRtree()
	index.Build(graph, e.log)

	e.snapshot.Store(&snapshot{graph: graph, index: index})
	e.log.Info("graph published",
		zap.Int("nodes", graph.NumNodes()),
		zap.Int("edges", graph.NumEdges()))
	return nil
}

// ComputeRoute resolve the request to graph nodes, search, and build the
// final route. results are memoized by request fingerprint, duplicate
// concurrent requests coalesce into one computation.
func (e *Engine) ComputeRoute(ctx context.Context, req RouteRequest) (*datastructure.Route, error) {
	if err := e.validateRequest(req); err != nil {
		return nil, err
	}

	snap := e.snapshot.Load()
	if snap == nil {
		return nil, util.WrapErrorf(nil, util.ErrEmptyGraph, "no graph loaded")
	}

	return e.cache.GetOrCompute(req.Fingerprint(), func() (*datastructure.Route, error) {
		return e.computeRoute(ctx, snap, req)
	})
}

// AlternativeRoutes primary route plus up to cfg.MaxAlternativeRoutes
// distinct alternatives found with the penalty method. the primary search
// is run once and its result seeds the penalties, waypoints are kept for
// every candidate. alternative requests bypass the route cache.
func (e *Engine) AlternativeRoutes(ctx context.Context, req RouteRequest) ([]*datastructure.Route, error) {
	if err := e.validateRequest(req); err != nil {
		return nil, err
	}

	snap := e.snapshot.Load()
	if snap == nil {
		return nil, util.WrapErrorf(nil, util.ErrEmptyGraph, "no graph loaded")
	}

	stops, err := e.resolveStops(snap, req)
	if err != nil {
		return nil, err
	}
	costFn := e.costFunction(req)

	primary, err := routing.SearchLegs(ctx, snap.graph, costFn, stops)
	if err != nil {
		return nil, err
	}
	routes := []*datastructure.Route{e.buildRoute(snap, req, primary)}

	alternatives, err := routing.AlternativeRoutes(ctx, snap.graph, costFn,
		stops, primary, e.cfg.MaxAlternativeRoutes)
	if err != nil {
		return nil, err
	}
	for _, alt := range alternatives {
		routes = append(routes, e.buildRoute(snap, req, alt))
	}
	return routes, nil
}

// CacheStats read-only hit/miss/eviction counters.
func (e *Engine) CacheStats() routecache.Stats {
	return e.cache.Stats()
}

func (e *Engine) validateRequest(req RouteRequest) error {
	if err := req.validateCoordinates(); err != nil {
		return err
	}
	if err := e.validate.Struct(req); err != nil {
		return util.WrapErrorf(err, util.ErrBadParamInput, "invalid route request")
	}
	return nil
}

func (e *Engine) costFunction(req RouteRequest) *costfunction.TimeCostFunction {
	// request flags widen the configured defaults, never narrow them
	opts := costfunction.AvoidanceOptions{
		AvoidTolls:    req.AvoidTolls || e.cfg.DefaultAvoidTolls,
		AvoidHighways: req.AvoidHighways || e.cfg.DefaultAvoidHighways,
	}
	return costfunction.NewTimeCostFunction(pkg.GetVehicleType(req.Vehicle), opts, e.cfg.HeuristicMaxSpeed)
}

// resolveStops snap origin, waypoints and destination to their nearest graph
// nodes, in request order.
func (e *Engine) resolveStops(snap *snapshot, req RouteRequest) ([]datastructure.NodeID, error) {
	coords := make([]geo.Coordinate, 0, len(req.Waypoints)+2)
	coords = append(coords, req.Origin)
	coords = append(coords, req.Waypoints...)
	coords = append(coords, req.Destination)

	stops := make([]datastructure.NodeID, len(coords))
	for i, coord := range coords {
		id, err := snap.index.NearestNode(coord)
		if err != nil {
			return nil, err
		}
		if snapDist := snap.index.SnapDistance(coord, id); snapDist > farSnapWarnDistanceM {
			e.log.Warn("request point is far off the road network",
				zap.Float64("lat", coord.Lat), zap.Float64("lon", coord.Lon),
				zap.Float64("snap_distance_m", snapDist))
		}
		stops[i] = id
	}
	return stops, nil
}

func (e *Engine) computeRoute(ctx context.Context, snap *snapshot, req RouteRequest) (*datastructure.Route, error) {
	started := time.Now()

	stops, err := e.resolveStops(snap, req)
	if err != nil {
		return nil, err
	}

	result, err := routing.SearchLegs(ctx, snap.graph, e.costFunction(req), stops)
	if err != nil {
		return nil, err
	}

	route := e.buildRoute(snap, req, result)
	e.log.Info("route computed",
		zap.Float64("distance_m", route.TotalDistance),
		zap.Float64("duration_s", route.TotalDuration),
		zap.Int("segments", len(route.Segments)),
		zap.Duration("took", time.Since(started)))
	return route, nil
}

func (e *Engine) buildRoute(snap *snapshot, req RouteRequest, result datastructure.SearchResult) *datastructure.Route {
	pathNodes := make([]datastructure.Node, 0, len(result.GetPath()))
	pathCoords := make([]geo.Coordinate, 0, len(result.GetPath()))
	for _, id := range result.GetPath() {
		node, _ := snap.graph.GetNode(id)
		pathNodes = append(pathNodes, node)
		pathCoords = append(pathCoords, node.Coord)
	}

	segments := guidance.NewDirectionBuilder().BuildSegments(pathNodes, result.GetEdges())

	return &datastructure.Route{
		Origin:        req.Origin,
		Destination:   req.Destination,
		Waypoints:     req.Waypoints,
		Segments:      segments,
		Geometry:      geo.PolylineFromCoords(pathCoords),
		TotalDistance: result.GetDistance(),
		TotalDuration: result.GetDuration(),
		CreatedAt:     time.Now(),
	}
}
