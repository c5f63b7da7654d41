package datastructure

import (
	"time"

	"github.com/lintang-b-s/routex/pkg"
	"github.com/lintang-b-s/routex/pkg/geo"
)

// SearchResult single a* run output. node ids source to destination
// inclusive plus the edges traversed between them (len(edges) == len(path)-1).
type SearchResult struct {
	path     []NodeID
	edges    []Edge
	distance float64 // meter
	duration float64 // second
}

func NewSearchResult(path []NodeID, edges []Edge, distance, duration float64) SearchResult {
	return SearchResult{
		path:     path,
		edges:    edges,
		distance: distance,
		duration: duration,
	}
}

func (sr SearchResult) GetPath() []NodeID {
	return sr.path
}

func (sr SearchResult) GetEdges() []Edge {
	return sr.edges
}

func (sr SearchResult) GetDistance() float64 {
	return sr.distance
}

func (sr SearchResult) GetDuration() float64 {
	return sr.duration
}

// Concat append another leg to this result. used for waypoint routing where
// consecutive legs share the boundary node.
func (sr SearchResult) Concat(next SearchResult) SearchResult {
	path := sr.path
	nextPath := next.path
	if len(path) > 0 && len(nextPath) > 0 && path[len(path)-1] == nextPath[0] {
		nextPath = nextPath[1:]
	}
	return SearchResult{
		path:     append(append([]NodeID{}, path...), nextPath...),
		edges:    append(append([]Edge{}, sr.edges...), next.edges...),
		distance: sr.distance + next.distance,
		duration: sr.duration + next.duration,
	}
}

// RouteSegment one maneuver of the final route. serialized by the api layer,
// this package only guarantees the structure.
type RouteSegment struct {
	Start       geo.Coordinate   `json:"start"`
	End         geo.Coordinate   `json:"end"`
	Distance    float64          `json:"distance"` // meter
	Duration    float64          `json:"duration"` // second
	Instruction string           `json:"instruction"`
	StreetName  string           `json:"street_name,omitempty"`
	Maneuver    pkg.ManeuverType `json:"maneuver"`
}

type Route struct {
	Origin        geo.Coordinate   `json:"origin"`
	Destination   geo.Coordinate   `json:"destination"`
	Waypoints     []geo.Coordinate `json:"waypoints,omitempty"`
	Segments      []RouteSegment   `json:"segments"`
	Geometry      string           `json:"geometry"` // encoded polyline
	TotalDistance float64          `json:"total_distance"`
	TotalDuration float64          `json:"total_duration"`
	CreatedAt     time.Time        `json:"created_at"`
}
