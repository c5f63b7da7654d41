package engine

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/lintang-b-s/routex/pkg"
	"github.com/lintang-b-s/routex/pkg/geo"
	"github.com/lintang-b-s/routex/pkg/util"
)

// RouteRequest single route query. coordinates must be already resolved,
// free-text geocoding is not this engine's job. immutable, constructed once
// per call.
type RouteRequest struct {
	Origin        geo.Coordinate   `json:"origin"`
	Destination   geo.Coordinate   `json:"destination"`
	Waypoints     []geo.Coordinate `json:"waypoints,omitempty"`
	Vehicle       string           `json:"vehicle" validate:"omitempty,oneof=car motorcycle truck bicycle foot"`
	AvoidTolls    bool             `json:"avoid_tolls"`
	AvoidHighways bool             `json:"avoid_highways"`
}

func NewRouteRequest(origin, destination geo.Coordinate) RouteRequest {
	return RouteRequest{
		Origin:      origin,
		Destination: destination,
		Vehicle:     pkg.VEHICLE_CAR.String(),
	}
}

// coordinates reject out-of-range input at the boundary, before anything
// touches the graph.
func (r RouteRequest) validateCoordinates() error {
	if _, err := geo.NewCoordinate(r.Origin.Lat, r.Origin.Lon); err != nil {
		return util.WrapErrorf(err, util.ErrOutOfRange, "origin")
	}
	if _, err := geo.NewCoordinate(r.Destination.Lat, r.Destination.Lon); err != nil {
		return util.WrapErrorf(err, util.ErrOutOfRange, "destination")
	}
	for i, wp := range r.Waypoints {
		if _, err := geo.NewCoordinate(wp.Lat, wp.Lon); err != nil {
			return util.WrapErrorf(err, util.ErrOutOfRange, "waypoint %d", i)
		}
	}
	return nil
}

// Fingerprint deterministic cache key of the normalized request. coordinates
// are rounded so that semantically identical requests collide, waypoint
// order is preserved.
func (r RouteRequest) Fingerprint() string {
	var sb strings.Builder

	writeCoord := func(c geo.Coordinate) {
		fmt.Fprintf(&sb, "%s,%s;",
			util.FormatFloat(util.RoundFloat(c.Lat, pkg.FINGERPRINT_COORD_PRECISION), pkg.FINGERPRINT_COORD_PRECISION),
			util.FormatFloat(util.RoundFloat(c.Lon, pkg.FINGERPRINT_COORD_PRECISION), pkg.FINGERPRINT_COORD_PRECISION))
	}

	writeCoord(r.Origin)
	writeCoord(r.Destination)
	for _, wp := range r.Waypoints {
		writeCoord(wp)
	}
	fmt.Fprintf(&sb, "v=%s;t=%t;h=%t", pkg.GetVehicleType(r.Vehicle), r.AvoidTolls, r.AvoidHighways)

	hash := fnv.New64a()
	hash.Write([]byte(sb.String()))
	return fmt.Sprintf("%016x", hash.Sum64())
}
