package guidance

import (
	"math"

	"github.com/lintang-b-s/routex/pkg"
	"github.com/lintang-b-s/routex/pkg/geo"
)

// classifyManeuver map a signed bearing change (degree, negative = left) at a
// shared node onto a maneuver kind.
func classifyManeuver(delta float64) pkg.ManeuverType {
	absDelta := math.Abs(delta)

	switch {
	case absDelta < pkg.STRAIGHT_MAX_DELTA_DEGREE:
		return pkg.MANEUVER_STRAIGHT
	case absDelta < pkg.SLIGHT_TURN_MAX_DELTA_DEGREE:
		if delta < 0 {
			return pkg.MANEUVER_TURN_SLIGHT_LEFT
		}
		return pkg.MANEUVER_TURN_SLIGHT_RIGHT
	case absDelta < pkg.TURN_MAX_DELTA_DEGREE:
		if delta < 0 {
			return pkg.MANEUVER_TURN_LEFT
		}
		return pkg.MANEUVER_TURN_RIGHT
	case absDelta < pkg.U_TURN_MIN_DELTA_DEGREE:
		if delta < 0 {
			return pkg.MANEUVER_TURN_SHARP_LEFT
		}
		return pkg.MANEUVER_TURN_SHARP_RIGHT
	}
	return pkg.MANEUVER_U_TURN
}

// turnDirectionAt bearing change at the node shared by legs (prev -> cur ->
// next), see geo.DeltaBearing for the sign convention.
func turnDirectionAt(prev, cur, next geo.Coordinate) pkg.ManeuverType {
	inBearing := geo.Bearing(prev, cur)
	outBearing := geo.Bearing(cur, next)
	return classifyManeuver(geo.DeltaBearing(inBearing, outBearing))
}
