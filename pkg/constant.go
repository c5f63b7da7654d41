package pkg

// enum of maneuver kind emitted by the guidance direction builder
type ManeuverType uint8

const (
	MANEUVER_START ManeuverType = iota
	MANEUVER_STRAIGHT
	MANEUVER_TURN_SLIGHT_LEFT
	MANEUVER_TURN_SLIGHT_RIGHT
	MANEUVER_TURN_LEFT
	MANEUVER_TURN_RIGHT
	MANEUVER_TURN_SHARP_LEFT
	MANEUVER_TURN_SHARP_RIGHT
	MANEUVER_U_TURN
	MANEUVER_ARRIVE
)

func (m ManeuverType) String() string {
	switch m {
	case MANEUVER_START:
		return "Start"
	case MANEUVER_STRAIGHT:
		return "Straight"
	case MANEUVER_TURN_SLIGHT_LEFT:
		return "TurnSlightLeft"
	case MANEUVER_TURN_SLIGHT_RIGHT:
		return "TurnSlightRight"
	case MANEUVER_TURN_LEFT:
		return "TurnLeft"
	case MANEUVER_TURN_RIGHT:
		return "TurnRight"
	case MANEUVER_TURN_SHARP_LEFT:
		return "TurnSharpLeft"
	case MANEUVER_TURN_SHARP_RIGHT:
		return "TurnSharpRight"
	case MANEUVER_U_TURN:
		return "UTurn"
	case MANEUVER_ARRIVE:
		return "Arrive"
	}
	return "Unknown"
}

type VehicleType uint8

const (
	VEHICLE_CAR VehicleType = iota
	VEHICLE_MOTORCYCLE
	VEHICLE_TRUCK
	VEHICLE_BICYCLE
	VEHICLE_FOOT
)

func (v VehicleType) String() string {
	switch v {
	case VEHICLE_MOTORCYCLE:
		return "motorcycle"
	case VEHICLE_TRUCK:
		return "truck"
	case VEHICLE_BICYCLE:
		return "bicycle"
	case VEHICLE_FOOT:
		return "foot"
	}
	return "car"
}

// GetVehicleType parse vehicle class from a route request. unknown classes fall back to car.
func GetVehicleType(vehicle string) VehicleType {
	switch vehicle {
	case "motorcycle":
		return VEHICLE_MOTORCYCLE
	case "truck":
		return VEHICLE_TRUCK
	case "bicycle":
		return VEHICLE_BICYCLE
	case "foot":
		return VEHICLE_FOOT
	}
	return VEHICLE_CAR
}

type RoadClass uint8

// enum of road class for routing: https://wiki.openstreetmap.org/wiki/OSM_tags_for_routing/Telenav
const (
	ROAD_MOTORWAY RoadClass = iota
	ROAD_TRUNK
	ROAD_PRIMARY
	ROAD_SECONDARY
	ROAD_TERTIARY
	ROAD_RESIDENTIAL
	ROAD_SERVICE
	ROAD_UNCLASSIFIED
)

const (
	INF_WEIGHT float64 = 1e15

	// delta-bearing thresholds (degree) for maneuver classification
	STRAIGHT_MAX_DELTA_DEGREE    = 10.0
	SLIGHT_TURN_MAX_DELTA_DEGREE = 45.0
	TURN_MAX_DELTA_DEGREE        = 135.0
	U_TURN_MIN_DELTA_DEGREE      = 170.0

	// coordinate rounding precision used by the route cache fingerprint.
	// 5 decimal places ~ 1.1 meter at the equator.
	FINGERPRINT_COORD_PRECISION = 5

	ALTERNATIVE_ROUTE_PENALTY_FACTOR = 1.25
	MAX_ALTERNATIVE_ROUTES           = 2
)
