package costfunction

import (
	"github.com/lintang-b-s/routex/pkg"
	"github.com/lintang-b-s/routex/pkg/datastructure"
)

// max permitted speed per vehicle class, meter/second. used only for the a*
// heuristic, so the value must be an upper bound of any real edge speed for
// that class (an optimistic heuristic never overestimates remaining cost).
var maxSpeedByVehicle = map[pkg.VehicleType]float64{
	pkg.VEHICLE_CAR:        33.4, // ~120 km/h
	pkg.VEHICLE_MOTORCYCLE: 33.4,
	pkg.VEHICLE_TRUCK:      25.0, // ~90 km/h
	pkg.VEHICLE_BICYCLE:    9.0,
	pkg.VEHICLE_FOOT:       2.0,
}

// AvoidanceOptions per-request edge exclusions.
type AvoidanceOptions struct {
	AvoidTolls    bool
	AvoidHighways bool
}

// TimeCostFunction seconds-based edge weight with per-request avoidance.
// excluded edges are simply not offered as neighbors during relaxation.
type TimeCostFunction struct {
	vehicle  pkg.VehicleType
	opts     AvoidanceOptions
	maxSpeed float64 // meter/second, heuristic conversion constant
}

func NewTimeCostFunction(vehicle pkg.VehicleType, opts AvoidanceOptions, heuristicMaxSpeed float64) *TimeCostFunction {
	maxSpeed := heuristicMaxSpeed
	if maxSpeed <= 0 {
		maxSpeed = maxSpeedByVehicle[vehicle]
	}
	if maxSpeed <= 0 {
		maxSpeed = maxSpeedByVehicle[pkg.VEHICLE_CAR]
	}
	return &TimeCostFunction{
		vehicle:  vehicle,
		opts:     opts,
		maxSpeed: maxSpeed,
	}
}

// GetWeight traversal cost (second) of edge, or pkg.INF_WEIGHT when the edge
// is excluded by the avoidance options.
func (cf *TimeCostFunction) GetWeight(edge datastructure.Edge) float64 {
	if cf.opts.AvoidTolls && edge.Toll {
		return pkg.INF_WEIGHT
	}
	if cf.opts.AvoidHighways && edge.Highway {
		return pkg.INF_WEIGHT
	}
	return edge.Cost
}

// GetHeuristicCost admissible lower bound (second) for travelling distanceM
// meter: assume the maximum permitted speed the whole way.
func (cf *TimeCostFunction) GetHeuristicCost(distanceM float64) float64 {
	return distanceM / cf.maxSpeed
}

func (cf *TimeCostFunction) GetMaxSpeed() float64 {
	return cf.maxSpeed
}
