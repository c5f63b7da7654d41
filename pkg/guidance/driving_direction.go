package guidance

import (
	"fmt"

	"github.com/lintang-b-s/routex/pkg"
	"github.com/lintang-b-s/routex/pkg/datastructure"
)

// DirectionBuilder turns a node/edge path into human readable maneuvers.
// pure with respect to the graph, it only reads the path it is given.
type DirectionBuilder struct{}

func NewDirectionBuilder() *DirectionBuilder {
	return &DirectionBuilder{}
}

// BuildSegments one segment per traversed edge plus a terminal zero-length
// Arrive segment. nodes must be the path vertices in order and edges the
// traversed edges between them (len(nodes) == len(edges)+1). an empty or
// single-node path yields no segments.
func (db *DirectionBuilder) BuildSegments(nodes []datastructure.Node,
	edges []datastructure.Edge) []datastructure.RouteSegment {
	if len(edges) == 0 || len(nodes) != len(edges)+1 {
		return []datastructure.RouteSegment{}
	}

	segments := make([]datastructure.RouteSegment, 0, len(edges)+1)
	for i, edge := range edges {
		var maneuver pkg.ManeuverType
		if i == 0 {
			maneuver = pkg.MANEUVER_START
		} else {
			maneuver = turnDirectionAt(nodes[i-1].Coord, nodes[i].Coord, nodes[i+1].Coord)
		}

		segments = append(segments, datastructure.RouteSegment{
			Start:       nodes[i].Coord,
			End:         nodes[i+1].Coord,
			Distance:    edge.Length,
			Duration:    edge.Cost,
			Instruction: instructionText(maneuver, edge.StreetName),
			StreetName:  edge.StreetName,
			Maneuver:    maneuver,
		})
	}

	last := nodes[len(nodes)-1]
	segments = append(segments, datastructure.RouteSegment{
		Start:       last.Coord,
		End:         last.Coord,
		Instruction: "You have arrived at your destination",
		Maneuver:    pkg.MANEUVER_ARRIVE,
	})

	return segments
}

func instructionText(maneuver pkg.ManeuverType, streetName string) string {
	onStreet := ""
	if streetName != "" {
		onStreet = fmt.Sprintf(" onto %s", streetName)
	}

	switch maneuver {
	case pkg.MANEUVER_START:
		if streetName != "" {
			return fmt.Sprintf("Head out on %s", streetName)
		}
		return "Head out"
	case pkg.MANEUVER_STRAIGHT:
		if streetName != "" {
			return fmt.Sprintf("Continue straight on %s", streetName)
		}
		return "Continue straight"
	case pkg.MANEUVER_TURN_SLIGHT_LEFT:
		return fmt.Sprintf("Turn slightly left%s", onStreet)
	case pkg.MANEUVER_TURN_SLIGHT_RIGHT:
		return fmt.Sprintf("Turn slightly right%s", onStreet)
	case pkg.MANEUVER_TURN_LEFT:
		return fmt.Sprintf("Turn left%s", onStreet)
	case pkg.MANEUVER_TURN_RIGHT:
		return fmt.Sprintf("Turn right%s", onStreet)
	case pkg.MANEUVER_TURN_SHARP_LEFT:
		return fmt.Sprintf("Turn sharply left%s", onStreet)
	case pkg.MANEUVER_TURN_SHARP_RIGHT:
		return fmt.Sprintf("Turn sharply right%s", onStreet)
	case pkg.MANEUVER_U_TURN:
		return "Make a U-turn"
	}
	return "Continue"
}
