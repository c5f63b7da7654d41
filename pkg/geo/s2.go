package geo

import (
	"github.com/golang/geo/s2"
)

// ProjectPointToLineCoord project snap onto the geodesic segment (pointA, pointB).
func ProjectPointToLineCoord(pointA Coordinate, pointB Coordinate,
	snap Coordinate) Coordinate {
	pointAS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(pointA.Lat, pointA.Lon))
	pointBS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(pointB.Lat, pointB.Lon))
	snapS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(snap.Lat, snap.Lon))
	projection := s2.Project(snapS2, pointAS2, pointBS2)
	projectLatLng := s2.LatLngFromPoint(projection)
	return Coordinate{Lat: projectLatLng.Lat.Degrees(), Lon: projectLatLng.Lng.Degrees()}
}

// PointLinePerpendicularDistance distance (meter) from snap to its projection
// on segment (pointA, pointB).
func PointLinePerpendicularDistance(pointA Coordinate, pointB Coordinate,
	snap Coordinate) float64 {
	projectionPoint := ProjectPointToLineCoord(pointA, pointB, snap)

	return CalculateHaversineDistance(snap.GetLat(), snap.GetLon(),
		projectionPoint.GetLat(), projectionPoint.GetLon())
}
