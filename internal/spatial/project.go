// Package spatial computes the per person-day activity-space geometry:
// centroid decoding, planar projection, convex hulls and standard
// deviational ellipses.
package spatial

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/twpayne/go-polyline"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
	MetersPerMile     = 1609.344
)

// LatLng is a geographic coordinate in degrees.
type LatLng struct {
	Lat float64
	Lng float64
}

// DecodeCentroid decodes the first coordinate of a polyline-encoded
// centroid column. The literal string "None" and empty or malformed values
// report ok=false and are skipped by callers.
func DecodeCentroid(encoded string) (LatLng, bool) {
	if encoded == "" || encoded == "None" {
		return LatLng{}, false
	}
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil || len(coords) == 0 {
		return LatLng{}, false
	}
	return LatLng{Lat: coords[0][0], Lng: coords[0][1]}, true
}

// Project maps coordinates onto a local planar frame in meters using an
// equirectangular projection about the group's mean center. Distances are
// accurate for the city-scale extents a person-day covers.
func Project(coords []LatLng) []r2.Point {
	if len(coords) == 0 {
		return nil
	}

	var sumLat, sumLng float64
	for _, c := range coords {
		sumLat += c.Lat
		sumLng += c.Lng
	}
	refLat := sumLat / float64(len(coords)) * math.Pi / 180
	refLng := sumLng / float64(len(coords))
	cosRef := math.Cos(refLat)

	points := make([]r2.Point, len(coords))
	for i, c := range coords {
		points[i] = r2.Point{
			X: (c.Lng - refLng) * math.Pi / 180 * EarthRadiusMeters * cosRef,
			Y: (c.Lat*math.Pi/180 - refLat) * EarthRadiusMeters,
		}
	}
	return points
}

// MeanCenter is the arithmetic mean of projected points.
func MeanCenter(points []r2.Point) r2.Point {
	if len(points) == 0 {
		return r2.Point{}
	}
	var sum r2.Point
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(points)))
}
