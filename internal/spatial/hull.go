package spatial

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"
)

// Geometry types of a person-day hull.
const (
	GeomPoint      = "Point"
	GeomLineString = "LineString"
	GeomPolygon    = "Polygon"
)

// ConvexHull returns the convex hull of points in counter-clockwise order
// using the monotone chain algorithm. Duplicate points collapse, so a day
// spent at one place yields a single point and two distinct places a
// two-point chain.
func ConvexHull(points []r2.Point) []r2.Point {
	pts := make([]r2.Point, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	// Dedupe after sorting; collinearity pruning below needs distinct points.
	uniq := pts[:0]
	for i, p := range pts {
		if i == 0 || p != uniq[len(uniq)-1] {
			uniq = append(uniq, p)
		}
	}
	pts = uniq

	if len(pts) <= 2 {
		return pts
	}

	cross := func(o, a, b r2.Point) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	var lower []r2.Point
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	var upper []r2.Point
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// GeometryType classifies a hull by its vertex count.
func GeometryType(hull []r2.Point) string {
	switch {
	case len(hull) <= 1:
		return GeomPoint
	case len(hull) == 2:
		return GeomLineString
	default:
		return GeomPolygon
	}
}

// HullLength is the length of a two-point hull, the ring perimeter of a
// polygon hull and zero for a point.
func HullLength(hull []r2.Point) float64 {
	switch GeometryType(hull) {
	case GeomPoint:
		return 0
	case GeomLineString:
		return hull[1].Sub(hull[0]).Norm()
	}
	var total float64
	for i := range hull {
		j := (i + 1) % len(hull)
		total += hull[j].Sub(hull[i]).Norm()
	}
	return total
}

// HullArea is the shoelace area of a polygon hull; points and lines have
// zero area.
func HullArea(hull []r2.Point) float64 {
	if len(hull) < 3 {
		return 0
	}
	var sum float64
	for i := range hull {
		j := (i + 1) % len(hull)
		sum += hull[i].X*hull[j].Y - hull[j].X*hull[i].Y
	}
	return math.Abs(sum) / 2
}

// BufferedHullArea is the area of the hull grown by buffer meters. For a
// convex polygon the buffered region is the Minkowski sum: the polygon, a
// strip along each edge and a full disc at the corners.
func BufferedHullArea(hull []r2.Point, buffer float64) float64 {
	switch GeometryType(hull) {
	case GeomPoint:
		return math.Pi * buffer * buffer
	case GeomLineString:
		return 2*HullLength(hull)*buffer + math.Pi*buffer*buffer
	}
	return HullArea(hull) + HullLength(hull)*buffer + math.Pi*buffer*buffer
}
