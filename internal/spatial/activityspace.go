package spatial

import (
	"log"
	"math"
	"sort"

	"github.com/umn-mobility/daynamica-go/internal/models"
)

// ActivityPoint is one decoded activity centroid assigned to a person-day.
type ActivityPoint struct {
	UserID string
	Date   models.Date
	Coord  LatLng
}

// ActivitySpaces computes, per person-day, the buffered convex hull and the
// standard deviational ellipse of the activity centroids. Single-point days
// have zero hull area and zero axes; two-point days use the travel distance
// as the major axis and the buffer distance as the minor axis.
func ActivitySpaces(points []ActivityPoint, bufferMeters float64) ([]models.ConvexHullRow, []models.SDERow) {
	type groupKey struct {
		user string
		date string
	}
	groups := make(map[groupKey][]LatLng)
	dates := make(map[groupKey]models.Date)
	var keys []groupKey
	for _, p := range points {
		key := groupKey{p.UserID, p.Date.String()}
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
			dates[key] = p.Date
		}
		groups[key] = append(groups[key], p.Coord)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].user != keys[j].user {
			return keys[i].user < keys[j].user
		}
		return keys[i].date < keys[j].date
	})

	sqMetersPerSqMile := MetersPerMile * MetersPerMile
	hulls := make([]models.ConvexHullRow, 0, len(keys))
	sdes := make([]models.SDERow, 0, len(keys))
	for _, key := range keys {
		projected := Project(groups[key])
		hull := ConvexHull(projected)
		geomType := GeometryType(hull)
		length := HullLength(hull)

		var areaMeter float64
		switch geomType {
		case GeomPoint:
			areaMeter = 0
		case GeomLineString:
			areaMeter = length * bufferMeters
		default:
			areaMeter = BufferedHullArea(hull, bufferMeters)
		}
		hulls = append(hulls, models.ConvexHullRow{
			UserID:       key.user,
			StartDate:    dates[key],
			GeometryType: geomType,
			LengthMeter:  length,
			AreaMeter:    areaMeter,
			AreaMile:     areaMeter / sqMetersPerSqMile,
		})

		ell := DeviationalEllipse(projected)
		switch geomType {
		case GeomPoint:
			ell = Ellipse{}
		case GeomLineString:
			ell = Ellipse{Sx: length, Sy: bufferMeters}
		}
		sxMile := ell.Sx / MetersPerMile
		syMile := ell.Sy / MetersPerMile
		sdes = append(sdes, models.SDERow{
			UserID:      key.user,
			StartDate:   dates[key],
			SxMeter:     ell.Sx,
			SyMeter:     ell.Sy,
			Theta:       ell.Theta,
			ThetaDegree: ell.Theta * 180 / math.Pi,
			SxMile:      sxMile,
			SyMile:      syMile,
			AreaMile:    math.Pi * sxMile * syMile,
		})
	}

	log.Printf("[ActivitySpace] %d person-days from %d activity points", len(keys), len(points))
	return hulls, sdes
}
