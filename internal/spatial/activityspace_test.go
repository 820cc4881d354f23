package spatial

import (
	"math"
	"testing"
	"time"

	"github.com/twpayne/go-polyline"

	"github.com/umn-mobility/daynamica-go/internal/models"
)

func TestDecodeCentroid(t *testing.T) {
	encoded := string(polyline.EncodeCoords([][]float64{{44.97, -93.26}}))
	coord, ok := DecodeCentroid(encoded)
	if !ok {
		t.Fatalf("decode failed for %q", encoded)
	}
	if math.Abs(coord.Lat-44.97) > 1e-5 || math.Abs(coord.Lng+93.26) > 1e-5 {
		t.Errorf("decoded %+v", coord)
	}

	for _, bad := range []string{"", "None", "\xff\xff"} {
		if _, ok := DecodeCentroid(bad); ok {
			t.Errorf("%q must not decode", bad)
		}
	}
}

func TestProjectDistances(t *testing.T) {
	// Two points ~1112m apart along a meridian (0.01 degrees of latitude).
	coords := []LatLng{
		{Lat: 44.97, Lng: -93.26},
		{Lat: 44.98, Lng: -93.26},
	}
	points := Project(coords)
	if len(points) != 2 {
		t.Fatalf("expected 2 projected points")
	}
	dist := points[1].Sub(points[0]).Norm()
	if math.Abs(dist-1112) > 5 {
		t.Errorf("projected distance = %f m, want ~1112", dist)
	}
}

func testDate(t *testing.T, s string) models.Date {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return models.NewDate(parsed)
}

func TestActivitySpacesSinglePointDay(t *testing.T) {
	points := []ActivityPoint{
		{UserID: "u1", Date: testDate(t, "2023-06-05"), Coord: LatLng{Lat: 44.97, Lng: -93.26}},
	}
	hulls, sdes := ActivitySpaces(points, 400)
	if len(hulls) != 1 || len(sdes) != 1 {
		t.Fatalf("expected one row each, got %d hulls %d sdes", len(hulls), len(sdes))
	}
	if hulls[0].GeometryType != GeomPoint || hulls[0].AreaMile != 0 {
		t.Errorf("single-point day must have zero area: %+v", hulls[0])
	}
	if sdes[0].SxMeter != 0 || sdes[0].SyMeter != 0 || sdes[0].AreaMile != 0 {
		t.Errorf("single-point day must have zero axes: %+v", sdes[0])
	}
}

func TestActivitySpacesTwoPointDay(t *testing.T) {
	points := []ActivityPoint{
		{UserID: "u1", Date: testDate(t, "2023-06-05"), Coord: LatLng{Lat: 44.97, Lng: -93.26}},
		{UserID: "u1", Date: testDate(t, "2023-06-05"), Coord: LatLng{Lat: 44.98, Lng: -93.26}},
	}
	buffer := 400.0
	hulls, sdes := ActivitySpaces(points, buffer)
	if hulls[0].GeometryType != GeomLineString {
		t.Fatalf("two distinct places must form a line, got %s", hulls[0].GeometryType)
	}
	wantArea := hulls[0].LengthMeter * buffer / (MetersPerMile * MetersPerMile)
	if math.Abs(hulls[0].AreaMile-wantArea) > 1e-9 {
		t.Errorf("line area = %f, want length x buffer = %f", hulls[0].AreaMile, wantArea)
	}
	if math.Abs(sdes[0].SxMeter-hulls[0].LengthMeter) > 1e-9 || sdes[0].SyMeter != buffer {
		t.Errorf("line ellipse must use travel distance and buffer: %+v", sdes[0])
	}
	wantEllipse := math.Pi * sdes[0].SxMile * sdes[0].SyMile
	if math.Abs(sdes[0].AreaMile-wantEllipse) > 1e-12 {
		t.Errorf("ellipse area = %f, want %f", sdes[0].AreaMile, wantEllipse)
	}
}

func TestActivitySpacesGroupsPersonDays(t *testing.T) {
	d1 := testDate(t, "2023-06-05")
	d2 := testDate(t, "2023-06-06")
	points := []ActivityPoint{
		{UserID: "u2", Date: d1, Coord: LatLng{Lat: 44.97, Lng: -93.26}},
		{UserID: "u1", Date: d2, Coord: LatLng{Lat: 44.97, Lng: -93.26}},
		{UserID: "u1", Date: d1, Coord: LatLng{Lat: 44.97, Lng: -93.26}},
	}
	hulls, _ := ActivitySpaces(points, 400)
	if len(hulls) != 3 {
		t.Fatalf("expected 3 person-days, got %d", len(hulls))
	}
	if hulls[0].UserID != "u1" || hulls[0].StartDate.String() != "2023-06-05" {
		t.Errorf("rows must sort by (person, date): %+v", hulls[0])
	}
	if hulls[2].UserID != "u2" {
		t.Errorf("u2 must come last: %+v", hulls[2])
	}
}

func TestActivitySpacesPolygonDay(t *testing.T) {
	d := testDate(t, "2023-06-05")
	points := []ActivityPoint{
		{UserID: "u1", Date: d, Coord: LatLng{Lat: 44.97, Lng: -93.26}},
		{UserID: "u1", Date: d, Coord: LatLng{Lat: 44.98, Lng: -93.26}},
		{UserID: "u1", Date: d, Coord: LatLng{Lat: 44.975, Lng: -93.25}},
	}
	hulls, sdes := ActivitySpaces(points, 400)
	if hulls[0].GeometryType != GeomPolygon {
		t.Fatalf("three spread places must form a polygon, got %s", hulls[0].GeometryType)
	}
	if hulls[0].AreaMile <= 0 {
		t.Errorf("polygon area must be positive: %+v", hulls[0])
	}
	if sdes[0].SxMeter <= 0 || sdes[0].SyMeter <= 0 {
		t.Errorf("polygon day must have positive axes: %+v", sdes[0])
	}
}
