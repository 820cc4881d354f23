package models

// ConvexHullRow is the per person-day convex hull of activity centroids.
// Areas are buffered and reported in square miles; a single-point day has
// zero area.
type ConvexHullRow struct {
	UserID       string  `csv:"user_id" db:"user_id"`
	StartDate    Date    `csv:"start_date" db:"start_date"`
	GeometryType string  `csv:"geometry_type" db:"geometry_type"` // Point, LineString, Polygon
	LengthMeter  float64 `csv:"len_meter" db:"len_meter"`
	AreaMeter    float64 `csv:"area_meter" db:"area_meter"`
	AreaMile     float64 `csv:"area_mile" db:"area_mile"`
}

// SDERow is the per person-day standard deviational ellipse.
type SDERow struct {
	UserID      string  `csv:"user_id" db:"user_id"`
	StartDate   Date    `csv:"start_date" db:"start_date"`
	SxMeter     float64 `csv:"sx_meter" db:"sx_meter"`
	SyMeter     float64 `csv:"sy_meter" db:"sy_meter"`
	Theta       float64 `csv:"theta" db:"theta"`
	ThetaDegree float64 `csv:"theta_degree" db:"theta_degree"`
	SxMile      float64 `csv:"sx_mile" db:"sx_mile"`
	SyMile      float64 `csv:"sy_mile" db:"sy_mile"`
	AreaMile    float64 `csv:"area_mile" db:"area_mile"`
}
