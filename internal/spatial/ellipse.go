package spatial

import (
	"math"

	"github.com/golang/geo/r2"
)

// Ellipse is a standard deviational ellipse: the semi-axes in meters and
// the rotation of the major axis in radians.
type Ellipse struct {
	Sx    float64
	Sy    float64
	Theta float64
}

// DeviationalEllipse fits the standard deviational ellipse of projected
// points. The axis lengths use n-2 degrees of freedom, so the fit needs at
// least three points; degenerate person-days are handled by the caller via
// the hull geometry type.
func DeviationalEllipse(points []r2.Point) Ellipse {
	n := len(points)
	if n < 3 {
		return Ellipse{}
	}

	center := MeanCenter(points)
	var xss, yss, cv float64
	for _, p := range points {
		xd := p.X - center.X
		yd := p.Y - center.Y
		xss += xd * xd
		yss += yd * yd
		cv += xd * yd
	}

	num := (xss - yss) + math.Sqrt((xss-yss)*(xss-yss)+4*cv*cv)
	var theta float64
	switch {
	case cv != 0:
		theta = math.Atan(num / (2 * cv))
	case num > 0:
		theta = math.Pi / 2
	}

	cos, sin := math.Cos(theta), math.Sin(theta)
	var sdx, sdy float64
	for _, p := range points {
		xd := p.X - center.X
		yd := p.Y - center.Y
		dx := xd*cos - yd*sin
		dy := xd*sin + yd*cos
		sdx += 2 * dx * dx
		sdy += 2 * dy * dy
	}
	dof := float64(n - 2)

	return Ellipse{
		Sx:    math.Sqrt(sdx / dof),
		Sy:    math.Sqrt(sdy / dof),
		Theta: theta,
	}
}
