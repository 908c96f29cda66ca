// Package hull computes the outline drawn around a group of positioned nodes.
package hull

import (
	"sort"
)

// Shape of a node as drawn by the layout layer
type Shape int

const (
	ShapeRect Shape = iota
	ShapeCircle
)

// Bounds is the box a node occupies
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Shape  Shape   `json:"shape"`
}

// Point is a hull input point. Radius is added to the padding around it.
type Point struct {
	X      float64
	Y      float64
	Radius float64
}

// Points turns node bounds into hull points: one per circle (its center and
// radius) and the four corners of every rectangle
func Points(children []Bounds) []Point {
	points := make([]Point, 0, len(children)*4)
	for _, c := range children {
		if c.Shape == ShapeCircle {
			points = append(points, Point{
				X:      c.X + c.Width/2,
				Y:      c.Y + c.Height/2,
				Radius: max(c.Width, c.Height) / 2,
			})
			continue
		}
		points = append(points,
			Point{X: c.X, Y: c.Y},
			Point{X: c.X + c.Width, Y: c.Y},
			Point{X: c.X, Y: c.Y + c.Height},
			Point{X: c.X + c.Width, Y: c.Y + c.Height},
		)
	}
	return points
}

// ConvexHull returns the hull of points in counter-clockwise order (y up)
// starting from the leftmost point. Collinear points are dropped;
// coincident points keep the largest radius.
func ConvexHull(points []Point) []Point {
	pts := dedupe(points)
	if len(pts) < 3 {
		return pts
	}

	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	// Andrew's monotone chain
	hull := make([]Point, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

func cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func dedupe(points []Point) []Point {
	type key struct{ x, y float64 }
	index := make(map[key]int, len(points))
	out := make([]Point, 0, len(points))
	for _, p := range points {
		k := key{p.X, p.Y}
		if i, ok := index[k]; ok {
			out[i].Radius = max(out[i].Radius, p.Radius)
			continue
		}
		index[k] = len(out)
		out = append(out, p)
	}
	return out
}

// MaxPadding collapses a padding list (one value, vertical/horizontal or
// top/right/bottom/left) into the largest value, never below zero
func MaxPadding(padding ...float64) float64 {
	m := 0.0
	for _, p := range padding {
		m = max(m, p)
	}
	return m
}

// ComputePath returns the outline around children expanded by padding.
// It reports false when there is nothing to draw.
func ComputePath(children []Bounds, padding float64) (string, bool) {
	points := Points(children)
	if len(points) == 0 {
		return "", false
	}
	return PathFromPoints(points, padding), true
}
