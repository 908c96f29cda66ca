package hull

import (
	"math"
	"strconv"
	"strings"
)

const epsilon = 1e-9

// disc is a hull point grown by its radius and the padding
type disc struct {
	x, y, r float64
}

// PathFromPoints draws a closed SVG path around points, keeping Radius+padding
// of clearance around each one. Every hull edge is offset outward and the
// offset edges are joined by arcs around the points, so one point gives a
// circle and two a capsule.
func PathFromPoints(points []Point, padding float64) string {
	if uniformRadius(points) {
		points = ConvexHull(points)
	}

	discs := make([]disc, len(points))
	for i, p := range points {
		discs[i] = disc{x: p.X, y: p.Y, r: max(p.Radius+padding, 0)}
	}

	hull := discHull(discs)
	switch len(hull) {
	case 0:
		return ""
	case 1:
		return circlePath(hull[0])
	}
	return tangentPath(hull)
}

func uniformRadius(points []Point) bool {
	for _, p := range points {
		if p.Radius != points[0].Radius {
			return false
		}
	}
	return true
}

// discHull wraps the discs in positive orientation (y up counter-clockwise),
// starting from the disc reaching furthest left. Discs inside another disc
// are dropped; discs touching a hull edge between two others are skipped.
func discHull(discs []disc) []disc {
	discs = dropContained(discs)
	if len(discs) < 2 {
		return discs
	}

	start := 0
	for i, d := range discs {
		s := discs[start]
		if d.x-d.r < s.x-s.r || (d.x-d.r == s.x-s.r && d.y < s.y) {
			start = i
		}
	}

	hull := []disc{discs[start]}
	cur := start
	for range discs {
		next, farthest := -1, -1.0
		for j := range discs {
			if j == cur {
				continue
			}
			nx, ny, ok := tangent(discs[cur], discs[j])
			if !ok || !supports(discs, discs[cur], nx, ny) {
				continue
			}
			if d := math.Hypot(discs[j].x-discs[cur].x, discs[j].y-discs[cur].y); d > farthest {
				next, farthest = j, d
			}
		}
		if next < 0 || next == start {
			break
		}
		hull = append(hull, discs[next])
		cur = next
	}
	return hull
}

func dropContained(discs []disc) []disc {
	out := make([]disc, 0, len(discs))
	for i, d := range discs {
		inside := false
		for j, o := range discs {
			if i == j {
				continue
			}
			reach := math.Hypot(d.x-o.x, d.y-o.y) + d.r
			// equal discs keep the first one
			if reach < o.r-epsilon || (reach <= o.r+epsilon && (d.r < o.r || j < i)) {
				inside = true
				break
			}
		}
		if !inside {
			out = append(out, d)
		}
	}
	return out
}

// tangent returns the outward unit normal of the outer tangent running from
// a to b with the discs on its left. It fails when one disc holds the other.
func tangent(a, b disc) (float64, float64, bool) {
	dx, dy := b.x-a.x, b.y-a.y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return 0, 0, false
	}
	ux, uy := dx/l, dy/l
	vx, vy := uy, -ux

	along := (a.r - b.r) / l
	if math.Abs(along) >= 1 {
		return 0, 0, false
	}
	across := math.Sqrt(1 - along*along)
	return along*ux + across*vx, along*uy + across*vy, true
}

// supports reports whether the line tangent to from with normal (nx, ny)
// keeps every disc on its inner side
func supports(discs []disc, from disc, nx, ny float64) bool {
	h := nx*from.x + ny*from.y + from.r
	tolerance := 1e-7 * (1 + math.Abs(h))
	for _, d := range discs {
		if nx*d.x+ny*d.y+d.r > h+tolerance {
			return false
		}
	}
	return true
}

// tangentPath joins the outer tangents of consecutive hull discs with arcs
// around each disc
func tangentPath(hull []disc) string {
	n := len(hull)
	normals := make([][2]float64, n)
	for i := range hull {
		nx, ny, _ := tangent(hull[i], hull[(i+1)%n])
		normals[i] = [2]float64{nx, ny}
	}

	var b pathBuilder
	first := hull[0]
	b.cmd("M", first.x+first.r*normals[0][0], first.y+first.r*normals[0][1])
	for i := range n {
		d := hull[(i+1)%n]
		in, out := normals[i], normals[(i+1)%n]
		b.cmd("L", d.x+d.r*in[0], d.y+d.r*in[1])

		angle := turn(in, out)
		if d.r == 0 || angle == 0 {
			continue
		}
		large := 0.0
		if angle > math.Pi {
			large = 1
		}
		b.cmd("A", d.r, d.r, 0, large, 1, d.x+d.r*out[0], d.y+d.r*out[1])
	}
	b.close()
	return b.String()
}

// turn is the positive rotation from normal a to normal b, in [0, 2π)
func turn(a, b [2]float64) float64 {
	angle := math.Atan2(a[0]*b[1]-a[1]*b[0], a[0]*b[0]+a[1]*b[1])
	if angle < 0 {
		angle += 2 * math.Pi
	}
	if angle < epsilon || angle > 2*math.Pi-epsilon {
		return 0
	}
	return angle
}

func circlePath(d disc) string {
	var b pathBuilder
	b.cmd("M", d.x-d.r, d.y)
	b.cmd("a", d.r, d.r, 0, 1, 0, 2*d.r, 0)
	b.cmd("a", d.r, d.r, 0, 1, 0, -2*d.r, 0)
	b.close()
	return b.String()
}

type pathBuilder struct {
	strings.Builder
}

func (b *pathBuilder) cmd(op string, values ...float64) {
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(op)
	for _, v := range values {
		b.WriteByte(' ')
		b.WriteString(formatNumber(v))
	}
}

func (b *pathBuilder) close() {
	b.WriteString(" Z")
}

func formatNumber(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
