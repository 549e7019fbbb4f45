// Package geom holds the integer cell geometry shared by the menu engine.
package geom

import "fmt"

// Point is a cell coordinate.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// In reports whether p lies inside r.
func (p Point) In(r Rect) bool {
	return r.Contains(p)
}

// DistSq returns the squared euclidean distance between p and q.
func (p Point) DistSq(q Point) int {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Rect is a half-open rectangle: Min is inclusive, Max is exclusive.
type Rect struct {
	Min, Max Point
}

// R builds a rectangle from its origin and size.
func R(x, y, w, h int) Rect {
	return Rect{Min: Point{X: x, Y: y}, Max: Point{X: x + w, Y: y + h}}
}

// Dx returns the width of r.
func (r Rect) Dx() int { return r.Max.X - r.Min.X }

// Dy returns the height of r.
func (r Rect) Dy() int { return r.Max.Y - r.Min.Y }

// Empty reports whether r contains no cells.
func (r Rect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Add returns r translated by p.
func (r Rect) Add(p Point) Rect {
	return Rect{Min: r.Min.Add(p), Max: r.Max.Add(p)}
}

// Sub returns r translated by -p.
func (r Rect) Sub(p Point) Rect {
	return Rect{Min: r.Min.Sub(p), Max: r.Max.Sub(p)}
}

// Inset shrinks r by n cells on every side. Negative n grows it.
func (r Rect) Inset(n int) Rect {
	out := Rect{Min: Point{X: r.Min.X + n, Y: r.Min.Y + n}, Max: Point{X: r.Max.X - n, Y: r.Max.Y - n}}
	if out.Min.X > out.Max.X {
		mid := (r.Min.X + r.Max.X) / 2
		out.Min.X, out.Max.X = mid, mid
	}
	if out.Min.Y > out.Max.Y {
		mid := (r.Min.Y + r.Max.Y) / 2
		out.Min.Y, out.Max.Y = mid, mid
	}
	return out
}

// Union returns the smallest rectangle containing r and s. Empty
// rectangles are ignored.
func (r Rect) Union(s Rect) Rect {
	if r.Empty() {
		return s
	}
	if s.Empty() {
		return r
	}
	return Rect{
		Min: Point{X: min(r.Min.X, s.Min.X), Y: min(r.Min.Y, s.Min.Y)},
		Max: Point{X: max(r.Max.X, s.Max.X), Y: max(r.Max.Y, s.Max.Y)},
	}
}

// Intersect returns the largest rectangle contained by both r and s.
func (r Rect) Intersect(s Rect) Rect {
	out := Rect{
		Min: Point{X: max(r.Min.X, s.Min.X), Y: max(r.Min.Y, s.Min.Y)},
		Max: Point{X: min(r.Max.X, s.Max.X), Y: min(r.Max.Y, s.Max.Y)},
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}

// Clamp moves r inside bounds without resizing it, unless r is larger than
// bounds, in which case it is aligned to bounds.Min on that axis.
func (r Rect) Clamp(bounds Rect) Rect {
	dx, dy := 0, 0
	if r.Max.X > bounds.Max.X {
		dx = bounds.Max.X - r.Max.X
	}
	if r.Min.X+dx < bounds.Min.X {
		dx = bounds.Min.X - r.Min.X
	}
	if r.Max.Y > bounds.Max.Y {
		dy = bounds.Max.Y - r.Max.Y
	}
	if r.Min.Y+dy < bounds.Min.Y {
		dy = bounds.Min.Y - r.Min.Y
	}
	return r.Add(Point{X: dx, Y: dy})
}

func (r Rect) String() string {
	return fmt.Sprintf("%v-%v", r.Min, r.Max)
}

// Triangle is used for the diagonal navigation tolerance regions.
type Triangle struct {
	A, B, C Point
}

// Contains reports whether p lies inside t or on its edges. Degenerate
// triangles contain nothing.
func (t Triangle) Contains(p Point) bool {
	d1 := cross(t.A, t.B, p)
	d2 := cross(t.B, t.C, p)
	d3 := cross(t.C, t.A, p)
	if cross(t.A, t.B, t.C) == 0 {
		return false
	}
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func cross(a, b, p Point) int {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}
