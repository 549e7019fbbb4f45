package tracking

import (
	"time"

	"github.com/atomicstack/menutrack/internal/geom"
)

// navArea is the pair of triangles spanned by the pointer and the near
// edge of a freshly opened submenu. While the pointer stays inside, the
// parent menu does not hit test its own items.
type navArea struct {
	a, b    geom.Triangle
	expires time.Time
	set     bool
}

func newNavArea(p geom.Point, sub geom.Rect, expires time.Time) navArea {
	area := navArea{expires: expires, set: true}
	switch {
	case sub.Min.X > p.X:
		x := sub.Min.X
		area.a = geom.Triangle{A: p, B: geom.Pt(x, sub.Min.Y), C: geom.Pt(x, p.Y)}
		area.b = geom.Triangle{A: p, B: geom.Pt(x, p.Y), C: geom.Pt(x, sub.Max.Y)}
	case sub.Max.X <= p.X:
		x := sub.Max.X - 1
		area.a = geom.Triangle{A: p, B: geom.Pt(x, sub.Min.Y), C: geom.Pt(x, p.Y)}
		area.b = geom.Triangle{A: p, B: geom.Pt(x, p.Y), C: geom.Pt(x, sub.Max.Y)}
	default:
		y := sub.Min.Y
		if sub.Min.Y <= p.Y {
			y = sub.Max.Y - 1
		}
		area.a = geom.Triangle{A: p, B: geom.Pt(sub.Min.X, y), C: geom.Pt(p.X, y)}
		area.b = geom.Triangle{A: p, B: geom.Pt(p.X, y), C: geom.Pt(sub.Max.X, y)}
	}
	return area
}

func (n navArea) active(now time.Time) bool {
	return n.set && now.Before(n.expires)
}

func (n navArea) contains(p geom.Point) bool {
	return n.a.Contains(p) || n.b.Contains(p)
}

// rectDistance is the chessboard distance from p to r, zero inside.
func rectDistance(p geom.Point, r geom.Rect) int {
	dx := max(r.Min.X-p.X, 0, p.X-(r.Max.X-1))
	dy := max(r.Min.Y-p.Y, 0, p.Y-(r.Max.Y-1))
	return max(dx, dy)
}
