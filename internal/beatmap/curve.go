package beatmap

import (
	"math"
	"sort"

	"github.com/vovakirdan/tui-osu/internal/core"
)

const (
	bezierSteps = 50
	arcSteps    = 64
)

// Curve is a slider path flattened into a polyline and parameterised by arc
// length, so PointAt(0.5) is always halfway along the path.
type Curve struct {
	points []core.Vec2
	cum    []float64 // cumulative length at each point
}

// NewCurve builds the path of a slider starting at head. When pixelLength is
// positive the path is cut (or extended in a straight line) to that length.
func NewCurve(head core.Vec2, typ CurveType, controls []core.Vec2, pixelLength float64) *Curve {
	all := make([]core.Vec2, 0, len(controls)+1)
	all = append(all, head)
	all = append(all, controls...)

	var pts []core.Vec2
	switch {
	case len(all) < 2:
		pts = all
	case typ == CurveLinear:
		pts = all
	case typ == CurvePerfect && len(all) == 3:
		if arc, ok := circleArc(all[0], all[1], all[2], pixelLength); ok {
			pts = arc
		} else {
			pts = bezierPath(all)
		}
	case typ == CurveCatmull:
		pts = catmullPath(all)
	default:
		pts = bezierPath(all)
	}

	c := &Curve{}
	c.build(pts)
	if pixelLength > 0 {
		c.fitLength(pixelLength)
	}
	return c
}

// Length returns the arc length of the path.
func (c *Curve) Length() float64 {
	if len(c.cum) == 0 {
		return 0
	}
	return c.cum[len(c.cum)-1]
}

// PointAt returns the position at fraction t of the path's length.
func (c *Curve) PointAt(t float64) core.Vec2 {
	if len(c.points) == 0 {
		return core.Vec2{}
	}
	length := c.Length()
	if length == 0 || len(c.points) == 1 {
		return c.points[0]
	}
	target := core.ClampF(t, 0, 1) * length

	i := sort.SearchFloat64s(c.cum, target)
	if i <= 0 {
		return c.points[0]
	}
	if i >= len(c.points) {
		return c.points[len(c.points)-1]
	}
	seg := c.cum[i] - c.cum[i-1]
	if seg == 0 {
		return c.points[i]
	}
	return core.Lerp(c.points[i-1], c.points[i], (target-c.cum[i-1])/seg)
}

// Points returns the flattened polyline.
func (c *Curve) Points() []core.Vec2 {
	return c.points
}

func (c *Curve) build(pts []core.Vec2) {
	c.points = make([]core.Vec2, 0, len(pts))
	c.cum = make([]float64, 0, len(pts))
	total := 0.0
	for i, p := range pts {
		if i > 0 {
			d := p.Dist(c.points[len(c.points)-1])
			if d == 0 {
				continue
			}
			total += d
		}
		c.points = append(c.points, p)
		c.cum = append(c.cum, total)
	}
}

// fitLength truncates the path to length, or extends its last segment.
func (c *Curve) fitLength(length float64) {
	n := len(c.points)
	if n < 2 {
		return
	}
	total := c.Length()
	if total < length {
		last, prev := c.points[n-1], c.points[n-2]
		dir := last.Sub(prev)
		seg := dir.Len()
		c.points = append(c.points, last.Add(dir.Scale((length-total)/seg)))
		c.cum = append(c.cum, length)
		return
	}
	for i := 1; i < n; i++ {
		if c.cum[i] < length {
			continue
		}
		seg := c.cum[i] - c.cum[i-1]
		end := core.Lerp(c.points[i-1], c.points[i], (length-c.cum[i-1])/seg)
		c.points = append(c.points[:i], end)
		c.cum = append(c.cum[:i], length)
		return
	}
}

// bezierPath splits control points into segments at repeated ("red")
// anchors and samples each segment.
func bezierPath(all []core.Vec2) []core.Vec2 {
	var out []core.Vec2
	start := 0
	for i := 1; i <= len(all); i++ {
		if i < len(all) && all[i] != all[i-1] {
			continue
		}
		seg := all[start:i]
		if len(seg) > 1 {
			out = append(out, sampleBezier(seg)...)
		} else if len(seg) == 1 {
			out = append(out, seg[0])
		}
		start = i
	}
	return out
}

func sampleBezier(cps []core.Vec2) []core.Vec2 {
	if len(cps) == 2 {
		return []core.Vec2{cps[0], cps[1]}
	}
	out := make([]core.Vec2, 0, bezierSteps+1)
	work := make([]core.Vec2, len(cps))
	for s := 0; s <= bezierSteps; s++ {
		t := float64(s) / bezierSteps
		copy(work, cps)
		for k := len(work) - 1; k > 0; k-- {
			for j := 0; j < k; j++ {
				work[j] = core.Lerp(work[j], work[j+1], t)
			}
		}
		out = append(out, work[0])
	}
	return out
}

func catmullPath(all []core.Vec2) []core.Vec2 {
	out := make([]core.Vec2, 0, (len(all)-1)*bezierSteps+1)
	at := func(i int) core.Vec2 {
		return all[core.Clamp(i, 0, len(all)-1)]
	}
	for i := 0; i < len(all)-1; i++ {
		p0, p1, p2, p3 := at(i-1), at(i), at(i+1), at(i+2)
		for s := 0; s < bezierSteps; s++ {
			t := float64(s) / bezierSteps
			t2, t3 := t*t, t*t*t
			x := 0.5 * (2*p1.X + (-p0.X+p2.X)*t + (2*p0.X-5*p1.X+4*p2.X-p3.X)*t2 + (-p0.X+3*p1.X-3*p2.X+p3.X)*t3)
			y := 0.5 * (2*p1.Y + (-p0.Y+p2.Y)*t + (2*p0.Y-5*p1.Y+4*p2.Y-p3.Y)*t2 + (-p0.Y+3*p1.Y-3*p2.Y+p3.Y)*t3)
			out = append(out, core.V(x, y))
		}
	}
	return append(out, all[len(all)-1])
}

// circleArc samples the arc through a, b and c. When length is positive the
// sweep follows the arc's direction for exactly that distance.
func circleArc(a, b, c core.Vec2, length float64) ([]core.Vec2, bool) {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < 1e-6 {
		return nil, false
	}
	aSq, bSq, cSq := a.X*a.X+a.Y*a.Y, b.X*b.X+b.Y*b.Y, c.X*c.X+c.Y*c.Y
	center := core.V(
		(aSq*(b.Y-c.Y)+bSq*(c.Y-a.Y)+cSq*(a.Y-b.Y))/d,
		(aSq*(c.X-b.X)+bSq*(a.X-c.X)+cSq*(b.X-a.X))/d,
	)
	radius := a.Dist(center)
	if radius == 0 {
		return nil, false
	}

	start := math.Atan2(a.Y-center.Y, a.X-center.X)
	end := math.Atan2(c.Y-center.Y, c.X-center.X)
	cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
	if cross > 0 {
		for end < start {
			end += 2 * math.Pi
		}
	} else {
		for end > start {
			end -= 2 * math.Pi
		}
	}
	sweep := end - start
	if length > 0 {
		sweep = math.Copysign(length/radius, sweep)
	}

	out := make([]core.Vec2, 0, arcSteps+1)
	for s := 0; s <= arcSteps; s++ {
		ang := start + sweep*float64(s)/arcSteps
		out = append(out, core.V(center.X+radius*math.Cos(ang), center.Y+radius*math.Sin(ang)))
	}
	return out, true
}
